package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"baystate-scraper-runner/db"

	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	sqlDB, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.MigrateUp(context.Background(), sqlDB))
	return NewStore(sqlDB)
}

func TestRecordStartFinish_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	started, err := store.RecordStart(ctx, "amazon", 12)
	require.NoError(t, err)
	require.NotEmpty(t, started.ID)
	require.Equal(t, "amazon", started.ScraperName)
	require.Equal(t, 12, started.SKUCount)

	finished, err := store.Finish(ctx, started.ID, true, 9, nil)
	require.NoError(t, err)
	require.True(t, finished.Success)
	require.Equal(t, 9, finished.ProductsFound)
	require.Nil(t, finished.Error)
	require.NotNil(t, finished.FinishedAtMs)

	got, err := store.GetByID(ctx, started.ID)
	require.NoError(t, err)
	require.Equal(t, finished, got)
}

func TestFinish_RecordsErrorText(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	started, err := store.RecordStart(ctx, "phillips", 1)
	require.NoError(t, err)

	finished, err := store.Finish(ctx, started.ID, false, 0, errors.New("sidecar exited: exit status 1"))
	require.NoError(t, err)
	require.False(t, finished.Success)
	require.NotNil(t, finished.Error)
	require.Contains(t, *finished.Error, "exit status 1")
}

func TestFinish_UnknownID(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Finish(context.Background(), "missing", true, 0, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetByID_Unknown(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListRecent_NewestFirstAndLimited(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 3; i++ {
		tick := base.Add(time.Duration(i) * time.Second)
		store.now = func() time.Time { return tick }
		_, err := store.RecordStart(ctx, "amazon", i+1)
		require.NoError(t, err)
	}

	runs, err := store.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, 3, runs[0].SKUCount)
	require.Equal(t, 2, runs[1].SKUCount)

	all, err := store.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
}
