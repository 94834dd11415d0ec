package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"baystate-scraper-runner/internal/settings"
)

func TestNewSQLiteDB_OpensAndMigrates(t *testing.T) {
	t.Parallel()

	store := settings.NewStore(t.TempDir())
	lc := fxtest.NewLifecycle(t)

	sqlDB, err := NewSQLiteDB(NewSQLiteDBParams{
		Lc:     lc,
		Store:  store,
		Logger: zap.NewNop().Sugar(),
	})
	require.NoError(t, err)

	lc.RequireStart()

	var n int
	require.NoError(t, sqlDB.GetContext(context.Background(), &n,
		`SELECT COUNT(*) FROM scrape_runs`))
	require.Zero(t, n)

	lc.RequireStop()
}
