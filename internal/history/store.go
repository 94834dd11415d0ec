// Package history persists a local record of scraper invocations so the
// GUI can show past runs without asking the coordinator.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"baystate-scraper-runner/db"
)

// ErrNotFound reports a run id with no corresponding row.
var ErrNotFound = errors.New("run not found")

const defaultListLimit = 50

// Run is one recorded scraper invocation.
type Run struct {
	ID            string  `db:"id" json:"id"`
	ScraperName   string  `db:"scraper_name" json:"scraper_name"`
	SKUCount      int     `db:"sku_count" json:"sku_count"`
	Success       bool    `db:"success" json:"success"`
	ProductsFound int     `db:"products_found" json:"products_found"`
	Error         *string `db:"error" json:"error"`
	StartedAtMs   int64   `db:"started_at_ms" json:"started_at_ms"`
	FinishedAtMs  *int64  `db:"finished_at_ms" json:"finished_at_ms"`
}

type Store struct {
	db *sqlx.DB

	// now is swappable in tests.
	now func() time.Time
}

func NewStore(sqlDB *sqlx.DB) *Store {
	return &Store{db: sqlDB, now: time.Now}
}

// RecordStart inserts a new in-flight run and returns it.
func (s *Store) RecordStart(ctx context.Context, scraperName string, skuCount int) (Run, error) {
	run := Run{
		ID:          uuid.NewString(),
		ScraperName: scraperName,
		SKUCount:    skuCount,
		StartedAtMs: s.now().UnixMilli(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scrape_runs (id, scraper_name, sku_count, success, products_found, started_at_ms)
		 VALUES (?, ?, ?, 0, 0, ?)`,
		run.ID, run.ScraperName, run.SKUCount, run.StartedAtMs,
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run start: %w", err)
	}
	return run, nil
}

// Finish marks a run as completed and returns the updated row.
func (s *Store) Finish(ctx context.Context, id string, success bool, productsFound int, runErr error) (Run, error) {
	return db.Tx(ctx, s.db, func(tx *sqlx.Tx) (Run, error) {
		var errText *string
		if runErr != nil {
			msg := runErr.Error()
			errText = &msg
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE scrape_runs
			 SET success = ?, products_found = ?, error = ?, finished_at_ms = ?
			 WHERE id = ?`,
			success, productsFound, errText, s.now().UnixMilli(), id,
		)
		if err != nil {
			return Run{}, fmt.Errorf("finish run: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return Run{}, ErrNotFound
		}

		var run Run
		if err := tx.GetContext(ctx, &run, `SELECT * FROM scrape_runs WHERE id = ?`, id); err != nil {
			return Run{}, fmt.Errorf("reload run: %w", err)
		}
		return run, nil
	})
}

// GetByID returns one run, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (Run, error) {
	var run Run
	err := s.db.GetContext(ctx, &run, `SELECT * FROM scrape_runs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRecent returns the most recently started runs, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	runs := []Run{}
	err := s.db.SelectContext(ctx, &runs,
		`SELECT * FROM scrape_runs ORDER BY started_at_ms DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}
