package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"baystate-scraper-runner/db/migrations"
	"baystate-scraper-runner/internal/settings"

	_ "modernc.org/sqlite"
)

type NewSQLiteDBParams struct {
	fx.In

	Lc     fx.Lifecycle
	Store  *settings.Store
	Logger *zap.SugaredLogger
}

// NewSQLiteDB opens the local run-history database under the app-data
// directory and migrates it to the latest schema on startup.
func NewSQLiteDB(p NewSQLiteDBParams) (*sqlx.DB, error) {
	path := p.Store.HistoryDBPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create app data dir: %w", err)
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// modernc sqlite is not safe for concurrent writers over one file.
	db.SetMaxOpenConns(1)

	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				_ = db.Close()
				return fmt.Errorf("ping history db: %w", err)
			}
			if err := MigrateUp(ctx, db); err != nil {
				_ = db.Close()
				return err
			}
			p.Logger.Infow("history_db_ready", "path", path)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})

	return db, nil
}

// MigrateUp applies the embedded goose migrations.
func MigrateUp(ctx context.Context, db *sqlx.DB) error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetBaseFS(migrations.FS)
	if err := goose.RunContext(ctx, "up", db.DB, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
