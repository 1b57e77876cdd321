// Package repositories opens the uploader's local SQLite journal.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/assetvault/internal/client/migrations"
	"github.com/dmitrijs2005/assetvault/internal/client/repositories/files"

	_ "modernc.org/sqlite"
)

var gooseUpContext = goose.UpContext

// Repositories bundles the journal database and its repositories.
type Repositories struct {
	DB      *sql.DB
	Pending files.Repository
}

// Close releases the database.
func (r *Repositories) Close() error {
	return r.DB.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return gooseUpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite database at dsn and applies migrations.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One writer avoids SQLITE_BUSY between concurrent transfers.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}

	return &Repositories{
		DB:      db,
		Pending: files.NewSQLiteRepository(db),
	}, nil
}
