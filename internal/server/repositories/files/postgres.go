// Package files stores asset metadata records in PostgreSQL.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/assetvault/internal/common"
	"github.com/dmitrijs2005/assetvault/internal/dbx"
	"github.com/dmitrijs2005/assetvault/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert creates a record and fills in the server-assigned ID, CreatedAt and
// UpdatedAt. A duplicate key is reported as a db error.
func (r *PostgresRepository) Insert(ctx context.Context, file *models.File) error {
	query := `
		INSERT INTO files (key, name, description, type, size, checksum, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		file.Key, file.Name, file.Description, file.Type, file.Size, file.Checksum, file.UserID,
	).Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByKey returns the record stored under key, or common.ErrorNotFound.
func (r *PostgresRepository) GetByKey(ctx context.Context, key string) (*models.File, error) {
	query := `SELECT id, key, name, description, type, size, checksum, user_id, created_at, updated_at
		FROM files WHERE key=$1`

	f := &models.File{}
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&f.ID, &f.Key, &f.Name, &f.Description, &f.Type, &f.Size, &f.Checksum, &f.UserID, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	return f, nil
}

// DeleteByKey removes the record stored under key. It returns
// common.ErrorNotFound when no row matched.
func (r *PostgresRepository) DeleteByKey(ctx context.Context, key string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE key=$1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
