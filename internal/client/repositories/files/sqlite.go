package files

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/assetvault/internal/client/models"
	"github.com/dmitrijs2005/assetvault/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, uploads ...*models.PendingUpload) error {
	query := `INSERT INTO pending_uploads (key, path) VALUES (?, ?) ON CONFLICT(key) DO NOTHING`

	for _, u := range uploads {
		if _, err := r.db.ExecContext(ctx, query, u.Key, u.Path); err != nil {
			return fmt.Errorf("failed to journal upload: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, key string) error {
	query := `DELETE FROM pending_uploads WHERE key = ?`
	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to remove journaled upload: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListPending(ctx context.Context) ([]*models.PendingUpload, error) {
	query := `SELECT key, path, created_at FROM pending_uploads ORDER BY created_at, key`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error selecting pending uploads: %w", err)
	}
	defer rows.Close()

	var result []*models.PendingUpload
	for rows.Next() {
		item := &models.PendingUpload{}
		if err := rows.Scan(&item.Key, &item.Path, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
