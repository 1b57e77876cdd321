package app

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/assetvault/internal/client/models"
	"github.com/dmitrijs2005/assetvault/internal/client/repositories/files"
	"github.com/dmitrijs2005/assetvault/internal/common"
	"github.com/dmitrijs2005/assetvault/internal/dbx"
	"github.com/dmitrijs2005/assetvault/internal/logging"
)

// journal wraps the pending-upload repository. A zero journal is disabled
// and every method is a no-op.
type journal struct {
	repo   files.Repository
	begin  func(ctx context.Context, fn func(ctx context.Context, repo files.Repository) error) error
	logger logging.Logger
}

func (j *journal) enabled() bool { return j != nil && j.repo != nil }

// add records keys before presigning so an interrupted session can be
// reconciled on the next start.
func (j *journal) add(ctx context.Context, batch []prepared) error {
	if !j.enabled() {
		return nil
	}
	uploads := make([]*models.PendingUpload, len(batch))
	for i, f := range batch {
		uploads[i] = &models.PendingUpload{Key: f.req.ID, Path: f.path}
	}
	return j.begin(ctx, func(ctx context.Context, repo files.Repository) error {
		return repo.Add(ctx, uploads...)
	})
}

func (j *journal) forget(ctx context.Context, key string) {
	if !j.enabled() {
		return
	}
	if err := j.repo.Remove(context.WithoutCancel(ctx), key); err != nil {
		j.logger.Warn(ctx, "failed to update journal", "key", key, "error", err)
	}
}

// reconcileLeftovers reconciles keys left by an interrupted session. Keys that fail to
// reconcile stay journaled for the next run.
func (j *journal) reconcileLeftovers(ctx context.Context, r interface {
	Delete(ctx context.Context, key string) error
}) int {
	if !j.enabled() {
		return 0
	}
	pending, err := j.repo.ListPending(ctx)
	if err != nil {
		j.logger.Warn(ctx, "failed to read journal", "error", err)
		return 0
	}

	n := 0
	for _, p := range pending {
		if err := r.Delete(ctx, p.Key); err != nil {
			j.logger.Error(ctx, "reconciliation failed", "key", p.Key, "path", p.Path, "error", err)
			continue
		}
		j.forget(ctx, p.Key)
		n++
	}
	if n > 0 {
		j.logger.Info(ctx, "reconciled interrupted uploads", "count", n)
	}
	return n
}

// nothingPersisted reports whether a presign error guarantees the server
// stored no record, so journaled keys can be dropped without reconciling.
func nothingPersisted(err error) bool {
	return errors.Is(err, common.ErrValidation) ||
		errors.Is(err, common.ErrNotConfigured) ||
		errors.Is(err, common.ErrorUnauthorized) ||
		errors.Is(err, common.ErrForbidden)
}

// reconciler deletes a key on the server and drops it from the journal
// once the delete succeeded.
type reconciler struct {
	api     Presigner
	journal *journal
}

func (r *reconciler) Delete(ctx context.Context, key string) error {
	if err := r.api.Delete(ctx, key); err != nil {
		return err
	}
	r.journal.forget(ctx, key)
	return nil
}

func sqliteJournal(db *sql.DB, logger logging.Logger) *journal {
	return &journal{
		repo:   files.NewSQLiteRepository(db),
		logger: logger,
		begin: func(ctx context.Context, fn func(ctx context.Context, repo files.Repository) error) error {
			return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
				return fn(ctx, files.NewSQLiteRepository(tx))
			})
		},
	}
}
