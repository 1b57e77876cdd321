// Package services contains server-side business logic. This file implements
// AssetService: it issues presigned upload URLs for a batch of files,
// records their metadata, serves download URLs and deletes assets.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/assetvault/internal/checksum"
	"github.com/dmitrijs2005/assetvault/internal/common"
	"github.com/dmitrijs2005/assetvault/internal/dbx"
	"github.com/dmitrijs2005/assetvault/internal/keygen"
	"github.com/dmitrijs2005/assetvault/internal/logging"
	"github.com/dmitrijs2005/assetvault/internal/server/cache"
	"github.com/dmitrijs2005/assetvault/internal/server/config"
	"github.com/dmitrijs2005/assetvault/internal/server/metrics"
	"github.com/dmitrijs2005/assetvault/internal/server/models"
	"github.com/dmitrijs2005/assetvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/assetvault/internal/server/storage"
)

// MaxBatchSize bounds the number of files in one presign request.
const MaxBatchSize = 100

const downloadCachePrefix = "download:"

// ValidationError lists the request fields that failed validation, e.g.
// "1.checksum". It matches common.ErrValidation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid field(s): " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error {
	return common.ErrValidation
}

// Recorder receives outcome counts. *metrics.Metrics implements it.
type Recorder interface {
	PresignBatch(outcome string, files int)
	Delete(outcome string)
	DownloadURL(cacheHit bool)
}

type nopRecorder struct{}

func (nopRecorder) PresignBatch(string, int) {}
func (nopRecorder) Delete(string)            {}
func (nopRecorder) DownloadURL(bool)         {}

// AssetService coordinates object storage and the files table.
type AssetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	storage     storage.Storage
	cache       cache.Cache
	metrics     Recorder
	logger      logging.Logger
	validate    *validator.Validate

	maxFileSize int64
	cacheTTL    time.Duration
}

// NewAssetService wires the service. A nil store means object storage is not
// configured: every storage operation then fails with common.ErrNotConfigured.
// A nil cache disables download URL caching and a nil recorder drops metrics.
func NewAssetService(db *sql.DB, m repomanager.RepositoryManager, store storage.Storage, c cache.Cache,
	rec Recorder, logger logging.Logger, cfg *config.Config) *AssetService {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &AssetService{
		db:          db,
		repomanager: m,
		storage:     store,
		cache:       c,
		metrics:     rec,
		logger:      logger.With("module", "assets"),
		validate:    newValidator(),
		maxFileSize: cfg.MaxFileSize,
		cacheTTL:    downloadCacheTTL(cfg),
	}
}

// downloadCacheTTL bounds the configured cache lifetime so a cached GET URL
// always expires at least a fifth of PresignTTL before its signature does.
func downloadCacheTTL(cfg *config.Config) time.Duration {
	ttl := cfg.DownloadURLCacheTTL
	if limit := cfg.PresignTTL - cfg.PresignTTL/5; ttl > limit {
		ttl = limit
	}
	return max(ttl, 0)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("mimetype", func(fl validator.FieldLevel) bool {
		mt, _, err := mime.ParseMediaType(fl.Field().String())
		return err == nil && strings.Count(mt, "/") == 1 && !strings.HasSuffix(mt, "/")
	})
	_ = v.RegisterValidation("sha256hex", func(fl validator.FieldLevel) bool {
		return checksum.Valid(fl.Field().String())
	})
	return v
}

// Validate checks a whole batch and reports every failing field. Nothing is
// presigned or persisted for a batch that fails validation.
func (s *AssetService) Validate(reqs []models.UploadRequest) error {
	if len(reqs) == 0 || len(reqs) > MaxBatchSize {
		return &ValidationError{Fields: []string{"files"}}
	}

	var fields []string
	seen := make(map[string]int, len(reqs))

	for i := range reqs {
		r := &reqs[i]

		var verrs validator.ValidationErrors
		if err := s.validate.Struct(r); errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%d.%s", i, fe.Field()))
			}
		} else if err != nil {
			return err
		}

		if s.maxFileSize > 0 && r.Size > s.maxFileSize {
			fields = append(fields, fmt.Sprintf("%d.size", i))
		}

		if r.ID == "" {
			continue
		}
		if _, err := keygen.Parse(r.ID); err != nil {
			fields = append(fields, fmt.Sprintf("%d.id", i))
			continue
		}
		if _, dup := seen[r.ID]; dup {
			fields = append(fields, fmt.Sprintf("%d.id", i))
			continue
		}
		seen[r.ID] = i
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Presign validates the batch, signs one upload URL per file and stores all
// metadata records in a single transaction. Either every file gets a grant
// and a record, or none does.
func (s *AssetService) Presign(ctx context.Context, userID string, reqs []models.UploadRequest) ([]models.PresignedGrant, error) {
	if s.storage == nil {
		s.metrics.PresignBatch(metrics.OutcomeNotConfigured, len(reqs))
		return nil, common.ErrNotConfigured
	}

	if err := s.Validate(reqs); err != nil {
		s.metrics.PresignBatch(metrics.OutcomeInvalid, len(reqs))
		return nil, err
	}

	urls := make([]string, len(reqs))
	for i, r := range reqs {
		u, err := s.storage.PresignPut(ctx, storage.PutObject{
			Key:         r.ID,
			ContentType: r.Type,
			Size:        r.Size,
			Checksum:    r.Checksum,
		})
		if err != nil {
			s.metrics.PresignBatch(outcomeOf(err), len(reqs))
			return nil, fmt.Errorf("presign %q: %w", r.ID, err)
		}
		urls[i] = u
	}

	records := make([]*models.File, len(reqs))
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Files(tx)
		for i, r := range reqs {
			f := &models.File{
				Key:         r.ID,
				Name:        r.Name,
				Description: r.Description,
				Type:        r.Type,
				Size:        r.Size,
				Checksum:    r.Checksum,
				UserID:      userID,
			}
			if err := repo.Insert(ctx, f); err != nil {
				return err
			}
			records[i] = f
		}
		return nil
	})
	if err != nil {
		s.metrics.PresignBatch(metrics.OutcomeError, len(reqs))
		return nil, fmt.Errorf("error creating files: %w", err)
	}

	grants := make([]models.PresignedGrant, len(reqs))
	for i, f := range records {
		grants[i] = models.PresignedGrant{
			ID:           f.ID,
			Key:          f.Key,
			PresignedURL: urls[i],
			UpdatedAt:    f.UpdatedAt,
		}
	}

	s.metrics.PresignBatch(metrics.OutcomeOK, len(reqs))
	s.logger.Info(ctx, "presigned batch", "files", len(reqs), "user", userID)
	return grants, nil
}

// Delete removes the stored object and then its metadata record. When the
// object cannot be deleted the record is kept, so no stored object is ever
// left untracked. Deleting an unknown key succeeds.
func (s *AssetService) Delete(ctx context.Context, key string) error {
	if s.storage == nil {
		s.metrics.Delete(metrics.OutcomeNotConfigured)
		return common.ErrNotConfigured
	}

	if err := s.storage.Delete(ctx, key); err != nil {
		s.metrics.Delete(metrics.OutcomeError)
		return fmt.Errorf("error deleting object: %w", err)
	}

	if err := s.repomanager.Files(s.db).DeleteByKey(ctx, key); err != nil && !errors.Is(err, common.ErrorNotFound) {
		s.metrics.Delete(metrics.OutcomeError)
		return fmt.Errorf("error deleting file record: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, downloadCachePrefix+key); err != nil {
			s.logger.Warn(ctx, "cache invalidation failed", "key", key, "error", err)
		}
	}

	s.metrics.Delete(metrics.OutcomeOK)
	s.logger.Info(ctx, "deleted asset", "key", key)
	return nil
}

// DownloadURL returns a presigned GET URL for an existing asset. URLs are
// reused from the cache while it holds them; cache failures fall through to
// signing a fresh URL.
func (s *AssetService) DownloadURL(ctx context.Context, key string) (string, error) {
	if s.storage == nil {
		return "", common.ErrNotConfigured
	}

	ck := downloadCachePrefix + key
	if s.cache != nil {
		u, ok, err := s.cache.Get(ctx, ck)
		if err != nil {
			s.logger.Warn(ctx, "cache read failed", "key", key, "error", err)
		} else if ok {
			s.metrics.DownloadURL(true)
			return u, nil
		}
	}

	if _, err := s.repomanager.Files(s.db).GetByKey(ctx, key); err != nil {
		return "", err
	}

	u, err := s.storage.PresignGet(ctx, key)
	if err != nil {
		return "", err
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, ck, u, s.cacheTTL); err != nil {
			s.logger.Warn(ctx, "cache write failed", "key", key, "error", err)
		}
	}

	s.metrics.DownloadURL(false)
	return u, nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, common.ErrNotConfigured):
		return metrics.OutcomeNotConfigured
	case errors.Is(err, common.ErrValidation):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
