// Package server initializes and runs the AssetVault server: it opens the
// database, applies migrations, builds the storage and cache backends and
// serves the HTTP API until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/assetvault/internal/logging"
	"github.com/dmitrijs2005/assetvault/internal/server/api"
	"github.com/dmitrijs2005/assetvault/internal/server/cache"
	"github.com/dmitrijs2005/assetvault/internal/server/config"
	"github.com/dmitrijs2005/assetvault/internal/server/metrics"
	"github.com/dmitrijs2005/assetvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/assetvault/internal/server/services"
	"github.com/dmitrijs2005/assetvault/internal/server/storage"
)

var (
	openDB         = sql.Open
	newRepoManager = repomanager.NewPostgresRepositoryManager
	newStorage     = func(ctx context.Context, cfg storage.S3Config) (storage.Storage, error) {
		return storage.NewS3Storage(ctx, cfg)
	}
	dialRedis = func(ctx context.Context, addr string) (cache.Cache, io.Closer, error) {
		c, client, err := cache.DialRedis(ctx, addr, "assetvault:")
		if err != nil {
			return nil, nil, err
		}
		return c, client, nil
	}
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	closers []io.Closer
	server  *api.HTTPServer
}

// NewApp wires every component from c. Missing or broken object-storage
// settings do not fail startup: the API then answers "not configured".
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, logging.NewJSON(os.Stdout, c.LogLevel))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := openDB("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	var store storage.Storage
	if c.StorageConfigured() {
		s, err := newStorage(ctx, storage.S3Config{
			User:         c.S3RootUser,
			Password:     c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			PresignTTL:   c.PresignTTL,
		})
		if err != nil {
			logger.Error(ctx, "object storage unavailable", "error", err)
		} else {
			store = s
		}
	} else {
		logger.Warn(ctx, "object storage not configured")
	}

	var urlCache cache.Cache = cache.NewMemory()
	if c.RedisAddr != "" {
		rc, closer, err := dialRedis(ctx, c.RedisAddr)
		if err != nil {
			logger.Warn(ctx, "redis unavailable, using in-memory cache", "error", err)
		} else {
			urlCache = rc
			app.closers = append(app.closers, closer)
		}
	}

	m := metrics.New()
	assets := services.NewAssetService(db, rm, store, urlCache, m, logger, c)

	app.server = api.NewHTTPServer(c.HTTPAddr, logger, assets, api.Options{
		SecretKey:    []byte(c.SecretKey),
		RequiredRole: c.RequiredRole,
		CORSOrigin:   c.CORSOrigin,
		Metrics:      m.Handler(),
	})

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases the database and cache connections.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(ctx)
}

func (app *App) close(ctx context.Context) {
	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			app.logger.Error(ctx, "close failed", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close failed", "error", err)
	}
}
