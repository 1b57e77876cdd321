// Package app runs one uploader session: it reads files from disk, asks the
// server to presign them, transfers them concurrently and reports per-file
// outcomes.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/assetvault/internal/checksum"
	"github.com/dmitrijs2005/assetvault/internal/client/api"
	"github.com/dmitrijs2005/assetvault/internal/client/config"
	"github.com/dmitrijs2005/assetvault/internal/client/repositories"
	"github.com/dmitrijs2005/assetvault/internal/client/upload"
	"github.com/dmitrijs2005/assetvault/internal/filex"
	"github.com/dmitrijs2005/assetvault/internal/keygen"
	"github.com/dmitrijs2005/assetvault/internal/logging"
	"github.com/dmitrijs2005/assetvault/internal/netx"
)

const journalFile = "journal.db"

// ErrNoFiles is returned when Run is called without paths.
var ErrNoFiles = errors.New("no files given")

// ErrFilesFailed is returned when at least one file was not uploaded.
var ErrFilesFailed = errors.New("some files failed to upload")

// Presigner is the part of the API client the session needs.
type Presigner interface {
	Presign(ctx context.Context, reqs []api.UploadRequest) ([]api.Grant, error)
	Delete(ctx context.Context, key string) error
}

// FileResult is the final state of one path.
type FileResult struct {
	Path   string
	Key    string
	Size   int64
	Status upload.Status
	Err    error
}

// App holds the wiring of an uploader session.
type App struct {
	config      *config.Config
	access      keygen.Access
	api         Presigner
	transfer    upload.Transferer
	keys        *keygen.Generator
	journal     *journal
	closers     []io.Closer
	logger      logging.Logger
	out         io.Writer
	interactive bool
}

var initJournal = repositories.InitDatabase

// NewApp builds an App from cfg. Output goes to out; interactive enables
// progress bars. The journal is opened when cfg.JournalDir is set.
func NewApp(ctx context.Context, cfg *config.Config, out io.Writer, interactive bool) (*App, error) {
	access, err := keygen.ParseAccess(cfg.Access)
	if err != nil {
		return nil, err
	}
	if cfg.ServerURL == "" {
		return nil, errors.New("server URL is required")
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	logger := logging.NewText(os.Stderr, cfg.LogLevel).With("module", "uploader")

	a := &App{
		config:      cfg,
		access:      access,
		api:         api.New(cfg.ServerURL, cfg.Token, httpClient),
		transfer:    netx.NewUploader(&http.Client{}),
		keys:        &keygen.Generator{},
		logger:      logger,
		out:         out,
		interactive: interactive,
	}

	if cfg.JournalDir != "" {
		dir, err := filex.EnsureDir(cfg.JournalDir)
		if err != nil {
			return nil, fmt.Errorf("journal: %w", err)
		}
		repos, err := initJournal(ctx, filepath.Join(dir, journalFile))
		if err != nil {
			return nil, fmt.Errorf("journal: %w", err)
		}
		a.journal = sqliteJournal(repos.DB, logger)
		a.closers = append(a.closers, repos)
	}

	return a, nil
}

// Close releases the journal.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

type prepared struct {
	path string
	req  api.UploadRequest
	body []byte
}

// Run uploads paths and prints a result table. It returns ErrFilesFailed
// when any file did not complete, and the presign error itself when the
// whole batch was refused.
func (a *App) Run(ctx context.Context, paths []string) ([]FileResult, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}

	if n := a.journal.reconcileLeftovers(ctx, a.api); n > 0 {
		fmt.Fprintf(a.out, "reconciled %d interrupted upload(s)\n", n)
	}

	results := make([]FileResult, len(paths))
	var batch []prepared
	index := make(map[string]int, len(paths))

	for i, p := range paths {
		results[i] = FileResult{Path: p, Status: upload.StatusPending}

		f, err := a.prepare(p)
		if err != nil {
			results[i].Status = upload.StatusError
			results[i].Err = err
			continue
		}
		results[i].Key = f.req.ID
		results[i].Size = f.req.Size
		index[f.req.ID] = i
		batch = append(batch, f)
	}

	if len(batch) > 0 {
		if err := a.upload(ctx, batch, results, index); err != nil {
			a.render(results)
			return results, err
		}
	}

	a.render(results)

	for _, r := range results {
		if r.Err != nil {
			return results, ErrFilesFailed
		}
	}
	return results, nil
}

func (a *App) prepare(path string) (prepared, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return prepared{}, fmt.Errorf("read file: %w", err)
	}
	if len(body) == 0 {
		return prepared{}, errors.New("file is empty")
	}

	name := filepath.Base(path)
	ctype := contentType(name, body)
	return prepared{
		path: path,
		body: body,
		req: api.UploadRequest{
			ID:          a.keys.NewKey(keygen.Source{Type: ctype, Name: name}, a.access),
			Name:        name,
			Type:        ctype,
			Size:        int64(len(body)),
			Checksum:    checksum.Bytes(body),
			Description: a.config.Description,
		},
	}, nil
}

func (a *App) upload(ctx context.Context, batch []prepared, results []FileResult, index map[string]int) error {
	reqs := make([]api.UploadRequest, len(batch))
	for i, f := range batch {
		reqs[i] = f.req
	}

	fail := func(err error) {
		for _, f := range batch {
			r := &results[index[f.req.ID]]
			r.Status = upload.StatusError
			r.Err = err
		}
	}

	if err := a.journal.add(ctx, batch); err != nil {
		fail(err)
		return fmt.Errorf("journal: %w", err)
	}

	pctx, cancel := a.bounded(ctx)
	grants, err := a.api.Presign(pctx, reqs)
	cancel()
	if err != nil {
		a.logger.Error(ctx, "presign failed", "files", len(reqs), "error", err)
		fail(err)
		if nothingPersisted(err) {
			for _, f := range batch {
				a.journal.forget(ctx, f.req.ID)
			}
		}
		return fmt.Errorf("presign: %w", err)
	}

	byKey := make(map[string]api.Grant, len(grants))
	for _, g := range grants {
		byKey[g.Key] = g
	}

	rec := &reconciler{api: a.api, journal: a.journal}
	jobs := make([]upload.Job, 0, len(batch))
	for _, f := range batch {
		g, ok := byKey[f.req.ID]
		if !ok {
			r := &results[index[f.req.ID]]
			r.Status = upload.StatusError
			r.Err = errors.New("no grant returned for file")
			if err := rec.Delete(ctx, f.req.ID); err != nil {
				a.logger.Error(ctx, "reconciliation failed", "key", f.req.ID, "error", err)
			}
			continue
		}
		jobs = append(jobs, upload.Job{
			Key:         g.Key,
			URL:         g.PresignedURL,
			ContentType: f.req.Type,
			Checksum:    f.req.Checksum,
			Body:        f.body,
		})
	}

	var listener upload.Listener
	var bar *progressView
	if a.interactive {
		bar = newProgressView(a.out, jobs)
		listener = bar.listen
	}
	tracker := upload.NewTracker(listener)

	sup := upload.NewSupervisor(a.transfer, rec, tracker, a.logger,
		upload.WithMaxAttempts(a.config.MaxAttempts),
		upload.WithDelay(upload.Constant(a.config.RetryDelay)),
		upload.WithAttemptTimeout(a.config.Timeout),
	)
	outcomes := sup.Batch(ctx, jobs, a.config.Concurrency)
	if bar != nil {
		bar.finish()
	}

	for _, o := range outcomes {
		r := &results[index[o.Key]]
		r.Err = o.Err
		if p, ok := tracker.Get(o.Key); ok {
			r.Status = p.Status
		}
		if o.Err == nil {
			a.journal.forget(ctx, o.Key)
		}
	}
	return nil
}

func (a *App) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.Timeout)
}

// contentType guesses the MIME type from the extension, then the content.
func contentType(name string, body []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return http.DetectContentType(body)
}
