package upload

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/assetvault/internal/common"
	"github.com/dmitrijs2005/assetvault/internal/logging"
	"github.com/dmitrijs2005/assetvault/internal/netx"
)

// DefaultMaxAttempts is the number of transfers tried per file.
const DefaultMaxAttempts = 3

// Transferer performs a single upload attempt. netx.Uploader implements it.
type Transferer interface {
	Put(ctx context.Context, req netx.PutRequest, onProgress netx.ProgressFunc) error
}

// Reconciler removes a key's object and metadata record. It must tolerate
// keys that were never written. The api client implements it.
type Reconciler interface {
	Delete(ctx context.Context, key string) error
}

// DelayPolicy builds a fresh backoff for one file's attempts.
type DelayPolicy func() retry.Backoff

// Immediate retries without waiting.
func Immediate() DelayPolicy {
	return func() retry.Backoff {
		return retry.BackoffFunc(func() (time.Duration, bool) { return 0, false })
	}
}

// Constant waits d between attempts. d <= 0 behaves like Immediate.
func Constant(d time.Duration) DelayPolicy {
	if d <= 0 {
		return Immediate()
	}
	return func() retry.Backoff { return retry.NewConstant(d) }
}

// Exponential doubles the wait after every attempt, starting at base.
func Exponential(base time.Duration) DelayPolicy {
	if base <= 0 {
		return Immediate()
	}
	return func() retry.Backoff { return retry.NewExponential(base) }
}

// Job is one file ready for transfer: the grant plus the original bytes.
type Job struct {
	Key         string
	URL         string
	ContentType string
	Checksum    string
	Body        []byte
}

// Supervisor runs transfers with a bounded number of attempts.
type Supervisor struct {
	transfer    Transferer
	reconciler  Reconciler
	tracker     *Tracker
	logger      logging.Logger
	maxAttempts int
	delay       DelayPolicy
	timeout     time.Duration
}

// Option customizes a Supervisor.
type Option func(*Supervisor)

// WithMaxAttempts sets the attempt cap; values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(s *Supervisor) {
		if n >= 1 {
			s.maxAttempts = n
		}
	}
}

// WithDelay sets the wait between attempts.
func WithDelay(p DelayPolicy) Option {
	return func(s *Supervisor) {
		if p != nil {
			s.delay = p
		}
	}
}

// WithAttemptTimeout bounds each attempt and each reconciliation call.
func WithAttemptTimeout(d time.Duration) Option {
	return func(s *Supervisor) { s.timeout = d }
}

// NewSupervisor wires a Supervisor. tracker and logger may be nil.
func NewSupervisor(t Transferer, r Reconciler, tracker *Tracker, logger logging.Logger, opts ...Option) *Supervisor {
	if tracker == nil {
		tracker = NewTracker(nil)
	}
	if logger == nil {
		logger = logging.NewDiscard()
	}
	s := &Supervisor{
		transfer:    t,
		reconciler:  r,
		tracker:     tracker,
		logger:      logger.With("module", "upload"),
		maxAttempts: DefaultMaxAttempts,
		delay:       Immediate(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Tracker returns the tracker the supervisor reports to.
func (s *Supervisor) Tracker() *Tracker { return s.tracker }

// Upload transfers one job. Rejections and transport failures are retried
// alike up to the attempt cap; a job that fails local validation is not
// retried. Once the cap is reached the file is marked
// as failed and its key is reconciled once; a reconciliation failure is
// logged and the transfer error is returned.
func (s *Supervisor) Upload(ctx context.Context, job Job) error {
	req := netx.PutRequest{
		URL:         job.URL,
		ContentType: job.ContentType,
		Checksum:    job.Checksum,
		Body:        job.Body,
	}
	onProgress := func(sent, total int64) { s.tracker.Bytes(job.Key, sent, total) }

	attempt := 0
	backoff := retry.WithMaxRetries(uint64(s.maxAttempts-1), s.delay())
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		s.tracker.BeginAttempt(job.Key, attempt)

		actx, cancel := s.bounded(ctx)
		defer cancel()

		if err := s.transfer.Put(actx, req, onProgress); err != nil {
			s.logger.Debug(ctx, "upload attempt failed", "key", job.Key, "attempt", attempt, "error", err)
			if errors.Is(err, common.ErrValidation) {
				return err
			}
			return retry.RetryableError(err)
		}
		return nil
	})
	if err == nil {
		s.tracker.Complete(job.Key)
		return nil
	}

	s.logger.Warn(ctx, "upload failed", "key", job.Key, "attempts", attempt, "error", err)
	s.tracker.Fail(job.Key, err)
	s.reconcile(ctx, job.Key)
	return err
}

func (s *Supervisor) reconcile(ctx context.Context, key string) {
	if s.reconciler == nil {
		return
	}
	// The session may already be canceled; cleanup still has to reach the server.
	rctx, cancel := s.bounded(context.WithoutCancel(ctx))
	defer cancel()

	if err := s.reconciler.Delete(rctx, key); err != nil {
		s.logger.Error(ctx, "reconciliation failed", "key", key, "error", err)
		return
	}
	s.logger.Info(ctx, "reconciled failed upload", "key", key)
}

func (s *Supervisor) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
