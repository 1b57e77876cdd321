package upload

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/assetvault/internal/common"
	"github.com/dmitrijs2005/assetvault/internal/netx"
)

// Status is the lifecycle state of one file in a session.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// maxInFlight is the highest progress reported before storage confirms.
const maxInFlight = 98

// Progress is the state of one file, keyed by its storage key.
type Progress struct {
	ID       string
	Progress int
	Status   Status
	Error    string
}

// Event is one progress change. Sent and Total are zero for pure status
// changes.
type Event struct {
	Progress
	Attempt int
	Sent    int64
	Total   int64
}

// Listener consumes events. It is called with the tracker lock released but
// serialized per tracker, so implementations need no locking of their own.
type Listener func(Event)

// Tracker holds the progress of every file in one session.
type Tracker struct {
	mu       sync.Mutex
	emit     sync.Mutex
	files    map[string]*Progress
	attempts map[string]int
	order    []string
	listener Listener
}

// NewTracker returns an empty tracker. A nil listener drops events.
func NewTracker(l Listener) *Tracker {
	if l == nil {
		l = func(Event) {}
	}
	return &Tracker{
		files:    make(map[string]*Progress),
		attempts: make(map[string]int),
		listener: l,
	}
}

// Start registers ids as pending. Already known ids are reset.
func (t *Tracker) Start(ids ...string) {
	for _, id := range ids {
		t.update(id, Event{}, func(p *Progress, _ *Event) bool {
			*p = Progress{ID: id, Status: StatusPending}
			return true
		})
	}
}

// BeginAttempt marks the start of a transfer attempt. Progress restarts at
// zero because the whole body is sent again. The status is left alone until
// the first bytes move.
func (t *Tracker) BeginAttempt(id string, attempt int) {
	t.update(id, Event{Attempt: attempt}, func(p *Progress, _ *Event) bool {
		t.attempts[id] = attempt
		p.Progress = 0
		p.Error = ""
		return true
	})
}

// Bytes records sent of total bytes handed to the transport. The percentage
// is capped at 98 and never moves backwards within an attempt.
func (t *Tracker) Bytes(id string, sent, total int64) {
	t.update(id, Event{Sent: sent, Total: total}, func(p *Progress, ev *Event) bool {
		if p.Status == StatusCompleted || p.Status == StatusError {
			return false
		}
		pct := percent(sent, total)
		if pct < p.Progress {
			pct = p.Progress
		}
		changed := pct != p.Progress || p.Status != StatusUploading
		p.Progress = pct
		p.Status = StatusUploading
		ev.Attempt = t.attempts[id]
		return changed
	})
}

// Complete marks a confirmed upload.
func (t *Tracker) Complete(id string) {
	t.update(id, Event{}, func(p *Progress, ev *Event) bool {
		p.Progress = 100
		p.Status = StatusCompleted
		p.Error = ""
		ev.Attempt = t.attempts[id]
		return true
	})
}

// Fail marks a terminal failure with a human-readable message.
func (t *Tracker) Fail(id string, err error) {
	t.update(id, Event{}, func(p *Progress, ev *Event) bool {
		p.Status = StatusError
		p.Error = Describe(err)
		ev.Attempt = t.attempts[id]
		return true
	})
}

// Get returns the current progress of id.
func (t *Tracker) Get(id string) (Progress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.files[id]
	if !ok {
		return Progress{}, false
	}
	return *p, true
}

// Snapshot returns every file in registration order.
func (t *Tracker) Snapshot() []Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Progress, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.files[id])
	}
	return out
}

func (t *Tracker) update(id string, ev Event, fn func(p *Progress, ev *Event) bool) {
	t.emit.Lock()
	defer t.emit.Unlock()

	t.mu.Lock()
	p, ok := t.files[id]
	if !ok {
		p = &Progress{ID: id, Status: StatusPending}
		t.files[id] = p
		t.order = append(t.order, id)
	}
	changed := fn(p, &ev)
	ev.Progress = *p
	t.mu.Unlock()

	if changed {
		t.listener(ev)
	}
}

func percent(sent, total int64) int {
	if total <= 0 || sent <= 0 {
		return 0
	}
	pct := int(sent * 100 / total)
	if pct > maxInFlight {
		pct = maxInFlight
	}
	return pct
}

// Describe turns a transfer error into the message stored on the file.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var rej *netx.RejectedError
	switch {
	case errors.As(err, &rej):
		return fmt.Sprintf("Upload failed with status %d", rej.StatusCode)
	case errors.Is(err, common.ErrTransport):
		return "Network error occurred"
	default:
		return err.Error()
	}
}
