package upload

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/assetvault/internal/netx"
)

func TestBatch_FailureIsIsolated(t *testing.T) {
	tf := newFakeTransfer(&netx.RejectedError{StatusCode: 403})
	tf.failures["http://s3/f2"] = 100
	rec := &fakeReconciler{}
	s := NewSupervisor(tf, rec, nil, nil)

	results := s.Batch(context.Background(), []Job{job("f1"), job("f2"), job("f3")}, 0)

	require.Len(t, results, 3)
	assert.Equal(t, "f1", results[0].Key)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 1, Failed(results))

	assert.Equal(t, 1, tf.count("http://s3/f1"))
	assert.Equal(t, 3, tf.count("http://s3/f2"))
	assert.Equal(t, 1, tf.count("http://s3/f3"))
	assert.Equal(t, []string{"f2"}, rec.deleted())

	snap := s.Tracker().Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, StatusCompleted, snap[0].Status)
	assert.Equal(t, StatusError, snap[1].Status)
	assert.Equal(t, StatusCompleted, snap[2].Status)
}

type blockingTransfer struct {
	inFlight atomic.Int32
	peak     atomic.Int32
	release  chan struct{}
	started  sync.WaitGroup
}

func (b *blockingTransfer) Put(ctx context.Context, req netx.PutRequest, onProgress netx.ProgressFunc) error {
	n := b.inFlight.Add(1)
	for {
		p := b.peak.Load()
		if n <= p || b.peak.CompareAndSwap(p, n) {
			break
		}
	}
	b.started.Done()
	<-b.release
	b.inFlight.Add(-1)
	return nil
}

func TestBatch_RunsFilesConcurrently(t *testing.T) {
	bt := &blockingTransfer{release: make(chan struct{})}
	bt.started.Add(3)
	s := NewSupervisor(bt, &fakeReconciler{}, nil, nil)

	done := make(chan []Result)
	go func() { done <- s.Batch(context.Background(), []Job{job("a"), job("b"), job("c")}, 0) }()

	bt.started.Wait()
	assert.Equal(t, int32(3), bt.peak.Load())
	close(bt.release)

	results := <-done
	assert.Equal(t, 0, Failed(results))
}

func TestBatch_RespectsConcurrencyLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	tf := transferFunc(func() {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		inFlight.Add(-1)
	})
	s := NewSupervisor(tf, &fakeReconciler{}, nil, nil)

	jobs := make([]Job, 10)
	for i := range jobs {
		jobs[i] = job(string(rune('a' + i)))
	}
	results := s.Batch(context.Background(), jobs, 2)

	assert.Equal(t, 0, Failed(results))
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

type transferFunc func()

func (f transferFunc) Put(context.Context, netx.PutRequest, netx.ProgressFunc) error {
	f()
	return nil
}

func TestBatch_ListenerSeesEveryFile(t *testing.T) {
	var mu sync.Mutex
	final := map[string]Status{}
	tr := NewTracker(func(ev Event) {
		mu.Lock()
		final[ev.ID] = ev.Status
		mu.Unlock()
	})

	tf := newFakeTransfer(&netx.RejectedError{StatusCode: 500})
	tf.failures["http://s3/b"] = 100
	tf.progress = true
	s := NewSupervisor(tf, &fakeReconciler{}, tr, nil)

	s.Batch(context.Background(), []Job{job("a"), job("b")}, 0)

	assert.Equal(t, map[string]Status{"a": StatusCompleted, "b": StatusError}, final)
}
