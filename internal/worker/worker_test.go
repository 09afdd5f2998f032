package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/njordr/coastwatch/internal/broadcast"
	"github.com/njordr/coastwatch/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func insertEvent(id string) broadcast.Event {
	return broadcast.Event{
		Type:   broadcast.EventReportInsert,
		Report: &models.HazardReport{ID: id},
	}
}

func TestPool_StartStop(t *testing.T) {
	var dispatched atomic.Int64
	dispatch := func(ctx context.Context, ev broadcast.Event) error {
		dispatched.Add(1)
		return nil
	}

	pool := NewPool(2, 10, dispatch)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	for i := 0; i < 5; i++ {
		pool.Submit(insertEvent(fmt.Sprintf("r%d", i)))
	}

	time.Sleep(50 * time.Millisecond)

	cancel()
	pool.Stop()

	if dispatched.Load() != 5 {
		t.Errorf("expected 5 events dispatched, got %d", dispatched.Load())
	}
}

func TestPool_ConcurrentSubmit(t *testing.T) {
	var dispatched atomic.Int64
	dispatch := func(ctx context.Context, ev broadcast.Event) error {
		dispatched.Add(1)
		return nil
	}

	pool := NewPool(4, 100, dispatch)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	for i := 0; i < 100; i++ {
		go func(n int) {
			pool.Submit(insertEvent(fmt.Sprintf("r%d", n)))
		}(i)
	}

	time.Sleep(100 * time.Millisecond)

	cancel()
	pool.Stop()

	if dispatched.Load() != 100 {
		t.Errorf("expected 100 events dispatched, got %d", dispatched.Load())
	}
}

func TestPool_SubmitAfterStop(t *testing.T) {
	pool := NewPool(1, 1, func(ctx context.Context, ev broadcast.Event) error {
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)
	pool.Stop()

	// A handler goroutine can still be mid-request when the pool stops.
	// Its submit must neither panic nor block, even with the buffer full.
	pool.Submit(insertEvent("late1"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		pool.Submit(insertEvent("late2"))
		pool.Submit(insertEvent("late3"))
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked after Stop")
	}
}

func TestPool_GracefulShutdown(t *testing.T) {
	var dispatched atomic.Int64
	dispatch := func(ctx context.Context, ev broadcast.Event) error {
		time.Sleep(10 * time.Millisecond) // Simulate work
		dispatched.Add(1)
		return nil
	}

	pool := NewPool(2, 50, dispatch)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	for i := 0; i < 20; i++ {
		pool.Submit(insertEvent(fmt.Sprintf("r%d", i)))
	}

	// Cancel immediately
	cancel()

	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()

	select {
	case <-done:
		// Good
	case <-time.After(5 * time.Second):
		t.Fatal("pool.Stop() timed out")
	}

	t.Logf("dispatched %d events before shutdown", dispatched.Load())
}
