// Package worker moves change-event fanout off the request path.
package worker

import (
	"context"
	"sync"

	"github.com/njordr/coastwatch/internal/broadcast"
)

type DispatchFunc func(ctx context.Context, ev broadcast.Event) error

type Pool struct {
	numWorkers int
	events     chan broadcast.Event
	dispatch   DispatchFunc
	done       chan struct{}
	wg         sync.WaitGroup
}

func NewPool(numWorkers int, bufferSize int, dispatch DispatchFunc) *Pool {
	return &Pool{
		numWorkers: numWorkers,
		events:     make(chan broadcast.Event, bufferSize),
		dispatch:   dispatch,
		done:       make(chan struct{}),
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 1; i <= p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case ev := <-p.events:
			p.dispatch(ctx, ev)
		}
	}
}

// Submit queues an event for dispatch. Once the pool is stopped the event
// is dropped: the events channel is never closed, so a handler goroutine
// still in flight during shutdown can neither panic nor block here.
func (p *Pool) Submit(ev broadcast.Event) {
	select {
	case <-p.done:
	case p.events <- ev:
	}
}

func (p *Pool) Stop() {
	close(p.done)
	p.wg.Wait()
}
