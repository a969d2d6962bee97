// Package balancer implements round-robin, skip-if-busy dispatch of
// rendering jobs across a fixed pool of worker channels, with an
// unbounded FIFO overflow queue drained on a periodic timer. Grounded on
// the worker-pool shape of s00inx-goserver/server/engine/pool.go
// (fixed-size slice of workers, round-robin cursor advanced modulo N),
// generalized from that file's connection-acceptance pool to a
// job-dispatch pool over ipc.WorkerChannel.
package balancer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ssr-gateway/internal/ipc"
)

const (
	pendingDrainFirstFire = 4000 * time.Millisecond
	pendingDrainInterval  = 250 * time.Millisecond
	startupTimeout        = 10 * time.Second
)

// Balancer owns N worker channels and dispatches jobs across them.
type Balancer struct {
	channels []*ipc.WorkerChannel
	log      *slog.Logger

	mu     sync.Mutex
	cursor int

	pendingMu sync.Mutex
	pending   []ipc.Job

	ready     chan struct{}
	readyOnce sync.Once
	stop      chan struct{}
}

// New builds a Balancer over channels. channels must already be
// constructed (via ipc.New) but not yet connected — Startup connects
// them.
func New(channels []*ipc.WorkerChannel, log *slog.Logger) *Balancer {
	return &Balancer{
		channels: channels,
		log:      log,
		ready:    make(chan struct{}),
		stop:     make(chan struct{}),
	}
}

// Startup connects every worker channel and starts the pending-drain
// timer, all from a dedicated goroutine so the caller is not blocked.
// Use WaitStartup to block until initialization completes.
func (b *Balancer) Startup() {
	go b.run()
}

// WaitStartup blocks until every worker channel's connect attempt has
// finished, or until the startup timeout elapses. A channel whose
// connect failed is logged by the startup goroutine and does not make
// WaitStartup return an error.
func (b *Balancer) WaitStartup() error {
	select {
	case <-b.ready:
		return nil
	case <-time.After(startupTimeout):
		return context.DeadlineExceeded
	}
}

func (b *Balancer) run() {
	for _, ch := range b.channels {
		if err := ch.Connect(); err != nil {
			b.log.Error("balancer: worker connect failed", "addr", ch.Addr, "err", err)
		}
	}
	b.readyOnce.Do(func() { close(b.ready) })

	timer := time.NewTimer(pendingDrainFirstFire)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			b.drainPending()
			timer.Reset(pendingDrainInterval)
		case <-b.stop:
			return
		}
	}
}

// Stop halts the pending-drain timer and closes every worker channel.
func (b *Balancer) Stop() {
	close(b.stop)
	for _, ch := range b.channels {
		ch.Close()
	}
}

// Dispatch attempts to place job on an idle worker channel. If N == 1 it
// tries that one channel directly; otherwise it advances a round-robin
// cursor across up to N channels, taking the first idle one. The cursor
// is never reset on success — it keeps advancing modulo N, which gives
// fairness under sustained load and an early exit under light load. Jobs
// that cannot be placed are pushed onto the pending queue for the next
// drain tick.
func (b *Balancer) Dispatch(job ipc.Job) {
	if b.tryDispatch(job) {
		return
	}
	b.pendingMu.Lock()
	b.pending = append(b.pending, job)
	b.pendingMu.Unlock()
}

func (b *Balancer) tryDispatch(job ipc.Job) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.channels)
	if n == 0 {
		return false
	}
	if n == 1 {
		return b.channels[0].TryProcess(job)
	}

	for i := 0; i < n; i++ {
		ch := b.channels[b.cursor]
		b.cursor = (b.cursor + 1) % n
		if ch.TryProcess(job) {
			return true
		}
	}
	return false
}

func (b *Balancer) drainPending() {
	b.pendingMu.Lock()
	if len(b.pending) == 0 {
		b.pendingMu.Unlock()
		return
	}
	batch := b.pending
	b.pending = nil
	b.pendingMu.Unlock()

	for _, job := range batch {
		if !b.tryDispatch(job) {
			b.pendingMu.Lock()
			b.pending = append(b.pending, job)
			b.pendingMu.Unlock()
		}
	}
}

// PendingLen reports the current pending-queue depth. For tests.
func (b *Balancer) PendingLen() int {
	b.pendingMu.Lock()
	defer b.pendingMu.Unlock()
	return len(b.pending)
}
