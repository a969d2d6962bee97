// Package ipc transports rendering jobs to worker processes over
// per-worker Unix-domain sockets. Grounded on the connection lifecycle
// shape of s00inx-goserver/server/engine/epoll.go (dial once, one
// goroutine owns the socket, a mutex-guarded busy slot) generalized from
// that file's single always-on listener socket to N outbound client
// dials, one per worker.
package ipc

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"ssr-gateway/internal/loop"
)

// Connect retries the initial dial a bounded number of times with a
// short backoff, since the gateway and the worker processes it dials
// may start up in either order.
const (
	connectRetries = 5
	connectBackoff = 100 * time.Millisecond
)

// ResponseSink receives the rendered body once a worker replies. The
// gateway's Request type implements this; ipc never touches Request's
// other fields.
type ResponseSink interface {
	Deliver(body []byte)
}

// Job is one unit of work handed to a WorkerChannel: the URL to render
// and where to deliver the rendered bytes.
type Job struct {
	URL  string
	Sink ResponseSink
}

// WorkerChannel owns one dialed connection to a renderer worker process.
// At most one Job is ever in flight on a channel at a time — tryProcess
// enforces this with the current slot, guarded by mu.
type WorkerChannel struct {
	Addr string
	dial func(addr string) (net.Conn, error)
	log  *slog.Logger

	mu      sync.Mutex
	current *Job

	conn net.Conn
	loop *loop.Loop
}

// New creates a WorkerChannel that will dial addr (a Unix-domain socket
// path) when Connect is called.
func New(addr string, log *slog.Logger) *WorkerChannel {
	return &WorkerChannel{
		Addr: addr,
		dial: func(a string) (net.Conn, error) { return net.Dial("unix", a) },
		log:  log,
		loop: loop.New(8),
	}
}

// Connect dials the worker socket, retrying up to connectRetries times
// with a connectBackoff pause between attempts to ride out the startup
// race against the worker processes, and starts the channel's dedicated
// loop goroutine. Each channel runs its own loop, rather than sharing
// one loop across all N channels, so that N workers can have writes and
// reads in flight concurrently — a single shared blocking-I/O loop would
// serialize all worker traffic onto one goroutine.
func (c *WorkerChannel) Connect() error {
	var conn net.Conn
	var err error
	for attempt := 0; attempt <= connectRetries; attempt++ {
		conn, err = c.dial(c.Addr)
		if err == nil {
			break
		}
		if attempt < connectRetries {
			c.log.Warn("ipc: dial failed, retrying", "addr", c.Addr, "attempt", attempt+1, "err", err)
			time.Sleep(connectBackoff)
		}
	}
	if err != nil {
		return fmt.Errorf("ipc: dial %s: %w", c.Addr, err)
	}
	c.conn = conn
	go c.loop.Run()
	return nil
}

// Close stops the channel's loop and closes the underlying connection.
func (c *WorkerChannel) Close() error {
	c.loop.Stop()
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsWorking reports whether a job is currently in flight.
func (c *WorkerChannel) IsWorking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// TryProcess atomically claims the channel for job if it is idle. On
// success it wakes the channel's loop to perform the actual write/read,
// and returns true; otherwise it returns false without side effects.
func (c *WorkerChannel) TryProcess(job Job) bool {
	c.mu.Lock()
	if c.current != nil {
		c.mu.Unlock()
		return false
	}
	c.current = &job
	c.mu.Unlock()

	c.loop.Post(c.process)
	return true
}

func (c *WorkerChannel) reset() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

// process runs on the channel's own loop goroutine: write the URL, block
// for the reply, deliver it, then free the slot for the next job.
func (c *WorkerChannel) process() {
	c.mu.Lock()
	job := c.current
	c.mu.Unlock()
	if job == nil {
		return
	}

	if _, err := c.conn.Write([]byte(job.URL)); err != nil {
		c.log.Error("ipc: write failed", "addr", c.Addr, "err", err)
		c.reset()
		return
	}

	body, err := readMessage(c.conn)
	if err != nil {
		c.log.Error("ipc: read failed", "addr", c.Addr, "err", err)
		c.reset()
		return
	}

	job.Sink.Deliver(body)
	c.reset()
}
