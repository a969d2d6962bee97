// Package httpserver terminates TCP, parses HTTP/1.1 requests by hand,
// and dispatches each fully-parsed request to a user-supplied handler.
// One goroutine per accepted connection performs the blocking reads and
// hands parsed requests to a single owning loop.Loop goroutine via
// Post; that loop is the only goroutine that ever touches the cache or
// writes response bytes, which is the Go-idiomatic realization of
// spec.md's "single event-loop thread" requirement without literal
// epoll. Grounded on the accept-loop shape of
// s00inx-goserver/server/engine/epoll.go, replacing its epoll-based
// readiness notification with goroutine-per-connection blocking reads
// feeding a loop.Loop.
package httpserver

import (
	"errors"
	"log/slog"
	"net"
	"time"

	"ssr-gateway/internal/cache"
	"ssr-gateway/internal/httpwire"
	"ssr-gateway/internal/loop"
	"ssr-gateway/internal/router"
)

// Handler is called for every request that misses the cache bypass and
// the cache lookup. It is expected to eventually call Request.SendResponse.
type Handler func(*Request)

// Server owns the listening socket, the cache, and the bypass router.
type Server struct {
	handle    Handler
	cache     *cache.Store
	cacheable cache.CacheableSet
	cacheOn   bool
	cacheTTL  time.Duration
	bypass    *router.BypassRouter
	log       *slog.Logger

	loop *loop.Loop
	ln   net.Listener
}

// Option configures optional Server behavior.
type Option func(*Server)

// WithCache enables the response cache, gated on cacheable and the
// global enable flag store lives outside the cacheability decision.
func WithCache(store *cache.Store, cacheable cache.CacheableSet, enabled bool, ttl time.Duration) Option {
	return func(s *Server) {
		s.cache = store
		s.cacheable = cacheable
		s.cacheOn = enabled
		s.cacheTTL = ttl
	}
}

// WithBypassRouter installs short-circuit routes matched before dispatch.
func WithBypassRouter(r *router.BypassRouter) Option {
	return func(s *Server) { s.bypass = r }
}

// New constructs a Server with handle as its dispatch callback.
func New(handle Handler, log *slog.Logger, opts ...Option) *Server {
	s := &Server{
		handle: handle,
		log:    log,
		loop:   loop.New(256),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Listen binds addr, accepts connections with a large backlog, and runs
// the event loop until the listener is closed. Blocking call.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.ln = ln

	go s.loop.Run()
	s.log.Info("listening", "addr", addr)

	for {
		nc, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Error("accept failed", "err", err)
			continue
		}
		c := newConn(nc, s)
		go c.readLoop()
	}
}

// Stop closes the listener and the owning loop, ending Listen.
func (s *Server) Stop() error {
	s.loop.Stop()
	if s.ln != nil {
		return s.ln.Close()
	}
	return nil
}

// dispatch runs on the server's loop for one fully-parsed request:
// bypass routes first, then the cache, then the user handler.
func (s *Server) dispatch(req *Request, c *conn) {
	if s.bypass != nil {
		if h := s.bypass.Match(req.Path); h != nil {
			resp := h()
			req.Status = resp.Status
			req.ResponseHeader = resp.Headers
			req.SendResponse(resp.Body)
			return
		}
	}

	if s.cacheOn && s.cacheable.Contains(req.Path) {
		if framed, ok := s.cache.Get(req.Path); ok {
			c.writeRaw(framed)
			return
		}
	}

	s.handle(req)
}

// frame serializes the response per the wire rules in internal/httpwire.
// Every response closes the connection after writing, so a handler
// advertising Connection: keep-alive is a known discrepancy.
func (s *Server) frame(req *Request, body []byte) []byte {
	return httpwire.BuildResponse(req.Status, req.ResponseHeader, body)
}

func (s *Server) maybeCache(req *Request, framed []byte) {
	if s.cacheOn && s.cacheable.Contains(req.Path) {
		s.cache.Put(req.Path, framed, s.cacheTTL)
	}
}
