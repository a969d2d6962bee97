package httpserver

import (
	"bufio"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"ssr-gateway/internal/cache"
	"ssr-gateway/internal/router"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dialAndSend(t *testing.T, addr string, raw string) string {
	t.Helper()
	nc, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer nc.Close()
	if _, err := nc.Write([]byte(raw)); err != nil {
		t.Fatalf("write: %v", err)
	}
	nc.SetReadDeadline(time.Now().Add(2 * time.Second))
	out, err := io.ReadAll(bufio.NewReader(nc))
	if err != nil && err != io.EOF {
		t.Fatalf("read: %v", err)
	}
	return string(out)
}

func startTestServer(t *testing.T, s *Server) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Listen(addr) }()
	t.Cleanup(func() { s.Stop() })

	// Give the listener a moment to bind before the test dials it.
	for i := 0; i < 50; i++ {
		if nc, err := net.Dial("tcp", addr); err == nil {
			nc.Close()
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	return addr
}

func TestServeHandlerResponse(t *testing.T) {
	handle := func(r *Request) {
		r.SetStatus(200)
		r.SetHeader("Content-Type", "text/html")
		r.SendResponse([]byte("<h1>hi</h1>"))
	}
	s := New(handle, discardLogger())
	addr := startTestServer(t, s)

	out := dialAndSend(t, addr, "GET /page HTTP/1.1\r\nHost: x\r\n\r\n")
	if want := "HTTP/1.1 200 OK\r\n"; out[:len(want)] != want {
		t.Fatalf("got %q", out)
	}
	if !strings.Contains(out, "<h1>hi</h1>") {
		t.Fatalf("missing body: %q", out)
	}
}

func TestServeCacheHitBypassesHandler(t *testing.T) {
	called := false
	handle := func(r *Request) {
		called = true
		r.SendResponse([]byte("fresh"))
	}
	store := cache.New()
	cacheable := cache.NewCacheableSet([]string{"/cached"})
	s := New(handle, discardLogger(), WithCache(store, cacheable, true, time.Hour))
	addr := startTestServer(t, s)

	out1 := dialAndSend(t, addr, "GET /cached HTTP/1.1\r\nHost: x\r\n\r\n")
	if !called {
		t.Fatal("expected handler to run on first request")
	}
	if !strings.Contains(out1, "fresh") {
		t.Fatalf("got %q", out1)
	}

	called = false
	out2 := dialAndSend(t, addr, "GET /cached HTTP/1.1\r\nHost: x\r\n\r\n")
	if called {
		t.Fatal("expected cache hit to bypass handler on second request")
	}
	if out2 != out1 {
		t.Fatalf("cache hit response differs: %q vs %q", out2, out1)
	}
}

func TestServeDoesNotRedispatchBytesArrivingBeforeResponse(t *testing.T) {
	calls := 0
	release := make(chan struct{})
	handle := func(r *Request) {
		calls++
		<-release // hold the response open to widen the slow-worker window
		r.SendResponse([]byte("done"))
	}
	s := New(handle, discardLogger())
	addr := startTestServer(t, s)

	nc, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer nc.Close()

	if _, err := nc.Write([]byte("GET /page HTTP/1.1\r\nHost: x\r\n\r\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(50 * time.Millisecond) // let the first request reach the handler

	// A second, pipelined-looking request arrives on the same connection
	// while the handler is still working — it must not be parsed and
	// dispatched a second time.
	if _, err := nc.Write([]byte("GET /page HTTP/1.1\r\nHost: x\r\n\r\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	close(release)

	nc.SetReadDeadline(time.Now().Add(2 * time.Second))
	out, err := io.ReadAll(nc)
	if err != nil && err != io.EOF {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(out), "done") {
		t.Fatalf("missing expected body: %q", out)
	}
	if calls != 1 {
		t.Fatalf("handler called %d times, want 1", calls)
	}
}

func TestServeBypassRouteSkipsHandler(t *testing.T) {
	called := false
	handle := func(r *Request) {
		called = true
		r.SendResponse([]byte("should not run"))
	}
	bypass := router.New()
	bypass.RegisterStatic("/favicon.ico", 200, "image/vnd.microsoft.icon", []byte(" "))
	s := New(handle, discardLogger(), WithBypassRouter(bypass))
	addr := startTestServer(t, s)

	out := dialAndSend(t, addr, "GET /favicon.ico HTTP/1.1\r\nHost: x\r\n\r\n")
	if called {
		t.Fatal("expected bypass route to skip handler")
	}
	if want := "HTTP/1.1 200 OK\r\n"; out[:len(want)] != want {
		t.Fatalf("got %q", out)
	}
	if !strings.Contains(out, "Content-Type: image/vnd.microsoft.icon\r\n") {
		t.Fatalf("missing content-type header: %q", out)
	}
	if !strings.HasSuffix(out, " ") {
		t.Fatalf("expected single-space body: %q", out)
	}
}
