// Command gateway wires config, cache, worker channels, the balancer,
// and the HTTP server together and runs the rendering gateway.
// Grounded on the cmd/api, cmd/worker wiring shape of
// MrUprizing-opensandbox/cmd/*/main.go: config.Load() feeding
// constructors, no dependency-injection framework.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ssr-gateway/internal/balancer"
	"ssr-gateway/internal/cache"
	"ssr-gateway/internal/config"
	"ssr-gateway/internal/httpserver"
	"ssr-gateway/internal/ipc"
	"ssr-gateway/internal/router"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Load()

	channels := make([]*ipc.WorkerChannel, cfg.NumWorkers)
	for i := range channels {
		addr := filepath.Join(cfg.WorkerSocketDir, fmt.Sprintf("v8_process%d.sock", i))
		channels[i] = ipc.New(addr, log)
	}

	b := balancer.New(channels, log)
	b.Startup()
	if err := b.WaitStartup(); err != nil {
		log.Error("balancer failed to start", "err", err)
		os.Exit(1)
	}
	defer b.Stop()

	store := cache.New()
	cacheable := cache.NewCacheableSet(cfg.CacheablePaths)

	bypass := router.New()
	bypass.RegisterStatic("/favicon.ico", 200, "image/vnd.microsoft.icon", []byte(" "))

	handle := func(req *httpserver.Request) {
		b.Dispatch(ipc.Job{URL: req.Path, Sink: req})
	}

	srv := httpserver.New(
		handle,
		log,
		httpserver.WithCache(store, cacheable, cfg.CacheEnabled, time.Duration(cfg.CacheTTLMs)*time.Millisecond),
		httpserver.WithBypassRouter(bypass),
	)

	log.Info("starting gateway", "addr", cfg.Addr, "workers", cfg.NumWorkers, "cache_enabled", cfg.CacheEnabled)
	if err := srv.Listen(cfg.Addr); err != nil {
		log.Error("listen failed", "err", err)
		os.Exit(1)
	}
}
