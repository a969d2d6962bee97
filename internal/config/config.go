// Package config loads gateway configuration from flags and environment
// variables, flags taking precedence. Grounded on
// MrUprizing-opensandbox/internal/config/config.go's Load shape (flag.String
// with an envOrDefault fallback), generalized with int and bool
// variants and a comma-separated list flag for CacheablePaths.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
)

// Config holds every knob the gateway needs at startup.
type Config struct {
	Addr             string   // HTTP listen address, e.g. ":8080"
	NumWorkers       int      // number of renderer worker channels
	WorkerSocketDir  string   // directory holding worker Unix sockets
	CacheEnabled     bool     // global cache-enable flag
	CacheTTLMs       int      // per-entry TTL in milliseconds
	RequestTimeoutMs int      // reserved for a future request deadline
	CacheablePaths   []string // paths eligible for caching
}

// Load parses flags and environment variables. Flags win when both are set.
func Load() *Config {
	addr := flag.String("addr", envOrDefault("GATEWAY_ADDR", ":8080"), "HTTP listen address")
	numWorkers := flag.Int("workers", envOrDefaultInt("GATEWAY_WORKERS", 4), "number of renderer worker channels")
	workerSocketDir := flag.String("worker-socket-dir", envOrDefault("GATEWAY_WORKER_SOCKET_DIR", "/tmp"), "directory holding worker Unix sockets")
	cacheEnabled := flag.Bool("cache-enabled", envOrDefaultBool("GATEWAY_CACHE_ENABLED", false), "enable the response cache")
	cacheTTLMs := flag.Int("cache-ttl-ms", envOrDefaultInt("GATEWAY_CACHE_TTL_MS", 400000), "cache entry TTL in milliseconds")
	requestTimeoutMs := flag.Int("request-timeout-ms", envOrDefaultInt("GATEWAY_REQUEST_TIMEOUT_MS", 2000), "reserved request timeout in milliseconds")
	cacheablePaths := flag.String("cacheable-paths", envOrDefault("GATEWAY_CACHEABLE_PATHS", ""), "comma-separated list of cacheable paths")
	flag.Parse()

	return &Config{
		Addr:             *addr,
		NumWorkers:       *numWorkers,
		WorkerSocketDir:  *workerSocketDir,
		CacheEnabled:     *cacheEnabled,
		CacheTTLMs:       *cacheTTLMs,
		RequestTimeoutMs: *requestTimeoutMs,
		CacheablePaths:   splitNonEmpty(*cacheablePaths),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitNonEmpty(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
