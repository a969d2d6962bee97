package router

import "ssr-gateway/internal/httpwire"

// BypassRouter matches request paths that should be answered directly
// by the HTTP server without dispatching to a worker.
type BypassRouter struct {
	tree Tree
}

// New builds a BypassRouter with no routes registered.
func New() *BypassRouter {
	return &BypassRouter{}
}

// RegisterStatic registers path to respond with a fixed status, body,
// and single content-type header — the shape favicon-style bypass
// routes take (spec.md scenario S6: a single-space body and
// Content-Type: image/vnd.microsoft.icon for /favicon.ico).
func (r *BypassRouter) RegisterStatic(path string, status int, contentType string, body []byte) {
	r.tree.Register(path, func() Response {
		h := httpwire.Headers{}
		if contentType != "" {
			h.Set("Content-Type", contentType)
		}
		return Response{Status: status, Headers: h, Body: body}
	})
}

// Register links path to an arbitrary direct-response handler.
func (r *BypassRouter) Register(path string, h Handler) {
	r.tree.Register(path, h)
}

// Match returns the handler for path, or nil if path has no bypass route.
func (r *BypassRouter) Match(path string) Handler {
	return r.tree.Match(path)
}
