package httpserver

import (
	"ssr-gateway/internal/httpwire"
	"ssr-gateway/internal/loop"
)

// Request is one in-flight HTTP request/response pair. It is exclusively
// owned by the HTTP server's loop: only code running on that loop may
// read or mutate its fields directly. Other components (the balancer, a
// worker channel) hold a *Request only to call Deliver, never to
// touch its buffers — this is the Go realization of spec.md §3's "the
// Balancer never mutates the Request's internal buffers directly."
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Headers  httpwire.Headers
	Body     []byte

	Status         int
	ResponseHeader httpwire.Headers

	conn *conn
	loop *loop.Loop

	responded bool
}

// SetStatus sets the response status code. Only meaningful before
// SendResponse is called.
func (r *Request) SetStatus(code int) { r.Status = code }

// SetHeader appends a response header in order.
func (r *Request) SetHeader(key, val string) { r.ResponseHeader.Set(key, val) }

// SendResponse serializes body as the response and hands it back to the
// owning HTTP loop for framing and writing. Safe to call from any
// goroutine; the loop.Post call is the wake token. Only the first call
// per Request has an effect, and a call before parsing completed is a
// no-op — enforced by construction, since a *Request only exists once
// its parse has completed.
func (r *Request) SendResponse(body []byte) {
	r.loop.Post(func() {
		if r.responded {
			return
		}
		r.responded = true
		r.conn.writeResponse(r, body)
	})
}

// Deliver implements ipc.ResponseSink: a worker channel calls this with
// the rendered body once a reply arrives, from that channel's own loop
// goroutine. It routes back to the HTTP loop exactly like SendResponse.
func (r *Request) Deliver(body []byte) {
	r.SendResponse(body)
}

func newRequest(p *httpwire.ParsedRequest, c *conn, l *loop.Loop) *Request {
	return &Request{
		Method:         p.Method,
		Path:           p.Path,
		RawQuery:       p.RawQuery,
		Headers:        p.Headers,
		Body:           p.Body,
		Status:         200,
		ResponseHeader: httpwire.Headers{},
		conn:           c,
		loop:           l,
	}
}
