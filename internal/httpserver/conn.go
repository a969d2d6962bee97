package httpserver

import (
	"net"

	"ssr-gateway/internal/httpwire"
)

// conn wraps one accepted TCP connection. Its readLoop runs on its own
// goroutine and does the actual blocking Read, and closes the socket
// itself when a Read fails; every other operation — parsing's side
// effects, dispatch, writing, closing after a response or a parse
// error — is posted onto the server's owning loop.
type conn struct {
	nc         net.Conn
	srv        *Server
	buf        []byte
	closed     bool
	dispatched bool
}

func newConn(nc net.Conn, srv *Server) *conn {
	return &conn{nc: nc, srv: srv}
}

func (c *conn) readLoop() {
	readBuf := make([]byte, 16*1024)
	for {
		n, err := c.nc.Read(readBuf)
		if err != nil {
			c.nc.Close()
			return
		}
		chunk := append([]byte(nil), readBuf[:n]...)
		c.srv.loop.Post(func() {
			c.onBytes(chunk)
		})
	}
}

// onBytes runs on the server's owning loop: accumulate bytes, try to
// parse one request, and dispatch it on completion. Only one request is
// serviced per connection: once a parse succeeds, dispatched is latched
// true and c.buf is advanced past the consumed bytes, so any further
// reads that arrive before the response is written and the connection
// closed (the slow-worker window between dispatch and reply) are
// dropped instead of re-parsing and re-dispatching the same request.
func (c *conn) onBytes(chunk []byte) {
	if c.closed || c.dispatched {
		return
	}
	c.buf = append(c.buf, chunk...)

	parsed, consumed, err := httpwire.ParseOne(c.buf)
	if err == httpwire.ErrIncomplete {
		return
	}
	if err != nil {
		c.close()
		return
	}
	c.buf = c.buf[consumed:]
	c.dispatched = true

	req := newRequest(parsed, c, c.srv.loop)
	c.srv.dispatch(req, c)
}

// writeResponse runs on the server's owning loop (invoked via
// Request.SendResponse's Post). It frames the response, inserts it into
// the cache if eligible — a chunked body is cached in its already-framed
// form, per the wire rules — writes it, and closes the connection.
func (c *conn) writeResponse(req *Request, body []byte) {
	if c.closed {
		return
	}
	framed := c.srv.frame(req, body)
	c.srv.maybeCache(req, framed)
	c.nc.Write(framed)
	c.close()
}

// writeRaw writes already-framed bytes directly — used for cache hits,
// whose stored bytes are a complete previously-built response (a
// chunked body included in its already-framed form) and must not be
// re-framed.
func (c *conn) writeRaw(framed []byte) {
	if c.closed {
		return
	}
	c.nc.Write(framed)
	c.close()
}

func (c *conn) close() {
	if c.closed {
		return
	}
	c.closed = true
	c.nc.Close()
}
