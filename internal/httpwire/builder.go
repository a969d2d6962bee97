package httpwire

import (
	"strconv"
)

// TransferEncodingHeader is the header name the gateway inspects to decide
// chunked framing. Handlers that want a chunked response set this header
// themselves before calling sendResponse, exactly as spec'd.
const TransferEncodingHeader = "Transfer-Encoding"

const chunkedValue = "chunked"

// BuildResponse frames a full HTTP/1.1 response: status line with a fixed
// "OK" reason phrase (regardless of code — normative per spec, not a bug),
// the given headers in insertion order, a blank line, and the body. If
// headers declare Transfer-Encoding: chunked, body is wrapped as a single
// chunk followed by the terminating zero-length chunk; otherwise body is
// written verbatim with no length header inserted by this function (the
// caller is responsible for Content-Length if it wants one framed).
func BuildResponse(code int, headers Headers, body []byte) []byte {
	chunked := false
	if v, ok := headers.Get(TransferEncodingHeader); ok && v == chunkedValue {
		chunked = true
	}

	var out []byte
	out = append(out, "HTTP/1.1 "...)
	out = append(out, strconv.Itoa(code)...)
	out = append(out, " OK\r\n"...)

	for _, h := range headers {
		out = append(out, h.Key...)
		out = append(out, ": "...)
		out = append(out, h.Val...)
		out = append(out, "\r\n"...)
	}
	out = append(out, "\r\n"...)

	if chunked {
		out = append(out, strconv.FormatInt(int64(len(body)), 16)...)
		out = append(out, "\r\n"...)
		out = append(out, body...)
		out = append(out, "\r\n0\r\n\r\n"...)
	} else if len(body) > 0 {
		out = append(out, body...)
	}

	return out
}
