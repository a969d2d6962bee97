// Package httpwire implements the minimal HTTP/1.1 request parsing and
// response framing the gateway needs. It is hand-rolled rather than built
// on net/http because the gateway must control the exact bytes placed on
// the wire (a literal status-line reason phrase, manual chunked framing,
// and writing pre-framed cached bytes verbatim) in ways net/http's
// ResponseWriter does not expose.
package httpwire

import (
	"bytes"
	"strconv"
)

// ParsedRequest is one fully-parsed inbound HTTP/1.1 request. Unlike the
// teacher parser's zero-copy arena (slices into a reused connection
// buffer, valid only until the next read), every field here owns its
// bytes: the caller's read buffer can be reused or discarded immediately
// after parsing, matching the re-architecture guidance to replace
// hand-carved buffer lifetimes with owned, moved data.
type ParsedRequest struct {
	Method   string
	Path     string // path only, no query
	RawQuery string
	Protocol string
	Headers  Headers
	Body     []byte
}

// ParseOne parses one request from the front of raw. On success it returns
// the parsed request and the number of bytes consumed from raw. If raw
// does not yet contain a complete request, it returns ErrIncomplete and
// the caller should read more bytes and retry with the same (or a grown)
// buffer. ErrInvalid means the input is malformed and the connection
// should be closed without a response.
func ParseOne(raw []byte) (*ParsedRequest, int, error) {
	crs := 0

	findByte := func(start int, sep byte) int {
		idx := bytes.IndexByte(raw[start:], sep)
		if idx == -1 {
			return -1
		}
		return start + idx
	}

	sep := findByte(crs, ' ')
	if sep == -1 {
		return nil, 0, ErrIncomplete
	}
	method := string(raw[crs:sep])
	crs = sep + 1

	sep = findByte(crs, ' ')
	if sep == -1 {
		return nil, 0, ErrIncomplete
	}
	rawTarget := raw[crs:sep]
	crs = sep + 1

	sep = findByte(crs, '\n')
	if sep == -1 {
		return nil, 0, ErrIncomplete
	}
	if sep == crs || raw[sep-1] != '\r' {
		return nil, 0, ErrInvalid
	}
	protocol := string(raw[crs : sep-1])
	crs = sep + 1

	headers := Headers{}
	var contentLength int
	for {
		if crs+1 >= len(raw) {
			return nil, 0, ErrIncomplete
		}
		if raw[crs] == '\r' && raw[crs+1] == '\n' {
			crs += 2
			break
		}

		lf := findByte(crs, '\n')
		if lf == -1 {
			return nil, 0, ErrIncomplete
		}
		if lf == crs || raw[lf-1] != '\r' {
			return nil, 0, ErrInvalid
		}
		lineEnd := lf - 1

		colon := findByte(crs, ':')
		if colon == -1 || colon > lineEnd {
			return nil, 0, ErrInvalid
		}

		valStart := colon + 1
		for valStart < lineEnd && raw[valStart] == ' ' {
			valStart++
		}

		key := string(raw[crs:colon])
		val := string(raw[valStart:lineEnd])
		headers.Add(key, val)

		if len(key) == len("Content-Length") && bytes.EqualFold([]byte(key), []byte("Content-Length")) {
			if n, err := strconv.Atoi(val); err == nil && n >= 0 {
				contentLength = n
			}
		}

		crs = lf + 1
	}

	var body []byte
	if contentLength > 0 {
		if crs+contentLength > len(raw) {
			return nil, 0, ErrIncomplete
		}
		body = append([]byte(nil), raw[crs:crs+contentLength]...)
		crs += contentLength
	}

	path, query := splitTarget(rawTarget)
	req := &ParsedRequest{
		Method:   method,
		Path:     path,
		RawQuery: query,
		Protocol: protocol,
		Headers:  headers,
		Body:     body,
	}
	return req, crs, nil
}

func splitTarget(target []byte) (path, query string) {
	if idx := bytes.IndexByte(target, '?'); idx != -1 {
		return string(target[:idx]), string(target[idx+1:])
	}
	return string(target), ""
}
