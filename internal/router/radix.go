// Package router matches request paths against a small set of
// pre-dispatch short-circuit routes (favicon-style direct responses)
// registered once at server construction. Adapted from
// s00inx-goserver/server/router/radix.go: same tree-of-segments shape,
// generalized to carry a direct-response Handler instead of a bare
// func() side-effect handler, and to hold its routes in a Tree value
// filled by Register calls rather than a package-global route table.
package router

import (
	"strings"

	"ssr-gateway/internal/httpwire"
)

// Response is a complete direct response: status, headers in insertion
// order, and body.
type Response struct {
	Status  int
	Headers httpwire.Headers
	Body    []byte
}

// Handler produces a direct response for a matched path, bypassing the
// worker dispatch path entirely.
type Handler func() Response

type node struct {
	prefix  string
	ch      []node
	handler Handler
}

// Tree is a radix tree of literal path segments. The zero value is an
// empty, usable tree.
type Tree struct {
	root node
}

// Register links path to h. Only literal segments are supported; no
// params, since short-circuit routes are static (/favicon.ico, /robots.txt).
func (t *Tree) Register(path string, h Handler) {
	path = strings.TrimPrefix(path, "/")
	segs := strings.Split(path, "/")
	cur := &t.root

	for _, s := range segs {
		if s == "" {
			continue
		}
		idx := -1
		for i := range cur.ch {
			if cur.ch[i].prefix == s {
				idx = i
				break
			}
		}
		if idx == -1 {
			cur.ch = append(cur.ch, node{prefix: s})
			idx = len(cur.ch) - 1
		}
		cur = &cur.ch[idx]
	}
	cur.handler = h
}

// Match returns the handler registered for path, or nil if none matches.
func (t *Tree) Match(path string) Handler {
	path = strings.TrimPrefix(path, "/")
	cur := &t.root

	for len(path) > 0 {
		seg, rest, hasRest := strings.Cut(path, "/")
		found := false
		for i := range cur.ch {
			if cur.ch[i].prefix == seg {
				cur = &cur.ch[i]
				found = true
				break
			}
		}
		if !found {
			return nil
		}
		if hasRest {
			path = rest
		} else {
			path = ""
		}
	}
	return cur.handler
}
