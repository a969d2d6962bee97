package httpwire

import "strings"

// Header is one name/value pair as it appeared on the wire.
type Header struct {
	Key, Val string
}

// Headers is an insertion-ordered, case-insensitively-keyed header list.
// net/http.Header is a map and cannot preserve wire order; this type
// exists so response framing can reproduce the handler's insertion order
// exactly, per the data model's ordering invariant.
type Headers []Header

// Get returns the value of the first header matching key, case-insensitive,
// and whether it was found.
func (h Headers) Get(key string) (string, bool) {
	for _, hh := range h {
		if strings.EqualFold(hh.Key, key) {
			return hh.Val, true
		}
	}
	return "", false
}

// Set replaces the first header matching key, or appends if none match.
func (h *Headers) Set(key, val string) {
	for i := range *h {
		if strings.EqualFold((*h)[i].Key, key) {
			(*h)[i].Val = val
			return
		}
	}
	*h = append(*h, Header{Key: key, Val: val})
}

// Add appends a header without checking for an existing one of the same name.
func (h *Headers) Add(key, val string) {
	*h = append(*h, Header{Key: key, Val: val})
}
