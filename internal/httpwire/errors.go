package httpwire

import "errors"

// Parse errors, mirroring the teacher parser's errIncomplete/errInvalid
// split: incomplete means "read more bytes and try again", invalid means
// "close the connection now."
var (
	ErrIncomplete = errors.New("httpwire: incomplete request")
	ErrInvalid    = errors.New("httpwire: invalid request")
)
