package example

import (
	"errors"
)

// ErrUnexpectedCountType is returned if the count query yields a non numeric total.
var ErrUnexpectedCountType = errors.New("unexpected count type")
