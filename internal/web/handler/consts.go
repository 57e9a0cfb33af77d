package handler

import (
	"errors"
)

const (
	// RouterRootPath is the root path of a route group.
	RouterRootPath = "/"
)

// ErrNilDependency is returned by Init if router, factory or executor is nil.
var ErrNilDependency = errors.New("router, factory or executor is nil")
