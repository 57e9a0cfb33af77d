package logger

import (
	"errors"
)

var (
	// ErrAppNameRequired is returned by Init without Log.AppName, it labels the metrics.
	ErrAppNameRequired = errors.New("logger needs an app name")

	// ErrUnknownLevel is returned for a level zerolog can not parse.
	ErrUnknownLevel = errors.New("unknown log level")
)
