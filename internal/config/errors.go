package config

import (
	"errors"
)

var (
	// ErrDatabaseURLRequired error if DATABASE_URL is not set.
	ErrDatabaseURLRequired = errors.New("DATABASE_URL environment variable is required")

	// ErrInvalidSetting is returned for any setting failing validation.
	ErrInvalidSetting = errors.New("invalid setting")
)
