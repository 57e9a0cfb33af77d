package daemon

import (
	"errors"
)

// ErrSettingsNil is returned by New without settings.
var ErrSettingsNil = errors.New("settings are nil")
