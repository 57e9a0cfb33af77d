package logger

import (
	"io"
)

// Environment names that change the log output.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Rolling file names below File.Path.
const (
	AppLogFile    = "app.log"
	ErrorLogFile  = "error.log"
	AccessLogFile = "access.log"
)

// File configures the rolling log files.
type File struct {
	Enabled    bool
	Path       string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// Log is the logger configuration, usually derived from the settings.
type Log struct {
	AppName     string
	Environment string

	// LogLevel is one of trace, debug, info, warn, error. Empty picks the environment default.
	LogLevel string

	// ReportCaller adds the caller outside production, production lines always carry it.
	ReportCaller bool

	// AccessLog writes the http access log to Output.
	AccessLog bool

	// DisableCheckAlive skips /health in the access log.
	DisableCheckAlive bool

	// Output is the console target. Default os.Stdout.
	Output io.Writer

	File File
}

// DefaultFile returns rolling file settings rooted at path.
func DefaultFile(path string) File {
	return File{
		Path:       path,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     28,
	}
}

// Production reports whether lines are written as json.
func (l Log) Production() bool {
	return l.Environment == EnvProduction
}

// Level returns the configured level name, debug in development and info elsewhere if unset.
func (l Log) Level() string {
	switch {
	case l.LogLevel != "":
		return l.LogLevel
	case l.Environment == EnvDevelopment:
		return "debug"
	default:
		return "info"
	}
}
