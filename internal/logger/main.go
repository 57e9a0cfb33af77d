// Package logger sets up the process wide zerolog logger.
//
// Production writes json lines carrying environment and caller, every other environment writes
// human readable lines. Both go to stdout, optionally also to rolling files where error.log
// receives only errors.
package logger

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// minLevelWriter passes on events at or above min only.
type minLevelWriter struct {
	io.Writer
	min zerolog.Level
}

// WriteLevel implements zerolog.LevelWriter.
func (w minLevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < w.min || l == zerolog.NoLevel {
		return len(p), nil
	}

	return w.Write(p) //nolint:wrapcheck
}

// Init replaces the global zerolog logger.
func Init(cfg Log) error {
	if cfg.AppName == "" {
		return ErrAppNameRequired
	}

	level, err := zerolog.ParseLevel(cfg.Level())
	if err != nil {
		return errors.Wrapf(ErrUnknownLevel, "%q", cfg.Level())
	}

	zerolog.SetGlobalLevel(level)
	zerolog.ErrorHandler = writeFailed                   //nolint:reassign
	zerolog.CallerMarshalFunc = shortCaller              //nolint:reassign
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign

	writers := []io.Writer{ConsoleWriter(cfg)}

	if cfg.File.Enabled {
		files, ferr := rollingFiles(cfg.File)
		if ferr != nil {
			return ferr
		}

		writers = append(writers, files...)
	}

	lc := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(NewPrometheusHook(cfg.AppName)).
		With().
		Timestamp().
		Str("environment", cfg.Environment)

	if cfg.Production() || cfg.ReportCaller {
		lc = lc.Caller()
	}

	// stacks of pkg/errors are only worth their size when tracing
	if level == zerolog.TraceLevel {
		lc = lc.Stack()
	}

	log.Logger = lc.Logger()

	return nil
}

// ConsoleWriter returns the console target of cfg: json in production, human readable otherwise.
func ConsoleWriter(cfg Log) io.Writer {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	if cfg.Production() {
		return out
	}

	return zerolog.ConsoleWriter{Out: out, TimeFormat: zerolog.TimeFieldFormat}
}

// RollingFile returns a lumberjack writer for name below f.Path.
func RollingFile(f File, name string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path.Join(f.Path, name),
		MaxSize:    f.MaxSize,
		MaxAge:     f.MaxAge,
		MaxBackups: f.MaxBackups,
	}
}

func rollingFiles(f File) ([]io.Writer, error) {
	if err := os.MkdirAll(f.Path, 0o750); err != nil {
		return nil, errors.Wrapf(err, "failed to create log directory %s", f.Path)
	}

	return []io.Writer{
		RollingFile(f, AppLogFile),
		minLevelWriter{Writer: RollingFile(f, ErrorLogFile), min: zerolog.ErrorLevel},
	}, nil
}

// shortCaller renders the caller as package.Function:line, e.g. example.(*Service).Get:97.
func shortCaller(pc uintptr, file string, line int) string {
	name := filepath.Base(file)
	if fn := runtime.FuncForPC(pc); fn != nil {
		name = path.Base(fn.Name())
	}

	return name + ":" + strconv.Itoa(line)
}

func writeFailed(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "log write failed: %v\n", err)
}
