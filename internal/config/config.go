// Package config loads the application settings from the environment and an optional .env file.
package config

import (
	"bytes"
	"encoding/json"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/erickhv92/go-api-template/internal/logger"
)

const (
	// DefaultEnvFile is read when Load gets an empty path.
	DefaultEnvFile = ".env"

	// EnvDevelopment enables sql echo and debug logging.
	EnvDevelopment = logger.EnvDevelopment

	// EnvProduction disables the api docs and switches logging to json.
	EnvProduction = logger.EnvProduction
)

// Settings holds the application configuration. It is immutable after Load.
type Settings struct {
	AppName        string `mapstructure:"app_name"        json:"app_name"        validate:"required"`
	AppDescription string `mapstructure:"app_description" json:"app_description"`
	AppVersion     string `mapstructure:"app_version"     json:"app_version"     validate:"required"`
	Environment    string `mapstructure:"environment"     json:"environment"     validate:"required"`

	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins" validate:"dive,eq=*|url"`

	DatabaseURL   string        `mapstructure:"database_url"    json:"database_url"`
	DBPoolSize    int           `mapstructure:"db_pool_size"    json:"db_pool_size"    validate:"gte=1"`
	DBMaxOverflow int           `mapstructure:"db_max_overflow" json:"db_max_overflow" validate:"gte=0"`
	DBPoolTimeout time.Duration `mapstructure:"db_pool_timeout" json:"db_pool_timeout" validate:"gt=0"`

	APIKey string `mapstructure:"api_key" json:"api_key"`

	Host            string        `mapstructure:"host"             json:"host"`
	Port            int           `mapstructure:"port"             json:"port"             validate:"gte=1,lte=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" json:"shutdown_timeout" validate:"gte=0"`

	QueriesDir    string `mapstructure:"queries_dir"    json:"queries_dir"    validate:"required"`
	MigrationsDir string `mapstructure:"migrations_dir" json:"migrations_dir" validate:"required"`

	LogLevel        string `mapstructure:"log_level"         json:"log_level"`
	LogFileEnabled  bool   `mapstructure:"log_file_enabled"  json:"log_file_enabled"`
	LogFilePath     string `mapstructure:"log_file_path"     json:"log_file_path"`
	LogReportCaller bool   `mapstructure:"log_report_caller" json:"log_report_caller"`
	LogAccess       bool   `mapstructure:"log_access"        json:"log_access"`
}

var (
	cached     *Settings //nolint:gochecknoglobals
	cachedErr  error     //nolint:gochecknoglobals
	cachedFile string    //nolint:gochecknoglobals
	once       sync.Once //nolint:gochecknoglobals
)

// SetEnvFile sets the dotenv file read by the first Get. It has no effect once Get was called.
func SetEnvFile(envFile string) {
	cachedFile = envFile
}

// Get returns the process wide settings, loading them from the file given to SetEnvFile (or
// DefaultEnvFile) and the environment on first use. Later calls return the identical instance
// (or the identical error).
func Get() (*Settings, error) {
	once.Do(func() {
		cached, cachedErr = Load(cachedFile)
	})

	return cached, cachedErr
}

// Load builds new Settings. envFile is an optional dotenv file providing defaults, a missing
// file is not an error. Process environment variables always win over the file.
func Load(envFile string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if envFile == "" {
		envFile = DefaultEnvFile
	}

	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")

		if err = v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read env file %s", envFile)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}

	s.CORSOrigins = splitOrigins(s.CORSOrigins)

	if err := validate(&s); err != nil {
		return nil, err
	}

	return &s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "Go API")
	v.SetDefault("app_description", "A Go API built with Fiber")
	v.SetDefault("app_version", "0.1.0")
	v.SetDefault("environment", EnvDevelopment)
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("database_url", "")
	v.SetDefault("db_pool_size", 5)
	v.SetDefault("db_max_overflow", 10)
	v.SetDefault("db_pool_timeout", 30*time.Second)
	v.SetDefault("api_key", "")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8000)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("queries_dir", "db/queries")
	v.SetDefault("migrations_dir", "db/migrations")
	v.SetDefault("log_level", "")
	v.SetDefault("log_file_enabled", false)
	v.SetDefault("log_file_path", "logs")
	v.SetDefault("log_report_caller", false)
	v.SetDefault("log_access", true)
}

// splitOrigins accepts both list values and a single comma separated value.
func splitOrigins(in []string) []string {
	out := make([]string, 0, len(in))

	for _, item := range in {
		for _, origin := range strings.Split(item, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
	}

	return out
}

func validate(s *Settings) error {
	if s.DatabaseURL == "" {
		return ErrDatabaseURLRequired
	}

	if err := validator.New().Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return errors.Wrap(ErrInvalidSetting, err.Error())
		}

		fields := make([]string, len(validationErrors))
		for i, ve := range validationErrors {
			fields[i] = ve.Namespace() + " failed '" + ve.Tag() + "'"
		}

		return errors.Wrap(ErrInvalidSetting, strings.Join(fields, ", "))
	}

	return nil
}

// IsProduction reports whether the production environment is configured.
func (s *Settings) IsProduction() bool {
	return s.Environment == EnvProduction
}

// IsDevelopment reports whether the development environment is configured.
func (s *Settings) IsDevelopment() bool {
	return s.Environment == EnvDevelopment
}

// Addr returns the listen address.
func (s *Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Log derives the logger configuration.
func (s *Settings) Log() logger.Log {
	file := logger.DefaultFile(s.LogFilePath)
	file.Enabled = s.LogFileEnabled

	return logger.Log{
		AppName:           s.AppName,
		Environment:       s.Environment,
		LogLevel:          s.LogLevel,
		ReportCaller:      s.LogReportCaller,
		AccessLog:         s.LogAccess,
		DisableCheckAlive: true,
		File:              file,
	}
}

// DumpJSON returns the settings as indented JSON with secrets redacted.
func DumpJSON(s *Settings) (string, error) {
	c := *s
	c.DatabaseURL = redactURL(c.DatabaseURL)

	if c.APIKey != "" {
		c.APIKey = "xxxxx"
	}

	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}

	return u.Redacted()
}
