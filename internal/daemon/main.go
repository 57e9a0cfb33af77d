// Package daemon wires settings, logger, database and web service into the running api.
package daemon

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/erickhv92/go-api-template/internal/config"
	"github.com/erickhv92/go-api-template/internal/db/queries"
	"github.com/erickhv92/go-api-template/internal/db/session"
	"github.com/erickhv92/go-api-template/internal/logger"
	"github.com/erickhv92/go-api-template/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	settings   *config.Settings
	factory    *session.Factory
	webService *web.Service
}

// New creates a new Daemon instance with the provided settings.
func New(settings *config.Settings) (*Daemon, error) {
	if settings == nil {
		return nil, ErrSettingsNil
	}

	if err := logger.Init(settings.Log()); err != nil {
		return nil, errors.Wrap(err, "failed to init logger")
	}

	factory, err := session.New(settings)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	registerDBStats(factory, settings.AppName)

	return &Daemon{
		settings:   settings,
		factory:    factory,
		webService: web.New(settings, factory, queries.New(settings.QueriesDir)),
	}, nil
}

// Start serves http until SIGINT or SIGTERM, then shuts down gracefully and closes the database.
func (d *Daemon) Start() error {
	listenErr := make(chan error, 1)

	go func() {
		listenErr <- d.webService.Start(d.settings.Addr())
	}()

	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	defer signal.Stop(irqSig)

	select {
	case err := <-listenErr:
		_ = d.Close()

		return errors.Wrap(err, "fiber listen error")
	case sig := <-irqSig:
		log.Info().Msgf("shutdown request (signal: %v)", sig)

		d.webService.Shutdown()
		<-listenErr
	}

	return d.Close()
}

// Close releases the database pool.
func (d *Daemon) Close() error {
	return d.factory.Close() //nolint:wrapcheck
}

// registerDBStats exposes the connection pool statistics on /metrics.
func registerDBStats(factory *session.Factory, dbName string) {
	sqlDB, err := factory.Engine().DB()
	if err != nil {
		log.Warn().Err(err).Msg("db stats collector not registered")
		return
	}

	err = prometheus.Register(collectors.NewDBStatsCollector(sqlDB, dbName))
	if err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			log.Warn().Err(err).Msg("db stats collector not registered")
		}
	}
}
