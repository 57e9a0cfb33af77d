// Package web builds the fiber application and runs the http server.
package web

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/erickhv92/go-api-template/internal/config"
	"github.com/erickhv92/go-api-template/internal/db/queries"
	"github.com/erickhv92/go-api-template/internal/db/session"
	fiberlogger "github.com/erickhv92/go-api-template/internal/logger/adapter/fiber"
	"github.com/erickhv92/go-api-template/internal/web/handler"
	"github.com/erickhv92/go-api-template/internal/web/handler/example"
	"github.com/erickhv92/go-api-template/internal/web/response"
)

const (
	// APIPrefix is the versioned prefix of all api routes.
	APIPrefix = "/api/v1"

	// HealthPath is the liveness endpoint.
	HealthPath = "/health"

	// MetricsPath serves the prometheus metrics.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App      *fiber.App
	settings *config.Settings
}

// Start starts the web service on the given address and blocks until the server stops.
func (s *Service) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("starting http server")

	if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err //nolint:wrapcheck
	}

	return nil
}

// Shutdown stops the http server, waiting at most ShutdownTimeout for open requests.
func (s *Service) Shutdown() {
	log.Info().Msg("stopping http server ...")

	if err := s.App.ShutdownWithTimeout(s.settings.ShutdownTimeout); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given settings.
func New(settings *config.Settings, factory *session.Factory, executor *queries.Executor) *Service {
	if settings == nil {
		panic("settings cannot be nil")
	}

	if factory == nil || executor == nil {
		panic("factory and executor cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			AppName:               settings.AppName,
			CaseSensitive:         true,
			Immutable:             true,
			DisableStartupMessage: settings.IsProduction(),
			ErrorHandler:          response.ErrorHandler,
			Views:                 html.NewFileSystem(http.FS(docsEmbedFS{embeddedDocs}), ".html"),
		},
	)

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{Config: settings.Log(), CheckAliveURI: HealthPath}))
	app.Use(cors.New(corsConfig(settings.CORSOrigins)))

	app.Get(HealthPath, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// no interactive docs in production
	if !settings.IsProduction() {
		app.Get(DocsPath, func(c *fiber.Ctx) error {
			return c.Render("index", fiber.Map{
				"Title":   settings.AppName,
				"SpecURL": OpenAPIPath,
			})
		})

		app.Get(OpenAPIPath, func(c *fiber.Ctx) error {
			return c.JSON(openAPI(settings))
		})
	}

	api := app.Group(APIPrefix)

	// init handlers, they register their own routes
	for _, h := range []handler.Service{&example.Service{}} {
		if err := h.Init(api, factory, executor); err != nil {
			log.Fatal().Err(err).Msg("failed to init handler")
		}
	}

	return &Service{
		App:      app,
		settings: settings,
	}
}

// corsConfig allows every method and reflects the requested headers. A "*" origin reflects any
// request origin so that credentials can be allowed.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: strings.Join([]string{
			fiber.MethodGet,
			fiber.MethodPost,
			fiber.MethodHead,
			fiber.MethodPut,
			fiber.MethodDelete,
			fiber.MethodPatch,
			fiber.MethodOptions,
		}, ","),
		AllowCredentials: true,
	}

	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowOriginsFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = strings.Join(origins, ",")
	}

	return cfg
}
