package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/erickhv92/go-api-template/internal/config"
)

const (
	// DocsPath serves the interactive api documentation.
	DocsPath = "/docs"

	// OpenAPIPath serves the openapi document.
	OpenAPIPath = "/openapi.json"
)

// openAPI describes the mounted routes.
func openAPI(s *config.Settings) fiber.Map {
	intParam := func(name string, minimum, maximum, def int) fiber.Map {
		schema := fiber.Map{"type": "integer", "minimum": minimum, "default": def}
		if maximum > 0 {
			schema["maximum"] = maximum
		}

		return fiber.Map{"name": name, "in": "query", "required": false, "schema": schema}
	}

	return fiber.Map{
		"openapi": "3.0.3",
		"info": fiber.Map{
			"title":       s.AppName,
			"description": s.AppDescription,
			"version":     s.AppVersion,
		},
		"paths": fiber.Map{
			HealthPath: fiber.Map{
				"get": fiber.Map{
					"summary":   "Liveness check",
					"responses": fiber.Map{"200": fiber.Map{"description": "healthy"}},
				},
			},
			APIPrefix + "/examples": fiber.Map{
				"get": fiber.Map{
					"summary": "Get a paginated list of examples",
					"tags":    []string{"examples"},
					"parameters": []fiber.Map{
						intParam("page", 1, 0, 1),
						intParam("page_size", 1, 100, 10),
						{"name": "status", "in": "query", "required": false, "schema": fiber.Map{"type": "string"}},
					},
					"responses": fiber.Map{
						"200": fiber.Map{"description": "PaginatedResponse"},
						"422": fiber.Map{"description": "ErrorResponse"},
						"500": fiber.Map{"description": "ResponseBase"},
					},
				},
			},
		},
	}
}
