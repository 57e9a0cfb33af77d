package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/erickhv92/go-api-template/internal/db/queries"
	"github.com/erickhv92/go-api-template/internal/db/session"
)

// Service is the interface for an api handler service.
type Service interface {
	Init(router fiber.Router, factory *session.Factory, executor *queries.Executor) error
}
