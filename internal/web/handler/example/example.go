// Package example provides the paginated example endpoint.
package example

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/erickhv92/go-api-template/internal/db/queries"
	"github.com/erickhv92/go-api-template/internal/db/session"
	"github.com/erickhv92/go-api-template/internal/pagination"
	"github.com/erickhv92/go-api-template/internal/web/handler"
	"github.com/erickhv92/go-api-template/internal/web/response"
)

const (
	// Path is the route of the example list.
	Path = "/examples"

	// QueryFile returns one page of examples.
	QueryFile = "example_query.sql"

	// CountFile counts the examples matching the filter.
	CountFile = "example_count.sql"

	defaultPage     = 1
	defaultPageSize = 10
)

// QueryParams are the accepted query string parameters.
type QueryParams struct {
	Page     int    `query:"page"      validate:"gte=1"`
	PageSize int    `query:"page_size" validate:"gte=1,lte=100"`
	Status   string `query:"status"`
}

// Service is the example handler service.
type Service struct {
	handler.Service
	factory   *session.Factory
	executor  *queries.Executor
	validator *validator.Validate
}

// Init registers the example routes on router.
func (s *Service) Init(router fiber.Router, factory *session.Factory, executor *queries.Executor) error {
	if router == nil || factory == nil || executor == nil {
		return handler.ErrNilDependency
	}

	s.factory = factory
	s.executor = executor
	s.validator = validator.New()

	router.Route(Path, func(r fiber.Router) {
		r.Get(handler.RouterRootPath, s.Get)
	}, "examples")

	return nil
}

// Get returns one page of examples.
func (s *Service) Get(c *fiber.Ctx) error {
	params := QueryParams{Page: defaultPage, PageSize: defaultPageSize}

	if err := c.QueryParser(&params); err != nil {
		log.Debug().Err(err).Msg("invalid example query")

		return response.Error(c, fiber.StatusUnprocessableEntity, "invalid query parameters",
			response.ErrorCodeValidation, map[string]any{"query": err.Error()})
	}

	if err := s.validator.Struct(params); err != nil {
		return response.Error(c, fiber.StatusUnprocessableEntity, "invalid query parameters",
			response.ErrorCodeValidation, validationDetails(err))
	}

	page, err := s.list(c.UserContext(), params)
	if err != nil {
		log.Error().Err(err).Msg("failed to list examples")

		return response.InternalError(c, err)
	}

	return c.JSON(page)
}

func (s *Service) list(ctx context.Context, params QueryParams) (*response.PaginatedResponse, error) {
	var (
		total int
		rows  []queries.Row
	)

	var status any
	if params.Status != "" {
		status = params.Status
	}

	err := s.factory.Scoped(ctx, func(tx *gorm.DB) error {
		row, err := s.executor.ExecuteOne(tx, CountFile, queries.Params{"status": status})
		if err != nil {
			return err
		}

		if total, err = toInt(row["total"]); err != nil {
			return err
		}

		offset, ok := pagination.Offset(params.Page, params.PageSize)
		if !ok {
			return nil
		}

		rows, err = s.executor.Execute(tx, QueryFile, queries.Params{
			"status": status,
			"limit":  params.PageSize,
			"offset": offset,
		})

		return err
	})
	if err != nil {
		return nil, err
	}

	items := make([]any, len(rows))
	for i, row := range rows {
		items[i] = row
	}

	return &response.PaginatedResponse{
		ResponseBase: response.ResponseBase{Success: true},
		Total:        total,
		Page:         params.Page,
		PageSize:     params.PageSize,
		Pages:        pagination.Pages(total, params.PageSize),
		Items:        items,
	}, nil
}

func validationDetails(err error) map[string]any {
	details := map[string]any{}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		details["query"] = err.Error()
		return details
	}

	for _, ve := range validationErrors {
		details[queryName(ve.StructField())] = fmt.Sprintf("failed '%s' (%s)", ve.Tag(), ve.Param())
	}

	return details
}

// queryName maps a struct field to its query string name.
func queryName(field string) string {
	switch field {
	case "PageSize":
		return "page_size"
	default:
		return strings.ToLower(field)
	}
}

// toInt converts a count column, drivers disagree on its type.
func toInt(v any) (int, error) {
	switch tv := v.(type) {
	case nil:
		return 0, nil
	case int:
		return tv, nil
	case int32:
		return int(tv), nil
	case int64:
		return int(tv), nil
	case uint64:
		return int(tv), nil //nolint:gosec
	case float64:
		return int(tv), nil
	case []byte:
		return strconv.Atoi(string(tv))
	case string:
		return strconv.Atoi(tv)
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnexpectedCountType, v)
	}
}
