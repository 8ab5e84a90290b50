package web

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/hatchboard/leadflow/pkg/catalog"
	"github.com/hatchboard/leadflow/pkg/graph"
	"github.com/hatchboard/leadflow/pkg/persistence"
	"github.com/hatchboard/leadflow/pkg/services"
	"github.com/moogar0880/problems"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func connectionRejected(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(422).
		WithInstance(c.Path()).
		WithType("connection_rejected").
		WithDetail(detail)

	return c.Status(fiber.StatusUnprocessableEntity).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleServiceError provides typed error handling for service layer errors.
func handleServiceError(c fiber.Ctx, err error) error {
	switch {
	case services.IsConnectionRejection(err):
		return connectionRejected(c, err.Error())

	case services.IsValidationError(err),
		errors.Is(err, catalog.ErrUnknownNodeType),
		errors.Is(err, catalog.ErrInvalidConfig):
		return badRequest(c, err.Error())

	case errors.Is(err, graph.ErrNodeNotFound):
		return notFound(c, "node not found")

	case errors.Is(err, graph.ErrEdgeNotFound):
		return notFound(c, "edge not found")

	case persistence.IsWorkflowNotFound(err):
		return notFound(c, "workflow not found")

	case persistence.IsTestRunNotFound(err):
		return notFound(c, "test run not found")

	case persistence.IsLeadNotFound(err):
		return notFound(c, "lead not found")

	default:
		return internalError(c, err)
	}
}
