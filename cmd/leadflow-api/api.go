// Package main provides the LeadFlow API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/hatchboard/leadflow/pkg/eventbus"
	"github.com/hatchboard/leadflow/pkg/log"
	"github.com/hatchboard/leadflow/pkg/persistence"
	"github.com/hatchboard/leadflow/pkg/services"
	"github.com/hatchboard/leadflow/pkg/simulation"
	"github.com/hatchboard/leadflow/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	graphService := services.NewGraph(a.persistence)
	executor := simulation.NewExecutor(log.WithModule("simulation"), nil)
	testRunService := services.NewTestRun(a.persistence, a.eventBus, executor, a.logger)

	handlers := web.NewAPIHandlers(graphService, testRunService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("LeadFlow API")
	})

	app.Get("/node-types", handlers.GetNodeTypes)
	app.Get("/leads", handlers.GetLeads)

	w := app.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.CreateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)
	w.Put("/:id", handlers.ReplaceWorkflow)
	w.Delete("/:id", handlers.DeleteWorkflow)

	w.Post("/:id/nodes", handlers.CreateNode)
	w.Patch("/:id/nodes/:nodeId", handlers.UpdateNodeConfig)
	w.Delete("/:id/nodes/:nodeId", handlers.DeleteNode)

	w.Post("/:id/edges", handlers.CreateEdge)
	w.Delete("/:id/edges/:edgeId", handlers.DeleteEdge)

	w.Post("/:id/test-runs", handlers.SubmitTestRun)
	w.Get("/:id/test-runs/:runId", handlers.GetTestRun)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
