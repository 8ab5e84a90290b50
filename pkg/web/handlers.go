package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/hatchboard/leadflow/pkg/catalog"
	"github.com/hatchboard/leadflow/pkg/models"
	"github.com/hatchboard/leadflow/pkg/services"
)

const defaultLeadLimit = 20

type APIHandlers struct {
	graphService   *services.Graph
	testRunService *services.TestRun
	validator      *validator.Validate
}

func NewAPIHandlers(
	graphService *services.Graph,
	testRunService *services.TestRun,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		graphService:   graphService,
		testRunService: testRunService,
		validator:      validator,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, ok := h.graphService.HealthCheck(c.Context())

	status := "unhealthy"
	httpStatus := http.StatusInternalServerError

	if ok {
		status = "healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

// GetNodeTypes serves the editor palette: every catalog entry with its
// structural class, label, and config schema.
func (h *APIHandlers) GetNodeTypes(c fiber.Ctx) error {
	types := catalog.Types()
	response := make([]NodeTypeResponse, 0, len(types))

	for _, t := range types {
		response = append(response, NodeTypeResponse{
			Type:   t,
			Class:  catalog.Class(t),
			Label:  catalog.Label(t),
			Schema: catalog.ConfigSchema(t),
		})
	}

	return c.JSON(response)
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	graphs, err := h.graphService.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"workflows": graphs})
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req CreateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.graphService.Create(c.Context(), req.Name, req.Description, req.Owner)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	graph, err := h.graphService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(graph)
}

// ReplaceWorkflow stores a full graph. The whole node/edge collection is
// validated and replaced; there is no partial save.
func (h *APIHandlers) ReplaceWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req ReplaceWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	existing, err := h.graphService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Nodes = req.Nodes
	existing.Edges = req.Edges

	updated, err := h.graphService.Replace(c.Context(), existing)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if err := h.graphService.Delete(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) CreateNode(c fiber.Ctx) error {
	id := c.Params("id")

	var req AddNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	node, err := h.graphService.AddNode(c.Context(), id, req.Type, req.PositionX, req.PositionY)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(node)
}

func (h *APIHandlers) UpdateNodeConfig(c fiber.Ctx) error {
	id := c.Params("id")
	nodeID := c.Params("nodeId")

	var req UpdateNodeConfigRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.graphService.UpdateNodeConfig(c.Context(), id, nodeID, req.Config); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) DeleteNode(c fiber.Ctx) error {
	id := c.Params("id")
	nodeID := c.Params("nodeId")

	if err := h.graphService.RemoveNode(c.Context(), id, nodeID); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// CreateEdge proposes a connection. A structural rejection comes back as a
// 422 with the human-readable reason; the graph is unchanged.
func (h *APIHandlers) CreateEdge(c fiber.Ctx) error {
	id := c.Params("id")

	var req ConnectRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	edge, err := h.graphService.Connect(c.Context(), id, req.SourceNodeID, req.TargetNodeID, req.Config)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(edge)
}

func (h *APIHandlers) DeleteEdge(c fiber.Ctx) error {
	id := c.Params("id")
	edgeID := c.Params("edgeId")

	if err := h.graphService.RemoveEdge(c.Context(), id, edgeID); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) SubmitTestRun(c fiber.Ctx) error {
	id := c.Params("id")

	var req SubmitTestRunRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	run, err := h.testRunService.Submit(c.Context(), id, req.LeadID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(run)
}

func (h *APIHandlers) GetTestRun(c fiber.Ctx) error {
	id := c.Params("id")
	runID := c.Params("runId")

	run, err := h.testRunService.Status(c.Context(), id, runID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(run)
}

// GetLeads serves the simulation-subject selector. A lookup failure
// degrades to the synthetic subject instead of failing the test flow.
func (h *APIHandlers) GetLeads(c fiber.Ctx) error {
	limit := defaultLeadLimit

	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			return badRequest(c, "Invalid limit parameter")
		}

		limit = parsed
	}

	leads, err := h.testRunService.Leads(c.Context(), limit)
	if err != nil {
		leads = []*models.TestLead{models.SyntheticLead()}
	}

	return c.JSON(fiber.Map{"leads": leads})
}
