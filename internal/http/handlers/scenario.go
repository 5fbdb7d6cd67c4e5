package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openconvo/convograph-backend/internal/data/graph"
	types "github.com/openconvo/convograph-backend/internal/domain"
	"github.com/openconvo/convograph-backend/internal/http/response"
	"github.com/openconvo/convograph-backend/internal/services"
)

type ScenarioHandler struct {
	svc      *services.ScenarioService
	scaffold *services.ScaffoldService
}

func NewScenarioHandler(svc *services.ScenarioService, scaffold *services.ScaffoldService) *ScenarioHandler {
	return &ScenarioHandler{svc: svc, scaffold: scaffold}
}

type createScenarioRequest struct {
	OdID             string `json:"od_id" binding:"required"`
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	Interpreter      string `json:"interpreter"`
	WelcomeUtterance string `json:"welcome_utterance"`
	NoMatchUtterance string `json:"no_match_utterance"`
}

// POST /api/scenarios
func (h *ScenarioHandler) Create(c *gin.Context) {
	var req createScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	scenario := types.NewScenario(req.OdID, req.Name)
	scenario.Description = req.Description
	if req.Interpreter != "" {
		scenario.Interpreter = req.Interpreter
	}

	created, err := h.svc.Create(c.Request.Context(), scenario, req.WelcomeUtterance, req.NoMatchUtterance)
	if err != nil {
		response.RespondGraphError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"scenario": created})
}

// GET /api/scenarios
func (h *ScenarioHandler) List(c *gin.Context) {
	page := graph.Page{}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidPage)
			return
		}
		page.Offset = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidPage)
			return
		}
		page.Limit = n
	}

	scenarios, err := h.svc.List(c.Request.Context(), page)
	if err != nil {
		response.RespondGraphError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"scenarios": scenarios})
}

// GET /api/scenarios/:id
func (h *ScenarioHandler) Get(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}
	scenario, err := h.svc.Get(c.Request.Context(), uid)
	if err != nil {
		response.RespondGraphError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"scenario": scenario})
}

// PATCH /api/scenarios/:id
func (h *ScenarioHandler) Update(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}
	var scenario types.Scenario
	if err := c.ShouldBindJSON(&scenario); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	scenario.UID = uid

	updated, err := h.svc.Update(c.Request.Context(), &scenario)
	if err != nil {
		response.RespondGraphError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"scenario": updated})
}

// DELETE /api/scenarios/:id
func (h *ScenarioHandler) Delete(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), uid); err != nil {
		response.RespondGraphError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/scenarios/:id/retry-condition
//
// Resumes scaffold generation that failed after the subtree was committed.
func (h *ScenarioHandler) RetryCondition(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}
	scenario, err := h.scaffold.RetryCondition(c.Request.Context(), uid)
	if err != nil {
		response.RespondGraphError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"scenario": scenario})
}
