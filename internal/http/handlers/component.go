package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openconvo/convograph-backend/internal/components"
	"github.com/openconvo/convograph-backend/internal/http/response"
)

type ComponentHandler struct {
	registry *components.Registry
}

func NewComponentHandler(registry *components.Registry) *ComponentHandler {
	return &ComponentHandler{registry: registry}
}

// GET /api/components
func (h *ComponentHandler) List(c *gin.Context) {
	response.RespondOK(c, gin.H{"components": h.registry.ComponentIDs()})
}

type validateComponentRequest struct {
	Configuration map[string]any `json:"configuration" binding:"required"`
}

// POST /api/components/:id/validate
//
// Always responds 200; the verdict and any field violations are in the body.
func (h *ComponentHandler) Validate(c *gin.Context) {
	componentID := c.Param("id")
	var req validateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	fieldErrs := h.registry.Validate(componentID, req.Configuration)
	response.RespondOK(c, gin.H{
		"component_id": componentID,
		"valid":        fieldErrs.Empty(),
		"errors":       fieldErrs,
	})
}
