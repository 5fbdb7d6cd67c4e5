package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/openconvo/convograph-backend/internal/domain"
	"github.com/openconvo/convograph-backend/internal/http/response"
	"github.com/openconvo/convograph-backend/internal/services"
)

type TurnHandler struct {
	svc *services.TurnService
}

func NewTurnHandler(svc *services.TurnService) *TurnHandler {
	return &TurnHandler{svc: svc}
}

// GET /api/scenes/:id/turns
func (h *TurnHandler) ListForScene(c *gin.Context) {
	sceneUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}
	turns, err := h.svc.ListForScene(c.Request.Context(), sceneUID)
	if err != nil {
		response.RespondGraphError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"turns": turns})
}

// GET /api/turns/:id
func (h *TurnHandler) Get(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}
	turn, err := h.svc.Get(c.Request.Context(), uid)
	if err != nil {
		response.RespondGraphError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"turn": turn})
}

// GET /api/turns/:id/intents/:intentId
//
// Returns the turn populated with just the named intent, on whichever side
// it is attached.
func (h *TurnHandler) GetWithIntent(c *gin.Context) {
	turnUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}
	intentUID, err := uuid.Parse(c.Param("intentId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}
	turn, err := h.svc.GetWithIntent(c.Request.Context(), turnUID, intentUID)
	if err != nil {
		response.RespondGraphError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"turn": turn})
}

// PATCH /api/turns/:id
func (h *TurnHandler) Update(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}
	var turn types.Turn
	if err := c.ShouldBindJSON(&turn); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	turn.UID = uid

	updated, err := h.svc.Update(c.Request.Context(), &turn)
	if err != nil {
		response.RespondGraphError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"turn": updated})
}

// DELETE /api/turns/:id
func (h *TurnHandler) Delete(c *gin.Context) {
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
