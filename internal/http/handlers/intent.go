package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/openconvo/convograph-backend/internal/domain"
	"github.com/openconvo/convograph-backend/internal/http/response"
	"github.com/openconvo/convograph-backend/internal/services"
)

type IntentHandler struct {
	svc *services.IntentService
}

func NewIntentHandler(svc *services.IntentService) *IntentHandler {
	return &IntentHandler{svc: svc}
}

type createIntentRequest struct {
	OdID              string            `json:"od_id" binding:"required"`
	Name              string            `json:"name" binding:"required"`
	Speaker           string            `json:"speaker" binding:"required"`
	Direction         string            `json:"direction" binding:"required"`
	SampleUtterance   string            `json:"sample_utterance"`
	Interpreter       string            `json:"interpreter"`
	Confidence        float64           `json:"confidence"`
	Conditions        []types.Condition `json:"conditions"`
	InterpreterConfig map[string]any    `json:"interpreter_config"`
}

// POST /api/turns/:id/intents
func (h *IntentHandler) Create(c *gin.Context) {
	turnUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}
	var req createIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	speaker, err := types.ParseSpeaker(req.Speaker)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	direction, err := types.ParseDirection(req.Direction)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	intent, err := types.NewIntent(req.OdID, req.Name, speaker)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	intent.SampleUtterance = req.SampleUtterance
	intent.Interpreter = req.Interpreter
	intent.Confidence = req.Confidence
	intent.Conditions = req.Conditions

	created, err := h.svc.Create(c.Request.Context(), turnUID, intent, direction, req.InterpreterConfig)
	if err != nil {
		response.RespondGraphError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"intent": created})
}

// GET /api/intents/:id
func (h *IntentHandler) Get(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}
	intent, err := h.svc.Get(c.Request.Context(), uid)
	if err != nil {
		response.RespondGraphError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"intent": intent})
}

// GET /api/turns/:id/intents?direction=REQUEST|RESPONSE
//
// Without a direction both sides are returned, request side first.
func (h *IntentHandler) ListForTurn(c *gin.Context) {
	turnUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}
	var direction types.Direction
	if raw := c.Query("direction"); raw != "" {
		direction, err = types.ParseDirection(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "bad_request", err)
			return
		}
	}
	intents, err := h.svc.ListForTurn(c.Request.Context(), turnUID, direction)
	if err != nil {
		response.RespondGraphError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"intents": intents})
}

// GET /api/intents/:id/message-templates
func (h *IntentHandler) ListTemplates(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}
	templates, err := h.svc.Templates(c.Request.Context(), uid)
	if err != nil {
		response.RespondGraphError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message_templates": templates})
}

// PATCH /api/intents/:id
func (h *IntentHandler) Update(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}
	var intent types.Intent
	if err := c.ShouldBindJSON(&intent); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	intent.UID = uid

	updated, err := h.svc.Update(c.Request.Context(), &intent)
	if err != nil {
		response.RespondGraphError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"intent": updated})
}

type updateRelationRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// PUT /api/turns/:id/intents/:intentId/relation
func (h *IntentHandler) UpdateRelation(c *gin.Context) {
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
	var req updateRelationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	direction, err := types.ParseDirection(req.Direction)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	side, turn, err := h.svc.UpdateRelation(c.Request.Context(), turnUID, intentUID, direction)
	if err != nil {
		response.RespondGraphError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"direction": side, "turn": turn})
}

// DELETE /api/turns/:id/intents/:intentId
//
// Detaches the intent from the turn without deleting the intent itself.
func (h *IntentHandler) Detach(c *gin.Context) {
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
	if err := h.svc.Detach(c.Request.Context(), turnUID, intentUID); err != nil {
		response.RespondGraphError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /api/intents/:id
func (h *IntentHandler) Delete(c *gin.Context) {
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
