package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/openconvo/convograph-backend/internal/domain"
	"github.com/openconvo/convograph-backend/internal/http/response"
	"github.com/openconvo/convograph-backend/internal/services"
)

type ConversationHandler struct {
	svc *services.ConversationService
}

func NewConversationHandler(svc *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

// POST /api/scenarios/:id/conversations
//
// Accepts a full conversation subtree; scenes, turns, intents and templates
// nested in the body are persisted along with it.
func (h *ConversationHandler) Add(c *gin.Context) {
	scenarioUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}
	var conversation types.Conversation
	if err := c.ShouldBindJSON(&conversation); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	created, err := h.svc.Add(c.Request.Context(), scenarioUID, &conversation)
	if err != nil {
		response.RespondGraphError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"conversation": created})
}

// GET /api/scenarios/:id/conversations
func (h *ConversationHandler) ListForScenario(c *gin.Context) {
	scenarioUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}
	conversations, err := h.svc.ListForScenario(c.Request.Context(), scenarioUID)
	if err != nil {
		response.RespondGraphError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"conversations": conversations})
}

// GET /api/conversations/:id
func (h *ConversationHandler) Get(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}
	conversation, err := h.svc.Get(c.Request.Context(), uid)
	if err != nil {
		response.RespondGraphError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"conversation": conversation})
}

// GET /api/conversations/:id/scenes
func (h *ConversationHandler) ListScenes(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}
	scenes, err := h.svc.ListScenes(c.Request.Context(), uid)
	if err != nil {
		response.RespondGraphError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"scenes": scenes})
}

// PATCH /api/conversations/:id
func (h *ConversationHandler) Update(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errInvalidID)
		return
	}
	var conversation types.Conversation
	if err := c.ShouldBindJSON(&conversation); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	conversation.UID = uid

	updated, err := h.svc.Update(c.Request.Context(), &conversation)
	if err != nil {
		response.RespondGraphError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"conversation": updated})
}
