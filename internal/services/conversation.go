package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/openconvo/convograph-backend/internal/data/graph"
	types "github.com/openconvo/convograph-backend/internal/domain"
	"github.com/openconvo/convograph-backend/internal/platform/logger"
)

// ConversationService attaches and maintains conversations under scenarios.
type ConversationService struct {
	client graph.Client
	log    *logger.Logger
}

func NewConversationService(client graph.Client, log *logger.Logger) *ConversationService {
	return &ConversationService{client: client, log: log.With("service", "Conversation")}
}

func (s *ConversationService) Add(ctx context.Context, scenarioUID uuid.UUID, conversation *types.Conversation) (*types.Conversation, error) {
	return s.client.AddConversation(ctx, scenarioUID, conversation)
}

func (s *ConversationService) Get(ctx context.Context, uid uuid.UUID) (*types.Conversation, error) {
	return s.client.GetConversation(ctx, uid)
}

func (s *ConversationService) ListForScenario(ctx context.Context, scenarioUID uuid.UUID) ([]*types.Conversation, error) {
	return s.client.GetScenarioConversations(ctx, scenarioUID)
}

func (s *ConversationService) ListScenes(ctx context.Context, conversationUID uuid.UUID) ([]*types.Scene, error) {
	return s.client.GetConversationScenes(ctx, conversationUID)
}

func (s *ConversationService) Update(ctx context.Context, conversation *types.Conversation) (*types.Conversation, error) {
	return s.client.UpdateConversation(ctx, conversation)
}
