package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/openconvo/convograph-backend/internal/data/graph"
	types "github.com/openconvo/convograph-backend/internal/domain"
	"github.com/openconvo/convograph-backend/internal/platform/logger"
)

// TurnService reads and maintains turns.
type TurnService struct {
	client graph.Client
	log    *logger.Logger
}

func NewTurnService(client graph.Client, log *logger.Logger) *TurnService {
	return &TurnService{client: client, log: log.With("service", "Turn")}
}

func (s *TurnService) Get(ctx context.Context, uid uuid.UUID) (*types.Turn, error) {
	return s.client.GetTurn(ctx, uid)
}

// GetWithIntent returns the turn populated with only the matching intent(s).
func (s *TurnService) GetWithIntent(ctx context.Context, turnUID, intentUID uuid.UUID) (*types.Turn, error) {
	return s.client.GetTurnWithIntent(ctx, turnUID, intentUID)
}

func (s *TurnService) ListForScene(ctx context.Context, sceneUID uuid.UUID) ([]*types.Turn, error) {
	return s.client.GetSceneTurns(ctx, sceneUID)
}

func (s *TurnService) Update(ctx context.Context, turn *types.Turn) (*types.Turn, error) {
	return s.client.UpdateTurn(ctx, turn)
}

// Delete removes the turn and, by store policy, its intents and templates.
func (s *TurnService) Delete(ctx context.Context, uid uuid.UUID) error {
	if err := s.client.DeleteTurn(ctx, uid); err != nil {
		return err
	}
	s.log.Info("deleted turn", "turn_uid", uid)
	return nil
}
