package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/openconvo/convograph-backend/internal/data/graph"
	types "github.com/openconvo/convograph-backend/internal/domain"
	"github.com/openconvo/convograph-backend/internal/platform/logger"
)

// TurnIntentService is the single place reconciling an intent's speaker with
// its REQUEST/RESPONSE classification under a turn. The two are set
// independently by the API layer; here the direction tag alone decides which
// side of the turn the intent lands on.
type TurnIntentService struct {
	client graph.Client
	log    *logger.Logger
}

func NewTurnIntentService(client graph.Client, log *logger.Logger) *TurnIntentService {
	return &TurnIntentService{client: client, log: log.With("service", "TurnIntent")}
}

// Store attaches the intent under the turn on the side named by direction.
func (s *TurnIntentService) Store(ctx context.Context, turnUID uuid.UUID, intent *types.Intent, direction types.Direction) (*types.Intent, error) {
	switch direction {
	case types.DirectionRequest:
		return s.client.AddRequestIntent(ctx, turnUID, intent)
	case types.DirectionResponse:
		return s.client.AddResponseIntent(ctx, turnUID, intent)
	}
	return nil, graph.NewError(graph.CodeValidation, "turnintent.Store",
		"direction must be REQUEST or RESPONSE, got "+string(direction), nil)
}

// Update migrates an already-linked intent to the given side without
// mutating intent content, then re-fetches the turn and reports whichever
// side now holds the intent. A turn holding the intent on neither side is an
// inconsistent request and yields an error, never a silently empty result.
// Repeating the same direction is a no-op.
func (s *TurnIntentService) Update(ctx context.Context, turnUID, intentUID uuid.UUID, direction types.Direction) (types.Direction, *types.Turn, error) {
	const op = "turnintent.Update"
	if direction != types.DirectionRequest && direction != types.DirectionResponse {
		return "", nil, graph.NewError(graph.CodeValidation, op,
			"direction must be REQUEST or RESPONSE, got "+string(direction), nil)
	}
	if err := s.client.UpdateTurnIntentRelation(ctx, turnUID, intentUID, direction); err != nil {
		return "", nil, err
	}
	turn, err := s.client.GetTurnWithIntent(ctx, turnUID, intentUID)
	if err != nil {
		return "", nil, err
	}
	side := turn.IntentSide(intentUID)
	if side == "" {
		return "", nil, graph.NewError(graph.CodeValidation, op,
			"intent "+intentUID.String()+" not linked to turn "+turnUID.String()+" after relation update", nil)
	}
	s.log.Debug("turn intent relation updated",
		"turn_uid", turnUID, "intent_uid", intentUID, "side", string(side))
	return side, turn, nil
}

// Detach removes only the turn-intent association. The intent entity stays
// and is deleted separately.
func (s *TurnIntentService) Detach(ctx context.Context, turnUID, intentUID uuid.UUID) error {
	return s.client.DetachTurnIntent(ctx, turnUID, intentUID)
}
