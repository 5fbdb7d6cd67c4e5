package graph

import (
	"context"

	"github.com/google/uuid"

	types "github.com/openconvo/convograph-backend/internal/domain"
)

// Page bounds a list read.
type Page struct {
	Offset int
	Limit  int
}

// DefaultPageLimit caps unbounded list reads.
const DefaultPageLimit = 50

func (p Page) normalized() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Client is the boundary to the backing graph store. All writes return the
// persisted entity with assigned UIDs so callers can chain operations.
// Transport failures are reported with CodeTransport independent of
// business-logic errors.
//
// Delete policy: DeleteScenario and DeleteTurn cascade to their descendants.
// DeleteIntent does not cascade upward and fails with CodeConflict while the
// intent is still attached to a turn; callers detach first, then delete.
type Client interface {
	// Reads.
	GetScenario(ctx context.Context, uid uuid.UUID) (*types.Scenario, error)
	GetConversation(ctx context.Context, uid uuid.UUID) (*types.Conversation, error)
	GetScene(ctx context.Context, uid uuid.UUID) (*types.Scene, error)
	GetTurn(ctx context.Context, uid uuid.UUID) (*types.Turn, error)
	GetIntent(ctx context.Context, uid uuid.UUID) (*types.Intent, error)
	GetMessageTemplate(ctx context.Context, uid uuid.UUID) (*types.MessageTemplate, error)

	ListScenarios(ctx context.Context, page Page) ([]*types.Scenario, error)

	GetScenarioConversations(ctx context.Context, scenarioUID uuid.UUID) ([]*types.Conversation, error)
	GetConversationScenes(ctx context.Context, conversationUID uuid.UUID) ([]*types.Scene, error)
	GetSceneTurns(ctx context.Context, sceneUID uuid.UUID) ([]*types.Turn, error)
	GetTurnIntents(ctx context.Context, turnUID uuid.UUID, direction types.Direction) ([]*types.Intent, error)
	GetIntentMessageTemplates(ctx context.Context, intentUID uuid.UUID) ([]*types.MessageTemplate, error)

	// GetTurnWithIntent returns the turn populated with only the matching
	// intent(s), never the full intent set. The match can sit on either
	// side, so callers inspect both collections.
	GetTurnWithIntent(ctx context.Context, turnUID, intentUID uuid.UUID) (*types.Turn, error)

	// Writes. Each attaches a fully-formed child under an already-persisted
	// parent and assigns a new uid.
	AddConversation(ctx context.Context, scenarioUID uuid.UUID, c *types.Conversation) (*types.Conversation, error)
	AddRequestIntent(ctx context.Context, turnUID uuid.UUID, i *types.Intent) (*types.Intent, error)
	AddResponseIntent(ctx context.Context, turnUID uuid.UUID, i *types.Intent) (*types.Intent, error)
	AddMessageTemplate(ctx context.Context, intentUID uuid.UUID, mt *types.MessageTemplate) (*types.MessageTemplate, error)

	// AddFullScenarioGraph persists a scenario together with its entire
	// pre-built subtree as one atomic write: either the whole subtree is
	// visible afterwards or none of it is.
	AddFullScenarioGraph(ctx context.Context, s *types.Scenario) (*types.Scenario, error)

	// Updates. Whole-entity replace by uid; UpdateIntent never touches the
	// turn relation, UpdateTurnIntentRelation never touches intent content.
	UpdateScenario(ctx context.Context, s *types.Scenario) (*types.Scenario, error)
	UpdateConversation(ctx context.Context, c *types.Conversation) (*types.Conversation, error)
	UpdateTurn(ctx context.Context, t *types.Turn) (*types.Turn, error)
	UpdateIntent(ctx context.Context, i *types.Intent) (*types.Intent, error)
	UpdateTurnIntentRelation(ctx context.Context, turnUID, intentUID uuid.UUID, direction types.Direction) error

	// Deletes.
	DeleteScenario(ctx context.Context, uid uuid.UUID) error
	DeleteTurn(ctx context.Context, uid uuid.UUID) error
	DeleteIntent(ctx context.Context, uid uuid.UUID) error
	DetachTurnIntent(ctx context.Context, turnUID, intentUID uuid.UUID) error
}
