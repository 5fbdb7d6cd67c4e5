package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/openconvo/convograph-backend/internal/data/graph"
	types "github.com/openconvo/convograph-backend/internal/domain"
	"github.com/openconvo/convograph-backend/internal/platform/logger"
)

func newRelationFixture(t *testing.T) (*TurnIntentService, uuid.UUID, uuid.UUID) {
	t.Helper()
	client := graph.NewMemoryClient()
	svc := NewTurnIntentService(client, logger.NewNop())
	ctx := context.Background()

	scenario := types.NewScenario("desk", "Desk")
	conversation := types.NewConversation("desk_conversation", "Desk Conversation")
	scene := types.NewScene("desk_scene", "Desk Scene")
	turn := types.NewTurn("desk_turn", "Desk Turn")
	scene.AddTurn(turn)
	conversation.AddScene(scene)
	scenario.AddConversation(conversation)
	persisted, err := client.AddFullScenarioGraph(ctx, scenario)
	if err != nil {
		t.Fatalf("AddFullScenarioGraph: %v", err)
	}
	turnUID := persisted.Conversations[0].Scenes[0].Turns[0].UID

	intent, _ := types.NewIntent("intent.ask", "Ask", types.SpeakerUser)
	stored, err := svc.Store(ctx, turnUID, intent, types.DirectionRequest)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	return svc, turnUID, stored.UID
}

func TestStoreRejectsUnknownDirection(t *testing.T) {
	t.Parallel()
	svc, turnUID, _ := newRelationFixture(t)

	intent, _ := types.NewIntent("intent.other", "Other", types.SpeakerUser)
	_, err := svc.Store(context.Background(), turnUID, intent, types.Direction("SIDEWAYS"))
	if !graph.IsCode(err, graph.CodeValidation) {
		t.Fatalf("expected validation error: got=%v", err)
	}
}

func TestUpdateMovesIntentAndReportsSide(t *testing.T) {
	t.Parallel()
	svc, turnUID, intentUID := newRelationFixture(t)
	ctx := context.Background()

	side, turn, err := svc.Update(ctx, turnUID, intentUID, types.DirectionResponse)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if side != types.DirectionResponse {
		t.Fatalf("unexpected side: got=%q want=%q", side, types.DirectionResponse)
	}
	if len(turn.ResponseIntents) != 1 || turn.ResponseIntents[0].UID != intentUID {
		t.Fatalf("turn not filtered to the moved intent: %+v", turn)
	}
	if len(turn.RequestIntents) != 0 {
		t.Fatalf("intent still present on request side")
	}

	// Repeating the same direction is a no-op.
	side, _, err = svc.Update(ctx, turnUID, intentUID, types.DirectionResponse)
	if err != nil {
		t.Fatalf("repeated Update: %v", err)
	}
	if side != types.DirectionResponse {
		t.Fatalf("unexpected side on repeat: got=%q", side)
	}
}

func TestUpdateRejectsUnknownDirection(t *testing.T) {
	t.Parallel()
	svc, turnUID, intentUID := newRelationFixture(t)

	_, _, err := svc.Update(context.Background(), turnUID, intentUID, types.Direction(""))
	if !graph.IsCode(err, graph.CodeValidation) {
		t.Fatalf("expected validation error: got=%v", err)
	}
}

func TestUpdateUnlinkedIntentIsNotFound(t *testing.T) {
	t.Parallel()
	svc, turnUID, _ := newRelationFixture(t)

	_, _, err := svc.Update(context.Background(), turnUID, uuid.New(), types.DirectionRequest)
	if !graph.IsCode(err, graph.CodeNotFound) {
		t.Fatalf("expected not-found error: got=%v", err)
	}
}

func TestDetachLeavesIntentEntity(t *testing.T) {
	t.Parallel()
	svc, turnUID, intentUID := newRelationFixture(t)
	ctx := context.Background()

	if err := svc.Detach(ctx, turnUID, intentUID); err != nil {
		t.Fatalf("Detach: %v", err)
	}
	// The entity survives; only the association is gone.
	intent, err := svc.client.GetIntent(ctx, intentUID)
	if err != nil {
		t.Fatalf("GetIntent after detach: %v", err)
	}
	if intent.UID != intentUID {
		t.Fatalf("unexpected intent: %+v", intent)
	}
	turn, err := svc.client.GetTurn(ctx, turnUID)
	if err != nil {
		t.Fatalf("GetTurn: %v", err)
	}
	if len(turn.RequestIntents) != 0 || len(turn.ResponseIntents) != 0 {
		t.Fatalf("turn still holds detached intent")
	}
}
