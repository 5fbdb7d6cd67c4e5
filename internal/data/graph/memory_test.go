package graph

import (
	"context"
	"strconv"
	"testing"

	"github.com/google/uuid"

	types "github.com/openconvo/convograph-backend/internal/domain"
)

func seedScenario(t *testing.T, m *MemoryClient) *types.Scenario {
	t.Helper()

	scenario := types.NewScenario("support", "Support")
	conversation := types.NewConversation("support_conversation", "Support Conversation")
	scene := types.NewScene("support_scene", "Support Scene")
	turn := types.NewTurn("support_turn", "Support Turn")
	request, _ := types.NewIntent("intent.ask", "Ask", types.SpeakerUser)
	response, _ := types.NewIntent("intent.answer", "Answer", types.SpeakerApp)
	response.SampleUtterance = "How can I help?"
	response.AddMessageTemplate(
		types.NewMessageTemplate("answer_message", "Answer Message", types.TextMarkup("How can I help?")))
	turn.AddRequestIntent(request)
	turn.AddResponseIntent(response)
	scene.AddTurn(turn)
	conversation.AddScene(scene)
	scenario.AddConversation(conversation)

	persisted, err := m.AddFullScenarioGraph(context.Background(), scenario)
	if err != nil {
		t.Fatalf("AddFullScenarioGraph: %v", err)
	}
	return persisted
}

func TestAddFullScenarioGraphAssignsUIDsAndBackrefs(t *testing.T) {
	t.Parallel()
	m := NewMemoryClient()

	persisted := seedScenario(t, m)
	if persisted.UID == uuid.Nil {
		t.Fatalf("scenario uid not assigned")
	}
	if len(persisted.Conversations) != 1 {
		t.Fatalf("unexpected conversation count: got=%d want=1", len(persisted.Conversations))
	}
	conversation := persisted.Conversations[0]
	if conversation.ScenarioUID != persisted.UID {
		t.Fatalf("conversation backref mismatch: got=%s want=%s", conversation.ScenarioUID, persisted.UID)
	}
	turn := conversation.Scenes[0].Turns[0]
	if len(turn.RequestIntents) != 1 || len(turn.ResponseIntents) != 1 {
		t.Fatalf("unexpected intent counts: requests=%d responses=%d",
			len(turn.RequestIntents), len(turn.ResponseIntents))
	}
	if turn.RequestIntents[0].TurnUID != turn.UID {
		t.Fatalf("intent backref mismatch")
	}
	if len(turn.ResponseIntents[0].MessageTemplates) != 1 {
		t.Fatalf("message template not persisted with subtree")
	}
}

func TestGetScenarioRoundTrip(t *testing.T) {
	t.Parallel()
	m := NewMemoryClient()

	persisted := seedScenario(t, m)
	loaded, err := m.GetScenario(context.Background(), persisted.UID)
	if err != nil {
		t.Fatalf("GetScenario: %v", err)
	}
	if !persisted.Equal(loaded) {
		t.Fatalf("round trip mismatch:\n got=%+v\nwant=%+v", loaded, persisted)
	}
}

func TestGetScenarioNotFound(t *testing.T) {
	t.Parallel()
	m := NewMemoryClient()

	_, err := m.GetScenario(context.Background(), uuid.New())
	if !IsCode(err, CodeNotFound) {
		t.Fatalf("unexpected error: got=%v want code=%s", err, CodeNotFound)
	}
}

func TestListScenariosPagination(t *testing.T) {
	t.Parallel()
	m := NewMemoryClient()
	ctx := context.Background()

	var uids []uuid.UUID
	for i := 0; i < 3; i++ {
		s, err := m.AddFullScenarioGraph(ctx, types.NewScenario("s"+strconv.Itoa(i), "S"))
		if err != nil {
			t.Fatalf("AddFullScenarioGraph: %v", err)
		}
		uids = append(uids, s.UID)
	}

	page, err := m.ListScenarios(ctx, Page{Offset: 1, Limit: 1})
	if err != nil {
		t.Fatalf("ListScenarios: %v", err)
	}
	if len(page) != 1 {
		t.Fatalf("unexpected page size: got=%d want=1", len(page))
	}
	if page[0].UID != uids[1] {
		t.Fatalf("unexpected page content: got=%s want=%s", page[0].UID, uids[1])
	}

	all, err := m.ListScenarios(ctx, Page{})
	if err != nil {
		t.Fatalf("ListScenarios: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("unexpected scenario count: got=%d want=3", len(all))
	}
}

func TestUpdateIntentPreservesRelationAndTimestamps(t *testing.T) {
	t.Parallel()
	m := NewMemoryClient()
	ctx := context.Background()

	persisted := seedScenario(t, m)
	intent := persisted.Conversations[0].Scenes[0].Turns[0].RequestIntents[0]

	patch := intent.Clone()
	patch.Name = "Ask Again"
	patch.TurnUID = uuid.Nil // relation must survive regardless of input

	updated, err := m.UpdateIntent(ctx, patch)
	if err != nil {
		t.Fatalf("UpdateIntent: %v", err)
	}
	if updated.Name != "Ask Again" {
		t.Fatalf("update not applied: got=%q", updated.Name)
	}
	if updated.TurnUID != intent.TurnUID {
		t.Fatalf("turn relation mutated by UpdateIntent: got=%s want=%s", updated.TurnUID, intent.TurnUID)
	}
	if !updated.CreatedAt.Equal(intent.CreatedAt) {
		t.Fatalf("created_at mutated by update")
	}
}

func TestUpdateTurnIntentRelationMovesSides(t *testing.T) {
	t.Parallel()
	m := NewMemoryClient()
	ctx := context.Background()

	persisted := seedScenario(t, m)
	turn := persisted.Conversations[0].Scenes[0].Turns[0]
	intent := turn.RequestIntents[0]

	if err := m.UpdateTurnIntentRelation(ctx, turn.UID, intent.UID, types.DirectionResponse); err != nil {
		t.Fatalf("UpdateTurnIntentRelation: %v", err)
	}
	reloaded, err := m.GetTurn(ctx, turn.UID)
	if err != nil {
		t.Fatalf("GetTurn: %v", err)
	}
	if side := reloaded.IntentSide(intent.UID); side != types.DirectionResponse {
		t.Fatalf("intent not moved: got side=%q", side)
	}
	if len(reloaded.ResponseIntents) != 2 {
		t.Fatalf("unexpected response side size: got=%d want=2", len(reloaded.ResponseIntents))
	}

	// Same direction again is a no-op, never a duplicate link.
	if err := m.UpdateTurnIntentRelation(ctx, turn.UID, intent.UID, types.DirectionResponse); err != nil {
		t.Fatalf("idempotent relation update: %v", err)
	}
	reloaded, err = m.GetTurn(ctx, turn.UID)
	if err != nil {
		t.Fatalf("GetTurn: %v", err)
	}
	if len(reloaded.ResponseIntents) != 2 {
		t.Fatalf("relation duplicated: got=%d want=2", len(reloaded.ResponseIntents))
	}
}

func TestUpdateTurnIntentRelationUnlinkedIntent(t *testing.T) {
	t.Parallel()
	m := NewMemoryClient()
	ctx := context.Background()

	persisted := seedScenario(t, m)
	turn := persisted.Conversations[0].Scenes[0].Turns[0]

	err := m.UpdateTurnIntentRelation(ctx, turn.UID, uuid.New(), types.DirectionRequest)
	if !IsCode(err, CodeNotFound) {
		t.Fatalf("unexpected error: got=%v want code=%s", err, CodeNotFound)
	}
}

func TestDeleteIntentRequiresDetach(t *testing.T) {
	t.Parallel()
	m := NewMemoryClient()
	ctx := context.Background()

	persisted := seedScenario(t, m)
	turn := persisted.Conversations[0].Scenes[0].Turns[0]
	intent := turn.RequestIntents[0]

	if err := m.DeleteIntent(ctx, intent.UID); !IsCode(err, CodeConflict) {
		t.Fatalf("expected conflict while attached: got=%v", err)
	}
	if err := m.DetachTurnIntent(ctx, turn.UID, intent.UID); err != nil {
		t.Fatalf("DetachTurnIntent: %v", err)
	}
	if err := m.DeleteIntent(ctx, intent.UID); err != nil {
		t.Fatalf("DeleteIntent after detach: %v", err)
	}
	if _, err := m.GetIntent(ctx, intent.UID); !IsCode(err, CodeNotFound) {
		t.Fatalf("intent still readable after delete: %v", err)
	}
}

func TestDeleteTurnCascades(t *testing.T) {
	t.Parallel()
	m := NewMemoryClient()
	ctx := context.Background()

	persisted := seedScenario(t, m)
	scene := persisted.Conversations[0].Scenes[0]
	turn := scene.Turns[0]
	response := turn.ResponseIntents[0]
	template := response.MessageTemplates[0]

	if err := m.DeleteTurn(ctx, turn.UID); err != nil {
		t.Fatalf("DeleteTurn: %v", err)
	}
	if _, err := m.GetTurn(ctx, turn.UID); !IsCode(err, CodeNotFound) {
		t.Fatalf("turn still readable: %v", err)
	}
	if _, err := m.GetIntent(ctx, response.UID); !IsCode(err, CodeNotFound) {
		t.Fatalf("intent survived turn delete: %v", err)
	}
	if _, err := m.GetMessageTemplate(ctx, template.UID); !IsCode(err, CodeNotFound) {
		t.Fatalf("template survived turn delete: %v", err)
	}
	turns, err := m.GetSceneTurns(ctx, scene.UID)
	if err != nil {
		t.Fatalf("GetSceneTurns: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("scene still references deleted turn")
	}
}

func TestDeleteScenarioCascades(t *testing.T) {
	t.Parallel()
	m := NewMemoryClient()
	ctx := context.Background()

	persisted := seedScenario(t, m)
	conversation := persisted.Conversations[0]
	turn := conversation.Scenes[0].Turns[0]

	if err := m.DeleteScenario(ctx, persisted.UID); err != nil {
		t.Fatalf("DeleteScenario: %v", err)
	}
	if _, err := m.GetScenario(ctx, persisted.UID); !IsCode(err, CodeNotFound) {
		t.Fatalf("scenario still readable: %v", err)
	}
	if _, err := m.GetConversation(ctx, conversation.UID); !IsCode(err, CodeNotFound) {
		t.Fatalf("conversation survived scenario delete: %v", err)
	}
	if _, err := m.GetTurn(ctx, turn.UID); !IsCode(err, CodeNotFound) {
		t.Fatalf("turn survived scenario delete: %v", err)
	}
	all, err := m.ListScenarios(ctx, Page{})
	if err != nil {
		t.Fatalf("ListScenarios: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("scenario still listed after delete")
	}
}

func TestGetTurnWithIntentFiltersToMatch(t *testing.T) {
	t.Parallel()
	m := NewMemoryClient()
	ctx := context.Background()

	persisted := seedScenario(t, m)
	turn := persisted.Conversations[0].Scenes[0].Turns[0]
	response := turn.ResponseIntents[0]

	got, err := m.GetTurnWithIntent(ctx, turn.UID, response.UID)
	if err != nil {
		t.Fatalf("GetTurnWithIntent: %v", err)
	}
	if len(got.RequestIntents) != 0 {
		t.Fatalf("request side should be empty: got=%d", len(got.RequestIntents))
	}
	if len(got.ResponseIntents) != 1 || got.ResponseIntents[0].UID != response.UID {
		t.Fatalf("response side should hold only the match")
	}
}

func TestAddConversationAppendsInOrder(t *testing.T) {
	t.Parallel()
	m := NewMemoryClient()
	ctx := context.Background()

	persisted := seedScenario(t, m)
	extra := types.NewConversation("extra_conversation", "Extra Conversation")
	added, err := m.AddConversation(ctx, persisted.UID, extra)
	if err != nil {
		t.Fatalf("AddConversation: %v", err)
	}
	if added.UID == uuid.Nil || added.ScenarioUID != persisted.UID {
		t.Fatalf("conversation not linked: uid=%s scenario=%s", added.UID, added.ScenarioUID)
	}

	conversations, err := m.GetScenarioConversations(ctx, persisted.UID)
	if err != nil {
		t.Fatalf("GetScenarioConversations: %v", err)
	}
	if len(conversations) != 2 {
		t.Fatalf("unexpected conversation count: got=%d want=2", len(conversations))
	}
	if conversations[1].UID != added.UID {
		t.Fatalf("insertion order not preserved")
	}
}

func TestAddFullScenarioGraphRejectsDuplicateOdID(t *testing.T) {
	t.Parallel()
	m := NewMemoryClient()
	ctx := context.Background()

	seedScenario(t, m)
	_, err := m.AddFullScenarioGraph(ctx, types.NewScenario("support", "Support Again"))
	if !IsCode(err, CodeConflict) {
		t.Fatalf("expected conflict on duplicate od_id: got=%v", err)
	}
}

func TestUpdateScenarioRejectsDuplicateOdID(t *testing.T) {
	t.Parallel()
	m := NewMemoryClient()
	ctx := context.Background()

	seedScenario(t, m)
	other, err := m.AddFullScenarioGraph(ctx, types.NewScenario("sales", "Sales"))
	if err != nil {
		t.Fatalf("AddFullScenarioGraph: %v", err)
	}

	patch := other.Clone()
	patch.OdID = "support"
	if _, err := m.UpdateScenario(ctx, patch); !IsCode(err, CodeConflict) {
		t.Fatalf("expected conflict on duplicate od_id: got=%v", err)
	}

	// Re-writing a scenario under its own od_id stays legal.
	if _, err := m.UpdateScenario(ctx, other); err != nil {
		t.Fatalf("UpdateScenario with own od_id: %v", err)
	}
}

func TestGetTurnIntentsRejectsUnknownDirection(t *testing.T) {
	t.Parallel()
	m := NewMemoryClient()
	ctx := context.Background()

	persisted := seedScenario(t, m)
	turnUID := persisted.Conversations[0].Scenes[0].Turns[0].UID

	if _, err := m.GetTurnIntents(ctx, turnUID, types.Direction("SIDEWAYS")); !IsCode(err, CodeValidation) {
		t.Fatalf("expected validation error for unknown direction: got=%v", err)
	}
	if _, err := m.GetTurnIntents(ctx, turnUID, types.DirectionRequest); err != nil {
		t.Fatalf("GetTurnIntents request side: %v", err)
	}
}
