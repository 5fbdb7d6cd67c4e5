package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/openconvo/convograph-backend/internal/components"
	"github.com/openconvo/convograph-backend/internal/data/graph"
	types "github.com/openconvo/convograph-backend/internal/domain"
	"github.com/openconvo/convograph-backend/internal/platform/logger"
)

func newIntentFixture(t *testing.T) (*IntentService, graph.Client, uuid.UUID) {
	t.Helper()
	log := logger.NewNop()
	client := graph.NewMemoryClient()

	scenario := types.NewScenario("desk", "Desk")
	conversation := types.NewConversation("desk_conversation", "Desk Conversation")
	scene := types.NewScene("desk_scene", "Desk Scene")
	turn := types.NewTurn("desk_turn", "Desk Turn")
	scene.AddTurn(turn)
	conversation.AddScene(scene)
	scenario.AddConversation(conversation)
	persisted, err := client.AddFullScenarioGraph(context.Background(), scenario)
	if err != nil {
		t.Fatalf("AddFullScenarioGraph: %v", err)
	}
	turnUID := persisted.Conversations[0].Scenes[0].Turns[0].UID

	relations := NewTurnIntentService(client, log)
	registry := components.NewRegistry(log)
	return NewIntentService(client, relations, registry, log), client, turnUID
}

func TestCreateAppIntentSynthesizesTemplate(t *testing.T) {
	t.Parallel()
	svc, _, turnUID := newIntentFixture(t)
	ctx := context.Background()

	intent, _ := types.NewIntent("intent.app.reply", "Reply", types.SpeakerApp)
	intent.SampleUtterance = "Happy to help."

	created, err := svc.Create(ctx, turnUID, intent, types.DirectionResponse, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created.MessageTemplates) != 1 {
		t.Fatalf("unexpected template count: got=%d want=1", len(created.MessageTemplates))
	}
	template := created.MessageTemplates[0]
	if template.Name != "auto generated" {
		t.Fatalf("unexpected template name: got=%q", template.Name)
	}
	if template.OdID != "intent.app.reply_auto" {
		t.Fatalf("unexpected template odId: got=%q", template.OdID)
	}
	if len(template.Markup.Segments) != 1 || template.Markup.Segments[0].Text != "Happy to help." {
		t.Fatalf("template markup not built from sample utterance: %+v", template.Markup)
	}
}

func TestCreateUserIntentHasNoTemplate(t *testing.T) {
	t.Parallel()
	svc, _, turnUID := newIntentFixture(t)
	ctx := context.Background()

	intent, _ := types.NewIntent("intent.ask", "Ask", types.SpeakerUser)
	intent.SampleUtterance = "I need help"

	created, err := svc.Create(ctx, turnUID, intent, types.DirectionRequest, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created.MessageTemplates) != 0 {
		t.Fatalf("USER intent must not get a template: got=%d", len(created.MessageTemplates))
	}
}

func TestUpdateNeverRetriggersTemplatePolicy(t *testing.T) {
	t.Parallel()
	svc, _, turnUID := newIntentFixture(t)
	ctx := context.Background()

	intent, _ := types.NewIntent("intent.app.reply", "Reply", types.SpeakerApp)
	intent.SampleUtterance = "Happy to help."
	created, err := svc.Create(ctx, turnUID, intent, types.DirectionResponse, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	patch := created.Clone()
	patch.SampleUtterance = "Changed utterance"
	updated, err := svc.Update(ctx, patch)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.MessageTemplates) != 1 {
		t.Fatalf("update re-triggered template policy: got=%d templates", len(updated.MessageTemplates))
	}
}

func TestCreateRejectsUnknownSpeaker(t *testing.T) {
	t.Parallel()
	svc, _, turnUID := newIntentFixture(t)

	bad := &types.Intent{OdID: "intent.x", Name: "X", Speaker: types.Speaker("BOT")}
	_, err := svc.Create(context.Background(), turnUID, bad, types.DirectionRequest, nil)
	if !graph.IsCode(err, graph.CodeValidation) {
		t.Fatalf("expected validation error: got=%v", err)
	}
}

func TestCreateValidatesInterpreterConfig(t *testing.T) {
	t.Parallel()
	svc, _, turnUID := newIntentFixture(t)
	ctx := context.Background()

	intent, _ := types.NewIntent("intent.ask", "Ask", types.SpeakerUser)
	intent.Interpreter = types.CallbackInterpreter

	_, err := svc.Create(ctx, turnUID, intent, types.DirectionRequest, map[string]any{})
	if !graph.IsCode(err, graph.CodeValidation) {
		t.Fatalf("expected validation error for missing callback_id: got=%v", err)
	}

	created, err := svc.Create(ctx, turnUID, intent, types.DirectionRequest, map[string]any{"callback_id": "welcome"})
	if err != nil {
		t.Fatalf("Create with valid config: %v", err)
	}
	if created.UID == uuid.Nil {
		t.Fatalf("intent not persisted")
	}
}

func TestDeleteDetachesThenRemoves(t *testing.T) {
	t.Parallel()
	svc, client, turnUID := newIntentFixture(t)
	ctx := context.Background()

	intent, _ := types.NewIntent("intent.ask", "Ask", types.SpeakerUser)
	created, err := svc.Create(ctx, turnUID, intent, types.DirectionRequest, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, created.UID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := client.GetIntent(ctx, created.UID); !graph.IsCode(err, graph.CodeNotFound) {
		t.Fatalf("intent still readable after delete: %v", err)
	}
	turn, err := client.GetTurn(ctx, turnUID)
	if err != nil {
		t.Fatalf("GetTurn: %v", err)
	}
	if len(turn.RequestIntents) != 0 {
		t.Fatalf("turn still references deleted intent")
	}
}

func TestListForTurnBothSides(t *testing.T) {
	t.Parallel()
	svc, _, turnUID := newIntentFixture(t)
	ctx := context.Background()

	request, _ := types.NewIntent("intent.ask", "Ask", types.SpeakerUser)
	if _, err := svc.Create(ctx, turnUID, request, types.DirectionRequest, nil); err != nil {
		t.Fatalf("Create request: %v", err)
	}
	response, _ := types.NewIntent("intent.app.reply", "Reply", types.SpeakerApp)
	response.SampleUtterance = "ok"
	if _, err := svc.Create(ctx, turnUID, response, types.DirectionResponse, nil); err != nil {
		t.Fatalf("Create response: %v", err)
	}

	both, err := svc.ListForTurn(ctx, turnUID, "")
	if err != nil {
		t.Fatalf("ListForTurn: %v", err)
	}
	if len(both) != 2 {
		t.Fatalf("unexpected intent count: got=%d want=2", len(both))
	}
	if both[0].OdID != "intent.ask" || both[1].OdID != "intent.app.reply" {
		t.Fatalf("unexpected order: got=[%s %s]", both[0].OdID, both[1].OdID)
	}

	requests, err := svc.ListForTurn(ctx, turnUID, types.DirectionRequest)
	if err != nil {
		t.Fatalf("ListForTurn request side: %v", err)
	}
	if len(requests) != 1 || requests[0].OdID != "intent.ask" {
		t.Fatalf("unexpected request side: %+v", requests)
	}
}
