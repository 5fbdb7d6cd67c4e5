package services

import (
	"context"
	"errors"
	"testing"

	"github.com/openconvo/convograph-backend/internal/data/graph"
	types "github.com/openconvo/convograph-backend/internal/domain"
	"github.com/openconvo/convograph-backend/internal/platform/logger"
)

func TestGenerateBuildsDefaultConversations(t *testing.T) {
	t.Parallel()
	client := graph.NewMemoryClient()
	svc := NewScaffoldService(client, logger.NewNop())

	scenario := types.NewScenario("my scenario", "My Scenario")
	created, err := svc.Generate(context.Background(), scenario, "Hello there", "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(created.Conversations) != 2 {
		t.Fatalf("unexpected conversation count: got=%d want=2", len(created.Conversations))
	}
	welcome, noMatch := created.Conversations[0], created.Conversations[1]
	if welcome.OdID != "welcome_conversation" {
		t.Fatalf("unexpected welcome odId: got=%q", welcome.OdID)
	}
	if noMatch.OdID != "no_match_conversation" {
		t.Fatalf("unexpected no-match odId: got=%q", noMatch.OdID)
	}

	for _, conversation := range created.Conversations {
		if !conversation.Behaviors.Has(types.BehaviorStarting) {
			t.Fatalf("conversation %q missing STARTING behavior", conversation.OdID)
		}
		if len(conversation.Scenes) != 1 {
			t.Fatalf("conversation %q scene count: got=%d want=1", conversation.OdID, len(conversation.Scenes))
		}
		scene := conversation.Scenes[0]
		if len(scene.Turns) != 1 {
			t.Fatalf("scene %q turn count: got=%d want=1", scene.OdID, len(scene.Turns))
		}
		turn := scene.Turns[0]
		if len(turn.RequestIntents) != 1 || len(turn.ResponseIntents) != 1 {
			t.Fatalf("turn %q intents: requests=%d responses=%d",
				turn.OdID, len(turn.RequestIntents), len(turn.ResponseIntents))
		}

		request := turn.RequestIntents[0]
		if request.Speaker != types.SpeakerUser {
			t.Fatalf("request intent speaker: got=%q want=%q", request.Speaker, types.SpeakerUser)
		}
		if request.Confidence != 1 {
			t.Fatalf("request intent confidence: got=%v want=1", request.Confidence)
		}
		if request.Interpreter != types.CallbackInterpreter {
			t.Fatalf("request intent interpreter: got=%q", request.Interpreter)
		}

		response := turn.ResponseIntents[0]
		if response.Speaker != types.SpeakerApp {
			t.Fatalf("response intent speaker: got=%q want=%q", response.Speaker, types.SpeakerApp)
		}
		if !response.Behaviors.Has(types.BehaviorCompleting) {
			t.Fatalf("response intent missing COMPLETING behavior")
		}
		if len(response.MessageTemplates) != 1 {
			t.Fatalf("response intent template count: got=%d want=1", len(response.MessageTemplates))
		}
	}

	welcomeRequest := welcome.Scenes[0].Turns[0].RequestIntents[0]
	if welcomeRequest.OdID != "intent.core.welcome" {
		t.Fatalf("welcome request odId: got=%q", welcomeRequest.OdID)
	}
	welcomeResponse := welcome.Scenes[0].Turns[0].ResponseIntents[0]
	if welcomeResponse.OdID != "intent.app.welcomeResponseForMyScenario" {
		t.Fatalf("welcome response odId: got=%q", welcomeResponse.OdID)
	}
	if welcomeResponse.SampleUtterance != "Hello there" {
		t.Fatalf("welcome utterance: got=%q", welcomeResponse.SampleUtterance)
	}
	welcomeTemplate := welcomeResponse.MessageTemplates[0]
	if welcomeTemplate.OdID != "welcome_message" {
		t.Fatalf("welcome template odId: got=%q", welcomeTemplate.OdID)
	}
	if len(welcomeTemplate.Markup.Segments) != 1 || welcomeTemplate.Markup.Segments[0].Text != "Hello there" {
		t.Fatalf("welcome template markup: got=%+v", welcomeTemplate.Markup)
	}

	noMatchRequest := noMatch.Scenes[0].Turns[0].RequestIntents[0]
	if noMatchRequest.OdID != "intent.core.NoMatch" {
		t.Fatalf("no-match request odId: got=%q", noMatchRequest.OdID)
	}
	noMatchResponse := noMatch.Scenes[0].Turns[0].ResponseIntents[0]
	if noMatchResponse.SampleUtterance != DefaultNoMatchUtterance {
		t.Fatalf("no-match fallback utterance: got=%q", noMatchResponse.SampleUtterance)
	}
}

func TestGenerateAttachesSelectionCondition(t *testing.T) {
	t.Parallel()
	client := graph.NewMemoryClient()
	svc := NewScaffoldService(client, logger.NewNop())

	created, err := svc.Generate(context.Background(), types.NewScenario("desk", "Desk"), "hi", "nope")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := types.Condition{
		Operator:  "eq",
		Attribute: "user.selected_scenario",
		Value:     created.UID.String(),
	}
	if len(created.Conditions) != 1 || created.Conditions[0] != want {
		t.Fatalf("unexpected conditions: got=%+v want=[%+v]", created.Conditions, want)
	}
}

// failingScenarioUpdate forces the second scaffold phase to fail so the
// partial-write path is observable.
type failingScenarioUpdate struct {
	graph.Client
	fail bool
}

func (f *failingScenarioUpdate) UpdateScenario(ctx context.Context, s *types.Scenario) (*types.Scenario, error) {
	if f.fail {
		return nil, graph.NewError(graph.CodeTransport, "test.UpdateScenario", "injected failure", nil)
	}
	return f.Client.UpdateScenario(ctx, s)
}

func TestGenerateReportsPartialWriteAndRetries(t *testing.T) {
	t.Parallel()
	mem := graph.NewMemoryClient()
	flaky := &failingScenarioUpdate{Client: mem, fail: true}
	svc := NewScaffoldService(flaky, logger.NewNop())
	ctx := context.Background()

	_, err := svc.Generate(ctx, types.NewScenario("desk", "Desk"), "hi", "")
	if !graph.IsCode(err, graph.CodePartialWrite) {
		t.Fatalf("expected partial write: got=%v", err)
	}
	var gerr *graph.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *graph.Error, got %T", err)
	}

	// The subtree committed; only the condition is missing.
	committed, err := svc.client.GetScenario(ctx, gerr.CommittedUID)
	if err != nil {
		t.Fatalf("committed scenario not readable: %v", err)
	}
	if len(committed.Conversations) != 2 {
		t.Fatalf("subtree missing after partial write: got=%d conversations", len(committed.Conversations))
	}
	if len(committed.Conditions) != 0 {
		t.Fatalf("condition unexpectedly present: %+v", committed.Conditions)
	}

	flaky.fail = false
	repaired, err := svc.RetryCondition(ctx, gerr.CommittedUID)
	if err != nil {
		t.Fatalf("RetryCondition: %v", err)
	}
	if len(repaired.Conditions) != 1 {
		t.Fatalf("condition not attached on retry: %+v", repaired.Conditions)
	}

	// Retrying again never duplicates the condition.
	again, err := svc.RetryCondition(ctx, gerr.CommittedUID)
	if err != nil {
		t.Fatalf("second RetryCondition: %v", err)
	}
	if len(again.Conditions) != 1 {
		t.Fatalf("condition duplicated on repeat retry: %+v", again.Conditions)
	}
}
