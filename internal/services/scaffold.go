package services

import (
	"context"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/openconvo/convograph-backend/internal/data/graph"
	types "github.com/openconvo/convograph-backend/internal/domain"
	"github.com/openconvo/convograph-backend/internal/platform/logger"
)

const (
	welcomeLabel = "Welcome"
	noMatchLabel = "No Match"

	welcomeIntentID = "intent.core.welcome"
	noMatchIntentID = "intent.core.NoMatch"

	// DefaultNoMatchUtterance is used when the caller does not supply one.
	DefaultNoMatchUtterance = "Sorry, I did not understand that."

	generatedDescription = "Automatically generated"

	selectedScenarioAttribute = "user.selected_scenario"
)

// ScaffoldService synthesizes the two default conversation subtrees for a
// new scenario so a usable dialogue exists immediately.
type ScaffoldService struct {
	client graph.Client
	log    *logger.Logger
}

func NewScaffoldService(client graph.Client, log *logger.Logger) *ScaffoldService {
	return &ScaffoldService{client: client, log: log.With("service", "Scaffold")}
}

// Generate builds the "Welcome" and "No Match" conversations under the given
// scenario, persists the whole subtree atomically, then attaches the
// scenario-selection condition in a second write. The condition references
// the scenario uid assigned by the first write, so the two phases cannot be
// merged; a failed second phase surfaces as a partial write carrying the
// committed uid and is safe to retry.
func (s *ScaffoldService) Generate(ctx context.Context, scenario *types.Scenario, welcomeUtterance, noMatchUtterance string) (*types.Scenario, error) {
	const op = "scaffold.Generate"
	if noMatchUtterance == "" {
		noMatchUtterance = DefaultNoMatchUtterance
	}

	fragment := scenarioFragment(scenario.OdID)
	scenario.AddConversation(s.buildConversation(welcomeLabel, fragment, welcomeIntentID,
		"intent.app.welcomeResponseFor"+fragment, welcomeUtterance))
	scenario.AddConversation(s.buildConversation(noMatchLabel, fragment, noMatchIntentID,
		"intent.app.noMatchResponseFor"+fragment, noMatchUtterance))
	s.log.Debug("built default conversation subtrees", "scenario_od_id", scenario.OdID)

	persisted, err := s.client.AddFullScenarioGraph(ctx, scenario)
	if err != nil {
		return nil, err
	}
	s.log.Info("persisted scenario with default conversations",
		"scenario_uid", persisted.UID, "conversations", len(persisted.Conversations))

	persisted.AddCondition(types.Condition{
		Operator:  "eq",
		Attribute: selectedScenarioAttribute,
		Value:     persisted.UID.String(),
	})
	updated, err := s.client.UpdateScenario(ctx, persisted)
	if err != nil {
		return nil, graph.PartialWrite(op, persisted.UID, err)
	}
	s.log.Info("attached scenario selection condition", "scenario_uid", updated.UID)
	return updated, nil
}

// RetryCondition re-runs the second phase after a partial write. Replacing
// the condition set is idempotent: re-applying never duplicates it.
func (s *ScaffoldService) RetryCondition(ctx context.Context, scenarioUID uuid.UUID) (*types.Scenario, error) {
	persisted, err := s.client.GetScenario(ctx, scenarioUID)
	if err != nil {
		return nil, err
	}
	want := types.Condition{
		Operator:  "eq",
		Attribute: selectedScenarioAttribute,
		Value:     persisted.UID.String(),
	}
	for _, c := range persisted.Conditions {
		if c == want {
			return persisted, nil
		}
	}
	persisted.AddCondition(want)
	return s.client.UpdateScenario(ctx, persisted)
}

func (s *ScaffoldService) buildConversation(label, fragment, requestIntentID, responseIntentID, utterance string) *types.Conversation {
	slug := labelSlug(label)

	conversation := types.NewConversation(slug+"_conversation", label+" Conversation")
	conversation.Description = generatedDescription
	conversation.Behaviors = types.Behaviors{{Tag: types.BehaviorStarting}}

	scene := types.NewScene(slug+"_scene", label+" Scene")
	scene.Description = generatedDescription
	scene.Behaviors = types.Behaviors{{Tag: types.BehaviorStarting}}

	turn := types.NewTurn(slug+"_turn", label+" Turn")
	turn.Description = generatedDescription
	turn.Behaviors = types.Behaviors{{Tag: types.BehaviorStarting}}

	// Speaker values are fixed here, so the constructors cannot fail.
	request, _ := types.NewIntent(requestIntentID, requestIntentID, types.SpeakerUser)
	request.Confidence = 1
	request.Interpreter = types.CallbackInterpreter

	response, _ := types.NewIntent(responseIntentID, responseIntentID, types.SpeakerApp)
	response.Confidence = 1
	response.SampleUtterance = utterance
	response.Behaviors = types.Behaviors{{Tag: types.BehaviorCompleting}}
	response.AddMessageTemplate(
		types.NewMessageTemplate(slug+"_message", label+" Message", types.TextMarkup(utterance)))

	turn.AddRequestIntent(request)
	turn.AddResponseIntent(response)
	scene.AddTurn(turn)
	conversation.AddScene(scene)
	return conversation
}

// scenarioFragment title-cases the scenario odId and strips whitespace, e.g.
// "my support desk" -> "MySupportDesk".
func scenarioFragment(odID string) string {
	var b strings.Builder
	for _, word := range strings.Fields(odID) {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// labelSlug lowercases a fixed label and joins its words with underscores,
// e.g. "No Match" -> "no_match".
func labelSlug(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), "_")
}
