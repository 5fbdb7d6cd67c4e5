package app

import (
	"github.com/openconvo/convograph-backend/internal/components"
	"github.com/openconvo/convograph-backend/internal/data/graph"
	"github.com/openconvo/convograph-backend/internal/platform/logger"
	"github.com/openconvo/convograph-backend/internal/services"
)

type Services struct {
	Scaffold     *services.ScaffoldService
	TurnIntent   *services.TurnIntentService
	Scenario     *services.ScenarioService
	Conversation *services.ConversationService
	Turn         *services.TurnService
	Intent       *services.IntentService
}

func wireServices(client graph.Client, registry *components.Registry, log *logger.Logger) Services {
	log.Info("Wiring services...")
	scaffold := services.NewScaffoldService(client, log)
	relations := services.NewTurnIntentService(client, log)
	return Services{
		Scaffold:     scaffold,
		TurnIntent:   relations,
		Scenario:     services.NewScenarioService(client, scaffold, log),
		Conversation: services.NewConversationService(client, log),
		Turn:         services.NewTurnService(client, log),
		Intent:       services.NewIntentService(client, relations, registry, log),
	}
}
