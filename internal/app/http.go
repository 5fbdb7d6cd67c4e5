package app

import (
	"github.com/openconvo/convograph-backend/internal/components"
	"github.com/openconvo/convograph-backend/internal/http"
	httpH "github.com/openconvo/convograph-backend/internal/http/handlers"
	"github.com/openconvo/convograph-backend/internal/platform/logger"
)

type Handlers struct {
	Health       *httpH.HealthHandler
	Scenario     *httpH.ScenarioHandler
	Conversation *httpH.ConversationHandler
	Turn         *httpH.TurnHandler
	Intent       *httpH.IntentHandler
	Component    *httpH.ComponentHandler
}

func wireHandlers(log *logger.Logger, services Services, registry *components.Registry) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(),
		Scenario:     httpH.NewScenarioHandler(services.Scenario, services.Scaffold),
		Conversation: httpH.NewConversationHandler(services.Conversation),
		Turn:         httpH.NewTurnHandler(services.Turn),
		Intent:       httpH.NewIntentHandler(services.Intent),
		Component:    httpH.NewComponentHandler(registry),
	}
}

func wireServer(log *logger.Logger, handlers Handlers) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:                 log,
		HealthHandler:       handlers.Health,
		ScenarioHandler:     handlers.Scenario,
		ConversationHandler: handlers.Conversation,
		TurnHandler:         handlers.Turn,
		IntentHandler:       handlers.Intent,
		ComponentHandler:    handlers.Component,
	})
}
