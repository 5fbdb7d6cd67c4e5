package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/openconvo/convograph-backend/internal/http/handlers"
	httpMW "github.com/openconvo/convograph-backend/internal/http/middleware"
	"github.com/openconvo/convograph-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	ScenarioHandler     *httpH.ScenarioHandler
	ConversationHandler *httpH.ConversationHandler
	TurnHandler         *httpH.TurnHandler
	IntentHandler       *httpH.IntentHandler
	ComponentHandler    *httpH.ComponentHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS())
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Scenarios
		if cfg.ScenarioHandler != nil {
			api.POST("/scenarios", cfg.ScenarioHandler.Create)
			api.GET("/scenarios", cfg.ScenarioHandler.List)
			api.GET("/scenarios/:id", cfg.ScenarioHandler.Get)
			api.PATCH("/scenarios/:id", cfg.ScenarioHandler.Update)
			api.DELETE("/scenarios/:id", cfg.ScenarioHandler.Delete)
			api.POST("/scenarios/:id/retry-condition", cfg.ScenarioHandler.RetryCondition)
		}

		// Conversations
		if cfg.ConversationHandler != nil {
			api.POST("/scenarios/:id/conversations", cfg.ConversationHandler.Add)
			api.GET("/scenarios/:id/conversations", cfg.ConversationHandler.ListForScenario)
			api.GET("/conversations/:id", cfg.ConversationHandler.Get)
			api.GET("/conversations/:id/scenes", cfg.ConversationHandler.ListScenes)
			api.PATCH("/conversations/:id", cfg.ConversationHandler.Update)
		}

		// Turns
		if cfg.TurnHandler != nil {
			api.GET("/scenes/:id/turns", cfg.TurnHandler.ListForScene)
			api.GET("/turns/:id", cfg.TurnHandler.Get)
			api.GET("/turns/:id/intents/:intentId", cfg.TurnHandler.GetWithIntent)
			api.PATCH("/turns/:id", cfg.TurnHandler.Update)
			api.DELETE("/turns/:id", cfg.TurnHandler.Delete)
		}

		// Intents
		if cfg.IntentHandler != nil {
			api.POST("/turns/:id/intents", cfg.IntentHandler.Create)
			api.GET("/turns/:id/intents", cfg.IntentHandler.ListForTurn)
			api.PUT("/turns/:id/intents/:intentId/relation", cfg.IntentHandler.UpdateRelation)
			api.DELETE("/turns/:id/intents/:intentId", cfg.IntentHandler.Detach)
			api.GET("/intents/:id", cfg.IntentHandler.Get)
			api.GET("/intents/:id/message-templates", cfg.IntentHandler.ListTemplates)
			api.PATCH("/intents/:id", cfg.IntentHandler.Update)
			api.DELETE("/intents/:id", cfg.IntentHandler.Delete)
		}

		// Components
		if cfg.ComponentHandler != nil {
			api.GET("/components", cfg.ComponentHandler.List)
			api.POST("/components/:id/validate", cfg.ComponentHandler.Validate)
		}
	}

	return r
}
