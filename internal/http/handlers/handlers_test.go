package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openconvo/convograph-backend/internal/components"
	"github.com/openconvo/convograph-backend/internal/data/graph"
	"github.com/openconvo/convograph-backend/internal/platform/logger"
	"github.com/openconvo/convograph-backend/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	client := graph.NewMemoryClient()
	registry := components.NewRegistry(log)

	scaffold := services.NewScaffoldService(client, log)
	relations := services.NewTurnIntentService(client, log)
	scenarioSvc := services.NewScenarioService(client, scaffold, log)
	intentSvc := services.NewIntentService(client, relations, registry, log)

	r := gin.New()
	api := r.Group("/api")

	scenarioH := NewScenarioHandler(scenarioSvc, scaffold)
	api.POST("/scenarios", scenarioH.Create)
	api.GET("/scenarios/:id", scenarioH.Get)
	api.DELETE("/scenarios/:id", scenarioH.Delete)

	intentH := NewIntentHandler(intentSvc)
	api.POST("/turns/:id/intents", intentH.Create)

	componentH := NewComponentHandler(registry)
	api.GET("/components", componentH.List)
	api.POST("/components/:id/validate", componentH.Validate)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateScenarioReturnsScaffoldedGraph(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/scenarios",
		`{"od_id":"my desk","name":"My Desk","welcome_utterance":"Hi!"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var payload struct {
		Scenario struct {
			UID           uuid.UUID `json:"uid"`
			Conversations []struct {
				OdID string `json:"od_id"`
			} `json:"conversations"`
		} `json:"scenario"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Scenario.UID == uuid.Nil {
		t.Fatalf("scenario uid missing in response: %s", rec.Body.String())
	}
	if len(payload.Scenario.Conversations) != 2 {
		t.Fatalf("scaffolded conversations missing: %s", rec.Body.String())
	}
}

func TestGetScenarioUnknownIs404(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/scenarios/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusNotFound)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/scenarios/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status for malformed id: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreateIntentRejectsBadSpeaker(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/turns/"+uuid.NewString()+"/intents",
		`{"od_id":"intent.x","name":"X","speaker":"BOT","direction":"REQUEST"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func TestValidateComponentReportsVerdict(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/components/interpreter.core.callbackInterpreter/validate",
		`{"configuration":{"callback_id":"welcome"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var verdict struct {
		Valid  bool                `json:"valid"`
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &verdict); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !verdict.Valid {
		t.Fatalf("expected valid verdict: %s", rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodPost, "/api/components/interpreter.custom.unknown/validate",
		`{"configuration":{}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &verdict); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if verdict.Valid {
		t.Fatalf("expected invalid verdict for unknown component")
	}
	if _, ok := verdict.Errors["component_id"]; !ok {
		t.Fatalf("unknown component not keyed on component_id: %s", rec.Body.String())
	}
}
