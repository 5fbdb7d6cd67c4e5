package graph

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	types "github.com/openconvo/convograph-backend/internal/domain"
	"github.com/openconvo/convograph-backend/internal/platform/logger"
	"github.com/openconvo/convograph-backend/internal/platform/neo4jdb"
)

// Node labels and relationship types of the conversation graph.
const (
	labelScenario     = "Scenario"
	labelConversation = "Conversation"
	labelScene        = "Scene"
	labelTurn         = "Turn"
	labelIntent       = "Intent"
	labelTemplate     = "MessageTemplate"

	relHasConversation   = "HAS_CONVERSATION"
	relHasScene          = "HAS_SCENE"
	relHasTurn           = "HAS_TURN"
	relHasRequestIntent  = "HAS_REQUEST_INTENT"
	relHasResponseIntent = "HAS_RESPONSE_INTENT"
	relHasTemplate       = "HAS_TEMPLATE"
)

// Neo4jClient implements Client against a Neo4j store. Subtree writes run in
// one managed transaction, so AddFullScenarioGraph is atomic at the store.
type Neo4jClient struct {
	db  *neo4jdb.Client
	log *logger.Logger
}

var _ Client = (*Neo4jClient)(nil)

func NewNeo4jClient(db *neo4jdb.Client, log *logger.Logger) *Neo4jClient {
	return &Neo4jClient{db: db, log: log.With("client", "ConvoGraph")}
}

// InitSchema creates the uid uniqueness constraints. Called once at startup.
func (c *Neo4jClient) InitSchema(ctx context.Context) error {
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.writeSession(ctx)
	defer session.Close(ctx)

	stmts := []string{
		`CREATE CONSTRAINT scenario_uid_unique IF NOT EXISTS FOR (n:Scenario) REQUIRE n.uid IS UNIQUE`,
		`CREATE CONSTRAINT conversation_uid_unique IF NOT EXISTS FOR (n:Conversation) REQUIRE n.uid IS UNIQUE`,
		`CREATE CONSTRAINT scene_uid_unique IF NOT EXISTS FOR (n:Scene) REQUIRE n.uid IS UNIQUE`,
		`CREATE CONSTRAINT turn_uid_unique IF NOT EXISTS FOR (n:Turn) REQUIRE n.uid IS UNIQUE`,
		`CREATE CONSTRAINT intent_uid_unique IF NOT EXISTS FOR (n:Intent) REQUIRE n.uid IS UNIQUE`,
		`CREATE CONSTRAINT template_uid_unique IF NOT EXISTS FOR (n:MessageTemplate) REQUIRE n.uid IS UNIQUE`,
		`CREATE CONSTRAINT scenario_od_id_unique IF NOT EXISTS FOR (n:Scenario) REQUIRE n.od_id IS UNIQUE`,
	}
	for _, q := range stmts {
		res, err := session.Run(ctx, q, nil)
		if err != nil {
			return mapNeo4jError("neo4j.InitSchema", err)
		}
		if _, err := res.Consume(ctx); err != nil {
			return mapNeo4jError("neo4j.InitSchema", err)
		}
	}
	return nil
}

func (c *Neo4jClient) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := c.db.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

func (c *Neo4jClient) readSession(ctx context.Context) neo4j.SessionWithContext {
	return c.db.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: c.db.Database,
	})
}

func (c *Neo4jClient) writeSession(ctx context.Context) neo4j.SessionWithContext {
	return c.db.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: c.db.Database,
	})
}

// mapNeo4jError translates driver failures into the typed taxonomy. A
// constraint violation is a conflict; cancellation and connectivity are
// transport, never business errors.
func mapNeo4jError(op string, err error) error {
	if err == nil {
		return nil
	}
	var gerr *Error
	if errors.As(err, &gerr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Wrap(CodeTransport, op, err)
	}
	var neoErr *neo4j.Neo4jError
	if errors.As(err, &neoErr) {
		if neoErr.Title() == "ConstraintValidationFailed" || neoErr.Title() == "ConstraintViolation" {
			return Wrap(CodeConflict, op, err)
		}
	}
	return Wrap(CodeTransport, op, err)
}

// --- property codecs ---

func jsonString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func fmtTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(v any) time.Time {
	s, _ := v.(string)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func propString(props map[string]any, key string) string {
	s, _ := props[key].(string)
	return s
}

func propFloat(props map[string]any, key string) float64 {
	f, _ := props[key].(float64)
	return f
}

func propBool(props map[string]any, key string) bool {
	b, _ := props[key].(bool)
	return b
}

func propUUID(props map[string]any, key string) uuid.UUID {
	id, err := uuid.Parse(propString(props, key))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func behaviorsFromProps(props map[string]any) types.Behaviors {
	raw := propString(props, "behaviors_json")
	if raw == "" {
		return nil
	}
	var out types.Behaviors
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func conditionsFromProps(props map[string]any) []types.Condition {
	raw := propString(props, "conditions_json")
	if raw == "" {
		return nil
	}
	var out []types.Condition
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func markupFromProps(props map[string]any) types.Markup {
	raw := propString(props, "markup_json")
	if raw == "" {
		return types.Markup{}
	}
	var out types.Markup
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return types.Markup{}
	}
	return out
}

func behaviorsProp(bs types.Behaviors) string {
	if len(bs) == 0 {
		return ""
	}
	return jsonString(bs)
}

func conditionsProp(cs []types.Condition) string {
	if len(cs) == 0 {
		return ""
	}
	return jsonString(cs)
}

// --- node encoders (entity -> flat props, children excluded) ---

func scenarioProps(s *types.Scenario) map[string]any {
	return map[string]any{
		"uid":             s.UID.String(),
		"od_id":           s.OdID,
		"name":            s.Name,
		"description":     s.Description,
		"interpreter":     s.Interpreter,
		"behaviors_json":  behaviorsProp(s.Behaviors),
		"conditions_json": conditionsProp(s.Conditions),
		"created_at":      fmtTime(s.CreatedAt),
		"updated_at":      fmtTime(s.UpdatedAt),
	}
}

func conversationProps(c *types.Conversation) map[string]any {
	return map[string]any{
		"uid":            c.UID.String(),
		"od_id":          c.OdID,
		"name":           c.Name,
		"description":    c.Description,
		"interpreter":    c.Interpreter,
		"behaviors_json": behaviorsProp(c.Behaviors),
		"scenario_uid":   c.ScenarioUID.String(),
		"created_at":     fmtTime(c.CreatedAt),
		"updated_at":     fmtTime(c.UpdatedAt),
	}
}

func sceneProps(s *types.Scene) map[string]any {
	return map[string]any{
		"uid":              s.UID.String(),
		"od_id":            s.OdID,
		"name":             s.Name,
		"description":      s.Description,
		"interpreter":      s.Interpreter,
		"behaviors_json":   behaviorsProp(s.Behaviors),
		"conversation_uid": s.ConversationUID.String(),
		"created_at":       fmtTime(s.CreatedAt),
		"updated_at":       fmtTime(s.UpdatedAt),
	}
}

func turnProps(t *types.Turn) map[string]any {
	return map[string]any{
		"uid":            t.UID.String(),
		"od_id":          t.OdID,
		"name":           t.Name,
		"description":    t.Description,
		"interpreter":    t.Interpreter,
		"behaviors_json": behaviorsProp(t.Behaviors),
		"scene_uid":      t.SceneUID.String(),
		"created_at":     fmtTime(t.CreatedAt),
		"updated_at":     fmtTime(t.UpdatedAt),
	}
}

func intentProps(i *types.Intent) map[string]any {
	return map[string]any{
		"uid":               i.UID.String(),
		"od_id":             i.OdID,
		"name":              i.Name,
		"speaker":           string(i.Speaker),
		"is_request_intent": i.IsRequestIntent,
		"sample_utterance":  i.SampleUtterance,
		"interpreter":       i.Interpreter,
		"confidence":        i.Confidence,
		"behaviors_json":    behaviorsProp(i.Behaviors),
		"conditions_json":   conditionsProp(i.Conditions),
		"turn_uid":          i.TurnUID.String(),
		"created_at":        fmtTime(i.CreatedAt),
		"updated_at":        fmtTime(i.UpdatedAt),
	}
}

func templateProps(m *types.MessageTemplate) map[string]any {
	return map[string]any{
		"uid":         m.UID.String(),
		"od_id":       m.OdID,
		"name":        m.Name,
		"markup_json": jsonString(m.Markup),
		"intent_uid":  m.IntentUID.String(),
		"created_at":  fmtTime(m.CreatedAt),
		"updated_at":  fmtTime(m.UpdatedAt),
	}
}

// --- node decoders (flat props -> entity, children left empty) ---

func scenarioFromProps(props map[string]any) *types.Scenario {
	return &types.Scenario{
		UID:         propUUID(props, "uid"),
		OdID:        propString(props, "od_id"),
		Name:        propString(props, "name"),
		Description: propString(props, "description"),
		Interpreter: propString(props, "interpreter"),
		Behaviors:   behaviorsFromProps(props),
		Conditions:  conditionsFromProps(props),
		CreatedAt:   parseTime(props["created_at"]),
		UpdatedAt:   parseTime(props["updated_at"]),
	}
}

func conversationFromProps(props map[string]any) *types.Conversation {
	return &types.Conversation{
		UID:         propUUID(props, "uid"),
		OdID:        propString(props, "od_id"),
		Name:        propString(props, "name"),
		Description: propString(props, "description"),
		Interpreter: propString(props, "interpreter"),
		Behaviors:   behaviorsFromProps(props),
		ScenarioUID: propUUID(props, "scenario_uid"),
		CreatedAt:   parseTime(props["created_at"]),
		UpdatedAt:   parseTime(props["updated_at"]),
	}
}

func sceneFromProps(props map[string]any) *types.Scene {
	return &types.Scene{
		UID:             propUUID(props, "uid"),
		OdID:            propString(props, "od_id"),
		Name:            propString(props, "name"),
		Description:     propString(props, "description"),
		Interpreter:     propString(props, "interpreter"),
		Behaviors:       behaviorsFromProps(props),
		ConversationUID: propUUID(props, "conversation_uid"),
		CreatedAt:       parseTime(props["created_at"]),
		UpdatedAt:       parseTime(props["updated_at"]),
	}
}

func turnFromProps(props map[string]any) *types.Turn {
	return &types.Turn{
		UID:         propUUID(props, "uid"),
		OdID:        propString(props, "od_id"),
		Name:        propString(props, "name"),
		Description: propString(props, "description"),
		Interpreter: propString(props, "interpreter"),
		Behaviors:   behaviorsFromProps(props),
		SceneUID:    propUUID(props, "scene_uid"),
		CreatedAt:   parseTime(props["created_at"]),
		UpdatedAt:   parseTime(props["updated_at"]),
	}
}

func intentFromProps(props map[string]any) *types.Intent {
	return &types.Intent{
		UID:             propUUID(props, "uid"),
		OdID:            propString(props, "od_id"),
		Name:            propString(props, "name"),
		Speaker:         types.Speaker(propString(props, "speaker")),
		IsRequestIntent: propBool(props, "is_request_intent"),
		SampleUtterance: propString(props, "sample_utterance"),
		Interpreter:     propString(props, "interpreter"),
		Confidence:      propFloat(props, "confidence"),
		Behaviors:       behaviorsFromProps(props),
		Conditions:      conditionsFromProps(props),
		TurnUID:         propUUID(props, "turn_uid"),
		CreatedAt:       parseTime(props["created_at"]),
		UpdatedAt:       parseTime(props["updated_at"]),
	}
}

func templateFromProps(props map[string]any) *types.MessageTemplate {
	return &types.MessageTemplate{
		UID:       propUUID(props, "uid"),
		OdID:      propString(props, "od_id"),
		Name:      propString(props, "name"),
		Markup:    markupFromProps(props),
		IntentUID: propUUID(props, "intent_uid"),
		CreatedAt: parseTime(props["created_at"]),
		UpdatedAt: parseTime(props["updated_at"]),
	}
}

func nodeProps(rec *neo4j.Record, key string) (map[string]any, bool) {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return nil, false
	}
	node, ok := v.(neo4j.Node)
	if !ok {
		return nil, false
	}
	return node.Props, true
}
