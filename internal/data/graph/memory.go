package graph

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	types "github.com/openconvo/convograph-backend/internal/domain"
)

// MemoryClient is an arena-style in-process store: every entity lives in a
// flat map keyed by uid, parent/child links live in ordered relation slices,
// and back-references are resolved by lookup, never by an owning pointer.
// It backs service tests and the `memory` store mode.
type MemoryClient struct {
	mu sync.Mutex

	scenarios     map[uuid.UUID]*types.Scenario
	conversations map[uuid.UUID]*types.Conversation
	scenes        map[uuid.UUID]*types.Scene
	turns         map[uuid.UUID]*types.Turn
	intents       map[uuid.UUID]*types.Intent
	templates     map[uuid.UUID]*types.MessageTemplate

	scenarioOrder []uuid.UUID

	scenarioConvs   map[uuid.UUID][]uuid.UUID
	convScenes      map[uuid.UUID][]uuid.UUID
	sceneTurns      map[uuid.UUID][]uuid.UUID
	turnRequests    map[uuid.UUID][]uuid.UUID
	turnResponses   map[uuid.UUID][]uuid.UUID
	intentTemplates map[uuid.UUID][]uuid.UUID

	now func() time.Time
}

var _ Client = (*MemoryClient)(nil)

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		scenarios:       map[uuid.UUID]*types.Scenario{},
		conversations:   map[uuid.UUID]*types.Conversation{},
		scenes:          map[uuid.UUID]*types.Scene{},
		turns:           map[uuid.UUID]*types.Turn{},
		intents:         map[uuid.UUID]*types.Intent{},
		templates:       map[uuid.UUID]*types.MessageTemplate{},
		scenarioConvs:   map[uuid.UUID][]uuid.UUID{},
		convScenes:      map[uuid.UUID][]uuid.UUID{},
		sceneTurns:      map[uuid.UUID][]uuid.UUID{},
		turnRequests:    map[uuid.UUID][]uuid.UUID{},
		turnResponses:   map[uuid.UUID][]uuid.UUID{},
		intentTemplates: map[uuid.UUID][]uuid.UUID{},
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// --- reads ---

func (m *MemoryClient) GetScenario(ctx context.Context, uid uuid.UUID) (*types.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scenarios[uid]; !ok {
		return nil, NewError(CodeNotFound, "memory.GetScenario", "scenario "+uid.String(), nil)
	}
	return m.assembleScenario(uid), nil
}

func (m *MemoryClient) GetConversation(ctx context.Context, uid uuid.UUID) (*types.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conversations[uid]; !ok {
		return nil, NewError(CodeNotFound, "memory.GetConversation", "conversation "+uid.String(), nil)
	}
	return m.assembleConversation(uid), nil
}

func (m *MemoryClient) GetScene(ctx context.Context, uid uuid.UUID) (*types.Scene, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scenes[uid]; !ok {
		return nil, NewError(CodeNotFound, "memory.GetScene", "scene "+uid.String(), nil)
	}
	return m.assembleScene(uid), nil
}

func (m *MemoryClient) GetTurn(ctx context.Context, uid uuid.UUID) (*types.Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.turns[uid]; !ok {
		return nil, NewError(CodeNotFound, "memory.GetTurn", "turn "+uid.String(), nil)
	}
	return m.assembleTurn(uid), nil
}

func (m *MemoryClient) GetIntent(ctx context.Context, uid uuid.UUID) (*types.Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.intents[uid]; !ok {
		return nil, NewError(CodeNotFound, "memory.GetIntent", "intent "+uid.String(), nil)
	}
	return m.assembleIntent(uid), nil
}

func (m *MemoryClient) GetMessageTemplate(ctx context.Context, uid uuid.UUID) (*types.MessageTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mt, ok := m.templates[uid]
	if !ok {
		return nil, NewError(CodeNotFound, "memory.GetMessageTemplate", "message template "+uid.String(), nil)
	}
	return mt.Clone(), nil
}

func (m *MemoryClient) ListScenarios(ctx context.Context, page Page) ([]*types.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	page = page.normalized()
	out := []*types.Scenario{}
	for idx := page.Offset; idx < len(m.scenarioOrder) && len(out) < page.Limit; idx++ {
		out = append(out, m.assembleScenario(m.scenarioOrder[idx]))
	}
	return out, nil
}

func (m *MemoryClient) GetScenarioConversations(ctx context.Context, scenarioUID uuid.UUID) ([]*types.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scenarios[scenarioUID]; !ok {
		return nil, NewError(CodeNotFound, "memory.GetScenarioConversations", "scenario "+scenarioUID.String(), nil)
	}
	out := []*types.Conversation{}
	for _, uid := range m.scenarioConvs[scenarioUID] {
		out = append(out, m.assembleConversation(uid))
	}
	return out, nil
}

func (m *MemoryClient) GetConversationScenes(ctx context.Context, conversationUID uuid.UUID) ([]*types.Scene, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conversations[conversationUID]; !ok {
		return nil, NewError(CodeNotFound, "memory.GetConversationScenes", "conversation "+conversationUID.String(), nil)
	}
	out := []*types.Scene{}
	for _, uid := range m.convScenes[conversationUID] {
		out = append(out, m.assembleScene(uid))
	}
	return out, nil
}

func (m *MemoryClient) GetSceneTurns(ctx context.Context, sceneUID uuid.UUID) ([]*types.Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scenes[sceneUID]; !ok {
		return nil, NewError(CodeNotFound, "memory.GetSceneTurns", "scene "+sceneUID.String(), nil)
	}
	out := []*types.Turn{}
	for _, uid := range m.sceneTurns[sceneUID] {
		out = append(out, m.assembleTurn(uid))
	}
	return out, nil
}

func (m *MemoryClient) GetTurnIntents(ctx context.Context, turnUID uuid.UUID, direction types.Direction) ([]*types.Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.turns[turnUID]; !ok {
		return nil, NewError(CodeNotFound, "memory.GetTurnIntents", "turn "+turnUID.String(), nil)
	}
	var rel map[uuid.UUID][]uuid.UUID
	switch direction {
	case types.DirectionRequest:
		rel = m.turnRequests
	case types.DirectionResponse:
		rel = m.turnResponses
	default:
		return nil, NewError(CodeValidation, "memory.GetTurnIntents", "unknown direction "+string(direction), nil)
	}
	out := []*types.Intent{}
	for _, uid := range rel[turnUID] {
		out = append(out, m.assembleIntent(uid))
	}
	return out, nil
}

func (m *MemoryClient) GetIntentMessageTemplates(ctx context.Context, intentUID uuid.UUID) ([]*types.MessageTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.intents[intentUID]; !ok {
		return nil, NewError(CodeNotFound, "memory.GetIntentMessageTemplates", "intent "+intentUID.String(), nil)
	}
	out := []*types.MessageTemplate{}
	for _, uid := range m.intentTemplates[intentUID] {
		out = append(out, m.templates[uid].Clone())
	}
	return out, nil
}

func (m *MemoryClient) GetTurnWithIntent(ctx context.Context, turnUID, intentUID uuid.UUID) (*types.Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.turns[turnUID]
	if !ok {
		return nil, NewError(CodeNotFound, "memory.GetTurnWithIntent", "turn "+turnUID.String(), nil)
	}
	out := stored.Clone()
	for _, uid := range m.turnRequests[turnUID] {
		if uid == intentUID {
			out.RequestIntents = append(out.RequestIntents, m.assembleIntent(uid))
		}
	}
	for _, uid := range m.turnResponses[turnUID] {
		if uid == intentUID {
			out.ResponseIntents = append(out.ResponseIntents, m.assembleIntent(uid))
		}
	}
	return out, nil
}

// --- writes ---

func (m *MemoryClient) AddConversation(ctx context.Context, scenarioUID uuid.UUID, c *types.Conversation) (*types.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scenarios[scenarioUID]; !ok {
		return nil, NewError(CodeNotFound, "memory.AddConversation", "scenario "+scenarioUID.String(), nil)
	}
	now := m.now()
	stored := c.Clone()
	stored.UID = uuid.New()
	stored.ScenarioUID = scenarioUID
	stored.Scenes = nil
	stored.CreatedAt, stored.UpdatedAt = now, now
	m.conversations[stored.UID] = stored
	m.scenarioConvs[scenarioUID] = append(m.scenarioConvs[scenarioUID], stored.UID)
	for _, sc := range c.Scenes {
		m.storeScene(stored.UID, sc, now)
	}
	return m.assembleConversation(stored.UID), nil
}

func (m *MemoryClient) AddRequestIntent(ctx context.Context, turnUID uuid.UUID, i *types.Intent) (*types.Intent, error) {
	return m.addTurnIntent(turnUID, i, types.DirectionRequest, "memory.AddRequestIntent")
}

func (m *MemoryClient) AddResponseIntent(ctx context.Context, turnUID uuid.UUID, i *types.Intent) (*types.Intent, error) {
	return m.addTurnIntent(turnUID, i, types.DirectionResponse, "memory.AddResponseIntent")
}

func (m *MemoryClient) addTurnIntent(turnUID uuid.UUID, i *types.Intent, direction types.Direction, op string) (*types.Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.turns[turnUID]; !ok {
		return nil, NewError(CodeNotFound, op, "turn "+turnUID.String(), nil)
	}
	now := m.now()
	uid := m.storeIntent(turnUID, i, now)
	rel := m.turnRequests
	if direction == types.DirectionResponse {
		rel = m.turnResponses
	}
	rel[turnUID] = append(rel[turnUID], uid)
	return m.assembleIntent(uid), nil
}

func (m *MemoryClient) AddMessageTemplate(ctx context.Context, intentUID uuid.UUID, mt *types.MessageTemplate) (*types.MessageTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.intents[intentUID]; !ok {
		return nil, NewError(CodeNotFound, "memory.AddMessageTemplate", "intent "+intentUID.String(), nil)
	}
	now := m.now()
	uid := m.storeTemplate(intentUID, mt, now)
	return m.templates[uid].Clone(), nil
}

func (m *MemoryClient) AddFullScenarioGraph(ctx context.Context, s *types.Scenario) (*types.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Scenario od_id is unique store-wide, matching the Neo4j constraint.
	for _, existing := range m.scenarios {
		if existing.OdID == s.OdID {
			return nil, NewError(CodeConflict, "memory.AddFullScenarioGraph",
				"scenario od_id "+s.OdID+" already in use", nil)
		}
	}
	now := m.now()
	stored := s.Clone()
	stored.UID = uuid.New()
	stored.Conversations = nil
	stored.CreatedAt, stored.UpdatedAt = now, now
	m.scenarios[stored.UID] = stored
	m.scenarioOrder = append(m.scenarioOrder, stored.UID)
	for _, c := range s.Conversations {
		m.storeConversation(stored.UID, c, now)
	}
	return m.assembleScenario(stored.UID), nil
}

// --- updates ---

func (m *MemoryClient) UpdateScenario(ctx context.Context, s *types.Scenario) (*types.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.scenarios[s.UID]
	if !ok {
		return nil, NewError(CodeNotFound, "memory.UpdateScenario", "scenario "+s.UID.String(), nil)
	}
	for uid, other := range m.scenarios {
		if uid != s.UID && other.OdID == s.OdID {
			return nil, NewError(CodeConflict, "memory.UpdateScenario",
				"scenario od_id "+s.OdID+" already in use", nil)
		}
	}
	stored := s.Clone()
	stored.Conversations = nil
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = m.now()
	m.scenarios[s.UID] = stored
	return m.assembleScenario(s.UID), nil
}

func (m *MemoryClient) UpdateConversation(ctx context.Context, c *types.Conversation) (*types.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.conversations[c.UID]
	if !ok {
		return nil, NewError(CodeNotFound, "memory.UpdateConversation", "conversation "+c.UID.String(), nil)
	}
	stored := c.Clone()
	stored.Scenes = nil
	stored.ScenarioUID = existing.ScenarioUID
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = m.now()
	m.conversations[c.UID] = stored
	return m.assembleConversation(c.UID), nil
}

func (m *MemoryClient) UpdateTurn(ctx context.Context, t *types.Turn) (*types.Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.turns[t.UID]
	if !ok {
		return nil, NewError(CodeNotFound, "memory.UpdateTurn", "turn "+t.UID.String(), nil)
	}
	stored := t.Clone()
	stored.RequestIntents, stored.ResponseIntents = nil, nil
	stored.SceneUID = existing.SceneUID
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = m.now()
	m.turns[t.UID] = stored
	return m.assembleTurn(t.UID), nil
}

func (m *MemoryClient) UpdateIntent(ctx context.Context, i *types.Intent) (*types.Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.intents[i.UID]
	if !ok {
		return nil, NewError(CodeNotFound, "memory.UpdateIntent", "intent "+i.UID.String(), nil)
	}
	stored := i.Clone()
	stored.MessageTemplates = nil
	// The turn relation is owned by UpdateTurnIntentRelation.
	stored.TurnUID = existing.TurnUID
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = m.now()
	m.intents[i.UID] = stored
	return m.assembleIntent(i.UID), nil
}

func (m *MemoryClient) UpdateTurnIntentRelation(ctx context.Context, turnUID, intentUID uuid.UUID, direction types.Direction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.turns[turnUID]; !ok {
		return NewError(CodeNotFound, "memory.UpdateTurnIntentRelation", "turn "+turnUID.String(), nil)
	}
	onRequest := contains(m.turnRequests[turnUID], intentUID)
	onResponse := contains(m.turnResponses[turnUID], intentUID)
	if !onRequest && !onResponse {
		return NewError(CodeNotFound, "memory.UpdateTurnIntentRelation",
			"intent "+intentUID.String()+" not linked to turn "+turnUID.String(), nil)
	}
	switch direction {
	case types.DirectionRequest:
		if onResponse {
			m.turnResponses[turnUID] = remove(m.turnResponses[turnUID], intentUID)
		}
		if !onRequest {
			m.turnRequests[turnUID] = append(m.turnRequests[turnUID], intentUID)
		}
	case types.DirectionResponse:
		if onRequest {
			m.turnRequests[turnUID] = remove(m.turnRequests[turnUID], intentUID)
		}
		if !onResponse {
			m.turnResponses[turnUID] = append(m.turnResponses[turnUID], intentUID)
		}
	default:
		return NewError(CodeValidation, "memory.UpdateTurnIntentRelation", "unknown direction "+string(direction), nil)
	}
	return nil
}

// --- deletes ---

func (m *MemoryClient) DeleteScenario(ctx context.Context, uid uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scenarios[uid]; !ok {
		return NewError(CodeNotFound, "memory.DeleteScenario", "scenario "+uid.String(), nil)
	}
	for _, cuid := range m.scenarioConvs[uid] {
		m.deleteConversationLocked(cuid)
	}
	delete(m.scenarioConvs, uid)
	delete(m.scenarios, uid)
	m.scenarioOrder = remove(m.scenarioOrder, uid)
	return nil
}

func (m *MemoryClient) DeleteTurn(ctx context.Context, uid uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.turns[uid]
	if !ok {
		return NewError(CodeNotFound, "memory.DeleteTurn", "turn "+uid.String(), nil)
	}
	sceneUID := t.SceneUID
	m.deleteTurnLocked(uid)
	m.sceneTurns[sceneUID] = remove(m.sceneTurns[sceneUID], uid)
	return nil
}

func (m *MemoryClient) DeleteIntent(ctx context.Context, uid uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.intents[uid]
	if !ok {
		return NewError(CodeNotFound, "memory.DeleteIntent", "intent "+uid.String(), nil)
	}
	if contains(m.turnRequests[i.TurnUID], uid) || contains(m.turnResponses[i.TurnUID], uid) {
		return NewError(CodeConflict, "memory.DeleteIntent",
			"intent "+uid.String()+" still attached to turn "+i.TurnUID.String(), nil)
	}
	m.deleteIntentLocked(uid)
	return nil
}

func (m *MemoryClient) DetachTurnIntent(ctx context.Context, turnUID, intentUID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.turns[turnUID]; !ok {
		return NewError(CodeNotFound, "memory.DetachTurnIntent", "turn "+turnUID.String(), nil)
	}
	onRequest := contains(m.turnRequests[turnUID], intentUID)
	onResponse := contains(m.turnResponses[turnUID], intentUID)
	if !onRequest && !onResponse {
		return NewError(CodeNotFound, "memory.DetachTurnIntent",
			"intent "+intentUID.String()+" not linked to turn "+turnUID.String(), nil)
	}
	m.turnRequests[turnUID] = remove(m.turnRequests[turnUID], intentUID)
	m.turnResponses[turnUID] = remove(m.turnResponses[turnUID], intentUID)
	return nil
}

// --- internal storage helpers (lock held) ---

func (m *MemoryClient) storeConversation(scenarioUID uuid.UUID, c *types.Conversation, now time.Time) uuid.UUID {
	stored := c.Clone()
	stored.UID = uuid.New()
	stored.ScenarioUID = scenarioUID
	stored.Scenes = nil
	stored.CreatedAt, stored.UpdatedAt = now, now
	m.conversations[stored.UID] = stored
	m.scenarioConvs[scenarioUID] = append(m.scenarioConvs[scenarioUID], stored.UID)
	for _, sc := range c.Scenes {
		m.storeScene(stored.UID, sc, now)
	}
	return stored.UID
}

func (m *MemoryClient) storeScene(conversationUID uuid.UUID, s *types.Scene, now time.Time) uuid.UUID {
	stored := s.Clone()
	stored.UID = uuid.New()
	stored.ConversationUID = conversationUID
	stored.Turns = nil
	stored.CreatedAt, stored.UpdatedAt = now, now
	m.scenes[stored.UID] = stored
	m.convScenes[conversationUID] = append(m.convScenes[conversationUID], stored.UID)
	for _, t := range s.Turns {
		m.storeTurn(stored.UID, t, now)
	}
	return stored.UID
}

func (m *MemoryClient) storeTurn(sceneUID uuid.UUID, t *types.Turn, now time.Time) uuid.UUID {
	stored := t.Clone()
	stored.UID = uuid.New()
	stored.SceneUID = sceneUID
	stored.RequestIntents, stored.ResponseIntents = nil, nil
	stored.CreatedAt, stored.UpdatedAt = now, now
	m.turns[stored.UID] = stored
	m.sceneTurns[sceneUID] = append(m.sceneTurns[sceneUID], stored.UID)
	for _, i := range t.RequestIntents {
		uid := m.storeIntent(stored.UID, i, now)
		m.turnRequests[stored.UID] = append(m.turnRequests[stored.UID], uid)
	}
	for _, i := range t.ResponseIntents {
		uid := m.storeIntent(stored.UID, i, now)
		m.turnResponses[stored.UID] = append(m.turnResponses[stored.UID], uid)
	}
	return stored.UID
}

func (m *MemoryClient) storeIntent(turnUID uuid.UUID, i *types.Intent, now time.Time) uuid.UUID {
	stored := i.Clone()
	stored.UID = uuid.New()
	stored.TurnUID = turnUID
	stored.MessageTemplates = nil
	stored.CreatedAt, stored.UpdatedAt = now, now
	m.intents[stored.UID] = stored
	for _, mt := range i.MessageTemplates {
		m.storeTemplate(stored.UID, mt, now)
	}
	return stored.UID
}

func (m *MemoryClient) storeTemplate(intentUID uuid.UUID, mt *types.MessageTemplate, now time.Time) uuid.UUID {
	stored := mt.Clone()
	stored.UID = uuid.New()
	stored.IntentUID = intentUID
	stored.CreatedAt, stored.UpdatedAt = now, now
	m.templates[stored.UID] = stored
	m.intentTemplates[intentUID] = append(m.intentTemplates[intentUID], stored.UID)
	return stored.UID
}

// --- assembly (lock held) ---

func (m *MemoryClient) assembleScenario(uid uuid.UUID) *types.Scenario {
	out := m.scenarios[uid].Clone()
	for _, cuid := range m.scenarioConvs[uid] {
		out.Conversations = append(out.Conversations, m.assembleConversation(cuid))
	}
	return out
}

func (m *MemoryClient) assembleConversation(uid uuid.UUID) *types.Conversation {
	out := m.conversations[uid].Clone()
	for _, suid := range m.convScenes[uid] {
		out.Scenes = append(out.Scenes, m.assembleScene(suid))
	}
	return out
}

func (m *MemoryClient) assembleScene(uid uuid.UUID) *types.Scene {
	out := m.scenes[uid].Clone()
	for _, tuid := range m.sceneTurns[uid] {
		out.Turns = append(out.Turns, m.assembleTurn(tuid))
	}
	return out
}

func (m *MemoryClient) assembleTurn(uid uuid.UUID) *types.Turn {
	out := m.turns[uid].Clone()
	for _, iuid := range m.turnRequests[uid] {
		out.RequestIntents = append(out.RequestIntents, m.assembleIntent(iuid))
	}
	for _, iuid := range m.turnResponses[uid] {
		out.ResponseIntents = append(out.ResponseIntents, m.assembleIntent(iuid))
	}
	return out
}

func (m *MemoryClient) assembleIntent(uid uuid.UUID) *types.Intent {
	out := m.intents[uid].Clone()
	for _, muid := range m.intentTemplates[uid] {
		out.MessageTemplates = append(out.MessageTemplates, m.templates[muid].Clone())
	}
	return out
}

// --- cascade helpers (lock held) ---

func (m *MemoryClient) deleteConversationLocked(uid uuid.UUID) {
	for _, suid := range m.convScenes[uid] {
		m.deleteSceneLocked(suid)
	}
	delete(m.convScenes, uid)
	delete(m.conversations, uid)
}

func (m *MemoryClient) deleteSceneLocked(uid uuid.UUID) {
	for _, tuid := range m.sceneTurns[uid] {
		m.deleteTurnLocked(tuid)
	}
	delete(m.sceneTurns, uid)
	delete(m.scenes, uid)
}

func (m *MemoryClient) deleteTurnLocked(uid uuid.UUID) {
	for _, iuid := range m.turnRequests[uid] {
		m.deleteIntentLocked(iuid)
	}
	for _, iuid := range m.turnResponses[uid] {
		m.deleteIntentLocked(iuid)
	}
	delete(m.turnRequests, uid)
	delete(m.turnResponses, uid)
	delete(m.turns, uid)
}

func (m *MemoryClient) deleteIntentLocked(uid uuid.UUID) {
	for _, muid := range m.intentTemplates[uid] {
		delete(m.templates, muid)
	}
	delete(m.intentTemplates, uid)
	delete(m.intents, uid)
}

func contains(uids []uuid.UUID, uid uuid.UUID) bool {
	for _, u := range uids {
		if u == uid {
			return true
		}
	}
	return false
}

func remove(uids []uuid.UUID, uid uuid.UUID) []uuid.UUID {
	out := uids[:0]
	for _, u := range uids {
		if u != uid {
			out = append(out, u)
		}
	}
	return out
}
