package graph

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	types "github.com/openconvo/convograph-backend/internal/domain"
)

// subtreeRows carries one pre-built scenario subtree flattened into
// per-level batches for UNWIND writes.
type subtreeRows struct {
	conversations []map[string]any
	scenes        []map[string]any
	turns         []map[string]any
	requests      []map[string]any
	responses     []map[string]any
	templates     []map[string]any
}

func row(props map[string]any, parentUID uuid.UUID, ord int) map[string]any {
	return map[string]any{"props": props, "parent_uid": parentUID.String(), "ord": ord}
}

// flattenScenario assigns fresh UIDs, parent back-references and timestamps
// to a cloned subtree, and returns the flattened batches. The clone is what
// gets persisted; the caller's value is never mutated.
func flattenScenario(s *types.Scenario, now time.Time) (*types.Scenario, *subtreeRows) {
	clone := s.Clone()
	clone.UID = uuid.New()
	clone.CreatedAt, clone.UpdatedAt = now, now
	rows := &subtreeRows{}
	for ord, cv := range clone.Conversations {
		flattenConversation(cv, clone.UID, ord, now, rows)
	}
	return clone, rows
}

func flattenConversation(cv *types.Conversation, scenarioUID uuid.UUID, ord int, now time.Time, rows *subtreeRows) {
	cv.UID = uuid.New()
	cv.ScenarioUID = scenarioUID
	cv.CreatedAt, cv.UpdatedAt = now, now
	rows.conversations = append(rows.conversations, row(conversationProps(cv), scenarioUID, ord))
	for n, sc := range cv.Scenes {
		flattenScene(sc, cv.UID, n, now, rows)
	}
}

func flattenScene(sc *types.Scene, conversationUID uuid.UUID, ord int, now time.Time, rows *subtreeRows) {
	sc.UID = uuid.New()
	sc.ConversationUID = conversationUID
	sc.CreatedAt, sc.UpdatedAt = now, now
	rows.scenes = append(rows.scenes, row(sceneProps(sc), conversationUID, ord))
	for n, t := range sc.Turns {
		flattenTurn(t, sc.UID, n, now, rows)
	}
}

func flattenTurn(t *types.Turn, sceneUID uuid.UUID, ord int, now time.Time, rows *subtreeRows) {
	t.UID = uuid.New()
	t.SceneUID = sceneUID
	t.CreatedAt, t.UpdatedAt = now, now
	rows.turns = append(rows.turns, row(turnProps(t), sceneUID, ord))
	for n, i := range t.RequestIntents {
		flattenIntent(i, t.UID, n, now, rows, &rows.requests)
	}
	for n, i := range t.ResponseIntents {
		flattenIntent(i, t.UID, n, now, rows, &rows.responses)
	}
}

func flattenIntent(i *types.Intent, turnUID uuid.UUID, ord int, now time.Time, rows *subtreeRows, side *[]map[string]any) {
	i.UID = uuid.New()
	i.TurnUID = turnUID
	i.CreatedAt, i.UpdatedAt = now, now
	*side = append(*side, row(intentProps(i), turnUID, ord))
	for n, mt := range i.MessageTemplates {
		mt.UID = uuid.New()
		mt.IntentUID = i.UID
		mt.CreatedAt, mt.UpdatedAt = now, now
		rows.templates = append(rows.templates, row(templateProps(mt), i.UID, n))
	}
}

func writeRowsTx(ctx context.Context, tx neo4j.ManagedTransaction, rows *subtreeRows) error {
	batches := []struct {
		rows   []map[string]any
		cypher string
	}{
		{rows.conversations, `
UNWIND $rows AS row
MATCH (p:Scenario {uid: row.parent_uid})
CREATE (c:Conversation)
SET c = row.props
CREATE (p)-[r:HAS_CONVERSATION]->(c)
SET r.ord = row.ord
`},
		{rows.scenes, `
UNWIND $rows AS row
MATCH (p:Conversation {uid: row.parent_uid})
CREATE (c:Scene)
SET c = row.props
CREATE (p)-[r:HAS_SCENE]->(c)
SET r.ord = row.ord
`},
		{rows.turns, `
UNWIND $rows AS row
MATCH (p:Scene {uid: row.parent_uid})
CREATE (c:Turn)
SET c = row.props
CREATE (p)-[r:HAS_TURN]->(c)
SET r.ord = row.ord
`},
		{rows.requests, `
UNWIND $rows AS row
MATCH (p:Turn {uid: row.parent_uid})
CREATE (c:Intent)
SET c = row.props
CREATE (p)-[r:HAS_REQUEST_INTENT]->(c)
SET r.ord = row.ord
`},
		{rows.responses, `
UNWIND $rows AS row
MATCH (p:Turn {uid: row.parent_uid})
CREATE (c:Intent)
SET c = row.props
CREATE (p)-[r:HAS_RESPONSE_INTENT]->(c)
SET r.ord = row.ord
`},
		{rows.templates, `
UNWIND $rows AS row
MATCH (p:Intent {uid: row.parent_uid})
CREATE (c:MessageTemplate)
SET c = row.props
CREATE (p)-[r:HAS_TEMPLATE]->(c)
SET r.ord = row.ord
`},
	}
	for _, b := range batches {
		if len(b.rows) == 0 {
			continue
		}
		res, err := tx.Run(ctx, b.cypher, map[string]any{"rows": b.rows})
		if err != nil {
			return err
		}
		if _, err := res.Consume(ctx); err != nil {
			return err
		}
	}
	return nil
}

// AddFullScenarioGraph persists the scenario and its entire pre-built
// subtree in one managed transaction: either everything is visible
// afterwards or nothing is.
func (c *Neo4jClient) AddFullScenarioGraph(ctx context.Context, s *types.Scenario) (*types.Scenario, error) {
	const op = "neo4j.AddFullScenarioGraph"
	parent := ctx
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.writeSession(ctx)
	defer session.Close(ctx)

	clone, rows := flattenScenario(s, time.Now())
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `CREATE (s:Scenario) SET s = $props`, map[string]any{"props": scenarioProps(clone)})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, writeRowsTx(ctx, tx, rows)
	})
	if err != nil {
		return nil, mapNeo4jError(op, err)
	}
	c.log.Info("persisted full scenario graph", "scenario_uid", clone.UID, "od_id", clone.OdID)
	return c.GetScenario(parent, clone.UID)
}

func (c *Neo4jClient) AddConversation(ctx context.Context, scenarioUID uuid.UUID, cv *types.Conversation) (*types.Conversation, error) {
	const op = "neo4j.AddConversation"
	parent := ctx
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.writeSession(ctx)
	defer session.Close(ctx)

	now := time.Now()
	clone := cv.Clone()
	rows := &subtreeRows{}
	ord, err := c.childCount(ctx, session, labelScenario, relHasConversation, scenarioUID)
	if err != nil {
		return nil, mapNeo4jError(op, err)
	}
	flattenConversation(clone, scenarioUID, ord, now, rows)

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := requireNodeTx(ctx, tx, labelScenario, scenarioUID, op); err != nil {
			return nil, err
		}
		return nil, writeRowsTx(ctx, tx, rows)
	})
	if err != nil {
		return nil, mapNeo4jError(op, err)
	}
	return c.GetConversation(parent, clone.UID)
}

func (c *Neo4jClient) AddRequestIntent(ctx context.Context, turnUID uuid.UUID, i *types.Intent) (*types.Intent, error) {
	return c.addTurnIntent(ctx, turnUID, i, relHasRequestIntent, "neo4j.AddRequestIntent")
}

func (c *Neo4jClient) AddResponseIntent(ctx context.Context, turnUID uuid.UUID, i *types.Intent) (*types.Intent, error) {
	return c.addTurnIntent(ctx, turnUID, i, relHasResponseIntent, "neo4j.AddResponseIntent")
}

func (c *Neo4jClient) addTurnIntent(ctx context.Context, turnUID uuid.UUID, i *types.Intent, rel, op string) (*types.Intent, error) {
	parent := ctx
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.writeSession(ctx)
	defer session.Close(ctx)

	now := time.Now()
	clone := i.Clone()
	rows := &subtreeRows{}
	ord, err := c.childCount(ctx, session, labelTurn, rel, turnUID)
	if err != nil {
		return nil, mapNeo4jError(op, err)
	}
	side := &rows.requests
	if rel == relHasResponseIntent {
		side = &rows.responses
	}
	flattenIntent(clone, turnUID, ord, now, rows, side)

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := requireNodeTx(ctx, tx, labelTurn, turnUID, op); err != nil {
			return nil, err
		}
		return nil, writeRowsTx(ctx, tx, rows)
	})
	if err != nil {
		return nil, mapNeo4jError(op, err)
	}
	return c.GetIntent(parent, clone.UID)
}

func (c *Neo4jClient) AddMessageTemplate(ctx context.Context, intentUID uuid.UUID, mt *types.MessageTemplate) (*types.MessageTemplate, error) {
	const op = "neo4j.AddMessageTemplate"
	parent := ctx
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.writeSession(ctx)
	defer session.Close(ctx)

	now := time.Now()
	clone := mt.Clone()
	clone.UID = uuid.New()
	clone.IntentUID = intentUID
	clone.CreatedAt, clone.UpdatedAt = now, now
	ord, err := c.childCount(ctx, session, labelIntent, relHasTemplate, intentUID)
	if err != nil {
		return nil, mapNeo4jError(op, err)
	}

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := requireNodeTx(ctx, tx, labelIntent, intentUID, op); err != nil {
			return nil, err
		}
		res, err := tx.Run(ctx, `
MATCH (p:Intent {uid: $parent_uid})
CREATE (m:MessageTemplate)
SET m = $props
CREATE (p)-[r:HAS_TEMPLATE]->(m)
SET r.ord = $ord
`, map[string]any{"parent_uid": intentUID.String(), "props": templateProps(clone), "ord": ord})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	if err != nil {
		return nil, mapNeo4jError(op, err)
	}
	return c.GetMessageTemplate(parent, clone.UID)
}

// --- updates ---

func (c *Neo4jClient) UpdateScenario(ctx context.Context, s *types.Scenario) (*types.Scenario, error) {
	props := scenarioProps(s)
	if err := c.updateNode(ctx, labelScenario, s.UID, props, "neo4j.UpdateScenario"); err != nil {
		return nil, err
	}
	return c.GetScenario(ctx, s.UID)
}

func (c *Neo4jClient) UpdateConversation(ctx context.Context, cv *types.Conversation) (*types.Conversation, error) {
	props := conversationProps(cv)
	delete(props, "scenario_uid")
	if err := c.updateNode(ctx, labelConversation, cv.UID, props, "neo4j.UpdateConversation"); err != nil {
		return nil, err
	}
	return c.GetConversation(ctx, cv.UID)
}

func (c *Neo4jClient) UpdateTurn(ctx context.Context, t *types.Turn) (*types.Turn, error) {
	props := turnProps(t)
	delete(props, "scene_uid")
	if err := c.updateNode(ctx, labelTurn, t.UID, props, "neo4j.UpdateTurn"); err != nil {
		return nil, err
	}
	return c.GetTurn(ctx, t.UID)
}

// UpdateIntent replaces the intent's own fields. The turn relation and the
// turn back-reference stay untouched; UpdateTurnIntentRelation owns those.
func (c *Neo4jClient) UpdateIntent(ctx context.Context, i *types.Intent) (*types.Intent, error) {
	props := intentProps(i)
	delete(props, "turn_uid")
	if err := c.updateNode(ctx, labelIntent, i.UID, props, "neo4j.UpdateIntent"); err != nil {
		return nil, err
	}
	return c.GetIntent(ctx, i.UID)
}

func (c *Neo4jClient) updateNode(ctx context.Context, label string, uid uuid.UUID, props map[string]any, op string) error {
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.writeSession(ctx)
	defer session.Close(ctx)

	// created_at is immutable; updated_at is stamped here.
	delete(props, "created_at")
	props["updated_at"] = fmtTime(time.Now())
	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			`MATCH (n:`+label+` {uid: $uid}) SET n += $props RETURN count(n) AS updated`,
			map[string]any{"uid": uid.String(), "props": props})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		updated, _ := rec.Get("updated")
		return updated, nil
	})
	if err != nil {
		return mapNeo4jError(op, err)
	}
	if n, _ := out.(int64); n == 0 {
		return NewError(CodeNotFound, op, label+" "+uid.String(), nil)
	}
	return nil
}

// UpdateTurnIntentRelation migrates an already-linked intent to the given
// side of the turn without mutating intent content. Idempotent for a
// repeated direction.
func (c *Neo4jClient) UpdateTurnIntentRelation(ctx context.Context, turnUID, intentUID uuid.UUID, direction types.Direction) error {
	const op = "neo4j.UpdateTurnIntentRelation"
	if direction != types.DirectionRequest && direction != types.DirectionResponse {
		return NewError(CodeValidation, op, "unknown direction "+string(direction), nil)
	}
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.writeSession(ctx)
	defer session.Close(ctx)

	keep, drop := relHasRequestIntent, relHasResponseIntent
	if direction == types.DirectionResponse {
		keep, drop = relHasResponseIntent, relHasRequestIntent
	}
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (t:Turn {uid: $turn_uid})
MATCH (i:Intent {uid: $intent_uid})
OPTIONAL MATCH (t)-[r:HAS_REQUEST_INTENT|HAS_RESPONSE_INTENT]->(i)
RETURN count(r) AS linked
`, map[string]any{"turn_uid": turnUID.String(), "intent_uid": intentUID.String()})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			// No row means turn or intent is missing.
			return nil, NewError(CodeNotFound, op,
				"turn "+turnUID.String()+" or intent "+intentUID.String(), nil)
		}
		linkedVal, _ := rec.Get("linked")
		if linked, _ := linkedVal.(int64); linked == 0 {
			return nil, NewError(CodeNotFound, op,
				"intent "+intentUID.String()+" not linked to turn "+turnUID.String(), nil)
		}

		res, err = tx.Run(ctx, `
MATCH (t:Turn {uid: $turn_uid})-[r:`+drop+`]->(i:Intent {uid: $intent_uid})
DELETE r
`, map[string]any{"turn_uid": turnUID.String(), "intent_uid": intentUID.String()})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		res, err = tx.Run(ctx, `
MATCH (t:Turn {uid: $turn_uid})
MATCH (i:Intent {uid: $intent_uid})
OPTIONAL MATCH (t)-[existing:`+keep+`]->(:Intent)
WITH t, i, count(existing) AS n
MERGE (t)-[r:`+keep+`]->(i)
ON CREATE SET r.ord = n
`, map[string]any{"turn_uid": turnUID.String(), "intent_uid": intentUID.String()})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	if err != nil {
		return mapNeo4jError(op, err)
	}
	return nil
}

// --- deletes ---

// DeleteScenario cascades: the scenario and every descendant node go in one
// transaction.
func (c *Neo4jClient) DeleteScenario(ctx context.Context, uid uuid.UUID) error {
	const op = "neo4j.DeleteScenario"
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.writeSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := requireNodeTx(ctx, tx, labelScenario, uid, op); err != nil {
			return nil, err
		}
		res, err := tx.Run(ctx, `
MATCH (s:Scenario {uid: $uid})
OPTIONAL MATCH (s)-[:HAS_CONVERSATION]->(c:Conversation)
OPTIONAL MATCH (c)-[:HAS_SCENE]->(sc:Scene)
OPTIONAL MATCH (sc)-[:HAS_TURN]->(t:Turn)
OPTIONAL MATCH (t)-[:HAS_REQUEST_INTENT|HAS_RESPONSE_INTENT]->(i:Intent)
OPTIONAL MATCH (i)-[:HAS_TEMPLATE]->(m:MessageTemplate)
DETACH DELETE m, i, t, sc, c, s
`, map[string]any{"uid": uid.String()})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	if err != nil {
		return mapNeo4jError(op, err)
	}
	c.log.Info("deleted scenario subtree", "scenario_uid", uid)
	return nil
}

// DeleteTurn cascades over the turn's intents and their templates.
func (c *Neo4jClient) DeleteTurn(ctx context.Context, uid uuid.UUID) error {
	const op = "neo4j.DeleteTurn"
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.writeSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := requireNodeTx(ctx, tx, labelTurn, uid, op); err != nil {
			return nil, err
		}
		res, err := tx.Run(ctx, `
MATCH (t:Turn {uid: $uid})
OPTIONAL MATCH (t)-[:HAS_REQUEST_INTENT|HAS_RESPONSE_INTENT]->(i:Intent)
OPTIONAL MATCH (i)-[:HAS_TEMPLATE]->(m:MessageTemplate)
DETACH DELETE m, i, t
`, map[string]any{"uid": uid.String()})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	if err != nil {
		return mapNeo4jError(op, err)
	}
	return nil
}

// DeleteIntent refuses while the intent is still attached to a turn;
// callers detach first, then delete.
func (c *Neo4jClient) DeleteIntent(ctx context.Context, uid uuid.UUID) error {
	const op = "neo4j.DeleteIntent"
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.writeSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (i:Intent {uid: $uid})
OPTIONAL MATCH (:Turn)-[r:HAS_REQUEST_INTENT|HAS_RESPONSE_INTENT]->(i)
RETURN count(DISTINCT i) AS found, count(r) AS rels
`, map[string]any{"uid": uid.String()})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, NewError(CodeNotFound, op, "intent "+uid.String(), nil)
		}
		foundVal, _ := rec.Get("found")
		if found, _ := foundVal.(int64); found == 0 {
			return nil, NewError(CodeNotFound, op, "intent "+uid.String(), nil)
		}
		relsVal, _ := rec.Get("rels")
		if rels, _ := relsVal.(int64); rels > 0 {
			return nil, NewError(CodeConflict, op,
				"intent "+uid.String()+" still attached to a turn; detach the relation first", nil)
		}

		res, err = tx.Run(ctx, `
MATCH (i:Intent {uid: $uid})
OPTIONAL MATCH (i)-[:HAS_TEMPLATE]->(m:MessageTemplate)
DETACH DELETE m, i
`, map[string]any{"uid": uid.String()})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	if err != nil {
		return mapNeo4jError(op, err)
	}
	return nil
}

// DetachTurnIntent removes only the turn-intent association; the intent
// entity survives and must be deleted separately.
func (c *Neo4jClient) DetachTurnIntent(ctx context.Context, turnUID, intentUID uuid.UUID) error {
	const op = "neo4j.DetachTurnIntent"
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.writeSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (t:Turn {uid: $turn_uid})-[r:HAS_REQUEST_INTENT|HAS_RESPONSE_INTENT]->(i:Intent {uid: $intent_uid})
RETURN count(r) AS linked
`, map[string]any{"turn_uid": turnUID.String(), "intent_uid": intentUID.String()})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, NewError(CodeNotFound, op,
				"intent "+intentUID.String()+" not linked to turn "+turnUID.String(), nil)
		}
		linkedVal, _ := rec.Get("linked")
		if linked, _ := linkedVal.(int64); linked == 0 {
			return nil, NewError(CodeNotFound, op,
				"intent "+intentUID.String()+" not linked to turn "+turnUID.String(), nil)
		}
		res, err = tx.Run(ctx, `
MATCH (t:Turn {uid: $turn_uid})-[r:HAS_REQUEST_INTENT|HAS_RESPONSE_INTENT]->(i:Intent {uid: $intent_uid})
DELETE r
`, map[string]any{"turn_uid": turnUID.String(), "intent_uid": intentUID.String()})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	if err != nil {
		return mapNeo4jError(op, err)
	}
	return nil
}

// --- helpers ---

func requireNodeTx(ctx context.Context, tx neo4j.ManagedTransaction, label string, uid uuid.UUID, op string) error {
	props, err := fetchNodeTx(ctx, tx, label, uid)
	if err != nil {
		return err
	}
	if props == nil {
		return NewError(CodeNotFound, op, label+" "+uid.String(), nil)
	}
	return nil
}

func (c *Neo4jClient) childCount(ctx context.Context, session neo4j.SessionWithContext, parentLabel, rel string, parentUID uuid.UUID) (int, error) {
	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			`MATCH (p:`+parentLabel+` {uid: $uid}) OPTIONAL MATCH (p)-[r:`+rel+`]->() RETURN count(r) AS n`,
			map[string]any{"uid": parentUID.String()})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		n, _ := rec.Get("n")
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	n, _ := out.(int64)
	return int(n), nil
}
