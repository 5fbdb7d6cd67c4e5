package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	types "github.com/openconvo/convograph-backend/internal/domain"
)

func (c *Neo4jClient) GetScenario(ctx context.Context, uid uuid.UUID) (*types.Scenario, error) {
	const op = "neo4j.GetScenario"
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return c.readScenarioTx(ctx, tx, uid)
	})
	if err != nil {
		return nil, mapNeo4jError(op, err)
	}
	s, _ := out.(*types.Scenario)
	if s == nil {
		return nil, NewError(CodeNotFound, op, "scenario "+uid.String(), nil)
	}
	return s, nil
}

func (c *Neo4jClient) GetConversation(ctx context.Context, uid uuid.UUID) (*types.Conversation, error) {
	const op = "neo4j.GetConversation"
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		props, err := fetchNodeTx(ctx, tx, labelConversation, uid)
		if err != nil || props == nil {
			return nil, err
		}
		return c.assembleConversationTx(ctx, tx, props)
	})
	if err != nil {
		return nil, mapNeo4jError(op, err)
	}
	cv, _ := out.(*types.Conversation)
	if cv == nil {
		return nil, NewError(CodeNotFound, op, "conversation "+uid.String(), nil)
	}
	return cv, nil
}

func (c *Neo4jClient) GetScene(ctx context.Context, uid uuid.UUID) (*types.Scene, error) {
	const op = "neo4j.GetScene"
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		props, err := fetchNodeTx(ctx, tx, labelScene, uid)
		if err != nil || props == nil {
			return nil, err
		}
		return c.assembleSceneTx(ctx, tx, props)
	})
	if err != nil {
		return nil, mapNeo4jError(op, err)
	}
	sc, _ := out.(*types.Scene)
	if sc == nil {
		return nil, NewError(CodeNotFound, op, "scene "+uid.String(), nil)
	}
	return sc, nil
}

func (c *Neo4jClient) GetTurn(ctx context.Context, uid uuid.UUID) (*types.Turn, error) {
	const op = "neo4j.GetTurn"
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		props, err := fetchNodeTx(ctx, tx, labelTurn, uid)
		if err != nil || props == nil {
			return nil, err
		}
		return c.assembleTurnTx(ctx, tx, props)
	})
	if err != nil {
		return nil, mapNeo4jError(op, err)
	}
	t, _ := out.(*types.Turn)
	if t == nil {
		return nil, NewError(CodeNotFound, op, "turn "+uid.String(), nil)
	}
	return t, nil
}

func (c *Neo4jClient) GetIntent(ctx context.Context, uid uuid.UUID) (*types.Intent, error) {
	const op = "neo4j.GetIntent"
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		props, err := fetchNodeTx(ctx, tx, labelIntent, uid)
		if err != nil || props == nil {
			return nil, err
		}
		return c.assembleIntentTx(ctx, tx, props)
	})
	if err != nil {
		return nil, mapNeo4jError(op, err)
	}
	i, _ := out.(*types.Intent)
	if i == nil {
		return nil, NewError(CodeNotFound, op, "intent "+uid.String(), nil)
	}
	return i, nil
}

func (c *Neo4jClient) GetMessageTemplate(ctx context.Context, uid uuid.UUID) (*types.MessageTemplate, error) {
	const op = "neo4j.GetMessageTemplate"
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		props, err := fetchNodeTx(ctx, tx, labelTemplate, uid)
		if err != nil || props == nil {
			return nil, err
		}
		return templateFromProps(props), nil
	})
	if err != nil {
		return nil, mapNeo4jError(op, err)
	}
	mt, _ := out.(*types.MessageTemplate)
	if mt == nil {
		return nil, NewError(CodeNotFound, op, "message template "+uid.String(), nil)
	}
	return mt, nil
}

// ListScenarios returns scenario nodes without their subtrees, ordered by
// creation time. Callers needing the subtree follow up with GetScenario.
func (c *Neo4jClient) ListScenarios(ctx context.Context, page Page) ([]*types.Scenario, error) {
	const op = "neo4j.ListScenarios"
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.readSession(ctx)
	defer session.Close(ctx)

	page = page.normalized()
	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (s:Scenario)
RETURN s
ORDER BY s.created_at, s.uid
SKIP $offset LIMIT $limit
`, map[string]any{"offset": page.Offset, "limit": page.Limit})
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		scenarios := []*types.Scenario{}
		for _, rec := range records {
			if props, ok := nodeProps(rec, "s"); ok {
				scenarios = append(scenarios, scenarioFromProps(props))
			}
		}
		return scenarios, nil
	})
	if err != nil {
		return nil, mapNeo4jError(op, err)
	}
	return out.([]*types.Scenario), nil
}

func (c *Neo4jClient) GetScenarioConversations(ctx context.Context, scenarioUID uuid.UUID) ([]*types.Conversation, error) {
	const op = "neo4j.GetScenarioConversations"
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		children, err := fetchChildrenTx(ctx, tx, labelScenario, relHasConversation, labelConversation, scenarioUID)
		if err != nil {
			return nil, err
		}
		convs := []*types.Conversation{}
		for _, props := range children {
			cv, err := c.assembleConversationTx(ctx, tx, props)
			if err != nil {
				return nil, err
			}
			convs = append(convs, cv)
		}
		return convs, nil
	})
	if err != nil {
		return nil, mapNeo4jError(op, err)
	}
	return out.([]*types.Conversation), nil
}

func (c *Neo4jClient) GetConversationScenes(ctx context.Context, conversationUID uuid.UUID) ([]*types.Scene, error) {
	const op = "neo4j.GetConversationScenes"
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		children, err := fetchChildrenTx(ctx, tx, labelConversation, relHasScene, labelScene, conversationUID)
		if err != nil {
			return nil, err
		}
		scenes := []*types.Scene{}
		for _, props := range children {
			sc, err := c.assembleSceneTx(ctx, tx, props)
			if err != nil {
				return nil, err
			}
			scenes = append(scenes, sc)
		}
		return scenes, nil
	})
	if err != nil {
		return nil, mapNeo4jError(op, err)
	}
	return out.([]*types.Scene), nil
}

func (c *Neo4jClient) GetSceneTurns(ctx context.Context, sceneUID uuid.UUID) ([]*types.Turn, error) {
	const op = "neo4j.GetSceneTurns"
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		children, err := fetchChildrenTx(ctx, tx, labelScene, relHasTurn, labelTurn, sceneUID)
		if err != nil {
			return nil, err
		}
		turns := []*types.Turn{}
		for _, props := range children {
			t, err := c.assembleTurnTx(ctx, tx, props)
			if err != nil {
				return nil, err
			}
			turns = append(turns, t)
		}
		return turns, nil
	})
	if err != nil {
		return nil, mapNeo4jError(op, err)
	}
	return out.([]*types.Turn), nil
}

func (c *Neo4jClient) GetTurnIntents(ctx context.Context, turnUID uuid.UUID, direction types.Direction) ([]*types.Intent, error) {
	const op = "neo4j.GetTurnIntents"
	var rel string
	switch direction {
	case types.DirectionRequest:
		rel = relHasRequestIntent
	case types.DirectionResponse:
		rel = relHasResponseIntent
	default:
		return nil, NewError(CodeValidation, op, "unknown direction "+string(direction), nil)
	}
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.readSession(ctx)
	defer session.Close(ctx)
	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		children, err := fetchChildrenTx(ctx, tx, labelTurn, rel, labelIntent, turnUID)
		if err != nil {
			return nil, err
		}
		intents := []*types.Intent{}
		for _, props := range children {
			i, err := c.assembleIntentTx(ctx, tx, props)
			if err != nil {
				return nil, err
			}
			intents = append(intents, i)
		}
		return intents, nil
	})
	if err != nil {
		return nil, mapNeo4jError(op, err)
	}
	return out.([]*types.Intent), nil
}

func (c *Neo4jClient) GetIntentMessageTemplates(ctx context.Context, intentUID uuid.UUID) ([]*types.MessageTemplate, error) {
	const op = "neo4j.GetIntentMessageTemplates"
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		children, err := fetchChildrenTx(ctx, tx, labelIntent, relHasTemplate, labelTemplate, intentUID)
		if err != nil {
			return nil, err
		}
		templates := []*types.MessageTemplate{}
		for _, props := range children {
			templates = append(templates, templateFromProps(props))
		}
		return templates, nil
	})
	if err != nil {
		return nil, mapNeo4jError(op, err)
	}
	return out.([]*types.MessageTemplate), nil
}

// GetTurnWithIntent returns the turn populated with only the matching
// intent(s). The match can sit on either side, so both relation types are
// probed.
func (c *Neo4jClient) GetTurnWithIntent(ctx context.Context, turnUID, intentUID uuid.UUID) (*types.Turn, error) {
	const op = "neo4j.GetTurnWithIntent"
	ctx, cancel := c.bound(ctx)
	defer cancel()
	session := c.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		props, err := fetchNodeTx(ctx, tx, labelTurn, turnUID)
		if err != nil || props == nil {
			return nil, err
		}
		turn := turnFromProps(props)

		res, err := tx.Run(ctx, `
MATCH (t:Turn {uid: $turn_uid})
OPTIONAL MATCH (t)-[:HAS_REQUEST_INTENT]->(req:Intent {uid: $intent_uid})
OPTIONAL MATCH (t)-[:HAS_RESPONSE_INTENT]->(resp:Intent {uid: $intent_uid})
RETURN req, resp
`, map[string]any{"turn_uid": turnUID.String(), "intent_uid": intentUID.String()})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		if reqProps, ok := nodeProps(rec, "req"); ok {
			i, err := c.assembleIntentTx(ctx, tx, reqProps)
			if err != nil {
				return nil, err
			}
			turn.RequestIntents = append(turn.RequestIntents, i)
		}
		if respProps, ok := nodeProps(rec, "resp"); ok {
			i, err := c.assembleIntentTx(ctx, tx, respProps)
			if err != nil {
				return nil, err
			}
			turn.ResponseIntents = append(turn.ResponseIntents, i)
		}
		return turn, nil
	})
	if err != nil {
		return nil, mapNeo4jError(op, err)
	}
	t, _ := out.(*types.Turn)
	if t == nil {
		return nil, NewError(CodeNotFound, op, "turn "+turnUID.String(), nil)
	}
	return t, nil
}

// --- tx-scoped assembly ---

func (c *Neo4jClient) readScenarioTx(ctx context.Context, tx neo4j.ManagedTransaction, uid uuid.UUID) (*types.Scenario, error) {
	props, err := fetchNodeTx(ctx, tx, labelScenario, uid)
	if err != nil || props == nil {
		return nil, err
	}
	s := scenarioFromProps(props)
	children, err := fetchChildrenTx(ctx, tx, labelScenario, relHasConversation, labelConversation, uid)
	if err != nil {
		return nil, err
	}
	for _, childProps := range children {
		cv, err := c.assembleConversationTx(ctx, tx, childProps)
		if err != nil {
			return nil, err
		}
		s.Conversations = append(s.Conversations, cv)
	}
	return s, nil
}

func (c *Neo4jClient) assembleConversationTx(ctx context.Context, tx neo4j.ManagedTransaction, props map[string]any) (*types.Conversation, error) {
	cv := conversationFromProps(props)
	children, err := fetchChildrenTx(ctx, tx, labelConversation, relHasScene, labelScene, cv.UID)
	if err != nil {
		return nil, err
	}
	for _, childProps := range children {
		sc, err := c.assembleSceneTx(ctx, tx, childProps)
		if err != nil {
			return nil, err
		}
		cv.Scenes = append(cv.Scenes, sc)
	}
	return cv, nil
}

func (c *Neo4jClient) assembleSceneTx(ctx context.Context, tx neo4j.ManagedTransaction, props map[string]any) (*types.Scene, error) {
	sc := sceneFromProps(props)
	children, err := fetchChildrenTx(ctx, tx, labelScene, relHasTurn, labelTurn, sc.UID)
	if err != nil {
		return nil, err
	}
	for _, childProps := range children {
		t, err := c.assembleTurnTx(ctx, tx, childProps)
		if err != nil {
			return nil, err
		}
		sc.Turns = append(sc.Turns, t)
	}
	return sc, nil
}

func (c *Neo4jClient) assembleTurnTx(ctx context.Context, tx neo4j.ManagedTransaction, props map[string]any) (*types.Turn, error) {
	t := turnFromProps(props)
	requests, err := fetchChildrenTx(ctx, tx, labelTurn, relHasRequestIntent, labelIntent, t.UID)
	if err != nil {
		return nil, err
	}
	for _, childProps := range requests {
		i, err := c.assembleIntentTx(ctx, tx, childProps)
		if err != nil {
			return nil, err
		}
		t.RequestIntents = append(t.RequestIntents, i)
	}
	responses, err := fetchChildrenTx(ctx, tx, labelTurn, relHasResponseIntent, labelIntent, t.UID)
	if err != nil {
		return nil, err
	}
	for _, childProps := range responses {
		i, err := c.assembleIntentTx(ctx, tx, childProps)
		if err != nil {
			return nil, err
		}
		t.ResponseIntents = append(t.ResponseIntents, i)
	}
	return t, nil
}

func (c *Neo4jClient) assembleIntentTx(ctx context.Context, tx neo4j.ManagedTransaction, props map[string]any) (*types.Intent, error) {
	i := intentFromProps(props)
	children, err := fetchChildrenTx(ctx, tx, labelIntent, relHasTemplate, labelTemplate, i.UID)
	if err != nil {
		return nil, err
	}
	for _, childProps := range children {
		i.MessageTemplates = append(i.MessageTemplates, templateFromProps(childProps))
	}
	return i, nil
}

func fetchNodeTx(ctx context.Context, tx neo4j.ManagedTransaction, label string, uid uuid.UUID) (map[string]any, error) {
	res, err := tx.Run(ctx, fmt.Sprintf(`MATCH (n:%s {uid: $uid}) RETURN n`, label),
		map[string]any{"uid": uid.String()})
	if err != nil {
		return nil, err
	}
	records, err := res.Collect(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	props, _ := nodeProps(records[0], "n")
	return props, nil
}

func fetchChildrenTx(ctx context.Context, tx neo4j.ManagedTransaction, parentLabel, rel, childLabel string, parentUID uuid.UUID) ([]map[string]any, error) {
	res, err := tx.Run(ctx, fmt.Sprintf(`
MATCH (p:%s {uid: $uid})-[r:%s]->(c:%s)
RETURN c
ORDER BY r.ord
`, parentLabel, rel, childLabel), map[string]any{"uid": parentUID.String()})
	if err != nil {
		return nil, err
	}
	records, err := res.Collect(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		if props, ok := nodeProps(rec, "c"); ok {
			out = append(out, props)
		}
	}
	return out, nil
}
