package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/openconvo/convograph-backend/internal/components"
	"github.com/openconvo/convograph-backend/internal/data/graph"
	types "github.com/openconvo/convograph-backend/internal/domain"
	"github.com/openconvo/convograph-backend/internal/platform/logger"
)

const autoTemplateName = "auto generated"

// IntentService stores and maintains intents under turns, applying the
// message-template auto-creation policy on creation.
type IntentService struct {
	client    graph.Client
	relations *TurnIntentService
	registry  *components.Registry
	log       *logger.Logger
}

func NewIntentService(client graph.Client, relations *TurnIntentService, registry *components.Registry, log *logger.Logger) *IntentService {
	return &IntentService{
		client:    client,
		relations: relations,
		registry:  registry,
		log:       log.With("service", "Intent"),
	}
}

// Create persists the intent under the turn on the side named by direction.
// When the intent names an interpreter and carries a configuration, the
// configuration is validated against the interpreter's schema first. If the
// stored intent speaks for the app, exactly one message template named
// "auto generated" is synthesized from its sample utterance. Updates never
// re-trigger the template policy.
func (s *IntentService) Create(ctx context.Context, turnUID uuid.UUID, intent *types.Intent, direction types.Direction, interpreterConfig map[string]any) (*types.Intent, error) {
	const op = "intent.Create"
	if _, err := types.NewIntent(intent.OdID, intent.Name, intent.Speaker); err != nil {
		return nil, graph.NewError(graph.CodeValidation, op, err.Error(), err)
	}
	if intent.Interpreter != "" && interpreterConfig != nil {
		if fieldErrs := s.registry.Validate(intent.Interpreter, interpreterConfig); !fieldErrs.Empty() {
			return nil, fieldErrs.AsValidation(op)
		}
	}

	stored, err := s.relations.Store(ctx, turnUID, intent, direction)
	if err != nil {
		return nil, err
	}
	if stored.Speaker != types.SpeakerApp {
		return stored, nil
	}

	template := types.NewMessageTemplate(stored.OdID+"_auto", autoTemplateName,
		types.TextMarkup(stored.SampleUtterance))
	if _, err := s.client.AddMessageTemplate(ctx, stored.UID, template); err != nil {
		// The intent is already committed; report the template miss as a
		// partial write so callers can retry against the stored uid.
		return nil, graph.PartialWrite(op, stored.UID, err)
	}
	s.log.Info("auto-created message template for app intent",
		"intent_uid", stored.UID, "od_id", stored.OdID)
	return s.client.GetIntent(ctx, stored.UID)
}

func (s *IntentService) Get(ctx context.Context, uid uuid.UUID) (*types.Intent, error) {
	return s.client.GetIntent(ctx, uid)
}

// ListForTurn returns the intents on one side of a turn, or both sides
// (request side first) when direction is empty.
func (s *IntentService) ListForTurn(ctx context.Context, turnUID uuid.UUID, direction types.Direction) ([]*types.Intent, error) {
	if direction != "" {
		return s.client.GetTurnIntents(ctx, turnUID, direction)
	}
	var requests, responses []*types.Intent
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		requests, err = s.client.GetTurnIntents(gctx, turnUID, types.DirectionRequest)
		return err
	})
	g.Go(func() error {
		var err error
		responses, err = s.client.GetTurnIntents(gctx, turnUID, types.DirectionResponse)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return append(requests, responses...), nil
}

// Templates lists the message templates attached to an intent.
func (s *IntentService) Templates(ctx context.Context, intentUID uuid.UUID) ([]*types.MessageTemplate, error) {
	return s.client.GetIntentMessageTemplates(ctx, intentUID)
}

// Update replaces the intent's own fields. The turn relation is untouched
// and no template is ever generated here.
func (s *IntentService) Update(ctx context.Context, intent *types.Intent) (*types.Intent, error) {
	const op = "intent.Update"
	if _, err := types.NewIntent(intent.OdID, intent.Name, intent.Speaker); err != nil {
		return nil, graph.NewError(graph.CodeValidation, op, err.Error(), err)
	}
	return s.client.UpdateIntent(ctx, intent)
}

// UpdateRelation re-classifies which side of the turn the intent sits on.
func (s *IntentService) UpdateRelation(ctx context.Context, turnUID, intentUID uuid.UUID, direction types.Direction) (types.Direction, *types.Turn, error) {
	return s.relations.Update(ctx, turnUID, intentUID, direction)
}

// Detach removes only the turn-intent association.
func (s *IntentService) Detach(ctx context.Context, turnUID, intentUID uuid.UUID) error {
	return s.relations.Detach(ctx, turnUID, intentUID)
}

// Delete fully removes an intent: detach the relation first, then delete
// the entity. A failure between the two steps is reported as a partial
// write; retrying is safe because a missing relation is tolerated.
func (s *IntentService) Delete(ctx context.Context, intentUID uuid.UUID) error {
	const op = "intent.Delete"
	intent, err := s.client.GetIntent(ctx, intentUID)
	if err != nil {
		return err
	}
	if intent.TurnUID != uuid.Nil {
		if err := s.relations.Detach(ctx, intent.TurnUID, intentUID); err != nil && !graph.IsCode(err, graph.CodeNotFound) {
			return err
		}
	}
	if err := s.client.DeleteIntent(ctx, intentUID); err != nil {
		if intent.TurnUID != uuid.Nil {
			return graph.PartialWrite(op, intentUID, err)
		}
		return err
	}
	s.log.Info("deleted intent", "intent_uid", intentUID)
	return nil
}
