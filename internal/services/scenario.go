package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/openconvo/convograph-backend/internal/data/graph"
	types "github.com/openconvo/convograph-backend/internal/domain"
	"github.com/openconvo/convograph-backend/internal/platform/logger"
)

// ScenarioService creates and maintains scenarios. Creation always goes
// through the scaffold generator so every new scenario starts with the
// default conversations.
type ScenarioService struct {
	client   graph.Client
	scaffold *ScaffoldService
	log      *logger.Logger
}

func NewScenarioService(client graph.Client, scaffold *ScaffoldService, log *logger.Logger) *ScenarioService {
	return &ScenarioService{client: client, scaffold: scaffold, log: log.With("service", "Scenario")}
}

// Create persists a new scenario with its scaffolded default conversations.
// An unset interpreter falls back to the platform default.
func (s *ScenarioService) Create(ctx context.Context, scenario *types.Scenario, welcomeUtterance, noMatchUtterance string) (*types.Scenario, error) {
	if strings.TrimSpace(scenario.Interpreter) == "" {
		scenario.Interpreter = types.DefaultInterpreter
	}
	return s.scaffold.Generate(ctx, scenario, welcomeUtterance, noMatchUtterance)
}

func (s *ScenarioService) Get(ctx context.Context, uid uuid.UUID) (*types.Scenario, error) {
	return s.client.GetScenario(ctx, uid)
}

func (s *ScenarioService) List(ctx context.Context, page graph.Page) ([]*types.Scenario, error) {
	return s.client.ListScenarios(ctx, page)
}

func (s *ScenarioService) Update(ctx context.Context, scenario *types.Scenario) (*types.Scenario, error) {
	return s.client.UpdateScenario(ctx, scenario)
}

// Delete removes the scenario and, by store policy, its whole subtree.
func (s *ScenarioService) Delete(ctx context.Context, uid uuid.UUID) error {
	if err := s.client.DeleteScenario(ctx, uid); err != nil {
		return err
	}
	s.log.Info("deleted scenario", "scenario_uid", uid)
	return nil
}
