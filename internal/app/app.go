package app

import (
	"context"
	"fmt"
	"os"

	"github.com/openconvo/convograph-backend/internal/components"
	"github.com/openconvo/convograph-backend/internal/data/graph"
	"github.com/openconvo/convograph-backend/internal/http"
	"github.com/openconvo/convograph-backend/internal/platform/logger"
	"github.com/openconvo/convograph-backend/internal/platform/neo4jdb"
)

type App struct {
	Log      *logger.Logger
	Server   *http.Server
	Cfg      Config
	Client   graph.Client
	Registry *components.Registry
	Services Services

	neo *neo4jdb.Client
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	client, neo, err := wireGraphClient(ctx, cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	registry := components.NewRegistry(log)
	if cfg.ComponentSchemaFile != "" {
		if err := registry.LoadFile(cfg.ComponentSchemaFile); err != nil {
			log.Sync()
			return nil, err
		}
	}

	serviceset := wireServices(client, registry, log)
	handlerset := wireHandlers(log, serviceset, registry)
	server := wireServer(log, handlerset)

	return &App{
		Log:      log,
		Server:   server,
		Cfg:      cfg,
		Client:   client,
		Registry: registry,
		Services: serviceset,
		neo:      neo,
	}, nil
}

func wireGraphClient(ctx context.Context, cfg Config, log *logger.Logger) (graph.Client, *neo4jdb.Client, error) {
	if cfg.Store == "memory" {
		log.Info("Using in-memory graph store")
		return graph.NewMemoryClient(), nil, nil
	}

	neo, err := neo4jdb.NewFromEnv(ctx, log)
	if err != nil {
		return nil, nil, fmt.Errorf("init neo4j: %w", err)
	}
	if neo == nil {
		log.Warn("NEO4J_URI not set, falling back to in-memory graph store")
		return graph.NewMemoryClient(), nil, nil
	}

	client := graph.NewNeo4jClient(neo, log)
	if err := client.InitSchema(ctx); err != nil {
		neo.Close(ctx)
		return nil, nil, fmt.Errorf("init neo4j schema: %w", err)
	}
	return client, neo, nil
}

func (a *App) Run(addr string) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(addr)
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.neo != nil {
		if err := a.neo.Close(ctx); err != nil {
			a.Log.Warn("closing neo4j driver", "error", err)
		}
		a.neo = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
