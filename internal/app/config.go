package app

import (
	"github.com/openconvo/convograph-backend/internal/platform/logger"
	"github.com/openconvo/convograph-backend/internal/utils"
)

type Config struct {
	HTTPAddr string
	// Store selects the graph backend: "neo4j" or "memory". The in-memory
	// store is for local development and tests; it holds the same contract
	// as the Neo4j store.
	Store string
	// ComponentSchemaFile optionally points at a YAML file with extra
	// component configuration schemas to merge into the registry.
	ComponentSchemaFile string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		HTTPAddr:            utils.GetEnv("HTTP_ADDR", ":8080", log),
		Store:               utils.GetEnv("GRAPH_STORE", "neo4j", log),
		ComponentSchemaFile: utils.GetEnv("COMPONENT_SCHEMA_FILE", "", log),
	}
}
