package neo4jdb

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/openconvo/convograph-backend/internal/platform/logger"
	"github.com/openconvo/convograph-backend/internal/utils"
)

// Config carries the connection settings for the graph database.
type Config struct {
	URI      string
	User     string
	Password string
	Database string
	Timeout  time.Duration
	PoolSize int
}

// ConfigFromEnv reads the NEO4J_* variables. An empty URI means the database
// is not configured.
func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		URI:      utils.GetEnv("NEO4J_URI", "", log),
		User:     utils.GetEnv("NEO4J_USER", "neo4j", log),
		Password: utils.GetEnv("NEO4J_PASSWORD", "", log),
		Database: utils.GetEnv("NEO4J_DATABASE", "", log),
		Timeout:  utils.GetEnvAsDuration("NEO4J_TIMEOUT", 10*time.Second, log),
		PoolSize: utils.GetEnvAsInt("NEO4J_MAX_POOL_SIZE", 50, log),
	}
}

// Client holds the Neo4j driver plus the database name every session targets.
type Client struct {
	Driver   neo4j.DriverWithContext
	Database string
	Timeout  time.Duration
	log      *logger.Logger
}

// New opens a driver for cfg and verifies connectivity before returning.
func New(ctx context.Context, cfg Config, log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("neo4jdb: logger required")
	}
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4jdb: empty URI")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 50
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""), func(c *neo4j.Config) {
		c.MaxConnectionPoolSize = cfg.PoolSize
		c.SocketConnectTimeout = cfg.Timeout
	})
	if err != nil {
		return nil, fmt.Errorf("neo4jdb: init driver: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(pingCtx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4jdb: verify connectivity: %w", err)
	}

	return &Client{
		Driver:   driver,
		Database: cfg.Database,
		Timeout:  cfg.Timeout,
		log:      log.With("client", "Neo4jDB"),
	}, nil
}

// NewFromEnv builds a client from NEO4J_* environment variables. A missing
// NEO4J_URI returns (nil, nil) so callers can fall back to another store.
func NewFromEnv(ctx context.Context, log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("neo4jdb: logger required")
	}
	cfg := ConfigFromEnv(log)
	if cfg.URI == "" {
		return nil, nil
	}
	return New(ctx, cfg, log)
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := c.Driver.Close(ctx)
	c.Driver = nil
	return err
}
