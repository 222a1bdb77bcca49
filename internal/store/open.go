package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/kinship/internal/config"
	"github.com/agenthands/kinship/internal/driver"
	"go.uber.org/zap"
)

// Open builds the backend named by cfg.Backend. Graph backends get their
// indices created before Open returns.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch backend := strings.ToLower(cfg.Backend); backend {
	case "", "memory":
		logger.Info("using in-memory store")
		return NewMemoryStore(), nil

	case "sqlite":
		return NewSQLiteStore(cfg.SQLitePath, logger)

	case "neo4j", "memgraph":
		dialect, database := driver.DialectNeo4j, cfg.Neo4j.Database
		if backend == "memgraph" {
			dialect, database = driver.DialectMemgraph, ""
		}
		d, err := driver.NewNeo4jDriver(ctx, cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, database, dialect, logger)
		if err != nil {
			return nil, err
		}
		if err := d.BuildIndices(ctx); err != nil {
			_ = d.Close(ctx)
			return nil, err
		}
		return NewGraphStore(d, logger), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
