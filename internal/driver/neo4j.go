package driver

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Dialect selects the index DDL; the query language is otherwise shared.
type Dialect int

const (
	DialectNeo4j Dialect = iota
	DialectMemgraph
)

type Neo4jDriver struct {
	Driver   neo4j.DriverWithContext
	Database string
	Dialect  Dialect
	logger   *zap.Logger
}

// NewNeo4jDriver connects and verifies connectivity. An empty database uses
// the server default, which is what Memgraph expects.
func NewNeo4jDriver(ctx context.Context, uri, username, password, database string, dialect Dialect, logger *zap.Logger) (*Neo4jDriver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("could not create graph driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("could not reach graph database at %s: %w", uri, err)
	}

	logger.Info("connected to graph database", zap.String("uri", uri), zap.String("database", database))
	return &Neo4jDriver{Driver: driver, Database: database, Dialect: dialect, logger: logger}, nil
}

func (d *Neo4jDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *Neo4jDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	var opts []neo4j.ExecuteQueryConfigurationOption
	if d.Database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(d.Database))
	}

	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}

// ExecuteWrite runs in a managed transaction, so transient failures are
// retried by the driver and the work must be safe to repeat.
func (d *Neo4jDriver) ExecuteWrite(ctx context.Context, statements []Statement) error {
	session := d.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: d.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		for i, st := range statements {
			result, err := tx.Run(ctx, st.Query, st.Params)
			if err != nil {
				return nil, fmt.Errorf("statement %d: %w", i, err)
			}
			if _, err := result.Consume(ctx); err != nil {
				return nil, fmt.Errorf("statement %d: %w", i, err)
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to execute write transaction: %w", err)
	}
	return nil
}

// BuildIndices creates the lookup indices the store relies on. Failures are
// logged and skipped since most mean the index already exists.
func (d *Neo4jDriver) BuildIndices(ctx context.Context) error {
	queries := neo4jIndexQueries
	if d.Dialect == DialectMemgraph {
		queries = memgraphIndexQueries
	}

	for _, q := range queries {
		if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
			d.logger.Warn("failed to create index", zap.String("query", q), zap.Error(err))
		}
	}
	return nil
}
