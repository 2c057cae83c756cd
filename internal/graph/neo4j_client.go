package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// NewNeo4jClient connects to a Bolt endpoint and verifies connectivity.
func NewNeo4jClient(ctx context.Context, opts Options) (Client, error) {
	if opts.URI == "" {
		return nil, ErrMissingURI
	}

	auth := neo4j.NoAuth()
	if opts.Username != "" {
		auth = neo4j.BasicAuth(opts.Username, opts.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(opts.URI, auth, func(c *neo4j.Config) {
		if opts.MaxConnections > 0 {
			c.MaxConnectionPoolSize = opts.MaxConnections
		}
	})
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify graph connectivity: %w", err)
	}

	return &neo4jClient{
		driver:   driver,
		database: opts.Database,
	}, nil
}

type neo4jClient struct {
	driver   neo4j.DriverWithContext
	database string
}

func (c *neo4jClient) ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error) {
	return c.execute(ctx, cypher, params, neo4j.ExecuteQueryWithWritersRouting())
}

func (c *neo4jClient) ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error) {
	return c.execute(ctx, cypher, params, neo4j.ExecuteQueryWithReadersRouting())
}

func (c *neo4jClient) execute(ctx context.Context, cypher string, params map[string]any, routing neo4j.ExecuteQueryConfigurationOption) (Result, error) {
	opts := []neo4j.ExecuteQueryConfigurationOption{routing}
	if c.database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(c.database))
	}

	res, err := neo4j.ExecuteQuery(ctx, c.driver, cypher, params, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return Result{}, err
	}

	records := make([]Record, 0, len(res.Records))
	for _, rec := range res.Records {
		record := make(Record, len(rec.Keys))
		for i, key := range rec.Keys {
			record[key] = rec.Values[i]
		}
		records = append(records, record)
	}

	out := Result{Records: records}
	if res.Summary != nil {
		counters := res.Summary.Counters()
		out.Stats = Stats{
			NodesCreated:         counters.NodesCreated(),
			RelationshipsCreated: counters.RelationshipsCreated(),
			PropertiesSet:        counters.PropertiesSet(),
		}
	}
	return out, nil
}

func (c *neo4jClient) VerifyConnectivity(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

func (c *neo4jClient) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}
