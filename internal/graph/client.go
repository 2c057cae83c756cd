package graph

import (
	"context"
	"errors"
)

// Client is the contract the score repository needs from a graph database.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result is a simplified representation of a query response.
type Result struct {
	Records []Record
	Stats   Stats
}

// Stats summarises the updates a write query performed.
type Stats struct {
	NodesCreated         int
	RelationshipsCreated int
	PropertiesSet        int
}

// Record groups key-value pairs returned from the graph engine.
type Record map[string]any

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
