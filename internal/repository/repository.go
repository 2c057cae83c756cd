package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/anu-bioinfo/pathway-connectivity/internal/domain"
	"github.com/anu-bioinfo/pathway-connectivity/internal/graph"
	"github.com/anu-bioinfo/pathway-connectivity/internal/report"
)

// DefaultBatchSize bounds the number of rows sent in one UNWIND statement.
const DefaultBatchSize = 500

// ScoreRepository publishes scored interactions to a graph database as
// FUNCTIONAL_LINK relationships between Molecule nodes, one channel per
// interaction source.
type ScoreRepository struct {
	client    graph.Client
	runID     string
	batchSize int
}

// Option customises a ScoreRepository.
type Option func(*ScoreRepository)

// WithBatchSize overrides DefaultBatchSize. Non-positive values are ignored.
func WithBatchSize(n int) Option {
	return func(r *ScoreRepository) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// New instantiates a ScoreRepository backed by the supplied graph client.
// runID is stamped on every relationship written.
func New(client graph.Client, runID string, opts ...Option) *ScoreRepository {
	r := &ScoreRepository{client: client, runID: runID, batchSize: DefaultBatchSize}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EnsureSchema creates the uniqueness constraint on molecule ids.
func (r *ScoreRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.client.ExecuteWrite(ctx, ensureSchemaCypher, nil); err != nil {
		return fmt.Errorf("ensure molecule constraint: %w", err)
	}
	return nil
}

// PublishScores upserts rows under the given channel. Rerunning a channel
// overwrites the properties of existing links.
func (r *ScoreRepository) PublishScores(ctx context.Context, channel string, rows []domain.ScoredInteraction) error {
	if channel == "" {
		return errors.New("channel is required")
	}

	for start := 0; start < len(rows); start += r.batchSize {
		end := min(start+r.batchSize, len(rows))
		params := map[string]any{
			"channel": channel,
			"runId":   r.runID,
			"rows":    linkParams(rows[start:end]),
		}
		if _, err := r.client.ExecuteWrite(ctx, publishScoresCypher, params); err != nil {
			return fmt.Errorf("publish %s rows %d-%d: %w", channel, start, end, err)
		}
	}
	return nil
}

// CountLinks returns the number of links stored for channel.
func (r *ScoreRepository) CountLinks(ctx context.Context, channel string) (int64, error) {
	res, err := r.client.ExecuteRead(ctx, countLinksCypher, map[string]any{"channel": channel})
	if err != nil {
		return 0, fmt.Errorf("count %s links: %w", channel, err)
	}
	if len(res.Records) == 0 {
		return 0, nil
	}
	return toInt64(res.Records[0]["links"]), nil
}

func linkParams(rows []domain.ScoredInteraction) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, map[string]any{
			"source":      row.Node1,
			"target":      row.Node2,
			"score":       row.Weight,
			"anyPathway":  row.AnyPathway,
			"samePathway": row.SamePathway,
			"bipartite":   row.Bipartite,
			"bRelaxDist":  report.Distance(row.Distance),
		})
	}
	return out
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

const ensureSchemaCypher = `CREATE CONSTRAINT molecule_id IF NOT EXISTS FOR (m:Molecule) REQUIRE m.id IS UNIQUE`

const publishScoresCypher = `
UNWIND $rows AS row
MERGE (a:Molecule {id: row.source})
MERGE (b:Molecule {id: row.target})
MERGE (a)-[l:FUNCTIONAL_LINK {channel: $channel}]->(b)
SET l.score = row.score,
	l.anyPathway = row.anyPathway,
	l.samePathway = row.samePathway,
	l.bipartite = row.bipartite,
	l.bRelaxDist = row.bRelaxDist,
	l.runId = $runId
`

const countLinksCypher = `
MATCH (:Molecule)-[l:FUNCTIONAL_LINK {channel: $channel}]->(:Molecule)
RETURN count(l) AS links
`
