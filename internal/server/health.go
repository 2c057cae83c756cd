package server

import (
	"context"

	"github.com/anu-bioinfo/pathway-connectivity/internal/graph"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// GraphHealthService verifies connectivity of the export graph. A nil
// client, i.e. no export configured, is always healthy.
type GraphHealthService struct {
	Client graph.Client
}

// Probe implements the HealthService interface.
func (s GraphHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.VerifyConnectivity(ctx)
}
