package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/anu-bioinfo/pathway-connectivity/internal/domain"
	"github.com/anu-bioinfo/pathway-connectivity/internal/interaction"
	"github.com/anu-bioinfo/pathway-connectivity/internal/metrics"
	"github.com/anu-bioinfo/pathway-connectivity/internal/report"
)

// ErrDuplicateInput is returned when two inputs share a file name and would
// therefore write the same reports.
var ErrDuplicateInput = errors.New("duplicate input name")

// Exporter publishes scored interactions to an external store.
type Exporter interface {
	PublishScores(ctx context.Context, source string, rows []domain.ScoredInteraction) error
}

// RunRecorder observes pipeline progress.
type RunRecorder interface {
	CountInteractions(outcome string, n int)
	InputDone(skipped bool)
}

// PipelineConfig locates inputs and outputs.
type PipelineConfig struct {
	OutputDir string
	Infix     string
	Columns   interaction.Columns
}

// Outcome describes one processed interaction file.
type Outcome struct {
	Input         string
	Name          string
	ScorePath     string
	MismappedPath string
	Skipped       bool
	Read          int
	Unmapped      int
	NotInGraph    int
	Mismapped     int
	Summary       Summary
	Duration      time.Duration
}

// Pipeline scores interaction files one at a time. Every input shares the
// scorer, and therefore the relaxation cache.
type Pipeline struct {
	cfg      PipelineConfig
	mapper   IdentifierMapper
	nodes    NodeUniverse
	scorer   *PairScorer
	exporter Exporter
	recorder RunRecorder
	logger   *slog.Logger
}

// PipelineOption customises a Pipeline.
type PipelineOption func(*Pipeline)

// WithExporter publishes every scored file through e.
func WithExporter(e Exporter) PipelineOption {
	return func(p *Pipeline) { p.exporter = e }
}

// WithRunRecorder attaches a metrics recorder.
func WithRunRecorder(r RunRecorder) PipelineOption {
	return func(p *Pipeline) { p.recorder = r }
}

// NewPipeline builds a pipeline. A nil logger discards output.
func NewPipeline(cfg PipelineConfig, mapper IdentifierMapper, nodes NodeUniverse, scorer *PairScorer, logger *slog.Logger, opts ...PipelineOption) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Columns == (interaction.Columns{}) {
		cfg.Columns = interaction.DefaultColumns
	}
	p := &Pipeline{
		cfg:    cfg,
		mapper: mapper,
		nodes:  nodes,
		scorer: scorer,
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OutputPaths returns the score and mismapped report paths for input.
func OutputPaths(dir, infix, input string) (score, mismapped string) {
	name := InputName(input)
	score = filepath.Join(dir, fmt.Sprintf("%s-%s-positive_sets.txt", infix, name))
	mismapped = filepath.Join(dir, fmt.Sprintf("%s-%s-mismapped.txt", infix, name))
	return score, mismapped
}

// InputName is the file name of input without directory and extension.
func InputName(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// RunAll processes inputs in order and stops at the first error. Inputs are
// rejected up front if two of them map to the same output name.
func (p *Pipeline) RunAll(ctx context.Context, inputs []string) ([]Outcome, error) {
	seen := make(map[string]string, len(inputs))
	for _, input := range inputs {
		name := InputName(input)
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: %s and %s both write %q", ErrDuplicateInput, prev, input, name)
		}
		seen[name] = input
	}

	outcomes := make([]Outcome, 0, len(inputs))
	for _, input := range inputs {
		out, err := p.Run(ctx, input)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// Run scores one interaction file. If its score report already exists the
// file is skipped and nothing is written.
func (p *Pipeline) Run(ctx context.Context, input string) (Outcome, error) {
	start := time.Now()
	out := Outcome{Input: input, Name: InputName(input)}
	out.ScorePath, out.MismappedPath = OutputPaths(p.cfg.OutputDir, p.cfg.Infix, input)
	logger := p.logger.With("input", out.Name)

	exists, err := report.Exists(out.ScorePath)
	if err != nil {
		return out, fmt.Errorf("check %s: %w", out.ScorePath, err)
	}
	if exists {
		logger.Info("output exists, skipping", "path", out.ScorePath)
		out.Skipped = true
		p.inputDone(true)
		return out, nil
	}

	raw, err := interaction.ReadFile(input, p.cfg.Columns)
	if err != nil {
		return out, err
	}
	out.Read = len(raw)
	logger.Info("interactions read", "count", len(raw))

	res := Resolve(raw, p.mapper, p.nodes)
	out.Unmapped, out.NotInGraph, out.Mismapped = res.Unmapped, res.NotInHypergraph, len(res.Mismapped)
	logger.Info("interactions resolved",
		"in_hypergraph", len(res.Interactions),
		"not_in_identifier_map", res.Unmapped,
		"not_in_hypergraph", res.NotInHypergraph,
	)
	p.count(metrics.OutcomeUnmapped, res.Unmapped)
	p.count(metrics.OutcomeNotInHypergraph, res.NotInHypergraph)

	if err := report.WriteFile(out.MismappedPath, func(w io.Writer) error {
		return report.WriteMismapped(w, res.Mismapped)
	}); err != nil {
		return out, err
	}
	logger.Info("wrote mismapped nodes", "count", len(res.Mismapped), "path", out.MismappedPath)

	rows, summary, err := p.scorer.Score(ctx, res.Interactions)
	if err != nil {
		return out, fmt.Errorf("score %s: %w", out.Name, err)
	}
	out.Summary = summary
	p.count(metrics.OutcomeScored, summary.Total)
	p.count(metrics.OutcomeAdmitted, summary.Admitted)
	p.count(metrics.OutcomeBipartite, summary.Bipartite)

	if p.exporter != nil {
		if err := p.exporter.PublishScores(ctx, out.Name, rows); err != nil {
			return out, fmt.Errorf("export %s: %w", out.Name, err)
		}
	}

	// The score report marks the input as done, so it is written last.
	if err := report.WriteFile(out.ScorePath, func(w io.Writer) error {
		return report.WriteScores(w, rows)
	}); err != nil {
		return out, err
	}

	out.Duration = time.Since(start)
	p.inputDone(false)
	logger.Info("wrote scores", "path", out.ScorePath, "summary", summary, "duration", out.Duration.String())
	return out, nil
}

func (p *Pipeline) count(outcome string, n int) {
	if p.recorder != nil && n > 0 {
		p.recorder.CountInteractions(outcome, n)
	}
}

func (p *Pipeline) inputDone(skipped bool) {
	if p.recorder != nil {
		p.recorder.InputDone(skipped)
	}
}

type multiRecorder []RunRecorder

// Recorders fans pipeline events out to every non-nil recorder.
func Recorders(rs ...RunRecorder) RunRecorder {
	var out multiRecorder
	for _, r := range rs {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (m multiRecorder) CountInteractions(outcome string, n int) {
	for _, r := range m {
		r.CountInteractions(outcome, n)
	}
}

func (m multiRecorder) InputDone(skipped bool) {
	for _, r := range m {
		r.InputDone(skipped)
	}
}
