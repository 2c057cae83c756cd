package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/anu-bioinfo/pathway-connectivity/internal/brelax"
	"github.com/anu-bioinfo/pathway-connectivity/internal/config"
	"github.com/anu-bioinfo/pathway-connectivity/internal/graph"
	"github.com/anu-bioinfo/pathway-connectivity/internal/hypergraph"
	"github.com/anu-bioinfo/pathway-connectivity/internal/idmap"
	"github.com/anu-bioinfo/pathway-connectivity/internal/logging"
	"github.com/anu-bioinfo/pathway-connectivity/internal/metrics"
	"github.com/anu-bioinfo/pathway-connectivity/internal/pathway"
	"github.com/anu-bioinfo/pathway-connectivity/internal/repository"
	"github.com/anu-bioinfo/pathway-connectivity/internal/server"
	"github.com/anu-bioinfo/pathway-connectivity/internal/service"
)

var errNoInputs = errors.New("no interaction files given")

// progressEvery is how many computed relaxations pass between progress logs.
const progressEvery = 1000

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		prefix    = flag.String("hypergraph", cfg.Run.HypergraphPrefix, "prefix of the hypergraph files")
		pathways  = flag.String("pathways", cfg.Run.PathwayDir, "directory of pathway member files")
		idmapPath = flag.String("idmap", cfg.Run.IdentifierMap, "identifier map file (primary external)")
		outDir    = flag.String("out", cfg.Run.OutputDir, "output directory")
		infix     = flag.String("infix", cfg.Run.Infix, "infix of the output file names")
		all       = flag.Bool("all", cfg.Run.PathwayMode == string(pathway.ModeAll), "use every pathway instead of the curated list")
		admit     = flag.String("admit", cfg.Run.Admission, "pairs relaxed: any (both in some pathway) or same (sharing one)")
		workers   = flag.Int("workers", cfg.Run.Workers, "concurrent relaxations")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <interaction-file>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg.Run.HypergraphPrefix = *prefix
	cfg.Run.PathwayDir = *pathways
	cfg.Run.IdentifierMap = *idmapPath
	cfg.Run.OutputDir = *outDir
	cfg.Run.Infix = *infix
	cfg.Run.Admission = *admit
	cfg.Run.Workers = max(1, *workers)
	if *all {
		cfg.Run.PathwayMode = string(pathway.ModeAll)
	} else {
		cfg.Run.PathwayMode = string(pathway.ModeCurated)
	}

	runID := uuid.NewString()
	logger := logging.New(cfg.Logging).With("component", "channels", "run_id", runID)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, cfg, runID, flag.Args()); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg config.Config, runID string, inputs []string) error {
	if len(inputs) == 0 {
		return errNoInputs
	}
	if cfg.Run.HypergraphPrefix == "" || cfg.Run.PathwayDir == "" || cfg.Run.IdentifierMap == "" {
		return errors.New("hypergraph prefix, pathway directory and identifier map are required")
	}
	mode, err := pathway.ParseMode(cfg.Run.PathwayMode)
	if err != nil {
		return err
	}
	admission, err := service.ParseAdmission(cfg.Run.Admission)
	if err != nil {
		return err
	}

	start := time.Now()
	h, err := hypergraph.Load(cfg.Run.HypergraphPrefix)
	if err != nil {
		return fmt.Errorf("load hypergraph: %w", err)
	}
	membership := hypergraph.ExpandMembership(h)
	index := hypergraph.BuildBVisitIndex(h)
	complexes, entitySets := h.Counts()
	logger.Info("hypergraph loaded",
		"nodes", h.NumNodes(),
		"complexes", complexes,
		"entity_sets", entitySets,
		"hyperedges", h.NumHyperedges(),
		"empty_tail_hyperedges", index.EmptyTail(),
		"empty_head_hyperedges", index.EmptyHead(),
		"duration", time.Since(start).String(),
	)

	mapper, err := idmap.Load(cfg.Run.IdentifierMap)
	if err != nil {
		return err
	}
	logger.Info("identifier map loaded", "mappings", mapper.Len(), "duplicates", mapper.Duplicates())

	catalog, err := pathway.LoadCatalog(cfg.Run.PathwayCatalog)
	if err != nil {
		return err
	}
	pathwaySet, err := pathway.NewFilter(mode, catalog, membership, logger).LoadDir(cfg.Run.PathwayDir)
	if err != nil {
		return err
	}

	m := metrics.New()
	engine := brelax.NewEngine(index, membership,
		brelax.WithRecorder(m),
		brelax.WithProgress(func(computed int) {
			if computed%progressEvery == 0 {
				logger.Info("relaxation progress", "computed", computed)
			}
		}),
	)
	scorer := service.NewPairScorer(pathwaySet, membership, engine, admission, cfg.Run.Workers)

	progress := server.NewProgress(len(inputs))
	opts := []service.PipelineOption{service.WithRunRecorder(service.Recorders(m, progress))}

	var graphClient graph.Client
	if cfg.Graph.Enabled() {
		graphClient, err = buildGraphClient(ctx, logger, cfg)
		if err != nil {
			return fmt.Errorf("create graph client: %w", err)
		}
		defer func() {
			if err := graphClient.Close(context.Background()); err != nil {
				logger.Warn("closing graph client failed", "error", err)
			}
		}()
		repo := repository.New(graphClient, runID)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		opts = append(opts, service.WithExporter(repo))
	}

	if cfg.HTTP.Enabled {
		srv := server.New(logger, cfg.HTTP, server.NewRouter(logger, server.RouterDependencies{
			Health:   server.GraphHealthService{Client: graphClient},
			Progress: progress,
			Metrics:  m.Handler(),
		}))
		go func() {
			if err := srv.Start(); err != nil {
				logger.Error("status server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("status server shutdown failed", "error", err)
			}
		}()
	}

	pipeline := service.NewPipeline(service.PipelineConfig{
		OutputDir: cfg.Run.OutputDir,
		Infix:     cfg.Run.Infix,
	}, mapper, h, scorer, logger, opts...)

	logger.Info("scoring interactions",
		"inputs", len(inputs),
		"pathways", pathwaySet.Len(),
		"mode", string(mode),
		"admission", admission.String(),
		"workers", cfg.Run.Workers,
	)
	outcomes, runErr := pipeline.RunAll(ctx, inputs)

	if cfg.Metrics.Textfile != "" {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("writing metrics textfile failed", "error", err, "path", cfg.Metrics.Textfile)
		}
	}
	if runErr != nil {
		return runErr
	}

	skipped := 0
	for _, o := range outcomes {
		if o.Skipped {
			skipped++
		}
	}
	logger.Info("run complete",
		"inputs", len(outcomes),
		"skipped", skipped,
		"relaxations", engine.Cache().Len(),
		"duration", time.Since(start).String(),
	)
	return nil
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	client, err := graph.NewNeo4jClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}
