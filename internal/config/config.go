package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates application configuration values.
type Config struct {
	Run     RunConfig
	HTTP    HTTPConfig
	Graph   GraphConfig
	Logging LoggingConfig
	Metrics MetricsConfig
}

// RunConfig locates the inputs and outputs of a scoring run.
type RunConfig struct {
	HypergraphPrefix string
	PathwayDir       string
	PathwayCatalog   string // empty selects the embedded catalog
	PathwayMode      string // curated|all
	IdentifierMap    string
	OutputDir        string
	Infix            string
	Admission        string // any|same
	Workers          int
}

// HTTPConfig governs the optional status server.
type HTTPConfig struct {
	Enabled         bool
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Addr is the listen address of the status server.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GraphConfig describes connectivity to the Neo4j instance scores are
// exported to. An empty URI disables the export.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// Enabled reports whether a graph export was configured.
func (c GraphConfig) Enabled() bool {
	return c.URI != ""
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

// MetricsConfig controls where run metrics are written.
type MetricsConfig struct {
	Textfile string
}

const (
	defaultOutputDir        = "outfiles"
	defaultPathwayMode      = "curated"
	defaultAdmission        = "any"
	defaultWorkers          = 1
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Run: RunConfig{
			HypergraphPrefix: os.Getenv("HYPERGRAPH_PREFIX"),
			PathwayDir:       os.Getenv("PATHWAY_DIR"),
			PathwayCatalog:   os.Getenv("PATHWAY_CATALOG"),
			PathwayMode:      strings.ToLower(valueOrDefault("PATHWAY_MODE", defaultPathwayMode)),
			IdentifierMap:    os.Getenv("IDMAP_PATH"),
			OutputDir:        valueOrDefault("OUTPUT_DIR", defaultOutputDir),
			Infix:            os.Getenv("RUN_INFIX"),
			Admission:        strings.ToLower(valueOrDefault("ADMISSION", defaultAdmission)),
			Workers:          parseIntWithDefault("RELAX_WORKERS", defaultWorkers),
		},
		HTTP: HTTPConfig{
			Enabled: parseBoolWithDefault("SERVER_ENABLED", false),
			Host:    valueOrDefault("SERVER_HOST", defaultHost),
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
		Graph: GraphConfig{
			URI:            os.Getenv("GRAPH_URI"),
			Database:       valueOrDefault("GRAPH_DATABASE", ""),
			Username:       os.Getenv("GRAPH_USERNAME"),
			Password:       os.Getenv("GRAPH_PASSWORD"),
			MaxConnections: parseIntWithDefault("GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions),
		},
		Metrics: MetricsConfig{
			Textfile: os.Getenv("METRICS_TEXTFILE"),
		},
	}

	switch cfg.Run.PathwayMode {
	case "curated", "all":
	default:
		return Config{}, fmt.Errorf("invalid PATHWAY_MODE %q: want curated or all", cfg.Run.PathwayMode)
	}
	switch cfg.Run.Admission {
	case "any", "same":
	default:
		return Config{}, fmt.Errorf("invalid ADMISSION %q: want any or same", cfg.Run.Admission)
	}

	if cfg.Run.Workers < 1 {
		return Config{}, fmt.Errorf("RELAX_WORKERS must be at least 1, got %d", cfg.Run.Workers)
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", defaultReadTimeout, &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", defaultWriteTimeout, &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", defaultIdleTimeout, &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout, &cfg.HTTP.ShutdownTimeout},
	}
	for _, d := range durations {
		v, err := parseDuration(d.key, d.fallback)
		if err != nil {
			return Config{}, err
		}
		*d.dst = v
	}

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
