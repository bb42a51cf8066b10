package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Graph source kinds.
const (
	SourceFile   = "file"
	SourceEditor = "editor"
	SourceNeo4j  = "neo4j"
)

// Config captures the settings required to boot the twin service.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Simulation SimulationConfig `yaml:"simulation"`
	SLA        SLAConfig        `yaml:"sla"`
	Policy     PolicyConfig     `yaml:"policy"`
	Graph      GraphConfig      `yaml:"graph"`
	Cache      CacheConfig      `yaml:"cache"`
}

// ServerConfig controls the gRPC, HTTP and metrics listeners.
type ServerConfig struct {
	GRPCAddress     string        `yaml:"grpcAddress"`
	HTTPAddress     string        `yaml:"httpAddress"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
	CORSOrigins     []string      `yaml:"corsOrigins"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// SimulationConfig tunes the engine and its clock.
type SimulationConfig struct {
	TickInterval        time.Duration `yaml:"tickInterval"`
	Seed                int64         `yaml:"seed"`
	HistorySize         int           `yaml:"historySize"`
	EventLogSize        int           `yaml:"eventLogSize"`
	RecoveryThreshold   time.Duration `yaml:"recoveryThreshold"`
	RecoveryProbability float64       `yaml:"recoveryProbability"`
	DisableAutoRecovery bool          `yaml:"disableAutoRecovery"`
	MinutesPerHop       int           `yaml:"minutesPerHop"`
	AutoStart           bool          `yaml:"autoStart"`
}

// SLAConfig holds the targets applied to nodes without their own.
type SLAConfig struct {
	Availability float64 `yaml:"availability"`
	LatencyMs    float64 `yaml:"latencyMs"`
	ErrorRate    float64 `yaml:"errorRate"`
}

// PolicyConfig points at the edge/SLA policy pack.
type PolicyConfig struct {
	Path string `yaml:"path"`
}

// GraphConfig selects where the dependency graph comes from.
type GraphConfig struct {
	Source string       `yaml:"source"`
	Path   string       `yaml:"path"`
	Watch  bool         `yaml:"watch"`
	Editor EditorConfig `yaml:"editor"`
	Neo4j  Neo4jConfig  `yaml:"neo4j"`
}

// EditorConfig configures the architecture editor export endpoint.
type EditorConfig struct {
	BaseURL   string        `yaml:"baseURL"`
	GraphPath string        `yaml:"graphPath"`
	Project   string        `yaml:"project"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Neo4jConfig configures the graph database source.
type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// CacheConfig controls Redis-backed caching of graph exports.
type CacheConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Addr         string        `yaml:"addr"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	DialTimeout  time.Duration `yaml:"dialTimeout"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	MaxRetries   int           `yaml:"maxRetries"`
	GraphTTL     time.Duration `yaml:"graphTTL"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("MIRADOR_TWIN_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot boot with.
func (c *Config) Validate() error {
	switch c.Graph.Source {
	case SourceFile:
		if c.Graph.Path == "" {
			return errors.New("graph.path is required for the file source")
		}
	case SourceEditor:
		if c.Graph.Editor.BaseURL == "" {
			return errors.New("graph.editor.baseURL is required for the editor source")
		}
	case SourceNeo4j:
		if c.Graph.Neo4j.URI == "" {
			return errors.New("graph.neo4j.uri is required for the neo4j source")
		}
	default:
		return fmt.Errorf("unknown graph source %q", c.Graph.Source)
	}
	if p := c.Simulation.RecoveryProbability; p < 0 || p > 1 {
		return fmt.Errorf("simulation.recoveryProbability must be within [0,1], got %v", p)
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			GRPCAddress:     ":50061",
			HTTPAddress:     ":8090",
			MetricsAddress:  ":2113",
			GracefulTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Simulation: SimulationConfig{
			TickInterval:        time.Second,
			HistorySize:         100,
			EventLogSize:        1000,
			RecoveryThreshold:   30 * time.Second,
			RecoveryProbability: 0.7,
			MinutesPerHop:       5,
		},
		SLA:    SLAConfig{Availability: 99.9, LatencyMs: 200, ErrorRate: 1},
		Policy: PolicyConfig{Path: "configs/policy/default.yaml"},
		Graph: GraphConfig{
			Source: SourceFile,
			Path:   "configs/graphs/sample.yaml",
			Editor: EditorConfig{
				GraphPath: "/api/v1/architecture/graph",
				Timeout:   5 * time.Second,
			},
			Neo4j: Neo4jConfig{Database: "neo4j"},
		},
		Cache: CacheConfig{
			Enabled:      false,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
			MaxRetries:   2,
			GraphTTL:     time.Minute,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MIRADOR_TWIN_GRPC_ADDRESS"); v != "" {
		cfg.Server.GRPCAddress = v
	}
	if v := os.Getenv("MIRADOR_TWIN_HTTP_ADDRESS"); v != "" {
		cfg.Server.HTTPAddress = v
	}
	if v := os.Getenv("MIRADOR_TWIN_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("MIRADOR_TWIN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MIRADOR_TWIN_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("MIRADOR_TWIN_TICK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Simulation.TickInterval = d
		}
	}
	if v := os.Getenv("MIRADOR_TWIN_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Simulation.Seed = seed
		}
	}
	if v := os.Getenv("MIRADOR_TWIN_RECOVERY_PROBABILITY"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Simulation.RecoveryProbability = p
		}
	}
	if v := os.Getenv("MIRADOR_TWIN_AUTO_START"); v != "" {
		cfg.Simulation.AutoStart = parseBool(v)
	}
	if v := os.Getenv("MIRADOR_TWIN_POLICY_PATH"); v != "" {
		cfg.Policy.Path = v
	}
	if v := os.Getenv("MIRADOR_TWIN_GRAPH_SOURCE"); v != "" {
		cfg.Graph.Source = strings.ToLower(v)
	}
	if v := os.Getenv("MIRADOR_TWIN_GRAPH_PATH"); v != "" {
		cfg.Graph.Path = v
	}
	if v := os.Getenv("MIRADOR_TWIN_GRAPH_WATCH"); v != "" {
		cfg.Graph.Watch = parseBool(v)
	}
	if v := os.Getenv("MIRADOR_TWIN_EDITOR_BASE_URL"); v != "" {
		cfg.Graph.Editor.BaseURL = v
	}
	if v := os.Getenv("MIRADOR_TWIN_EDITOR_PROJECT"); v != "" {
		cfg.Graph.Editor.Project = v
	}
	if v := os.Getenv("MIRADOR_TWIN_NEO4J_URI"); v != "" {
		cfg.Graph.Neo4j.URI = v
	}
	if v := os.Getenv("MIRADOR_TWIN_NEO4J_USERNAME"); v != "" {
		cfg.Graph.Neo4j.Username = v
	}
	if v := os.Getenv("MIRADOR_TWIN_NEO4J_PASSWORD"); v != "" {
		cfg.Graph.Neo4j.Password = v
	}
	if v := os.Getenv("MIRADOR_TWIN_CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = parseBool(v)
	}
	if v := os.Getenv("MIRADOR_TWIN_CACHE_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("MIRADOR_TWIN_CACHE_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}
	if v := os.Getenv("MIRADOR_TWIN_CACHE_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Cache.DB = db
		}
	}
	if v := os.Getenv("MIRADOR_TWIN_CACHE_GRAPH_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.GraphTTL = d
		}
	}
}

func parseBool(v string) bool {
	return strings.EqualFold(v, "true") || v == "1"
}
