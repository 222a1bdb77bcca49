package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type ServerConfig struct {
	Addr string `toml:"addr"`
	// RateLimit is the sustained request rate per second; 0 disables limiting.
	RateLimit float64 `toml:"rate_limit"`
	RateBurst int     `toml:"rate_burst"`
}

type Neo4jConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

type StoreConfig struct {
	// Backend is one of memory, sqlite or neo4j.
	Backend    string      `toml:"backend"`
	SQLitePath string      `toml:"sqlite_path"`
	Neo4j      Neo4jConfig `toml:"neo4j"`
}

type LLMConfig struct {
	// Provider is one of openai, claude, gemini or ollama. Empty disables narratives.
	Provider string   `toml:"provider"`
	Model    string   `toml:"model"`
	APIKey   string   `toml:"api_key"`
	BaseURL  string   `toml:"base_url"`
	Timeout  Duration `toml:"timeout"`
}

type NarrativePrompts struct {
	Report      string `toml:"report"`
	ClusterName string `toml:"cluster_name"`
}

type AnalysisConfig struct {
	HubLimit          int      `toml:"hub_limit"`
	IntroductionLimit int      `toml:"introduction_limit"`
	RecomputeInterval Duration `toml:"recompute_interval"`
}

type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

type Config struct {
	Server    ServerConfig     `toml:"server"`
	Store     StoreConfig      `toml:"store"`
	LLM       LLMConfig        `toml:"llm"`
	Narrative NarrativePrompts `toml:"narrative"`
	Analysis  AnalysisConfig   `toml:"analysis"`
	Log       LogConfig        `toml:"log"`
}

// Duration reads TOML strings such as "30s" or "5m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

const defaultReportPrompt = `You are a relationship coach. Summarize the health of this person's professional network
in three or four sentences for them, mentioning the most urgent risk and the best introduction if any.
Respond with JSON: {"narrative": "..."}

Network report:
%s`

const defaultClusterNamePrompt = `Give a short name (two to four words) for a group of contacts with these traits.
Respond with JSON: {"name": "..."}

%s`

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:      ":8080",
			RateLimit: 20,
			RateBurst: 40,
		},
		Store: StoreConfig{
			Backend:    "memory",
			SQLitePath: "kinship.db",
			Neo4j: Neo4jConfig{
				URI:      "bolt://localhost:7687",
				Database: "neo4j",
			},
		},
		LLM: LLMConfig{
			Timeout: Duration{30 * time.Second},
		},
		Narrative: NarrativePrompts{
			Report:      defaultReportPrompt,
			ClusterName: defaultClusterNamePrompt,
		},
		Analysis: AnalysisConfig{
			HubLimit:          5,
			IntroductionLimit: 10,
			RecomputeInterval: Duration{2 * time.Second},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a TOML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from KINSHIP_* environment variables. Malformed
// numeric values are reported rather than ignored.
func (c *Config) ApplyEnv() error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *Duration) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
			}
		}
	}

	str("KINSHIP_ADDR", &c.Server.Addr)
	if v, ok := os.LookupEnv("KINSHIP_RATE_LIMIT"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("KINSHIP_RATE_LIMIT: %w", err))
		} else {
			c.Server.RateLimit = f
		}
	}
	num("KINSHIP_RATE_BURST", &c.Server.RateBurst)

	str("KINSHIP_STORE", &c.Store.Backend)
	str("KINSHIP_SQLITE_PATH", &c.Store.SQLitePath)
	str("KINSHIP_NEO4J_URI", &c.Store.Neo4j.URI)
	str("KINSHIP_NEO4J_USER", &c.Store.Neo4j.User)
	str("KINSHIP_NEO4J_PASSWORD", &c.Store.Neo4j.Password)
	str("KINSHIP_NEO4J_DATABASE", &c.Store.Neo4j.Database)

	str("KINSHIP_LLM_PROVIDER", &c.LLM.Provider)
	str("KINSHIP_LLM_MODEL", &c.LLM.Model)
	str("KINSHIP_LLM_API_KEY", &c.LLM.APIKey)
	str("KINSHIP_LLM_BASE_URL", &c.LLM.BaseURL)
	dur("KINSHIP_LLM_TIMEOUT", &c.LLM.Timeout)

	num("KINSHIP_HUB_LIMIT", &c.Analysis.HubLimit)
	num("KINSHIP_INTRODUCTION_LIMIT", &c.Analysis.IntroductionLimit)
	dur("KINSHIP_RECOMPUTE_INTERVAL", &c.Analysis.RecomputeInterval)

	str("KINSHIP_LOG_LEVEL", &c.Log.Level)
	if v, ok := os.LookupEnv("KINSHIP_LOG_DEVELOPMENT"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("KINSHIP_LOG_DEVELOPMENT: %w", err))
		} else {
			c.Log.Development = b
		}
	}

	return errors.Join(errs...)
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Store.Backend) {
	case "memory":
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("%w: store.sqlite_path is required for the sqlite backend", ErrInvalid)
		}
	case "neo4j", "memgraph":
		if c.Store.Neo4j.URI == "" {
			return fmt.Errorf("%w: store.neo4j.uri is required for the %s backend", ErrInvalid, c.Store.Backend)
		}
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalid, c.Store.Backend)
	}

	switch strings.ToLower(c.LLM.Provider) {
	case "", "openai", "claude", "gemini", "ollama":
	default:
		return fmt.Errorf("%w: unsupported llm provider %q", ErrInvalid, c.LLM.Provider)
	}

	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return fmt.Errorf("%w: server rate limit and burst must not be negative", ErrInvalid)
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst == 0 {
		return fmt.Errorf("%w: server.rate_burst must be positive when rate limiting is on", ErrInvalid)
	}
	if c.Analysis.RecomputeInterval.Duration < 0 {
		return fmt.Errorf("%w: analysis.recompute_interval must not be negative", ErrInvalid)
	}
	return nil
}
