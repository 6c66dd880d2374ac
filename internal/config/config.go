// Package config loads the per-environment YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Providers and backends.
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds the iajur configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
	Search     SearchConfig     `yaml:"search"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Memory     MemoryConfig     `yaml:"memory"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SearchConfig holds the vector backend and the aggregation budget.
type SearchConfig struct {
	Backend          string   `yaml:"backend"` // redis, postgres (default: redis)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	DSN              string   `yaml:"dsn"`
	Index            string   `yaml:"index"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	TopK             int      `yaml:"top_k"`
	MaxResults       int      `yaml:"max_results"`
	MinScore         float64  `yaml:"min_score"`
	PreviewChars     int      `yaml:"preview_chars"`
	Parallelism      int      `yaml:"parallelism"`
}

// EmbeddingConfig holds the query/document embedder settings.
type EmbeddingConfig struct {
	Provider            string        `yaml:"provider"` // gemini, openai
	Model               string        `yaml:"model"`
	Dimensions          int           `yaml:"dimensions"`
	APIKey              string        `yaml:"api_key"`
	BaseURL             string        `yaml:"base_url"`
	CacheTTL            time.Duration `yaml:"cache_ttl"` // 0 disables the cache
	QueryInstruction    string        `yaml:"query_instruction"`
	DocumentInstruction string        `yaml:"document_instruction"`
}

// GenerationConfig holds the answer generator settings.
type GenerationConfig struct {
	Provider    string        `yaml:"provider"` // gemini, openai
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float32       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// MemoryConfig holds conversational memory settings.
type MemoryConfig struct {
	Capacity       int           `yaml:"capacity"`
	Cooldown       time.Duration `yaml:"cooldown"`
	HistoryWindow  int           `yaml:"history_window"`
	FallbackWindow int           `yaml:"fallback_window"`
	AnswerPreview  int           `yaml:"answer_preview"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files (default ".env") without
// overriding variables already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	s := &c.Search
	if s.Backend == "" {
		s.Backend = BackendRedis
	}
	if s.Index == "" {
		s.Index = "legal_documents"
	}
	if s.ReadinessTimeout <= 0 {
		s.ReadinessTimeout = 10
	}
	if s.TopK <= 0 {
		s.TopK = 5
	}
	if s.MaxResults <= 0 {
		s.MaxResults = 15
	}
	if s.MinScore == 0 {
		s.MinScore = 0.3
	}
	if s.PreviewChars <= 0 {
		s.PreviewChars = 2000
	}
	if s.Parallelism <= 0 {
		s.Parallelism = 3
	}

	e := &c.Embedding
	if e.Provider == "" {
		e.Provider = ProviderGemini
	}
	if e.Model == "" {
		switch e.Provider {
		case ProviderOpenAI:
			e.Model = "text-embedding-3-small"
		default:
			e.Model = "text-embedding-004"
		}
	}
	if e.Dimensions <= 0 {
		e.Dimensions = 768
	}

	g := &c.Generation
	if g.Provider == "" {
		g.Provider = ProviderGemini
	}
	if g.Model == "" {
		switch g.Provider {
		case ProviderOpenAI:
			g.Model = "gpt-4o-mini"
		default:
			g.Model = "gemini-2.5-flash"
		}
	}
	// One key usually serves both calls of the same provider.
	if g.APIKey == "" && g.Provider == e.Provider {
		g.APIKey = e.APIKey
	}
	if g.BaseURL == "" && g.Provider == e.Provider {
		g.BaseURL = e.BaseURL
	}
	if g.Temperature == 0 {
		g.Temperature = 0.2
	}
	if g.MaxTokens <= 0 {
		g.MaxTokens = 8192
	}
	if g.Timeout <= 0 {
		g.Timeout = 90 * time.Second
	}

	m := &c.Memory
	if m.Capacity <= 0 {
		m.Capacity = 10
	}
	if m.Cooldown <= 0 {
		m.Cooldown = 2 * time.Second
	}
	if m.HistoryWindow <= 0 {
		m.HistoryWindow = 3
	}
	if m.FallbackWindow <= 0 {
		m.FallbackWindow = 2
	}
	if m.AnswerPreview <= 0 {
		m.AnswerPreview = 200
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Search.Backend {
	case BackendRedis:
		if len(c.Search.Addrs) == 0 {
			return errors.New("search.addrs is required for the redis backend")
		}
	case BackendPostgres:
		if c.Search.DSN == "" {
			return errors.New("search.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("search.backend must be %q or %q, got %q", BackendRedis, BackendPostgres, c.Search.Backend)
	}
	if c.Search.MinScore < 0 || c.Search.MinScore > 1 {
		return fmt.Errorf("search.min_score must be between 0 and 1, got %v", c.Search.MinScore)
	}

	if err := validateProvider("embedding", c.Embedding.Provider, c.Embedding.APIKey); err != nil {
		return err
	}
	if err := validateProvider("generation", c.Generation.Provider, c.Generation.APIKey); err != nil {
		return err
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return fmt.Errorf("generation.temperature must be between 0 and 2, got %v", c.Generation.Temperature)
	}
	return nil
}

func validateProvider(section, provider, apiKey string) error {
	switch provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("%s.provider must be %q or %q, got %q", section, ProviderGemini, ProviderOpenAI, provider)
	}
	if apiKey == "" {
		return fmt.Errorf("%s.api_key is required", section)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
