// Package config loads analysis engine configuration from file, environment,
// and defaults using viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AnalysisConfig controls defaults for the scoring, clustering, and
// completeness stages of the pipeline.
type AnalysisConfig struct {
	DefaultAlgorithm      string  `mapstructure:"default_algorithm"`
	DefaultWeightProfile  string  `mapstructure:"default_weight_profile"`
	MinCompletenessRatio  float64 `mapstructure:"min_completeness_ratio"`
	MinConfidenceForBreak float64 `mapstructure:"min_confidence_for_breaker"`
	ResultVersion         string  `mapstructure:"result_version"`
}

// DatabaseConfig configures the postgres connection pool backing
// AnalysisRepository.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLife     time.Duration `mapstructure:"max_conn_life"`
	MaxConnIdle     time.Duration `mapstructure:"max_conn_idle"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// CacheConfig configures the redis-backed result cache.
type CacheConfig struct {
	RedisURL    string        `mapstructure:"redis_url"`
	DefaultTTL  time.Duration `mapstructure:"default_ttl"`
	MaxRetries  int           `mapstructure:"max_retries"`
	PoolSize    int           `mapstructure:"pool_size"`
	PoolTimeout time.Duration `mapstructure:"pool_timeout"`
}

// LLMConfig holds the Gemini collaborator and circuit-breaker settings.
// llm.NewResilientCollaborator does not read the Breaker* fields; its
// breaker settings are fixed in code.
type LLMConfig struct {
	APIKey              string        `mapstructure:"api_key"`
	Model               string        `mapstructure:"model"`
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	RateLimit           int           `mapstructure:"rate_limit"`
	MaxTokens           int           `mapstructure:"max_tokens"`
	Temperature         float64       `mapstructure:"temperature"`
	BreakerMaxRequests  uint32        `mapstructure:"breaker_max_requests"`
	BreakerInterval     time.Duration `mapstructure:"breaker_interval"`
	BreakerTimeout      time.Duration `mapstructure:"breaker_timeout"`
	BreakerFailureRatio float64       `mapstructure:"breaker_failure_ratio"`
}

// LoggingConfig controls the shared logrus logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Manager loads and validates Config using viper.
type Manager struct {
	config *Config
}

// NewManager loads configuration from ./config.yaml (or /etc/biomarker-analysis/),
// environment variables prefixed BIOMARKER_, and built-in defaults.
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("config: loading configuration: %w", err)
	}
	return m, nil
}

func (m *Manager) loadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/biomarker-analysis/")

	viper.SetEnvPrefix("BIOMARKER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	m.setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) setDefaults() {
	viper.SetDefault("analysis.default_algorithm", "rule_based")
	viper.SetDefault("analysis.default_weight_profile", "comprehensive_health")
	viper.SetDefault("analysis.min_completeness_ratio", 0.6)
	viper.SetDefault("analysis.min_confidence_for_breaker", 0.5)
	viper.SetDefault("analysis.result_version", "v1")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.database", "biomarker_analysis")
	viper.SetDefault("database.username", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_conns", 10)
	viper.SetDefault("database.min_conns", 2)
	viper.SetDefault("database.max_conn_life", "1h")
	viper.SetDefault("database.max_conn_idle", "30m")
	viper.SetDefault("database.migrations_path", "internal/repository/migrations")

	viper.SetDefault("cache.redis_url", "redis://localhost:6379")
	viper.SetDefault("cache.default_ttl", "15m")
	viper.SetDefault("cache.max_retries", 3)
	viper.SetDefault("cache.pool_size", 10)
	viper.SetDefault("cache.pool_timeout", "4s")

	viper.SetDefault("llm.model", "gemini-1.5-pro")
	viper.SetDefault("llm.base_url", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("llm.timeout", "30s")
	viper.SetDefault("llm.rate_limit", 2)
	viper.SetDefault("llm.max_tokens", 2000)
	viper.SetDefault("llm.temperature", 0.3)
	viper.SetDefault("llm.breaker_max_requests", 3)
	viper.SetDefault("llm.breaker_interval", "30s")
	viper.SetDefault("llm.breaker_timeout", "60s")
	viper.SetDefault("llm.breaker_failure_ratio", 0.6)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
}

// GetConfig returns the complete configuration.
func (m *Manager) GetConfig() *Config {
	return m.config
}

// Reload re-reads configuration from file, environment, and defaults.
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate checks required configuration fields and valid ranges.
func (m *Manager) Validate() error {
	cfg := m.config

	if cfg.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if cfg.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if cfg.Cache.RedisURL == "" {
		return fmt.Errorf("redis url is required")
	}
	if cfg.Analysis.MinCompletenessRatio < 0 || cfg.Analysis.MinCompletenessRatio > 1 {
		return fmt.Errorf("invalid min completeness ratio: %f", cfg.Analysis.MinCompletenessRatio)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", cfg.Logging.Level)
	}

	return nil
}

// DatabaseURL formats a postgres connection string from DatabaseConfig.
func (m *Manager) DatabaseURL() string {
	db := m.config.Database
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		db.Username, db.Password, db.Host, db.Port, db.Database, db.SSLMode)
}
