package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	OpenAI    OpenAIConfig    `yaml:"openai" mapstructure:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Analytics AnalyticsConfig `yaml:"analytics" mapstructure:"analytics"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// OpenAIConfig holds primary-provider API settings.
type OpenAIConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// AnthropicConfig holds secondary-provider API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// LLMConfig configures the gateway shared across providers.
type LLMConfig struct {
	MaxConcurrent      int     `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	RequestsPerSecond  float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	CallTimeoutSecs    int     `yaml:"call_timeout_secs" mapstructure:"call_timeout_secs"`
	MaxRetries         int     `yaml:"max_retries" mapstructure:"max_retries"`
	BreakerThreshold   int     `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	BreakerCooldownSec int     `yaml:"breaker_cooldown_secs" mapstructure:"breaker_cooldown_secs"`
	CacheEnabled       bool    `yaml:"cache_enabled" mapstructure:"cache_enabled"`
	CacheTTLHours      int     `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
	CacheMaxEntries    int     `yaml:"cache_max_entries" mapstructure:"cache_max_entries"`
}

// FetchConfig configures the link resolver.
type FetchConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxChars    int `yaml:"max_chars" mapstructure:"max_chars"`
}

// AnalyticsConfig configures the daily-counter recorder.
type AnalyticsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	DBPath  string `yaml:"db_path" mapstructure:"db_path"`
}

// PipelineConfig configures pipeline behavior.
type PipelineConfig struct {
	// ShortCircuitIntents end the pipeline right after classification.
	ShortCircuitIntents []string `yaml:"short_circuit_intents" mapstructure:"short_circuit_intents"`

	// ShortMessageChars is the length below which the draft stage asks
	// for a terse 2-3 line reply instead of a fuller one.
	ShortMessageChars int `yaml:"short_message_chars" mapstructure:"short_message_chars"`

	// MinDraftChars is the minimum accepted draft length; anything
	// shorter is replaced with the processing placeholder.
	MinDraftChars int `yaml:"min_draft_chars" mapstructure:"min_draft_chars"`

	// PrimaryLanguage is the language replies default to.
	PrimaryLanguage string `yaml:"primary_language" mapstructure:"primary_language"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MUDEER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("llm.max_concurrent", 3)
	v.SetDefault("llm.requests_per_second", 2.0)
	v.SetDefault("llm.call_timeout_secs", 60)
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.breaker_threshold", 5)
	v.SetDefault("llm.breaker_cooldown_secs", 60)
	v.SetDefault("llm.cache_enabled", true)
	v.SetDefault("llm.cache_ttl_hours", 24)
	v.SetDefault("llm.cache_max_entries", 1000)
	v.SetDefault("fetch.timeout_secs", 10)
	v.SetDefault("fetch.max_chars", 2000)
	v.SetDefault("analytics.enabled", true)
	v.SetDefault("analytics.db_path", "analytics.db")
	v.SetDefault("pipeline.short_circuit_intents", []string{"marketing", "automated", "spam"})
	v.SetDefault("pipeline.short_message_chars", 50)
	v.SetDefault("pipeline.min_draft_chars", 15)
	v.SetDefault("pipeline.primary_language", "ar")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
