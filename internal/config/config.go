package config

import "time"

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Provider   ProviderConfig   `yaml:"provider"`
	Generation GenerationConfig `yaml:"generation"`
	Redis      RedisConfig      `yaml:"redis"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Sanitizer  SanitizerConfig  `yaml:"sanitizer"`
	Auth       AuthConfig       `yaml:"auth"`
}

type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

type ProviderConfig struct {
	// Type selects the completion backend: "openai" or "mock".
	Type           string        `yaml:"type"`
	BaseURL        string        `yaml:"base_url"`
	APIKey         string        `yaml:"api_key"`
	RetryAttempts  int           `yaml:"retry_attempts"`
	RetryBaseDelay time.Duration `yaml:"retry_base_delay"`
	Timeout        time.Duration `yaml:"timeout"`
}

type GenerationConfig struct {
	Model string `yaml:"model"`
	// DefaultTemperature of 0 means unset and falls back to 0.7. A
	// deterministic default is not configurable; callers wanting
	// temperature 0 request it per call.
	DefaultTemperature float64 `yaml:"default_temperature"`
	DefaultMaxTokens   int     `yaml:"default_max_tokens"`
	CacheEnabled       bool    `yaml:"cache_enabled"`
	CacheCapacity      int     `yaml:"cache_capacity"`
	HistoryCapacity    int     `yaml:"history_capacity"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	// DailyBudgetUSD caps per-caller daily spend; zero disables the cap.
	DailyBudgetUSD float64 `yaml:"daily_budget_usd"`
}

type TelemetryConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	MetricsPort int    `yaml:"metrics_port"`
}

type SanitizerConfig struct {
	Enabled bool `yaml:"enabled"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
	// APIKeys holds the SHA-256 hex digests of accepted keys, never the
	// keys themselves.
	APIKeys []string `yaml:"api_keys"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     120 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 30 * time.Second,
		},
		Provider: ProviderConfig{
			Type:           "openai",
			BaseURL:        "https://api.openai.com/v1",
			RetryAttempts:  3,
			RetryBaseDelay: 1 * time.Second,
			Timeout:        30 * time.Second,
		},
		Generation: GenerationConfig{
			Model:              "gpt-3.5-turbo",
			DefaultTemperature: 0.7,
			DefaultMaxTokens:   500,
			CacheEnabled:       true,
			CacheCapacity:      100,
			HistoryCapacity:    1000,
		},
		Redis: RedisConfig{
			Address:  "localhost:6379",
			DB:       0,
			PoolSize: 50,
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerMinute: 60,
		},
		Telemetry: TelemetryConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			MetricsPort: 9090,
		},
		Sanitizer: SanitizerConfig{Enabled: true},
		Auth:      AuthConfig{Enabled: false},
	}
}
