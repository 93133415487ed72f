package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

type Config struct {
	DatabaseDriver string
	DatabaseURL    string
	RedisURL       string

	Port   string
	APIKey string

	LLMProvider     string
	LLMModel        string
	LLMMaxTokens    int
	LLMTimeout      time.Duration
	AnthropicAPIKey string
	OpenAIAPIKey    string

	AlphaVantageAPIKey string
	FinnhubAPIKey      string
	MassiveAPIKey      string
	FinvizEnabled      bool
	NewsFetchLimit     int
	NewsTopN           int
	NewsRequestsPerMin int
	HistoryLimit       int

	Watchlist     string
	WatchlistFile string

	Schedule string
	Timezone string

	TelegramBotToken string
	TelegramChatID   int64

	LogLevel       string
	TracingEnabled bool
}

func Load() *Config {
	return &Config{
		DatabaseDriver: getEnv("DATABASE_DRIVER", "postgres"),
		DatabaseURL:    getEnvAny([]string{"DATABASE_URL", "SUPABASE_DB_URL"}, ""),
		RedisURL:       getEnv("REDIS_URL", ""),

		Port:   getEnv("PORT", "8000"),
		APIKey: getEnv("API_KEY", ""),

		LLMProvider:     strings.ToLower(getEnv("LLM_PROVIDER", ProviderAnthropic)),
		LLMModel:        getEnv("LLM_MODEL", ""),
		LLMMaxTokens:    getEnvInt("LLM_MAX_TOKENS", 1500),
		LLMTimeout:      getEnvDuration("LLM_TIMEOUT", 30*time.Second),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),

		AlphaVantageAPIKey: getEnvAny([]string{"ALPHA_VANTAGE_KEY", "ALPHA_VANTAGE_API_KEY"}, ""),
		FinnhubAPIKey:      getEnv("FINNHUB_API_KEY", ""),
		MassiveAPIKey:      getEnv("MASSIVE_API_KEY", ""),
		FinvizEnabled:      getEnvBool("FINVIZ_ENABLED", false),
		NewsFetchLimit:     getEnvInt("NEWS_FETCH_LIMIT", 20),
		NewsTopN:           getEnvInt("NEWS_TOP_N", 10),
		NewsRequestsPerMin: getEnvInt("NEWS_REQUESTS_PER_MINUTE", 5),
		HistoryLimit:       getEnvInt("HISTORY_LIMIT", 5),

		Watchlist:     getEnv("WATCHLIST", ""),
		WatchlistFile: getEnv("WATCHLIST_FILE", ""),

		Schedule: getEnv("ANALYSIS_SCHEDULE", ""),
		Timezone: getEnv("ANALYSIS_TIMEZONE", "America/New_York"),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnvInt64("TELEGRAM_CHAT_ID", 0),

		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		TracingEnabled: getEnvBool("LOG_TRACING_ENABLED", false),
	}
}

// ValidateAnalyzer checks the settings the daily analysis cannot run without.
func (c *Config) ValidateAnalyzer() error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}

	switch c.LLMProvider {
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			errs = append(errs, errors.New("ANTHROPIC_API_KEY is required for the anthropic provider"))
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai provider"))
		}
	default:
		errs = append(errs, errors.New("LLM_PROVIDER must be anthropic or openai, got "+strconv.Quote(c.LLMProvider)))
	}

	if c.NewsTopN < 1 {
		errs = append(errs, errors.New("NEWS_TOP_N must be positive"))
	}

	return errors.Join(errs...)
}

func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

// SlogLevel maps LOG_LEVEL onto slog levels, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAny(keys []string, defaultValue string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		slog.Warn("invalid integer in environment, using default", "key", key, "value", value, "default", defaultValue)
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
		slog.Warn("invalid integer in environment, using default", "key", key, "value", value, "default", defaultValue)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		slog.Warn("invalid duration in environment, using default", "key", key, "value", value, "default", defaultValue)
	}
	return defaultValue
}
