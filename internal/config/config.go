package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all infrastructure configuration for the application.
// Values are read by viper from a config file or environment variables;
// per-run knobs like the query itself come from flags instead.
type Config struct {
	// RedisURL enables the result cache when set, e.g. redis://localhost:6379.
	RedisURL string        `mapstructure:"REDIS_URL"`
	CacheTTL time.Duration `mapstructure:"CACHE_TTL"`

	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	ProxyURL       string        `mapstructure:"PROXY_URL"`
	MinDelay       time.Duration `mapstructure:"MIN_DELAY"`
	MaxDelay       time.Duration `mapstructure:"MAX_DELAY"`
	MaxRetries     int           `mapstructure:"MAX_RETRIES"`

	// UserAgent overrides the rotating pool when set.
	UserAgent string `mapstructure:"USER_AGENT"`

	TelegramToken     string `mapstructure:"TELEGRAM_TOKEN"`
	TelegramChatID    string `mapstructure:"TELEGRAM_CHAT_ID"`
	DiscordWebhookURL string `mapstructure:"DISCORD_WEBHOOK_URL"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// LoadConfig reads configuration from file or environment variables.
// A missing config file is not an error; environment variables alone are
// enough to run.
func LoadConfig(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("CACHE_TTL", time.Hour)
	viper.SetDefault("REQUEST_TIMEOUT", 30*time.Second)
	viper.SetDefault("LOG_LEVEL", "info")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return config, nil
}
