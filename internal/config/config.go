// Package config loads application configuration from a .env file (when
// present) and the environment.
package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the settings the bot needs at startup.
type Config struct {
	// DiscordToken authenticates the gateway connection. Required.
	DiscordToken string

	// CommandPrefix starts every chat command. Defaults to "!".
	CommandPrefix string

	// DatabasePath is the SQLite file location. Empty means the default
	// under the user's home directory.
	DatabasePath string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// LogFormat is "console" for human-readable output or "json".
	LogFormat string
}

// Load reads .env (if any) and the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken:  os.Getenv("DISCORD_TOKEN"),
		CommandPrefix: getEnv("COMMAND_PREFIX", "!"),
		DatabasePath:  os.Getenv("DATABASE_PATH"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
	}

	if cfg.DiscordToken == "" {
		return nil, errors.New("DISCORD_TOKEN is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
