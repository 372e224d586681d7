// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/catboard/cat/internal/game"
	"github.com/sirupsen/logrus"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port            string
	LogLevel        logrus.Level
	Game            game.Settings
	PollInterval    time.Duration
	ShutdownTimeout time.Duration

	// Redis publishing is disabled when RedisAddr is empty.
	RedisAddr          string
	RedisDB            int
	RedisChannelPrefix string
}

// Load reads the configuration:
//   - PORT (default "8080")
//   - LOG_LEVEL (default "info")
//   - TURN_DURATION, GAME_INACTIVITY_TIMEOUT, FINISHED_GAME_GRACE (Go durations)
//   - POLL_INTERVAL (default 1s), SHUTDOWN_TIMEOUT (default 5s)
//   - REDIS_ADDR (optional), REDIS_DB (default 0), REDIS_CHANNEL_PREFIX (default "cat:game:")
func Load() Config {
	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	return Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: level,
		Game: game.Settings{
			TurnDuration:      getEnvDuration("TURN_DURATION", game.DefaultTurnDuration),
			InactivityTimeout: getEnvDuration("GAME_INACTIVITY_TIMEOUT", game.DefaultGameInactivityTimeout),
			FinishedGrace:     getEnvDuration("FINISHED_GAME_GRACE", game.DefaultFinishedGameGrace),
		},
		PollInterval:       getEnvDuration("POLL_INTERVAL", time.Second),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		RedisChannelPrefix: getEnv("REDIS_CHANNEL_PREFIX", "cat:game:"),
	}
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// getEnvDuration parses a duration such as "20s"; a bare integer is taken as seconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
