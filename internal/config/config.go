package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL  string
	Environment string
	LogLevel    string
	HTTPTimeout time.Duration

	// Session cookie persistence between CLI runs
	SessionCache string // file, memory, redis or none
	SessionFile  string
	RedisURL     string
	SessionTTL   time.Duration

	Events EventConfig
}

const (
	SessionCacheFile   = "file"
	SessionCacheMemory = "memory"
	SessionCacheRedis  = "redis"
	SessionCacheNone   = "none"
)

// LoadConfig reads .env files (when present) and the environment. A missing .env is
// fine; a malformed one is an error.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	timeout, err := getDuration("HTTP_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}
	ttl, err := getDuration("SESSION_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	eventsEnabled, err := getBool("EVENTS_ENABLED", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIBaseURL:   strings.TrimRight(getEnv("KAMBAZ_API_BASE_URL", "http://localhost:3000"), "/"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "warn"),
		HTTPTimeout:  timeout,
		SessionCache: strings.ToLower(getEnv("SESSION_CACHE", SessionCacheFile)),
		SessionFile:  getEnv("SESSION_FILE", defaultSessionFile()),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),
		SessionTTL:   ttl,
		Events: EventConfig{
			Enabled:       eventsEnabled,
			Publisher:     strings.ToLower(getEnv("EVENTS_PUBLISHER", PublisherChannel)),
			KafkaBrokers:  getEnv("KAFKA_BROKERS", "localhost:9092"),
			ActivityTopic: getEnv("ACTIVITY_TOPIC", "kambaz.activity"),
		},
	}

	switch cfg.SessionCache {
	case SessionCacheFile, SessionCacheMemory, SessionCacheRedis, SessionCacheNone:
	default:
		return nil, fmt.Errorf("unknown SESSION_CACHE %q", cfg.SessionCache)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func defaultSessionFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".kambaz-session.json"
	}
	return dir + string(os.PathSeparator) + "kambaz" + string(os.PathSeparator) + "session.json"
}
