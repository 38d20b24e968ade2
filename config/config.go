package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Cache backends understood by the server.
const (
	CacheBackendRedis  = "redis"
	CacheBackendBolt   = "bolt"
	CacheBackendMemory = "memory"
)

// Config holds all configuration for the application. Every field has an
// environment variable and a sane development default; an optional YAML
// file named by COOKBOOK_CONFIG overrides whatever it sets.
type Config struct {
	// Server configuration
	ServerHost string `yaml:"server_host"`
	ServerPort string `yaml:"server_port"`

	// Database configuration
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
	DBSSLMode  string `yaml:"db_ssl_mode"`

	// Redis configuration, used when the cache backend is "redis".
	// RedisURL, when set, wins over the host/port fields.
	RedisHost     string `yaml:"redis_host"`
	RedisPort     string `yaml:"redis_port"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisURL      string `yaml:"redis_url"`

	// Cache configuration
	CacheBackend    string `yaml:"cache_backend"`
	CachePath       string `yaml:"cache_path"`
	CacheTTLSeconds int    `yaml:"cache_ttl"`
	CacheEnabled    bool   `yaml:"cache_enabled"`
}

// Load builds a Config from environment variables, applies the optional
// YAML overlay and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		ServerHost:    getEnv("SERVER_HOST", "localhost"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "cookbook"),
		DBSSLMode:     getEnv("DB_SSL_MODE", "disable"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisURL:      getEnv("REDIS_URL", ""),
		CacheBackend:  getEnv("CACHE_BACKEND", CacheBackendRedis),
		CachePath:     getEnv("CACHE_PATH", "cookbook.cache"),
	}

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.CacheTTLSeconds, err = getEnvInt("CACHE_TTL", 300); err != nil {
		return nil, err
	}
	if cfg.CacheEnabled, err = getEnvBool("CACHE_ENABLED", true); err != nil {
		return nil, err
	}

	if path := os.Getenv("COOKBOOK_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// Unmarshal onto the env-populated struct: keys absent from the
		// file keep their environment values.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the parts of the configuration that would otherwise
// fail in confusing ways at runtime.
func (c *Config) Validate() error {
	switch c.CacheBackend {
	case CacheBackendRedis, CacheBackendBolt, CacheBackendMemory:
	default:
		return fmt.Errorf("unsupported cache backend %q", c.CacheBackend)
	}
	if c.CacheBackend == CacheBackendBolt && c.CachePath == "" {
		return errors.New("cache path must be set for the bolt backend")
	}
	if c.CacheTTLSeconds <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %d", c.CacheTTLSeconds)
	}
	if c.DBName == "" {
		return errors.New("database name must not be empty")
	}
	if c.ServerPort == "" {
		return errors.New("server port must not be empty")
	}
	return nil
}

// CacheTTL returns the configured cache lifetime as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// ServerAddr returns the host:port the HTTP server binds to.
func (c *Config) ServerAddr() string {
	return net.JoinHostPort(c.ServerHost, c.ServerPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}
