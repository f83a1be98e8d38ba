// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Lesson modes
const (
	// ModeVulnerable serves the lessons unpatched
	ModeVulnerable = "vulnerable"
	// ModeFixed applies the secure checks everywhere and hides the misconfigured endpoints
	ModeFixed = "fixed"

	// DefaultServerPort is the port served when SERVER_PORT is unset
	DefaultServerPort = 8080
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Lesson   LessonConfig
	Storage  StorageConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
	// LoginRateLimit is the number of login attempts allowed per IP and minute
	LoginRateLimit int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
	// File is an optional rotated log file written next to stdout
	File string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// RedisConfig holds the token store connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	// Secret may be empty; issuing tokens then fails
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// LessonConfig holds the settings that switch the lessons between vulnerable and fixed behavior
type LessonConfig struct {
	Mode           string
	Debug          bool
	SecretKey      string
	PasswordHasher string
}

// StorageConfig holds file storage settings
type StorageConfig struct {
	MediaRoot  string
	StaticRoot string
}

// Fixed reports whether the lessons run in fixed mode
func (l LessonConfig) Fixed() bool {
	return l.Mode == ModeFixed
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// .env is optional, variables may come from the environment
	_ = godotenv.Load()

	cfg := &Config{}

	// Database configuration
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return nil, fmt.Errorf("DB_PORT is required")
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Database.Password = dbPassword

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	// Server configuration
	if cfg.Server.Port, err = intEnv("SERVER_PORT", DefaultServerPort); err != nil {
		return nil, err
	}
	if cfg.Server.LoginRateLimit, err = intEnv("LOGIN_RATE_LIMIT", 10); err != nil {
		return nil, err
	}

	// Logging configuration
	cfg.Logging.Level = stringEnv("LOG_LEVEL", "info")
	cfg.Logging.File = os.Getenv("LOG_FILE")

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// Redis configuration
	cfg.Redis.Host = stringEnv("REDIS_HOST", "localhost")
	if cfg.Redis.Port, err = intEnv("REDIS_PORT", 6379); err != nil {
		return nil, err
	}
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.DB, err = intEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}

	// JWT configuration
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	if cfg.JWT.AccessTokenExpiry, err = durationEnv("JWT_ACCESS_TOKEN_EXPIRY", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.JWT.RefreshTokenExpiry, err = durationEnv("JWT_REFRESH_TOKEN_EXPIRY", 7*24*time.Hour); err != nil {
		return nil, err
	}

	// Lesson configuration
	cfg.Lesson.Mode = strings.ToLower(stringEnv("LESSON_MODE", ModeVulnerable))
	if cfg.Lesson.Mode != ModeVulnerable && cfg.Lesson.Mode != ModeFixed {
		return nil, fmt.Errorf("invalid LESSON_MODE %q: must be %q or %q", cfg.Lesson.Mode, ModeVulnerable, ModeFixed)
	}
	// the unpatched lessons ship with debug on and the legacy hasher
	if cfg.Lesson.Debug, err = boolEnv("DEBUG", !cfg.Lesson.Fixed()); err != nil {
		return nil, err
	}
	cfg.Lesson.SecretKey = os.Getenv("SECRET_KEY")
	defaultHasher := "md5"
	if cfg.Lesson.Fixed() {
		defaultHasher = "bcrypt"
	}
	cfg.Lesson.PasswordHasher = strings.ToLower(stringEnv("PASSWORD_HASHER", defaultHasher))

	// Storage configuration
	cfg.Storage.MediaRoot = stringEnv("MEDIA_ROOT", "./media")
	cfg.Storage.StaticRoot = stringEnv("STATIC_ROOT", "./static")

	return cfg, nil
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&multiStatements=true",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// RedisAddr returns the host:port address of the token store
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// parseOrigins splits a comma-separated origin list, allowing all origins when none is given
func parseOrigins(value string) []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(value, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
