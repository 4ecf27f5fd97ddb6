package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the application configuration, populated from environment
// variables and optionally overlaid with a TOML file.
type Config struct {
	App      AppConfig      `toml:"app"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	JWT      JWTConfig      `toml:"jwt"`
	MinIO    MinIOConfig    `toml:"minio"`
	Import   ImportConfig   `toml:"import"`
	Seed     SeedConfig     `toml:"seed"`
}

type AppConfig struct {
	Name        string `toml:"name"`
	Environment string `toml:"environment"` // development, staging, production
	Port        string `toml:"port"`
	Version     string `toml:"version"`
	LogLevel    string `toml:"log_level"`
}

type DatabaseConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"name"`
	SSLMode  string `toml:"sslmode"`
	MaxConns int    `toml:"max_conns"`
	MinConns int    `toml:"min_conns"`
}

type RedisConfig struct {
	Host     string `toml:"host"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type JWTConfig struct {
	Secret            string `toml:"secret"`
	Issuer            string `toml:"issuer"`
	Audience          string `toml:"audience"`
	AccessTokenExpiry int    `toml:"access_expiry_minutes"`
}

type MinIOConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
}

type ImportConfig struct {
	MaxFileSizeMB   int           `toml:"max_file_size_mb"`
	LockTTL         time.Duration `toml:"lock_ttl"`
	UploadPrefix    string        `toml:"upload_prefix"`
	UploadRetention time.Duration `toml:"upload_retention"`
	CleanupCron     string        `toml:"cleanup_cron"`
}

// MaxFileSize in bytes
func (c ImportConfig) MaxFileSize() int64 {
	return int64(c.MaxFileSizeMB) << 20
}

type SeedConfig struct {
	AdminEmail    string `toml:"admin_email"`
	AdminPassword string `toml:"admin_password"`
	UserEmail     string `toml:"user_email"`
	UserPassword  string `toml:"user_password"`
}

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func fromEnv() *Config {
	return &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Library Catalog API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "library"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			Issuer:            getEnv("JWT_ISSUER", "library-catalog"),
			Audience:          getEnv("JWT_AUDIENCE", "library-catalog-clients"),
			AccessTokenExpiry: getEnvInt("JWT_ACCESS_EXPIRY", 60),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "library-imports"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Import: ImportConfig{
			MaxFileSizeMB:   getEnvInt("IMPORT_MAX_FILE_SIZE_MB", 20),
			LockTTL:         getEnvDuration("IMPORT_LOCK_TTL", 30*time.Minute),
			UploadPrefix:    getEnv("IMPORT_UPLOAD_PREFIX", "imports/"),
			UploadRetention: getEnvDuration("IMPORT_UPLOAD_RETENTION", 7*24*time.Hour),
			CleanupCron:     getEnv("IMPORT_CLEANUP_CRON", "0 3 * * *"),
		},
		Seed: SeedConfig{
			AdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@email.com"),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", "Admin@123"),
			UserEmail:     getEnv("SEED_USER_EMAIL", "user@email.com"),
			UserPassword:  getEnv("SEED_USER_PASSWORD", "User@123"),
		},
	}
}

// Validate checks settings that must never fall back to defaults in production
func (c *Config) Validate() error {
	if c.Import.MaxFileSizeMB <= 0 {
		return fmt.Errorf("IMPORT_MAX_FILE_SIZE_MB must be positive")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRY must be positive")
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	return nil
}

// RedisAddr is the host:port asynq and go-redis connect to
func (c *Config) RedisAddr() string {
	return c.Redis.Host
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
