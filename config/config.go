package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Local key-value drivers.
const (
	KVMemory = "memory"
	KVFile   = "file"
	KVRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Backing store
	StoreDriver   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	SQLitePath    string
	MigrationsDir string
	MongoURI      string
	MongoDatabase string

	// Client-local storage
	KVDriver string
	KVPath   string
	ClientID string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Identity token signing secret
	TokenSecret string

	// Tip rotation
	TipEpoch time.Time
	Timezone string

	// Image storage
	S3Bucket string
	S3Region string
}

// Location returns the configured timezone, falling back to local time.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	var lookup func(envVar, secret string) string
	switch env {
	case CI:
		lookup = func(envVar, _ string) string { return os.Getenv(envVar) }
	case Development, Test:
		// A missing .env file is fine; the environment still applies.
		_ = godotenv.Load()
		lookup = func(envVar, secret string) string {
			if v := os.Getenv(envVar); v != "" {
				return v
			}
			if secret != "" {
				return readSecret(secret)
			}
			return ""
		}
	case Production:
		lookup = func(envVar, secret string) string {
			if secret != "" {
				if v := readSecret(secret); v != "" {
					return v
				}
			}
			return os.Getenv(envVar)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	cfg, err := load(lookup)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func load(lookup func(envVar, secret string) string) (*Config, error) {
	get := func(envVar, secret, def string) string {
		if v := strings.TrimSpace(lookup(envVar, secret)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		ServerPort:    get("SERVER_PORT", "server_port", "8080"),
		ServerHost:    get("SERVER_HOST", "server_host", "localhost"),
		CORSOrigins:   splitList(get("CORS_ORIGINS", "", "http://localhost:4200")),
		StoreDriver:   get("STORE_DRIVER", "", DriverMemory),
		DBHost:        get("DB_HOST", "db_host", "localhost"),
		DBPort:        get("DB_PORT", "db_port", "5432"),
		DBUser:        get("DB_USER", "db_user", "postgres"),
		DBPassword:    get("DB_PASSWORD", "db_password", ""),
		DBName:        get("DB_NAME", "db_name", "recetario"),
		DBSSLMode:     get("DB_SSL_MODE", "db_ssl_mode", "disable"),
		SQLitePath:    get("SQLITE_PATH", "", "recetario.db"),
		MigrationsDir: get("MIGRATIONS_DIR", "", "migrations"),
		MongoURI:      get("MONGO_URI", "mongo_uri", ""),
		MongoDatabase: get("MONGO_DATABASE", "", "recetario"),
		KVDriver:      get("KV_DRIVER", "", KVMemory),
		KVPath:        get("KV_PATH", "", ".recetario/local.yaml"),
		ClientID:      get("CLIENT_ID", "", "default"),
		RedisHost:     get("REDIS_HOST", "redis_host", "localhost"),
		RedisPort:     get("REDIS_PORT", "redis_port", "6379"),
		RedisPassword: get("REDIS_PASSWORD", "redis_password", ""),
		RedisURL:      get("REDIS_URL", "redis_url", ""),
		TokenSecret:   get("TOKEN_SECRET", "token_secret", "dev-token-secret"),
		Timezone:      get("TZ_NAME", "", ""),
		S3Bucket:      get("S3_BUCKET_NAME", "", ""),
		S3Region:      get("AWS_REGION", "", ""),
	}

	if v := get("REDIS_DB", "", "0"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("REDIS_DB must be a number: %w", err)
		}
		cfg.RedisDB = db
	}

	epoch := get("TIP_EPOCH", "", "2024-01-01")
	t, err := time.Parse(time.DateOnly, epoch)
	if err != nil {
		return nil, fmt.Errorf("TIP_EPOCH must be YYYY-MM-DD: %w", err)
	}
	cfg.TipEpoch = t

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
