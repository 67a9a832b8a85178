package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the driver-specific requirements of cfg
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError
	require := func(field, value string) {
		if value == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: "must be a valid port"})
	}

	switch cfg.StoreDriver {
	case DriverMemory:
	case DriverSQLite:
		require("SQLITE_PATH", cfg.SQLitePath)
	case DriverPostgres:
		require("DB_HOST", cfg.DBHost)
		require("DB_PORT", cfg.DBPort)
		require("DB_USER", cfg.DBUser)
		require("DB_NAME", cfg.DBName)
	case DriverMongo:
		require("MONGO_URI", cfg.MongoURI)
		require("MONGO_DATABASE", cfg.MongoDatabase)
	default:
		errs = append(errs, ValidationError{Field: "STORE_DRIVER", Message: fmt.Sprintf("unknown driver %q", cfg.StoreDriver)})
	}

	switch cfg.KVDriver {
	case KVMemory:
	case KVFile:
		require("KV_PATH", cfg.KVPath)
	case KVRedis:
		if cfg.RedisURL == "" {
			require("REDIS_HOST", cfg.RedisHost)
			require("REDIS_PORT", cfg.RedisPort)
		}
	default:
		errs = append(errs, ValidationError{Field: "KV_DRIVER", Message: fmt.Sprintf("unknown driver %q", cfg.KVDriver)})
	}
	require("CLIENT_ID", cfg.ClientID)

	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			errs = append(errs, ValidationError{Field: "TZ_NAME", Message: err.Error()})
		}
	}

	if GetEnvironment() == Production {
		if cfg.TokenSecret == "" || cfg.TokenSecret == "dev-token-secret" {
			errs = append(errs, ValidationError{Field: "TOKEN_SECRET", Message: "must be set in production"})
		}
		if cfg.StoreDriver == DriverPostgres {
			require("DB_PASSWORD", cfg.DBPassword)
		}
	}

	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
	}
	return nil
}
