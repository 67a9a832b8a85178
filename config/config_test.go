package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "chef")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "recetas")
	t.Setenv("KV_DRIVER", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("TIP_EPOCH", "2025-02-01")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "chef", cfg.DBUser)
	assert.Equal(t, "secret", cfg.DBPassword)
	assert.Equal(t, "recetas", cfg.DBName)
	assert.Equal(t, KVRedis, cfg.KVDriver)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), cfg.TipEpoch)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", t.TempDir())
	for _, key := range []string{"STORE_DRIVER", "KV_DRIVER", "SERVER_PORT", "TIP_EPOCH", "DB_HOST", "TOKEN_SECRET"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, KVMemory, cfg.KVDriver)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), cfg.TipEpoch)
	assert.NotEmpty(t, cfg.TokenSecret)
}

func TestLoadConfigProductionReadsSecrets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token_secret"), []byte("prod-secret\n"), 0o600))
	t.Setenv("ENV", "production")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("TOKEN_SECRET", "from-env")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "prod-secret", cfg.TokenSecret)
}

func TestLoadConfigRejectsBadEpoch(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("TIP_EPOCH", "yesterday")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	base := func() *Config {
		return &Config{ServerPort: "8080", StoreDriver: DriverMemory, KVDriver: KVMemory, ClientID: "c1"}
	}

	assert.NoError(t, ValidateConfig(base()))

	cfg := base()
	cfg.StoreDriver = "cassandra"
	assert.ErrorContains(t, ValidateConfig(cfg), "STORE_DRIVER")

	cfg = base()
	cfg.StoreDriver = DriverMongo
	assert.ErrorContains(t, ValidateConfig(cfg), "MONGO_URI")

	cfg = base()
	cfg.KVDriver = KVFile
	assert.ErrorContains(t, ValidateConfig(cfg), "KV_PATH")

	cfg = base()
	cfg.ServerPort = "http"
	assert.ErrorContains(t, ValidateConfig(cfg), "SERVER_PORT")

	cfg = base()
	cfg.Timezone = "Mars/Olympus"
	assert.ErrorContains(t, ValidateConfig(cfg), "TZ_NAME")
}

func TestObjectKey(t *testing.T) {
	s := &S3Config{BucketName: "recetas"}

	key, ok := s.ObjectKey("s3://recetas/recipes/r1.jpg")
	assert.True(t, ok)
	assert.Equal(t, "recipes/r1.jpg", key)

	key, ok = s.ObjectKey("s3:///recipes/r1.jpg")
	assert.True(t, ok)
	assert.Equal(t, "recipes/r1.jpg", key)

	_, ok = s.ObjectKey("https://cdn.example.com/r1.jpg")
	assert.False(t, ok)
}
