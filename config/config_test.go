package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, StoreDriverMongo, cfg.StoreDriver)
	assert.Equal(t, "library", cfg.MongoDatabase)
	assert.Equal(t, 300*time.Second, cfg.StatsCacheTTL)
	assert.Equal(t, 60*time.Second, cfg.StatsCacheCheckPeriod)
	assert.Zero(t, cfg.BreakerFailureThreshold, "breaker is opt-in")
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.IsProduction())
}

func TestParseMySQL(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MySQL")
	t.Setenv("DB_DATABASE", "library")
	t.Setenv("DB_USERNAME", "reader")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("STATS_CACHE_TTL", "2m")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMySQL, cfg.StoreDriver)
	assert.Equal(t, 2*time.Minute, cfg.StatsCacheTTL)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "reader:secret@tcp(127.0.0.1:3306)/library?charset=utf8mb4&parseTime=True&loc=Local", MySQLDSN(cfg))
}

func TestParseRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":    {"STORE_DRIVER": "postgres"},
		"mongo without uri": {"STORE_DRIVER": "mongo"},
		"mysql without db":  {"STORE_DRIVER": "mysql", "DB_USERNAME": "reader"},
		"zero ttl":          {"MONGODB_URI": "mongodb://localhost", "STATS_CACHE_TTL": "0s"},
		"bad log format":    {"MONGODB_URI": "mongodb://localhost", "LOG_FORMAT": "xml"},
		"bad duration":      {"MONGODB_URI": "mongodb://localhost", "READ_TIMEOUT": "soon"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for key, value := range env {
				t.Setenv(key, value)
			}
			_, err := Parse()
			assert.Error(t, err)
		})
	}
}

func TestInitLoggingToFile(t *testing.T) {
	dir := t.TempDir()
	closer, err := InitLogging(LogConfig{
		Level:   "debug",
		Format:  "json",
		Output:  "file",
		Path:    dir,
		File:    "test.log",
		MaxSize: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = closer.Close()
		_, _ = InitLogging(LogConfig{Level: "info", Format: "text", Output: "stdout"})
	})

	Log.Info("hello")
	assert.FileExists(t, LogFilePath(LogConfig{Path: dir, File: "test.log"}))
}
