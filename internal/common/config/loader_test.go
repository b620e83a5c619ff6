package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
app:
  name: adoption-workers
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: adoption
    user: ${TEST_DB_USER}
  redis:
    address: localhost:6379
matching:
  k_override: 3
workers:
  rank-animal-matches:
    enabled: false
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("TEST_DB_USER", "matcher")

	cfg, err := LoadFromFile(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "matcher", cfg.Database.Postgres.User)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "animals", cfg.Database.Elasticsearch.AnimalIndex)
	assert.False(t, cfg.Database.Elasticsearch.Enabled())

	assert.Equal(t, 3, cfg.Matching.KOverride)
	assert.Equal(t, "configs/scaler.json", cfg.Matching.ScalerPath)
	assert.Equal(t, 8, cfg.Matching.Parallelism)
	assert.Equal(t, 10*time.Minute, cfg.Matching.CacheTTLDuration())

	assert.Equal(t, ":9090", cfg.Metrics.Address)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.False(t, IsWorkerEnabled(cfg, "rank-animal-matches"))
	assert.True(t, IsWorkerEnabled(cfg, "explain-match"))
	assert.Equal(t, 3, GetWorkerConfig(cfg, "rank-animal-matches").MaxRetries)
}

func TestLoadFromFile_MissingBroker(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, `
database:
  postgres:
    host: localhost
    database: adoption
    user: u
  redis:
    address: localhost:6379
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "camunda.broker_address")
}

func TestLoadFromFile_NegativeK(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: adoption
    user: u
  redis:
    address: localhost:6379
matching:
  k_override: -1
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "k_override")
}

func TestGetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5433, User: "u", Password: "p", Database: "d", SSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=d sslmode=require", p.GetDSN())
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
