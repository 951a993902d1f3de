package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  port: 9090
log:
  mode: development
database:
  driver: postgres
  host: db.internal
  port: 5432
  user: app
  password: secret
  name: registry
minio:
  endpoint: minio.internal:9000
  accessKey: ak
  secretKey: sk
  bucketName: asset-photos
  region: us-east-1
  useSSL: true
  expiryMinutes: 30
vision:
  provider: openai
  apiKey: oa-key
  model: gpt-4o-mini
  timeoutSeconds: 20
analysis:
  dualMode: true
  cooldownMinutes: 10
  heuristicSeed: 42
auth:
  apiKeys:
    acme: sekrit
rateLimit:
  capacity: 10
  refillPerSec: 2
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "openai", cfg.Vision.Provider)
	assert.True(t, cfg.Analysis.DualMode)
	assert.Equal(t, int64(42), cfg.Analysis.HeuristicSeed)
	assert.Equal(t, "sekrit", cfg.Auth.APIKeys["acme"])

	assert.Equal(t, 30*time.Minute, cfg.MinioExpiry())
	assert.Equal(t, 10*time.Minute, cfg.AnalysisCooldown())
	assert.Equal(t, 20*time.Second, cfg.VisionTimeout())
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  port: 8080\n"))
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "gcp", cfg.Vision.Provider)
	assert.Equal(t, 15*time.Minute, cfg.MinioExpiry())
	assert.Equal(t, time.Duration(0), cfg.AnalysisCooldown())
}

func TestDSNHelpers(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t,
		"host=db.internal port=5432 user=app password=secret dbname=registry sslmode=disable",
		cfg.PostgresDSN())

	cfg.Database.Driver = "mysql"
	cfg.Database.Port = 3306
	assert.Equal(t,
		"app:secret@tcp(db.internal:3306)/registry?parseTime=true&charset=utf8mb4&loc=UTC",
		cfg.MySQLDSN())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
