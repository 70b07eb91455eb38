package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	content := `
api:
  environment: "test"
  base_url: "localhost:9999"
  port: "9999"
  allowed_cors_domains:
    - "http://localhost:3000"

gin:
  mode: "test"

postgres:
  host: "db"
  port: "5432"
  user: "u"
  password: "p"
  db: "corrida_test"
  sslmode: "disable"

reaper:
  interval_ms: 250

orders:
  pending_ttl_minutes: 15
`
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", conf.API.Environment)
	assert.Equal(t, "9999", conf.API.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, "corrida_test", conf.Postgres.DB)
	assert.Equal(t, 250*time.Millisecond, conf.Reaper.Interval())
	assert.Equal(t, 15*time.Minute, conf.Orders.PendingTTL())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestReaperConfig_IntervalDefault(t *testing.T) {
	var nilConf *ReaperConfig
	assert.Equal(t, 60*time.Second, nilConf.Interval())
	assert.Equal(t, 60*time.Second, (&ReaperConfig{}).Interval())
	assert.Equal(t, 60*time.Second, (&ReaperConfig{IntervalMS: -5}).Interval())
}

func TestOrdersConfig_PendingTTLDefault(t *testing.T) {
	var nilConf *OrdersConfig
	assert.Equal(t, 30*time.Minute, nilConf.PendingTTL())
	assert.Equal(t, 30*time.Minute, (&OrdersConfig{}).PendingTTL())
}
