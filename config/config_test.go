package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hwstatus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5001, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "simulated", cfg.Evaluator.Backend)
	assert.Equal(t, 5*time.Second, cfg.Evaluator.Latency)
	assert.Zero(t, cfg.Dispatch.MaxConcurrency)
	assert.Zero(t, cfg.Dispatch.TaskTimeout)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
web:
  port: 8080
database:
  driver: postgres
  postgres:
    host: db
evaluator:
  backend: remote
  remote:
    base_url: http://capacity:9000
dispatch:
  task_timeout: 10s
  max_concurrency: 16
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Web.Port)
	assert.Equal(t, "0.0.0.0", cfg.Web.Host)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db", cfg.Database.Postgres.Host)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "http://capacity:9000", cfg.Evaluator.Remote.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Dispatch.TaskTimeout)
	assert.Equal(t, 16, cfg.Dispatch.MaxConcurrency)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "web:\n  port: 8080\n")
	t.Setenv("HWSTATUS_WEB_PORT", "9090")
	t.Setenv("HWSTATUS_EVALUATOR_LATENCY", "250ms")
	t.Setenv("HWSTATUS_MESSAGING", "kafka")
	t.Setenv("HWSTATUS_KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Web.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Evaluator.Latency)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Messaging.Kafka.Brokers)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "web: [unterminated"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"driver":          func(c *Config) { c.Database.Driver = "oracle" },
		"evaluator":       func(c *Config) { c.Evaluator.Backend = "magic" },
		"remote url":      func(c *Config) { c.Evaluator.Backend = "remote" },
		"gauge order":     func(c *Config) { c.Evaluator.Backend = "redis"; c.Evaluator.Gauge.Medium = 0.9 },
		"messaging":       func(c *Config) { c.Messaging.Backend = "amqp" },
		"kafka brokers":   func(c *Config) { c.Messaging.Backend = "kafka" },
		"mqtt broker":     func(c *Config) { c.Messaging.Backend = "mqtt" },
		"max concurrency": func(c *Config) { c.Dispatch.MaxConcurrency = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Defaults()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Defaults().Validate())
}
