package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 5*time.Minute, cfg.Dashboard.CacheTTL)
	assert.Equal(t, 5, cfg.Dashboard.RecentLimit)
	assert.Equal(t, "qa_scores.events", cfg.Events.Topic)
	assert.Len(t, cfg.Access.Allowlist, 3)
	assert.Empty(t, cfg.Access.AdminEmails)
}

func TestLoadReadsEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ACCESS_ALLOWLIST", " Lead@Example.com ,qa@example.com,")
	t.Setenv("ADMIN_EMAILS", "Lead@Example.com")
	t.Setenv("EVENTS_ENABLED", "true")
	t.Setenv("EVENTS_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("STREAM_HEARTBEAT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"lead@example.com", "qa@example.com"}, cfg.Access.Allowlist)
	assert.Equal(t, []string{"lead@example.com"}, cfg.Access.AdminEmails)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.Brokers)
	assert.Equal(t, 25*time.Second, cfg.Stream.Heartbeat)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
