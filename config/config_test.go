package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	req := require.New(t)
	chdir(t, t.TempDir())
	unsetenv(t, "PORT", "APP_URL", "SUBSCRIPTION_TOTAL_COUNT", "SMTP_USER", "NOTIFY_EMAIL_TO")
	t.Setenv("KAFKA_BROKERS", " 127.0.0.1:9092, ,10.0.0.2:9092")
	t.Setenv("DB_HOST", "")

	cfg, err := LoadConfig()
	req.NoError(err)

	req.Equal(3000, cfg.Port)
	req.Equal("data/leads.jsonl", cfg.LeadsPath())
	req.Equal("http://localhost:3000", cfg.BaseURL())
	req.Equal([]string{"127.0.0.1:9092", "10.0.0.2:9092"}, cfg.Brokers())
	req.Equal(12, cfg.SubscriptionTotalCount)
	req.False(cfg.MirrorEnabled())
	req.False(cfg.NotifyEnabled())
}

func TestBaseURLTrimsTrailingSlash(t *testing.T) {
	cfg := Config{AppURL: "https://example.com/", Port: 8080}
	require.Equal(t, "https://example.com", cfg.BaseURL())
}

func TestLoadConfigRejectsBadPort(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "not-a-number")

	_, err := LoadConfig()
	require.Error(t, err)
}

func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
