package config_test

import (
	"hostelcare/portal/internal/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORTAL_ROLE", "")
	t.Setenv("PORTAL_POLL_INTERVAL", "")
	t.Setenv("PORTAL_NOTIFY_INTERVAL", "")
	t.Setenv("TELEGRAM_ADMIN_CHAT_ID", "")

	cfg, err := config.Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "student", cfg.Role)
	assert.Equal(t, config.ComplaintPollInterval, cfg.PollInterval)
	assert.Equal(t, config.NotificationPollInterval, cfg.NotifyInterval)
	assert.Zero(t, cfg.AdminChatID)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORTAL_ROLE", "admin")
	t.Setenv("PORTAL_API_URL", "http://backend:9000")
	t.Setenv("PORTAL_POLL_INTERVAL", "45s")
	t.Setenv("TELEGRAM_ADMIN_CHAT_ID", "-100123")

	cfg, err := config.Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "admin", cfg.Role)
	assert.Equal(t, "http://backend:9000", cfg.APIBaseURL)
	assert.Equal(t, 45*time.Second, cfg.PollInterval)
	assert.Equal(t, int64(-100123), cfg.AdminChatID)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown role", "PORTAL_ROLE", "warden"},
		{"bad interval", "PORTAL_POLL_INTERVAL", "soon"},
		{"negative interval", "PORTAL_NOTIFY_INTERVAL", "-5s"},
		{"bad chat id", "TELEGRAM_ADMIN_CHAT_ID", "admins"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := config.Load("does-not-exist.env")
			assert.Error(t, err)
		})
	}
}
