package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.App.Addr())
	assert.Equal(t, time.UTC, cfg.App.Location())
	assert.Equal(t, 60, cfg.App.RateLimitPerMinute)
	assert.Equal(t, time.Duration(0), cfg.Auth.AccessTokenTTL())
	assert.Equal(t, "company_name", cfg.Turnstile.HoneypotField)
	assert.Equal(t, "Bot対策認証に失敗しました。再度お試しください。", cfg.Turnstile.ErrorMessage)
	assert.False(t, cfg.Turnstile.Configured())
	assert.Equal(t, "host=localhost port=5432 user=postgres password= dbname=goal_tracker sslmode=disable", cfg.DB.DSN())
}

func TestFromEnvRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnvRejectsUnknownTimezone(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_TIMEZONE", "Mars/Olympus_Mons")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "APP_TIMEZONE")
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_TIMEZONE", "Asia/Tokyo")
	t.Setenv("ACCESS_TOKEN_MINUTES", "30")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "Asia/Tokyo", cfg.App.Location().String())
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSAllowOrigins)
}

func TestTurnstileConfigured(t *testing.T) {
	cases := []struct {
		name string
		cfg  TurnstileConfig
		want bool
	}{
		{"disabled", TurnstileConfig{SiteKey: "s", SecretKey: "k"}, false},
		{"missing secret", TurnstileConfig{Enabled: true, SiteKey: "s"}, false},
		{"missing site key", TurnstileConfig{Enabled: true, SecretKey: "k"}, false},
		{"complete", TurnstileConfig{Enabled: true, SiteKey: "s", SecretKey: "k"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cfg.Configured())
		})
	}
}
