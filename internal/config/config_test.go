package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "admin-secret")
	t.Setenv("CLIENT_JWT_SECRET", "client-secret")
	t.Setenv("NEXT_PUBLIC_SITE_URL", "https://clinic.example")
	t.Setenv("EMAIL_TO", "front-desk@clinic.example")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "admin-secret", cfg.JWT.AdminSecret)
	assert.Equal(t, "client-secret", cfg.JWT.ClientSecret)
	assert.Equal(t, 168, cfg.JWT.AdminExpiryHours)
	assert.Equal(t, 720, cfg.JWT.ClientExpiryHours)
	assert.Equal(t, "https://clinic.example", cfg.Site.URL)
	assert.Equal(t, "front-desk@clinic.example", cfg.Email.To)
	assert.Equal(t, "en", cfg.Site.DefaultLocale)
	assert.False(t, cfg.Email.Enabled(), "без RESEND_API_KEY отправка писем выключена")
}

func TestLoad_MissingSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CLIENT_JWT_SECRET", "")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate_SameSecretsRejected(t *testing.T) {
	cfg := &Config{
		JWT:  JWTConfig{AdminSecret: "same", ClientSecret: "same", AdminExpiryHours: 1, ClientExpiryHours: 1},
		Site: SiteConfig{DefaultLocale: "en"},
	}
	assert.Error(t, cfg.Validate())
}

func TestValidate_EmailFromRequiredWithAPIKey(t *testing.T) {
	cfg := &Config{
		JWT:   JWTConfig{AdminSecret: "a", ClientSecret: "b", AdminExpiryHours: 1, ClientExpiryHours: 1},
		Email: EmailConfig{ResendAPIKey: "re_123"},
		Site:  SiteConfig{DefaultLocale: "en"},
	}
	assert.Error(t, cfg.Validate())

	cfg.Email.From = "Continuum <hello@clinic.example>"
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, SupportedLocales, cfg.Site.Locales)
	assert.Equal(t, 10, cfg.Analytics.TopN)
}
