package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("CLIENT_URL", "")
	t.Setenv("STRIPE_ALLOWED_COUNTRIES", "")
	t.Setenv("SMTP_PORT", "")

	cfg := FromEnv()
	assert.Equal(t, "http://localhost:3000", cfg.ClientURL)
	assert.Equal(t, []string{"US", "CA", "GB", "FR", "DE", "BE"}, cfg.StripeAllowedCountries)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("CLIENT_URL", "https://shop.example.com")
	t.Setenv("STRIPE_CURRENCY", "EUR")
	t.Setenv("STRIPE_ALLOWED_COUNTRIES", " be, fr ,,")
	t.Setenv("SCYLLA_HOSTS", "10.0.0.1,10.0.0.2")
	t.Setenv("MINIO_USE_SSL", "TRUE")
	t.Setenv("SMTP_PORT", "2525")

	cfg := FromEnv()
	assert.Equal(t, "https://shop.example.com", cfg.ClientURL)
	assert.Equal(t, "eur", cfg.StripeCurrency)
	assert.Equal(t, []string{"be", "fr"}, cfg.StripeAllowedCountries)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.ScyllaHosts)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, 2525, cfg.SMTPPort)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRIPE_SECRET_KEY")
	assert.Contains(t, err.Error(), "STRIPE_WEBHOOK_SECRET")
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg = &Config{StripeSecretKey: "sk_test", StripeWebhookSecret: "whsec", JWTSecret: "s"}
	assert.NoError(t, cfg.Validate())
}
