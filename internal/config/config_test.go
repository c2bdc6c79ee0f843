package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worksphere/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.HTTPPort)
	assert.Equal(t, 15*time.Second, cfg.GatewayTimeout)
	assert.Equal(t, "usd", cfg.StripeCurrency)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, "http://localhost:9000", cfg.MinioPublicURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "worksphere-dev")
	t.Setenv("GATEWAY_TIMEOUT", "3s")
	t.Setenv("STRIPE_CURRENCY", "EUR")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("OUTBOX_BATCH_SIZE", "nope")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.GatewayTimeout)
	assert.Equal(t, "eur", cfg.StripeCurrency)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
}

func TestLoad_RequiresAuthSource(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("FIREBASE_PROJECT_ID", "")

	_, err := config.Load()

	assert.Error(t, err)
}

func TestLoad_RejectsShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	_, err := config.Load()

	assert.Error(t, err)
}
