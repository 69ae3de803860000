package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.EnableCORS)
	assert.Equal(t, 50, cfg.InboundRPS)
	assert.Equal(t, "localhost", cfg.RedisHost)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENABLE_CORS", "false")
	t.Setenv("INBOUND_RPS", "5")
	t.Setenv("RETELL_API_KEY", "key_123")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.False(t, cfg.EnableCORS)
	assert.Equal(t, 5, cfg.InboundRPS)
	assert.Equal(t, "key_123", cfg.RetellAPIKey)
}

func TestLoad_MalformedIntFallsBack(t *testing.T) {
	t.Setenv("INBOUND_RPS", "plenty")

	cfg := Load()
	assert.Equal(t, 50, cfg.InboundRPS)
}
