package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars")
	t.Setenv("SES_FROM_ADDRESS", "login@example.com")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.Challenge.CodeTTL)
	assert.Equal(t, 6, cfg.Challenge.CodeLength)
	assert.Equal(t, 3, cfg.Challenge.MaxAttempts)
	assert.Empty(t, cfg.Challenge.AnonymousIdentity)
	assert.Equal(t, "verification-records", cfg.Store.VerificationTable)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 10*time.Minute, cfg.Auth.SessionTokenExpiry)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CODE_TTL_SECONDS", "600")
	t.Setenv("CODE_LENGTH", "8")
	t.Setenv("MAX_ATTEMPTS", "5")
	t.Setenv("ANONYMOUS_IDENTITY", "guest@example.com")
	t.Setenv("VERIFICATION_TABLE", "login-challenges")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, cfg.Challenge.CodeTTL)
	assert.Equal(t, 8, cfg.Challenge.CodeLength)
	assert.Equal(t, 5, cfg.Challenge.MaxAttempts)
	assert.Equal(t, "guest@example.com", cfg.Challenge.AnonymousIdentity)
	assert.Equal(t, "login-challenges", cfg.Store.VerificationTable)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SES_FROM_ADDRESS", "login@example.com")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RequiresFromAddress(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars")
	t.Setenv("SES_FROM_ADDRESS", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsWeakJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("SES_FROM_ADDRESS", "login@example.com")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsBadCodeLength(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CODE_LENGTH", "2")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsBadMaxAttempts(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MAX_ATTEMPTS", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadLambda_NoTokenSettingsRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SES_FROM_ADDRESS", "login@example.com")
	t.Setenv("VERIFICATION_TABLE", "login-challenges")

	cfg, err := LoadLambda()
	require.NoError(t, err)
	assert.Equal(t, "login-challenges", cfg.Store.VerificationTable)
	assert.Equal(t, 3, cfg.Challenge.MaxAttempts)
}
