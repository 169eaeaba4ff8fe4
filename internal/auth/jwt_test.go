package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() *JWTConfig {
	return &JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "chathub",
		Audience: "chathub-clients",
		TTL:      time.Hour,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateToken(cfg, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateToken(cfg, "alice")
	require.NoError(t, err)

	other := testJWTConfig()
	other.Secret = []byte("a-different-secret")
	_, err = ValidateToken(other, token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateToken(cfg, "alice")
	require.NoError(t, err)

	other := testJWTConfig()
	other.Issuer = "someone-else"
	_, err = ValidateToken(other, token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongAudience(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateToken(cfg, "alice")
	require.NoError(t, err)

	other := testJWTConfig()
	other.Audience = "another-app"
	_, err = ValidateToken(other, token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.TTL = -time.Minute

	token, err := GenerateToken(cfg, "alice")
	require.NoError(t, err)

	_, err = ValidateToken(cfg, token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken(testJWTConfig(), "definitely.not.jwt")
	assert.Error(t, err)
}

func TestHashAndCompareCredential(t *testing.T) {
	hash, err := HashCredential("pw12")
	require.NoError(t, err)
	assert.NotEqual(t, "pw12", hash)

	assert.NoError(t, CompareCredential(hash, "pw12"))
	assert.Error(t, CompareCredential(hash, "wrong"))
}
