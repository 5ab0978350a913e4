package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devlink/devlink/config"
)

func TestTokenRoundTrip(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "test-secret"})

	token, err := GenerateToken(42, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "test-secret"})

	token, err := GenerateToken(42, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsTampered(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "test-secret"})

	token, err := GenerateToken(42, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token + "x")
	assert.Error(t, err)

	_, err = ParseToken("not.a.token")
	assert.Error(t, err)
}
