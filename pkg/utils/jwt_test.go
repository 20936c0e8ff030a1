package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventplanner-backend/pkg/models"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("secret")

	token, err := svc.SignSession(&models.SessionClaims{UserID: 7, RoomID: 3, CSRF: "abc", Flashes: []string{"hi"}}, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateSession(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, int64(3), claims.RoomID)
	assert.Equal(t, "abc", claims.CSRF)
	assert.Equal(t, []string{"hi"}, claims.Flashes)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateSessionRejects(t *testing.T) {
	svc := NewJWTService("secret")

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTService("other").SignSession(&models.SessionClaims{UserID: 1}, time.Hour)
		require.NoError(t, err)
		_, err = svc.ValidateSession(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := svc.SignSession(&models.SessionClaims{UserID: 1}, -time.Minute)
		require.NoError(t, err)
		_, err = svc.ValidateSession(token)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expired")
	})

	t.Run("no expiry", func(t *testing.T) {
		claims := &models.SessionClaims{UserID: 1}
		claims.Issuer = "eventplanner"
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = svc.ValidateSession(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateSession("not-a-token")
		assert.Error(t, err)
	})
}

func TestGenerateURLToken(t *testing.T) {
	a, err := GenerateURLToken(32)
	require.NoError(t, err)
	b, err := GenerateURLToken(0)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43)
	assert.Len(t, b, 32)
	assert.False(t, strings.ContainsAny(a+b, "+/="))
}

func TestTokensEqual(t *testing.T) {
	assert.True(t, TokensEqual("abc", "abc"))
	assert.False(t, TokensEqual("abc", "abd"))
	assert.False(t, TokensEqual("", ""))
}
