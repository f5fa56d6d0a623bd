package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuthenticator_RoundTrip(t *testing.T) {
	a := NewJWTAuthenticator("secret", "storeadmin", "idp")

	tok, err := a.GenerateToken("user_123", time.Minute)
	require.NoError(t, err)

	parsed, err := a.ValidateToken(tok)
	require.NoError(t, err)

	sub, err := UserID(parsed)
	require.NoError(t, err)
	assert.Equal(t, "user_123", sub)
}

func TestJWTAuthenticator_Rejects(t *testing.T) {
	a := NewJWTAuthenticator("secret", "storeadmin", "idp")

	t.Run("expired", func(t *testing.T) {
		tok, err := a.GenerateToken("u", -time.Minute)
		require.NoError(t, err)
		_, err = a.ValidateToken(tok)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok, err := NewJWTAuthenticator("other", "storeadmin", "idp").GenerateToken("u", time.Minute)
		require.NoError(t, err)
		_, err = a.ValidateToken(tok)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		tok, err := NewJWTAuthenticator("secret", "storeadmin", "someone-else").GenerateToken("u", time.Minute)
		require.NoError(t, err)
		_, err = a.ValidateToken(tok)
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
	})

	t.Run("wrong audience", func(t *testing.T) {
		tok, err := NewJWTAuthenticator("secret", "shop", "idp").GenerateToken("u", time.Minute)
		require.NoError(t, err)
		_, err = a.ValidateToken(tok)
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidAudience)
	})

	t.Run("no expiry", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "u", "iss": "idp", "aud": "storeadmin",
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = a.ValidateToken(tok)
		assert.Error(t, err)
	})

	t.Run("other algorithm", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
			"sub": "u", "exp": time.Now().Add(time.Minute).Unix(), "iss": "idp", "aud": "storeadmin",
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = a.ValidateToken(tok)
		assert.Error(t, err)
	})
}

func TestUserID_MissingSubject(t *testing.T) {
	a := NewJWTAuthenticator("secret", "", "")
	tok, err := a.GenerateToken("", time.Minute)
	require.NoError(t, err)

	parsed, err := a.ValidateToken(tok)
	require.NoError(t, err)

	_, err = UserID(parsed)
	assert.ErrorIs(t, err, ErrMissingSubject)

	_, err = UserID(nil)
	assert.ErrorIs(t, err, ErrMissingSubject)
}
