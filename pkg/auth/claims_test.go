package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(expiresIn).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func Test_Decode_Unverified(t *testing.T) {
	d := NewDecoder("")
	claims, err := d.Decode(signToken(t, "whatever", time.Hour))
	require.NoError(t, err)

	sub, err := claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "user-42", sub)
	assert.False(t, d.Verifies())
}

func Test_Decode_Verified(t *testing.T) {
	d := NewDecoder("secret")
	claims, err := d.Decode(signToken(t, "secret", time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims["sub"])
}

func Test_Decode_WrongSecret(t *testing.T) {
	_, err := NewDecoder("secret").Decode(signToken(t, "other", time.Hour))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func Test_Decode_Expired(t *testing.T) {
	_, err := NewDecoder("secret").Decode(signToken(t, "secret", -time.Hour))
	require.ErrorIs(t, err, ErrTokenExpired)
}

func Test_Decode_Garbage(t *testing.T) {
	_, err := NewDecoder("").Decode("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func Test_DecodeHeader(t *testing.T) {
	d := NewDecoder("")

	claims, err := d.DecodeHeader("Bearer " + signToken(t, "k", time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims["sub"])

	_, err = d.DecodeHeader("Bearer")
	require.ErrorIs(t, err, ErrMalformedHeader)
}
