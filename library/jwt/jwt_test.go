package jwt

import (
	"testing"
	"time"

	"github.com/Laisky/errors/v2"
	jwtLib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestVerifyRoundTrip(t *testing.T) {
	j, err := New([]byte("0123456789abcdef"))
	require.NoError(t, err)

	token, err := j.Sign("uid-123", "alice@example.com", time.Hour)
	require.NoError(t, err)

	uc, err := j.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "uid-123", uc.Subject)
	require.Equal(t, "alice@example.com", uc.Email)
}

// TestVerifyFailuresAreOpaque ensures every failure mode yields the same error,
// so clients cannot probe why a token was rejected.
func TestVerifyFailuresAreOpaque(t *testing.T) {
	j, err := New([]byte("0123456789abcdef"))
	require.NoError(t, err)

	expired, err := j.Sign("uid-123", "", -time.Minute)
	require.NoError(t, err)

	other, err := New([]byte("another-secret-value"))
	require.NoError(t, err)
	badSig, err := other.Sign("uid-123", "", time.Hour)
	require.NoError(t, err)

	// token without exp claim
	noExp, err := jwtLib.NewWithClaims(jwtLib.SigningMethodHS256, &UserClaims{
		RegisteredClaims: jwtLib.RegisteredClaims{Subject: "uid-123"},
	}).SignedString([]byte("0123456789abcdef"))
	require.NoError(t, err)

	for _, token := range []string{"", "garbage", expired, badSig, noExp} {
		_, err := j.Verify(token)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrInvalidToken))
	}
}

func TestVerifyRejectsEmptySubject(t *testing.T) {
	j, err := New([]byte("0123456789abcdef"))
	require.NoError(t, err)

	token, err := j.Sign("", "", time.Hour)
	require.NoError(t, err)

	_, err = j.Verify(token)
	require.True(t, errors.Is(err, ErrInvalidToken))
}

func TestNewRejectsEmptySecret(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}
