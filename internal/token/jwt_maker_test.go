package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecretKey = "12345678901234567890123456789012"

func TestJWTMaker(t *testing.T) {
	maker, err := NewJWTMaker(testSecretKey)
	require.NoError(t, err)

	userID := int64(42)
	duration := time.Minute

	accessToken, payload, err := maker.CreateToken(userID, duration)
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)
	require.NotNil(t, payload)

	verified, err := maker.VerifyToken(accessToken)
	require.NoError(t, err)

	parsedID, err := verified.UserID()
	require.NoError(t, err)
	require.Equal(t, userID, parsedID)
	require.WithinDuration(t, time.Now().Add(duration), verified.ExpiresAt.Time, time.Second)
}

func TestJWTMakerShortSecret(t *testing.T) {
	_, err := NewJWTMaker("too short")
	require.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	maker, err := NewJWTMaker(testSecretKey)
	require.NoError(t, err)

	accessToken, _, err := maker.CreateToken(42, -time.Minute)
	require.NoError(t, err)

	_, err = maker.VerifyToken(accessToken)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestTamperedToken(t *testing.T) {
	maker, err := NewJWTMaker(testSecretKey)
	require.NoError(t, err)

	accessToken, _, err := maker.CreateToken(42, time.Minute)
	require.NoError(t, err)

	parts := strings.Split(accessToken, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + ".AAAA"

	_, err = maker.VerifyToken(tampered)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenSignedWithOtherKey(t *testing.T) {
	maker, err := NewJWTMaker(testSecretKey)
	require.NoError(t, err)

	otherMaker, err := NewJWTMaker("abcdefghijklmnopqrstuvwxyz123456")
	require.NoError(t, err)

	accessToken, _, err := otherMaker.CreateToken(42, time.Minute)
	require.NoError(t, err)

	_, err = maker.VerifyToken(accessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}
