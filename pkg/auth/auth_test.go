package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.True(t, CheckPassword("hunter2", hash))
	assert.False(t, CheckPassword("hunter3", hash))
}

func TestHMACKeyRoundTrip(t *testing.T) {
	t.Setenv("API_MASTER_SECRET", "test-secret")

	key := GenerateHMACKey("center-desk")
	id, err := VerifyHMACKey(key)
	require.NoError(t, err)
	assert.Equal(t, "center-desk", id)
}

func TestVerifyHMACKeyRejectsTampering(t *testing.T) {
	t.Setenv("API_MASTER_SECRET", "test-secret")

	key := GenerateHMACKey("center-desk")
	_, signature, _ := strings.Cut(key, ".")
	_, err := VerifyHMACKey("other." + signature)
	assert.ErrorIs(t, err, ErrBadKeySign)

	_, err = VerifyHMACKey("no-separator")
	assert.ErrorIs(t, err, ErrBadKey)

	_, err = VerifyHMACKey(".signature-only")
	assert.ErrorIs(t, err, ErrBadKey)

	_, err = VerifyHMACKey("center-desk.deadbeef")
	assert.ErrorIs(t, err, ErrBadKeySign)
}

func TestVerifyHMACKeySecretMismatch(t *testing.T) {
	t.Setenv("API_MASTER_SECRET", "first")
	key := GenerateHMACKey("center-desk")

	t.Setenv("API_MASTER_SECRET", "second")
	_, err := VerifyHMACKey(key)
	assert.ErrorIs(t, err, ErrBadKeySign)
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := IssueToken("director")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "director", claims.Username)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestKeyPreview(t *testing.T) {
	assert.Equal(t, "short", KeyPreview("short"))
	long := "abcdefghijklmnopqrstuvwxyz"
	assert.Equal(t, "abcdefgh...wxyz", KeyPreview(long))
}
