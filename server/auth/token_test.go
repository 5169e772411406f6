package auth

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	os.Setenv("SESSION_SECRET", "test_only_session_secret")

	token, err := IssueSessionToken("user_123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userId, err := VerifySessionToken(token)
	require.NoError(t, err)
	require.Equal(t, "user_123", userId)
}

func TestSessionTokenRejectsWrongSecret(t *testing.T) {
	os.Setenv("SESSION_SECRET", "test_only_session_secret")
	token, err := IssueSessionToken("user_123")
	require.NoError(t, err)

	os.Setenv("SESSION_SECRET", "a_different_secret")
	defer os.Setenv("SESSION_SECRET", "test_only_session_secret")

	_, err = VerifySessionToken(token)
	require.Error(t, err)
}

func TestSessionTokenRejectsGarbage(t *testing.T) {
	os.Setenv("SESSION_SECRET", "test_only_session_secret")

	_, err := VerifySessionToken("not even close to a token")
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", hash)

	require.True(t, CheckPassword(hash, "hunter22"))
	require.False(t, CheckPassword(hash, "hunter23"))

	// OAuth-only accounts have no password hash and can never pass a
	// credential check.
	require.False(t, CheckPassword("", ""))
	require.False(t, CheckPassword("", "anything"))
}
