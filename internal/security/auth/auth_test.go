package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "")
	token, err := tm.GenerateToken("alice", time.Minute)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Operator)

	_, err = NewTokenManager("other", "").ValidateToken(token)
	require.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	tm := NewTokenManager("secret", "")
	token, err := tm.GenerateToken("alice", -time.Minute)
	require.NoError(t, err)
	_, err = tm.ValidateToken(token)
	require.Error(t, err)
}

func TestExtractToken(t *testing.T) {
	tok, err := ExtractToken("Bearer abc")
	require.NoError(t, err)
	require.Equal(t, "abc", tok)

	_, err = ExtractToken("Basic abc")
	require.Error(t, err)
}

func TestOperatorCredentials(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	creds := NewOperatorCredentials(hash)
	require.NoError(t, creds.Verify("hunter2"))
	require.ErrorIs(t, creds.Verify("wrong"), ErrInvalidCredentials)
	require.ErrorIs(t, NewOperatorCredentials("").Verify("hunter2"), ErrInvalidCredentials)
}
