package utils

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkup/config"
)

func TestMain(m *testing.M) {
	config.Load()
	os.Exit(m.Run())
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-1")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.NotEmpty(t, claims.ID, "every token carries a jti for revocation")
}

func TestDistinctTokensGetDistinctIDs(t *testing.T) {
	first, err := GenerateToken("user-1")
	require.NoError(t, err)
	second, err := GenerateToken("user-1")
	require.NoError(t, err)

	c1, err := ParseToken(first)
	require.NoError(t, err)
	c2, err := ParseToken(second)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestParseGarbageToken(t *testing.T) {
	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestParseTamperedToken(t *testing.T) {
	token, err := GenerateToken("user-1")
	require.NoError(t, err)

	_, err = ParseToken(token + "x")
	assert.Error(t, err)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken("user-1", "a:b")
	require.NoError(t, err)

	claims, err := ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a:b", claims.ChannelID)
}
