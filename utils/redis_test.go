package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func wrongCode(code string) string {
	b := []byte(code)
	b[0] = '0' + (b[0]-'0'+1)%10
	return string(b)
}

func newTestOTPManager(t *testing.T) (*miniredis.Miniredis, *RedisOTPManager) {
	t.Helper()
	mr, client := newMiniredisClient(t)
	m := NewRedisOTPManager(client, 10*time.Minute)
	fixed := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }
	return mr, m
}

func TestRedisOTPManager_CodeWorksOnce(t *testing.T) {
	mr, m := newTestOTPManager(t)
	ctx := context.Background()

	code, err := m.Issue(ctx, "p-1")
	require.NoError(t, err)
	require.Len(t, code, 6)
	assert.True(t, mr.Exists(OTPSecretPrefix+"p-1"))

	ok, err := m.Verify(ctx, "p-1", wrongCode(code))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = m.Verify(ctx, "p-1", code)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, mr.Exists(OTPSecretPrefix+"p-1"))
	assert.False(t, mr.Exists(OTPAttemptsPrefix+"p-1"))

	ok, err = m.Verify(ctx, "p-1", code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisOTPManager_ReissueInvalidatesOldCode(t *testing.T) {
	_, m := newTestOTPManager(t)
	ctx := context.Background()

	first, err := m.Issue(ctx, "p-1")
	require.NoError(t, err)
	second, err := m.Issue(ctx, "p-1")
	require.NoError(t, err)

	if first != second {
		ok, err := m.Verify(ctx, "p-1", first)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	ok, err := m.Verify(ctx, "p-1", second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisOTPManager_TooManyWrongCodes(t *testing.T) {
	mr, m := newTestOTPManager(t)
	ctx := context.Background()

	code, err := m.Issue(ctx, "p-1")
	require.NoError(t, err)

	for i := 0; i < MaxOTPAttempts; i++ {
		ok, err := m.Verify(ctx, "p-1", wrongCode(code))
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.False(t, mr.Exists(OTPSecretPrefix+"p-1"))

	ok, err := m.Verify(ctx, "p-1", code)
	require.NoError(t, err)
	assert.False(t, ok)

	// A fresh code starts a fresh count.
	code, err = m.Issue(ctx, "p-1")
	require.NoError(t, err)
	ok, err = m.Verify(ctx, "p-1", code)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisOTPManager_IssueResetsAttempts(t *testing.T) {
	mr, m := newTestOTPManager(t)
	ctx := context.Background()

	code, err := m.Issue(ctx, "p-1")
	require.NoError(t, err)
	_, err = m.Verify(ctx, "p-1", wrongCode(code))
	require.NoError(t, err)
	assert.True(t, mr.Exists(OTPAttemptsPrefix+"p-1"))

	_, err = m.Issue(ctx, "p-1")
	require.NoError(t, err)
	assert.False(t, mr.Exists(OTPAttemptsPrefix+"p-1"))
}

func TestRedisOTPManager_ExpiredSecret(t *testing.T) {
	mr, m := newTestOTPManager(t)
	ctx := context.Background()

	code, err := m.Issue(ctx, "p-1")
	require.NoError(t, err)
	mr.FastForward(11 * time.Minute)

	ok, err := m.Verify(ctx, "p-1", code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisTokenRevoker(t *testing.T) {
	mr, client := newMiniredisClient(t)
	r := NewRedisTokenRevoker(client)
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "token-a", time.Minute))
	assert.True(t, mr.Exists(RevokedTokenPrefix+HashToken("token-a")))

	revoked, err := r.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = r.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = r.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "token-c", 0))
	revoked, err = r.IsRevoked(ctx, "token-c")
	require.NoError(t, err)
	assert.False(t, revoked)

	mr.SetError("ERR injected failure")
	_, err = r.IsRevoked(ctx, "token-a")
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	withSecret(t, "test-secret")
	_, client := newMiniredisClient(t)
	r := NewRedisTokenRevoker(client)
	ctx := context.Background()

	token, err := GenerateToken("p-1", RolePatient, time.Hour)
	require.NoError(t, err)
	require.NoError(t, RevokeToken(ctx, r, token))

	revoked, err := r.IsRevoked(ctx, token)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.NoError(t, RevokeToken(ctx, r, "garbage"))
	assert.NoError(t, RevokeToken(ctx, r, ""))
}
