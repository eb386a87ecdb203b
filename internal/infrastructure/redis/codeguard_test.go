package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSetNX struct {
	keys map[string]time.Duration
	err  error
}

func (m *memSetNX) SetNX(_ context.Context, key string, _ interface{}, exp time.Duration) *goredis.BoolCmd {
	if m.err != nil {
		return goredis.NewBoolResult(false, m.err)
	}
	if _, ok := m.keys[key]; ok {
		return goredis.NewBoolResult(false, nil)
	}
	m.keys[key] = exp
	return goredis.NewBoolResult(true, nil)
}

func TestClaim_FirstUseOnly(t *testing.T) {
	store := &memSetNX{keys: map[string]time.Duration{}}
	g := &CodeGuard{client: store, ttl: CodeTTL}

	ok, err := g.Claim(context.Background(), "adm-1", "123456")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Claim(context.Background(), "adm-1", "123456")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = g.Claim(context.Background(), "adm-2", "123456")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, CodeTTL, store.keys["admin:2fa:adm-1:123456"])
}

func TestClaim_PropagatesError(t *testing.T) {
	g := &CodeGuard{client: &memSetNX{err: errors.New("conn reset")}, ttl: CodeTTL}
	_, err := g.Claim(context.Background(), "adm-1", "123456")
	assert.Error(t, err)
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	_, err := NewClient(context.Background(), "not-a-url")
	assert.Error(t, err)
}
