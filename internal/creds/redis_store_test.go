package creds

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &RedisStore{rdb: rdb, ttl: time.Minute}, mr
}

func TestRedisStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t)

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "expected miss on empty store")

	require.NoError(t, store.Save(ctx, Credentials{Username: "alice", Secret: "secret"}))

	got, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "secret", got.Secret)

	require.NoError(t, store.Delete(ctx))
	_, ok, err = store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "expected miss after delete")
}

func TestRedisStore_EntryExpiresWithSessionTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	require.NoError(t, store.Save(ctx, Credentials{Username: "alice", Secret: "secret"}))

	mr.FastForward(2 * time.Minute)

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "expected expired entry to read as absent")
}

func TestRedisStore_HydratesCredentialStore(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t)

	first := NewStore(store, nil)
	first.Set(ctx, "alice", "secret", true)

	second := NewStore(store, nil)
	h := second.AuthHeader(ctx)
	require.Len(t, h, 1)
	assert.Equal(t, basicHeader("alice", "secret"), h["Authorization"])
}
