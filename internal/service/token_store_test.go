package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisKVClient struct {
	lastSetKey string
	lastSetTTL time.Duration
	lastExists []string

	setErr    error
	existsErr error
	existsN   int64
}

func (m *mockRedisKVClient) Set(ctx context.Context, key string, _ interface{}, expiration time.Duration) *redis.StatusCmd {
	m.lastSetKey = key
	m.lastSetTTL = expiration
	cmd := redis.NewStatusCmd(ctx)
	if m.setErr != nil {
		cmd.SetErr(m.setErr)
		return cmd
	}
	cmd.SetVal("OK")
	return cmd
}

func (m *mockRedisKVClient) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	m.lastExists = keys
	cmd := redis.NewIntCmd(ctx)
	if m.existsErr != nil {
		cmd.SetErr(m.existsErr)
		return cmd
	}
	cmd.SetVal(m.existsN)
	return cmd
}

func TestRedisRevocationStore(t *testing.T) {
	t.Run("revoke sets prefixed key with ttl", func(t *testing.T) {
		mock := &mockRedisKVClient{}
		store := newRedisRevocationStore(mock)
		if err := store.Revoke("jti-1", time.Hour); err != nil {
			t.Fatalf("revoke: %v", err)
		}
		if mock.lastSetKey != "auth:revoked:jti-1" || mock.lastSetTTL != time.Hour {
			t.Fatalf("unexpected set: key=%s ttl=%v", mock.lastSetKey, mock.lastSetTTL)
		}
	})

	t.Run("empty jti ignored", func(t *testing.T) {
		mock := &mockRedisKVClient{}
		store := newRedisRevocationStore(mock)
		if err := store.Revoke("  ", time.Hour); err != nil {
			t.Fatalf("revoke: %v", err)
		}
		if mock.lastSetKey != "" {
			t.Fatalf("expected no redis call")
		}
	})

	t.Run("is revoked", func(t *testing.T) {
		mock := &mockRedisKVClient{existsN: 1}
		store := newRedisRevocationStore(mock)
		revoked, err := store.IsRevoked("jti-1")
		if err != nil || !revoked {
			t.Fatalf("expected revoked, got %v %v", revoked, err)
		}
		if len(mock.lastExists) != 1 || mock.lastExists[0] != "auth:revoked:jti-1" {
			t.Fatalf("unexpected exists keys %+v", mock.lastExists)
		}
	})

	t.Run("redis error surfaces", func(t *testing.T) {
		store := newRedisRevocationStore(&mockRedisKVClient{existsErr: errors.New("down")})
		if _, err := store.IsRevoked("jti-1"); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("nil client", func(t *testing.T) {
		if NewRedisRevocationStore(nil) != nil {
			t.Fatalf("expected nil store without client")
		}
	})
}

func TestMemoryRevocationStore_Expires(t *testing.T) {
	store := NewMemoryRevocationStore()
	if err := store.Revoke("jti-1", 20*time.Millisecond); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if revoked, _ := store.IsRevoked("jti-1"); !revoked {
		t.Fatalf("expected revoked")
	}
	if revoked, _ := store.IsRevoked("jti-2"); revoked {
		t.Fatalf("expected unknown jti not revoked")
	}
	time.Sleep(40 * time.Millisecond)
	if revoked, _ := store.IsRevoked("jti-1"); revoked {
		t.Fatalf("expected revocation to expire")
	}
}
