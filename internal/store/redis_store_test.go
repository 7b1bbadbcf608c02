package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"didclient/internal/domain"
	"didclient/internal/store"
)

func newRedisStoreTest(t *testing.T, ttl time.Duration) (*store.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return store.NewRedisStore(rdb, "", ttl, nil), mr
}

func TestRedisStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStoreTest(t, 0)

	if _, ok := s.Load(ctx); ok {
		t.Fatal("fresh redis store not empty")
	}
	if err := s.Save(ctx, "abc"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if v, _ := mr.Get(store.DefaultRedisKey); v != "abc" {
		t.Fatalf("redis holds %q under %s", v, store.DefaultRedisKey)
	}
	if got, ok := s.Load(ctx); !ok || got != "abc" {
		t.Fatalf("load = %q, %v", got, ok)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	if _, ok := s.Load(ctx); ok {
		t.Fatal("expected absent after clear")
	}
}

func TestRedisStore_TTLApplied(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStoreTest(t, time.Hour)

	if err := s.Save(ctx, "abc"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ttl := mr.TTL(store.DefaultRedisKey); ttl != time.Hour {
		t.Fatalf("want 1h ttl, got %v", ttl)
	}
	mr.FastForward(2 * time.Hour)
	if _, ok := s.Load(ctx); ok {
		t.Fatal("expired key should read as absent")
	}
}

func TestRedisStore_ServerDown(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStoreTest(t, 0)
	if err := s.Save(ctx, "abc"); err != nil {
		t.Fatalf("save: %v", err)
	}
	mr.Close()

	if _, ok := s.Load(ctx); ok {
		t.Fatal("unreachable redis should load as absent")
	}
	if err := s.Save(ctx, "def"); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("want ErrStorageUnavailable, got %v", err)
	}
}
