package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type payload struct {
	Destination string `json:"destination"`
	Days        int    `json:"days"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestStoreFetch(t *testing.T) {
	c, _ := newTestCache(t)

	if err := c.Store("k1", payload{Destination: "云南", Days: 5}, time.Minute); err != nil {
		t.Fatalf("Store: %v", err)
	}
	var got payload
	if err := c.Fetch("k1", &got); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got.Destination != "云南" || got.Days != 5 {
		t.Fatalf("got %+v", got)
	}
}

func TestFetchMissingKey(t *testing.T) {
	c, _ := newTestCache(t)

	var got payload
	err := c.Fetch("missing", &got)
	if !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("want ErrKeyNotFound, got %v", err)
	}
}

func TestFetchCorruptValue(t *testing.T) {
	c, mr := newTestCache(t)
	if err := mr.Set("bad", "{not json"); err != nil {
		t.Fatalf("miniredis set: %v", err)
	}
	var got payload
	if err := c.Fetch("bad", &got); err == nil || errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("want unmarshal error, got %v", err)
	}
}

func TestExpiryAndDelete(t *testing.T) {
	c, mr := newTestCache(t)

	if err := c.StoreBytes("k2", []byte(`"v"`), 10*time.Second); err != nil {
		t.Fatalf("StoreBytes: %v", err)
	}
	ttl, err := c.TTL("k2")
	if err != nil || ttl <= 0 || ttl > 10*time.Second {
		t.Fatalf("TTL=%v err=%v", ttl, err)
	}

	mr.FastForward(11 * time.Second)
	if _, err := c.FetchBytes("k2"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("want expired key, got %v", err)
	}

	if err := c.StoreBytes("k3", []byte(`1`), 0); err != nil {
		t.Fatalf("StoreBytes: %v", err)
	}
	if err := c.Delete("k3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if mr.Exists("k3") {
		t.Fatalf("k3 should be deleted")
	}
}

func TestStoreServerDown(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()
	if err := c.Store("k", payload{}, time.Minute); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}
