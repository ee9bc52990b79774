package cache

import (
	"context"
	"testing"
	"time"
)

func TestTTLCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewTTLCache()
	c.now = func() time.Time { return now }

	if _, ok, _ := c.GetBytes(ctx, "missing"); ok {
		t.Fatal("unexpected hit for a missing key")
	}

	if err := c.SetBytes(ctx, "sentiment:EURUSD", []byte("0.4"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := c.SetBytes(ctx, "forever", []byte("1"), 0); err != nil {
		t.Fatal(err)
	}

	v, ok, err := c.GetBytes(ctx, "sentiment:EURUSD")
	if err != nil || !ok || string(v) != "0.4" {
		t.Fatalf("GetBytes() = %q, %v, %v", v, ok, err)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := c.GetBytes(ctx, "sentiment:EURUSD"); ok {
		t.Error("entry should have expired")
	}
	if _, ok, _ := c.GetBytes(ctx, "forever"); !ok {
		t.Error("entry without ttl should not expire")
	}
}
