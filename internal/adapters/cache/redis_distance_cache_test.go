package cache

import (
	"bytes"
	"context"
	"delivery-pricing-service/internal/platform/obs"
	"delivery-pricing-service/internal/ports"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisDistanceCacheRoundTrip(t *testing.T) {
	_, client := newTestRedis(t)
	c := NewRedisDistanceCache(client, time.Hour)
	ctx := context.Background()

	err := c.PutMany(ctx, "a", map[string]ports.DistanceResult{
		"b":   {DistanceMeters: 2500, DurationSeconds: 600},
		"est": {DistanceMeters: 25000, DurationSeconds: 4500, Estimated: true},
	})
	if err != nil {
		t.Fatalf("PutMany: %v", err)
	}

	got, err := c.GetMany(ctx, "a", []string{"b", "est", "missing"})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected only the routed result, got %v", got)
	}
	if got["b"].DistanceMeters != 2500 || got["b"].DurationSeconds != 600 {
		t.Fatalf("unexpected result: %+v", got["b"])
	}
}

func TestRedisDistanceCacheExpires(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewRedisDistanceCache(client, time.Minute)
	ctx := context.Background()

	if err := c.PutMany(ctx, "a", map[string]ports.DistanceResult{"b": {DistanceMeters: 1}}); err != nil {
		t.Fatalf("PutMany: %v", err)
	}
	if !mr.Exists(redisKey("a", "b")) {
		t.Fatal("expected key to be stored")
	}

	mr.FastForward(2 * time.Minute)

	got, err := c.GetMany(ctx, "a", []string{"b"})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected expired entry to be gone, got %v", got)
	}
}

func TestRedisDistanceCacheCorruptValue(t *testing.T) {
	mr, client := newTestRedis(t)
	if err := mr.Set(redisKey("a", "b"), "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := NewRedisDistanceCache(client, time.Hour).GetMany(context.Background(), "a", []string{"b"}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestRedisDistanceCachePutManyLogsTiming(t *testing.T) {
	_, client := newTestRedis(t)
	c := NewRedisDistanceCache(client, time.Hour)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	ctx := obs.WithRequestID(context.Background(), "r-7")
	if err := c.PutMany(ctx, "a", map[string]ports.DistanceResult{"b": {DistanceMeters: 1}}); err != nil {
		t.Fatalf("PutMany: %v", err)
	}

	if out := buf.String(); !strings.Contains(out, "req_id=r-7 op=distance.redis.PutMany") {
		t.Fatalf("missing timing line, got %q", out)
	}
}

func TestRedisDistanceCacheRejectsBlankKey(t *testing.T) {
	_, client := newTestRedis(t)
	c := NewRedisDistanceCache(client, time.Hour)

	err := c.PutMany(context.Background(), "a", map[string]ports.DistanceResult{" ": {DistanceMeters: 1}})
	if !errors.Is(err, errBlankKey) {
		t.Fatalf("expected errBlankKey, got %v", err)
	}
}
