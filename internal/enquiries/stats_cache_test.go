package enquiries

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/alexmurray/portfolio-backend/pkg/logging"
)

type countingSource struct {
	calls atomic.Int64
	stats *Stats
	err   error
}

func (s *countingSource) Stats(ctx context.Context) (*Stats, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.stats, nil
}

func TestCachedStatsServesFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	source := &countingSource{stats: &Stats{TotalEnquiries: 5, NewEnquiries: 2}}
	cache := NewCachedStats(source, client, time.Minute, logging.Default())

	ctx := context.Background()
	first, err := cache.Stats(ctx)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := cache.Stats(ctx)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}

	if source.calls.Load() != 1 {
		t.Fatalf("expected one source call, got %d", source.calls.Load())
	}
	if first.TotalEnquiries != second.TotalEnquiries || second.TotalEnquiries != 5 {
		t.Fatalf("cached read diverged: %+v vs %+v", first, second)
	}
}

func TestCachedStatsExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	source := &countingSource{stats: &Stats{TotalEnquiries: 1}}
	cache := NewCachedStats(source, client, time.Second, logging.Default())

	ctx := context.Background()
	if _, err := cache.Stats(ctx); err != nil {
		t.Fatalf("seed read: %v", err)
	}

	mr.FastForward(2 * time.Second)

	if _, err := cache.Stats(ctx); err != nil {
		t.Fatalf("post-expiry read: %v", err)
	}
	if source.calls.Load() != 2 {
		t.Fatalf("expected recompute after TTL, got %d calls", source.calls.Load())
	}
}

func TestCachedStatsInvalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	source := &countingSource{stats: &Stats{TotalEnquiries: 1}}
	cache := NewCachedStats(source, client, time.Minute, logging.Default())

	ctx := context.Background()
	if _, err := cache.Stats(ctx); err != nil {
		t.Fatalf("seed read: %v", err)
	}

	cache.Invalidate(ctx)

	if _, err := cache.Stats(ctx); err != nil {
		t.Fatalf("post-invalidate read: %v", err)
	}
	if source.calls.Load() != 2 {
		t.Fatalf("expected recompute after invalidate, got %d calls", source.calls.Load())
	}
}

func TestCachedStatsFallsThroughOnRedisFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close() // kill redis before any read

	source := &countingSource{stats: &Stats{TotalEnquiries: 9}}
	cache := NewCachedStats(source, client, time.Minute, logging.Default())

	stats, err := cache.Stats(context.Background())
	if err != nil {
		t.Fatalf("expected fall-through to source, got %v", err)
	}
	if stats.TotalEnquiries != 9 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestCachedStatsNilClientPassesThrough(t *testing.T) {
	source := &countingSource{err: errors.New("boom")}
	cache := NewCachedStats(source, nil, time.Minute, nil)

	if _, err := cache.Stats(context.Background()); err == nil {
		t.Fatal("expected source error to propagate")
	}
}

func TestInvalidatingRepositoryDropsCacheOnCreate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	store := NewInMemoryRepository()
	cache := NewCachedStats(store, client, time.Minute, logging.Default())
	repo := NewInvalidatingRepository(store, cache)

	ctx := context.Background()
	if _, err := repo.Create(ctx, &SubmitEnquiryRequest{Name: "Ada", Email: "ada@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	stats, err := cache.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalEnquiries != 1 {
		t.Fatalf("expected 1 enquiry, got %d", stats.TotalEnquiries)
	}

	if _, err := repo.Create(ctx, &SubmitEnquiryRequest{Name: "Grace", Phone: "+1 (555) 010-0200"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	stats, err = cache.Stats(ctx)
	if err != nil {
		t.Fatalf("stats after create: %v", err)
	}
	if stats.TotalEnquiries != 2 {
		t.Fatalf("expected cache invalidation to surface 2 enquiries, got %d", stats.TotalEnquiries)
	}
}

func TestInvalidatingRepositoryNilCacheIsPassThrough(t *testing.T) {
	store := NewInMemoryRepository()
	if got := NewInvalidatingRepository(store, nil); got != Repository(store) {
		t.Fatal("expected the underlying repository back when cache is nil")
	}
}
