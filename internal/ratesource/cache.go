package ratesource

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/cloud-ru/mcp-fixed-income-go/internal/config"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/logger"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/metrics"
	"github.com/redis/go-redis/v9"
)

const referenceRateKey = "fixed_income:reference_rate:cdi"

type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr string) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: rdb,
	}
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCache кэш в памяти процесса, используется без REDIS_ADDR
type MemoryCache struct {
	mu   sync.Mutex
	data map[string]memoryEntry
	now  func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok {
		return "", false
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.data, key)
		return "", false
	}
	return e.value, true
}

func (m *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.data[key] = e
	return nil
}

// unavailableMarker запоминает недоступность источника на failureTTL
const unavailableMarker = "unavailable"

// CachedProvider кэширует успешные ответы провайдера на ttl,
// а недоступность источника на failureTTL (0 - не кэшировать)
type CachedProvider struct {
	next       Provider
	cache      Cache
	ttl        time.Duration
	failureTTL time.Duration
}

func NewCachedProvider(next Provider, cache Cache, ttl, failureTTL time.Duration) *CachedProvider {
	return &CachedProvider{next: next, cache: cache, ttl: ttl, failureTTL: failureTTL}
}

func (c *CachedProvider) FetchReferenceRate(ctx context.Context) (float64, bool) {
	if v, ok := c.cache.Get(ctx, referenceRateKey); ok {
		if v == unavailableMarker {
			metrics.ReferenceRateFetches.WithLabelValues("cache_unavailable").Inc()
			return 0, false
		}
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			metrics.ReferenceRateFetches.WithLabelValues("cache").Inc()
			return rate, true
		}
	}

	rate, ok := c.next.FetchReferenceRate(ctx)
	if !ok {
		if c.failureTTL > 0 {
			_ = c.cache.Set(ctx, referenceRateKey, unavailableMarker, c.failureTTL)
		}
		return 0, false
	}
	// ошибка записи в кэш не меняет результат
	_ = c.cache.Set(ctx, referenceRateKey, strconv.FormatFloat(rate, 'g', -1, 64), c.ttl)
	return rate, true
}

// NewFromConfig собирает провайдер CDI: клиент BCB с кэшем в Redis,
// если задан REDIS_ADDR, иначе с кэшем в памяти
func NewFromConfig(cfg *config.Config, log logger.Logger) (Provider, func() error) {
	client := NewBCBClient(cfg.RateSourceURL, cfg.RateSourceTimeout, cfg.RateSourceRPM, log)

	if cfg.RedisAddr == "" {
		return NewCachedProvider(client, NewMemoryCache(), cfg.RateCacheTTL, cfg.RateFailureTTL), client.Close
	}

	redisCache := NewRedisCache(cfg.RedisAddr)
	closeAll := func() error {
		return errors.Join(client.Close(), redisCache.Close())
	}
	return NewCachedProvider(client, redisCache, cfg.RateCacheTTL, cfg.RateFailureTTL), closeAll
}
