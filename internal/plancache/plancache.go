// Package plancache stores generated plans keyed by their validated inputs.
package plancache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/p-n-ai/pai-planner/internal/planner"
	"github.com/p-n-ai/pai-planner/internal/platform/cache"
)

const keyPrefix = "plan:v1:"

// ErrMiss is returned when no plan is cached under a key.
var ErrMiss = errors.New("plan cache miss")

// Cache stores plans.
type Cache interface {
	Get(ctx context.Context, key string) (planner.Plan, error)
	Set(ctx context.Context, key string, plan planner.Plan) error
}

// Key derives the cache key for a validated input. Inputs that produce the same
// plan get the same key.
func Key(in planner.Input) string {
	canonical := struct {
		Topics []planner.Topic `json:"t"`
		Exam   string          `json:"e"`
		Start  string          `json:"s"`
	}{
		Topics: in.Topics,
		Exam:   in.ExamDate.Format(planner.DateLayout),
		Start:  in.StartDate.Format(planner.DateLayout),
	}
	if canonical.Topics == nil {
		canonical.Topics = []planner.Topic{}
	}
	data, _ := json.Marshal(canonical)
	sum := blake2b.Sum256(data)
	return keyPrefix + hex.EncodeToString(sum[:])
}

// RedisCache keeps plans in Redis/Dragonfly with a fixed TTL.
type RedisCache struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewRedisCache creates a plan cache on c.
func NewRedisCache(c *cache.Cache, ttl time.Duration) *RedisCache {
	return &RedisCache{cache: c, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (planner.Plan, error) {
	var plan planner.Plan
	err := c.cache.GetJSON(ctx, key, &plan)
	if errors.Is(err, cache.ErrMiss) {
		return planner.Plan{}, ErrMiss
	}
	if err != nil {
		return planner.Plan{}, fmt.Errorf("get cached plan: %w", err)
	}
	return plan, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, plan planner.Plan) error {
	if err := c.cache.SetJSON(ctx, key, plan, c.ttl); err != nil {
		return fmt.Errorf("set cached plan: %w", err)
	}
	return nil
}

// MemoryCache is an in-process Cache without expiry, for tests and single-node use.
type MemoryCache struct {
	mu    sync.RWMutex
	plans map[string][]byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{plans: make(map[string][]byte)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (planner.Plan, error) {
	c.mu.RLock()
	data, ok := c.plans[key]
	c.mu.RUnlock()
	if !ok {
		return planner.Plan{}, ErrMiss
	}

	var plan planner.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return planner.Plan{}, fmt.Errorf("decode cached plan: %w", err)
	}
	return plan, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, plan planner.Plan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	c.mu.Lock()
	c.plans[key] = data
	c.mu.Unlock()
	return nil
}

// Len returns the number of cached plans.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.plans)
}
