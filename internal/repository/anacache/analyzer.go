// Package anacache caches morphological parse candidates in a key-value
// store. It decorates the engine client at composition time; the
// preprocessing pipeline itself stays cache-free.
package anacache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/hanmun-cloud/textprep/internal/db"
	"github.com/hanmun-cloud/textprep/internal/domain"
)

const cacheKeyPrefix = "textprep:ana_cache:"

// analyzer is the consumer interface for the cache (ISP).
type analyzer interface {
	Analyze(ctx context.Context, sentence string) ([]domain.ParseCandidate, error)
}

// store is the storage slice the cache needs.
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedAnalyzer caches ranked parse candidates per sentence.
type CachedAnalyzer struct {
	inner      analyzer
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner analyzer,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedAnalyzer {
	return &CachedAnalyzer{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Analyze returns cached candidates or calls the inner analyzer.
// Store failures degrade to a miss; they never fail the analysis.
func (c *CachedAnalyzer) Analyze(ctx context.Context, sentence string) ([]domain.ParseCandidate, error) {
	key := c.cacheKey(sentence)

	if candidates, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return candidates, nil
	}

	c.incCache("miss")

	candidates, err := c.inner.Analyze(ctx, sentence)
	if err != nil {
		return nil, fmt.Errorf("analyze sentence: %w", err)
	}

	c.putToCache(ctx, key, candidates)
	return candidates, nil
}

func (c *CachedAnalyzer) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedAnalyzer) cacheKey(sentence string) string {
	h := sha256.Sum256([]byte(sentence))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedAnalyzer) getFromCache(ctx context.Context, key string) ([]domain.ParseCandidate, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached analysis", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var candidates []domain.ParseCandidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		c.logger.Warn("Failed to parse cached analysis", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return candidates, true
}

func (c *CachedAnalyzer) putToCache(ctx context.Context, key string, candidates []domain.ParseCandidate) {
	data, err := json.Marshal(candidates)
	if err != nil {
		c.logger.Warn("Failed to encode analysis for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache analysis", zap.String("key", key), zap.Error(err))
	}
}
