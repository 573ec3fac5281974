// Package cache provides a Redis-backed cache of ranked query results so
// repeated experiment runs with an unchanged configuration skip re-scoring.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bobyangg/CSI4107-A1/internal/searcher/ranker"
	pkgredis "github.com/bobyangg/CSI4107-A1/pkg/redis"
)

const keyPrefix = "rank:"

// ResultCache stores ranked result lists keyed by an experiment fingerprint
// and query id. Cache failures degrade to recomputation; they are never
// surfaced to the ranking pipeline as errors.
type ResultCache struct {
	client *pkgredis.Client
	ttl    time.Duration
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a ResultCache with the given TTL.
func New(client *pkgredis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{
		client: client,
		ttl:    ttl,
		logger: slog.Default().With("component", "result-cache"),
	}
}

// Get returns the cached ranking for (fingerprint, queryID), if present.
func (c *ResultCache) Get(ctx context.Context, fingerprint, queryID string) ([]ranker.ScoredDoc, bool) {
	key := buildKey(fingerprint, queryID)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Warn("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var docs []ranker.ScoredDoc
	if err := json.Unmarshal([]byte(data), &docs); err != nil {
		c.logger.Warn("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return docs, true
}

// Set stores a ranking for (fingerprint, queryID).
func (c *ResultCache) Set(ctx context.Context, fingerprint, queryID string, docs []ranker.ScoredDoc) {
	key := buildKey(fingerprint, queryID)
	data, err := json.Marshal(docs)
	if err != nil {
		c.logger.Warn("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

// Stats returns lifetime hit and miss counts.
func (c *ResultCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func buildKey(fingerprint, queryID string) string {
	raw := fmt.Sprintf("%s|%s", fingerprint, queryID)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
