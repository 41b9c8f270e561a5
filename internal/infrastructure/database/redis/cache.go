package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/druglike/internal/domain/druglikeness"
	"github.com/turtacn/druglike/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/druglike/pkg/errors"
)

var (
	ErrCacheMiss           = errors.New(errors.ErrCodeNotFound, "cache miss")
	ErrSerializationFailed = errors.New(errors.ErrCodeSerialization, "serialization failed")
)

// keyVersion is bumped whenever the stored outcome layout changes.
const keyVersion = "v1:"

// scanBatch is the COUNT hint used when purging.
const scanBatch = 100

// OutcomeCache stores evaluation outcomes keyed by the SHA-256 of the input
// notation. Entries are JSON encoded.
type OutcomeCache struct {
	client *Client
	logger logging.Logger
	prefix string
	ttl    time.Duration
	jitter bool
}

type CacheOption func(*OutcomeCache)

func WithPrefix(prefix string) CacheOption {
	return func(c *OutcomeCache) { c.prefix = prefix }
}

func WithTTL(ttl time.Duration) CacheOption {
	return func(c *OutcomeCache) { c.ttl = ttl }
}

// WithJitter spreads expirations by up to 10% in either direction.
func WithJitter(enabled bool) CacheOption {
	return func(c *OutcomeCache) { c.jitter = enabled }
}

func NewOutcomeCache(client *Client, log logging.Logger, opts ...CacheOption) *OutcomeCache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	c := &OutcomeCache{
		client: client,
		logger: log,
		prefix: "druglike:ro5:",
		ttl:    24 * time.Hour,
		jitter: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the storage key for notation.
func (c *OutcomeCache) Key(notation string) string {
	sum := sha256.Sum256([]byte(notation))
	return c.prefix + keyVersion + hex.EncodeToString(sum[:])
}

func (c *OutcomeCache) expiry() time.Duration {
	if c.ttl <= 0 || !c.jitter {
		return c.ttl
	}
	j := float64(c.ttl) * 0.1 * (rand.Float64()*2 - 1)
	return c.ttl + time.Duration(j)
}

// Get returns the stored outcome for notation or ErrCacheMiss.
func (c *OutcomeCache) Get(ctx context.Context, notation string) (*druglikeness.EvaluationOutcome, error) {
	data, err := c.client.Get(ctx, c.Key(notation)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "failed to get from cache")
	}

	var out druglikeness.EvaluationOutcome
	if err := json.Unmarshal(data, &out); err != nil {
		c.logger.Warn("discarding undecodable cache entry", logging.String("key", c.Key(notation)), logging.Err(err))
		return nil, ErrCacheMiss
	}
	// A hash collision or a stale writer must never answer for another input.
	if out.SMILES != notation {
		return nil, ErrCacheMiss
	}
	return &out, nil
}

// Set stores outcome under its own notation.
func (c *OutcomeCache) Set(ctx context.Context, outcome *druglikeness.EvaluationOutcome) error {
	if outcome == nil {
		return nil
	}
	data, err := json.Marshal(outcome)
	if err != nil {
		return ErrSerializationFailed.WithCause(err)
	}
	if err := c.client.Set(ctx, c.Key(outcome.SMILES), data, c.expiry()).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to write cache")
	}
	return nil
}

// Delete removes the entry for notation.
func (c *OutcomeCache) Delete(ctx context.Context, notation string) error {
	if err := c.client.Del(ctx, c.Key(notation)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to delete from cache")
	}
	return nil
}

// Purge deletes every entry under the cache prefix and returns the count.
func (c *OutcomeCache) Purge(ctx context.Context) (int64, error) {
	var deleted int64
	var cursor uint64
	match := c.prefix + "*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, match, scanBatch).Result()
		if err != nil {
			return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "failed to scan cache")
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "failed to purge cache")
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	c.logger.Info("purged outcome cache", logging.String("prefix", c.prefix), logging.Int64("deleted", deleted))
	return deleted, nil
}
