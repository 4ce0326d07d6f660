package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const cachePrefix = "recommend:"

// Cached serves repeated requests from Redis. Cache failures are logged and
// fall through to the wrapped Recommender.
type Cached struct {
	next Recommender
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCached(next Recommender, rdb *redis.Client, ttl time.Duration) *Cached {
	return &Cached{next: next, rdb: rdb, ttl: ttl}
}

// DialRedis parses url and checks the server answers.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func (c *Cached) Recommend(ctx context.Context, req Request) (Result, error) {
	key := CacheKey(req)

	val, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var res Result
		if err := json.Unmarshal(val, &res); err == nil {
			return res, nil
		}
		log.Printf("WARN: recommendation cache: corrupt entry %s", key)
	case !errors.Is(err, redis.Nil):
		log.Printf("WARN: recommendation cache get: %v", err)
	}

	res, err := c.next.Recommend(ctx, req)
	if err != nil {
		return Result{}, err
	}

	data, err := json.Marshal(res)
	if err == nil {
		err = c.rdb.Set(ctx, key, data, c.ttl).Err()
	}
	if err != nil {
		log.Printf("WARN: recommendation cache set: %v", err)
	}
	return res, nil
}

// CacheKey hashes the normalized request so equivalent requests share an
// entry.
func CacheKey(req Request) string {
	norm := strings.ToLower(strings.TrimSpace(req.OrderSummary)) + "\x00" +
		strings.ToLower(strings.TrimSpace(req.DietaryRestrictions))
	sum := sha256.Sum256([]byte(norm))
	return cachePrefix + hex.EncodeToString(sum[:])
}
