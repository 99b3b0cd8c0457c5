package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"pos/domain"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	catalogKey    = "catalog:categories"
	generationKey = "catalog:generation"
)

// CatalogCache keeps the rendered catalog list in Redis.
type CatalogCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewClient connects and pings so a bad address fails at startup.
func NewClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// NewCatalogCache namespaces keys with prefix, usually the service name.
func NewCatalogCache(client *redis.Client, prefix string, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *CatalogCache) key(name string) string {
	if c.prefix == "" {
		return name
	}
	return c.prefix + ":" + name
}

// GetCategories reads the cached list together with the current generation,
// which is reported on a miss as well.
func (c *CatalogCache) GetCategories(ctx context.Context) ([]domain.Category, int64, bool, error) {
	values, err := c.client.MGet(ctx, c.key(generationKey), c.key(catalogKey)).Result()
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to get catalog from cache: %w", err)
	}

	generation, err := parseGeneration(values[0])
	if err != nil {
		return nil, 0, false, err
	}

	data, ok := values[1].(string)
	if !ok {
		return nil, generation, false, nil
	}

	var categories []domain.Category
	if err := json.Unmarshal([]byte(data), &categories); err != nil {
		zap.L().Warn("Dropping corrupted catalog cache entry", zap.Error(err))
		_ = c.client.Del(ctx, c.key(catalogKey))
		return nil, generation, false, nil
	}

	return categories, generation, true, nil
}

// SetCategories stores the list unless a mutation bumped the generation since
// it was read. A stale write is dropped silently.
func (c *CatalogCache) SetCategories(ctx context.Context, generation int64, categories []domain.Category) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, c.key(generationKey)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleGeneration
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(catalogKey), data, c.ttl)
			return nil
		})
		return err
	}, c.key(generationKey))

	if errors.Is(err, errStaleGeneration) || errors.Is(err, redis.TxFailedErr) {
		zap.L().Debug("Skipping stale catalog cache write", zap.Int64("generation", generation))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to cache catalog: %w", err)
	}
	return nil
}

// Invalidate drops the list and bumps the generation in one transaction.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.key(generationKey))
		pipe.Del(ctx, c.key(catalogKey))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return nil
}

var errStaleGeneration = errors.New("catalog generation changed")

func parseGeneration(v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	generation, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid catalog generation %q: %w", s, err)
	}
	return generation, nil
}
