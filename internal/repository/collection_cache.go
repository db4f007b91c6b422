package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gallerypress/internal/domain/models"
	"gallerypress/internal/storage"
	redisapp "gallerypress/internal/storage/redis"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

func collectionKey(galleryID uuid.UUID) string {
	return "galitems:" + galleryID.String()
}

// RedisCollectionCache stores built item collections in redis, one JSON entry
// per gallery, without expiry. Item saves delete the entry explicitly.
type RedisCollectionCache struct {
	client *redisapp.Client
}

func NewRedisCollectionCache(client *redisapp.Client) *RedisCollectionCache {
	return &RedisCollectionCache{client: client}
}

func (r *RedisCollectionCache) Get(ctx context.Context, galleryID uuid.UUID) (*models.ItemCollection, error) {
	const op = "repository.RedisCollectionCache.Get"

	val, err := r.client.Get(ctx, collectionKey(galleryID)).Result()
	if err == redis.Nil {
		return nil, storage.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var collection models.ItemCollection
	if err := json.Unmarshal([]byte(val), &collection); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &collection, nil
}

func (r *RedisCollectionCache) Set(ctx context.Context, galleryID uuid.UUID, collection *models.ItemCollection) error {
	const op = "repository.RedisCollectionCache.Set"

	data, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := r.client.Set(ctx, collectionKey(galleryID), data, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *RedisCollectionCache) Delete(ctx context.Context, galleryID uuid.UUID) error {
	const op = "repository.RedisCollectionCache.Delete"

	if err := r.client.Del(ctx, collectionKey(galleryID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MemoryCollectionCache is the in-process stand-in used for the local env and
// tests. Entries go through the same JSON codec as redis so cached collections
// never share item pointers (and their transient back-references) between
// requests.
type MemoryCollectionCache struct {
	c *gocache.Cache
}

func NewMemoryCollectionCache() *MemoryCollectionCache {
	return &MemoryCollectionCache{c: gocache.New(gocache.NoExpiration, 0)}
}

func (m *MemoryCollectionCache) Get(ctx context.Context, galleryID uuid.UUID) (*models.ItemCollection, error) {
	const op = "repository.MemoryCollectionCache.Get"

	raw, ok := m.c.Get(collectionKey(galleryID))
	if !ok {
		return nil, storage.ErrCacheMiss
	}

	var collection models.ItemCollection
	if err := json.Unmarshal(raw.([]byte), &collection); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &collection, nil
}

func (m *MemoryCollectionCache) Set(ctx context.Context, galleryID uuid.UUID, collection *models.ItemCollection) error {
	const op = "repository.MemoryCollectionCache.Set"

	data, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	m.c.Set(collectionKey(galleryID), data, gocache.NoExpiration)
	return nil
}

func (m *MemoryCollectionCache) Delete(ctx context.Context, galleryID uuid.UUID) error {
	m.c.Delete(collectionKey(galleryID))
	return nil
}
