package repository

import (
	"context"
	"encoding/json"
	"testing"

	"gallerypress/internal/domain/models"
	"gallerypress/internal/storage"
	redisapp "gallerypress/internal/storage/redis"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cachedCollection(t *testing.T, galleryID uuid.UUID, slugs ...string) *models.ItemCollection {
	t.Helper()

	items := make([]*models.GalleryItem, 0, len(slugs))
	for i, slug := range slugs {
		items = append(items, &models.GalleryItem{
			ID:        uuid.New(),
			Slug:      slug,
			GalleryID: galleryID,
			Order:     i,
		})
	}
	return models.BuildItemCollection(items)
}

func TestRedisCollectionCache_GetMiss(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	cache := NewRedisCollectionCache(&redisapp.Client{Client: db})
	galleryID := uuid.New()

	mockRedis.ExpectGet(collectionKey(galleryID)).RedisNil()

	_, err := cache.Get(context.Background(), galleryID)

	assert.ErrorIs(t, err, storage.ErrCacheMiss)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestRedisCollectionCache_SetThenGet(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	cache := NewRedisCollectionCache(&redisapp.Client{Client: db})
	galleryID := uuid.New()

	collection := cachedCollection(t, galleryID, "a", "a", "b")
	data, err := json.Marshal(collection)
	require.NoError(t, err)

	mockRedis.ExpectSet(collectionKey(galleryID), data, 0).SetVal("OK")
	mockRedis.ExpectGet(collectionKey(galleryID)).SetVal(string(data))

	require.NoError(t, cache.Set(context.Background(), galleryID, collection))

	got, err := cache.Get(context.Background(), galleryID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a2", "b"}, got.Slugs())
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestRedisCollectionCache_Delete(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	cache := NewRedisCollectionCache(&redisapp.Client{Client: db})
	galleryID := uuid.New()

	mockRedis.ExpectDel(collectionKey(galleryID)).SetVal(1)

	require.NoError(t, cache.Delete(context.Background(), galleryID))
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestMemoryCollectionCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCollectionCache()
	galleryID := uuid.New()

	_, err := cache.Get(ctx, galleryID)
	assert.ErrorIs(t, err, storage.ErrCacheMiss)

	collection := cachedCollection(t, galleryID, "a", "b")
	require.NoError(t, cache.Set(ctx, galleryID, collection))

	got, err := cache.Get(ctx, galleryID)
	require.NoError(t, err)
	assert.Equal(t, collection.Slugs(), got.Slugs())

	// the codec isolates cached entries from the collection that was stored
	orig, _ := collection.Get("a")
	cached, _ := got.Get("a")
	assert.Equal(t, orig.ID, cached.ID)
	assert.NotSame(t, orig, cached)

	require.NoError(t, cache.Delete(ctx, galleryID))
	_, err = cache.Get(ctx, galleryID)
	assert.ErrorIs(t, err, storage.ErrCacheMiss)
}
