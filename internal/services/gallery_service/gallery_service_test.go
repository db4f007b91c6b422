package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"gallerypress/internal/domain/models"
	"gallerypress/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGalleryRepository struct {
	mock.Mock
}

func (m *MockGalleryRepository) CreateGallery(ctx context.Context, gallery models.Gallery) (uuid.UUID, error) {
	args := m.Called(ctx, gallery)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockGalleryRepository) UpdateGallery(ctx context.Context, gallery models.Gallery) error {
	args := m.Called(ctx, gallery)
	return args.Error(0)
}

func (m *MockGalleryRepository) DeleteGallery(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGalleryRepository) GetGalleryByID(ctx context.Context, id uuid.UUID) (models.Gallery, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Gallery), args.Error(1)
}

func (m *MockGalleryRepository) GetGalleryBySlug(ctx context.Context, slug string) (models.Gallery, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.Gallery), args.Error(1)
}

func (m *MockGalleryRepository) GetGalleries(ctx context.Context, publishedOnly bool, page, perPage int) ([]models.Gallery, int, error) {
	args := m.Called(ctx, publishedOnly, page, perPage)
	return args.Get(0).([]models.Gallery), args.Int(1), args.Error(2)
}

func (m *MockGalleryRepository) GetGalleriesByTags(ctx context.Context, tags []string, matchAll bool) ([]models.Gallery, error) {
	args := m.Called(ctx, tags, matchAll)
	return args.Get(0).([]models.Gallery), args.Error(1)
}

func (m *MockGalleryRepository) ListItems(ctx context.Context, galleryID uuid.UUID) ([]*models.GalleryItem, error) {
	args := m.Called(ctx, galleryID)
	if items := args.Get(0); items != nil {
		return items.([]*models.GalleryItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGalleryRepository) GetItemByID(ctx context.Context, id uuid.UUID) (*models.GalleryItem, error) {
	args := m.Called(ctx, id)
	if item := args.Get(0); item != nil {
		return item.(*models.GalleryItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGalleryRepository) SaveItem(ctx context.Context, item *models.GalleryItem) (uuid.UUID, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockGalleryRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPhotoRepository struct {
	mock.Mock
}

func (m *MockPhotoRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	args := m.Called(ctx, id)
	if photo := args.Get(0); photo != nil {
		return photo.(*models.Photo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPhotoRepository) UpdateAppData(ctx context.Context, id uuid.UUID, appData models.Metadata) error {
	args := m.Called(ctx, id, appData)
	return args.Error(0)
}

type MockPublishableRepository struct {
	mock.Mock
}

func (m *MockPublishableRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Publishable, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Publishable), args.Error(1)
}

type MockCollectionCache struct {
	mock.Mock
}

func (m *MockCollectionCache) Get(ctx context.Context, galleryID uuid.UUID) (*models.ItemCollection, error) {
	args := m.Called(ctx, galleryID)
	if c := args.Get(0); c != nil {
		return c.(*models.ItemCollection), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCollectionCache) Set(ctx context.Context, galleryID uuid.UUID, collection *models.ItemCollection) error {
	args := m.Called(ctx, galleryID, collection)
	return args.Error(0)
}

func (m *MockCollectionCache) Delete(ctx context.Context, galleryID uuid.UUID) error {
	args := m.Called(ctx, galleryID)
	return args.Error(0)
}

type serviceMocks struct {
	repo   *MockGalleryRepository
	photos *MockPhotoRepository
	pubs   *MockPublishableRepository
	cache  *MockCollectionCache
}

func newTestService(denormalize bool) (*GalleryService, *serviceMocks) {
	m := &serviceMocks{
		repo:   new(MockGalleryRepository),
		photos: new(MockPhotoRepository),
		pubs:   new(MockPublishableRepository),
		cache:  new(MockCollectionCache),
	}
	svc := NewGalleryService(slog.Default(), m.repo, m.photos, m.pubs, m.cache, denormalize)
	return svc, m
}

func testGallery() *models.Gallery {
	return &models.Gallery{
		Publishable: models.Publishable{
			ID:           uuid.New(),
			Title:        "Holiday",
			Slug:         "holiday",
			CategoryPath: "travel",
			Published:    true,
			PublishFrom:  time.Now().Add(-time.Hour),
		},
	}
}

func testItems(galleryID uuid.UUID, bases ...string) []*models.GalleryItem {
	items := make([]*models.GalleryItem, 0, len(bases))
	for i, base := range bases {
		items = append(items, &models.GalleryItem{
			ID:        uuid.New(),
			Slug:      base,
			GalleryID: galleryID,
			Order:     i,
		})
	}
	return items
}

func TestGalleryService_Collection_UnsavedGallery(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(false)

	collection, err := svc.Collection(ctx, &models.Gallery{})

	require.NoError(t, err)
	assert.Equal(t, 0, collection.Len())
	m.cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestGalleryService_Collection_CacheHit(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(false)
	gallery := testGallery()

	cached := models.BuildItemCollection(testItems(gallery.ID, "a", "b"))
	m.cache.On("Get", ctx, gallery.ID).Return(cached, nil).Once()

	collection, err := svc.Collection(ctx, gallery)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, collection.Slugs())
	m.repo.AssertNotCalled(t, "ListItems", mock.Anything, mock.Anything)
	m.cache.AssertExpectations(t)

	// the hit was attached to the instance, so items know their gallery
	first, _ := collection.Get("a")
	assert.Same(t, gallery, first.Gallery())
}

func TestGalleryService_Collection_CacheMissRebuilds(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(false)
	gallery := testGallery()
	items := testItems(gallery.ID, "a", "a", "b")

	m.cache.On("Get", ctx, gallery.ID).Return(nil, storage.ErrCacheMiss).Once()
	m.repo.On("ListItems", ctx, gallery.ID).Return(items, nil).Once()
	m.cache.On("Set", ctx, gallery.ID, mock.AnythingOfType("*models.ItemCollection")).Return(nil).Once()

	collection, err := svc.Collection(ctx, gallery)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a2", "b"}, collection.Slugs())
	m.repo.AssertExpectations(t)
	m.cache.AssertExpectations(t)
}

func TestGalleryService_Collection_MemoizedPerInstance(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(false)
	gallery := testGallery()

	cached := models.BuildItemCollection(testItems(gallery.ID, "a"))
	m.cache.On("Get", ctx, gallery.ID).Return(cached, nil).Once()

	first, err := svc.Collection(ctx, gallery)
	require.NoError(t, err)
	second, err := svc.Collection(ctx, gallery)
	require.NoError(t, err)

	assert.Same(t, first, second)
	m.cache.AssertNumberOfCalls(t, "Get", 1)
}

func TestGalleryService_Collection_CacheUnavailable(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(false)
	gallery := testGallery()

	m.cache.On("Get", ctx, gallery.ID).Return(nil, errors.New("connection refused")).Once()

	_, err := svc.Collection(ctx, gallery)

	assert.Error(t, err)
	m.repo.AssertNotCalled(t, "ListItems", mock.Anything, mock.Anything)
}

func TestGalleryService_SaveItem_InvalidatesCollection(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(false)
	galleryID := uuid.New()
	item := &models.GalleryItem{GalleryID: galleryID, Order: 1}
	itemID := uuid.New()

	m.repo.On("SaveItem", ctx, item).Return(itemID, nil).Once()
	m.cache.On("Delete", ctx, galleryID).Return(nil).Once()

	id, err := svc.SaveItem(ctx, item)

	require.NoError(t, err)
	assert.Equal(t, itemID, id)
	m.cache.AssertExpectations(t)
}

func TestGalleryService_SaveItem_RepoErrorSkipsInvalidation(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(false)
	item := &models.GalleryItem{GalleryID: uuid.New()}

	m.repo.On("SaveItem", ctx, item).Return(uuid.Nil, errors.New("insert failed")).Once()

	_, err := svc.SaveItem(ctx, item)

	assert.Error(t, err)
	m.cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestGalleryService_DeleteItem_InvalidatesCollection(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(false)
	galleryID := uuid.New()
	itemID := uuid.New()
	item := &models.GalleryItem{ID: itemID, GalleryID: galleryID}

	m.repo.On("GetItemByID", ctx, itemID).Return(item, nil).Once()
	m.repo.On("DeleteItem", ctx, itemID).Return(nil).Once()
	m.cache.On("Delete", ctx, galleryID).Return(nil).Once()

	require.NoError(t, svc.DeleteItem(ctx, itemID))
	m.cache.AssertExpectations(t)
}

func TestGalleryService_Photo_Direct(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(false)
	gallery := testGallery()
	photoID := uuid.New()
	gallery.PhotoID = &photoID
	want := &models.Photo{ID: photoID, Slug: "cover"}

	m.photos.On("FindByID", ctx, photoID).Return(want, nil).Once()

	photo, err := svc.Photo(ctx, gallery)

	require.NoError(t, err)
	assert.Same(t, want, photo)
	m.cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestGalleryService_Photo_FirstItemFallback(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(false)
	gallery := testGallery()

	p1 := &models.Photo{ID: uuid.New(), Slug: "p1"}
	p2 := &models.Photo{ID: uuid.New(), Slug: "p2"}
	items := testItems(gallery.ID, "a", "b")
	items[0].Photo = p1
	items[1].Photo = p2

	m.cache.On("Get", ctx, gallery.ID).Return(models.BuildItemCollection(items), nil).Once()

	photo, err := svc.Photo(ctx, gallery)

	require.NoError(t, err)
	assert.Same(t, p1, photo)
}

func TestGalleryService_Photo_EmptyGallery(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(false)
	gallery := testGallery()

	m.cache.On("Get", ctx, gallery.ID).Return(models.BuildItemCollection(nil), nil).Once()

	photo, err := svc.Photo(ctx, gallery)

	require.NoError(t, err)
	assert.Nil(t, photo)
}

func appDataWithRecentPub(id uuid.UUID) models.Metadata {
	return models.Metadata{models.AppDataRecentPub: id.String()}
}

func TestGalleryService_SaveItem_DenormalizesRecentPub(t *testing.T) {
	ctx := context.Background()
	gallery := testGallery()
	photo := func(appData models.Metadata) *models.Photo {
		return &models.Photo{ID: uuid.New(), Slug: "p", AppData: appData}
	}
	priorID := uuid.New()

	tests := []struct {
		name          string
		appData       models.Metadata
		priorLookup   func(m *serviceMocks)
		wantOverwrite bool
	}{
		{
			name:          "no prior value overwrites",
			appData:       nil,
			priorLookup:   func(m *serviceMocks) {},
			wantOverwrite: true,
		},
		{
			name:    "prior older overwrites",
			appData: appDataWithRecentPub(priorID),
			priorLookup: func(m *serviceMocks) {
				m.pubs.On("GetByID", ctx, priorID).Return(models.Publishable{
					ID:          priorID,
					PublishFrom: gallery.PublishFrom.Add(-time.Hour),
				}, nil).Once()
			},
			wantOverwrite: true,
		},
		{
			name:    "prior newer is kept",
			appData: appDataWithRecentPub(priorID),
			priorLookup: func(m *serviceMocks) {
				m.pubs.On("GetByID", ctx, priorID).Return(models.Publishable{
					ID:          priorID,
					PublishFrom: gallery.PublishFrom.Add(time.Hour),
				}, nil).Once()
			},
			wantOverwrite: false,
		},
		{
			name:    "prior lookup failure overwrites",
			appData: appDataWithRecentPub(priorID),
			priorLookup: func(m *serviceMocks) {
				m.pubs.On("GetByID", ctx, priorID).Return(models.Publishable{}, storage.ErrPublishableNotFound).Once()
			},
			wantOverwrite: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(true)
			p := photo(tt.appData)
			item := &models.GalleryItem{
				ID:        uuid.New(),
				GalleryID: gallery.ID,
				PhotoID:   &p.ID,
				Photo:     p,
				Order:     1,
			}

			m.repo.On("SaveItem", ctx, item).Return(item.ID, nil).Once()
			m.repo.On("GetGalleryByID", ctx, gallery.ID).Return(*gallery, nil).Once()
			m.cache.On("Delete", ctx, gallery.ID).Return(nil).Once()
			tt.priorLookup(m)

			if tt.wantOverwrite {
				m.photos.On("UpdateAppData", ctx, p.ID, mock.MatchedBy(func(md models.Metadata) bool {
					return md[models.AppDataRecentPub] == gallery.ID.String()
				})).Return(nil).Once()
			}

			_, err := svc.SaveItem(ctx, item)
			require.NoError(t, err)

			if tt.wantOverwrite {
				m.photos.AssertExpectations(t)
			} else {
				m.photos.AssertNotCalled(t, "UpdateAppData", mock.Anything, mock.Anything, mock.Anything)
			}
			m.pubs.AssertExpectations(t)
		})
	}
}

func TestGalleryService_SaveItem_NoDenormalizationForUnpublished(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(true)
	gallery := testGallery()
	gallery.Published = false

	p := &models.Photo{ID: uuid.New()}
	item := &models.GalleryItem{ID: uuid.New(), GalleryID: gallery.ID, PhotoID: &p.ID, Photo: p}

	m.repo.On("SaveItem", ctx, item).Return(item.ID, nil).Once()
	m.repo.On("GetGalleryByID", ctx, gallery.ID).Return(*gallery, nil).Once()
	m.cache.On("Delete", ctx, gallery.ID).Return(nil).Once()

	_, err := svc.SaveItem(ctx, item)

	require.NoError(t, err)
	m.photos.AssertNotCalled(t, "UpdateAppData", mock.Anything, mock.Anything, mock.Anything)
}
