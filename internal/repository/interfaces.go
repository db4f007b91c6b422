package repository

import (
	"context"

	"gallerypress/internal/domain/models"

	"github.com/google/uuid"
)

type GalleryRepository interface {
	CreateGallery(ctx context.Context, gallery models.Gallery) (uuid.UUID, error)
	UpdateGallery(ctx context.Context, gallery models.Gallery) error
	DeleteGallery(ctx context.Context, id uuid.UUID) error
	GetGalleryByID(ctx context.Context, id uuid.UUID) (models.Gallery, error)
	GetGalleryBySlug(ctx context.Context, slug string) (models.Gallery, error)
	GetGalleries(ctx context.Context, publishedOnly bool, page int, perPage int) ([]models.Gallery, int, error)
	GetGalleriesByTags(ctx context.Context, tags []string, matchAll bool) ([]models.Gallery, error)
	ListItems(ctx context.Context, galleryID uuid.UUID) ([]*models.GalleryItem, error)
	GetItemByID(ctx context.Context, id uuid.UUID) (*models.GalleryItem, error)
	SaveItem(ctx context.Context, item *models.GalleryItem) (uuid.UUID, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type PhotoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Photo, error)
	UpdateAppData(ctx context.Context, id uuid.UUID, appData models.Metadata) error
}

// PublishableRepository resolves publish metadata by id for the recent-pub
// denormalization compare. Galleries are the only publishable type here, but
// the lookup stays behind its own interface.
type PublishableRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (models.Publishable, error)
}

// CollectionCache is the keyed cache the item collection reads through.
// Get returns storage.ErrCacheMiss when the key is absent. Entries never
// expire; invalidation is explicit via Delete.
type CollectionCache interface {
	Get(ctx context.Context, galleryID uuid.UUID) (*models.ItemCollection, error)
	Set(ctx context.Context, galleryID uuid.UUID, collection *models.ItemCollection) error
	Delete(ctx context.Context, galleryID uuid.UUID) error
}
