package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gallerypress/internal/domain/models"
	"gallerypress/internal/lib/logger/sl"
	"gallerypress/internal/metrics"
	"gallerypress/internal/repository"
	"gallerypress/internal/storage"

	"github.com/google/uuid"
)

type GalleryService struct {
	log    *slog.Logger
	repo   repository.GalleryRepository
	photos repository.PhotoRepository
	pubs   repository.PublishableRepository
	cache  repository.CollectionCache

	// savePublishableOnPhoto gates the recent-pub denormalization onto
	// photos. Off by default.
	savePublishableOnPhoto bool
}

func NewGalleryService(
	log *slog.Logger,
	repo repository.GalleryRepository,
	photos repository.PhotoRepository,
	pubs repository.PublishableRepository,
	cache repository.CollectionCache,
	savePublishableOnPhoto bool,
) *GalleryService {
	return &GalleryService{
		log:                    log,
		repo:                   repo,
		photos:                 photos,
		pubs:                   pubs,
		cache:                  cache,
		savePublishableOnPhoto: savePublishableOnPhoto,
	}
}

// Collection returns the gallery's slug-keyed item collection: the instance
// memo first, then the cache, then a rebuild from storage. The rebuilt
// collection is stored without expiry; item saves invalidate it explicitly.
// A gallery without a persisted id always gets an empty, uncached collection.
func (s *GalleryService) Collection(ctx context.Context, gallery *models.Gallery) (*models.ItemCollection, error) {
	const op = "service.GalleryService.Collection"

	if gallery.ID == uuid.Nil {
		return models.BuildItemCollection(nil), nil
	}
	if collection, ok := gallery.Items(); ok {
		return collection, nil
	}

	log := s.log.With(
		slog.String("op", op),
		slog.String("gallery_id", gallery.ID.String()),
	)

	collection, err := s.cache.Get(ctx, gallery.ID)
	switch {
	case err == nil:
		metrics.CollectionCacheHits.Inc()
	case errors.Is(err, storage.ErrCacheMiss):
		metrics.CollectionCacheMisses.Inc()

		items, err := s.repo.ListItems(ctx, gallery.ID)
		if err != nil {
			log.Error("failed to list gallery items", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		collection = models.BuildItemCollection(items)
		if err := s.cache.Set(ctx, gallery.ID, collection); err != nil {
			log.Error("failed to cache item collection", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("item collection rebuilt", slog.Int("items", collection.Len()))
	default:
		log.Error("collection cache read failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	gallery.AttachItems(collection)
	return collection, nil
}

// Photo returns the gallery's primary photo: its own photo when set directly,
// else the first item's photo, else nil.
func (s *GalleryService) Photo(ctx context.Context, gallery *models.Gallery) (*models.Photo, error) {
	const op = "service.GalleryService.Photo"

	if gallery.PhotoID != nil {
		photo, err := s.photos.FindByID(ctx, *gallery.PhotoID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return photo, nil
	}

	collection, err := s.Collection(ctx, gallery)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if collection.Len() > 0 {
		return collection.At(0).Photo, nil
	}

	return nil, nil
}

// SaveItem persists a gallery item and drops the owning gallery's cached
// collection. Every successful item write invalidates the whole entry.
func (s *GalleryService) SaveItem(ctx context.Context, item *models.GalleryItem) (uuid.UUID, error) {
	const op = "service.GalleryService.SaveItem"

	log := s.log.With(
		slog.String("op", op),
		slog.String("gallery_id", item.GalleryID.String()),
	)

	if item.GalleryID == uuid.Nil {
		log.Error("gallery_id is required")
		return uuid.Nil, fmt.Errorf("%s: gallery_id is required", op)
	}

	id, err := s.repo.SaveItem(ctx, item)
	if err != nil {
		log.Error("failed to save gallery item", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.savePublishableOnPhoto {
		gallery, err := s.repo.GetGalleryByID(ctx, item.GalleryID)
		if err != nil {
			log.Warn("skipping recent-pub denormalization", sl.Err(err))
		} else {
			s.denormalizeRecentPub(ctx, &gallery, item)
		}
	}

	if err := s.InvalidateCollection(ctx, item.GalleryID); err != nil {
		return id, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("gallery item saved", slog.String("id", id.String()))
	return id, nil
}

// DeleteItem removes an item and invalidates the owning gallery's collection.
func (s *GalleryService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	const op = "service.GalleryService.DeleteItem"

	log := s.log.With(
		slog.String("op", op),
		slog.String("item_id", id.String()),
	)

	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		log.Error("failed to get gallery item", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.DeleteItem(ctx, id); err != nil {
		log.Error("failed to delete gallery item", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.InvalidateCollection(ctx, item.GalleryID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("gallery item deleted")
	return nil
}

// InvalidateCollection drops the cached collection for a gallery. The whole
// entry goes regardless of which field changed; the next access rebuilds it.
func (s *GalleryService) InvalidateCollection(ctx context.Context, galleryID uuid.UUID) error {
	const op = "service.GalleryService.InvalidateCollection"

	if err := s.cache.Delete(ctx, galleryID); err != nil {
		s.log.Error("failed to invalidate item collection",
			slog.String("op", op),
			slog.String("gallery_id", galleryID.String()),
			sl.Err(err),
		)
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SaveGallery creates or updates a gallery. When the denormalization flag is
// on, every item's photo gets its recent-pub stamp refreshed first.
func (s *GalleryService) SaveGallery(ctx context.Context, gallery *models.Gallery) (uuid.UUID, error) {
	const op = "service.GalleryService.SaveGallery"

	log := s.log.With(
		slog.String("op", op),
		slog.String("title", gallery.Title),
	)

	if gallery.Title == "" {
		log.Error("title is required")
		return uuid.Nil, fmt.Errorf("%s: title is required", op)
	}

	if s.savePublishableOnPhoto && gallery.ID != uuid.Nil {
		collection, err := s.Collection(ctx, gallery)
		if err != nil {
			log.Warn("skipping recent-pub denormalization", sl.Err(err))
		} else {
			for _, item := range collection.Items() {
				s.denormalizeRecentPub(ctx, gallery, item)
			}
		}
	}

	if gallery.ID == uuid.Nil {
		id, err := s.repo.CreateGallery(ctx, *gallery)
		if err != nil {
			log.Error("failed to create gallery", sl.Err(err))
			return uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}
		gallery.ID = id
		log.Info("gallery created", slog.String("id", id.String()))
		return id, nil
	}

	if err := s.repo.UpdateGallery(ctx, *gallery); err != nil {
		log.Error("failed to update gallery", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("gallery updated", slog.String("id", gallery.ID.String()))
	return gallery.ID, nil
}

// denormalizeRecentPub stamps the gallery onto the item's photo app data when
// the gallery is the freshest published publishable referencing it, so photo
// listings can show the latest usage without joining galleries. A failed
// lookup of the previous value counts as "no prior value" and overwrites.
func (s *GalleryService) denormalizeRecentPub(ctx context.Context, gallery *models.Gallery, item *models.GalleryItem) {
	const op = "service.GalleryService.denormalizeRecentPub"

	if !gallery.IsPublished() {
		return
	}

	photo := item.Photo
	if photo == nil && item.PhotoID != nil {
		var err error
		photo, err = s.photos.FindByID(ctx, *item.PhotoID)
		if err != nil {
			s.log.Warn("failed to load item photo",
				slog.String("op", op), sl.Err(err))
			return
		}
	}
	if photo == nil {
		return
	}

	if recentID, ok := photo.RecentPub(); ok {
		recent, err := s.pubs.GetByID(ctx, recentID)
		if err == nil && !recent.PublishFrom.Before(gallery.PublishFrom) {
			return
		}
	}

	photo.SetRecentPub(gallery.ID)
	if err := s.photos.UpdateAppData(ctx, photo.ID, photo.AppData); err != nil {
		s.log.Warn("failed to save photo app data",
			slog.String("op", op),
			slog.String("photo_id", photo.ID.String()),
			sl.Err(err),
		)
	}
}

// GetGalleryByID returns a gallery by id.
func (s *GalleryService) GetGalleryByID(ctx context.Context, id uuid.UUID) (models.Gallery, error) {
	const op = "service.GalleryService.GetGalleryByID"

	gallery, err := s.repo.GetGalleryByID(ctx, id)
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}
	return gallery, nil
}

// GetGalleryBySlug returns a gallery by its publishable slug.
func (s *GalleryService) GetGalleryBySlug(ctx context.Context, slug string) (models.Gallery, error) {
	const op = "service.GalleryService.GetGalleryBySlug"

	gallery, err := s.repo.GetGalleryBySlug(ctx, slug)
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}
	return gallery, nil
}

// GetGalleries returns galleries with pagination.
func (s *GalleryService) GetGalleries(ctx context.Context, publishedOnly bool, page, perPage int) ([]models.Gallery, int, error) {
	const op = "service.GalleryService.GetGalleries"

	galleries, total, err := s.repo.GetGalleries(ctx, publishedOnly, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return galleries, total, nil
}

// GetGalleriesByTags returns galleries filtered by tags.
func (s *GalleryService) GetGalleriesByTags(ctx context.Context, tags []string, matchAll bool) ([]models.Gallery, error) {
	const op = "service.GalleryService.GetGalleriesByTags"

	galleries, err := s.repo.GetGalleriesByTags(ctx, tags, matchAll)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return galleries, nil
}

// DeleteGallery removes a gallery and its cached collection.
func (s *GalleryService) DeleteGallery(ctx context.Context, id uuid.UUID) error {
	const op = "service.GalleryService.DeleteGallery"

	if err := s.repo.DeleteGallery(ctx, id); err != nil {
		s.log.Error("failed to delete gallery",
			slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return s.InvalidateCollection(ctx, id)
}
