package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gallerypress/internal/domain/models"
)

// ErrNotFound marks an empty gallery or an unknown item slug with redirects
// disabled. The transport maps it to a 404.
var ErrNotFound = errors.New("gallery item not found")

// RedirectError tells the transport to issue a redirect to the gallery's
// canonical URL instead of rendering.
type RedirectError struct {
	URL       string
	Permanent bool
}

func (e *RedirectError) Error() string {
	return "redirect to " + e.URL
}

// NavigationResult is the rendering context for one gallery page: the
// selected item, its 1-based position and its immediate neighbours.
type NavigationResult struct {
	Gallery    *models.Gallery
	Item       *models.GalleryItem
	ItemList   []*models.GalleryItem
	Next       *models.GalleryItem
	Previous   *models.GalleryItem
	Count      int
	Position   int
	CountStr   string
	OnItemPage bool
}

// Navigator resolves item-detail requests against a gallery's collection.
type Navigator struct {
	log       *slog.Logger
	galleries *GalleryService

	// redirectEnabled switches the unknown-slug outcome from 404 to a
	// permanent redirect to the gallery itself.
	redirectEnabled bool
}

func NewNavigator(log *slog.Logger, galleries *GalleryService, redirectEnabled bool) *Navigator {
	return &Navigator{
		log:             log,
		galleries:       galleries,
		redirectEnabled: redirectEnabled,
	}
}

// Resolve returns the navigation context for a gallery page. An empty
// itemSlug selects the gallery front page, which shows the first item.
func (n *Navigator) Resolve(ctx context.Context, gallery *models.Gallery, itemSlug string) (*NavigationResult, error) {
	const op = "service.Navigator.Resolve"

	log := n.log.With(
		slog.String("op", op),
		slog.String("gallery_id", gallery.ID.String()),
		slog.String("item_slug", itemSlug),
	)

	collection, err := n.galleries.Collection(ctx, gallery)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	count := collection.Len()
	if count == 0 {
		log.Warn("empty gallery is not navigable")
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	res := &NavigationResult{
		Gallery:    gallery,
		ItemList:   collection.Items(),
		Count:      count,
		CountStr:   countStr(count),
		OnItemPage: itemSlug != "",
	}

	if itemSlug == "" {
		res.Item = collection.At(0)
		res.Position = 1
		if count > 1 {
			res.Next = collection.At(1)
		}
		return res, nil
	}

	item, ok := collection.Get(itemSlug)
	if !ok {
		if n.redirectEnabled {
			return nil, &RedirectError{URL: gallery.AbsoluteURL(), Permanent: true}
		}
		log.Warn("item slug not in collection")
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	index := collection.Index(itemSlug)
	res.Item = item
	res.Position = index + 1
	if index > 0 {
		res.Previous = collection.At(index - 1)
	}
	if index+1 < count {
		res.Next = collection.At(index + 1)
	}

	return res, nil
}

func countStr(count int) string {
	if count == 1 {
		return "1 object total"
	}
	return fmt.Sprintf("%d objects total", count)
}
