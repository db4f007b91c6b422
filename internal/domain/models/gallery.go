package models

import (
	"time"

	"github.com/google/uuid"
)

// Gallery represents a publishable collection of ordered photo items.
// Content keeps the gallery description shown alongside the items.
type Gallery struct {
	Publishable

	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// items is memoized per gallery instance and must not outlive it:
	// AttachItems hangs a back-reference to this instance on every item.
	items *ItemCollection
}

// Items returns the item collection memoized on this instance, if any.
func (g *Gallery) Items() (*ItemCollection, bool) {
	return g.items, g.items != nil
}

// AttachItems memoizes c on this gallery instance and gives every item its
// back-reference and unique slug so later lookups skip the collection scan.
func (g *Gallery) AttachItems(c *ItemCollection) {
	for _, slug := range c.Slugs() {
		item, _ := c.Get(slug)
		item.gallery = g
		item.uniqueSlug = slug
		item.slugSet = true
	}
	g.items = c
}

// GalleryItem is one photo's membership in a gallery: position within it plus
// optional per-gallery title and description overrides.
type GalleryItem struct {
	ID        uuid.UUID  `json:"id"`
	Slug      string     `json:"slug,omitempty"`
	GalleryID uuid.UUID  `json:"gallery_id"`
	PhotoID   *uuid.UUID `json:"photo_id,omitempty"`
	Photo     *Photo     `json:"photo,omitempty"`
	Order     int        `json:"order"`
	Title     string     `json:"title,omitempty"`
	Text      string     `json:"text,omitempty"`
	AppData   Metadata   `json:"app_data,omitempty"`

	gallery    *Gallery
	uniqueSlug string
	slugSet    bool
}

// ItemSlug derives the base slug: the explicit override if set, else the
// photo's slug, else empty.
func (it *GalleryItem) ItemSlug() string {
	if it.Slug != "" {
		return it.Slug
	}
	if it.Photo != nil {
		return it.Photo.Slug
	}
	return ""
}

// ItemTitle returns the override title if set, else the photo's title.
func (it *GalleryItem) ItemTitle() string {
	if it.Title != "" {
		return it.Title
	}
	if it.Photo != nil {
		return it.Photo.Title
	}
	return ""
}

// Gallery returns the owning gallery attached for this request, if any.
func (it *GalleryItem) Gallery() *Gallery {
	return it.gallery
}

// UniqueSlug returns the key this item holds in its gallery's collection,
// even when several items derive the same base slug. Memoized per instance.
func (it *GalleryItem) UniqueSlug() string {
	if !it.slugSet && it.gallery != nil {
		if c, ok := it.gallery.Items(); ok {
			it.uniqueSlug = c.SlugOf(it)
			it.slugSet = true
		}
	}
	return it.uniqueSlug
}

// AbsoluteURL resolves the first item (order 0) to the gallery's own canonical
// URL; every other item gets an item-detail path segment with its unique slug.
func (it *GalleryItem) AbsoluteURL() string {
	if it.gallery == nil {
		return ""
	}
	if it.Order == 0 {
		return it.gallery.AbsoluteURL()
	}
	return it.gallery.AbsoluteURL() + "item/" + it.UniqueSlug() + "/"
}
