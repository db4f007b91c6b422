package models

import (
	"encoding/json"
	"strconv"
)

// ItemCollection is the ordered mapping from unique item slug to gallery item.
// Iteration order equals the items' order-ascending storage order, and every
// key is unique within the collection even when base slugs collide.
type ItemCollection struct {
	slugs []string
	items map[string]*GalleryItem
}

// BuildItemCollection assigns a unique slug to every item, preserving the
// incoming order. Colliding bases get numeric suffixes starting at 2, so three
// items deriving "a" end up as "a", "a2", "a3". Items without a derivable slug
// collide under the empty string the same way: "", "2", "3".
func BuildItemCollection(items []*GalleryItem) *ItemCollection {
	c := &ItemCollection{
		slugs: make([]string, 0, len(items)),
		items: make(map[string]*GalleryItem, len(items)),
	}
	counts := make(map[string]int)

	for _, item := range items {
		base := item.ItemSlug()
		slug := base
		for {
			if _, taken := c.items[slug]; !taken {
				break
			}
			counts[base]++
			slug = base + strconv.Itoa(counts[base]+1)
		}
		c.slugs = append(c.slugs, slug)
		c.items[slug] = item
	}
	return c
}

func (c *ItemCollection) Len() int {
	return len(c.slugs)
}

// Slugs returns the unique slugs in iteration order.
func (c *ItemCollection) Slugs() []string {
	out := make([]string, len(c.slugs))
	copy(out, c.slugs)
	return out
}

// Get looks an item up by its unique slug.
func (c *ItemCollection) Get(slug string) (*GalleryItem, bool) {
	item, ok := c.items[slug]
	return item, ok
}

// At returns the item at position i (0-based) in iteration order.
func (c *ItemCollection) At(i int) *GalleryItem {
	if i < 0 || i >= len(c.slugs) {
		return nil
	}
	return c.items[c.slugs[i]]
}

// Index returns the 0-based position of slug, or -1 when absent.
func (c *ItemCollection) Index(slug string) int {
	for i, s := range c.slugs {
		if s == slug {
			return i
		}
	}
	return -1
}

// Items returns all items in iteration order.
func (c *ItemCollection) Items() []*GalleryItem {
	out := make([]*GalleryItem, 0, len(c.slugs))
	for _, s := range c.slugs {
		out = append(out, c.items[s])
	}
	return out
}

// SlugOf scans the collection for the unique slug assigned to item.
// Collections are small, so the linear scan is fine; callers memoize via
// GalleryItem.UniqueSlug.
func (c *ItemCollection) SlugOf(item *GalleryItem) string {
	for _, s := range c.slugs {
		if c.items[s] == item || c.items[s].ID == item.ID {
			return s
		}
	}
	return ""
}

type collectionEntry struct {
	Slug string       `json:"slug"`
	Item *GalleryItem `json:"item"`
}

// MarshalJSON encodes the collection as an ordered entry list so the cached
// form round-trips with iteration order intact.
func (c *ItemCollection) MarshalJSON() ([]byte, error) {
	entries := make([]collectionEntry, 0, len(c.slugs))
	for _, s := range c.slugs {
		entries = append(entries, collectionEntry{Slug: s, Item: c.items[s]})
	}
	return json.Marshal(entries)
}

// UnmarshalJSON restores a collection from its cached form. Slugs are trusted
// as stored; the build algorithm already made them unique.
func (c *ItemCollection) UnmarshalJSON(data []byte) error {
	var entries []collectionEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	c.slugs = make([]string, 0, len(entries))
	c.items = make(map[string]*GalleryItem, len(entries))
	for _, e := range entries {
		c.slugs = append(c.slugs, e.Slug)
		c.items[e.Slug] = e.Item
	}
	return nil
}
