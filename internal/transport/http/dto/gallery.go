package dto

import (
	"time"

	"github.com/google/uuid"
)

// GalleryResponse is the JSON shape of a gallery.
type GalleryResponse struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	CategoryPath string     `json:"category_path"`
	PhotoID      *uuid.UUID `json:"photo_id,omitempty"`
	Published    bool       `json:"published"`
	PublishFrom  time.Time  `json:"publish_from"`
	PublishTo    *time.Time `json:"publish_to,omitempty"`
	Content      string     `json:"content"`
	Tags         []string   `json:"tags"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	URL          string     `json:"url"`
}

type CreateGalleryRequest struct {
	Title        string     `json:"title" validate:"required"`
	Slug         string     `json:"slug" validate:"required"`
	CategoryPath string     `json:"category_path"`
	PhotoID      *uuid.UUID `json:"photo_id"`
	Published    bool       `json:"published"`
	PublishFrom  *time.Time `json:"publish_from"`
	PublishTo    *time.Time `json:"publish_to"`
	Content      string     `json:"content"`
	Tags         []string   `json:"tags"`
}

type UpdateGalleryRequest struct {
	Title        string     `json:"title" validate:"required"`
	Slug         string     `json:"slug" validate:"required"`
	CategoryPath string     `json:"category_path"`
	PhotoID      *uuid.UUID `json:"photo_id"`
	Published    bool       `json:"published"`
	PublishFrom  *time.Time `json:"publish_from"`
	PublishTo    *time.Time `json:"publish_to"`
	Content      string     `json:"content"`
	Tags         []string   `json:"tags"`
}

type GalleryListResponse struct {
	Galleries []GalleryResponse `json:"galleries"`
	Total     int               `json:"total"`
	Page      int               `json:"page"`
	PerPage   int               `json:"per_page"`
}

// SaveItemRequest covers both adding and updating a gallery item.
type SaveItemRequest struct {
	Slug    string                 `json:"slug"`
	PhotoID *uuid.UUID             `json:"photo_id"`
	Order   int                    `json:"order"`
	Title   string                 `json:"title"`
	Text    string                 `json:"text"`
	AppData map[string]interface{} `json:"app_data"`
}

// ItemResponse carries an item together with the unique slug and URL it was
// assigned inside its gallery's collection.
type ItemResponse struct {
	ID        uuid.UUID  `json:"id"`
	Slug      string     `json:"slug"`
	GalleryID uuid.UUID  `json:"gallery_id"`
	PhotoID   *uuid.UUID `json:"photo_id,omitempty"`
	Order     int        `json:"order"`
	Title     string     `json:"title"`
	Text      string     `json:"text,omitempty"`
	URL       string     `json:"url"`
}

// CollectionResponse is the ordered slug-keyed collection of a gallery.
type CollectionResponse struct {
	GalleryID uuid.UUID      `json:"gallery_id"`
	Count     int            `json:"count"`
	Items     []ItemResponse `json:"items"`
}

// NavigationResponse mirrors the rendering context of a gallery page.
type NavigationResponse struct {
	Gallery    GalleryResponse `json:"gallery"`
	Item       ItemResponse    `json:"item"`
	ItemList   []ItemResponse  `json:"item_list"`
	Next       *ItemResponse   `json:"next,omitempty"`
	Previous   *ItemResponse   `json:"previous,omitempty"`
	Count      int             `json:"count"`
	Position   int             `json:"position"`
	CountStr   string          `json:"count_str"`
	OnItemPage bool            `json:"on_item_page"`
}
