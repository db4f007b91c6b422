package models

import (
	"time"

	"github.com/google/uuid"
)

// Publishable holds the fields shared by every content item the platform can
// publish: title, slug, category placement and the publish window.
type Publishable struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	CategoryPath string     `json:"category_path"`
	PhotoID      *uuid.UUID `json:"photo_id,omitempty"`
	Published    bool       `json:"published"`
	PublishFrom  time.Time  `json:"publish_from"`
	PublishTo    *time.Time `json:"publish_to,omitempty"`
}

// IsPublished reports whether the publishable is visible right now.
func (p *Publishable) IsPublished() bool {
	now := time.Now()
	if !p.Published || p.PublishFrom.After(now) {
		return false
	}
	return p.PublishTo == nil || p.PublishTo.After(now)
}

// AbsoluteURL returns the canonical address: /<category path>/<slug>/.
func (p *Publishable) AbsoluteURL() string {
	if p.CategoryPath == "" {
		return "/" + p.Slug + "/"
	}
	return "/" + p.CategoryPath + "/" + p.Slug + "/"
}
