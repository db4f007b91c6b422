package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Metadata map[string]interface{}

// AppDataRecentPub keys the id of the most recently published publishable that
// references a photo, denormalized into the photo's app data.
const AppDataRecentPub = "recent_pub"

// Photo is a stored image that galleries reference by id.
type Photo struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Slug      string    `json:"slug" db:"slug"`
	Image     string    `json:"image" db:"image"`
	Width     *int      `json:"width,omitempty" db:"width"`
	Height    *int      `json:"height,omitempty" db:"height"`
	AppData   Metadata  `json:"app_data,omitempty" db:"app_data"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RecentPub returns the denormalized recent-publishable id, if present.
func (p *Photo) RecentPub() (uuid.UUID, bool) {
	if p.AppData == nil {
		return uuid.Nil, false
	}
	raw, ok := p.AppData[AppDataRecentPub]
	if !ok {
		return uuid.Nil, false
	}
	s, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// SetRecentPub overwrites the denormalized recent-publishable id.
func (p *Photo) SetRecentPub(id uuid.UUID) {
	if p.AppData == nil {
		p.AppData = make(Metadata)
	}
	p.AppData[AppDataRecentPub] = id.String()
}

// Value implements driver.Valuer to serialize Metadata into JSONB.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner to deserialize JSONB into Metadata.
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			*m = nil
			return nil
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, m)
}
