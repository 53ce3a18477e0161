package domain

import (
	"time"
)

// VideoStatus represents the publication state of a video.
type VideoStatus string

const (
	VideoStatusDraft     VideoStatus = "draft"
	VideoStatusPublished VideoStatus = "published"
)

// Video represents an embedded or hosted video entry.
type Video struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Description string      `json:"description"`
	URL         string      `json:"url"`
	ThumbnailURL string     `json:"thumbnail_url"`
	DurationSec int         `json:"duration_sec"`
	Status      VideoStatus `json:"status"`
	Tags        []Tag       `json:"tags,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	DeletedAt   *time.Time  `json:"deleted_at,omitempty"`
}

// Gallery represents an ordered collection of images.
type Gallery struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	Images      []GalleryImage `json:"images"`
	IsPublic    bool           `json:"is_public"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   *time.Time     `json:"deleted_at,omitempty"`
}

// GalleryImage is a single image within a gallery. Position determines the
// display order.
type GalleryImage struct {
	ID        string `json:"id"`
	GalleryID string `json:"gallery_id"`
	URL       string `json:"url"`
	Caption   string `json:"caption"`
	AltText   string `json:"alt_text"`
	Position  int    `json:"position"`
}
