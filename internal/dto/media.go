package dto

import (
	"strings"
	"time"

	"github.com/contactdeck/contactdeck/internal/domain"
)

// CreateVideoRequest creates a video entry.
type CreateVideoRequest struct {
	Title        string `json:"title" binding:"required,min=1"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	URL          string `json:"url" binding:"required,url"`
	ThumbnailURL string `json:"thumbnail_url"`
	DurationSec  int    `json:"duration_sec"`
	Status       string `json:"status"`
}

// Validate checks the create payload.
func (r *CreateVideoRequest) Validate() (bool, string) {
	if strings.TrimSpace(r.Title) == "" {
		return false, "Title is required"
	}
	if r.DurationSec < 0 {
		return false, "Duration cannot be negative"
	}
	if r.Status != "" && r.Status != string(domain.VideoStatusDraft) && r.Status != string(domain.VideoStatusPublished) {
		return false, "Status must be draft or published"
	}
	return true, ""
}

// UpdateVideoRequest updates a video entry.
type UpdateVideoRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	URL          *string `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url"`
	DurationSec  *int    `json:"duration_sec"`
	Status       *string `json:"status"`
}

// Validate checks the update payload.
func (r *UpdateVideoRequest) Validate() (bool, string) {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return false, "Title cannot be empty"
	}
	if r.DurationSec != nil && *r.DurationSec < 0 {
		return false, "Duration cannot be negative"
	}
	if r.Status != nil && *r.Status != string(domain.VideoStatusDraft) && *r.Status != string(domain.VideoStatusPublished) {
		return false, "Status must be draft or published"
	}
	return true, ""
}

// GalleryImageInput is one image in a gallery payload. Order in the slice
// determines display position.
type GalleryImageInput struct {
	URL     string `json:"url" binding:"required,url"`
	Caption string `json:"caption"`
	AltText string `json:"alt_text"`
}

// CreateGalleryRequest creates a gallery with its images.
type CreateGalleryRequest struct {
	Title       string              `json:"title" binding:"required,min=1"`
	Slug        string              `json:"slug"`
	Description string              `json:"description"`
	IsPublic    bool                `json:"is_public"`
	Images      []GalleryImageInput `json:"images"`
}

// Validate checks the create payload.
func (r *CreateGalleryRequest) Validate() (bool, string) {
	if strings.TrimSpace(r.Title) == "" {
		return false, "Title is required"
	}
	for _, img := range r.Images {
		if strings.TrimSpace(img.URL) == "" {
			return false, "Image URL is required"
		}
	}
	return true, ""
}

// UpdateGalleryRequest updates a gallery. A non-nil Images slice replaces
// the full image set.
type UpdateGalleryRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	IsPublic    *bool                `json:"is_public"`
	Images      *[]GalleryImageInput `json:"images"`
}

// Validate checks the update payload.
func (r *UpdateGalleryRequest) Validate() (bool, string) {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return false, "Title cannot be empty"
	}
	if r.Images != nil {
		for _, img := range *r.Images {
			if strings.TrimSpace(img.URL) == "" {
				return false, "Image URL is required"
			}
		}
	}
	return true, ""
}

// VideoResponse is the public view of a video.
type VideoResponse struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Slug         string       `json:"slug"`
	Description  string       `json:"description"`
	URL          string       `json:"url"`
	ThumbnailURL string       `json:"thumbnail_url"`
	DurationSec  int          `json:"duration_sec"`
	Status       string       `json:"status"`
	Tags         []domain.Tag `json:"tags"`
	CreatedAt    string       `json:"created_at"`
	UpdatedAt    string       `json:"updated_at"`
}

// GalleryResponse is the public view of a gallery.
type GalleryResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Slug        string                `json:"slug"`
	Description string                `json:"description"`
	IsPublic    bool                  `json:"is_public"`
	Images      []domain.GalleryImage `json:"images"`
	CreatedAt   string                `json:"created_at"`
	UpdatedAt   string                `json:"updated_at"`
}

// ToVideoResponse converts a domain video.
func ToVideoResponse(v *domain.Video) *VideoResponse {
	tags := v.Tags
	if tags == nil {
		tags = []domain.Tag{}
	}
	return &VideoResponse{
		ID:           v.ID,
		Title:        v.Title,
		Slug:         v.Slug,
		Description:  v.Description,
		URL:          v.URL,
		ThumbnailURL: v.ThumbnailURL,
		DurationSec:  v.DurationSec,
		Status:       string(v.Status),
		Tags:         tags,
		CreatedAt:    v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    v.UpdatedAt.Format(time.RFC3339),
	}
}

// ToGalleryResponse converts a domain gallery.
func ToGalleryResponse(g *domain.Gallery) *GalleryResponse {
	images := g.Images
	if images == nil {
		images = []domain.GalleryImage{}
	}
	return &GalleryResponse{
		ID:          g.ID,
		Title:       g.Title,
		Slug:        g.Slug,
		Description: g.Description,
		IsPublic:    g.IsPublic,
		Images:      images,
		CreatedAt:   g.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   g.UpdatedAt.Format(time.RFC3339),
	}
}
