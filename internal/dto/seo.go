package dto

import (
	"strings"
)

// UpsertSEORequest creates or replaces the SEO profile for a page key.
type UpsertSEORequest struct {
	Title           string   `json:"title" binding:"required,min=1"`
	Description     string   `json:"description"`
	Keywords        []string `json:"keywords"`
	CanonicalURL    string   `json:"canonical_url"`
	OGTitle         string   `json:"og_title"`
	OGDescription   string   `json:"og_description"`
	OGImageURL      string   `json:"og_image_url"`
	RobotsDirective string   `json:"robots_directive"`
}

// Validate checks the upsert payload.
func (r *UpsertSEORequest) Validate() (bool, string) {
	if strings.TrimSpace(r.Title) == "" {
		return false, "Title is required"
	}
	if len(r.Description) > 320 {
		return false, "Description must not exceed 320 characters"
	}
	return true, ""
}
