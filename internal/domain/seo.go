package domain

import (
	"time"
)

// SEOProfile holds per-page search metadata. PageKey identifies the page
// ("home", "contacts", "videos", ...); one profile exists per key.
type SEOProfile struct {
	ID              string    `json:"id"`
	PageKey         string    `json:"page_key"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Keywords        []string  `json:"keywords"`
	CanonicalURL    string    `json:"canonical_url"`
	OGTitle         string    `json:"og_title"`
	OGDescription   string    `json:"og_description"`
	OGImageURL      string    `json:"og_image_url"`
	RobotsDirective string    `json:"robots_directive"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
