package dto

import (
	"regexp"
	"strings"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// CreateTagRequest creates a tag.
type CreateTagRequest struct {
	Name  string `json:"name" binding:"required,min=1"`
	Color string `json:"color"`
}

// Validate checks the create payload.
func (r *CreateTagRequest) Validate() (bool, string) {
	if strings.TrimSpace(r.Name) == "" {
		return false, "Tag name is required"
	}
	if r.Color != "" && !hexColorRegex.MatchString(r.Color) {
		return false, "Color must be a #rrggbb hex value"
	}
	return true, ""
}

// UpdateTagRequest updates a tag.
type UpdateTagRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// Validate checks the update payload.
func (r *UpdateTagRequest) Validate() (bool, string) {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return false, "Tag name cannot be empty"
	}
	if r.Color != nil && *r.Color != "" && !hexColorRegex.MatchString(*r.Color) {
		return false, "Color must be a #rrggbb hex value"
	}
	return true, ""
}
