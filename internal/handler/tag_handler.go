package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contactdeck/contactdeck/internal/dto"
	"github.com/contactdeck/contactdeck/internal/service"
	"github.com/contactdeck/contactdeck/pkg/response"
)

// TagHandler handles tag HTTP requests
type TagHandler struct {
	tagService service.TagService
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// Create handles tag creation
// POST /api/tags
func (h *TagHandler) Create(c *gin.Context) {
	var req dto.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.Error("VALIDATION_ERROR", msg))
		return
	}

	tag, err := h.tagService.CreateTag(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrTagAlreadyExists) {
			c.JSON(http.StatusConflict, response.Error("TAG_EXISTS", "A tag with this name already exists"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(tag))
}

// List returns all tags
// GET /api/tags
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.tagService.ListTags(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(tags))
}

// Update handles partial tag updates
// PUT /api/tags/:id
func (h *TagHandler) Update(c *gin.Context) {
	var req dto.UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.Error("VALIDATION_ERROR", msg))
		return
	}

	tag, err := h.tagService.UpdateTag(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTagNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Tag not found"))
		case errors.Is(err, service.ErrTagAlreadyExists):
			c.JSON(http.StatusConflict, response.Error("TAG_EXISTS", "A tag with this name already exists"))
		default:
			c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, response.Success(tag))
}

// Delete removes a tag and all its attachments
// DELETE /api/tags/:id
func (h *TagHandler) Delete(c *gin.Context) {
	if err := h.tagService.DeleteTag(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Tag not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"message": "Tag deleted"}))
}
