package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contactdeck/contactdeck/internal/dto"
	"github.com/contactdeck/contactdeck/internal/service"
	"github.com/contactdeck/contactdeck/pkg/response"
)

// MediaHandler handles video and gallery HTTP requests
type MediaHandler struct {
	mediaService service.MediaService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// CreateVideo handles video creation
// POST /api/videos
func (h *MediaHandler) CreateVideo(c *gin.Context) {
	var req dto.CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.Error("VALIDATION_ERROR", msg))
		return
	}

	video, err := h.mediaService.CreateVideo(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrSlugAlreadyExists) {
			c.JSON(http.StatusConflict, response.Error("SLUG_EXISTS", "A video with this slug already exists"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(dto.ToVideoResponse(video)))
}

// GetVideo returns a single video
// GET /api/videos/:id
func (h *MediaHandler) GetVideo(c *gin.Context) {
	video, err := h.mediaService.GetVideo(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Video not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.ToVideoResponse(video)))
}

// ListVideos returns videos matching the filter
// GET /api/videos
func (h *MediaHandler) ListVideos(c *gin.Context) {
	var filter dto.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}
	filter.SetDefaults()

	videos, total, err := h.mediaService.ListVideos(c.Request.Context(), &filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	items := make([]*dto.VideoResponse, 0, len(videos))
	for _, video := range videos {
		items = append(items, dto.ToVideoResponse(video))
	}

	page := filter.Offset/filter.Limit + 1
	c.JSON(http.StatusOK, response.Paginated(items, page, filter.Limit, total))
}

// UpdateVideo handles partial video updates
// PUT /api/videos/:id
func (h *MediaHandler) UpdateVideo(c *gin.Context) {
	var req dto.UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.Error("VALIDATION_ERROR", msg))
		return
	}

	video, err := h.mediaService.UpdateVideo(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Video not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.ToVideoResponse(video)))
}

// DeleteVideo removes a video
// DELETE /api/videos/:id
func (h *MediaHandler) DeleteVideo(c *gin.Context) {
	if err := h.mediaService.DeleteVideo(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Video not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"message": "Video deleted"}))
}

// CreateGallery handles gallery creation
// POST /api/galleries
func (h *MediaHandler) CreateGallery(c *gin.Context) {
	var req dto.CreateGalleryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.Error("VALIDATION_ERROR", msg))
		return
	}

	gallery, err := h.mediaService.CreateGallery(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(dto.ToGalleryResponse(gallery)))
}

// GetGallery returns a single gallery with its ordered images
// GET /api/galleries/:id
func (h *MediaHandler) GetGallery(c *gin.Context) {
	gallery, err := h.mediaService.GetGallery(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrGalleryNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Gallery not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.ToGalleryResponse(gallery)))
}

// ListGalleries returns galleries matching the filter
// GET /api/galleries
func (h *MediaHandler) ListGalleries(c *gin.Context) {
	var filter dto.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}
	filter.SetDefaults()

	galleries, total, err := h.mediaService.ListGalleries(c.Request.Context(), &filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	items := make([]*dto.GalleryResponse, 0, len(galleries))
	for _, gallery := range galleries {
		items = append(items, dto.ToGalleryResponse(gallery))
	}

	page := filter.Offset/filter.Limit + 1
	c.JSON(http.StatusOK, response.Paginated(items, page, filter.Limit, total))
}

// UpdateGallery handles partial gallery updates
// PUT /api/galleries/:id
func (h *MediaHandler) UpdateGallery(c *gin.Context) {
	var req dto.UpdateGalleryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.Error("VALIDATION_ERROR", msg))
		return
	}

	gallery, err := h.mediaService.UpdateGallery(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrGalleryNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Gallery not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.ToGalleryResponse(gallery)))
}

// DeleteGallery removes a gallery
// DELETE /api/galleries/:id
func (h *MediaHandler) DeleteGallery(c *gin.Context) {
	if err := h.mediaService.DeleteGallery(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrGalleryNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Gallery not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"message": "Gallery deleted"}))
}
