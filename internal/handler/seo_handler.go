package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contactdeck/contactdeck/internal/dto"
	"github.com/contactdeck/contactdeck/internal/service"
	"github.com/contactdeck/contactdeck/pkg/response"
)

// SEOHandler handles SEO profile HTTP requests
type SEOHandler struct {
	seoService service.SEOService
}

// NewSEOHandler creates a new SEOHandler
func NewSEOHandler(seoService service.SEOService) *SEOHandler {
	return &SEOHandler{seoService: seoService}
}

// Get returns the SEO profile for a page
// GET /api/seo/:pageKey
func (h *SEOHandler) Get(c *gin.Context) {
	profile, err := h.seoService.GetProfile(c.Request.Context(), c.Param("pageKey"))
	if err != nil {
		if errors.Is(err, service.ErrSEOProfileNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("SEO profile not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(profile))
}

// Upsert creates or replaces the SEO profile for a page
// PUT /api/seo/:pageKey
func (h *SEOHandler) Upsert(c *gin.Context) {
	var req dto.UpsertSEORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.Error("VALIDATION_ERROR", msg))
		return
	}

	profile, err := h.seoService.UpsertProfile(c.Request.Context(), c.Param("pageKey"), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(profile))
}

// List returns every SEO profile
// GET /api/seo
func (h *SEOHandler) List(c *gin.Context) {
	profiles, err := h.seoService.ListProfiles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(profiles))
}
