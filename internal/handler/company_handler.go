package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contactdeck/contactdeck/internal/dto"
	"github.com/contactdeck/contactdeck/internal/service"
	"github.com/contactdeck/contactdeck/pkg/response"
)

// CompanyHandler handles company HTTP requests
type CompanyHandler struct {
	contactService service.ContactService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(contactService service.ContactService) *CompanyHandler {
	return &CompanyHandler{contactService: contactService}
}

// Create handles company creation
// POST /api/companies
func (h *CompanyHandler) Create(c *gin.Context) {
	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.Error("VALIDATION_ERROR", msg))
		return
	}

	company, err := h.contactService.CreateCompany(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(dto.ToCompanyResponse(company)))
}

// Get returns a single company
// GET /api/companies/:id
func (h *CompanyHandler) Get(c *gin.Context) {
	company, err := h.contactService.GetCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCompanyNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Company not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.ToCompanyResponse(company)))
}

// List returns companies matching the filter
// GET /api/companies
func (h *CompanyHandler) List(c *gin.Context) {
	var filter dto.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}
	filter.SetDefaults()

	companies, total, err := h.contactService.ListCompanies(c.Request.Context(), &filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	items := make([]*dto.CompanyResponse, 0, len(companies))
	for _, company := range companies {
		items = append(items, dto.ToCompanyResponse(company))
	}

	page := filter.Offset/filter.Limit + 1
	c.JSON(http.StatusOK, response.Paginated(items, page, filter.Limit, total))
}

// Update handles partial company updates
// PUT /api/companies/:id
func (h *CompanyHandler) Update(c *gin.Context) {
	var req dto.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.Error("VALIDATION_ERROR", msg))
		return
	}

	company, err := h.contactService.UpdateCompany(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrCompanyNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Company not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.ToCompanyResponse(company)))
}

// Delete removes a company
// DELETE /api/companies/:id
func (h *CompanyHandler) Delete(c *gin.Context) {
	if err := h.contactService.DeleteCompany(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrCompanyNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Company not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"message": "Company deleted"}))
}

// Roster returns the people employed by a company
// GET /api/companies/:id/people
func (h *CompanyHandler) Roster(c *gin.Context) {
	people, err := h.contactService.GetRoster(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCompanyNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Company not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	items := make([]*dto.PersonResponse, 0, len(people))
	for _, person := range people {
		items = append(items, dto.ToPersonResponse(person))
	}

	c.JSON(http.StatusOK, response.Success(items))
}
