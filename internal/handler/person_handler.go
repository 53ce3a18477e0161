package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contactdeck/contactdeck/internal/dto"
	"github.com/contactdeck/contactdeck/internal/service"
	"github.com/contactdeck/contactdeck/pkg/response"
)

// PersonHandler handles person HTTP requests
type PersonHandler struct {
	contactService service.ContactService
}

// NewPersonHandler creates a new PersonHandler
func NewPersonHandler(contactService service.ContactService) *PersonHandler {
	return &PersonHandler{contactService: contactService}
}

// Create handles person creation
// POST /api/people
func (h *PersonHandler) Create(c *gin.Context) {
	var req dto.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.Error("VALIDATION_ERROR", msg))
		return
	}

	person, err := h.contactService.CreatePerson(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrCompanyNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Company not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(dto.ToPersonResponse(person)))
}

// Get returns a single person with associations
// GET /api/people/:id
func (h *PersonHandler) Get(c *gin.Context) {
	person, err := h.contactService.GetPerson(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPersonNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Person not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.ToPersonResponse(person)))
}

// List returns people matching the filter
// GET /api/people
func (h *PersonHandler) List(c *gin.Context) {
	var filter dto.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}
	filter.SetDefaults()

	people, total, err := h.contactService.ListPeople(c.Request.Context(), &filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	items := make([]*dto.PersonResponse, 0, len(people))
	for _, person := range people {
		items = append(items, dto.ToPersonResponse(person))
	}

	page := filter.Offset/filter.Limit + 1
	c.JSON(http.StatusOK, response.Paginated(items, page, filter.Limit, total))
}

// Update handles partial person updates
// PUT /api/people/:id
func (h *PersonHandler) Update(c *gin.Context) {
	var req dto.UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.Error("VALIDATION_ERROR", msg))
		return
	}

	person, err := h.contactService.UpdatePerson(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrPersonNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Person not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.ToPersonResponse(person)))
}

// Delete removes a person and their associations
// DELETE /api/people/:id
func (h *PersonHandler) Delete(c *gin.Context) {
	if err := h.contactService.DeletePerson(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrPersonNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Person not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"message": "Person deleted"}))
}

// AddEmployment links a person to a company
// POST /api/people/:id/employments
func (h *PersonHandler) AddEmployment(c *gin.Context) {
	var req dto.AddEmploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	employment, err := h.contactService.AddEmployment(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPersonNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Person not found"))
		case errors.Is(err, service.ErrCompanyNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Company not found"))
		default:
			c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusCreated, response.Success(employment))
}

// RemoveEmployment unlinks a person from a company
// DELETE /api/people/:id/employments/:employmentId
func (h *PersonHandler) RemoveEmployment(c *gin.Context) {
	err := h.contactService.RemoveEmployment(c.Request.Context(), c.Param("id"), c.Param("employmentId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPersonNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Person not found"))
		case errors.Is(err, service.ErrEmploymentNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Employment not found"))
		default:
			c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"message": "Employment removed"}))
}

// AddMarriage records a marriage association
// POST /api/people/:id/marriages
func (h *PersonHandler) AddMarriage(c *gin.Context) {
	var req dto.AddMarriageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	marriage, err := h.contactService.AddMarriage(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrPersonNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Person not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(marriage))
}

// RemoveMarriage removes a marriage association
// DELETE /api/people/:id/marriages/:marriageId
func (h *PersonHandler) RemoveMarriage(c *gin.Context) {
	err := h.contactService.RemoveMarriage(c.Request.Context(), c.Param("id"), c.Param("marriageId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPersonNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Person not found"))
		case errors.Is(err, service.ErrAssociationNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Marriage not found"))
		default:
			c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"message": "Marriage removed"}))
}

// AddChild records a child association
// POST /api/people/:id/children
func (h *PersonHandler) AddChild(c *gin.Context) {
	var req dto.AddChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	child, err := h.contactService.AddChild(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrPersonNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Person not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(child))
}

// RemoveChild removes a child association
// DELETE /api/people/:id/children/:childId
func (h *PersonHandler) RemoveChild(c *gin.Context) {
	err := h.contactService.RemoveChild(c.Request.Context(), c.Param("id"), c.Param("childId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPersonNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Person not found"))
		case errors.Is(err, service.ErrAssociationNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Child not found"))
		default:
			c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"message": "Child removed"}))
}

// AttachTag attaches a tag to a person
// POST /api/people/:id/tags/:tagId
func (h *PersonHandler) AttachTag(c *gin.Context) {
	err := h.contactService.AttachTag(c.Request.Context(), c.Param("id"), c.Param("tagId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPersonNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Person not found"))
		case errors.Is(err, service.ErrTagNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Tag not found"))
		default:
			c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"message": "Tag attached"}))
}

// DetachTag detaches a tag from a person
// DELETE /api/people/:id/tags/:tagId
func (h *PersonHandler) DetachTag(c *gin.Context) {
	err := h.contactService.DetachTag(c.Request.Context(), c.Param("id"), c.Param("tagId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"message": "Tag detached"}))
}
