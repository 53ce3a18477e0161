package dto

import (
	"strings"
	"time"

	"github.com/contactdeck/contactdeck/internal/domain"
)

// ListFilter carries common list query parameters. The Search term is
// matched case-insensitively against name and email fields.
type ListFilter struct {
	Search string `form:"search"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// SetDefaults clamps pagination to sane bounds.
func (f *ListFilter) SetDefaults() {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 200 {
		f.Limit = 200
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// CreateCompanyRequest creates a company.
type CreateCompanyRequest struct {
	Name    string         `json:"name" binding:"required,min=1"`
	Email   string         `json:"email"`
	Phone   string         `json:"phone"`
	Website string         `json:"website"`
	Address domain.Address `json:"address"`
	Notes   string         `json:"notes"`
}

// Validate checks the create payload.
func (r *CreateCompanyRequest) Validate() (bool, string) {
	if strings.TrimSpace(r.Name) == "" {
		return false, "Company name is required"
	}
	if r.Email != "" && !emailRegex.MatchString(r.Email) {
		return false, "Invalid email format"
	}
	return true, ""
}

// UpdateCompanyRequest updates a company. Nil pointers leave the field
// unchanged.
type UpdateCompanyRequest struct {
	Name    *string         `json:"name"`
	Email   *string         `json:"email"`
	Phone   *string         `json:"phone"`
	Website *string         `json:"website"`
	Address *domain.Address `json:"address"`
	Notes   *string         `json:"notes"`
}

// Validate checks the update payload.
func (r *UpdateCompanyRequest) Validate() (bool, string) {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return false, "Company name cannot be empty"
	}
	if r.Email != nil && *r.Email != "" && !emailRegex.MatchString(*r.Email) {
		return false, "Invalid email format"
	}
	return true, ""
}

// CreatePersonRequest creates a person.
type CreatePersonRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
	CompanyID string `json:"company_id"`
	Title     string `json:"title"`
}

// Validate checks the create payload.
func (r *CreatePersonRequest) Validate() (bool, string) {
	if strings.TrimSpace(r.FirstName) == "" {
		return false, "First name is required"
	}
	if r.Email != "" && !emailRegex.MatchString(r.Email) {
		return false, "Invalid email format"
	}
	return true, ""
}

// UpdatePersonRequest updates a person.
type UpdatePersonRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Notes     *string `json:"notes"`
}

// Validate checks the update payload.
func (r *UpdatePersonRequest) Validate() (bool, string) {
	if r.FirstName != nil && strings.TrimSpace(*r.FirstName) == "" {
		return false, "First name cannot be empty"
	}
	if r.Email != nil && *r.Email != "" && !emailRegex.MatchString(*r.Email) {
		return false, "Invalid email format"
	}
	return true, ""
}

// AddEmploymentRequest links a person to a company.
type AddEmploymentRequest struct {
	CompanyID string     `json:"company_id" binding:"required"`
	Title     string     `json:"title"`
	StartedAt *time.Time `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
}

// AddMarriageRequest records a marriage association.
type AddMarriageRequest struct {
	SpouseID   string     `json:"spouse_id"`
	SpouseName string     `json:"spouse_name" binding:"required"`
	MarriedAt  *time.Time `json:"married_at"`
	DivorcedAt *time.Time `json:"divorced_at"`
}

// AddChildRequest records a child association.
type AddChildRequest struct {
	ChildID   string     `json:"child_id"`
	ChildName string     `json:"child_name" binding:"required"`
	BornAt    *time.Time `json:"born_at"`
}

// CompanyResponse is the public view of a company.
type CompanyResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Website   string         `json:"website"`
	Address   domain.Address `json:"address"`
	Notes     string         `json:"notes"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// PersonResponse is the public view of a person, including typed
// associations.
type PersonResponse struct {
	ID          string              `json:"id"`
	FirstName   string              `json:"first_name"`
	LastName    string              `json:"last_name"`
	FullName    string              `json:"full_name"`
	Email       string              `json:"email"`
	Phone       string              `json:"phone"`
	Notes       string              `json:"notes"`
	Employments []domain.Employment `json:"employments"`
	Marriages   []domain.Marriage   `json:"marriages"`
	Children    []domain.Child      `json:"children"`
	Tags        []domain.Tag        `json:"tags"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

// ToCompanyResponse converts a domain company.
func ToCompanyResponse(c *domain.Company) *CompanyResponse {
	return &CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Website:   c.Website,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

// ToPersonResponse converts a domain person.
func ToPersonResponse(p *domain.Person) *PersonResponse {
	resp := &PersonResponse{
		ID:          p.ID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		FullName:    p.FullName(),
		Email:       p.Email,
		Phone:       p.Phone,
		Notes:       p.Notes,
		Employments: p.Employments,
		Marriages:   p.Marriages,
		Children:    p.Children,
		Tags:        p.Tags,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Employments == nil {
		resp.Employments = []domain.Employment{}
	}
	if resp.Marriages == nil {
		resp.Marriages = []domain.Marriage{}
	}
	if resp.Children == nil {
		resp.Children = []domain.Child{}
	}
	if resp.Tags == nil {
		resp.Tags = []domain.Tag{}
	}
	return resp
}
