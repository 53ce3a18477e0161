package domain

import (
	"time"
)

// Company represents an organization contact.
type Company struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Website   string     `json:"website"`
	Address   Address    `json:"address"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Address is a structured postal address.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Person represents an individual contact. Associations are explicit typed
// slices, one per relationship kind.
type Person struct {
	ID          string       `json:"id"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	Notes       string       `json:"notes"`
	Employments []Employment `json:"employments,omitempty"`
	Marriages   []Marriage   `json:"marriages,omitempty"`
	Children    []Child      `json:"children,omitempty"`
	Tags        []Tag        `json:"tags,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	DeletedAt   *time.Time   `json:"deleted_at,omitempty"`
}

// FullName returns the display name.
func (p *Person) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Employment links a person to a company.
type Employment struct {
	ID        string     `json:"id"`
	PersonID  string     `json:"person_id"`
	CompanyID string     `json:"company_id"`
	Title     string     `json:"title"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// Marriage links a person to a spouse.
type Marriage struct {
	ID         string     `json:"id"`
	PersonID   string     `json:"person_id"`
	SpouseID   string     `json:"spouse_id"`
	SpouseName string     `json:"spouse_name"`
	MarriedAt  *time.Time `json:"married_at,omitempty"`
	DivorcedAt *time.Time `json:"divorced_at,omitempty"`
}

// Child links a person to a child record.
type Child struct {
	ID        string     `json:"id"`
	PersonID  string     `json:"person_id"`
	ChildID   string     `json:"child_id"`
	ChildName string     `json:"child_name"`
	BornAt    *time.Time `json:"born_at,omitempty"`
}
