package service

import (
	"context"
	"testing"
	"time"

	"github.com/contactdeck/contactdeck/internal/domain"
	"github.com/contactdeck/contactdeck/internal/dto"
)

// mockCompanyRepository is a mock implementation of CompanyRepository
type mockCompanyRepository struct {
	companies map[string]*domain.Company
	rosters   map[string][]*domain.Person
	listCalls int
}

func newMockCompanyRepository() *mockCompanyRepository {
	return &mockCompanyRepository{
		companies: make(map[string]*domain.Company),
		rosters:   make(map[string][]*domain.Person),
	}
}

func (r *mockCompanyRepository) Create(ctx context.Context, company *domain.Company) error {
	r.companies[company.ID] = company
	return nil
}

func (r *mockCompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	return r.companies[id], nil
}

func (r *mockCompanyRepository) List(ctx context.Context, search string, limit, offset int) ([]*domain.Company, int64, error) {
	var out []*domain.Company
	for _, c := range r.companies {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *mockCompanyRepository) Update(ctx context.Context, company *domain.Company) error {
	r.companies[company.ID] = company
	return nil
}

func (r *mockCompanyRepository) Delete(ctx context.Context, id string) error {
	delete(r.companies, id)
	return nil
}

func (r *mockCompanyRepository) ListPeople(ctx context.Context, companyID string) ([]*domain.Person, error) {
	r.listCalls++
	return r.rosters[companyID], nil
}

// mockPersonRepository is a mock implementation of PersonRepository
type mockPersonRepository struct {
	people      map[string]*domain.Person
	employments map[string]*domain.Employment
	marriages   map[string]*domain.Marriage
	children    map[string]*domain.Child
	personTags  map[string]map[string]bool
}

func newMockPersonRepository() *mockPersonRepository {
	return &mockPersonRepository{
		people:      make(map[string]*domain.Person),
		employments: make(map[string]*domain.Employment),
		marriages:   make(map[string]*domain.Marriage),
		children:    make(map[string]*domain.Child),
		personTags:  make(map[string]map[string]bool),
	}
}

func (r *mockPersonRepository) Create(ctx context.Context, person *domain.Person) error {
	r.people[person.ID] = person
	return nil
}

func (r *mockPersonRepository) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	person := r.people[id]
	if person == nil {
		return nil, nil
	}
	// Rebuild association slices the way the database loader would.
	loaded := *person
	loaded.Employments = nil
	loaded.Marriages = nil
	loaded.Children = nil
	for _, e := range r.employments {
		if e.PersonID == id {
			loaded.Employments = append(loaded.Employments, *e)
		}
	}
	for _, m := range r.marriages {
		if m.PersonID == id {
			loaded.Marriages = append(loaded.Marriages, *m)
		}
	}
	for _, c := range r.children {
		if c.PersonID == id {
			loaded.Children = append(loaded.Children, *c)
		}
	}
	return &loaded, nil
}

func (r *mockPersonRepository) List(ctx context.Context, search string, limit, offset int) ([]*domain.Person, int64, error) {
	var out []*domain.Person
	for _, p := range r.people {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *mockPersonRepository) Update(ctx context.Context, person *domain.Person) error {
	r.people[person.ID] = person
	return nil
}

func (r *mockPersonRepository) Delete(ctx context.Context, id string) error {
	delete(r.people, id)
	for eid, e := range r.employments {
		if e.PersonID == id {
			delete(r.employments, eid)
		}
	}
	return nil
}

func (r *mockPersonRepository) AddEmployment(ctx context.Context, employment *domain.Employment) error {
	r.employments[employment.ID] = employment
	return nil
}

func (r *mockPersonRepository) RemoveEmployment(ctx context.Context, employmentID string) error {
	delete(r.employments, employmentID)
	return nil
}

func (r *mockPersonRepository) AddMarriage(ctx context.Context, marriage *domain.Marriage) error {
	r.marriages[marriage.ID] = marriage
	return nil
}

func (r *mockPersonRepository) RemoveMarriage(ctx context.Context, marriageID string) error {
	delete(r.marriages, marriageID)
	return nil
}

func (r *mockPersonRepository) AddChild(ctx context.Context, child *domain.Child) error {
	r.children[child.ID] = child
	return nil
}

func (r *mockPersonRepository) RemoveChild(ctx context.Context, childID string) error {
	delete(r.children, childID)
	return nil
}

func (r *mockPersonRepository) AttachTag(ctx context.Context, personID, tagID string) error {
	if r.personTags[personID] == nil {
		r.personTags[personID] = make(map[string]bool)
	}
	r.personTags[personID][tagID] = true
	return nil
}

func (r *mockPersonRepository) DetachTag(ctx context.Context, personID, tagID string) error {
	delete(r.personTags[personID], tagID)
	return nil
}

// mockTagRepository is a mock implementation of TagRepository
type mockTagRepository struct {
	tags      map[string]*domain.Tag
	slugIndex map[string]*domain.Tag
}

func newMockTagRepository() *mockTagRepository {
	return &mockTagRepository{
		tags:      make(map[string]*domain.Tag),
		slugIndex: make(map[string]*domain.Tag),
	}
}

func (r *mockTagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	r.tags[tag.ID] = tag
	r.slugIndex[tag.Slug] = tag
	return nil
}

func (r *mockTagRepository) GetByID(ctx context.Context, id string) (*domain.Tag, error) {
	return r.tags[id], nil
}

func (r *mockTagRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	return r.slugIndex[slug], nil
}

func (r *mockTagRepository) List(ctx context.Context) ([]*domain.Tag, error) {
	var out []*domain.Tag
	for _, t := range r.tags {
		out = append(out, t)
	}
	return out, nil
}

func (r *mockTagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	for slug, t := range r.slugIndex {
		if t.ID == tag.ID {
			delete(r.slugIndex, slug)
		}
	}
	r.tags[tag.ID] = tag
	r.slugIndex[tag.Slug] = tag
	return nil
}

func (r *mockTagRepository) Delete(ctx context.Context, id string) error {
	tag := r.tags[id]
	if tag != nil {
		delete(r.slugIndex, tag.Slug)
		delete(r.tags, id)
	}
	return nil
}

// mockRosterCache is an in-memory RosterCache
type mockRosterCache struct {
	entries     map[string][]*domain.Person
	invalidated []string
}

func newMockRosterCache() *mockRosterCache {
	return &mockRosterCache{entries: make(map[string][]*domain.Person)}
}

func (c *mockRosterCache) Get(ctx context.Context, companyID string) ([]*domain.Person, bool, error) {
	people, ok := c.entries[companyID]
	return people, ok, nil
}

func (c *mockRosterCache) Set(ctx context.Context, companyID string, people []*domain.Person) error {
	c.entries[companyID] = people
	return nil
}

func (c *mockRosterCache) Invalidate(ctx context.Context, companyID string) error {
	delete(c.entries, companyID)
	c.invalidated = append(c.invalidated, companyID)
	return nil
}

func newTestContactService() (ContactService, *mockCompanyRepository, *mockPersonRepository, *mockTagRepository, *mockRosterCache) {
	companyRepo := newMockCompanyRepository()
	personRepo := newMockPersonRepository()
	tagRepo := newMockTagRepository()
	cache := newMockRosterCache()
	svc := NewContactService(companyRepo, personRepo, tagRepo, cache)
	return svc, companyRepo, personRepo, tagRepo, cache
}

func seedCompany(repo *mockCompanyRepository, id, name string) *domain.Company {
	company := &domain.Company{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	repo.companies[id] = company
	return company
}

func seedPerson(repo *mockPersonRepository, id, firstName, lastName string) *domain.Person {
	person := &domain.Person{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	repo.people[id] = person
	return person
}

func TestContactService_CompanyCRUD(t *testing.T) {
	svc, companyRepo, _, _, _ := newTestContactService()

	t.Run("create company", func(t *testing.T) {
		req := &dto.CreateCompanyRequest{
			Name:  "Acme Corporation",
			Email: "hello@acme.test",
		}
		company, err := svc.CreateCompany(context.Background(), req)
		if err != nil {
			t.Fatalf("CreateCompany() error = %v", err)
		}
		if company.ID == "" {
			t.Error("CreateCompany() ID is empty")
		}
		if companyRepo.companies[company.ID] == nil {
			t.Error("CreateCompany() did not persist company")
		}
	})

	t.Run("get missing company", func(t *testing.T) {
		_, err := svc.GetCompany(context.Background(), "missing-id")
		if err != ErrCompanyNotFound {
			t.Errorf("GetCompany() error = %v, want %v", err, ErrCompanyNotFound)
		}
	})

	t.Run("partial update leaves other fields", func(t *testing.T) {
		company := seedCompany(companyRepo, "update-co", "Original")
		company.Email = "keep@acme.test"

		newName := "Renamed"
		updated, err := svc.UpdateCompany(context.Background(), "update-co", &dto.UpdateCompanyRequest{
			Name: &newName,
		})
		if err != nil {
			t.Fatalf("UpdateCompany() error = %v", err)
		}
		if updated.Name != "Renamed" {
			t.Errorf("UpdateCompany() Name = %v, want Renamed", updated.Name)
		}
		if updated.Email != "keep@acme.test" {
			t.Errorf("UpdateCompany() Email = %v, want keep@acme.test", updated.Email)
		}
	})

	t.Run("delete missing company", func(t *testing.T) {
		err := svc.DeleteCompany(context.Background(), "missing-id")
		if err != ErrCompanyNotFound {
			t.Errorf("DeleteCompany() error = %v, want %v", err, ErrCompanyNotFound)
		}
	})
}

func TestContactService_GetRoster(t *testing.T) {
	svc, companyRepo, personRepo, _, cache := newTestContactService()

	company := seedCompany(companyRepo, "roster-co", "Roster Inc")
	alice := seedPerson(personRepo, "alice-id", "Alice", "Nguyen")
	companyRepo.rosters[company.ID] = []*domain.Person{alice}

	t.Run("miss fills the cache", func(t *testing.T) {
		people, err := svc.GetRoster(context.Background(), company.ID)
		if err != nil {
			t.Fatalf("GetRoster() error = %v", err)
		}
		if len(people) != 1 || people[0].ID != alice.ID {
			t.Fatalf("GetRoster() = %v, want [alice]", people)
		}
		if _, ok := cache.entries[company.ID]; !ok {
			t.Error("GetRoster() should fill the cache on a miss")
		}
	})

	t.Run("hit skips the database", func(t *testing.T) {
		before := companyRepo.listCalls
		if _, err := svc.GetRoster(context.Background(), company.ID); err != nil {
			t.Fatalf("GetRoster() error = %v", err)
		}
		if companyRepo.listCalls != before {
			t.Errorf("GetRoster() hit the database on a cache hit")
		}
	})

	t.Run("missing company", func(t *testing.T) {
		_, err := svc.GetRoster(context.Background(), "missing-co")
		if err != ErrCompanyNotFound {
			t.Errorf("GetRoster() error = %v, want %v", err, ErrCompanyNotFound)
		}
	})
}

func TestContactService_Employments(t *testing.T) {
	svc, companyRepo, personRepo, _, cache := newTestContactService()

	company := seedCompany(companyRepo, "emp-co", "Employer Ltd")
	person := seedPerson(personRepo, "emp-person", "Bob", "Smith")
	cache.entries[company.ID] = []*domain.Person{}

	t.Run("add employment invalidates the roster", func(t *testing.T) {
		employment, err := svc.AddEmployment(context.Background(), person.ID, &dto.AddEmploymentRequest{
			CompanyID: company.ID,
			Title:     "Engineer",
		})
		if err != nil {
			t.Fatalf("AddEmployment() error = %v", err)
		}
		if employment.CompanyID != company.ID {
			t.Errorf("AddEmployment() CompanyID = %v, want %v", employment.CompanyID, company.ID)
		}
		if _, ok := cache.entries[company.ID]; ok {
			t.Error("AddEmployment() should invalidate the roster cache")
		}
	})

	t.Run("add employment to unknown company", func(t *testing.T) {
		_, err := svc.AddEmployment(context.Background(), person.ID, &dto.AddEmploymentRequest{
			CompanyID: "missing-co",
		})
		if err != ErrCompanyNotFound {
			t.Errorf("AddEmployment() error = %v, want %v", err, ErrCompanyNotFound)
		}
	})

	t.Run("remove employment", func(t *testing.T) {
		loaded, err := svc.GetPerson(context.Background(), person.ID)
		if err != nil {
			t.Fatalf("GetPerson() error = %v", err)
		}
		if len(loaded.Employments) != 1 {
			t.Fatalf("expected 1 employment, got %d", len(loaded.Employments))
		}

		cache.entries[company.ID] = []*domain.Person{}
		err = svc.RemoveEmployment(context.Background(), person.ID, loaded.Employments[0].ID)
		if err != nil {
			t.Fatalf("RemoveEmployment() error = %v", err)
		}
		if _, ok := cache.entries[company.ID]; ok {
			t.Error("RemoveEmployment() should invalidate the roster cache")
		}
	})

	t.Run("remove unknown employment", func(t *testing.T) {
		err := svc.RemoveEmployment(context.Background(), person.ID, "missing-employment")
		if err != ErrEmploymentNotFound {
			t.Errorf("RemoveEmployment() error = %v, want %v", err, ErrEmploymentNotFound)
		}
	})
}

func TestContactService_FamilyAssociations(t *testing.T) {
	svc, _, personRepo, _, _ := newTestContactService()

	person := seedPerson(personRepo, "family-person", "Carol", "Jones")

	t.Run("add and remove marriage", func(t *testing.T) {
		marriage, err := svc.AddMarriage(context.Background(), person.ID, &dto.AddMarriageRequest{
			SpouseName: "Dana Jones",
		})
		if err != nil {
			t.Fatalf("AddMarriage() error = %v", err)
		}

		if err := svc.RemoveMarriage(context.Background(), person.ID, marriage.ID); err != nil {
			t.Fatalf("RemoveMarriage() error = %v", err)
		}

		err = svc.RemoveMarriage(context.Background(), person.ID, marriage.ID)
		if err != ErrAssociationNotFound {
			t.Errorf("second RemoveMarriage() error = %v, want %v", err, ErrAssociationNotFound)
		}
	})

	t.Run("add and remove child", func(t *testing.T) {
		child, err := svc.AddChild(context.Background(), person.ID, &dto.AddChildRequest{
			ChildName: "Eli Jones",
		})
		if err != nil {
			t.Fatalf("AddChild() error = %v", err)
		}

		if err := svc.RemoveChild(context.Background(), person.ID, child.ID); err != nil {
			t.Fatalf("RemoveChild() error = %v", err)
		}
	})

	t.Run("associations on unknown person", func(t *testing.T) {
		_, err := svc.AddMarriage(context.Background(), "missing-person", &dto.AddMarriageRequest{
			SpouseName: "Nobody",
		})
		if err != ErrPersonNotFound {
			t.Errorf("AddMarriage() error = %v, want %v", err, ErrPersonNotFound)
		}
	})
}

func TestContactService_Tags(t *testing.T) {
	svc, _, personRepo, tagRepo, _ := newTestContactService()

	person := seedPerson(personRepo, "tag-person", "Frank", "Lee")
	tag := &domain.Tag{ID: "tag-1", Name: "VIP", Slug: "vip"}
	tagRepo.tags[tag.ID] = tag
	tagRepo.slugIndex[tag.Slug] = tag

	t.Run("attach tag", func(t *testing.T) {
		if err := svc.AttachTag(context.Background(), person.ID, tag.ID); err != nil {
			t.Fatalf("AttachTag() error = %v", err)
		}
		if !personRepo.personTags[person.ID][tag.ID] {
			t.Error("AttachTag() did not persist the link")
		}
	})

	t.Run("attach unknown tag", func(t *testing.T) {
		err := svc.AttachTag(context.Background(), person.ID, "missing-tag")
		if err != ErrTagNotFound {
			t.Errorf("AttachTag() error = %v, want %v", err, ErrTagNotFound)
		}
	})

	t.Run("detach tag", func(t *testing.T) {
		if err := svc.DetachTag(context.Background(), person.ID, tag.ID); err != nil {
			t.Fatalf("DetachTag() error = %v", err)
		}
		if personRepo.personTags[person.ID][tag.ID] {
			t.Error("DetachTag() did not remove the link")
		}
	})
}
