package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/contactdeck/contactdeck/internal/domain"
	"github.com/contactdeck/contactdeck/internal/dto"
	"github.com/contactdeck/contactdeck/internal/logger"
	"github.com/contactdeck/contactdeck/internal/repository"
	"github.com/contactdeck/contactdeck/pkg/telemetry"
)

var (
	ErrCompanyNotFound     = errors.New("company not found")
	ErrPersonNotFound      = errors.New("person not found")
	ErrEmploymentNotFound  = errors.New("employment not found")
	ErrAssociationNotFound = errors.New("association not found")
)

// ContactService manages companies, people, and their associations.
type ContactService interface {
	CreateCompany(ctx context.Context, req *dto.CreateCompanyRequest) (*domain.Company, error)
	GetCompany(ctx context.Context, id string) (*domain.Company, error)
	ListCompanies(ctx context.Context, filter *dto.ListFilter) ([]*domain.Company, int64, error)
	UpdateCompany(ctx context.Context, id string, req *dto.UpdateCompanyRequest) (*domain.Company, error)
	DeleteCompany(ctx context.Context, id string) error
	// GetRoster returns the people employed by a company, cache-first.
	GetRoster(ctx context.Context, companyID string) ([]*domain.Person, error)

	CreatePerson(ctx context.Context, req *dto.CreatePersonRequest) (*domain.Person, error)
	GetPerson(ctx context.Context, id string) (*domain.Person, error)
	ListPeople(ctx context.Context, filter *dto.ListFilter) ([]*domain.Person, int64, error)
	UpdatePerson(ctx context.Context, id string, req *dto.UpdatePersonRequest) (*domain.Person, error)
	DeletePerson(ctx context.Context, id string) error

	AddEmployment(ctx context.Context, personID string, req *dto.AddEmploymentRequest) (*domain.Employment, error)
	RemoveEmployment(ctx context.Context, personID, employmentID string) error
	AddMarriage(ctx context.Context, personID string, req *dto.AddMarriageRequest) (*domain.Marriage, error)
	RemoveMarriage(ctx context.Context, personID, marriageID string) error
	AddChild(ctx context.Context, personID string, req *dto.AddChildRequest) (*domain.Child, error)
	RemoveChild(ctx context.Context, personID, childID string) error
	AttachTag(ctx context.Context, personID, tagID string) error
	DetachTag(ctx context.Context, personID, tagID string) error
}

type contactService struct {
	companyRepo repository.CompanyRepository
	personRepo  repository.PersonRepository
	tagRepo     repository.TagRepository
	rosterCache repository.RosterCache
}

// NewContactService creates a new ContactService.
func NewContactService(
	companyRepo repository.CompanyRepository,
	personRepo repository.PersonRepository,
	tagRepo repository.TagRepository,
	rosterCache repository.RosterCache,
) ContactService {
	return &contactService{
		companyRepo: companyRepo,
		personRepo:  personRepo,
		tagRepo:     tagRepo,
		rosterCache: rosterCache,
	}
}

func (s *contactService) CreateCompany(ctx context.Context, req *dto.CreateCompanyRequest) (*domain.Company, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.create_company")
	defer span.End()

	now := time.Now()
	company := &domain.Company{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Website:   req.Website,
		Address:   req.Address,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.companyRepo.Create(ctx, company); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("company_id", company.ID))
	span.SetStatus(codes.Ok, "")
	return company, nil
}

func (s *contactService) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.get_company")
	defer span.End()

	span.SetAttributes(attribute.String("company_id", id))

	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if company == nil {
		span.SetStatus(codes.Error, "company not found")
		return nil, ErrCompanyNotFound
	}

	span.SetStatus(codes.Ok, "")
	return company, nil
}

func (s *contactService) ListCompanies(ctx context.Context, filter *dto.ListFilter) ([]*domain.Company, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.list_companies")
	defer span.End()

	filter.SetDefaults()
	companies, total, err := s.companyRepo.List(ctx, filter.Search, filter.Limit, filter.Offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("count", len(companies)))
	span.SetStatus(codes.Ok, "")
	return companies, total, nil
}

func (s *contactService) UpdateCompany(ctx context.Context, id string, req *dto.UpdateCompanyRequest) (*domain.Company, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.update_company")
	defer span.End()

	span.SetAttributes(attribute.String("company_id", id))

	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if company == nil {
		span.SetStatus(codes.Error, "company not found")
		return nil, ErrCompanyNotFound
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.Email != nil {
		company.Email = *req.Email
	}
	if req.Phone != nil {
		company.Phone = *req.Phone
	}
	if req.Website != nil {
		company.Website = *req.Website
	}
	if req.Address != nil {
		company.Address = *req.Address
	}
	if req.Notes != nil {
		company.Notes = *req.Notes
	}
	company.UpdatedAt = time.Now()

	if err := s.companyRepo.Update(ctx, company); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.invalidateRoster(ctx, id)
	span.SetStatus(codes.Ok, "")
	return company, nil
}

func (s *contactService) DeleteCompany(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.delete_company")
	defer span.End()

	span.SetAttributes(attribute.String("company_id", id))

	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if company == nil {
		span.SetStatus(codes.Error, "company not found")
		return ErrCompanyNotFound
	}

	if err := s.companyRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.invalidateRoster(ctx, id)
	span.SetStatus(codes.Ok, "")
	return nil
}

// GetRoster returns the people employed by a company. The roster is
// served from cache when present and refilled from the database on a
// miss.
func (s *contactService) GetRoster(ctx context.Context, companyID string) ([]*domain.Person, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.get_roster")
	defer span.End()

	span.SetAttributes(attribute.String("company_id", companyID))

	if s.rosterCache != nil {
		people, found, err := s.rosterCache.Get(ctx, companyID)
		if err != nil {
			// Cache failures degrade to the database.
			logger.Get().Warn("roster cache read failed")
		} else if found {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			span.SetStatus(codes.Ok, "")
			return people, nil
		}
	}

	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if company == nil {
		span.SetStatus(codes.Error, "company not found")
		return nil, ErrCompanyNotFound
	}

	people, err := s.companyRepo.ListPeople(ctx, companyID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if people == nil {
		people = []*domain.Person{}
	}

	if s.rosterCache != nil {
		if err := s.rosterCache.Set(ctx, companyID, people); err != nil {
			logger.Get().Warn("roster cache write failed")
		}
	}

	span.SetAttributes(attribute.Int("count", len(people)))
	span.SetStatus(codes.Ok, "")
	return people, nil
}

func (s *contactService) CreatePerson(ctx context.Context, req *dto.CreatePersonRequest) (*domain.Person, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.create_person")
	defer span.End()

	now := time.Now()
	person := &domain.Person{
		ID:        uuid.New().String(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.personRepo.Create(ctx, person); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Optional initial employment in the same request.
	if req.CompanyID != "" {
		company, err := s.companyRepo.GetByID(ctx, req.CompanyID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if company == nil {
			span.SetStatus(codes.Error, "company not found")
			return nil, ErrCompanyNotFound
		}

		employment := &domain.Employment{
			ID:        uuid.New().String(),
			PersonID:  person.ID,
			CompanyID: req.CompanyID,
			Title:     req.Title,
		}
		if err := s.personRepo.AddEmployment(ctx, employment); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		person.Employments = []domain.Employment{*employment}
		s.invalidateRoster(ctx, req.CompanyID)
	}

	span.SetAttributes(attribute.String("person_id", person.ID))
	span.SetStatus(codes.Ok, "")
	return person, nil
}

func (s *contactService) GetPerson(ctx context.Context, id string) (*domain.Person, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.get_person")
	defer span.End()

	span.SetAttributes(attribute.String("person_id", id))

	person, err := s.personRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if person == nil {
		span.SetStatus(codes.Error, "person not found")
		return nil, ErrPersonNotFound
	}

	span.SetStatus(codes.Ok, "")
	return person, nil
}

func (s *contactService) ListPeople(ctx context.Context, filter *dto.ListFilter) ([]*domain.Person, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.list_people")
	defer span.End()

	filter.SetDefaults()
	people, total, err := s.personRepo.List(ctx, filter.Search, filter.Limit, filter.Offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("count", len(people)))
	span.SetStatus(codes.Ok, "")
	return people, total, nil
}

func (s *contactService) UpdatePerson(ctx context.Context, id string, req *dto.UpdatePersonRequest) (*domain.Person, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.update_person")
	defer span.End()

	span.SetAttributes(attribute.String("person_id", id))

	person, err := s.personRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if person == nil {
		span.SetStatus(codes.Error, "person not found")
		return nil, ErrPersonNotFound
	}

	if req.FirstName != nil {
		person.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		person.LastName = *req.LastName
	}
	if req.Email != nil {
		person.Email = *req.Email
	}
	if req.Phone != nil {
		person.Phone = *req.Phone
	}
	if req.Notes != nil {
		person.Notes = *req.Notes
	}
	person.UpdatedAt = time.Now()

	if err := s.personRepo.Update(ctx, person); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.invalidateEmployerRosters(ctx, person)
	span.SetStatus(codes.Ok, "")
	return person, nil
}

func (s *contactService) DeletePerson(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.delete_person")
	defer span.End()

	span.SetAttributes(attribute.String("person_id", id))

	person, err := s.personRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if person == nil {
		span.SetStatus(codes.Error, "person not found")
		return ErrPersonNotFound
	}

	if err := s.personRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.invalidateEmployerRosters(ctx, person)
	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *contactService) AddEmployment(ctx context.Context, personID string, req *dto.AddEmploymentRequest) (*domain.Employment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.add_employment")
	defer span.End()

	span.SetAttributes(
		attribute.String("person_id", personID),
		attribute.String("company_id", req.CompanyID),
	)

	person, err := s.personRepo.GetByID(ctx, personID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if person == nil {
		span.SetStatus(codes.Error, "person not found")
		return nil, ErrPersonNotFound
	}

	company, err := s.companyRepo.GetByID(ctx, req.CompanyID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if company == nil {
		span.SetStatus(codes.Error, "company not found")
		return nil, ErrCompanyNotFound
	}

	employment := &domain.Employment{
		ID:        uuid.New().String(),
		PersonID:  personID,
		CompanyID: req.CompanyID,
		Title:     req.Title,
		StartedAt: req.StartedAt,
		EndedAt:   req.EndedAt,
	}
	if err := s.personRepo.AddEmployment(ctx, employment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.invalidateRoster(ctx, req.CompanyID)
	span.SetStatus(codes.Ok, "")
	return employment, nil
}

func (s *contactService) RemoveEmployment(ctx context.Context, personID, employmentID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.remove_employment")
	defer span.End()

	span.SetAttributes(attribute.String("person_id", personID))

	person, err := s.personRepo.GetByID(ctx, personID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if person == nil {
		span.SetStatus(codes.Error, "person not found")
		return ErrPersonNotFound
	}

	var companyID string
	for _, e := range person.Employments {
		if e.ID == employmentID {
			companyID = e.CompanyID
			break
		}
	}
	if companyID == "" {
		span.SetStatus(codes.Error, "employment not found")
		return ErrEmploymentNotFound
	}

	if err := s.personRepo.RemoveEmployment(ctx, employmentID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.invalidateRoster(ctx, companyID)
	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *contactService) AddMarriage(ctx context.Context, personID string, req *dto.AddMarriageRequest) (*domain.Marriage, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.add_marriage")
	defer span.End()

	span.SetAttributes(attribute.String("person_id", personID))

	person, err := s.personRepo.GetByID(ctx, personID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if person == nil {
		span.SetStatus(codes.Error, "person not found")
		return nil, ErrPersonNotFound
	}

	marriage := &domain.Marriage{
		ID:         uuid.New().String(),
		PersonID:   personID,
		SpouseID:   req.SpouseID,
		SpouseName: req.SpouseName,
		MarriedAt:  req.MarriedAt,
		DivorcedAt: req.DivorcedAt,
	}
	if err := s.personRepo.AddMarriage(ctx, marriage); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return marriage, nil
}

func (s *contactService) RemoveMarriage(ctx context.Context, personID, marriageID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.remove_marriage")
	defer span.End()

	span.SetAttributes(attribute.String("person_id", personID))

	person, err := s.personRepo.GetByID(ctx, personID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if person == nil {
		span.SetStatus(codes.Error, "person not found")
		return ErrPersonNotFound
	}

	found := false
	for _, m := range person.Marriages {
		if m.ID == marriageID {
			found = true
			break
		}
	}
	if !found {
		span.SetStatus(codes.Error, "association not found")
		return ErrAssociationNotFound
	}

	if err := s.personRepo.RemoveMarriage(ctx, marriageID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *contactService) AddChild(ctx context.Context, personID string, req *dto.AddChildRequest) (*domain.Child, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.add_child")
	defer span.End()

	span.SetAttributes(attribute.String("person_id", personID))

	person, err := s.personRepo.GetByID(ctx, personID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if person == nil {
		span.SetStatus(codes.Error, "person not found")
		return nil, ErrPersonNotFound
	}

	child := &domain.Child{
		ID:        uuid.New().String(),
		PersonID:  personID,
		ChildID:   req.ChildID,
		ChildName: req.ChildName,
		BornAt:    req.BornAt,
	}
	if err := s.personRepo.AddChild(ctx, child); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return child, nil
}

func (s *contactService) RemoveChild(ctx context.Context, personID, childID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.remove_child")
	defer span.End()

	span.SetAttributes(attribute.String("person_id", personID))

	person, err := s.personRepo.GetByID(ctx, personID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if person == nil {
		span.SetStatus(codes.Error, "person not found")
		return ErrPersonNotFound
	}

	found := false
	for _, c := range person.Children {
		if c.ID == childID {
			found = true
			break
		}
	}
	if !found {
		span.SetStatus(codes.Error, "association not found")
		return ErrAssociationNotFound
	}

	if err := s.personRepo.RemoveChild(ctx, childID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *contactService) AttachTag(ctx context.Context, personID, tagID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.attach_tag")
	defer span.End()

	span.SetAttributes(
		attribute.String("person_id", personID),
		attribute.String("tag_id", tagID),
	)

	person, err := s.personRepo.GetByID(ctx, personID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if person == nil {
		span.SetStatus(codes.Error, "person not found")
		return ErrPersonNotFound
	}

	tag, err := s.tagRepo.GetByID(ctx, tagID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if tag == nil {
		span.SetStatus(codes.Error, "tag not found")
		return ErrTagNotFound
	}

	if err := s.personRepo.AttachTag(ctx, personID, tagID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *contactService) DetachTag(ctx context.Context, personID, tagID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.detach_tag")
	defer span.End()

	span.SetAttributes(
		attribute.String("person_id", personID),
		attribute.String("tag_id", tagID),
	)

	if err := s.personRepo.DetachTag(ctx, personID, tagID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *contactService) invalidateRoster(ctx context.Context, companyID string) {
	if s.rosterCache == nil {
		return
	}
	if err := s.rosterCache.Invalidate(ctx, companyID); err != nil {
		logger.Get().Warn("roster cache invalidation failed")
	}
}

func (s *contactService) invalidateEmployerRosters(ctx context.Context, person *domain.Person) {
	for _, e := range person.Employments {
		s.invalidateRoster(ctx, e.CompanyID)
	}
}
