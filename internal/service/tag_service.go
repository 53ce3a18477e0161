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
	"github.com/contactdeck/contactdeck/internal/repository"
	"github.com/contactdeck/contactdeck/pkg/telemetry"
)

var (
	ErrTagNotFound      = errors.New("tag not found")
	ErrTagAlreadyExists = errors.New("tag already exists")
)

// TagService manages tags.
type TagService interface {
	CreateTag(ctx context.Context, req *dto.CreateTagRequest) (*domain.Tag, error)
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	UpdateTag(ctx context.Context, id string, req *dto.UpdateTagRequest) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id string) error
}

type tagService struct {
	tagRepo repository.TagRepository
}

// NewTagService creates a new TagService.
func NewTagService(tagRepo repository.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

func (s *tagService) CreateTag(ctx context.Context, req *dto.CreateTagRequest) (*domain.Tag, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.tag.create")
	defer span.End()

	slug := slugify(req.Name)

	existing, err := s.tagRepo.GetBySlug(ctx, slug)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if existing != nil {
		span.SetStatus(codes.Error, "tag already exists")
		return nil, ErrTagAlreadyExists
	}

	now := time.Now()
	tag := &domain.Tag{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Slug:      slug,
		Color:     req.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.tagRepo.Create(ctx, tag); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("tag_id", tag.ID))
	span.SetStatus(codes.Ok, "")
	return tag, nil
}

func (s *tagService) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.tag.get")
	defer span.End()

	span.SetAttributes(attribute.String("tag_id", id))

	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if tag == nil {
		span.SetStatus(codes.Error, "tag not found")
		return nil, ErrTagNotFound
	}

	span.SetStatus(codes.Ok, "")
	return tag, nil
}

func (s *tagService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.tag.list")
	defer span.End()

	tags, err := s.tagRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(tags)))
	span.SetStatus(codes.Ok, "")
	return tags, nil
}

func (s *tagService) UpdateTag(ctx context.Context, id string, req *dto.UpdateTagRequest) (*domain.Tag, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.tag.update")
	defer span.End()

	span.SetAttributes(attribute.String("tag_id", id))

	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if tag == nil {
		span.SetStatus(codes.Error, "tag not found")
		return nil, ErrTagNotFound
	}

	if req.Name != nil {
		newSlug := slugify(*req.Name)
		if newSlug != tag.Slug {
			existing, err := s.tagRepo.GetBySlug(ctx, newSlug)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
			if existing != nil {
				span.SetStatus(codes.Error, "tag already exists")
				return nil, ErrTagAlreadyExists
			}
		}
		tag.Name = *req.Name
		tag.Slug = newSlug
	}
	if req.Color != nil {
		tag.Color = *req.Color
	}
	tag.UpdatedAt = time.Now()

	if err := s.tagRepo.Update(ctx, tag); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return tag, nil
}

func (s *tagService) DeleteTag(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.tag.delete")
	defer span.End()

	span.SetAttributes(attribute.String("tag_id", id))

	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if tag == nil {
		span.SetStatus(codes.Error, "tag not found")
		return ErrTagNotFound
	}

	if err := s.tagRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
