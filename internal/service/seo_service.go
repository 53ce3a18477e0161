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

var ErrSEOProfileNotFound = errors.New("seo profile not found")

// SEOService manages per-page SEO profiles.
type SEOService interface {
	GetProfile(ctx context.Context, pageKey string) (*domain.SEOProfile, error)
	UpsertProfile(ctx context.Context, pageKey string, req *dto.UpsertSEORequest) (*domain.SEOProfile, error)
	ListProfiles(ctx context.Context) ([]*domain.SEOProfile, error)
}

type seoService struct {
	seoRepo repository.SEORepository
}

// NewSEOService creates a new SEOService.
func NewSEOService(seoRepo repository.SEORepository) SEOService {
	return &seoService{seoRepo: seoRepo}
}

func (s *seoService) GetProfile(ctx context.Context, pageKey string) (*domain.SEOProfile, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.seo.get_profile")
	defer span.End()

	span.SetAttributes(attribute.String("page_key", pageKey))

	profile, err := s.seoRepo.GetByPageKey(ctx, pageKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if profile == nil {
		span.SetStatus(codes.Error, "profile not found")
		return nil, ErrSEOProfileNotFound
	}

	span.SetStatus(codes.Ok, "")
	return profile, nil
}

func (s *seoService) UpsertProfile(ctx context.Context, pageKey string, req *dto.UpsertSEORequest) (*domain.SEOProfile, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.seo.upsert_profile")
	defer span.End()

	span.SetAttributes(attribute.String("page_key", pageKey))

	existing, err := s.seoRepo.GetByPageKey(ctx, pageKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := time.Now()
	profile := &domain.SEOProfile{
		ID:              uuid.New().String(),
		PageKey:         pageKey,
		Title:           req.Title,
		Description:     req.Description,
		Keywords:        req.Keywords,
		CanonicalURL:    req.CanonicalURL,
		OGTitle:         req.OGTitle,
		OGDescription:   req.OGDescription,
		OGImageURL:      req.OGImageURL,
		RobotsDirective: req.RobotsDirective,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if existing != nil {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
	}
	if profile.Keywords == nil {
		profile.Keywords = []string{}
	}

	if err := s.seoRepo.Upsert(ctx, profile); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return profile, nil
}

func (s *seoService) ListProfiles(ctx context.Context) ([]*domain.SEOProfile, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.seo.list_profiles")
	defer span.End()

	profiles, err := s.seoRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(profiles)))
	span.SetStatus(codes.Ok, "")
	return profiles, nil
}
