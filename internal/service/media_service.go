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
	ErrVideoNotFound     = errors.New("video not found")
	ErrGalleryNotFound   = errors.New("gallery not found")
	ErrSlugAlreadyExists = errors.New("slug already exists")
)

// MediaService manages videos and image galleries.
type MediaService interface {
	CreateVideo(ctx context.Context, req *dto.CreateVideoRequest) (*domain.Video, error)
	GetVideo(ctx context.Context, id string) (*domain.Video, error)
	ListVideos(ctx context.Context, filter *dto.ListFilter) ([]*domain.Video, int64, error)
	UpdateVideo(ctx context.Context, id string, req *dto.UpdateVideoRequest) (*domain.Video, error)
	DeleteVideo(ctx context.Context, id string) error

	CreateGallery(ctx context.Context, req *dto.CreateGalleryRequest) (*domain.Gallery, error)
	GetGallery(ctx context.Context, id string) (*domain.Gallery, error)
	ListGalleries(ctx context.Context, filter *dto.ListFilter) ([]*domain.Gallery, int64, error)
	UpdateGallery(ctx context.Context, id string, req *dto.UpdateGalleryRequest) (*domain.Gallery, error)
	DeleteGallery(ctx context.Context, id string) error
}

type mediaService struct {
	videoRepo   repository.VideoRepository
	galleryRepo repository.GalleryRepository
}

// NewMediaService creates a new MediaService.
func NewMediaService(videoRepo repository.VideoRepository, galleryRepo repository.GalleryRepository) MediaService {
	return &mediaService{
		videoRepo:   videoRepo,
		galleryRepo: galleryRepo,
	}
}

func (s *mediaService) CreateVideo(ctx context.Context, req *dto.CreateVideoRequest) (*domain.Video, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.media.create_video")
	defer span.End()

	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Title)
	}

	existing, err := s.videoRepo.GetBySlug(ctx, slug)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if existing != nil {
		span.SetStatus(codes.Error, "slug already exists")
		return nil, ErrSlugAlreadyExists
	}

	status := domain.VideoStatus(req.Status)
	if status == "" {
		status = domain.VideoStatusDraft
	}

	now := time.Now()
	video := &domain.Video{
		ID:           uuid.New().String(),
		Title:        req.Title,
		Slug:         slug,
		Description:  req.Description,
		URL:          req.URL,
		ThumbnailURL: req.ThumbnailURL,
		DurationSec:  req.DurationSec,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.videoRepo.Create(ctx, video); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("video_id", video.ID))
	span.SetStatus(codes.Ok, "")
	return video, nil
}

func (s *mediaService) GetVideo(ctx context.Context, id string) (*domain.Video, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.media.get_video")
	defer span.End()

	span.SetAttributes(attribute.String("video_id", id))

	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if video == nil {
		span.SetStatus(codes.Error, "video not found")
		return nil, ErrVideoNotFound
	}

	span.SetStatus(codes.Ok, "")
	return video, nil
}

func (s *mediaService) ListVideos(ctx context.Context, filter *dto.ListFilter) ([]*domain.Video, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.media.list_videos")
	defer span.End()

	filter.SetDefaults()
	videos, total, err := s.videoRepo.List(ctx, filter.Search, filter.Limit, filter.Offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("count", len(videos)))
	span.SetStatus(codes.Ok, "")
	return videos, total, nil
}

func (s *mediaService) UpdateVideo(ctx context.Context, id string, req *dto.UpdateVideoRequest) (*domain.Video, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.media.update_video")
	defer span.End()

	span.SetAttributes(attribute.String("video_id", id))

	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if video == nil {
		span.SetStatus(codes.Error, "video not found")
		return nil, ErrVideoNotFound
	}

	if req.Title != nil {
		video.Title = *req.Title
	}
	if req.Description != nil {
		video.Description = *req.Description
	}
	if req.URL != nil {
		video.URL = *req.URL
	}
	if req.ThumbnailURL != nil {
		video.ThumbnailURL = *req.ThumbnailURL
	}
	if req.DurationSec != nil {
		video.DurationSec = *req.DurationSec
	}
	if req.Status != nil {
		video.Status = domain.VideoStatus(*req.Status)
	}
	video.UpdatedAt = time.Now()

	if err := s.videoRepo.Update(ctx, video); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return video, nil
}

func (s *mediaService) DeleteVideo(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.media.delete_video")
	defer span.End()

	span.SetAttributes(attribute.String("video_id", id))

	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if video == nil {
		span.SetStatus(codes.Error, "video not found")
		return ErrVideoNotFound
	}

	if err := s.videoRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *mediaService) CreateGallery(ctx context.Context, req *dto.CreateGalleryRequest) (*domain.Gallery, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.media.create_gallery")
	defer span.End()

	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Title)
	}

	existing, err := s.galleryRepo.GetBySlug(ctx, slug)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if existing != nil {
		span.SetStatus(codes.Error, "slug already exists")
		return nil, ErrSlugAlreadyExists
	}

	now := time.Now()
	gallery := &domain.Gallery{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Slug:        slug,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		Images:      buildGalleryImages("", req.Images),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i := range gallery.Images {
		gallery.Images[i].GalleryID = gallery.ID
	}

	if err := s.galleryRepo.Create(ctx, gallery); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("gallery_id", gallery.ID))
	span.SetStatus(codes.Ok, "")
	return gallery, nil
}

func (s *mediaService) GetGallery(ctx context.Context, id string) (*domain.Gallery, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.media.get_gallery")
	defer span.End()

	span.SetAttributes(attribute.String("gallery_id", id))

	gallery, err := s.galleryRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if gallery == nil {
		span.SetStatus(codes.Error, "gallery not found")
		return nil, ErrGalleryNotFound
	}

	span.SetStatus(codes.Ok, "")
	return gallery, nil
}

func (s *mediaService) ListGalleries(ctx context.Context, filter *dto.ListFilter) ([]*domain.Gallery, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.media.list_galleries")
	defer span.End()

	filter.SetDefaults()
	galleries, total, err := s.galleryRepo.List(ctx, filter.Search, filter.Limit, filter.Offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("count", len(galleries)))
	span.SetStatus(codes.Ok, "")
	return galleries, total, nil
}

func (s *mediaService) UpdateGallery(ctx context.Context, id string, req *dto.UpdateGalleryRequest) (*domain.Gallery, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.media.update_gallery")
	defer span.End()

	span.SetAttributes(attribute.String("gallery_id", id))

	gallery, err := s.galleryRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if gallery == nil {
		span.SetStatus(codes.Error, "gallery not found")
		return nil, ErrGalleryNotFound
	}

	if req.Title != nil {
		gallery.Title = *req.Title
	}
	if req.Description != nil {
		gallery.Description = *req.Description
	}
	if req.IsPublic != nil {
		gallery.IsPublic = *req.IsPublic
	}
	gallery.UpdatedAt = time.Now()

	if err := s.galleryRepo.Update(ctx, gallery); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// A non-nil Images slice replaces the full set atomically.
	if req.Images != nil {
		images := buildGalleryImages(gallery.ID, *req.Images)
		if err := s.galleryRepo.ReplaceImages(ctx, gallery.ID, images); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		gallery.Images = images
	}

	span.SetStatus(codes.Ok, "")
	return gallery, nil
}

func (s *mediaService) DeleteGallery(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.media.delete_gallery")
	defer span.End()

	span.SetAttributes(attribute.String("gallery_id", id))

	gallery, err := s.galleryRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if gallery == nil {
		span.SetStatus(codes.Error, "gallery not found")
		return ErrGalleryNotFound
	}

	if err := s.galleryRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// buildGalleryImages assigns IDs and positions from input order.
func buildGalleryImages(galleryID string, inputs []dto.GalleryImageInput) []domain.GalleryImage {
	images := make([]domain.GalleryImage, 0, len(inputs))
	for i, in := range inputs {
		images = append(images, domain.GalleryImage{
			ID:        uuid.New().String(),
			GalleryID: galleryID,
			URL:       in.URL,
			Caption:   in.Caption,
			AltText:   in.AltText,
			Position:  i,
		})
	}
	return images
}
