package service

import (
	"context"
	"testing"

	"github.com/contactdeck/contactdeck/internal/domain"
	"github.com/contactdeck/contactdeck/internal/dto"
)

// mockVideoRepository is a mock implementation of VideoRepository
type mockVideoRepository struct {
	videos    map[string]*domain.Video
	slugIndex map[string]*domain.Video
}

func newMockVideoRepository() *mockVideoRepository {
	return &mockVideoRepository{
		videos:    make(map[string]*domain.Video),
		slugIndex: make(map[string]*domain.Video),
	}
}

func (r *mockVideoRepository) Create(ctx context.Context, video *domain.Video) error {
	r.videos[video.ID] = video
	r.slugIndex[video.Slug] = video
	return nil
}

func (r *mockVideoRepository) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	return r.videos[id], nil
}

func (r *mockVideoRepository) GetBySlug(ctx context.Context, slug string) (*domain.Video, error) {
	return r.slugIndex[slug], nil
}

func (r *mockVideoRepository) List(ctx context.Context, search string, limit, offset int) ([]*domain.Video, int64, error) {
	var out []*domain.Video
	for _, v := range r.videos {
		out = append(out, v)
	}
	return out, int64(len(out)), nil
}

func (r *mockVideoRepository) Update(ctx context.Context, video *domain.Video) error {
	r.videos[video.ID] = video
	return nil
}

func (r *mockVideoRepository) Delete(ctx context.Context, id string) error {
	video := r.videos[id]
	if video != nil {
		delete(r.slugIndex, video.Slug)
		delete(r.videos, id)
	}
	return nil
}

// mockGalleryRepository is a mock implementation of GalleryRepository
type mockGalleryRepository struct {
	galleries map[string]*domain.Gallery
}

func newMockGalleryRepository() *mockGalleryRepository {
	return &mockGalleryRepository{galleries: make(map[string]*domain.Gallery)}
}

func (r *mockGalleryRepository) Create(ctx context.Context, gallery *domain.Gallery) error {
	r.galleries[gallery.ID] = gallery
	return nil
}

func (r *mockGalleryRepository) GetByID(ctx context.Context, id string) (*domain.Gallery, error) {
	return r.galleries[id], nil
}

func (r *mockGalleryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Gallery, error) {
	for _, g := range r.galleries {
		if g.Slug == slug {
			return g, nil
		}
	}
	return nil, nil
}

func (r *mockGalleryRepository) List(ctx context.Context, search string, limit, offset int) ([]*domain.Gallery, int64, error) {
	var out []*domain.Gallery
	for _, g := range r.galleries {
		out = append(out, g)
	}
	return out, int64(len(out)), nil
}

func (r *mockGalleryRepository) Update(ctx context.Context, gallery *domain.Gallery) error {
	r.galleries[gallery.ID] = gallery
	return nil
}

func (r *mockGalleryRepository) ReplaceImages(ctx context.Context, galleryID string, images []domain.GalleryImage) error {
	gallery := r.galleries[galleryID]
	if gallery != nil {
		gallery.Images = images
	}
	return nil
}

func (r *mockGalleryRepository) Delete(ctx context.Context, id string) error {
	delete(r.galleries, id)
	return nil
}

func newTestMediaService() (MediaService, *mockVideoRepository, *mockGalleryRepository) {
	videoRepo := newMockVideoRepository()
	galleryRepo := newMockGalleryRepository()
	return NewMediaService(videoRepo, galleryRepo), videoRepo, galleryRepo
}

func TestMediaService_Videos(t *testing.T) {
	svc, videoRepo, _ := newTestMediaService()

	t.Run("create derives slug and defaults to draft", func(t *testing.T) {
		video, err := svc.CreateVideo(context.Background(), &dto.CreateVideoRequest{
			Title: "Product Launch 2026",
			URL:   "https://videos.test/launch.mp4",
		})
		if err != nil {
			t.Fatalf("CreateVideo() error = %v", err)
		}
		if video.Slug != "product-launch-2026" {
			t.Errorf("CreateVideo() Slug = %v, want product-launch-2026", video.Slug)
		}
		if video.Status != domain.VideoStatusDraft {
			t.Errorf("CreateVideo() Status = %v, want draft", video.Status)
		}
	})

	t.Run("duplicate slug is rejected", func(t *testing.T) {
		_, err := svc.CreateVideo(context.Background(), &dto.CreateVideoRequest{
			Title: "Product Launch 2026",
			URL:   "https://videos.test/launch2.mp4",
		})
		if err != ErrSlugAlreadyExists {
			t.Errorf("CreateVideo() error = %v, want %v", err, ErrSlugAlreadyExists)
		}
	})

	t.Run("publish via partial update", func(t *testing.T) {
		video := &domain.Video{ID: "vid-1", Title: "Draft Video", Slug: "draft-video", Status: domain.VideoStatusDraft}
		videoRepo.videos[video.ID] = video
		videoRepo.slugIndex[video.Slug] = video

		status := string(domain.VideoStatusPublished)
		updated, err := svc.UpdateVideo(context.Background(), video.ID, &dto.UpdateVideoRequest{Status: &status})
		if err != nil {
			t.Fatalf("UpdateVideo() error = %v", err)
		}
		if updated.Status != domain.VideoStatusPublished {
			t.Errorf("UpdateVideo() Status = %v, want published", updated.Status)
		}
		if updated.Title != "Draft Video" {
			t.Errorf("UpdateVideo() Title = %v, want unchanged", updated.Title)
		}
	})

	t.Run("delete missing video", func(t *testing.T) {
		err := svc.DeleteVideo(context.Background(), "missing-id")
		if err != ErrVideoNotFound {
			t.Errorf("DeleteVideo() error = %v, want %v", err, ErrVideoNotFound)
		}
	})
}

func TestMediaService_Galleries(t *testing.T) {
	svc, _, galleryRepo := newTestMediaService()

	t.Run("create assigns image positions from input order", func(t *testing.T) {
		gallery, err := svc.CreateGallery(context.Background(), &dto.CreateGalleryRequest{
			Title: "Office Tour",
			Images: []dto.GalleryImageInput{
				{URL: "https://img.test/a.jpg", Caption: "Lobby"},
				{URL: "https://img.test/b.jpg", Caption: "Desks"},
				{URL: "https://img.test/c.jpg", Caption: "Roof"},
			},
		})
		if err != nil {
			t.Fatalf("CreateGallery() error = %v", err)
		}
		if len(gallery.Images) != 3 {
			t.Fatalf("CreateGallery() images = %d, want 3", len(gallery.Images))
		}
		for i, img := range gallery.Images {
			if img.Position != i {
				t.Errorf("image %d Position = %d, want %d", i, img.Position, i)
			}
			if img.GalleryID != gallery.ID {
				t.Errorf("image %d GalleryID = %v, want %v", i, img.GalleryID, gallery.ID)
			}
		}
	})

	t.Run("duplicate slug is rejected", func(t *testing.T) {
		_, err := svc.CreateGallery(context.Background(), &dto.CreateGalleryRequest{
			Title:  "Office Tour",
			Images: []dto.GalleryImageInput{{URL: "https://img.test/d.jpg"}},
		})
		if err != ErrSlugAlreadyExists {
			t.Errorf("CreateGallery() error = %v, want %v", err, ErrSlugAlreadyExists)
		}
	})

	t.Run("update replaces the full image set", func(t *testing.T) {
		gallery := &domain.Gallery{
			ID:    "gal-1",
			Title: "Old Gallery",
			Images: []domain.GalleryImage{
				{ID: "img-1", GalleryID: "gal-1", URL: "https://img.test/old.jpg", Position: 0},
			},
		}
		galleryRepo.galleries[gallery.ID] = gallery

		images := []dto.GalleryImageInput{
			{URL: "https://img.test/new1.jpg"},
			{URL: "https://img.test/new2.jpg"},
		}
		updated, err := svc.UpdateGallery(context.Background(), gallery.ID, &dto.UpdateGalleryRequest{Images: &images})
		if err != nil {
			t.Fatalf("UpdateGallery() error = %v", err)
		}
		if len(updated.Images) != 2 {
			t.Fatalf("UpdateGallery() images = %d, want 2", len(updated.Images))
		}
		if updated.Images[0].URL != "https://img.test/new1.jpg" {
			t.Errorf("UpdateGallery() first image = %v", updated.Images[0].URL)
		}
	})

	t.Run("nil images leaves the set alone", func(t *testing.T) {
		gallery := &domain.Gallery{
			ID:    "gal-2",
			Title: "Keep Images",
			Images: []domain.GalleryImage{
				{ID: "img-k", GalleryID: "gal-2", URL: "https://img.test/keep.jpg", Position: 0},
			},
		}
		galleryRepo.galleries[gallery.ID] = gallery

		newTitle := "Renamed Gallery"
		updated, err := svc.UpdateGallery(context.Background(), gallery.ID, &dto.UpdateGalleryRequest{Title: &newTitle})
		if err != nil {
			t.Fatalf("UpdateGallery() error = %v", err)
		}
		if len(updated.Images) != 1 {
			t.Errorf("UpdateGallery() images = %d, want 1", len(updated.Images))
		}
	})
}
