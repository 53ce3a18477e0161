package service

import (
	"context"
	"testing"

	"github.com/contactdeck/contactdeck/internal/domain"
	"github.com/contactdeck/contactdeck/internal/dto"
)

// mockSEORepository is a mock implementation of SEORepository
type mockSEORepository struct {
	profiles map[string]*domain.SEOProfile
}

func newMockSEORepository() *mockSEORepository {
	return &mockSEORepository{profiles: make(map[string]*domain.SEOProfile)}
}

func (r *mockSEORepository) GetByPageKey(ctx context.Context, pageKey string) (*domain.SEOProfile, error) {
	return r.profiles[pageKey], nil
}

func (r *mockSEORepository) Upsert(ctx context.Context, profile *domain.SEOProfile) error {
	r.profiles[profile.PageKey] = profile
	return nil
}

func (r *mockSEORepository) List(ctx context.Context) ([]*domain.SEOProfile, error) {
	var out []*domain.SEOProfile
	for _, p := range r.profiles {
		out = append(out, p)
	}
	return out, nil
}

func TestSEOService(t *testing.T) {
	seoRepo := newMockSEORepository()
	svc := NewSEOService(seoRepo)

	t.Run("get missing profile", func(t *testing.T) {
		_, err := svc.GetProfile(context.Background(), "home")
		if err != ErrSEOProfileNotFound {
			t.Errorf("GetProfile() error = %v, want %v", err, ErrSEOProfileNotFound)
		}
	})

	t.Run("upsert creates the profile", func(t *testing.T) {
		profile, err := svc.UpsertProfile(context.Background(), "home", &dto.UpsertSEORequest{
			Title:       "ContactDeck",
			Description: "Contact management dashboard",
		})
		if err != nil {
			t.Fatalf("UpsertProfile() error = %v", err)
		}
		if profile.PageKey != "home" {
			t.Errorf("UpsertProfile() PageKey = %v, want home", profile.PageKey)
		}
		if profile.Keywords == nil {
			t.Error("UpsertProfile() Keywords should default to empty slice")
		}
	})

	t.Run("upsert keeps the original ID and creation time", func(t *testing.T) {
		first := seoRepo.profiles["home"]

		updated, err := svc.UpsertProfile(context.Background(), "home", &dto.UpsertSEORequest{
			Title:    "ContactDeck Dashboard",
			Keywords: []string{"crm", "contacts"},
		})
		if err != nil {
			t.Fatalf("UpsertProfile() error = %v", err)
		}
		if updated.ID != first.ID {
			t.Errorf("UpsertProfile() replaced ID %v with %v", first.ID, updated.ID)
		}
		if !updated.CreatedAt.Equal(first.CreatedAt) {
			t.Error("UpsertProfile() should preserve CreatedAt")
		}
		if updated.Title != "ContactDeck Dashboard" {
			t.Errorf("UpsertProfile() Title = %v", updated.Title)
		}
	})
}
