package repository

import (
	"context"

	"github.com/contactdeck/contactdeck/internal/domain"
)

// UserRepository persists dashboard users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}

// SessionRepository persists refresh-token sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteByUserID removes every session for a user and returns the
	// number of sessions revoked.
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
	DeleteExpired(ctx context.Context) error
}

// CompanyRepository persists companies.
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	List(ctx context.Context, search string, limit, offset int) ([]*domain.Company, int64, error)
	Update(ctx context.Context, company *domain.Company) error
	Delete(ctx context.Context, id string) error
	// ListPeople returns the company's roster via employment links.
	ListPeople(ctx context.Context, companyID string) ([]*domain.Person, error)
}

// PersonRepository persists people and their typed associations.
type PersonRepository interface {
	Create(ctx context.Context, person *domain.Person) error
	GetByID(ctx context.Context, id string) (*domain.Person, error)
	List(ctx context.Context, search string, limit, offset int) ([]*domain.Person, int64, error)
	Update(ctx context.Context, person *domain.Person) error
	Delete(ctx context.Context, id string) error

	AddEmployment(ctx context.Context, employment *domain.Employment) error
	RemoveEmployment(ctx context.Context, employmentID string) error
	AddMarriage(ctx context.Context, marriage *domain.Marriage) error
	RemoveMarriage(ctx context.Context, marriageID string) error
	AddChild(ctx context.Context, child *domain.Child) error
	RemoveChild(ctx context.Context, childID string) error
	AttachTag(ctx context.Context, personID, tagID string) error
	DetachTag(ctx context.Context, personID, tagID string) error
}

// VideoRepository persists videos.
type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) error
	GetByID(ctx context.Context, id string) (*domain.Video, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Video, error)
	List(ctx context.Context, search string, limit, offset int) ([]*domain.Video, int64, error)
	Update(ctx context.Context, video *domain.Video) error
	Delete(ctx context.Context, id string) error
}

// GalleryRepository persists galleries with their ordered images.
type GalleryRepository interface {
	Create(ctx context.Context, gallery *domain.Gallery) error
	GetByID(ctx context.Context, id string) (*domain.Gallery, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Gallery, error)
	List(ctx context.Context, search string, limit, offset int) ([]*domain.Gallery, int64, error)
	Update(ctx context.Context, gallery *domain.Gallery) error
	// ReplaceImages swaps the full image set atomically.
	ReplaceImages(ctx context.Context, galleryID string, images []domain.GalleryImage) error
	Delete(ctx context.Context, id string) error
}

// TagRepository persists tags.
type TagRepository interface {
	Create(ctx context.Context, tag *domain.Tag) error
	GetByID(ctx context.Context, id string) (*domain.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	List(ctx context.Context) ([]*domain.Tag, error)
	Update(ctx context.Context, tag *domain.Tag) error
	Delete(ctx context.Context, id string) error
}

// SEORepository persists per-page SEO profiles.
type SEORepository interface {
	GetByPageKey(ctx context.Context, pageKey string) (*domain.SEOProfile, error)
	Upsert(ctx context.Context, profile *domain.SEOProfile) error
	List(ctx context.Context) ([]*domain.SEOProfile, error)
}

// RosterCache caches company rosters.
type RosterCache interface {
	Get(ctx context.Context, companyID string) ([]*domain.Person, bool, error)
	Set(ctx context.Context, companyID string, people []*domain.Person) error
	Invalidate(ctx context.Context, companyID string) error
}
