package service

import (
	"context"
	"testing"

	"github.com/contactdeck/contactdeck/internal/dto"
)

func TestTagService(t *testing.T) {
	tagRepo := newMockTagRepository()
	svc := NewTagService(tagRepo)

	t.Run("create derives slug from name", func(t *testing.T) {
		tag, err := svc.CreateTag(context.Background(), &dto.CreateTagRequest{
			Name:  "Key Account",
			Color: "#ff8800",
		})
		if err != nil {
			t.Fatalf("CreateTag() error = %v", err)
		}
		if tag.Slug != "key-account" {
			t.Errorf("CreateTag() Slug = %v, want key-account", tag.Slug)
		}
	})

	t.Run("duplicate slug is rejected", func(t *testing.T) {
		_, err := svc.CreateTag(context.Background(), &dto.CreateTagRequest{Name: "Key Account"})
		if err != ErrTagAlreadyExists {
			t.Errorf("CreateTag() error = %v, want %v", err, ErrTagAlreadyExists)
		}
	})

	t.Run("rename updates the slug", func(t *testing.T) {
		created, err := svc.CreateTag(context.Background(), &dto.CreateTagRequest{Name: "Prospect"})
		if err != nil {
			t.Fatalf("CreateTag() error = %v", err)
		}

		newName := "Hot Prospect"
		updated, err := svc.UpdateTag(context.Background(), created.ID, &dto.UpdateTagRequest{Name: &newName})
		if err != nil {
			t.Fatalf("UpdateTag() error = %v", err)
		}
		if updated.Slug != "hot-prospect" {
			t.Errorf("UpdateTag() Slug = %v, want hot-prospect", updated.Slug)
		}
	})

	t.Run("rename onto an existing slug is rejected", func(t *testing.T) {
		created, err := svc.CreateTag(context.Background(), &dto.CreateTagRequest{Name: "Cold Lead"})
		if err != nil {
			t.Fatalf("CreateTag() error = %v", err)
		}

		collide := "Key Account"
		_, err = svc.UpdateTag(context.Background(), created.ID, &dto.UpdateTagRequest{Name: &collide})
		if err != ErrTagAlreadyExists {
			t.Errorf("UpdateTag() error = %v, want %v", err, ErrTagAlreadyExists)
		}
	})

	t.Run("delete missing tag", func(t *testing.T) {
		err := svc.DeleteTag(context.Background(), "missing-id")
		if err != ErrTagNotFound {
			t.Errorf("DeleteTag() error = %v, want %v", err, ErrTagNotFound)
		}
	})
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Key Account", "key-account"},
		{"  Spaced  Out  ", "spaced-out"},
		{"Already-Slugged", "already-slugged"},
		{"Symbols & Stuff!", "symbols-stuff"},
		{"2026 Roadmap", "2026-roadmap"},
	}
	for _, tc := range cases {
		if got := slugify(tc.in); got != tc.want {
			t.Errorf("slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
