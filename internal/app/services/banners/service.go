// Package banners manages promotional banners shown on the home screen.
package banners

import (
	"context"
	"fmt"
	"strings"

	"github.com/campuslink/platform/internal/app/alloc"
	"github.com/campuslink/platform/internal/app/domain/banner"
	"github.com/campuslink/platform/internal/app/storage"
	"github.com/campuslink/platform/pkg/logger"
)

// Service manages banners.
type Service struct {
	store     storage.BannerStore
	allocator *alloc.Allocator
	log       *logger.Logger
}

// New constructs a banner service.
func New(store storage.BannerStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("banners")
	}
	src := alloc.SourceFunc(func(ctx context.Context) ([]int64, error) {
		return store.ListBannerIdentifiers(ctx)
	})
	return &Service{
		store:     store,
		allocator: alloc.New(src, log),
		log:       log,
	}
}

// Create registers a banner under the smallest free identifier. New banners
// start active.
func (s *Service) Create(ctx context.Context, title, imageURL, linkURL string) (banner.Banner, error) {
	title = strings.TrimSpace(title)
	imageURL = strings.TrimSpace(imageURL)
	if title == "" {
		return banner.Banner{}, fmt.Errorf("title is required")
	}
	if imageURL == "" {
		return banner.Banner{}, fmt.Errorf("image_url is required")
	}

	var created banner.Banner
	_, err := s.allocator.Allocate(ctx, func(ctx context.Context, identifier int64) error {
		var err error
		created, err = s.store.CreateBanner(ctx, banner.Banner{
			Identifier: identifier,
			Title:      title,
			ImageURL:   imageURL,
			LinkURL:    strings.TrimSpace(linkURL),
			Active:     true,
		})
		return err
	})
	if err != nil {
		return banner.Banner{}, err
	}

	s.log.WithField("identifier", created.Identifier).
		WithField("title", created.Title).
		Info("banner created")
	return created, nil
}

// Get retrieves a banner by identifier.
func (s *Service) Get(ctx context.Context, identifier int64) (banner.Banner, error) {
	return s.store.GetBanner(ctx, identifier)
}

// List returns banners ordered by identifier. With activeOnly set, hidden
// banners are skipped.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]banner.Banner, error) {
	return s.store.ListBanners(ctx, activeOnly)
}

// Update edits mutable fields. Nil pointers leave fields unchanged.
func (s *Service) Update(ctx context.Context, identifier int64, title, imageURL, linkURL *string, active *bool) (banner.Banner, error) {
	b, err := s.store.GetBanner(ctx, identifier)
	if err != nil {
		return banner.Banner{}, err
	}

	if title != nil {
		if trimmed := strings.TrimSpace(*title); trimmed != "" {
			b.Title = trimmed
		} else {
			return banner.Banner{}, fmt.Errorf("title cannot be empty")
		}
	}
	if imageURL != nil {
		if trimmed := strings.TrimSpace(*imageURL); trimmed != "" {
			b.ImageURL = trimmed
		} else {
			return banner.Banner{}, fmt.Errorf("image_url cannot be empty")
		}
	}
	if linkURL != nil {
		b.LinkURL = strings.TrimSpace(*linkURL)
	}
	if active != nil {
		b.Active = *active
	}

	b, err = s.store.UpdateBanner(ctx, b)
	if err != nil {
		return banner.Banner{}, err
	}
	s.log.WithField("identifier", b.Identifier).Info("banner updated")
	return b, nil
}

// Delete removes a banner, freeing its identifier for reuse.
func (s *Service) Delete(ctx context.Context, identifier int64) error {
	if err := s.store.DeleteBanner(ctx, identifier); err != nil {
		return err
	}
	s.log.WithField("identifier", identifier).Info("banner deleted")
	return nil
}
