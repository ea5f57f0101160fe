package services

import (
	"context"
	"strings"

	"wandermap/internal/client/api"
	"wandermap/internal/client/models"
)

// ShareService manages journey visibility and shareable links, and fetches
// the read-only public and tokenized-private views.
type ShareService struct {
	client  api.Client
	siteURL string
}

func NewShareService(client api.Client, siteURL string) *ShareService {
	return &ShareService{client: client, siteURL: strings.TrimRight(siteURL, "/")}
}

func (s *ShareService) FetchSettings(ctx context.Context) (*models.ShareSettings, error) {
	return s.client.ShareSettings(ctx)
}

// SetPublicity is a single round trip. Link slugs are intentionally not
// updated here; callers re-fetch settings to observe them.
func (s *ShareService) SetPublicity(ctx context.Context, public bool) error {
	return s.client.SetPublicity(ctx, public)
}

// CreatePrivateLink asks the server to issue a fresh private slug. Issuing a
// new link is a distinct explicit action, never implied by a publicity
// toggle.
func (s *ShareService) CreatePrivateLink(ctx context.Context) error {
	_, err := s.client.CreatePrivateLink(ctx)
	return err
}

// PublicURL renders the shareable public link, or "" when no slug exists.
func (s *ShareService) PublicURL(settings *models.ShareSettings) string {
	if settings == nil || settings.PublicSlug == "" {
		return ""
	}
	return s.siteURL + "/u/" + settings.PublicSlug
}

// PrivateURL renders the tokenized private link, or "" when no slug exists.
func (s *ShareService) PrivateURL(settings *models.ShareSettings) string {
	if settings == nil || settings.PrivateSlug == "" {
		return ""
	}
	return s.siteURL + "/share/" + settings.PrivateSlug
}

// PublicProfile fetches somebody's journey by username. An api.ErrAuth
// result means the profile is private.
func (s *ShareService) PublicProfile(ctx context.Context, username string) (*models.SharedJourney, error) {
	return s.client.PublicProfile(ctx, username)
}

// SharedByToken fetches a journey through a private share token.
func (s *ShareService) SharedByToken(ctx context.Context, token string) (*models.SharedJourney, error) {
	return s.client.SharedByToken(ctx, token)
}
