package api

import (
	"context"
	"io"

	"wandermap/internal/client/models"
)

// User is the profile object returned alongside the token pair at login and
// registration.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Client is the remote WanderMap service as consumed by the application
// services. All trip operations require a previously installed access token.
type Client interface {
	// SetAccessToken installs the bearer token used on protected requests.
	// An empty string removes it.
	SetAccessToken(token string)

	Login(ctx context.Context, email, password string) (models.Credentials, *User, error)
	Register(ctx context.Context, username, email, password string) (models.Credentials, *User, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)

	ListTrips(ctx context.Context) ([]models.Trip, error)
	GetTrip(ctx context.Context, id int) (*models.Trip, error)
	CreateTrip(ctx context.Context, draft models.TripDraft) (*models.Trip, error)
	UpdateTrip(ctx context.Context, id int, patch models.TripPatch) (*models.Trip, error)
	DeleteTrip(ctx context.Context, id int) error
	UploadPhoto(ctx context.Context, tripID int, filename string, photo io.Reader) (*models.Trip, error)
	DeletePhoto(ctx context.Context, photoID int) error

	Suggest(ctx context.Context, query string) ([]models.Suggestion, error)
	SuggestWithCoords(ctx context.Context, query string) ([]models.Suggestion, error)

	ShareSettings(ctx context.Context) (*models.ShareSettings, error)
	SetPublicity(ctx context.Context, public bool) error
	CreatePrivateLink(ctx context.Context) (string, error)

	PublicProfile(ctx context.Context, username string) (*models.SharedJourney, error)
	SharedByToken(ctx context.Context, token string) (*models.SharedJourney, error)
}
