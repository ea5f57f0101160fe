// Package services contains the application services of the WanderMap
// client: authentication and token lifecycle, the session guard, the trip
// state coordinator, location autocomplete, and share settings.
package services

import (
	"context"
	"fmt"

	"wandermap/internal/client/api"
	"wandermap/internal/client/models"
	"wandermap/internal/client/repositories/session"
)

// AuthService owns the credential lifecycle: tokens are created at
// login/signup, replaced wholesale by refresh, and destroyed at logout.
//
// Contract:
//   - Login/Register: authenticate against the server, persist the token
//     pair, and install the access token on the transport.
//   - Restore: load persisted credentials on startup; reports whether a
//     session exists.
//   - Logout: clear the persisted session and the transport token.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, username, email, password string) (string, error)
	Restore(ctx context.Context) (string, bool, error)
	Logout(ctx context.Context) error
}

type authService struct {
	client api.Client
	store  session.Repository
}

func NewAuthService(client api.Client, store session.Repository) AuthService {
	return &authService{client: client, store: store}
}

func (a *authService) Login(ctx context.Context, email, password string) (string, error) {
	creds, user, err := a.client.Login(ctx, email, password)
	if err != nil {
		return "", fmt.Errorf("login error: %w", err)
	}
	username := email
	if user != nil && user.Username != "" {
		username = user.Username
	}
	if err := a.saveSession(ctx, creds, username); err != nil {
		return "", fmt.Errorf("session saving error: %w", err)
	}
	a.client.SetAccessToken(creds.Access)
	return username, nil
}

func (a *authService) Register(ctx context.Context, username, email, password string) (string, error) {
	creds, user, err := a.client.Register(ctx, username, email, password)
	if err != nil {
		return "", fmt.Errorf("registration error: %w", err)
	}
	if user != nil && user.Username != "" {
		username = user.Username
	}
	if err := a.saveSession(ctx, creds, username); err != nil {
		return "", fmt.Errorf("session saving error: %w", err)
	}
	a.client.SetAccessToken(creds.Access)
	return username, nil
}

func (a *authService) saveSession(ctx context.Context, creds models.Credentials, username string) error {
	if err := a.store.Set(ctx, session.KeyAccessToken, creds.Access); err != nil {
		return err
	}
	if err := a.store.Set(ctx, session.KeyRefreshToken, creds.Refresh); err != nil {
		return err
	}
	return a.store.Set(ctx, session.KeyUsername, username)
}

// Restore installs a previously persisted access token on the transport.
// It does not verify the token; the session guard handles expiry on the
// first protected fetch.
func (a *authService) Restore(ctx context.Context) (string, bool, error) {
	access, err := a.store.Get(ctx, session.KeyAccessToken)
	if err != nil {
		return "", false, err
	}
	if access == "" {
		return "", false, nil
	}
	username, err := a.store.Get(ctx, session.KeyUsername)
	if err != nil {
		return "", false, err
	}
	a.client.SetAccessToken(access)
	return username, true, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("session clearing error: %w", err)
	}
	a.client.SetAccessToken("")
	return nil
}
