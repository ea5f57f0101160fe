// Package session persists the authentication state of the client between
// runs: the access/refresh token pair and the logged-in username.
package session

import "context"

// Well-known keys.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUsername     = "username"
)

// Repository is a durable key/value store for session state. Get returns an
// empty string for an absent key; values are opaque pass-through.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
