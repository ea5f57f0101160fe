package services

import (
	"context"
	"errors"

	"wandermap/internal/client/api"
	"wandermap/internal/client/repositories/session"
	"wandermap/internal/logging"
)

var (
	// ErrNotAuthenticated means no access credential exists; the caller
	// should go to login without any request having been issued.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionExpired means the refresh credential was rejected or
	// absent; stored credentials have been cleared.
	ErrSessionExpired = errors.New("session expired")
)

// Guard runs protected fetches with the bounded-retry auth contract: on an
// auth failure it performs exactly one refresh-and-retry, and the retried
// fetch's outcome is final. Unbounded refresh loops are not possible by
// construction.
type Guard struct {
	client api.Client
	store  session.Repository
	log    logging.Logger
}

func NewGuard(client api.Client, store session.Repository, log logging.Logger) *Guard {
	return &Guard{client: client, store: store, log: log}
}

// Run executes fetch under the session guard.
//
// State machine per guarded action:
//
//	no credential              -> ErrNotAuthenticated (no request issued)
//	fetch ok                   -> nil
//	fetch auth-failed          -> one refresh
//	  refresh ok               -> retry fetch once, outcome final
//	  refresh failed or absent -> credentials cleared, ErrSessionExpired
//
// Non-auth failures pass through unchanged.
func (g *Guard) Run(ctx context.Context, fetch func(ctx context.Context) error) error {
	access, err := g.store.Get(ctx, session.KeyAccessToken)
	if err != nil {
		return err
	}
	if access == "" {
		return ErrNotAuthenticated
	}
	g.client.SetAccessToken(access)

	err = fetch(ctx)
	if err == nil || !errors.Is(err, api.ErrAuth) {
		return err
	}

	refresh, rerr := g.store.Get(ctx, session.KeyRefreshToken)
	if rerr != nil {
		return rerr
	}
	if refresh == "" {
		g.expire(ctx)
		return ErrSessionExpired
	}

	g.log.Info(ctx, "access token rejected, refreshing")
	newAccess, rerr := g.client.Refresh(ctx, refresh)
	if rerr != nil {
		g.log.Warn(ctx, "token refresh failed", "error", rerr)
		g.expire(ctx)
		return ErrSessionExpired
	}

	if err := g.store.Set(ctx, session.KeyAccessToken, newAccess); err != nil {
		return err
	}
	g.client.SetAccessToken(newAccess)

	return fetch(ctx)
}

// expire destroys the stored credentials and the transport token.
func (g *Guard) expire(ctx context.Context) {
	if err := g.store.Clear(ctx); err != nil {
		g.log.Error(ctx, "failed to clear session", "error", err)
	}
	g.client.SetAccessToken("")
}
