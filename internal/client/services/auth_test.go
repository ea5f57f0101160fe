package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"wandermap/internal/client/api"
	"wandermap/internal/client/models"
	"wandermap/internal/client/repositories/session"
)

func TestLoginPersistsSessionAndInstallsToken(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{
		loginCreds: models.Credentials{Access: "a1", Refresh: "r1"},
		loginUser:  &api.User{Username: "anna", Email: "anna@example.com"},
	}
	store := newFakeStore()
	svc := NewAuthService(client, store)

	name, err := svc.Login(ctx, "anna@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "anna", name)

	for key, want := range map[string]string{
		session.KeyAccessToken:  "a1",
		session.KeyRefreshToken: "r1",
		session.KeyUsername:     "anna",
	} {
		got, gerr := store.Get(ctx, key)
		require.NoError(t, gerr)
		require.Equal(t, want, got)
	}
	require.Equal(t, "a1", client.token)
}

func TestLoginFallsBackToEmailWithoutProfile(t *testing.T) {
	client := &fakeClient{loginCreds: models.Credentials{Access: "a1", Refresh: "r1"}}
	svc := NewAuthService(client, newFakeStore())

	name, err := svc.Login(context.Background(), "anna@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "anna@example.com", name)
}

func TestLoginFailurePersistsNothing(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{loginErr: api.ErrAuth}
	store := newFakeStore()
	svc := NewAuthService(client, store)

	_, err := svc.Login(ctx, "anna@example.com", "wrong")
	require.ErrorIs(t, err, api.ErrAuth)

	access, gerr := store.Get(ctx, session.KeyAccessToken)
	require.NoError(t, gerr)
	require.Empty(t, access)
}

func TestLoginStoreFailureSurfaces(t *testing.T) {
	client := &fakeClient{loginCreds: models.Credentials{Access: "a1", Refresh: "r1"}}
	store := newFakeStore()
	store.setErr = errors.New("disk full")
	svc := NewAuthService(client, store)

	_, err := svc.Login(context.Background(), "anna@example.com", "secret")
	require.ErrorContains(t, err, "session saving error")
}

func TestRegisterUsesServerUsername(t *testing.T) {
	client := &fakeClient{
		registerCreds: models.Credentials{Access: "a1", Refresh: "r1"},
		registerUser:  &api.User{Username: "anna_travels"},
	}
	svc := NewAuthService(client, newFakeStore())

	name, err := svc.Register(context.Background(), "anna", "anna@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "anna_travels", name)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("no persisted session", func(t *testing.T) {
		client := &fakeClient{}
		svc := NewAuthService(client, newFakeStore())

		_, ok, err := svc.Restore(ctx)
		require.NoError(t, err)
		require.False(t, ok)
		require.Empty(t, client.tokenHistory, "no token installed without a session")
	})

	t.Run("persisted session", func(t *testing.T) {
		client := &fakeClient{}
		store := newFakeStore()
		require.NoError(t, store.Set(ctx, session.KeyAccessToken, "a1"))
		require.NoError(t, store.Set(ctx, session.KeyUsername, "anna"))
		svc := NewAuthService(client, store)

		name, ok, err := svc.Restore(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "anna", name)
		require.Equal(t, "a1", client.token)
	})
}

func TestLogoutClearsEverything(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{}
	client.SetAccessToken("a1")
	store := newFakeStore()
	require.NoError(t, store.Set(ctx, session.KeyAccessToken, "a1"))
	svc := NewAuthService(client, store)

	require.NoError(t, svc.Logout(ctx))

	access, err := store.Get(ctx, session.KeyAccessToken)
	require.NoError(t, err)
	require.Empty(t, access)
	require.Empty(t, client.token)
}
