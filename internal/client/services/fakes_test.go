package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"wandermap/internal/client/api"
	"wandermap/internal/client/models"
	"wandermap/internal/logging"
)

func testLogger(t *testing.T) logging.Logger {
	t.Helper()
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// ---- fake session store ----

type fakeStore struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
	setErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (s *fakeStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", s.getErr
	}
	return s.data[key], nil
}

func (s *fakeStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	return nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *fakeStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]string)
	return nil
}

// ---- fake API client ----

// fakeClient implements api.Client for unit tests. Zero-valued fields mean
// "succeed with an empty result"; per-call Fn hooks override the canned
// behavior when sequencing matters.
type fakeClient struct {
	mu sync.Mutex

	token        string
	tokenHistory []string

	loginCreds models.Credentials
	loginUser  *api.User
	loginErr   error

	registerCreds models.Credentials
	registerUser  *api.User
	registerErr   error

	refreshRet   string
	refreshErr   error
	refreshCalls int

	listRet   []models.Trip
	listErr   error
	listCalls int
	listFn    func() ([]models.Trip, error)

	getTripRet   *models.Trip
	getTripErr   error
	getTripCalls int

	createErr      error
	updateErr      error
	deleteErr      error
	uploadRet      *models.Trip
	uploadErr      error
	deletePhotoErr error

	suggestRet   []models.Suggestion
	suggestErr   error
	suggestCalls int
	suggestLast  string
	suggestFn    func(query string) ([]models.Suggestion, error)

	settingsRet    *models.ShareSettings
	settingsErr    error
	publicityErr   error
	publicityLast  bool
	createLinkRet  string
	createLinkErr  error
	profileRet     *models.SharedJourney
	profileErr     error
	byTokenRet     *models.SharedJourney
	byTokenErr     error
}

var _ api.Client = (*fakeClient)(nil)

func (f *fakeClient) SetAccessToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	f.tokenHistory = append(f.tokenHistory, token)
}

func (f *fakeClient) Login(context.Context, string, string) (models.Credentials, *api.User, error) {
	return f.loginCreds, f.loginUser, f.loginErr
}

func (f *fakeClient) Register(context.Context, string, string, string) (models.Credentials, *api.User, error) {
	return f.registerCreds, f.registerUser, f.registerErr
}

func (f *fakeClient) Refresh(context.Context, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	return f.refreshRet, f.refreshErr
}

func (f *fakeClient) ListTrips(context.Context) ([]models.Trip, error) {
	f.mu.Lock()
	f.listCalls++
	fn := f.listFn
	f.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return f.listRet, f.listErr
}

func (f *fakeClient) GetTrip(context.Context, int) (*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getTripCalls++
	return f.getTripRet, f.getTripErr
}

func (f *fakeClient) CreateTrip(context.Context, models.TripDraft) (*models.Trip, error) {
	return &models.Trip{}, f.createErr
}

func (f *fakeClient) UpdateTrip(context.Context, int, models.TripPatch) (*models.Trip, error) {
	return &models.Trip{}, f.updateErr
}

func (f *fakeClient) DeleteTrip(context.Context, int) error { return f.deleteErr }

func (f *fakeClient) UploadPhoto(context.Context, int, string, io.Reader) (*models.Trip, error) {
	return f.uploadRet, f.uploadErr
}

func (f *fakeClient) DeletePhoto(context.Context, int) error { return f.deletePhotoErr }

func (f *fakeClient) Suggest(_ context.Context, query string) ([]models.Suggestion, error) {
	f.mu.Lock()
	f.suggestCalls++
	f.suggestLast = query
	fn := f.suggestFn
	f.mu.Unlock()
	if fn != nil {
		return fn(query)
	}
	return f.suggestRet, f.suggestErr
}

func (f *fakeClient) SuggestWithCoords(ctx context.Context, query string) ([]models.Suggestion, error) {
	return f.Suggest(ctx, query)
}

func (f *fakeClient) ShareSettings(context.Context) (*models.ShareSettings, error) {
	return f.settingsRet, f.settingsErr
}

func (f *fakeClient) SetPublicity(_ context.Context, public bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.publicityLast = public
	return f.publicityErr
}

func (f *fakeClient) CreatePrivateLink(context.Context) (string, error) {
	return f.createLinkRet, f.createLinkErr
}

func (f *fakeClient) PublicProfile(context.Context, string) (*models.SharedJourney, error) {
	return f.profileRet, f.profileErr
}

func (f *fakeClient) SharedByToken(context.Context, string) (*models.SharedJourney, error) {
	return f.byTokenRet, f.byTokenErr
}

func (f *fakeClient) counters() (refresh, list, getTrip, suggest int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls, f.listCalls, f.getTripCalls, f.suggestCalls
}
