package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"wandermap/internal/client/models"
)

// HTTPClient talks to the WanderMap HTTP service. It is a plain transport:
// it maps status codes onto the error taxonomy but never retries or
// refreshes tokens itself.
type HTTPClient struct {
	baseURL string
	hc      *http.Client

	mu          sync.Mutex
	accessToken string
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) SetAccessToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

func (c *HTTPClient) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

// do issues one request and decodes the response body into out (when out is
// non-nil). Transport failures map to ErrNetwork, statuses to the taxonomy.
func (c *HTTPClient) do(ctx context.Context, method, path string, auth bool, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.token())
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadShape, err)
	}
	return nil
}

// mapStatus converts a non-2xx response into the error taxonomy.
func mapStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrAuth
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ValidationError{Status: resp.StatusCode, Message: serverMessage(resp.Body)}
	default:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}

// serverMessage extracts an error message from a structured error body.
func serverMessage(r io.Reader) string {
	var payload struct {
		Error   string `json:"error"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	for _, s := range []string{payload.Error, payload.Detail, payload.Message} {
		if s != "" {
			return s
		}
	}
	return ""
}

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    *User  `json:"user"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (models.Credentials, *User, error) {
	in := map[string]string{"email": email, "password": password}
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/login/", false, in, &out); err != nil {
		return models.Credentials{}, nil, err
	}
	return models.Credentials{Access: out.Access, Refresh: out.Refresh}, out.User, nil
}

func (c *HTTPClient) Register(ctx context.Context, username, email, password string) (models.Credentials, *User, error) {
	in := map[string]string{"username": username, "email": email, "password": password}
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/register/", false, in, &out); err != nil {
		return models.Credentials{}, nil, err
	}
	return models.Credentials{Access: out.Access, Refresh: out.Refresh}, out.User, nil
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (string, error) {
	in := map[string]string{"refresh": refreshToken}
	var out struct {
		Access string `json:"access"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/token/refresh/", false, in, &out); err != nil {
		return "", err
	}
	if out.Access == "" {
		return "", ErrBadShape
	}
	return out.Access, nil
}

// ListTrips fetches the full collection, sorted ascending by date. A response
// that is not list-shaped degrades to an empty collection instead of failing
// the caller.
func (c *HTTPClient) ListTrips(ctx context.Context) ([]models.Trip, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/trips/", nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token())

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp); err != nil {
		return nil, err
	}

	var envelope struct {
		Trips []models.Trip `json:"trips"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return []models.Trip{}, nil
	}
	trips := envelope.Trips
	if trips == nil {
		trips = []models.Trip{}
	}
	models.SortTripsByDate(trips)
	return trips, nil
}

func (c *HTTPClient) GetTrip(ctx context.Context, id int) (*models.Trip, error) {
	var trip models.Trip
	if err := c.do(ctx, http.MethodGet, tripPath(id), true, nil, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

func (c *HTTPClient) CreateTrip(ctx context.Context, draft models.TripDraft) (*models.Trip, error) {
	if err := draft.Validate(); err != nil {
		return nil, &ValidationError{Status: http.StatusBadRequest, Message: err.Error()}
	}
	var trip models.Trip
	if err := c.do(ctx, http.MethodPost, "/api/trips/", true, draft, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

func (c *HTTPClient) UpdateTrip(ctx context.Context, id int, patch models.TripPatch) (*models.Trip, error) {
	if err := patch.Validate(); err != nil {
		return nil, &ValidationError{Status: http.StatusBadRequest, Message: err.Error()}
	}
	var trip models.Trip
	if err := c.do(ctx, http.MethodPatch, tripPath(id), true, patch, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

func (c *HTTPClient) DeleteTrip(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, tripPath(id), true, nil, nil)
}

// UploadPhoto sends one image as multipart form data under the field name
// "photos". The content is sniffed first: a non-image never reaches the
// network and reports ErrUnsupportedMedia.
func (c *HTTPClient) UploadPhoto(ctx context.Context, tripID int, filename string, photo io.Reader) (*models.Trip, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(photo, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading photo: %w", err)
	}
	head = head[:n]
	if !strings.HasPrefix(http.DetectContentType(head), "image/") {
		return nil, ErrUnsupportedMedia
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("photos", filename)
	if err != nil {
		return nil, fmt.Errorf("encoding upload: %w", err)
	}
	if _, err := io.Copy(part, io.MultiReader(bytes.NewReader(head), photo)); err != nil {
		return nil, fmt.Errorf("encoding upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("encoding upload: %w", err)
	}

	path := fmt.Sprintf("/api/trips/%d/upload_photo/", tripID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token())

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnsupportedMediaType {
		return nil, ErrUnsupportedMedia
	}
	if err := mapStatus(resp); err != nil {
		return nil, err
	}
	var trip models.Trip
	if err := json.NewDecoder(resp.Body).Decode(&trip); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadShape, err)
	}
	return &trip, nil
}

func (c *HTTPClient) DeletePhoto(ctx context.Context, photoID int) error {
	path := fmt.Sprintf("/api/trips/%d/delete_photo/", photoID)
	return c.do(ctx, http.MethodDelete, path, true, nil, nil)
}

func (c *HTTPClient) Suggest(ctx context.Context, query string) ([]models.Suggestion, error) {
	var raw []struct {
		Label string `json:"label"`
	}
	path := "/api/autocomplete/?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, true, nil, &raw); err != nil {
		return nil, err
	}
	out := make([]models.Suggestion, 0, len(raw))
	for _, item := range raw {
		out = append(out, models.Suggestion{Label: item.Label})
	}
	return out, nil
}

// SuggestWithCoords uses the lat_long autocomplete variant. The service
// serializes coordinates as strings.
func (c *HTTPClient) SuggestWithCoords(ctx context.Context, query string) ([]models.Suggestion, error) {
	var raw []struct {
		Label string `json:"label"`
		Lat   string `json:"lat"`
		Long  string `json:"long"`
	}
	path := "/api/autocomplete/lat_long/?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, true, nil, &raw); err != nil {
		return nil, err
	}
	out := make([]models.Suggestion, 0, len(raw))
	for _, item := range raw {
		s := models.Suggestion{Label: item.Label}
		lat, latErr := strconv.ParseFloat(item.Lat, 64)
		lng, lngErr := strconv.ParseFloat(item.Long, 64)
		if latErr == nil && lngErr == nil {
			s.Latitude = lat
			s.Longitude = lng
			s.HasCoords = true
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *HTTPClient) ShareSettings(ctx context.Context) (*models.ShareSettings, error) {
	var out struct {
		Public struct {
			Enabled bool   `json:"enabled"`
			Path    string `json:"path"`
		} `json:"public"`
		Private struct {
			Path string `json:"path"`
		} `json:"private"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/profile/sharelink/", true, nil, &out); err != nil {
		return nil, err
	}
	return &models.ShareSettings{
		PublicEnabled: out.Public.Enabled,
		PublicSlug:    out.Public.Path,
		PrivateSlug:   out.Private.Path,
	}, nil
}

func (c *HTTPClient) SetPublicity(ctx context.Context, public bool) error {
	in := map[string]bool{"is_public": public}
	return c.do(ctx, http.MethodPatch, "/api/profile/changepublicity/", true, in, nil)
}

func (c *HTTPClient) CreatePrivateLink(ctx context.Context) (string, error) {
	var out struct {
		Path string `json:"path"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/profile/sharelink/", true, nil, &out); err != nil {
		return "", err
	}
	return out.Path, nil
}

func (c *HTTPClient) PublicProfile(ctx context.Context, username string) (*models.SharedJourney, error) {
	var out models.SharedJourney
	path := "/api/profile/sharepublic/" + url.PathEscape(username) + "/"
	if err := c.do(ctx, http.MethodGet, path, false, nil, &out); err != nil {
		return nil, err
	}
	models.SortTripsByDate(out.Trips)
	return &out, nil
}

func (c *HTTPClient) SharedByToken(ctx context.Context, token string) (*models.SharedJourney, error) {
	var out models.SharedJourney
	path := "/api/profile/shareprivate/" + url.PathEscape(token) + "/"
	if err := c.do(ctx, http.MethodGet, path, false, nil, &out); err != nil {
		return nil, err
	}
	models.SortTripsByDate(out.Trips)
	return &out, nil
}

func tripPath(id int) string {
	return fmt.Sprintf("/api/trips/%d/", id)
}
