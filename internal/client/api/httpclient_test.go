package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wandermap/internal/client/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, 5*time.Second)
}

func TestBearerHeaderOnProtectedRequests(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"trips": []any{}})
	})
	c.SetAccessToken("tok-123")

	_, err := c.ListTrips(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-123", gotAuth)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{"401 is auth", http.StatusUnauthorized, "", func(t *testing.T, err error) {
			require.ErrorIs(t, err, ErrAuth)
		}},
		{"403 is auth", http.StatusForbidden, "", func(t *testing.T, err error) {
			require.ErrorIs(t, err, ErrAuth)
		}},
		{"404 is not found", http.StatusNotFound, "", func(t *testing.T, err error) {
			require.ErrorIs(t, err, ErrNotFound)
		}},
		{"422 is validation with message", http.StatusUnprocessableEntity, `{"error":"date is required"}`, func(t *testing.T, err error) {
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, "date is required", ve.Message)
		}},
		{"500 is generic", http.StatusInternalServerError, "", func(t *testing.T, err error) {
			require.Error(t, err)
			require.NotErrorIs(t, err, ErrAuth)
			require.NotErrorIs(t, err, ErrNotFound)
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			_, err := c.GetTrip(context.Background(), 1)
			tc.check(t, err)
		})
	}
}

func TestNetworkFailureMapsToErrNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	c := NewHTTPClient(srv.URL, time.Second)
	_, err := c.ListTrips(context.Background())
	require.ErrorIs(t, err, ErrNetwork)
}

func TestListTripsDecodesEnvelopeAndSorts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"trips":[
			{"id":1,"place":"later","date":"2024-06-02"},
			{"id":2,"place":"earlier","date":"2024-06-01"}
		]}`)
	})

	trips, err := c.ListTrips(context.Background())
	require.NoError(t, err)
	require.Len(t, trips, 2)
	require.Equal(t, "earlier", trips[0].Place)
	require.Equal(t, "later", trips[1].Place)
}

func TestListTripsDegradesBadShapeToEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `"surprise"`)
	})

	trips, err := c.ListTrips(context.Background())
	require.NoError(t, err)
	require.NotNil(t, trips)
	require.Empty(t, trips)
}

func TestCreateTripRejectsInvalidDraftLocally(t *testing.T) {
	requests := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { requests++ })

	_, err := c.CreateTrip(context.Background(), models.TripDraft{Place: ""})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Zero(t, requests, "invalid draft must not reach the network")
}

func TestUpdateTripSendsOnlyTouchedFields(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/api/trips/5/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"id":5,"place":"Porto","date":"2024-01-01"}`)
	})

	place := "Porto"
	_, err := c.UpdateTrip(context.Background(), 5, models.TripPatch{Place: &place})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"place": "Porto"}, body)
}

// pngHeader is a minimal valid PNG signature, enough for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestUploadPhotoRejectsNonImageBeforeNetwork(t *testing.T) {
	requests := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { requests++ })

	_, err := c.UploadPhoto(context.Background(), 1, "notes.txt", strings.NewReader("plain text, not an image"))
	require.ErrorIs(t, err, ErrUnsupportedMedia)
	require.Zero(t, requests, "non-image must not produce a request")
}

func TestUploadPhotoSendsMultipartUnderPhotosField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/trips/9/upload_photo/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, header, err := r.FormFile("photos")
		require.NoError(t, err)
		defer f.Close()
		require.Equal(t, "shot.png", header.Filename)

		data, err := io.ReadAll(f)
		require.NoError(t, err)
		require.True(t, bytes.HasPrefix(data, pngHeader))

		_, _ = io.WriteString(w, `{"id":9,"place":"x","date":"2024-01-01","photo_urls":[{"id":1,"url":"/media/a"}]}`)
	})

	trip, err := c.UploadPhoto(context.Background(), 9, "shot.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	require.Len(t, trip.Photos, 1)
}

func TestSuggestWithCoordsParsesStringCoordinates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/autocomplete/lat_long/", r.URL.Path)
		require.Equal(t, "lis", r.URL.Query().Get("q"))
		_, _ = io.WriteString(w, `[
			{"label":"Lisbon, Portugal","lat":"38.7223","long":"-9.1393"},
			{"label":"Lisburn, UK","lat":"","long":""}
		]`)
	})

	got, err := c.SuggestWithCoords(context.Background(), "lis")
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.True(t, got[0].HasCoords)
	require.InDelta(t, 38.7223, got[0].Latitude, 1e-9)
	require.InDelta(t, -9.1393, got[0].Longitude, 1e-9)

	require.False(t, got[1].HasCoords)
}

func TestShareSettingsDecodesEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"public":{"enabled":true,"path":"anna"},"private":{"path":"tok-abc"}}`)
	})

	got, err := c.ShareSettings(context.Background())
	require.NoError(t, err)
	require.True(t, got.PublicEnabled)
	require.Equal(t, "anna", got.PublicSlug)
	require.Equal(t, "tok-abc", got.PrivateSlug)
}

func TestRefreshRequiresAccessInResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := c.Refresh(context.Background(), "refresh-token")
	require.ErrorIs(t, err, ErrBadShape)
}
