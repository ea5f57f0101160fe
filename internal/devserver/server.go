// Package devserver is an in-memory implementation of the WanderMap HTTP
// contract. It backs cmd/devserver during development and the client
// integration tests; nothing in it persists across restarts.
package devserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type user struct {
	id           string
	username     string
	email        string
	passwordHash []byte
	isPublic     bool
	privateSlug  string
}

type trip struct {
	id        int
	ownerID   string
	place     string
	date      time.Time
	note      string
	latitude  float64
	longitude float64
	photoIDs  []int
}

type photo struct {
	id          int
	tripID      int
	key         string
	contentType string
	data        []byte
}

// Server implements http.Handler for the full API surface.
type Server struct {
	secret    []byte
	accessTTL time.Duration
	log       zerolog.Logger
	router    chi.Router

	mu           sync.Mutex
	users        map[string]*user  // by id
	byEmail      map[string]string // email -> user id
	byUsername   map[string]string // username -> user id
	refreshTok   map[string]string // refresh token -> user id
	privateSlugs map[string]string // slug -> user id
	trips        map[int]*trip
	photos       map[int]*photo
	nextTripID   int
	nextPhotoID  int
}

// Option configures a Server.
type Option func(*Server)

// WithAccessTTL overrides the access-token lifetime. Tests use a negative
// TTL to mint already-expired tokens.
func WithAccessTTL(ttl time.Duration) Option {
	return func(s *Server) { s.accessTTL = ttl }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) { s.log = log }
}

func New(secret string, opts ...Option) *Server {
	s := &Server{
		secret:       []byte(secret),
		accessTTL:    15 * time.Minute,
		log:          zerolog.Nop(),
		users:        make(map[string]*user),
		byEmail:      make(map[string]string),
		byUsername:   make(map[string]string),
		refreshTok:   make(map[string]string),
		privateSlugs: make(map[string]string),
		trips:        make(map[int]*trip),
		photos:       make(map[int]*photo),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Post("/api/login/", s.handleLogin)
	r.Post("/api/register/", s.handleRegister)
	r.Post("/api/token/refresh/", s.handleRefresh)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/api/trips/", s.handleListTrips)
		r.Post("/api/trips/", s.handleCreateTrip)
		r.Get("/api/trips/{id}/", s.handleGetTrip)
		r.Patch("/api/trips/{id}/", s.handleUpdateTrip)
		r.Delete("/api/trips/{id}/", s.handleDeleteTrip)
		r.Post("/api/trips/{id}/upload_photo/", s.handleUploadPhoto)
		r.Delete("/api/trips/{id}/delete_photo/", s.handleDeletePhoto)

		r.Get("/api/autocomplete/", s.handleAutocomplete)
		r.Get("/api/autocomplete/lat_long/", s.handleAutocompleteLatLong)

		r.Get("/api/profile/sharelink/", s.handleGetShareLink)
		r.Post("/api/profile/sharelink/", s.handleCreatePrivateLink)
		r.Patch("/api/profile/changepublicity/", s.handleChangePublicity)
	})

	r.Get("/api/profile/sharepublic/{username}/", s.handlePublicProfile)
	r.Get("/api/profile/shareprivate/{token}/", s.handleSharedByToken)
	r.Get("/media/{key}", s.handleMedia)

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
