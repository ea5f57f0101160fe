package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleGetShareLink(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	u := s.users[requestUserID(r.Context())]
	var payload map[string]any
	if u != nil {
		publicPath := ""
		if u.isPublic {
			publicPath = u.username
		}
		payload = map[string]any{
			"public":  map[string]any{"enabled": u.isPublic, "path": publicPath},
			"private": map[string]any{"path": u.privateSlug},
		}
	}
	s.mu.Unlock()

	if payload == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, payload)
}

func (s *Server) handleCreatePrivateLink(w http.ResponseWriter, r *http.Request) {
	slug := uuid.NewString()

	s.mu.Lock()
	u := s.users[requestUserID(r.Context())]
	if u != nil {
		if u.privateSlug != "" {
			delete(s.privateSlugs, u.privateSlug)
		}
		u.privateSlug = slug
		s.privateSlugs[slug] = u.id
	}
	s.mu.Unlock()

	if u == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"path": slug})
}

func (s *Server) handleChangePublicity(w http.ResponseWriter, r *http.Request) {
	var in struct {
		IsPublic *bool `json:"is_public"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.IsPublic == nil {
		respondError(w, http.StatusBadRequest, "is_public is required")
		return
	}

	s.mu.Lock()
	u := s.users[requestUserID(r.Context())]
	if u != nil {
		u.isPublic = *in.IsPublic
	}
	s.mu.Unlock()

	if u == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"is_public": *in.IsPublic})
}

func (s *Server) handlePublicProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	s.mu.Lock()
	id, ok := s.byUsername[username]
	var u *user
	if ok {
		u = s.users[id]
	}
	var trips []tripPayload
	if u != nil && u.isPublic {
		trips = s.userTrips(u.id)
	}
	s.mu.Unlock()

	if u == nil {
		respondError(w, http.StatusNotFound, "profile not found")
		return
	}
	if !u.isPublic {
		respondError(w, http.StatusForbidden, "profile is private")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"username": u.username, "trips": trips})
}

func (s *Server) handleSharedByToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	s.mu.Lock()
	id, ok := s.privateSlugs[token]
	var u *user
	if ok {
		u = s.users[id]
	}
	var trips []tripPayload
	if u != nil {
		trips = s.userTrips(u.id)
	}
	s.mu.Unlock()

	if u == nil {
		respondError(w, http.StatusNotFound, "share link not found or expired")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"username": u.username, "trips": trips})
}
