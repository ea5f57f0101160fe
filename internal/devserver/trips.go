package devserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type tripPayload struct {
	ID        int            `json:"id"`
	Place     string         `json:"place"`
	Date      string         `json:"date"`
	Note      string         `json:"note"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Photos    []photoPayload `json:"photo_urls"`
}

type photoPayload struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

type tripInput struct {
	Place     *string  `json:"place"`
	Date      *string  `json:"date"`
	Note      *string  `json:"note"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// renderTrip must be called with s.mu held.
func (s *Server) renderTrip(t *trip) tripPayload {
	photos := make([]photoPayload, 0, len(t.photoIDs))
	for _, id := range t.photoIDs {
		if p, ok := s.photos[id]; ok {
			photos = append(photos, photoPayload{ID: p.id, URL: "/media/" + p.key})
		}
	}
	return tripPayload{
		ID:        t.id,
		Place:     t.place,
		Date:      t.date.Format(dateLayout),
		Note:      t.note,
		Latitude:  t.latitude,
		Longitude: t.longitude,
		Photos:    photos,
	}
}

// userTrips must be called with s.mu held.
func (s *Server) userTrips(ownerID string) []tripPayload {
	out := make([]tripPayload, 0)
	for _, t := range s.trips {
		if t.ownerID == ownerID {
			out = append(out, s.renderTrip(t))
		}
	}
	return out
}

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	trips := s.userTrips(requestUserID(r.Context()))
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, map[string]any{"trips": trips})
}

func validateTripInput(in tripInput, requireAll bool) error {
	if requireAll && (in.Place == nil || in.Date == nil || in.Latitude == nil || in.Longitude == nil) {
		return fmt.Errorf("place, date, latitude and longitude are required")
	}
	if in.Place != nil && strings.TrimSpace(*in.Place) == "" {
		return fmt.Errorf("place must not be empty")
	}
	if in.Date != nil {
		if _, err := time.Parse(dateLayout, *in.Date); err != nil {
			return fmt.Errorf("invalid date: %v", err)
		}
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		return fmt.Errorf("latitude out of range")
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		return fmt.Errorf("longitude out of range")
	}
	return nil
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var in tripInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateTripInput(in, true); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	date, _ := time.Parse(dateLayout, *in.Date)
	note := ""
	if in.Note != nil {
		note = *in.Note
	}

	s.mu.Lock()
	s.nextTripID++
	t := &trip{
		id:        s.nextTripID,
		ownerID:   requestUserID(r.Context()),
		place:     *in.Place,
		date:      date,
		note:      note,
		latitude:  *in.Latitude,
		longitude: *in.Longitude,
	}
	s.trips[t.id] = t
	payload := s.renderTrip(t)
	s.mu.Unlock()

	respondJSON(w, http.StatusCreated, payload)
}

// tripForRequest resolves {id} to a trip owned by the caller. Must be called
// with s.mu held.
func (s *Server) tripForRequest(r *http.Request) (*trip, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return nil, false
	}
	t, ok := s.trips[id]
	if !ok || t.ownerID != requestUserID(r.Context()) {
		return nil, false
	}
	return t, true
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	t, ok := s.tripForRequest(r)
	var payload tripPayload
	if ok {
		payload = s.renderTrip(t)
	}
	s.mu.Unlock()

	if !ok {
		respondError(w, http.StatusNotFound, "trip not found")
		return
	}
	respondJSON(w, http.StatusOK, payload)
}

func (s *Server) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	var in tripInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateTripInput(in, false); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	t, ok := s.tripForRequest(r)
	if !ok {
		s.mu.Unlock()
		respondError(w, http.StatusNotFound, "trip not found")
		return
	}
	if in.Place != nil {
		t.place = *in.Place
	}
	if in.Date != nil {
		t.date, _ = time.Parse(dateLayout, *in.Date)
	}
	if in.Note != nil {
		t.note = *in.Note
	}
	if in.Latitude != nil {
		t.latitude = *in.Latitude
	}
	if in.Longitude != nil {
		t.longitude = *in.Longitude
	}
	payload := s.renderTrip(t)
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, payload)
}

func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	t, ok := s.tripForRequest(r)
	if ok {
		for _, pid := range t.photoIDs {
			delete(s.photos, pid)
		}
		delete(s.trips, t.id)
	}
	s.mu.Unlock()

	if !ok {
		respondError(w, http.StatusNotFound, "trip not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, _, err := r.FormFile("photos")
	if err != nil {
		respondError(w, http.StatusBadRequest, "photos field required")
		return
	}
	defer file.Close()

	data := make([]byte, 0, 512)
	buf := make([]byte, 32*1024)
	for {
		n, rerr := file.Read(buf)
		data = append(data, buf[:n]...)
		if rerr != nil {
			break
		}
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		respondError(w, http.StatusUnsupportedMediaType, "only image uploads are accepted")
		return
	}

	s.mu.Lock()
	t, ok := s.tripForRequest(r)
	if !ok {
		s.mu.Unlock()
		respondError(w, http.StatusNotFound, "trip not found")
		return
	}
	s.nextPhotoID++
	p := &photo{
		id:          s.nextPhotoID,
		tripID:      t.id,
		key:         uuid.NewString(),
		contentType: contentType,
		data:        data,
	}
	s.photos[p.id] = p
	t.photoIDs = append(t.photoIDs, p.id)
	payload := s.renderTrip(t)
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, payload)
}

func (s *Server) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "photo not found")
		return
	}

	s.mu.Lock()
	p, ok := s.photos[photoID]
	if ok {
		owner := s.trips[p.tripID]
		if owner == nil || owner.ownerID != requestUserID(r.Context()) {
			ok = false
		} else {
			kept := owner.photoIDs[:0]
			for _, id := range owner.photoIDs {
				if id != photoID {
					kept = append(kept, id)
				}
			}
			owner.photoIDs = kept
			delete(s.photos, photoID)
		}
	}
	s.mu.Unlock()

	if !ok {
		respondError(w, http.StatusNotFound, "photo not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	s.mu.Lock()
	var found *photo
	for _, p := range s.photos {
		if p.key == key {
			found = p
			break
		}
	}
	s.mu.Unlock()

	if found == nil {
		respondError(w, http.StatusNotFound, "media not found")
		return
	}
	w.Header().Set("Content-Type", found.contentType)
	_, _ = w.Write(found.data)
}
