package devserver

import (
	"net/http"
	"strconv"
	"strings"
)

type place struct {
	label string
	lat   float64
	long  float64
}

// A small static gazetteer is enough for development and tests.
var places = []place{
	{"Almaty, Kazakhstan", 43.2389, 76.8897},
	{"Amsterdam, Netherlands", 52.3676, 4.9041},
	{"Astana, Kazakhstan", 51.1694, 71.4491},
	{"Barcelona, Spain", 41.3874, 2.1686},
	{"Berlin, Germany", 52.5200, 13.4050},
	{"Istanbul, Turkey", 41.0082, 28.9784},
	{"Lisbon, Portugal", 38.7223, -9.1393},
	{"London, United Kingdom", 51.5072, -0.1276},
	{"Paris, France", 48.8566, 2.3522},
	{"Prague, Czechia", 50.0755, 14.4378},
	{"Rome, Italy", 41.9028, 12.4964},
	{"Tbilisi, Georgia", 41.7151, 44.8271},
	{"Tokyo, Japan", 35.6764, 139.6500},
	{"Vienna, Austria", 48.2082, 16.3738},
}

func matchPlaces(query string) []place {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []place
	for _, p := range places {
		if strings.Contains(strings.ToLower(p.label), q) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	matched := matchPlaces(r.URL.Query().Get("q"))
	out := make([]map[string]string, 0, len(matched))
	for _, p := range matched {
		out = append(out, map[string]string{"label": p.label})
	}
	respondJSON(w, http.StatusOK, out)
}

// handleAutocompleteLatLong serializes coordinates as strings, matching the
// production service.
func (s *Server) handleAutocompleteLatLong(w http.ResponseWriter, r *http.Request) {
	matched := matchPlaces(r.URL.Query().Get("q"))
	out := make([]map[string]string, 0, len(matched))
	for _, p := range matched {
		out = append(out, map[string]string{
			"label": p.label,
			"lat":   strconv.FormatFloat(p.lat, 'f', 4, 64),
			"long":  strconv.FormatFloat(p.long, 'f', 4, 64),
		})
	}
	respondJSON(w, http.StatusOK, out)
}
