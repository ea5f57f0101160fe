package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// DateLayout is the wire format for trip dates.
const DateLayout = "2006-01-02"

// Date is a calendar date marshalled as "YYYY-MM-DD". The server never sends
// a time component.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Photo is a single attachment of a trip. Order within Trip.Photos is the
// display order.
type Photo struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

// Trip is one visited place. ID is server-assigned and immutable.
type Trip struct {
	ID        int     `json:"id"`
	Place     string  `json:"place"`
	Date      Date    `json:"date"`
	Note      string  `json:"note"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Photos    []Photo `json:"photo_urls"`
}

// TripDraft is the payload for creating a trip.
type TripDraft struct {
	Place     string  `json:"place"`
	Date      Date    `json:"date"`
	Note      string  `json:"note"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

var (
	ErrEmptyPlace        = errors.New("place must not be empty")
	ErrInvalidCoordinate = errors.New("coordinates out of range")
)

// Validate checks the draft before it is sent to the server.
func (d TripDraft) Validate() error {
	if strings.TrimSpace(d.Place) == "" {
		return ErrEmptyPlace
	}
	if !validCoords(d.Latitude, d.Longitude) {
		return ErrInvalidCoordinate
	}
	return nil
}

func validCoords(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// TripPatch is a partial update. Nil fields are omitted from the request body
// so the server never sees a zero-valued stand-in for an untouched field.
type TripPatch struct {
	Place     *string  `json:"place,omitempty"`
	Date      *Date    `json:"date,omitempty"`
	Note      *string  `json:"note,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Empty reports whether the patch carries no changes at all.
func (p TripPatch) Empty() bool {
	return p.Place == nil && p.Date == nil && p.Note == nil &&
		p.Latitude == nil && p.Longitude == nil
}

func (p TripPatch) Validate() error {
	if p.Place != nil && strings.TrimSpace(*p.Place) == "" {
		return ErrEmptyPlace
	}
	if p.Latitude != nil || p.Longitude != nil {
		lat, lng := 0.0, 0.0
		if p.Latitude != nil {
			lat = *p.Latitude
		}
		if p.Longitude != nil {
			lng = *p.Longitude
		}
		if !validCoords(lat, lng) {
			return ErrInvalidCoordinate
		}
	}
	return nil
}

// SortTripsByDate orders trips ascending by date, in place. The order is a
// display invariant recomputed after every fetch.
func SortTripsByDate(trips []Trip) {
	sort.SliceStable(trips, func(i, j int) bool {
		return trips[i].Date.Before(trips[j].Date.Time)
	})
}
