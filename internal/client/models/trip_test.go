package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2024-07-15")
	require.NoError(t, err)
	require.Equal(t, "2024-07-15", d.String())

	data, err := json.Marshal(d)
	require.NoError(t, err)
	require.JSONEq(t, `"2024-07-15"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	require.True(t, back.Equal(d.Time))
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("15/07/2024")
	require.Error(t, err)

	var d Date
	require.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &d))
}

func TestTripDecodesPhotoURLsField(t *testing.T) {
	raw := `{"id":3,"place":"Lisbon","date":"2023-05-01","note":"",
		"latitude":38.7223,"longitude":-9.1393,
		"photo_urls":[{"id":7,"url":"/media/a.jpg"}]}`

	var trip Trip
	require.NoError(t, json.Unmarshal([]byte(raw), &trip))
	require.Equal(t, 3, trip.ID)
	require.Len(t, trip.Photos, 1)
	require.Equal(t, 7, trip.Photos[0].ID)
}

func TestTripDraftValidate(t *testing.T) {
	valid := TripDraft{Place: "Oslo", Date: NewDate(2024, time.March, 1), Latitude: 59.91, Longitude: 10.75}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		draft TripDraft
		want  error
	}{
		{"empty place", TripDraft{Place: "   ", Latitude: 1, Longitude: 1}, ErrEmptyPlace},
		{"lat too big", TripDraft{Place: "x", Latitude: 91, Longitude: 0}, ErrInvalidCoordinate},
		{"lng too small", TripDraft{Place: "x", Latitude: 0, Longitude: -181}, ErrInvalidCoordinate},
		{"NaN", TripDraft{Place: "x", Latitude: math.NaN(), Longitude: 0}, ErrInvalidCoordinate},
		{"Inf", TripDraft{Place: "x", Latitude: 0, Longitude: math.Inf(1)}, ErrInvalidCoordinate},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.draft.Validate(), tc.want)
		})
	}
}

func TestTripPatchOmitsUntouchedFields(t *testing.T) {
	place := "Porto"
	patch := TripPatch{Place: &place}

	data, err := json.Marshal(patch)
	require.NoError(t, err)
	require.JSONEq(t, `{"place":"Porto"}`, string(data))
}

func TestTripPatchEmptyAndValidate(t *testing.T) {
	require.True(t, TripPatch{}.Empty())

	empty := ""
	require.ErrorIs(t, TripPatch{Place: &empty}.Validate(), ErrEmptyPlace)

	lat := 200.0
	require.ErrorIs(t, TripPatch{Latitude: &lat}.Validate(), ErrInvalidCoordinate)

	note := "better"
	p := TripPatch{Note: &note}
	require.False(t, p.Empty())
	require.NoError(t, p.Validate())
}

func TestSortTripsByDateIsStable(t *testing.T) {
	trips := []Trip{
		{ID: 1, Place: "b", Date: NewDate(2024, time.May, 2)},
		{ID: 2, Place: "a", Date: NewDate(2024, time.May, 1)},
		{ID: 3, Place: "c", Date: NewDate(2024, time.May, 2)},
	}
	SortTripsByDate(trips)

	require.Equal(t, []int{2, 1, 3}, []int{trips[0].ID, trips[1].ID, trips[2].ID})
}
