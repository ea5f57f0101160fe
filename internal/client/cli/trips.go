package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"wandermap/internal/client/models"
	"wandermap/internal/client/services"
)

// List refreshes and prints the trip collection, sorted by date.
func (a *App) List(ctx context.Context) error {
	if err := a.guarded(ctx, a.trips.Refresh); err != nil {
		return err
	}
	printTrips(a.trips.Trips())
	return nil
}

// Show selects a trip by id and prints its detail view.
func (a *App) Show(ctx context.Context, args []string) error {
	id, err := argID(args, "Usage: show <id>")
	if err != nil {
		return err
	}
	if err := a.trips.Select(id); err != nil {
		return err
	}
	trip, ok := a.trips.Selected()
	if !ok {
		return services.ErrNoSuchTrip
	}
	printTripDetail(trip)
	return nil
}

// Back clears the selection, returning to the timeline view.
func (a *App) Back(ctx context.Context) error {
	a.trips.ClearSelection()
	return nil
}

// Add walks through the add-trip form: place (with autocomplete),
// coordinates, date, and note.
func (a *App) Add(ctx context.Context) error {
	query, err := getSimpleText(a.reader, "Where have you been?", os.Stdout)
	if err != nil {
		return err
	}

	place := query
	var lat, lng float64
	var haveCoords bool

	suggestions := a.fetchSuggestions(ctx, query)
	if len(suggestions) > 0 {
		for i, s := range suggestions {
			fmt.Printf("  %d. %s\n", i+1, s.Label)
		}
		choice, err := getSimpleText(a.reader, "Pick a number, or press Enter to keep your text", os.Stdout)
		if err != nil {
			return err
		}
		if n, convErr := strconv.Atoi(choice); convErr == nil && n >= 1 && n <= len(suggestions) {
			picked := suggestions[n-1]
			place = picked.Label
			if picked.HasCoords {
				lat, lng = picked.Latitude, picked.Longitude
				haveCoords = true
			}
		}
	}

	if !haveCoords {
		if lat, err = a.getFloat("Latitude"); err != nil {
			return err
		}
		if lng, err = a.getFloat("Longitude"); err != nil {
			return err
		}
	}

	date, err := a.getDate("Date (YYYY-MM-DD), empty for today")
	if err != nil {
		return err
	}
	note, err := GetMultiline(a.reader, "Note", os.Stdout)
	if err != nil {
		return err
	}

	draft := models.TripDraft{
		Place:     place,
		Date:      date,
		Note:      note,
		Latitude:  lat,
		Longitude: lng,
	}
	if err := a.guarded(ctx, func(ctx context.Context) error {
		return a.trips.Add(ctx, draft)
	}); err != nil {
		return err
	}
	fmt.Println("Trip added")
	return nil
}

// fetchSuggestions runs one query through the debounced suggester and waits
// for its verdict. An empty result is normal for short or unknown queries.
func (a *App) fetchSuggestions(ctx context.Context, query string) []models.Suggestion {
	ch := make(chan []models.Suggestion, 1)
	suggester := services.NewSuggester(a.client, a.log, func(result []models.Suggestion) {
		select {
		case ch <- result:
		default:
		}
	})
	defer suggester.Close()

	suggester.Update(ctx, query, true)

	select {
	case result := <-ch:
		return result
	case <-time.After(a.config.RequestTimeout + time.Second):
		return nil
	case <-ctx.Done():
		return nil
	}
}

// Edit updates the fields of a trip; empty answers keep the current value.
// Only touched fields are sent to the server.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := argID(args, "Usage: edit <id>")
	if err != nil {
		return err
	}

	var patch models.TripPatch
	if v, err := getSimpleText(a.reader, "New place (empty to keep)", os.Stdout); err != nil {
		return err
	} else if v != "" {
		patch.Place = &v
	}
	if v, err := getSimpleText(a.reader, "New date YYYY-MM-DD (empty to keep)", os.Stdout); err != nil {
		return err
	} else if v != "" {
		d, perr := models.ParseDate(v)
		if perr != nil {
			return perr
		}
		patch.Date = &d
	}
	if v, err := getSimpleText(a.reader, "New note (empty to keep)", os.Stdout); err != nil {
		return err
	} else if v != "" {
		patch.Note = &v
	}

	if patch.Empty() {
		fmt.Println("Nothing to change")
		return nil
	}
	if err := a.guarded(ctx, func(ctx context.Context) error {
		return a.trips.Edit(ctx, id, patch)
	}); err != nil {
		return err
	}
	fmt.Println("Trip updated")
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := argID(args, "Usage: delete <id>")
	if err != nil {
		return err
	}
	if err := a.guarded(ctx, func(ctx context.Context) error {
		return a.trips.Remove(ctx, id)
	}); err != nil {
		return err
	}
	fmt.Println("Trip deleted")
	return nil
}

// AddPhoto uploads an image file to a trip.
func (a *App) AddPhoto(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("Usage: photo <trip-id> <file>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return usageError("Usage: photo <trip-id> <file>")
	}

	// Read the file up front: the session guard may run the closure a
	// second time after a token refresh, so the body must be re-readable.
	data, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	filename := filepath.Base(args[1])

	if err := a.guarded(ctx, func(ctx context.Context) error {
		return a.trips.AttachPhoto(ctx, id, filename, bytes.NewReader(data))
	}); err != nil {
		return err
	}
	fmt.Println("Photo uploaded")
	return nil
}

func (a *App) DeletePhoto(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("Usage: delphoto <trip-id> <photo-id>")
	}
	tripID, err1 := strconv.Atoi(args[0])
	photoID, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return usageError("Usage: delphoto <trip-id> <photo-id>")
	}
	if err := a.guarded(ctx, func(ctx context.Context) error {
		return a.trips.RemovePhoto(ctx, tripID, photoID)
	}); err != nil {
		return err
	}
	fmt.Println("Photo deleted")
	return nil
}

func (a *App) getFloat(prompt string) (float64, error) {
	v, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", v)
	}
	return f, nil
}

func (a *App) getDate(prompt string) (models.Date, error) {
	v, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return models.Date{}, err
	}
	if v == "" {
		now := time.Now()
		return models.NewDate(now.Year(), now.Month(), now.Day()), nil
	}
	return models.ParseDate(v)
}
