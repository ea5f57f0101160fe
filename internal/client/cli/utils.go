package cli

import (
	"errors"
	"fmt"
	"strconv"

	"wandermap/internal/client/api"
	"wandermap/internal/client/models"
	"wandermap/internal/client/services"
)

// usageErr carries a usage line back to the REPL without wrapping it in an
// "Error:" translation.
type usageErr struct{ msg string }

func (e *usageErr) Error() string { return e.msg }

func usageError(msg string) error { return &usageErr{msg: msg} }

func argID(args []string, usage string) (int, error) {
	if len(args) < 1 {
		return 0, usageError(usage)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, usageError(usage)
	}
	return id, nil
}

// userMessage translates errors into a line suitable for the terminal.
func userMessage(err error) string {
	var usage *usageErr
	if errors.As(err, &usage) {
		return usage.msg
	}
	var validation *api.ValidationError
	if errors.As(err, &validation) {
		if validation.Message != "" {
			return validation.Message
		}
		return "the server rejected the request"
	}
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		return "please log in first"
	case errors.Is(err, services.ErrSessionExpired):
		return "your session has expired, please log in again"
	case errors.Is(err, services.ErrNoSuchTrip):
		return "no such trip"
	case errors.Is(err, api.ErrNetwork):
		return "could not reach the server, please try again"
	case errors.Is(err, api.ErrNotFound):
		return "not found, it may have been deleted elsewhere"
	case errors.Is(err, api.ErrUnsupportedMedia):
		return "only image files can be uploaded"
	case errors.Is(err, api.ErrAuth):
		return "access denied"
	default:
		return err.Error()
	}
}

func printTrips(trips []models.Trip) {
	if len(trips) == 0 {
		fmt.Println("No trips yet. Type 'add' to record your first one.")
		return
	}
	fmt.Printf("%-5s %-12s %-30s %s\n", "ID", "DATE", "PLACE", "PHOTOS")
	for _, t := range trips {
		fmt.Printf("%-5d %-12s %-30s %d\n", t.ID, t.Date.String(), t.Place, len(t.Photos))
	}
}

func printTripDetail(trip models.Trip) {
	fmt.Println("Place:", trip.Place)
	fmt.Println("Date: ", trip.Date.String())
	fmt.Printf("Coordinates: %.4f, %.4f\n", trip.Latitude, trip.Longitude)
	if trip.Note != "" {
		fmt.Println("Note: ", trip.Note)
	}
	for _, p := range trip.Photos {
		fmt.Printf("Photo %d: %s\n", p.ID, p.URL)
	}
}

func printJourney(journey *models.SharedJourney) {
	fmt.Printf("Journey of %s (%d trips)\n", journey.Username, len(journey.Trips))
	printTrips(journey.Trips)
}
