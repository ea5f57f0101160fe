package services

import (
	"context"
	"errors"
	"io"
	"sync"

	"wandermap/internal/client/api"
	"wandermap/internal/client/models"
	"wandermap/internal/logging"
)

// ErrNoSuchTrip is returned by Select for an id not in the collection.
var ErrNoSuchTrip = errors.New("no such trip")

// Coordinator is the single source of truth for {trips, selectedTrip}.
//
// Consistency policy is fetch-after-mutate: every mutation is followed by a
// full re-fetch, so server-derived fields (signed photo URLs, sort order)
// are never locally predicted. A failed mutation or re-fetch leaves the
// observable state exactly as it was before the call.
//
// The selection is held as an id and resolved against the collection on
// every read, so it can never dangle after a deletion.
type Coordinator struct {
	client api.Client
	log    logging.Logger

	mu         sync.Mutex
	trips      []models.Trip
	selectedID int // 0 = no selection
}

func NewCoordinator(client api.Client, log logging.Logger) *Coordinator {
	return &Coordinator{client: client, log: log}
}

// Refresh replaces the collection wholesale and re-validates the selection.
// On failure the previous collection stays in place.
func (c *Coordinator) Refresh(ctx context.Context) error {
	trips, err := c.client.ListTrips(ctx)
	if err != nil {
		return err
	}
	models.SortTripsByDate(trips)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.trips = trips
	if c.selectedID != 0 && c.indexOfLocked(c.selectedID) < 0 {
		c.log.Debug(ctx, "selected trip vanished, clearing selection", "id", c.selectedID)
		c.selectedID = 0
	}
	return nil
}

// Trips returns a copy of the current collection.
func (c *Coordinator) Trips() []models.Trip {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Trip, len(c.trips))
	copy(out, c.trips)
	return out
}

// Select marks the trip with the given id as selected. Pure state
// transition, no network effect.
func (c *Coordinator) Select(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexOfLocked(id) < 0 {
		return ErrNoSuchTrip
	}
	c.selectedID = id
	return nil
}

func (c *Coordinator) ClearSelection() {
	c.mu.Lock()
	c.selectedID = 0
	c.mu.Unlock()
}

// Selected resolves the selection by id against the current collection.
func (c *Coordinator) Selected() (models.Trip, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selectedID == 0 {
		return models.Trip{}, false
	}
	i := c.indexOfLocked(c.selectedID)
	if i < 0 {
		return models.Trip{}, false
	}
	return c.trips[i], true
}

func (c *Coordinator) indexOfLocked(id int) int {
	for i := range c.trips {
		if c.trips[i].ID == id {
			return i
		}
	}
	return -1
}

// Add creates a trip and re-fetches the collection.
func (c *Coordinator) Add(ctx context.Context, draft models.TripDraft) error {
	if _, err := c.client.CreateTrip(ctx, draft); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Edit applies a partial update and re-fetches the collection.
func (c *Coordinator) Edit(ctx context.Context, id int, patch models.TripPatch) error {
	if _, err := c.client.UpdateTrip(ctx, id, patch); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Remove deletes a trip and re-fetches. If the deleted trip was selected,
// Refresh clears the selection.
func (c *Coordinator) Remove(ctx context.Context, id int) error {
	if err := c.client.DeleteTrip(ctx, id); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// AttachPhoto uploads a photo, re-fetches, and reconciles the photo list of
// the mutated trip: the list fetch can race the upload's side effects and
// return stale photo data, in which case the single trip is re-queried and
// its copy preferred.
func (c *Coordinator) AttachPhoto(ctx context.Context, tripID int, filename string, photo io.Reader) error {
	updated, err := c.client.UploadPhoto(ctx, tripID, filename, photo)
	if err != nil {
		return err
	}
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	c.correctPhotoState(ctx, updated)
	return nil
}

// RemovePhoto deletes a photo from the given trip, then re-fetches and
// reconciles like AttachPhoto.
func (c *Coordinator) RemovePhoto(ctx context.Context, tripID, photoID int) error {
	if err := c.client.DeletePhoto(ctx, photoID); err != nil {
		return err
	}
	if err := c.Refresh(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	i := c.indexOfLocked(tripID)
	var stale bool
	if i >= 0 {
		for _, p := range c.trips[i].Photos {
			if p.ID == photoID {
				stale = true
			}
		}
	}
	c.mu.Unlock()
	if stale {
		c.requeryTrip(ctx, tripID)
	}
	return nil
}

// correctPhotoState compares the refreshed copy of the mutated trip with the
// mutation response; on mismatch it re-queries the single trip.
func (c *Coordinator) correctPhotoState(ctx context.Context, updated *models.Trip) {
	if updated == nil {
		return
	}
	c.mu.Lock()
	i := c.indexOfLocked(updated.ID)
	mismatch := i >= 0 && !samePhotos(c.trips[i].Photos, updated.Photos)
	c.mu.Unlock()
	if !mismatch {
		return
	}

	c.log.Debug(ctx, "stale photo list after refresh, re-querying trip", "id", updated.ID)
	c.requeryTrip(ctx, updated.ID)
}

// requeryTrip fetches one trip and splices it into the collection. A failed
// correction is logged and ignored; the refreshed state stays.
func (c *Coordinator) requeryTrip(ctx context.Context, id int) {
	fresh, err := c.client.GetTrip(ctx, id)
	if err != nil {
		c.log.Warn(ctx, "trip correction fetch failed", "id", id, "error", err)
		return
	}
	c.mu.Lock()
	if i := c.indexOfLocked(id); i >= 0 {
		c.trips[i] = *fresh
	}
	c.mu.Unlock()
}

func samePhotos(a, b []models.Photo) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
