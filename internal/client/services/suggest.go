package services

import (
	"context"
	"sync"
	"time"

	"wandermap/internal/client/api"
	"wandermap/internal/client/models"
	"wandermap/internal/logging"
)

const (
	suggestDebounce = 300 * time.Millisecond
	suggestMinQuery = 2
)

// Suggester turns a stream of keystrokes into location suggestions. A query
// is only sent once the input has been quiet for the debounce interval and
// is at least suggestMinQuery characters long.
//
// Every Update bumps a generation counter; a response is applied only when
// its generation is still current. A fast typist therefore never sees a
// stale suggestion list: displayed suggestions always correspond to the most
// recently issued query.
type Suggester struct {
	client api.Client
	log    logging.Logger
	apply  func([]models.Suggestion)

	delay  time.Duration
	minLen int

	mu     sync.Mutex
	gen    uint64
	timer  *time.Timer
	closed bool
}

// NewSuggester creates a suggester delivering results through apply. apply
// runs on the timer goroutine.
func NewSuggester(client api.Client, log logging.Logger, apply func([]models.Suggestion)) *Suggester {
	return &Suggester{
		client: client,
		log:    log,
		apply:  apply,
		delay:  suggestDebounce,
		minLen: suggestMinQuery,
	}
}

// Update supersedes any pending or in-flight query. A query shorter than the
// minimum yields an empty suggestion list immediately, without a request.
func (s *Suggester) Update(ctx context.Context, query string, withCoords bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if len([]rune(query)) < s.minLen {
		s.mu.Unlock()
		s.apply(nil)
		return
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.fetch(ctx, gen, query, withCoords)
	})
	s.mu.Unlock()
}

// fetch issues the request for one debounced query and applies the result if
// the generation is still current.
func (s *Suggester) fetch(ctx context.Context, gen uint64, query string, withCoords bool) {
	if s.stale(gen) {
		return
	}

	var (
		result []models.Suggestion
		err    error
	)
	if withCoords {
		result, err = s.client.SuggestWithCoords(ctx, query)
	} else {
		result, err = s.client.Suggest(ctx, query)
	}
	if err != nil {
		s.log.Warn(ctx, "autocomplete request failed", "query", query, "error", err)
		return
	}
	if s.stale(gen) {
		return
	}
	s.apply(result)
}

func (s *Suggester) stale(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed || gen != s.gen
}

// Close stops the pending timer and discards any in-flight response, so the
// owning surface stops receiving updates after it goes away.
func (s *Suggester) Close() {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
}
