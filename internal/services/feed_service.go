package services

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"
	"github.com/quakemap/quakemap-be/internal/markers"
	"github.com/quakemap/quakemap-be/internal/models"
	"github.com/quakemap/quakemap-be/internal/observability"
	"github.com/quakemap/quakemap-be/internal/state"
	"github.com/quakemap/quakemap-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// FeedFetcher retrieves the earthquake feed. It returns the parsed events
// and the number of malformed records that were skipped.
type FeedFetcher interface {
	FetchFeed(ctx context.Context) ([]models.Event, int, error)
}

// FeedServiceProvider defines the interface for feed services.
type FeedServiceProvider interface {
	LoadInitial(ctx context.Context)
	Refresh(ctx context.Context) error
	Markers(minMagnitude *float64) []markers.Marker
	SetThreshold(v float64) state.State
	SelectRegion(name string) state.State
	Snapshot() state.State
	View() View
}

// View is the client-facing projection of the view-state: everything the map
// page needs to render, with events already styled as markers.
type View struct {
	Phase          state.Phase      `json:"phase"`
	Loading        bool             `json:"loading"`
	Error          string           `json:"error,omitempty"`
	MinMagnitude   float64          `json:"min_magnitude"`
	Region         models.Region    `json:"region"`
	Regions        []models.Region  `json:"regions"`
	Markers        []markers.Marker `json:"markers"`
	TotalEvents    int              `json:"total_events"`
	LastUpdated    time.Time        `json:"last_updated,omitzero"`
	LastUpdatedAgo string           `json:"last_updated_ago,omitempty"`
}

// FeedService coordinates the feed client, the state store, and the
// websocket hub.
type FeedService struct {
	store   *state.Store
	fetcher FeedFetcher
	hub     *websocket.Hub
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// NewFeedService creates a new FeedService. A nil clock selects real time.
func NewFeedService(store *state.Store, fetcher FeedFetcher, hub *websocket.Hub, metrics *observability.Metrics, clock clockwork.Clock) *FeedService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &FeedService{
		store:   store,
		fetcher: fetcher,
		hub:     hub,
		metrics: metrics,
		clock:   clock,
	}
}

// LoadInitial performs the single startup fetch. Exactly one of FeedLoaded
// or FeedFailed settles the loader; there is no retry. Failures surface as
// one human-readable message in the view-state, never as a crash.
func (s *FeedService) LoadInitial(ctx context.Context) {
	s.store.Dispatch(state.FetchStarted{})

	events, dropped, err := s.fetchAndMeasure(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Initial feed fetch failed")
		st := s.store.Dispatch(state.FeedFailed{Message: "failed to load earthquake feed: " + err.Error()})
		s.broadcast(websocket.NewViewStateMessage(s.viewOf(st)))
		return
	}

	log.Info().Int("events", len(events)).Int("dropped", dropped).Msg("Feed loaded")
	st := s.store.Dispatch(state.FeedLoaded{Events: events, At: s.clock.Now()})
	s.broadcast(websocket.NewViewStateMessage(s.viewOf(st)))
}

// Refresh re-fetches the feed and replaces the snapshot wholesale. It only
// runs once the loader has settled successfully; a session that failed its
// initial fetch stays failed until reload.
func (s *FeedService) Refresh(ctx context.Context) error {
	if s.store.Snapshot().Phase != state.PhaseLoaded {
		log.Debug().Msg("Skipping feed refresh, loader has not settled successfully")
		return nil
	}

	events, dropped, err := s.fetchAndMeasure(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Feed refresh failed, keeping previous snapshot")
		return err
	}

	log.Info().Int("events", len(events)).Int("dropped", dropped).Msg("Feed refreshed")
	st := s.store.Dispatch(state.FeedRefreshed{Events: events, At: s.clock.Now()})
	s.broadcast(websocket.NewFeedUpdateMessage(s.viewOf(st)))
	return nil
}

// Markers returns the filtered view as styled markers. A non-nil override
// filters at that threshold instead of the shared view-state's.
func (s *FeedService) Markers(minMagnitude *float64) []markers.Marker {
	snap := s.store.Snapshot()
	events := snap.FilteredEvents()
	if minMagnitude != nil {
		events = models.FilterByMinMagnitude(snap.Events, *minMagnitude)
	}
	return markers.BuildAll(events)
}

// SetThreshold updates the shared minimum-magnitude threshold and broadcasts
// the new view to connected clients.
func (s *FeedService) SetThreshold(v float64) state.State {
	st := s.store.Dispatch(state.ThresholdChanged{MinMagnitude: v})
	s.broadcast(websocket.NewViewStateMessage(s.viewOf(st)))
	return st
}

// SelectRegion updates the shared region selection and broadcasts the new
// view to connected clients.
func (s *FeedService) SelectRegion(name string) state.State {
	st := s.store.Dispatch(state.RegionSelected{Name: name})
	s.broadcast(websocket.NewViewStateMessage(s.viewOf(st)))
	return st
}

// Snapshot returns the current view-state.
func (s *FeedService) Snapshot() state.State {
	return s.store.Snapshot()
}

// View returns the client-facing projection of the current state.
func (s *FeedService) View() View {
	return s.viewOf(s.store.Snapshot())
}

func (s *FeedService) viewOf(st state.State) View {
	v := View{
		Phase:        st.Phase,
		Loading:      st.Loading(),
		Error:        st.Error,
		MinMagnitude: st.MinMagnitude,
		Region:       st.Region,
		Regions:      models.RegionCatalog,
		Markers:      markers.BuildAll(st.FilteredEvents()),
		TotalEvents:  len(st.Events),
		LastUpdated:  st.LastUpdated,
	}
	if !st.LastUpdated.IsZero() {
		v.LastUpdatedAgo = humanize.RelTime(st.LastUpdated, s.clock.Now(), "ago", "from now")
	}
	return v
}

func (s *FeedService) fetchAndMeasure(ctx context.Context) ([]models.Event, int, error) {
	start := time.Now()
	events, dropped, err := s.fetcher.FetchFeed(ctx)
	s.metrics.FetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.metrics.FeedFetches.WithLabelValues("error").Inc()
		return nil, 0, err
	}

	s.metrics.FeedFetches.WithLabelValues("success").Inc()
	s.metrics.RecordsDropped.Add(float64(dropped))
	s.metrics.EventsLoaded.Set(float64(len(events)))
	return events, dropped, nil
}

func (s *FeedService) broadcast(message []byte) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast <- message
}
