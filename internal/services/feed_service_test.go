package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/quakemap/quakemap-be/internal/markers"
	"github.com/quakemap/quakemap-be/internal/models"
	"github.com/quakemap/quakemap-be/internal/observability"
	"github.com/quakemap/quakemap-be/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	events  []models.Event
	dropped int
	err     error
	calls   int
}

func (f *fakeFetcher) FetchFeed(_ context.Context) ([]models.Event, int, error) {
	f.calls++
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.events, f.dropped, nil
}

func newService(fetcher *fakeFetcher) *FeedService {
	store := state.NewStore(state.NewState())
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	return NewFeedService(store, fetcher, nil, observability.NewMetricsForTesting(), clock)
}

func TestLoadInitialSuccess(t *testing.T) {
	fetcher := &fakeFetcher{events: []models.Event{
		{ID: "us7000abcd", Magnitude: 6.2, Latitude: 34.0, Longitude: -118.2, DepthKM: 10.0},
	}}
	svc := newService(fetcher)

	svc.LoadInitial(context.Background())

	snap := svc.Snapshot()
	assert.Equal(t, state.PhaseLoaded, snap.Phase)
	assert.False(t, snap.Loading())
	assert.Empty(t, snap.Error)
	assert.Len(t, snap.Events, 1)

	// Threshold 0: exactly one marker at (34.0, -118.2) in the top bucket.
	ms := svc.Markers(nil)
	require.Len(t, ms, 1)
	assert.Equal(t, 34.0, ms[0].Latitude)
	assert.Equal(t, -118.2, ms[0].Longitude)
	assert.Equal(t, markers.ColorMajor, ms[0].Color)

	// Threshold 6.5 hides it.
	svc.SetThreshold(6.5)
	assert.Empty(t, svc.Markers(nil))
}

func TestLoadInitialFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	svc := newService(fetcher)

	svc.LoadInitial(context.Background())

	snap := svc.Snapshot()
	assert.Equal(t, state.PhaseFailed, snap.Phase)
	assert.False(t, snap.Loading())
	assert.NotEmpty(t, snap.Error)
	assert.Empty(t, svc.Markers(nil))
	assert.Equal(t, 1, fetcher.calls)
}

func TestLoadInitialEmptyFeed(t *testing.T) {
	fetcher := &fakeFetcher{events: []models.Event{}}
	svc := newService(fetcher)

	svc.LoadInitial(context.Background())

	snap := svc.Snapshot()
	assert.Equal(t, state.PhaseLoaded, snap.Phase)
	assert.Empty(t, snap.Error)
	assert.Empty(t, svc.Markers(nil))
}

func TestMarkersOverride(t *testing.T) {
	fetcher := &fakeFetcher{events: []models.Event{
		{ID: "a", Magnitude: 2.0},
		{ID: "b", Magnitude: 5.5},
	}}
	svc := newService(fetcher)
	svc.LoadInitial(context.Background())

	// Shared threshold stays at 0; the override filters per request.
	override := 5.0
	ms := svc.Markers(&override)
	require.Len(t, ms, 1)
	assert.Equal(t, "b", ms[0].ID)

	assert.Len(t, svc.Markers(nil), 2)
	assert.Equal(t, 0.0, svc.Snapshot().MinMagnitude)
}

func TestRefresh(t *testing.T) {
	t.Run("replaces the snapshot wholesale", func(t *testing.T) {
		fetcher := &fakeFetcher{events: []models.Event{{ID: "old", Magnitude: 3.0}}}
		svc := newService(fetcher)
		svc.LoadInitial(context.Background())

		fetcher.events = []models.Event{{ID: "new", Magnitude: 4.0}}
		require.NoError(t, svc.Refresh(context.Background()))

		snap := svc.Snapshot()
		require.Len(t, snap.Events, 1)
		assert.Equal(t, "new", snap.Events[0].ID)
	})

	t.Run("skipped before the loader settles", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		svc := newService(fetcher)

		require.NoError(t, svc.Refresh(context.Background()))
		assert.Equal(t, 0, fetcher.calls)
	})

	t.Run("skipped after a failed session", func(t *testing.T) {
		fetcher := &fakeFetcher{err: errors.New("boom")}
		svc := newService(fetcher)
		svc.LoadInitial(context.Background())

		fetcher.err = nil
		fetcher.events = []models.Event{{ID: "late", Magnitude: 2.0}}
		require.NoError(t, svc.Refresh(context.Background()))

		snap := svc.Snapshot()
		assert.Equal(t, state.PhaseFailed, snap.Phase)
		assert.Empty(t, snap.Events)
		assert.Equal(t, 1, fetcher.calls)
	})

	t.Run("failure keeps the previous snapshot", func(t *testing.T) {
		fetcher := &fakeFetcher{events: []models.Event{{ID: "keep", Magnitude: 3.0}}}
		svc := newService(fetcher)
		svc.LoadInitial(context.Background())

		fetcher.err = errors.New("feed down")
		require.Error(t, svc.Refresh(context.Background()))

		snap := svc.Snapshot()
		assert.Equal(t, state.PhaseLoaded, snap.Phase)
		require.Len(t, snap.Events, 1)
		assert.Equal(t, "keep", snap.Events[0].ID)
	})
}

func TestSelectRegion(t *testing.T) {
	svc := newService(&fakeFetcher{})

	st := svc.SelectRegion("Chile")
	assert.Equal(t, "Chile", st.Region.Name)

	st = svc.SelectRegion("nowhere")
	assert.Equal(t, models.DefaultRegion(), st.Region)
}

func TestView(t *testing.T) {
	fetcher := &fakeFetcher{events: []models.Event{
		{ID: "a", Magnitude: 2.0},
		{ID: "b", Magnitude: 6.5},
	}}
	svc := newService(fetcher)
	svc.LoadInitial(context.Background())
	svc.SetThreshold(6.0)

	view := svc.View()
	assert.Equal(t, state.PhaseLoaded, view.Phase)
	assert.False(t, view.Loading)
	assert.Equal(t, 6.0, view.MinMagnitude)
	assert.Equal(t, 2, view.TotalEvents)
	require.Len(t, view.Markers, 1)
	assert.Equal(t, "b", view.Markers[0].ID)
	assert.Equal(t, models.RegionCatalog, view.Regions)
	assert.Equal(t, "now", view.LastUpdatedAgo)
}
