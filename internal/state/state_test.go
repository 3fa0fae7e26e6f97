package state

import (
	"testing"
	"time"

	"github.com/quakemap/quakemap-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleEvents = []models.Event{
	{ID: "a", Magnitude: 2.1, Latitude: 35.0, Longitude: 139.0},
	{ID: "b", Magnitude: 4.6, Latitude: -33.4, Longitude: -70.6},
	{ID: "c", Magnitude: 6.2, Latitude: 34.0, Longitude: -118.2},
}

func loadedState(t *testing.T) State {
	t.Helper()
	s := Reduce(NewState(), FetchStarted{})
	s = Reduce(s, FeedLoaded{Events: sampleEvents, At: time.Unix(1000, 0)})
	require.Equal(t, PhaseLoaded, s.Phase)
	return s
}

func TestLoaderStateMachine(t *testing.T) {
	t.Run("success path", func(t *testing.T) {
		s := NewState()
		assert.Equal(t, PhaseIdle, s.Phase)
		assert.True(t, s.Loading())

		s = Reduce(s, FetchStarted{})
		assert.Equal(t, PhaseLoading, s.Phase)
		assert.True(t, s.Loading())

		s = Reduce(s, FeedLoaded{Events: sampleEvents, At: time.Unix(1000, 0)})
		assert.Equal(t, PhaseLoaded, s.Phase)
		assert.False(t, s.Loading())
		assert.Empty(t, s.Error)
		assert.Len(t, s.Events, 3)
	})

	t.Run("failure path", func(t *testing.T) {
		s := Reduce(NewState(), FetchStarted{})
		s = Reduce(s, FeedFailed{Message: "boom"})

		assert.Equal(t, PhaseFailed, s.Phase)
		assert.False(t, s.Loading())
		assert.Equal(t, "boom", s.Error)
		assert.Empty(t, s.Events)
	})

	t.Run("settlement is terminal", func(t *testing.T) {
		s := loadedState(t)

		after := Reduce(s, FeedFailed{Message: "late failure"})
		assert.Equal(t, s, after)

		after = Reduce(s, FeedLoaded{Events: nil})
		assert.Equal(t, s, after)

		after = Reduce(s, FetchStarted{})
		assert.Equal(t, PhaseLoaded, after.Phase)
	})

	t.Run("error is never cleared", func(t *testing.T) {
		s := Reduce(NewState(), FetchStarted{})
		s = Reduce(s, FeedFailed{Message: "boom"})

		s = Reduce(s, FeedRefreshed{Events: sampleEvents, At: time.Unix(2000, 0)})
		assert.Equal(t, PhaseFailed, s.Phase)
		assert.Equal(t, "boom", s.Error)
		assert.Empty(t, s.Events)
	})
}

func TestFeedRefreshed(t *testing.T) {
	t.Run("replaces events wholesale when loaded", func(t *testing.T) {
		s := loadedState(t)
		replacement := []models.Event{{ID: "z", Magnitude: 1.0}}

		s = Reduce(s, FeedRefreshed{Events: replacement, At: time.Unix(2000, 0)})

		assert.Equal(t, PhaseLoaded, s.Phase)
		require.Len(t, s.Events, 1)
		assert.Equal(t, "z", s.Events[0].ID)
		assert.Equal(t, time.Unix(2000, 0), s.LastUpdated)
	})

	t.Run("ignored before settlement", func(t *testing.T) {
		s := Reduce(NewState(), FetchStarted{})
		after := Reduce(s, FeedRefreshed{Events: sampleEvents})
		assert.Equal(t, s, after)
	})
}

func TestThresholdChanged(t *testing.T) {
	s := NewState()

	s = Reduce(s, ThresholdChanged{MinMagnitude: 4.5})
	assert.Equal(t, 4.5, s.MinMagnitude)

	s = Reduce(s, ThresholdChanged{MinMagnitude: -3})
	assert.Equal(t, 0.0, s.MinMagnitude)

	s = Reduce(s, ThresholdChanged{MinMagnitude: 12})
	assert.Equal(t, 10.0, s.MinMagnitude)
}

func TestRegionSelected(t *testing.T) {
	s := Reduce(NewState(), RegionSelected{Name: "Japan"})
	assert.Equal(t, "Japan", s.Region.Name)
	assert.Equal(t, 36.2, s.Region.Latitude)
	assert.Equal(t, 138.3, s.Region.Longitude)
	assert.Equal(t, 5, s.Region.Zoom)

	s = Reduce(s, RegionSelected{Name: "Atlantis"})
	assert.Equal(t, models.DefaultRegion(), s.Region)
}

func TestFilteredEvents(t *testing.T) {
	s := loadedState(t)
	s = Reduce(s, ThresholdChanged{MinMagnitude: 4.0})

	filtered := s.FilteredEvents()
	require.Len(t, filtered, 2)
	assert.Equal(t, "b", filtered[0].ID)
	assert.Equal(t, "c", filtered[1].ID)

	// Filtering an already-filtered list at the same threshold is a no-op.
	assert.Equal(t, filtered, models.FilterByMinMagnitude(filtered, 4.0))

	// The underlying list is untouched.
	assert.Len(t, s.Events, 3)
}

func TestStoreDispatch(t *testing.T) {
	store := NewStore(NewState())

	st := store.Dispatch(FetchStarted{})
	assert.Equal(t, PhaseLoading, st.Phase)

	st = store.Dispatch(FeedLoaded{Events: sampleEvents, At: time.Unix(1000, 0)})
	assert.Equal(t, PhaseLoaded, st.Phase)
	assert.Equal(t, st, store.Snapshot())
}
