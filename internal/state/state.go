package state

import (
	"time"

	"github.com/quakemap/quakemap-be/internal/models"
)

// Phase tracks the feed loader's lifecycle. Transitions run strictly
// idle -> loading -> {loaded, failed} and settle exactly once; there is no
// way back to loading within a session.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseFailed  Phase = "failed"
)

// State is the application view-state. It is a value type: the reducer takes
// the old state and returns a new one, so handlers can snapshot it without
// aliasing the store's copy.
type State struct {
	Events       []models.Event `json:"events"`
	Phase        Phase          `json:"phase"`
	Error        string         `json:"error,omitempty"`
	MinMagnitude float64        `json:"min_magnitude"`
	Region       models.Region  `json:"region"`
	LastUpdated  time.Time      `json:"last_updated,omitzero"`
}

// NewState returns the initial state: no events, idle loader, threshold 0,
// the catalog's default region selected.
func NewState() State {
	return State{
		Events:       []models.Event{},
		Phase:        PhaseIdle,
		MinMagnitude: 0,
		Region:       models.DefaultRegion(),
	}
}

// Loading reports whether the single startup fetch has not settled yet.
func (s State) Loading() bool {
	return s.Phase == PhaseIdle || s.Phase == PhaseLoading
}

// FilteredEvents derives the visible subset: events at or above the current
// threshold. Recomputed on demand, never cached, never mutating.
func (s State) FilteredEvents() []models.Event {
	return models.FilterByMinMagnitude(s.Events, s.MinMagnitude)
}

// Action is a state transition request consumed by Reduce.
type Action interface {
	isAction()
}

// FetchStarted marks the startup fetch as in flight.
type FetchStarted struct{}

// FeedLoaded settles the loader with a parsed event list.
type FeedLoaded struct {
	Events []models.Event
	At     time.Time
}

// FeedFailed settles the loader with a human-readable error message.
type FeedFailed struct {
	Message string
}

// FeedRefreshed replaces the event list wholesale from a background refresh.
// It only applies once the loader has settled successfully; a failed session
// stays failed until reload.
type FeedRefreshed struct {
	Events []models.Event
	At     time.Time
}

// ThresholdChanged sets the minimum-magnitude threshold.
type ThresholdChanged struct {
	MinMagnitude float64
}

// RegionSelected selects a catalog region by name.
type RegionSelected struct {
	Name string
}

func (FetchStarted) isAction()     {}
func (FeedLoaded) isAction()       {}
func (FeedFailed) isAction()       {}
func (FeedRefreshed) isAction()    {}
func (ThresholdChanged) isAction() {}
func (RegionSelected) isAction()   {}

// Reduce is the single state-transition function. It is pure: no I/O, no
// mutation of the input, unknown or out-of-order actions return the state
// unchanged.
func Reduce(s State, a Action) State {
	switch action := a.(type) {
	case FetchStarted:
		if s.Phase != PhaseIdle {
			return s
		}
		s.Phase = PhaseLoading
		return s

	case FeedLoaded:
		if s.Phase != PhaseLoading {
			return s
		}
		s.Phase = PhaseLoaded
		s.Events = cloneEvents(action.Events)
		s.LastUpdated = action.At
		return s

	case FeedFailed:
		if s.Phase != PhaseLoading {
			return s
		}
		s.Phase = PhaseFailed
		s.Events = []models.Event{}
		s.Error = action.Message
		return s

	case FeedRefreshed:
		if s.Phase != PhaseLoaded {
			return s
		}
		s.Events = cloneEvents(action.Events)
		s.LastUpdated = action.At
		return s

	case ThresholdChanged:
		s.MinMagnitude = clampThreshold(action.MinMagnitude)
		return s

	case RegionSelected:
		s.Region = models.LookupRegion(action.Name)
		return s

	default:
		return s
	}
}

func clampThreshold(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func cloneEvents(events []models.Event) []models.Event {
	cloned := make([]models.Event, len(events))
	copy(cloned, events)
	return cloned
}
