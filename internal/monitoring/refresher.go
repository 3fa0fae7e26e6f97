package monitoring

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/quakemap/quakemap-be/internal/services"
	"github.com/quakemap/quakemap-be/internal/websocket"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// refreshTimeout bounds one background refresh cycle. The startup fetch has
// no deadline per the loader contract; background refreshes do, so a hung
// request cannot stall the schedule forever.
const refreshTimeout = 2 * time.Minute

// Refresher periodically re-fetches the feed on a cron schedule and pushes
// host stats to connected clients alongside each cycle.
type Refresher struct {
	feedSvc  services.FeedServiceProvider
	hub      *websocket.Hub
	schedule cron.Schedule
	clock    clockwork.Clock
	done     chan bool
}

// NewRefresher creates a refresher from a cron expression (standard five-field
// syntax or descriptors like "@every 15m"). A nil clock selects real time.
func NewRefresher(feedSvc services.FeedServiceProvider, hub *websocket.Hub, cronExpr string, clock clockwork.Clock) (*Refresher, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Refresher{
		feedSvc:  feedSvc,
		hub:      hub,
		schedule: schedule,
		clock:    clock,
		done:     make(chan bool),
	}, nil
}

// Run starts the refresh loop. It blocks until Stop is called.
func (r *Refresher) Run() {
	log.Info().Msg("Starting background feed refresher...")
	for {
		now := r.clock.Now()
		next := r.schedule.Next(now)

		select {
		case <-r.done:
			log.Info().Msg("Stopping background feed refresher.")
			return
		case <-r.clock.After(next.Sub(now)):
			r.tick()
		}
	}
}

// Stop halts the refresh loop.
func (r *Refresher) Stop() {
	r.done <- true
}

func (r *Refresher) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	// Refresh failures keep the previous snapshot and are logged by the service.
	r.feedSvc.Refresh(ctx)

	stats, err := CollectSystemStats(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Refresher: could not collect system stats")
		return
	}
	if r.hub != nil {
		r.hub.Broadcast <- websocket.NewSystemStatsMessage(stats)
	}
}
