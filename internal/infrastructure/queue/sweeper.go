package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lessonworks/learning-auth/internal/api/metrics"
	"github.com/lessonworks/learning-auth/internal/core/ports"
)

// Sweeper runs session-log sweeps on a single background worker. Requests
// arrive through a one-slot channel, so bursts of logins coalesce into a
// single pending sweep instead of queueing one pass per login.
type Sweeper struct {
	requests chan struct{}
	sessions ports.SessionStore
	log      zerolog.Logger
}

// NewSweeper creates a Sweeper for the given session store.
func NewSweeper(sessions ports.SessionStore, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		requests: make(chan struct{}, 1),
		sessions: sessions,
		log:      log,
	}
}

// Start launches the worker goroutine. The worker stops when ctx is
// cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx)
}

// Request schedules a sweep. Non-blocking: if a sweep is already pending
// the request is dropped, the pending pass will cover it.
func (s *Sweeper) Request() {
	select {
	case s.requests <- struct{}{}:
	default:
	}
}

func (s *Sweeper) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.requests:
			purged, err := s.sessions.Sweep(ctx)
			if err != nil {
				// Sweeps are best-effort housekeeping; a failure is logged
				// and never surfaced to any request.
				metrics.SweepsTotal.WithLabelValues("error").Inc()
				s.log.Error().Err(err).Msg("session sweep failed")
				continue
			}
			metrics.SweepsTotal.WithLabelValues("ok").Inc()
			metrics.SessionsPurgedTotal.Add(float64(purged))
			if purged > 0 {
				s.log.Debug().Int("purged", purged).Msg("expired sessions purged")
			}
		}
	}
}
