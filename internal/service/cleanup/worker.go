package cleanup

import (
	"log"
	"time"

	"github.com/fourline/server/internal/service/game"
)

// Worker drives the two timer-based sweeps: pending-rematch expiry and
// stale-session expiry. Sweeps never surface errors to connections; they
// only mutate the registry and log.
type Worker struct {
	Game *game.Service

	RematchInterval time.Duration
	RematchMaxAge   time.Duration
	SessionInterval time.Duration
	SessionMaxAge   time.Duration

	stop chan struct{}
}

func NewWorker(gs *game.Service, rematchInterval, rematchMaxAge, sessionInterval, sessionMaxAge time.Duration) *Worker {
	return &Worker{
		Game:            gs,
		RematchInterval: rematchInterval,
		RematchMaxAge:   rematchMaxAge,
		SessionInterval: sessionInterval,
		SessionMaxAge:   sessionMaxAge,
		stop:            make(chan struct{}),
	}
}

// Start launches both sweep loops.
func (w *Worker) Start() {
	go w.loop(w.RematchInterval, func() {
		w.Game.SweepPendingRematches(w.RematchMaxAge)
	})
	go w.loop(w.SessionInterval, func() {
		w.Game.SweepStaleSessions(w.SessionMaxAge)
	})
	log.Println("[SWEEP] Background worker started")
}

// Stop halts both loops.
func (w *Worker) Stop() {
	close(w.stop)
}

func (w *Worker) loop(interval time.Duration, sweep func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			sweep()
		}
	}
}
