package game

import (
	"log"
	"sync"
	"time"

	"github.com/fourline/server/internal/domain"
	"github.com/fourline/server/internal/metrics"
	"github.com/fourline/server/pkg/uid"
)

// Registry owns the four process-wide tables: sessions, series stats, pending
// rematches and display names. One coarse mutex serializes every mutation;
// per-event work is small enough that finer locking buys nothing.
type Registry struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	series    map[string]*Series
	rematches map[string]*PendingRematch
	names     map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:  make(map[string]*Session),
		series:    make(map[string]*Series),
		rematches: make(map[string]*PendingRematch),
		names:     make(map[string]string),
	}
}

// newSession allocates and registers a waiting session. Caller must hold mu.
// Token collisions are not retried; see pkg/uid.
func (r *Registry) newSession() *Session {
	id := uid.NewToken()
	s := &Session{
		ID:          id,
		Board:       domain.NewBoard(),
		CurrentTurn: domain.ColorRed,
		Status:      domain.StatusWaiting,
		CreatedAt:   time.Now(),
		SeriesID:    id,
		GameNumber:  1,
	}
	r.sessions[id] = s
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	return s
}

// deleteSession drops a session and its pending rematch. Caller must hold mu.
func (r *Registry) deleteSession(id string) {
	delete(r.sessions, id)
	delete(r.rematches, id)
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
}

// GetSession looks a session up for external readers (tests, HTTP).
func (r *Registry) GetSession(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// GetSeries looks a series scoreboard up by series id.
func (r *Registry) GetSeries(id string) (*Series, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sr, ok := r.series[id]
	return sr, ok
}

// GetPendingRematch looks a rematch offer up by the finished session's id.
func (r *Registry) GetPendingRematch(sessionID string) (*PendingRematch, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rematches[sessionID]
	return p, ok
}

func (r *Registry) SessionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// nameFor resolves a connection's display name, falling back to a name
// derived from the connection id. Caller must hold mu.
func (r *Registry) nameFor(connID string) string {
	if name, ok := r.names[connID]; ok && name != "" {
		return name
	}
	return defaultName(connID)
}

func defaultName(connID string) string {
	short := connID
	if len(short) > 5 {
		short = short[:5]
	}
	return "Player-" + short
}

// SweepStaleSessions removes sessions older than maxAge, keyed off creation
// time. A long-running active game is swept at the threshold too; that is
// intentional simplicity, not an oversight.
func (r *Registry) SweepStaleSessions(maxAge time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var swept []string
	now := time.Now()
	for id, s := range r.sessions {
		if now.Sub(s.CreatedAt) > maxAge {
			r.deleteSession(id)
			swept = append(swept, id)
		}
	}

	if len(swept) > 0 {
		metrics.SessionsSwept.Add(float64(len(swept)))
		log.Printf("[SWEEP] Removed %d stale sessions", len(swept))
	}
	return swept
}

// SweepPendingRematches expires rematch offers older than maxAge. Nobody is
// notified; the offer simply stops being acceptable.
func (r *Registry) SweepPendingRematches(maxAge time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	now := time.Now()
	for id, p := range r.rematches {
		if now.Sub(p.RequestedAt) > maxAge {
			delete(r.rematches, id)
			count++
		}
	}

	if count > 0 {
		log.Printf("[SWEEP] Expired %d pending rematches", count)
	}
	return count
}
