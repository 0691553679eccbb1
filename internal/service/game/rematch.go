package game

import (
	"log"
	"time"

	"github.com/fourline/server/internal/domain"
	"github.com/fourline/server/internal/metrics"
)

// RequestRematch records a rematch offer against the opponent. A session
// holds at most one outstanding offer. Bot opponents accept immediately.
func (s *Service) RequestRematch(sessionID, connID string) error {
	r := s.registry
	r.mu.Lock()
	sess, ok := r.sessions[sessionID]
	if !ok {
		r.mu.Unlock()
		return domain.ErrSessionNotFound
	}
	if sess.Red == nil || sess.Yellow == nil {
		r.mu.Unlock()
		return domain.ErrRematchNotEligible
	}
	color, requester := sess.seatOf(connID)
	if requester == nil {
		r.mu.Unlock()
		return domain.ErrRematchNotEligible
	}

	opponent := sess.seat(color.Opponent())
	if opponent.Bot {
		started, err := s.startRematchLocked(sess)
		r.mu.Unlock()
		if err != nil {
			return err
		}
		s.deliverRematch(started)
		return nil
	}

	r.rematches[sessionID] = &PendingRematch{
		SessionID:     sessionID,
		RequesterConn: connID,
		OpponentConn:  opponent.ConnID,
		RequestedAt:   time.Now(),
	}
	requesterName := requester.Name
	opponentName := opponent.Name
	opponentConn := opponent.ConnID
	r.mu.Unlock()

	log.Printf("[REMATCH] %s requested a rematch in game %s", requesterName, sessionID)

	// The opponent is addressed directly, not via the session room.
	s.conns.Send(opponentConn, domain.ServerMessage{
		Type:       "rematchRequested",
		FromPlayer: requesterName,
		SessionID:  sessionID,
	})
	s.conns.Send(connID, domain.ServerMessage{Type: "rematchRequestSent", ToPlayer: opponentName})
	return nil
}

// AcceptRematch consumes a pending offer and spawns the next game of the
// series. Only the recorded opponent may accept.
func (s *Service) AcceptRematch(sessionID, connID string) error {
	r := s.registry
	r.mu.Lock()
	pending := r.rematches[sessionID]
	if pending == nil || pending.OpponentConn != connID {
		r.mu.Unlock()
		return domain.ErrRematchInvalid
	}
	old, ok := r.sessions[sessionID]
	if !ok {
		delete(r.rematches, sessionID)
		r.mu.Unlock()
		return domain.ErrSessionNotFound
	}
	started, err := s.startRematchLocked(old)
	r.mu.Unlock()
	if err != nil {
		return err
	}

	s.deliverRematch(started)
	return nil
}

// DeclineRematch notifies the requester and drops the offer. Declining a
// session with no pending offer is a silent no-op.
func (s *Service) DeclineRematch(sessionID, connID string) {
	r := s.registry
	r.mu.Lock()
	pending := r.rematches[sessionID]
	if pending == nil {
		r.mu.Unlock()
		return
	}
	delete(r.rematches, sessionID)

	name := r.nameFor(connID)
	if sess := r.sessions[sessionID]; sess != nil {
		if _, p := sess.seatOf(connID); p != nil {
			name = p.Name
		}
	}
	requesterConn := pending.RequesterConn
	r.mu.Unlock()

	log.Printf("[REMATCH] %s declined the rematch for game %s", name, sessionID)
	s.conns.Send(requesterConn, domain.ServerMessage{Type: "rematchDeclined", ByPlayer: name})
}

// rematchStart bundles everything deliverRematch needs once the lock is gone.
type rematchStart struct {
	oldID      string
	newID      string
	seriesID   string
	gameNumber int
	players    []domain.PlayerView
	view       *domain.SessionView
	seriesView *domain.SeriesView
	conns      []string
}

// startRematchLocked spawns the next game of the chain: both seats carry
// over, the series id is preserved, and play starts immediately with red to
// move. The finished session and its pending offer are deleted. Caller must
// hold the registry lock.
func (s *Service) startRematchLocked(old *Session) (*rematchStart, error) {
	sr := s.registry.series[old.SeriesID]
	if sr == nil {
		return nil, domain.ErrStatsMissing
	}

	next := s.registry.newSession()
	next.SeriesID = old.SeriesID
	next.GameNumber = sr.GamesPlayed + 1
	next.Red = old.Red
	next.Yellow = old.Yellow
	next.Status = domain.StatusPlaying
	s.registry.deleteSession(old.ID)

	started := &rematchStart{
		oldID:      old.ID,
		newID:      next.ID,
		seriesID:   next.SeriesID,
		gameNumber: next.GameNumber,
		players:    next.players(),
		view:       next.view(),
		seriesView: sr.view(),
	}
	for _, p := range []*Player{next.Red, next.Yellow} {
		if p != nil && !p.Bot {
			started.conns = append(started.conns, p.ConnID)
		}
	}
	metrics.RematchesStarted.Inc()
	log.Printf("[REMATCH] Game %d of series %s starts as %s", next.GameNumber, next.SeriesID, next.ID)
	return started, nil
}

// deliverRematch migrates room membership old->new and announces the game.
func (s *Service) deliverRematch(started *rematchStart) {
	for _, connID := range started.conns {
		s.conns.LeaveRoom(connID, started.oldID)
		s.conns.JoinRoom(connID, started.newID)
	}
	s.conns.DropRoom(started.oldID)

	s.conns.SendToRoom(started.newID, domain.ServerMessage{
		Type:         "rematchStarted",
		NewSessionID: started.newID,
		SeriesID:     started.seriesID,
		GameNumber:   started.gameNumber,
		Players:      started.players,
	})
	s.conns.SendToRoom(started.newID, domain.ServerMessage{Type: "gameUpdate", Session: started.view})
	s.conns.SendToRoom(started.newID, domain.ServerMessage{Type: "statsUpdate", Series: started.seriesView})
}
