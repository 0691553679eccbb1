package game

import (
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fourline/server/internal/domain"
	"github.com/fourline/server/internal/metrics"
	"github.com/fourline/server/internal/service/bot"
)

// MaxNameLength caps display names.
const MaxNameLength = 15

// Broadcaster is the narrow transport surface the game service talks to.
// Sends are fire-and-forget; none of them may block, since the service calls
// them while events from other connections are queued behind the registry.
type Broadcaster interface {
	Send(connID string, msg domain.ServerMessage)
	SendToRoom(roomID string, msg domain.ServerMessage)
	JoinRoom(connID, roomID string)
	LeaveRoom(connID, roomID string)
	DropRoom(roomID string)
}

// Timings groups the scheduling knobs so tests can shrink them.
type Timings struct {
	// BroadcastDelay is how long after a move the authoritative gameUpdate
	// fires, giving clients room for a placement animation.
	BroadcastDelay time.Duration
	// BotDelay paces bot replies so they feel natural.
	BotDelay time.Duration
	// TeardownGrace keeps an abandoned session addressable for late
	// in-flight messages before it is deleted.
	TeardownGrace time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		BroadcastDelay: 500 * time.Millisecond,
		BotDelay:       500 * time.Millisecond,
		TeardownGrace:  5 * time.Second,
	}
}

// Service is the turn state machine and connection lifecycle manager. All
// session mutations funnel through it, one registry lock wide.
type Service struct {
	registry *Registry
	conns    Broadcaster
	timings  Timings
}

func NewService(r *Registry, b Broadcaster, t Timings) *Service {
	return &Service{registry: r, conns: b, timings: t}
}

// SetPlayerName stores a connection's display name, trimmed and capped.
// Empty names fall back to one derived from the connection id.
func (s *Service) SetPlayerName(connID, raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		name = defaultName(connID)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}

	s.registry.mu.Lock()
	s.registry.names[connID] = name
	s.registry.mu.Unlock()

	s.conns.Send(connID, domain.ServerMessage{Type: "nameSet", Success: true, Name: name})
	return name
}

// CreateGame allocates a waiting session with the requester in the red seat.
// With vsBot set the yellow seat is filled immediately and play begins.
func (s *Service) CreateGame(connID string, vsBot bool, difficulty string) string {
	r := s.registry
	r.mu.Lock()
	sess := r.newSession()
	name := r.nameFor(connID)
	sess.Red = &Player{ConnID: connID, Name: name}

	var seriesView *domain.SeriesView
	if vsBot {
		sess.Yellow = &Player{Name: bot.Name(difficulty), Bot: true, Difficulty: difficulty}
		sess.Status = domain.StatusPlaying
		seriesView = s.ensureSeriesLocked(sess).view()
	}

	id := sess.ID
	gameNumber := sess.GameNumber
	view := sess.view()
	r.mu.Unlock()

	log.Printf("[SESSION] %s created game %s (vsBot=%v)", name, id, vsBot)

	s.conns.JoinRoom(connID, id)
	s.conns.SendToRoom(id, domain.ServerMessage{
		Type:       "gameCreated",
		SessionID:  id,
		Color:      domain.ColorRed,
		PlayerName: name,
		GameNumber: gameNumber,
	})
	s.conns.SendToRoom(id, domain.ServerMessage{Type: "gameUpdate", Session: view})
	if seriesView != nil {
		s.conns.SendToRoom(id, domain.ServerMessage{Type: "statsUpdate", Series: seriesView})
	}
	return id
}

// JoinGame seats the joiner in the yellow seat and starts play.
func (s *Service) JoinGame(sessionID, connID string) error {
	r := s.registry
	r.mu.Lock()
	sess, ok := r.sessions[sessionID]
	if !ok {
		r.mu.Unlock()
		return domain.ErrSessionNotFound
	}
	if sess.Yellow != nil {
		r.mu.Unlock()
		return domain.ErrGameFull
	}
	// An abandoned session lingers through the teardown grace window with its
	// red seat vacated; it is not joinable.
	if sess.Status != domain.StatusWaiting || sess.Red == nil {
		r.mu.Unlock()
		return domain.ErrSessionNotFound
	}

	name := r.nameFor(connID)
	sess.Yellow = &Player{ConnID: connID, Name: name}
	sess.Status = domain.StatusPlaying
	// Idempotent on rematch-spawned sessions: an existing series keeps its
	// win counters.
	seriesView := s.ensureSeriesLocked(sess).view()

	gameNumber := sess.GameNumber
	players := sess.players()
	view := sess.view()
	r.mu.Unlock()

	log.Printf("[SESSION] %s joined game %s", name, sessionID)

	s.conns.JoinRoom(connID, sessionID)
	s.conns.Send(connID, domain.ServerMessage{
		Type:       "gameJoined",
		SessionID:  sessionID,
		Color:      domain.ColorYellow,
		PlayerName: name,
		GameNumber: gameNumber,
	})
	s.conns.SendToRoom(sessionID, domain.ServerMessage{Type: "playerJoined", Players: players})
	s.conns.SendToRoom(sessionID, domain.ServerMessage{Type: "gameUpdate", Session: view})
	s.conns.SendToRoom(sessionID, domain.ServerMessage{Type: "statsUpdate", Series: seriesView})
	return nil
}

// ensureSeriesLocked lazily creates the series scoreboard for a session's
// chain. Caller must hold the registry lock and both seats must be filled.
func (s *Service) ensureSeriesLocked(sess *Session) *Series {
	if sr := s.registry.series[sess.SeriesID]; sr != nil {
		return sr
	}
	sr := &Series{
		ID:     sess.SeriesID,
		Red:    &PlayerStats{ConnID: sess.Red.ConnID, Name: sess.Red.Name},
		Yellow: &PlayerStats{ConnID: sess.Yellow.ConnID, Name: sess.Yellow.Name},
	}
	s.registry.series[sess.SeriesID] = sr
	return sr
}

// ApplyMove validates and applies one move. A moveAnimation goes out at once;
// the authoritative gameUpdate follows after BroadcastDelay.
func (s *Service) ApplyMove(sessionID, connID string, claimed domain.Color, column int) error {
	r := s.registry
	r.mu.Lock()
	sess, ok := r.sessions[sessionID]
	if !ok {
		r.mu.Unlock()
		return domain.ErrSessionNotFound
	}
	row, err := s.applyMoveLocked(sess, claimed, column)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	next := sess.seat(sess.CurrentTurn)
	botNext := !sess.isOver() && next != nil && next.Bot
	r.mu.Unlock()

	s.conns.SendToRoom(sessionID, domain.ServerMessage{
		Type: "moveAnimation",
		Move: &domain.MoveView{Row: row, Col: column, Color: claimed},
	})
	s.scheduleStateBroadcast(sessionID)
	if botNext {
		time.AfterFunc(s.timings.BotDelay, func() { s.playBotMove(sessionID) })
	}
	return nil
}

// applyMoveLocked is the shared checked-then-apply core for human and bot
// moves. Caller must hold the registry lock. A rejected move touches nothing.
func (s *Service) applyMoveLocked(sess *Session, color domain.Color, column int) (int, error) {
	if sess.isOver() {
		return -1, domain.ErrGameOver
	}
	if color != sess.CurrentTurn {
		return -1, domain.ErrWrongTurn
	}
	if sess.Red == nil || sess.Yellow == nil {
		return -1, domain.ErrOpponentMissing
	}
	row, err := domain.DropResolve(sess.Board, column)
	if err != nil {
		return -1, err
	}

	sess.Board[row][column] = color
	sess.MoveCount++
	sess.LastMoveAt = time.Now()

	switch {
	case domain.CheckWin(sess.Board, row, column, color):
		sess.Status = domain.StatusFinished
		sess.Winner = domain.WinnerFor(color)
		sess.WinningCells = domain.WinningCells(sess.Board, row, column, color)
		if sr := s.registry.series[sess.SeriesID]; sr != nil {
			sr.recordWin(color)
		}
		metrics.GamesCompleted.WithLabelValues(string(sess.Winner)).Inc()
		log.Printf("[GAME] %s wins game %s after %d moves", color, sess.ID, sess.MoveCount)
	case domain.IsFull(sess.Board):
		// Draws finish the game but touch no series counter; see Series.recordWin.
		sess.Status = domain.StatusFinished
		sess.Winner = domain.WinnerDraw
		metrics.GamesCompleted.WithLabelValues("draw").Inc()
		log.Printf("[GAME] Game %s drawn after %d moves", sess.ID, sess.MoveCount)
	default:
		sess.CurrentTurn = color.Opponent()
	}
	return row, nil
}

// scheduleStateBroadcast fires the delayed authoritative broadcast. The
// session is looked up again when the timer fires; a session deleted in the
// meantime simply produces no broadcast.
func (s *Service) scheduleStateBroadcast(sessionID string) {
	time.AfterFunc(s.timings.BroadcastDelay, func() {
		r := s.registry
		r.mu.Lock()
		sess, ok := r.sessions[sessionID]
		if !ok {
			r.mu.Unlock()
			return
		}
		view := sess.view()
		var seriesView *domain.SeriesView
		if sess.isOver() {
			if sr := r.series[sess.SeriesID]; sr != nil {
				seriesView = sr.view()
			}
		}
		r.mu.Unlock()

		s.conns.SendToRoom(sessionID, domain.ServerMessage{Type: "gameUpdate", Session: view})
		if seriesView != nil {
			s.conns.SendToRoom(sessionID, domain.ServerMessage{Type: "statsUpdate", Series: seriesView})
		}
	})
}

// playBotMove runs a scheduled bot reply. Everything is re-validated; the
// session may have finished or vanished while the timer was pending.
func (s *Service) playBotMove(sessionID string) {
	r := s.registry
	r.mu.Lock()
	sess, ok := r.sessions[sessionID]
	if !ok || sess.isOver() || sess.Status != domain.StatusPlaying {
		r.mu.Unlock()
		return
	}
	seat := sess.seat(sess.CurrentTurn)
	if seat == nil || !seat.Bot {
		r.mu.Unlock()
		return
	}

	color := sess.CurrentTurn
	column := bot.BestMove(sess.Board, color, seat.Difficulty)
	if column < 0 {
		r.mu.Unlock()
		return
	}
	row, err := s.applyMoveLocked(sess, color, column)
	r.mu.Unlock()
	if err != nil {
		log.Printf("[BOT] Move failed in game %s: %v", sessionID, err)
		return
	}

	s.conns.SendToRoom(sessionID, domain.ServerMessage{
		Type: "moveAnimation",
		Move: &domain.MoveView{Row: row, Col: column, Color: color},
	})
	s.scheduleStateBroadcast(sessionID)
}

// LeaveGame vacates the seat a connection holds in the given session.
func (s *Service) LeaveGame(sessionID, connID string) {
	r := s.registry
	r.mu.Lock()
	sess, ok := r.sessions[sessionID]
	if !ok {
		r.mu.Unlock()
		return
	}
	color, p := sess.seatOf(connID)
	if p == nil {
		r.mu.Unlock()
		return
	}
	d := s.vacateLocked(sess, color, p, "left the game")
	r.mu.Unlock()

	s.conns.LeaveRoom(connID, sessionID)
	s.deliverDeparture(d)
}

// HandleDisconnect purges the connection's display name and sweeps every
// session it occupies. A connection only ever sits in one session, but the
// sweep is unconditional over the whole registry for robustness.
func (s *Service) HandleDisconnect(connID string) {
	r := s.registry
	r.mu.Lock()
	delete(r.names, connID)
	var departures []*departure
	for _, sess := range r.sessions {
		if color, p := sess.seatOf(connID); p != nil {
			departures = append(departures, s.vacateLocked(sess, color, p, "disconnected"))
		}
	}
	r.mu.Unlock()

	for _, d := range departures {
		s.deliverDeparture(d)
	}
}

type departure struct {
	sessionID  string
	notifyConn string
	msg        domain.ServerMessage
}

// vacateLocked nulls a seat and, unless the game already ended, hands the win
// to the remaining color. Caller must hold the registry lock.
func (s *Service) vacateLocked(sess *Session, color domain.Color, p *Player, reason string) *departure {
	sess.setSeat(color, nil)
	if !sess.isOver() {
		sess.Status = domain.StatusAbandoned
		sess.Winner = domain.WinnerFor(color.Opponent())
		metrics.GamesCompleted.WithLabelValues("abandoned").Inc()
	}
	delete(s.registry.rematches, sess.ID)

	log.Printf("[SESSION] %s %s, game %s abandoned to %s", p.Name, reason, sess.ID, sess.Winner)

	d := &departure{sessionID: sess.ID}
	if other := sess.seat(color.Opponent()); other != nil && !other.Bot {
		d.notifyConn = other.ConnID
		d.msg = domain.ServerMessage{
			Type:         "opponentLeft",
			Message:      p.Name + " " + reason,
			AutoReturn:   true,
			OpponentName: p.Name,
		}
	}
	return d
}

func (s *Service) deliverDeparture(d *departure) {
	if d.notifyConn != "" {
		s.conns.Send(d.notifyConn, d.msg)
	}
	s.scheduleTeardown(d.sessionID)
}

// scheduleTeardown deletes the session after a grace delay so late in-flight
// messages can still resolve it. Existence is re-checked when the timer fires.
func (s *Service) scheduleTeardown(sessionID string) {
	time.AfterFunc(s.timings.TeardownGrace, func() {
		r := s.registry
		r.mu.Lock()
		_, ok := r.sessions[sessionID]
		if ok {
			r.deleteSession(sessionID)
		}
		r.mu.Unlock()

		if ok {
			s.conns.DropRoom(sessionID)
			log.Printf("[SESSION] Tore down session %s", sessionID)
		}
	})
}

// SweepStaleSessions removes sessions past their creation-time TTL and
// dissolves their broadcast groups.
func (s *Service) SweepStaleSessions(maxAge time.Duration) int {
	ids := s.registry.SweepStaleSessions(maxAge)
	for _, id := range ids {
		s.conns.DropRoom(id)
	}
	return len(ids)
}

// SweepPendingRematches expires rematch offers past their TTL.
func (s *Service) SweepPendingRematches(maxAge time.Duration) int {
	return s.registry.SweepPendingRematches(maxAge)
}
