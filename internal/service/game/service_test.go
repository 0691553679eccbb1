package game

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourline/server/internal/domain"
)

// fakeBroadcaster records outbound traffic so tests can assert on it.
type fakeBroadcaster struct {
	mu      sync.Mutex
	direct  map[string][]domain.ServerMessage
	room    map[string][]domain.ServerMessage
	members map[string]map[string]bool
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{
		direct:  make(map[string][]domain.ServerMessage),
		room:    make(map[string][]domain.ServerMessage),
		members: make(map[string]map[string]bool),
	}
}

func (f *fakeBroadcaster) Send(connID string, msg domain.ServerMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.direct[connID] = append(f.direct[connID], msg)
}

func (f *fakeBroadcaster) SendToRoom(roomID string, msg domain.ServerMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.room[roomID] = append(f.room[roomID], msg)
}

func (f *fakeBroadcaster) JoinRoom(connID, roomID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.members[roomID] == nil {
		f.members[roomID] = make(map[string]bool)
	}
	f.members[roomID][connID] = true
}

func (f *fakeBroadcaster) LeaveRoom(connID, roomID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.members[roomID], connID)
}

func (f *fakeBroadcaster) DropRoom(roomID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.members, roomID)
}

func (f *fakeBroadcaster) inRoom(connID, roomID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.members[roomID][connID]
}

func (f *fakeBroadcaster) lastRoomMsg(roomID, msgType string) (domain.ServerMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.room[roomID]) - 1; i >= 0; i-- {
		if f.room[roomID][i].Type == msgType {
			return f.room[roomID][i], true
		}
	}
	return domain.ServerMessage{}, false
}

func (f *fakeBroadcaster) lastDirectMsg(connID, msgType string) (domain.ServerMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.direct[connID]) - 1; i >= 0; i-- {
		if f.direct[connID][i].Type == msgType {
			return f.direct[connID][i], true
		}
	}
	return domain.ServerMessage{}, false
}

const (
	redConn    = "conn-red"
	yellowConn = "conn-yellow"
)

func newTestService(t *testing.T) (*Service, *Registry, *fakeBroadcaster) {
	t.Helper()
	r := NewRegistry()
	b := newFakeBroadcaster()
	s := NewService(r, b, Timings{
		BroadcastDelay: 5 * time.Millisecond,
		BotDelay:       5 * time.Millisecond,
		TeardownGrace:  30 * time.Millisecond,
	})
	return s, r, b
}

// startGame creates a two-player session and returns its id.
func startGame(t *testing.T, s *Service) string {
	t.Helper()
	s.SetPlayerName(redConn, "Ruby")
	s.SetPlayerName(yellowConn, "Yolanda")
	id := s.CreateGame(redConn, false, "")
	require.NoError(t, s.JoinGame(id, yellowConn))
	return id
}

// playMoves feeds columns through ApplyMove with strictly alternating colors,
// red first.
func playMoves(t *testing.T, s *Service, id string, columns ...int) {
	t.Helper()
	color := domain.ColorRed
	for i, col := range columns {
		require.NoError(t, s.ApplyMove(id, "", color, col), "move %d column %d", i, col)
		color = color.Opponent()
	}
}

func TestCreateGame(t *testing.T) {
	s, r, b := newTestService(t)
	s.SetPlayerName(redConn, "Ruby")

	id := s.CreateGame(redConn, false, "")

	sess, ok := r.GetSession(id)
	require.True(t, ok)
	assert.Equal(t, domain.StatusWaiting, sess.Status)
	assert.Equal(t, domain.ColorRed, sess.CurrentTurn)
	assert.Equal(t, id, sess.SeriesID)
	assert.Equal(t, 1, sess.GameNumber)
	assert.Equal(t, "Ruby", sess.Red.Name)
	assert.Nil(t, sess.Yellow)
	assert.True(t, b.inRoom(redConn, id))

	created, ok := b.lastRoomMsg(id, "gameCreated")
	require.True(t, ok)
	assert.Equal(t, domain.ColorRed, created.Color)
	assert.Equal(t, "Ruby", created.PlayerName)
	assert.Equal(t, 1, created.GameNumber)
}

func TestJoinGame(t *testing.T) {
	s, r, b := newTestService(t)
	id := startGame(t, s)

	sess, _ := r.GetSession(id)
	assert.Equal(t, domain.StatusPlaying, sess.Status)
	assert.Equal(t, "Yolanda", sess.Yellow.Name)
	assert.True(t, b.inRoom(yellowConn, id))

	// Series stats initialize when the second seat fills.
	sr, ok := r.GetSeries(id)
	require.True(t, ok)
	assert.Equal(t, 0, sr.GamesPlayed)
	assert.Equal(t, "Ruby", sr.Red.Name)
	assert.Equal(t, "Yolanda", sr.Yellow.Name)

	joined, ok := b.lastDirectMsg(yellowConn, "gameJoined")
	require.True(t, ok)
	assert.Equal(t, domain.ColorYellow, joined.Color)

	roster, ok := b.lastRoomMsg(id, "playerJoined")
	require.True(t, ok)
	assert.Len(t, roster.Players, 2)
}

func TestJoinGameErrors(t *testing.T) {
	s, _, _ := newTestService(t)
	id := startGame(t, s)

	assert.ErrorIs(t, s.JoinGame("missing0", "conn-x"), domain.ErrSessionNotFound)
	assert.ErrorIs(t, s.JoinGame(id, "conn-x"), domain.ErrGameFull)
}

func TestJoinAfterCreatorLeft(t *testing.T) {
	s, r, _ := newTestService(t)
	s.SetPlayerName(redConn, "Ruby")
	id := s.CreateGame(redConn, false, "")

	// The abandoned session stays registered through the grace window but
	// must not seat a joiner.
	s.LeaveGame(id, redConn)
	_, ok := r.GetSession(id)
	require.True(t, ok)

	assert.ErrorIs(t, s.JoinGame(id, yellowConn), domain.ErrSessionNotFound)

	sess, _ := r.GetSession(id)
	assert.Nil(t, sess.Yellow)
	assert.Equal(t, domain.StatusAbandoned, sess.Status)
}

func TestJoinAfterCreatorDisconnected(t *testing.T) {
	s, _, _ := newTestService(t)
	id := s.CreateGame(redConn, false, "")

	s.HandleDisconnect(redConn)

	assert.ErrorIs(t, s.JoinGame(id, yellowConn), domain.ErrSessionNotFound)

	// The registry lock was released on rejection; other events still work.
	assert.NotEmpty(t, s.CreateGame(yellowConn, false, ""))
}

func TestTurnAlternation(t *testing.T) {
	s, r, _ := newTestService(t)
	id := startGame(t, s)

	require.NoError(t, s.ApplyMove(id, redConn, domain.ColorRed, 3))
	sess, _ := r.GetSession(id)
	assert.Equal(t, domain.ColorYellow, sess.CurrentTurn)
	assert.Equal(t, 1, sess.MoveCount)

	require.NoError(t, s.ApplyMove(id, yellowConn, domain.ColorYellow, 3))
	assert.Equal(t, domain.ColorRed, sess.CurrentTurn)
	assert.Equal(t, 2, sess.MoveCount)
}

func TestMoveCountMatchesBoardCells(t *testing.T) {
	s, r, _ := newTestService(t)
	id := startGame(t, s)
	playMoves(t, s, id, 0, 1, 2, 3, 0, 1)

	sess, _ := r.GetSession(id)
	occupied := 0
	for _, row := range sess.Board {
		for _, cell := range row {
			if cell != domain.ColorNone {
				occupied++
			}
		}
	}
	assert.Equal(t, sess.MoveCount, occupied)
	assert.Equal(t, 6, occupied)
}

// Scenario: red plays columns 0..3 while yellow dumps discs into column 6;
// red's fourth move completes a horizontal run on the bottom row.
func TestHorizontalWin(t *testing.T) {
	s, r, b := newTestService(t)
	id := startGame(t, s)
	playMoves(t, s, id, 0, 6, 1, 6, 2, 6, 3)

	sess, _ := r.GetSession(id)
	assert.Equal(t, domain.StatusFinished, sess.Status)
	assert.Equal(t, domain.WinnerRed, sess.Winner)
	assert.Equal(t, [][2]int{{5, 0}, {5, 1}, {5, 2}, {5, 3}}, sess.WinningCells)

	// Decisive wins feed the series scoreboard.
	sr, _ := r.GetSeries(id)
	assert.Equal(t, 1, sr.Red.Wins)
	assert.Equal(t, 0, sr.Yellow.Wins)
	assert.Equal(t, 1, sr.GamesPlayed)

	// No further moves are accepted.
	assert.ErrorIs(t, s.ApplyMove(id, yellowConn, domain.ColorYellow, 5), domain.ErrGameOver)

	// Authoritative state follows the animation after the delay.
	_, ok := b.lastRoomMsg(id, "moveAnimation")
	assert.True(t, ok)
	time.Sleep(20 * time.Millisecond)
	update, ok := b.lastRoomMsg(id, "gameUpdate")
	require.True(t, ok)
	assert.Equal(t, domain.WinnerRed, update.Session.Winner)
	_, ok = b.lastRoomMsg(id, "statsUpdate")
	assert.True(t, ok)
}

// drawColor tiles the board in vertical two-runs offset per column, so no
// line of any direction ever reaches three in a row.
func drawColor(row, col int) domain.Color {
	if (col+row/2)%2 == 0 {
		return domain.ColorRed
	}
	return domain.ColorYellow
}

func TestDraw(t *testing.T) {
	s, r, _ := newTestService(t)
	id := startGame(t, s)

	// Pre-fill all but the top cell of the last column and let ApplyMove
	// place the final disc.
	r.mu.Lock()
	sess := r.sessions[id]
	for row := 0; row < domain.Rows; row++ {
		for col := 0; col < domain.Columns; col++ {
			sess.Board[row][col] = drawColor(row, col)
		}
	}
	sess.Board[0][domain.Columns-1] = domain.ColorNone
	sess.MoveCount = domain.Rows*domain.Columns - 1
	sess.CurrentTurn = drawColor(0, domain.Columns-1)
	r.mu.Unlock()

	require.NoError(t, s.ApplyMove(id, redConn, sess.CurrentTurn, domain.Columns-1))

	sess, _ = r.GetSession(id)
	assert.Equal(t, 42, sess.MoveCount)
	assert.Equal(t, domain.StatusFinished, sess.Status)
	assert.Equal(t, domain.WinnerDraw, sess.Winner)
	assert.Empty(t, sess.WinningCells)

	// Draws bump neither win counters nor GamesPlayed; inherited behavior.
	sr, _ := r.GetSeries(id)
	assert.Equal(t, 0, sr.Red.Wins)
	assert.Equal(t, 0, sr.Yellow.Wins)
	assert.Equal(t, 0, sr.GamesPlayed)
}

func TestWrongTurnRejected(t *testing.T) {
	s, r, _ := newTestService(t)
	id := startGame(t, s)

	err := s.ApplyMove(id, yellowConn, domain.ColorYellow, 3)
	assert.ErrorIs(t, err, domain.ErrWrongTurn)

	// Rejection leaves the session untouched.
	sess, _ := r.GetSession(id)
	assert.Equal(t, 0, sess.MoveCount)
	assert.Equal(t, domain.ColorRed, sess.CurrentTurn)
	assert.Equal(t, domain.NewBoard(), sess.Board)
}

func TestMoveValidationOrder(t *testing.T) {
	s, _, _ := newTestService(t)
	s.SetPlayerName(redConn, "Ruby")
	waiting := s.CreateGame(redConn, false, "")

	assert.ErrorIs(t, s.ApplyMove("missing0", redConn, domain.ColorRed, 0), domain.ErrSessionNotFound)
	assert.ErrorIs(t, s.ApplyMove(waiting, redConn, domain.ColorRed, 0), domain.ErrOpponentMissing)

	id := startGame(t, s)
	assert.ErrorIs(t, s.ApplyMove(id, redConn, domain.ColorRed, 9), domain.ErrInvalidColumn)

	playMoves(t, s, id, 0, 0, 0, 0, 0, 0)
	assert.ErrorIs(t, s.ApplyMove(id, redConn, domain.ColorRed, 0), domain.ErrColumnFull)
}

func TestDelayedStateBroadcast(t *testing.T) {
	s, _, b := newTestService(t)
	id := startGame(t, s)

	require.NoError(t, s.ApplyMove(id, redConn, domain.ColorRed, 2))

	anim, ok := b.lastRoomMsg(id, "moveAnimation")
	require.True(t, ok)
	require.NotNil(t, anim.Move)
	assert.Equal(t, 5, anim.Move.Row)
	assert.Equal(t, 2, anim.Move.Col)
	assert.Equal(t, domain.ColorRed, anim.Move.Color)

	time.Sleep(20 * time.Millisecond)
	update, ok := b.lastRoomMsg(id, "gameUpdate")
	require.True(t, ok)
	assert.Equal(t, 1, update.Session.MoveCount)
	assert.Equal(t, domain.ColorYellow, update.Session.CurrentTurn)
}

// Scenario: a mid-game disconnect abandons the session to the remaining
// player and tears it down after the grace delay.
func TestDisconnectAbandonsSession(t *testing.T) {
	s, r, b := newTestService(t)
	id := startGame(t, s)
	playMoves(t, s, id, 3, 4)

	s.HandleDisconnect(yellowConn)

	sess, ok := r.GetSession(id)
	require.True(t, ok, "session stays through the grace delay")
	assert.Equal(t, domain.StatusAbandoned, sess.Status)
	assert.Equal(t, domain.WinnerRed, sess.Winner)
	assert.Nil(t, sess.Yellow)

	left, ok := b.lastDirectMsg(redConn, "opponentLeft")
	require.True(t, ok)
	assert.Equal(t, "Yolanda", left.OpponentName)
	assert.True(t, left.AutoReturn)
	assert.Contains(t, left.Message, "disconnected")

	time.Sleep(60 * time.Millisecond)
	_, ok = r.GetSession(id)
	assert.False(t, ok, "session removed after the grace delay")
}

func TestLeaveGameNotifiesOpponent(t *testing.T) {
	s, r, b := newTestService(t)
	id := startGame(t, s)

	s.LeaveGame(id, redConn)

	sess, _ := r.GetSession(id)
	assert.Equal(t, domain.StatusAbandoned, sess.Status)
	assert.Equal(t, domain.WinnerYellow, sess.Winner)

	left, ok := b.lastDirectMsg(yellowConn, "opponentLeft")
	require.True(t, ok)
	assert.Contains(t, left.Message, "left the game")
	assert.False(t, b.inRoom(redConn, id))
}

func TestLeaveAfterFinishKeepsResult(t *testing.T) {
	s, r, _ := newTestService(t)
	id := startGame(t, s)
	playMoves(t, s, id, 0, 6, 1, 6, 2, 6, 3) // red wins

	s.LeaveGame(id, yellowConn)

	// Finished is terminal; the loser leaving must not rewrite the result.
	sess, _ := r.GetSession(id)
	assert.Equal(t, domain.StatusFinished, sess.Status)
	assert.Equal(t, domain.WinnerRed, sess.Winner)
}

func TestSetPlayerName(t *testing.T) {
	s, _, b := newTestService(t)

	assert.Equal(t, "Ruby", s.SetPlayerName(redConn, "  Ruby  "))
	assert.Equal(t, "abcdefghijklmno", s.SetPlayerName(redConn, "abcdefghijklmnopqrstuv"))
	assert.Equal(t, "Player-conn-", s.SetPlayerName(redConn, "   "))

	msg, ok := b.lastDirectMsg(redConn, "nameSet")
	require.True(t, ok)
	assert.True(t, msg.Success)
	assert.Equal(t, "Player-conn-", msg.Name)
}

func TestStaleSessionSweep(t *testing.T) {
	s, r, _ := newTestService(t)
	id := startGame(t, s)

	// Age-based sweep removes even active games; that is intentional.
	assert.Equal(t, 0, s.SweepStaleSessions(time.Hour))
	assert.Equal(t, 1, s.SweepStaleSessions(0))

	_, ok := r.GetSession(id)
	assert.False(t, ok)
}

func TestVsBotGame(t *testing.T) {
	s, r, _ := newTestService(t)
	s.SetPlayerName(redConn, "Ruby")

	id := s.CreateGame(redConn, true, "easy")

	sess, ok := r.GetSession(id)
	require.True(t, ok)
	assert.Equal(t, domain.StatusPlaying, sess.Status)
	require.NotNil(t, sess.Yellow)
	assert.True(t, sess.Yellow.Bot)
	assert.Equal(t, "Alice", sess.Yellow.Name)

	// Stats exist right away for bot games.
	_, ok = r.GetSeries(id)
	assert.True(t, ok)

	require.NoError(t, s.ApplyMove(id, redConn, domain.ColorRed, 3))

	// The bot answers after its delay and hands the turn back.
	assert.Eventually(t, func() bool {
		sess, ok := r.GetSession(id)
		return ok && sess.MoveCount == 2 && sess.CurrentTurn == domain.ColorRed
	}, time.Second, 5*time.Millisecond)
}
