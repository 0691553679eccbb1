package game

import (
	"time"

	"github.com/fourline/server/internal/domain"
)

// Player is one occupied seat. ConnID is empty for bot seats.
type Player struct {
	ConnID     string
	Name       string
	Bot        bool
	Difficulty string
}

// Session is one Connect-Four game instance. It is owned exclusively by the
// Registry; every mutation happens under the registry lock.
type Session struct {
	ID           string
	Board        [][]domain.Color
	CurrentTurn  domain.Color
	Red          *Player
	Yellow       *Player
	Status       domain.Status
	Winner       domain.Winner
	WinningCells [][2]int
	CreatedAt    time.Time
	LastMoveAt   time.Time
	MoveCount    int
	SeriesID     string
	GameNumber   int
}

func (s *Session) seat(color domain.Color) *Player {
	if color == domain.ColorRed {
		return s.Red
	}
	return s.Yellow
}

func (s *Session) setSeat(color domain.Color, p *Player) {
	if color == domain.ColorRed {
		s.Red = p
	} else {
		s.Yellow = p
	}
}

// seatOf finds which seat a connection occupies. Bot seats never match.
func (s *Session) seatOf(connID string) (domain.Color, *Player) {
	if s.Red != nil && !s.Red.Bot && s.Red.ConnID == connID {
		return domain.ColorRed, s.Red
	}
	if s.Yellow != nil && !s.Yellow.Bot && s.Yellow.ConnID == connID {
		return domain.ColorYellow, s.Yellow
	}
	return domain.ColorNone, nil
}

func (s *Session) isOver() bool {
	return s.Winner != domain.WinnerNone
}

func (s *Session) players() []domain.PlayerView {
	views := []domain.PlayerView{}
	if s.Red != nil {
		views = append(views, domain.PlayerView{Name: s.Red.Name, Color: domain.ColorRed, Bot: s.Red.Bot})
	}
	if s.Yellow != nil {
		views = append(views, domain.PlayerView{Name: s.Yellow.Name, Color: domain.ColorYellow, Bot: s.Yellow.Bot})
	}
	return views
}

// view snapshots the session for a broadcast. The board is deep-copied so the
// snapshot can be marshalled after the registry lock is released.
func (s *Session) view() *domain.SessionView {
	return &domain.SessionView{
		ID:           s.ID,
		Board:        domain.CopyBoard(s.Board),
		CurrentTurn:  s.CurrentTurn,
		Status:       s.Status,
		Winner:       s.Winner,
		WinningCells: s.WinningCells,
		Players:      s.players(),
		MoveCount:    s.MoveCount,
		SeriesID:     s.SeriesID,
		GameNumber:   s.GameNumber,
	}
}
