package game

import (
	"time"

	"github.com/fourline/server/internal/domain"
)

// PlayerStats is one participant's descriptor captured at series start.
type PlayerStats struct {
	ConnID string
	Name   string
	Wins   int
}

// Series is the cumulative scoreboard of a rematch chain. It is keyed by the
// first session id of the chain and survives every rematch.
type Series struct {
	ID          string
	Red         *PlayerStats
	Yellow      *PlayerStats
	GamesPlayed int
}

// recordWin credits a decisive result. Draws deliberately never reach this
// method, so a drawn game bumps neither counter; that asymmetry is inherited
// behavior and kept as is.
func (sr *Series) recordWin(color domain.Color) {
	if color == domain.ColorRed {
		sr.Red.Wins++
	} else {
		sr.Yellow.Wins++
	}
	sr.GamesPlayed++
}

func (sr *Series) view() *domain.SeriesView {
	return &domain.SeriesView{
		SeriesID:    sr.ID,
		GamesPlayed: sr.GamesPlayed,
		Players: []domain.SeriesPlayerView{
			{Name: sr.Red.Name, Wins: sr.Red.Wins},
			{Name: sr.Yellow.Name, Wins: sr.Yellow.Wins},
		},
	}
}

// PendingRematch is a time-boxed rematch offer scoped to one finished game.
type PendingRematch struct {
	SessionID     string
	RequesterConn string
	OpponentConn  string
	RequestedAt   time.Time
}
