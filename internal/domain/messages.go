package domain

// ClientMessage is the single inbound envelope read off a websocket.
type ClientMessage struct {
	Type       string `json:"type"`
	Name       string `json:"name,omitempty"`
	SessionID  string `json:"sessionId,omitempty"`
	Column     int    `json:"column"`
	Color      Color  `json:"color,omitempty"`
	VsBot      bool   `json:"vsBot,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// ServerMessage is the single outbound envelope. Type selects which of the
// optional fields are populated.
type ServerMessage struct {
	Type         string       `json:"type"`
	Message      string       `json:"message,omitempty"`
	Success      bool         `json:"success,omitempty"`
	Name         string       `json:"name,omitempty"`
	SessionID    string       `json:"sessionId,omitempty"`
	NewSessionID string       `json:"newSessionId,omitempty"`
	SeriesID     string       `json:"seriesId,omitempty"`
	GameNumber   int          `json:"gameNumber,omitempty"`
	Color        Color        `json:"color,omitempty"`
	PlayerName   string       `json:"playerName,omitempty"`
	OpponentName string       `json:"opponentName,omitempty"`
	FromPlayer   string       `json:"fromPlayer,omitempty"`
	ToPlayer     string       `json:"toPlayer,omitempty"`
	ByPlayer     string       `json:"byPlayer,omitempty"`
	AutoReturn   bool         `json:"autoReturn,omitempty"`
	Players      []PlayerView `json:"players,omitempty"`
	Session      *SessionView `json:"session,omitempty"`
	Series       *SeriesView  `json:"series,omitempty"`
	Move         *MoveView    `json:"move,omitempty"`
}

// PlayerView is one seat as shown to clients.
type PlayerView struct {
	Name  string `json:"name"`
	Color Color  `json:"color"`
	Bot   bool   `json:"bot,omitempty"`
}

// SessionView is the authoritative full-session snapshot broadcast as
// gameUpdate. The board it carries is a copy, never live registry state.
type SessionView struct {
	ID           string       `json:"id"`
	Board        [][]Color    `json:"board"`
	CurrentTurn  Color        `json:"currentTurn"`
	Status       Status       `json:"status"`
	Winner       Winner       `json:"winner,omitempty"`
	WinningCells [][2]int     `json:"winningCells,omitempty"`
	Players      []PlayerView `json:"players"`
	MoveCount    int          `json:"moveCount"`
	SeriesID     string       `json:"seriesId"`
	GameNumber   int          `json:"gameNumber"`
}

// SeriesView is the cumulative best-of-series scoreboard.
type SeriesView struct {
	SeriesID    string             `json:"seriesId"`
	GamesPlayed int                `json:"gamesPlayed"`
	Players     []SeriesPlayerView `json:"players"`
}

type SeriesPlayerView struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// MoveView is the lightweight placement-animation payload sent ahead of the
// delayed gameUpdate.
type MoveView struct {
	Row   int   `json:"row"`
	Col   int   `json:"col"`
	Color Color `json:"color"`
}
