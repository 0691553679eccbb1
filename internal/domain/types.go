package domain

import "encoding/json"

// Color identifies a disc or a seat. ColorNone marks an empty cell.
type Color int

const (
	ColorNone   Color = 0
	ColorRed    Color = 1
	ColorYellow Color = 2
)

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

func (c Color) Opponent() Color {
	switch c {
	case ColorRed:
		return ColorYellow
	case ColorYellow:
		return ColorRed
	}
	return ColorNone
}

func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorYellow:
		return "yellow"
	}
	return ""
}

// Colors travel over the wire as "red"/"yellow" strings, empty cells as "".
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "red":
		*c = ColorRed
	case "yellow":
		*c = ColorYellow
	default:
		*c = ColorNone
	}
	return nil
}

// Status is the session lifecycle state. Transitions are monotone:
// waiting -> playing -> finished | abandoned.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusPlaying   Status = "playing"
	StatusFinished  Status = "finished"
	StatusAbandoned Status = "abandoned"
)

// Winner is set exactly when the session is finished or abandoned.
type Winner string

const (
	WinnerNone   Winner = ""
	WinnerRed    Winner = "red"
	WinnerYellow Winner = "yellow"
	WinnerDraw   Winner = "draw"
)

func WinnerFor(c Color) Winner {
	switch c {
	case ColorRed:
		return WinnerRed
	case ColorYellow:
		return WinnerYellow
	}
	return WinnerNone
}

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidColumn      Error = "column out of range"
	ErrColumnFull         Error = "column is full"
	ErrSessionNotFound    Error = "game not found"
	ErrGameFull           Error = "game is already full"
	ErrGameOver           Error = "game is already over"
	ErrWrongTurn          Error = "not your turn"
	ErrOpponentMissing    Error = "waiting for an opponent"
	ErrRematchNotEligible Error = "rematch not available"
	ErrRematchInvalid     Error = "no rematch to accept"
	ErrStatsMissing       Error = "series stats not found"
)
