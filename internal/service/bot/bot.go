package bot

import (
	"github.com/fourline/server/internal/domain"
)

var botNames = map[string]string{
	"easy":   "Alice",
	"medium": "Bob",
	"hard":   "Charles",
}

// Name returns the display name used for a bot seat of the given difficulty.
func Name(difficulty string) string {
	if name, ok := botNames[difficulty]; ok {
		return name
	}
	return "Bot"
}

// BestMove selects the bot's column based on difficulty. Returns -1 when the
// board has no playable column.
func BestMove(board [][]domain.Color, botColor domain.Color, difficulty string) int {
	switch difficulty {
	case "easy":
		return bestMoveEasy(board, botColor)
	case "hard":
		return bestMoveMinimax(board, botColor)
	default:
		return bestMoveMedium(board, botColor)
	}
}
