package bot

import (
	"math/rand"

	"github.com/fourline/server/internal/domain"
)

// bestMoveEasy wins if it can, blocks if it must, and otherwise plays a
// random valid column.
func bestMoveEasy(board [][]domain.Color, botColor domain.Color) int {
	valid := domain.ValidMoves(board)
	if len(valid) == 0 {
		return -1
	}

	opponent := botColor.Opponent()

	for _, col := range valid {
		testBoard, row, _ := domain.SimulateMove(board, col, botColor)
		if domain.CheckWin(testBoard, row, col, botColor) {
			return col
		}
	}

	for _, col := range valid {
		testBoard, row, _ := domain.SimulateMove(board, col, opponent)
		if domain.CheckWin(testBoard, row, col, opponent) {
			return col
		}
	}

	return valid[rand.Intn(len(valid))]
}
