package bot

import (
	"math"

	"github.com/fourline/server/internal/domain"
)

const (
	MINIMAX_DEPTH = 7
	MINIMAX_WIN   = 1000000
	MINIMAX_LOSS  = -1000000
)

// bestMoveMinimax implements hard difficulty with alpha-beta pruned minimax.
func bestMoveMinimax(board [][]domain.Color, botColor domain.Color) int {
	valid := domain.ValidMoves(board)
	if len(valid) == 0 {
		return -1
	}

	bestCol := valid[0]
	bestScore := math.MinInt32
	alpha := math.MinInt32
	beta := math.MaxInt32

	opponent := botColor.Opponent()

	for _, col := range valid {
		testBoard, row, _ := domain.SimulateMove(board, col, botColor)

		if domain.CheckWin(testBoard, row, col, botColor) {
			return col
		}

		score := minimax(testBoard, MINIMAX_DEPTH-1, alpha, beta, false, botColor, opponent)
		if score > bestScore {
			bestScore = score
			bestCol = col
		}
		alpha = max(alpha, bestScore)
	}

	return bestCol
}

func minimax(board [][]domain.Color, depth, alpha, beta int, maximizing bool, botColor, opponent domain.Color) int {
	valid := domain.ValidMoves(board)
	if depth == 0 || len(valid) == 0 {
		return evaluateBoard(board, botColor, opponent)
	}

	if maximizing {
		maxEval := math.MinInt32
		for _, col := range valid {
			testBoard, row, _ := domain.SimulateMove(board, col, botColor)
			if domain.CheckWin(testBoard, row, col, botColor) {
				return MINIMAX_WIN - (MINIMAX_DEPTH - depth) // prefer quicker wins
			}

			eval := minimax(testBoard, depth-1, alpha, beta, false, botColor, opponent)
			maxEval = max(maxEval, eval)
			alpha = max(alpha, eval)
			if beta <= alpha {
				break
			}
		}
		return maxEval
	}

	minEval := math.MaxInt32
	for _, col := range valid {
		testBoard, row, _ := domain.SimulateMove(board, col, opponent)
		if domain.CheckWin(testBoard, row, col, opponent) {
			return MINIMAX_LOSS + (MINIMAX_DEPTH - depth) // prefer delaying losses
		}

		eval := minimax(testBoard, depth-1, alpha, beta, true, botColor, opponent)
		minEval = min(minEval, eval)
		beta = min(beta, eval)
		if beta <= alpha {
			break
		}
	}
	return minEval
}
