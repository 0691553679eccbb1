package bot

import (
	"github.com/fourline/server/internal/domain"
)

type simulated struct {
	board [][]domain.Color
	row   int
}

// bestMoveMedium scores each column with a layered heuristic: immediate
// wins, forced blocks, threat creation, threat denial, then position.
func bestMoveMedium(board [][]domain.Color, botColor domain.Color) int {
	valid := domain.ValidMoves(board)
	if len(valid) == 0 {
		return -1
	}

	opponent := botColor.Opponent()
	scores := make(map[int]int, len(valid))

	// Simulate each column once for both sides up front.
	botSims := make(map[int]simulated, len(valid))
	oppSims := make(map[int]simulated, len(valid))
	for _, col := range valid {
		scores[col] = 0
		botBoard, botRow, _ := domain.SimulateMove(board, col, botColor)
		botSims[col] = simulated{botBoard, botRow}
		oppBoard, oppRow, _ := domain.SimulateMove(board, col, opponent)
		oppSims[col] = simulated{oppBoard, oppRow}
	}

	currentOppThreat := evaluateWinningThreat(board, opponent, botColor)

	for _, col := range valid {
		botSim := botSims[col]
		oppSim := oppSims[col]

		// Immediate win
		if domain.CheckWin(botSim.board, botSim.row, col, botColor) {
			scores[col] += SCORE_WIN_NOW
		}

		// Block opponent's immediate win
		if domain.CheckWin(oppSim.board, oppSim.row, col, opponent) {
			scores[col] += SCORE_BLOCK_WIN
		}

		// Create winning threats
		scores[col] += evaluateWinningThreat(botSim.board, botColor, opponent)

		// Deny opponent's winning threats
		if evaluateWinningThreat(botSim.board, opponent, botColor) < currentOppThreat {
			scores[col] += SCORE_BLOCK_WIN_THREAT
		}

		// Open-run strength for both sides; blocking is worth half of building
		scores[col] += evaluateThreats(botSim.board, botSim.row, col, botColor)
		scores[col] += evaluateThreats(oppSim.board, oppSim.row, col, opponent) / 2

		// Positional bonus: prefer the middle of the board
		switch dist := abs(col - domain.Columns/2); dist {
		case 0:
			scores[col] += SCORE_CENTER
		case 1:
			scores[col] += SCORE_NEAR_CENTER
		case 2:
			scores[col] += SCORE_EDGE
		}
	}

	return bestColumn(scores)
}

// bestColumn picks the highest score, breaking ties toward the center.
func bestColumn(scores map[int]int) int {
	maxScore := -1 << 31
	best := domain.Columns / 2

	for col := 0; col < domain.Columns; col++ {
		score, ok := scores[col]
		if !ok {
			continue
		}
		if score > maxScore {
			maxScore = score
			best = col
		} else if score == maxScore && abs(col-domain.Columns/2) < abs(best-domain.Columns/2) {
			best = col
		}
	}

	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
