package bot

import (
	"github.com/fourline/server/internal/domain"
)

const (
	// Score priorities (from highest to lowest)
	SCORE_WIN_NOW           = 100000 // bot can win immediately
	SCORE_BLOCK_WIN         = 10000  // block opponent's immediate win
	SCORE_CREATE_WIN_THREAT = 8000   // create a position where bot can win next move
	SCORE_BLOCK_WIN_THREAT  = 5000   // block opponent's potential win setup
	SCORE_THREE_IN_ROW      = 400
	SCORE_TWO_IN_ROW        = 100
	SCORE_CENTER            = 30
	SCORE_NEAR_CENTER       = 20
	SCORE_EDGE              = 5

	POSITION_WEIGHT     = 10
	TWO_IN_ROW_WEIGHT   = 50
	THREE_IN_ROW_WEIGHT = 500
)

var directions = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal \
	{1, -1}, // diagonal /
}

// evaluateBoard scores a whole position from the bot's point of view.
func evaluateBoard(board [][]domain.Color, botColor, opponent domain.Color) int {
	score := 0

	for row := 0; row < domain.Rows; row++ {
		for col := 0; col < domain.Columns; col++ {
			switch board[row][col] {
			case botColor:
				score += evaluatePosition(board, row, col, botColor)
			case opponent:
				score -= evaluatePosition(board, row, col, opponent)
			}
		}
	}

	// Center column preference
	centerCol := domain.Columns / 2
	for row := 0; row < domain.Rows; row++ {
		switch board[row][centerCol] {
		case botColor:
			score += POSITION_WEIGHT * 2
		case opponent:
			score -= POSITION_WEIGHT * 2
		}
	}

	return score
}

// evaluatePosition scores a single disc's contribution.
func evaluatePosition(board [][]domain.Color, row, col int, color domain.Color) int {
	score := POSITION_WEIGHT

	for _, dir := range directions {
		dRow, dCol := dir[0], dir[1]

		posCount := domain.CountInDirection(board, row, col, dRow, dCol, color)
		negCount := domain.CountInDirection(board, row, col, -dRow, -dCol, color)
		total := posCount + negCount

		if !hasSpaceToExtend(board, row, col, dRow, dCol, posCount, negCount) {
			continue
		}

		if total >= 3 {
			score += THREE_IN_ROW_WEIGHT
		} else if total == 2 {
			score += TWO_IN_ROW_WEIGHT
		}
	}

	return score
}

// evaluateThreats scores open runs through a just-simulated landing cell.
func evaluateThreats(board [][]domain.Color, row, col int, color domain.Color) int {
	score := 0

	for _, dir := range directions {
		dRow, dCol := dir[0], dir[1]

		posCount := domain.CountInDirection(board, row, col, dRow, dCol, color)
		negCount := domain.CountInDirection(board, row, col, -dRow, -dCol, color)
		total := posCount + negCount

		if !hasSpaceToExtend(board, row, col, dRow, dCol, posCount, negCount) {
			continue
		}

		if total >= 3 {
			score += SCORE_THREE_IN_ROW
		} else if total == 2 {
			score += SCORE_TWO_IN_ROW
		} else if total == 1 {
			score += 25
		}
	}

	return score
}

// evaluateWinningThreat scores how close a color is to an unstoppable win:
// two simultaneous winning columns cannot both be blocked.
func evaluateWinningThreat(board [][]domain.Color, color, opponent domain.Color) int {
	winningMoves := []int{}
	for _, col := range domain.ValidMoves(board) {
		testBoard, row, _ := domain.SimulateMove(board, col, color)
		if domain.CheckWin(testBoard, row, col, color) {
			winningMoves = append(winningMoves, col)
		}
	}

	if len(winningMoves) >= 2 {
		return SCORE_CREATE_WIN_THREAT
	}

	if len(winningMoves) == 1 {
		// Simulate the forced block, then see whether a fresh threat remains.
		blockBoard, _, _ := domain.SimulateMove(board, winningMoves[0], opponent)
		for _, nextCol := range domain.ValidMoves(blockBoard) {
			futureBoard, futureRow, _ := domain.SimulateMove(blockBoard, nextCol, color)
			if domain.CheckWin(futureBoard, futureRow, nextCol, color) {
				return SCORE_CREATE_WIN_THREAT / 2
			}
		}
		return SCORE_CREATE_WIN_THREAT / 4
	}

	return 0
}

// hasSpaceToExtend reports whether a run can still grow into a playable cell
// at either end.
func hasSpaceToExtend(board [][]domain.Color, row, col, dRow, dCol, posCount, negCount int) bool {
	posRow := row + dRow*(posCount+1)
	posCol := col + dCol*(posCount+1)
	if isInBounds(posRow, posCol) && board[posRow][posCol] == domain.ColorNone && isPlayable(board, posRow, posCol) {
		return true
	}

	negRow := row - dRow*(negCount+1)
	negCol := col - dCol*(negCount+1)
	if isInBounds(negRow, negCol) && board[negRow][negCol] == domain.ColorNone && isPlayable(board, negRow, negCol) {
		return true
	}

	return false
}

// isPlayable respects gravity: a cell is reachable only with support below.
func isPlayable(board [][]domain.Color, row, col int) bool {
	if row == domain.Rows-1 {
		return true
	}
	return board[row+1][col] != domain.ColorNone
}

func isInBounds(row, col int) bool {
	return row >= 0 && row < domain.Rows && col >= 0 && col < domain.Columns
}
