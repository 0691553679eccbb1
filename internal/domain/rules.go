package domain

// axes are the four win directions, each given by its positive unit step.
// Order matters: WinningCells reports the run on the first matching axis.
var axes = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal \
	{1, -1}, // diagonal /
}

// CheckWin reports whether the disc just placed at (row, col) completes a run
// of ToWin or more. It only walks outward from the placed cell along the four
// axes; it never rescans the whole board.
func CheckWin(board [][]Color, row, col int, color Color) bool {
	for _, ax := range axes {
		run := 1 +
			CountInDirection(board, row, col, ax[0], ax[1], color) +
			CountInDirection(board, row, col, -ax[0], -ax[1], color)
		if run >= ToWin {
			return true
		}
	}
	return false
}

// WinningCells returns the four cells of the winning run through (row, col),
// or nil if there is none. For runs longer than ToWin the four cells closest
// to the negative-direction end are returned, so the result is deterministic.
func WinningCells(board [][]Color, row, col int, color Color) [][2]int {
	for _, ax := range axes {
		neg := CountInDirection(board, row, col, -ax[0], -ax[1], color)
		pos := CountInDirection(board, row, col, ax[0], ax[1], color)
		if 1+neg+pos < ToWin {
			continue
		}

		cells := make([][2]int, 0, ToWin)
		r, c := row-ax[0]*neg, col-ax[1]*neg
		for len(cells) < ToWin {
			cells = append(cells, [2]int{r, c})
			r += ax[0]
			c += ax[1]
		}
		return cells
	}
	return nil
}
