package domain

func NewBoard() [][]Color {
	board := make([][]Color, Rows)
	for i := range board {
		board[i] = make([]Color, Columns)
	}
	return board
}

// DropResolve finds the row a disc dropped into column would land in.
// Row 0 is the top of the board, row Rows-1 the bottom.
func DropResolve(board [][]Color, column int) (int, error) {
	if column < 0 || column >= Columns {
		return -1, ErrInvalidColumn
	}

	for row := Rows - 1; row >= 0; row-- {
		if board[row][column] == ColorNone {
			return row, nil
		}
	}

	return -1, ErrColumnFull
}

// IsFull inspects the top row only. With gravity-fill a column can only be
// full once its top cell is occupied, so this is equivalent to 42 moves.
func IsFull(board [][]Color) bool {
	for c := 0; c < Columns; c++ {
		if board[0][c] == ColorNone {
			return false
		}
	}

	return true
}

// this creates a deep copy of the board
func CopyBoard(board [][]Color) [][]Color {
	newBoard := make([][]Color, len(board))
	for i := range board {
		newBoard[i] = make([]Color, len(board[i]))
		copy(newBoard[i], board[i])
	}
	return newBoard
}

// ValidMoves lists the columns that still accept a disc.
func ValidMoves(board [][]Color) []int {
	moves := []int{}
	for col := 0; col < Columns; col++ {
		if board[0][col] == ColorNone {
			moves = append(moves, col)
		}
	}
	return moves
}

// SimulateMove plays a move on a copy of the board and returns the copy
// together with the landing row. Used by the bot search, never by live games.
func SimulateMove(board [][]Color, column int, color Color) ([][]Color, int, error) {
	row, err := DropResolve(board, column)
	if err != nil {
		return nil, -1, err
	}
	newBoard := CopyBoard(board)
	newBoard[row][column] = color
	return newBoard, row, nil
}

// CountInDirection counts consecutive same-color discs starting one step away
// from (row, col) and walking along (deltaRow, deltaCol).
func CountInDirection(board [][]Color, row, col, deltaRow, deltaCol int, color Color) int {
	count := 0
	r, c := row+deltaRow, col+deltaCol
	for r >= 0 && r < Rows && c >= 0 && c < Columns && board[r][c] == color {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}
