package board

import "strings"

type cell uint8

const (
	empty cell = iota
	firstPlayer
	secondPlayer
)

// ArrayBoard stores every cell explicitly. It is slow and only meant as a
// reference to check BitBoard and the solvers against.
type ArrayBoard struct {
	cells   [Height][Width]cell
	heights [Width]int
	moves   int
}

// ArrayBoardFromNotation replays a move sequence onto an empty board.
func ArrayBoardFromNotation(notation string) (ArrayBoard, error) {
	b := ArrayBoard{}
	if err := replay(&b, notation); err != nil {
		return ArrayBoard{}, err
	}
	return b, nil
}

func (b *ArrayBoard) toMove() cell {
	if b.moves%2 == 0 {
		return firstPlayer
	}
	return secondPlayer
}

func (b *ArrayBoard) IsPlayable(c Column) bool {
	return b.heights[c] < Height
}

// IsWinning places the stone on a scratch copy and scans every line of
// four on the board.
func (b *ArrayBoard) IsWinning(c Column) bool {
	if !b.IsPlayable(c) {
		return false
	}
	p := b.toMove()
	scratch := b.cells
	scratch[b.heights[c]][c] = p
	return hasFour(&scratch, p)
}

func (b *ArrayBoard) Play(c Column) int {
	b.cells[b.heights[c]][c] = b.toMove()
	b.heights[c]++
	b.moves++
	return b.moves
}

func (b *ArrayBoard) NumMoves() int {
	return b.moves
}

func (b *ArrayBoard) Key() (uint64, bool) {
	return 0, false
}

func (b *ArrayBoard) LegalMoves() []Column {
	return legalMoves(b)
}

func (b ArrayBoard) String() string {
	var sb strings.Builder
	for row := Height - 1; row >= 0; row-- {
		for c := 0; c < Width; c++ {
			switch b.cells[row][c] {
			case firstPlayer:
				sb.WriteByte('X')
			case secondPlayer:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// directions: vertical, horizontal, diagonal /, diagonal \
var directions = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {-1, 1}}

func hasFour(cells *[Height][Width]cell, p cell) bool {
	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			for _, d := range directions {
				endRow, endCol := row+3*d[0], col+3*d[1]
				if endRow < 0 || endRow >= Height || endCol >= Width {
					continue
				}
				n := 0
				for k := 0; k < 4 && cells[row+k*d[0]][col+k*d[1]] == p; k++ {
					n++
				}
				if n == 4 {
					return true
				}
			}
		}
	}
	return false
}
