package board

import (
	"math/bits"
	"strings"
)

// Bit layout. Each column owns Height+1 consecutive bits, bottom row first;
// the extra bit on top of every column is never set and keeps carries and
// shifts from leaking into the next column.
//
//	 6 13 20 27 34 41 48
//	 5 12 19 26 33 40 47
//	 4 11 18 25 32 39 46
//	 3 10 17 24 31 38 45
//	 2  9 16 23 30 37 44
//	 1  8 15 22 29 36 43
//	 0  7 14 21 28 35 42
const laneWidth = Height + 1

var (
	bottomMask = func() uint64 {
		var m uint64
		for c := 0; c < Width; c++ {
			m |= 1 << (c * laneWidth)
		}
		return m
	}()
	boardMask = bottomMask * ((1 << Height) - 1)
)

func bottomCell(c Column) uint64 {
	return 1 << (int(c) * laneWidth)
}

func topCell(c Column) uint64 {
	return 1 << (Height - 1 + int(c)*laneWidth)
}

func columnMask(c Column) uint64 {
	return ((1 << Height) - 1) << (int(c) * laneWidth)
}

// BitBoard is a position packed into two bitmasks: the stones of the
// player to move and all occupied cells. It is a small value; copy it to
// explore a move without touching the parent.
type BitBoard struct {
	current uint64
	mask    uint64
	moves   int
}

// NewBitBoard returns an empty board.
func NewBitBoard() BitBoard {
	return BitBoard{}
}

// BitBoardFromNotation replays a move sequence onto an empty board.
func BitBoardFromNotation(notation string) (BitBoard, error) {
	b := BitBoard{}
	if err := replay(&b, notation); err != nil {
		return BitBoard{}, err
	}
	return b, nil
}

// MustBitBoard is like BitBoardFromNotation but panics on bad notation.
func MustBitBoard(notation string) BitBoard {
	b, err := BitBoardFromNotation(notation)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *BitBoard) IsPlayable(c Column) bool {
	return b.mask&topCell(c) == 0
}

func (b *BitBoard) IsWinning(c Column) bool {
	if !b.IsPlayable(c) {
		return false
	}
	return hasAlignment(b.current | b.moveCell(c))
}

// Play drops a stone for the player to move into column c. It does not
// check that the column has room or that the game is still going.
func (b *BitBoard) Play(c Column) int {
	b.current ^= b.mask
	b.mask |= b.mask + bottomCell(c)
	b.moves++
	return b.moves
}

func (b *BitBoard) NumMoves() int {
	return b.moves
}

// Key is unique among positions reachable by legal play.
func (b *BitBoard) Key() (uint64, bool) {
	return b.current + b.mask, true
}

func (b *BitBoard) LegalMoves() []Column {
	return legalMoves(b)
}

// CanWinNext reports whether the player to move has an immediately
// winning move.
func (b *BitBoard) CanWinNext() bool {
	return winningCells(b.current, b.mask)&b.possible() != 0
}

// PossibleNonLosingMoves returns the moves that do not hand the opponent
// an immediate win. ok is false when every move loses. It must not be
// called when the player to move can win immediately.
func (b *BitBoard) PossibleNonLosingMoves() (MoveSet, bool) {
	if b.CanWinNext() {
		panic("board: PossibleNonLosingMoves called with a winning move available")
	}
	cells := b.nonLosingCells()
	var set MoveSet
	for c := Column(0); c < Width; c++ {
		set[c] = cells&columnMask(c) != 0
	}
	return set, cells != 0
}

func (b *BitBoard) nonLosingCells() uint64 {
	possible := b.possible()
	opponentWins := winningCells(b.current^b.mask, b.mask)
	forced := possible & opponentWins
	if forced != 0 {
		if forced&(forced-1) != 0 {
			// two threats at once cannot both be blocked
			return 0
		}
		possible = forced
	}
	// never play directly under an opponent's winning cell
	return possible &^ (opponentWins >> 1)
}

// ScoreMove counts the winning cells the player to move would own after
// playing c. It only guides move ordering.
func (b *BitBoard) ScoreMove(c Column) int {
	return bits.OnesCount64(winningCells(b.current|b.moveCell(c), b.mask))
}

// moveCell is the cell a stone dropped in c would occupy, or 0 if c is full.
func (b *BitBoard) moveCell(c Column) uint64 {
	return (b.mask + bottomCell(c)) & columnMask(c)
}

// possible returns the cells that can be played right now.
func (b *BitBoard) possible() uint64 {
	return (b.mask + bottomMask) & boardMask
}

// String renders the board top row first. X is the first player.
func (b BitBoard) String() string {
	first := b.current
	if b.moves%2 == 1 {
		first = b.current ^ b.mask
	}
	var sb strings.Builder
	for row := Height - 1; row >= 0; row-- {
		for c := 0; c < Width; c++ {
			cell := uint64(1) << (row + c*laneWidth)
			switch {
			case first&cell != 0:
				sb.WriteByte('X')
			case b.mask&cell != 0:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// winningCells returns every empty cell that would complete four in a row
// for the owner of pos, including cells that are not yet reachable.
func winningCells(pos, mask uint64) uint64 {
	// vertical
	r := (pos << 1) & (pos << 2) & (pos << 3)

	// horizontal
	p := (pos << laneWidth) & (pos << (2 * laneWidth))
	r |= p & (pos << (3 * laneWidth))
	r |= p & (pos >> laneWidth)
	p = (pos >> laneWidth) & (pos >> (2 * laneWidth))
	r |= p & (pos << laneWidth)
	r |= p & (pos >> (3 * laneWidth))

	// diagonal 1
	p = (pos << (laneWidth - 1)) & (pos << (2 * (laneWidth - 1)))
	r |= p & (pos << (3 * (laneWidth - 1)))
	r |= p & (pos >> (laneWidth - 1))
	p = (pos >> (laneWidth - 1)) & (pos >> (2 * (laneWidth - 1)))
	r |= p & (pos << (laneWidth - 1))
	r |= p & (pos >> (3 * (laneWidth - 1)))

	// diagonal 2
	p = (pos << (laneWidth + 1)) & (pos << (2 * (laneWidth + 1)))
	r |= p & (pos << (3 * (laneWidth + 1)))
	r |= p & (pos >> (laneWidth + 1))
	p = (pos >> (laneWidth + 1)) & (pos >> (2 * (laneWidth + 1)))
	r |= p & (pos << (laneWidth + 1))
	r |= p & (pos >> (3 * (laneWidth + 1)))

	return r & (boardMask ^ mask)
}

// hasAlignment reports whether pos contains four in a row.
func hasAlignment(pos uint64) bool {
	// vertical
	m := pos & (pos >> 1)
	if m&(m>>2) != 0 {
		return true
	}
	// horizontal
	m = pos & (pos >> laneWidth)
	if m&(m>>(2*laneWidth)) != 0 {
		return true
	}
	// diagonal \
	m = pos & (pos >> Height)
	if m&(m>>(2*Height)) != 0 {
		return true
	}
	// diagonal /
	m = pos & (pos >> (Height + 2))
	return m&(m>>(2*(Height+2))) != 0
}
