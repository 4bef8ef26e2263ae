package board

import (
	"errors"
	"fmt"
)

const (
	// Width is the number of columns on the board.
	Width = 7
	// Height is the number of playable rows in each column.
	Height = 6
	// NumCells is the total number of cells, and thus the maximum number of
	// moves in a game.
	NumCells = Width * Height
)

var (
	ErrInvalidNotation = errors.New("invalid notation")
	ErrColumnFull      = errors.New("column is full")
	ErrGameOver        = errors.New("move would end the game")
)

// Column is a column index. The leftmost column is 0.
type Column uint8

const (
	ColumnA Column = iota
	ColumnB
	ColumnC
	ColumnD
	ColumnE
	ColumnF
	ColumnG
)

func (c Column) String() string {
	if c >= Width {
		return "?"
	}
	return string(rune('A' + c))
}

// ParseColumn parses a single notation character. Columns may be given as
// a 1-indexed digit or as a letter in either case.
func ParseColumn(r rune) (Column, error) {
	switch {
	case r >= '1' && r < '1'+Width:
		return Column(r - '1'), nil
	case r >= 'A' && r < 'A'+Width:
		return Column(r - 'A'), nil
	case r >= 'a' && r < 'a'+Width:
		return Column(r - 'a'), nil
	}
	return 0, fmt.Errorf("%w: unrecognized column %q", ErrInvalidNotation, r)
}

// ColumnOrder is the order in which columns are explored when nothing else
// distinguishes them: the center column first, then alternating outward.
var ColumnOrder [Width]Column

// columnRank is the inverse of ColumnOrder.
var columnRank [Width]int

func init() {
	for i := 0; i < Width; i++ {
		// 0, -1, +1, -2, +2 ... relative to the center
		offset := (i + 1) / 2
		if i%2 == 1 {
			offset = -offset
		}
		c := Column(Width/2 + offset)
		ColumnOrder[i] = c
		columnRank[c] = i
	}
}

// Rank returns the position of c in ColumnOrder.
func Rank(c Column) int {
	return columnRank[c]
}

// Board is the capability shared by all board representations. Play is
// unchecked: callers must gate it with IsPlayable and IsWinning.
type Board interface {
	IsPlayable(c Column) bool
	IsWinning(c Column) bool
	Play(c Column) int
	NumMoves() int
	// Key returns a canonical key for the position. ok is false when the
	// representation has no key.
	Key() (key uint64, ok bool)
	LegalMoves() []Column
}

// MoveSet holds one flag per column.
type MoveSet [Width]bool

func (s MoveSet) Count() int {
	n := 0
	for _, ok := range s {
		if ok {
			n++
		}
	}
	return n
}

// Columns returns the columns in the set, left to right.
func (s MoveSet) Columns() []Column {
	cols := make([]Column, 0, Width)
	for c, ok := range s {
		if ok {
			cols = append(cols, Column(c))
		}
	}
	return cols
}

func (s MoveSet) Contains(c Column) bool {
	return s[c]
}

// replay plays the notation onto b, validating every move.
func replay(b Board, notation string) error {
	for i, r := range []rune(notation) {
		c, err := ParseColumn(r)
		if err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}
		if !b.IsPlayable(c) {
			return fmt.Errorf("move %d (%v): %w", i+1, c, ErrColumnFull)
		}
		if b.IsWinning(c) {
			return fmt.Errorf("move %d (%v): %w", i+1, c, ErrGameOver)
		}
		b.Play(c)
	}
	return nil
}

func legalMoves(b Board) []Column {
	moves := make([]Column, 0, Width)
	for _, c := range ColumnOrder {
		if b.IsPlayable(c) {
			moves = append(moves, c)
		}
	}
	return moves
}
