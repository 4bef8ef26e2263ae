package move

import (
	"fmt"

	"github.com/domino14/connectfour/board"
)

// ScoredMove is a candidate column and its ordering heuristic.
type ScoredMove struct {
	Column board.Column
	Score  int
}

func (m ScoredMove) String() string {
	return fmt.Sprintf("%v (%d)", m.Column, m.Score)
}

// before reports whether m should be searched before o: higher scores
// first, then the canonical center-out order.
func (m ScoredMove) before(o ScoredMove) bool {
	if m.Score != o.Score {
		return m.Score > o.Score
	}
	return board.Rank(m.Column) < board.Rank(o.Column)
}

// Sorter orders at most board.Width moves without allocating. Moves are
// kept by insertion; Next pops them best first.
type Sorter struct {
	size int
	// entries[size-1] is the next move to search
	entries [board.Width]ScoredMove
}

// Add inserts a move. Adding more than board.Width moves panics.
func (s *Sorter) Add(c board.Column, score int) {
	m := ScoredMove{Column: c, Score: score}
	pos := s.size
	for ; pos > 0 && s.entries[pos-1].before(m); pos-- {
		s.entries[pos] = s.entries[pos-1]
	}
	s.entries[pos] = m
	s.size++
}

// Next returns the best remaining move. ok is false once the sorter is
// empty.
func (s *Sorter) Next() (c board.Column, ok bool) {
	if s.size == 0 {
		return 0, false
	}
	s.size--
	return s.entries[s.size].Column, true
}

func (s *Sorter) Len() int {
	return s.size
}

// Moves returns the remaining moves best first without consuming them.
func (s *Sorter) Moves() []ScoredMove {
	moves := make([]ScoredMove, s.size)
	for i := 0; i < s.size; i++ {
		moves[i] = s.entries[s.size-1-i]
	}
	return moves
}

// Ordered scores every non-losing move of b and returns a loaded sorter.
// It must not be called when b has an immediate win.
func Ordered(b *board.BitBoard, candidates board.MoveSet) Sorter {
	var s Sorter
	for _, c := range board.ColumnOrder {
		if candidates[c] {
			s.Add(c, b.ScoreMove(c))
		}
	}
	return s
}
