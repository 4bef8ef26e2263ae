package move

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/connectfour/board"
)

func drain(s *Sorter) []board.Column {
	var cols []board.Column
	for {
		c, ok := s.Next()
		if !ok {
			return cols
		}
		cols = append(cols, c)
	}
}

func TestSorterByScore(t *testing.T) {
	is := is.New(t)
	var s Sorter
	s.Add(board.ColumnA, 1)
	s.Add(board.ColumnB, 5)
	s.Add(board.ColumnC, 3)
	is.Equal(s.Len(), 3)
	is.Equal(drain(&s), []board.Column{board.ColumnB, board.ColumnC, board.ColumnA})
	is.Equal(s.Len(), 0)
}

func TestSorterTiesFollowCenterOut(t *testing.T) {
	is := is.New(t)
	var s Sorter
	// insertion order must not matter
	for _, c := range []board.Column{board.ColumnG, board.ColumnA, board.ColumnE, board.ColumnD, board.ColumnC} {
		s.Add(c, 2)
	}
	s.Add(board.ColumnB, 4)
	is.Equal(s.Moves(), []ScoredMove{
		{board.ColumnB, 4}, {board.ColumnD, 2}, {board.ColumnC, 2},
		{board.ColumnE, 2}, {board.ColumnA, 2}, {board.ColumnG, 2},
	})
	is.Equal(drain(&s), []board.Column{
		board.ColumnB, board.ColumnD, board.ColumnC, board.ColumnE, board.ColumnA, board.ColumnG})
}

func TestSorterEmpty(t *testing.T) {
	is := is.New(t)
	var s Sorter
	_, ok := s.Next()
	is.True(!ok)
	is.Equal(len(s.Moves()), 0)
	s.Add(board.ColumnD, 0)
	s.Next()
	_, ok = s.Next()
	is.True(!ok)
}

func TestOrdered(t *testing.T) {
	is := is.New(t)
	b := board.MustBitBoard("4655")
	candidates, ok := b.PossibleNonLosingMoves()
	is.True(ok)
	s := Ordered(&b, candidates)
	is.Equal(s.Len(), candidates.Count())
	// B and C each create one threat; C is closer to the center
	c, _ := s.Next()
	is.Equal(c, board.ColumnC)
	c, _ = s.Next()
	is.Equal(c, board.ColumnB)
}
