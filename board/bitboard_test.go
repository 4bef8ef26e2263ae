package board

import (
	"testing"

	"github.com/matryer/is"
)

func winningColumns(b Board) []Column {
	var cols []Column
	for c := Column(0); c < Width; c++ {
		if b.IsWinning(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

func TestIsPlayable(t *testing.T) {
	is := is.New(t)
	b := NewBitBoard()
	for c := Column(0); c < Width; c++ {
		is.True(b.IsPlayable(c))
	}
	for i := 0; i < Height; i++ {
		b.Play(ColumnA)
	}
	is.True(!b.IsPlayable(ColumnA))
	is.True(!b.IsWinning(ColumnA))
	is.True(b.IsPlayable(ColumnB))
}

func TestIsWinning(t *testing.T) {
	is := is.New(t)
	type testcase struct {
		notation string
		winners  []Column
	}
	cases := []testcase{
		{"435462", []Column{ColumnG}},                // horizontal
		{"123451121517", []Column{ColumnA}},          // vertical
		{"453433222", []Column{ColumnB}},             // diagonal
		{"2334454551", []Column{ColumnE}},            // other diagonal
		{"445362322111", []Column{ColumnA, ColumnG}}, // two ways to win
		{"", nil},
	}
	for _, tc := range cases {
		bb := MustBitBoard(tc.notation)
		is.Equal(winningColumns(&bb), tc.winners)
		ab, err := ArrayBoardFromNotation(tc.notation)
		is.NoErr(err)
		is.Equal(winningColumns(&ab), tc.winners)
		is.Equal(bb.CanWinNext(), len(tc.winners) > 0)
	}
}

func TestPlay(t *testing.T) {
	is := is.New(t)
	b := NewBitBoard()
	is.Equal(b.Play(ColumnD), 1)
	is.Equal(b.Play(ColumnE), 2)
	is.Equal(b.Play(ColumnD), 3)
	is.Equal(b.Play(ColumnG), 4)
	is.Equal(b.NumMoves(), 4)
	is.Equal(b.String(),
		".......\n"+
			".......\n"+
			".......\n"+
			".......\n"+
			"...X...\n"+
			"...XO.O\n")
}

func TestPlayDoesNotTouchCopies(t *testing.T) {
	is := is.New(t)
	parent := MustBitBoard("4455")
	child := parent
	child.Play(ColumnC)
	is.Equal(parent.NumMoves(), 4)
	is.Equal(child.NumMoves(), 5)
	pk, _ := parent.Key()
	ck, _ := child.Key()
	is.True(pk != ck)
}

func TestPossibleNonLosingMovesEmptyBoard(t *testing.T) {
	is := is.New(t)
	b := NewBitBoard()
	moves, ok := b.PossibleNonLosingMoves()
	is.True(ok)
	is.Equal(moves.Count(), Width)
}

func TestPossibleNonLosingMovesDoubleThreat(t *testing.T) {
	is := is.New(t)
	b := MustBitBoard("4453623221115")
	is.True(!b.CanWinNext())
	moves, ok := b.PossibleNonLosingMoves()
	is.True(!ok)
	is.Equal(moves.Count(), 0)
}

func TestPossibleNonLosingMovesForced(t *testing.T) {
	is := is.New(t)
	// O has three stacked in column E; X must block.
	b := MustBitBoard("752525")
	moves, ok := b.PossibleNonLosingMoves()
	is.True(ok)
	is.Equal(moves.Columns(), []Column{ColumnE})
}

func TestPossibleNonLosingMovesAvoidsUnderThreat(t *testing.T) {
	is := is.New(t)
	// playing C would let the opponent complete a line right above it
	b := MustBitBoard("542115442")
	moves, ok := b.PossibleNonLosingMoves()
	is.True(ok)
	is.Equal(moves.Columns(), []Column{ColumnA, ColumnB, ColumnD, ColumnE, ColumnF, ColumnG})
}

func TestPossibleNonLosingMovesPanicsWhenWinning(t *testing.T) {
	is := is.New(t)
	b := MustBitBoard("435462")
	defer func() {
		is.True(recover() != nil)
	}()
	b.PossibleNonLosingMoves()
	t.Fatal("expected a panic")
}

func TestScoreMove(t *testing.T) {
	is := is.New(t)
	b := MustBitBoard("4655")
	is.Equal(b.ScoreMove(ColumnC), 1)
	is.Equal(b.ScoreMove(ColumnB), 1)
	is.Equal(b.ScoreMove(ColumnA), 0)
	is.Equal(b.ScoreMove(ColumnG), 0)
}

func BenchmarkIsWinning(b *testing.B) {
	bb := MustBitBoard("445362322111")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bb.IsWinning(Column(i % Width))
	}
}

func BenchmarkPossibleNonLosingMoves(b *testing.B) {
	bb := MustBitBoard("4453623221")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bb.nonLosingCells()
	}
}
