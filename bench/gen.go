package bench

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/connectfour/board"
)

var ErrBadPlies = errors.New("bad ply count")

type generated struct {
	pos      board.BitBoard
	notation string
}

func (g generated) key() uint64 {
	k, _ := g.pos.Key()
	return k
}

// randomGame plays plies random moves, never filling a full column and
// never ending the game. ok is false when it got stuck before that.
func randomGame(plies int) (generated, bool) {
	var g generated
	notation := make([]byte, 0, plies)
	candidates := make([]board.Column, 0, board.Width)
	for i := 0; i < plies; i++ {
		candidates = candidates[:0]
		for c := board.Column(0); c < board.Width; c++ {
			if g.pos.IsPlayable(c) && !g.pos.IsWinning(c) {
				candidates = append(candidates, c)
			}
		}
		if len(candidates) == 0 {
			return g, false
		}
		c := candidates[frand.Intn(len(candidates))]
		g.pos.Play(c)
		notation = append(notation, byte('1'+c))
	}
	g.notation = string(notation)
	return g, true
}

// Generate builds n distinct random positions with the given number of
// stones played and scores each with solve. At least one stone must be
// played, since suite files cannot hold the empty board.
func Generate(n, plies int, solve func(board.BitBoard) int) ([]Case, error) {
	if plies < 1 || plies >= board.NumCells {
		return nil, fmt.Errorf("%w: %d", ErrBadPlies, plies)
	}
	var pool []generated
	for attempts := 0; len(pool) < n; attempts++ {
		if attempts > 100 {
			return nil, fmt.Errorf("%w: could only find %d distinct positions with %d stones",
				ErrBadPlies, len(pool), plies)
		}
		for i := len(pool); i < n; i++ {
			if g, ok := randomGame(plies); ok {
				pool = append(pool, g)
			}
		}
		pool = lo.UniqBy(pool, generated.key)
	}
	return lo.Map(pool, func(g generated, _ int) Case {
		return Case{Notation: g.notation, Expected: solve(g.pos)}
	}), nil
}
