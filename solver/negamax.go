package solver

import "github.com/domino14/connectfour/board"

// Position is a board value whose pointer implements board.Board. Search
// functions take positions by value and copy them for every child, so a
// parent is never modified while its children are explored.
type Position[B any] interface {
	*B
	board.Board
}

// Negamax solves pos by plain minimax over the whole game tree. It is far
// too slow for early positions and exists as a reference for the faster
// solvers.
func Negamax[B any, PB Position[B]](pos B) SolveResult {
	var nodes uint64
	score := negamax[B, PB](pos, &nodes)
	return SolveResult{Score: score, NodesSearched: nodes}
}

func negamax[B any, PB Position[B]](pos B, nodes *uint64) int {
	*nodes++
	p := PB(&pos)
	m := p.NumMoves()
	if m == board.NumCells {
		return 0
	}
	for c := board.Column(0); c < board.Width; c++ {
		if p.IsPlayable(c) && p.IsWinning(c) {
			return winScore(m)
		}
	}
	best := -board.NumCells
	for _, c := range board.ColumnOrder {
		if !p.IsPlayable(c) {
			continue
		}
		child := pos
		PB(&child).Play(c)
		if score := -negamax[B, PB](child, nodes); score > best {
			best = score
		}
	}
	return best
}
