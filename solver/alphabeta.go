package solver

import "github.com/domino14/connectfour/board"

// AlphaBeta solves pos with a full-window alpha-beta search in center-out
// order. When table is not nil and the board has keys, upper bounds are
// cached between nodes. Unlike Solver it needs nothing beyond the
// board.Board capability, so it also runs on the reference ArrayBoard.
func AlphaBeta[B any, PB Position[B]](pos B, table *TranspositionTable) SolveResult {
	ab := alphaBeta[B, PB]{table: table}
	lo, hi := ScoreBounds(PB(&pos).NumMoves())
	score := ab.search(pos, lo, hi)
	return SolveResult{Score: score, NodesSearched: ab.nodes}
}

type alphaBeta[B any, PB Position[B]] struct {
	table *TranspositionTable
	nodes uint64
}

func (ab *alphaBeta[B, PB]) search(pos B, alpha, beta int) int {
	ab.nodes++
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

	// we cannot win with this stone, so the best is winning with the next
	hi := (board.NumCells - 1 - m) / 2
	key, hasKey := p.Key()
	hasKey = hasKey && ab.table != nil
	if hasKey {
		if v, ok := ab.table.Get(key); ok {
			hi = decodeBound(v)
		}
	}
	if beta > hi {
		beta = hi
		if alpha >= beta {
			return beta
		}
	}

	for _, c := range board.ColumnOrder {
		if !p.IsPlayable(c) {
			continue
		}
		child := pos
		PB(&child).Play(c)
		score := -ab.search(child, -beta, -alpha)
		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
		}
	}
	if hasKey {
		if v, ok := encodeBound(alpha); ok {
			ab.table.Set(key, v)
		}
	}
	return alpha
}
