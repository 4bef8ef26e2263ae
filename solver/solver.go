package solver

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/move"
)

// DefaultTableSize is the slot count used when no table is supplied,
// roughly 64 MB.
const DefaultTableSize = 1 << 23

// Solver computes exact scores with a negamax alpha-beta search driven by
// null-window probes. It owns its transposition table; run one Solver per
// goroutine.
type Solver struct {
	ttable *TranspositionTable
	weak   bool
	nodes  uint64
}

// NewSolver returns a solver that caches into tt. A nil tt allocates a
// table of DefaultTableSize slots.
func NewSolver(tt *TranspositionTable) *Solver {
	if tt == nil {
		tt = NewTranspositionTable(DefaultTableSize)
	}
	return &Solver{ttable: tt}
}

// SetWeak makes Solve only tell wins, draws and losses apart. Scores are
// then 1, 0 or -1.
func (s *Solver) SetWeak(w bool) {
	s.weak = w
}

func (s *Solver) Weak() bool {
	return s.weak
}

func (s *Solver) SetTranspositionTable(tt *TranspositionTable) {
	s.ttable = tt
}

func (s *Solver) TranspositionTable() *TranspositionTable {
	return s.ttable
}

// Reset clears the table and the node counter so the next solve starts
// cold. Keeping the table between solves of related positions is allowed
// and usually faster.
func (s *Solver) Reset() {
	s.ttable.Clear()
	s.nodes = 0
}

// NodeCount is the number of nodes searched since the last Reset.
func (s *Solver) NodeCount() uint64 {
	return s.nodes
}

// Solve returns the exact score of pos for the player to move. pos must not
// already be a finished game.
func (s *Solver) Solve(pos board.BitBoard) SolveResult {
	tstart := time.Now()
	startNodes := s.nodes
	score := s.solve(&pos)
	if s.weak {
		score = Sign(score)
	}
	res := SolveResult{Score: score, NodesSearched: s.nodes - startNodes}

	stats := s.ttable.Stats()
	log.Debug().
		Int("moves", pos.NumMoves()).
		Int("score", res.Score).
		Uint64("nodes", res.NodesSearched).
		Uint64("ttable-stores", stats.Stores).
		Uint64("ttable-lookups", stats.Lookups).
		Uint64("ttable-hits", stats.Hits).
		Uint64("ttable-collisions", stats.Collisions).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("solve-returning")
	return res
}

// solve narrows the score window with null-window probes until a single
// score is left.
func (s *Solver) solve(pos *board.BitBoard) int {
	m := pos.NumMoves()
	if pos.CanWinNext() {
		return winScore(m)
	}
	lo, hi := ScoreBounds(m)
	if s.weak {
		lo, hi = -1, 1
	}
	for lo < hi {
		med := lo + (hi-lo)/2
		// probe closer to zero first; most positions are decided early
		// by a narrow margin
		if med <= 0 && lo/2 < med {
			med = lo / 2
		} else if med >= 0 && hi/2 > med {
			med = hi / 2
		}
		if r := s.negamax(pos, med, med+1); r <= med {
			hi = r
		} else {
			lo = r
		}
	}
	return lo
}

// negamax returns the score of pos if it lies strictly inside
// (alpha, beta); otherwise an upper bound when it returns alpha or less,
// and a lower bound when it returns beta or more.
func (s *Solver) negamax(pos *board.BitBoard, alpha, beta int) int {
	s.nodes++
	m := pos.NumMoves()

	if pos.CanWinNext() {
		return winScore(m)
	}
	// with at most one empty cell left nobody can win any more
	if m >= board.NumCells-1 {
		return 0
	}
	moves, ok := pos.PossibleNonLosingMoves()
	if !ok {
		return lossScore(m)
	}

	// the opponent cannot win with their next stone
	if lo := -(board.NumCells - 2 - m) / 2; alpha < lo {
		alpha = lo
		if alpha >= beta {
			return alpha
		}
	}
	// and we cannot win with this one
	hi := (board.NumCells - 1 - m) / 2
	key, _ := pos.Key()
	if v, ok := s.ttable.Get(key); ok {
		hi = decodeBound(v)
	}
	if beta > hi {
		beta = hi
		if alpha >= beta {
			return beta
		}
	}

	sorter := move.Ordered(pos, moves)
	for {
		c, ok := sorter.Next()
		if !ok {
			break
		}
		child := *pos
		child.Play(c)
		score := -s.negamax(&child, -beta, -alpha)
		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
		}
	}

	if v, ok := encodeBound(alpha); ok {
		s.ttable.Set(key, v)
	}
	return alpha
}
