package solver

import "github.com/domino14/connectfour/board"

const (
	// MinScore is the lowest score a reachable position can have: the
	// opponent wins with their fourth stone.
	MinScore = -board.NumCells/2 + 3
	// MaxScore is the highest score: a win with our own fourth stone.
	MaxScore = (board.NumCells+1)/2 - 3
)

// SolveResult is the exact score of a position for the player to move and
// the number of search nodes it took to prove it.
type SolveResult struct {
	Score         int
	NodesSearched uint64
}

// winScore is the score of the player to move when they win with their
// next stone, m stones having been played. Faster wins score higher.
func winScore(m int) int {
	return (board.NumCells + 1 - m) / 2
}

// lossScore is the score of the player to move when every move lets the
// opponent win on the following ply.
func lossScore(m int) int {
	return -(board.NumCells - m) / 2
}

// ScoreBounds returns the lowest and highest score possible for the player
// to move once m stones have been played.
func ScoreBounds(m int) (lo, hi int) {
	return lossScore(m), winScore(m)
}

// encodeBound packs an upper bound into the table's 8-bit format, offset
// so that 0 stays free as the empty marker. Bounds below MinScore are never
// the score of a real position and are not stored.
func encodeBound(v int) (uint8, bool) {
	e := v - MinScore + 1
	if e < 1 || e > 0xff {
		return 0, false
	}
	return uint8(e), true
}

func decodeBound(e uint8) int {
	return int(e) + MinScore - 1
}

// Sign maps a score to 1, 0 or -1: the weak score of the same position.
func Sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
