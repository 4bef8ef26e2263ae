package solver

import (
	"fmt"
	"strings"

	"github.com/domino14/connectfour/board"
)

// ColumnScore is the outcome of playing one column, from the point of view
// of the player making the move.
type ColumnScore struct {
	Column   board.Column
	Playable bool
	Score    int
}

// Analyze scores every column of pos. Full columns are reported with
// Playable set to false.
func (s *Solver) Analyze(pos board.BitBoard) [board.Width]ColumnScore {
	var scores [board.Width]ColumnScore
	m := pos.NumMoves()
	for c := board.Column(0); c < board.Width; c++ {
		scores[c].Column = c
		if !pos.IsPlayable(c) {
			continue
		}
		scores[c].Playable = true
		if pos.IsWinning(c) {
			scores[c].Score = winScore(m)
			if s.weak {
				scores[c].Score = 1
			}
			continue
		}
		child := pos
		child.Play(c)
		scores[c].Score = -s.Solve(child).Score
	}
	return scores
}

// BestMove returns the highest scoring playable column. Ties go to the
// column closest to the center. ok is false on a full board.
func BestMove(scores [board.Width]ColumnScore) (c board.Column, score int, ok bool) {
	for _, col := range board.ColumnOrder {
		cs := scores[col]
		if !cs.Playable {
			continue
		}
		if !ok || cs.Score > score {
			c, score, ok = col, cs.Score, true
		}
	}
	return c, score, ok
}

// PVLine is a line of optimal play.
type PVLine struct {
	Moves []board.Column
	Score int
}

// Notation returns the line in move notation, so that appending it to the
// position's own notation replays the whole game.
func (pv PVLine) Notation() string {
	var sb strings.Builder
	for _, c := range pv.Moves {
		sb.WriteByte(byte('1' + c))
	}
	return sb.String()
}

func (pv PVLine) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PV; val %d\n", pv.Score)
	for i, c := range pv.Moves {
		fmt.Fprintf(&sb, "%d: %v\n", i+1, c)
	}
	return sb.String()
}

// NLBString is String without line breaks.
func (pv PVLine) NLBString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PV; val %d; ", pv.Score)
	for i, c := range pv.Moves {
		fmt.Fprintf(&sb, "%d: %v; ", i+1, c)
	}
	return sb.String()
}

// PrincipalVariation plays out pos with both sides choosing their best
// column until someone wins or the board is full.
func (s *Solver) PrincipalVariation(pos board.BitBoard) PVLine {
	pv := PVLine{Score: s.Solve(pos).Score}
	for pos.NumMoves() < board.NumCells {
		if c, ok := winningColumn(&pos); ok {
			pv.Moves = append(pv.Moves, c)
			break
		}
		c, _, ok := BestMove(s.Analyze(pos))
		if !ok {
			break
		}
		pv.Moves = append(pv.Moves, c)
		pos.Play(c)
	}
	return pv
}

func winningColumn(pos *board.BitBoard) (board.Column, bool) {
	for _, c := range board.ColumnOrder {
		if pos.IsWinning(c) {
			return c, true
		}
	}
	return 0, false
}
