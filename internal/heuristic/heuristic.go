// Package heuristic picks a plausible move without proof, for positions
// the exact solver could not crack within its budget.
package heuristic

import (
	"golang.org/x/exp/slices"

	"gomoku-solver/internal/board"
)

const (
	prioWin = iota
	prioBlockWin
	prioFour
	prioBlockFour
	prioOpenThree
	prioBlockOpenThree
	prioNearLastMove
	prioProximity
)

const (
	proximityRadius = 2
	lastMoveRadius  = 3
)

type Candidate struct {
	Move     board.Move
	Priority int
}

// Candidates lists the cells worth considering, most urgent priority first,
// board-enumeration order within a priority. An empty board yields only the
// center.
func Candidates(pos *board.Position) []Candidate {
	size := pos.Size()
	if pos.EmptyCount() == size*size {
		c := size / 2
		return []Candidate{{Move: board.NewMove(c, c), Priority: prioProximity}}
	}

	me := board.CellFromPlayer(pos.ToMove())
	opp := board.CellFromPlayer(board.OtherPlayer(pos.ToMove()))
	last, hasLast := pos.LastMove()

	var cands []Candidate
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if pos.At(x, y) != board.CellEmpty {
				continue
			}
			m := board.NewMove(x, y)
			prio, ok := threatPriority(pos, m, me, opp)
			if !ok {
				if hasLast && within(m, last, lastMoveRadius) {
					prio, ok = prioNearLastMove, true
				} else if nearAnyStone(pos, m) {
					prio, ok = prioProximity, true
				}
			}
			if ok {
				cands = append(cands, Candidate{Move: m, Priority: prio})
			}
		}
	}
	if len(cands) == 0 {
		// isolated stones far apart; fall back to every empty cell
		for _, m := range pos.LegalMoves() {
			cands = append(cands, Candidate{Move: m, Priority: prioProximity})
		}
	}
	slices.SortStableFunc(cands, func(a, b Candidate) int {
		return a.Priority - b.Priority
	})
	return cands
}

// BestMove returns the highest-ranked candidate: priority first, then the
// one-ply static evaluation from the mover's perspective, first in
// enumeration order on ties.
func BestMove(pos *board.Position) (board.Move, bool) {
	cands := Candidates(pos)
	if len(cands) == 0 {
		return board.MovePass, false
	}
	bestMove := cands[0].Move
	bestPrio := cands[0].Priority
	if bestPrio == prioWin {
		return bestMove, true
	}
	bestValue := moverValue(pos, bestMove)
	for _, c := range cands[1:] {
		if c.Priority != bestPrio {
			break // sorted: everything after is lower urgency
		}
		if v := moverValue(pos, c.Move); v > bestValue {
			bestMove, bestValue = c.Move, v
		}
	}
	return bestMove, true
}

func moverValue(pos *board.Position, m board.Move) int {
	if err := pos.Apply(m); err != nil {
		return -board.ScoreWin
	}
	v := -pos.StaticEval()
	pos.Undo()
	return v
}

var dirs = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

func threatPriority(pos *board.Position, m board.Move, me, opp board.Cell) (int, bool) {
	switch {
	case makesRun(pos, m, me, 5, false):
		return prioWin, true
	case makesRun(pos, m, opp, 5, false):
		return prioBlockWin, true
	case makesRun(pos, m, me, 4, false):
		return prioFour, true
	case makesRun(pos, m, opp, 4, false):
		return prioBlockFour, true
	case makesRun(pos, m, me, 3, true):
		return prioOpenThree, true
	case makesRun(pos, m, opp, 3, true):
		return prioBlockOpenThree, true
	}
	return 0, false
}

// makesRun reports whether placing color at m forms a contiguous run of at
// least n, optionally requiring both ends of the run to be empty.
func makesRun(pos *board.Position, m board.Move, color board.Cell, n int, bothOpen bool) bool {
	for _, d := range dirs {
		back := runLength(pos, m, -d[0], -d[1], color)
		fwd := runLength(pos, m, d[0], d[1], color)
		if 1+back+fwd < n {
			continue
		}
		if !bothOpen {
			return true
		}
		if pos.IsEmpty(m.X-(back+1)*d[0], m.Y-(back+1)*d[1]) &&
			pos.IsEmpty(m.X+(fwd+1)*d[0], m.Y+(fwd+1)*d[1]) {
			return true
		}
	}
	return false
}

func runLength(pos *board.Position, m board.Move, dx, dy int, color board.Cell) int {
	n := 0
	x, y := m.X+dx, m.Y+dy
	for pos.InBounds(x, y) && pos.At(x, y) == color {
		n++
		x, y = x+dx, y+dy
	}
	return n
}

func within(a, b board.Move, radius int) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= radius && dy <= radius
}

func nearAnyStone(pos *board.Position, m board.Move) bool {
	for dy := -proximityRadius; dy <= proximityRadius; dy++ {
		for dx := -proximityRadius; dx <= proximityRadius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			x, y := m.X+dx, m.Y+dy
			if pos.InBounds(x, y) && pos.At(x, y) != board.CellEmpty {
				return true
			}
		}
	}
	return false
}
