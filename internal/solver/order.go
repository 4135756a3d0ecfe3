package solver

import (
	"golang.org/x/exp/slices"

	"gomoku-solver/internal/board"
)

type scoredMove struct {
	move  board.Move
	score int
}

// orderedMoves ranks the legal moves by playing each one and reading the
// static evaluation from the child's perspective, highest first. The sort
// is stable, so equal scores keep board-enumeration order; that tie-break
// is part of the engine's determinism and must not change.
func (sc *searchContext) orderedMoves() []board.Move {
	moves := sc.pos.LegalMoves()
	if !sc.order {
		return moves
	}
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		sc.pos.Apply(m)
		scored[i] = scoredMove{move: m, score: sc.pos.StaticEval()}
		sc.pos.Undo()
		sc.stats.OrderingEvals++
	}
	slices.SortStableFunc(scored, func(a, b scoredMove) int {
		return b.score - a.score
	})
	for i, s := range scored {
		moves[i] = s.move
	}
	return moves
}
