package heuristic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gomoku-solver/internal/board"
)

func TestEmptyBoardPlaysCenter(t *testing.T) {
	pos, err := board.NewPosition(7)
	require.NoError(t, err)
	m, ok := BestMove(pos)
	require.True(t, ok)
	require.Equal(t, board.NewMove(3, 3), m)
}

func TestTakesImmediateWin(t *testing.T) {
	pos := board.MustParse(`
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. X X X X . .
		. . . . . . .
		. O O O . . .
		. . . . . . .
	`, board.PlayerBlack)
	m, ok := BestMove(pos)
	require.True(t, ok)
	require.Equal(t, board.NewMove(0, 3), m, "first completing cell in enumeration order")
}

func TestBlocksImmediateWin(t *testing.T) {
	pos := board.MustParse(`
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. O O O O . .
		. . . . . . .
		. X X . . . .
		. . . . . . .
	`, board.PlayerBlack)
	m, ok := BestMove(pos)
	require.True(t, ok)
	require.Contains(t, []board.Move{board.NewMove(0, 3), board.NewMove(5, 3)}, m,
		"must block one end of the open four")
}

func TestPrefersWinOverBlock(t *testing.T) {
	// both sides have a completing cell; taking the win outranks blocking
	pos := board.MustParse(`
		. . . . . . .
		. . . . . . .
		. X X X X . .
		. . . . . . .
		. O O O O . .
		. . . . . . .
		. . . . . . .
	`, board.PlayerBlack)
	m, ok := BestMove(pos)
	require.True(t, ok)
	require.Equal(t, board.NewMove(0, 4), m)
}

func TestCandidatesStayNearTheAction(t *testing.T) {
	pos := board.MustParse(`
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . X . . .
		. . . O . . .
		. . . . . . .
		. . . . . . .
	`, board.PlayerBlack)
	for _, c := range Candidates(pos) {
		dx := c.Move.X - 3
		if dx < 0 {
			dx = -dx
		}
		require.LessOrEqual(t, dx, 3, "candidate %v strays from the stones", c.Move)
	}
}

func TestLeavesBoardUntouched(t *testing.T) {
	pos := board.MustParse(`
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. X X X . . .
		. . O O . . .
		. . . . . . .
		. . . . . . .
	`, board.PlayerWhite)
	before := pos.Fingerprint()
	_, ok := BestMove(pos)
	require.True(t, ok)
	require.Equal(t, before, pos.Fingerprint())
}
