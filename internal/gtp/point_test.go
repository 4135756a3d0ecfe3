package gtp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gomoku-solver/internal/board"
)

func TestFormatPoint(t *testing.T) {
	require.Equal(t, "A1", FormatPoint(board.NewMove(0, 0)))
	require.Equal(t, "E3", FormatPoint(board.NewMove(4, 2)))
	require.Equal(t, "J10", FormatPoint(board.NewMove(8, 9)), "column I is skipped")
	require.Equal(t, "pass", FormatPoint(board.MovePass))
}

func TestParsePoint(t *testing.T) {
	m, err := ParsePoint("a1", 19)
	require.NoError(t, err)
	require.Equal(t, board.NewMove(0, 0), m)

	m, err = ParsePoint("J10", 19)
	require.NoError(t, err)
	require.Equal(t, board.NewMove(8, 9), m)

	m, err = ParsePoint("pass", 19)
	require.NoError(t, err)
	require.True(t, m.IsPass())
}

func TestParsePointRoundTrip(t *testing.T) {
	for y := 0; y < 13; y++ {
		for x := 0; x < 13; x++ {
			m := board.NewMove(x, y)
			got, err := ParsePoint(FormatPoint(m), 13)
			require.NoError(t, err)
			require.Equal(t, m, got)
		}
	}
}

func TestParsePointErrors(t *testing.T) {
	for _, s := range []string{"", "a", "i3", "z99", "a0", "f6", "11", "!3"} {
		_, err := ParsePoint(s, 5)
		require.Error(t, err, "input %q", s)
	}
}

func TestParseColor(t *testing.T) {
	for _, s := range []string{"b", "B", "black", "BLACK"} {
		c, err := ParseColor(s)
		require.NoError(t, err)
		require.Equal(t, board.PlayerBlack, c)
	}
	c, err := ParseColor("w")
	require.NoError(t, err)
	require.Equal(t, board.PlayerWhite, c)
	_, err = ParseColor("green")
	require.Error(t, err)
}
