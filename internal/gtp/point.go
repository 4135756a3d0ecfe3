package gtp

import (
	"fmt"
	"strconv"
	"strings"

	"gomoku-solver/internal/board"
)

// columnLetters skips I, per GTP convention.
const columnLetters = "ABCDEFGHJKLMNOPQRSTUVWXYZ"

// FormatPoint renders a move as a GTP vertex like "C3", or "pass".
func FormatPoint(m board.Move) string {
	if m.IsPass() {
		return "pass"
	}
	return fmt.Sprintf("%c%d", columnLetters[m.X], m.Y+1)
}

// ParsePoint reads a GTP vertex. The column letter I does not exist; rows
// are 1-based.
func ParsePoint(s string, size int) (board.Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "pass" {
		return board.MovePass, nil
	}
	if len(s) < 2 {
		return board.MovePass, fmt.Errorf("\"%s\" wrong coordinate", s)
	}
	colChar := s[0]
	if colChar < 'a' || colChar > 'z' || colChar == 'i' {
		return board.MovePass, fmt.Errorf("\"%s\" wrong coordinate", s)
	}
	col := int(colChar - 'a')
	if colChar < 'i' {
		col++
	}
	row, err := strconv.Atoi(s[1:])
	if err != nil {
		return board.MovePass, fmt.Errorf("\"%s\" wrong coordinate", s)
	}
	if col < 1 || col > size || row < 1 || row > size {
		return board.MovePass, fmt.Errorf("\"%s\" wrong coordinate", s)
	}
	return board.NewMove(col-1, row-1), nil
}

// ParseColor reads b/black or w/white.
func ParseColor(s string) (board.PlayerColor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "b", "black":
		return board.PlayerBlack, nil
	case "w", "white":
		return board.PlayerWhite, nil
	}
	return 0, fmt.Errorf("invalid color %q", s)
}

func colorName(c board.PlayerColor) string {
	if c == board.PlayerBlack {
		return "black"
	}
	return "white"
}

func colorLetter(c board.PlayerColor) string {
	if c == board.PlayerBlack {
		return "b"
	}
	return "w"
}
