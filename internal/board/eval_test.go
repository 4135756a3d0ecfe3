package board

import "testing"

const openFourDiagram = `
	. . . . . . .
	. . . . . . .
	. . . . . . .
	. X X X X . .
	. . . . . . .
	. . O O . . .
	. . . . . . .
`

func TestEvalAntisymmetry(t *testing.T) {
	a := MustParse(openFourDiagram, PlayerBlack)
	b := MustParse(openFourDiagram, PlayerWhite)
	if got, want := b.StaticEval(), -a.StaticEval(); got != want {
		t.Fatalf("eval for white = %d, want %d (negation of black's)", got, want)
	}
}

func TestEvalProvenMagnitudes(t *testing.T) {
	won := `
		. . . . . . .
		. . . . . . .
		. . . . . . .
		X X X X X . .
		. . O O . . .
		. . O O . . .
		. . . . . . .
	`
	loser := MustParse(won, PlayerWhite)
	if got := loser.StaticEval(); got != -ScoreWin {
		t.Fatalf("eval facing a completed five = %d, want %d", got, -ScoreWin)
	}
	winner := MustParse(won, PlayerBlack)
	if got := winner.StaticEval(); got != ScoreWin {
		t.Fatalf("eval holding a completed five = %d, want %d", got, ScoreWin)
	}
}

func TestEvalFullBoardIsDraw(t *testing.T) {
	p := MustParse(`
		X O X O X
		X O X O X
		O X O X O
		X O X O X
		X O X O X
	`, PlayerWhite)
	if !p.Terminal() {
		t.Fatal("full board should be terminal")
	}
	if got := p.StaticEval(); got != 0 {
		t.Fatalf("full-board eval = %d, want 0", got)
	}
}

func TestEvalHeuristicStaysInsideProvenBand(t *testing.T) {
	p := MustParse(openFourDiagram, PlayerBlack)
	v := p.StaticEval()
	if v <= 0 {
		t.Fatalf("open four for the mover evaluates to %d, want > 0", v)
	}
	if v >= ScoreWin {
		t.Fatalf("heuristic value %d reached the proven magnitude", v)
	}
}

func TestEvalPrefersStrongerThreat(t *testing.T) {
	four := MustParse(openFourDiagram, PlayerBlack)
	three := MustParse(`
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. X X X . . .
		. . . . . . .
		. . O O . . .
		. . . . . . .
	`, PlayerBlack)
	if four.StaticEval() <= three.StaticEval() {
		t.Fatalf("open four (%d) should outscore open three (%d)",
			four.StaticEval(), three.StaticEval())
	}
}

func TestSetWeightsChangesEval(t *testing.T) {
	p := MustParse(openFourDiagram, PlayerBlack)
	base := p.StaticEval()
	w := DefaultWeights()
	w.Open4 = w.Open4 * 2
	SetWeights(w)
	defer SetWeights(DefaultWeights())
	if p.StaticEval() == base {
		t.Fatal("doubling the open-four weight did not move the eval")
	}
}
