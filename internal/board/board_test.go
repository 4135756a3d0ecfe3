package board

import "testing"

func TestApplyUndoRestoresFingerprint(t *testing.T) {
	p, err := NewPosition(7)
	if err != nil {
		t.Fatal(err)
	}
	moves := []Move{{3, 3}, {2, 2}, {4, 3}, {2, 3}, {5, 3}}
	hashes := []uint64{p.Fingerprint()}
	for _, m := range moves {
		if err := p.Apply(m); err != nil {
			t.Fatalf("apply %v: %v", m, err)
		}
		hashes = append(hashes, p.Fingerprint())
	}
	if p.Fingerprint() != p.computeHash() {
		t.Fatal("incremental hash diverged from full recompute")
	}
	for i := len(moves) - 1; i >= 0; i-- {
		p.Undo()
		if got, want := p.Fingerprint(), hashes[i]; got != want {
			t.Fatalf("after undo %d: fingerprint %#x, want %#x", i, got, want)
		}
	}
	if p.EmptyCount() != 49 {
		t.Fatalf("empty count %d after full undo, want 49", p.EmptyCount())
	}
	if p.ToMove() != PlayerBlack {
		t.Fatal("side to move not restored")
	}
}

func TestApplyRejectsBadMoves(t *testing.T) {
	p, _ := NewPosition(5)
	if err := p.Apply(Move{X: 5, Y: 0}); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
	if err := p.Apply(Move{X: 2, Y: 2}); err != nil {
		t.Fatal(err)
	}
	if err := p.Apply(Move{X: 2, Y: 2}); err == nil {
		t.Fatal("expected occupied-cell error")
	}
}

func TestPassFlipsSideOnly(t *testing.T) {
	p, _ := NewPosition(5)
	before := p.Fingerprint()
	if err := p.Apply(MovePass); err != nil {
		t.Fatal(err)
	}
	if p.ToMove() != PlayerWhite {
		t.Fatal("pass did not flip side to move")
	}
	if p.EmptyCount() != 25 {
		t.Fatal("pass touched the grid")
	}
	if p.Fingerprint() == before {
		t.Fatal("pass did not change the fingerprint")
	}
	p.Undo()
	if p.Fingerprint() != before {
		t.Fatal("undo of pass did not restore the fingerprint")
	}
}

func TestApplyForOutOfTurn(t *testing.T) {
	p, _ := NewPosition(5)
	if err := p.ApplyFor(Move{0, 0}, PlayerBlack); err != nil {
		t.Fatal(err)
	}
	if err := p.ApplyFor(Move{1, 0}, PlayerBlack); err != nil {
		t.Fatal(err)
	}
	if p.At(0, 0) != CellBlack || p.At(1, 0) != CellBlack {
		t.Fatal("stones not placed")
	}
	if p.ToMove() != PlayerWhite {
		t.Fatal("side to move should be the opponent of the last color played")
	}
	if p.Fingerprint() != p.computeHash() {
		t.Fatal("incremental hash diverged after out-of-turn placement")
	}
}

func TestHorizontalWinDetection(t *testing.T) {
	p, _ := NewPosition(7)
	black := []Move{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}}
	white := []Move{{0, 1}, {1, 1}, {2, 1}, {3, 1}}
	for i := 0; i < len(white); i++ {
		if err := p.Apply(black[i]); err != nil {
			t.Fatal(err)
		}
		if err := p.Apply(white[i]); err != nil {
			t.Fatal(err)
		}
	}
	if p.Terminal() {
		t.Fatal("terminal before the five is completed")
	}
	if err := p.Apply(black[4]); err != nil {
		t.Fatal(err)
	}
	if !p.Terminal() || p.Winner() != CellBlack {
		t.Fatalf("winner = %v, want black", p.Winner())
	}
	p.Undo()
	if p.Terminal() || p.Winner() != CellEmpty {
		t.Fatal("undo did not clear the winner")
	}
}

func TestDiagonalWinDetection(t *testing.T) {
	p := MustParse(`
		. . . . . . X
		. . . . . X .
		. . . . X . .
		. . . X . . .
		. . . . . . .
		O O O O . . .
		. . . . . . .
	`, PlayerBlack)
	if p.Winner() != CellEmpty {
		t.Fatal("no winner expected yet")
	}
	if err := p.Apply(Move{X: 2, Y: 2}); err != nil {
		t.Fatal(err)
	}
	if p.Winner() != CellBlack {
		t.Fatalf("winner = %v, want black on the diagonal", p.Winner())
	}
}

func TestLegalMovesEnumerationOrder(t *testing.T) {
	p, _ := NewPosition(5)
	if err := p.Apply(Move{X: 1, Y: 0}); err != nil {
		t.Fatal(err)
	}
	moves := p.LegalMoves()
	if len(moves) != 24 {
		t.Fatalf("got %d legal moves, want 24", len(moves))
	}
	if !moves[0].Equals(Move{X: 0, Y: 0}) || !moves[1].Equals(Move{X: 2, Y: 0}) {
		t.Fatalf("enumeration order broken: %v, %v", moves[0], moves[1])
	}
	prev := -1
	for _, m := range moves {
		idx := m.Y*5 + m.X
		if idx <= prev {
			t.Fatalf("moves not in row-major order at %v", m)
		}
		prev = idx
	}
}

func TestParseDiagramRoundTrip(t *testing.T) {
	diagram := `
		. . . . .
		. X O . .
		. . X . .
		. O . . .
		X . . . .
	`
	p := MustParse(diagram, PlayerWhite)
	if p.EmptyCount() != 20 {
		t.Fatalf("empty count %d, want 20", p.EmptyCount())
	}
	if p.At(0, 0) != CellBlack || p.At(2, 3) != CellWhite {
		t.Fatal("stones at wrong coordinates")
	}
	q, err := Parse(p.Diagram(), PlayerWhite)
	if err != nil {
		t.Fatal(err)
	}
	if q.Fingerprint() != p.Fingerprint() {
		t.Fatal("diagram round trip changed the fingerprint")
	}
}

func TestFiveInARowScan(t *testing.T) {
	p := MustParse(`
		. . . . . . .
		. . O . . . .
		. . O . . . .
		. . O . . . .
		. . O . . . .
		. . O . . . .
		. . . . . . .
	`, PlayerBlack)
	if p.FiveInARow() != CellWhite {
		t.Fatal("vertical white five not found by the scan")
	}
	if p.Winner() != CellWhite {
		t.Fatal("Parse did not set the winner from the scan")
	}
}
