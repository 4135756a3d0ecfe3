package board

import (
	"fmt"
	"strings"
)

type Cell int8

const (
	CellEmpty Cell = iota
	CellBlack
	CellWhite
)

type PlayerColor int8

const (
	PlayerBlack PlayerColor = iota + 1
	PlayerWhite
)

const winLength = 5

func CellFromPlayer(p PlayerColor) Cell {
	if p == PlayerBlack {
		return CellBlack
	}
	return CellWhite
}

func OtherPlayer(p PlayerColor) PlayerColor {
	if p == PlayerBlack {
		return PlayerWhite
	}
	return PlayerBlack
}

type record struct {
	move       Move
	player     PlayerColor
	prevToMove PlayerColor
	prevWinner Cell
}

// Position is a mutable game state. Apply and Undo form a strict LIFO pair;
// the zobrist fingerprint is maintained incrementally across both.
type Position struct {
	size    int
	cells   []Cell
	toMove  PlayerColor
	empty   int
	hash    uint64
	winner  Cell
	history []record
	zob     *zobristTable
}

func NewPosition(size int) (*Position, error) {
	if size < winLength || size > 25 {
		return nil, fmt.Errorf("board size %d out of range [%d, 25]", size, winLength)
	}
	p := &Position{
		size:   size,
		cells:  make([]Cell, size*size),
		toMove: PlayerBlack,
		empty:  size * size,
		zob:    zobristFor(size),
	}
	p.hash = p.computeHash()
	return p, nil
}

func (p *Position) index(m Move) int {
	return m.Y*p.size + m.X
}

func (p *Position) Size() int           { return p.size }
func (p *Position) ToMove() PlayerColor { return p.toMove }
func (p *Position) EmptyCount() int     { return p.empty }
func (p *Position) Fingerprint() uint64 { return p.hash }
func (p *Position) Winner() Cell        { return p.winner }
func (p *Position) MoveCount() int      { return len(p.history) }

func (p *Position) At(x, y int) Cell {
	return p.cells[y*p.size+x]
}

func (p *Position) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < p.size && y < p.size
}

func (p *Position) IsEmpty(x, y int) bool {
	return p.InBounds(x, y) && p.cells[y*p.size+x] == CellEmpty
}

// Terminal reports whether the game is over: someone completed five in a
// row, or no empty cell remains.
func (p *Position) Terminal() bool {
	return p.winner != CellEmpty || p.empty == 0
}

// LastMove returns the most recent non-pass move, if any.
func (p *Position) LastMove() (Move, bool) {
	for i := len(p.history) - 1; i >= 0; i-- {
		if !p.history[i].move.IsPass() {
			return p.history[i].move, true
		}
	}
	return MovePass, false
}

// Apply plays a move for the side to move. MovePass flips the turn without
// touching the grid.
func (p *Position) Apply(m Move) error {
	return p.ApplyFor(m, p.toMove)
}

// ApplyFor places a stone for an explicit color, which GTP setup positions
// need: play commands are not required to alternate. The side to move
// afterwards is always the opponent of the color that just played.
func (p *Position) ApplyFor(m Move, player PlayerColor) error {
	rec := record{move: m, player: player, prevToMove: p.toMove, prevWinner: p.winner}
	if m.IsPass() {
		p.history = append(p.history, rec)
		p.setToMove(OtherPlayer(player))
		return nil
	}
	if !m.InBounds(p.size) {
		return fmt.Errorf("move (%d,%d) out of bounds for size %d", m.X, m.Y, p.size)
	}
	idx := p.index(m)
	if p.cells[idx] != CellEmpty {
		return fmt.Errorf("cell (%d,%d) is occupied", m.X, m.Y)
	}
	p.history = append(p.history, rec)
	cell := CellFromPlayer(player)
	p.cells[idx] = cell
	p.empty--
	p.hash ^= p.zob.stone(m.X, m.Y, cell)
	if p.winner == CellEmpty && p.lineThrough(m, cell) >= winLength {
		p.winner = cell
	}
	p.setToMove(OtherPlayer(player))
	return nil
}

// Undo reverts the most recent Apply. Calling it with no move applied is a
// programming error.
func (p *Position) Undo() {
	n := len(p.history)
	if n == 0 {
		panic("board: Undo without matching Apply")
	}
	rec := p.history[n-1]
	p.history = p.history[:n-1]
	if !rec.move.IsPass() {
		idx := p.index(rec.move)
		p.hash ^= p.zob.stone(rec.move.X, rec.move.Y, p.cells[idx])
		p.cells[idx] = CellEmpty
		p.empty++
	}
	p.winner = rec.prevWinner
	p.setToMove(rec.prevToMove)
}

func (p *Position) setToMove(c PlayerColor) {
	if p.toMove == PlayerWhite {
		p.hash ^= p.zob.side
	}
	p.toMove = c
	if c == PlayerWhite {
		p.hash ^= p.zob.side
	}
}

// LegalMoves lists every empty cell in row-major enumeration order. The
// order is part of the engine's determinism: ties everywhere downstream are
// broken by it.
func (p *Position) LegalMoves() []Move {
	moves := make([]Move, 0, p.empty)
	for y := 0; y < p.size; y++ {
		for x := 0; x < p.size; x++ {
			if p.cells[y*p.size+x] == CellEmpty {
				moves = append(moves, Move{X: x, Y: y})
			}
		}
	}
	return moves
}

var lineDirs = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// lineThrough returns the length of the longest run of cell's color passing
// through m, across the four line directions.
func (p *Position) lineThrough(m Move, cell Cell) int {
	best := 0
	for _, d := range lineDirs {
		run := 1 + p.countRun(m, d[0], d[1], cell) + p.countRun(m, -d[0], -d[1], cell)
		if run > best {
			best = run
		}
	}
	return best
}

func (p *Position) countRun(m Move, dx, dy int, cell Cell) int {
	n := 0
	x, y := m.X+dx, m.Y+dy
	for p.InBounds(x, y) && p.cells[y*p.size+x] == cell {
		n++
		x, y = x+dx, y+dy
	}
	return n
}

// FiveInARow scans the whole grid and returns the color holding a completed
// five, or CellEmpty. Apply keeps winner up to date incrementally; the full
// scan exists for positions assembled out of order.
func (p *Position) FiveInARow() Cell {
	for y := 0; y < p.size; y++ {
		for x := 0; x < p.size; x++ {
			cell := p.cells[y*p.size+x]
			if cell == CellEmpty {
				continue
			}
			for _, d := range lineDirs {
				px, py := x-d[0], y-d[1]
				if p.InBounds(px, py) && p.cells[py*p.size+px] == cell {
					continue // not the start of the run
				}
				if 1+p.countRun(Move{X: x, Y: y}, d[0], d[1], cell) >= winLength {
					return cell
				}
			}
		}
	}
	return CellEmpty
}

// Clone returns an independent deep copy.
func (p *Position) Clone() *Position {
	c := &Position{
		size:    p.size,
		cells:   append([]Cell(nil), p.cells...),
		toMove:  p.toMove,
		empty:   p.empty,
		hash:    p.hash,
		winner:  p.winner,
		history: append([]record(nil), p.history...),
		zob:     p.zob,
	}
	return c
}

// CopyFrom overwrites the receiver with other's state.
func (p *Position) CopyFrom(other *Position) {
	p.size = other.size
	p.cells = append(p.cells[:0], other.cells...)
	p.toMove = other.toMove
	p.empty = other.empty
	p.hash = other.hash
	p.winner = other.winner
	p.history = append(p.history[:0], other.history...)
	p.zob = other.zob
}

func cellRune(c Cell) byte {
	switch c {
	case CellBlack:
		return 'X'
	case CellWhite:
		return 'O'
	}
	return '.'
}

// Diagram renders the grid with the highest row first, the orientation GUI
// front ends expect.
func (p *Position) Diagram() string {
	var b strings.Builder
	for y := p.size - 1; y >= 0; y-- {
		for x := 0; x < p.size; x++ {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte(cellRune(p.cells[y*p.size+x]))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Parse builds a position from a Diagram-style grid: one row per line,
// highest row first, cells X / O / '.', whitespace between cells optional.
// The fingerprint, empty count and winner are recomputed from scratch.
func Parse(diagram string, toMove PlayerColor) (*Position, error) {
	var rows []string
	for _, line := range strings.Split(strings.TrimSpace(diagram), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows = append(rows, strings.ReplaceAll(line, " ", ""))
	}
	size := len(rows)
	p, err := NewPosition(size)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != size {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(row), size)
		}
		y := size - 1 - i
		for x := 0; x < size; x++ {
			switch row[x] {
			case '.':
			case 'X', 'x':
				p.cells[y*size+x] = CellBlack
				p.empty--
			case 'O', 'o':
				p.cells[y*size+x] = CellWhite
				p.empty--
			default:
				return nil, fmt.Errorf("row %d: unexpected cell %q", i, row[x])
			}
		}
	}
	p.toMove = toMove
	p.winner = p.FiveInARow()
	p.hash = p.computeHash()
	return p, nil
}

// MustParse is Parse for tests and fixed setups.
func MustParse(diagram string, toMove PlayerColor) *Position {
	p, err := Parse(diagram, toMove)
	if err != nil {
		panic(err)
	}
	return p
}
