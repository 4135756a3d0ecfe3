package board

import "sync"

// zobristTable holds the random keys for one board size: one key per
// (cell, color) pair plus a single side-to-move key. Keys are generated
// deterministically so fingerprints are stable across runs, which the
// transposition table snapshot relies on.
type zobristTable struct {
	size  int
	cells []uint64 // [y*size+x]*2 + colorOffset
	side  uint64
}

var zobristCache = struct {
	mu     sync.Mutex
	tables map[int]*zobristTable
}{tables: make(map[int]*zobristTable)}

func zobristFor(size int) *zobristTable {
	zobristCache.mu.Lock()
	defer zobristCache.mu.Unlock()
	if t, ok := zobristCache.tables[size]; ok {
		return t
	}
	rng := splitmix64{state: 0x9E3779B97F4A7C15 ^ uint64(size)}
	t := &zobristTable{
		size:  size,
		cells: make([]uint64, size*size*2),
	}
	for i := range t.cells {
		t.cells[i] = rng.next()
	}
	t.side = rng.next()
	zobristCache.tables[size] = t
	return t
}

func (t *zobristTable) stone(x, y int, cell Cell) uint64 {
	offset := 0
	if cell == CellWhite {
		offset = 1
	}
	return t.cells[(y*t.size+x)*2+offset]
}

// computeHash recomputes the fingerprint from scratch. Apply/Undo maintain
// it incrementally; this is the ground truth they must agree with.
func (p *Position) computeHash() uint64 {
	h := uint64(0)
	for y := 0; y < p.size; y++ {
		for x := 0; x < p.size; x++ {
			if cell := p.cells[y*p.size+x]; cell != CellEmpty {
				h ^= p.zob.stone(x, y, cell)
			}
		}
	}
	if p.toMove == PlayerWhite {
		h ^= p.zob.side
	}
	return h
}

// splitmix64 is a tiny deterministic generator, good enough for zobrist
// keys and cheap to reseed per board size.
type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
