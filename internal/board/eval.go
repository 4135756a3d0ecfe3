package board

import (
	"bytes"
	"sync"
)

// ScoreWin is the proven outcome magnitude. Heuristic estimates are clamped
// strictly inside it, so |score| == ScoreWin always means a proved result.
const ScoreWin = 1_000_000

// heuristicCap bounds what the pattern evaluator may return.
const heuristicCap = ScoreWin / 2

// Weights are the pattern values the static evaluator sums per side. Open
// runs have both extension cells free, closed runs one, broken runs a gap
// inside the stones.
type Weights struct {
	Open4   int `json:"open_4"`
	Closed4 int `json:"closed_4"`
	Broken4 int `json:"broken_4"`
	Open3   int `json:"open_3"`
	Broken3 int `json:"broken_3"`
	Closed3 int `json:"closed_3"`
	Open2   int `json:"open_2"`
	Broken2 int `json:"broken_2"`
}

func DefaultWeights() Weights {
	return Weights{
		Open4:   50_000,
		Closed4: 6_000,
		Broken4: 6_000,
		Open3:   3_000,
		Broken3: 1_500,
		Closed3: 400,
		Open2:   200,
		Broken2: 100,
	}
}

var (
	weightsMu  sync.RWMutex
	evalWeight = DefaultWeights()
)

// SetWeights replaces the evaluator weights, normally once at startup from
// config.
func SetWeights(w Weights) {
	weightsMu.Lock()
	evalWeight = w
	weightsMu.Unlock()
}

func currentWeights() Weights {
	weightsMu.RLock()
	defer weightsMu.RUnlock()
	return evalWeight
}

// StaticEval scores the position for the side to move. Terminal positions
// get the proven values: -ScoreWin when the opponent holds a completed five
// (+ScoreWin in the mirrored case), 0 for a full board. Everything else is
// the pattern heuristic, antisymmetric in the side to move.
func (p *Position) StaticEval() int {
	if p.winner != CellEmpty {
		if p.winner == CellFromPlayer(p.toMove) {
			return ScoreWin
		}
		return -ScoreWin
	}
	if p.empty == 0 {
		return 0
	}
	w := currentWeights()
	me := CellFromPlayer(p.toMove)
	opp := CellFromPlayer(OtherPlayer(p.toMove))
	score := p.patternScore(me, w) - p.patternScore(opp, w)
	if score > heuristicCap {
		return heuristicCap
	}
	if score < -heuristicCap {
		return -heuristicCap
	}
	return score
}

type pattern struct {
	tokens []byte
	weight func(Weights) int
}

// Pattern alphabet: 'M' the scored side, 'O' opponent or border, '.' empty.
var evalPatterns = []pattern{
	{[]byte(".MMMM."), func(w Weights) int { return w.Open4 }},
	{[]byte("OMMMM."), func(w Weights) int { return w.Closed4 }},
	{[]byte(".MMMMO"), func(w Weights) int { return w.Closed4 }},
	{[]byte("MMM.M"), func(w Weights) int { return w.Broken4 }},
	{[]byte("M.MMM"), func(w Weights) int { return w.Broken4 }},
	{[]byte("MM.MM"), func(w Weights) int { return w.Broken4 }},
	{[]byte(".MMM."), func(w Weights) int { return w.Open3 }},
	{[]byte(".MM.M."), func(w Weights) int { return w.Broken3 }},
	{[]byte(".M.MM."), func(w Weights) int { return w.Broken3 }},
	{[]byte("OMMM."), func(w Weights) int { return w.Closed3 }},
	{[]byte(".MMMO"), func(w Weights) int { return w.Closed3 }},
	{[]byte(".MM."), func(w Weights) int { return w.Open2 }},
	{[]byte(".M.M."), func(w Weights) int { return w.Broken2 }},
}

func (p *Position) patternScore(side Cell, w Weights) int {
	total := 0
	tokens := make([]byte, 0, p.size+2)
	for _, line := range linesFor(p.size) {
		tokens = tokens[:0]
		tokens = append(tokens, 'O') // border blocks runs like a stone does
		for _, idx := range line {
			switch p.cells[idx] {
			case side:
				tokens = append(tokens, 'M')
			case CellEmpty:
				tokens = append(tokens, '.')
			default:
				tokens = append(tokens, 'O')
			}
		}
		tokens = append(tokens, 'O')
		for _, pat := range evalPatterns {
			total += countMatches(tokens, pat.tokens) * pat.weight(w)
		}
	}
	return total
}

func countMatches(tokens, pat []byte) int {
	n := 0
	for i := 0; i+len(pat) <= len(tokens); i++ {
		if bytes.Equal(tokens[i:i+len(pat)], pat) {
			n++
		}
	}
	return n
}

var lineCache = struct {
	mu    sync.Mutex
	lines map[int][][]int
}{lines: make(map[int][][]int)}

// linesFor returns every row, column and diagonal of at least winLength
// cells as slices of grid indices, cached per size.
func linesFor(size int) [][]int {
	lineCache.mu.Lock()
	defer lineCache.mu.Unlock()
	if ls, ok := lineCache.lines[size]; ok {
		return ls
	}
	var lines [][]int
	walk := func(x, y, dx, dy int) {
		var line []int
		for x >= 0 && y >= 0 && x < size && y < size {
			line = append(line, y*size+x)
			x, y = x+dx, y+dy
		}
		if len(line) >= winLength {
			lines = append(lines, line)
		}
	}
	for y := 0; y < size; y++ {
		walk(0, y, 1, 0)
	}
	for x := 0; x < size; x++ {
		walk(x, 0, 0, 1)
	}
	for x := 0; x < size; x++ {
		walk(x, 0, 1, 1)
		walk(x, size-1, 1, -1)
	}
	for y := 1; y < size; y++ {
		walk(0, y, 1, 1)
		walk(0, size-1-y, 1, -1)
	}
	lineCache.lines[size] = lines
	return lines
}
