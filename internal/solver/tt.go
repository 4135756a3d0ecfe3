package solver

import (
	"gomoku-solver/internal/board"
)

type Flag uint8

const (
	FlagExact Flag = iota
	FlagLower
	FlagUpper
)

// Entry is one transposition table slot. Depth is the depth of the subtree
// the score summarizes; BestMove is the move that produced it, when one was
// found (BestMove.InBounds is the presence test).
type Entry struct {
	Key      uint64
	Score    int32
	Depth    int16
	Flag     Flag
	BestMove board.Move
	Gen      uint32
	Valid    bool
}

// Table is a fixed-size, set-associative transposition table. Capacity is
// rounded up to a power of two so the bucket index is a mask. The table is
// mutated by a single search episode at a time; there are no locks.
type Table struct {
	entries []Entry
	mask    uint64
	buckets int
	gen     uint32
	stored  int
}

const (
	DefaultTableSize = 1 << 20
	DefaultBuckets   = 4
)

func nextPowerOfTwo(n uint64) uint64 {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

func NewTable(size int, buckets int) *Table {
	if size <= 0 {
		size = DefaultTableSize
	}
	if buckets <= 0 {
		buckets = DefaultBuckets
	}
	capacity := nextPowerOfTwo(uint64(size))
	return &Table{
		entries: make([]Entry, capacity*uint64(buckets)),
		mask:    capacity - 1,
		buckets: buckets,
		gen:     1,
	}
}

func (t *Table) Capacity() int { return len(t.entries) }
func (t *Table) Count() int    { return t.stored }
func (t *Table) Buckets() int  { return t.buckets }

// NextGeneration ages every stored entry by one search. Old generations
// become replacement victims before deep recent ones.
func (t *Table) NextGeneration() {
	t.gen++
	if t.gen == 0 {
		t.gen = 1
	}
}

func (t *Table) Clear() {
	for i := range t.entries {
		t.entries[i] = Entry{}
	}
	t.gen = 1
	t.stored = 0
}

func (t *Table) bucket(key uint64) []Entry {
	start := int(key&t.mask) * t.buckets
	return t.entries[start : start+t.buckets]
}

func (t *Table) Probe(key uint64) (Entry, bool) {
	for _, e := range t.bucket(key) {
		if e.Valid && e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// replacementClass ranks how replaceable an entry is against an incoming
// store: 0 keep, higher is a better victim.
func (t *Table) replacementClass(e Entry, depth int16, flag Flag) int {
	if !e.Valid {
		return 4
	}
	age := t.gen - e.Gen
	if age > 2 {
		return 3
	}
	if depth > e.Depth {
		return 2
	}
	if depth == e.Depth && flag == FlagExact && e.Flag != FlagExact {
		return 1
	}
	return 0
}

// Store writes (or refuses to write) an entry. A slot holding the same key
// is always the target; otherwise the most replaceable slot in the bucket
// wins, and if every slot is worth more than the incoming entry the store
// is dropped.
func (t *Table) Store(key uint64, depth int, score int, flag Flag, best board.Move) {
	entry := Entry{
		Key:      key,
		Score:    int32(score),
		Depth:    int16(depth),
		Flag:     flag,
		BestMove: best,
		Gen:      t.gen,
		Valid:    true,
	}
	bucket := t.bucket(key)
	for i := range bucket {
		if bucket[i].Valid && bucket[i].Key == key {
			if entry.Depth >= bucket[i].Depth || entry.Flag == FlagExact {
				if entry.BestMove.IsPass() && !bucket[i].BestMove.IsPass() {
					// keep a known best move when the refresh has none
					entry.BestMove = bucket[i].BestMove
				}
				bucket[i] = entry
			}
			return
		}
	}
	victim, victimClass := -1, 0
	for i := range bucket {
		if class := t.replacementClass(bucket[i], entry.Depth, entry.Flag); class > victimClass {
			victim, victimClass = i, class
		}
	}
	if victim < 0 {
		return
	}
	if !bucket[victim].Valid {
		t.stored++
	}
	bucket[victim] = entry
}
