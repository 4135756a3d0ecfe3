package solver

import (
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"gomoku-solver/internal/board"
)

var (
	// ErrDeadlineExceeded aborts the search from inside; each frame undoes
	// its own move before propagating it, so the board comes back intact.
	ErrDeadlineExceeded = errors.New("solver: deadline exceeded")
	// ErrSearchActive is returned by Solve while another episode holds the
	// solver.
	ErrSearchActive = errors.New("solver: search already in progress")
)

// scoreInf sits just outside the proven magnitude so a proved win can still
// raise alpha inside the root window.
const scoreInf = board.ScoreWin + 1

type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictWin
	VerdictLoss
	VerdictDraw
)

func (v Verdict) String() string {
	switch v {
	case VerdictWin:
		return "win"
	case VerdictLoss:
		return "loss"
	case VerdictDraw:
		return "draw"
	}
	return "unknown"
}

// Result is the outcome of one solve episode, from the perspective of the
// side to move at the root. Move is MovePass when the verdict carries no
// recommendation (a loss, a full board, a timeout).
type Result struct {
	Verdict Verdict
	Move    board.Move
	Score   int
	Depth   int
	Stats   Stats
}

// Stats are the counters of a single solve episode.
type Stats struct {
	Nodes          int64
	TTProbes       int64
	TTHits         int64
	TTCutoffs      int64
	Cutoffs        int64
	OrderingEvals  int64
	CompletedDepth int
	DepthDurations []time.Duration
	Elapsed        time.Duration
}

type Options struct {
	TTSize     int
	TTBuckets  int
	OrderMoves bool
	Logger     zerolog.Logger
}

// Solver owns a transposition table and runs one search episode at a time.
// During Solve it is the only mutator of the position it was handed.
type Solver struct {
	tt     *Table
	order  bool
	log    zerolog.Logger
	active atomic.Bool
}

func New(opts Options) *Solver {
	return &Solver{
		tt:    NewTable(opts.TTSize, opts.TTBuckets),
		order: opts.OrderMoves,
		log:   opts.Logger,
	}
}

// Table exposes the transposition table for persistence.
func (s *Solver) Table() *Table { return s.tt }

// SetTable swaps in a table restored from disk.
func (s *Solver) SetTable(t *Table) {
	if t != nil {
		s.tt = t
	}
}

// ResetTable drops all accumulated entries; a fresh game starts cold.
func (s *Solver) ResetTable() {
	s.tt.Clear()
}

type searchContext struct {
	pos      *board.Position
	tt       *Table
	deadline time.Time
	stats    *Stats
	order    bool
}

// provenCutoff reports whether a stored entry decides the node outright,
// regardless of the current depth limit: proofs do not expire.
func provenCutoff(e Entry) (int, bool) {
	s := int(e.Score)
	switch e.Flag {
	case FlagExact:
		if s == board.ScoreWin || s == -board.ScoreWin {
			return s, true
		}
	case FlagLower:
		if s == board.ScoreWin {
			return s, true
		}
	case FlagUpper:
		if s == -board.ScoreWin {
			return s, true
		}
	}
	return 0, false
}

// alphaBeta is a fail-hard negamax search to the given depth limit. It
// returns the node value for the side to move and the move that achieved
// it at this node (MovePass when none improved alpha). On deadline it
// returns ErrDeadlineExceeded with the position already restored to this
// frame's entry state.
func (sc *searchContext) alphaBeta(alpha, beta, depth, limit int) (int, board.Move, error) {
	key := sc.pos.Fingerprint()
	sc.stats.TTProbes++
	if e, ok := sc.tt.Probe(key); ok {
		sc.stats.TTHits++
		if v, proven := provenCutoff(e); proven {
			sc.stats.TTCutoffs++
			return v, e.BestMove, nil
		}
		if int(e.Depth) >= limit-depth {
			v := int(e.Score)
			switch e.Flag {
			case FlagExact:
				sc.stats.TTCutoffs++
				return v, e.BestMove, nil
			case FlagLower:
				if v > alpha {
					alpha = v
				}
			case FlagUpper:
				if v < beta {
					beta = v
				}
			}
			if alpha >= beta {
				sc.stats.TTCutoffs++
				return v, e.BestMove, nil
			}
		}
	}
	if sc.pos.Terminal() || depth == limit {
		v := sc.pos.StaticEval()
		sc.tt.Store(key, limit-depth, v, FlagExact, board.MovePass)
		return v, board.MovePass, nil
	}
	if !time.Now().Before(sc.deadline) {
		return 0, board.MovePass, ErrDeadlineExceeded
	}
	sc.stats.Nodes++

	origAlpha := alpha
	best := board.MovePass
	for _, m := range sc.orderedMoves() {
		if !time.Now().Before(sc.deadline) {
			return 0, board.MovePass, ErrDeadlineExceeded
		}
		if err := sc.pos.Apply(m); err != nil {
			return 0, board.MovePass, errors.Wrapf(err, "applying (%d,%d)", m.X, m.Y)
		}
		v, _, err := sc.alphaBeta(-beta, -alpha, depth+1, limit)
		sc.pos.Undo()
		if err != nil {
			return 0, board.MovePass, err
		}
		v = -v
		if v > alpha {
			alpha = v
			best = m
		}
		if alpha >= beta {
			sc.stats.Cutoffs++
			sc.tt.Store(key, limit-depth, beta, FlagLower, m)
			return beta, m, nil
		}
	}
	flag := FlagExact
	if alpha <= origAlpha {
		flag = FlagUpper
	}
	sc.tt.Store(key, limit-depth, alpha, flag, best)
	return alpha, best, nil
}

// Solve runs iterative deepening on pos within the given wall-clock budget
// and reports the outcome for the side to move. The position is returned
// exactly as it was handed in, including after a timeout. A terminal root
// is answered directly without searching.
func (s *Solver) Solve(pos *board.Position, budget time.Duration) (Result, error) {
	if !s.active.CompareAndSwap(false, true) {
		return Result{}, ErrSearchActive
	}
	defer s.active.Store(false)

	start := time.Now()
	stats := Stats{}
	if pos.Terminal() {
		res := Result{Move: board.MovePass, Stats: stats}
		switch v := pos.StaticEval(); v {
		case board.ScoreWin:
			res.Verdict, res.Score = VerdictWin, v
		case -board.ScoreWin:
			res.Verdict, res.Score = VerdictLoss, v
		default:
			res.Verdict, res.Score = VerdictDraw, 0
		}
		return res, nil
	}

	s.tt.NextGeneration()
	snapshot := pos.Clone()
	sc := &searchContext{
		pos:      pos,
		tt:       s.tt,
		deadline: start.Add(budget),
		stats:    &stats,
		order:    s.order,
	}

	value, best := 0, board.MovePass
	maxDepth := pos.EmptyCount()
	for d := 1; d <= maxDepth; d++ {
		depthStart := time.Now()
		v, mv, err := sc.alphaBeta(-scoreInf, scoreInf, 0, d)
		if err != nil {
			if !errors.Is(err, ErrDeadlineExceeded) {
				pos.CopyFrom(snapshot)
				return Result{}, err
			}
			if pos.Fingerprint() != snapshot.Fingerprint() {
				pos.CopyFrom(snapshot)
			}
			stats.Elapsed = time.Since(start)
			s.logStats("solve timed out", stats)
			return Result{Verdict: VerdictUnknown, Move: board.MovePass, Depth: stats.CompletedDepth, Stats: stats}, nil
		}
		value, best = v, mv
		stats.CompletedDepth = d
		stats.DepthDurations = append(stats.DepthDurations, time.Since(depthStart))
		if value == board.ScoreWin || value == -board.ScoreWin {
			break
		}
	}
	stats.Elapsed = time.Since(start)

	res := Result{Score: value, Depth: stats.CompletedDepth, Stats: stats}
	switch value {
	case board.ScoreWin:
		res.Verdict, res.Move = VerdictWin, best
	case -board.ScoreWin:
		res.Verdict, res.Move = VerdictLoss, board.MovePass
	default:
		res.Verdict, res.Move = VerdictDraw, best
	}
	s.logStats("solve finished", res.Stats)
	return res, nil
}

func (s *Solver) logStats(msg string, st Stats) {
	s.log.Debug().
		Int64("nodes", st.Nodes).
		Int64("tt_probes", st.TTProbes).
		Int64("tt_hits", st.TTHits).
		Int64("tt_cutoffs", st.TTCutoffs).
		Int64("cutoffs", st.Cutoffs).
		Int64("ordering_evals", st.OrderingEvals).
		Int("completed_depth", st.CompletedDepth).
		Dur("elapsed", st.Elapsed).
		Msg(msg)
}
