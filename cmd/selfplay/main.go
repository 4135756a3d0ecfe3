// Self-play benchmark: plays the engine against itself for a number of
// games, parallel across games, and reports the outcome tally and search
// volume. Each game owns its solver and transposition table.
package main

import (
	"flag"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"gomoku-solver/internal/board"
	"gomoku-solver/internal/heuristic"
	"gomoku-solver/internal/solver"
)

type tally struct {
	mu         sync.Mutex
	blackWins  int
	whiteWins  int
	draws      int
	totalMoves int
	totalNodes int64
}

func main() {
	games := flag.Int("games", 10, "number of games to play")
	size := flag.Int("size", 7, "board size")
	budgetMs := flag.Int("budget", 100, "per-move solve budget in milliseconds")
	parallel := flag.Int("parallel", 4, "games in flight at once")
	ttSize := flag.Int("tt-size", 1<<18, "transposition table size per game")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*debug {
		log = log.Level(zerolog.InfoLevel)
	}

	budget := time.Duration(*budgetMs) * time.Millisecond
	var results tally
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(*parallel)
	for i := 0; i < *games; i++ {
		g.Go(func() error {
			return playGame(*size, *ttSize, budget, &results, log)
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("selfplay failed")
	}

	log.Info().
		Int("games", *games).
		Int("black_wins", results.blackWins).
		Int("white_wins", results.whiteWins).
		Int("draws", results.draws).
		Int("moves", results.totalMoves).
		Int64("nodes", results.totalNodes).
		Dur("elapsed", time.Since(start)).
		Msg("selfplay finished")
}

func playGame(size, ttSize int, budget time.Duration, results *tally, log zerolog.Logger) error {
	gameID := uuid.NewString()
	gameLog := log.With().Str("game", gameID).Logger()

	pos, err := board.NewPosition(size)
	if err != nil {
		return err
	}
	s := solver.New(solver.Options{
		TTSize:     ttSize,
		OrderMoves: true,
		Logger:     gameLog,
	})

	moves := 0
	var nodes int64
	for !pos.Terminal() {
		res, err := s.Solve(pos, budget)
		if err != nil {
			return err
		}
		nodes += res.Stats.Nodes

		move := board.MovePass
		if (res.Verdict == solver.VerdictWin || res.Verdict == solver.VerdictDraw) && !res.Move.IsPass() {
			move = res.Move
		} else if m, ok := heuristic.BestMove(pos); ok {
			move = m
		}
		if move.IsPass() {
			break
		}
		if err := pos.Apply(move); err != nil {
			return err
		}
		moves++
	}

	results.mu.Lock()
	switch pos.Winner() {
	case board.CellBlack:
		results.blackWins++
	case board.CellWhite:
		results.whiteWins++
	default:
		results.draws++
	}
	results.totalMoves += moves
	results.totalNodes += nodes
	results.mu.Unlock()

	gameLog.Debug().Int("moves", moves).Int64("nodes", nodes).Msg("game finished")
	return nil
}
