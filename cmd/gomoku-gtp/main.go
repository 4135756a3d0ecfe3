package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"gomoku-solver/internal/board"
	"gomoku-solver/internal/config"
	"gomoku-solver/internal/gtp"
	"gomoku-solver/internal/solver"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON config file")
	boardSize := flag.Int("boardsize", 0, "override the configured board size")
	debug := flag.Bool("debug", false, "force debug logging")
	flag.Parse()

	// stdout carries the protocol; logging goes to stderr only
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	if *boardSize > 0 {
		cfg.BoardSize = *boardSize
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("parsing log level")
	}
	log = log.Level(level)
	board.SetWeights(cfg.Weights)

	conn, err := gtp.NewConnection(cfg, os.Stdout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("starting gtp connection")
	}
	if cfg.PersistTT {
		if err := solver.LoadTable(cfg.TTSnapshotPath, conn.Solver().Table(), log); err != nil {
			log.Warn().Err(err).Msg("loading table snapshot")
		}
	}

	runErr := conn.Run(os.Stdin)

	if cfg.PersistTT {
		if err := solver.SaveTable(cfg.TTSnapshotPath, conn.Solver().Table(), log); err != nil {
			log.Warn().Err(err).Msg("saving table snapshot")
		}
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}
