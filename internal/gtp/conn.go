// Package gtp implements the Go Text Protocol front end: a command table
// with argument-count checking, "= "/"? " response framing, and the
// engine-specific solve/genmove commands.
package gtp

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"gomoku-solver/internal/board"
	"gomoku-solver/internal/config"
	"gomoku-solver/internal/heuristic"
	"gomoku-solver/internal/solver"
)

const (
	engineName    = "gomoku-solver"
	engineVersion = "1.0"
)

type handler func(args []string)

type argSpec struct {
	count int
	usage string
}

// Connection dispatches GTP commands against one board and one solver.
// Stdout belongs to the protocol; everything diagnostic goes to the logger.
type Connection struct {
	pos       *board.Position
	solver    *solver.Solver
	cfg       config.Config
	timeLimit time.Duration
	komi      float64
	out       io.Writer
	log       zerolog.Logger
	commands  map[string]handler
	argmap    map[string]argSpec
	quit      bool
}

func NewConnection(cfg config.Config, out io.Writer, log zerolog.Logger) (*Connection, error) {
	pos, err := board.NewPosition(cfg.BoardSize)
	if err != nil {
		return nil, err
	}
	c := &Connection{
		pos: pos,
		solver: solver.New(solver.Options{
			TTSize:     cfg.TTSize,
			TTBuckets:  cfg.TTBuckets,
			OrderMoves: cfg.OrderMoves,
			Logger:     log,
		}),
		cfg:       cfg,
		timeLimit: time.Duration(cfg.TimeLimitSeconds) * time.Second,
		out:       out,
		log:       log,
	}
	c.commands = map[string]handler{
		"protocol_version":         c.protocolVersionCmd,
		"quit":                     c.quitCmd,
		"name":                     c.nameCmd,
		"version":                  c.versionCmd,
		"known_command":            c.knownCommandCmd,
		"list_commands":            c.listCommandsCmd,
		"boardsize":                c.boardsizeCmd,
		"clear_board":              c.clearBoardCmd,
		"komi":                     c.komiCmd,
		"showboard":                c.showboardCmd,
		"play":                     c.playCmd,
		"legal_moves":              c.legalMovesCmd,
		"genmove":                  c.genmoveCmd,
		"timelimit":                c.timelimitCmd,
		"solve":                    c.solveCmd,
		"gogui-rules_game_id":      c.gameIDCmd,
		"gogui-rules_board_size":   c.rulesBoardSizeCmd,
		"gogui-rules_legal_moves":  c.rulesLegalMovesCmd,
		"gogui-rules_side_to_move": c.sideToMoveCmd,
		"gogui-rules_board":        c.rulesBoardCmd,
		"gogui-rules_final_result": c.finalResultCmd,
		"gogui-analyze_commands":   c.analyzeCmd,
	}
	c.argmap = map[string]argSpec{
		"boardsize":     {1, "Usage: boardsize INT"},
		"komi":          {1, "Usage: komi FLOAT"},
		"known_command": {1, "Usage: known_command CMD_NAME"},
		"genmove":       {1, "Usage: genmove {w,b}"},
		"play":          {2, "Usage: play {b,w} MOVE"},
		"legal_moves":   {1, "Usage: legal_moves {w,b}"},
		"timelimit":     {1, "Usage: timelimit INT"},
	}
	return c, nil
}

// Solver exposes the underlying solver, for table persistence around the
// session.
func (c *Connection) Solver() *solver.Solver { return c.solver }

// Run reads commands until EOF or quit.
func (c *Connection) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		c.HandleLine(scanner.Text())
		if c.quit {
			return nil
		}
	}
	return errors.Wrap(scanner.Err(), "reading gtp input")
}

// HandleLine processes one protocol line: comments and blank lines are
// dropped, a leading numeric id is stripped, unknown commands answer with
// an error response.
func (c *Connection) HandleLine(line string) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	if _, err := strconv.Atoi(fields[0]); err == nil {
		fields = fields[1:]
		if len(fields) == 0 {
			return
		}
	}
	name, args := fields[0], fields[1:]
	cmd, ok := c.commands[name]
	if !ok {
		c.log.Debug().Str("command", name).Msg("unknown command")
		c.fail("Unknown command")
		return
	}
	if spec, ok := c.argmap[name]; ok && len(args) != spec.count {
		c.fail(spec.usage)
		return
	}
	cmd(args)
}

func (c *Connection) respond(body string) {
	fmt.Fprintf(c.out, "= %s\n\n", body)
}

func (c *Connection) fail(msg string) {
	fmt.Fprintf(c.out, "? %s\n\n", msg)
}

func (c *Connection) protocolVersionCmd(args []string) {
	c.respond("2")
}

func (c *Connection) quitCmd(args []string) {
	c.quit = true
	c.respond("")
}

func (c *Connection) nameCmd(args []string) {
	c.respond(engineName)
}

func (c *Connection) versionCmd(args []string) {
	c.respond(engineVersion)
}

func (c *Connection) knownCommandCmd(args []string) {
	if _, ok := c.commands[args[0]]; ok {
		c.respond("true")
	} else {
		c.respond("false")
	}
}

func (c *Connection) listCommandsCmd(args []string) {
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	c.respond(strings.Join(names, " "))
}

func (c *Connection) boardsizeCmd(args []string) {
	size, err := strconv.Atoi(args[0])
	if err != nil {
		c.fail(fmt.Sprintf("invalid board size %q", args[0]))
		return
	}
	pos, err := board.NewPosition(size)
	if err != nil {
		c.fail(err.Error())
		return
	}
	c.pos = pos
	c.solver.ResetTable()
	c.respond("")
}

func (c *Connection) clearBoardCmd(args []string) {
	pos, err := board.NewPosition(c.pos.Size())
	if err != nil {
		c.fail(err.Error())
		return
	}
	c.pos = pos
	c.solver.ResetTable()
	c.respond("")
}

func (c *Connection) komiCmd(args []string) {
	komi, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		c.fail(fmt.Sprintf("invalid komi %q", args[0]))
		return
	}
	c.komi = komi // accepted for protocol compatibility; gomoku has no komi
	c.respond("")
}

func (c *Connection) showboardCmd(args []string) {
	c.respond("\n" + strings.TrimRight(c.pos.Diagram(), "\n"))
}

func (c *Connection) playCmd(args []string) {
	color, err := ParseColor(args[0])
	if err != nil {
		c.fail(fmt.Sprintf("illegal move: %s", err))
		return
	}
	move, err := ParsePoint(args[1], c.pos.Size())
	if err != nil {
		c.fail(fmt.Sprintf("illegal move: %s", err))
		return
	}
	if err := c.pos.ApplyFor(move, color); err != nil {
		c.fail(fmt.Sprintf("illegal move: %s", err))
		return
	}
	c.respond("")
}

func (c *Connection) legalMovesCmd(args []string) {
	if _, err := ParseColor(args[0]); err != nil {
		c.fail(err.Error())
		return
	}
	c.respond(c.sortedEmptyPoints())
}

func (c *Connection) sortedEmptyPoints() string {
	moves := c.pos.LegalMoves()
	points := make([]string, len(moves))
	for i, m := range moves {
		points[i] = FormatPoint(m)
	}
	sort.Strings(points)
	return strings.Join(points, " ")
}

func (c *Connection) genmoveCmd(args []string) {
	color, err := ParseColor(args[0])
	if err != nil {
		c.fail(err.Error())
		return
	}
	if winner := c.pos.FiveInARow(); winner != board.CellEmpty && winner != board.CellFromPlayer(color) {
		c.respond("resign")
		return
	}
	if c.pos.EmptyCount() == 0 {
		c.respond("pass")
		return
	}
	move := board.MovePass
	res, err := c.solver.Solve(c.pos, c.timeLimit)
	if err == nil && (res.Verdict == solver.VerdictWin || res.Verdict == solver.VerdictDraw) && !res.Move.IsPass() {
		move = res.Move
	} else {
		if err != nil {
			c.log.Warn().Err(err).Msg("solve failed, using heuristic")
		}
		if m, ok := heuristic.BestMove(c.pos); ok {
			move = m
		}
	}
	if move.IsPass() {
		c.respond("pass")
		return
	}
	if err := c.pos.ApplyFor(move, color); err != nil {
		c.fail(fmt.Sprintf("illegal move: %s", err))
		return
	}
	c.respond(FormatPoint(move))
}

func (c *Connection) timelimitCmd(args []string) {
	seconds, err := strconv.Atoi(args[0])
	if err != nil || seconds < 1 || seconds > 100 {
		c.fail(fmt.Sprintf("invalid timelimit %q", args[0]))
		return
	}
	c.timeLimit = time.Duration(seconds) * time.Second
	c.respond("")
}

// solveCmd answers with the game-theoretic value of the current position
// for the side to move: "b C3" / "w C3" for a proven win, the bare
// opposite color letter for a proven loss, "draw C3" otherwise, "unknown"
// when the time limit ran out. The board is left untouched.
func (c *Connection) solveCmd(args []string) {
	res, err := c.solver.Solve(c.pos, c.timeLimit)
	if err != nil {
		c.fail(err.Error())
		return
	}
	toMove := c.pos.ToMove()
	switch res.Verdict {
	case solver.VerdictWin:
		c.respond(fmt.Sprintf("%s %s", colorLetter(toMove), FormatPoint(res.Move)))
	case solver.VerdictLoss:
		c.respond(colorLetter(board.OtherPlayer(toMove)))
	case solver.VerdictDraw:
		if res.Move.IsPass() {
			// no recommendation survived the search; do not invent one
			c.respond("unknown")
			return
		}
		c.respond(fmt.Sprintf("draw %s", FormatPoint(res.Move)))
	default:
		c.respond("unknown")
	}
}

func (c *Connection) gameIDCmd(args []string) {
	c.respond("Gomoku")
}

func (c *Connection) rulesBoardSizeCmd(args []string) {
	c.respond(strconv.Itoa(c.pos.Size()))
}

func (c *Connection) rulesLegalMovesCmd(args []string) {
	if c.pos.FiveInARow() != board.CellEmpty {
		c.respond("")
		return
	}
	c.respond(c.sortedEmptyPoints())
}

func (c *Connection) sideToMoveCmd(args []string) {
	c.respond(colorName(c.pos.ToMove()))
}

func (c *Connection) rulesBoardCmd(args []string) {
	var b strings.Builder
	b.WriteByte('\n')
	size := c.pos.Size()
	for y := size - 1; y >= 0; y-- {
		for x := 0; x < size; x++ {
			switch c.pos.At(x, y) {
			case board.CellBlack:
				b.WriteByte('X')
			case board.CellWhite:
				b.WriteByte('O')
			default:
				b.WriteByte('.')
			}
		}
		if y > 0 {
			b.WriteByte('\n')
		}
	}
	c.respond(b.String())
}

func (c *Connection) finalResultCmd(args []string) {
	switch c.pos.FiveInARow() {
	case board.CellBlack:
		c.respond("black")
	case board.CellWhite:
		c.respond("white")
	default:
		if c.pos.EmptyCount() == 0 {
			c.respond("draw")
		} else {
			c.respond("unknown")
		}
	}
}

func (c *Connection) analyzeCmd(args []string) {
	c.respond("pstring/Legal Moves For ToPlay/gogui-rules_legal_moves\n" +
		"pstring/Side to Play/gogui-rules_side_to_move\n" +
		"pstring/Final Result/gogui-rules_final_result\n" +
		"pstring/Board Size/gogui-rules_board_size\n" +
		"pstring/Rules GameID/gogui-rules_game_id\n" +
		"pstring/Show Board/gogui-rules_board")
}
