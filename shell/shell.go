// Package shell is an interactive readline loop for playing against the
// engine and poking at positions.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/AlanRexcop/animal-chess/board"
	"github.com/AlanRexcop/animal-chess/config"
	"github.com/AlanRexcop/animal-chess/eval"
	"github.com/AlanRexcop/animal-chess/move"
	"github.com/AlanRexcop/animal-chess/pieces"
	"github.com/AlanRexcop/animal-chess/rules"
	"github.com/AlanRexcop/animal-chess/search"
)

type ShellController struct {
	l   *readline.Instance
	cfg *config.Config

	b      *board.Board
	toMove pieces.Side
	solver *search.Solver
	ev     *eval.Evaluator
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32manimal-chess>\033[0m ",
		HistoryFile:     "/tmp/animalchess_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	ev := eval.New(cfg.Weights)
	sc := &ShellController{
		l:      l,
		cfg:    cfg,
		ev:     ev,
		solver: search.NewSolver(ev, cfg.TTMemFraction),
	}
	sc.newGame()
	return sc
}

func (sc *ShellController) newGame() {
	sc.b = board.New()
	sc.toMove = pieces.Red
}

func (sc *ShellController) out() io.Writer {
	return sc.l.Stderr()
}

func (sc *ShellController) showBoard() {
	showMessage(sc.b.ToDisplayText(), sc.out())
	showMessage(fmt.Sprintf("%v to move", sc.toMove), sc.out())
}

// playMove applies a human move after checking it against the rules
// engine.
func (sc *ShellController) playMove(m move.Move) error {
	p := sc.b.PieceAt(int(m.FromRow), int(m.FromCol))
	if p == nil {
		return fmt.Errorf("no piece on %s", m.String()[:2])
	}
	if p.Side != sc.toMove {
		return fmt.Errorf("it is %v's turn", sc.toMove)
	}
	legal := false
	for _, d := range rules.LegalDestinations(sc.b, p) {
		if d[0] == int(m.ToRow) && d[1] == int(m.ToCol) {
			legal = true
			break
		}
	}
	if !legal {
		return fmt.Errorf("illegal move %s for %v", m, p.Kind)
	}
	if victim := sc.b.PieceAt(int(m.ToRow), int(m.ToCol)); victim != nil {
		m.Captured = victim.Kind
	}
	if _, err := sc.b.MakeMove(m); err != nil {
		return err
	}
	sc.toMove = sc.toMove.Other()
	return nil
}

// engineMove asks the solver for the current side's move and applies it.
func (sc *ShellController) engineMove() error {
	res, err := sc.solver.BestMove(context.Background(), search.Request{
		Board:      sc.b,
		SideToMove: sc.toMove,
		MaxDepth:   sc.cfg.MaxDepth,
		TimeBudget: time.Duration(sc.cfg.TimeBudgetMs) * time.Millisecond,
	})
	if err != nil {
		return err
	}
	if !res.HasMove {
		showMessage(fmt.Sprintf("%v has no legal moves", sc.toMove), sc.out())
		return nil
	}
	showMessage(fmt.Sprintf("engine plays %s (depth %d, score %d, %d nodes in %v)",
		res.Move, res.DepthCompleted, res.Score, res.Nodes, res.Elapsed.Round(time.Millisecond)), sc.out())
	if _, err := sc.b.MakeMove(res.Move); err != nil {
		return err
	}
	sc.toMove = sc.toMove.Other()
	return nil
}

func (sc *ShellController) showLegalMoves() {
	moves := rules.AllLegalMoves(sc.b, sc.toMove)
	if len(moves) == 0 {
		showMessage("no legal moves", sc.out())
		return
	}
	strs := make([]string, len(moves))
	for i, m := range moves {
		strs[i] = m.String()
	}
	showMessage(strings.Join(strs, " "), sc.out())
}

// autoplay has the engine play both sides until the game ends or the
// move cap is hit.
func (sc *ShellController) autoplay(maxMoves int) {
	for i := 0; i < maxMoves; i++ {
		if st := sc.b.TerminalState(); st != board.Ongoing {
			showMessage("game over: "+st.String(), sc.out())
			return
		}
		if len(rules.AllLegalMoves(sc.b, sc.toMove)) == 0 {
			showMessage(fmt.Sprintf("%v is immobilized; passing", sc.toMove), sc.out())
			sc.toMove = sc.toMove.Other()
			continue
		}
		if err := sc.engineMove(); err != nil {
			showMessage("error: "+err.Error(), sc.out())
			return
		}
		sc.showBoard()
	}
	showMessage("move cap reached", sc.out())
}

const helpText = `commands:
  new            start a new game
  show           print the board
  move <a3b3>    play a move (columns a-g, rows 1-9 from Red's side)
  gen            list legal moves for the side to move
  eval           static evaluation of the position, Red's view
  best           engine plays the current side's move
  autoplay [n]   engine plays both sides (default 200 half-moves)
  help           this text
  exit           leave the shell`

// Loop reads commands until exit/EOF.
func (sc *ShellController) Loop() {
	defer sc.l.Close()
	sc.showBoard()
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if err := sc.execute(fields); err != nil {
			if errors.Is(err, errExitShell) {
				break
			}
			showMessage("error: "+err.Error(), sc.out())
		}
	}
	log.Debug().Msg("leaving shell")
}

var errExitShell = errors.New("exit")

func (sc *ShellController) execute(fields []string) error {
	cmd := fields[0]
	switch cmd {
	case "new":
		sc.newGame()
		sc.showBoard()
	case "show":
		sc.showBoard()
	case "move", "m":
		if len(fields) < 2 {
			return errors.New("usage: move <a3b3>")
		}
		m, err := move.Parse(fields[1])
		if err != nil {
			return err
		}
		if err := sc.playMove(m); err != nil {
			return err
		}
		sc.showBoard()
		if st := sc.b.TerminalState(); st != board.Ongoing {
			showMessage("game over: "+st.String(), sc.out())
		}
	case "gen":
		sc.showLegalMoves()
	case "eval":
		showMessage(strconv.Itoa(sc.ev.Score(sc.b, pieces.Red)), sc.out())
	case "best":
		if err := sc.engineMove(); err != nil {
			return err
		}
		sc.showBoard()
		if st := sc.b.TerminalState(); st != board.Ongoing {
			showMessage("game over: "+st.String(), sc.out())
		}
	case "autoplay":
		maxMoves := 200
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return err
			}
			maxMoves = n
		}
		sc.autoplay(maxMoves)
	case "help":
		showMessage(helpText, sc.out())
	case "exit", "quit":
		return errExitShell
	default:
		return fmt.Errorf("unknown command %q; try help", cmd)
	}
	return nil
}
