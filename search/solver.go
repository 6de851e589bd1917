// Package search selects the computer's move: a time-bounded
// iterative-deepening alpha-beta over a private board copy, memoized by a
// per-request transposition table keyed by the incremental zobrist hash.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/AlanRexcop/animal-chess/board"
	"github.com/AlanRexcop/animal-chess/eval"
	"github.com/AlanRexcop/animal-chess/move"
	"github.com/AlanRexcop/animal-chess/pieces"
	"github.com/AlanRexcop/animal-chess/rules"
	"github.com/AlanRexcop/animal-chess/zobrist"
)

const hugeScore = 1 << 30

// MaxSearchDepth bounds the ply count and sizes the killer table.
const MaxSearchDepth = 64

const maxKillers = 2

// Move ordering offsets. The hash move is tried first, then the killers,
// then captures by victim-minus-attacker value, then quiet moves nudged by
// den approach.
const (
	hashMoveOffset = 1 << 20
	killer0Offset  = 16000
	killer1Offset  = 15000
	captureOffset  = 2048
)

// depthFinishBonus nudges leaf scores by the remaining depth so the search
// prefers quicker wins and drags out losses.
const depthFinishBonus = 8

// nearWinThreshold stops deepening once a forced finish is already in hand.
const nearWinThreshold = eval.WinScore - 10_000

var (
	// ErrBadRequest covers the malformed-input taxonomy: these are rejected
	// before any search work begins.
	ErrBadRequest = errors.New("bad search request")
	// ErrInconsistentMove is fatal to the request: the rules engine produced
	// a move the board refused, so no result can be trusted.
	ErrInconsistentMove = errors.New("move generation inconsistency")
)

// Request is one search job: a board snapshot, the side to move, and the
// depth and wall-clock limits.
type Request struct {
	Board      *board.Board
	SideToMove pieces.Side
	MaxDepth   int
	TimeBudget time.Duration
}

// DepthLine is one completed iterative-deepening round.
type DepthLine struct {
	Depth   int           `json:"depth"`
	Score   int           `json:"score"`
	Move    move.Move     `json:"-"`
	MoveStr string        `json:"move"`
	Nodes   uint64        `json:"nodes"`
	Elapsed time.Duration `json:"-"`
}

// Result is the driver's answer. HasMove false with a nil error is one of
// two distinct non-error outcomes: the game was already over when the
// request arrived (GameOver), or the side to move is immobilized.
type Result struct {
	Move           move.Move
	HasMove        bool
	GameOver       bool
	DepthCompleted int
	Score          int
	Nodes          uint64
	Elapsed        time.Duration
	Lines          []DepthLine
}

// Solver owns all mutable search state for one request at a time: the
// transposition table, the killer table, the zobrist tables and a private
// board copy. It may be reused across requests; every BestMove call clears
// the tables first. It is not safe for concurrent use.
type Solver struct {
	ev      *eval.Evaluator
	ttable  *transpositionTable
	zobrist zobrist.Zobrist
	killers [MaxSearchDepth][maxKillers]move.Move

	b              *board.Board
	solvingSide    pieces.Side
	rootMoves      []move.Move
	currentIDDepth int
	nodes          atomic.Uint64

	transpositionTableOptim bool
	killerPlayOptim         bool

	// OnDepthCompleted, when set, receives each completed analysis line.
	OnDepthCompleted func(DepthLine)
}

// NewSolver builds a solver that sizes its transposition table as a
// fraction of system memory.
func NewSolver(ev *eval.Evaluator, ttFractionOfMemory float64) *Solver {
	return &Solver{
		ev:                      ev,
		ttable:                  newTranspositionTable(ttFractionOfMemory),
		transpositionTableOptim: true,
		killerPlayOptim:         true,
	}
}

func (s *Solver) SetTranspositionTableOptim(tt bool) {
	s.transpositionTableOptim = tt
}

func (s *Solver) SetKillerPlayOptim(k bool) {
	s.killerPlayOptim = k
}

func (r Request) validate() error {
	if r.Board == nil {
		return fmt.Errorf("%w: nil board", ErrBadRequest)
	}
	if !r.SideToMove.Valid() {
		return fmt.Errorf("%w: invalid side %d", ErrBadRequest, r.SideToMove)
	}
	if r.MaxDepth < 1 {
		return fmt.Errorf("%w: max depth %d, want >= 1", ErrBadRequest, r.MaxDepth)
	}
	if r.MaxDepth > MaxSearchDepth {
		return fmt.Errorf("%w: max depth %d exceeds limit %d", ErrBadRequest, r.MaxDepth, MaxSearchDepth)
	}
	if r.TimeBudget <= 0 {
		return fmt.Errorf("%w: non-positive time budget", ErrBadRequest)
	}
	return nil
}

// BestMove runs the full iterative-deepening search and returns the best
// move found at the deepest fully completed depth. A partially searched
// depth is never adopted.
func (s *Solver) BestMove(ctx context.Context, req Request) (Result, error) {
	if err := req.validate(); err != nil {
		return Result{}, err
	}
	tstart := time.Now()

	// Simulated moves run on a private copy; the caller's board is never
	// touched.
	s.b = req.Board.Copy()
	s.solvingSide = req.SideToMove
	s.nodes.Store(0)
	s.ttable.reset()
	s.clearKillers()
	s.zobrist.Initialize()

	if st := s.b.TerminalState(); st != board.Ongoing {
		log.Debug().Stringer("state", st).Msg("search-on-terminal-position")
		return Result{GameOver: true, Elapsed: time.Since(tstart)}, nil
	}
	s.rootMoves = rules.AllLegalMoves(s.b, s.solvingSide)
	if len(s.rootMoves) == 0 {
		return Result{Elapsed: time.Since(tstart)}, nil
	}
	if len(s.rootMoves) == 1 {
		// A forced move must be answered at depth 1 no matter how small the
		// budget is.
		only := s.rootMoves[0]
		score, err := s.scoreSingleMove(only)
		if err != nil {
			return Result{}, err
		}
		line := DepthLine{Depth: 1, Score: score, Move: only, MoveStr: only.String(), Nodes: 1}
		return Result{
			Move: only, HasMove: true, DepthCompleted: 1, Score: score,
			Nodes: 1, Elapsed: time.Since(tstart), Lines: []DepthLine{line},
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, req.TimeBudget)
	defer cancel()

	res := Result{}
	g := &errgroup.Group{}
	done := make(chan bool)

	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var lastNodes uint64
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				nodes := s.nodes.Load()
				log.Debug().Uint64("nps", nodes-lastNodes).Msg("nodes-per-second")
				lastNodes = nodes
			}
		}
	})

	var searchErr error
	g.Go(func() error {
		defer close(done)
		searchErr = s.iterativelyDeepen(ctx, req.MaxDepth, tstart, &res)
		return nil
	})
	g.Wait()

	if searchErr != nil {
		return Result{}, searchErr
	}
	res.Nodes = s.nodes.Load()
	res.Elapsed = time.Since(tstart)
	log.Info().
		Uint64("ttable-created", s.ttable.created.Load()).
		Uint64("ttable-lookups", s.ttable.lookups.Load()).
		Uint64("ttable-hits", s.ttable.hits.Load()).
		Uint64("ttable-t2collisions", s.ttable.t2collisions.Load()).
		Uint64("nodes", res.Nodes).
		Int("depth-completed", res.DepthCompleted).
		Int("score", res.Score).
		Float64("time-elapsed-sec", res.Elapsed.Seconds()).
		Msg("search-returning")
	return res, nil
}

// scoreSingleMove statically evaluates the position after the one forced
// move.
func (s *Solver) scoreSingleMove(m move.Move) (int, error) {
	undo, err := s.b.MakeMove(m)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInconsistentMove, err)
	}
	score := s.ev.Score(s.b, s.solvingSide)
	s.b.UnmakeMove(undo)
	return score, nil
}

func (s *Solver) iterativelyDeepen(ctx context.Context, maxDepth int, tstart time.Time, res *Result) error {
	initialKey := s.zobrist.Hash(s.b, s.solvingSide)
	log.Debug().Uint64("initial-key", initialKey).Int("max-depth", maxDepth).
		Msg("deepening-iteratively")
	for depth := 1; depth <= maxDepth; depth++ {
		s.currentIDDepth = depth
		bestMove, bestScore, err := s.searchRoot(ctx, initialKey, depth)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				// Expected: discard the in-flight depth, keep the last
				// completed one.
				log.Debug().Int("depth", depth).Msg("budget-exhausted-mid-depth")
				return nil
			}
			return err
		}
		res.Move = bestMove
		res.HasMove = true
		res.DepthCompleted = depth
		res.Score = bestScore
		line := DepthLine{
			Depth: depth, Score: bestScore, Move: bestMove,
			MoveStr: bestMove.String(), Nodes: s.nodes.Load(), Elapsed: time.Since(tstart),
		}
		res.Lines = append(res.Lines, line)
		if s.OnDepthCompleted != nil {
			s.OnDepthCompleted(line)
		}
		log.Debug().Int("depth", depth).Int("score", bestScore).
			Stringer("move", bestMove).Msg("depth-completed")
		if bestScore >= nearWinThreshold || bestScore <= -nearWinThreshold {
			log.Debug().Int("depth", depth).Msg("terminal-score-early-stop")
			break
		}
	}
	return nil
}

type rootSolution struct {
	m     move.Move
	score int
}

// searchRoot evaluates every root move with a full window at the given
// depth and reorders the root move list by score for the next iteration.
func (s *Solver) searchRoot(ctx context.Context, initialKey uint64, depth int) (move.Move, int, error) {
	α, β := -hugeScore, hugeScore
	bestScore := -hugeScore
	var bestMove move.Move
	sols := make([]rootSolution, 0, len(s.rootMoves))
	for _, m := range s.rootMoves {
		p := s.b.PieceAt(int(m.FromRow), int(m.FromCol))
		if p == nil {
			return move.Move{}, 0, fmt.Errorf("%w: root move %s has no mover", ErrInconsistentMove, m)
		}
		movedKind := p.Kind
		undo, err := s.b.MakeMove(m)
		if err != nil {
			return move.Move{}, 0, fmt.Errorf("%w: %v", ErrInconsistentMove, err)
		}
		childKey := s.zobrist.AddMove(initialKey, m, movedKind, s.solvingSide)
		score, err := s.alphabeta(ctx, childKey, depth-1, α, β, false, 1)
		s.b.UnmakeMove(undo)
		if err != nil {
			return move.Move{}, 0, err
		}
		sols = append(sols, rootSolution{m: m, score: score})
		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if bestScore > α {
			α = bestScore
		}
	}
	// Best root moves first next iteration.
	sort.SliceStable(sols, func(i, j int) bool {
		return sols[j].score < sols[i].score
	})
	s.rootMoves = lo.Map(sols, func(sol rootSolution, _ int) move.Move {
		return sol.m
	})
	return bestMove, bestScore, nil
}

// alphabeta searches one node. Scores are always from the solving side's
// perspective; maximizing says whose turn it is. The time budget is a
// cooperative check at node entry, never a preemptive interrupt.
func (s *Solver) alphabeta(ctx context.Context, nodeKey uint64, depth, α, β int, maximizing bool, ply int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.nodes.Add(1)

	alphaOrig, betaOrig := α, β
	var ttMove move.Move
	if s.transpositionTableOptim {
		entry := s.ttable.lookup(nodeKey)
		if entry.valid() && int(entry.depth) >= depth {
			score := int(entry.score)
			switch entry.flag {
			case ttExact:
				return score, nil
			case ttLower:
				if score > α {
					α = score
				}
			case ttUpper:
				if score < β {
					β = score
				}
			}
			if α >= β {
				return score, nil
			}
			ttMove = entry.play
		} else if entry.valid() {
			// Too shallow to trust the score, still the best first try.
			ttMove = entry.play
		}
	}

	if depth == 0 || s.b.TerminalState() != board.Ongoing {
		score := s.leafScore(depth)
		if s.transpositionTableOptim {
			s.ttable.store(nodeKey, tableEntry{
				score: int32(score), depth: uint8(depth), flag: ttExact,
			})
		}
		return score, nil
	}

	stm := s.solvingSide
	if !maximizing {
		stm = stm.Other()
	}
	children := rules.AllLegalMoves(s.b, stm)
	if len(children) == 0 {
		// An immobilized side just stands; score the position as it is.
		return s.leafScore(depth), nil
	}
	s.orderMoves(children, ttMove, ply)

	var bestValue int
	if maximizing {
		bestValue = -hugeScore
	} else {
		bestValue = hugeScore
	}
	var bestMove move.Move
	for _, child := range children {
		movedKind := s.b.PieceAt(int(child.FromRow), int(child.FromCol)).Kind
		undo, err := s.b.MakeMove(child)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInconsistentMove, err)
		}
		childKey := s.zobrist.AddMove(nodeKey, child, movedKind, stm)
		value, err := s.alphabeta(ctx, childKey, depth-1, α, β, !maximizing, ply+1)
		s.b.UnmakeMove(undo)
		if err != nil {
			return value, err
		}
		if maximizing {
			if value > bestValue {
				bestValue, bestMove = value, child
			}
			if bestValue > α {
				α = bestValue
			}
		} else {
			if value < bestValue {
				bestValue, bestMove = value, child
			}
			if bestValue < β {
				β = bestValue
			}
		}
		if β <= α {
			if s.killerPlayOptim && !child.IsCapture() {
				s.storeKiller(ply, child)
			}
			break
		}
	}

	if s.transpositionTableOptim {
		var flag uint8
		switch {
		case bestValue <= alphaOrig:
			flag = ttUpper
		case bestValue >= betaOrig:
			flag = ttLower
		default:
			flag = ttExact
		}
		s.ttable.store(nodeKey, tableEntry{
			score: int32(bestValue), depth: uint8(depth), flag: flag, play: bestMove,
		})
	}
	return bestValue, nil
}

// leafScore evaluates the current position and biases it by the remaining
// depth: a win found with depth to spare is a faster win.
func (s *Solver) leafScore(depth int) int {
	score := s.ev.Score(s.b, s.solvingSide)
	if score > nearWinThreshold {
		score += depth * depthFinishBonus
	} else if score < -nearWinThreshold {
		score -= depth * depthFinishBonus
	}
	return score
}

// orderMoves sorts children best-first: the hash move, then this ply's
// killers, then captures by victim-minus-attacker value, then quiet moves
// with a nudge for approaching the opposing den.
func (s *Solver) orderMoves(children []move.Move, ttMove move.Move, ply int) {
	estimates := make([]int, len(children))
	for i, m := range children {
		est := 0
		switch {
		case !ttMove.Zero() && m.Equals(ttMove):
			est = hashMoveOffset
		case m.IsCapture():
			mover := s.b.PieceAt(int(m.FromRow), int(m.FromCol))
			est = captureOffset + m.Captured.Value() - mover.Kind.Value()
		case ply < MaxSearchDepth && m.Equals(s.killers[ply][0]):
			est = killer0Offset
		case ply < MaxSearchDepth && m.Equals(s.killers[ply][1]):
			est = killer1Offset
		default:
			mover := s.b.PieceAt(int(m.FromRow), int(m.FromCol))
			denRow, denCol := board.DenSquare(mover.Side.Other())
			before := chebyshev(int(m.FromRow), int(m.FromCol), denRow, denCol)
			after := chebyshev(int(m.ToRow), int(m.ToCol), denRow, denCol)
			est = 4 * (before - after)
		}
		estimates[i] = est
	}
	sorter := &playSorter{estimates: estimates, moves: children}
	sort.Sort(sorter)
}

type playSorter struct {
	estimates []int
	moves     []move.Move
}

func (p playSorter) Len() int { return len(p.moves) }
func (p playSorter) Swap(i, j int) {
	p.estimates[i], p.estimates[j] = p.estimates[j], p.estimates[i]
	p.moves[i], p.moves[j] = p.moves[j], p.moves[i]
}
func (p playSorter) Less(i, j int) bool {
	return p.estimates[j] < p.estimates[i]
}

func (s *Solver) storeKiller(ply int, m move.Move) {
	if ply >= MaxSearchDepth {
		return
	}
	if !m.Equals(s.killers[ply][0]) {
		s.killers[ply][1] = s.killers[ply][0]
		s.killers[ply][0] = m
	}
}

func (s *Solver) clearKillers() {
	for ply := 0; ply < MaxSearchDepth; ply++ {
		for k := 0; k < maxKillers; k++ {
			s.killers[ply][k] = move.Move{}
		}
	}
}

func chebyshev(r1, c1, r2, c2 int) int {
	dr := r1 - r2
	if dr < 0 {
		dr = -dr
	}
	dc := c1 - c2
	if dc < 0 {
		dc = -dc
	}
	if dr > dc {
		return dr
	}
	return dc
}
