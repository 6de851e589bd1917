// Package bot runs the search engine behind a message boundary: one
// request in, exactly one response out. The transport is NATS request/
// reply with a JSON codec; validation failures, the no-legal-moves
// outcome and internal search failures each map to their own response
// shape and are never retried here.
package bot

import (
	"context"
	"encoding/json"
	"runtime"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/AlanRexcop/animal-chess/config"
	"github.com/AlanRexcop/animal-chess/eval"
	"github.com/AlanRexcop/animal-chess/search"
)

type Bot struct {
	cfg *config.Config

	// The solver is single-request; solverMu serializes Handle callers.
	// NATS delivers subscription messages one at a time, but the web
	// surface serves requests concurrently.
	solverMu sync.Mutex
	solver   *search.Solver
}

func NewBot(cfg *config.Config) *Bot {
	ev := eval.New(cfg.Weights)
	return &Bot{
		cfg:    cfg,
		solver: search.NewSolver(ev, cfg.TTMemFraction),
	}
}

// Handle processes one raw request and always produces a marshallable
// response. It is the transport-independent core, also used by the web
// surface and by tests.
func (b *Bot) Handle(ctx context.Context, data []byte) MoveResponse {
	req, id, err := ParseRequest(data)
	if err != nil {
		log.Warn().Err(err).Msg("rejected-request")
		return errorResponse(id, err)
	}
	b.solverMu.Lock()
	res, err := b.solver.BestMove(ctx, req)
	b.solverMu.Unlock()
	if err != nil {
		log.Error().Err(err).Msg("search-failed")
		return errorResponse(id, err)
	}
	return ResponseFromResult(id, res)
}

// Main subscribes on the configured channel and serves until the process
// exits.
func Main(channel string, b *Bot) error {
	nc, err := nats.Connect(b.cfg.NatsURL)
	if err != nil {
		return err
	}
	_, err = nc.Subscribe(channel, func(m *nats.Msg) {
		log.Info().Int("bytes", len(m.Data)).Msg("recv")
		resp := b.Handle(context.Background(), m.Data)
		data, err := json.Marshal(resp)
		if err != nil {
			// Should never happen, ideally, but we need to do something
			// sensible here.
			m.Respond([]byte(err.Error()))
			return
		}
		m.Respond(data)
	})
	if err != nil {
		return err
	}
	nc.Flush()
	if err := nc.LastError(); err != nil {
		return err
	}
	log.Info().Str("channel", channel).Msg("listening")
	runtime.Goexit()
	return nil
}
