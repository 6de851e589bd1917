// Package web exposes the engine to a UI over HTTP: a one-shot best-move
// endpoint, and a websocket that streams per-depth analysis lines while
// the search deepens.
package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/AlanRexcop/animal-chess/bot"
	"github.com/AlanRexcop/animal-chess/config"
	"github.com/AlanRexcop/animal-chess/eval"
	"github.com/AlanRexcop/animal-chess/search"
)

type Server struct {
	cfg      *config.Config
	bot      *bot.Bot
	upgrader websocket.Upgrader
}

func NewServer(cfg *config.Config) *Server {
	return &Server{
		cfg: cfg,
		bot: bot.NewBot(cfg),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Post("/api/bestmove", s.handleBestMove)
	r.Get("/ws/analyze", s.handleAnalyze)
	return r
}

func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info().Str("addr", s.cfg.ListenAddr).Msg("web-listening")
	return srv.ListenAndServe()
}

func (s *Server) handleBestMove(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resp := s.bot.Handle(r.Context(), data)
	status := http.StatusOK
	if resp.Error != "" {
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// analysisEvent is one websocket frame: either a depth line or the final
// response.
type analysisEvent struct {
	Event string            `json:"event"`
	Line  *search.DepthLine `json:"line,omitempty"`
	Final *bot.MoveResponse `json:"final,omitempty"`
}

// handleAnalyze reads one request frame, then streams a "depth" event per
// completed iteration and a closing "final" event. One request, one
// analysis; the socket closes afterwards.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws-upgrade-failed")
		return
	}
	defer conn.Close()

	_, data, err := conn.ReadMessage()
	if err != nil {
		return
	}
	req, id, err := bot.ParseRequest(data)
	if err != nil {
		resp := bot.MoveResponse{ID: id, Error: err.Error()}
		conn.WriteJSON(analysisEvent{Event: "final", Final: &resp})
		return
	}

	// The streaming path owns its own solver; the bot's solver is reserved
	// for one-shot requests.
	solver := search.NewSolver(eval.New(s.cfg.Weights), s.cfg.TTMemFraction)
	solver.OnDepthCompleted = func(line search.DepthLine) {
		if err := conn.WriteJSON(analysisEvent{Event: "depth", Line: &line}); err != nil {
			log.Debug().Err(err).Msg("ws-write-failed")
		}
	}
	res, err := solver.BestMove(context.Background(), req)
	var resp bot.MoveResponse
	if err != nil {
		resp = bot.MoveResponse{ID: id, Error: err.Error()}
	} else {
		resp = bot.ResponseFromResult(id, res)
	}
	conn.WriteJSON(analysisEvent{Event: "final", Final: &resp})
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(io.LimitReader(r.Body, 1<<16))
}
