package bot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/AlanRexcop/animal-chess/board"
	"github.com/AlanRexcop/animal-chess/pieces"
	"github.com/AlanRexcop/animal-chess/search"
)

// MoveRequest is the wire form of one search job. Board is the nine-line
// rune grid produced by board.ToText (split into rows, row 0 first).
type MoveRequest struct {
	ID               string   `json:"id,omitempty"`
	Board            []string `json:"board"`
	SideToMove       int      `json:"sideToMove"`
	MaxDepth         int      `json:"maxDepth"`
	TimeBudgetMillis int      `json:"timeBudgetMillis"`
}

// MoveCoords is the move payload of a successful response.
type MoveCoords struct {
	FromRow int `json:"fromRow"`
	FromCol int `json:"fromCol"`
	ToRow   int `json:"toRow"`
	ToCol   int `json:"toCol"`
}

// MoveResponse is exactly one of: a move, the no-legal-moves outcome, or
// an error message.
type MoveResponse struct {
	ID             string      `json:"id,omitempty"`
	Move           *MoveCoords `json:"move,omitempty"`
	DepthCompleted int         `json:"depthCompleted"`
	Score          int         `json:"score,omitempty"`
	Reason         string      `json:"reason,omitempty"`
	Error          string      `json:"error,omitempty"`
}

const (
	noLegalMovesReason = "no legal moves"
	gameOverReason     = "game over"
)

// ParseRequest validates the malformed-input taxonomy before any search
// work begins: board shape and piece placement, side identifier, and the
// two positive limits.
func ParseRequest(data []byte) (search.Request, string, error) {
	req := MoveRequest{}
	if err := json.Unmarshal(data, &req); err != nil {
		return search.Request{}, "", fmt.Errorf("%w: %v", search.ErrBadRequest, err)
	}
	if len(req.Board) != board.NumRows {
		return search.Request{}, req.ID, fmt.Errorf("%w: board has %d rows, want %d",
			search.ErrBadRequest, len(req.Board), board.NumRows)
	}
	b, err := board.FromText(joinRows(req.Board))
	if err != nil {
		return search.Request{}, req.ID, fmt.Errorf("%w: %v", search.ErrBadRequest, err)
	}
	side := pieces.Side(req.SideToMove)
	if !side.Valid() {
		return search.Request{}, req.ID, fmt.Errorf("%w: invalid side %d",
			search.ErrBadRequest, req.SideToMove)
	}
	if req.MaxDepth < 1 {
		return search.Request{}, req.ID, fmt.Errorf("%w: maxDepth %d, want >= 1",
			search.ErrBadRequest, req.MaxDepth)
	}
	if req.TimeBudgetMillis < 1 {
		return search.Request{}, req.ID, fmt.Errorf("%w: timeBudgetMillis %d, want >= 1",
			search.ErrBadRequest, req.TimeBudgetMillis)
	}
	return search.Request{
		Board:      b,
		SideToMove: side,
		MaxDepth:   req.MaxDepth,
		TimeBudget: time.Duration(req.TimeBudgetMillis) * time.Millisecond,
	}, req.ID, nil
}

// ResponseFromResult converts a search result into its wire form.
func ResponseFromResult(id string, res search.Result) MoveResponse {
	if !res.HasMove {
		reason := noLegalMovesReason
		if res.GameOver {
			reason = gameOverReason
		}
		return MoveResponse{ID: id, Reason: reason}
	}
	m := res.Move
	return MoveResponse{
		ID: id,
		Move: &MoveCoords{
			FromRow: int(m.FromRow), FromCol: int(m.FromCol),
			ToRow: int(m.ToRow), ToCol: int(m.ToCol),
		},
		DepthCompleted: res.DepthCompleted,
		Score:          res.Score,
	}
}

func errorResponse(id string, err error) MoveResponse {
	return MoveResponse{ID: id, Error: err.Error()}
}

func joinRows(rows []string) string {
	out := ""
	for i, r := range rows {
		if i > 0 {
			out += "\n"
		}
		out += r
	}
	return out
}
