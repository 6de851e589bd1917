package bot

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/AlanRexcop/animal-chess/board"
	"github.com/AlanRexcop/animal-chess/move"
	"github.com/AlanRexcop/animal-chess/pieces"
)

// Client asks a remote bot for moves over NATS.
type Client struct {
	nc      *nats.Conn
	channel string
}

// Dial connects to the NATS server, retrying briefly so a bot and its
// caller can start in either order.
func Dial(natsURL, channel string) (*Client, error) {
	var nc *nats.Conn
	err := retry.Do(
		func() error {
			var err error
			nc, err = nats.Connect(natsURL)
			return err
		},
		retry.Attempts(5),
		retry.Delay(500*time.Millisecond),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Uint("attempt", n).Err(err).Msg("nats-connect-retry")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", natsURL, err)
	}
	return &Client{nc: nc, channel: channel}, nil
}

func (c *Client) Close() {
	c.nc.Close()
}

// ErrNoLegalMoves and ErrGameOver mirror the engine's two distinct
// moveless outcomes.
var (
	ErrNoLegalMoves = errors.New("no legal moves")
	ErrGameOver     = errors.New("game over")
)

// RequestMove sends a position to the bot and returns the move it picked.
func (c *Client) RequestMove(b *board.Board, toMove pieces.Side, maxDepth, budgetMillis int) (move.Move, error) {
	req := MoveRequest{
		ID:               uuid.NewString(),
		Board:            strings.Split(b.ToText(), "\n"),
		SideToMove:       int(toMove),
		MaxDepth:         maxDepth,
		TimeBudgetMillis: budgetMillis,
	}
	data, err := json.Marshal(req)
	if err != nil {
		return move.Move{}, err
	}
	timeout := time.Duration(budgetMillis)*time.Millisecond + 10*time.Second
	msg, err := c.nc.Request(c.channel, data, timeout)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Err(c.nc.LastError()).Msg("nats-request")
		}
		return move.Move{}, err
	}
	resp := MoveResponse{}
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		return move.Move{}, err
	}
	switch {
	case resp.Error != "":
		return move.Move{}, errors.New("bot returned: " + resp.Error)
	case resp.Move != nil:
		return move.New(resp.Move.FromRow, resp.Move.FromCol, resp.Move.ToRow, resp.Move.ToCol), nil
	case resp.Reason == noLegalMovesReason:
		return move.Move{}, ErrNoLegalMoves
	case resp.Reason == gameOverReason:
		return move.Move{}, ErrGameOver
	default:
		return move.Move{}, errors.New("malformed bot response")
	}
}
