package websocket

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/usecase"
)

const (
	ActionNewGame  = "game:new"
	ActionState    = "game:state"
	ActionTurn     = "game:turn"
	ActionReset    = "game:reset"
	ActionComputer = "game:computer"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	Mode entity.Mode `json:"mode,omitempty"`
	Cell *int        `json:"cell,omitempty"`
}

type ResponsePayload struct {
	Player *entity.Player     `json:"player,omitempty"`
	Game   *usecase.GameState `json:"game,omitempty"`
	Cell   *int               `json:"cell,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// client is one browser tab. gorilla connections allow a single concurrent writer,
// the delayed computer reply writes from its own goroutine.
type client struct {
	conn     *websocket.Conn
	playerID string

	writeMu sync.Mutex
	pending sync.WaitGroup
}

func (that *client) send(action string, payload ResponsePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err = that.conn.WriteJSON(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *client) sendError(action string, reason string) error {
	return that.send(action, ResponsePayload{Error: reason})
}
