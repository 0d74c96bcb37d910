package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/usecase"
)

const (
	sessionCookie   = "user_session"
	sessionLifetime = 24 * time.Hour
	shutdownTimeout = 5 * time.Second
)

type gameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)
	StartGame(ctx context.Context, playerID string, mode entity.Mode) (*usecase.GameState, error)
	PlayerGame(ctx context.Context, playerID string) (*usecase.GameState, error)

	MakeTurn(ctx context.Context, gameID string, cell int) (*usecase.GameState, error)
	ComputerTurn(ctx context.Context, gameID string) (*usecase.GameState, int, error)
	ResetGame(ctx context.Context, gameID string) (*usecase.GameState, error)
}

type handlerFunc func(ctx context.Context, c *client, msg *Message) error

type Server struct {
	logger        *slog.Logger
	games         gameUseCase
	computerDelay time.Duration
	upgrader      websocket.Upgrader

	handlers map[string]handlerFunc
}

// New builds a socket server. computerDelay is how long to wait before pushing the computer's reply.
func New(logger *slog.Logger, games gameUseCase, computerDelay time.Duration) *Server {
	server := &Server{
		logger:        logger.With("component", "websocket"),
		games:         games,
		computerDelay: computerDelay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[ActionNewGame] = server.handleNewGame
	server.handlers[ActionState] = server.handleState
	server.handlers[ActionTurn] = server.handleTurn
	server.handlers[ActionReset] = server.handleReset

	return server
}

func (that *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/ws", that.upgradeToWebSocket)

	return r
}

// Start - starts WebSocket server, it stops when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}

		return nil
	}
}

// upgradeToWebSocket - resolves the player from the session cookie and upgrades the connection.
func (that *Server) upgradeToWebSocket(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	var sessionID string
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		sessionID = cookie.Value
	}

	player, err := that.games.GetOrCreatePlayer(r.Context(), sessionID)
	if err != nil {
		log.Error("failed to resolve player", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	header := http.Header{}
	if player.ID != sessionID {
		cookie := &http.Cookie{
			Name:    sessionCookie,
			Value:   player.ID,
			Expires: time.Now().Add(sessionLifetime),
			Path:    "/ws",
		}
		header.Add("Set-Cookie", cookie.String())
		log.Info("session cookie not found, new one created", "cookie", player.ID)
	}

	conn, err := that.upgrader.Upgrade(w, r, header)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	log.Info("WebSocket connection established", "playerID", player.ID)

	ctx, cancel := context.WithCancel(r.Context())
	c := &client{conn: conn, playerID: player.ID}

	that.handleMessages(ctx, c)

	cancel()
	c.pending.Wait()
}

// handleMessages - processes messages from the client until it disconnects.
func (that *Server) handleMessages(ctx context.Context, c *client) {
	log := that.logger.With("method", "handleMessages", "playerID", c.playerID)

	for {
		var message Message
		if err := c.conn.ReadJSON(&message); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				log.Warn("failed to unmarshal message", "error", err)
				continue
			}

			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info("connection closed", "error", err)
			}

			return
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			if err := c.sendError(message.Action, "unknown action"); err != nil {
				log.Error("failed to send error", "error", err)
			}
			continue
		}

		if err := handler(ctx, c, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}
