package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/usecase"
)

func (that *Server) handleNewGame(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleNewGame", "playerID", c.playerID)

	req := RequestPayload{Mode: entity.ModeHuman}
	if err := decodePayload(msg, &req); err != nil {
		return c.sendError(msg.Action, "malformed payload")
	}

	state, err := that.games.StartGame(ctx, c.playerID, req.Mode)
	if errors.Is(err, apperror.ErrInvalidMode) {
		return c.sendError(msg.Action, err.Error())
	}

	if err != nil {
		log.Error("failed to start game", "error", err)
		return c.sendError(msg.Action, "failed to create a new game")
	}

	log.Info("game started", "gameID", state.ID, "mode", state.Mode)

	return c.send(msg.Action, ResponsePayload{Player: &entity.Player{ID: c.playerID, GameID: state.ID}, Game: state})
}

func (that *Server) handleState(ctx context.Context, c *client, msg *Message) error {
	state, err := that.games.PlayerGame(ctx, c.playerID)
	if err != nil {
		return that.sendGameError(c, msg.Action, err)
	}

	if err = c.send(msg.Action, ResponsePayload{Game: state}); err != nil {
		return err
	}

	// a reconnecting player may have left the computer to move
	that.scheduleComputerTurn(ctx, c, state)

	return nil
}

func (that *Server) handleTurn(ctx context.Context, c *client, msg *Message) error {
	var req RequestPayload
	if err := decodePayload(msg, &req); err != nil {
		return c.sendError(msg.Action, "malformed payload")
	}

	if req.Cell == nil {
		return c.sendError(msg.Action, "cell is required")
	}

	current, err := that.games.PlayerGame(ctx, c.playerID)
	if err != nil {
		return that.sendGameError(c, msg.Action, err)
	}

	state, err := that.games.MakeTurn(ctx, current.ID, *req.Cell)
	if err != nil {
		return that.sendGameError(c, msg.Action, err)
	}

	if err = c.send(msg.Action, ResponsePayload{Game: state}); err != nil {
		return err
	}

	that.scheduleComputerTurn(ctx, c, state)

	return nil
}

func (that *Server) handleReset(ctx context.Context, c *client, msg *Message) error {
	current, err := that.games.PlayerGame(ctx, c.playerID)
	if err != nil {
		return that.sendGameError(c, msg.Action, err)
	}

	state, err := that.games.ResetGame(ctx, current.ID)
	if err != nil {
		return that.sendGameError(c, msg.Action, err)
	}

	return c.send(msg.Action, ResponsePayload{Game: state})
}

// scheduleComputerTurn pushes the computer's reply after the configured delay when it is the computer's move.
func (that *Server) scheduleComputerTurn(ctx context.Context, c *client, state *usecase.GameState) {
	if state.IsFinished() || !state.IsComputerTurn() {
		return
	}

	log := that.logger.With("method", "scheduleComputerTurn", "gameID", state.ID)

	c.pending.Add(1)
	go func() {
		defer c.pending.Done()

		timer := time.NewTimer(that.computerDelay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		next, cell, err := that.games.ComputerTurn(ctx, state.ID)
		if errors.Is(err, apperror.ErrNotComputerTurn) || errors.Is(err, apperror.ErrNoLegalMove) {
			// the game moved on while we waited, e.g. a reset
			log.Debug("computer turn skipped", "reason", err)
			return
		}

		if err != nil {
			log.Error("failed computer turn", "error", err)
			if sendErr := c.sendError(ActionComputer, "computer failed to move"); sendErr != nil {
				log.Error("failed to send error", "error", sendErr)
			}
			return
		}

		if err = c.send(ActionComputer, ResponsePayload{Game: next, Cell: &cell}); err != nil {
			log.Error("failed to send computer turn", "error", err)
		}
	}()
}

func (that *Server) sendGameError(c *client, action string, err error) error {
	switch {
	case errors.Is(err, repository.ErrGameNotFound), errors.Is(err, repository.ErrPlayerNotFound):
		return c.sendError(action, "no game, send game:new first")
	case errors.Is(err, apperror.ErrInvalidMove):
		return c.sendError(action, err.Error())
	default:
		that.logger.Error("game request failed", "action", action, "error", err)
		return c.sendError(action, "internal error")
	}
}

func decodePayload(msg *Message, dst any) error {
	if len(msg.Payload) == 0 {
		return nil
	}

	if err := json.Unmarshal(msg.Payload, dst); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return nil
}
