package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameState is what transports send out: the session plus its derived outcome.
type GameState struct {
	*entity.Session
	Outcome entity.Outcome `json:"outcome"`
	Winner  entity.Mark    `json:"winner,omitempty"`
}

func NewGameState(session *entity.Session) *GameState {
	outcome := tictactoe.CurrentOutcome(session)

	return &GameState{
		Session: session,
		Outcome: outcome,
		Winner:  outcome.Winner(),
	}
}

func (that *GameState) IsFinished() bool {
	return tictactoe.IsTerminal(that.Outcome)
}

type GameManager struct {
	logger     *slog.Logger
	playerRepo playerRepo
	gameRepo   gameRepo

	// serializes read-modify-write cycles, a delayed computer reply may race a human request
	mu sync.Mutex
}

func NewGameManager(logger *slog.Logger, playerRepo playerRepo, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
	}
}

func (that *GameManager) NewGame(ctx context.Context, mode entity.Mode) (*GameState, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidMode, mode)
	}

	session := tictactoe.NewGame(pkg.GenerateGameID(), mode)
	if err := that.gameRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", session.ID, "mode", mode)

	return NewGameState(session), nil
}

func (that *GameManager) GetGame(ctx context.Context, gameID string) (*GameState, error) {
	session, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	return NewGameState(session), nil
}

// MakeTurn applies a human move for whoever is to move in the game.
func (that *GameManager) MakeTurn(ctx context.Context, gameID string, cell int) (*GameState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if _, err = tictactoe.MakeTurn(session, cell); err != nil {
		return NewGameState(session), fmt.Errorf("failed make turn: %w", err)
	}

	if err = that.updateGame(ctx, session); err != nil {
		return nil, err
	}

	state := NewGameState(session)
	if state.IsFinished() {
		that.logger.Info("game finished", "gameID", gameID, "outcome", state.Outcome)
	}

	return state, nil
}

// ComputerTurn lets the computer answer and returns the cell it played.
func (that *GameManager) ComputerTurn(ctx context.Context, gameID string) (*GameState, int, error) {
	log := that.logger.With("method", "ComputerTurn", "gameID", gameID)

	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, -1, err
	}

	cell, err := tictactoe.ComputerMove(session)
	if err != nil {
		return NewGameState(session), -1, fmt.Errorf("failed computer turn: %w", err)
	}

	if err = that.updateGame(ctx, session); err != nil {
		return nil, -1, err
	}

	log.Debug("computer moved", "cell", cell, "board", session.Board.String())

	return NewGameState(session), cell, nil
}

// ResetGame starts the game over, keeping its id and mode.
func (that *GameManager) ResetGame(ctx context.Context, gameID string) (*GameState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	tictactoe.Reset(session)

	if err = that.updateGame(ctx, session); err != nil {
		return nil, err
	}

	that.logger.Info("game reset", "gameID", gameID)

	return NewGameState(session), nil
}

// GetOrCreatePlayer returns the stored player or registers a new one under id.
// An empty id gets a freshly generated one.
func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id != "" {
		player, err := that.playerRepo.GetByID(ctx, id)
		if err == nil {
			return player, nil
		}

		if !errors.Is(err, repository.ErrPlayerNotFound) {
			return nil, fmt.Errorf("failed to get player by id: %w", err)
		}
	} else {
		id = pkg.GenerateNewSessionID()
	}

	player := &entity.Player{ID: id}
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

// StartGame creates a game and remembers it as the player's current one.
func (that *GameManager) StartGame(ctx context.Context, playerID string, mode entity.Mode) (*GameState, error) {
	player, err := that.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	state, err := that.NewGame(ctx, mode)
	if err != nil {
		return nil, err
	}

	if player.GameID != "" {
		if err = that.deleteGame(ctx, player.GameID); err != nil {
			return nil, err
		}
	}

	player.GameID = state.ID
	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	return state, nil
}

// PlayerGame returns the game the player is in, if it still exists.
func (that *GameManager) PlayerGame(ctx context.Context, playerID string) (*GameState, error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	if player.GameID == "" {
		return nil, repository.ErrGameNotFound
	}

	return that.GetGame(ctx, player.GameID)
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return session, nil
}

// deleteGame drops a game the player left behind. One that already expired is fine.
func (that *GameManager) deleteGame(ctx context.Context, gameID string) error {
	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Debug("game deleted", "gameID", gameID)

	return nil
}

func (that *GameManager) updateGame(ctx context.Context, session *entity.Session) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}
