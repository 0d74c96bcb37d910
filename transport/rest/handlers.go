package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/usecase"
)

type gameUseCase interface {
	NewGame(ctx context.Context, mode entity.Mode) (*usecase.GameState, error)
	GetGame(ctx context.Context, gameID string) (*usecase.GameState, error)
	MakeTurn(ctx context.Context, gameID string, cell int) (*usecase.GameState, error)
	ComputerTurn(ctx context.Context, gameID string) (*usecase.GameState, int, error)
	ResetGame(ctx context.Context, gameID string) (*usecase.GameState, error)
}

type newGameRequest struct {
	Mode entity.Mode `json:"mode"`
}

type turnRequest struct {
	Cell *int `json:"cell"`
}

type Response struct {
	Game  *usecase.GameState `json:"game,omitempty"`
	Cell  *int               `json:"cell,omitempty"`
	Error string             `json:"error,omitempty"`
}

type gameHandler struct {
	logger *slog.Logger
	games  gameUseCase
}

func (that *gameHandler) create(w http.ResponseWriter, r *http.Request) {
	req := newGameRequest{Mode: entity.ModeHuman}
	if !that.decode(w, r, &req) {
		return
	}

	state, err := that.games.NewGame(r.Context(), req.Mode)
	if err != nil {
		that.fail(w, "create", err)
		return
	}

	writeJSON(w, http.StatusCreated, Response{Game: state})
}

func (that *gameHandler) get(w http.ResponseWriter, r *http.Request) {
	state, err := that.games.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.fail(w, "get", err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Game: state})
}

func (that *gameHandler) turn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if !that.decode(w, r, &req) {
		return
	}

	if req.Cell == nil {
		writeJSON(w, http.StatusBadRequest, Response{Error: "cell is required"})
		return
	}

	state, err := that.games.MakeTurn(r.Context(), chi.URLParam(r, "id"), *req.Cell)
	if err != nil {
		that.fail(w, "turn", err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Game: state})
}

func (that *gameHandler) computerTurn(w http.ResponseWriter, r *http.Request) {
	state, cell, err := that.games.ComputerTurn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.fail(w, "computerTurn", err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Game: state, Cell: &cell})
}

func (that *gameHandler) reset(w http.ResponseWriter, r *http.Request) {
	state, err := that.games.ResetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.fail(w, "reset", err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Game: state})
}

// decode reads an optional JSON body into dst. It answers 400 itself and reports false on bad input.
func (that *gameHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, Response{Error: "malformed request body"})
		return false
	}

	return true
}

func (that *gameHandler) fail(w http.ResponseWriter, method string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
		writeJSON(w, status, Response{Error: http.StatusText(status)})
		return
	}

	that.logger.Debug("request rejected", "method", method, "error", err)
	writeJSON(w, status, Response{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidMove), errors.Is(err, apperror.ErrInvalidMode):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotComputerTurn), errors.Is(err, apperror.ErrNoLegalMove):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
