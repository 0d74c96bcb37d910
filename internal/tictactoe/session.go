package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// NewGame returns a fresh session with X to move.
func NewGame(id string, mode entity.Mode) *entity.Session {
	return &entity.Session{
		ID:    id,
		Board: entity.Board{},
		Turn:  entity.PlayerX,
		Mode:  mode,
	}
}

// MakeTurn applies a human move for the player whose turn it is.
func MakeTurn(session *entity.Session, cell int) (entity.Outcome, error) {
	if outcome := CurrentOutcome(session); !IsTerminal(outcome) && session.IsComputerTurn() {
		return outcome, fmt.Errorf("%w: %s plays for the computer", ErrNotYourTurn, session.Turn)
	}

	return play(session, cell)
}

// ComputerMove picks the optimal cell for the computer and plays it.
func ComputerMove(session *entity.Session) (int, error) {
	if !session.IsWithComputer() {
		return -1, fmt.Errorf("%w: %s game", apperror.ErrNotComputerTurn, session.Mode)
	}

	if outcome := CurrentOutcome(session); IsTerminal(outcome) {
		return -1, fmt.Errorf("%w: %s", apperror.ErrNoLegalMove, outcome)
	}

	if !session.IsComputerTurn() {
		return -1, fmt.Errorf("%w: %s to move", apperror.ErrNotComputerTurn, session.Turn)
	}

	cell, err := BestMove(session.Board, session.Turn)
	if err != nil {
		return -1, fmt.Errorf("failed to select move: %w", err)
	}

	if _, err = play(session, cell); err != nil {
		return -1, fmt.Errorf("failed to apply computer move: %w", err)
	}

	return cell, nil
}

func CurrentOutcome(session *entity.Session) entity.Outcome {
	return Evaluate(session.Board)
}

// Reset clears the board and gives the move back to X. ID and mode survive.
func Reset(session *entity.Session) {
	session.Board = entity.Board{}
	session.Turn = entity.PlayerX
}

func play(session *entity.Session, cell int) (entity.Outcome, error) {
	outcome, err := ApplyMove(&session.Board, cell, session.Turn)
	if err != nil {
		return outcome, err
	}

	if !IsTerminal(outcome) {
		session.Turn = session.Turn.Opponent()
	}

	return outcome, nil
}
