package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// All move rejections wrap apperror.ErrInvalidMove.
var (
	ErrInvalidCell  = fmt.Errorf("%w: invalid cell index", apperror.ErrInvalidMove)
	ErrCellOccupied = fmt.Errorf("%w: cell is already occupied", apperror.ErrInvalidMove)
	ErrGameFinished = fmt.Errorf("%w: game is already finished", apperror.ErrInvalidMove)
	ErrNotYourTurn  = fmt.Errorf("%w: it's not your turn", apperror.ErrInvalidMove)
	ErrUnknownMark  = fmt.Errorf("%w: unknown mark", apperror.ErrInvalidMove)
)

// ApplyMove places player's mark at cell and returns the resulting outcome.
// The board is left untouched when the move is rejected.
func ApplyMove(board *entity.Board, cell int, player entity.Mark) (entity.Outcome, error) {
	outcome := Evaluate(*board)

	if err := validateMove(*board, outcome, cell, player); err != nil {
		return outcome, err
	}

	board[cell] = player

	return Evaluate(*board), nil
}

// validateMove - checks if the move is valid.
func validateMove(board entity.Board, outcome entity.Outcome, cell int, player entity.Mark) error {
	if !player.IsPlayer() {
		return fmt.Errorf("%w %q", ErrUnknownMark, player)
	}

	if IsTerminal(outcome) {
		return fmt.Errorf("%w: %s", ErrGameFinished, outcome)
	}

	if cell < 0 || cell >= len(board) {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if board[cell] != entity.EmptyCell {
		return fmt.Errorf("%w: cell %d", ErrCellOccupied, cell)
	}

	return nil
}

// Evaluate scans every winning line, then checks for a full board.
func Evaluate(board entity.Board) entity.Outcome {
	for _, combo := range entity.WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a.IsPlayer() && a == b && b == c {
			if a == entity.PlayerX {
				return entity.XWins
			}
			return entity.OWins
		}
	}

	// the game will continue until all the squares are full
	if !board.IsFull() {
		return entity.InProgress
	}

	return entity.Draw
}

func IsTerminal(outcome entity.Outcome) bool {
	switch outcome {
	case entity.XWins, entity.OWins, entity.Draw:
		return true
	default:
		return false
	}
}
