package tictactoe

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	// When: a new computer game is created
	session := NewGame("123", entity.ModeComputer)

	// Then: the board is empty and X moves first
	expected := &entity.Session{
		ID:    "123",
		Board: entity.Board{e, e, e, e, e, e, e, e, e},
		Turn:  entity.PlayerX,
		Mode:  entity.ModeComputer,
	}

	require.Equal(t, expected, session)
	assert.Equal(t, entity.InProgress, CurrentOutcome(session))
}

func TestMakeTurn(t *testing.T) {
	t.Run("MakeTurn", func(t *testing.T) {
		// Given: a new hot-seat game
		session := NewGame("123", entity.ModeHuman)

		// When: X plays cell 0
		outcome, err := MakeTurn(session, 0)
		require.NoError(t, err)

		// Then: the board reflects the move and the turn passes to O
		expected := &entity.Session{
			ID:    "123",
			Board: entity.Board{x, e, e, e, e, e, e, e, e},
			Turn:  entity.PlayerO,
			Mode:  entity.ModeHuman,
		}

		assert.Equal(t, entity.InProgress, outcome)
		require.Equal(t, expected, session)
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: X already holds cell 0
		session := NewGame("123", entity.ModeHuman)
		_, err := MakeTurn(session, 0)
		require.NoError(t, err)
		snapshot := *session

		// When: O tries the same cell
		outcome, err := MakeTurn(session, 0)

		// Then: the move is invalid and nothing changed
		require.ErrorIs(t, err, ErrCellOccupied)
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		assert.Equal(t, entity.InProgress, outcome)
		assert.Equal(t, snapshot, *session)
	})

	t.Run("Human cannot play for the computer", func(t *testing.T) {
		// Given: a computer game where X already moved
		session := NewGame("123", entity.ModeComputer)
		_, err := MakeTurn(session, 4)
		require.NoError(t, err)
		snapshot := *session

		// When: the human tries to move again
		_, err = MakeTurn(session, 0)

		// Then: ErrNotYourTurn is returned and the session is unchanged
		require.ErrorIs(t, err, ErrNotYourTurn)
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		assert.Equal(t, snapshot, *session)
	})

	t.Run("Winning move keeps the turn on the winner", func(t *testing.T) {
		// Given: X can complete the top row
		session := NewGame("123", entity.ModeHuman)
		session.Board = entity.Board{x, x, e, o, o, e, e, e, e}

		// When: X completes it
		outcome, err := MakeTurn(session, 2)

		// Then: X wins and no further move is accepted
		require.NoError(t, err)
		assert.Equal(t, entity.XWins, outcome)
		assert.Equal(t, entity.PlayerX, session.Turn)

		_, err = MakeTurn(session, 5)
		require.ErrorIs(t, err, ErrGameFinished)
	})

	t.Run("Finished computer game reports the game as finished", func(t *testing.T) {
		// Given: the computer has just won and still holds the turn
		session := NewGame("123", entity.ModeComputer)
		session.Board = entity.Board{x, x, e, o, o, o, x, e, e}
		session.Turn = entity.PlayerO

		// When: the human tries to move
		_, err := MakeTurn(session, 2)

		// Then: the game is reported as finished rather than out of turn
		assert.ErrorIs(t, err, ErrGameFinished)
	})

	t.Run("Invalid cell", func(t *testing.T) {
		session := NewGame("123", entity.ModeHuman)

		_, err := MakeTurn(session, 20)

		assert.ErrorIs(t, err, ErrInvalidCell)
		assert.Equal(t, entity.PlayerX, session.Turn)
	})
}

func TestComputerMove(t *testing.T) {
	t.Run("Computer replies with the optimal move", func(t *testing.T) {
		// Given: X threatens the top row in a computer game
		session := NewGame("123", entity.ModeComputer)
		session.Board = entity.Board{x, x, e, o, o, e, e, e, e}
		session.Turn = entity.PlayerO

		// When: the computer moves
		cell, err := ComputerMove(session)

		// Then: it plays 2 and hands the turn back to X
		require.NoError(t, err)
		assert.Equal(t, 2, cell)
		assert.Equal(t, o, session.Board[2])
		assert.Equal(t, entity.PlayerX, session.Turn)
	})

	t.Run("Computer takes a winning move", func(t *testing.T) {
		session := NewGame("123", entity.ModeComputer)
		session.Board = entity.Board{x, x, e, o, x, e, o, o, e}
		session.Turn = entity.PlayerO

		cell, err := ComputerMove(session)

		require.NoError(t, err)
		assert.Equal(t, 8, cell)
		assert.Equal(t, entity.OWins, CurrentOutcome(session))
		assert.Equal(t, entity.PlayerO, session.Turn)
	})

	t.Run("Hot-seat game has no computer turn", func(t *testing.T) {
		session := NewGame("123", entity.ModeHuman)
		session.Turn = entity.PlayerO

		_, err := ComputerMove(session)

		assert.ErrorIs(t, err, apperror.ErrNotComputerTurn)
	})

	t.Run("Computer waits for the human", func(t *testing.T) {
		// Given: a fresh computer game, X to move
		session := NewGame("123", entity.ModeComputer)

		// When: the computer is asked to move
		_, err := ComputerMove(session)

		// Then: ErrNotComputerTurn is returned and the board is still empty
		require.ErrorIs(t, err, apperror.ErrNotComputerTurn)
		assert.Equal(t, entity.Board{}, session.Board)
	})

	t.Run("Finished game has no legal move", func(t *testing.T) {
		// Given: a drawn computer game
		session := NewGame("123", entity.ModeComputer)
		session.Board = entity.Board{x, o, x, x, o, o, o, x, x}
		session.Turn = entity.PlayerO

		// When: the computer is asked to move
		_, err := ComputerMove(session)

		// Then: ErrNoLegalMove is returned
		assert.ErrorIs(t, err, apperror.ErrNoLegalMove)
	})

	t.Run("Full game against the computer never ends in an X win", func(t *testing.T) {
		// Given: a human who always plays the lowest free cell
		session := NewGame("123", entity.ModeComputer)

		for !IsTerminal(CurrentOutcome(session)) {
			// When: human and computer alternate
			_, err := MakeTurn(session, session.Board.EmptyCells()[0])
			require.NoError(t, err)

			if IsTerminal(CurrentOutcome(session)) {
				break
			}

			_, err = ComputerMove(session)
			require.NoError(t, err)
		}

		// Then: the computer wins or draws
		assert.NotEqual(t, entity.XWins, CurrentOutcome(session))
	})
}

func TestReset(t *testing.T) {
	// Given: a computer game in progress
	session := NewGame("123", entity.ModeComputer)
	_, err := MakeTurn(session, 4)
	require.NoError(t, err)
	_, err = ComputerMove(session)
	require.NoError(t, err)

	// When: resetting it
	Reset(session)

	// Then: it equals a fresh game with the same id and mode
	assert.Equal(t, NewGame("123", entity.ModeComputer), session)
}
