package entity

import (
	"errors"
	"fmt"
	"strings"
)

type Mark string

const (
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	EmptyCell Mark = ""
)

// Outcome is always derived from the board contents, never stored.
type Outcome int

const (
	InProgress Outcome = iota
	XWins
	OWins
	Draw
)

var (
	ErrInvalidBoard   = errors.New("invalid board notation")
	ErrUnknownOutcome = errors.New("unknown outcome")

	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Board holds 9 cells row-major, top-left first.
type Board [9]Mark

// ParseBoard reads the 9-character notation used by the CLI: X, O, and one of ". _ -" for empty.
func ParseBoard(notation string) (Board, error) {
	var board Board

	notation = strings.ReplaceAll(notation, "/", "")
	if len(notation) != len(board) {
		return board, fmt.Errorf("%w: want %d cells, got %d", ErrInvalidBoard, len(board), len(notation))
	}

	for i, ch := range strings.ToUpper(notation) {
		switch ch {
		case 'X':
			board[i] = PlayerX
		case 'O':
			board[i] = PlayerO
		case '.', '_', '-':
			board[i] = EmptyCell
		default:
			return board, fmt.Errorf("%w: unexpected %q at %d", ErrInvalidBoard, ch, i)
		}
	}

	return board, nil
}

func (that Board) String() string {
	var sb strings.Builder
	for _, cell := range that {
		if cell == EmptyCell {
			sb.WriteByte('.')
			continue
		}
		sb.WriteString(string(cell))
	}
	return sb.String()
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}
	return true
}

// EmptyCells returns the free indices in increasing order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, len(that))
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}
	return cells
}

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (that Outcome) String() string {
	switch that {
	case InProgress:
		return "in_progress"
	case XWins:
		return "x_wins"
	case OWins:
		return "o_wins"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("outcome(%d)", int(that))
	}
}

func (that Outcome) MarshalText() ([]byte, error) {
	if that < InProgress || that > Draw {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOutcome, int(that))
	}
	return []byte(that.String()), nil
}

func (that *Outcome) UnmarshalText(text []byte) error {
	for outcome := InProgress; outcome <= Draw; outcome++ {
		if outcome.String() == string(text) {
			*that = outcome
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownOutcome, text)
}

// Winner returns the mark that completed a line, or EmptyCell for draws and unfinished games.
func (that Outcome) Winner() Mark {
	switch that {
	case XWins:
		return PlayerX
	case OWins:
		return PlayerO
	default:
		return EmptyCell
	}
}
