package apperror

import "errors"

var (
	ErrInvalidMove     = errors.New("invalid move")
	ErrNoLegalMove     = errors.New("no legal move")
	ErrNotComputerTurn = errors.New("it's not the computer's turn")
	ErrInvalidMode     = errors.New("invalid game mode")
)
