package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/usecase"
)

const (
	commandReset = "reset"
	commandQuit  = "quit"
)

type gameUseCase interface {
	NewGame(ctx context.Context, mode entity.Mode) (*usecase.GameState, error)
	MakeTurn(ctx context.Context, gameID string, cell int) (*usecase.GameState, error)
	ComputerTurn(ctx context.Context, gameID string) (*usecase.GameState, int, error)
	ResetGame(ctx context.Context, gameID string) (*usecase.GameState, error)
}

// Console plays one game in a terminal. Cells are entered as 1-9, row by row.
type Console struct {
	logger        *slog.Logger
	games         gameUseCase
	computerDelay time.Duration

	in  *bufio.Scanner
	out io.Writer
}

func New(logger *slog.Logger, games gameUseCase, computerDelay time.Duration, in io.Reader, out io.Writer) *Console {
	return &Console{
		logger:        logger.With("component", "console"),
		games:         games,
		computerDelay: computerDelay,

		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Play runs until the input ends, the player quits or ctx is canceled.
func (that *Console) Play(ctx context.Context, mode entity.Mode) error {
	state, err := that.games.NewGame(ctx, mode)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	that.printf("Enter a cell 1-9, %q or %q.\n", commandReset, commandQuit)
	that.render(state)

	for that.in.Scan() {
		if err = ctx.Err(); err != nil {
			return err
		}

		line := strings.ToLower(strings.TrimSpace(that.in.Text()))

		switch line {
		case "":
			continue
		case commandQuit:
			return nil
		case commandReset:
			if state, err = that.games.ResetGame(ctx, state.ID); err != nil {
				return fmt.Errorf("failed to reset game: %w", err)
			}
			that.render(state)
			continue
		}

		next, err := that.turn(ctx, state, line)
		if err != nil {
			return err
		}

		state = next
	}

	if err = that.in.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

// turn applies one input line and, in computer mode, the reply. Rejected input keeps the old state.
func (that *Console) turn(ctx context.Context, state *usecase.GameState, line string) (*usecase.GameState, error) {
	cell, err := strconv.Atoi(line)
	if err != nil {
		that.printf("%q is not a cell, enter 1-9\n", line)
		return state, nil
	}

	next, err := that.games.MakeTurn(ctx, state.ID, cell-1)
	if errors.Is(err, apperror.ErrInvalidMove) {
		that.printf("%v\n", err)
		return state, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	that.render(next)

	if next.IsFinished() || !next.IsComputerTurn() {
		return next, nil
	}

	if err = that.wait(ctx); err != nil {
		return nil, err
	}

	next, computerCell, err := that.games.ComputerTurn(ctx, next.ID)
	if err != nil {
		return nil, fmt.Errorf("failed computer turn: %w", err)
	}

	that.logger.Debug("computer moved", "cell", computerCell)
	that.printf("Computer plays %d\n", computerCell+1)
	that.render(next)

	return next, nil
}

func (that *Console) wait(ctx context.Context) error {
	timer := time.NewTimer(that.computerDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (that *Console) render(state *usecase.GameState) {
	that.printf("%s\n", FormatBoard(state.Board))

	switch state.Outcome {
	case entity.XWins, entity.OWins:
		that.printf("%s wins! Type %q to play again.\n", state.Winner, commandReset)
	case entity.Draw:
		that.printf("Draw. Type %q to play again.\n", commandReset)
	default:
		that.printf("%s to move\n", state.Turn)
	}
}

func (that *Console) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}

// FormatBoard draws the grid, free cells show their 1-9 number.
func FormatBoard(board entity.Board) string {
	var sb strings.Builder

	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString("\n---+---+---\n")
		}

		for col := 0; col < 3; col++ {
			if col > 0 {
				sb.WriteString("|")
			}

			cell := row*3 + col
			mark := string(board[cell])
			if board[cell] == entity.EmptyCell {
				mark = strconv.Itoa(cell + 1)
			}

			sb.WriteString(" " + mark + " ")
		}
	}

	return sb.String()
}

// PrintAnalysis writes the per-cell scores of an analysis using the same 1-9 numbering as the grid.
func PrintAnalysis(w io.Writer, board entity.Board, analysis *tictactoe.Analysis) error {
	if _, err := fmt.Fprintf(w, "%s\n\n%s to move, best cell %d (index %d, score %+d)\n",
		FormatBoard(board), analysis.Player, analysis.BestCell+1, analysis.BestCell, analysis.BestScore); err != nil {
		return fmt.Errorf("failed to write analysis: %w", err)
	}

	for _, move := range analysis.Moves {
		if _, err := fmt.Fprintf(w, "  cell %d: %+d\n", move.Cell+1, move.Score); err != nil {
			return fmt.Errorf("failed to write analysis: %w", err)
		}
	}

	_, err := fmt.Fprintf(w, "searched %d positions, depth %d\n", analysis.Nodes, analysis.MaxDepth)
	if err != nil {
		return fmt.Errorf("failed to write analysis: %w", err)
	}

	return nil
}
