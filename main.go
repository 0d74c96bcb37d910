package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe-minimax/internal"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/config"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/console"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

// main - is the entry point of the application.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "tictactoe",
		Short:         "Tic-tac-toe with an unbeatable minimax opponent",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "config.yml", "path to the yaml config file")

	root.AddCommand(
		newServeCommand(&configPath),
		newPlayCommand(&configPath),
		newAnalyzeCommand(),
	)

	return root
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket servers",
		RunE: func(_ *cobra.Command, _ []string) error {
			conf := config.MustLoad(*configPath)
			logger := initLogger(conf, os.Stdout)

			if err := app.RunApp(logger, conf); err != nil {
				return fmt.Errorf("app run failed: %w", err)
			}

			return nil
		},
	}
}

func newPlayCommand(configPath *string) *cobra.Command {
	var withComputer bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := config.MustLoad(*configPath)
			logger := initLogger(conf, cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			games, closeStorage, err := app.NewGameManager(ctx, logger, conf)
			if err != nil {
				return err
			}

			defer closeStorage()

			mode := entity.ModeHuman
			if withComputer {
				mode = entity.ModeComputer
			}

			return console.New(logger, games, conf.Game.ComputerDelay, cmd.InOrStdin(), cmd.OutOrStdout()).Play(ctx, mode)
		},
	}

	cmd.Flags().BoolVar(&withComputer, "computer", false, "play X against the computer")

	return cmd
}

func newAnalyzeCommand() *cobra.Command {
	var (
		notation string
		player   string
	)

	cmd := &cobra.Command{
		Use:     "analyze",
		Short:   "Score every legal move of a position",
		Example: "  tictactoe analyze --board XX.OO.... --player O",
		RunE: func(cmd *cobra.Command, _ []string) error {
			board, err := entity.ParseBoard(notation)
			if err != nil {
				return err
			}

			analysis, err := tictactoe.Analyze(board, entity.Mark(strings.ToUpper(player)))
			if err != nil {
				return fmt.Errorf("failed to analyze: %w", err)
			}

			return console.PrintAnalysis(cmd.OutOrStdout(), board, analysis)
		},
	}

	cmd.Flags().StringVar(&notation, "board", ".........", "9 cells row by row: X, O and . for empty")
	cmd.Flags().StringVar(&player, "player", string(entity.PlayerO), "mark to move, X or O")

	return cmd
}

// initialize logger.
func initLogger(conf *config.Config, w io.Writer) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
