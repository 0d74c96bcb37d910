package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
	"github.com/rocketscienceinc/tictactoe-minimax/testing/suite"
)

func TestGameManager_Redis(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := repository.NewGameRepository(st.Storage, time.Hour)
	manager := NewGameManager(st.Logger, repository.NewPlayerRepository(st.Storage, time.Hour), gameRepo)

	// Given: a player who played a move against the computer
	first, err := manager.StartGame(ctx, "p1", entity.ModeComputer)
	require.NoError(t, err)
	_, err = manager.MakeTurn(ctx, first.ID, 0)
	require.NoError(t, err)

	state, cell, err := manager.ComputerTurn(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, cell)
	assert.Equal(t, entity.PlayerX, state.Turn)

	// When: the player starts over with a new game
	second, err := manager.StartGame(ctx, "p1", entity.ModeHuman)
	require.NoError(t, err)

	// Then: the old key is removed and the player points at the new game
	exists, err := st.Storage.Exists(ctx, "game:"+first.ID).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	found, err := manager.PlayerGame(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, found.ID)
	assert.Equal(t, entity.ModeHuman, found.Mode)
}
