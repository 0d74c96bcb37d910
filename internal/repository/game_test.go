package repository

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage, time.Hour)

	// Given: a session in progress
	session := &entity.Session{
		ID:    "123",
		Board: entity.Board{entity.PlayerX},
		Turn:  entity.PlayerO,
		Mode:  entity.ModeComputer,
	}

	// When: CreateOrUpdate is called
	err := gameRepo.CreateOrUpdate(ctx, session)

	// Then: no error is returned and the key expires with the configured ttl
	require.NoError(t, err)

	ttl, err := st.Storage.TTL(ctx, "game:123").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Hour)
}

func TestGameRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a stored session
		session := &entity.Session{
			ID:    "123",
			Board: entity.Board{entity.PlayerX, entity.EmptyCell, entity.PlayerO},
			Turn:  entity.PlayerX,
			Mode:  entity.ModeHuman,
		}

		err := gameRepo.CreateOrUpdate(ctx, session)
		require.NoError(t, err)

		// When: GetByID is called with the existing ID
		retrievedGame, err := gameRepo.GetByID(ctx, session.ID)

		// Then: the retrieved session matches the saved one
		require.NoError(t, err)
		require.Equal(t, session, retrievedGame)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// When: GetByID is called with a non-existent ID
		retrievedGame, err := gameRepo.GetByID(ctx, "9999999")

		// Then: ErrGameNotFound is returned
		require.ErrorIs(t, err, ErrGameNotFound)
		assert.Nil(t, retrievedGame)
	})
}

func TestGameRepository_DeleteByID(t *testing.T) {
	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a stored session
		session := &entity.Session{ID: "123", Turn: entity.PlayerX, Mode: entity.ModeHuman}

		err := gameRepo.CreateOrUpdate(ctx, session)
		require.NoError(t, err)

		// When: DeleteByID is called with the existing ID
		err = gameRepo.DeleteByID(ctx, session.ID)

		// Then: no error is returned and the session is gone
		require.NoError(t, err)

		_, err = gameRepo.GetByID(ctx, session.ID)
		require.ErrorIs(t, err, ErrGameNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// When: DeleteByID is called with a non-existent ID
		err := gameRepo.DeleteByID(ctx, "9999999")

		// Then: ErrGameNotFound is returned
		require.ErrorIs(t, err, ErrGameNotFound)
	})
}
