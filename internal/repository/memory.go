package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// memoryStore keeps values by id and hands out copies, so callers never share state.
type memoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

func newMemoryStore[T any]() *memoryStore[T] {
	return &memoryStore[T]{items: make(map[string]T)}
}

func (that *memoryStore[T]) put(id string, item T) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.items[id] = item
}

func (that *memoryStore[T]) get(id string) (*T, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	item, ok := that.items[id]
	if !ok {
		return nil, false
	}

	return &item, true
}

func (that *memoryStore[T]) remove(id string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.items[id]; !ok {
		return false
	}

	delete(that.items, id)
	return true
}

type memoryGame struct {
	store *memoryStore[entity.Session]
}

// NewMemoryGameRepository keeps sessions in process memory for the lifetime of the server.
func NewMemoryGameRepository() GameRepository {
	return &memoryGame{store: newMemoryStore[entity.Session]()}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	that.store.put(session.ID, *session)
	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.Session, error) {
	session, ok := that.store.get(id)
	if !ok {
		return nil, ErrGameNotFound
	}
	return session, nil
}

func (that *memoryGame) DeleteByID(_ context.Context, id string) error {
	if !that.store.remove(id) {
		return ErrGameNotFound
	}
	return nil
}

type memoryPlayer struct {
	store *memoryStore[entity.Player]
}

func NewMemoryPlayerRepository() PlayerRepository {
	return &memoryPlayer{store: newMemoryStore[entity.Player]()}
}

func (that *memoryPlayer) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	that.store.put(player.ID, *player)
	return nil
}

func (that *memoryPlayer) GetByID(_ context.Context, id string) (*entity.Player, error) {
	player, ok := that.store.get(id)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}
