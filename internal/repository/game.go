package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tixtax-backend/internal/apperror"
	"github.com/rocketscienceinc/tixtax-backend/internal/entity"
	"github.com/rocketscienceinc/tixtax-backend/internal/repository/storage"
)

const gamePrefix = "game:"

type GameRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Game, error)
}

type dbGame struct {
	storage kvStorage
}

func NewGameRepository(st kvStorage) GameRepository {
	return &dbGame{
		storage: st,
	}
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	if err = that.storage.Set(ctx, gamePrefix+game.ID, gameJSON, ttlUntil(game.ExpiresAt)); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	response, err := that.storage.Get(ctx, gamePrefix+id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal(response, &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	if err := that.storage.Delete(ctx, gamePrefix+id); err != nil {
		return fmt.Errorf("failed to delete game by id: %w", err)
	}

	return nil
}

// List returns every stored game. Games that vanish between listing and reading are skipped.
func (that *dbGame) List(ctx context.Context) ([]*entity.Game, error) {
	keys, err := that.storage.Keys(ctx, gamePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	games := make([]*entity.Game, 0, len(keys))
	for _, key := range keys {
		game, err := that.GetByID(ctx, strings.TrimPrefix(key, gamePrefix))
		if errors.Is(err, apperror.ErrGameNotFound) {
			continue
		}

		if err != nil {
			return nil, err
		}

		games = append(games, game)
	}

	return games, nil
}
