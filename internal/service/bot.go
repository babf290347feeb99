package service

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tixtax-backend/internal/entity"
	"github.com/rocketscienceinc/tixtax-backend/internal/tixtax"
)

var (
	ErrNotBotTurn       = errors.New("it is not the bot's turn")
	ErrNoAvailableMoves = errors.New("no available moves")
)

type BotService interface {
	MakeTurn(game *entity.Game) (tixtax.Outcome, error)
}

type botService struct {
	mark entity.Mark
	rnd  *rand.Rand
}

// NewBotService returns a bot that plays mark with uniformly random legal moves.
func NewBotService(mark entity.Mark, seed int64) BotService {
	return &botService{
		mark: mark,
		rnd:  rand.New(rand.NewSource(seed)), //nolint: gosec // it's ok
	}
}

// MakeTurn plays until the turn passes to the opponent or the game ends,
// selecting a sub-board first when the bot is unconstrained.
func (that *botService) MakeTurn(game *entity.Game) (tixtax.Outcome, error) {
	if err := game.ConfirmOngoingState(); err != nil {
		return tixtax.Outcome{}, err
	}

	if game.Turn != that.mark {
		return tixtax.Outcome{}, ErrNotBotTurn
	}

	var outcome tixtax.Outcome
	for game.Turn == that.mark && !game.IsFinished() {
		pos, err := that.pick(tixtax.LegalMoves(game))
		if err != nil {
			return outcome, err
		}

		if outcome, err = tixtax.ApplyMove(game, pos); err != nil {
			return outcome, fmt.Errorf("bot failed to make turn: %w", err)
		}
	}

	return outcome, nil
}

func (that *botService) pick(moves [entity.BoardSize][entity.BoardSize]bool) (entity.Position, error) {
	available := make([]entity.Position, 0, entity.BoardSize*entity.BoardSize)
	for y := range moves {
		for x := range moves[y] {
			if moves[y][x] {
				available = append(available, entity.Position{X: x, Y: y})
			}
		}
	}

	if len(available) == 0 {
		return entity.Position{}, ErrNoAvailableMoves
	}

	return available[that.rnd.Intn(len(available))], nil
}
