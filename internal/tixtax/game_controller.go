package tixtax

import (
	"fmt"

	"github.com/rocketscienceinc/tixtax-backend/internal/apperror"
	"github.com/rocketscienceinc/tixtax-backend/internal/entity"
)

type OutcomeKind string

const (
	OutcomeContinue OutcomeKind = "continue"
	OutcomeWon      OutcomeKind = "won"
	OutcomeDraw     OutcomeKind = "draw"
	OutcomeRejected OutcomeKind = "rejected"
)

// Outcome describes the result of ApplyMove.
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Winner string      `json:"winner,omitempty"`
	Reason string      `json:"reason,omitempty"`
}

// NewGame creates a session with an empty board, no constraint and player one to move.
func NewGame(id, playerOne, playerTwo string) *entity.Game {
	return &entity.Game{
		ID:        id,
		PlayerOne: playerOne,
		PlayerTwo: playerTwo,
		Turn:      entity.MarkOne,
		Board:     entity.NewSuperBoard(),
		Status:    entity.StatusAwaitingBoard,
	}
}

// CheckTurn rejects actors who are not the player to move.
func CheckTurn(game *entity.Game, actor string) error {
	if actor == "" || game.MarkOf(actor) != game.Turn {
		return apperror.ErrWrongTurn
	}

	return nil
}

// ApplyMove applies pos to the game. Without a constraint pos selects a
// sub-board and the turn stays; with a constraint pos places the current mark
// inside the constrained sub-board. A rejected move leaves the game untouched.
func ApplyMove(game *entity.Game, pos entity.Position) (Outcome, error) {
	if err := game.ConfirmOngoingState(); err != nil {
		return rejected(err), err
	}

	if err := validateMove(game, pos); err != nil {
		err = fmt.Errorf("invalid move %s: %w", pos, err)
		return rejected(err), err
	}

	if game.Constraint == nil {
		selected := pos
		game.Constraint = &selected
	} else {
		placeMark(game, pos)
	}

	return updateGameStatus(game), nil
}

// LegalMoves returns which positions are playable at the level the game
// currently exposes: sub-boards when unconstrained, cells otherwise.
func LegalMoves(game *entity.Game) [entity.BoardSize][entity.BoardSize]bool {
	var moves [entity.BoardSize][entity.BoardSize]bool
	if game.IsFinished() {
		return moves
	}

	for y := range moves {
		for x := range moves[y] {
			moves[y][x] = validateMove(game, entity.Position{X: x, Y: y}) == nil
		}
	}

	return moves
}

func validateMove(game *entity.Game, pos entity.Position) error {
	if !pos.Valid() {
		return fmt.Errorf("%w: %w", apperror.ErrIllegalMove, entity.ErrInvalidPosition)
	}

	if game.Constraint == nil {
		if game.Board.At(pos).Decided() {
			return fmt.Errorf("%w: board %s is already decided", apperror.ErrIllegalMove, pos)
		}

		return nil
	}

	if game.Board.At(*game.Constraint).At(pos).Owner() != entity.NoMark {
		return fmt.Errorf("%w: cell %s is already occupied", apperror.ErrIllegalMove, pos)
	}

	return nil
}

func placeMark(game *entity.Game, pos entity.Position) {
	game.Board.At(*game.Constraint).At(pos).Mark = game.Turn
	game.Turn = game.Turn.Other()

	if game.Board.At(pos).Decided() {
		game.Constraint = nil
		return
	}

	next := pos
	game.Constraint = &next
}

func updateGameStatus(game *entity.Game) Outcome {
	if winner := game.Board.Owner(); winner != entity.NoMark {
		game.Status = entity.StatusWon
		game.Winner = winner
		game.Constraint = nil

		return Outcome{Kind: OutcomeWon, Winner: game.PlayerByMark(winner)}
	}

	if entity.AllDecided(game.Board) {
		game.Status = entity.StatusDraw
		game.Constraint = nil

		return Outcome{Kind: OutcomeDraw}
	}

	if game.Constraint == nil {
		game.Status = entity.StatusAwaitingBoard
	} else {
		game.Status = entity.StatusAwaitingCell
	}

	return Outcome{Kind: OutcomeContinue}
}

func rejected(err error) Outcome {
	return Outcome{Kind: OutcomeRejected, Reason: err.Error()}
}
