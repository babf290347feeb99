package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/tixtax-backend/internal/apperror"
)

const (
	StatusAwaitingBoard = "awaiting_board"
	StatusAwaitingCell  = "awaiting_cell"
	StatusWon           = "won"
	StatusDraw          = "draw"
)

// Game is one tixtax session between two players.
type Game struct {
	ID         string      `json:"id"`
	PlayerOne  string      `json:"player_one"`
	PlayerTwo  string      `json:"player_two"`
	Turn       Mark        `json:"turn"`
	Constraint *Position   `json:"constraint,omitempty"`
	Board      *SuperBoard `json:"board"`
	Status     string      `json:"status"`
	Winner     Mark        `json:"winner"`
	ExpiresAt  time.Time   `json:"expires_at"`
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusDraw
}

// ConfirmOngoingState returns apperror.ErrInvalidSessionState for finished games.
func (that *Game) ConfirmOngoingState() error {
	switch that.Status {
	case StatusAwaitingBoard, StatusAwaitingCell:
		return nil
	case StatusWon, StatusDraw:
		return fmt.Errorf("%w: game %s is %s", apperror.ErrInvalidSessionState, that.ID, that.Status)
	default:
		return fmt.Errorf("%w: unknown status %q", apperror.ErrInvalidSessionState, that.Status)
	}
}

// PlayerByMark returns the identity playing the given mark.
func (that *Game) PlayerByMark(mark Mark) string {
	switch mark {
	case MarkOne:
		return that.PlayerOne
	case MarkTwo:
		return that.PlayerTwo
	default:
		return ""
	}
}

// MarkOf returns the mark played by playerID, or NoMark for spectators.
func (that *Game) MarkOf(playerID string) Mark {
	switch playerID {
	case that.PlayerOne:
		return MarkOne
	case that.PlayerTwo:
		return MarkTwo
	default:
		return NoMark
	}
}

func (that *Game) CurrentPlayer() string {
	return that.PlayerByMark(that.Turn)
}

func (that *Game) Expired(now time.Time) bool {
	return !that.ExpiresAt.IsZero() && !now.Before(that.ExpiresAt)
}
