package apperror

import "errors"

var (
	ErrIllegalMove         = errors.New("illegal move")
	ErrWrongTurn           = errors.New("hey wait for your turn")
	ErrInvalidSessionState = errors.New("game is already finished")
	ErrGameNotFound        = errors.New("game not found")
	ErrInviteNotFound      = errors.New("invite not found")
	ErrInviteNotForYou     = errors.New("that invite is not for you")
	ErrSelfInvite          = errors.New("you can't play against yourself")
	ErrMissingPlayer       = errors.New("player id is required")
)
