package usecase

import "github.com/rocketscienceinc/tixtax-backend/internal/render"

type EventKind string

const (
	EventInvite   EventKind = "invite"
	EventDeclined EventKind = "declined"
	EventBoard    EventKind = "board"
	EventFinished EventKind = "finished"
	EventTimeout  EventKind = "timeout"
)

const (
	msgGameTimedOut   = "Sorry, the game timed out."
	msgInviteTimedOut = "Sorry, the invite timed out."
	msgDeclined       = "oh they declined :("
	msgWithdrawn      = "the invite was withdrawn"
	msgDraw           = "it's a draw!"
)

// Event is what a session surface shows to every observer. Invites and the game
// they turn into share one SessionID, so observers follow a single stream.
type Event struct {
	Kind      EventKind             `json:"kind"`
	SessionID string                `json:"session_id"`
	Message   string                `json:"message,omitempty"`
	Board     *render.RenderedBoard `json:"board,omitempty"`
}
