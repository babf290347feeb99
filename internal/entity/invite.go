package entity

import "time"

// Invite is a pending request to start a game. An empty Target means anyone
// other than the host may accept.
type Invite struct {
	ID        string    `json:"id"`
	Host      string    `json:"host"`
	Target    string    `json:"target,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (that *Invite) IsOpen() bool {
	return that.Target == ""
}

// CanAnswer reports whether playerID is allowed to accept or decline.
func (that *Invite) CanAnswer(playerID string) bool {
	if that.IsOpen() {
		return playerID != "" && playerID != that.Host
	}

	return playerID == that.Target
}

func (that *Invite) Expired(now time.Time) bool {
	return !that.ExpiresAt.IsZero() && !now.Before(that.ExpiresAt)
}
