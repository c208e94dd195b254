package chat

import "time"

// User is a chat profile keyed by email address.
// LastSeen is refreshed opportunistically whenever the user sends a message;
// it is nil for profiles that have never been active.
type User struct {
	Email       string     `db:"email"`
	DisplayName string     `db:"display_name"`
	PhotoURL    string     `db:"photo_url"`
	LastSeen    *time.Time `db:"last_seen"`
}
