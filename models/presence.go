package models

import (
	"time"
)

// PresenceRecord is the ephemeral online/offline state of one user.
// Keyed by user id, overwritten on every connect/disconnect, no history.
type PresenceRecord struct {
	UserID   uint      `json:"user_id"`
	Online   bool      `json:"online"`
	LastSeen time.Time `json:"last_seen"`
	Role     string    `json:"role,omitempty"`
}
