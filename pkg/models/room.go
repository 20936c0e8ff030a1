package models

import "time"

// Room is a named event that groups tasks and comments. It has exactly one owner.
type Room struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	OwnerID   int64     `json:"owner_id" db:"owner_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// OwnedBy reports whether userID owns the room
func (r *Room) OwnedBy(userID int64) bool {
	return r != nil && userID != 0 && r.OwnerID == userID
}
