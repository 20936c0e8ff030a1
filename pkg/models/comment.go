package models

import "time"

// Comment is a message posted into a room's event view
type Comment struct {
	ID         int64     `json:"id" db:"id"`
	Text       string    `json:"text" db:"text"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	AuthorID   int64     `json:"author_id" db:"author_id"`
	RoomID     *int64    `json:"room_id,omitempty" db:"room_id"`
	AuthorName string    `json:"author_name,omitempty" db:"author_name"`
}
