package models

import "time"

// Task is a to-do item. RoomID is nil for a personal task.
type Task struct {
	ID        int64     `json:"id" db:"id"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	AuthorID  int64     `json:"author_id" db:"author_id"`
	RoomID    *int64    `json:"room_id,omitempty" db:"room_id"`

	// AuthorName is only filled by list queries that join users.
	AuthorName string `json:"author_name,omitempty" db:"author_name"`
}

// Personal reports whether the task belongs to no room
func (t *Task) Personal() bool {
	return t.RoomID == nil
}
