package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User represents a registered account
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never return password hash in JSON
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SessionClaims is the payload of the signed session cookie.
// UserID and RoomID are zero when no user / room is selected.
type SessionClaims struct {
	UserID  int64    `json:"uid,omitempty"`
	RoomID  int64    `json:"rid,omitempty"`
	CSRF    string   `json:"csrf"`
	Flashes []string `json:"flashes,omitempty"`
	jwt.RegisteredClaims
}
