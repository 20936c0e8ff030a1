package session

import (
	"context"

	"eventplanner-backend/pkg/models"
)

type contextKey struct{}

// RequestContext is the session resolved for one request.
// User and Room are nil when the ids in State do not resolve.
type RequestContext struct {
	State *State
	User  *models.User
	Room  *models.Room
}

// UserID returns the resolved user's id, or 0
func (rc *RequestContext) UserID() int64 {
	if rc.User == nil {
		return 0
	}
	return rc.User.ID
}

// InRoom reports whether both a user and a current room resolved
func (rc *RequestContext) InRoom() bool {
	return rc.User != nil && rc.Room != nil
}

// SetUser logs user in
func (rc *RequestContext) SetUser(user *models.User) {
	rc.User = user
	rc.State.SetUser(user.ID)
}

// Logout clears the user and the current room
func (rc *RequestContext) Logout() {
	rc.User, rc.Room = nil, nil
	rc.State.Logout()
}

// SetRoom makes room the current room
func (rc *RequestContext) SetRoom(room *models.Room) {
	rc.Room = room
	rc.State.SetRoom(room.ID)
}

// ClearRoom leaves the current room
func (rc *RequestContext) ClearRoom() {
	rc.Room = nil
	rc.State.ClearRoom()
}

// NewContext stores rc in ctx
func NewContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// FromContext returns the request's session. Without one it returns an anonymous context.
func FromContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(contextKey{}).(*RequestContext); ok && rc != nil {
		return rc
	}
	return &RequestContext{State: &State{}}
}
