// Package services holds the event planner's business rules: accounts, rooms,
// tasks and comments. Services never touch HTTP; they take identities and the
// current room explicitly and return the errors declared in errors.go.
package services

import (
	"eventplanner-backend/pkg/database"
	"eventplanner-backend/pkg/models"
)

// Services bundles every service over one store
type Services struct {
	Accounts *Accounts
	Rooms    *Rooms
	Tasks    *Tasks
	Comments *Comments
}

// New wires all services to db. registrationKey is the shared secret required to register.
func New(db database.DatabaseInterface, registrationKey string) *Services {
	return &Services{
		Accounts: NewAccounts(db, registrationKey),
		Rooms:    NewRooms(db),
		Tasks:    NewTasks(db),
		Comments: NewComments(db),
	}
}

// RoomSession is the part of a request's session the room registry writes to
type RoomSession interface {
	SetRoom(room *models.Room)
	ClearRoom()
}
