package services

import (
	"context"
	"fmt"

	"eventplanner-backend/pkg/database"
	"eventplanner-backend/pkg/models"
)

// Rooms is the room registry
type Rooms struct {
	db database.DatabaseInterface
}

func NewRooms(db database.DatabaseInterface) *Rooms {
	return &Rooms{db: db}
}

// Create registers a room owned by ownerID. Names are unique.
func (s *Rooms) Create(ctx context.Context, name string, ownerID int64) (*models.Room, error) {
	if ownerID == 0 {
		return nil, ErrForbidden
	}
	form := models.RoomForm{Name: name}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	room := &models.Room{Name: form.Name, OwnerID: ownerID}
	if err := s.db.CreateRoom(ctx, room); err != nil {
		return nil, storeError(fmt.Sprintf("create room %q", form.Name), err)
	}
	return room, nil
}

func (s *Rooms) Get(ctx context.Context, id int64) (*models.Room, error) {
	room, err := s.db.GetRoomByID(ctx, id)
	if err != nil {
		return nil, storeError("get room", err)
	}
	return room, nil
}

func (s *Rooms) FindByName(ctx context.Context, name string) (*models.Room, error) {
	room, err := s.db.GetRoomByName(ctx, name)
	if err != nil {
		return nil, storeError("find room", err)
	}
	return room, nil
}

// Join makes roomID the session's current room
func (s *Rooms) Join(ctx context.Context, sess RoomSession, roomID int64) (*models.Room, error) {
	room, err := s.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	sess.SetRoom(room)
	return room, nil
}

// Leave clears the session's current room. It is a no-op without one.
func (s *Rooms) Leave(sess RoomSession) {
	sess.ClearRoom()
}

// AuthorizeDelete checks that requesterID owns roomID
func (s *Rooms) AuthorizeDelete(ctx context.Context, roomID, requesterID int64) (*models.Room, error) {
	room, err := s.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.OwnedBy(requesterID) {
		return room, ErrForbidden
	}
	return room, nil
}

// Delete removes a room with all of its tasks and comments
func (s *Rooms) Delete(ctx context.Context, roomID, requesterID int64) (*models.Room, error) {
	room, err := s.AuthorizeDelete(ctx, roomID, requesterID)
	if err != nil {
		return room, err
	}
	if err := s.db.DeleteRoom(ctx, roomID); err != nil {
		return room, storeError("delete room", err)
	}
	return room, nil
}

// ListOwnedBy returns userID's rooms in creation order
func (s *Rooms) ListOwnedBy(ctx context.Context, userID int64) ([]models.Room, error) {
	rooms, err := s.db.ListRoomsByOwner(ctx, userID)
	if err != nil {
		return nil, storeError("list rooms", err)
	}
	return rooms, nil
}

// Count returns the number of rooms
func (s *Rooms) Count(ctx context.Context) (int, error) {
	n, err := s.db.CountRooms(ctx)
	if err != nil {
		return 0, storeError("count rooms", err)
	}
	return n, nil
}
