package services

import "eventplanner-backend/pkg/models"

// CanModify reports whether requesterID may edit or delete an item written by authorID.
// The author always may. Otherwise the requester must own the current room and the
// item must belong to that room.
func CanModify(authorID int64, itemRoomID *int64, requesterID int64, currentRoom *models.Room) bool {
	if requesterID == 0 {
		return false
	}
	if authorID == requesterID {
		return true
	}
	return currentRoom.OwnedBy(requesterID) && itemRoomID != nil && *itemRoomID == currentRoom.ID
}
