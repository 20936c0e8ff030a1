package services

import (
	"context"

	"eventplanner-backend/pkg/database"
	"eventplanner-backend/pkg/models"
)

// Comments is the comment board. Comments only exist inside a room.
type Comments struct {
	db database.DatabaseInterface
}

func NewComments(db database.DatabaseInterface) *Comments {
	return &Comments{db: db}
}

func (s *Comments) Add(ctx context.Context, authorID int64, currentRoom *models.Room, text string) (*models.Comment, error) {
	if authorID == 0 || currentRoom == nil {
		return nil, ErrForbidden
	}
	form := models.CommentForm{Text: text}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	roomID := currentRoom.ID
	comment := &models.Comment{Text: form.Text, AuthorID: authorID, RoomID: &roomID}
	if err := s.db.CreateComment(ctx, comment); err != nil {
		return nil, storeError("add comment", err)
	}
	return comment, nil
}

// Remove deletes a comment under the same rule as tasks
func (s *Comments) Remove(ctx context.Context, commentID, requesterID int64, currentRoom *models.Room) error {
	comment, err := s.db.GetComment(ctx, commentID)
	if err != nil {
		return storeError("get comment", err)
	}
	if !CanModify(comment.AuthorID, comment.RoomID, requesterID, currentRoom) {
		return ErrForbidden
	}
	if err := s.db.DeleteComment(ctx, commentID); err != nil {
		return storeError("remove comment", err)
	}
	return nil
}

func (s *Comments) ListForRoom(ctx context.Context, roomID int64) ([]models.Comment, error) {
	comments, err := s.db.ListCommentsByRoom(ctx, roomID)
	if err != nil {
		return nil, storeError("list comments", err)
	}
	return comments, nil
}
