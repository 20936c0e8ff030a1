package services

import (
	"context"

	"eventplanner-backend/pkg/database"
	"eventplanner-backend/pkg/models"
)

// Tasks is the task board
type Tasks struct {
	db database.DatabaseInterface
}

func NewTasks(db database.DatabaseInterface) *Tasks {
	return &Tasks{db: db}
}

// Add creates a task in currentRoom, or a personal task when currentRoom is nil
func (s *Tasks) Add(ctx context.Context, authorID int64, currentRoom *models.Room, text string) (*models.Task, error) {
	if authorID == 0 {
		return nil, ErrForbidden
	}
	form := models.TaskForm{Task: text}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	task := &models.Task{Text: form.Task, AuthorID: authorID}
	if currentRoom != nil {
		roomID := currentRoom.ID
		task.RoomID = &roomID
	}
	if err := s.db.CreateTask(ctx, task); err != nil {
		return nil, storeError("add task", err)
	}
	return task, nil
}

func (s *Tasks) Get(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.db.GetTask(ctx, id)
	if err != nil {
		return nil, storeError("get task", err)
	}
	return task, nil
}

// Edit replaces the text of a task. Only its author may edit it.
// It returns the text the task had before.
func (s *Tasks) Edit(ctx context.Context, taskID, requesterID int64, text string) (string, error) {
	task, err := s.Get(ctx, taskID)
	if err != nil {
		return "", err
	}
	if requesterID == 0 || task.AuthorID != requesterID {
		return "", ErrForbidden
	}

	form := models.TaskForm{Task: text}
	if err := form.Validate(); err != nil {
		return "", err
	}

	if err := s.db.UpdateTaskText(ctx, taskID, form.Task); err != nil {
		return "", storeError("edit task", err)
	}
	return task.Text, nil
}

// AuthorizeRemove checks whether requesterID may delete taskID
func (s *Tasks) AuthorizeRemove(ctx context.Context, taskID, requesterID int64, currentRoom *models.Room) (*models.Task, error) {
	task, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !CanModify(task.AuthorID, task.RoomID, requesterID, currentRoom) {
		return task, ErrForbidden
	}
	return task, nil
}

// Remove deletes a task when the requester is its author or owns the room it was posted in
func (s *Tasks) Remove(ctx context.Context, taskID, requesterID int64, currentRoom *models.Room) (*models.Task, error) {
	task, err := s.AuthorizeRemove(ctx, taskID, requesterID, currentRoom)
	if err != nil {
		return task, err
	}
	if err := s.db.DeleteTask(ctx, taskID); err != nil {
		return task, storeError("remove task", err)
	}
	return task, nil
}

// ListForUser returns every task userID wrote, in any room or none
func (s *Tasks) ListForUser(ctx context.Context, userID int64) ([]models.Task, error) {
	tasks, err := s.db.ListTasksByAuthor(ctx, userID)
	if err != nil {
		return nil, storeError("list tasks", err)
	}
	return tasks, nil
}

func (s *Tasks) ListForRoom(ctx context.Context, roomID int64) ([]models.Task, error) {
	tasks, err := s.db.ListTasksByRoom(ctx, roomID)
	if err != nil {
		return nil, storeError("list room tasks", err)
	}
	return tasks, nil
}
