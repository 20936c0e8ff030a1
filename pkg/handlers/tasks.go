package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"eventplanner-backend/pkg/models"
	"eventplanner-backend/pkg/services"
	"eventplanner-backend/pkg/session"
	"eventplanner-backend/pkg/views"
)

// TasksHandler 任务增删改
type TasksHandler struct {
	*Base
	tasks *services.Tasks
}

func NewTasksHandler(base *Base, tasks *services.Tasks) *TasksHandler {
	return &TasksHandler{Base: base, tasks: tasks}
}

func addTaskData() views.PageData {
	return views.PageData{Heading: "Add Task", Action: "/task/add"}
}

func editTaskData(task *models.Task) views.PageData {
	return views.PageData{
		Heading: "Edit Task: " + task.Text,
		Action:  fmt.Sprintf("/task/%d/edit", task.ID),
		Form:    url.Values{"task": {task.Text}},
	}
}

// AddPage GET /task/add
func (h *TasksHandler) AddPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.PageAddTask, addTaskData())
}

// Add POST /task/add puts the task in the current room, or makes it personal
func (h *TasksHandler) Add(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	rc := session.FromContext(r.Context())
	form := models.ParseTaskForm(r.PostForm)
	task, err := h.tasks.Add(r.Context(), rc.UserID(), rc.Room, form.Task)
	if err != nil {
		if !h.invalid(w, r, err, views.PageAddTask, addTaskData()) {
			h.fail(w, r, err)
		}
		return
	}
	h.redirect(w, r, afterItemChange(rc), "Added Task: "+task.Text)
}

// authoredTask loads {id} and checks the requester wrote it
func (h *TasksHandler) authoredTask(r *http.Request) (*models.Task, error) {
	id, ok := idParam(r)
	if !ok {
		return nil, services.ErrNotFound
	}
	task, err := h.tasks.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if task.AuthorID != session.FromContext(r.Context()).UserID() {
		return nil, services.ErrForbidden
	}
	return task, nil
}

// EditPage GET /task/{id}/edit
func (h *TasksHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	task, err := h.authoredTask(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, views.PageAddTask, editTaskData(task))
}

// Edit POST /task/{id}/edit
func (h *TasksHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	if !parseForm(w, r) {
		return
	}

	rc := session.FromContext(r.Context())
	form := models.ParseTaskForm(r.PostForm)
	old, err := h.tasks.Edit(r.Context(), id, rc.UserID(), form.Task)
	if err != nil {
		var verrs models.ValidationErrors
		if errors.As(err, &verrs) {
			h.invalid(w, r, err, views.PageAddTask, views.PageData{
				Heading: "Edit Task",
				Action:  fmt.Sprintf("/task/%d/edit", id),
			})
			return
		}
		h.fail(w, r, err)
		return
	}
	h.redirect(w, r, afterItemChange(rc), "Edited "+old+" -> "+form.Task)
}

// ConfirmDelete GET /task/{id}/delete
func (h *TasksHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	rc := session.FromContext(r.Context())
	task, err := h.tasks.AuthorizeRemove(r.Context(), id, rc.UserID(), rc.Room)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, views.PageDeleteTask, views.PageData{Task: task})
}

// Annihilate GET /{id}/annihilate
func (h *TasksHandler) Annihilate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	rc := session.FromContext(r.Context())
	task, err := h.tasks.Remove(r.Context(), id, rc.UserID(), rc.Room)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.redirect(w, r, afterItemChange(rc), "Deleted task: - "+task.Text)
}
