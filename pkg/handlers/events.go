package handlers

import (
	"net/http"

	"eventplanner-backend/pkg/models"
	"eventplanner-backend/pkg/services"
	"eventplanner-backend/pkg/session"
	"eventplanner-backend/pkg/views"
)

// EventsHandler 当前房间的事件视图与评论
type EventsHandler struct {
	*Base
	tasks    *services.Tasks
	comments *services.Comments
}

func NewEventsHandler(base *Base, tasks *services.Tasks, comments *services.Comments) *EventsHandler {
	return &EventsHandler{Base: base, tasks: tasks, comments: comments}
}

// roomData loads the current room's tasks and comments
func (h *EventsHandler) roomData(r *http.Request, room *models.Room) (views.PageData, error) {
	var data views.PageData
	tasks, err := h.tasks.ListForRoom(r.Context(), room.ID)
	if err != nil {
		return data, err
	}
	comments, err := h.comments.ListForRoom(r.Context(), room.ID)
	if err != nil {
		return data, err
	}
	data.Tasks = tasks
	data.Comments = comments
	return data, nil
}

// EventView GET /eventview
func (h *EventsHandler) EventView(w http.ResponseWriter, r *http.Request) {
	rc := session.FromContext(r.Context())
	if !rc.InRoom() {
		h.Forbidden(w, r)
		return
	}

	data, err := h.roomData(r, rc.Room)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, views.PageEventView, data)
}

// PostComment POST /eventview
func (h *EventsHandler) PostComment(w http.ResponseWriter, r *http.Request) {
	rc := session.FromContext(r.Context())
	if !rc.InRoom() {
		h.Forbidden(w, r)
		return
	}
	if !parseForm(w, r) {
		return
	}

	form := models.ParseCommentForm(r.PostForm)
	_, err := h.comments.Add(r.Context(), rc.UserID(), rc.Room, form.Text)
	if err != nil {
		data, lerr := h.roomData(r, rc.Room)
		if lerr != nil {
			h.fail(w, r, lerr)
			return
		}
		if !h.invalid(w, r, err, views.PageEventView, data) {
			h.fail(w, r, err)
		}
		return
	}
	h.redirect(w, r, "/eventview")
}

// DeleteComment GET /comment/delete/{id}
func (h *EventsHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	rc := session.FromContext(r.Context())
	if err := h.comments.Remove(r.Context(), id, rc.UserID(), rc.Room); err != nil {
		h.fail(w, r, err)
		return
	}
	h.redirect(w, r, afterItemChange(rc), "Deleted comment")
}
