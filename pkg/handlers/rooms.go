package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"eventplanner-backend/pkg/models"
	"eventplanner-backend/pkg/services"
	"eventplanner-backend/pkg/session"
	"eventplanner-backend/pkg/views"
)

// RoomsHandler 房间（活动）管理
type RoomsHandler struct {
	*Base
	rooms *services.Rooms
}

func NewRoomsHandler(base *Base, rooms *services.Rooms) *RoomsHandler {
	return &RoomsHandler{Base: base, rooms: rooms}
}

func (h *RoomsHandler) ownedRooms(r *http.Request) (views.PageData, error) {
	rooms, err := h.rooms.ListOwnedBy(r.Context(), session.FromContext(r.Context()).UserID())
	return views.PageData{Rooms: rooms}, err
}

// List GET /rooms
func (h *RoomsHandler) List(w http.ResponseWriter, r *http.Request) {
	data, err := h.ownedRooms(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, views.PageRooms, data)
}

// Submit POST /rooms creates a room, or with a "joinroom" field looks one up by name
func (h *RoomsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	if _, joining := r.PostForm["joinroom"]; joining {
		h.findAndJoin(w, r, strings.TrimSpace(r.PostForm.Get("joinroom")))
		return
	}

	rc := session.FromContext(r.Context())
	form := models.ParseRoomForm(r.PostForm)
	_, err := h.rooms.Create(r.Context(), form.Name, rc.UserID())
	switch {
	case errors.Is(err, services.ErrConflict):
		h.redirect(w, r, "/rooms", "Event already created. Use different name or join excisting.")
	case err != nil:
		data, lerr := h.ownedRooms(r)
		if lerr != nil {
			h.fail(w, r, lerr)
			return
		}
		if !h.invalid(w, r, err, views.PageRooms, data) {
			h.fail(w, r, err)
		}
	default:
		h.redirect(w, r, "/rooms")
	}
}

func (h *RoomsHandler) findAndJoin(w http.ResponseWriter, r *http.Request, name string) {
	if name == "" {
		h.redirect(w, r, "/rooms", "Can't find that event")
		return
	}
	room, err := h.rooms.FindByName(r.Context(), name)
	switch {
	case errors.Is(err, services.ErrNotFound):
		h.redirect(w, r, "/rooms", "Can't find that event")
	case err != nil:
		h.fail(w, r, err)
	default:
		h.redirect(w, r, fmt.Sprintf("/joinroom/%d", room.ID))
	}
}

// Join GET /joinroom/{id}
func (h *RoomsHandler) Join(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	room, err := h.rooms.Join(r.Context(), session.FromContext(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.redirect(w, r, "/eventview", "Join event success. You are now in: "+room.Name)
}

// Leave GET /leaveroom
func (h *RoomsHandler) Leave(w http.ResponseWriter, r *http.Request) {
	h.rooms.Leave(session.FromContext(r.Context()))
	h.redirect(w, r, "/", "Left event view.")
}

// ConfirmDelete GET /rooms/delete/{id}
func (h *RoomsHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	room, err := h.rooms.AuthorizeDelete(r.Context(), id, session.FromContext(r.Context()).UserID())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, views.PageDeleteRoom, views.PageData{Target: room})
}

// Remove GET /rooms/remove/{id}
func (h *RoomsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	rc := session.FromContext(r.Context())
	if _, err := h.rooms.Delete(r.Context(), id, rc.UserID()); err != nil {
		h.fail(w, r, err)
		return
	}

	// 删除的是当前房间时同时离开
	if rc.Room != nil && rc.Room.ID == id {
		rc.ClearRoom()
	}
	h.logger.Info().Int64("room_id", id).Int64("user_id", rc.UserID()).Msg("room deleted")
	h.redirect(w, r, "/rooms", "Deleted event")
}
