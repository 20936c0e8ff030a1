package handlers

import (
	"net/http"

	"eventplanner-backend/pkg/services"
	"eventplanner-backend/pkg/session"
	"eventplanner-backend/pkg/views"
)

// HomeHandler 首页
type HomeHandler struct {
	*Base
	tasks *services.Tasks
}

func NewHomeHandler(base *Base, tasks *services.Tasks) *HomeHandler {
	return &HomeHandler{Base: base, tasks: tasks}
}

// Index GET / lists the requester's own tasks
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	rc := session.FromContext(r.Context())

	var data views.PageData
	if rc.User != nil {
		tasks, err := h.tasks.ListForUser(r.Context(), rc.User.ID)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		data.Tasks = tasks
	}
	h.render(w, r, http.StatusOK, views.PageIndex, data)
}
