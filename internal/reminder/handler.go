// AngelaMos | 2026
// handler.go

package reminder

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/leadflow/internal/core"
	"github.com/carterperez-dev/leadflow/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/reminders", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Patch("/{id}/toggle", h.Toggle)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.service.List(r.Context(), middleware.GetSubject(r.Context()))
	if err != nil {
		core.HandleError(w, err, "reminder")
		return
	}

	core.List(w, ToReminderResponseList(reminders), len(reminders))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "reminder")
		return
	}

	reminder, err := h.service.Get(r.Context(), middleware.GetSubject(r.Context()), id)
	if err != nil {
		core.HandleError(w, err, "reminder")
		return
	}

	core.OK(w, ToReminderResponse(reminder))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReminderRequest
	if err := core.Bind(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	reminder, err := h.service.Create(r.Context(), middleware.GetSubject(r.Context()), req)
	if err != nil {
		core.HandleError(w, err, "reminder")
		return
	}

	core.CreatedMessage(w, "Reminder created successfully", ToReminderResponse(reminder))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "reminder")
		return
	}

	var req UpdateReminderRequest
	if err := core.Bind(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	reminder, err := h.service.Update(r.Context(), middleware.GetSubject(r.Context()), id, req)
	if err != nil {
		core.HandleError(w, err, "reminder")
		return
	}

	core.OKMessage(w, "Reminder updated successfully", ToReminderResponse(reminder))
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "reminder")
		return
	}

	reminder, err := h.service.Toggle(r.Context(), middleware.GetSubject(r.Context()), id)
	if err != nil {
		core.HandleError(w, err, "reminder")
		return
	}

	state := "incomplete"
	if reminder.Completed {
		state = "completed"
	}

	core.OKMessage(w, "Reminder marked as "+state, ToReminderResponse(reminder))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "reminder")
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetSubject(r.Context()), id); err != nil {
		core.HandleError(w, err, "reminder")
		return
	}

	core.OKMessage(w, "Reminder deleted successfully", nil)
}
