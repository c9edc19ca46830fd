// AngelaMos | 2026
// handler.go

package task

import (
	"errors"
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
	r.Route("/tasks", func(r chi.Router) {
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
	tasks, err := h.service.List(r.Context(), middleware.GetSubject(r.Context()))
	if err != nil {
		core.HandleError(w, err, "task")
		return
	}

	core.List(w, ToTaskResponseList(tasks), len(tasks))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "task")
		return
	}

	task, err := h.service.Get(r.Context(), middleware.GetSubject(r.Context()), id)
	if err != nil {
		core.HandleError(w, err, "task")
		return
	}

	core.OK(w, ToTaskResponse(task))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := core.Bind(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	task, err := h.service.Create(r.Context(), middleware.GetSubject(r.Context()), req)
	if err != nil {
		handleWriteError(w, err)
		return
	}

	core.CreatedMessage(w, "Task created successfully", ToTaskResponse(task))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "task")
		return
	}

	var req UpdateTaskRequest
	if err := core.Bind(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	task, err := h.service.Update(r.Context(), middleware.GetSubject(r.Context()), id, req)
	if err != nil {
		handleWriteError(w, err)
		return
	}

	core.OKMessage(w, "Task updated successfully", ToTaskResponse(task))
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "task")
		return
	}

	task, err := h.service.Toggle(r.Context(), middleware.GetSubject(r.Context()), id)
	if err != nil {
		core.HandleError(w, err, "task")
		return
	}

	state := "incomplete"
	if task.Completed {
		state = "completed"
	}

	core.OKMessage(w, "Task marked as "+state, ToTaskResponse(task))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "task")
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetSubject(r.Context()), id); err != nil {
		core.HandleError(w, err, "task")
		return
	}

	core.OKMessage(w, "Task deleted successfully", nil)
}

func handleWriteError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrLeadNotFound) {
		core.NotFound(w, "lead")
		return
	}
	core.HandleError(w, err, "task")
}
