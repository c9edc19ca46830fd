// AngelaMos | 2026
// handler.go

package lead

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carterperez-dev/leadflow/internal/core"
	"github.com/carterperez-dev/leadflow/internal/middleware"
	"github.com/carterperez-dev/leadflow/internal/query"
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
	r.Route("/leads", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/follow-ups", h.ListFollowUps)
		r.Get("/upcoming-follow-ups", h.ListUpcomingFollowUps)
		r.Get("/employee/{employeeId}", h.ListForEmployee)
		r.Get("/assigned/{managerId}", h.ListForManager)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Put("/{id}/follow-up", h.UpdateFollowUp)

		r.With(middleware.RequireAdmin).Post("/assign/manager", h.AssignToManager)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireManagerOrAdmin)
			r.Post("/", h.Create)
			r.Post("/bulk", h.BulkCreate)
			r.Delete("/{id}", h.Delete)
			r.Post("/assign/employee", h.AssignToEmployee)
			r.Put("/{id}/assign", h.AssignLead)
		})
	})

	r.Route("/follow-ups", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.FollowUpBoard)
		r.Get("/employee/{employeeId}", h.EmployeeFollowUps)
		r.Get("/lead/{leadId}", h.LeadFollowUp)
		r.Put("/{leadId}", h.UpdateFollowUp)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), middleware.GetSubject(r.Context()), query.FromRequest(r))
	if err != nil {
		core.HandleError(w, err, "lead")
		return
	}

	core.Paginated(w, page.Items, page.Page, page.Limit, page.Total)
}

func (h *Handler) ListForEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := core.PathID(r, "employeeId")
	if !ok {
		core.NotFound(w, "employee")
		return
	}

	page, err := h.service.ListForEmployee(
		r.Context(),
		middleware.GetSubject(r.Context()),
		employeeID,
		query.FromRequest(r),
	)
	if err != nil {
		core.HandleError(w, err, "employee")
		return
	}

	core.Paginated(w, page.Items, page.Page, page.Limit, page.Total)
}

func (h *Handler) ListForManager(w http.ResponseWriter, r *http.Request) {
	managerID, ok := core.PathID(r, "managerId")
	if !ok {
		core.NotFound(w, "manager")
		return
	}

	page, err := h.service.ListForManager(
		r.Context(),
		middleware.GetSubject(r.Context()),
		managerID,
		query.FromRequest(r),
	)
	if err != nil {
		core.HandleError(w, err, "manager")
		return
	}

	core.Paginated(w, page.Items, page.Page, page.Limit, page.Total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "lead")
		return
	}

	lead, err := h.service.Get(r.Context(), middleware.GetSubject(r.Context()), id)
	if err != nil {
		core.HandleError(w, err, "lead")
		return
	}

	core.OK(w, lead)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest
	if err := core.Bind(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	lead, err := h.service.Create(r.Context(), middleware.GetSubject(r.Context()), req)
	if err != nil {
		core.HandleError(w, err, "lead")
		return
	}

	core.Created(w, lead)
}

func (h *Handler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	var req BulkCreateRequest
	if err := core.Bind(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	leads, err := h.service.BulkCreate(r.Context(), middleware.GetSubject(r.Context()), req)
	if err != nil {
		core.HandleError(w, err, "lead")
		return
	}

	core.CreatedMessage(w, fmt.Sprintf("%d leads created successfully", len(leads)), leads)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "lead")
		return
	}

	var req UpdateLeadRequest
	if err := core.Bind(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	lead, err := h.service.Update(r.Context(), middleware.GetSubject(r.Context()), id, req)
	if err != nil {
		core.HandleError(w, err, "lead")
		return
	}

	core.OK(w, lead)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "lead")
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetSubject(r.Context()), id); err != nil {
		core.HandleError(w, err, "lead")
		return
	}

	core.OKMessage(w, "Lead deleted", nil)
}

func (h *Handler) AssignToManager(w http.ResponseWriter, r *http.Request) {
	var req AssignManagerRequest
	if err := core.Bind(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	lead, err := h.service.AssignToManager(
		r.Context(),
		middleware.GetSubject(r.Context()),
		req.LeadID,
		req.ManagerID,
	)
	if err != nil {
		core.HandleError(w, err, "lead")
		return
	}

	core.OKMessage(w, "Lead assigned to manager successfully", lead)
}

func (h *Handler) AssignToEmployee(w http.ResponseWriter, r *http.Request) {
	var req AssignEmployeeRequest
	if err := core.Bind(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	lead, err := h.service.AssignToEmployee(
		r.Context(),
		middleware.GetSubject(r.Context()),
		req.LeadID,
		req.EmployeeID,
		req.ManagerID,
	)
	if err != nil {
		core.HandleError(w, err, "lead")
		return
	}

	core.OKMessage(w, "Lead assigned to employee successfully", lead)
}

func (h *Handler) AssignLead(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.NotFound(w, "lead")
		return
	}

	var req AssignLeadRequest
	if err := core.Bind(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	lead, err := h.service.AssignLead(r.Context(), middleware.GetSubject(r.Context()), id, req.UserID)
	if err != nil {
		core.HandleError(w, err, "lead")
		return
	}

	core.OKMessage(w, "Lead assigned successfully", lead)
}

// UpdateFollowUp serves both /leads/{id}/follow-up and /follow-ups/{leadId}.
func (h *Handler) UpdateFollowUp(w http.ResponseWriter, r *http.Request) {
	key := "id"
	if chi.URLParam(r, "leadId") != "" {
		key = "leadId"
	}

	id, ok := core.PathID(r, key)
	if !ok {
		core.NotFound(w, "lead")
		return
	}

	var req FollowUpRequest
	if err := core.Bind(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	lead, err := h.service.UpdateFollowUp(r.Context(), middleware.GetSubject(r.Context()), id, req)
	if err != nil {
		core.HandleError(w, err, "lead")
		return
	}

	core.OKMessage(w, "Follow-up updated successfully", lead)
}

func (h *Handler) ListFollowUps(w http.ResponseWriter, r *http.Request) {
	leads, err := h.service.FollowUps(r.Context(), middleware.GetSubject(r.Context()), false)
	if err != nil {
		core.HandleError(w, err, "lead")
		return
	}

	core.OK(w, leads)
}

func (h *Handler) ListUpcomingFollowUps(w http.ResponseWriter, r *http.Request) {
	leads, err := h.service.FollowUps(r.Context(), middleware.GetSubject(r.Context()), true)
	if err != nil {
		core.HandleError(w, err, "lead")
		return
	}

	core.OK(w, leads)
}

func (h *Handler) FollowUpBoard(w http.ResponseWriter, r *http.Request) {
	employeeID := strings.TrimSpace(r.URL.Query().Get("employeeId"))
	if employeeID != "" && uuid.Validate(employeeID) != nil {
		core.BadRequest(w, "employeeId must be a valid id")
		return
	}

	entries, err := h.service.FollowUpBoard(r.Context(), middleware.GetSubject(r.Context()), employeeID)
	if err != nil {
		core.HandleError(w, err, "follow-up")
		return
	}

	core.OK(w, entries)
}

func (h *Handler) EmployeeFollowUps(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := core.PathID(r, "employeeId")
	if !ok {
		core.NotFound(w, "employee")
		return
	}

	entries, err := h.service.FollowUpBoard(r.Context(), middleware.GetSubject(r.Context()), employeeID)
	if err != nil {
		core.HandleError(w, err, "follow-up")
		return
	}

	core.List(w, entries, len(entries))
}

func (h *Handler) LeadFollowUp(w http.ResponseWriter, r *http.Request) {
	leadID, ok := core.PathID(r, "leadId")
	if !ok {
		core.NotFound(w, "lead")
		return
	}

	followUp, err := h.service.LeadFollowUp(r.Context(), middleware.GetSubject(r.Context()), leadID)
	if err != nil {
		core.HandleError(w, err, "lead")
		return
	}

	core.OK(w, followUp)
}
