// AngelaMos | 2026
// handler.go

package performance

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/leadflow/internal/core"
	"github.com/carterperez-dev/leadflow/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/performance", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireManagerOrAdmin)

		r.Get("/employee-performance", h.EmployeePerformance)
		r.Get("/lead-status", h.LeadStatus)
		r.Get("/conversion-trend", h.ConversionTrend)
	})
}

func (h *Handler) EmployeePerformance(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.EmployeePerformance(r.Context(), r.URL.Query().Get("dateRange"))
	if err != nil {
		core.HandleError(w, err, "performance")
		return
	}

	core.OK(w, report)
}

func (h *Handler) LeadStatus(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.LeadStatus(r.Context(), r.URL.Query().Get("dateRange"))
	if err != nil {
		core.HandleError(w, err, "performance")
		return
	}

	core.OK(w, report)
}

func (h *Handler) ConversionTrend(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.ConversionTrend(r.Context(), r.URL.Query().Get("days"))
	if err != nil {
		core.HandleError(w, err, "performance")
		return
	}

	core.OK(w, report)
}
