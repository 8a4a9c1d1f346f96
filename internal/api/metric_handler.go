package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/planora/weekplanner/internal/api/respond"
	"github.com/planora/weekplanner/internal/api/validate"
	"github.com/planora/weekplanner/internal/model"
	"github.com/planora/weekplanner/internal/services"
)

// MetricHandler serves the per-day pipeline tallies.
type MetricHandler struct {
	svc *services.MetricService
}

func NewMetricHandler(svc *services.MetricService) *MetricHandler {
	return &MetricHandler{svc: svc}
}

func (h *MetricHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	userID, weekID, day, ok := dayVars(w, r)
	if !ok {
		return
	}
	m, err := h.svc.Get(r.Context(), userID, weekID, day)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, m)
}

func (h *MetricHandler) Increment(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, 1)
}

func (h *MetricHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, -1)
}

func (h *MetricHandler) adjust(w http.ResponseWriter, r *http.Request, delta int) {
	userID, weekID, day, ok := dayVars(w, r)
	if !ok {
		return
	}
	counter := mux.Vars(r)["counter"]
	if err := validate.Counter(counter); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	m, err := h.svc.Adjust(r.Context(), userID, weekID, day, model.Counter(counter), delta)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, m)
}
