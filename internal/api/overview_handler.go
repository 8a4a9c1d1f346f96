package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/planora/weekplanner/internal/api/respond"
	"github.com/planora/weekplanner/internal/api/validate"
	"github.com/planora/weekplanner/internal/services"
)

// OverviewHandler serves the per-week coach record and the HTML report.
type OverviewHandler struct {
	svc *services.OverviewService
}

func NewOverviewHandler(svc *services.OverviewService) *OverviewHandler {
	return &OverviewHandler{svc: svc}
}

// weekVars pulls and validates the {userId}/{weekId} pair. A false return
// means the error response was already written.
func weekVars(w http.ResponseWriter, r *http.Request) (userID, weekID string, ok bool) {
	vars := mux.Vars(r)
	userID, weekID = vars["userId"], vars["weekId"]
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return "", "", false
	}
	if err := validate.WeekID(weekID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return "", "", false
	}
	return userID, weekID, true
}

func (h *OverviewHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	userID, weekID, ok := weekVars(w, r)
	if !ok {
		return
	}
	o, err := h.svc.Get(r.Context(), userID, weekID)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, o)
}

func (h *OverviewHandler) PutRemarks(w http.ResponseWriter, r *http.Request) {
	userID, weekID, ok := weekVars(w, r)
	if !ok {
		return
	}

	var req struct {
		Remarks string `json:"remarks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	if err := validate.Remarks(req.Remarks); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	o, err := h.svc.SaveRemarks(r.Context(), userID, weekID, req.Remarks)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, o)
}

// Analyze generates the weekly manager feedback. 503 when the provider is
// unavailable; the stored overview is left untouched in that case.
func (h *OverviewHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	userID, weekID, ok := weekVars(w, r)
	if !ok {
		return
	}
	o, err := h.svc.Analyze(r.Context(), userID, weekID)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, o)
}

// Report renders the printable weekly report. The page is buffered first so a
// failing render still produces a clean JSON error.
func (h *OverviewHandler) Report(w http.ResponseWriter, r *http.Request) {
	userID, weekID, ok := weekVars(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.svc.WriteReport(r.Context(), &buf, userID, weekID); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
