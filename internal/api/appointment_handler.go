package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/planora/weekplanner/internal/api/respond"
	"github.com/planora/weekplanner/internal/api/validate"
	"github.com/planora/weekplanner/internal/services"
)

// AppointmentHandler serves the weekly appointment grid.
type AppointmentHandler struct {
	svc *services.AppointmentService
}

func NewAppointmentHandler(svc *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

// ListWeek returns every block of the week, migrating legacy keys on the way.
func (h *AppointmentHandler) ListWeek(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, weekID := vars["userId"], vars["weekId"]
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.WeekID(weekID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	blocks, err := h.svc.ListWeek(r.Context(), userID, weekID)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"appointments": blocks,
		"count":        len(blocks),
	})
}

// SaveActivity places or updates one activity. The week id in the path wins
// over whatever the body says.
func (h *AppointmentHandler) SaveActivity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["userId"]
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	var req services.SaveActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	req.WeekID = vars["weekId"]

	if err := validate.SaveActivity(req.WeekID, string(req.Category), req.Activity,
		req.Note, req.StartTime, req.EndTime, req.StartDay, req.EndDay); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	created, err := h.svc.Save(r.Context(), userID, req)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"appointments": created,
		"count":        len(created),
	})
}

// DeleteGroup removes every block of an activity. Unknown groups delete zero
// blocks and still return 200.
func (h *AppointmentHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, weekID, groupID := vars["userId"], vars["weekId"], vars["groupId"]
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.WeekID(weekID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.NonEmpty("groupId", groupID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	n, err := h.svc.DeleteGroup(r.Context(), userID, weekID, groupID)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]int{"deleted": n})
}
