package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/planora/weekplanner/internal/api/respond"
	"github.com/planora/weekplanner/internal/api/validate"
	"github.com/planora/weekplanner/internal/services"
)

// TaskHandler serves the six-slot daily priority lists.
type TaskHandler struct {
	svc *services.TaskService
}

func NewTaskHandler(svc *services.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// dayVars pulls and validates the {userId}/{weekId}/{day} triple shared by the
// per-day routes. A false return means the error response was already written.
func dayVars(w http.ResponseWriter, r *http.Request) (userID, weekID string, day int, ok bool) {
	vars := mux.Vars(r)
	userID, weekID = vars["userId"], vars["weekId"]
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return "", "", 0, false
	}
	if err := validate.WeekID(weekID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return "", "", 0, false
	}
	day, err := strconv.Atoi(vars["day"])
	if err != nil {
		respond.WriteBadRequest(w, "day must be a number")
		return "", "", 0, false
	}
	if err := validate.Day(day); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return "", "", 0, false
	}
	return userID, weekID, day, true
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	userID, weekID, day, ok := dayVars(w, r)
	if !ok {
		return
	}
	tl, err := h.svc.Get(r.Context(), userID, weekID, day)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, tl)
}

func (h *TaskHandler) PutTasks(w http.ResponseWriter, r *http.Request) {
	userID, weekID, day, ok := dayVars(w, r)
	if !ok {
		return
	}

	var req struct {
		Tasks []string `json:"tasks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	if err := validate.Tasks(req.Tasks); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	tl, err := h.svc.Put(r.Context(), userID, weekID, day, req.Tasks)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, tl)
}

// GenerateTasks asks the model for a list grounded in the day's appointments.
// 503 when the provider is down or answers garbage.
func (h *TaskHandler) GenerateTasks(w http.ResponseWriter, r *http.Request) {
	userID, weekID, day, ok := dayVars(w, r)
	if !ok {
		return
	}
	tl, err := h.svc.Generate(r.Context(), userID, weekID, day)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, tl)
}
