package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/planora/weekplanner/internal/api/respond"
	"github.com/planora/weekplanner/internal/api/validate"
	"github.com/planora/weekplanner/internal/backup"
	"github.com/planora/weekplanner/internal/model"
)

// BackupHandler serves export, restore and the full account wipe.
type BackupHandler struct {
	svc *backup.Service
}

func NewBackupHandler(svc *backup.Service) *BackupHandler {
	return &BackupHandler{svc: svc}
}

// userVar pulls and validates {userId}. A false return means the error
// response was already written.
func userVar(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return "", false
	}
	return userID, true
}

// Export bundles everything the user owns into a downloadable document.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := userVar(w, r)
	if !ok {
		return
	}

	doc, err := h.svc.Export(r.Context(), userID)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("planner-backup-%s.json", doc.Timestamp.Format("2006-01-02"))))
	respond.WriteJSON(w, http.StatusOK, doc)
}

// Restore imports a previously exported document into this user's account.
// Conflict handling is selected with the overwrite and skipConflicts query
// parameters.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	userID, ok := userVar(w, r)
	if !ok {
		return
	}

	var doc model.BackupDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}

	opts := backup.ImportOptions{
		Overwrite:     r.URL.Query().Get("overwrite") == "true",
		SkipConflicts: r.URL.Query().Get("skipConflicts") == "true",
	}

	res, err := h.svc.Import(r.Context(), userID, &doc, opts)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}

// ClearData wipes every record the user owns.
func (h *BackupHandler) ClearData(w http.ResponseWriter, r *http.Request) {
	userID, ok := userVar(w, r)
	if !ok {
		return
	}

	res, err := h.svc.ClearAll(r.Context(), userID)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}
