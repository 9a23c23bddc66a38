package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/prospector/internal/usecase"
)

// SessionHandler serves the board state that is not tied to one lead:
// selection, notifications and the session switches.
type SessionHandler struct {
	Workspace *usecase.Workspace
	Logger    *slog.Logger
}

func NewSessionHandler(ws *usecase.Workspace) *SessionHandler {
	return &SessionHandler{Workspace: ws, Logger: slog.Default()}
}

func (h *SessionHandler) Register(r chi.Router) {
	r.Get("/selection", h.Selection)
	r.Post("/selection/{id}/toggle", h.Toggle)
	r.Post("/selection/all", h.SelectAll)
	r.Delete("/selection", h.ClearSelection)

	r.Get("/notifications", h.Notifications)
	r.Delete("/notifications/{id}", h.Dismiss)

	r.Post("/session/offline", h.Offline)
	r.Post("/session/logout", h.Logout)
	r.Post("/session/reset", h.Reset)
}

func (h *SessionHandler) Selection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, usecase.SelectionOutput{Selected: h.Workspace.Selection()})
}

func (h *SessionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Workspace.ToggleSelect(chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, usecase.SelectionOutput{Selected: h.Workspace.Selection()})
}

func (h *SessionHandler) SelectAll(w http.ResponseWriter, r *http.Request) {
	var input usecase.BulkInput
	if r.ContentLength != 0 && !decodeJSON(w, r, &input) {
		return
	}
	writeJSON(w, http.StatusOK, usecase.SelectionOutput{Selected: h.Workspace.SelectAll(input.IDs)})
}

func (h *SessionHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.Workspace.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Workspace.Notifications())
}

func (h *SessionHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	if !h.Workspace.DismissNotification(chi.URLParam(r, "id")) {
		writeErrorResponse(w, http.StatusNotFound, "NOTIFICATION_NOT_FOUND", "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Offline(w http.ResponseWriter, r *http.Request) {
	var input usecase.OfflineInput
	if !decodeJSON(w, r, &input) {
		return
	}
	h.Workspace.SetOffline(input.Offline)
	h.Logger.Info("offline mode changed", "offline", input.Offline)
	writeJSON(w, http.StatusOK, map[string]bool{"offline": h.Workspace.Offline()})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Workspace.Logout()
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.Workspace.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
