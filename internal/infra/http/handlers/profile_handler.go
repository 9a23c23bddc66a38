package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/prospector/internal/entity"
	"github.com/xavierca1/prospector/internal/usecase"
)

type ProfileHandler struct {
	Settings  *usecase.SettingsUseCase
	Workspace *usecase.Workspace
	Logger    *slog.Logger
}

func NewProfileHandler(settings *usecase.SettingsUseCase, ws *usecase.Workspace) *ProfileHandler {
	return &ProfileHandler{Settings: settings, Workspace: ws, Logger: slog.Default()}
}

func (h *ProfileHandler) Register(r chi.Router) {
	r.Get("/profile", h.Get)
	r.Put("/profile", h.Save)
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := h.Workspace.Profile()
	if p == nil {
		writeErrorResponse(w, http.StatusNotFound, usecase.CodeNoProfile, "profile not loaded")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	var settings entity.UserProfile
	if !decodeJSON(w, r, &settings) {
		return
	}
	if errs := usecase.ValidateSettings(settings); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}
	writeJSON(w, http.StatusOK, h.Settings.SaveSettings(r.Context(), settings))
}
