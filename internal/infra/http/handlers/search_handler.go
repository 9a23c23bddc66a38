package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/prospector/internal/entity"
	"github.com/xavierca1/prospector/internal/usecase"
)

type SearchHandler struct {
	Search    *usecase.SearchLeadsUseCase
	Workspace *usecase.Workspace
	Limiter   *RateLimiter
	Logger    *slog.Logger
}

func NewSearchHandler(search *usecase.SearchLeadsUseCase, ws *usecase.Workspace) *SearchHandler {
	return &SearchHandler{Search: search, Workspace: ws, Logger: slog.Default()}
}

func (h *SearchHandler) Register(r chi.Router) {
	r.Get("/history", h.History)
	r.Group(func(r chi.Router) {
		if h.Limiter != nil {
			r.Use(h.Limiter.Middleware)
		}
		r.Post("/search", h.Handle)
	})
}

func (h *SearchHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var criteria entity.SearchCriteria
	if !decodeJSON(w, r, &criteria) {
		return
	}
	if errs := usecase.ValidateSearchCriteria(criteria); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	leads, err := h.Search.Execute(r.Context(), criteria)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, usecase.SearchOutput{
		State: h.Workspace.State(),
		Count: len(leads),
		Leads: leads,
	})
}

func (h *SearchHandler) History(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Workspace.History())
}
