package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/prospector/internal/usecase"
)

type TemplateHandler struct {
	Templates *usecase.TemplateUseCase
	Enrich    *usecase.EnrichLeadUseCase
	Limiter   *RateLimiter
	Logger    *slog.Logger
}

func NewTemplateHandler(templates *usecase.TemplateUseCase, enrich *usecase.EnrichLeadUseCase) *TemplateHandler {
	return &TemplateHandler{Templates: templates, Enrich: enrich, Logger: slog.Default()}
}

func (h *TemplateHandler) Register(r chi.Router) {
	r.Get("/templates", h.List)
	r.Post("/templates", h.Create)
	r.Delete("/templates/{id}", h.Delete)
	r.Group(func(r chi.Router) {
		if h.Limiter != nil {
			r.Use(h.Limiter.Middleware)
		}
		r.Post("/templates/generate", h.Generate)
		r.Post("/landing-copy", h.LandingCopy)
	})
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Templates.List(r.Context()))
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateTemplateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	t, err := h.Templates.Create(r.Context(), input.Name, input.Subject, input.Body)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Templates.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TemplateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var input usecase.GenerateTemplateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	t, err := h.Templates.Generate(r.Context(), input.Name, input.Instruction)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TemplateHandler) LandingCopy(w http.ResponseWriter, r *http.Request) {
	var input usecase.LandingCopyInput
	if !decodeJSON(w, r, &input) {
		return
	}

	text, err := h.Enrich.LandingCopy(r.Context(), input.Industry)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, usecase.LandingCopyOutput{Copy: text})
}
