package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/prospector/internal/entity"
	"github.com/xavierca1/prospector/internal/infra/queue"
	"github.com/xavierca1/prospector/internal/usecase"
)

type LeadHandler struct {
	Workspace *usecase.Workspace
	Enrich    *usecase.EnrichLeadUseCase
	CRM       *usecase.CRMSyncUseCase
	Outreach  *usecase.SendOutreachUseCase
	Bulk      *usecase.BulkUseCase
	// Limiter guards the routes that call the AI. Optional.
	Limiter *RateLimiter
	Logger  *slog.Logger
}

func NewLeadHandler(ws *usecase.Workspace, enrich *usecase.EnrichLeadUseCase, crm *usecase.CRMSyncUseCase, outreach *usecase.SendOutreachUseCase, bulk *usecase.BulkUseCase) *LeadHandler {
	return &LeadHandler{
		Workspace: ws,
		Enrich:    enrich,
		CRM:       crm,
		Outreach:  outreach,
		Bulk:      bulk,
		Logger:    slog.Default(),
	}
}

func (h *LeadHandler) Register(r chi.Router) {
	r.Route("/leads", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Post("/bulk/deep-dive", h.bulk(queue.BulkDeepDive))
		r.Post("/bulk/crm-export", h.bulk(queue.BulkCRMExport))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Patch("/", h.Update)
			r.Delete("/", h.Delete)
			r.Post("/notes", h.AddNote)
			r.Post("/verify-email", h.action(h.Enrich.VerifyEmail))
			r.Post("/crm-export", h.action(h.CRM.Export))
			r.Post("/crm-status", h.CRMStatus)
			r.Post("/outreach/send", h.SendOutreach)

			r.Group(func(r chi.Router) {
				if h.Limiter != nil {
					r.Use(h.Limiter.Middleware)
				}
				r.Post("/deep-dive", h.action(h.Enrich.DeepDive))
				r.Post("/battlecard", h.action(h.Enrich.Battlecard))
				r.Post("/sequence", h.action(h.Enrich.Sequence))
				r.Post("/signals", h.action(h.Enrich.BuyingSignals))
				r.Post("/org-chart", h.action(h.Enrich.OrgChart))
				r.Post("/visual-audit", h.action(h.Enrich.AnalyzeVisual))
			})
		})
	})
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	sortBy := entity.SortOption(r.URL.Query().Get("sort"))
	switch sortBy {
	case "", entity.SortScoreDesc, entity.SortScoreAsc, entity.SortNameAsc:
	default:
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeInvalidInput, "sort must be SCORE_DESC, SCORE_ASC or NAME_ASC")
		return
	}
	writeJSON(w, http.StatusOK, h.Workspace.Leads(sortBy))
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.ManualLead
	if !decodeJSON(w, r, &input) {
		return
	}
	if errs := usecase.ValidateManualLead(input); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	l, err := h.Workspace.AddLead(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.Workspace.Lead(chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch entity.LeadPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if patch.IsEmpty() {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeInvalidInput, "nothing to update")
		return
	}

	l, err := h.Workspace.UpdateLead(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Workspace.DeleteLead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LeadHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	var input usecase.NoteInput
	if !decodeJSON(w, r, &input) {
		return
	}

	l, err := h.Workspace.AddNote(r.Context(), chi.URLParam(r, "id"), input.Content)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// action adapts a per-lead use case call to a handler.
func (h *LeadHandler) action(fn func(ctx context.Context, id string) (*entity.Lead, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := fn(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeUseCaseError(w, h.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, l)
	}
}

func (h *LeadHandler) CRMStatus(w http.ResponseWriter, r *http.Request) {
	l, changed, err := h.CRM.RefreshStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}

	out := usecase.CRMStatusOutput{Changed: changed}
	if l.CRMSync != nil {
		out.RemoteStatus = l.CRMSync.RemoteStatus
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LeadHandler) SendOutreach(w http.ResponseWriter, r *http.Request) {
	var input usecase.OutreachInput
	if r.ContentLength != 0 && !decodeJSON(w, r, &input) {
		return
	}

	l, err := h.Outreach.Execute(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// bulk queues a job over the given ids, or over the current selection
// when none are sent.
func (h *LeadHandler) bulk(kind queue.BulkKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input usecase.BulkInput
		if r.ContentLength != 0 && !decodeJSON(w, r, &input) {
			return
		}
		ids := input.IDs
		if len(ids) == 0 {
			ids = h.Workspace.Selection()
		}

		job, err := h.Bulk.Submit(r.Context(), kind, ids)
		if err != nil {
			writeUseCaseError(w, h.Logger, err)
			return
		}
		writeJSON(w, http.StatusAccepted, usecase.BulkOutput{JobID: job.ID, Kind: string(job.Kind), Count: len(job.LeadIDs)})
	}
}
