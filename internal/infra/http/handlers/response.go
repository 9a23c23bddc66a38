package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/xavierca1/prospector/internal/resilience"
	"github.com/xavierca1/prospector/internal/usecase"
)

type ErrorResponse struct {
	Error   string                     `json:"error"`
	Message string                     `json:"message"`
	Details []usecase.ValidationError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

func writeValidationErrors(w http.ResponseWriter, errs []usecase.ValidationError) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "VALIDATION_FAILED",
		Message: "request is invalid",
		Details: errs,
	})
}

// decodeJSON writes a 400 and returns false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// writeUseCaseError maps use case failures to status codes.
func writeUseCaseError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeErrorResponse(w, domainStatus(de.Code), de.Code, de.Message)
		return
	}

	var re *resilience.RemoteError
	if errors.As(err, &re) {
		logger.Error("remote service failed", "service", re.Service, "error", err)
		writeErrorResponse(w, http.StatusBadGateway, "REMOTE_ERROR", err.Error())
		return
	}

	code := "INTERNAL_ERROR"
	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		code = te.Code
	}
	logger.Error("request failed", "error", err)
	writeErrorResponse(w, http.StatusInternalServerError, code, "internal error")
}

func domainStatus(code string) int {
	switch code {
	case usecase.CodeLeadNotFound, usecase.CodeTemplateNotFound:
		return http.StatusNotFound
	case usecase.CodeNoCRMConfigured, usecase.CodeNoProfile, usecase.CodeMailDisabled:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
