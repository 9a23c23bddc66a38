package usecase

import (
	"errors"

	"github.com/xavierca1/prospector/internal/entity"
)

const (
	CodeLeadNotFound     = "LEAD_NOT_FOUND"
	CodeTemplateNotFound = "TEMPLATE_NOT_FOUND"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeNoCRMConfigured  = "NO_CRM_CONFIGURED"
	CodeNoProfile        = "NO_PROFILE"
	CodeMailDisabled     = "MAIL_NOT_CONFIGURED"
	CodeSearchFailed     = "SEARCH_FAILED"
)

// DomainError is a failure the caller can fix: unknown ids, bad input,
// missing configuration.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps an infrastructure failure that the caller cannot fix.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func invalidInput(msg string) error {
	return &DomainError{Code: CodeInvalidInput, Message: msg}
}

func leadNotFound(id string) error {
	return &DomainError{Code: CodeLeadNotFound, Message: "lead " + id + " not found", Err: entity.ErrLeadNotFound}
}
