package usecase

import (
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeAccessDenied  = "ACCESS_DENIED"
	CodeQuotaExceeded = "QUOTA_EXCEEDED"
	CodeConflict      = "CONFLICT"
	CodeInternal      = "INTERNAL_ERROR"
)

// DomainError es un error esperado; su Message se devuelve tal cual al cliente.
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

// TechnicalError envuelve fallos de infraestructura. El mensaje no sale al cliente.
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

func validationError(msg string) error {
	return &DomainError{Code: CodeValidation, Message: msg}
}

func notFound(msg string) error {
	return &DomainError{Code: CodeNotFound, Message: msg}
}

func accessDenied(msg string) error {
	return &DomainError{Code: CodeAccessDenied, Message: msg}
}

func quotaExceeded(msg string) error {
	return &DomainError{Code: CodeQuotaExceeded, Message: msg}
}

func conflict(msg string, err error) error {
	return &DomainError{Code: CodeConflict, Message: msg, Err: err}
}

func internal(msg string, err error) error {
	return &TechnicalError{Code: CodeInternal, Message: msg, Err: err}
}

// fromRepo traduce entity.ErrNotFound a NOT_FOUND y el resto a error técnico.
func fromRepo(err error, notFoundMsg, failMsg string) error {
	if errors.Is(err, entity.ErrNotFound) {
		return &DomainError{Code: CodeNotFound, Message: notFoundMsg, Err: err}
	}
	return internal(failMsg, err)
}
