// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"log/slog"
	"net/http"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// Messages returned to callers. Internal failures never expose their cause.
const (
	MsgUnauthorized = "Não autorizado"
	MsgForbidden    = "Acesso negado"
	MsgNotFound     = "Recurso não encontrado"
	MsgDuplicate    = "Registro já existe"
	MsgInternal     = "Erro interno do servidor"
)

// UserError carries a message that is safe to show to the caller.
type UserError struct {
	Kind    error
	Message string
}

func (e *UserError) Error() string { return e.Message }

// Unwrap exposes the sentinel kind to errors.Is.
func (e *UserError) Unwrap() error { return e.Kind }

// Validation returns a user-safe validation error.
func Validation(message string) error {
	return &UserError{Kind: ErrValidation, Message: message}
}

// RespondError maps domain errors to JSON error responses.
// Unclassified errors are logged and answered with a generic 500.
func RespondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var ue *UserError
	switch {
	case errors.As(err, &ue) && ue.Message != "":
		Error(w, statusFor(ue.Kind), ue.Message)
	case errors.Is(err, ErrUnauthorized):
		Error(w, http.StatusUnauthorized, MsgUnauthorized)
	case errors.Is(err, ErrForbidden):
		Error(w, http.StatusForbidden, MsgForbidden)
	case errors.Is(err, ErrValidation):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		Error(w, http.StatusNotFound, MsgNotFound)
	case errors.Is(err, ErrDuplicate):
		Error(w, http.StatusConflict, MsgDuplicate)
	default:
		if logger != nil {
			logger.Error("request failed", slog.Any("error", err))
		}
		Error(w, http.StatusInternalServerError, MsgInternal)
	}
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(kind, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(kind, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(kind, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(kind, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
