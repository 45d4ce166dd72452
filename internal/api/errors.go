// Package api provides the HTTP client for the Sistema de Laudos backend:
// verb helpers over the /api/v1 base path, bearer-token injection, a shared
// refresh-on-401 flow and error normalization, plus one resource service
// file per backend resource.
package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Fixed user-facing messages per error class. The original status code stays
// inspectable through Error.StatusCode.
const (
	MsgPermission     = "Você não tem permissão para acessar este recurso"
	MsgNotFound       = "Recurso não encontrado"
	MsgServer         = "Erro no servidor. Tente novamente mais tarde."
	MsgConnection     = "Erro de conexão com o servidor"
	MsgUnauthorized   = "Não autorizado"
	MsgSessionExpired = "Sessão expirada"

	MsgFileTooLarge    = "Arquivo muito grande. Limite máximo: 10MB"
	MsgUnsupportedType = "Tipo de arquivo não suportado. Use PDF."
	MsgUploadTimeout   = "Tempo limite de upload excedido"
)

// Error is a normalized transport error. Message is human-readable;
// StatusCode is zero when the server never responded.
type Error struct {
	StatusCode int
	Message    string
	Detail     string
	cause      error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// AsError extracts an *Error from err, or nil.
func AsError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// StatusCode returns the HTTP status carried by err, or zero.
func StatusCode(err error) int {
	if apiErr := AsError(err); apiErr != nil {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// normalizeStatus builds the Error for a non-2xx response. The backend's
// detail field, when present, wins over the generic class message.
func normalizeStatus(status int, detail string) *Error {
	e := &Error{StatusCode: status, Detail: detail}

	switch {
	case status == http.StatusUnauthorized:
		e.Message = MsgUnauthorized
	case status == http.StatusForbidden:
		e.Message = MsgPermission
	case status == http.StatusNotFound:
		e.Message = MsgNotFound
	case status >= 500:
		e.Message = MsgServer
	case detail != "":
		e.Message = detail
	default:
		e.Message = fmt.Sprintf("Erro inesperado (HTTP %d)", status)
	}
	return e
}

// connectionError wraps a transport failure (timeout, refused, DNS) where no
// response was received.
func connectionError(err error) *Error {
	return &Error{Message: MsgConnection, cause: err}
}

// notFound substitutes a resource-specific message on 404s and passes every
// other error through unchanged.
func notFound(err error, message string) error {
	if apiErr := AsError(err); apiErr != nil && apiErr.StatusCode == http.StatusNotFound {
		return &Error{StatusCode: http.StatusNotFound, Message: message, Detail: apiErr.Detail, cause: err}
	}
	return err
}
