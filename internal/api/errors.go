package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/ebxkit/internal/source"
	"github.com/samcharles93/ebxkit/pkg/ebx"
	"github.com/samcharles93/ebxkit/pkg/ebx/printer"
)

var ErrInvalidRequest = errors.New("invalid_request")

type invalidRequestError struct {
	msg string
}

func (e invalidRequestError) Error() string {
	return e.msg
}

func (e invalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func newInvalidRequest(msg string) error {
	return invalidRequestError{msg: msg}
}

// ErrorBody is the JSON error envelope returned by every endpoint.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return writeJSON(c, status, ErrorBody{Error: ErrorDetail{
		Message:   msg,
		Type:      errType,
		RequestID: c.Response().Header().Get(headerRequestID),
	}})
}

// writeDecodeError maps decoder and payload failures onto HTTP statuses.
func writeDecodeError(c *echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, source.ErrEmpty),
		errors.Is(err, source.ErrCorrupt):
		return writeBadRequest(c, err.Error())
	case errors.Is(err, source.ErrTooLarge):
		return writeError(c, http.StatusRequestEntityTooLarge, "too_large_error", err.Error())
	case errors.Is(err, printer.ErrInstanceNotFound):
		return writeNotFound(c, err.Error())
	case errors.Is(err, ebx.ErrMalformedHeader),
		errors.Is(err, ebx.ErrTruncatedInput),
		errors.Is(err, ebx.ErrUnresolvedReference),
		errors.Is(err, ebx.ErrRecursionLimit),
		errors.Is(err, ebx.ErrValueLimit),
		errors.Is(err, ebx.ErrUnknownFieldType):
		return writeError(c, http.StatusUnprocessableEntity, "decode_error", err.Error())
	default:
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
}
