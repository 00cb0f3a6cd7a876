package audits

import (
	"context"
	"errors"
	"net/http"

	"github.com/JaimeStill/elp-audit/pkg/collaborator"
	"github.com/JaimeStill/elp-audit/pkg/decode"
	"github.com/JaimeStill/elp-audit/pkg/elp"
	"github.com/JaimeStill/elp-audit/pkg/report"
	"github.com/JaimeStill/elp-audit/pkg/rubric"
)

// Domain errors for audit operations.
var (
	ErrNotFound     = errors.New("audit not found")
	ErrDuplicate    = errors.New("audit already exists")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrInvalidFile  = errors.New("invalid file")
)

// MapHTTPStatus converts domain and workflow errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, report.ErrCriterionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge), errors.Is(err, elp.ErrEntryTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidFile),
		errors.Is(err, decode.ErrBody),
		errors.Is(err, report.ErrInvalidStatus),
		errors.Is(err, rubric.ErrUnsupportedLanguage),
		errors.Is(err, elp.ErrUnsupportedExtension):
		return http.StatusBadRequest
	case errors.Is(err, elp.ErrFormat), errors.Is(err, elp.ErrContentNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, collaborator.ErrMissingCredential), errors.Is(err, collaborator.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, collaborator.ErrCollaborator):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
