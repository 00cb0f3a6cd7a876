package collaborator

import "errors"

var (
	// ErrCollaborator wraps every failure to obtain a valid report.
	ErrCollaborator = errors.New("collaborator failed")

	// ErrMissingCredential indicates no API token was configured.
	ErrMissingCredential = errors.New("collaborator credential not configured")

	// ErrUnavailable indicates the circuit breaker is open.
	ErrUnavailable = errors.New("collaborator unavailable")
)
