package report

import "errors"

var (
	// ErrSchema indicates a collaborator response that does not match the report schema.
	ErrSchema = errors.New("report schema violation")

	// ErrCriterionNotFound indicates an override targeting an id absent from the report.
	ErrCriterionNotFound = errors.New("criterion not found")

	// ErrInvalidStatus indicates a status outside PASS, WARNING and FAIL.
	ErrInvalidStatus = errors.New("invalid status")
)
