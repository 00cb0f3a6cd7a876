package audits

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/JaimeStill/elp-audit/pkg/pagination"
)

// System defines the audit operations.
// Implementations run the audit workflow and persist results and package blobs.
type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Audit], error)
	Find(ctx context.Context, id uuid.UUID) (*Audit, error)
	Create(ctx context.Context, cmd CreateCommand) (*Audit, error)
	Override(ctx context.Context, id uuid.UUID, criterionID int, cmd OverrideCommand) (*Audit, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Package(ctx context.Context, id uuid.UUID) (*Audit, io.ReadCloser, error)
}
