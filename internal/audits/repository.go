package audits

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/elp-audit/pkg/pagination"
	"github.com/JaimeStill/elp-audit/pkg/query"
	"github.com/JaimeStill/elp-audit/pkg/report"
	"github.com/JaimeStill/elp-audit/pkg/repository"
	"github.com/JaimeStill/elp-audit/pkg/storage"
	"github.com/JaimeStill/elp-audit/workflows/audit"
)

// Runner executes the audit workflow for one package.
type Runner interface {
	Run(ctx context.Context, req audit.Request, obs audit.Observer) (*audit.Result, error)
}

type repo struct {
	db         *sql.DB
	storage    storage.System
	runner     Runner
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an audit repository backed by PostgreSQL and blob storage.
func New(db *sql.DB, store storage.System, runner Runner, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		storage:    store,
		runner:     runner,
		logger:     logger.With("system", "audits"),
		pagination: pagination,
	}
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Audit], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count audits: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	audits, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAudit)
	if err != nil {
		return nil, fmt.Errorf("query audits: %w", err)
	}

	result := pagination.NewPageResult(audits, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Audit, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		BuildSingle("Id", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAudit)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Audit, error) {
	if len(cmd.Data) == 0 {
		return nil, ErrInvalidFile
	}

	result, err := r.runner.Run(ctx, audit.Request{
		Filename: cmd.Filename,
		Language: cmd.Language,
		Data:     cmd.Data,
	}, r.progress(cmd.Filename))
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(result.Report)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	id := uuid.New()
	digest := Digest(cmd.Data)
	storageKey := StorageKey(digest, cmd.Filename)

	q := `INSERT INTO audits(id, filename, language, digest, size_bytes, storage_key,
			content_entry, media_annotated, overall_score, report)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + returning

	// The blob is written under the digest lock so a concurrent release cannot
	// remove it before this row commits.
	stored := false
	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Audit, error) {
		if err := repository.LockKey(ctx, tx, digest); err != nil {
			return Audit{}, err
		}

		if err := r.storage.Store(ctx, storageKey, cmd.Data); err != nil {
			return Audit{}, fmt.Errorf("store package: %w", err)
		}
		stored = true

		return repository.QueryOne(ctx, tx, q, []any{
			id,
			cmd.Filename,
			cmd.Language,
			digest,
			len(cmd.Data),
			storageKey,
			result.ContentEntry,
			len(result.Annotations),
			result.Report.OverallScore,
			data,
		}, scanAudit)
	})

	if err != nil {
		if stored {
			r.release(context.WithoutCancel(ctx), digest, storageKey)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("audit created",
		"id", a.ID,
		"filename", a.Filename,
		"language", a.Language,
		"score", a.OverallScore,
		"storage_key", storageKey,
	)
	return &a, nil
}

func (r *repo) Override(ctx context.Context, id uuid.UUID, criterionID int, cmd OverrideCommand) (*Audit, error) {
	status, err := report.ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}

	sel, selArgs := query.
		NewBuilder(projection, defaultSort).
		BuildSingle("Id", id)

	upd := `UPDATE audits SET report = $1, overall_score = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + returning

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Audit, error) {
		current, err := repository.QueryOne(ctx, tx, sel+" FOR UPDATE", selArgs, scanAudit)
		if err != nil {
			return Audit{}, err
		}

		updated, err := report.ApplyOverride(current.Report, criterionID, status)
		if err != nil {
			return Audit{}, err
		}

		data, err := json.Marshal(updated)
		if err != nil {
			return Audit{}, fmt.Errorf("encode report: %w", err)
		}

		return repository.QueryOne(ctx, tx, upd, []any{data, updated.OverallScore, id}, scanAudit)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("criterion overridden",
		"id", id,
		"criterion", criterionID,
		"status", status,
		"score", a.OverallScore,
	)
	return &a, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	q := `DELETE FROM audits WHERE id = $1`
	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, id)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.release(ctx, a.Digest, a.StorageKey)
	r.logger.Info("audit deleted", "id", id)
	return nil
}

func (r *repo) Package(ctx context.Context, id uuid.UUID) (*Audit, io.ReadCloser, error) {
	a, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, _, err := r.storage.Open(ctx, a.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: package blob missing", ErrNotFound)
		}
		return nil, nil, fmt.Errorf("open package: %w", err)
	}
	return a, rc, nil
}

// release deletes the blob at key once no audit references it. The count
// and the delete run under the digest lock that Create holds while storing.
func (r *repo) release(ctx context.Context, digest, key string) {
	q := `SELECT COUNT(*) FROM audits WHERE storage_key = $1`

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.LockKey(ctx, tx, digest); err != nil {
			return struct{}{}, err
		}

		var refs int
		if err := tx.QueryRowContext(ctx, q, key).Scan(&refs); err != nil {
			return struct{}{}, fmt.Errorf("count references: %w", err)
		}
		if refs > 0 {
			return struct{}{}, nil
		}

		return struct{}{}, r.storage.Delete(ctx, key)
	})

	if err != nil {
		r.logger.Error("storage cleanup failed", "storage_key", key, "error", err)
	}
}

func (r *repo) progress(filename string) audit.Observer {
	return audit.ObserverFunc(func(p audit.Progress) {
		r.logger.Debug("audit progress", "filename", filename, "stage", p.Stage, "percent", p.Percent)
	})
}

