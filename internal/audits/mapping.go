package audits

import (
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/elp-audit/pkg/query"
	"github.com/JaimeStill/elp-audit/pkg/repository"
)

var projection = query.NewProjectionMap("public", "audits", "a").
	Project("id", "Id").
	Project("filename", "Filename").
	Project("language", "Language").
	Project("digest", "Digest").
	Project("size_bytes", "SizeBytes").
	Project("storage_key", "StorageKey").
	Project("content_entry", "ContentEntry").
	Project("media_annotated", "MediaAnnotated").
	Project("overall_score", "OverallScore").
	Project("report", "Report").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

const returning = `id, filename, language, digest, size_bytes, storage_key, content_entry,
	media_annotated, overall_score, report, created_at, updated_at`

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

func scanAudit(s repository.Scanner) (Audit, error) {
	var (
		a   Audit
		raw []byte
	)
	err := s.Scan(
		&a.ID,
		&a.Filename,
		&a.Language,
		&a.Digest,
		&a.SizeBytes,
		&a.StorageKey,
		&a.ContentEntry,
		&a.MediaAnnotated,
		&a.OverallScore,
		&raw,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return a, err
	}
	if err := json.Unmarshal(raw, &a.Report); err != nil {
		return a, fmt.Errorf("decode report: %w", err)
	}
	return a, nil
}
