// Package audits persists audit runs of eXeLearning packages: it runs the
// audit workflow on upload, stores the package blob and the report, and
// serves overrides, exports and deletion over HTTP.
package audits

import (
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/JaimeStill/elp-audit/pkg/export"
	"github.com/JaimeStill/elp-audit/pkg/report"
	"github.com/JaimeStill/elp-audit/pkg/rubric"
)

// Audit is a stored audit run.
type Audit struct {
	ID             uuid.UUID       `json:"id"`
	Filename       string          `json:"filename"`
	Language       rubric.Language `json:"language"`
	Digest         string          `json:"digest"`
	SizeBytes      int64           `json:"size_bytes"`
	StorageKey     string          `json:"storage_key"`
	ContentEntry   string          `json:"content_entry"`
	MediaAnnotated int             `json:"media_annotated"`
	OverallScore   int             `json:"overall_score"`
	Report         report.Report   `json:"report"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CreateCommand carries an uploaded package to audit.
type CreateCommand struct {
	Filename string
	Language rubric.Language
	Data     []byte
}

// OverrideCommand sets the status of one criterion.
type OverrideCommand struct {
	Status string `json:"status"`
}

// Digest returns the BLAKE3-256 hex digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// StorageKey returns packages/<digest>/<filename>. Identical uploads share a key.
func StorageKey(digest, filename string) string {
	return fmt.Sprintf("packages/%s/%s", digest, storageName(filename))
}

func storageName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	return export.SanitizeName(base) + strings.ToLower(path.Ext(base))
}
