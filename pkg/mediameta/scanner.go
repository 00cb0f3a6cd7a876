package mediameta

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/JaimeStill/go-agents-orchestration/pkg/config"
	wf "github.com/JaimeStill/go-agents-orchestration/pkg/workflows"
)

// Scanner extracts annotations from the image entries of a package.
type Scanner struct {
	extractor Extractor
	limit     int
	logger    *slog.Logger
}

// NewScanner creates a Scanner. A nil extractor uses DefaultExtractor and a
// non-positive limit uses MaxMedia.
func NewScanner(extractor Extractor, limit int, logger *slog.Logger) *Scanner {
	if extractor == nil {
		extractor = DefaultExtractor()
	}
	if limit <= 0 {
		limit = MaxMedia
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{
		extractor: extractor,
		limit:     limit,
		logger:    logger.With("system", "mediameta"),
	}
}

type scanItem struct {
	index int
	name  string
}

type scanResult struct {
	index      int
	annotation *Annotation
}

// Scan decodes the selected image entries in parallel and returns one
// annotation per entry that carried relevant metadata, in selection order.
// Entries that fail to read or decode are skipped.
func (s *Scanner) Scan(ctx context.Context, src Source) ([]Annotation, error) {
	names := Select(src.Entries(), s.limit)
	if len(names) == 0 {
		return nil, nil
	}

	items := make([]scanItem, len(names))
	for i, name := range names {
		items[i] = scanItem{index: i, name: name}
	}

	processor := func(ctx context.Context, item scanItem) (scanResult, error) {
		return scanResult{
			index:      item.index,
			annotation: s.annotate(src, item.name),
		}, nil
	}

	result, err := wf.ProcessParallel(ctx, parallelConfig(), items, processor, nil)
	if err != nil {
		return nil, fmt.Errorf("scan media: %w", err)
	}

	results := slices.Clone(result.Results)
	slices.SortFunc(results, func(a, b scanResult) int {
		return a.index - b.index
	})

	annotations := make([]Annotation, 0, len(results))
	for _, r := range results {
		if r.annotation != nil {
			annotations = append(annotations, *r.annotation)
		}
	}

	s.logger.Debug("media scanned", "selected", len(names), "annotated", len(annotations))
	return annotations, nil
}

func (s *Scanner) annotate(src Source, name string) (annotation *Annotation) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug("media decode panicked", "entry", name, "panic", r)
			annotation = nil
		}
	}()

	data, err := src.Read(name)
	if err != nil {
		s.logger.Debug("media read failed", "entry", name, "error", err)
		return nil
	}

	fields, err := s.extractor.Extract(name, data)
	if err != nil {
		s.logger.Debug("media decode failed", "entry", name, "error", err)
		return nil
	}

	fields = Filter(fields)
	if len(fields) == 0 {
		return nil
	}

	return &Annotation{Filename: name, Fields: fields}
}

func parallelConfig() config.ParallelConfig {
	cfg := config.DefaultParallelConfig()
	cfg.Observer = "noop"
	return cfg
}
