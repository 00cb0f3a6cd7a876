// Package mediameta scans image resources inside a package for embedded
// rights metadata (EXIF and XMP) that can evidence licensing and authorship.
package mediameta

import (
	"fmt"
	"path"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// MaxMedia is the default number of image entries scanned per package.
const MaxMedia = 50

// MediaExtensions are the lowercase file extensions treated as images.
var MediaExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".tiff"}

// AllowedFields is the closed set of metadata tags an annotation may carry.
var AllowedFields = []string{
	"Copyright",
	"Artist",
	"ImageDescription",
	"Make",
	"Model",
	"dc:rights",
	"dc:creator",
	"xmpRights:UsageTerms",
	"cc:license",
	"WebStatement",
}

var relevantPattern = regexp.MustCompile(`(?i)copyright|rights|license|artist|creator|credit`)

// Field is a single metadata tag and its value.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (f Field) String() string {
	return fmt.Sprintf(`%s: "%s"`, f.Name, f.Value)
}

// Annotation holds the rights-relevant fields found in one media entry.
type Annotation struct {
	Filename string  `json:"filename"`
	Fields   []Field `json:"fields"`
}

// Source is the archive view the scanner needs.
type Source interface {
	Entries() []string
	Read(name string) ([]byte, error)
}

// Extractor decodes raw metadata fields from an image.
type Extractor interface {
	Extract(name string, data []byte) ([]Field, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(name string, data []byte) ([]Field, error)

func (f ExtractorFunc) Extract(name string, data []byte) ([]Field, error) {
	return f(name, data)
}

// Select returns up to limit image entry names in listing order, skipping
// directories and macOS resource-fork paths.
func Select(names []string, limit int) []string {
	if limit <= 0 {
		limit = MaxMedia
	}

	selected := make([]string, 0, min(len(names), limit))
	for _, name := range names {
		if len(selected) == limit {
			break
		}
		if strings.HasSuffix(name, "/") || strings.Contains(name, "__MACOSX") {
			continue
		}
		if slices.Contains(MediaExtensions, strings.ToLower(path.Ext(name))) {
			selected = append(selected, name)
		}
	}
	return selected
}

// Filter keeps allowed, rights-relevant fields whose value is longer than
// two characters, dropping exact duplicates while preserving order.
func Filter(fields []Field) []Field {
	seen := make(map[string]bool, len(fields))
	out := make([]Field, 0, len(fields))

	for _, f := range fields {
		if !slices.Contains(AllowedFields, f.Name) || !relevantPattern.MatchString(f.Name) {
			continue
		}
		if utf8.RuneCountInString(f.Value) <= 2 {
			continue
		}
		key := f.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}

	return out
}
