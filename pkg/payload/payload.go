// Package payload assembles the text submitted to the audit collaborator:
// the package content document followed by a report of the rights metadata
// found in its media.
package payload

import (
	"strings"
	"unicode/utf8"

	"github.com/JaimeStill/elp-audit/pkg/mediameta"
)

// MaxChars bounds the assembled payload, counted in characters.
const MaxChars = 1_500_000

// Delimiter frames the metadata section.
var Delimiter = strings.Repeat("=", 50)

// Text holds the wording of the metadata section.
type Text struct {
	Banner        string   `yaml:"banner" json:"banner"`
	Note          []string `yaml:"note" json:"note"`
	FileLabel     string   `yaml:"file_label" json:"fileLabel"`
	MetadataLabel string   `yaml:"metadata_label" json:"metadataLabel"`
	NoneFound     string   `yaml:"none_found" json:"noneFound"`
}

// DefaultText is used when no localized text is supplied.
var DefaultText = Text{
	Banner: "EMBEDDED METADATA TECHNICAL REPORT (AUTOMATICALLY ANALYZED)",
	Note: []string{
		"NOTE: This section contains hidden information extracted directly from the image files inside the package.",
		"Use this information to validate CRITERION 6 (Licenses) when no visible text is present.",
	},
	FileLabel:     "File",
	MetadataLabel: "Metadata",
	NoneFound:     "[INFO: No relevant embedded license metadata was found in the analyzed images.]",
}

func (t Text) withDefaults() Text {
	if t.Banner == "" {
		t.Banner = DefaultText.Banner
	}
	if t.Note == nil {
		t.Note = DefaultText.Note
	}
	if t.FileLabel == "" {
		t.FileLabel = DefaultText.FileLabel
	}
	if t.MetadataLabel == "" {
		t.MetadataLabel = DefaultText.MetadataLabel
	}
	if t.NoneFound == "" {
		t.NoneFound = DefaultText.NoneFound
	}
	return t
}

// Assembler builds payloads with fixed section text and character limit.
type Assembler struct {
	text     Text
	maxChars int
}

// New creates an Assembler. Empty text fields fall back to DefaultText and a
// non-positive maxChars uses MaxChars.
func New(text Text, maxChars int) *Assembler {
	if maxChars <= 0 {
		maxChars = MaxChars
	}
	return &Assembler{text: text.withDefaults(), maxChars: maxChars}
}

// Assemble appends the metadata section (or the none-found notice) to content
// and truncates the result once.
func (a *Assembler) Assemble(content string, annotations []mediameta.Annotation) string {
	var b strings.Builder
	b.WriteString(content)

	if len(annotations) == 0 {
		b.WriteString("\n\n")
		b.WriteString(a.text.NoneFound)
		return Truncate(b.String(), a.maxChars)
	}

	lines := make([]string, len(annotations))
	for i, ann := range annotations {
		lines[i] = a.FormatAnnotation(ann)
	}

	b.WriteString("\n\n" + Delimiter + "\n")
	b.WriteString(a.text.Banner + "\n")
	for _, note := range a.text.Note {
		b.WriteString(note + "\n")
	}
	b.WriteString(Delimiter + "\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n" + Delimiter + "\n")

	return Truncate(b.String(), a.maxChars)
}

// FormatAnnotation renders one annotation as its two report lines.
func (a *Assembler) FormatAnnotation(ann mediameta.Annotation) string {
	fields := make([]string, len(ann.Fields))
	for i, f := range ann.Fields {
		fields[i] = f.String()
	}
	return "  - " + a.text.FileLabel + ": " + ann.Filename + "\n" +
		"    " + a.text.MetadataLabel + ": [ " + strings.Join(fields, " | ") + " ]"
}

// Truncate cuts s to at most n characters without splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if n < 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
