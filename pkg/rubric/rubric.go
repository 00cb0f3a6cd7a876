// Package rubric provides the audit rubric for each supported language:
// the collaborator prompt, the eight criteria with their level descriptions,
// the payload wording, and the labels used by exports.
package rubric

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/JaimeStill/elp-audit/pkg/payload"
	"github.com/JaimeStill/elp-audit/pkg/report"
)

//go:embed rubrics.yaml
var rubricsYAML []byte

// ErrUnsupportedLanguage is returned for language codes without a rubric.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// LevelCount is the number of achievement levels per criterion.
const LevelCount = 3

// Language is a rubric language code.
type Language string

const (
	Spanish Language = "es"
	Basque  Language = "eu"
)

// ParseLanguage normalizes a language code.
func ParseLanguage(v string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(v)))
	switch l {
	case Spanish, Basque:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, v)
}

// Criterion is one rubric row.
type Criterion struct {
	ID     int      `yaml:"id" json:"id"`
	Name   string   `yaml:"name" json:"name"`
	Levels []string `yaml:"levels" json:"levels"`
}

// Labels are the localized headings used when rendering a report.
type Labels struct {
	Statuses    map[report.Status]string `yaml:"statuses" json:"statuses"`
	Score       string                   `yaml:"score" json:"score"`
	Summary     string                   `yaml:"summary" json:"summary"`
	Observation string                   `yaml:"observation" json:"observation"`
	Evidence    string                   `yaml:"evidence" json:"evidence"`
	Suggestions string                   `yaml:"suggestions" json:"suggestions"`
	Rubric      string                   `yaml:"rubric" json:"rubric"`
	Criterion   string                   `yaml:"criterion" json:"criterion"`
	Levels      []string                 `yaml:"levels" json:"levels"`
	Yes         string                   `yaml:"yes" json:"yes"`
	No          string                   `yaml:"no" json:"no"`
}

// Status returns the localized label for s, falling back to the status code.
func (l Labels) Status(s report.Status) string {
	if v, ok := l.Statuses[s]; ok && v != "" {
		return v
	}
	return string(s)
}

// Rubric is the full audit definition for one language.
type Rubric struct {
	Language Language     `yaml:"-" json:"language"`
	Title    string       `yaml:"title" json:"title"`
	Prompt   string       `yaml:"prompt" json:"-"`
	Payload  payload.Text `yaml:"payload" json:"-"`
	Labels   Labels       `yaml:"labels" json:"labels"`
	Criteria []Criterion  `yaml:"criteria" json:"criteria"`
}

// Criterion returns the row with the given id.
func (r *Rubric) Criterion(id int) (Criterion, bool) {
	i := slices.IndexFunc(r.Criteria, func(c Criterion) bool { return c.ID == id })
	if i < 0 {
		return Criterion{}, false
	}
	return r.Criteria[i], true
}

// Catalog holds one rubric per language.
type Catalog struct {
	rubrics map[Language]*Rubric
}

// Get returns the rubric for lang.
func (c *Catalog) Get(lang Language) (*Rubric, error) {
	r, ok := c.rubrics[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	return r, nil
}

// Languages returns the catalog languages in sorted order.
func (c *Catalog) Languages() []Language {
	langs := make([]Language, 0, len(c.rubrics))
	for l := range c.rubrics {
		langs = append(langs, l)
	}
	slices.Sort(langs)
	return langs
}

// Parse decodes and validates a rubric document keyed by language code.
func Parse(data []byte) (*Catalog, error) {
	var raw map[Language]*Rubric
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse rubrics: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("parse rubrics: no languages defined")
	}

	for lang, r := range raw {
		if r == nil {
			return nil, fmt.Errorf("rubric %s: empty definition", lang)
		}
		r.Language = lang
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("rubric %s: %w", lang, err)
		}
	}

	return &Catalog{rubrics: raw}, nil
}

// Load parses the embedded rubric document.
func Load() (*Catalog, error) {
	return Parse(rubricsYAML)
}

// Default returns the process-wide catalog loaded from the embedded document.
var Default = sync.OnceValues(Load)

func (r *Rubric) validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return errors.New("prompt required")
	}
	if len(r.Criteria) != report.CriteriaCount {
		return fmt.Errorf("expected %d criteria, found %d", report.CriteriaCount, len(r.Criteria))
	}

	seen := make(map[int]bool, len(r.Criteria))
	for i, c := range r.Criteria {
		if c.ID < 1 || c.ID > report.CriteriaCount {
			return fmt.Errorf("criteria[%d]: id %d out of range", i, c.ID)
		}
		if seen[c.ID] {
			return fmt.Errorf("criteria[%d]: duplicate id %d", i, c.ID)
		}
		seen[c.ID] = true
		if c.Name == "" {
			return fmt.Errorf("criteria[%d]: name required", i)
		}
		if len(c.Levels) != LevelCount {
			return fmt.Errorf("criteria[%d]: expected %d levels, found %d", i, LevelCount, len(c.Levels))
		}
	}

	slices.SortFunc(r.Criteria, func(a, b Criterion) int { return a.ID - b.ID })

	for _, s := range report.Statuses {
		if r.Labels.Statuses[s] == "" {
			return fmt.Errorf("labels: missing status %s", s)
		}
	}
	if len(r.Labels.Levels) != LevelCount {
		return fmt.Errorf("labels: expected %d level names, found %d", LevelCount, len(r.Labels.Levels))
	}
	return nil
}
