package audits

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/elp-audit/pkg/query"
)

// Filters contains optional criteria for filtering audit queries.
type Filters struct {
	Filename *string
	Language *string
	MinScore *int
	MaxScore *int
}

// FiltersFromQuery extracts audit filters from URL query parameters.
// Unparseable scores are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("filename"); n != "" {
		f.Filename = &n
	}
	if l := values.Get("language"); l != "" {
		f.Language = &l
	}
	f.MinScore = intParam(values, "min_score")
	f.MaxScore = intParam(values, "max_score")

	return f
}

// Apply adds filter conditions to the query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b = b.
		WhereContains("Filename", f.Filename).
		WhereAtLeast("OverallScore", f.MinScore).
		WhereAtMost("OverallScore", f.MaxScore)

	if f.Language != nil {
		b = b.WhereEquals("Language", *f.Language)
	}
	return b
}

func intParam(values url.Values, key string) *int {
	v := values.Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
