package query

import "strings"

// SortField orders results by a projected field.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// ParseSortFields parses "a,-b" into ascending a then descending b.
// Blank entries are dropped.
func ParseSortFields(s string) []SortField {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	fields := make([]SortField, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		part = strings.TrimLeft(part, "-+")
		if part == "" {
			continue
		}
		fields = append(fields, SortField{Field: part, Descending: desc})
	}
	return fields
}
