package query_test

import (
	"slices"
	"testing"

	"github.com/JaimeStill/elp-audit/pkg/query"
)

func projection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "audits", "a").
		Project("id", "ID").
		Project("filename", "Filename").
		Project("overall_score", "OverallScore").
		Project("created_at", "CreatedAt")
}

var newest = query.SortField{Field: "CreatedAt", Descending: true}

func TestProjectionMap(t *testing.T) {
	pm := projection()

	if got := pm.Table(); got != "public.audits a" {
		t.Errorf("Table() = %q", got)
	}
	if got := pm.Column("Filename"); got != "a.filename" {
		t.Errorf("Column(Filename) = %q", got)
	}
	if got := pm.Column("Unknown"); got != "Unknown" {
		t.Errorf("Column(Unknown) = %q, want input", got)
	}
	if pm.Has("Unknown") || !pm.Has("ID") {
		t.Error("Has() mismatch")
	}
	if got := pm.Columns(); got != "a.id, a.filename, a.overall_score, a.created_at" {
		t.Errorf("Columns() = %q", got)
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		input string
		want  []query.SortField
	}{
		{"", nil},
		{"Filename", []query.SortField{{Field: "Filename"}}},
		{"-OverallScore, Filename", []query.SortField{
			{Field: "OverallScore", Descending: true},
			{Field: "Filename"},
		}},
		{" , -", []query.SortField{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("ParseSortFields(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuilder_BuildPage(t *testing.T) {
	sql, args := query.NewBuilder(projection(), newest).BuildPage(3, 20)

	want := "SELECT a.id, a.filename, a.overall_score, a.created_at FROM public.audits a ORDER BY a.created_at DESC LIMIT 20 OFFSET 40"
	if sql != want {
		t.Errorf("sql = %q\nwant %q", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestBuilder_BuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(projection(), newest).BuildSingle("ID", "abc")

	if sql != "SELECT a.id, a.filename, a.overall_score, a.created_at FROM public.audits a WHERE a.id = $1" {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 1 || args[0] != "abc" {
		t.Errorf("args = %v", args)
	}
}

func TestBuilder_OrderByFields(t *testing.T) {
	sql, _ := query.NewBuilder(projection(), newest).
		OrderByFields([]query.SortField{
			{Field: "OverallScore", Descending: true},
			{Field: "1; DROP TABLE audits"},
			{Field: "Filename"},
		}).
		BuildPage(1, 10)

	want := " ORDER BY a.overall_score DESC, a.filename ASC LIMIT 10 OFFSET 0"
	if len(sql) < len(want) || sql[len(sql)-len(want):] != want {
		t.Errorf("sql = %q, want suffix %q", sql, want)
	}
}

func TestBuilder_Conditions(t *testing.T) {
	name := "unidad"
	search := "tema"
	min := 50
	var max *int

	sql, args := query.NewBuilder(projection(), newest).
		WhereEquals("Language", "es").
		WhereEquals("Ignored", nil).
		WhereContains("Filename", &name).
		WhereAtLeast("OverallScore", &min).
		WhereAtMost("OverallScore", max).
		WhereIn("ID", []any{"a", "b"}).
		WhereSearch(&search, "Filename", "Summary").
		BuildCount()

	want := "SELECT COUNT(*) FROM public.audits a WHERE Language = $1 AND a.filename ILIKE $2 AND a.overall_score >= $3 AND a.id IN ($4, $5) AND (a.filename ILIKE $6 OR Summary ILIKE $7)"
	if sql != want {
		t.Errorf("sql = %q\nwant %q", sql, want)
	}

	wantArgs := []any{"es", "%unidad%", 50, "a", "b", "%tema%", "%tema%"}
	if !slices.Equal(args, wantArgs) {
		t.Errorf("args = %v, want %v", args, wantArgs)
	}
}

func TestBuilder_EmptyValuesIgnored(t *testing.T) {
	empty := ""
	sql, args := query.NewBuilder(projection(), newest).
		WhereContains("Filename", &empty).
		WhereContains("Filename", nil).
		WhereIn("ID", nil).
		WhereSearch(nil, "Filename").
		BuildCount()

	if sql != "SELECT COUNT(*) FROM public.audits a" || args != nil {
		t.Errorf("BuildCount() = %q, %v", sql, args)
	}
}
