package query

import "strings"

// ProjectionMap maps API field names to qualified SQL columns for one table.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	order   []string
	columns map[string]string
}

// NewProjectionMap creates a projection over schema.table aliased as alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps the view name to column. Projection order is preserved in Columns.
func (p *ProjectionMap) Project(column, view string) *ProjectionMap {
	if _, ok := p.columns[view]; !ok {
		p.order = append(p.order, view)
	}
	p.columns[view] = p.alias + "." + column
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the aliased table reference, e.g. "public.audits a".
func (p *ProjectionMap) Table() string {
	return p.schema + "." + p.table + " " + p.alias
}

// Has reports whether view is a projected field.
func (p *ProjectionMap) Has(view string) bool {
	_, ok := p.columns[view]
	return ok
}

// Column returns the qualified column for view, or view itself when unmapped.
func (p *ProjectionMap) Column(view string) string {
	if col, ok := p.columns[view]; ok {
		return col
	}
	return view
}

// Columns returns the comma-separated select list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ColumnList(), ", ")
}

// ColumnList returns the qualified columns in projection order.
func (p *ProjectionMap) ColumnList() []string {
	cols := make([]string, len(p.order))
	for i, view := range p.order {
		cols[i] = p.columns[view]
	}
	return cols
}
