package query

import (
	"fmt"
	"sort"
	"strings"
)

// DeleteBuilder constructs DELETE statements.
type DeleteBuilder struct {
	table        string
	dialect      Dialect
	whereClauses []Condition
}

// DeleteFrom creates a DELETE builder for the table.
func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table, dialect: Spanner}
}

// Dialect switches the rendering dialect.
func (b *DeleteBuilder) Dialect(d Dialect) *DeleteBuilder {
	nb := *b
	nb.dialect = d
	nb.whereClauses = append([]Condition(nil), b.whereClauses...)
	return &nb
}

// Where adds WHERE conditions combined with AND.
func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	nb := *b
	nb.whereClauses = append(append([]Condition(nil), b.whereClauses...), conditions...)
	return &nb
}

// Build renders the statement. Spanner rejects a DELETE without a WHERE
// clause, so an unfiltered delete renders "WHERE true".
func (b *DeleteBuilder) Build() Statement {
	params := make(map[string]interface{})
	where := renderWhere(b.dialect, b.whereClauses, params)
	if where == "" {
		where = "true"
	}
	return Statement{
		SQL:    fmt.Sprintf("DELETE FROM %s WHERE %s", b.table, where),
		Params: params,
	}
}

// UpdateBuilder constructs UPDATE statements.
type UpdateBuilder struct {
	table        string
	dialect      Dialect
	sets         map[string]interface{}
	whereClauses []Condition
}

// Update creates an UPDATE builder for the table.
func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table, dialect: Spanner, sets: map[string]interface{}{}}
}

func (b *UpdateBuilder) clone() *UpdateBuilder {
	nb := &UpdateBuilder{
		table:        b.table,
		dialect:      b.dialect,
		sets:         make(map[string]interface{}, len(b.sets)),
		whereClauses: append([]Condition(nil), b.whereClauses...),
	}
	for k, v := range b.sets {
		nb.sets[k] = v
	}
	return nb
}

// Dialect switches the rendering dialect.
func (b *UpdateBuilder) Dialect(d Dialect) *UpdateBuilder {
	nb := b.clone()
	nb.dialect = d
	return nb
}

// Set assigns a column value.
func (b *UpdateBuilder) Set(column string, value interface{}) *UpdateBuilder {
	nb := b.clone()
	nb.sets[column] = value
	return nb
}

// SetAll assigns every column of patch.
func (b *UpdateBuilder) SetAll(patch map[string]interface{}) *UpdateBuilder {
	nb := b.clone()
	for k, v := range patch {
		nb.sets[k] = v
	}
	return nb
}

// Where adds WHERE conditions combined with AND.
func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	nb := b.clone()
	nb.whereClauses = append(nb.whereClauses, conditions...)
	return nb
}

// Build renders the statement. SET parameters are named s0, s1, ... in
// column order so they never collide with condition parameters.
func (b *UpdateBuilder) Build() Statement {
	params := make(map[string]interface{})
	columns := sortedKeys(b.sets)
	assignments := make([]string, 0, len(columns))
	for i, col := range columns {
		name := fmt.Sprintf("s%d", i)
		assignments = append(assignments, fmt.Sprintf("%s = %s", col, b.dialect.Placeholder(name)))
		params[name] = b.sets[col]
	}
	where := renderWhere(b.dialect, b.whereClauses, params)
	if where == "" {
		where = "true"
	}
	return Statement{
		SQL:    fmt.Sprintf("UPDATE %s SET %s WHERE %s", b.table, strings.Join(assignments, ", "), where),
		Params: params,
	}
}

// InsertBuilder constructs single-row INSERT statements.
type InsertBuilder struct {
	table     string
	dialect   Dialect
	values    map[string]interface{}
	returning bool
}

// InsertInto creates an INSERT builder for the table.
func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table, dialect: Spanner, values: map[string]interface{}{}}
}

func (b *InsertBuilder) clone() *InsertBuilder {
	nb := &InsertBuilder{
		table:     b.table,
		dialect:   b.dialect,
		values:    make(map[string]interface{}, len(b.values)),
		returning: b.returning,
	}
	for k, v := range b.values {
		nb.values[k] = v
	}
	return nb
}

// Dialect switches the rendering dialect.
func (b *InsertBuilder) Dialect(d Dialect) *InsertBuilder {
	nb := b.clone()
	nb.dialect = d
	return nb
}

// Values sets the column values of the row.
func (b *InsertBuilder) Values(row map[string]interface{}) *InsertBuilder {
	nb := b.clone()
	for k, v := range row {
		nb.values[k] = v
	}
	return nb
}

// Returning makes the statement yield the inserted row, including
// store-generated columns.
func (b *InsertBuilder) Returning() *InsertBuilder {
	nb := b.clone()
	nb.returning = true
	return nb
}

// Build renders the statement with parameters v0, v1, ... in column order.
func (b *InsertBuilder) Build() Statement {
	params := make(map[string]interface{})
	columns := sortedKeys(b.values)
	placeholders := make([]string, 0, len(columns))
	for i, col := range columns {
		name := fmt.Sprintf("v%d", i)
		placeholders = append(placeholders, b.dialect.Placeholder(name))
		params[name] = b.values[col]
	}

	var sql strings.Builder
	sql.WriteString("INSERT INTO ")
	sql.WriteString(b.table)
	sql.WriteString(" (")
	sql.WriteString(strings.Join(columns, ", "))
	sql.WriteString(") VALUES (")
	sql.WriteString(strings.Join(placeholders, ", "))
	sql.WriteString(")")
	if b.returning {
		sql.WriteString(" ")
		sql.WriteString(b.dialect.returning())
	}

	return Statement{SQL: sql.String(), Params: params}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
