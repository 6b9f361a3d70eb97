package query

// Dialect selects the SQL flavour a statement is rendered for.
type Dialect int

const (
	// Spanner renders GoogleSQL with @name parameters.
	Spanner Dialect = iota
	// Postgres renders PostgreSQL with sqlx :name parameters.
	Postgres
)

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	default:
		return "spanner"
	}
}

// Placeholder renders a named parameter reference.
func (d Dialect) Placeholder(name string) string {
	if d == Postgres {
		return ":" + name
	}
	return "@" + name
}

// returning renders the clause that makes an INSERT yield the written row.
func (d Dialect) returning() string {
	if d == Postgres {
		return "RETURNING *"
	}
	return "THEN RETURN *"
}

// Statement is a rendered SQL statement with named parameters.
type Statement struct {
	SQL    string
	Params map[string]interface{}
}
