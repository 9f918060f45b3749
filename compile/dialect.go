package compile

import (
	"fmt"

	nt "extract/entity"
)

// Dialect names a target database.
type Dialect string

const (
	DuckDB   Dialect = "duckdb"
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ViewDDL returns the statements that create or replace a view.
// Statements are to be run in order, in one transaction where supported.
func ViewDDL(dialect Dialect, view, sql string) (stmts []string, err error) {

	name := QuoteIdent(view)

	switch dialect {
	case DuckDB:
		stmts = []string{"CREATE OR REPLACE VIEW " + name + " AS " + sql}
	case Postgres, SQLite:
		// postgres refuses create or replace when the column list changes
		stmts = []string{
			"DROP VIEW IF EXISTS " + name,
			"CREATE VIEW " + name + " AS " + sql,
		}
	default:
		err = &nt.CompileError{Msg: fmt.Sprintf("unsupported dialect: %q", dialect)}
	}
	return
}
