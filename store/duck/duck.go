// Package duck is a DuckDB backed store for sources, views and configurations.
package duck

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/pkg/errors"

	"extract/compile"
	nt "extract/entity"
)

const configTable = `
	CREATE TABLE IF NOT EXISTS CONFIGURATIONS (
		CONFIG_ID   VARCHAR PRIMARY KEY,
		CONFIG_NAME VARCHAR NOT NULL,
		SOURCE_NAME VARCHAR NOT NULL,
		VIEW_NAME   VARCHAR NOT NULL,
		FILTERS     VARCHAR NOT NULL,
		RULES       VARCHAR NOT NULL,
		SQL_TEXT    VARCHAR NOT NULL,
		CREATED_AT  VARCHAR NOT NULL
	)`

const configColumns = `CONFIG_ID, CONFIG_NAME, SOURCE_NAME, VIEW_NAME, FILTERS, RULES, SQL_TEXT, CREATED_AT`

type Duck struct {
	db     *sql.DB
	logger nt.Logger
	path   string
}

// New opens a duck database at path, in memory when path is empty.
func New(path string, lgr nt.Logger) (dk *Duck, err error) {

	db, err := sql.Open("duckdb", path)
	if err != nil {
		err = errors.Wrapf(err, "failed to open duck at %q", path)
		return
	}

	_, err = db.Exec(configTable)
	if err != nil {
		db.Close()
		err = errors.Wrapf(err, "failed to create configurations table")
		return
	}

	dk = &Duck{
		db:     db,
		logger: lgr,
		path:   path,
	}
	return
}

func (dk *Duck) Close() error {
	return dk.db.Close()
}

// Name returns the database path.
func (dk *Duck) Name() string {
	if dk.path == "" {
		return ":memory:"
	}
	return dk.path
}

func (dk *Duck) Dialect() compile.Dialect {
	return compile.DuckDB
}

// LoadSource creates or replaces a table from a csv, json or parquet file.
func (dk *Duck) LoadSource(ctx context.Context, name, path string) (err error) {

	stmt := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT * FROM %s",
		compile.QuoteQualified(name), compile.QuoteLiteral(path))

	_, err = dk.db.ExecContext(ctx, stmt)
	if err != nil {
		err = errors.Wrapf(err, "failed to load %s from %s", name, path)
		return
	}

	dk.logger.Info(ctx, "loaded source", "name", name, "path", path)
	return
}

// Query runs a select and returns all of its rows.
func (dk *Duck) Query(ctx context.Context, query string) (result nt.Result, err error) {

	rows, err := dk.db.QueryContext(ctx, query)
	if err != nil {
		err = errors.Wrapf(err, "failed to query")
		return
	}
	defer rows.Close()

	result.Columns, err = rows.Columns()
	if err != nil {
		err = errors.Wrapf(err, "failed to get cols from query rows")
		return
	}
	result.Rows = []nt.Row{}

	for rows.Next() {
		var vals []any
		vals, err = scanRow(rows, len(result.Columns))
		if err != nil {
			err = errors.Wrapf(err, "failed to scan row")
			return
		}

		row := make(nt.Row, len(vals))
		for i, val := range vals {
			row[i] = nt.NewValue(val)
		}
		result.Rows = append(result.Rows, row)
	}

	err = rows.Err()
	err = errors.Wrapf(err, "error iterating rows")
	return
}

func scanRow(rows *sql.Rows, columnCount int) ([]any, error) {
	vals := make([]any, columnCount)
	ptrs := make([]any, columnCount)
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	err := rows.Scan(ptrs...)
	return vals, err
}

// ExecDDL runs statements in a transaction.
func (dk *Duck) ExecDDL(ctx context.Context, stmts ...string) (err error) {

	tx, err := dk.db.BeginTx(ctx, nil)
	if err != nil {
		err = errors.Wrapf(err, "failed to begin")
		return
	}

	for _, stmt := range stmts {
		_, err = tx.ExecContext(ctx, stmt)
		if err != nil {
			tx.Rollback()
			err = errors.Wrapf(err, "failed to exec ddl")
			return
		}
	}

	err = tx.Commit()
	err = errors.Wrapf(err, "failed to commit ddl")
	return
}

// Columns returns the columns of a table or view, in order.
// A qualified source is looked up in its schema.
func (dk *Duck) Columns(ctx context.Context, source string) (columns []string, err error) {

	schema, table := compile.SchemaTable(source)

	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE lower(table_name) = lower(?)`
	args := []any{table}
	if schema != "" {
		query += `
		AND lower(table_schema) = lower(?)`
		args = append(args, schema)
	}

	rows, err := dk.db.QueryContext(ctx, query+`
		ORDER BY ordinal_position`, args...)
	if err != nil {
		err = errors.Wrapf(err, "failed to query schema")
		return
	}
	defer rows.Close()

	for rows.Next() {
		var column string
		if err = rows.Scan(&column); err != nil {
			err = errors.Wrapf(err, "failed to scan column")
			return
		}
		columns = append(columns, column)
	}

	err = rows.Err()
	err = errors.Wrapf(err, "error iterating columns")
	return
}

// ListConfigNames returns configuration names, most recent first.
func (dk *Duck) ListConfigNames(ctx context.Context) (names []string, err error) {

	rows, err := dk.db.QueryContext(ctx, "SELECT CONFIG_NAME FROM CONFIGURATIONS ORDER BY CREATED_AT DESC")
	if err != nil {
		err = errors.Wrapf(err, "failed to query configurations")
		return
	}
	defer rows.Close()

	names = []string{}
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			err = errors.Wrapf(err, "failed to scan configuration name")
			return
		}
		names = append(names, name)
	}

	err = rows.Err()
	err = errors.Wrapf(err, "error iterating configurations")
	return
}

// InsertConfig inserts a configuration record.
func (dk *Duck) InsertConfig(ctx context.Context, cfg nt.Configuration) (err error) {

	filters, err := json.Marshal(cfg.Filters)
	if err != nil {
		err = errors.Wrapf(err, "failed to encode filters")
		return
	}
	rules, err := json.Marshal(cfg.Rules)
	if err != nil {
		err = errors.Wrapf(err, "failed to encode rules")
		return
	}

	_, err = dk.db.ExecContext(ctx,
		"INSERT INTO CONFIGURATIONS ("+configColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		cfg.Id, cfg.Name, cfg.Source, cfg.View, string(filters), string(rules), cfg.Sql, nt.FormatTime(cfg.CreatedAt),
	)
	err = errors.Wrapf(err, "failed to insert configuration %s", cfg.Name)
	return
}

// GetConfig returns the most recent configuration saved under name.
func (dk *Duck) GetConfig(ctx context.Context, name string) (cfg nt.Configuration, err error) {

	row := dk.db.QueryRowContext(ctx,
		"SELECT "+configColumns+" FROM CONFIGURATIONS WHERE CONFIG_NAME = ? ORDER BY CREATED_AT DESC LIMIT 1",
		name,
	)

	var filters, rules, created string
	err = row.Scan(&cfg.Id, &cfg.Name, &cfg.Source, &cfg.View, &filters, &rules, &cfg.Sql, &created)
	if err != nil {
		err = errors.Wrapf(err, "failed to get configuration %s", name)
		return
	}

	err = json.Unmarshal([]byte(filters), &cfg.Filters)
	if err != nil {
		err = errors.Wrapf(err, "failed to decode filters of %s", name)
		return
	}
	err = json.Unmarshal([]byte(rules), &cfg.Rules)
	if err != nil {
		err = errors.Wrapf(err, "failed to decode rules of %s", name)
		return
	}

	cfg.CreatedAt, err = nt.ParseTime(created)
	return
}
