// Package gormdb is a gorm backed store over sqlite or postgres.
package gormdb

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"extract/compile"
	nt "extract/entity"
)

// configRow is the persisted shape of a configuration.
type configRow struct {
	ConfigId   string         `gorm:"column:config_id;type:varchar(36);primaryKey"`
	ConfigName string         `gorm:"column:config_name;type:varchar(255);not null;index"`
	SourceName string         `gorm:"column:source_name;type:varchar(255);not null"`
	ViewName   string         `gorm:"column:view_name;type:varchar(255);not null"`
	Filters    datatypes.JSON `gorm:"column:filters;not null"`
	Rules      datatypes.JSON `gorm:"column:rules;not null"`
	SqlText    string         `gorm:"column:sql_text;type:text;not null"`
	Created    string         `gorm:"column:created_at;type:varchar(32);not null;index"`
}

func (configRow) TableName() string {
	return "configurations"
}

type Gorm struct {
	db      *gorm.DB
	dialect compile.Dialect
	logger  nt.Logger
}

// Open connects to the database named by dsn and migrates the configurations table.
func Open(dsn string, lgr nt.Logger) (gm *Gorm, err error) {

	dialect, err := detectDialect(dsn)
	if err != nil {
		return
	}

	cfg := &gorm.Config{Logger: newGormLogger(lgr)}

	var db *gorm.DB
	switch dialect {
	case compile.Postgres:
		db, err = openPostgres(dsn, cfg)
	default:
		db, err = openSQLite(dsn, cfg)
	}
	if err != nil {
		return
	}

	err = db.AutoMigrate(&configRow{})
	if err != nil {
		err = errors.Wrapf(err, "failed to migrate configurations")
		return
	}

	gm = &Gorm{
		db:      db,
		dialect: dialect,
		logger:  lgr,
	}
	return
}

func (gm *Gorm) Close() (err error) {

	sqlDB, err := gm.db.DB()
	if err != nil {
		return
	}
	return sqlDB.Close()
}

func (gm *Gorm) Dialect() compile.Dialect {
	return gm.dialect
}

// Query runs a select and returns all of its rows.
func (gm *Gorm) Query(ctx context.Context, query string) (result nt.Result, err error) {

	rows, err := gm.db.WithContext(ctx).Raw(query).Rows()
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
		var row nt.Row
		row, err = scanRow(rows, len(result.Columns))
		if err != nil {
			return
		}
		result.Rows = append(result.Rows, row)
	}

	err = rows.Err()
	err = errors.Wrapf(err, "error iterating rows")
	return
}

func scanRow(rows *sql.Rows, count int) (row nt.Row, err error) {

	vals := make([]any, count)
	ptrs := make([]any, count)
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	err = rows.Scan(ptrs...)
	if err != nil {
		err = errors.Wrapf(err, "failed to scan row")
		return
	}

	row = make(nt.Row, count)
	for i, val := range vals {
		row[i] = nt.NewValue(val)
	}
	return
}

// ExecDDL runs statements in a transaction.
func (gm *Gorm) ExecDDL(ctx context.Context, stmts ...string) (err error) {

	err = gm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range stmts {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	})
	err = errors.Wrapf(err, "failed to exec ddl")
	return
}

// Columns returns the columns of a table or view, in order.
// A qualified source is looked up in its schema.
func (gm *Gorm) Columns(ctx context.Context, source string) (columns []string, err error) {

	schema, table := compile.SchemaTable(source)
	if schema == "" && gm.dialect == compile.SQLite {
		schema = "main"
	}

	query := `
		SELECT name FROM pragma_table_info(?, ?) ORDER BY cid`
	args := []any{table, schema}
	if gm.dialect == compile.Postgres {
		query = `
		SELECT column_name FROM information_schema.columns
		WHERE lower(table_name) = lower(?)
		AND lower(table_schema) = lower(coalesce(nullif(?, ''), current_schema()))
		ORDER BY ordinal_position`
	}

	rows, err := gm.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		err = errors.Wrapf(err, "failed to query columns of %s", source)
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
func (gm *Gorm) ListConfigNames(ctx context.Context) (names []string, err error) {

	names = []string{}
	err = gm.db.WithContext(ctx).
		Model(&configRow{}).
		Order("created_at DESC").
		Pluck("config_name", &names).Error
	err = errors.Wrapf(err, "failed to list configurations")
	return
}

// InsertConfig inserts a configuration record.
func (gm *Gorm) InsertConfig(ctx context.Context, cfg nt.Configuration) (err error) {

	row, err := toRow(cfg)
	if err != nil {
		return
	}

	err = gm.db.WithContext(ctx).Create(&row).Error
	err = errors.Wrapf(err, "failed to insert configuration %s", cfg.Name)
	return
}

// GetConfig returns the most recent configuration saved under name.
func (gm *Gorm) GetConfig(ctx context.Context, name string) (cfg nt.Configuration, err error) {

	var row configRow
	err = gm.db.WithContext(ctx).
		Where("config_name = ?", name).
		Order("created_at DESC").
		First(&row).Error
	if err != nil {
		err = errors.Wrapf(err, "failed to get configuration %s", name)
		return
	}

	cfg, err = fromRow(row)
	return
}

func toRow(cfg nt.Configuration) (row configRow, err error) {

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

	row = configRow{
		ConfigId:   cfg.Id,
		ConfigName: cfg.Name,
		SourceName: cfg.Source,
		ViewName:   cfg.View,
		Filters:    datatypes.JSON(filters),
		Rules:      datatypes.JSON(rules),
		SqlText:    cfg.Sql,
		Created:    nt.FormatTime(cfg.CreatedAt),
	}
	return
}

func fromRow(row configRow) (cfg nt.Configuration, err error) {

	cfg = nt.Configuration{
		Id:     row.ConfigId,
		Name:   row.ConfigName,
		Source: row.SourceName,
		View:   row.ViewName,
		Sql:    row.SqlText,
	}

	err = json.Unmarshal(row.Filters, &cfg.Filters)
	if err != nil {
		err = errors.Wrapf(err, "failed to decode filters of %s", row.ConfigName)
		return
	}
	err = json.Unmarshal(row.Rules, &cfg.Rules)
	if err != nil {
		err = errors.Wrapf(err, "failed to decode rules of %s", row.ConfigName)
		return
	}

	cfg.CreatedAt, err = nt.ParseTime(row.Created)
	return
}
