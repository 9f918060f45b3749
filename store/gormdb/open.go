package gormdb

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"extract/compile"
)

// detectDialect infers the dialect from a dsn.
func detectDialect(dsn string) (dialect compile.Dialect, err error) {

	lower := strings.ToLower(strings.TrimSpace(dsn))
	switch {
	case strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://"):
		dialect = compile.Postgres
	case strings.Contains(lower, "host=") || strings.Contains(lower, "dbname=") || strings.Contains(lower, "sslmode="):
		dialect = compile.Postgres
	case strings.HasPrefix(lower, "file:"),
		strings.HasPrefix(lower, "sqlite://"),
		!strings.Contains(lower, "://"):
		dialect = compile.SQLite
	default:
		err = errors.Errorf("unsupported dsn: %s", dsn)
	}
	return
}

func openPostgres(dsn string, cfg *gorm.Config) (db *gorm.DB, err error) {

	pgCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse dsn")
		return
	}
	sqlDB := stdlib.OpenDB(*pgCfg)

	db, err = gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), cfg)
	if err != nil {
		sqlDB.Close()
		err = errors.Wrapf(err, "failed to open postgres")
		return
	}

	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	err = ping(sqlDB)
	return
}

func openSQLite(dsn string, cfg *gorm.Config) (db *gorm.DB, err error) {

	if strings.HasPrefix(strings.ToLower(dsn), "sqlite://") {
		dsn = "file:" + dsn[len("sqlite://"):]
	}

	db, err = gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to open sqlite")
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		err = errors.Wrapf(err, "failed to get sqlite db")
		return
	}

	// each connection to an in-memory database is a database of its own
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		sqlDB.SetMaxOpenConns(1)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		_, err = sqlDB.Exec(pragma)
		if err != nil {
			sqlDB.Close()
			err = errors.Wrapf(err, "failed sqlite %s", pragma)
			return
		}
	}

	err = ping(sqlDB)
	return
}

func ping(sqlDB *sql.DB) (err error) {

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = sqlDB.PingContext(ctx)
	if err != nil {
		sqlDB.Close()
		err = errors.Wrapf(err, "failed to ping")
	}
	return
}
