package gormdb

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm/logger"

	"extract/compile"
	nt "extract/entity"
)

var ctx = context.Background()

func openMemory(t *testing.T) *Gorm {
	t.Helper()

	gm, err := Open(":memory:", nt.NopLogger{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { gm.Close() })

	err = gm.ExecDDL(ctx,
		"CREATE TABLE user_data (ADDRESS_ID INTEGER, CITY TEXT, PINCODE TEXT, COUNTRY TEXT)",
		`INSERT INTO user_data VALUES
			(1, 'Bangalore', '560001', 'IN'),
			(2, 'BANGALORE', '560034', 'IN'),
			(3, 'Pune', '411001', 'IN'),
			(4, 'Bangor', 'LL57', 'UK')`,
	)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return gm
}

func compiled() string {

	filters := []nt.Filter{
		{Column: "CITY", Condition: nt.Like, Value: "%bang%", Combiner: nt.And},
		{Column: "COUNTRY", Condition: nt.Eq, Value: "IN", CaseSensitive: true},
	}
	rules := []nt.Rule{
		{Column: "PINCODE", Operator: nt.Eq, Value: "560001", Then: "YES", Else: "NO", As: "IS_BLR"},
	}
	return compile.Compile("user_data", filters, rules).SQL()
}

func TestDetectDialect(t *testing.T) {

	tests := map[string]compile.Dialect{
		"postgres://u:p@localhost/db":          compile.Postgres,
		"postgresql://localhost/db":            compile.Postgres,
		"host=localhost user=u dbname=extract": compile.Postgres,
		":memory:":                             compile.SQLite,
		"file:extract.db?cache=shared":         compile.SQLite,
		"sqlite://extract.db":                  compile.SQLite,
		"extract.db":                           compile.SQLite,
	}

	for dsn, expected := range tests {
		got, err := detectDialect(dsn)
		if err != nil {
			t.Errorf("unexpected error for %s: %v", dsn, err)
			continue
		}
		if got != expected {
			t.Errorf("expected %s for %s, got %s", expected, dsn, got)
		}
	}

	_, err := detectDialect("mysql://localhost/db")
	if err == nil {
		t.Errorf("expected error for mysql dsn")
	}
}

func TestQuery(t *testing.T) {

	gm := openMemory(t)

	if gm.Dialect() != compile.SQLite {
		t.Errorf("expected sqlite dialect, got %s", gm.Dialect())
	}

	result, err := gm.Query(ctx, compiled()+"\nORDER BY ADDRESS_ID")
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	if strings.Join(result.Columns, ",") != "ADDRESS_ID,CITY,PINCODE,COUNTRY,IS_BLR" {
		t.Errorf("unexpected columns: %v", result.Columns)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	if result.Rows[0][0].Kind != nt.Int || result.Rows[0][4].String() != "YES" || result.Rows[1][4].String() != "NO" {
		t.Errorf("unexpected rows: %v", result.Rows)
	}
}

func TestQueryEscapedValue(t *testing.T) {

	gm := openMemory(t)

	filters := []nt.Filter{
		{Column: "CITY", Condition: nt.Eq, Value: "x' OR '1'='1", CaseSensitive: true},
	}

	result, err := gm.Query(ctx, compile.Compile("user_data", filters, nil).SQL())
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(result.Rows) != 0 {
		t.Errorf("expected quoted value to match nothing, got %d rows", len(result.Rows))
	}
}

func TestPublishView(t *testing.T) {

	gm := openMemory(t)

	stmts, err := compile.ViewDDL(gm.Dialect(), "blr", compiled())
	if err != nil {
		t.Fatalf("ddl: %v", err)
	}

	for i := 0; i < 2; i++ {
		err = gm.ExecDDL(ctx, stmts...)
		if err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	result, err := gm.Query(ctx, "SELECT COUNT(*) AS n FROM blr")
	if err != nil {
		t.Fatalf("query view: %v", err)
	}
	if n, _ := result.Rows[0][0].Int(); n != 2 {
		t.Errorf("expected 2 rows in view, got %v", result.Rows[0][0])
	}

	columns, err := gm.Columns(ctx, "blr")
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	if strings.Join(columns, ",") != "ADDRESS_ID,CITY,PINCODE,COUNTRY,IS_BLR" {
		t.Errorf("unexpected view columns: %v", columns)
	}
}

func TestExecDDLRollsBack(t *testing.T) {

	gm := openMemory(t)

	err := gm.ExecDDL(ctx, "CREATE TABLE scratch (x INTEGER)", "CREATE TABLE broken (")
	if err == nil {
		t.Fatalf("expected error")
	}

	columns, err := gm.Columns(ctx, "scratch")
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	if len(columns) != 0 {
		t.Errorf("expected scratch table rolled back, got %v", columns)
	}
}

func TestConfigs(t *testing.T) {

	gm := openMemory(t)

	names, err := gm.ListConfigNames(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if names == nil || len(names) != 0 {
		t.Errorf("expected empty list, got %#v", names)
	}

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"t1", "t2", "t3"} {
		err = gm.InsertConfig(ctx, nt.Configuration{
			Id:        name + "-id",
			Name:      name,
			Source:    "user_data",
			View:      name,
			Filters:   []nt.Filter{{Column: "CITY", Condition: nt.Like, Value: "%bang%", Combiner: nt.And}},
			Rules:     []nt.Rule{{Column: "PINCODE", Operator: nt.Eq, Value: "560001", As: "IS_BLR"}},
			Sql:       compiled(),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	names, err = gm.ListConfigNames(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.Join(names, ",") != "t3,t2,t1" {
		t.Errorf("unexpected order: %v", names)
	}

	cfg, err := gm.GetConfig(ctx, "t2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cfg.Id != "t2-id" || cfg.View != "t2" || cfg.Sql != compiled() || !cfg.CreatedAt.Equal(base.Add(time.Second)) {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if len(cfg.Filters) != 1 || cfg.Filters[0].Combiner != nt.And || len(cfg.Rules) != 1 || cfg.Rules[0].As != "IS_BLR" {
		t.Errorf("unexpected filters and rules: %+v", cfg)
	}

	_, err = gm.GetConfig(ctx, "missing")
	if err == nil {
		t.Errorf("expected error for missing config")
	}
}

type recorder struct {
	infos  []string
	errors []string
}

func (rec *recorder) Info(ctx context.Context, msg string, kv ...any) {
	rec.infos = append(rec.infos, msg)
}

func (rec *recorder) Error(ctx context.Context, msg string, err error, kv ...any) {
	rec.errors = append(rec.errors, msg)
}

func TestGormLogger(t *testing.T) {

	rec := &recorder{}
	gl := newGormLogger(rec)

	fc := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(ctx, time.Now(), fc, nil)
	if len(rec.infos) != 0 || len(rec.errors) != 0 {
		t.Errorf("expected fast statements to be quiet at warn")
	}

	gl.Trace(ctx, time.Now(), fc, context.Canceled)
	if len(rec.errors) != 1 || rec.errors[0] != "statement failed" {
		t.Errorf("expected failed statement logged, got %v", rec.errors)
	}

	gl.Trace(ctx, time.Now().Add(-2*time.Second), fc, nil)
	if len(rec.infos) != 1 || rec.infos[0] != "slow statement" {
		t.Errorf("expected slow statement logged, got %v", rec.infos)
	}

	verbose := gl.LogMode(logger.Info)
	verbose.Trace(ctx, time.Now(), fc, nil)
	if len(rec.infos) != 2 {
		t.Errorf("expected statement logged at info, got %v", rec.infos)
	}
}

func TestColumns(t *testing.T) {

	gm := openMemory(t)

	columns, err := gm.Columns(ctx, "user_data")
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	if strings.Join(columns, ",") != "ADDRESS_ID,CITY,PINCODE,COUNTRY" {
		t.Errorf("unexpected columns: %v", columns)
	}

	columns, err = gm.Columns(ctx, "missing")
	if err != nil {
		t.Fatalf("columns of missing: %v", err)
	}
	if len(columns) != 0 {
		t.Errorf("expected no columns, got %v", columns)
	}
}

func TestColumnsQualified(t *testing.T) {

	gm := openMemory(t)

	columns, err := gm.Columns(ctx, "main.user_data")
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	if strings.Join(columns, ",") != "ADDRESS_ID,CITY,PINCODE,COUNTRY" {
		t.Errorf("unexpected columns: %v", columns)
	}

	result, err := gm.Query(ctx, compile.Compile("main.user_data", nil, nil).SQL())
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(result.Rows) != 4 {
		t.Errorf("expected 4 rows, got %d", len(result.Rows))
	}
}
