package compile

import (
	"testing"

	nt "extract/entity"
)

func TestCompileEmpty(t *testing.T) {

	sql := Compile("S", nil, nil).SQL()

	expected := "WITH base AS (SELECT * FROM S)\nSELECT * FROM base"
	if sql != expected {
		t.Errorf("expected '%s', got '%s'", expected, sql)
	}
}

func TestCompileRule(t *testing.T) {

	rules := []nt.Rule{{
		Name:     "bangalore",
		Column:   "PINCODE",
		Operator: nt.Eq,
		Value:    "560001",
		Then:     "YES",
		Else:     "NO",
		As:       "IS_BLR",
	}}

	stmt := Compile("ADDRESSES", nil, rules)

	expected := "*, CASE WHEN PINCODE = '560001' THEN 'YES' ELSE 'NO' END AS IS_BLR"
	if stmt.Projection() != expected {
		t.Errorf("expected '%s', got '%s'", expected, stmt.Projection())
	}
	if stmt.WhereClause() != "" {
		t.Errorf("expected no where clause, got '%s'", stmt.WhereClause())
	}
}

func TestCompileFilters(t *testing.T) {

	filters := []nt.Filter{
		{Column: "CITY", Condition: nt.Like, Value: "%bang%", CaseSensitive: false, Combiner: nt.And},
		{Column: "COUNTRY", Condition: nt.Eq, Value: "IN", CaseSensitive: true, Combiner: nt.None},
	}

	sql := Compile("user_data", filters, nil).SQL()

	expected := "WITH base AS (SELECT * FROM user_data)\n" +
		"SELECT * FROM base\n" +
		"WHERE LOWER(CITY) LIKE LOWER('%bang%') AND COUNTRY = 'IN'"
	if sql != expected {
		t.Errorf("expected '%s', got '%s'", expected, sql)
	}
}

func TestCompileChain(t *testing.T) {

	tests := []struct {
		name     string
		filters  []nt.Filter
		expected string
	}{
		{
			name: "trailing combiner ignored",
			filters: []nt.Filter{
				{Column: "CITY", Condition: nt.Ne, Value: "x", Combiner: nt.Or},
			},
			expected: "CITY != 'x'",
		},
		{
			name: "combiner belongs to the left clause",
			filters: []nt.Filter{
				{Column: "A", Condition: nt.Eq, Value: "1", Combiner: nt.Or},
				{Column: "B", Condition: nt.Lt, Value: "2", Combiner: nt.And},
				{Column: "C", Condition: nt.Gt, Value: "3"},
			},
			expected: "A = '1' OR B < '2' AND C > '3'",
		},
		{
			name: "missing combiner mid chain joins with and",
			filters: []nt.Filter{
				{Column: "A", Condition: nt.Eq, Value: "1"},
				{Column: "B", Condition: nt.Eq, Value: "2"},
			},
			expected: "A = '1' AND B = '2'",
		},
		{
			name: "case sensitive like is not folded",
			filters: []nt.Filter{
				{Column: "CITY", Condition: nt.Like, Value: "B%", CaseSensitive: true},
			},
			expected: "CITY LIKE 'B%'",
		},
		{
			name: "case sensitivity ignored for equality",
			filters: []nt.Filter{
				{Column: "CITY", Condition: nt.Eq, Value: "Pune"},
			},
			expected: "CITY = 'Pune'",
		},
		{
			name: "empty value kept",
			filters: []nt.Filter{
				{Column: "CITY", Condition: nt.Eq, Value: ""},
			},
			expected: "CITY = ''",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			where := Compile("S", tc.filters, nil).WhereClause()
			if where != tc.expected {
				t.Errorf("expected '%s', got '%s'", tc.expected, where)
			}
		})
	}
}

func TestCompileEscapes(t *testing.T) {

	filters := []nt.Filter{
		{Column: "CITY", Condition: nt.Eq, Value: "x' OR '1'='1", CaseSensitive: true},
	}
	rules := []nt.Rule{
		{Column: "first name", Operator: nt.Eq, Value: "O'Brien", Then: "it's", Else: "", As: "select"},
	}

	stmt := Compile("my table", filters, rules)

	expectedWhere := "CITY = 'x'' OR ''1''=''1'"
	if stmt.WhereClause() != expectedWhere {
		t.Errorf("expected '%s', got '%s'", expectedWhere, stmt.WhereClause())
	}

	expectedProj := `*, CASE WHEN "first name" = 'O''Brien' THEN 'it''s' ELSE '' END AS "select"`
	if stmt.Projection() != expectedProj {
		t.Errorf("expected '%s', got '%s'", expectedProj, stmt.Projection())
	}

	expectedHead := "WITH base AS (SELECT * FROM \"my table\")\n"
	if sql := stmt.SQL(); sql[:len(expectedHead)] != expectedHead {
		t.Errorf("expected prefix '%s', got '%s'", expectedHead, sql)
	}
}

func TestCompileIdempotent(t *testing.T) {

	filters := []nt.Filter{
		{Column: "CITY", Condition: nt.Like, Value: "%a%", Combiner: nt.Or},
		{Column: "PINCODE", Condition: nt.Gt, Value: "5"},
	}
	rules := []nt.Rule{
		{Column: "COUNTRY", Operator: nt.Eq, Value: "IN", Then: "1", Else: "0", As: "DOMESTIC"},
		{Column: "CITY", Operator: nt.Like, Value: "B%", Then: "B", Else: "-", As: "B_CITY"},
	}

	first := Compile("S", filters, rules).SQL()
	second := Compile("S", filters, rules).SQL()
	if first != second {
		t.Errorf("expected identical sql, got '%s' and '%s'", first, second)
	}
}

func TestLimit(t *testing.T) {

	if Limit("SELECT 1", 0) != "SELECT 1" {
		t.Errorf("expected unlimited sql unchanged")
	}

	expected := "SELECT * FROM (\nSELECT 1\n) AS preview LIMIT 10"
	if got := Limit("SELECT 1", 10); got != expected {
		t.Errorf("expected '%s', got '%s'", expected, got)
	}

	expected = "SELECT * FROM (\nSELECT * FROM ORDERS\n) AS preview LIMIT 5"
	if got := SourceSample("ORDERS", 5); got != expected {
		t.Errorf("expected '%s', got '%s'", expected, got)
	}
}

func TestViewDDL(t *testing.T) {

	stmts, err := ViewDDL(DuckDB, "my_config", "SELECT 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmts) != 1 || stmts[0] != "CREATE OR REPLACE VIEW my_config AS SELECT 1" {
		t.Errorf("unexpected duckdb ddl: %v", stmts)
	}

	for _, dialect := range []Dialect{Postgres, SQLite} {
		stmts, err = ViewDDL(dialect, "my-config", "SELECT 1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(stmts) != 2 ||
			stmts[0] != `DROP VIEW IF EXISTS "my-config"` ||
			stmts[1] != `CREATE VIEW "my-config" AS SELECT 1` {
			t.Errorf("unexpected %s ddl: %v", dialect, stmts)
		}
	}

	_, err = ViewDDL("oracle", "v", "SELECT 1")
	if _, ok := err.(*nt.CompileError); !ok {
		t.Errorf("expected compile error for unknown dialect, got %v", err)
	}
}

func TestQuoteIdent(t *testing.T) {

	tests := map[string]string{
		"PINCODE":   "PINCODE",
		"_x1":       "_x1",
		"1x":        `"1x"`,
		"a b":       `"a b"`,
		`we"ird`:    `"we""ird"`,
		"order":     `"order"`,
		"":          `""`,
		"user_data": "user_data",
	}

	for in, expected := range tests {
		if got := QuoteIdent(in); got != expected {
			t.Errorf("expected '%s' for '%s', got '%s'", expected, in, got)
		}
	}
}

func TestQuoteQualified(t *testing.T) {

	tests := map[string]string{
		"user_data":             "user_data",
		"main.user_data":        "main.user_data",
		"DB.SCHEMA.TABLE":       `DB.SCHEMA."TABLE"`,
		"sales.order":           `sales."order"`,
		`"my.schema".user_data`: `"my.schema".user_data`,
		`raw."we""ird"`:         `raw."we""ird"`,
		"a b.c":                 `"a b".c`,
	}

	for in, expected := range tests {
		if got := QuoteQualified(in); got != expected {
			t.Errorf("expected '%s' for '%s', got '%s'", expected, in, got)
		}
	}
}

func TestSchemaTable(t *testing.T) {

	tests := []struct {
		name   string
		schema string
		table  string
	}{
		{name: "user_data", table: "user_data"},
		{name: "main.user_data", schema: "main", table: "user_data"},
		{name: "DB.SCHEMA.ORDERS", schema: "SCHEMA", table: "ORDERS"},
		{name: `"my.schema"."a.b"`, schema: "my.schema", table: "a.b"},
	}

	for _, tc := range tests {
		schema, table := SchemaTable(tc.name)
		if schema != tc.schema || table != tc.table {
			t.Errorf("expected '%s' '%s' for '%s', got '%s' '%s'", tc.schema, tc.table, tc.name, schema, table)
		}
	}
}

func TestCompileQualifiedSource(t *testing.T) {

	sql := Compile("DB.SCHEMA.USER_DATA", nil, nil).SQL()
	expected := "WITH base AS (SELECT * FROM DB.SCHEMA.USER_DATA)\nSELECT * FROM base"
	if sql != expected {
		t.Errorf("expected '%s', got '%s'", expected, sql)
	}

	sample := SourceSample("main.user_data", 5)
	expected = "SELECT * FROM (\nSELECT * FROM main.user_data\n) AS preview LIMIT 5"
	if sample != expected {
		t.Errorf("expected '%s', got '%s'", expected, sample)
	}
}
