package compile

import (
	"fmt"

	nt "extract/entity"
)

// Compile builds a statement over source from filters and rules, preserving their order.
// It does not validate; see entity Validate methods.
func Compile(source string, filters []nt.Filter, rules []nt.Rule) (stmt Statement) {

	stmt = Statement{Source: source}

	for _, rl := range rules {
		stmt.Columns = append(stmt.Columns, Column{
			Case: Case{
				When: Comparison{
					Column: rl.Column,
					Op:     rl.Operator,
					Value:  rl.Value,
				},
				Then: rl.Then,
				Else: rl.Else,
			},
			Alias: rl.As,
		})
	}

	for _, flt := range filters {
		stmt.Where = append(stmt.Where, Predicate{
			Comparison: Comparison{
				Column: flt.Column,
				Op:     flt.Condition,
				Value:  flt.Value,
				Fold:   flt.Folded(),
			},
			Combiner: flt.Combiner,
		})
	}

	return
}

// Limit wraps sql to return at most limit rows, or returns it as is for limit < 1.
func Limit(sql string, limit int) string {

	if limit < 1 {
		return sql
	}
	return fmt.Sprintf("SELECT * FROM (\n%s\n) AS preview LIMIT %d", sql, limit)
}

// SourceSample selects the first limit rows of a source.
func SourceSample(source string, limit int) string {
	return Limit("SELECT * FROM "+QuoteQualified(source), limit)
}
