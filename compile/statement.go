// Package compile turns filters and rules into a sql statement.
//
// Compilation produces a structured Statement; rendering it to text is the only place
// identifiers and literals are embedded, and both are always escaped there.
package compile

import (
	"strings"

	nt "extract/entity"
)

// Comparison is a single column, operator, literal test.
type Comparison struct {
	Column string
	Op     nt.Op
	Value  string
	Fold   bool // compare lower-cased column and value
}

// Case is a derived value: Then when the comparison holds, Else otherwise.
type Case struct {
	When Comparison
	Then string
	Else string
}

// Column is a derived column in the projection.
type Column struct {
	Case  Case
	Alias string
}

// Predicate is one link in the where chain.
// Combiner joins it to the predicate that follows.
type Predicate struct {
	Comparison
	Combiner nt.Combiner
}

// Statement is a compiled extract: all source columns plus derived columns, filtered.
type Statement struct {
	Source  string
	Columns []Column
	Where   []Predicate
}

// SQL renders the statement.
func (stmt Statement) SQL() string {

	var sb strings.Builder

	sb.WriteString("WITH base AS (SELECT * FROM ")
	sb.WriteString(QuoteQualified(stmt.Source))
	sb.WriteString(")\nSELECT ")
	sb.WriteString(stmt.Projection())
	sb.WriteString(" FROM base")

	where := stmt.WhereClause()
	if where != "" {
		sb.WriteString("\nWHERE ")
		sb.WriteString(where)
	}

	return sb.String()
}

// Projection renders the select list.
func (stmt Statement) Projection() string {

	parts := []string{"*"}
	for _, col := range stmt.Columns {
		parts = append(parts, col.render())
	}
	return strings.Join(parts, ", ")
}

// WhereClause renders the predicate chain without the WHERE keyword, empty when unfiltered.
func (stmt Statement) WhereClause() string {

	var sb strings.Builder
	for i, pred := range stmt.Where {
		if i > 0 {
			combiner := stmt.Where[i-1].Combiner
			if combiner == nt.None {
				combiner = nt.And
			}
			sb.WriteString(" ")
			sb.WriteString(string(combiner))
			sb.WriteString(" ")
		}
		sb.WriteString(pred.Comparison.render())
	}
	return sb.String()
}

func (cmp Comparison) render() string {

	if cmp.Fold {
		return "LOWER(" + QuoteIdent(cmp.Column) + ") " + string(cmp.Op) + " LOWER(" + QuoteLiteral(cmp.Value) + ")"
	}
	return QuoteIdent(cmp.Column) + " " + string(cmp.Op) + " " + QuoteLiteral(cmp.Value)
}

func (col Column) render() string {

	return "CASE WHEN " + col.Case.When.render() +
		" THEN " + QuoteLiteral(col.Case.Then) +
		" ELSE " + QuoteLiteral(col.Case.Else) +
		" END AS " + QuoteIdent(col.Alias)
}
