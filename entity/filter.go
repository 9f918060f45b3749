package entity

import (
	"strings"
)

// Op is a comparison operator shared by filters and rules.
type Op string

const (
	Eq   Op = "="
	Ne   Op = "!="
	Lt   Op = "<"
	Gt   Op = ">"
	Like Op = "LIKE"
)

// Valid reports whether op is one of the supported operators.
func (op Op) Valid() bool {
	switch op {
	case Eq, Ne, Lt, Gt, Like:
		return true
	}
	return false
}

// Combiner joins a filter's clause to the clause that follows it.
type Combiner string

const (
	And  Combiner = "AND"
	Or   Combiner = "OR"
	None Combiner = ""
)

// Valid reports whether cb is a known combiner.
func (cb Combiner) Valid() bool {
	switch cb {
	case And, Or, None:
		return true
	}
	return false
}

// Filter is a single row-level condition.
// Filters form a left-to-right chain, each Combiner joining its clause to the next.
type Filter struct {
	Column        string   `yaml:"column" json:"column"`
	Condition     Op       `yaml:"condition" json:"condition"`
	Value         string   `yaml:"value" json:"value"`
	CaseSensitive bool     `yaml:"case_sensitive" json:"case_sensitive"`
	Combiner      Combiner `yaml:"combiner" json:"combiner"`
}

// Folded reports whether comparison happens on lower-cased column and value.
func (flt Filter) Folded() bool {
	return flt.Condition == Like && !flt.CaseSensitive
}

// Validate checks column and condition against a source.
func (flt Filter) Validate(src Source) (err error) {

	if !src.Has(flt.Column) {
		err = Invalidf("filter column %q is not a column of %s", flt.Column, src.Name)
		return
	}
	if !flt.Condition.Valid() {
		err = Invalidf("filter condition %q is not supported", flt.Condition)
		return
	}
	if !flt.Combiner.Valid() {
		err = Invalidf("filter combiner %q is not supported", flt.Combiner)
	}
	return
}

// Source is a readable relation and the columns recognized for it.
type Source struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
}

// Has reports whether column is recognized, ignoring case.
func (src Source) Has(column string) bool {

	for _, col := range src.Columns {
		if strings.EqualFold(col, column) {
			return true
		}
	}
	return false
}
