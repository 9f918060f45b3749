package extract

import (
	"strings"

	"github.com/pkg/errors"

	"extract/compile"
	nt "extract/entity"
)

// Session is the caller-owned editing state for one configuration.
// Any edit forgets the previewed sql, so a save always records what was last run.
type Session struct {
	Source nt.Source

	filters []nt.Filter
	rules   []nt.Rule
	sql     string
}

// NewSession starts an empty session over a source.
func NewSession(src nt.Source) *Session {

	return &Session{
		Source:  src,
		filters: []nt.Filter{},
		rules:   []nt.Rule{},
	}
}

// Filters returns a copy of the filters, in order.
func (sess *Session) Filters() []nt.Filter {
	return append([]nt.Filter{}, sess.filters...)
}

// Rules returns a copy of the rules, in order.
func (sess *Session) Rules() []nt.Rule {
	return append([]nt.Rule{}, sess.rules...)
}

// AddFilter appends a filter.
func (sess *Session) AddFilter(flt nt.Filter) {
	sess.filters = append(sess.filters, flt)
	sess.sql = ""
}

// SetFilter replaces the filter at idx.
func (sess *Session) SetFilter(idx int, flt nt.Filter) (err error) {

	if idx < 0 || idx >= len(sess.filters) {
		err = errors.Errorf("filter index %d is out of bounds of %d filters", idx, len(sess.filters))
		return
	}
	sess.filters[idx] = flt
	sess.sql = ""
	return
}

// RemoveFilter removes the filter at idx.
func (sess *Session) RemoveFilter(idx int) (err error) {

	if idx < 0 || idx >= len(sess.filters) {
		err = errors.Errorf("filter index %d is out of bounds of %d filters", idx, len(sess.filters))
		return
	}
	sess.filters = append(sess.filters[:idx], sess.filters[idx+1:]...)
	sess.sql = ""
	return
}

// AddRule appends a rule.
func (sess *Session) AddRule(rl nt.Rule) {
	sess.rules = append(sess.rules, rl)
	sess.sql = ""
}

// SetRule replaces the rule at idx.
func (sess *Session) SetRule(idx int, rl nt.Rule) (err error) {

	if idx < 0 || idx >= len(sess.rules) {
		err = errors.Errorf("rule index %d is out of bounds of %d rules", idx, len(sess.rules))
		return
	}
	sess.rules[idx] = rl
	sess.sql = ""
	return
}

// RemoveRule removes the rule at idx.
func (sess *Session) RemoveRule(idx int) (err error) {

	if idx < 0 || idx >= len(sess.rules) {
		err = errors.Errorf("rule index %d is out of bounds of %d rules", idx, len(sess.rules))
		return
	}
	sess.rules = append(sess.rules[:idx], sess.rules[idx+1:]...)
	sess.sql = ""
	return
}

// Reset clears filters, rules and any previewed sql.
func (sess *Session) Reset() {
	sess.filters = []nt.Filter{}
	sess.rules = []nt.Rule{}
	sess.sql = ""
}

// Validate checks filters and rules against the source.
func (sess *Session) Validate() (err error) {

	for i, flt := range sess.filters {
		err = flt.Validate(sess.Source)
		if err != nil {
			err = errors.Wrapf(err, "filter %d", i+1)
			return
		}
		if i < len(sess.filters)-1 && flt.Combiner == nt.None {
			err = errors.Wrapf(nt.Invalidf("no combiner joining it to filter %d", i+2), "filter %d", i+1)
			return
		}
	}

	aliases := map[string]bool{}
	for i, rl := range sess.rules {
		err = rl.Validate(sess.Source)
		if err != nil {
			err = errors.Wrapf(err, "rule %d", i+1)
			return
		}

		alias := strings.ToUpper(rl.As)
		if aliases[alias] {
			err = errors.Wrapf(nt.Invalidf("output column %q is used by an earlier rule", rl.As), "rule %d", i+1)
			return
		}
		aliases[alias] = true
	}

	return
}

// Statement validates and compiles the session.
func (sess *Session) Statement() (stmt compile.Statement, err error) {

	err = sess.Validate()
	if err != nil {
		return
	}

	stmt = compile.Compile(sess.Source.Name, sess.filters, sess.rules)
	return
}

// Compile validates and compiles the session to sql.
func (sess *Session) Compile() (sql string, err error) {

	stmt, err := sess.Statement()
	if err != nil {
		return
	}

	sql = stmt.SQL()
	return
}

// SQL returns the last successfully previewed sql, empty when there is none.
func (sess *Session) SQL() string {
	return sess.sql
}

func (sess *Session) previewed(sql string) {
	sess.sql = sql
}
