package entity

// Rule defines a derived column from a single conditional.
type Rule struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Column      string `yaml:"column" json:"column"`
	Operator    Op     `yaml:"operator" json:"operator"`
	Value       string `yaml:"value" json:"value"`
	Then        string `yaml:"then" json:"then"`
	Else        string `yaml:"else" json:"else"`
	As          string `yaml:"as" json:"as"`
}

// Validate checks column, operator and alias against a source.
func (rl Rule) Validate(src Source) (err error) {

	if !src.Has(rl.Column) {
		err = Invalidf("rule column %q is not a column of %s", rl.Column, src.Name)
		return
	}
	if !rl.Operator.Valid() {
		err = Invalidf("rule operator %q is not supported", rl.Operator)
		return
	}
	if rl.As == "" {
		err = Invalidf("rule %q has no output column name", rl.Name)
		return
	}
	if src.Has(rl.As) {
		err = Invalidf("rule output column %q shadows a column of %s", rl.As, src.Name)
	}
	return
}
