package extract

import (
	"strings"
	"time"

	nt "extract/entity"
)

const versionLayout = "20060102150405"

// Naming holds the name choices made for a save.
type Naming struct {
	// New is a freshly entered name, used as is when set
	New string `yaml:"name,omitempty"`
	// Selected is an existing configuration name, versioned with a timestamp suffix
	Selected string `yaml:"selected,omitempty"`
}

// ConfigName picks the configuration name for a save.
func ConfigName(naming Naming, now time.Time) (name string, err error) {

	name = strings.TrimSpace(naming.New)
	if name != "" {
		return
	}

	base := strings.TrimSpace(naming.Selected)
	if base == "" {
		err = nt.Invalidf("no configuration name given and no existing configuration selected")
		return
	}

	name = base + "_V_" + now.Format(versionLayout)
	return
}

// DeriveViewName lower-cases name and replaces spaces with underscores.
func DeriveViewName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// NewConfiguration builds the record persisted for a save.
func NewConfiguration(id, name string, sess *Session, sql string, now time.Time) nt.Configuration {

	return nt.Configuration{
		Id:        id,
		Name:      name,
		Source:    sess.Source.Name,
		View:      DeriveViewName(name),
		Filters:   sess.Filters(),
		Rules:     sess.Rules(),
		Sql:       sql,
		CreatedAt: now,
	}
}
