package extract

import (
	"context"

	"extract/util"

	nt "extract/entity"
)

// Draft is a configuration being edited, as kept in a yaml file.
type Draft struct {
	Source  string      `yaml:"source"`
	Naming  Naming      `yaml:",inline"`
	Filters []nt.Filter `yaml:"filters"`
	Rules   []nt.Rule   `yaml:"rules"`
}

// LoadDraft reads a draft from a yaml file.
func LoadDraft(path string) (draft *Draft, err error) {

	draft = &Draft{}
	err = util.LoadConfig(draft, path)
	return
}

// DraftOf returns a draft of a saved configuration, selected for saving as a new version.
func DraftOf(cfg nt.Configuration) *Draft {

	return &Draft{
		Source:  cfg.Source,
		Naming:  Naming{Selected: cfg.Name},
		Filters: append([]nt.Filter{}, cfg.Filters...),
		Rules:   append([]nt.Rule{}, cfg.Rules...),
	}
}

// WriteDraft writes a draft as yaml.
func WriteDraft(draft *Draft, path string) (err error) {
	return util.WriteConfig(draft, path, 0644)
}

// Open starts a session over the draft's source, holding its filters and rules.
func (ex *Extract) Open(ctx context.Context, draft *Draft) (sess *Session, err error) {

	sess, err = ex.Session(ctx, draft.Source)
	if err != nil {
		return
	}

	for _, flt := range draft.Filters {
		sess.AddFilter(flt)
	}
	for _, rl := range draft.Rules {
		sess.AddRule(rl)
	}
	return
}
