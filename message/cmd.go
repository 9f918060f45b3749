package message

import (
	"context"

	tea "charm.land/bubbletea/v2"

	nt "extract/entity"
)

// Lister looks up saved configurations.
type Lister interface {
	ListConfigNames(ctx context.Context) (names []string, err error)
	Config(ctx context.Context, name string) (cfg nt.Configuration, err error)
}

// NamesCmd returns a command to load configuration names
func NamesCmd(ctx context.Context, lister Lister) tea.Cmd {
	return func() tea.Msg {
		names, err := lister.ListConfigNames(ctx)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return NamesMsg{Names: names}
	}
}

// ConfigCmd returns a command to load a configuration
func ConfigCmd(ctx context.Context, lister Lister, name string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := lister.Config(ctx, name)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ConfigMsg{Config: cfg}
	}
}
