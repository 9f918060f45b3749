// Package extract compiles extract configurations to sql and saves them as views.
package extract

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"extract/compile"
	nt "extract/entity"
)

// Store specifies a backing datastore, holding both the sources and saved configurations.
type Store interface {
	// Dialect of sql the store speaks
	Dialect() compile.Dialect
	// Query returns the columns and rows of a select
	Query(ctx context.Context, sql string) (result nt.Result, err error)
	// ExecDDL runs statements in order, in one transaction where supported
	ExecDDL(ctx context.Context, stmts ...string) (err error)
	// Columns of a source, in order
	Columns(ctx context.Context, source string) (columns []string, err error)
	// ListConfigNames returns saved configuration names, most recent first
	ListConfigNames(ctx context.Context) (names []string, err error)
	// InsertConfig saves a configuration record
	InsertConfig(ctx context.Context, cfg nt.Configuration) (err error)
	// GetConfig returns the most recent configuration saved under name
	GetConfig(ctx context.Context, name string) (cfg nt.Configuration, err error)
}

// Config is the yaml configurable part of Extract.
type Config struct {
	Sources      []nt.Source `yaml:"sources"`
	PreviewLimit int         `yaml:"preview_limit"`
}

// Extract runs previews and saves against a store.
type Extract struct {
	store     Store
	publisher *Publisher
	logger    nt.Logger
	sources   []nt.Source
	limit     int

	now   func() time.Time
	newId func() string
}

func (cfg *Config) New(store Store, lgr nt.Logger) *Extract {

	return &Extract{
		store:     store,
		publisher: NewPublisher(store),
		logger:    lgr,
		sources:   cfg.Sources,
		limit:     cfg.PreviewLimit,
		now:       time.Now,
		newId:     uuid.NewString,
	}
}

// Sources returns the configured sources.
func (ex *Extract) Sources() []nt.Source {
	return ex.sources
}

// Session starts an editing session over a source.
// Columns configured for the source are used when present, otherwise they are read from the store.
func (ex *Extract) Session(ctx context.Context, name string) (sess *Session, err error) {

	src := nt.Source{Name: name}
	for _, configured := range ex.sources {
		if strings.EqualFold(configured.Name, name) {
			src = configured
			break
		}
	}

	if len(src.Columns) == 0 {
		src.Columns, err = ex.store.Columns(ctx, src.Name)
		if err != nil {
			err = &nt.DataError{Op: "list columns of " + src.Name, Err: err}
			return
		}
	}
	if len(src.Columns) == 0 {
		err = nt.Invalidf("unknown source %q", name)
		return
	}

	sess = NewSession(src)
	return
}

// ListConfigNames returns saved configuration names, most recent first.
func (ex *Extract) ListConfigNames(ctx context.Context) (names []string, err error) {

	names, err = ex.store.ListConfigNames(ctx)
	if err != nil {
		err = &nt.DataError{Op: "list configurations", Err: err}
		return
	}
	if names == nil {
		names = []string{}
	}
	return
}

// Config returns the most recent configuration saved under name.
func (ex *Extract) Config(ctx context.Context, name string) (cfg nt.Configuration, err error) {

	cfg, err = ex.store.GetConfig(ctx, name)
	if err != nil {
		err = &nt.DataError{Op: "get configuration " + name, Err: err}
	}
	return
}
