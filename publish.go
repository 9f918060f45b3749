package extract

import (
	"context"

	"github.com/pkg/errors"

	"extract/compile"
	nt "extract/entity"
)

// DDLExecer runs ddl in a known dialect.
type DDLExecer interface {
	Dialect() compile.Dialect
	ExecDDL(ctx context.Context, stmts ...string) (err error)
}

// Publisher materializes sql as a named view.
type Publisher struct {
	store DDLExecer
}

// NewPublisher creates a publisher over a store.
func NewPublisher(store DDLExecer) *Publisher {
	return &Publisher{store: store}
}

// Publish creates or replaces view with sql.
// Publishing again under the same name replaces the earlier definition.
func (pub *Publisher) Publish(ctx context.Context, view, sql string) (err error) {

	if view == "" {
		err = nt.Invalidf("empty view name")
		return
	}
	if sql == "" {
		err = nt.Invalidf("no sql for view %s", view)
		return
	}

	stmts, err := compile.ViewDDL(pub.store.Dialect(), view, sql)
	if err != nil {
		return
	}

	err = pub.store.ExecDDL(ctx, stmts...)
	err = errors.Wrapf(err, "failed to create view %s", view)
	return
}
