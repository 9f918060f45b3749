package extract

import (
	"context"

	"github.com/pkg/errors"

	"extract/compile"
	nt "extract/entity"
)

// PreviewSource returns the first rows of a source, unfiltered.
func (ex *Extract) PreviewSource(ctx context.Context, source string) (result nt.Result, err error) {

	result, err = ex.store.Query(ctx, compile.SourceSample(source, ex.limit))
	if err != nil {
		err = &nt.DataError{Op: "preview " + source, Err: err}
	}
	return
}

// Preview compiles the session and runs it, returning up to the preview limit of rows.
// On success the session remembers the sql, making it available to Save.
func (ex *Extract) Preview(ctx context.Context, sess *Session) (result nt.Result, err error) {

	sql, err := sess.Compile()
	if err != nil {
		return
	}

	result, err = ex.store.Query(ctx, compile.Limit(sql, ex.limit))
	if err != nil {
		err = &nt.DataError{Op: "preview", Err: err}
		ex.logger.Error(ctx, "preview failed", err, "source", sess.Source.Name)
		return
	}

	sess.previewed(sql)
	ex.logger.Info(ctx, "previewed", "source", sess.Source.Name, "rows", len(result.Rows))
	return
}

// Save publishes the previewed sql as a view and records the configuration.
//
// A view is never published without previewed sql, and a record is never inserted when
// publishing fails. When the record insert fails after the view is published, the error
// is a PartialSaveError and the view is left in place.
func (ex *Extract) Save(ctx context.Context, sess *Session, naming Naming) (cfg nt.Configuration, err error) {

	sql := sess.SQL()
	if sql == "" {
		err = nt.Invalidf("preview the sql before saving")
		return
	}

	now := ex.now()
	name, err := ConfigName(naming, now)
	if err != nil {
		return
	}
	view := DeriveViewName(name)

	ex.warnExisting(ctx, name, view)

	err = ex.publisher.Publish(ctx, view, sql)
	if err != nil {
		var ve *nt.ValidationError
		var ce *nt.CompileError
		if !errors.As(err, &ve) && !errors.As(err, &ce) {
			err = &nt.DataError{Op: "publish view " + view, Err: err}
		}
		ex.logger.Error(ctx, "failed to publish view", err, "view", view)
		return
	}

	cfg = NewConfiguration(ex.newId(), name, sess, sql, now)

	err = ex.store.InsertConfig(ctx, cfg)
	if err != nil {
		err = &PartialSaveError{View: view, Name: name, Err: err}
		ex.logger.Error(ctx, "view published without configuration record", err, "view", view, "name", name)
		cfg = nt.Configuration{}
		return
	}

	ex.logger.Info(ctx, "saved configuration", "name", name, "view", view, "id", cfg.Id)
	return
}

// PartialSaveError is returned by Save when the view exists but its record does not.
type PartialSaveError = nt.PartialSaveError

// warnExisting logs when a save will replace a view saved by an earlier configuration.
func (ex *Extract) warnExisting(ctx context.Context, name, view string) {

	names, err := ex.store.ListConfigNames(ctx)
	if err != nil {
		ex.logger.Error(ctx, "failed to check for existing configuration", err, "name", name)
		return
	}

	for _, existing := range names {
		if DeriveViewName(existing) == view {
			ex.logger.Info(ctx, "replacing view of an earlier configuration", "view", view, "earlier", existing)
			return
		}
	}
}
