package entity

import (
	"fmt"
)

// ValidationError is returned for input rejected before anything is executed.
type ValidationError struct {
	Msg string
}

func (ve *ValidationError) Error() string {
	return "invalid: " + ve.Msg
}

// Invalidf formats a ValidationError.
func Invalidf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// CompileError reports sql that cannot be produced, such as ddl for an unknown dialect.
type CompileError struct {
	Msg string
}

func (ce *CompileError) Error() string {
	return "compile: " + ce.Msg
}

// DataError wraps a failure reported by the data store.
type DataError struct {
	Op  string
	Err error
}

func (de *DataError) Error() string {
	return fmt.Sprintf("data store failed to %s: %v", de.Op, de.Err)
}

func (de *DataError) Unwrap() error {
	return de.Err
}

// PartialSaveError reports a view that was published without its configuration record.
type PartialSaveError struct {
	View string
	Name string
	Err  error
}

func (pe *PartialSaveError) Error() string {
	return fmt.Sprintf("view %s created but configuration %q not saved: %v", pe.View, pe.Name, pe.Err)
}

func (pe *PartialSaveError) Unwrap() error {
	return pe.Err
}
