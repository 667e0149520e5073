package transfile

import "fmt"

// FormatError reports a document that cannot be constructed because the
// dialect's required root/marker element is absent or appears more than
// once. Fatal to document construction.
type FormatError struct {
	Filename string
	Reason   string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("file %q is no valid document: %s", e.Filename, e.Reason)
}

// InvalidMasterError reports master content that cannot be parsed as the
// expected companion dialect. Fatal to AttachMaster only; the primary
// document remains usable without source/state derivation.
type InvalidMasterError struct {
	Filename string
	Reason   string
}

// Error implements the error interface.
func (e *InvalidMasterError) Error() string {
	return fmt.Sprintf("invalid master file %q: %s", e.Filename, e.Reason)
}

// DuplicateIDError reports an import whose unit id is already present.
type DuplicateIDError struct {
	ID       string
	Filename string
}

// Error implements the error interface.
func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("cannot import trans unit %q into %q, the id is already used", e.ID, e.Filename)
}

// UnsupportedOperationError reports an operation that is not meaningful for
// a dialect, e.g. spawning a target-language file from a translation-only
// document. Always surfaced, never silently ignored.
type UnsupportedOperationError struct {
	Operation string
	Format    string
	Reason    string
}

// Error implements the error interface.
func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s is not supported by %s files: %s", e.Operation, e.Format, e.Reason)
}
