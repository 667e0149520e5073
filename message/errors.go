package message

import "fmt"

// MalformedMessageError reports a content fragment that cannot be parsed
// into a normalized message: unmatched inline-tag nesting, or ICU syntax
// that is structurally unparsable.
type MalformedMessageError struct {
	Fragment string
	Reason   string
}

// Error implements the error interface.
func (e *MalformedMessageError) Error() string {
	return fmt.Sprintf("malformed message %q: %s", e.Fragment, e.Reason)
}

// PlaceholderMismatchError reports translator input whose placeholder set
// differs from the message being translated. A partial placeholder loss
// would silently corrupt the serialized target, so it is rejected rather
// than repaired.
type PlaceholderMismatchError struct {
	Reason string
}

// Error implements the error interface.
func (e *PlaceholderMismatchError) Error() string {
	return fmt.Sprintf("placeholder mismatch: %s", e.Reason)
}

func malformed(fragment, format string, args ...interface{}) error {
	return &MalformedMessageError{Fragment: fragment, Reason: fmt.Sprintf(format, args...)}
}

func mismatch(format string, args ...interface{}) error {
	return &PlaceholderMismatchError{Reason: fmt.Sprintf(format, args...)}
}
