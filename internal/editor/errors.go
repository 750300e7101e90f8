package editor

import (
	"fmt"

	"github.com/uridolan77/reportaing-admin/internal/jsonval"
)

const msgInvalidJSON = "Invalid JSON format"

// TypeConstraintError reports a draft whose parsed shape violates the
// field's capability flags (arrays or objects not allowed). It blocks Save
// but never discards the draft.
type TypeConstraintError struct {
	Kind jsonval.Kind
}

func (e *TypeConstraintError) Error() string {
	return fmt.Sprintf("value kind %s is not allowed for this field", e.Kind)
}

// MessageFor maps a validation error to its user-facing display text.
func MessageFor(err error) string {
	return messageFor(err)
}

// Message returns the user-facing validation text.
func (e *TypeConstraintError) Message() string {
	switch e.Kind {
	case jsonval.KindArray:
		return "Arrays are not allowed for this field"
	case jsonval.KindObject:
		return "Objects are not allowed for this field"
	default:
		return "This value type is not allowed for this field"
	}
}
