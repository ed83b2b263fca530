package validation

import (
	"errors"
	"sort"
	"strings"
)

type FieldErrors map[FieldID]string

// Err returns nil when there is nothing to report.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return &Error{Fields: fe}
}

// Error is a user-correctable failure listing every offending field.
type Error struct {
	Fields FieldErrors
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

func AsError(err error) (*Error, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
