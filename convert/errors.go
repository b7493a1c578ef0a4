package convert

import (
	"errors"
	"fmt"
)

// Sentinel errors for conversion requests.
var (
	ErrEmptyText       = errors.New("no text provided")
	ErrTextTooLong     = errors.New("text exceeds character limit")
	ErrInvalidOption   = errors.New("invalid option")
	ErrUnknownTemplate = errors.New("unknown template")
	ErrRender          = errors.New("PDF rendering failed")
)

// OptionError describes one rejected option field.
type OptionError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidOption.
func (e *OptionError) Unwrap() error { return ErrInvalidOption }

func optionErr(field, format string, args ...any) error {
	return &OptionError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// OptionErrors flattens err into its per-field OptionError values.
func OptionErrors(err error) []*OptionError {
	var out []*OptionError
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if oe, ok := e.(*OptionError); ok {
			out = append(out, oe)
			return
		}
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				walk(inner)
			}
			return
		}
		walk(errors.Unwrap(e))
	}
	walk(err)
	return out
}
