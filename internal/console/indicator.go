package console

import "github.com/nfrund/accountdesk/internal/validation"

// Indicator marks.
const (
	MarkValid   = "✓"
	MarkInvalid = "✗"
)

// Indicator returns the mark shown next to a field. Nothing is shown until
// the field is touched, and nothing for an empty field.
func Indicator(s validation.FieldState) string {
	if !s.Touched {
		return ""
	}
	switch s.Classification {
	case validation.Valid:
		return MarkValid
	case validation.Invalid:
		return MarkInvalid
	default:
		return ""
	}
}
