package validation

import "github.com/nfrund/accountdesk/internal/pubsub"

// Classification is the three-way content verdict of a field.
type Classification string

const (
	Empty   Classification = "empty"
	Valid   Classification = "valid"
	Invalid Classification = "invalid"
)

// Data attribute names consumed by presentation.
const (
	AttrState   = "data-state"
	AttrTouched = "data-touched"
)

// FieldState is the observable state of one field. Classification and
// Touched are independent: presentation decides what to show from both.
type FieldState struct {
	ID             string         `json:"id"`
	Form           string         `json:"form"`
	Classification Classification `json:"classification"`
	Touched        bool           `json:"touched"`
}

// Attributes returns the state as the two data attributes. data-touched is
// only present once the field has been touched.
func (s FieldState) Attributes() map[string]string {
	attrs := map[string]string{AttrState: string(s.Classification)}
	if s.Touched {
		attrs[AttrTouched] = "1"
	}
	return attrs
}

// TopicFieldState carries every FieldState change.
var TopicFieldState = pubsub.NewEvent[FieldState]("field.state", "A tracked input changed classification or touched flag")
