package validation

import "sync"

// InputType mirrors the type attribute of an input element.
type InputType string

const (
	TypeText     InputType = "text"
	TypeEmail    InputType = "email"
	TypePassword InputType = "password"
)

// Constraints are the native constraints declared on an input: its type plus
// the required, minlength, maxlength and pattern attributes.
type Constraints struct {
	Type      InputType
	Required  bool
	MinLength int
	MaxLength int
	// Pattern must match the whole value, like the HTML pattern attribute.
	Pattern string
}

// Input is a handle on one tracked input element.
type Input interface {
	ID() string
	Form() string
	Value() string
	Constraints() Constraints
}

// TextInput is an Input whose value is set by its owner (a prompt, a test).
// It is safe for concurrent use; the engine reads values from its re-check timer.
type TextInput struct {
	id          string
	form        string
	constraints Constraints

	mu    sync.RWMutex
	value string
}

// NewTextInput creates an input belonging to form with the given constraints.
func NewTextInput(id, form string, c Constraints) *TextInput {
	if c.Type == "" {
		c.Type = TypeText
	}
	return &TextInput{id: id, form: form, constraints: c}
}

func (t *TextInput) ID() string               { return t.id }
func (t *TextInput) Form() string             { return t.form }
func (t *TextInput) Constraints() Constraints { return t.constraints }

// Value returns the raw content of the input.
func (t *TextInput) Value() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.value
}

// SetValue replaces the raw content. Callers raise Engine.Input afterwards.
func (t *TextInput) SetValue(v string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.value = v
}
