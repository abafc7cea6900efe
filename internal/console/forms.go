package console

import (
	"github.com/nfrund/accountdesk/internal/account"
	"github.com/nfrund/accountdesk/internal/validation"
)

// Field IDs of the tracked inputs.
const (
	FieldLoginEmail       = "login-email"
	FieldLoginPassword    = "login-password"
	FieldRegisterEmail    = "register-email"
	FieldRegisterPassword = "register-password"
	FieldRegisterUsername = "register-username"
	FieldUpdatePassword   = "update-password"
)

// FieldDef declares one input of a form.
type FieldDef struct {
	ID          string
	Form        string
	Label       string
	Constraints validation.Constraints
}

// Definitions lists every input in prompt order.
var Definitions = []FieldDef{
	{FieldLoginEmail, account.FormLogin, "email",
		validation.Constraints{Type: validation.TypeEmail, Required: true}},
	{FieldLoginPassword, account.FormLogin, "password",
		validation.Constraints{Type: validation.TypePassword, Required: true}},
	{FieldRegisterEmail, account.FormRegister, "email",
		validation.Constraints{Type: validation.TypeEmail, Required: true}},
	{FieldRegisterPassword, account.FormRegister, "password",
		validation.Constraints{Type: validation.TypePassword, Required: true, MinLength: 8}},
	{FieldRegisterUsername, account.FormRegister, "username",
		validation.Constraints{Type: validation.TypeText, Required: true, MinLength: 2}},
	{FieldUpdatePassword, account.FormUpdatePassword, "new password",
		validation.Constraints{Type: validation.TypePassword, Required: true, MinLength: 8}},
}

// Forms owns the input handles the engine observes.
type Forms struct {
	defs   []FieldDef
	inputs map[string]*validation.TextInput
}

// NewForms creates one TextInput per definition.
func NewForms() *Forms {
	f := &Forms{
		defs:   Definitions,
		inputs: make(map[string]*validation.TextInput, len(Definitions)),
	}
	for _, d := range f.defs {
		f.inputs[d.ID] = validation.NewTextInput(d.ID, d.Form, d.Constraints)
	}
	return f
}

// Inputs returns the handles in definition order, ready for validation.NewEngine.
func (f *Forms) Inputs() []validation.Input {
	out := make([]validation.Input, 0, len(f.defs))
	for _, d := range f.defs {
		out = append(out, f.inputs[d.ID])
	}
	return out
}

// Input returns the handle for id, or nil.
func (f *Forms) Input(id string) *validation.TextInput {
	return f.inputs[id]
}

// Form returns the definitions of one form group in prompt order.
func (f *Forms) Form(name string) []FieldDef {
	var out []FieldDef
	for _, d := range f.defs {
		if d.Form == name {
			out = append(out, d)
		}
	}
	return out
}

// Value is a shorthand for the current value of id.
func (f *Forms) Value(id string) string {
	if in := f.inputs[id]; in != nil {
		return in.Value()
	}
	return ""
}
