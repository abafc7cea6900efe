package account

// Operation names one of the four account operations.
type Operation string

const (
	OpLogin          Operation = "login"
	OpRegister       Operation = "register"
	OpUpdatePassword Operation = "update-password"
	OpDelete         Operation = "delete"
)

// Form names of the form groups touched on submit.
const (
	FormLogin          = "login"
	FormRegister       = "register"
	FormUpdatePassword = "update-password"
)

// Title is the operation's name as used in notices.
func (o Operation) Title() string {
	switch o {
	case OpLogin:
		return "Login"
	case OpRegister:
		return "Registration"
	case OpUpdatePassword:
		return "Password update"
	case OpDelete:
		return "Account deletion"
	default:
		return string(o)
	}
}

// Form returns the form group submitted by the operation, or "" when the
// operation has no form (delete is a bare button).
func (o Operation) Form() string {
	switch o {
	case OpLogin:
		return FormLogin
	case OpRegister:
		return FormRegister
	case OpUpdatePassword:
		return FormUpdatePassword
	default:
		return ""
	}
}

// Request carries the arguments of one operation for Do and Submit.
// Fields an operation does not use are ignored.
type Request struct {
	Op          Operation
	Email       string
	Password    string
	Username    string
	NewPassword string
}
