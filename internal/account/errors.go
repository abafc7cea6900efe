package account

import "errors"

// Local precondition failures. Neither performs a network call.
var (
	// ErrNoSession is returned when an operation needs a logged-in user and there is none.
	ErrNoSession = errors.New("no user is logged in")

	// ErrOperationPending is returned when an operation is invoked again before
	// its previous invocation resolved.
	ErrOperationPending = errors.New("operation already in progress")
)
