package account

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/nfrund/accountdesk/internal/apiclient"
	"github.com/nfrund/accountdesk/internal/validation"
)

// API is the remote account API.
type API interface {
	Login(ctx context.Context, req apiclient.LoginRequest) (*apiclient.LoginResponse, error)
	Register(ctx context.Context, req apiclient.RegisterRequest) error
	UpdatePassword(ctx context.Context, req apiclient.UpdatePasswordRequest) error
	Delete(ctx context.Context, req apiclient.DeleteRequest) error
}

// View receives the user-visible effects of the operations.
type View interface {
	// ShowLoggedIn reveals the logged-in screen with name as its name text.
	ShowLoggedIn(ctx context.Context, name string)
	// ShowLogin reveals the login screen and hides the logged-in screen.
	ShowLogin(ctx context.Context)
	// Notify shows a message to the user.
	Notify(ctx context.Context, n Notice)
}

// FormToucher forces feedback on every field of a form. The validation
// engine implements it.
type FormToucher interface {
	TouchForm(ctx context.Context, form string) []validation.FieldState
}

// Controller sequences the account operations against the API and owns the
// session. It is safe for concurrent use.
type Controller struct {
	api     API
	view    View
	fields  FormToucher
	session *Session
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[Operation]bool
}

// Option is a function that configures a Controller.
type Option func(*Controller)

// WithSession injects the session the controller owns.
func WithSession(s *Session) Option {
	return func(c *Controller) {
		c.session = s
	}
}

// WithFields sets the form toucher invoked before each form submission.
func WithFields(f FormToucher) Option {
	return func(c *Controller) {
		c.fields = f
	}
}

// WithLogger sets the controller's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// New creates a Controller. Without WithSession it starts with a fresh, empty session.
func New(api API, view View, opts ...Option) *Controller {
	c := &Controller{
		api:     api,
		view:    view,
		logger:  slog.Default(),
		pending: make(map[Operation]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.session == nil {
		c.session = NewSession()
	}
	return c
}

// Session exposes the session for reading.
func (c *Controller) Session() *Session {
	return c.session
}

// Do runs the operation described by r and waits for its outcome.
func (c *Controller) Do(ctx context.Context, r Request) error {
	switch r.Op {
	case OpLogin:
		return c.Login(ctx, r.Email, r.Password)
	case OpRegister:
		return c.Register(ctx, r.Email, r.Password, r.Username)
	case OpUpdatePassword:
		return c.UpdatePassword(ctx, r.NewPassword)
	case OpDelete:
		return c.DeleteAccount(ctx)
	default:
		return fmt.Errorf("unknown operation %q", r.Op)
	}
}

// Submit starts the operation and returns immediately. The channel yields
// the operation's error (nil on success) once it resolves.
func (c *Controller) Submit(ctx context.Context, r Request) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- c.Do(ctx, r)
	}()
	return done
}

// Login authenticates email and, on success, starts the session and reveals
// the logged-in screen. On failure the session is left as it was.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	c.touch(ctx, OpLogin)
	log, ok := c.begin(ctx, OpLogin)
	if !ok {
		return ErrOperationPending
	}
	defer c.end(OpLogin)

	resp, err := c.api.Login(ctx, apiclient.LoginRequest{Email: email, Password: password})
	if err != nil {
		return c.fail(ctx, log, OpLogin, err)
	}

	c.session.set(email)
	name := resp.Data.Username + "!"
	c.view.ShowLoggedIn(ctx, name)
	c.view.Notify(ctx, Notice{Op: OpLogin, Level: LevelSuccess, Text: fmt.Sprintf(msgLoggedIn, name)})
	log.Info("Login succeeded", "email", email)
	return nil
}

// Register creates an account. It never starts a session.
func (c *Controller) Register(ctx context.Context, email, password, username string) error {
	c.touch(ctx, OpRegister)
	log, ok := c.begin(ctx, OpRegister)
	if !ok {
		return ErrOperationPending
	}
	defer c.end(OpRegister)

	err := c.api.Register(ctx, apiclient.RegisterRequest{Email: email, Password: password, Username: username})
	if err != nil {
		return c.fail(ctx, log, OpRegister, err)
	}

	c.view.Notify(ctx, Notice{Op: OpRegister, Level: LevelSuccess, Text: fmt.Sprintf(msgRegistered, username)})
	log.Info("Registration succeeded", "email", email)
	return nil
}

// UpdatePassword changes the password of the logged-in user, identified by
// the email captured at login. The session is unchanged whatever the outcome.
func (c *Controller) UpdatePassword(ctx context.Context, newPassword string) error {
	c.touch(ctx, OpUpdatePassword)
	email, ok := c.session.Email()
	if !ok {
		return c.refuseNoSession(ctx, OpUpdatePassword)
	}
	log, ok := c.begin(ctx, OpUpdatePassword)
	if !ok {
		return ErrOperationPending
	}
	defer c.end(OpUpdatePassword)

	err := c.api.UpdatePassword(ctx, apiclient.UpdatePasswordRequest{Email: email, NewPassword: newPassword})
	if err != nil {
		return c.fail(ctx, log, OpUpdatePassword, err)
	}

	c.view.Notify(ctx, Notice{Op: OpUpdatePassword, Level: LevelSuccess, Text: msgPasswordUpdated})
	log.Info("Password updated", "email", email)
	return nil
}

// DeleteAccount deletes the logged-in user's account. Without a session it
// is refused locally and nothing is sent. On success the session ends and the
// login screen is shown; on failure the session is kept.
func (c *Controller) DeleteAccount(ctx context.Context) error {
	email, ok := c.session.Email()
	if !ok {
		return c.refuseNoSession(ctx, OpDelete)
	}
	log, ok := c.begin(ctx, OpDelete)
	if !ok {
		return ErrOperationPending
	}
	defer c.end(OpDelete)

	if err := c.api.Delete(ctx, apiclient.DeleteRequest{Email: email}); err != nil {
		return c.fail(ctx, log, OpDelete, err)
	}

	if c.session.clearIf(email) {
		c.view.ShowLogin(ctx)
	} else {
		log.Warn("Session changed while delete was in flight, keeping it", "email", email)
	}
	c.view.Notify(ctx, Notice{Op: OpDelete, Level: LevelSuccess, Text: msgDeleted})
	log.Info("Account deleted", "email", email)
	return nil
}

func (c *Controller) touch(ctx context.Context, op Operation) {
	if c.fields == nil || op.Form() == "" {
		return
	}
	c.fields.TouchForm(ctx, op.Form())
}

// begin marks op as in flight. It refuses, with a notice, when the previous
// invocation of op has not resolved yet.
func (c *Controller) begin(ctx context.Context, op Operation) (*slog.Logger, bool) {
	c.mu.Lock()
	busy := c.pending[op]
	if !busy {
		c.pending[op] = true
	}
	c.mu.Unlock()

	if busy {
		c.logger.Debug("Refusing overlapping invocation", "op", op)
		c.view.Notify(ctx, Notice{Op: op, Level: LevelInfo, Text: fmt.Sprintf(msgPending, op.Title())})
		return nil, false
	}
	return c.logger.With("op", op, "op_id", uuid.NewString()), true
}

func (c *Controller) end(op Operation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, op)
}

func (c *Controller) refuseNoSession(ctx context.Context, op Operation) error {
	c.logger.Debug("Refusing operation without session", "op", op)
	c.view.Notify(ctx, Notice{Op: op, Level: LevelError, Text: msgNoSession})
	return ErrNoSession
}

// fail surfaces err to the user and returns it wrapped with the operation name.
func (c *Controller) fail(ctx context.Context, log *slog.Logger, op Operation, err error) error {
	log.Warn("Operation failed", "error", err)
	c.view.Notify(ctx, Notice{Op: op, Level: LevelError, Text: failureText(op, err)})
	return fmt.Errorf("%s: %w", op, err)
}
