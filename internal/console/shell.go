package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/nfrund/accountdesk/internal/account"
	"github.com/nfrund/accountdesk/internal/pubsub"
	"github.com/nfrund/accountdesk/internal/validation"
	"github.com/nfrund/accountdesk/internal/view"
)

const helpText = `Commands:
  login     log in with email and password
  register  create an account
  passwd    change the password of the logged-in user
  delete    delete the logged-in user's account
  status    show the current screen and session
  fields    show the state of every form field
  help      show this help
  quit      leave the shell
`

// Shell is an interactive front end over the controller. Field input goes
// through the validation engine; notices and screen changes arrive on the
// bus and are printed by the subscriber installed with Attach.
type Shell struct {
	controller *account.Controller
	engine     *validation.Engine
	forms      *Forms
	screen     *view.Screen
	logger     *slog.Logger

	mu  sync.Mutex
	out io.Writer
}

// NewShell creates a shell writing to out.
func NewShell(controller *account.Controller, engine *validation.Engine, forms *Forms, screen *view.Screen, out io.Writer, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.Default()
	}
	return &Shell{
		controller: controller,
		engine:     engine,
		forms:      forms,
		screen:     screen,
		logger:     logger,
		out:        out,
	}
}

// Attach subscribes the shell's printers to notices and screen changes.
func (s *Shell) Attach(ctx context.Context, sub pubsub.Subscriber) error {
	if err := pubsub.Subscribe(ctx, sub, view.TopicNoticePosted, func(ctx context.Context, n account.Notice) error {
		s.printf("[%s] %s\n", n.Level, n.Text)
		return nil
	}); err != nil {
		return fmt.Errorf("subscribing to notices: %w", err)
	}
	if err := pubsub.Subscribe(ctx, sub, view.TopicScreenChanged, func(ctx context.Context, c view.ScreenChange) error {
		s.printf("%s\n", screenLine(c))
		return nil
	}); err != nil {
		return fmt.Errorf("subscribing to screen changes: %w", err)
	}
	if err := pubsub.Subscribe(ctx, sub, validation.TopicFieldState, func(ctx context.Context, fs validation.FieldState) error {
		s.logger.Debug("Field state changed", "field", fs.ID, "state", fs.Classification, "touched", fs.Touched)
		return nil
	}); err != nil {
		return fmt.Errorf("subscribing to field states: %w", err)
	}
	return nil
}

func screenLine(c view.ScreenChange) string {
	if c.Visible == view.ScreenLoggedIn {
		return "-- logged in: " + c.NameText + " --"
	}
	return "-- login --"
}

// Run reads commands from in until quit, end of input or ctx is done. A read
// blocked on in does not hold Run back once ctx is done.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	lines := newLineReader(in)
	defer lines.close()
	s.printf("Type 'help' for a list of commands.\n")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.printf("> ")
		line, err := lines.next(ctx)
		if errors.Is(err, io.EOF) {
			s.printf("\n")
			return nil
		}
		if err != nil {
			return err
		}

		switch cmd := strings.ToLower(strings.TrimSpace(line)); cmd {
		case "":
			continue
		case "login":
			err = s.submitForm(ctx, lines, account.OpLogin)
		case "register":
			err = s.submitForm(ctx, lines, account.OpRegister)
		case "passwd":
			if !s.controller.Session().Present() {
				// Refused before anything is prompted.
				err = s.controller.UpdatePassword(ctx, "")
				break
			}
			err = s.submitForm(ctx, lines, account.OpUpdatePassword)
		case "delete":
			err = s.controller.DeleteAccount(ctx)
		case "status":
			s.status()
		case "fields":
			s.fields()
		case "help":
			s.printf("%s", helpText)
		case "quit", "exit":
			return nil
		default:
			s.printf("unknown command %q, type 'help'\n", cmd)
		}

		if errors.Is(err, io.EOF) {
			s.printf("\n")
			return nil
		}
		if err != nil {
			// The controller has already shown a notice for it.
			s.logger.Debug("Command failed", "command", line, "error", err)
		}
	}
}

// submitForm prompts every field of op's form and then runs op.
func (s *Shell) submitForm(ctx context.Context, lines *lineReader, op account.Operation) error {
	for _, def := range s.forms.Form(op.Form()) {
		s.printf("%s: ", def.Label)
		value, err := lines.next(ctx)
		if err != nil {
			return err
		}
		s.forms.Input(def.ID).SetValue(value)
		s.engine.Input(ctx, def.ID)
		state, _ := s.engine.Blur(ctx, def.ID)
		if mark := Indicator(state); mark != "" {
			s.printf("  %s %s\n", mark, def.Label)
		}
	}

	return s.controller.Do(ctx, account.Request{
		Op:          op,
		Email:       s.forms.Value(emailField(op)),
		Password:    s.forms.Value(passwordField(op)),
		Username:    s.forms.Value(FieldRegisterUsername),
		NewPassword: s.forms.Value(FieldUpdatePassword),
	})
}

func emailField(op account.Operation) string {
	if op == account.OpRegister {
		return FieldRegisterEmail
	}
	return FieldLoginEmail
}

func passwordField(op account.Operation) string {
	if op == account.OpRegister {
		return FieldRegisterPassword
	}
	return FieldLoginPassword
}

func (s *Shell) status() {
	email, ok := s.controller.Session().Email()
	if !ok {
		email = "(none)"
	}
	s.printf("screen: %s\nuser:   %s\n", s.screen.Visible(), email)
	if s.screen.IsVisible(view.ScreenLoggedIn) {
		s.printf("name:   %s\n", s.screen.NameText())
	}
}

func (s *Shell) fields() {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tFORM\tSTATE\tTOUCHED")
	for _, st := range s.engine.States() {
		touched := "no"
		if st.Touched {
			touched = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", st.ID, st.Form, st.Classification, touched)
	}
	w.Flush()
}

func (s *Shell) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

// lineReader scans in on its own goroutine so a caller waiting for a line can
// give up when its context is done. The goroutine exits at end of input or
// once close is called and its pending read returns.
type lineReader struct {
	lines chan string
	done  chan struct{}
	stop  chan struct{}
	err   error
}

func newLineReader(in io.Reader) *lineReader {
	r := &lineReader{lines: make(chan string), done: make(chan struct{}), stop: make(chan struct{})}
	go func() {
		defer close(r.done)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case r.lines <- strings.TrimRight(scanner.Text(), "\r"):
			case <-r.stop:
				return
			}
		}
		r.err = scanner.Err()
	}()
	return r
}

func (r *lineReader) close() {
	close(r.stop)
}

// next returns the next line, io.EOF at end of input, the scanner's error,
// or ctx.Err() if ctx is done first.
func (r *lineReader) next(ctx context.Context) (string, error) {
	select {
	case line := <-r.lines:
		return line, nil
	case <-r.done:
		if r.err != nil {
			return "", r.err
		}
		return "", io.EOF
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
