package validation

import (
	"context"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/nfrund/accountdesk/internal/pubsub"
)

// DefaultRecheckDelay is how long after Start the engine re-reads every field
// to pick up values filled in late by autofill.
const DefaultRecheckDelay = 80 * time.Millisecond

type field struct {
	input Input
	state FieldState
}

// Engine tracks a FieldState for every input it was constructed with.
// It never fails: malformed inputs are skipped and unknown IDs are ignored.
type Engine struct {
	mu     sync.Mutex
	fields map[string]*field
	order  []string
	forms  map[string][]string

	checker      *Checker
	publisher    pubsub.Publisher
	logger       *slog.Logger
	recheckDelay time.Duration
	recheck      *time.Timer
}

// Option is a function that configures an Engine.
type Option func(*Engine)

// WithPublisher publishes every state change on TopicFieldState.
func WithPublisher(p pubsub.Publisher) Option {
	return func(e *Engine) {
		e.publisher = p
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithRecheckDelay overrides DefaultRecheckDelay. Zero disables the deferred re-check.
func WithRecheckDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.recheckDelay = d
	}
}

// WithChecker shares a Checker between engines.
func WithChecker(c *Checker) Option {
	return func(e *Engine) {
		e.checker = c
	}
}

// NewEngine creates an engine over inputs. Inputs that are nil or have no ID
// are skipped; for duplicate IDs the first input wins.
func NewEngine(inputs []Input, opts ...Option) *Engine {
	e := &Engine{
		fields:       make(map[string]*field),
		forms:        make(map[string][]string),
		logger:       slog.Default(),
		recheckDelay: DefaultRecheckDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.checker == nil {
		e.checker = NewChecker()
	}

	for _, in := range inputs {
		if isNil(in) || in.ID() == "" {
			e.logger.Debug("Skipping malformed input")
			continue
		}
		id := in.ID()
		if _, dup := e.fields[id]; dup {
			e.logger.Debug("Skipping duplicate input", "field", id)
			continue
		}
		e.fields[id] = &field{
			input: in,
			state: FieldState{ID: id, Form: in.Form(), Classification: Empty},
		}
		e.order = append(e.order, id)
		if form := in.Form(); form != "" {
			e.forms[form] = append(e.forms[form], id)
		}
	}
	return e
}

// Start classifies every field without touching it and schedules the
// deferred autofill re-check.
func (e *Engine) Start(ctx context.Context) {
	e.publish(ctx, e.refreshAll())

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.recheck != nil {
		e.recheck.Stop()
	}
	if e.recheckDelay > 0 {
		e.recheck = time.AfterFunc(e.recheckDelay, func() {
			e.publish(context.WithoutCancel(ctx), e.refreshAll())
		})
	}
}

// Stop cancels a pending deferred re-check.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.recheck != nil {
		e.recheck.Stop()
		e.recheck = nil
	}
}

// Input handles a content change: the field is reclassified, touched is left alone.
func (e *Engine) Input(ctx context.Context, id string) (FieldState, bool) {
	return e.update(ctx, id, false)
}

// Blur marks the field touched and reclassifies it.
func (e *Engine) Blur(ctx context.Context, id string) (FieldState, bool) {
	return e.update(ctx, id, true)
}

// TouchForm forces touched on every field of form and reclassifies them, so a
// user who never focused a field still sees feedback on submit.
func (e *Engine) TouchForm(ctx context.Context, form string) []FieldState {
	e.mu.Lock()
	var states, changed []FieldState
	for _, id := range e.forms[form] {
		f := e.fields[id]
		if e.refresh(f, true) {
			changed = append(changed, f.state)
		}
		states = append(states, f.state)
	}
	e.mu.Unlock()

	e.publish(ctx, changed)
	return states
}

// State returns the current state of a field.
func (e *Engine) State(id string) (FieldState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f, ok := e.fields[id]
	if !ok {
		return FieldState{}, false
	}
	return f.state, true
}

// States returns every field state in construction order.
func (e *Engine) States() []FieldState {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]FieldState, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.fields[id].state)
	}
	return out
}

// FormFields returns the field IDs of form in construction order.
func (e *Engine) FormFields(form string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.forms[form]...)
}

func (e *Engine) update(ctx context.Context, id string, touch bool) (FieldState, bool) {
	e.mu.Lock()
	f, ok := e.fields[id]
	if !ok {
		e.mu.Unlock()
		return FieldState{}, false
	}
	changed := e.refresh(f, touch)
	state := f.state
	e.mu.Unlock()

	if changed {
		e.publish(ctx, []FieldState{state})
	}
	return state, true
}

// isNil reports whether in is nil, including a typed nil such as (*TextInput)(nil).
func isNil(in Input) bool {
	if in == nil {
		return true
	}
	v := reflect.ValueOf(in)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func (e *Engine) refreshAll() []FieldState {
	e.mu.Lock()
	defer e.mu.Unlock()
	var changed []FieldState
	for _, id := range e.order {
		f := e.fields[id]
		if e.refresh(f, false) {
			changed = append(changed, f.state)
		}
	}
	return changed
}

// refresh recomputes f under e.mu and reports whether its state changed.
// touched only ever moves from false to true.
func (e *Engine) refresh(f *field, touch bool) bool {
	before := f.state
	if touch {
		f.state.Touched = true
	}
	f.state.Classification = e.classify(f.input)
	return f.state != before
}

func (e *Engine) classify(in Input) Classification {
	value := in.Value()
	if strings.TrimSpace(value) == "" {
		return Empty
	}
	if e.checker.Check(value, in.Constraints()) {
		return Valid
	}
	return Invalid
}

func (e *Engine) publish(ctx context.Context, states []FieldState) {
	if e.publisher == nil {
		return
	}
	for _, s := range states {
		if err := pubsub.Publish(ctx, e.publisher, "validation", TopicFieldState, s); err != nil {
			e.logger.Warn("Failed to publish field state", "field", s.ID, "error", err)
		}
	}
}
