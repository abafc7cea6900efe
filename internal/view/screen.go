package view

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nfrund/accountdesk/internal/account"
	"github.com/nfrund/accountdesk/internal/pubsub"
)

// Name identifies one of the two screens.
type Name string

const (
	ScreenLogin    Name = "login"
	ScreenLoggedIn Name = "logged-in"
)

// ScreenChange is published whenever the visible screen or name text changes.
type ScreenChange struct {
	Visible  Name   `json:"visible"`
	NameText string `json:"name_text"`
}

var (
	// TopicScreenChanged carries ScreenChange events.
	TopicScreenChanged = pubsub.NewEvent[ScreenChange]("screen.changed", "The visible screen or the name text changed")
	// TopicNoticePosted carries every notice shown to the user.
	TopicNoticePosted = pubsub.NewEvent[account.Notice]("notice.posted", "A message was shown to the user")
)

// Screen is the view model of the client: which screen is visible, the name
// text of the logged-in screen and the notices shown so far. It implements
// account.View.
type Screen struct {
	mu       sync.Mutex
	visible  Name
	nameText string
	flashes  []account.Notice
	history  []account.Notice

	publisher pubsub.Publisher
	logger    *slog.Logger
}

// NewScreen starts on the login screen. publisher may be nil.
func NewScreen(publisher pubsub.Publisher, logger *slog.Logger) *Screen {
	if logger == nil {
		logger = slog.Default()
	}
	return &Screen{
		visible:   ScreenLogin,
		publisher: publisher,
		logger:    logger,
	}
}

// ShowLoggedIn hides the login screen, reveals the logged-in one and sets its name text.
func (s *Screen) ShowLoggedIn(ctx context.Context, name string) {
	s.mu.Lock()
	s.visible = ScreenLoggedIn
	s.nameText = name
	change := ScreenChange{Visible: s.visible, NameText: s.nameText}
	s.mu.Unlock()

	s.publishScreen(ctx, change)
}

// ShowLogin hides the logged-in screen and reveals the login screen. The name
// text keeps its last value, as a hidden text node would.
func (s *Screen) ShowLogin(ctx context.Context) {
	s.mu.Lock()
	s.visible = ScreenLogin
	change := ScreenChange{Visible: s.visible, NameText: s.nameText}
	s.mu.Unlock()

	s.publishScreen(ctx, change)
}

// Notify records a notice as a pending flash and publishes it.
func (s *Screen) Notify(ctx context.Context, n account.Notice) {
	s.mu.Lock()
	s.flashes = append(s.flashes, n)
	s.history = append(s.history, n)
	s.mu.Unlock()

	if s.publisher == nil {
		return
	}
	if err := pubsub.Publish(ctx, s.publisher, "view", TopicNoticePosted, n); err != nil {
		s.logger.Warn("Failed to publish notice", "op", n.Op, "error", err)
	}
}

// Visible returns the screen currently shown.
func (s *Screen) Visible() Name {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// IsVisible reports whether screen is the one shown.
func (s *Screen) IsVisible(screen Name) bool {
	return s.Visible() == screen
}

// NameText returns the text shown on the logged-in screen.
func (s *Screen) NameText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nameText
}

// History returns every notice shown so far, oldest first.
func (s *Screen) History() []account.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]account.Notice(nil), s.history...)
}

func (s *Screen) publishScreen(ctx context.Context, change ScreenChange) {
	if s.publisher == nil {
		return
	}
	if err := pubsub.Publish(ctx, s.publisher, "view", TopicScreenChanged, change); err != nil {
		s.logger.Warn("Failed to publish screen change", "visible", change.Visible, "error", err)
	}
}
