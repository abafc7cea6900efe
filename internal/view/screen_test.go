package view_test

import (
	"context"
	"sync"
	"testing"

	"github.com/nfrund/accountdesk/internal/account"
	"github.com/nfrund/accountdesk/internal/pubsub"
	"github.com/nfrund/accountdesk/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreen_Toggle(t *testing.T) {
	ctx := context.Background()
	screen := view.NewScreen(nil, nil)

	assert.True(t, screen.IsVisible(view.ScreenLogin), "starts on the login screen")

	screen.ShowLoggedIn(ctx, "alice!")
	assert.Equal(t, view.ScreenLoggedIn, screen.Visible())
	assert.False(t, screen.IsVisible(view.ScreenLogin))
	assert.Equal(t, "alice!", screen.NameText())

	screen.ShowLogin(ctx)
	assert.Equal(t, view.ScreenLogin, screen.Visible())
}

func TestScreen_FlashMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("Set and Get flashes", func(t *testing.T) {
		screen := view.NewScreen(nil, nil)
		screen.Notify(ctx, account.Notice{Op: account.OpRegister, Level: account.LevelSuccess, Text: "It worked!"})
		screen.Notify(ctx, account.Notice{Op: account.OpDelete, Level: account.LevelError, Text: "It failed!"})

		flashes := screen.GetFlashData()
		assert.Equal(t, []string{"It worked!"}, flashes.Success)
		assert.Equal(t, []string{"It failed!"}, flashes.Error)
		assert.Empty(t, flashes.Info)

		// Get flashes again to ensure they are cleared
		assert.True(t, screen.GetFlashData().Empty(), "Flashes should be cleared after being read")
		assert.Len(t, screen.History(), 2, "history is kept")
	})

	t.Run("no flashes set", func(t *testing.T) {
		screen := view.NewScreen(nil, nil)
		assert.True(t, screen.GetFlashData().Empty())
	})
}

func TestScreen_PublishesChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := pubsub.NewWatermillBridge(pubsub.WithBlockingPublish())
	defer bus.Close()

	var mu sync.Mutex
	var changes []view.ScreenChange
	var notices []account.Notice
	require.NoError(t, pubsub.Subscribe(ctx, bus, view.TopicScreenChanged, func(ctx context.Context, c view.ScreenChange) error {
		mu.Lock()
		defer mu.Unlock()
		changes = append(changes, c)
		return nil
	}))
	require.NoError(t, pubsub.Subscribe(ctx, bus, view.TopicNoticePosted, func(ctx context.Context, n account.Notice) error {
		mu.Lock()
		defer mu.Unlock()
		notices = append(notices, n)
		return nil
	}))

	screen := view.NewScreen(bus, nil)
	screen.ShowLoggedIn(ctx, "alice!")
	screen.Notify(ctx, account.Notice{Op: account.OpLogin, Level: account.LevelSuccess, Text: "Welcome back, alice!"})
	screen.ShowLogin(ctx)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []view.ScreenChange{
		{Visible: view.ScreenLoggedIn, NameText: "alice!"},
		{Visible: view.ScreenLogin, NameText: "alice!"},
	}, changes)
	require.Len(t, notices, 1)
	assert.Equal(t, "Welcome back, alice!", notices[0].Text)
}

// Screen must satisfy the controller's view contract.
var _ account.View = (*view.Screen)(nil)
