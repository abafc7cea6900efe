package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/nfrund/accountdesk/internal/account"
	"github.com/nfrund/accountdesk/internal/apiclient"
	"github.com/nfrund/accountdesk/internal/config"
	"github.com/nfrund/accountdesk/internal/console"
	"github.com/nfrund/accountdesk/internal/pubsub"
	"github.com/nfrund/accountdesk/internal/validation"
	"github.com/nfrund/accountdesk/internal/view"
)

// Dependencies holds the services the client is wired from. Zero fields are
// filled with defaults derived from the configuration.
type Dependencies struct {
	Config     config.Provider
	Out        io.Writer
	Logger     *slog.Logger
	HTTPClient *http.Client
	API        account.API
}

// App is the fully wired client.
type App struct {
	Bus        *pubsub.WatermillBridge
	Topics     *pubsub.Catalog
	Forms      *console.Forms
	Engine     *validation.Engine
	Screen     *view.Screen
	Controller *account.Controller
	Shell      *console.Shell
}

// New wires the client and subscribes the shell's printers. Call Close when done.
func New(ctx context.Context, deps Dependencies) (*App, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("app: config is required")
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.API == nil {
		opts := []apiclient.Option{
			apiclient.WithLogger(deps.Logger),
		}
		if deps.HTTPClient != nil {
			opts = append(opts, apiclient.WithHTTPClient(deps.HTTPClient))
		} else {
			opts = append(opts, apiclient.WithTimeout(deps.Config.GetRequestTimeout()))
		}
		deps.API = apiclient.New(deps.Config.GetAPIBaseURL(), opts...)
	}

	// Blocking publish keeps printed output in call order.
	bus := pubsub.NewWatermillBridge(pubsub.WithBlockingPublish())

	forms := console.NewForms()
	engine := validation.NewEngine(forms.Inputs(),
		validation.WithPublisher(bus),
		validation.WithLogger(deps.Logger),
		validation.WithRecheckDelay(deps.Config.GetAutofillRecheck()),
	)
	screen := view.NewScreen(bus, deps.Logger)
	controller := account.New(deps.API, screen,
		account.WithFields(engine),
		account.WithLogger(deps.Logger),
	)
	shell := console.NewShell(controller, engine, forms, screen, deps.Out, deps.Logger)

	if err := shell.Attach(ctx, bus); err != nil {
		bus.Close()
		return nil, err
	}

	return &App{
		Bus:        bus,
		Topics:     NewCatalog(),
		Forms:      forms,
		Engine:     engine,
		Screen:     screen,
		Controller: controller,
		Shell:      shell,
	}, nil
}

// Run starts field tracking and runs the shell over in.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	a.Engine.Start(ctx)
	defer a.Engine.Stop()
	return a.Shell.Run(ctx, in)
}

// Close stops the engine and shuts the bus down.
func (a *App) Close() error {
	a.Engine.Stop()
	return a.Bus.Close()
}
