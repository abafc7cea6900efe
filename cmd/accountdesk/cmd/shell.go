package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/nfrund/accountdesk/internal/app"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive session",
	Long: `Start an interactive session. Each form field is validated as it is
entered: ✓ marks a valid value and ✗ an invalid one. Type 'help' inside the
shell for the list of commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, app.Dependencies{
			Config: cfg,
			Out:    cmd.OutOrStdout(),
		})
		if err != nil {
			return err
		}
		defer a.Close()

		err = a.Run(ctx, cmd.InOrStdin())
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
