package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/nfrund/accountdesk/internal/config"
	"github.com/nfrund/accountdesk/internal/logging"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	envFile    string
	apiURL     string
	reqTimeout time.Duration

	// cfg is loaded before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "accountdesk",
	Short: "Account management client",
	Long: `accountdesk logs in, registers, changes passwords and deletes accounts
against the account API.

Available commands:
  shell      Interactive session with live field validation
  register   Create an account without entering the shell
  events     List the event topics published by the client
  version    Print the version

Configuration is read from a .env file and the environment
(ACCOUNT_API_URL, ACCOUNT_REQUEST_TIMEOUT, ACCOUNT_AUTOFILL_RECHECK,
LOG_FORMAT, LOG_LEVEL). Flags override both.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to read configuration from")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "base URL of the account API (overrides ACCOUNT_API_URL)")
	rootCmd.PersistentFlags().DurationVar(&reqTimeout, "timeout", 0, "per-request timeout (overrides ACCOUNT_REQUEST_TIMEOUT)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(afero.NewOsFs(), envFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if cmd.Flags().Changed("api-url") {
		c.APIBaseURL = apiURL
	}
	if cmd.Flags().Changed("timeout") {
		c.RequestTimeout = reqTimeout
	}
	if err := c.Validate(); err != nil {
		return err
	}

	// Logs go to stderr so the transcript on stdout stays clean.
	logging.New(c.LogFormat, c.LogLevel, cmd.ErrOrStderr())
	cfg = c
	return nil
}
