package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/nfrund/accountdesk/internal/app"
	"github.com/spf13/cobra"
)

var eventsOutputFormat string

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the event topics published by the client",
	Long: `List the topics the client publishes on its internal event bus.

Output formats:
  table - Human-readable table format (default)
  json  - Machine-readable JSON format`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		topics := app.NewCatalog().List()

		switch eventsOutputFormat {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(topics)
		case "table":
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TOPIC\tDESCRIPTION")
			for _, t := range topics {
				fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Description)
			}
			return w.Flush()
		default:
			return fmt.Errorf("invalid format %q, valid formats: table, json", eventsOutputFormat)
		}
	},
}

func init() {
	eventsCmd.Flags().StringVarP(&eventsOutputFormat, "format", "f", "table", "output format (table, json)")
	rootCmd.AddCommand(eventsCmd)
}
