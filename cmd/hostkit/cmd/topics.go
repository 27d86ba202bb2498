package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nfrund/hostkit/internal/memhost"
)

// topicsCmd represents the topics command
var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the event topics the world publishes",
	Long: `The world publishes an event on the bus for every broadcast line and every
action-bar display. "hostkit run" prints both as they happen.`,
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()

		fmt.Fprintln(w, "NAME\tDESCRIPTION")
		fmt.Fprintln(w, "----\t-----------")
		fmt.Fprintf(w, "%s\t%s\n", memhost.ChatEvent.Name(), memhost.ChatEvent.Description())
		fmt.Fprintf(w, "%s\t%s\n", memhost.ActionBarEvent.Name(), memhost.ActionBarEvent.Description())
	},
}

func init() {
	rootCmd.AddCommand(topicsCmd)
}
