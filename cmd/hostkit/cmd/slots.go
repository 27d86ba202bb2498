package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nfrund/hostkit/internal/host"
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "List the equipment slot tags accepted by support.get_item",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()

		fmt.Fprintln(w, "TAG\tSLOT")
		fmt.Fprintln(w, "---\t----")
		for _, tag := range host.AllSlotTags {
			slot, _ := tag.Slot()
			fmt.Fprintf(w, "%s\t%s\n", tag, slot)
		}
	},
}

func init() {
	rootCmd.AddCommand(slotsCmd)
}
