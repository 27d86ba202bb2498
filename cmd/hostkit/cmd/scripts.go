package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nfrund/hostkit/internal/app"
	"github.com/nfrund/hostkit/internal/registry"
	"github.com/nfrund/hostkit/internal/script"
)

var scriptsFormat string

// scriptsCmd represents the scripts command
var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "Manage the scripts hostkit can run",
	Long: `Scripts are loaded from the embedded set shipped with hostkit and from the
scripts directory (HOSTKIT_SCRIPTS_DIR). A file in the directory overrides the
embedded script of the same name.

Examples:
  # List every script with its language and source
  hostkit scripts list

  # Copy the embedded scripts into the scripts directory for editing
  hostkit scripts extract`,
}

var scriptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available scripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), false, func(_ context.Context, a *app.App) error {
			engine := registry.MustGet(a.Registry, registry.ScriptEngineKey)
			metadata := engine.Registry().GetScriptMetadata()

			switch scriptsFormat {
			case "json":
				return displayScriptsJSON(cmd.OutOrStdout(), metadata)
			case "table":
				displayScriptsTable(cmd.OutOrStdout(), metadata)
				return nil
			default:
				return fmt.Errorf("unsupported output format '%s', use 'table' or 'json'", scriptsFormat)
			}
		})
	},
}

var scriptsExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Write the embedded scripts into the scripts directory",
	Long: `Write every embedded script into the scripts directory. Files that already
exist are left untouched, so local edits survive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), false, func(_ context.Context, a *app.App) error {
			engine := registry.MustGet(a.Registry, registry.ScriptEngineKey)
			count, err := engine.ExtractDefaultScripts()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d script(s) to %s\n", count, engine.Registry().Dir())
			return nil
		})
	},
}

// displayScriptsTable displays scripts in a formatted table
func displayScriptsTable(out io.Writer, metadata []script.ScriptMetadata) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "NAME\tLANGUAGE\tSOURCE\tSIZE\tCHECKSUM")
	fmt.Fprintln(w, "----\t--------\t------\t----\t--------")

	if len(metadata) == 0 {
		fmt.Fprintln(w, "No scripts found")
		return
	}
	for _, m := range metadata {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", m.Name, m.Language, m.Source, m.Size, m.Checksum[:12])
	}
}

// displayScriptsJSON displays scripts in JSON format
func displayScriptsJSON(out io.Writer, metadata []script.ScriptMetadata) error {
	type scriptDisplay struct {
		Name     string `json:"name"`
		Language string `json:"language"`
		Source   string `json:"source"`
		Size     int    `json:"size"`
		Checksum string `json:"checksum"`
	}

	displays := make([]scriptDisplay, len(metadata))
	for i, m := range metadata {
		displays[i] = scriptDisplay{
			Name:     m.Name,
			Language: string(m.Language),
			Source:   string(m.Source),
			Size:     m.Size,
			Checksum: m.Checksum,
		}
	}

	output := struct {
		Scripts []scriptDisplay `json:"scripts"`
		Count   int             `json:"count"`
	}{
		Scripts: displays,
		Count:   len(displays),
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func init() {
	rootCmd.AddCommand(scriptsCmd)
	scriptsCmd.AddCommand(scriptsListCmd)
	scriptsCmd.AddCommand(scriptsExtractCmd)

	scriptsListCmd.Flags().StringVarP(&scriptsFormat, "format", "f", "table", "Output format (table, json)")
}
