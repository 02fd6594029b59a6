package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cloudposse/tierconf/pkg/conflict"
	"github.com/cloudposse/tierconf/pkg/perf"
)

// conflictsCmd lists the conflicts found while processing documents.
var conflictsCmd = &cobra.Command{
	Use:   "conflicts [name]",
	Short: "List conflicts between unrelated documents",
	Long: `Process the document (or every document) and list the conflicts found against documents it is not related to by 'extends',
with the strategy that resolved each of them. Unresolved reference placeholders are listed as ReferenceResolutionError.`,
	Example: `  tierconf conflicts
  tierconf conflicts checkout --unresolved --format yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: executeConflictsCommand,
}

func executeConflictsCommand(cmd *cobra.Command, args []string) error {
	defer perf.Track(&tierConfig, "cmd.conflicts.RunE")()

	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format, formatTable, formatYAML, formatJSON); err != nil {
		return err
	}
	unresolved, _ := cmd.Flags().GetBool("unresolved")

	e, err := newEngine(cmd)
	if err != nil {
		return err
	}

	// Failures are logged by the engine; conflicts found before a failure are still listed.
	if len(args) == 1 {
		_, _ = e.ProcessConfiguration(args[0])
	} else {
		e.ProcessAll()
	}

	conflicts := e.Conflicts()
	if unresolved {
		conflicts = e.UnresolvedConflicts()
	}

	if format != formatTable {
		if conflicts == nil {
			conflicts = []conflict.Conflict{}
		}
		return writeData(cmd.OutOrStdout(), format, conflicts)
	}

	rows := make([][]string, 0, len(conflicts))
	for _, c := range conflicts {
		resolution := "-"
		if c.IsResolved {
			resolution = c.Resolution.Text()
		}
		rows = append(rows, []string{
			string(c.Kind),
			c.PathString(),
			c.A.Document + "=" + c.A.Value.Text(),
			c.B.Document + "=" + c.B.Value.Text(),
			string(c.Strategy),
			resolution,
		})
	}
	writeTable(cmd.OutOrStdout(), []string{"KIND", "PATH", "A", "B", "STRATEGY", "RESOLUTION"}, rows)
	return nil
}

func init() {
	conflictsCmd.Flags().StringP("format", "f", formatTable, "Output format: table, yaml, json")
	conflictsCmd.Flags().Bool("unresolved", false, "Only list conflicts that were not resolved")

	RootCmd.AddCommand(conflictsCmd)
}
