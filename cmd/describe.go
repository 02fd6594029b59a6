package cmd

import (
	"slices"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/cloudposse/tierconf/pkg/merge"
	"github.com/cloudposse/tierconf/pkg/perf"
	"github.com/cloudposse/tierconf/pkg/schema"
)

// describeOutput is the document merged with its ancestors, optionally with provenance per path.
type describeOutput struct {
	Document   schema.Document                    `yaml:"document" json:"document"`
	Provenance map[string][]merge.ProvenanceEntry `yaml:"provenance,omitempty" json:"provenance,omitempty"`
}

// describeCmd shows a document merged along its extends chain, before references and conflicts are handled.
var describeCmd = &cobra.Command{
	Use:   "describe <name>",
	Short: "Show a document merged with its ancestors",
	Long: `Show the document merged with every document it extends, before references are resolved and conflicts are handled.
With --provenance every content path lists the documents that set it, base first.`,
	Example: `  tierconf describe checkout --provenance`,
	Args:    cobra.ExactArgs(1),
	RunE:    executeDescribeCommand,
}

func executeDescribeCommand(cmd *cobra.Command, args []string) error {
	defer perf.Track(&tierConfig, "cmd.describe.RunE")()

	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format, formatYAML, formatJSON, formatTable); err != nil {
		return err
	}
	withProvenance := tierConfig.Processing.TrackProvenance
	if cmd.Flags().Changed("provenance") {
		withProvenance, _ = cmd.Flags().GetBool("provenance")
	}

	e, err := newEngine(cmd)
	if err != nil {
		return err
	}

	name := args[0]
	doc, err := e.Merged(name)
	if err != nil {
		return err
	}

	out := describeOutput{Document: doc}
	if withProvenance || format == formatTable {
		provenance, err := e.Provenance(name)
		if err != nil {
			return err
		}
		out.Provenance = map[string][]merge.ProvenanceEntry{}
		for _, path := range provenance.GetPaths() {
			out.Provenance[path] = provenance.Get(path)
		}
	}

	if format == formatTable {
		writeProvenanceTable(cmd, out.Provenance)
		return nil
	}
	return writeData(cmd.OutOrStdout(), format, out)
}

func writeProvenanceTable(cmd *cobra.Command, provenance map[string][]merge.ProvenanceEntry) {
	paths := lo.Keys(provenance)
	slices.Sort(paths)

	var rows [][]string
	for _, path := range paths {
		for i, entry := range provenance[path] {
			effective := ""
			if i == len(provenance[path])-1 {
				effective = "*"
			}
			rows = append(rows, []string{path, entry.Value.Text(), entry.Document, string(entry.Tier), effective})
		}
	}
	writeTable(cmd.OutOrStdout(), []string{"PATH", "VALUE", "DOCUMENT", "TIER", "EFFECTIVE"}, rows)
}

func init() {
	describeCmd.Flags().StringP("format", "f", formatYAML, "Output format: yaml, json, table")
	describeCmd.Flags().Bool("provenance", false, "Include the documents that set every path (defaults to processing.track_provenance)")

	RootCmd.AddCommand(describeCmd)
}
