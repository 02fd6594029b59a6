package cmd

import (
	"github.com/spf13/cobra"

	errUtils "github.com/cloudposse/tierconf/errors"
	log "github.com/cloudposse/tierconf/pkg/logger"
	"github.com/cloudposse/tierconf/pkg/perf"
	"github.com/cloudposse/tierconf/pkg/schema"
)

// processCmd prints the effective configuration of one document, or of all of them.
var processCmd = &cobra.Command{
	Use:   "process [name]",
	Short: "Print the effective configuration of a document",
	Long: `Merge the document with its ancestors, resolve references, resolve conflicts with unrelated documents and validate the result.
Without a name every document is processed, most specific tier first.`,
	Example: `  tierconf process checkout
  tierconf process --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: executeProcessCommand,
}

func executeProcessCommand(cmd *cobra.Command, args []string) error {
	defer perf.Track(&tierConfig, "cmd.process.RunE")()

	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format, formatYAML, formatJSON); err != nil {
		return err
	}

	e, err := newEngine(cmd)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		doc, err := e.ProcessConfiguration(args[0])
		if err != nil {
			return err
		}
		return writeData(cmd.OutOrStdout(), format, doc)
	}

	var (
		docs   []*schema.Document
		failed []string
	)
	for _, r := range e.ProcessAll() {
		if r.Err != nil {
			log.Error("Failed to process document", "document", r.Name, "error", r.Err)
			failed = append(failed, r.Name)
			continue
		}
		docs = append(docs, r.Document)
	}
	if err := writeData(cmd.OutOrStdout(), format, docs); err != nil {
		return err
	}
	if len(failed) > 0 {
		return errUtils.Build(errUtils.ErrProcessFailed).
			WithHint("Run `tierconf process <name>` for the details of one document").
			WithContext("documents", failed).
			Err()
	}
	return nil
}

func init() {
	processCmd.Flags().StringP("format", "f", formatYAML, "Output format: yaml, json")

	RootCmd.AddCommand(processCmd)
}
