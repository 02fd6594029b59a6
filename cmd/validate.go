package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	errUtils "github.com/cloudposse/tierconf/errors"
	"github.com/cloudposse/tierconf/pkg/engine"
	"github.com/cloudposse/tierconf/pkg/perf"
	"github.com/cloudposse/tierconf/pkg/validate"
)

// validateCmd validates effective documents and lists every finding.
var validateCmd = &cobra.Command{
	Use:   "validate [name]",
	Short: "Validate the effective configuration of documents",
	Long: `Process the document (or every document) with validation on and list the errors and warnings found.
The command fails when any document has an error.`,
	Example: `  tierconf validate
  tierconf validate checkout --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: executeValidateCommand,
}

type validationReport struct {
	Document string          `yaml:"document" json:"document"`
	Result   validate.Result `yaml:"result" json:"result"`
	Error    string          `yaml:"error,omitempty" json:"error,omitempty"`
}

func executeValidateCommand(cmd *cobra.Command, args []string) error {
	defer perf.Track(&tierConfig, "cmd.validate.RunE")()

	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format, formatTable, formatYAML, formatJSON); err != nil {
		return err
	}

	// Findings are printed below rather than logged.
	tierConfig.Processing.ValidateAfterMerge = true
	tierConfig.Processing.LogValidationErrors = false

	e, err := newEngine(cmd)
	if err != nil {
		return err
	}

	var results []engine.Result
	if len(args) == 1 {
		doc, err := e.ProcessConfiguration(args[0])
		results = append(results, engine.Result{Name: args[0], Document: doc, Err: err})
	} else {
		results = e.ProcessAll()
	}

	reports := make([]validationReport, 0, len(results))
	var invalid []string
	for _, r := range results {
		report := validationReport{Document: r.Name}
		if res, ok := e.Validation(r.Name); ok {
			report.Result = res
		}
		if r.Err != nil {
			report.Error = r.Err.Error()
			invalid = append(invalid, r.Name)
		}
		reports = append(reports, report)
	}

	if format == formatTable {
		writeValidationTable(cmd, reports)
	} else if err := writeData(cmd.OutOrStdout(), format, reports); err != nil {
		return err
	}

	if len(invalid) > 0 {
		return errUtils.Build(errUtils.ErrValidationFailed).
			WithContext("documents", invalid).
			Err()
	}
	return nil
}

func writeValidationTable(cmd *cobra.Command, reports []validationReport) {
	var rows [][]string
	for _, report := range reports {
		for _, f := range lo.Flatten([][]validate.ValidationError{report.Result.Errors, report.Result.Warnings}) {
			rows = append(rows, []string{report.Document, string(f.Severity), f.Path, f.Message})
		}
		if report.Error != "" && len(report.Result.Errors) == 0 {
			rows = append(rows, []string{report.Document, string(validate.SeverityError), "-", report.Error})
		}
	}
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "All documents are valid")
		return
	}
	writeTable(cmd.OutOrStdout(), []string{"DOCUMENT", "SEVERITY", "PATH", "MESSAGE"}, rows)
}

func init() {
	validateCmd.Flags().StringP("format", "f", formatTable, "Output format: table, yaml, json")

	RootCmd.AddCommand(validateCmd)
}
