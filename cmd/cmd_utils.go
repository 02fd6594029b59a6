package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	jsoniter "github.com/json-iterator/go"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/tierconf/errors"
	"github.com/cloudposse/tierconf/pkg/engine"
	"github.com/cloudposse/tierconf/pkg/loader"
	"github.com/cloudposse/tierconf/pkg/perf"
)

const (
	formatYAML  = "yaml"
	formatJSON  = "json"
	formatTable = "table"

	headerColor = "#00A3E0"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// newEngine creates an engine over the documents under the configured base path and loads them.
func newEngine(cmd *cobra.Command) (*engine.Engine, error) {
	defer perf.Track(&tierConfig, "cmd.newEngine")()

	e, err := engine.New(&tierConfig, loader.NewDirectoryLoader(&tierConfig))
	if err != nil {
		return nil, err
	}
	if err := e.Initialize(cmd.Context()); err != nil {
		return nil, err
	}
	return e, nil
}

func checkFormat(format string, supported ...string) error {
	if slices.Contains(supported, format) {
		return nil
	}
	return errUtils.Build(errUtils.ErrInvalidFormat).
		WithHintf("Supported formats: %s", strings.Join(supported, ", ")).
		WithContext("format", format).
		Err()
}

// writeData writes v to w as YAML or JSON.
func writeData(w io.Writer, format string, v any) error {
	var (
		out []byte
		err error
	)
	switch format {
	case formatJSON:
		out, err = json.MarshalIndent(v, "", "  ")
		out = append(out, '\n')
	default:
		out, err = yaml.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", errUtils.ErrInvalidFormat, err)
	}
	_, err = w.Write(out)
	return err
}

// writeTable renders rows under headers. Headers are styled only on a terminal.
func writeTable(w io.Writer, headers []string, rows [][]string) {
	styled := isTerminal(w)
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(false).
		BorderColumn(false).
		BorderHeader(styled).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow && styled {
				return lipgloss.NewStyle().
					Foreground(lipgloss.Color(headerColor)).
					Bold(true).
					Padding(0, 2, 0, 0)
			}
			return lipgloss.NewStyle().Padding(0, 2, 0, 0)
		})

	fmt.Fprintln(w, t.String())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func printProfile(w io.Writer) {
	stats := perf.Snapshot()
	if len(stats) == 0 {
		return
	}
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.Name,
			fmt.Sprint(s.Count),
			s.Total.String(),
			s.Mean.String(),
			s.P95.String(),
			s.Max.String(),
		})
	}
	fmt.Fprintln(w)
	writeTable(w, []string{"FUNCTION", "CALLS", "TOTAL", "MEAN", "P95", "MAX"}, rows)
}
