package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cloudposse/tierconf/pkg/engine"
	log "github.com/cloudposse/tierconf/pkg/logger"
	"github.com/cloudposse/tierconf/pkg/watch"
)

// watchCmd reloads and reprocesses documents whenever a file under the base path changes.
var watchCmd = &cobra.Command{
	Use:   "watch [name]",
	Short: "Reprocess documents when files under the base path change",
	Long: `Load and process the document (or every document), then watch the base path and reload on every change.
Changes are debounced by watch.debounce. Stop with Ctrl+C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: executeWatchCommand,
}

func executeWatchCommand(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format, formatYAML, formatJSON); err != nil {
		return err
	}

	e, err := newEngine(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := func() {
		if err := reprocess(ctx, cmd, e, format, args); err != nil {
			log.Error("Processing failed", "error", err)
		}
	}
	run()

	w, err := watch.NewWatcher(tierConfig.BasePath, watch.ParseDebounce(tierConfig.Watch.Debounce), func() {
		if err := e.Initialize(ctx); err != nil {
			log.Error("Reload failed, keeping the previous documents", "error", err)
			return
		}
		run()
	})
	if err != nil {
		return err
	}
	w.Start()
	log.Info("Watching for changes", "path", tierConfig.BasePath)

	<-ctx.Done()
	return w.Stop()
}

func reprocess(ctx context.Context, cmd *cobra.Command, e *engine.Engine, format string, args []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(args) == 1 {
		doc, err := e.ProcessConfiguration(args[0])
		if err != nil {
			return err
		}
		return writeData(cmd.OutOrStdout(), format, doc)
	}
	for _, r := range e.ProcessAll() {
		if r.Err != nil {
			log.Error("Failed to process document", "document", r.Name, "error", r.Err)
			continue
		}
		if err := writeData(cmd.OutOrStdout(), format, r.Document); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	watchCmd.Flags().StringP("format", "f", formatYAML, "Output format: yaml, json")

	RootCmd.AddCommand(watchCmd)
}
