package cmd

import (
	"io"

	"github.com/spf13/cobra"

	cfg "github.com/cloudposse/tierconf/pkg/config"
	log "github.com/cloudposse/tierconf/pkg/logger"
	"github.com/cloudposse/tierconf/pkg/perf"
	"github.com/cloudposse/tierconf/pkg/schema"
)

var (
	// tierConfig is loaded once per invocation, before any subcommand runs.
	tierConfig schema.Configuration

	logCloser io.Closer
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "tierconf",
	Short: "Hierarchical configuration inheritance and conflict resolution",
	Long: `tierconf merges organization, team and project configuration documents along their 'extends' chains,
resolves ${config:doc.path} references, detects and resolves conflicts between unrelated documents, and validates the result.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func initConfig(cmd *cobra.Command) error {
	loaded, err := cfg.LoadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	tierConfig = loaded

	logger, closer, err := log.NewLoggerFromSettings(tierConfig.Logs.Level, tierConfig.Logs.File)
	if err != nil {
		return err
	}
	log.SetDefault(logger)
	logCloser = closer

	perf.Enable(tierConfig.Profiler.Enabled)

	log.Debug("Loaded CLI config", "file", tierConfig.CliConfigPath, "base_path", tierConfig.BasePath)
	return nil
}

// Execute runs the root command. It is called by main.main().
func Execute() error {
	return RootCmd.Execute()
}

// Cleanup prints the profile summary when profiling is on and closes the log file.
func Cleanup() {
	if perf.Enabled() {
		printProfile(RootCmd.ErrOrStderr())
	}
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.String(cfg.ConfigPathFlag, "", "Path to the CLI config file, or a directory holding tierconf.yaml")
	flags.String(cfg.BasePathFlag, "", "Directory holding the configuration documents")
	flags.String(cfg.LogsLevelFlag, "Info", "Logs level. Supported log levels are Trace, Debug, Info, Warning, Off")
	flags.String(cfg.LogsFileFlag, "/dev/stderr", "The file to write logs to. Logs can be written to any file or to '/dev/stdout' and '/dev/stderr'")
	flags.Bool(cfg.ProfileFlag, false, "Print a timing summary of the processing stages on exit")
	flags.Bool(cfg.ValidateAfterMergeFlag, true, "Validate every document after merging")
	flags.Bool(cfg.ResolveReferencesFlag, true, "Resolve ${config:doc.path} references")
	flags.Bool(cfg.AutoResolveConflictsFlag, true, "Detect and resolve conflicts with unrelated documents")
	flags.Bool(cfg.LogValidationErrorsFlag, true, "Log validation findings")
	flags.Bool(cfg.TrackProvenanceFlag, false, "Show provenance in 'describe' output by default")
}
