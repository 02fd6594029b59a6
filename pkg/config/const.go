package config

const (
	CliConfigFileName    = "tierconf"
	DotCliConfigFileName = ".tierconf"

	// HomeConfigDirName is the directory under the user's home searched for tierconf.yaml.
	HomeConfigDirName = ".tierconf"

	EnvPrefix           = "TIERCONF"
	CliConfigPathEnvVar = "TIERCONF_CLI_CONFIG_PATH"

	ConfigPathFlag           = "config-path"
	BasePathFlag             = "base-path"
	LogsLevelFlag            = "logs-level"
	LogsFileFlag             = "logs-file"
	ProfileFlag              = "profile"
	ValidateAfterMergeFlag   = "validate-after-merge"
	ResolveReferencesFlag    = "resolve-references"
	AutoResolveConflictsFlag = "auto-resolve-conflicts"
	LogValidationErrorsFlag  = "log-validation-errors"
	TrackProvenanceFlag      = "track-provenance"
)

// flagKeys maps CLI flags to configuration keys.
var flagKeys = map[string]string{
	BasePathFlag:             "base_path",
	LogsLevelFlag:            "logs.level",
	LogsFileFlag:             "logs.file",
	ProfileFlag:              "profiler.enabled",
	ValidateAfterMergeFlag:   "processing.validate_after_merge",
	ResolveReferencesFlag:    "processing.resolve_references",
	AutoResolveConflictsFlag: "processing.auto_resolve_conflicts",
	LogValidationErrorsFlag:  "processing.log_validation_errors",
	TrackProvenanceFlag:      "processing.track_provenance",
}
