package config

import (
	"github.com/spf13/viper"

	"github.com/cloudposse/tierconf/pkg/schema"
)

// defaultCliConfig fills collections the user left empty. Map keys are lower case because viper
// lower-cases the keys it reads.
var defaultCliConfig = schema.Configuration{
	Documents: schema.DocumentsConfig{
		IncludedPaths: []string{"**/*.yaml", "**/*.yml", "**/*.json"},
		ExcludedPaths: []string{"**/tierconf.yaml", "**/.tierconf.yaml", "**/*.schema.json"},
	},
	Conflicts: schema.ConflictsConfig{
		DefaultStrategies: map[string]string{
			"typemismatch":             "UseHigherPriority",
			"valueoverride":            "UseHigherPriority",
			"referenceresolutionerror": "UseHigherPriority",
			"arraymergeconflict":       "Concatenate",
			"objectmergeconflict":      "ShallowUnion",
		},
	},
}

func setDefaultConfiguration(v *viper.Viper) {
	v.SetDefault("base_path", ".")
	v.SetDefault("logs.file", "/dev/stderr")
	v.SetDefault("logs.level", "Info")
	v.SetDefault("processing.validate_after_merge", true)
	v.SetDefault("processing.resolve_references", true)
	v.SetDefault("processing.auto_resolve_conflicts", true)
	v.SetDefault("processing.log_validation_errors", true)
	v.SetDefault("processing.track_provenance", false)
	v.SetDefault("watch.debounce", "300ms")
	v.SetDefault("profiler.enabled", false)
}
