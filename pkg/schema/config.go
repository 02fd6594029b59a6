package schema

// Configuration is the tierconf CLI/engine configuration (tierconf.yaml, env, flags).
type Configuration struct {
	BasePath   string           `yaml:"base_path" json:"base_path" mapstructure:"base_path"`
	Documents  DocumentsConfig  `yaml:"documents" json:"documents" mapstructure:"documents"`
	Logs       Logs             `yaml:"logs" json:"logs" mapstructure:"logs"`
	Processing ProcessingConfig `yaml:"processing" json:"processing" mapstructure:"processing"`
	Validation ValidationConfig `yaml:"validation" json:"validation" mapstructure:"validation"`
	Conflicts  ConflictsConfig  `yaml:"conflicts" json:"conflicts" mapstructure:"conflicts"`
	Watch      WatchConfig      `yaml:"watch" json:"watch" mapstructure:"watch"`
	Profiler   ProfilerConfig   `yaml:"profiler" json:"profiler" mapstructure:"profiler"`

	// CliConfigPath is the config file actually used; not read from config.
	CliConfigPath string `yaml:"-" json:"cli_config_path,omitempty" mapstructure:"-"`
}

// DocumentsConfig controls which files the loader reads under BasePath.
type DocumentsConfig struct {
	IncludedPaths []string `yaml:"included_paths" json:"included_paths" mapstructure:"included_paths"`
	ExcludedPaths []string `yaml:"excluded_paths" json:"excluded_paths" mapstructure:"excluded_paths"`
}

type Logs struct {
	File  string `yaml:"file" json:"file" mapstructure:"file"`
	Level string `yaml:"level" json:"level" mapstructure:"level"`
}

// ProcessingConfig toggles the pipeline stages.
type ProcessingConfig struct {
	ValidateAfterMerge   bool `yaml:"validate_after_merge" json:"validate_after_merge" mapstructure:"validate_after_merge"`
	ResolveReferences    bool `yaml:"resolve_references" json:"resolve_references" mapstructure:"resolve_references"`
	AutoResolveConflicts bool `yaml:"auto_resolve_conflicts" json:"auto_resolve_conflicts" mapstructure:"auto_resolve_conflicts"`
	LogValidationErrors  bool `yaml:"log_validation_errors" json:"log_validation_errors" mapstructure:"log_validation_errors"`
	TrackProvenance      bool `yaml:"track_provenance" json:"track_provenance" mapstructure:"track_provenance"`
}

// ValidationConfig configures the validation layer.
type ValidationConfig struct {
	// RequiredFields adds required fields per tier on top of name and tier.
	RequiredFields map[Tier][]string `yaml:"required_fields" json:"required_fields" mapstructure:"required_fields"`
	// Schemas maps a tier to a JSON Schema file the effective content must satisfy.
	Schemas map[Tier]string  `yaml:"schemas" json:"schemas" mapstructure:"schemas"`
	Rules   []ValidationRule `yaml:"rules" json:"rules" mapstructure:"rules"`
}

// ValidationRule is an expression evaluated against {name, tier, extends, content}; false is a finding.
type ValidationRule struct {
	Name       string `yaml:"name" json:"name" mapstructure:"name"`
	Expression string `yaml:"expression" json:"expression" mapstructure:"expression"`
	Message    string `yaml:"message" json:"message" mapstructure:"message"`
	Severity   string `yaml:"severity" json:"severity" mapstructure:"severity"`
	// Tiers limits the rule to the listed tiers; empty means all.
	Tiers []Tier `yaml:"tiers,omitempty" json:"tiers,omitempty" mapstructure:"tiers"`
}

// ConflictsConfig overrides the default resolution strategy per conflict kind.
type ConflictsConfig struct {
	DefaultStrategies map[string]string `yaml:"default_strategies" json:"default_strategies" mapstructure:"default_strategies"`
}

type WatchConfig struct {
	Debounce string `yaml:"debounce" json:"debounce" mapstructure:"debounce"`
}

type ProfilerConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
}
