// Package config loads the tierconf CLI configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	errUtils "github.com/cloudposse/tierconf/errors"
	log "github.com/cloudposse/tierconf/pkg/logger"
	"github.com/cloudposse/tierconf/pkg/perf"
	"github.com/cloudposse/tierconf/pkg/schema"
	"github.com/cloudposse/tierconf/pkg/xdg"
)

// LoadConfig loads the configuration from the following locations (from lower to higher priority):
// home dir (~/.tierconf)
// XDG config dir ($XDG_CONFIG_HOME/tierconf)
// current directory
// the directory in TIERCONF_CLI_CONFIG_PATH
// the --config-path flag (a directory or a file)
// ENV vars (TIERCONF_LOGS_LEVEL, TIERCONF_PROCESSING_RESOLVE_REFERENCES, ...)
// Command-line flags
func LoadConfig(flags *pflag.FlagSet) (schema.Configuration, error) {
	defer perf.Track(nil, "config.LoadConfig")()

	var cfg schema.Configuration

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetTypeByDefaultValue(true)
	setDefaultConfiguration(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindFlags(v, flags); err != nil {
		return cfg, err
	}

	used, err := readAndMergeConfigs(v, configSources(flags))
	if err != nil {
		return cfg, err
	}
	if used == "" {
		log.Debug("'tierconf.yaml' CLI config was not found", "paths", "home dir, current dir, ENV vars, flags")
		log.Debug("Using the default CLI config")
	}

	hook := mapstructure.ComposeDecodeHookFunc(
		TierDecodeHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return cfg, fmt.Errorf("%w: %w", errUtils.ErrUnmarshalConfig, err)
	}

	if err := mergo.Merge(&cfg.Documents, defaultCliConfig.Documents); err != nil {
		return cfg, fmt.Errorf("%w: %w", errUtils.ErrUnmarshalConfig, err)
	}
	if err := mergo.Merge(&cfg.Conflicts, defaultCliConfig.Conflicts); err != nil {
		return cfg, fmt.Errorf("%w: %w", errUtils.ErrUnmarshalConfig, err)
	}

	if _, err := log.ParseLogLevel(cfg.Logs.Level); err != nil {
		return cfg, err
	}

	if used != "" {
		cfg.CliConfigPath = used
	}
	basePath, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return cfg, fmt.Errorf("%w: base path %q: %w", errUtils.ErrReadConfig, cfg.BasePath, err)
	}
	cfg.BasePath = basePath

	return cfg, nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for flagName, key := range flagKeys {
		flag := flags.Lookup(flagName)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("%w: flag --%s: %w", errUtils.ErrReadConfig, flagName, err)
		}
	}
	return nil
}

// configSources lists the candidate config locations, lowest priority first.
func configSources(flags *pflag.FlagSet) []string {
	var sources []string
	if home, err := homedir.Dir(); err == nil {
		sources = append(sources, filepath.Join(home, HomeConfigDirName))
	}
	sources = append(sources, xdg.ConfigHome())
	if wd, err := os.Getwd(); err == nil {
		sources = append(sources, wd)
	}
	if envPath := os.Getenv(CliConfigPathEnvVar); envPath != "" {
		sources = append(sources, envPath)
	}
	if flags != nil {
		if path, err := flags.GetString(ConfigPathFlag); err == nil && path != "" {
			sources = append(sources, path)
		}
	}
	return sources
}

// readAndMergeConfigs merges every config file found in sources, in order, and returns the last one used.
func readAndMergeConfigs(v *viper.Viper, sources []string) (string, error) {
	used := ""
	for _, source := range sources {
		expanded, err := homedir.Expand(source)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", errUtils.ErrReadConfig, source, err)
		}

		for _, file := range candidateFiles(expanded) {
			if _, err := os.Stat(file); err != nil {
				continue
			}
			v.SetConfigFile(file)
			if err := v.MergeInConfig(); err != nil {
				return "", errUtils.Build(errUtils.ErrReadConfig).
					WithHintf("Fix the YAML syntax in `%s`", file).
					WithContext("file", file).
					WithContext("cause", err.Error()).
					Err()
			}
			log.Debug("Merged config", "file", file)
			used, _ = filepath.Abs(file)
		}
	}
	return used, nil
}

// candidateFiles returns path itself when it names a file, otherwise the config file names inside it.
func candidateFiles(path string) []string {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return []string{path}
	}
	var files []string
	for _, name := range []string{CliConfigFileName, DotCliConfigFileName} {
		for _, ext := range []string{"yaml", "yml"} {
			files = append(files, filepath.Join(path, name+"."+ext))
		}
	}
	return files
}

// TierDecodeHook decodes tier names case-insensitively, including map keys.
func TierDecodeHook() mapstructure.DecodeHookFuncType {
	tierType := reflect.TypeOf(schema.Tier(""))
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != tierType || from.Kind() != reflect.String {
			return data, nil
		}
		return schema.ParseTier(reflect.ValueOf(data).String())
	}
}
