package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DirName is the per-project configuration directory.
const DirName = ".scss-index"

// EnvPrefix prefixes environment variable overrides (SCSS_INDEX_*).
const EnvPrefix = "SCSS_INDEX"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads settings from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Settings, error)
}

type loader struct {
	rootDir    string
	configFile string // explicit file, overrides the search in rootDir
}

// NewLoader creates a loader that looks for .scss-index/config.yml (or .yaml)
// under rootDir.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// NewFileLoader creates a loader for an explicit config file. Unlike
// NewLoader, a missing file is an error.
func NewFileLoader(path string) Loader {
	return &loader{configFile: path}
}

var settingKeys = []string{
	"scanner_depth",
	"scanner_exclude",
	"scan_imported_files",
	"implicitly_label",
	"show_errors",
	"suggest_variables",
	"suggest_mixins",
	"suggest_functions",
	"suggest_functions_in_string_context_after_symbols",
}

// Load loads settings with the following priority (highest to lowest):
// 1. Environment variables (SCSS_INDEX_*)
// 2. Config file
// 3. Default values
func (l *loader) Load() (*Settings, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, DirName))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range settingKeys {
		_ = v.BindEnv(key)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable when searching - defaults + env vars apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || l.configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	s.ImplicitlyLabel = implicitlyLabel(v.Get("implicitly_label"))

	if err := Validate(s); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return s, nil
}

// implicitlyLabel decodes the raw implicitly_label value. An empty string or
// false disables the label.
func implicitlyLabel(raw any) *string {
	switch value := raw.(type) {
	case nil:
		return Label(DefaultImplicitlyLabel)
	case bool:
		if !value {
			return nil
		}
		return Label(DefaultImplicitlyLabel)
	case string:
		if value == "" || strings.EqualFold(value, "false") {
			return nil
		}
		return Label(value)
	default:
		return Label(fmt.Sprint(value))
	}
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("scanner_depth", defaults.ScannerDepth)
	v.SetDefault("scanner_exclude", defaults.ScannerExclude)
	v.SetDefault("scan_imported_files", defaults.ScanImportedFiles)
	v.SetDefault("implicitly_label", DefaultImplicitlyLabel)
	v.SetDefault("show_errors", defaults.ShowErrors)
	v.SetDefault("suggest_variables", defaults.SuggestVariables)
	v.SetDefault("suggest_mixins", defaults.SuggestMixins)
	v.SetDefault("suggest_functions", defaults.SuggestFunctions)
	v.SetDefault("suggest_functions_in_string_context_after_symbols", defaults.SuggestFunctionsInStringContextAfterSymbols)
}

// LoadFromDir is a convenience function that loads the settings of rootDir.
// An empty rootDir means the current working directory.
func LoadFromDir(rootDir string) (*Settings, error) {
	if rootDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		rootDir = wd
	}
	return NewLoader(rootDir).Load()
}
