package config

// DefaultImplicitlyLabel annotates completion items inherited through imports.
const DefaultImplicitlyLabel = "(implicitly)"

// Settings is the per-workspace configuration of the index and its
// providers. It can be loaded from .scss-index/config.yml with environment
// variable overrides.
type Settings struct {
	ScannerDepth      int      `yaml:"scanner_depth" mapstructure:"scanner_depth" json:"scannerDepth"`                // max directory depth below the root
	ScannerExclude    []string `yaml:"scanner_exclude" mapstructure:"scanner_exclude" json:"scannerExclude"`          // glob patterns skipped by discovery
	ScanImportedFiles bool     `yaml:"scan_imported_files" mapstructure:"scan_imported_files" json:"scanImportedFiles"` // follow imports during scans

	// ImplicitlyLabel prefixes the detail of inherited completion items.
	// nil disables the annotation.
	ImplicitlyLabel *string `yaml:"implicitly_label" mapstructure:"-" json:"implicitlyLabel"`

	ShowErrors bool `yaml:"show_errors" mapstructure:"show_errors" json:"showErrors"` // strict parse-failure policy

	SuggestVariables bool `yaml:"suggest_variables" mapstructure:"suggest_variables" json:"suggestVariables"`
	SuggestMixins    bool `yaml:"suggest_mixins" mapstructure:"suggest_mixins" json:"suggestMixins"`
	SuggestFunctions bool `yaml:"suggest_functions" mapstructure:"suggest_functions" json:"suggestFunctions"`

	// SuggestFunctionsInStringContextAfterSymbols lists the characters after
	// which functions are offered inside string interpolation.
	SuggestFunctionsInStringContextAfterSymbols string `yaml:"suggest_functions_in_string_context_after_symbols" mapstructure:"suggest_functions_in_string_context_after_symbols" json:"suggestFunctionsInStringContextAfterSymbols"`
}

// Default returns the settings used when nothing is configured.
func Default() *Settings {
	return &Settings{
		ScannerDepth: 30,
		ScannerExclude: []string{
			"**/.git",
			"**/node_modules",
			"**/bower_components",
		},
		ScanImportedFiles: true,
		ImplicitlyLabel:   Label(DefaultImplicitlyLabel),
		ShowErrors:        false,
		SuggestVariables:  true,
		SuggestMixins:     true,
		SuggestFunctions:  true,
		SuggestFunctionsInStringContextAfterSymbols: " (+-*%",
	}
}

// Label returns a pointer to label for use as ImplicitlyLabel.
func Label(label string) *string {
	return &label
}

// Implicitly returns the implicitly label and whether it is enabled.
func (s *Settings) Implicitly() (string, bool) {
	if s.ImplicitlyLabel == nil {
		return "", false
	}
	return *s.ImplicitlyLabel, true
}

// Clone returns a deep copy of s.
func (s *Settings) Clone() *Settings {
	c := *s
	c.ScannerExclude = append([]string(nil), s.ScannerExclude...)
	if s.ImplicitlyLabel != nil {
		c.ImplicitlyLabel = Label(*s.ImplicitlyLabel)
	}
	return &c
}
