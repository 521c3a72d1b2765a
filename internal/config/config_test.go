package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Settings:
// - Default() returns the documented defaults and passes validation
// - Load() uses defaults when no config file exists
// - Load() reads .scss-index/config.yml and merges it with defaults
// - environment variables override the config file
// - implicitly_label can be disabled with "" or false
// - NewFileLoader() reads an explicit file and fails when it is missing
// - malformed YAML and invalid values are rejected
// - Validate() reports every problem and keeps sentinels matchable
// - Clone() is a deep copy

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	configDir := filepath.Join(dir, DirName)
	require.NoError(t, os.MkdirAll(configDir, 0755))
	path := filepath.Join(configDir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	s := Default()
	assert.Equal(t, 30, s.ScannerDepth)
	assert.Equal(t, []string{"**/.git", "**/node_modules", "**/bower_components"}, s.ScannerExclude)
	assert.True(t, s.ScanImportedFiles)
	assert.False(t, s.ShowErrors)
	assert.True(t, s.SuggestVariables)
	assert.True(t, s.SuggestMixins)
	assert.True(t, s.SuggestFunctions)
	assert.Equal(t, " (+-*%", s.SuggestFunctionsInStringContextAfterSymbols)

	label, ok := s.Implicitly()
	assert.True(t, ok)
	assert.Equal(t, "(implicitly)", label)

	assert.NoError(t, Validate(s))
}

func TestLoad_DefaultsWhenNoConfigFile(t *testing.T) {
	t.Parallel()

	s, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, `scanner_depth: 5
scanner_exclude:
  - "**/vendor"
show_errors: true
suggest_mixins: false
implicitly_label: "(via import)"
`)

	s, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, 5, s.ScannerDepth)
	assert.Equal(t, []string{"**/vendor"}, s.ScannerExclude)
	assert.True(t, s.ShowErrors)
	assert.False(t, s.SuggestMixins)
	assert.True(t, s.SuggestFunctions, "unset keys keep their defaults")
	require.NotNil(t, s.ImplicitlyLabel)
	assert.Equal(t, "(via import)", *s.ImplicitlyLabel)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	// Note: Cannot use t.Parallel() with t.Setenv()
	dir := t.TempDir()
	writeConfig(t, dir, "scanner_depth: 5\nsuggest_variables: true\n")

	t.Setenv("SCSS_INDEX_SCANNER_DEPTH", "12")
	t.Setenv("SCSS_INDEX_SUGGEST_VARIABLES", "false")
	t.Setenv("SCSS_INDEX_IMPLICITLY_LABEL", "false")

	s, err := NewLoader(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, 12, s.ScannerDepth)
	assert.False(t, s.SuggestVariables)
	assert.Nil(t, s.ImplicitlyLabel)
}

func TestLoad_DisableImplicitlyLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"empty string", "implicitly_label: \"\"\n"},
		{"false", "implicitly_label: false\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			s, err := NewLoader(dir).Load()
			require.NoError(t, err)
			_, ok := s.Implicitly()
			assert.False(t, ok)
		})
	}
}

func TestNewFileLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, "scan_imported_files: false\n")

	s, err := NewFileLoader(path).Load()
	require.NoError(t, err)
	assert.False(t, s.ScanImportedFiles)

	_, err = NewFileLoader(filepath.Join(dir, "missing.yml")).Load()
	assert.Error(t, err)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeConfig(t, dir, "scanner_depth: [unclosed\n")

		_, err := NewLoader(dir).Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeConfig(t, dir, "scanner_depth: -1\n")

		_, err := NewLoader(dir).Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidDepth)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	s := Default()
	s.ScannerDepth = -3
	s.ScannerExclude = []string{"**/ok", "[unclosed", " "}

	err := Validate(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDepth))
	assert.True(t, errors.Is(err, ErrInvalidExclude))
	assert.Contains(t, err.Error(), "[unclosed")
	assert.Contains(t, err.Error(), "empty pattern")
}

func TestClone(t *testing.T) {
	t.Parallel()

	s := Default()
	c := s.Clone()
	c.ScannerExclude[0] = "changed"
	*c.ImplicitlyLabel = "changed"

	assert.Equal(t, "**/.git", s.ScannerExclude[0])
	label, _ := s.Implicitly()
	assert.Equal(t, DefaultImplicitlyLabel, label)
}
