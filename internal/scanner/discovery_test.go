package scanner

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/M7MD889/vscode-scss/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for FileDiscovery:
// - only .scss files are returned, sorted and absolute
// - default excludes skip node_modules and .git at any level, including the root
// - custom patterns exclude matching files
// - directories deeper than scannerDepth are not walked
// - the .scss-index directory is always skipped
// - invalid patterns fail construction

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{
		"main.scss",
		"readme.md",
		"styles/_vars.scss",
		"styles/print.css",
		"styles/vendor/grid.min.scss",
		"node_modules/pkg/index.scss",
		"packages/app/node_modules/pkg/x.scss",
		".git/hooks/x.scss",
		".scss-index/cache.scss",
		"a/b/c/deep.scss",
	} {
		writeFile(t, dir, name, "")
	}

	tests := []struct {
		name     string
		mutate   func(*config.Settings)
		expected []string
	}{
		{
			name: "defaults",
			expected: []string{
				"a/b/c/deep.scss",
				"main.scss",
				"styles/_vars.scss",
				"styles/vendor/grid.min.scss",
			},
		},
		{
			name:   "custom exclude",
			mutate: func(s *config.Settings) { s.ScannerExclude = append(s.ScannerExclude, "**/*.min.scss") },
			expected: []string{
				"a/b/c/deep.scss",
				"main.scss",
				"styles/_vars.scss",
			},
		},
		{
			name:   "directory exclude without glob suffix",
			mutate: func(s *config.Settings) { s.ScannerExclude = append(s.ScannerExclude, "styles") },
			expected: []string{
				"a/b/c/deep.scss",
				"main.scss",
			},
		},
		{
			name:   "depth limit",
			mutate: func(s *config.Settings) { s.ScannerDepth = 1 },
			expected: []string{
				"main.scss",
				"styles/_vars.scss",
			},
		},
		{
			name:     "root only",
			mutate:   func(s *config.Settings) { s.ScannerDepth = 0 },
			expected: []string{"main.scss"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			settings := config.Default()
			if tt.mutate != nil {
				tt.mutate(settings)
			}

			files, err := Discover(context.Background(), dir, settings)
			require.NoError(t, err)

			var rel []string
			for _, f := range files {
				assert.True(t, filepath.IsAbs(f))
				r, err := filepath.Rel(dir, f)
				require.NoError(t, err)
				rel = append(rel, filepath.ToSlash(r))
			}
			assert.Equal(t, tt.expected, rel)
		})
	}
}

func TestNewFileDiscovery_InvalidPattern(t *testing.T) {
	t.Parallel()

	settings := config.Default()
	settings.ScannerExclude = []string{"[unclosed"}
	_, err := NewFileDiscovery(t.TempDir(), settings)
	assert.Error(t, err)
}

func TestFileDiscovery_Ignored(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	settings := config.Default()
	settings.ScannerDepth = 2
	fd, err := NewFileDiscovery(dir, settings)
	require.NoError(t, err)

	tests := []struct {
		path    string
		ignored bool
	}{
		{"main.scss", false},
		{"styles/_vars.scss", false},
		{"a/b/two-deep.scss", false},
		{"a/b/c/three-deep.scss", true},
		{"node_modules/pkg/index.scss", true},
		{"packages/node_modules/x.scss", true},
		{".scss-index/x.scss", true},
		{"../outside.scss", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ignored, fd.Ignored(filepath.Join(dir, filepath.FromSlash(tt.path))), tt.path)
	}
}
