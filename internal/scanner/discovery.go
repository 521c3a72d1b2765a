package scanner

import (
	"context"
	"io/fs"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/M7MD889/vscode-scss/internal/config"
	"github.com/gobwas/glob"
)

// Extension is the file extension discovery looks for.
const Extension = ".scss"

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// FileDiscovery finds the stylesheets under a root, honoring exclude globs
// and a maximum directory depth.
type FileDiscovery struct {
	rootDir        string
	maxDepth       int
	ignorePatterns []compiledPattern
}

// NewFileDiscovery creates a discovery for rootDir from settings.
func NewFileDiscovery(rootDir string, settings *config.Settings) (*FileDiscovery, error) {
	fd := &FileDiscovery{
		rootDir:  rootDir,
		maxDepth: settings.ScannerDepth,
	}

	for _, pattern := range settings.ScannerExclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		fd.ignorePatterns = append(fd.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	return fd, nil
}

// Discover is a convenience wrapper around FileDiscovery.DiscoverFiles.
func Discover(ctx context.Context, rootDir string, settings *config.Settings) ([]string, error) {
	fd, err := NewFileDiscovery(rootDir, settings)
	if err != nil {
		return nil, err
	}
	return fd.DiscoverFiles(ctx)
}

// DiscoverFiles walks the directory tree and returns the absolute paths of
// all stylesheets, sorted.
func (fd *FileDiscovery) DiscoverFiles(ctx context.Context) ([]string, error) {
	root, err := filepath.Abs(fd.rootDir)
	if err != nil {
		return nil, err
	}

	files := []string{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path == root {
			return nil
		}

		// Get relative path for pattern matching
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if fd.shouldIgnore(relPath) || strings.Count(relPath, "/")+1 > fd.maxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.EqualFold(filepath.Ext(path), Extension) || fd.shouldIgnore(relPath) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Ignored reports whether an absolute path under the root is excluded by
// the configured patterns or lies deeper than the scanner depth. Paths
// outside the root are always ignored.
func (fd *FileDiscovery) Ignored(path string) bool {
	root, err := filepath.Abs(fd.rootDir)
	if err != nil {
		return true
	}
	relPath, err := filepath.Rel(root, path)
	if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return true
	}
	if relPath == "." {
		return false
	}
	relPath = filepath.ToSlash(relPath)

	dirs := strings.Split(relPath, "/")
	dirs = dirs[:len(dirs)-1]
	if len(dirs) > fd.maxDepth {
		return true
	}
	for i := range dirs {
		if fd.shouldIgnore(strings.Join(dirs[:i+1], "/")) {
			return true
		}
	}
	return fd.shouldIgnore(relPath)
}

// shouldIgnore checks if a path matches any ignore pattern.
func (fd *FileDiscovery) shouldIgnore(relPath string) bool {
	// Always ignore the configuration directory
	if relPath == config.DirName || strings.HasPrefix(relPath, config.DirName+"/") {
		return true
	}

	if fd.matchesAnyPattern(relPath) {
		return true
	}

	// Also check if this is a directory that would match with /** suffix
	// For example, "vendor" should match pattern "vendor/**"
	return fd.matchesAnyPattern(relPath + "/**")
}

// matchesAnyPattern checks if a path matches any ignore pattern.
func (fd *FileDiscovery) matchesAnyPattern(path string) bool {
	for _, cp := range fd.ignorePatterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// A path in the root (no slash) also matches patterns with a leading
	// **/ so that "**/node_modules" excludes "node_modules".
	if !strings.Contains(strings.TrimSuffix(path, "/**"), "/") {
		for _, cp := range fd.ignorePatterns {
			if !strings.HasPrefix(cp.pattern, "**/") {
				continue
			}
			simplified := strings.TrimPrefix(cp.pattern, "**/")
			if simplifiedGlob, err := glob.Compile(simplified, '/'); err == nil && simplifiedGlob.Match(path) {
				return true
			}
		}
	}

	return false
}
