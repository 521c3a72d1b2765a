package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrInvalidDepth indicates a negative scanner depth
	ErrInvalidDepth = errors.New("invalid scanner depth")

	// ErrInvalidExclude indicates an exclude pattern that does not compile
	ErrInvalidExclude = errors.New("invalid exclude pattern")
)

// Validate checks that the settings are usable.
func Validate(s *Settings) error {
	var errs []error

	if s.ScannerDepth < 0 {
		errs = append(errs, fmt.Errorf("%w: scanner_depth cannot be negative, got %d", ErrInvalidDepth, s.ScannerDepth))
	}

	for _, pattern := range s.ScannerExclude {
		if strings.TrimSpace(pattern) == "" {
			errs = append(errs, fmt.Errorf("%w: empty pattern", ErrInvalidExclude))
			continue
		}
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidExclude, pattern, err))
		}
	}

	return joinErrors(errs)
}

// joinErrors combines multiple errors into one that still matches each of
// them with errors.Is.
func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return fmt.Errorf("validation failed: %w", errors.Join(errs...))
}
