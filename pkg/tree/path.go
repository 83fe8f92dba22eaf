// Package tree implements the value model of the keyed tree store: path
// parsing, JSON normalization, and copy-on-write reads and writes over
// nested maps. Backends keep one subtree per top-level key and use these
// helpers to apply writes to it.
package tree

import (
	"fmt"
	"strings"

	"github.com/adfharrison1/go-baas/pkg/domain"
)

// forbiddenKeyChars may not appear in a path segment or a map key.
const forbiddenKeyChars = ".#$[]"

// Split parses a slash-delimited path into segments. Leading and trailing
// slashes are ignored; the empty path is the root and yields no segments.
func Split(path string) ([]string, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, nil
	}
	segments := strings.Split(trimmed, "/")
	for _, seg := range segments {
		if err := ValidateKey(seg); err != nil {
			return nil, fmt.Errorf("path %q: %w", path, err)
		}
	}
	return segments, nil
}

// Join renders segments back to a path.
func Join(segments []string) string {
	return strings.Join(segments, "/")
}

// Normalize returns the canonical form of path.
func Normalize(path string) (string, error) {
	segments, err := Split(path)
	if err != nil {
		return "", err
	}
	return Join(segments), nil
}

// ValidateKey checks a single segment or map key.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty segment", domain.ErrInvalidPath)
	}
	if strings.ContainsAny(key, forbiddenKeyChars) {
		return fmt.Errorf("%w: segment %q contains one of %q", domain.ErrInvalidPath, key, forbiddenKeyChars)
	}
	if strings.Contains(key, "/") {
		return fmt.Errorf("%w: segment %q contains a slash", domain.ErrInvalidPath, key)
	}
	return nil
}

func hasPrefix(path, prefix []string) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i := range prefix {
		if path[i] != prefix[i] {
			return false
		}
	}
	return true
}
