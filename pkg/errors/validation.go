package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxPatternLength bounds the size of regular expressions accepted from users.
const MaxPatternLength = 4096

// ValidatePattern validates raw regular expression source before parsing.
//
// The rules are intentionally conservative:
//   - Must be valid UTF-8
//   - No null bytes
//   - Maximum length of MaxPatternLength bytes
//
// An empty pattern is valid and yields a diagram with only start and end.
func ValidatePattern(pattern string) error {
	if len(pattern) > MaxPatternLength {
		return New(ErrCodeInvalidPattern, "pattern too long (max %d bytes)", MaxPatternLength)
	}
	if !utf8.ValidString(pattern) {
		return New(ErrCodeInvalidPattern, "pattern is not valid UTF-8")
	}
	if strings.ContainsRune(pattern, 0) {
		return New(ErrCodeInvalidPattern, "pattern contains a null byte")
	}
	return nil
}

// ValidateFlags validates a regular expression flag string. Accepted flags
// are i (case-insensitive), m (multi-line), s (dot matches newline) and U
// (ungreedy), each at most once.
func ValidateFlags(flags string) error {
	seen := make(map[rune]bool, len(flags))
	for _, r := range flags {
		switch r {
		case 'i', 'm', 's', 'U':
		default:
			return New(ErrCodeInvalidPattern, "unknown flag %q (must be one of i, m, s, U)", r)
		}
		if seen[r] {
			return New(ErrCodeInvalidPattern, "flag %q given more than once", r)
		}
		seen[r] = true
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a backend connection URL. Only the schemes used by
// the cache backends are accepted.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	for _, scheme := range []string{"redis://", "rediss://", "mongodb://", "mongodb+srv://", "http://", "https://"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL has an unsupported scheme: %q", rawURL)
}
