package errors

import (
	"strings"
	"unicode"
)

// ValidateOutputBase validates the base name used for generated files.
// The CNF, order and diagram files all derive their paths from it, so it
// must be a plain relative name without traversal sequences.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateOutputBase(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "output name cannot be empty")
	}

	const maxPathLength = 500
	if len(name) > maxPathLength {
		return New(ErrCodeInvalidPath, "output name too long (max %d characters)", maxPathLength)
	}

	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output name contains invalid characters")
		}
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidPath, "output name cannot contain path traversal sequences (..)")
	}

	if strings.Contains(name, "\\") {
		return New(ErrCodeInvalidPath, "output name cannot contain backslashes")
	}

	return nil
}

// ValidateManifestFilename validates a manifest filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateManifestFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidManifest, "manifest filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be a hidden file")
	}

	return nil
}
