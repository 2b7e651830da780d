package errors

import (
	"strings"
	"unicode"
)

// MaxGridBytes bounds the size of a grid accepted over the network.
// Puzzle-sized grids are around 20 KiB.
const MaxGridBytes = 4 << 20

// ValidatePath validates a grid file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateGridBody performs cheap checks on raw grid text before parsing.
// It rejects blank bodies, oversized bodies and bodies containing null bytes.
// Structural problems (missing source, ragged rows) are left to the loader.
func ValidateGridBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return New(ErrCodeEmptyGrid, "grid is empty")
	}
	if len(body) > MaxGridBytes {
		return New(ErrCodeInvalidInput, "grid too large (max %d bytes)", MaxGridBytes)
	}
	if strings.ContainsRune(body, '\x00') {
		return New(ErrCodeInvalidInput, "grid contains null bytes")
	}
	return nil
}
