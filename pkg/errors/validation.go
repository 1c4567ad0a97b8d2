package errors

import (
	"strings"
	"unicode"
)

// MaxBranchNameLength caps branch names to keep labels renderable.
const MaxBranchNameLength = 64

// ValidateBranchName validates a branch name supplied by a caller.
// The rules are intentionally conservative and independent of any real Git
// ref syntax:
//   - No empty names
//   - No control characters or whitespace
//   - No path separators or traversal sequences
//   - Maximum length of 64 characters
func ValidateBranchName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "branch name cannot be empty")
	}

	if len(name) > MaxBranchNameLength {
		return New(ErrCodeInvalidName, "branch name too long (max %d characters)", MaxBranchNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidName, "branch name contains whitespace or control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "branch name contains invalid sequence %q", pattern)
		}
	}

	return nil
}
