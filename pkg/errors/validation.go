package errors

import (
	"strings"
	"unicode"
)

const maxNameLength = 128

// ValidateUserID validates a user identifier used to scope output
// directories. It rejects anything that could escape the output root.
func ValidateUserID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "user id cannot be empty")
	}
	if err := validateName(id); err != nil {
		return New(ErrCodeInvalidInput, "invalid user id %q: %s", id, err.Message)
	}
	return nil
}

// ValidateCardName validates a card file name. It must be a plain basename
// with a .png extension. Card names derive from background file names, so
// inner dots and a leading dot are allowed; a name without separators
// cannot leave the user's directory.
func ValidateCardName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "card name cannot be empty")
	}
	if err := validateBasename(name); err != nil {
		return New(ErrCodeInvalidPath, "invalid card name %q: %s", name, err.Message)
	}
	if !strings.HasSuffix(strings.ToLower(name), ".png") {
		return New(ErrCodeInvalidPath, "card name %q must end in .png", name)
	}
	return nil
}

// validateName applies the rules for directory names:
//   - Everything validateBasename checks
//   - No traversal sequences
//   - No hidden names (leading dot)
func validateName(name string) *Error {
	if err := validateBasename(name); err != nil {
		return err
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidPath, "contains %q", "..")
	}
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidPath, "cannot be hidden")
	}
	return nil
}

// validateBasename accepts any single path component:
//   - Maximum length of 128 characters
//   - No control characters or null bytes
//   - No path separators
//   - Not "." or ".."
func validateBasename(name string) *Error {
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidPath, "too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "contains control characters")
		}
	}
	for _, sep := range []string{"/", "\\"} {
		if strings.Contains(name, sep) {
			return New(ErrCodeInvalidPath, "contains %q", sep)
		}
	}
	if name == "." || name == ".." {
		return New(ErrCodeInvalidPath, "not a file name")
	}
	return nil
}
