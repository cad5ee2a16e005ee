package asset

import (
	"errors"
	"fmt"
	"strings"
)

// MaxNameLength is the longest accepted asset name.
const MaxNameLength = 32

// ErrInvalidName is returned when an asset name fails validation.
var ErrInvalidName = errors.New("asset: invalid name")

// ValidateName checks an asset name.
//
// A valid name starts with a lowercase ASCII letter, contains only
// lowercase letters, digits and the separators '_', '-', '/' and '.',
// does not end with a separator, never repeats a separator ("//", "__",
// "--", ".."), and is at most [MaxNameLength] bytes long.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: %q is longer than %d bytes", ErrInvalidName, name, MaxNameLength)
	}
	if name[0] < 'a' || name[0] > 'z' {
		return fmt.Errorf("%w: %q must start with a-z", ErrInvalidName, name)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case isSeparator(c):
		default:
			return fmt.Errorf("%w: %q contains %q", ErrInvalidName, name, c)
		}
	}
	if isSeparator(name[len(name)-1]) {
		return fmt.Errorf("%w: %q ends with a separator", ErrInvalidName, name)
	}
	for _, dup := range [...]string{"//", "__", "--", ".."} {
		if strings.Contains(name, dup) {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidName, name, dup)
		}
	}
	return nil
}

func isSeparator(c byte) bool {
	return c == '_' || c == '-' || c == '/' || c == '.'
}
