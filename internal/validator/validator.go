package validator

import (
	"fmt"
	"unicode/utf8"
)

const (
	MaxCommentLength = 100
	MaxMessageLength = 300
)

// ValidateString checks the length in characters, not bytes, so multibyte
// text gets the same budget the clients count.
func ValidateString(value string, minLength int, maxLength int) error {
	n := utf8.RuneCountInString(value)
	if n < minLength || n > maxLength {
		return fmt.Errorf("must contain from %d to %d characters", minLength, maxLength)
	}

	return nil
}

func ValidateUsername(value string) error {
	if err := ValidateString(value, 3, 30); err != nil {
		return fmt.Errorf("username %w", err)
	}

	return nil
}

func ValidatePassword(value string) error {
	if err := ValidateString(value, 6, 64); err != nil {
		return fmt.Errorf("password %w", err)
	}

	return nil
}
