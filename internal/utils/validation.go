package utils

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Compiled regular expressions for validation
var (
	// Letters (accents included), digits, space and a little punctuation: "Fazenda 1", "Fazenda São João"
	validFarmPattern = regexp.MustCompile(`^[\p{L}\p{N} _.'-]+$`)

	// Detect potentially dangerous characters - more focused on injection patterns
	dangerousPattern = regexp.MustCompile(`[<>]|--|\/\*|\*\/|;.*--`)

	// Detect HTML/script tags
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

const (
	maxFarmNameLength = 100
	maxAge            = 200
)

// ValidateFarmName validates that a farm label is safe and within reasonable limits
func ValidateFarmName(name string) error {
	if name == "" {
		return errors.New("farm cannot be empty")
	}

	if utf8.RuneCountInString(name) > maxFarmNameLength {
		return errors.New("farm too long (max 100 characters)")
	}

	if !validFarmPattern.MatchString(name) {
		return errors.New("farm contains invalid characters")
	}

	return nil
}

// ValidateAge bounds an age filter value in years.
func ValidateAge(age int) error {
	if age < 0 {
		return errors.New("age must be non-negative")
	}
	if age > maxAge {
		return errors.New("age too large (max 200 years)")
	}
	return nil
}

// ValidateQuery validates free-text strings such as the admin key header
func ValidateQuery(query string) error {
	if query == "" {
		return nil
	}

	if len(query) > 200 {
		return errors.New("query too long (max 200 characters)")
	}

	if dangerousPattern.MatchString(query) {
		return errors.New("query contains invalid characters")
	}

	return nil
}

// SanitizeInput removes HTML tags and other potentially dangerous content
func SanitizeInput(input string) string {
	sanitized := htmlTagPattern.ReplaceAllString(input, "")
	return strings.TrimSpace(sanitized)
}
