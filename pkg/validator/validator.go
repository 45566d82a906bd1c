package validator

import (
	"fmt"
	"slices"
	"strings"
)

func All(errors ...error) error {
	for _, err := range errors {
		if err != nil {
			return err
		}
	}
	return nil
}

type Validatable interface {
	Validate() error
}

func Each[T Validatable](items []T) error {
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func Map[T any](items []T, f func(T, string) error, description string) error {
	for i, item := range items {
		if err := f(item, fmt.Sprintf("%s[%d]", description, i)); err != nil {
			return err
		}
	}
	return nil
}

func MapDict[T any](items map[string]T, f func(string, T) error, description string) error {
	for key, item := range items {
		if err := f(key, item); err != nil {
			return fmt.Errorf("%s: %w", description, err)
		}
	}
	return nil
}

func NotEmpty(field, description string) error {
	if field == "" {
		return fmt.Errorf("%s must not be empty", description)
	}
	return nil
}

func NoDuplicates[T comparable](slice []T, description string) error {
	seen := make(map[T]struct{})
	for _, v := range slice {
		if _, ok := seen[v]; ok {
			return fmt.Errorf("%s contains duplicate value: %v", description, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}

func MatchesAllowed[T comparable](field T, allowed []T, description string) error {
	if !slices.Contains(allowed, field) {
		return fmt.Errorf("%s must be one of %v, got %v", description, allowed, field)
	}
	return nil
}

func NonNegative(n int, description string) error {
	if n < 0 {
		return fmt.Errorf("%s must not be negative, got %d", description, n)
	}
	return nil
}

// HasNoDelimiters rejects values that would be read as template blocks.
func HasNoDelimiters(field string, description string) error {
	if field != "" && (strings.Contains(field, "{{") || strings.Contains(field, "{%")) {
		return fmt.Errorf("%s must not contain template blocks", description)
	}
	return nil
}

// Identifier rejects context keys that a value block could never reference:
// keys with whitespace, or keys equal to a reserved word.
func Identifier(key string, reserved []string, description string) error {
	if key == "" {
		return fmt.Errorf("%s must not be empty", description)
	}
	if strings.ContainsAny(key, " \t\r\n") {
		return fmt.Errorf("%s %q must not contain whitespace", description, key)
	}
	if slices.Contains(reserved, key) {
		return fmt.Errorf("%s %q is a reserved word", description, key)
	}
	return nil
}
