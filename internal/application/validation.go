package application

import (
	"fmt"
	"path/filepath"
	"strings"

	"vpgsync/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "objectName" -> "object name")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"objectName": "object name",
		"path":       "path",
		"destPath":   "destination path",
		"text":       "text",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateVPGPath checks that a path names a .vpg file
func ValidateVPGPath(fieldName, path string) error {
	if err := ValidateRequired(fieldName, path); err != nil {
		return err
	}
	if !strings.EqualFold(filepath.Ext(path), domain.Extension) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("expected a %s file, got: %s", domain.Extension, path),
		}
	}
	return nil
}

// ValidateIndex checks that i addresses one of count elements
func ValidateIndex(fieldName string, i, count int) error {
	if i < 0 || i >= count {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("index %d out of range (have %d)", i, count),
		}
	}
	return nil
}
