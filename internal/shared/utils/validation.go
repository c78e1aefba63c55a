package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Size limits (in bytes)
const (
	MaxMessageSize = 64 * 1024 * 1024 // bridge frames may carry whole files
	MaxPathLength  = 32 * 1024
	MaxIDLength    = 256
	MaxTitleLength = 1024
)

// ValidateSize checks if the data size is within limits
func ValidateSize(data []byte, maxSize int) error {
	if len(data) > maxSize {
		return fmt.Errorf("payload size %d bytes exceeds maximum %d bytes", len(data), maxSize)
	}
	return nil
}

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	if value == "" {
		return nil
	}

	if utf8.RuneCountInString(value) > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidatePath validates a file system path argument
func ValidatePath(path, fieldName string) error {
	return ValidateString(path, fieldName, MaxPathLength, true)
}

// ValidateMenuID validates a menu or menu item id
func ValidateMenuID(id, fieldName string, required bool) error {
	return ValidateString(id, fieldName, MaxIDLength, required)
}
