package form

import (
	"strconv"
	"strings"
	"unicode"
)

// Field keys used in FormState.FieldErrors.
const (
	FieldName = "name"
	FieldAge  = "age"
	FieldFile = "file"
)

// MaxFileSize is the largest accepted upload, 5 MiB.
const MaxFileSize = 5 * 1024 * 1024

// Validation messages shared by the controller and the intake service.
const (
	MsgNameRequired    = "Name is required"
	MsgNameTooShort    = "Name must be at least 2 characters"
	MsgNameLettersOnly = "Name should only contain letters"
	MsgAgeRequired     = "Age is required"
	MsgAgeOutOfRange   = "Age must be between 0 and 150"
	MsgFileType        = "Only PDF, JPEG, and PNG files are allowed"
	MsgFileTooLarge    = "File size should be less than 5MB"
)

var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// AllowedFileType reports whether mimeType is one of the accepted
// medical-record formats.
func AllowedFileType(mimeType string) bool {
	return allowedMimeTypes[mimeType]
}

// ValidateName returns the validation message for a name value, or "" when
// the name is acceptable.
func ValidateName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return MsgNameRequired
	}
	if len([]rune(trimmed)) < 2 {
		return MsgNameTooShort
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return MsgNameLettersOnly
		}
	}
	return ""
}

// ValidateAge returns the validation message for an age value, or "" when
// the age is acceptable. Non-numeric input maps to the range message.
func ValidateAge(age string) string {
	if strings.TrimSpace(age) == "" {
		return MsgAgeRequired
	}
	n, err := strconv.Atoi(strings.TrimSpace(age))
	if err != nil || n < 0 || n > 150 {
		return MsgAgeOutOfRange
	}
	return ""
}

// ValidateFile checks size then type; the size limit applies regardless of
// the declared type. Returns "" when the file is acceptable.
func ValidateFile(mimeType string, size int64) string {
	if size > MaxFileSize {
		return MsgFileTooLarge
	}
	if !AllowedFileType(mimeType) {
		return MsgFileType
	}
	return ""
}
