package capture

import (
	"errors"
	"fmt"
)

// FormatErrorCode categorizes capture loading failures.
type FormatErrorCode string

const (
	// ErrCodeParse indicates the file content could not be decoded.
	ErrCodeParse FormatErrorCode = "PARSE"

	// ErrCodeNotMonotonic indicates transition times are not strictly increasing.
	ErrCodeNotMonotonic FormatErrorCode = "NOT_MONOTONIC"

	// ErrCodeUnknownFormat indicates the file extension is not recognized.
	ErrCodeUnknownFormat FormatErrorCode = "UNKNOWN_FORMAT"

	// ErrCodeIO indicates the file could not be opened or written.
	ErrCodeIO FormatErrorCode = "IO"
)

// FormatError reports why a capture could not be loaded.
type FormatError struct {
	Code    FormatErrorCode
	Format  string // "xml", "cbor", "yaml" when known
	Message string
	Index   int // offending transition for ErrCodeNotMonotonic
	Err     error
}

func (e *FormatError) Error() string {
	prefix := string(e.Code)
	if e.Format != "" {
		prefix = fmt.Sprintf("%s %s", e.Format, e.Code)
	}
	if e.Code == ErrCodeNotMonotonic {
		return fmt.Sprintf("%s: %s (transition %d)", prefix, e.Message, e.Index)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsFormatError reports whether err is a capture format error.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
