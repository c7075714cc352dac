package types

import (
	"errors"
	"fmt"
)

// ConfigurationError reports invalid caller configuration.
// The run is aborted before any page is extracted.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// NotFoundError is a recoverable halt: something the run depends on could not be located.
// Hint carries guidance for the user (switch to manual mode, check the marker, ...).
type NotFoundError struct {
	What string
	Hint string
}

func (e *NotFoundError) Error() string {
	if e.Hint == "" {
		return e.What + " not found"
	}
	return fmt.Sprintf("%s not found: %s", e.What, e.Hint)
}

// ExtractionError wraps a failure raised by the document source.
// Page is 0 for document-level operations (page count, labels).
type ExtractionError struct {
	Op   string
	Page int
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("extract %s (page %d): %v", e.Op, e.Page, e.Err)
	}
	return fmt.Sprintf("extract %s: %v", e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConfiguration reports whether err is (or wraps) a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
