package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeRateLimit represents a detected block-page redirect
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeValidation represents invalid search parameters
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeDateFormat represents a date outside the known vocabulary
	ErrorTypeDateFormat ErrorType = "date_format"
	// ErrorTypeMissingField represents a required ad field absent in markup
	ErrorTypeMissingField ErrorType = "missing_field"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScrapeError represents a scraper-specific error
type ScrapeError struct {
	Type    ErrorType
	Source  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Source, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *ScrapeError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	default:
		return false
	}
}

// New creates a new ScrapeError
func New(errType ErrorType, source, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(source, message string, err error) *ScrapeError {
	return New(ErrorTypeNetwork, source, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(source, message string) *ScrapeError {
	return New(ErrorTypeRateLimit, source, message, nil)
}

// NewValidation creates a new validation error
func NewValidation(source, message string) *ScrapeError {
	return New(ErrorTypeValidation, source, message, nil)
}

// NewDateFormat creates a new date format error
func NewDateFormat(source, message string, err error) *ScrapeError {
	return New(ErrorTypeDateFormat, source, message, err)
}

// NewMissingField creates a new missing field error
func NewMissingField(source, field string) *ScrapeError {
	return New(ErrorTypeMissingField, source, fmt.Sprintf("required field %q not found", field), nil)
}

// NewParsing creates a new parsing error
func NewParsing(source, message string, err error) *ScrapeError {
	return New(ErrorTypeParsing, source, message, err)
}

// NewCache creates a new cache error
func NewCache(source, message string, err error) *ScrapeError {
	return New(ErrorTypeCache, source, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(source, message string, err error) *ScrapeError {
	return New(ErrorTypePublisher, source, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, "", message, err)
}

func isType(err error, t ErrorType) bool {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Type == t
	}
	return false
}

// IsRateLimit reports whether err signals a block-page redirect
func IsRateLimit(err error) bool {
	return isType(err, ErrorTypeRateLimit)
}

// IsValidation reports whether err signals invalid search parameters
func IsValidation(err error) bool {
	return isType(err, ErrorTypeValidation)
}

// IsDateFormat reports whether err signals an unrecognized date format
func IsDateFormat(err error) bool {
	return isType(err, ErrorTypeDateFormat)
}

// IsMissingField reports whether err signals a missing required ad field
func IsMissingField(err error) bool {
	return isType(err, ErrorTypeMissingField)
}
