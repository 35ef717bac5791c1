package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeFetch represents page fetch errors after all strategies failed
	ErrorTypeFetch ErrorType = "fetch"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeEnrichment represents AI enrichment errors
	ErrorTypeEnrichment ErrorType = "enrichment"
	// ErrorTypeImage represents image processing errors
	ErrorTypeImage ErrorType = "image"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeValidation represents request validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ImportError represents an import-pipeline error
type ImportError struct {
	Type    ErrorType
	Source  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Source, e.Message)
}

// Unwrap returns the underlying error
func (e *ImportError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *ImportError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeFetch:
		return true
	case ErrorTypeEnrichment:
		return true
	case ErrorTypeRateLimit:
		return false
	default:
		return false
	}
}

// New creates a new ImportError
func New(errType ErrorType, source, message string, err error) *ImportError {
	return &ImportError{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewFetch creates a new fetch error
func NewFetch(source, message string, err error) *ImportError {
	return New(ErrorTypeFetch, source, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(source, message string, err error) *ImportError {
	return New(ErrorTypeParsing, source, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(source string, duration time.Duration) *ImportError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, source, message, nil)
}

// NewEnrichment creates a new enrichment error
func NewEnrichment(source, message string, err error) *ImportError {
	return New(ErrorTypeEnrichment, source, message, err)
}

// NewImage creates a new image processing error
func NewImage(source, message string, err error) *ImportError {
	return New(ErrorTypeImage, source, message, err)
}

// NewCache creates a new cache error
func NewCache(source, message string, err error) *ImportError {
	return New(ErrorTypeCache, source, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(source, message string, err error) *ImportError {
	return New(ErrorTypePublisher, source, message, err)
}

// NewValidation creates a new validation error
func NewValidation(source, message string) *ImportError {
	return New(ErrorTypeValidation, source, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ImportError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsType reports whether err is an ImportError of the given type
func IsType(err error, t ErrorType) bool {
	var ie *ImportError
	if errors.As(err, &ie) {
		return ie.Type == t
	}
	return false
}

// IsFetch reports whether err is a fetch error
func IsFetch(err error) bool {
	return IsType(err, ErrorTypeFetch)
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsRateLimit reports whether err is a rate limit error
func IsRateLimit(err error) bool {
	return IsType(err, ErrorTypeRateLimit)
}
