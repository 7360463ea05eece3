package services

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound          = errors.New("interview session not found")
	ErrModelCallFailed          = errors.New("model call failed")
	ErrFeedbackGenerationFailed = errors.New("failed to generate interview feedback")
	ErrExtractionFailed         = errors.New("failed to extract document text")
	ErrUnauthorized             = errors.New("unauthorized")
	ErrTranscriptLimit          = errors.New("interview transcript limit reached")
)

// ModelCallError normalizes transport errors, non-2xx responses and empty
// candidate lists from a model endpoint.
type ModelCallError struct {
	Message string
	Cause   error
}

func (e *ModelCallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("model call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("model call failed: %s", e.Message)
}

func (e *ModelCallError) Unwrap() error {
	return e.Cause
}

func (e *ModelCallError) Is(target error) bool {
	return target == ErrModelCallFailed
}

func modelCallFailed(message string, cause error) error {
	return &ModelCallError{Message: message, Cause: cause}
}

// FeedbackParseError carries the raw and cleaned reply that could not be
// decoded into a FeedbackReport.
type FeedbackParseError struct {
	Raw     string
	Cleaned string
	Cause   error
}

func (e *FeedbackParseError) Error() string {
	return fmt.Sprintf("invalid feedback format: %v", e.Cause)
}

func (e *FeedbackParseError) Unwrap() error {
	return e.Cause
}

func (e *FeedbackParseError) Is(target error) bool {
	return target == ErrFeedbackGenerationFailed
}
