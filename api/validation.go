// Package api provides the HTTP surface of the search engine.
package api

import (
	"fmt"
	"strconv"

	"github.com/gcbaptista/tfidf-search/model"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateSearchParams validates the k query parameter of a search. Any
// query text is valid: one without terms yields an empty result.
// An absent k yields defaultK; k must lie in [0, maxK].
func ValidateSearchParams(kParam string, defaultK, maxK int) (int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	k := defaultK
	if kParam != "" {
		parsed, err := strconv.Atoi(kParam)
		switch {
		case err != nil:
			result.AddError("k", "k must be an integer")
		case parsed < 0:
			result.AddError("k", "k must not be negative")
		case maxK > 0 && parsed > maxK:
			result.AddError("k", fmt.Sprintf("k must not exceed %d", maxK))
		default:
			k = parsed
		}
	}

	return k, result
}

// ValidateDocumentID validates a document ID path parameter
func ValidateDocumentID(documentID string) (int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	if documentID == "" {
		result.AddError("id", "Document ID is required")
		return 0, result
	}

	id, err := strconv.Atoi(documentID)
	if err != nil {
		result.AddError("id", "Document ID must be an integer")
		return 0, result
	}
	if id < 0 {
		result.AddError("id", "Document ID must not be negative")
		return 0, result
	}

	return id, result
}

// ValidateJobStatus validates an optional job status filter
func ValidateJobStatus(statusParam string) (*model.JobStatus, *ValidationResult) {
	result := &ValidationResult{Valid: true}
	if statusParam == "" {
		return nil, result
	}

	status := model.JobStatus(statusParam)
	switch status {
	case model.JobStatusPending, model.JobStatusRunning, model.JobStatusCompleted, model.JobStatusFailed:
		return &status, result
	default:
		result.AddError("status", "Unknown job status '"+statusParam+"'")
		return nil, result
	}
}
