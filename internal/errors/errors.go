package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrDocumentNotFound is returned when a document ID is not registered
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidInput is returned when an argument fails validation (e.g. a negative topK)
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexNotFinalized is returned when a query runs before the weights were computed
	ErrIndexNotFinalized = errors.New("index not finalized")

	// ErrAlreadyFinalized is returned when the index is mutated or finalized a second time
	ErrAlreadyFinalized = errors.New("index already finalized")

	// ErrOutOfOrder is returned when occurrences are recorded out of document order
	ErrOutOfOrder = errors.New("occurrence recorded out of document order")

	// ErrExtraction is returned when the text of a document cannot be extracted
	ErrExtraction = errors.New("text extraction failed")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")
)

// DocumentNotFoundError represents an out-of-range document ID lookup
type DocumentNotFoundError struct {
	DocID int
	Size  int
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("document with ID %d not found (registry holds %d documents)", e.DocID, e.Size)
}

func (e *DocumentNotFoundError) Is(target error) bool {
	return target == ErrDocumentNotFound
}

// NewDocumentNotFoundError creates a new DocumentNotFoundError
func NewDocumentNotFoundError(docID, size int) *DocumentNotFoundError {
	return &DocumentNotFoundError{DocID: docID, Size: size}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// OutOfOrderError reports a recordOccurrence call for a document that precedes
// one already recorded.
type OutOfOrderError struct {
	Term      string
	DocID     int
	LastDocID int
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("term '%s' recorded for document %d after document %d", e.Term, e.DocID, e.LastDocID)
}

func (e *OutOfOrderError) Is(target error) bool {
	return target == ErrOutOfOrder
}

// NewOutOfOrderError creates a new OutOfOrderError
func NewOutOfOrderError(term string, docID, lastDocID int) *OutOfOrderError {
	return &OutOfOrderError{Term: term, DocID: docID, LastDocID: lastDocID}
}

// ExtractionError wraps the I/O failure raised while extracting a document's text
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting text from '%s': %v", e.Path, e.Err)
}

func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError
func NewExtractionError(path string, err error) *ExtractionError {
	return &ExtractionError{Path: path, Err: err}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}
