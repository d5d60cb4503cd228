package domain

import (
	"context"
	"io"
	"time"
)

// OutputFormat represents the supported report formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// ParseOutputFormat maps a user supplied name onto an OutputFormat.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch OutputFormat(name) {
	case "", OutputFormatText:
		return OutputFormatText, nil
	case OutputFormatJSON, OutputFormatYAML, OutputFormatCSV:
		return OutputFormat(name), nil
	default:
		return "", NewUnsupportedFormatError(name)
	}
}

// ReportWriter abstracts writing reports to a destination (file or writer).
//
// Implementations live in the service layer.
type ReportWriter interface {
	// Write passes either a freshly created file at outputPath or, when
	// outputPath is empty, the provided writer to writeFunc.
	Write(writer io.Writer, outputPath string, format OutputFormat, writeFunc func(io.Writer) error) error
}

// ProgressManager tracks normalization progress
type ProgressManager interface {
	// Initialize sets up progress tracking with the maximum value
	Initialize(maxValue int)

	// Start starts the progress bar
	Start()

	// Complete marks the progress as completed
	Complete(success bool)

	// Update updates the progress
	Update(processed, total int)

	// SetWriter sets the output writer for progress bars
	SetWriter(writer io.Writer)

	// IsInteractive returns true if progress bars should be shown
	IsInteractive() bool

	// Close cleans up any resources
	Close()
}

// ParallelExecutor runs independent tasks on a bounded pool
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
	SetMaxConcurrency(max int)
	SetTimeout(timeout time.Duration)
}

// ExecutableTask represents a task that can be executed in parallel
type ExecutableTask interface {
	Name() string
	Execute(ctx context.Context) (interface{}, error)
	IsEnabled() bool
}

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	ErrorCategoryInput      ErrorCategory = "Input Error"
	ErrorCategoryConfig     ErrorCategory = "Configuration Error"
	ErrorCategoryProcessing ErrorCategory = "Processing Error"
	ErrorCategoryOutput     ErrorCategory = "Output Error"
	ErrorCategoryTimeout    ErrorCategory = "Timeout Error"
	ErrorCategoryUnknown    ErrorCategory = "Unknown Error"
)

// CategorizedError represents an error with category information
type CategorizedError struct {
	Category ErrorCategory
	Message  string
	Original error
}

// Error implements the error interface
func (e *CategorizedError) Error() string {
	if e.Original != nil {
		return e.Original.Error()
	}
	return e.Message
}

// Unwrap exposes the original error to errors.Is / errors.As
func (e *CategorizedError) Unwrap() error {
	return e.Original
}

// ErrorCategorizer categorizes errors for better reporting
type ErrorCategorizer interface {
	Categorize(err error) *CategorizedError
	GetRecoverySuggestions(category ErrorCategory) []string
}
