package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ludo-technologies/copyscn/domain"
)

type categoryPatterns struct {
	category domain.ErrorCategory
	patterns []string
}

// ErrorCategorizerImpl implements the ErrorCategorizer interface
type ErrorCategorizerImpl struct {
	codes    map[string]domain.ErrorCategory
	patterns []categoryPatterns
}

// NewErrorCategorizer creates a new error categorizer
func NewErrorCategorizer() domain.ErrorCategorizer {
	return &ErrorCategorizerImpl{
		codes: map[string]domain.ErrorCategory{
			domain.ErrCodeConfigError:         domain.ErrorCategoryConfig,
			domain.ErrCodeUnsupportedLanguage: domain.ErrorCategoryConfig,
			domain.ErrCodeUnsupportedFormat:   domain.ErrorCategoryConfig,
			domain.ErrCodeInvalidInput:        domain.ErrorCategoryInput,
			domain.ErrCodeFileNotFound:        domain.ErrorCategoryInput,
			domain.ErrCodeParseError:          domain.ErrorCategoryInput,
			domain.ErrCodeOutputError:         domain.ErrorCategoryOutput,
			domain.ErrCodeAnalysisError:       domain.ErrorCategoryProcessing,
		},
		patterns: initializeErrorPatterns(),
	}
}

// initializeErrorPatterns lists message patterns in match priority order
func initializeErrorPatterns() []categoryPatterns {
	return []categoryPatterns{
		{domain.ErrorCategoryTimeout, []string{
			"timeout",
			"timed out",
			"deadline",
			"context canceled",
		}},
		{domain.ErrorCategoryConfig, []string{
			"config",
			"unsupported language",
			"interface language",
			"toml",
			"flag",
		}},
		{domain.ErrorCategoryInput, []string{
			"no such file",
			"file not found",
			"missing column",
			"answers file",
			"directory",
			"permission denied",
			"email",
		}},
		{domain.ErrorCategoryOutput, []string{
			"write",
			"output",
			"cannot create",
			"report",
		}},
		{domain.ErrorCategoryProcessing, []string{
			"normaliz",
			"cluster",
		}},
	}
}

// Categorize determines the category of an error. Timeouts win, then
// domain error codes, then message patterns.
func (ec *ErrorCategorizerImpl) Categorize(err error) *domain.CategorizedError {
	if err == nil {
		return nil
	}

	category := domain.ErrorCategoryUnknown
	var de domain.DomainError
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		category = domain.ErrorCategoryTimeout
	case errors.As(err, &de) && ec.codes[de.Code] != "":
		category = ec.codes[de.Code]
	default:
		errMsg := strings.ToLower(err.Error())
		for _, cp := range ec.patterns {
			if containsAnyPattern(errMsg, cp.patterns) {
				category = cp.category
				break
			}
		}
	}

	message := err.Error()
	if category != domain.ErrorCategoryUnknown {
		message = ec.getCategoryMessage(category)
	}
	return &domain.CategorizedError{
		Category: category,
		Message:  message,
		Original: err,
	}
}

// GetRecoverySuggestions returns recovery suggestions for an error category
func (ec *ErrorCategorizerImpl) GetRecoverySuggestions(category domain.ErrorCategory) []string {
	suggestions := map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"Check that the answers file exists and is a quiz-server CSV export",
			"Use --interface french if the export has French column headers",
			"Check that --question matches a \"Response <n>\" column",
			"With --dir, check that --pattern matches the submission files",
		},
		domain.ErrorCategoryConfig: {
			"Run: copyscn languages to list supported languages",
			"Try: copyscn init to generate a valid .copyscn.toml",
			"Check COPYSCN_* environment variables for stale values",
		},
		domain.ErrorCategoryTimeout: {
			"Increase performance.timeout_seconds or pass --timeout",
			"Check for unusually large submissions",
		},
		domain.ErrorCategoryOutput: {
			"Ensure the output directory exists and is writable",
			"Try writing to a different location with --output-dir",
		},
		domain.ErrorCategoryProcessing: {
			"Run with --verbose for detailed progress information",
			"Retry with --workers 1 to rule out concurrency issues",
		},
		domain.ErrorCategoryUnknown: {
			"Run with --verbose --log-level debug for detailed error information",
			"Report the issue if it persists",
		},
	}

	if sug, ok := suggestions[category]; ok {
		return sug
	}
	return []string{"Check the error message for more details"}
}

func (ec *ErrorCategorizerImpl) getCategoryMessage(category domain.ErrorCategory) string {
	messages := map[domain.ErrorCategory]string{
		domain.ErrorCategoryInput:      "Failed to read submissions",
		domain.ErrorCategoryConfig:     "Configuration file or settings error",
		domain.ErrorCategoryTimeout:    "Detection timed out",
		domain.ErrorCategoryOutput:     "Failed to generate or write output",
		domain.ErrorCategoryProcessing: "Error while normalizing or clustering submissions",
	}

	if msg, ok := messages[category]; ok {
		return msg
	}
	return "An error occurred"
}

func containsAnyPattern(str string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(str, pattern) {
			return true
		}
	}
	return false
}
