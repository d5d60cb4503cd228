package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ludo-technologies/copyscn/domain"
	"github.com/ludo-technologies/copyscn/service"
)

// generateTimestampedFileName generates a filename with timestamp suffix
func generateTimestampedFileName(prefix, extension string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format("20060102_150405"), extension)
}

// resolveOutputDirectory returns the configured report directory, or
// .copyscn/reports under the working directory
func resolveOutputDirectory(configured string) string {
	if configured != "" {
		return configured
	}
	cwd, err := os.Getwd()
	if err != nil {
		return domain.DefaultReportsDir
	}
	return filepath.Join(cwd, domain.DefaultReportsDir)
}

// generateOutputFilePath returns <dir>/copies_<timestamp>.<ext>, creating dir
func generateOutputFilePath(configuredDir, extension string) (string, error) {
	outputDir := resolveOutputDirectory(configuredDir)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", domain.NewOutputError(fmt.Sprintf("failed to create output directory %s", outputDir), err)
	}
	return filepath.Join(outputDir, generateTimestampedFileName(domain.ReportFilePrefix, extension, time.Now())), nil
}

// printError writes a categorized error with recovery suggestions
func printError(w io.Writer, err error) {
	categorizer := service.NewErrorCategorizer()
	categorized := categorizer.Categorize(err)
	if categorized == nil {
		return
	}

	fmt.Fprintf(w, "Error: %v\n", err)
	if categorized.Category != domain.ErrorCategoryUnknown {
		fmt.Fprintf(w, "\n%s: %s\n", categorized.Category, categorized.Message)
	}
	suggestions := categorizer.GetRecoverySuggestions(categorized.Category)
	if len(suggestions) > 0 {
		fmt.Fprintln(w, "\nSuggestions:")
		for _, s := range suggestions {
			fmt.Fprintf(w, "  • %s\n", s)
		}
	}
}
