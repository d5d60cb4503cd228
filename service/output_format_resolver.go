package service

import (
	"fmt"

	"github.com/ludo-technologies/copyscn/domain"
)

// OutputFormatResolver resolves output format and file extension from flags.
type OutputFormatResolver struct{}

func NewOutputFormatResolver() *OutputFormatResolver { return &OutputFormatResolver{} }

// Determine evaluates format flags and returns the selected format and extension.
// At most one flag may be set; none selects text with no extension.
func (r *OutputFormatResolver) Determine(json, csv, yaml bool) (domain.OutputFormat, string, error) {
	formatCount := 0
	format := domain.OutputFormatText

	if json {
		formatCount++
		format = domain.OutputFormatJSON
	}
	if csv {
		formatCount++
		format = domain.OutputFormatCSV
	}
	if yaml {
		formatCount++
		format = domain.OutputFormatYAML
	}

	if formatCount > 1 {
		return "", "", domain.NewConfigError(fmt.Sprintf("only one output format flag can be specified, got %d", formatCount), nil)
	}
	return format, r.Extension(format), nil
}

// Extension returns the report file extension, empty for text
func (r *OutputFormatResolver) Extension(format domain.OutputFormat) string {
	switch format {
	case domain.OutputFormatJSON, domain.OutputFormatCSV, domain.OutputFormatYAML:
		return string(format)
	default:
		return ""
	}
}
