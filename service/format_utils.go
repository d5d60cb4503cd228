package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/copyscn/domain"
)

// EncodeJSON returns an indented JSON string for the given value.
func EncodeJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", domain.NewOutputError("failed to marshal JSON", err)
	}
	return string(data), nil
}

// WriteJSON writes indented JSON for the given value to the writer.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode JSON", err)
	}
	return nil
}

// WriteYAML writes YAML for the given value to the writer.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode YAML", err)
	}
	return nil
}

// Standard formatting constants
const (
	HeaderWidth = 40
	LabelWidth  = 20
	ItemPadding = 4
)

// FormatUtils provides shared text formatting helpers
type FormatUtils struct{}

// NewFormatUtils creates a new format utilities instance
func NewFormatUtils() *FormatUtils {
	return &FormatUtils{}
}

// FormatMainHeader creates a standardized main header
func (f *FormatUtils) FormatMainHeader(title string) string {
	return title + "\n" + strings.Repeat("=", HeaderWidth) + "\n\n"
}

// FormatSectionHeader creates a standardized section header
func (f *FormatUtils) FormatSectionHeader(title string) string {
	return strings.ToUpper(title) + "\n" + strings.Repeat("-", len(title)) + "\n"
}

// FormatLabel right-aligns label to LabelWidth
func (f *FormatUtils) FormatLabel(label string, value interface{}) string {
	padding := LabelWidth - len(label)
	if padding < 0 {
		padding = 0
	}
	return fmt.Sprintf("%s%s: %v\n", strings.Repeat(" ", padding), label, value)
}

// FormatDuration formats duration in milliseconds consistently
func (f *FormatUtils) FormatDuration(durationMs int64) string {
	return fmt.Sprintf("%dms", durationMs)
}
