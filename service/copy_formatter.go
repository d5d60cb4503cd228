package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ludo-technologies/copyscn/domain"
)

// CopyOutputFormatterImpl implements domain.CopyOutputFormatter
type CopyOutputFormatterImpl struct{}

// NewCopyOutputFormatter creates a new copy output formatter
func NewCopyOutputFormatter() *CopyOutputFormatterImpl {
	return &CopyOutputFormatterImpl{}
}

// FormatCopyResponse renders response in the requested format
func (f *CopyOutputFormatterImpl) FormatCopyResponse(response *domain.CopyResponse, format domain.OutputFormat, writer io.Writer) error {
	if response == nil {
		return domain.NewOutputError("nothing to format", nil)
	}
	switch format {
	case domain.OutputFormatText, "":
		return f.formatText(response, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.formatCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// formatText prints the classic report: clusters, then everybody involved,
// then a comma separated email list.
func (f *CopyOutputFormatterImpl) formatText(r *domain.CopyResponse, w io.Writer) error {
	var b strings.Builder

	if r.Question != "" {
		fmt.Fprintf(&b, "COPIES: File '%s', Question %s\n\n", r.Source, r.Question)
	} else {
		fmt.Fprintf(&b, "COPIES: File '%s'\n\n", r.Source)
	}

	for _, c := range r.Clusters {
		fmt.Fprintf(&b, "%s %s\n", c.Leader.ID, c.Leader.Name)
		for _, m := range c.Members {
			fmt.Fprintf(&b, "%s%s %s\n", strings.Repeat(" ", ItemPadding), m.ID, m.Name)
		}
		if c.Canonical != "" {
			fmt.Fprintf(&b, "%scanonical: %s\n", strings.Repeat(" ", ItemPadding), c.Canonical)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%d students involved in 'collaborating':\n", len(r.Involved))
	for _, s := range r.Involved {
		fmt.Fprintf(&b, "  %s %s\n", s.ID, s.Name)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Email list:  %s\n", strings.Join(r.EmailList, ","))

	if _, err := io.WriteString(w, b.String()); err != nil {
		return domain.NewOutputError("failed to write text report", err)
	}
	return nil
}

// formatCSV writes one row per student per cluster
func (f *CopyOutputFormatterImpl) formatCSV(r *domain.CopyResponse, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"cluster_id", "role", "id", "name", "email", "size"}); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}
	for _, c := range r.Clusters {
		for i, s := range c.Students() {
			role := "member"
			if i == 0 {
				role = "leader"
			}
			row := []string{strconv.Itoa(c.ID), role, s.ID, s.Name, s.Email, strconv.Itoa(c.Size)}
			if err := cw.Write(row); err != nil {
				return domain.NewOutputError("failed to write CSV row", err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return domain.NewOutputError("failed to flush CSV", err)
	}
	return nil
}

// FormatLanguages renders the registry listing for the languages command
func (f *CopyOutputFormatterImpl) FormatLanguages(langs []domain.LanguageInfo, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, langs)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, langs)
	case domain.OutputFormatText, "":
		utils := NewFormatUtils()
		var b strings.Builder
		b.WriteString(utils.FormatMainHeader("Supported languages"))
		for _, l := range langs {
			b.WriteString(utils.FormatSectionHeader(l.Name))
			b.WriteString(utils.FormatLabel("Extension", l.Extension))
			b.WriteString(utils.FormatLabel("Keywords", strings.Join(l.Keywords, " ")))
			b.WriteString("\n")
		}
		if _, err := io.WriteString(writer, b.String()); err != nil {
			return domain.NewOutputError("failed to write language list", err)
		}
		return nil
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}
