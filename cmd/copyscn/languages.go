package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/copyscn/service"
)

// LanguagesCommand lists the registered language profiles
type LanguagesCommand struct {
	json bool
	yaml bool
}

// CreateCobraCommand creates the cobra command for the language listing
func (l *LanguagesCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List supported answer languages",
		Long: `List every language profile with its file extension and the keywords
that are never masked.

Examples:
  copyscn languages
  copyscn languages --json`,
		Args: cobra.NoArgs,
		RunE: l.runLanguages,
	}

	cmd.Flags().BoolVar(&l.json, "json", false, "Print as JSON")
	cmd.Flags().BoolVar(&l.yaml, "yaml", false, "Print as YAML")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
	return cmd
}

func (l *LanguagesCommand) runLanguages(cmd *cobra.Command, args []string) error {
	format, _, err := service.NewOutputFormatResolver().Determine(l.json, false, l.yaml)
	if err != nil {
		return err
	}
	copies := service.NewCopyService(nil, nil, zerolog.Nop())
	return service.NewCopyOutputFormatter().FormatLanguages(copies.Languages(), format, cmd.OutOrStdout())
}

// NewLanguagesCmd creates and returns the languages cobra command
func NewLanguagesCmd() *cobra.Command {
	return (&LanguagesCommand{}).CreateCobraCommand()
}
