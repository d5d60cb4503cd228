package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/copyscn/domain"
	"github.com/ludo-technologies/copyscn/internal/config"
	"github.com/ludo-technologies/copyscn/internal/lang"
	"github.com/ludo-technologies/copyscn/service"
)

// NormalizeCommand prints the canonical form of one source file
type NormalizeCommand struct {
	language        string
	exactOnly       bool
	maskIdentifiers bool
	placeholder     string
	configFile      string
}

// NewNormalizeCommand creates a new normalize command
func NewNormalizeCommand() *NormalizeCommand {
	return &NormalizeCommand{
		language:        domain.DefaultLanguage,
		maskIdentifiers: true,
		placeholder:     domain.DefaultPlaceholder,
	}
}

// CreateCobraCommand creates the cobra command for normalization
func (n *NormalizeCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Print the normalized form of a source file",
		Long: `Print the canonical form copyscn compares for one answer.

Reads the file argument, or standard input when no file is given. Without
--language, the file extension selects the language when it is known.

Examples:
  copyscn normalize answer.py
  copyscn normalize --language matlab --mask-identifiers=false lab.m
  echo 'int x; // c' | copyscn normalize --language c`,
		Args: cobra.MaximumNArgs(1),
		RunE: n.runNormalize,
	}

	cmd.Flags().StringVarP(&n.language, "language", "l", n.language, "Source language: c, java, matlab, python")
	cmd.Flags().BoolVar(&n.exactOnly, "exact-only", false, "Print the input unchanged")
	cmd.Flags().BoolVar(&n.maskIdentifiers, "mask-identifiers", n.maskIdentifiers, "Replace identifiers with a placeholder")
	cmd.Flags().StringVar(&n.placeholder, "placeholder", n.placeholder, "Identifier placeholder")
	cmd.Flags().StringVarP(&n.configFile, "config", "c", "", "Path to configuration file")

	return cmd
}

func (n *NormalizeCommand) runNormalize(cmd *cobra.Command, args []string) error {
	cfg, ft, err := loadConfig(cmd, n.configFile)
	if err != nil {
		return err
	}
	cfg.Normalize.Language = config.Merge(ft, cfg.Normalize.Language, n.language, "language")
	cfg.Normalize.ExactOnly = config.Merge(ft, cfg.Normalize.ExactOnly, n.exactOnly, "exact-only")
	cfg.Normalize.MaskIdentifiers = config.Merge(ft, cfg.Normalize.MaskIdentifiers, n.maskIdentifiers, "mask-identifiers")
	cfg.Normalize.Placeholder = config.Merge(ft, cfg.Normalize.Placeholder, n.placeholder, "placeholder")
	applyLoggingFlags(cmd, cfg, ft)

	// A file extension known to the registry beats the configured language
	if len(args) == 1 && !ft.WasSet("language") {
		if p, ok := lang.DefaultRegistry().ByExtension(filepath.Ext(args[0])); ok {
			cfg.Normalize.Language = p.Name()
		}
	}

	source, err := n.readSource(cmd, args)
	if err != nil {
		return err
	}

	copies := service.NewCopyService(nil, nil, newLogger(cmd, cfg))
	canonical, err := copies.NormalizeSource(cfg.Normalize.Language, source, domain.NormalizeOptions{
		ExactOnly:       cfg.Normalize.ExactOnly,
		MaskIdentifiers: cfg.Normalize.MaskIdentifiers,
		Placeholder:     cfg.Normalize.Placeholder,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), canonical)
	return nil
}

func (n *NormalizeCommand) readSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", domain.NewInvalidInputError("failed to read standard input", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		if os.IsNotExist(err) {
			return "", domain.NewFileNotFoundError(args[0], err)
		}
		return "", domain.NewInvalidInputError(fmt.Sprintf("cannot read %s", args[0]), err)
	}
	return string(data), nil
}

// NewNormalizeCmd creates and returns the normalize cobra command
func NewNormalizeCmd() *cobra.Command {
	return NewNormalizeCommand().CreateCobraCommand()
}
