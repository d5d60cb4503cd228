package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/copyscn/domain"
	"github.com/ludo-technologies/copyscn/internal/config"
)

// InitCommand represents the init command
type InitCommand struct {
	force      bool
	configPath string
}

// NewInitCommand creates a new init command
func NewInitCommand() *InitCommand {
	return &InitCommand{
		configPath: domain.ConfigFileName,
	}
}

// CreateCobraCommand creates the cobra command for configuration initialization
func (i *InitCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize copyscn configuration file",
		Long: `Create a .copyscn.toml file holding every setting at its default value,
with a comment per setting.

copyscn looks for .copyscn.toml in the working directory and its parents, so
one file at the root of a course directory covers every quiz below it.

Examples:
  # Create .copyscn.toml in current directory
  copyscn init

  # Create config file with custom name
  copyscn init --config course.toml

  # Overwrite existing configuration file
  copyscn init --force`,
		Args: cobra.NoArgs,
		RunE: i.runInit,
	}

	cmd.Flags().BoolVarP(&i.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVarP(&i.configPath, "config", "c", i.configPath, "Configuration file path")
	return cmd
}

func (i *InitCommand) runInit(cmd *cobra.Command, args []string) error {
	configPath, err := filepath.Abs(i.configPath)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil && !i.force {
		return domain.NewConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath), nil)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to create directory %s", configDir), err)
	}

	configData, err := config.GenerateDefaultConfigTOML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, []byte(configData), 0644); err != nil {
		return domain.NewOutputError("failed to write configuration file", err)
	}

	relPath, err := filepath.Rel(".", configPath)
	if err != nil {
		relPath = configPath
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Configuration file created: %s\n", relPath)
	fmt.Fprintf(cmd.OutOrStdout(), "\nNext steps:\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  1. Edit %s (language, question, interface_language)\n", relPath)
	fmt.Fprintf(cmd.OutOrStdout(), "  2. Run 'copyscn detect --answers <export.csv>'\n")
	return nil
}

// NewInitCmd creates and returns the init cobra command
func NewInitCmd() *cobra.Command {
	return NewInitCommand().CreateCobraCommand()
}
