package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/copyscn/internal/version"
)

// newRootCmd assembles the command tree
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "copyscn",
		Short: "Find copied answers in programming quiz submissions",
		Long: `copyscn groups students whose answers to a programming question are
identical once comments, layout and identifier names are normalized away.

Submissions come from a quiz-server CSV export (one "Response <n>" column per
question) or from a directory holding one source file per student.

Features:
  • Comment stripping that respects string literals
  • Identifier masking per language (c, java, matlab, python)
  • Deterministic leader/member clusters and an email list for follow-up`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	rootCmd.AddCommand(NewDetectCmd())
	rootCmd.AddCommand(NewNormalizeCmd())
	rootCmd.AddCommand(NewLanguagesCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}
