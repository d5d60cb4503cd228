package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/copyscn/app"
	"github.com/ludo-technologies/copyscn/domain"
	"github.com/ludo-technologies/copyscn/internal/config"
	"github.com/ludo-technologies/copyscn/service"
)

// DetectCommand handles the copy detection CLI command
type DetectCommand struct {
	// Input parameters
	answers    string
	dir        string
	patterns   []string
	question   string
	iface      string
	configFile string

	// Normalization
	language        string
	exactOnly       bool
	maskIdentifiers bool
	placeholder     string

	// Clustering
	noAnswer      string
	strictLeaders bool

	// Output format flags (only one should be true)
	json bool
	csv  bool
	yaml bool

	// Output options
	outputDir      string
	submissionsDir string
	noWrite        bool
	emailDomain    string
	showCanonical  bool

	// Performance options
	workers int
	timeout time.Duration
}

// NewDetectCommand creates a new detect command
func NewDetectCommand() *DetectCommand {
	return &DetectCommand{
		language:        domain.DefaultLanguage,
		maskIdentifiers: true,
		placeholder:     domain.DefaultPlaceholder,
		noAnswer:        domain.DefaultNoAnswer,
		iface:           domain.DefaultInterfaceLanguage,
		workers:         domain.DefaultWorkers,
		timeout:         domain.DefaultTimeoutSeconds * time.Second,
	}
}

// CreateCobraCommand creates the Cobra command for copy detection
func (c *DetectCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Group students with identical normalized answers",
		Long: `Detect copied answers for one question.

Each answer is normalized (comments removed, identifiers masked, whitespace
dropped) and students whose normalized answers are identical are grouped. The
report lists every group (leader first, then members), everyone involved and
a comma separated email list.

Unless --no-write is given, raw answers read from a CSV export are also saved
as SubmissionsQ<n>/<id><ext> for manual review.

Examples:
  # Question 5 of a quiz export, Python answers
  copyscn detect --answers answers.csv --question 5

  # French export, MATLAB answers, JSON report
  copyscn detect --answers reponses.csv --question 2 --interface french \
    --language matlab --json

  # A directory with one Java file per student
  copyscn detect --dir submissions/ --language java --pattern '**/*.java'

  # Compare raw text only
  copyscn detect --answers answers.csv --question 1 --exact-only`,
		Args: cobra.NoArgs,
		RunE: c.runDetect,
	}

	// Input flags
	cmd.Flags().StringVarP(&c.answers, "answers", "a", "", "Quiz-server CSV export to read")
	cmd.Flags().StringVarP(&c.dir, "dir", "d", "", "Directory with one submission file per student")
	cmd.Flags().StringSliceVarP(&c.patterns, "pattern", "p", nil, "Glob pattern for --dir (repeatable, default **/*<ext>)")
	cmd.Flags().StringVarP(&c.question, "question", "q", "", "Question number (reads the \"Response <n>\" column)")
	cmd.Flags().StringVar(&c.iface, "interface", c.iface, "Export header language: english or french")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Path to configuration file")
	cmd.MarkFlagsMutuallyExclusive("answers", "dir")

	// Normalization flags
	cmd.Flags().StringVarP(&c.language, "language", "l", c.language, "Answer language: c, java, matlab, python")
	cmd.Flags().BoolVar(&c.exactOnly, "exact-only", false, "Compare raw text without any normalization")
	cmd.Flags().BoolVar(&c.maskIdentifiers, "mask-identifiers", c.maskIdentifiers, "Replace identifiers with a placeholder")
	cmd.Flags().StringVar(&c.placeholder, "placeholder", c.placeholder, "Identifier placeholder")

	// Clustering flags
	cmd.Flags().StringVar(&c.noAnswer, "no-answer", c.noAnswer, "Normalized answer meaning 'no answer'")
	cmd.Flags().BoolVar(&c.strictLeaders, "strict-leaders", false, "Never let an already grouped student lead a new group")

	// Output format flags
	cmd.Flags().BoolVar(&c.json, "json", false, "Generate JSON report file")
	cmd.Flags().BoolVar(&c.csv, "csv", false, "Generate CSV report file")
	cmd.Flags().BoolVar(&c.yaml, "yaml", false, "Generate YAML report file")

	// Output options
	cmd.Flags().StringVarP(&c.outputDir, "output-dir", "o", "", "Directory for report files")
	cmd.Flags().StringVar(&c.submissionsDir, "submissions-dir", "", "Directory receiving SubmissionsQ<n>")
	cmd.Flags().BoolVar(&c.noWrite, "no-write", false, "Do not save raw submissions")
	cmd.Flags().StringVar(&c.emailDomain, "email-domain", "", "Build addresses as <id>@<domain>")
	cmd.Flags().BoolVar(&c.showCanonical, "show-canonical", false, "Include normalized answers in the report")

	// Performance flags
	cmd.Flags().IntVarP(&c.workers, "workers", "w", c.workers, "Normalization workers")
	cmd.Flags().DurationVar(&c.timeout, "timeout", c.timeout, "Maximum detection time (e.g., 5m, 30s)")

	_ = cmd.Flags().MarkHidden("placeholder")
	_ = cmd.Flags().MarkHidden("show-canonical")

	return cmd
}

// runDetect executes the detect command
func (c *DetectCommand) runDetect(cmd *cobra.Command, args []string) error {
	cfg, ft, err := loadConfig(cmd, c.configFile)
	if err != nil {
		return err
	}
	c.applyCliOverrides(cfg, ft)
	applyLoggingFlags(cmd, cfg, ft)
	if err := validateConfig(cfg); err != nil {
		return err
	}

	request, err := c.createCopyRequest(cmd, cfg, ft)
	if err != nil {
		return err
	}

	useCase, err := c.createCopyUseCase(cmd, cfg)
	if err != nil {
		return fmt.Errorf("failed to create detect use case: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return useCase.Execute(ctx, *request)
}

// applyCliOverrides copies explicitly set flags onto the configuration
func (c *DetectCommand) applyCliOverrides(cfg *config.Config, ft *config.FlagTracker) {
	cfg.Normalize.Language = config.Merge(ft, cfg.Normalize.Language, c.language, "language")
	cfg.Normalize.ExactOnly = config.Merge(ft, cfg.Normalize.ExactOnly, c.exactOnly, "exact-only")
	cfg.Normalize.MaskIdentifiers = config.Merge(ft, cfg.Normalize.MaskIdentifiers, c.maskIdentifiers, "mask-identifiers")
	cfg.Normalize.Placeholder = config.Merge(ft, cfg.Normalize.Placeholder, c.placeholder, "placeholder")

	cfg.Cluster.NoAnswer = config.Merge(ft, cfg.Cluster.NoAnswer, c.noAnswer, "no-answer")
	cfg.Cluster.ReuseClaimedLeaders = config.Merge(ft, cfg.Cluster.ReuseClaimedLeaders, !c.strictLeaders, "strict-leaders")

	cfg.Input.Question = config.Merge(ft, cfg.Input.Question, c.question, "question")
	cfg.Input.InterfaceLanguage = config.Merge(ft, cfg.Input.InterfaceLanguage, c.iface, "interface")
	cfg.Input.Patterns = config.MergeStringSlice(ft, cfg.Input.Patterns, c.patterns, "pattern")

	cfg.Output.Directory = config.Merge(ft, cfg.Output.Directory, c.outputDir, "output-dir")
	cfg.Output.SubmissionsDirectory = config.Merge(ft, cfg.Output.SubmissionsDirectory, c.submissionsDir, "submissions-dir")
	cfg.Output.WriteSubmissions = config.Merge(ft, cfg.Output.WriteSubmissions, !c.noWrite, "no-write")
	cfg.Output.EmailDomain = config.Merge(ft, cfg.Output.EmailDomain, c.emailDomain, "email-domain")
	cfg.Output.ShowCanonical = config.Merge(ft, cfg.Output.ShowCanonical, c.showCanonical, "show-canonical")

	cfg.Performance.Workers = config.Merge(ft, cfg.Performance.Workers, c.workers, "workers")
	cfg.Performance.TimeoutSeconds = config.Merge(ft, cfg.Performance.TimeoutSeconds, int(c.timeout.Seconds()), "timeout")
}

// determineOutputFormat uses the format flags when any is set, otherwise
// output.format from the configuration
func (c *DetectCommand) determineOutputFormat(cfg *config.Config) (domain.OutputFormat, string, error) {
	resolver := service.NewOutputFormatResolver()
	if c.json || c.csv || c.yaml {
		return resolver.Determine(c.json, c.csv, c.yaml)
	}
	format, err := domain.ParseOutputFormat(cfg.Output.Format)
	if err != nil {
		return "", "", err
	}
	return format, resolver.Extension(format), nil
}

// createCopyRequest builds the request from the merged configuration
func (c *DetectCommand) createCopyRequest(cmd *cobra.Command, cfg *config.Config, ft *config.FlagTracker) (*domain.CopyRequest, error) {
	request := cfg.ToCopyRequest()
	request.AnswersPath = c.answers
	request.SubmissionsDir = c.dir
	request.ConfigPath = c.configFile
	if request.InputKind() == domain.InputKindDirectory && !ft.WasSet("question") {
		request.Question = ""
	}

	format, extension, err := c.determineOutputFormat(cfg)
	if err != nil {
		return nil, err
	}
	request.OutputFormat = format
	if err := request.Validate(); err != nil {
		return nil, err
	}

	if format == domain.OutputFormatText {
		request.OutputWriter = cmd.OutOrStdout()
		return request, nil
	}
	request.OutputPath, err = generateOutputFilePath(cfg.Output.Directory, extension)
	if err != nil {
		return nil, err
	}
	return request, nil
}

// createCopyUseCase wires the detect use case on the OS filesystem
func (c *DetectCommand) createCopyUseCase(cmd *cobra.Command, cfg *config.Config) (*app.CopyUseCase, error) {
	log := newLogger(cmd, cfg)
	fs := afero.NewOsFs()

	progress := service.NewProgressManager()
	progress.SetWriter(cmd.ErrOrStderr())

	return app.NewCopyUseCaseBuilder().
		WithService(service.NewCopyService(nil, progress, log)).
		WithRosterReader(service.NewRosterReader(fs, log)).
		WithDirectoryReader(service.NewDirectoryReader(fs, log)).
		WithSubmissionWriter(service.NewSubmissionWriter(fs, log)).
		WithFormatter(service.NewCopyOutputFormatter()).
		WithOutputWriter(service.NewFileOutputWriterFs(fs, cmd.ErrOrStderr())).
		WithLogger(log).
		Build()
}

// NewDetectCmd creates and returns the detect cobra command
func NewDetectCmd() *cobra.Command {
	return NewDetectCommand().CreateCobraCommand()
}
