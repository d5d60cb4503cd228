package app

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/ludo-technologies/copyscn/domain"
	svc "github.com/ludo-technologies/copyscn/service"
)

// CopyUseCase orchestrates the copy detection workflow: ingest, optionally
// persist raw submissions, detect and report.
type CopyUseCase struct {
	service   domain.CopyService
	roster    domain.RosterReader
	directory domain.DirectoryReader
	writer    domain.SubmissionWriter
	formatter domain.CopyOutputFormatter
	output    domain.ReportWriter
	logger    zerolog.Logger
}

// NewCopyUseCase creates a new copy use case
func NewCopyUseCase(
	service domain.CopyService,
	roster domain.RosterReader,
	directory domain.DirectoryReader,
	formatter domain.CopyOutputFormatter,
) *CopyUseCase {
	return &CopyUseCase{
		service:   service,
		roster:    roster,
		directory: directory,
		formatter: formatter,
		output:    svc.NewFileOutputWriter(nil),
		logger:    zerolog.Nop(),
	}
}

// Execute runs detection and writes the report to req.OutputPath, or to
// req.OutputWriter when no path is set
func (uc *CopyUseCase) Execute(ctx context.Context, req domain.CopyRequest) error {
	if req.OutputPath == "" && !req.HasValidOutputWriter() {
		return domain.NewInvalidInputError("no valid output writer specified", nil)
	}

	response, err := uc.DetectAndReturn(ctx, req)
	if err != nil {
		return err
	}

	var out io.Writer
	if req.OutputPath == "" {
		out = req.OutputWriter
	}
	return uc.output.Write(out, req.OutputPath, req.OutputFormat, func(w io.Writer) error {
		return uc.formatter.FormatCopyResponse(response, req.OutputFormat, w)
	})
}

// DetectAndReturn runs detection and returns the response without formatting
func (uc *CopyUseCase) DetectAndReturn(ctx context.Context, req domain.CopyRequest) (*domain.CopyResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Fail before touching the filesystem when the language is unknown
	language, err := uc.service.Language(req.Language)
	if err != nil {
		return nil, err
	}

	subs, err := uc.ingest(req, language)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug().
		Str("input", string(req.InputKind())).
		Str("source", req.Source()).
		Int("submissions", len(subs)).
		Msg("submissions loaded")

	if req.WriteSubmissions && req.InputKind() == domain.InputKindRoster && uc.writer != nil {
		dir, err := uc.writer.WriteSubmissions(req.SubmissionsOut, req.Question, language.Extension, subs)
		if err != nil {
			return nil, err
		}
		uc.logger.Info().Str("dir", dir).Int("files", len(subs)).Msg("submissions saved")
	}

	response, err := uc.service.DetectCopies(ctx, &req, subs)
	if err != nil {
		return nil, fmt.Errorf("copy detection failed: %w", err)
	}
	return response, nil
}

func (uc *CopyUseCase) ingest(req domain.CopyRequest, language domain.LanguageInfo) ([]domain.RawSubmission, error) {
	switch req.InputKind() {
	case domain.InputKindDirectory:
		if uc.directory == nil {
			return nil, domain.NewConfigError("directory input is not available", nil)
		}
		patterns := req.Patterns
		if len(patterns) == 0 {
			patterns = svc.DefaultPatterns(language.Extension)
		}
		return uc.directory.ReadDirectory(req.SubmissionsDir, patterns)
	default:
		if uc.roster == nil {
			return nil, domain.NewConfigError("answers file input is not available", nil)
		}
		return uc.roster.ReadRoster(req.AnswersPath, req.Question, req.InterfaceLanguage)
	}
}

// CopyUseCaseBuilder provides a builder pattern for creating CopyUseCase
type CopyUseCaseBuilder struct {
	service   domain.CopyService
	roster    domain.RosterReader
	directory domain.DirectoryReader
	writer    domain.SubmissionWriter
	formatter domain.CopyOutputFormatter
	output    domain.ReportWriter
	logger    *zerolog.Logger
}

// NewCopyUseCaseBuilder creates a new builder
func NewCopyUseCaseBuilder() *CopyUseCaseBuilder {
	return &CopyUseCaseBuilder{}
}

// WithService sets the copy service
func (b *CopyUseCaseBuilder) WithService(service domain.CopyService) *CopyUseCaseBuilder {
	b.service = service
	return b
}

// WithRosterReader sets the answers file reader
func (b *CopyUseCaseBuilder) WithRosterReader(roster domain.RosterReader) *CopyUseCaseBuilder {
	b.roster = roster
	return b
}

// WithDirectoryReader sets the submissions directory reader
func (b *CopyUseCaseBuilder) WithDirectoryReader(directory domain.DirectoryReader) *CopyUseCaseBuilder {
	b.directory = directory
	return b
}

// WithSubmissionWriter sets the writer for SubmissionsQ<n> directories
func (b *CopyUseCaseBuilder) WithSubmissionWriter(writer domain.SubmissionWriter) *CopyUseCaseBuilder {
	b.writer = writer
	return b
}

// WithFormatter sets the output formatter
func (b *CopyUseCaseBuilder) WithFormatter(formatter domain.CopyOutputFormatter) *CopyUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithOutputWriter sets the report writer
func (b *CopyUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *CopyUseCaseBuilder {
	b.output = output
	return b
}

// WithLogger sets the logger
func (b *CopyUseCaseBuilder) WithLogger(logger zerolog.Logger) *CopyUseCaseBuilder {
	b.logger = &logger
	return b
}

// Build creates the CopyUseCase with the configured dependencies
func (b *CopyUseCaseBuilder) Build() (*CopyUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("copy service is required")
	}
	if b.roster == nil && b.directory == nil {
		return nil, fmt.Errorf("a roster reader or a directory reader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	uc := NewCopyUseCase(b.service, b.roster, b.directory, b.formatter)
	uc.writer = b.writer
	if b.output != nil {
		uc.output = b.output
	}
	if b.logger != nil {
		uc.logger = *b.logger
	}
	return uc, nil
}
