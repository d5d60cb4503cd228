package domain

import (
	"context"
	"io"
	"strings"
	"time"
)

// InputKind identifies where submissions are read from
type InputKind string

const (
	InputKindRoster    InputKind = "roster"
	InputKindDirectory InputKind = "directory"
)

// CopyRequest represents a request for copy detection over one question
type CopyRequest struct {
	// Input: exactly one of AnswersPath or SubmissionsDir
	AnswersPath       string   `json:"answers_path,omitempty" yaml:"answers_path,omitempty"`
	SubmissionsDir    string   `json:"submissions_dir,omitempty" yaml:"submissions_dir,omitempty"`
	Patterns          []string `json:"patterns,omitempty" yaml:"patterns,omitempty"`
	Question          string   `json:"question" yaml:"question"`
	InterfaceLanguage string   `json:"interface_language" yaml:"interface_language"`

	// Normalization
	Language        string `json:"language" yaml:"language"`
	ExactOnly       bool   `json:"exact_only" yaml:"exact_only"`
	MaskIdentifiers bool   `json:"mask_identifiers" yaml:"mask_identifiers"`
	Placeholder     string `json:"placeholder" yaml:"placeholder"`

	// Clustering
	NoAnswer            string `json:"no_answer" yaml:"no_answer"`
	ReuseClaimedLeaders bool   `json:"reuse_claimed_leaders" yaml:"reuse_claimed_leaders"`

	// Output
	OutputFormat     OutputFormat `json:"output_format" yaml:"output_format"`
	OutputWriter     io.Writer    `json:"-" yaml:"-"`
	OutputPath       string       `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	SubmissionsOut   string       `json:"submissions_out,omitempty" yaml:"submissions_out,omitempty"`
	WriteSubmissions bool         `json:"write_submissions" yaml:"write_submissions"`
	EmailDomain      string       `json:"email_domain,omitempty" yaml:"email_domain,omitempty"`
	ShowCanonical    bool         `json:"show_canonical" yaml:"show_canonical"`

	// Performance
	Workers int           `json:"workers" yaml:"workers"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Configuration file
	ConfigPath string `json:"config_path,omitempty" yaml:"config_path,omitempty"`
}

// InputKind reports which ingestion path the request selects
func (req *CopyRequest) InputKind() InputKind {
	if req.SubmissionsDir != "" {
		return InputKindDirectory
	}
	return InputKindRoster
}

// Source names the input for report headers
func (req *CopyRequest) Source() string {
	if req.InputKind() == InputKindDirectory {
		return req.SubmissionsDir
	}
	return req.AnswersPath
}

// Validate validates a copy request
func (req *CopyRequest) Validate() error {
	if req.AnswersPath == "" && req.SubmissionsDir == "" {
		return NewValidationError("either an answers file or a submissions directory is required")
	}
	if req.AnswersPath != "" && req.SubmissionsDir != "" {
		return NewValidationError("answers file and submissions directory are mutually exclusive")
	}
	if req.InputKind() == InputKindRoster && strings.TrimSpace(req.Question) == "" {
		return NewConfigError("question is required when reading an answers file", nil)
	}
	if strings.TrimSpace(req.Language) == "" {
		return NewConfigError("language is required", nil)
	}
	if !req.ExactOnly && req.MaskIdentifiers && req.Placeholder == "" {
		return NewConfigError("placeholder must not be empty when masking identifiers", nil)
	}
	if req.NoAnswer == "" {
		return NewConfigError("no_answer sentinel must not be empty", nil)
	}
	if req.Workers < 0 {
		return NewValidationError("workers must be >= 0")
	}
	if req.Timeout < 0 {
		return NewValidationError("timeout must be >= 0")
	}
	if _, err := ParseOutputFormat(string(req.OutputFormat)); err != nil {
		return err
	}
	return nil
}

// HasValidOutputWriter checks if the request has a valid output writer
func (req *CopyRequest) HasValidOutputWriter() bool {
	return req.OutputWriter != nil
}

// DefaultCopyRequest returns a request populated with the built-in defaults
func DefaultCopyRequest() *CopyRequest {
	return &CopyRequest{
		InterfaceLanguage:   DefaultInterfaceLanguage,
		Language:            DefaultLanguage,
		MaskIdentifiers:     true,
		Placeholder:         DefaultPlaceholder,
		NoAnswer:            DefaultNoAnswer,
		ReuseClaimedLeaders: true,
		OutputFormat:        OutputFormatText,
		SubmissionsOut:      DefaultSubmissionsDir,
		WriteSubmissions:    true,
		Workers:             DefaultWorkers,
		Timeout:             DefaultTimeoutSeconds * time.Second,
	}
}

// RawSubmission is one student's answer as read by an ingestion collaborator
type RawSubmission struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email,omitempty" yaml:"email,omitempty"`
	Source string `json:"-" yaml:"-"`
}

// Student identifies a student in a report
type Student struct {
	ID    string `json:"id" yaml:"id" csv:"id"`
	Name  string `json:"name" yaml:"name" csv:"name"`
	Email string `json:"email,omitempty" yaml:"email,omitempty" csv:"email"`
}

// CopyCluster is a group of students whose canonical forms are identical.
// Members are listed in lexicographic id order after the leader.
type CopyCluster struct {
	ID        int       `json:"id" yaml:"id" csv:"cluster_id"`
	Leader    Student   `json:"leader" yaml:"leader"`
	Members   []Student `json:"members" yaml:"members"`
	Size      int       `json:"size" yaml:"size" csv:"size"`
	Canonical string    `json:"canonical,omitempty" yaml:"canonical,omitempty" csv:"-"`
}

// Students returns the leader followed by the members
func (c *CopyCluster) Students() []Student {
	out := make([]Student, 0, len(c.Members)+1)
	out = append(out, c.Leader)
	return append(out, c.Members...)
}

// CopyStatistics summarizes a detection run
type CopyStatistics struct {
	SubmissionsAnalyzed int `json:"submissions_analyzed" yaml:"submissions_analyzed"`
	NoAnswer            int `json:"no_answer" yaml:"no_answer"`
	DuplicateIDs        int `json:"duplicate_ids" yaml:"duplicate_ids"`
	Clusters            int `json:"clusters" yaml:"clusters"`
	StudentsInvolved    int `json:"students_involved" yaml:"students_involved"`
	LargestCluster      int `json:"largest_cluster" yaml:"largest_cluster"`
}

// CopyResponse represents the result of copy detection
type CopyResponse struct {
	RunID       string         `json:"run_id" yaml:"run_id"`
	Source      string         `json:"source" yaml:"source"`
	Question    string         `json:"question,omitempty" yaml:"question,omitempty"`
	Language    string         `json:"language" yaml:"language"`
	Clusters    []CopyCluster  `json:"clusters" yaml:"clusters"`
	Involved    []Student      `json:"involved" yaml:"involved"`
	EmailList   []string       `json:"email_list" yaml:"email_list"`
	Statistics  CopyStatistics `json:"statistics" yaml:"statistics"`
	Request     *CopyRequest   `json:"request,omitempty" yaml:"request,omitempty"`
	GeneratedAt string         `json:"generated_at" yaml:"generated_at"`
	Duration    int64          `json:"duration_ms" yaml:"duration_ms"`
	Success     bool           `json:"success" yaml:"success"`
	Error       string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// LanguageInfo describes a registered language profile
type LanguageInfo struct {
	Name      string   `json:"name" yaml:"name"`
	Extension string   `json:"extension" yaml:"extension"`
	Keywords  []string `json:"keywords" yaml:"keywords"`
}

// NormalizeOptions controls single-snippet normalization
type NormalizeOptions struct {
	ExactOnly       bool   `json:"exact_only"`
	MaskIdentifiers bool   `json:"mask_identifiers"`
	Placeholder     string `json:"placeholder"`
}

// CopyService runs normalization and clustering
type CopyService interface {
	// DetectCopies normalizes and clusters the given submissions
	DetectCopies(ctx context.Context, req *CopyRequest, subs []RawSubmission) (*CopyResponse, error)

	// NormalizeSource returns the canonical form of a single snippet
	NormalizeSource(language, source string, opts NormalizeOptions) (string, error)

	// Language looks up a registered language
	Language(name string) (LanguageInfo, error)

	// Languages lists every registered language in name order
	Languages() []LanguageInfo
}

// RosterReader reads submissions from a quiz-server CSV export
type RosterReader interface {
	ReadRoster(path, question, interfaceLanguage string) ([]RawSubmission, error)
}

// DirectoryReader reads submissions from a directory of per-student files
type DirectoryReader interface {
	ReadDirectory(dir string, patterns []string) ([]RawSubmission, error)
}

// SubmissionWriter persists raw submissions, one file per student
type SubmissionWriter interface {
	// WriteSubmissions returns the directory the files were written to
	WriteSubmissions(outputDir, question, extension string, subs []RawSubmission) (string, error)
}

// CopyOutputFormatter renders a CopyResponse
type CopyOutputFormatter interface {
	FormatCopyResponse(response *CopyResponse, format OutputFormat, writer io.Writer) error
}

// CopyConfigurationLoader builds a CopyRequest from config files and environment
type CopyConfigurationLoader interface {
	// LoadCopyConfig loads configuration from configPath, or discovers it from
	// startDir when configPath is empty
	LoadCopyConfig(configPath, startDir string) (*CopyRequest, error)

	// GetDefaultCopyConfig returns the built-in defaults
	GetDefaultCopyConfig() *CopyRequest
}
