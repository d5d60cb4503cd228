package config

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/copyscn/domain"
)

// Config represents the resolved configuration of one run
type Config struct {
	// Normalize holds canonicalization settings
	Normalize NormalizeConfig `mapstructure:"normalize" yaml:"normalize"`

	// Cluster holds grouping settings
	Cluster ClusterConfig `mapstructure:"cluster" yaml:"cluster"`

	// Input holds ingestion settings
	Input InputConfig `mapstructure:"input" yaml:"input"`

	// Output holds report and submission file settings
	Output OutputConfig `mapstructure:"output" yaml:"output"`

	// Performance holds worker pool settings
	Performance PerformanceConfig `mapstructure:"performance" yaml:"performance"`

	// Logging holds diagnostic logging settings
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// NormalizeConfig holds canonicalization settings
type NormalizeConfig struct {
	Language        string `mapstructure:"language" yaml:"language"`
	ExactOnly       bool   `mapstructure:"exact_only" yaml:"exact_only"`
	MaskIdentifiers bool   `mapstructure:"mask_identifiers" yaml:"mask_identifiers"`
	Placeholder     string `mapstructure:"placeholder" yaml:"placeholder"`
}

// ClusterConfig holds grouping settings
type ClusterConfig struct {
	// NoAnswer is the canonical form that marks a missing answer
	NoAnswer string `mapstructure:"no_answer" yaml:"no_answer"`

	// ReuseClaimedLeaders lets an already claimed member lead a later scan
	ReuseClaimedLeaders bool `mapstructure:"reuse_claimed_leaders" yaml:"reuse_claimed_leaders"`
}

// InputConfig holds ingestion settings
type InputConfig struct {
	// InterfaceLanguage selects the CSV header names (english or french)
	InterfaceLanguage string   `mapstructure:"interface_language" yaml:"interface_language"`
	Question          string   `mapstructure:"question" yaml:"question"`
	Patterns          []string `mapstructure:"patterns" yaml:"patterns"`
}

// OutputConfig holds report and submission file settings
type OutputConfig struct {
	Format               string `mapstructure:"format" yaml:"format"`
	Directory            string `mapstructure:"directory" yaml:"directory"`
	SubmissionsDirectory string `mapstructure:"submissions_directory" yaml:"submissions_directory"`
	WriteSubmissions     bool   `mapstructure:"write_submissions" yaml:"write_submissions"`
	EmailDomain          string `mapstructure:"email_domain" yaml:"email_domain"`
	ShowCanonical        bool   `mapstructure:"show_canonical" yaml:"show_canonical"`
}

// PerformanceConfig holds worker pool settings
type PerformanceConfig struct {
	// Workers is the normalization pool size; 1 runs sequentially
	Workers        int `mapstructure:"workers" yaml:"workers"`
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// LoggingConfig holds diagnostic logging settings
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	JSON  bool   `mapstructure:"json" yaml:"json"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Normalize: NormalizeConfig{
			Language:        domain.DefaultLanguage,
			MaskIdentifiers: true,
			Placeholder:     domain.DefaultPlaceholder,
		},
		Cluster: ClusterConfig{
			NoAnswer:            domain.DefaultNoAnswer,
			ReuseClaimedLeaders: true,
		},
		Input: InputConfig{
			InterfaceLanguage: domain.DefaultInterfaceLanguage,
		},
		Output: OutputConfig{
			Format:               string(domain.OutputFormatText),
			SubmissionsDirectory: domain.DefaultSubmissionsDir,
			WriteSubmissions:     true,
		},
		Performance: PerformanceConfig{
			Workers:        domain.DefaultWorkers,
			TimeoutSeconds: domain.DefaultTimeoutSeconds,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Normalize.Language) == "" {
		return fmt.Errorf("normalize.language must not be empty")
	}
	if !c.Normalize.ExactOnly && c.Normalize.MaskIdentifiers && c.Normalize.Placeholder == "" {
		return fmt.Errorf("normalize.placeholder must not be empty when mask_identifiers is enabled")
	}
	if c.Cluster.NoAnswer == "" {
		return fmt.Errorf("cluster.no_answer must not be empty")
	}
	switch strings.ToLower(c.Input.InterfaceLanguage) {
	case domain.InterfaceEnglish, domain.InterfaceFrench:
	default:
		return fmt.Errorf("input.interface_language must be %q or %q, got %q",
			domain.InterfaceEnglish, domain.InterfaceFrench, c.Input.InterfaceLanguage)
	}
	if _, err := domain.ParseOutputFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if c.Performance.Workers < 0 {
		return fmt.Errorf("performance.workers must be >= 0, got %d", c.Performance.Workers)
	}
	if c.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds)
	}
	return nil
}
