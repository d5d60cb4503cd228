package config

import (
	"strings"
	"time"

	"github.com/ludo-technologies/copyscn/domain"
)

// ToCopyRequest converts the configuration into a domain request. Input
// paths and the output writer are left for the caller to fill in.
func (c *Config) ToCopyRequest() *domain.CopyRequest {
	format, err := domain.ParseOutputFormat(c.Output.Format)
	if err != nil {
		format = domain.OutputFormatText
	}

	return &domain.CopyRequest{
		Patterns:            append([]string(nil), c.Input.Patterns...),
		Question:            c.Input.Question,
		InterfaceLanguage:   strings.ToLower(c.Input.InterfaceLanguage),
		Language:            c.Normalize.Language,
		ExactOnly:           c.Normalize.ExactOnly,
		MaskIdentifiers:     c.Normalize.MaskIdentifiers,
		Placeholder:         c.Normalize.Placeholder,
		NoAnswer:            c.Cluster.NoAnswer,
		ReuseClaimedLeaders: c.Cluster.ReuseClaimedLeaders,
		OutputFormat:        format,
		SubmissionsOut:      c.Output.SubmissionsDirectory,
		WriteSubmissions:    c.Output.WriteSubmissions,
		EmailDomain:         c.Output.EmailDomain,
		ShowCanonical:       c.Output.ShowCanonical,
		Workers:             c.Performance.Workers,
		Timeout:             time.Duration(c.Performance.TimeoutSeconds) * time.Second,
	}
}
