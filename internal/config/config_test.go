package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ludo-technologies/copyscn/domain"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "french headers", mutate: func(c *Config) { c.Input.InterfaceLanguage = "French" }},
		{name: "exact only ignores empty placeholder", mutate: func(c *Config) {
			c.Normalize.ExactOnly = true
			c.Normalize.Placeholder = ""
		}},
		{name: "empty language", mutate: func(c *Config) { c.Normalize.Language = " " }, wantErr: "normalize.language"},
		{name: "empty placeholder", mutate: func(c *Config) { c.Normalize.Placeholder = "" }, wantErr: "placeholder"},
		{name: "empty sentinel", mutate: func(c *Config) { c.Cluster.NoAnswer = "" }, wantErr: "no_answer"},
		{name: "bad interface", mutate: func(c *Config) { c.Input.InterfaceLanguage = "german" }, wantErr: "interface_language"},
		{name: "bad format", mutate: func(c *Config) { c.Output.Format = "html" }, wantErr: "output.format"},
		{name: "negative workers", mutate: func(c *Config) { c.Performance.Workers = -1 }, wantErr: "workers"},
		{name: "negative timeout", mutate: func(c *Config) { c.Performance.TimeoutSeconds = -5 }, wantErr: "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_ToCopyRequestMatchesDomainDefaults(t *testing.T) {
	got := DefaultConfig().ToCopyRequest()
	want := domain.DefaultCopyRequest()

	assert.Equal(t, want.Language, got.Language)
	assert.Equal(t, want.MaskIdentifiers, got.MaskIdentifiers)
	assert.Equal(t, want.Placeholder, got.Placeholder)
	assert.Equal(t, want.NoAnswer, got.NoAnswer)
	assert.Equal(t, want.ReuseClaimedLeaders, got.ReuseClaimedLeaders)
	assert.Equal(t, want.InterfaceLanguage, got.InterfaceLanguage)
	assert.Equal(t, want.OutputFormat, got.OutputFormat)
	assert.Equal(t, want.SubmissionsOut, got.SubmissionsOut)
	assert.Equal(t, want.WriteSubmissions, got.WriteSubmissions)
	assert.Equal(t, want.Workers, got.Workers)
	assert.Equal(t, want.Timeout, got.Timeout)
}

func TestConfig_ToCopyRequestCopiesPatterns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input.Patterns = []string{"*.py"}
	req := cfg.ToCopyRequest()
	req.Patterns[0] = "changed"
	assert.Equal(t, "*.py", cfg.Input.Patterns[0])
}
