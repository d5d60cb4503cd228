package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/ludo-technologies/copyscn/domain"
)

// defaultConfigTmpl contains the embedded default configuration template
//
//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// DefaultConfigValues holds the values rendered into the default config.
// They come from the domain package.
type DefaultConfigValues struct {
	Language          string
	Placeholder       string
	NoAnswer          string
	InterfaceLanguage string
	ReportsDir        string
	SubmissionsDir    string
	Workers           int
	TimeoutSeconds    int
}

func newDefaultConfigValues() DefaultConfigValues {
	return DefaultConfigValues{
		Language:          domain.DefaultLanguage,
		Placeholder:       domain.DefaultPlaceholder,
		NoAnswer:          domain.DefaultNoAnswer,
		InterfaceLanguage: domain.DefaultInterfaceLanguage,
		ReportsDir:        domain.DefaultReportsDir,
		SubmissionsDir:    domain.DefaultSubmissionsDir,
		Workers:           domain.DefaultWorkers,
		TimeoutSeconds:    domain.DefaultTimeoutSeconds,
	}
}

// GenerateDefaultConfigTOML renders the default config template
func GenerateDefaultConfigTOML() (string, error) {
	tmpl, err := template.New("default_config").Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newDefaultConfigValues()); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}

	return buf.String(), nil
}

// LoadDefaultConfigFromTOML parses the rendered template. It must agree
// with DefaultConfig.
func LoadDefaultConfigFromTOML() (*Config, error) {
	configTOML, err := GenerateDefaultConfigTOML()
	if err != nil {
		return nil, err
	}
	return NewTomlConfigLoader().Parse([]byte(configTOML))
}
