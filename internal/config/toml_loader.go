package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/ludo-technologies/copyscn/domain"
)

// CopyscnTomlConfig represents the structure of .copyscn.toml.
// Booleans are pointers so that unset keys keep their defaults.
type CopyscnTomlConfig struct {
	Normalize   TomlNormalizeConfig   `toml:"normalize"`
	Cluster     TomlClusterConfig     `toml:"cluster"`
	Input       TomlInputConfig       `toml:"input"`
	Output      TomlOutputConfig      `toml:"output"`
	Performance TomlPerformanceConfig `toml:"performance"`
	Logging     TomlLoggingConfig     `toml:"logging"`
}

type TomlNormalizeConfig struct {
	Language        string `toml:"language"`
	ExactOnly       *bool  `toml:"exact_only"`
	MaskIdentifiers *bool  `toml:"mask_identifiers"`
	Placeholder     string `toml:"placeholder"`
}

type TomlClusterConfig struct {
	NoAnswer            string `toml:"no_answer"`
	ReuseClaimedLeaders *bool  `toml:"reuse_claimed_leaders"`
}

type TomlInputConfig struct {
	InterfaceLanguage string   `toml:"interface_language"`
	Question          string   `toml:"question"`
	Patterns          []string `toml:"patterns"`
}

type TomlOutputConfig struct {
	Format               string `toml:"format"`
	Directory            string `toml:"directory"`
	SubmissionsDirectory string `toml:"submissions_directory"`
	WriteSubmissions     *bool  `toml:"write_submissions"`
	EmailDomain          string `toml:"email_domain"`
	ShowCanonical        *bool  `toml:"show_canonical"`
}

type TomlPerformanceConfig struct {
	Workers        int `toml:"workers"`
	TimeoutSeconds int `toml:"timeout_seconds"`
}

type TomlLoggingConfig struct {
	Level string `toml:"level"`
	JSON  *bool  `toml:"json"`
}

// TomlConfigLoader loads .copyscn.toml files
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig discovers .copyscn.toml by walking up from startDir. When no
// file exists the defaults are returned; a file that fails to parse is an
// error.
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, error) {
	path, err := l.FindConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return l.LoadConfigFile(path)
}

// LoadConfigFile loads an explicit configuration file
func (l *TomlConfigLoader) LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.NewFileNotFoundError(path, err)
		}
		return nil, domain.NewConfigError(fmt.Sprintf("failed to read config file %s", path), err)
	}

	cfg, err := l.Parse(data)
	if err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("invalid config file %s", path), err)
	}
	return cfg, nil
}

// Parse decodes TOML and merges it onto the defaults
func (l *TomlConfigLoader) Parse(data []byte) (*Config, error) {
	var tomlCfg CopyscnTomlConfig
	if err := toml.Unmarshal(data, &tomlCfg); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	l.mergeTomlConfig(cfg, &tomlCfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile walks up the directory tree to find .copyscn.toml
func (l *TomlConfigLoader) FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		configPath := filepath.Join(dir, domain.ConfigFileName)
		if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// mergeTomlConfig copies every set value from the file onto defaults
func (l *TomlConfigLoader) mergeTomlConfig(defaults *Config, t *CopyscnTomlConfig) {
	// [normalize]
	if t.Normalize.Language != "" {
		defaults.Normalize.Language = t.Normalize.Language
	}
	if t.Normalize.ExactOnly != nil {
		defaults.Normalize.ExactOnly = *t.Normalize.ExactOnly
	}
	if t.Normalize.MaskIdentifiers != nil {
		defaults.Normalize.MaskIdentifiers = *t.Normalize.MaskIdentifiers
	}
	if t.Normalize.Placeholder != "" {
		defaults.Normalize.Placeholder = t.Normalize.Placeholder
	}

	// [cluster]
	if t.Cluster.NoAnswer != "" {
		defaults.Cluster.NoAnswer = t.Cluster.NoAnswer
	}
	if t.Cluster.ReuseClaimedLeaders != nil {
		defaults.Cluster.ReuseClaimedLeaders = *t.Cluster.ReuseClaimedLeaders
	}

	// [input]
	if t.Input.InterfaceLanguage != "" {
		defaults.Input.InterfaceLanguage = t.Input.InterfaceLanguage
	}
	if t.Input.Question != "" {
		defaults.Input.Question = t.Input.Question
	}
	if len(t.Input.Patterns) > 0 {
		defaults.Input.Patterns = t.Input.Patterns
	}

	// [output]
	if t.Output.Format != "" {
		defaults.Output.Format = t.Output.Format
	}
	if t.Output.Directory != "" {
		defaults.Output.Directory = t.Output.Directory
	}
	if t.Output.SubmissionsDirectory != "" {
		defaults.Output.SubmissionsDirectory = t.Output.SubmissionsDirectory
	}
	if t.Output.WriteSubmissions != nil {
		defaults.Output.WriteSubmissions = *t.Output.WriteSubmissions
	}
	if t.Output.EmailDomain != "" {
		defaults.Output.EmailDomain = t.Output.EmailDomain
	}
	if t.Output.ShowCanonical != nil {
		defaults.Output.ShowCanonical = *t.Output.ShowCanonical
	}

	// [performance]
	if t.Performance.Workers > 0 {
		defaults.Performance.Workers = t.Performance.Workers
	}
	if t.Performance.TimeoutSeconds > 0 {
		defaults.Performance.TimeoutSeconds = t.Performance.TimeoutSeconds
	}

	// [logging]
	if t.Logging.Level != "" {
		defaults.Logging.Level = t.Logging.Level
	}
	if t.Logging.JSON != nil {
		defaults.Logging.JSON = *t.Logging.JSON
	}
}
