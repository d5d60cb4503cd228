package service

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/copyscn/domain"
	"github.com/ludo-technologies/copyscn/internal/config"
)

// EnvPrefix prefixes every environment override, e.g. COPYSCN_NORMALIZE_LANGUAGE
const EnvPrefix = "COPYSCN"

// envKeys are the configuration keys that may be overridden from the environment
var envKeys = []string{
	"normalize.language",
	"normalize.exact_only",
	"normalize.mask_identifiers",
	"normalize.placeholder",
	"cluster.no_answer",
	"cluster.reuse_claimed_leaders",
	"input.interface_language",
	"input.question",
	"input.patterns",
	"output.format",
	"output.directory",
	"output.submissions_directory",
	"output.write_submissions",
	"output.email_domain",
	"output.show_canonical",
	"performance.workers",
	"performance.timeout_seconds",
	"logging.level",
	"logging.json",
}

// CopyConfigurationLoaderImpl layers .copyscn.toml and COPYSCN_* variables
// over the defaults
type CopyConfigurationLoaderImpl struct {
	toml *config.TomlConfigLoader
	env  *viper.Viper
}

// NewCopyConfigurationLoader creates a configuration loader
func NewCopyConfigurationLoader() *CopyConfigurationLoaderImpl {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return &CopyConfigurationLoaderImpl{
		toml: config.NewTomlConfigLoader(),
		env:  v,
	}
}

// LoadConfig loads configPath, or discovers .copyscn.toml from startDir when
// configPath is empty, then applies environment overrides.
func (cl *CopyConfigurationLoaderImpl) LoadConfig(configPath, startDir string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = cl.toml.LoadConfigFile(configPath)
	} else {
		if startDir == "" {
			if startDir, err = os.Getwd(); err != nil {
				startDir = "."
			}
		}
		cfg, err = cl.toml.LoadConfig(startDir)
	}
	if err != nil {
		return nil, err
	}

	cl.applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, domain.NewConfigError("invalid configuration after environment overrides", err)
	}
	return cfg, nil
}

// LoadCopyConfig implements domain.CopyConfigurationLoader
func (cl *CopyConfigurationLoaderImpl) LoadCopyConfig(configPath, startDir string) (*domain.CopyRequest, error) {
	cfg, err := cl.LoadConfig(configPath, startDir)
	if err != nil {
		return nil, err
	}
	req := cfg.ToCopyRequest()
	req.ConfigPath = configPath
	return req, nil
}

// GetDefaultCopyConfig returns the built-in defaults
func (cl *CopyConfigurationLoaderImpl) GetDefaultCopyConfig() *domain.CopyRequest {
	return config.DefaultConfig().ToCopyRequest()
}

func (cl *CopyConfigurationLoaderImpl) applyEnv(cfg *config.Config) {
	v := cl.env
	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	boolean := func(key string, dst *bool) {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}
	integer := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}

	str("normalize.language", &cfg.Normalize.Language)
	boolean("normalize.exact_only", &cfg.Normalize.ExactOnly)
	boolean("normalize.mask_identifiers", &cfg.Normalize.MaskIdentifiers)
	str("normalize.placeholder", &cfg.Normalize.Placeholder)
	str("cluster.no_answer", &cfg.Cluster.NoAnswer)
	boolean("cluster.reuse_claimed_leaders", &cfg.Cluster.ReuseClaimedLeaders)
	str("input.interface_language", &cfg.Input.InterfaceLanguage)
	str("input.question", &cfg.Input.Question)
	if v.IsSet("input.patterns") {
		cfg.Input.Patterns = v.GetStringSlice("input.patterns")
	}
	str("output.format", &cfg.Output.Format)
	str("output.directory", &cfg.Output.Directory)
	str("output.submissions_directory", &cfg.Output.SubmissionsDirectory)
	boolean("output.write_submissions", &cfg.Output.WriteSubmissions)
	str("output.email_domain", &cfg.Output.EmailDomain)
	boolean("output.show_canonical", &cfg.Output.ShowCanonical)
	integer("performance.workers", &cfg.Performance.Workers)
	integer("performance.timeout_seconds", &cfg.Performance.TimeoutSeconds)
	str("logging.level", &cfg.Logging.Level)
	boolean("logging.json", &cfg.Logging.JSON)
}
