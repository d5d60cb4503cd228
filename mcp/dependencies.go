package mcp

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/ludo-technologies/copyscn/app"
	"github.com/ludo-technologies/copyscn/internal/config"
	"github.com/ludo-technologies/copyscn/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	fs         afero.Fs
	config     *config.Config
	configPath string
	logger     zerolog.Logger
	copies     *service.CopyService
}

// NewDependencies constructs the dependency set with sane defaults.
func NewDependencies(cfg *config.Config, configPath string, logger zerolog.Logger) *Dependencies {
	return newDependencies(afero.NewOsFs(), cfg, configPath, logger)
}

func newDependencies(fs afero.Fs, cfg *config.Config, configPath string, logger zerolog.Logger) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Dependencies{
		fs:         fs,
		config:     cfg,
		configPath: configPath,
		logger:     logger,
		// stdout carries JSON-RPC, so no progress bar
		copies: service.NewCopyService(nil, nil, logger),
	}
}

// Config exposes the loaded configuration snapshot.
func (d *Dependencies) Config() *config.Config {
	return d.config
}

// ConfigPath returns the configuration file the snapshot came from, if any.
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// CopyService returns the shared copy service.
func (d *Dependencies) CopyService() *service.CopyService {
	return d.copies
}

// BuildCopyUseCase wires a use case that reads from the dependency filesystem.
// Submission files are never written from an MCP call.
func (d *Dependencies) BuildCopyUseCase() (*app.CopyUseCase, error) {
	return app.NewCopyUseCaseBuilder().
		WithService(d.copies).
		WithRosterReader(service.NewRosterReader(d.fs, d.logger)).
		WithDirectoryReader(service.NewDirectoryReader(d.fs, d.logger)).
		WithFormatter(service.NewCopyOutputFormatter()).
		WithLogger(d.logger).
		Build()
}
