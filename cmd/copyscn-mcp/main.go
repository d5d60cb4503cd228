package main

import (
	"fmt"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ludo-technologies/copyscn/internal/config"
	"github.com/ludo-technologies/copyscn/internal/logger"
	"github.com/ludo-technologies/copyscn/internal/version"
	"github.com/ludo-technologies/copyscn/mcp"
	"github.com/ludo-technologies/copyscn/service"
)

func main() {
	// stdout carries JSON-RPC, diagnostics go to stderr
	cfg, cfgErr := service.NewCopyConfigurationLoader().LoadConfig("", "")
	if cfgErr != nil {
		cfg = config.DefaultConfig()
	}
	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		JSON:   cfg.Logging.JSON,
		Output: os.Stderr,
	})
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Msg("falling back to the default configuration")
	}

	server := mcpserver.NewMCPServer(
		version.Name,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	mcp.RegisterTools(server, mcp.NewHandlerSet(mcp.NewDependencies(cfg, "", log)))

	log.Info().
		Str("version", version.Short()).
		Strs("tools", []string{"detect_copies", "normalize_code", "list_languages"}).
		Msg("MCP server ready, waiting for a client on stdio")

	// Blocks until the client disconnects
	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
