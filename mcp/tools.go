package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all copyscn MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	// Tool 1: detect_copies - cluster identical answers to one question
	s.AddTool(mcp.NewTool("detect_copies",
		mcp.WithDescription("Group students whose answers to a programming question are identical after normalization"),
		mcp.WithString("answers_path",
			mcp.Description("Path to the quiz-server CSV export. Exactly one of answers_path or dir is required")),
		mcp.WithString("dir",
			mcp.Description("Directory holding one source file per student, named after the student id")),
		mcp.WithString("question",
			mcp.Description("Question number to analyze (required with answers_path)")),
		mcp.WithString("language",
			mcp.Description("Programming language of the answers: c, java, matlab or python (default from config)")),
		mcp.WithString("interface",
			mcp.Enum("english", "french"),
			mcp.Description("Quiz-server interface language used for the CSV headers (default: english)")),
		mcp.WithBoolean("exact_only",
			mcp.Description("Only strip whitespace and comments (default: false)")),
		mcp.WithBoolean("mask_identifiers",
			mcp.Description("Replace non-keyword identifiers with a placeholder (default: true)")),
	), h.HandleDetectCopies)

	// Tool 2: normalize_code - canonical form of one snippet
	s.AddTool(mcp.NewTool("normalize_code",
		mcp.WithDescription("Return the canonical form copy detection compares for a code snippet"),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Source code to normalize")),
		mcp.WithString("language",
			mcp.Description("Programming language of the snippet (default from config)")),
		mcp.WithBoolean("exact_only",
			mcp.Description("Only strip whitespace and comments (default: false)")),
		mcp.WithBoolean("mask_identifiers",
			mcp.Description("Replace non-keyword identifiers with a placeholder (default: true)")),
	), h.HandleNormalizeCode)

	// Tool 3: list_languages - registered language profiles
	s.AddTool(mcp.NewTool("list_languages",
		mcp.WithDescription("List the supported programming languages with their file extension and keywords"),
	), h.HandleListLanguages)
}
