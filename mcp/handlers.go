package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ludo-technologies/copyscn/domain"
	"github.com/ludo-technologies/copyscn/service"
)

// HandlerSet bundles MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	return &HandlerSet{deps: deps}
}

// HandleDetectCopies handles the detect_copies tool
func (h *HandlerSet) HandleDetectCopies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	req := *h.deps.Config().ToCopyRequest()
	req.ConfigPath = h.deps.ConfigPath()
	req.OutputFormat = domain.OutputFormatJSON
	req.WriteSubmissions = false

	answers, _ := args["answers_path"].(string)
	dir, _ := args["dir"].(string)
	switch {
	case answers == "" && dir == "":
		return mcp.NewToolResultError("answers_path or dir is required"), nil
	case answers != "" && dir != "":
		return mcp.NewToolResultError("answers_path and dir are mutually exclusive"), nil
	}
	req.AnswersPath = answers
	req.SubmissionsDir = dir

	if question, ok := args["question"].(string); ok {
		req.Question = strings.TrimSpace(question)
	} else if dir != "" {
		req.Question = ""
	}
	if language, ok := args["language"].(string); ok && language != "" {
		req.Language = language
	}
	if iface, ok := args["interface"].(string); ok && iface != "" {
		req.InterfaceLanguage = strings.ToLower(iface)
	}
	if exact, ok := args["exact_only"].(bool); ok {
		req.ExactOnly = exact
	}
	if mask, ok := args["mask_identifiers"].(bool); ok {
		req.MaskIdentifiers = mask
	}

	useCase, err := h.deps.BuildCopyUseCase()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build use case: %v", err)), nil
	}

	response, err := useCase.DetectAndReturn(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// the request echo carries defaults only, not worth the payload
	response.Request = nil

	text, err := service.EncodeJSON(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// normalizeResult is the payload of the normalize_code tool
type normalizeResult struct {
	Language  string `json:"language"`
	Canonical string `json:"canonical"`
}

// HandleNormalizeCode handles the normalize_code tool
func (h *HandlerSet) HandleNormalizeCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	code, ok := args["code"].(string)
	if !ok {
		return mcp.NewToolResultError("code parameter is required and must be a string"), nil
	}

	cfg := h.deps.Config()
	language := cfg.Normalize.Language
	if l, ok := args["language"].(string); ok && l != "" {
		language = l
	}
	opts := domain.NormalizeOptions{
		ExactOnly:       cfg.Normalize.ExactOnly,
		MaskIdentifiers: cfg.Normalize.MaskIdentifiers,
		Placeholder:     cfg.Normalize.Placeholder,
	}
	if exact, ok := args["exact_only"].(bool); ok {
		opts.ExactOnly = exact
	}
	if mask, ok := args["mask_identifiers"].(bool); ok {
		opts.MaskIdentifiers = mask
	}

	canonical, err := h.deps.CopyService().NormalizeSource(language, code, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := service.EncodeJSON(normalizeResult{Language: strings.ToLower(strings.TrimSpace(language)), Canonical: canonical})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandleListLanguages handles the list_languages tool
func (h *HandlerSet) HandleListLanguages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := service.EncodeJSON(h.deps.CopyService().Languages())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}
