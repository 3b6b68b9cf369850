package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/autoapprove/claude-auto-approve/internal/approver"
	"github.com/autoapprove/claude-auto-approve/internal/config"
	"github.com/autoapprove/claude-auto-approve/internal/model"
	"github.com/autoapprove/claude-auto-approve/internal/platform"
	"github.com/autoapprove/claude-auto-approve/internal/report"
	"github.com/autoapprove/claude-auto-approve/internal/version"
)

// mcpServer wraps the MCP server with the approval pipeline. Tool calls
// touch the platform layer, so they are serialized behind a mutex.
type mcpServer struct {
	cfg      config.Config
	provider *platform.Provider
	approver *approver.Approver
	mu       sync.Mutex
	mcp      *mcpserver.MCPServer
}

// MCPConfig holds MCP server transport configuration.
type MCPConfig struct {
	Transport string
	Port      int
}

// newMCPServer builds the pipeline once and exposes it as MCP tools.
func newMCPServer(cfg config.Config, log *zap.Logger) (*mcpServer, error) {
	a, provider, err := buildApprover(cfg, log)
	if err != nil {
		return nil, err
	}

	s := &mcpServer{
		cfg:      cfg,
		provider: provider,
		approver: a,
	}
	s.mcp = mcpserver.NewMCPServer(
		"claude-auto-approve",
		version.Version,
	)
	s.registerTools()
	return s, nil
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(cfg MCPConfig) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *mcpServer) registerTools() {
	// status
	s.mcp.AddTool(
		mcp.NewTool("status",
			mcp.WithDescription("Report approval loop counters: ticks run, approvals made, last outcome"),
		),
		s.handleStatus,
	)

	// windows
	s.mcp.AddTool(
		mcp.NewTool("windows",
			mcp.WithDescription("List visible windows with app name, title, PID, and bounds"),
			mcp.WithString("app", mcp.Description("Filter by app name or window title substring")),
		),
		s.handleWindows,
	)

	// approve_once
	s.mcp.AddTool(
		mcp.NewTool("approve_once",
			mcp.WithDescription("Run a single detection/decision/action tick and report what happened"),
		),
		s.handleApproveOnce,
	)

	// dump_tree
	s.mcp.AddTool(
		mcp.NewTool("dump_tree",
			mcp.WithDescription("Dump the target application's accessibility element tree to a file"),
			mcp.WithString("app", mcp.Description("Target application name (default from config)")),
			mcp.WithNumber("depth", mcp.Description("Max traversal depth (default from config)")),
		),
		s.handleDumpTree,
	)
}

// resultToText serializes a tool result to YAML for the MCP response.
func resultToText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func (s *mcpServer) handleStatus(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(resultToText(s.approver.Stats())), nil
}

func (s *mcpServer) handleWindows(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	pattern := stringParam(params, "app", "")

	s.mu.Lock()
	defer s.mu.Unlock()

	windows, err := s.provider.Reader.ListWindows(platform.ListOptions{})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	matched := model.MatchWindows(windows, pattern)
	if matched == nil {
		matched = []model.Window{}
	}
	return mcp.NewToolResultText(resultToText(map[string]interface{}{"windows": matched})), nil
}

func (s *mcpServer) handleApproveOnce(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.approver.Tick()
	return mcp.NewToolResultText(resultToText(result)), nil
}

func (s *mcpServer) handleDumpTree(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	appName := stringParam(params, "app", s.cfg.AppName)
	depth := intParam(params, "depth", s.cfg.MaxDepth)

	s.mu.Lock()
	defer s.mu.Unlock()

	win, err := locateTarget(s.provider, appName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	elements, err := s.provider.Reader.ReadElements(platform.ReadOptions{PID: win.PID, Depth: depth})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := report.WriteHierarchy(s.cfg.DumpDir, win.App, elements)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(resultToText(map[string]interface{}{
		"path":     path,
		"app":      win.App,
		"pid":      win.PID,
		"elements": countElements(elements),
	})), nil
}

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func intParam(params map[string]interface{}, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case int64:
			return int(n)
		}
	}
	return defaultVal
}
