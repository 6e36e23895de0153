// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kherrera/gitattrib/internal/contract"
)

// NewMCPServer initializes and configures the gitattrib MCP server
// without starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Git Attribution Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_ownership ---
	s.AddTool(mcp.NewTool("get_ownership",
		mcp.WithDescription("Blame every tracked file to attribute surviving lines to their last author."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to current directory if not specified).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of author rows returned.")),
	), h.handleGetOwnership)

	// --- 2. Tool: get_contributors ---
	s.AddTool(mcp.NewTool("get_contributors",
		mcp.WithDescription("Resolve commit authors into canonical contributors with per-person stats."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithString("since", mcp.Description("Only include commits after this date (ISO8601 or 'N [units] ago').")),
		mcp.WithString("until", mcp.Description("Only include commits before this date (ISO8601 or 'N [units] ago').")),
		mcp.WithBoolean("include_bots", mcp.Description("Include automation identities in the result.")),
	), h.handleGetContributors)

	// --- 3. Tool: get_timeline ---
	s.AddTool(mcp.NewTool("get_timeline",
		mcp.WithDescription("Bucket repository activity by calendar period."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithString("period", mcp.Description("Bucketing granularity. Defaults to 'week'."), mcp.Enum("week", "month", "quarter", "year")),
		mcp.WithBoolean("fill_gaps", mcp.Description("Insert zero buckets for periods with no activity.")),
	), h.handleGetTimeline)

	// --- 4. Tool: get_insights ---
	s.AddTool(mcp.NewTool("get_insights",
		mcp.WithDescription("Derive secondary activity signals: busiest weekday and hour, weekend share, solo-owned files."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
	), h.handleGetInsights)

	return s
}

// StartMCPServer starts the gitattrib MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
