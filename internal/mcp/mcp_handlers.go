package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kherrera/gitattrib/core"
	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

func (h *toolHandler) handleGetOwnership(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	result, err := core.GetOwnershipResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ownership scan failed: %v", err)), nil
	}

	if cfg.ResultLimit > 0 && len(result.Authors) > cfg.ResultLimit {
		result.Authors = result.Authors[:cfg.ResultLimit]
	}
	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetContributors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	cfg.IncludeBots = request.GetBool("include_bots", cfg.IncludeBots)

	if err := applyTimeRange(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid time range: %v", err)), nil
	}

	report, err := core.GetContributorResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("contributor resolution failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTimeline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	if period := request.GetString("period", ""); period != "" {
		cfg.Period = schema.Period(period)
		if _, ok := schema.ValidPeriods[cfg.Period]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid period '%s'. must be week, month, quarter, year", period)), nil
		}
	}
	cfg.FillGaps = request.GetBool("fill_gaps", cfg.FillGaps)

	timeline, buckets, err := core.GetTimelineResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("timeline analysis failed: %v", err)), nil
	}

	out := struct {
		Timeline *schema.RepositoryTimeline `json:"timeline"`
		Buckets  []schema.PeriodBucket      `json:"buckets"`
	}{Timeline: timeline, Buckets: buckets}
	jsonData, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetInsights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}

	insights, err := core.GetInsightsResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("insights extraction failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(insights, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// applyTimeRange parses optional since/until arguments onto the config.
func applyTimeRange(cfg *contract.Config, request mcp.CallToolRequest) error {
	now := time.Now()

	parse := func(s string) (time.Time, error) {
		if t, err := time.Parse(contract.DateTimeFormat, s); err == nil {
			return t, nil
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t, nil
		}
		return contract.ParseRelativeTime(s, now)
	}

	if s := request.GetString("since", ""); s != "" {
		t, err := parse(s)
		if err != nil {
			return fmt.Errorf("invalid since date '%s': %w", s, err)
		}
		cfg.Since = t
	}
	if s := request.GetString("until", ""); s != "" {
		t, err := parse(s)
		if err != nil {
			return fmt.Errorf("invalid until date '%s': %w", s, err)
		}
		cfg.Until = t
	}
	if !cfg.Since.IsZero() && !cfg.Until.IsZero() && cfg.Since.After(cfg.Until) {
		return fmt.Errorf("since cannot be after until")
	}
	return nil
}
