package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleFetchLayer(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("layer")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: layer"), nil
	}
	cursor := req.GetInt("since", 0)

	layer, ok := s.core.Bridge().Layer(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("layer %q not found", name)), nil
	}

	entries, next := layer.EntriesSince(cursor)
	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No new entries in %s (cursor: %d).", name, next)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s (%d entries, next cursor: %d)\n\n", name, len(entries), next)
	for _, e := range entries {
		fmt.Fprintf(&sb, "- [%s] %s (id: %s)\n", e.Source, e.Content, e.ID)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleRunCycle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.core.RunCycle(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cycle failed: %v", err)), nil
	}

	if s.store != nil {
		if saveErr := s.store.SaveReport(report); saveErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("cycle ran but archive failed: %v", saveErr)), nil
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Cycle %s complete.\n", report.ID)
	for _, ca := range report.Connectors {
		status := "ok"
		if ca.Failed {
			status = "failed: " + ca.Error
		}
		fmt.Fprintf(&sb, "- %s: %s (produced %d, inserted %d)\n", ca.Name, status, ca.Produced, ca.Inserted)
	}
	if n := report.AlertCount(); n > 0 {
		fmt.Fprintf(&sb, "%d ingestion alert(s) recorded.\n", n)
	}
	for _, rec := range report.Recommendations {
		fmt.Fprintf(&sb, "* %s\n", rec)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleSystemStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Workspace: %s\n", s.root)
	sb.WriteString("Memory layers:\n")

	snapshot := s.core.LayerSnapshot()
	if len(snapshot) == 0 {
		sb.WriteString("  (none registered)\n")
	}
	for _, name := range s.core.Bridge().Local().LayerNames() {
		fmt.Fprintf(&sb, "  %-20s %d entries\n", name, len(snapshot[name]))
	}

	if s.store != nil {
		if n, err := s.store.CountCycles(); err == nil {
			fmt.Fprintf(&sb, "Archived cycles: %d\n", n)
		}
		if counts, err := s.store.CountEntriesByLayer(); err == nil && len(counts) > 0 {
			total := 0
			for _, n := range counts {
				total += n
			}
			fmt.Fprintf(&sb, "Archived entries: %d\n", total)
		}
	}

	if latest := s.core.LatestReport(); latest != nil {
		fmt.Fprintf(&sb, "Last report: %s (%s)\n", latest.ID, latest.Timestamp.Format("2006-01-02 15:04"))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleDescribeCatalog(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	specs := s.core.Bridge().Catalog().Describe()
	if len(specs) == 0 {
		return mcp.NewToolResultText("No capabilities published."), nil
	}

	var sb strings.Builder
	for _, spec := range specs {
		fmt.Fprintf(&sb, "%s: %s\n", spec.Name, spec.Description)
		if len(spec.Inputs) > 0 {
			fmt.Fprintf(&sb, "  inputs: %s\n", formatParams(spec.Inputs))
		}
		if len(spec.Outputs) > 0 {
			fmt.Fprintf(&sb, "  outputs: %s\n", formatParams(spec.Outputs))
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatParams(params map[string]string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s (%s)", name, params[name]))
	}
	return strings.Join(parts, ", ")
}
