package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/omnibridge/omnibridge/internal/operator"
)

// MarkdownExporter renders a system report as a markdown document.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Render(report operator.SystemReport) (string, error) {
	var b strings.Builder
	b.WriteString("# OmniBridge Operational Report\n\n")

	fmt.Fprintf(&b, "- **Cycle:** %s\n", report.ID)
	if !report.Timestamp.IsZero() {
		fmt.Fprintf(&b, "- **Generated:** %s\n", report.Timestamp.UTC().Format(time.RFC3339))
	}
	if report.Context != "" {
		fmt.Fprintf(&b, "- **Context:** %s\n", report.Context)
	}
	b.WriteString("\n")

	b.WriteString("## Memory Layer Status\n\n")
	if len(report.Layers) == 0 {
		b.WriteString("- No layers registered.\n")
	}
	for _, ls := range report.Layers {
		if ls.Fill.Bounded {
			fmt.Fprintf(&b, "- **%s**: %d/%d entries (%.0f%%)\n",
				ls.Name, ls.Fill.Count, ls.Fill.Capacity, ls.Fill.Ratio*100)
		} else {
			fmt.Fprintf(&b, "- **%s**: %d entries\n", ls.Name, ls.Fill.Count)
		}
	}
	b.WriteString("\n")

	b.WriteString("## Connector Audit\n\n")
	for _, ca := range report.Connectors {
		status := "ok"
		if ca.Failed {
			status = "failed"
		}
		fmt.Fprintf(&b, "- **%s**: %s (produced %d, inserted %d)\n",
			ca.Name, status, ca.Produced, ca.Inserted)
	}
	b.WriteString("\n")

	if len(report.Alerts) > 0 {
		b.WriteString("## Ingestion Alerts\n\n")
		for _, a := range report.Alerts {
			fmt.Fprintf(&b, "- **%s**: %s\n", a.Connector, a.Message)
		}
		b.WriteString("\n")
	}

	b.WriteString(renderFusionMarkdown(report))

	if len(report.Catalog) > 0 {
		b.WriteString("## Capability Catalog\n\n")
		for _, name := range report.Catalog {
			fmt.Fprintf(&b, "- `%s`\n", name)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Recommendations\n\n")
	for _, rec := range report.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}
	b.WriteString("\n")

	b.WriteString(renderStrategyMarkdown(report))

	b.WriteString("_Report generated by OmniBridge OperatorCore._\n")
	return b.String(), nil
}

func renderFusionMarkdown(report operator.SystemReport) string {
	var b strings.Builder
	b.WriteString("## Fusion Summary\n\n")
	fmt.Fprintf(&b, "- **Entries propagated:** %d\n", report.Fusion.Total)
	for layer, n := range report.Fusion.Propagated {
		if n > 0 {
			fmt.Fprintf(&b, "  - %s: %d\n", layer, n)
		}
	}
	if len(report.Fusion.Conflicts) > 0 {
		fmt.Fprintf(&b, "- **Conflicts resolved:** %d\n", len(report.Fusion.Conflicts))
		for _, c := range report.Fusion.Conflicts {
			fmt.Fprintf(&b, "  - `%s` in %s (winner: %s)\n", c.EntryID, c.Layer, c.WinnerNode)
		}
	}
	if len(report.Fusion.DeliveryErrors) > 0 {
		fmt.Fprintf(&b, "- **Delivery failures:** %d\n", len(report.Fusion.DeliveryErrors))
	}
	b.WriteString("\n")
	return b.String()
}

func renderStrategyMarkdown(report operator.SystemReport) string {
	s := report.Strategy
	if s.Summary == "" && len(s.FocusAreas) == 0 && len(s.ActionItems) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Advisor Strategy\n\n")
	if s.Model != "" {
		fmt.Fprintf(&b, "**Model:** %s\n\n", s.Model)
	}
	if s.Summary != "" {
		fmt.Fprintf(&b, "**Summary:** %s\n\n", s.Summary)
	}
	if len(s.FocusAreas) > 0 {
		b.WriteString("- Focus Areas:\n")
		for _, fa := range s.FocusAreas {
			fmt.Fprintf(&b, "  - %s\n", fa)
		}
	}
	if len(s.ActionItems) > 0 {
		b.WriteString("- Action Items:\n")
		for _, ai := range s.ActionItems {
			fmt.Fprintf(&b, "  - **%s:** %s\n", ai.Title, ai.Details)
		}
	}
	if len(s.Recommendations) > 0 {
		b.WriteString("- Recommendations:\n")
		for _, rec := range s.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
	}
	b.WriteString("\n")
	return b.String()
}
