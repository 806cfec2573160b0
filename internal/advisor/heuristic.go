package advisor

import (
	"context"
	"fmt"
	"strings"
)

// Heuristic is the default, fully offline strategy engine. Its output is
// deterministic for a given briefing so cycle reports stay stable.
type Heuristic struct{}

// focusRules maps briefing keywords to focus areas, checked in order.
var focusRules = []struct {
	keywords []string
	area     string
}{
	{[]string{"custody", "parent", "guardian"}, "Family custody strategy"},
	{[]string{"finance", "financial", "asset", "support"}, "Financial oversight"},
	{[]string{"medical", "injury", "therapy"}, "Medical documentation review"},
	{[]string{"timeline"}, "Chronological reconstruction"},
	{[]string{"conflict", "diverg"}, "Conflict reconciliation review"},
	{[]string{"alert", "failure", "failed"}, "Ingestion reliability"},
}

// Generate implements Advisor.
func (h *Heuristic) Generate(_ context.Context, briefing string) (Strategy, error) {
	if strings.TrimSpace(briefing) == "" {
		return Strategy{}, fmt.Errorf("advisor: briefing cannot be empty")
	}
	lowered := strings.ToLower(briefing)

	var focus []string
	for _, rule := range focusRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				focus = append(focus, rule.area)
				break
			}
		}
	}
	if len(focus) == 0 {
		focus = append(focus, "General evidence optimisation")
	}

	return Strategy{
		Model:      "omnibridge-heuristic",
		Summary:    "Heuristic analysis completed",
		FocusAreas: focus,
		ActionItems: []ActionItem{
			{
				Title:   "Evidence organisation",
				Details: "Confirm all artefacts follow the evidence-layer taxonomy.",
			},
			{
				Title:   "Risk mitigation",
				Details: "Cross-validate transcript entries against the document layer.",
			},
		},
		Recommendations: []string{
			"Prioritise structured evidence folders with hash based integrity checks.",
			"Schedule recurring sync cycles to keep peer nodes aligned.",
			"Run a fusion audit before sharing exported reports.",
		},
	}, nil
}
