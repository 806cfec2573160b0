package operator

import "fmt"

// capacityWarnRatio is the fill level at which a bounded layer is flagged.
const capacityWarnRatio = 0.9

// recommend derives actionable recommendation strings from a cycle audit.
// The rules are deliberately simple and deterministic.
func recommend(report AuditReport) []string {
	var recs []string

	for _, ls := range report.Layers {
		if ls.Fill.Bounded && ls.Fill.Ratio >= capacityWarnRatio {
			recs = append(recs, fmt.Sprintf(
				"Layer %q exceeds 90%% capacity (%d/%d). Raise the bound or archive old entries.",
				ls.Name, ls.Fill.Count, ls.Fill.Capacity))
		}
	}

	if n := report.AlertCount(); n > 0 {
		recs = append(recs, fmt.Sprintf(
			"%d ingestion failure(s) in the last cycle. Review the %s layer.", n, AlertLayer))
	}

	for _, ca := range report.Connectors {
		if !ca.Failed && ca.Produced == 0 {
			recs = append(recs, fmt.Sprintf(
				"Connector %q produced no entries. Verify its data sources.", ca.Name))
		}
	}

	if n := len(report.Fusion.Conflicts); n > 0 {
		recs = append(recs, fmt.Sprintf(
			"Fusion resolved %d identifier conflict(s) by node precedence. Review divergent sources.", n))
	}
	if n := len(report.Fusion.DeliveryErrors); n > 0 {
		recs = append(recs, fmt.Sprintf(
			"%d witness delivery failure(s) during broadcast. Check registered nodes.", n))
	}

	if len(recs) == 0 {
		recs = append(recs, "All connectors are operating nominally. Continue monitoring throughput.")
	}
	return recs
}
