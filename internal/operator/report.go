package operator

import (
	"time"

	"github.com/omnibridge/omnibridge/internal/advisor"
	"github.com/omnibridge/omnibridge/internal/bridge"
)

// LayerStatus pairs a layer name with its fill level at report time.
type LayerStatus struct {
	Name string           `json:"name"`
	Fill bridge.FillLevel `json:"fill"`
}

// ConnectorAudit is the outcome of running one connector during a cycle.
type ConnectorAudit struct {
	Name     string `json:"name"`
	Produced int    `json:"produced"`
	Inserted int    `json:"inserted"`
	Failed   bool   `json:"failed"`
	Error    string `json:"error,omitempty"`
}

// Alert describes one ingestion failure recorded during a cycle.
type Alert struct {
	Connector string `json:"connector"`
	Message   string `json:"message"`
}

// AuditReport summarises one full ingestion and fusion cycle. Reports are
// built fresh per cycle and immutable once returned.
type AuditReport struct {
	ID              string              `json:"id"`
	Timestamp       time.Time           `json:"timestamp"`
	Layers          []LayerStatus       `json:"layers"`
	Connectors      []ConnectorAudit    `json:"connectors"`
	Alerts          []Alert             `json:"alerts,omitempty"`
	Fusion          bridge.MergeSummary `json:"fusion"`
	Recommendations []string            `json:"recommendations"`
}

// AlertCount returns the number of ingestion failures in the cycle.
func (r AuditReport) AlertCount() int { return len(r.Alerts) }

// SystemReport is the full artifact handed to reporting sinks: the cycle
// audit plus the operator context and the advisor's narrative strategy.
type SystemReport struct {
	AuditReport
	Context  string           `json:"context,omitempty"`
	Strategy advisor.Strategy `json:"strategy"`

	// Catalog lists the capability names published at report time.
	Catalog []string `json:"catalog,omitempty"`
}

// ReportRenderer turns a system report into a document. Implementations
// live outside the orchestration core (see internal/export).
type ReportRenderer interface {
	Render(SystemReport) (string, error)
}
