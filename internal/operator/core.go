// Package operator drives end-to-end ingestion, fusion, and reporting
// cycles over a memory bridge.
package operator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/omnibridge/omnibridge/internal/advisor"
	"github.com/omnibridge/omnibridge/internal/bridge"
	"github.com/omnibridge/omnibridge/internal/connector"
)

// AlertLayer is the layer ingestion failures are recorded into.
const AlertLayer = "ingestion_alerts"

// Core coordinates connectors, the memory bridge, and the advisor.
// A Core instance never runs two cycles concurrently: RunCycle holds an
// exclusive run-lock for the duration of the cycle.
type Core struct {
	mu sync.Mutex

	bridge     *bridge.Bridge
	advisor    advisor.Advisor
	connectors []connector.Connector
	domains    map[string]bool

	progress func(connectorName string)
	latest   *SystemReport
}

// Option configures a Core.
type Option func(*Core)

// WithProgress installs a callback invoked before each connector runs,
// used by the CLI to drive a progress bar.
func WithProgress(fn func(connectorName string)) Option {
	return func(c *Core) { c.progress = fn }
}

// New creates a Core over the given bridge. Duplicate connector domains
// are a ConfigurationError: the cycle would file two sources into one
// layer with conflicting semantics. The alert layer name is reserved.
func New(b *bridge.Bridge, adv advisor.Advisor, connectors []connector.Connector, opts ...Option) (*Core, error) {
	if b == nil {
		return nil, &ConfigurationError{Reason: "bridge is required"}
	}
	if adv == nil {
		adv = &advisor.Heuristic{}
	}
	c := &Core{bridge: b, advisor: adv, domains: make(map[string]bool)}
	for _, conn := range connectors {
		if err := c.RegisterConnector(conn); err != nil {
			return nil, err
		}
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// RegisterConnector adds a connector. Fails with a ConfigurationError on
// a duplicate or reserved domain name.
func (c *Core) RegisterConnector(conn connector.Connector) error {
	domain := conn.Domain()
	if strings.TrimSpace(domain) == "" {
		return &ConfigurationError{Reason: "connector domain cannot be empty"}
	}
	if domain == AlertLayer {
		return &ConfigurationError{Reason: fmt.Sprintf("domain %q is reserved for ingestion failures", AlertLayer)}
	}
	if c.domains[domain] {
		return &ConfigurationError{Reason: fmt.Sprintf("duplicate connector domain %q", domain)}
	}
	c.domains[domain] = true
	c.connectors = append(c.connectors, conn)
	return nil
}

// Bridge returns the memory bridge the core orchestrates.
func (c *Core) Bridge() *bridge.Bridge { return c.bridge }

// RunCycle executes one ingestion+fusion+report cycle. Connectors run
// sequentially; a failing connector is recorded as an alert and never
// aborts the cycle. Entries are staged into the bridge's local node, then
// one fusion cycle reconciles the local node with peers (local first, so
// freshly ingested entries win conflicts).
func (c *Core) RunCycle(ctx context.Context, peers ...*bridge.Node) (AuditReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	report := AuditReport{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
	}

	for _, conn := range c.connectors {
		if c.progress != nil {
			c.progress(conn.Domain())
		}
		audit := ConnectorAudit{Name: conn.Domain()}
		entries, err := conn.Ingest(ctx)
		if err != nil {
			ierr := &IngestionError{Connector: conn.Domain(), Source: connectorSource(conn), Err: err}
			audit.Failed = true
			audit.Error = ierr.Error()
			report.Alerts = append(report.Alerts, c.recordAlert(conn.Domain(), ierr.Error()))
			report.Connectors = append(report.Connectors, audit)
			continue
		}
		audit.Produced = len(entries)
		for _, e := range entries {
			layerName := e.Layer
			if layerName == "" {
				layerName = conn.Domain()
				e.Layer = layerName
			}
			layer, err := c.bridge.RegisterLayer(layerName)
			if err != nil {
				report.Alerts = append(report.Alerts, c.recordAlert(conn.Domain(), err.Error()))
				continue
			}
			inserted, err := layer.Append(e)
			if err != nil {
				report.Alerts = append(report.Alerts, c.recordAlert(conn.Domain(), err.Error()))
				continue
			}
			if inserted {
				audit.Inserted++
			}
		}
		report.Connectors = append(report.Connectors, audit)
	}

	report.Fusion = c.bridge.Sync(peers...)
	report.Layers = c.layerStatus()
	report.Recommendations = recommend(report)
	return report, nil
}

// connectorSource extracts the evidence source identity from connectors
// that expose one (all stock connectors do).
func connectorSource(conn connector.Connector) string {
	if src, ok := conn.(interface{ SourceName() string }); ok {
		return src.SourceName()
	}
	return ""
}

// recordAlert files an ingestion failure into the alert layer and returns
// the alert for the report. Alert layer append failures are swallowed:
// alerting must never fail a cycle.
func (c *Core) recordAlert(connectorName, message string) Alert {
	if layer, err := c.bridge.RegisterLayer(AlertLayer); err == nil {
		e := bridge.NewEntry(AlertLayer, connectorName, message).WithCategory("alert")
		_, _ = layer.Append(e)
	}
	return Alert{Connector: connectorName, Message: message}
}

// layerStatus snapshots local layer fill levels in creation order.
func (c *Core) layerStatus() []LayerStatus {
	local := c.bridge.Local()
	names := local.LayerNames()
	out := make([]LayerStatus, 0, len(names))
	for _, name := range names {
		out = append(out, LayerStatus{Name: name, Fill: local.Layer(name).FillLevel()})
	}
	return out
}

// BuildSystemReport runs one cycle and wraps the audit in a SystemReport
// with the advisor's narrative strategy for the given context text.
func (c *Core) BuildSystemReport(ctx context.Context, contextText string, peers ...*bridge.Node) (SystemReport, error) {
	audit, err := c.RunCycle(ctx, peers...)
	if err != nil {
		return SystemReport{}, err
	}
	if contextText == "" {
		contextText = "General system overview"
	}

	report := SystemReport{AuditReport: audit, Context: contextText}
	for _, spec := range c.bridge.Catalog().Describe() {
		report.Catalog = append(report.Catalog, spec.Name)
	}

	strategy, err := c.advisor.Generate(ctx, briefing(contextText, audit))
	if err != nil {
		// The narrative is advisory; a provider failure degrades to an
		// empty strategy noted in the recommendations.
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("Strategy generation unavailable: %v", err))
	} else {
		report.Strategy = strategy
	}

	c.mu.Lock()
	c.latest = &report
	c.mu.Unlock()
	return report, nil
}

// LatestReport returns the most recent system report, or nil if no report
// has been built yet. Polled by dashboards.
func (c *Core) LatestReport() *SystemReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest
}

// LayerSnapshot returns the local node's layers and their entries.
func (c *Core) LayerSnapshot() map[string][]bridge.Entry {
	local := c.bridge.Local()
	out := make(map[string][]bridge.Entry)
	for _, name := range local.LayerNames() {
		out[name] = local.Layer(name).All()
	}
	return out
}

// ExportReport renders the latest system report with r and writes it to
// path, creating parent directories as needed.
func (c *Core) ExportReport(path string, r ReportRenderer) error {
	report := c.LatestReport()
	if report == nil {
		return fmt.Errorf("operator: no system report built yet")
	}
	doc, err := r.Render(*report)
	if err != nil {
		return fmt.Errorf("operator: render report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("operator: create report directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("operator: write report: %w", err)
	}
	return nil
}

// briefing condenses a cycle audit into the text handed to the advisor.
func briefing(contextText string, audit AuditReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Context: %s\n", contextText)
	fmt.Fprintf(&b, "Connectors run: %d\n", len(audit.Connectors))
	for _, ca := range audit.Connectors {
		if ca.Failed {
			fmt.Fprintf(&b, "- %s failed: %s\n", ca.Name, ca.Error)
		} else {
			fmt.Fprintf(&b, "- %s produced %d entries\n", ca.Name, ca.Produced)
		}
	}
	fmt.Fprintf(&b, "Ingestion failures: %d\n", audit.AlertCount())
	fmt.Fprintf(&b, "Fusion: %d entries propagated, %d conflicts\n",
		audit.Fusion.Total, len(audit.Fusion.Conflicts))
	return b.String()
}

// DefaultConnectorOptions binds the stock connectors to workspace inputs.
type DefaultConnectorOptions struct {
	EvidenceDir    string
	DocumentsDir   string
	TranscriptsDir string
	Notes          []string
}

// DefaultConnectors constructs the stock connector set for the inputs.
// Empty directories are skipped rather than configured to fail.
func DefaultConnectors(opts DefaultConnectorOptions) []connector.Connector {
	var out []connector.Connector
	if opts.EvidenceDir != "" {
		out = append(out, &connector.File{Root: opts.EvidenceDir})
	}
	if opts.DocumentsDir != "" {
		out = append(out, &connector.PDF{Root: opts.DocumentsDir})
	}
	if opts.TranscriptsDir != "" {
		out = append(out, &connector.Transcript{Root: opts.TranscriptsDir})
	}
	notes := opts.Notes
	if len(notes) == 0 {
		notes = []string{
			"Synchronized memory layers across evidence, document, and transcript domains.",
			"Maintain continuous monitoring and refresh connectors on change.",
		}
	}
	out = append(out, &connector.Static{
		Layer:    "operational_notes",
		Source:   "OPERATOR",
		Payloads: notes,
	})
	return out
}
