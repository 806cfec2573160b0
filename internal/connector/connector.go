// Package connector defines the adapters that produce memory entries from
// external evidence sources. Connectors are opaque to the operator: they
// declare a target layer and return a batch of entries or an error.
package connector

import (
	"context"

	"github.com/omnibridge/omnibridge/internal/bridge"
)

// Connector produces memory entries from one evidence source.
type Connector interface {
	// Domain is the stable name of the layer this connector feeds.
	Domain() string

	// Ingest gathers a batch of entries. An error isolates the connector
	// for the cycle; it never aborts the other connectors.
	Ingest(ctx context.Context) ([]bridge.Entry, error)
}

// Static produces a fixed set of entries. It backs operational notes and
// is the workhorse for operator tests.
type Static struct {
	Layer    string
	Source   string
	Payloads []string

	// Err, when set, is returned from Ingest instead of the payloads.
	Err error
}

// Domain implements Connector.
func (s *Static) Domain() string { return s.Layer }

// SourceName identifies the evidence source entries are attributed to.
func (s *Static) SourceName() string { return s.Source }

// Ingest implements Connector.
func (s *Static) Ingest(_ context.Context) ([]bridge.Entry, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	entries := make([]bridge.Entry, 0, len(s.Payloads))
	for _, payload := range s.Payloads {
		entries = append(entries, bridge.NewEntry(s.Layer, s.Source, payload))
	}
	return entries, nil
}
