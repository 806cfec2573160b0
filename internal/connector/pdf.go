package connector

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/omnibridge/omnibridge/internal/bridge"
)

// DefaultPDFLayer is the layer PDF document records are filed into.
const DefaultPDFLayer = "document_insights"

// PDF lists PDF documents under a documents root, producing one entry per
// document with its page count and size. A document that pdfcpu cannot
// read degrades to an entry without the page count rather than failing
// the whole batch; only a missing root is an ingestion failure.
type PDF struct {
	Root   string
	Layer  string // defaults to DefaultPDFLayer
	Source string // defaults to "MEGA_PDF"
}

// Domain implements Connector.
func (p *PDF) Domain() string {
	if p.Layer == "" {
		return DefaultPDFLayer
	}
	return p.Layer
}

// SourceName identifies the evidence source entries are attributed to.
func (p *PDF) SourceName() string {
	if p.Source == "" {
		return "MEGA_PDF"
	}
	return p.Source
}

// Ingest implements Connector.
func (p *PDF) Ingest(ctx context.Context) ([]bridge.Entry, error) {
	source := p.SourceName()
	if _, err := os.Stat(p.Root); err != nil {
		return nil, fmt.Errorf("pdf connector: stat root: %w", err)
	}

	var entries []bridge.Entry
	err := filepath.WalkDir(p.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}
		rel, _ := filepath.Rel(p.Root, path)

		e := bridge.NewEntry(p.Domain(), source, "Document: "+filepath.ToSlash(rel)).
			WithCategory("document").
			WithMetadata("path", filepath.ToSlash(rel))
		if info, err := d.Info(); err == nil {
			e = e.WithMetadata("size", fmt.Sprintf("%d", info.Size()))
		}
		if pages, err := api.PageCountFile(path); err == nil {
			e = e.WithMetadata("pages", fmt.Sprintf("%d", pages))
		} else {
			e = e.WithMetadata("read_error", err.Error())
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pdf connector: walk %s: %w", p.Root, err)
	}
	return entries, nil
}
