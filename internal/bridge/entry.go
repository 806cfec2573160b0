// Package bridge implements Omnibridge's in-process memory bridge: typed
// entries filed into named layers, a witness network that fans change
// notifications out to registered nodes, and a fusion loop that reconciles
// entries across nodes.
package bridge

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Entry is one immutable unit of ingested intelligence.
// Entries are created by connectors, filed into a layer, and never mutated.
type Entry struct {
	ID        string            `json:"id"`
	Layer     string            `json:"layer"`
	Source    string            `json:"source"`
	Content   string            `json:"content"`
	Category  string            `json:"category,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// EntryID derives the deterministic identifier for an entry. The same
// (source, layer, content) triple always produces the same ID, which lets
// layers deduplicate by identity instead of deep comparison.
func EntryID(layer, source, content string) string {
	h := sha256.Sum256([]byte(source + "\x00" + layer + "\x00" + content))
	return hex.EncodeToString(h[:8])
}

// NewEntry creates an entry with a deterministic ID and a UTC timestamp.
func NewEntry(layer, source, content string) Entry {
	return Entry{
		ID:        EntryID(layer, source, content),
		Layer:     layer,
		Source:    source,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// WithCategory returns a copy of the entry carrying a classification label.
func (e Entry) WithCategory(category string) Entry {
	e.Category = category
	return e
}

// WithMetadata returns a copy of the entry with one metadata pair set.
// The original entry's metadata map is never mutated.
func (e Entry) WithMetadata(key, value string) Entry {
	md := make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		md[k] = v
	}
	md[key] = value
	e.Metadata = md
	return e
}

// clone returns a deep copy so that propagated entries never share the
// metadata map with the originating node.
func (e Entry) clone() Entry {
	if e.Metadata != nil {
		md := make(map[string]string, len(e.Metadata))
		for k, v := range e.Metadata {
			md[k] = v
		}
		e.Metadata = md
	}
	return e
}
