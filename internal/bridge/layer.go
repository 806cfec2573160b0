package bridge

import "time"

// FillLevel describes how full a layer is. Ratio is only meaningful when
// Bounded is true; unbounded layers report Ratio as 0 and Bounded false.
type FillLevel struct {
	Count    int
	Capacity int
	Ratio    float64
	Bounded  bool
}

// Layer is a named, insertion-ordered, deduplicated collection of entries
// for one ingestion domain. A layer exclusively owns its entries.
type Layer struct {
	name     string
	capacity int // 0 = unbounded
	entries  []Entry
	index    map[string]int // entry ID -> position in entries
}

// NewLayer creates an unbounded layer.
func NewLayer(name string) *Layer {
	return &Layer{name: name, index: make(map[string]int)}
}

// NewBoundedLayer creates a layer that rejects appends once capacity
// entries are stored. A capacity of 0 or less means unbounded.
func NewBoundedLayer(name string, capacity int) *Layer {
	if capacity < 0 {
		capacity = 0
	}
	return &Layer{name: name, capacity: capacity, index: make(map[string]int)}
}

// Name returns the layer's unique key.
func (l *Layer) Name() string { return l.name }

// Len returns the number of stored entries.
func (l *Layer) Len() int { return len(l.entries) }

// Append inserts the entry if its ID is not already present and reports
// whether an insertion occurred. Appending a duplicate ID is a no-op that
// keeps the original payload. A ValidationError is returned for an empty
// ID, an entry filed under another layer's name, or a full bounded layer;
// the layer is left unchanged in every error case.
func (l *Layer) Append(e Entry) (bool, error) {
	if e.ID == "" {
		return false, validationErr(l.name, "entry has empty identifier")
	}
	if e.Layer != "" && e.Layer != l.name {
		return false, validationErr(l.name, "entry filed under layer %q", e.Layer)
	}
	if _, ok := l.index[e.ID]; ok {
		return false, nil
	}
	if l.capacity > 0 && len(l.entries) >= l.capacity {
		return false, validationErr(l.name, "capacity %d reached", l.capacity)
	}
	l.index[e.ID] = len(l.entries)
	l.entries = append(l.entries, e)
	return true, nil
}

// replace overwrites the stored payload for an existing ID in place,
// preserving the entry's insertion position. Used by the fusion loop to
// resolve identifier collisions; not part of the public append contract.
func (l *Layer) replace(e Entry) bool {
	pos, ok := l.index[e.ID]
	if !ok {
		return false
	}
	l.entries[pos] = e
	return true
}

// Get returns the entry stored under id.
func (l *Layer) Get(id string) (Entry, bool) {
	pos, ok := l.index[id]
	if !ok {
		return Entry{}, false
	}
	return l.entries[pos], true
}

// Has reports whether an entry with the given ID is stored.
func (l *Layer) Has(id string) bool {
	_, ok := l.index[id]
	return ok
}

// All returns every stored entry in insertion order.
func (l *Layer) All() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// EntriesSince returns the entries inserted after the given cursor together
// with the next cursor. Passing the returned cursor back in yields only
// entries appended in between, so callers can consume a layer incrementally.
func (l *Layer) EntriesSince(cursor int) ([]Entry, int) {
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= len(l.entries) {
		return nil, len(l.entries)
	}
	out := make([]Entry, len(l.entries)-cursor)
	copy(out, l.entries[cursor:])
	return out, len(l.entries)
}

// Query returns entries with a timestamp at or after since, in insertion
// order. A zero since returns everything.
func (l *Layer) Query(since time.Time) []Entry {
	if since.IsZero() {
		return l.All()
	}
	var out []Entry
	for _, e := range l.entries {
		if !e.Timestamp.Before(since) {
			out = append(out, e)
		}
	}
	return out
}

// FillLevel returns the occupancy of the layer.
func (l *Layer) FillLevel() FillLevel {
	fl := FillLevel{Count: len(l.entries)}
	if l.capacity > 0 {
		fl.Capacity = l.capacity
		fl.Bounded = true
		fl.Ratio = float64(fl.Count) / float64(l.capacity)
	}
	return fl
}
