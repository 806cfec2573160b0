package bridge

// Conflict records an identifier collision: the same entry ID observed on
// two or more nodes with differing payloads. Conflicts are resolved
// first-seen-wins by node order and surfaced here, never raised as errors.
type Conflict struct {
	Layer      string
	EntryID    string
	WinnerNode string
	LoserNodes []string
}

// MergeSummary reports the outcome of one fusion cycle.
type MergeSummary struct {
	Propagated     map[string]int // layer name -> entries written to lagging nodes
	Total          int
	Conflicts      []Conflict
	DeliveryErrors []DeliveryError
}

// FusionLoop reconciles entries across independent nodes into a converged
// state: every node ends up holding every entry observed anywhere, with
// identifier collisions resolved deterministically by caller-supplied node
// order. The loop holds no state of its own beyond the witness network it
// broadcasts through, so repeated or concurrent cycles over disjoint node
// groups are safe.
type FusionLoop struct {
	witnesses *WitnessNetwork
}

// NewFusionLoop creates a fusion loop broadcasting through witnesses.
// A nil witness network disables broadcasting.
func NewFusionLoop(witnesses *WitnessNetwork) *FusionLoop {
	return &FusionLoop{witnesses: witnesses}
}

// canonical is the winning entry for one ID plus where it was first seen.
type canonical struct {
	entry Entry
	node  string
}

// Cycle performs a single reconciliation pass over nodes. Node order
// defines precedence: on an ID collision with differing payloads, the
// earlier node's entry wins and is written over the later nodes' copies.
// A layer name present on some nodes only is treated as empty on the
// others and auto-created when the first entry is propagated. Running
// Cycle twice with no new source entries is a no-op.
func (f *FusionLoop) Cycle(nodes []*Node) MergeSummary {
	summary := MergeSummary{Propagated: make(map[string]int)}
	if len(nodes) == 0 {
		return summary
	}

	// Changed layers per node, accumulated across all layers so each node
	// receives at most one broadcast per cycle.
	pending := make([][]LayerChange, len(nodes))

	for _, layerName := range unionLayerNames(nodes) {
		// First pass: pick the canonical entry per ID, first-seen-wins,
		// recording collisions with divergent payloads.
		var ids []string // first-seen order
		winners := make(map[string]canonical)
		conflicts := make(map[string]*Conflict)
		for _, node := range nodes {
			if !node.HasLayer(layerName) {
				continue
			}
			for _, e := range node.Layer(layerName).All() {
				win, seen := winners[e.ID]
				if !seen {
					winners[e.ID] = canonical{entry: e, node: node.Name()}
					ids = append(ids, e.ID)
					continue
				}
				if e.Content == win.entry.Content {
					continue // identical payload, not a conflict
				}
				c, ok := conflicts[e.ID]
				if !ok {
					c = &Conflict{Layer: layerName, EntryID: e.ID, WinnerNode: win.node}
					conflicts[e.ID] = c
				}
				c.LoserNodes = append(c.LoserNodes, node.Name())
			}
		}
		for _, id := range ids {
			if c, ok := conflicts[id]; ok {
				summary.Conflicts = append(summary.Conflicts, *c)
			}
		}

		// Second pass: bring every node up to the canonical state. Missing
		// entries are appended; divergent payloads are overwritten in place.
		for i, node := range nodes {
			if len(ids) == 0 {
				continue
			}
			layer := node.Layer(layerName) // auto-created on the absent side
			var changed []string
			for _, id := range ids {
				win := winners[id]
				existing, ok := layer.Get(id)
				switch {
				case !ok:
					if _, err := layer.Append(win.entry.clone()); err != nil {
						continue // bounded layer full; entry stays absent
					}
					changed = append(changed, id)
				case existing.Content != win.entry.Content:
					layer.replace(win.entry.clone())
					changed = append(changed, id)
				}
			}
			if len(changed) > 0 {
				summary.Propagated[layerName] += len(changed)
				summary.Total += len(changed)
				pending[i] = append(pending[i], LayerChange{Layer: layerName, EntryIDs: changed})
			}
		}
	}

	if f.witnesses != nil {
		for i, changes := range pending {
			if len(changes) == 0 {
				continue
			}
			ev := Event{Node: nodes[i].Name(), Changes: changes}
			summary.DeliveryErrors = append(summary.DeliveryErrors, f.witnesses.Broadcast(ev)...)
		}
	}
	return summary
}

// unionLayerNames returns the distinct layer names across all nodes,
// ordered by node precedence then layer creation order, so repeated cycles
// visit layers deterministically.
func unionLayerNames(nodes []*Node) []string {
	var names []string
	seen := make(map[string]bool)
	for _, node := range nodes {
		for _, name := range node.LayerNames() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
