package bridge

import (
	"fmt"
	"strings"
	"time"

	"github.com/omnibridge/omnibridge/internal/catalog"
)

// Bridge is a facade over the low-level components: it owns a local node
// whose layers connectors stage into, the witness network, the fusion
// loop, and the capability catalog. Bridges are constructed explicitly and
// passed by reference; there is no package-level instance.
type Bridge struct {
	local     *Node
	witnesses *WitnessNetwork
	catalog   *catalog.Catalog
	fusion    *FusionLoop
}

// Options configures a Bridge. Zero values get sensible defaults.
type Options struct {
	// LocalNodeName names the node connectors stage entries into.
	// Defaults to "local".
	LocalNodeName string

	// LayerCapacity bounds layers auto-created on the local node.
	// 0 means unbounded.
	LayerCapacity int

	// Witnesses and Catalog may be shared across bridges; nil creates
	// fresh instances.
	Witnesses *WitnessNetwork
	Catalog   *catalog.Catalog
}

// New creates a bridge with the given options.
func New(opts Options) *Bridge {
	name := opts.LocalNodeName
	if name == "" {
		name = "local"
	}
	w := opts.Witnesses
	if w == nil {
		w = NewWitnessNetwork()
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.New()
	}
	b := &Bridge{
		local:     NewBoundedNode(name, opts.LayerCapacity),
		witnesses: w,
		catalog:   cat,
		fusion:    NewFusionLoop(w),
	}
	return b
}

// Local returns the node connectors stage entries into.
func (b *Bridge) Local() *Node { return b.local }

// Witnesses returns the bridge's witness network.
func (b *Bridge) Witnesses() *WitnessNetwork { return b.witnesses }

// Catalog returns the capability catalog.
func (b *Bridge) Catalog() *catalog.Catalog { return b.catalog }

// RegisterLayer ensures a local layer with name exists and returns it.
// Registering a layer publishes a memory.fetch_<name> capability into the
// catalog so external agents can discover it.
func (b *Bridge) RegisterLayer(name string) (*Layer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("bridge: layer name cannot be empty")
	}
	existed := b.local.HasLayer(name)
	layer := b.local.Layer(name)
	if !existed {
		b.registerLayerSpec(name)
	}
	return layer, nil
}

// RegisterBoundedLayer ensures a local layer with name exists with the
// given capacity bound and returns it. An existing layer keeps its
// original bound. Like RegisterLayer, a fresh layer is published to the
// catalog.
func (b *Bridge) RegisterBoundedLayer(name string, capacity int) (*Layer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("bridge: layer name cannot be empty")
	}
	existed := b.local.HasLayer(name)
	layer := b.local.BoundedLayer(name, capacity)
	if !existed {
		b.registerLayerSpec(name)
	}
	return layer, nil
}

// Layer returns the named local layer without creating it.
func (b *Bridge) Layer(name string) (*Layer, bool) {
	if !b.local.HasLayer(name) {
		return nil, false
	}
	return b.local.Layer(name), true
}

// RegisterNode registers a node with the witness network and reports
// whether the registration was fresh.
func (b *Bridge) RegisterNode(node *Node) bool {
	return b.witnesses.Register(node.Name(), node)
}

// Sync runs one fusion cycle over the local node plus peers, in that
// order, so locally staged entries take precedence on conflicts.
func (b *Bridge) Sync(peers ...*Node) MergeSummary {
	nodes := make([]*Node, 0, len(peers)+1)
	nodes = append(nodes, b.local)
	nodes = append(nodes, peers...)
	return b.fusion.Cycle(nodes)
}

// ExportLayer returns entries from the named local layer filtered by
// since. A zero since returns everything.
func (b *Bridge) ExportLayer(name string, since time.Time) ([]Entry, error) {
	layer, ok := b.Layer(name)
	if !ok {
		return nil, fmt.Errorf("bridge: layer %q not found", name)
	}
	return layer.Query(since), nil
}

// registerLayerSpec creates or refreshes the catalog entry for a layer.
func (b *Bridge) registerLayerSpec(name string) {
	spec := catalog.FunctionSpec{
		Name:        "memory.fetch_" + name,
		Description: fmt.Sprintf("Retrieve stored entries from the %q memory layer.", name),
		Inputs: map[string]string{
			"since": "Optional RFC 3339 timestamp used to filter results.",
		},
		Outputs: map[string]string{
			"entries": "Serialized memory entries with layer, source, content, and timestamp.",
		},
		Tags: []string{"memory", name},
	}
	_ = b.catalog.Register(spec, true)
}
