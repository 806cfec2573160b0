package bridge

// Node is a named holder of memory layers participating in fusion and
// witness broadcast. Layers are created on first reference by name and
// never destroyed within a process run.
type Node struct {
	name     string
	order    []string
	layers   map[string]*Layer
	received []Event

	// Capacity applied to layers auto-created on this node; 0 = unbounded.
	defaultCapacity int
}

// NewNode creates a node with no layers.
func NewNode(name string) *Node {
	return &Node{name: name, layers: make(map[string]*Layer)}
}

// NewBoundedNode creates a node whose auto-created layers are capped at
// capacity entries each.
func NewBoundedNode(name string, capacity int) *Node {
	n := NewNode(name)
	n.defaultCapacity = capacity
	return n
}

// Name returns the node identifier.
func (n *Node) Name() string { return n.name }

// Layer returns the named layer, creating it on first reference.
func (n *Node) Layer(name string) *Layer {
	if l, ok := n.layers[name]; ok {
		return l
	}
	l := NewBoundedLayer(name, n.defaultCapacity)
	n.layers[name] = l
	n.order = append(n.order, name)
	return l
}

// BoundedLayer returns the named layer, creating it with the given
// capacity on first reference. An existing layer keeps its original bound.
func (n *Node) BoundedLayer(name string, capacity int) *Layer {
	if l, ok := n.layers[name]; ok {
		return l
	}
	l := NewBoundedLayer(name, capacity)
	n.layers[name] = l
	n.order = append(n.order, name)
	return l
}

// HasLayer reports whether the named layer exists without creating it.
func (n *Node) HasLayer(name string) bool {
	_, ok := n.layers[name]
	return ok
}

// LayerNames returns layer names in creation order.
func (n *Node) LayerNames() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

// FillLevels returns the fill level of every layer keyed by name.
func (n *Node) FillLevels() map[string]FillLevel {
	out := make(map[string]FillLevel, len(n.order))
	for _, name := range n.order {
		out[name] = n.layers[name].FillLevel()
	}
	return out
}

// Notify implements Witness by recording the event. Embedders wanting
// different behaviour wrap the node in their own Witness.
func (n *Node) Notify(ev Event) error {
	n.received = append(n.received, ev)
	return nil
}

// Events returns the broadcast events this node has observed so far.
func (n *Node) Events() []Event {
	out := make([]Event, len(n.received))
	copy(out, n.received)
	return out
}
