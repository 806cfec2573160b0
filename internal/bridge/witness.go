package bridge

import "fmt"

// LayerChange names one changed layer and the entry IDs appended to it.
type LayerChange struct {
	Layer    string
	EntryIDs []string
}

// Event describes a batch of layer changes on one node. The fusion loop
// emits a single event per receiving node per cycle rather than one per
// entry, to bound notification overhead.
type Event struct {
	Node    string
	Changes []LayerChange
}

// Witness receives change notifications for layers it cares about.
type Witness interface {
	Notify(ev Event) error
}

// DeliveryError records a witness handler failure during a broadcast.
// Delivery errors are collected, never propagated to the broadcaster.
type DeliveryError struct {
	NodeID string
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("bridge: deliver to witness %q: %v", e.NodeID, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// WitnessNetwork is a registry of observer nodes notified when entries are
// published. Delivery is synchronous, in registration order, with per-node
// failure isolation: one failing handler never blocks the rest.
type WitnessNetwork struct {
	order []string
	nodes map[string]Witness
}

// NewWitnessNetwork creates an empty registry.
func NewWitnessNetwork() *WitnessNetwork {
	return &WitnessNetwork{nodes: make(map[string]Witness)}
}

// Register adds or updates a witness under id and reports whether this was
// a fresh registration. Re-registering an id replaces the node reference
// but keeps its original position in the delivery order.
func (w *WitnessNetwork) Register(id string, node Witness) bool {
	_, exists := w.nodes[id]
	w.nodes[id] = node
	if !exists {
		w.order = append(w.order, id)
	}
	return !exists
}

// Unregister removes a witness. Broadcasting afterwards never reaches it.
func (w *WitnessNetwork) Unregister(id string) {
	if _, ok := w.nodes[id]; !ok {
		return
	}
	delete(w.nodes, id)
	for i, existing := range w.order {
		if existing == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of registered witnesses.
func (w *WitnessNetwork) Len() int { return len(w.nodes) }

// Broadcast delivers the event to every registered witness in registration
// order. Handler failures are recorded and returned; delivery continues to
// the remaining witnesses. Witnesses registered under the event's own node
// name are skipped so a node never observes its own change.
func (w *WitnessNetwork) Broadcast(ev Event) []DeliveryError {
	var errs []DeliveryError
	for _, id := range w.order {
		if id == ev.Node {
			continue
		}
		node, ok := w.nodes[id]
		if !ok {
			continue
		}
		if err := node.Notify(ev); err != nil {
			errs = append(errs, DeliveryError{NodeID: id, Err: err})
		}
	}
	return errs
}

// Clear removes every registration.
func (w *WitnessNetwork) Clear() {
	w.order = nil
	w.nodes = make(map[string]Witness)
}
