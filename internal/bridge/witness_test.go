package bridge

import (
	"errors"
	"testing"
)

// recordingWitness collects events; failing ones return err from Notify.
type recordingWitness struct {
	events []Event
	err    error
}

func (w *recordingWitness) Notify(ev Event) error {
	if w.err != nil {
		return w.err
	}
	w.events = append(w.events, ev)
	return nil
}

func TestWitnessRegister_Idempotent(t *testing.T) {
	net := NewWitnessNetwork()
	a := &recordingWitness{}
	if fresh := net.Register("alpha", a); !fresh {
		t.Error("first registration should be fresh")
	}
	if fresh := net.Register("alpha", a); fresh {
		t.Error("re-registration should not be fresh")
	}
	if net.Len() != 1 {
		t.Errorf("network size: got %d, want 1", net.Len())
	}
}

func TestBroadcast_IsolatesHandlerFailure(t *testing.T) {
	net := NewWitnessNetwork()
	failing := &recordingWitness{err: errors.New("handler down")}
	healthy := &recordingWitness{}
	net.Register("failing", failing)
	net.Register("healthy", healthy)

	ev := Event{Node: "origin", Changes: []LayerChange{{Layer: "notes", EntryIDs: []string{"e1"}}}}
	errs := net.Broadcast(ev)

	if len(errs) != 1 {
		t.Fatalf("delivery errors: got %d, want 1", len(errs))
	}
	if errs[0].NodeID != "failing" {
		t.Errorf("delivery error node: got %q", errs[0].NodeID)
	}
	if !errors.Is(&errs[0], failing.err) {
		t.Errorf("delivery error should wrap the handler error")
	}
	if len(healthy.events) != 1 {
		t.Fatalf("healthy witness received %d events, want 1", len(healthy.events))
	}
}

func TestBroadcast_RegistrationOrder(t *testing.T) {
	net := NewWitnessNetwork()
	var order []string
	mk := func(id string) Witness {
		return notifyFunc(func(Event) error {
			order = append(order, id)
			return nil
		})
	}
	net.Register("first", mk("first"))
	net.Register("second", mk("second"))
	net.Register("third", mk("third"))
	// Re-registering keeps the original slot.
	net.Register("second", mk("second"))

	net.Broadcast(Event{Node: "origin"})
	want := []string{"first", "second", "third"}
	for i, id := range want {
		if order[i] != id {
			t.Fatalf("delivery order: got %v, want %v", order, want)
		}
	}
}

func TestBroadcast_SkipsUnregisteredAndOrigin(t *testing.T) {
	net := NewWitnessNetwork()
	gone := &recordingWitness{}
	self := &recordingWitness{}
	net.Register("gone", gone)
	net.Register("self", self)
	net.Unregister("gone")

	net.Broadcast(Event{Node: "self"})
	if len(gone.events) != 0 {
		t.Error("unregistered witness was notified")
	}
	if len(self.events) != 0 {
		t.Error("origin node observed its own change")
	}
}

func TestWitnessClear(t *testing.T) {
	net := NewWitnessNetwork()
	w := &recordingWitness{}
	net.Register("only", w)
	net.Clear()
	if net.Len() != 0 {
		t.Fatalf("network size after clear: %d", net.Len())
	}
	net.Broadcast(Event{Node: "origin"})
	if len(w.events) != 0 {
		t.Error("cleared witness was notified")
	}
}

// notifyFunc adapts a function to the Witness interface.
type notifyFunc func(Event) error

func (f notifyFunc) Notify(ev Event) error { return f(ev) }
