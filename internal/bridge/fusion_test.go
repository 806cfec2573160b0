package bridge

import (
	"reflect"
	"testing"
)

// seed files an entry with an explicit ID into a node's layer.
func seed(t *testing.T, n *Node, layer, id, content string) {
	t.Helper()
	e := Entry{ID: id, Layer: layer, Source: "TEST", Content: content}
	if _, err := n.Layer(layer).Append(e); err != nil {
		t.Fatalf("seed %s/%s on %s: %v", layer, id, n.Name(), err)
	}
}

func TestCycle_EmptyNodeList(t *testing.T) {
	summary := NewFusionLoop(nil).Cycle(nil)
	if summary.Total != 0 || len(summary.Conflicts) != 0 {
		t.Fatalf("empty cycle: %+v", summary)
	}
}

func TestCycle_DisjointEntriesConverge(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	seed(t, a, "notes", "e1", "alpha")
	seed(t, a, "notes", "e2", "beta")
	seed(t, b, "notes", "e3", "gamma")

	summary := NewFusionLoop(nil).Cycle([]*Node{a, b})

	if len(summary.Conflicts) != 0 {
		t.Errorf("disjoint IDs reported %d conflicts", len(summary.Conflicts))
	}
	if summary.Propagated["notes"] != 3 {
		t.Errorf("propagated: got %d, want 3 (e3 to a, e1+e2 to b)", summary.Propagated["notes"])
	}
	for _, n := range []*Node{a, b} {
		for _, id := range []string{"e1", "e2", "e3"} {
			if !n.Layer("notes").Has(id) {
				t.Errorf("node %s missing %s after cycle", n.Name(), id)
			}
		}
	}
}

func TestCycle_FirstSeenWinsOnConflict(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	seed(t, a, "notes", "x", "P1")
	seed(t, b, "notes", "x", "P2")

	summary := NewFusionLoop(nil).Cycle([]*Node{a, b})

	if len(summary.Conflicts) != 1 {
		t.Fatalf("conflicts: got %d, want 1", len(summary.Conflicts))
	}
	c := summary.Conflicts[0]
	if c.EntryID != "x" || c.Layer != "notes" || c.WinnerNode != "a" {
		t.Errorf("conflict record: %+v", c)
	}
	if !reflect.DeepEqual(c.LoserNodes, []string{"b"}) {
		t.Errorf("loser nodes: %v", c.LoserNodes)
	}
	for _, n := range []*Node{a, b} {
		got, _ := n.Layer("notes").Get("x")
		if got.Content != "P1" {
			t.Errorf("node %s resolved to %q, want P1", n.Name(), got.Content)
		}
	}
}

func TestCycle_Idempotent(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	seed(t, a, "notes", "x", "P1")
	seed(t, b, "notes", "x", "P2")
	seed(t, b, "facts", "y", "F1")

	loop := NewFusionLoop(nil)
	loop.Cycle([]*Node{a, b})
	second := loop.Cycle([]*Node{a, b})

	if second.Total != 0 {
		t.Errorf("second cycle propagated %d entries, want 0", second.Total)
	}
	if len(second.Conflicts) != 0 {
		t.Errorf("second cycle reported %d conflicts, want 0", len(second.Conflicts))
	}
}

func TestCycle_Deterministic(t *testing.T) {
	build := func() []*Node {
		a := NewNode("a")
		b := NewNode("b")
		c := NewNode("c")
		seed(t, a, "notes", "x", "P1")
		seed(t, b, "notes", "x", "P2")
		seed(t, c, "notes", "x", "P3")
		seed(t, b, "facts", "y", "F1")
		seed(t, c, "facts", "z", "F2")
		return []*Node{a, b, c}
	}

	first := NewFusionLoop(nil).Cycle(build())
	second := NewFusionLoop(nil).Cycle(build())

	if !reflect.DeepEqual(first.Propagated, second.Propagated) {
		t.Errorf("propagation differs: %v vs %v", first.Propagated, second.Propagated)
	}
	if !reflect.DeepEqual(first.Conflicts, second.Conflicts) {
		t.Errorf("conflicts differ: %+v vs %+v", first.Conflicts, second.Conflicts)
	}
}

func TestCycle_IdenticalPayloadIsNotConflict(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	seed(t, a, "notes", "x", "same")
	seed(t, b, "notes", "x", "same")

	summary := NewFusionLoop(nil).Cycle([]*Node{a, b})
	if len(summary.Conflicts) != 0 {
		t.Errorf("identical payloads reported %d conflicts", len(summary.Conflicts))
	}
	if summary.Total != 0 {
		t.Errorf("identical nodes propagated %d entries", summary.Total)
	}
}

func TestCycle_AbsentLayerAutoCreated(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	seed(t, a, "only_on_a", "e1", "payload")

	NewFusionLoop(nil).Cycle([]*Node{a, b})
	if !b.HasLayer("only_on_a") {
		t.Fatal("layer not auto-created on lagging node")
	}
	if !b.Layer("only_on_a").Has("e1") {
		t.Error("entry not propagated into auto-created layer")
	}
}

func TestCycle_BatchedBroadcastPerNode(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	seed(t, a, "notes", "e1", "alpha")
	seed(t, a, "notes", "e2", "beta")
	seed(t, a, "facts", "e3", "gamma")

	net := NewWitnessNetwork()
	observer := &recordingWitness{}
	net.Register("observer", observer)

	NewFusionLoop(net).Cycle([]*Node{a, b})

	// Node b received entries in two layers; that is one event with two
	// layer changes, not three per-entry events.
	if len(observer.events) != 1 {
		t.Fatalf("observer saw %d events, want 1", len(observer.events))
	}
	ev := observer.events[0]
	if ev.Node != "b" {
		t.Errorf("event node: got %q, want b", ev.Node)
	}
	if len(ev.Changes) != 2 {
		t.Fatalf("event changes: got %d layers, want 2", len(ev.Changes))
	}
	total := 0
	for _, ch := range ev.Changes {
		total += len(ch.EntryIDs)
	}
	if total != 3 {
		t.Errorf("event entry IDs: got %d, want 3", total)
	}
}
