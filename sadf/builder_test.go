package sadf_test

import (
	"errors"
	"testing"

	"github.com/sdf3go/fsmsadf/sadf"
)

// buildS1 constructs the S1 scenario graph from §8: actors A, B and
// channel A→B, rates A.out=2, B.in=3, no initial tokens.
func buildS1(t *testing.T) *sadf.ScenarioGraph {
	t.Helper()
	b := sadf.NewScenarioGraphBuilder("g1")
	a := b.AddActor("A", "")
	bb := b.AddActor("B", "")
	aOut := b.AddPort(a, "out", sadf.Out)
	bIn := b.AddPort(bb, "in", sadf.In)
	b.SetRate(a, aOut, "s1", 2)
	b.SetRate(bb, bIn, "s1", 3)
	b.AddChannel("A_B", sadf.PortRef{Actor: a, Port: aOut}, sadf.PortRef{Actor: bb, Port: bIn}, 0, 0)
	sg, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return sg
}

func TestBuilderHappyPath(t *testing.T) {
	sg := buildS1(t)
	if len(sg.Actors) != 2 || len(sg.Channels) != 1 {
		t.Fatalf("unexpected shape: %d actors, %d channels", len(sg.Actors), len(sg.Channels))
	}
	aID, ok := sg.ActorByName("A")
	if !ok || aID != 0 {
		t.Fatalf("expected actor A at id 0, got %v, %v", aID, ok)
	}
}

func TestBuilderRejectsWrongDirection(t *testing.T) {
	b := sadf.NewScenarioGraphBuilder("g")
	a := b.AddActor("A", "")
	bb := b.AddActor("B", "")
	aIn := b.AddPort(a, "in", sadf.In)
	bIn := b.AddPort(bb, "in", sadf.In)
	b.AddChannel("c", sadf.PortRef{Actor: a, Port: aIn}, sadf.PortRef{Actor: bb, Port: bIn}, 0, 0)
	_, err := b.Build()
	if !errors.Is(err, sadf.ErrPortDirection) {
		t.Fatalf("expected ErrPortDirection, got %v", err)
	}
}

func TestBuilderRejectsDoubleConnectedPort(t *testing.T) {
	b := sadf.NewScenarioGraphBuilder("g")
	a := b.AddActor("A", "")
	bb := b.AddActor("B", "")
	cc := b.AddActor("C", "")
	aOut := b.AddPort(a, "out", sadf.Out)
	bIn := b.AddPort(bb, "in", sadf.In)
	cIn := b.AddPort(cc, "in", sadf.In)
	b.AddChannel("c1", sadf.PortRef{Actor: a, Port: aOut}, sadf.PortRef{Actor: bb, Port: bIn}, 0, 0)
	b.AddChannel("c2", sadf.PortRef{Actor: a, Port: aOut}, sadf.PortRef{Actor: cc, Port: cIn}, 0, 0)
	_, err := b.Build()
	if !errors.Is(err, sadf.ErrPortAlreadyConnected) {
		t.Fatalf("expected ErrPortAlreadyConnected, got %v", err)
	}
}

func TestBuilderRejectsUnconnectedPort(t *testing.T) {
	b := sadf.NewScenarioGraphBuilder("g")
	a := b.AddActor("A", "")
	b.AddPort(a, "out", sadf.Out)
	_, err := b.Build()
	if !errors.Is(err, sadf.ErrUnconnectedPort) {
		t.Fatalf("expected ErrUnconnectedPort, got %v", err)
	}
}

func TestBuilderRejectsTooManyPersistentNames(t *testing.T) {
	b := sadf.NewScenarioGraphBuilder("g")
	a := b.AddActor("A", "")
	aOut := b.AddPort(a, "out", sadf.Out)
	aIn := b.AddPort(a, "in", sadf.In)
	ch := b.AddChannel("self", sadf.PortRef{Actor: a, Port: aOut}, sadf.PortRef{Actor: a, Port: aIn}, 1, 0)
	b.SetPersistentInitialNames(ch, []string{"tok0", "tok1"})
	_, err := b.Build()
	if !errors.Is(err, sadf.ErrTooManyPersistentNames) {
		t.Fatalf("expected ErrTooManyPersistentNames, got %v", err)
	}
}

func TestGraphBuilderS4FSM(t *testing.T) {
	sg := buildS1(t)

	gb := sadf.NewBuilder("G")
	sgID := gb.AddScenarioGraph(sg)
	s1 := gb.AddScenario("s1", sgID, 1)
	s2 := gb.AddScenario("s2", sgID, 1)
	def := gb.AddScenario("default", sgID, 1)
	gb.SetDefaultScenario(def)

	q0 := gb.AddFSMState(s1)
	q1 := gb.AddFSMState(s2)
	gb.AddFSMTransition(q0, q1)
	gb.AddFSMTransition(q1, q0)
	gb.SetInitialState(q0)

	g, err := gb.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.FSM.Initial != q0 {
		t.Errorf("expected initial state %v, got %v", q0, g.FSM.Initial)
	}
	if len(g.FSM.TransitionsFrom(q0)) != 1 {
		t.Errorf("expected 1 transition from q0")
	}
}

func TestGraphBuilderRejectsFSMOnDefaultScenario(t *testing.T) {
	sg := buildS1(t)
	gb := sadf.NewBuilder("G")
	sgID := gb.AddScenarioGraph(sg)
	def := gb.AddScenario("default", sgID, 1)
	gb.SetDefaultScenario(def)
	gb.AddFSMState(def)
	_, err := gb.Build()
	if !errors.Is(err, sadf.ErrDefaultScenarioReferenced) {
		t.Fatalf("expected ErrDefaultScenarioReferenced, got %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	sg := buildS1(t)
	clone := sg.Clone()
	clone.Actors[0].Name = "mutated"
	if sg.Actors[0].Name == "mutated" {
		t.Fatalf("clone mutation leaked into original")
	}
}

func TestCanonicalInitialOrder(t *testing.T) {
	b := sadf.NewScenarioGraphBuilder("g")
	a := b.AddActor("A", "")
	aOut := b.AddPort(a, "out", sadf.Out)
	aIn := b.AddPort(a, "in", sadf.In)
	ch := b.AddChannel("self", sadf.PortRef{Actor: a, Port: aOut}, sadf.PortRef{Actor: a, Port: aIn}, 3, 0)
	b.SetPersistentInitialNames(ch, []string{"b", "a", "c"})
	sg, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	order := sg.CanonicalInitialOrder()
	if len(order) != 3 {
		t.Fatalf("expected 3 persistent tokens, got %d", len(order))
	}
	want := []string{"a", "b", "c"}
	for i, tok := range order {
		if tok.Name != want[i] {
			t.Errorf("at %d: got %s want %s", i, tok.Name, want[i])
		}
	}
	// "a" was named at slot 1, "b" at slot 0, "c" at slot 2.
	if order[0].GlobalIndex != 1 || order[1].GlobalIndex != 0 || order[2].GlobalIndex != 2 {
		t.Errorf("unexpected global indices: %+v", order)
	}
}
