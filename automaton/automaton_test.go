package automaton_test

import (
	"testing"

	"github.com/sdf3go/fsmsadf/automaton"
	"github.com/sdf3go/fsmsadf/maxplus"
	"github.com/sdf3go/fsmsadf/sadf"
)

// buildFSM builds a tiny two-scenario Graph whose FSM alternates s1 -> s2
// -> s1 -> ... with no branching, plus a third, unreachable-from-nothing
// duplicate of s1's state to exercise minimization merging it back in.
func buildFSM(t *testing.T) *sadf.Graph {
	t.Helper()
	sb := sadf.NewScenarioGraphBuilder("g")
	a := sb.AddActor("A", "")
	out := sb.AddPort(a, "out", sadf.Out)
	in := sb.AddPort(a, "in", sadf.In)
	sb.SetRate(a, out, "s1", 1)
	sb.SetRate(a, in, "s1", 1)
	sb.SetRate(a, out, "s2", 1)
	sb.SetRate(a, in, "s2", 1)
	sb.AddChannel("loop", sadf.PortRef{Actor: a, Port: out}, sadf.PortRef{Actor: a, Port: in}, 1, 0)
	sg, err := sb.Build()
	if err != nil {
		t.Fatalf("ScenarioGraphBuilder.Build: %v", err)
	}

	gb := sadf.NewBuilder("top")
	gid := gb.AddScenarioGraph(sg)
	s1 := gb.AddScenario("s1", gid, 1)
	s2 := gb.AddScenario("s2", gid, 1)

	q0 := gb.AddFSMState(s1) // initial: scenario never emitted for q0 itself
	q1 := gb.AddFSMState(s2)
	q2 := gb.AddFSMState(s1) // bisimilar to q0 once minimized

	gb.AddFSMTransition(q0, q1)
	gb.AddFSMTransition(q1, q2)
	gb.AddFSMTransition(q2, q1)
	gb.SetInitialState(q0)

	g, err := gb.Build()
	if err != nil {
		t.Fatalf("Builder.Build: %v", err)
	}
	return g
}

func TestConvertToEdgeLabeled(t *testing.T) {
	g := buildFSM(t)
	e := automaton.ConvertToEdgeLabeled(g)
	if e.NumStates != 3 {
		t.Fatalf("NumStates = %d, want 3", e.NumStates)
	}
	for _, tr := range e.Transitions {
		want := g.Scenarios[g.FSM.States[tr.To].Scenario].Name
		if tr.Scenario != want {
			t.Errorf("transition %v: Scenario = %q, want %q", tr, tr.Scenario, want)
		}
	}
}

func TestMinimizeMergesBisimilarStates(t *testing.T) {
	g := buildFSM(t)
	e := automaton.ConvertToEdgeLabeled(g)
	m := automaton.Minimize(e)

	// q1 (scenario s2) is distinguishable from q0/q2 (scenario s1) by the
	// transitions entering them; q0 and q2 both transition only to q1 on
	// "s2" and have nothing transitioning into them with a different
	// target signature, so they should collapse to one block.
	if m.NumStates != 2 {
		t.Fatalf("NumStates = %d, want 2 (q0 and q2 bisimilar)", m.NumStates)
	}
}

func TestConvertToMatrixLabeledFull(t *testing.T) {
	g := buildFSM(t)
	m := automaton.Minimize(automaton.ConvertToEdgeLabeled(g))

	lookup := func(scenario string) (maxplus.Matrix, error) {
		mat := maxplus.NewMatrix(1, 1)
		if scenario == "s1" {
			mat.Set(0, 0, 1)
		} else {
			mat.Set(0, 0, 2)
		}
		return mat, nil
	}

	ml, err := automaton.ConvertToMatrixLabeled(m, lookup, false)
	if err != nil {
		t.Fatalf("ConvertToMatrixLabeled: %v", err)
	}
	if len(ml.Edges) != len(m.Transitions) {
		t.Fatalf("full variant should keep one edge per transition: got %d, want %d", len(ml.Edges), len(m.Transitions))
	}
}

func TestConvertToMatrixLabeledCombined(t *testing.T) {
	// Two parallel transitions between the same pair of states, different
	// scenarios, should merge into one pointwise-max edge.
	m := automaton.MinimizedFSM{
		NumStates: 2,
		Transitions: []automaton.LabeledTransition{
			{From: 0, To: 1, Scenario: "s1"},
			{From: 0, To: 1, Scenario: "s2"},
		},
		Initial: 0,
	}
	lookup := func(scenario string) (maxplus.Matrix, error) {
		mat := maxplus.NewMatrix(1, 1)
		if scenario == "s1" {
			mat.Set(0, 0, 1)
		} else {
			mat.Set(0, 0, 5)
		}
		return mat, nil
	}

	ml, err := automaton.ConvertToMatrixLabeled(m, lookup, true)
	if err != nil {
		t.Fatalf("ConvertToMatrixLabeled: %v", err)
	}
	if len(ml.Edges) != 1 {
		t.Fatalf("combined variant should merge to 1 edge, got %d", len(ml.Edges))
	}
	if got := ml.Edges[0].Matrix.At(0, 0); got != 5 {
		t.Errorf("merged entry = %v, want 5 (max(1,5))", got)
	}
}
