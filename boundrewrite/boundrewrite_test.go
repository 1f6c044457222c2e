package boundrewrite_test

import (
	"testing"

	"github.com/sdf3go/fsmsadf/boundrewrite"
	"github.com/sdf3go/fsmsadf/repvec"
	"github.com/sdf3go/fsmsadf/sadf"
)

// buildG builds a one-scenario-graph Graph wrapping §8's S1 shape (A->B,
// rates 2/3, no initial tokens).
func buildG(t *testing.T) *sadf.Graph {
	t.Helper()
	sb := sadf.NewScenarioGraphBuilder("g1")
	a := sb.AddActor("A", "")
	bb := sb.AddActor("B", "")
	aOut := sb.AddPort(a, "out", sadf.Out)
	bIn := sb.AddPort(bb, "in", sadf.In)
	sb.SetRate(a, aOut, "s1", 2)
	sb.SetRate(bb, bIn, "s1", 3)
	sb.AddChannel("A_B", sadf.PortRef{Actor: a, Port: aOut}, sadf.PortRef{Actor: bb, Port: bIn}, 0, 0)
	sg, err := sb.Build()
	if err != nil {
		t.Fatalf("ScenarioGraphBuilder.Build: %v", err)
	}

	gb := sadf.NewBuilder("top")
	gid := gb.AddScenarioGraph(sg)
	sid := gb.AddScenario("s1", gid, 1)
	q := gb.AddFSMState(sid)
	gb.SetInitialState(q)
	g, err := gb.Build()
	if err != nil {
		t.Fatalf("Builder.Build: %v", err)
	}
	return g
}

func TestRewriteAddsSyncActorAndChannels(t *testing.T) {
	g := buildG(t)
	before := &g.ScenarioGraphs[0]
	wantActors := len(before.Actors) + 1
	wantChannels := len(before.Channels) + 3

	out, err := boundrewrite.Rewrite(g)
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	after := &out.ScenarioGraphs[0]

	if len(after.Actors) != wantActors {
		t.Errorf("actor count = %d, want %d", len(after.Actors), wantActors)
	}
	if len(after.Channels) != wantChannels {
		t.Errorf("channel count = %d, want %d", len(after.Channels), wantChannels)
	}

	for _, name := range []string{"sync-selfedge", "sync-src", "sync-dst"} {
		if _, ok := after.ChannelByName(name); !ok {
			t.Errorf("missing channel %q", name)
		}
	}
	if _, ok := after.ActorByName("sync-actor"); !ok {
		t.Errorf("missing sync-actor")
	}
}

func TestRewriteDoesNotMutateInput(t *testing.T) {
	g := buildG(t)
	wantActors := len(g.ScenarioGraphs[0].Actors)
	wantChannels := len(g.ScenarioGraphs[0].Channels)

	if _, err := boundrewrite.Rewrite(g); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	if len(g.ScenarioGraphs[0].Actors) != wantActors {
		t.Errorf("input actor count changed: got %d, want %d", len(g.ScenarioGraphs[0].Actors), wantActors)
	}
	if len(g.ScenarioGraphs[0].Channels) != wantChannels {
		t.Errorf("input channel count changed: got %d, want %d", len(g.ScenarioGraphs[0].Channels), wantChannels)
	}
}

func TestRewriteSelfLoopCarriesPersistentToken(t *testing.T) {
	g := buildG(t)
	out, err := boundrewrite.Rewrite(g)
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	sg := &out.ScenarioGraphs[0]
	id, ok := sg.ChannelByName("sync-selfedge")
	if !ok {
		t.Fatalf("missing sync-selfedge")
	}
	ch := sg.Channels[id]
	if ch.InitialTokens != 1 {
		t.Errorf("sync-selfedge InitialTokens = %d, want 1", ch.InitialTokens)
	}
	if len(ch.PersistentInitialNames) != 1 || ch.PersistentInitialNames[0] != "sync-selfedge-persistent-token" {
		t.Errorf("sync-selfedge persistent names = %v", ch.PersistentInitialNames)
	}
}

// TestRewriteKeepsGraphConnected checks the sync actor is reachable from
// (and reaches) the original channel's endpoints, and that the original
// channel A_B still exists unmodified alongside the new bypass.
func TestRewriteKeepsGraphConnected(t *testing.T) {
	g := buildG(t)
	out, err := boundrewrite.Rewrite(g)
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	sg := &out.ScenarioGraphs[0]

	if _, ok := sg.ChannelByName("A_B"); !ok {
		t.Fatalf("original channel A_B was removed")
	}

	got := repvec.Compute(sg, "s1")
	if len(got) != len(sg.Actors) {
		t.Fatalf("repetition vector length = %d, want %d", len(got), len(sg.Actors))
	}
	for i, v := range got {
		if v == 0 {
			t.Fatalf("rewritten graph should remain consistent, actor %d has rate 0: %v", i, got)
		}
	}
}
