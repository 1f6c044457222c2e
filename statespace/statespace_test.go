package statespace_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sdf3go/fsmsadf/fsmerr"
	"github.com/sdf3go/fsmsadf/sadf"
	"github.com/sdf3go/fsmsadf/statespace"
)

// buildRing mirrors package symbolic's ring fixture: A->B (0 initial
// tokens), B->A (1 initial token), rate 1 everywhere, execution times 2
// and 3. One iteration takes 2+3 = 5 time units, so throughput = 1/5.
func buildRing(t *testing.T) *sadf.ScenarioGraph {
	t.Helper()
	b := sadf.NewScenarioGraphBuilder("ring")
	a := b.AddActor("A", "")
	bb := b.AddActor("B", "")
	aOut := b.AddPort(a, "out", sadf.Out)
	aIn := b.AddPort(a, "in", sadf.In)
	bOut := b.AddPort(bb, "out", sadf.Out)
	bIn := b.AddPort(bb, "in", sadf.In)
	b.SetRate(a, aOut, "s1", 1)
	b.SetRate(a, aIn, "s1", 1)
	b.SetRate(bb, bOut, "s1", 1)
	b.SetRate(bb, bIn, "s1", 1)
	b.SetExecTime(a, "cpu", "s1", 2)
	b.SetExecTime(bb, "cpu", "s1", 3)
	b.SetDefaultProcessorType(a, "cpu")
	b.SetDefaultProcessorType(bb, "cpu")
	b.AddChannel("A_B", sadf.PortRef{Actor: a, Port: aOut}, sadf.PortRef{Actor: bb, Port: bIn}, 0, 0)
	b.AddChannel("B_A", sadf.PortRef{Actor: bb, Port: bOut}, sadf.PortRef{Actor: a, Port: aIn}, 1, 0)
	sg, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return sg
}

func TestExploreRingThroughput(t *testing.T) {
	sg := buildRing(t)
	res, err := statespace.Explore(context.Background(), sg, "s1", []int{1, 1})
	if err != nil {
		t.Fatalf("Explore: %v", err)
	}
	if got, want := res.Throughput, 0.2; got != want {
		t.Errorf("Throughput = %v, want %v", got, want)
	}
}

func TestExploreBackwardRingThroughput(t *testing.T) {
	sg := buildRing(t)
	res, err := statespace.ExploreBackward(context.Background(), sg, "s1", []int{1, 1})
	if err != nil {
		t.Fatalf("ExploreBackward: %v", err)
	}
	if got, want := res.Throughput, 0.2; got != want {
		t.Errorf("Throughput = %v, want %v", got, want)
	}
}

func TestExploreInconsistent(t *testing.T) {
	sg := buildRing(t)
	_, err := statespace.Explore(context.Background(), sg, "s1", []int{0, 0})
	var inconsistent *fsmerr.Inconsistent
	if !errors.As(err, &inconsistent) {
		t.Fatalf("expected fsmerr.Inconsistent, got %v", err)
	}
}

func TestExploreDeadlock(t *testing.T) {
	b := sadf.NewScenarioGraphBuilder("stuck")
	a := b.AddActor("A", "")
	out := b.AddPort(a, "out", sadf.Out)
	in := b.AddPort(a, "in", sadf.In)
	b.SetRate(a, out, "s1", 2)
	b.SetRate(a, in, "s1", 2)
	b.AddChannel("loop", sadf.PortRef{Actor: a, Port: out}, sadf.PortRef{Actor: a, Port: in}, 1, 0)
	sg, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	_, err = statespace.Explore(context.Background(), sg, "s1", []int{1})
	var deadlock *fsmerr.Deadlock
	if !errors.As(err, &deadlock) {
		t.Fatalf("expected fsmerr.Deadlock, got %v", err)
	}
}

func TestExploreRespectsCancellation(t *testing.T) {
	sg := buildRing(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := statespace.Explore(ctx, sg, "s1", []int{1, 1})
	if !errors.Is(err, fsmerr.ErrCancelled) {
		t.Fatalf("expected fsmerr.ErrCancelled, got %v", err)
	}
}
