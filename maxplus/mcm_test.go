package maxplus_test

import (
	"math"
	"testing"

	"github.com/sdf3go/fsmsadf/maxplus"
)

func TestMCMSingleSelfLoop(t *testing.T) {
	m := maxplus.NewMatrix(1, 1)
	m.Set(0, 0, 3)
	if got := maxplus.MCM(m); got != 3 {
		t.Fatalf("expected MCM=3, got %v", got)
	}
}

func TestMCMTwoCycleAverages(t *testing.T) {
	// 0 -> 1 (weight 2), 1 -> 0 (weight 5): cycle mean (2+5)/2 = 3.5.
	m := maxplus.NewMatrix(2, 2)
	m.Set(0, 0, maxplus.NegInf)
	m.Set(0, 1, 2)
	m.Set(1, 0, 5)
	m.Set(1, 1, maxplus.NegInf)

	got := maxplus.MCM(m)
	want := 3.5
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected MCM=%v, got %v", want, got)
	}
}

func TestMCMPicksMaxOfParallelCycles(t *testing.T) {
	// Two disjoint self-loops of weight 1 and 4; MCM must be 4.
	m := maxplus.NewMatrix(2, 2)
	m.Set(0, 0, 1)
	m.Set(0, 1, maxplus.NegInf)
	m.Set(1, 0, maxplus.NegInf)
	m.Set(1, 1, 4)

	if got := maxplus.MCM(m); got != 4 {
		t.Fatalf("expected MCM=4, got %v", got)
	}
}

func TestMCMUnreachableNodeIsIgnored(t *testing.T) {
	// Node 2 has no outgoing edges and is unreachable from the cycle {0,1}.
	m := maxplus.NewMatrix(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, maxplus.NegInf)
		}
	}
	m.Set(0, 1, 2)
	m.Set(1, 0, 5)

	got := maxplus.MCM(m)
	want := 3.5
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected MCM=%v, got %v", want, got)
	}
}

func TestMCMEmptyMatrix(t *testing.T) {
	m := maxplus.NewMatrix(0, 0)
	if got := maxplus.MCM(m); got != maxplus.NegInf {
		t.Fatalf("expected NegInf for empty matrix, got %v", got)
	}
}
