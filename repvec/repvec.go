// Package repvec computes a scenario graph's repetition vector and
// consistency, following §4.2's fraction-propagation algorithm. It is
// grounded directly on
// original_source/sdf3/fsmsadf/analysis/base/repetition_vector.cc's
// calcFractionsConnectedActors/calcRepetitionVector/computeRepetitionVector:
// the same two-pass structure (propagate firing-rate fractions across the
// undirected connection graph, then reduce to a minimal positive integer
// vector) is kept, but the source's recursive calcFractionsConnectedActors
// is rewritten as an explicit worklist so propagation never grows the Go
// call stack with untrusted input size.
package repvec

import (
	"github.com/sdf3go/fsmsadf/rational"
	"github.com/sdf3go/fsmsadf/sadf"
)

// Compute returns scenario s's repetition vector for scenario graph g: a
// strictly positive integer per actor if g is consistent in s, or the zero
// vector otherwise (§4.2). The returned slice has length len(g.Actors).
func Compute(g *sadf.ScenarioGraph, s string) []int {
	fractions := computeFractions(g, s)
	return vectorFromFractions(fractions)
}

// IsConsistent reports whether g is rate-balanced in scenario s. It is
// decided by inspecting component 0 of the repetition vector (§4.2 step 5),
// matching original_source's isScenarioGraphConsistent. A scenario graph
// with no actors is vacuously consistent.
func IsConsistent(g *sadf.ScenarioGraph, s string) bool {
	if len(g.Actors) == 0 {
		return true
	}
	return Compute(g, s)[0] != 0
}

// computeFractions runs the fraction-propagation pass (§4.2 steps 1-3),
// returning one rational.Fraction per actor. On inconsistency every entry
// is rational.Inconsistent() (0/0), matching the source's behavior of
// zeroing the whole vector rather than just the conflicting entries.
func computeFractions(g *sadf.ScenarioGraph, s string) []rational.Fraction {
	n := len(g.Actors)
	f := make([]rational.Fraction, n)
	for i := range f {
		f[i] = rational.Zero()
	}

	for _, a := range g.Actors {
		if f[a.ID].Equal(rational.Zero()) {
			f[a.ID] = rational.One()
			if !propagate(g, f, a.ID, s) {
				return allInconsistent(n)
			}
		}
	}
	return f
}

func allInconsistent(n int) []rational.Fraction {
	out := make([]rational.Fraction, n)
	for i := range out {
		out[i] = rational.Inconsistent()
	}
	return out
}

// propagate walks the undirected connection graph reachable from start,
// assigning each newly-discovered actor's firing-rate fraction relative to
// an already-fixed neighbor. It returns false the instant two different
// fractions are derived for the same actor (an inconsistent scenario
// graph), at which point the caller must discard f entirely.
func propagate(g *sadf.ScenarioGraph, f []rational.Fraction, start sadf.ActorID, s string) bool {
	stack := []sadf.ActorID{start}

	for len(stack) > 0 {
		a := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		actor := g.Actors[a]
		for portIdx, pA := range actor.Ports {
			if pA.Channel < 0 {
				continue // unconnected: only possible on a graph under construction
			}
			ch := g.Channels[pA.Channel]

			var bRef sadf.PortRef
			if ch.Src == (sadf.PortRef{Actor: a, Port: portIdx}) {
				bRef = ch.Dst
			} else {
				bRef = ch.Src
			}
			b := bRef.Actor
			pB := g.Port(bRef)

			ratio := rational.New(int64(pA.RateOf(s)), int64(pB.RateOf(s)))
			fractionB := f[a].Mul(ratio)

			known := f[b]
			switch {
			case !known.Equal(rational.Zero()) && !fractionB.Equal(known):
				// Conflicting rate derivation: inconsistent graph.
				return false
			case known.Equal(rational.Zero()):
				f[b] = fractionB
				if f[b].IsInconsistent() {
					return false
				}
				stack = append(stack, b)
			}
		}
	}
	return true
}

// vectorFromFractions converts firing-rate fractions to the smallest
// positive integer vector with the same ratios (§4.2 step 4), matching
// calcRepetitionVector: scale by the LCM of denominators, then divide by
// the GCD of the scaled vector. A zero-denominator anywhere in fractions
// forces LCM to 0 and yields the all-zero vector.
func vectorFromFractions(fractions []rational.Fraction) []int {
	n := len(fractions)
	out := make([]int, n)
	if n == 0 {
		return out
	}

	var l int64 = 1
	for _, frac := range fractions {
		l = rational.LCM(l, frac.Den)
	}
	if l == 0 {
		return out
	}

	for i, frac := range fractions {
		out[i] = int(frac.Num * l / frac.Den)
	}

	g := int64(out[0])
	for i := 1; i < n; i++ {
		g = rational.GCD(g, int64(out[i]))
	}
	if g == 0 {
		return make([]int, n)
	}
	for i := range out {
		out[i] = int(int64(out[i]) / g)
	}
	return out
}
