// Package symbolic extracts, per scenario, the max-plus matrix relating a
// scenario's initial-token timestamps to the timestamps of the tokens that
// remain after one iteration of its repetition vector (§4.3). It is
// grounded on
// original_source/sdf3/sdf/analysis/maxplus/mpexplore.cc's
// Exploration::convertToMaxPlusMatrix and
// Exploration::convertToMaxPlusMatrixForWeakFSMSADF, and on
// mpstorage.cc's SymbolicState/SymbolicTokenFIFO (a FIFO of unit/−∞ basis
// vectors, one slot per channel's initial tokens, in channel order):
// firing an actor symbolically takes the max-plus maximum of its consumed
// tokens and adds the actor's execution time, exactly mirroring the
// source's fireSymbolic.
package symbolic

import (
	"fmt"

	"github.com/sdf3go/fsmsadf/fsmerr"
	"github.com/sdf3go/fsmsadf/maxplus"
	"github.com/sdf3go/fsmsadf/sadf"
)

// fifo is a symbolic token queue for one channel: a slice whose head is
// resliced off on removal, mirroring SymbolicTokenFIFO without its fixed
// backing array (Go slices already grow as needed, so the static-vs-
// dynamic FIFO split in the source has no Go analogue).
type fifo struct {
	tokens []maxplus.Vector
}

func (f *fifo) size() int { return len(f.tokens) }

func (f *fifo) removeFirst() maxplus.Vector {
	t := f.tokens[0]
	f.tokens = f.tokens[1:]
	return t
}

func (f *fifo) append(t maxplus.Vector) {
	f.tokens = append(f.tokens, t)
}

// ExtractMatrix computes scenario graph g's strong-case max-plus matrix in
// scenario s, given its (already computed, strictly positive) repetition
// vector r — one entry per g.Actors. Per §4.4, the raw N×N matrix over
// every initial-token slot (N = g.TotalInitialTokens()) is restricted, via
// maxplus.Matrix.Submatrix, to the persistent-token subset: rows and
// columns are both reindexed to g.CanonicalInitialOrder() ("initial =
// final" for the strong case), so non-persistent bookkeeping slots never
// reach downstream throughput computations.
//
// Returns fsmerr.Inconsistent if r is the zero vector, and fsmerr.Deadlock
// if no actor becomes firable before every actor's remaining count reaches
// zero — both preconditions the caller (package repvec / the strong-
// bounding rewrite) is expected to have already ruled out for a
// well-formed scenario graph.
func ExtractMatrix(g *sadf.ScenarioGraph, s string, r []int) (maxplus.Matrix, error) {
	raw, err := extractRaw(g, s, r)
	if err != nil {
		return maxplus.Matrix{}, err
	}
	idx := slotIndices(g.CanonicalInitialOrder())
	m, err := raw.Submatrix(idx, idx)
	if err != nil {
		return maxplus.Matrix{}, err
	}
	return m, nil
}

// ExtractMatrixWeak computes scenario graph g's weak-case max-plus matrix
// in scenario s, given a partial repetition vector r (e.g. g.Actors'
// RepetitionCount for s). Per §4.4, rows of the raw R×C matrix correspond
// to final-token positions and columns to initial-token positions; both
// axes are then restricted to their own canonical persistent-token order
// (rows: g.CanonicalFinalOrder(); columns: g.CanonicalInitialOrder()),
// which may leave a non-square result when a scenario graph's persistent
// initial and final token sets genuinely differ.
func ExtractMatrixWeak(g *sadf.ScenarioGraph, s string, r []int) (maxplus.Matrix, error) {
	raw, err := extractRaw(g, s, r)
	if err != nil {
		return maxplus.Matrix{}, err
	}
	rows := slotIndices(g.CanonicalFinalOrder())
	cols := slotIndices(g.CanonicalInitialOrder())
	m, err := raw.Submatrix(rows, cols)
	if err != nil {
		return maxplus.Matrix{}, err
	}
	return m, nil
}

// extractRaw runs the symbolic firing schedule (§4.4's fire-rule loop) to
// completion and returns the raw matrix over every slot — columns indexed
// by global initial-token slot, rows by the order tokens end up queued in
// the channel FIFOs after r's firings.
func extractRaw(g *sadf.ScenarioGraph, s string, r []int) (maxplus.Matrix, error) {
	if allZero(r) {
		return maxplus.Matrix{}, &fsmerr.Inconsistent{Scenario: s}
	}

	n := g.TotalInitialTokens()
	fifos := initialSymbolicState(g, n)

	remaining := append([]int(nil), r...)
	actorIdx := 0
	totalFirings := sum(remaining)

	for fired := 0; fired < totalFirings; fired++ {
		a, ok := findEnabled(g, fifos, remaining, s, &actorIdx)
		if !ok {
			return maxplus.Matrix{}, &fsmerr.Deadlock{Scenario: s, StateDigest: digestRemaining(remaining)}
		}
		remaining[a]--
		fireSymbolic(g, fifos, g.Actors[a], s)
	}

	return matrixFromState(fifos, n), nil
}

// slotIndices projects a canonical persistent-token order down to the bare
// global slot indices Submatrix expects, in the same (name-sorted) order.
func slotIndices(order []sadf.PersistentToken) []int {
	idx := make([]int, len(order))
	for i, p := range order {
		idx[i] = p.GlobalIndex
	}
	return idx
}

// digestRemaining renders the still-pending per-actor firing counts at the
// point exploration got stuck, for inclusion in a Deadlock's StateDigest.
func digestRemaining(remaining []int) string {
	return fmt.Sprintf("%v", remaining)
}

func allZero(r []int) bool {
	for _, v := range r {
		if v != 0 {
			return false
		}
	}
	return true
}

func sum(r []int) int {
	total := 0
	for _, v := range r {
		total += v
	}
	return total
}

// initialSymbolicState builds one fifo per channel, filled with unit basis
// vectors (one per initial token), numbered sequentially across channels in
// iteration order — matching SymbolicState::zeroState's global counter n.
func initialSymbolicState(g *sadf.ScenarioGraph, n int) []fifo {
	fifos := make([]fifo, len(g.Channels))
	next := 0
	for ci, c := range g.Channels {
		fifos[ci].tokens = make([]maxplus.Vector, 0, c.InitialTokens)
		for j := 0; j < c.InitialTokens; j++ {
			fifos[ci].append(maxplus.Unit(n, next))
			next++
		}
	}
	return fifos
}

// findEnabled scans actors starting at *cursor, wrapping around, for the
// first one whose input channels each hold enough tokens to fire and whose
// remaining count is still positive — mirroring mpexplore.cc's inline
// "find an enabled actor" loop. *cursor is left at the firing actor so the
// next call resumes from there.
func findEnabled(g *sadf.ScenarioGraph, fifos []fifo, remaining []int, s string, cursor *int) (sadf.ActorID, bool) {
	n := len(g.Actors)
	for scanned := 0; scanned < n; scanned++ {
		a := sadf.ActorID(*cursor)
		if remaining[a] > 0 && actorEnabled(fifos, g.Actors[a], s) {
			return a, true
		}
		*cursor = (*cursor + 1) % n
	}
	return 0, false
}

func actorEnabled(fifos []fifo, a sadf.Actor, s string) bool {
	for _, idx := range a.InPorts() {
		p := a.Ports[idx]
		if fifos[p.Channel].size() < p.RateOf(s) {
			return false
		}
	}
	return true
}

// fireSymbolic consumes rate(p) tokens (max-plus maximum, as a vector) from
// each input port's channel, adds the actor's execution time, and produces
// that result onto each output port's channel — mirroring
// GraphDecoration::Graph::fireSymbolic exactly.
func fireSymbolic(g *sadf.ScenarioGraph, fifos []fifo, a sadf.Actor, s string) {
	var ftime maxplus.Vector
	first := true
	for _, idx := range a.InPorts() {
		p := a.Ports[idx]
		rate := p.RateOf(s)
		for k := 0; k < rate; k++ {
			t := fifos[p.Channel].removeFirst()
			if first {
				ftime = t
				first = false
			} else {
				ftime = ftime.Maximum(t)
			}
		}
	}
	if first {
		// No input ports: nothing to wait on, so execution starts at the
		// ⊗-identity (0 in every symbolic dimension) rather than the
		// ⊕-identity NewVector would give (which would propagate −∞
		// forever). The source and pack precedent both assume every actor
		// has at least one triggering input; this is a defensive fallback.
		ftime = make(maxplus.Vector, dimOf(fifos))
	}
	produced := ftime.Plus(maxplus.MPTime(a.ExecTimeOf(s)))
	for _, idx := range a.OutPorts() {
		p := a.Ports[idx]
		for k := 0; k < p.RateOf(s); k++ {
			fifos[p.Channel].append(produced.Clone())
		}
	}
}

func dimOf(fifos []fifo) int {
	for _, f := range fifos {
		if len(f.tokens) > 0 {
			return len(f.tokens[0])
		}
	}
	return 0
}

// matrixFromState concatenates every channel's final token queue, in
// channel-iteration order, into the rows of the result matrix — mirroring
// convertToMaxPlusMatrix's firstToken/nextToken traversal. The row count is
// however many tokens actually ended up queued (equal to n for the strong
// case, to the channels' final-token counts for the weak case); columns
// are always n, the symbolic-token dimension fixed at the start of
// exploration.
func matrixFromState(fifos []fifo, n int) maxplus.Matrix {
	rows := 0
	for _, f := range fifos {
		rows += len(f.tokens)
	}
	m := maxplus.NewMatrix(rows, n)
	row := 0
	for _, f := range fifos {
		for _, tok := range f.tokens {
			m.SetRow(row, tok)
			row++
		}
	}
	return m
}
