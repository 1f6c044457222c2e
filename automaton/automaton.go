// Package automaton builds the scenario automaton used by throughput
// analysis (§4.6, §4.9), in three stages mirroring
// original_source/sdf3/fsmsadf/analysis/throughput/thrutils.cc's
// FSMConverter:
//
//  1. ConvertToEdgeLabeled turns the state-labeled FSM (§3: each FSMState
//     names a scenario) into an edge-labeled one, by moving each state's
//     scenario label onto its incoming transitions — mirroring
//     convertFSMToEdgeLabeled.
//  2. Minimize merges bisimilar states via partition refinement (Moore's
//     algorithm). The scenario FSM is branching (a state may have several
//     outgoing transitions, each a legal next scenario, per
//     FSM.TransitionsFrom), so the source's minimalEdgeLabeledFSM — which
//     has no counterpart in the filtered original_source cut — is
//     reimplemented here from the textbook bisimulation-refinement
//     algorithm rather than ported.
//  3. ConvertToMatrixLabeled attaches each scenario edge's max-plus matrix
//     (package symbolic), either kept as one edge per scenario ("full",
//     mirroring convertToFullMatrixLabeledScenarioFSM) or pointwise-maxed
//     together when multiple scenarios label the same state pair
//     ("combined", mirroring convertToMatrixLabeledScenarioFSM).
package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sdf3go/fsmsadf/maxplus"
	"github.com/sdf3go/fsmsadf/sadf"
)

// LabeledTransition is one edge of an edge-labeled FSM.
type LabeledTransition struct {
	From, To sadf.FSMStateID
	Scenario string
}

// EdgeLabeledFSM is sadf.FSM with scenario labels moved from states onto
// the transitions that enter them.
type EdgeLabeledFSM struct {
	NumStates   int
	Transitions []LabeledTransition
	Initial     sadf.FSMStateID
}

// ConvertToEdgeLabeled labels each transition q->q' with q''s scenario,
// matching the FSM's rule (see sadf.FSM) that entering a state emits that
// state's scenario (Initial's own scenario is never emitted, since no transition
// targets it from outside the sequence's first step).
func ConvertToEdgeLabeled(g *sadf.Graph) EdgeLabeledFSM {
	out := EdgeLabeledFSM{
		NumStates: len(g.FSM.States),
		Initial:   g.FSM.Initial,
	}
	for _, t := range g.FSM.Transitions {
		scenario := g.Scenarios[g.FSM.States[t.To].Scenario].Name
		out.Transitions = append(out.Transitions, LabeledTransition{From: t.From, To: t.To, Scenario: scenario})
	}
	return out
}

// MinimizedFSM is an EdgeLabeledFSM after bisimulation-equivalent states
// have been merged into blocks; block indices replace FSMStateID.
type MinimizedFSM struct {
	NumStates   int
	Transitions []LabeledTransition
	Initial     sadf.FSMStateID
}

// Minimize merges bisimilar states of e by iterative partition refinement
// (Moore's algorithm): two states are equivalent iff they have, for every
// scenario label, the same set of transitions into equivalent states. The
// refinement starts from the single-block partition and splits blocks
// until a fixed point is reached; termination is guaranteed since each
// round either stops or strictly increases the number of blocks, bounded
// by e.NumStates.
func Minimize(e EdgeLabeledFSM) MinimizedFSM {
	block := make([]int, e.NumStates)
	outgoing := make([][]LabeledTransition, e.NumStates)
	for _, t := range e.Transitions {
		outgoing[t.From] = append(outgoing[t.From], t)
	}

	for {
		sig := make([]string, e.NumStates)
		for s := 0; s < e.NumStates; s++ {
			sig[s] = signature(block, outgoing[s])
		}
		newBlock, numBlocks := regroup(sig)
		if numBlocks == countBlocks(block) && sameGrouping(block, newBlock) {
			break
		}
		block = newBlock
	}

	out := MinimizedFSM{
		NumStates: countBlocks(block),
		Initial:   sadf.FSMStateID(block[e.Initial]),
	}
	seen := make(map[LabeledTransition]bool)
	for s := 0; s < e.NumStates; s++ {
		for _, t := range outgoing[s] {
			mt := LabeledTransition{
				From:     sadf.FSMStateID(block[s]),
				To:       sadf.FSMStateID(block[t.To]),
				Scenario: t.Scenario,
			}
			if !seen[mt] {
				seen[mt] = true
				out.Transitions = append(out.Transitions, mt)
			}
		}
	}
	return out
}

// signature renders state s's outgoing transitions, under the current
// block partition, into a string comparable for equality — two states
// sharing a signature are merge candidates for the next refinement round.
func signature(block []int, outgoing []LabeledTransition) string {
	keys := make([]string, len(outgoing))
	for i, t := range outgoing {
		keys[i] = fmt.Sprintf("%s->%d", t.Scenario, block[t.To])
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

// regroup assigns a fresh block ID per distinct signature, in first-seen
// order (so results are deterministic across runs for the same input).
func regroup(sig []string) ([]int, int) {
	ids := make(map[string]int)
	out := make([]int, len(sig))
	next := 0
	for s, key := range sig {
		id, ok := ids[key]
		if !ok {
			id = next
			ids[key] = id
			next++
		}
		out[s] = id
	}
	return out, next
}

func countBlocks(block []int) int {
	max := -1
	for _, b := range block {
		if b > max {
			max = b
		}
	}
	return max + 1
}

// sameGrouping reports whether a and b induce the same partition of
// {0,...,len(a)-1} (ignoring the specific numeric labels assigned to
// blocks), used to detect the refinement has reached a fixed point.
func sameGrouping(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[int]int)
	for i := range a {
		if want, ok := seen[a[i]]; ok {
			if want != b[i] {
				return false
			}
		} else {
			seen[a[i]] = b[i]
		}
	}
	return true
}

// MatrixEdge is one transition of a MatrixLabeledFSM, carrying the
// max-plus matrix that models crossing it.
type MatrixEdge struct {
	From, To sadf.FSMStateID
	Scenario string
	Matrix   maxplus.Matrix
}

// MatrixLabeledFSM is a MinimizedFSM with each transition's scenario
// replaced (or, in the "combined" variant, merged) into a max-plus matrix.
type MatrixLabeledFSM struct {
	NumStates int
	Edges     []MatrixEdge
	Initial   sadf.FSMStateID
}

// MatrixLookup resolves a scenario name to its max-plus matrix (typically
// package symbolic's ExtractMatrix, memoized by the caller).
type MatrixLookup func(scenario string) (maxplus.Matrix, error)

// ConvertToMatrixLabeled attaches matrices to m's edges. If combineEdges is
// false, every edge keeps its own scenario's matrix ("full", mirroring
// convertToFullMatrixLabeledScenarioFSM). If true, all edges between the
// same (From, To) pair are merged into a single edge whose matrix is the
// pointwise max-plus maximum of their matrices, and whose Scenario field
// lists the merged scenario names joined by "+" ("combined", mirroring
// convertToMatrixLabeledScenarioFSM).
//
// merged.Maximum(mat) below requires every matrix lookup produces for a
// given (From, To) group to share the same shape and the same per-index
// token identity — true only when each scenario's matrix is restricted to
// the graph's canonical persistent-token order (package symbolic's
// ExtractMatrix/ExtractMatrixWeak) and that canonical order agrees across
// every scenario graph the merged scenarios draw from. lookup is expected
// to already guarantee both (package throughput's Graph checks the latter,
// via checkPersistentTokenAlignment, before ever calling
// ConvertToMatrixLabeled); an ungrounded lookup that skips either step will
// surface here as fsmerr.DimensionMismatch rather than a silently wrong
// combined edge.
func ConvertToMatrixLabeled(m MinimizedFSM, lookup MatrixLookup, combineEdges bool) (MatrixLabeledFSM, error) {
	out := MatrixLabeledFSM{NumStates: m.NumStates, Initial: m.Initial}

	if !combineEdges {
		for _, t := range m.Transitions {
			mat, err := lookup(t.Scenario)
			if err != nil {
				return MatrixLabeledFSM{}, err
			}
			out.Edges = append(out.Edges, MatrixEdge{From: t.From, To: t.To, Scenario: t.Scenario, Matrix: mat})
		}
		return out, nil
	}

	type key struct{ from, to sadf.FSMStateID }
	groups := make(map[key][]string)
	var order []key
	for _, t := range m.Transitions {
		k := key{t.From, t.To}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], t.Scenario)
	}

	for _, k := range order {
		names := groups[k]
		sort.Strings(names)
		var merged maxplus.Matrix
		for i, name := range names {
			mat, err := lookup(name)
			if err != nil {
				return MatrixLabeledFSM{}, err
			}
			if i == 0 {
				merged = mat
				continue
			}
			var err2 error
			merged, err2 = merged.Maximum(mat)
			if err2 != nil {
				return MatrixLabeledFSM{}, err2
			}
		}
		out.Edges = append(out.Edges, MatrixEdge{
			From: k.from, To: k.to, Scenario: strings.Join(names, "+"), Matrix: merged,
		})
	}
	return out, nil
}
