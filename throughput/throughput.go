// Package throughput computes a graph's steady-state throughput (§4.8):
// Maximum Cycle Mean for a single strongly-consistent scenario, and
// Maximum Cycle Ratio with per-edge rewards over the full scenario
// automaton for the weakly-consistent (FSM-driven) case, plus extraction
// of the cycle responsible for the bound.
//
// It is grounded on
// original_source/sdf3/fsmsadf/analysis/throughput/thrutils.cc and
// maxplusautomaton.h: the strong case reduces to package maxplus's
// Karp MCM over one scenario's extracted matrix (package symbolic); the
// weak case runs a Karp-style parametric binary search for the Maximum
// Cycle Ratio over the matrix-labelled scenario automaton (package
// automaton), reusing maxplus.Matrix as the per-edge delay carrier and a
// parallel reward matrix, per spec.md §9's note that no pack repo
// implements Karp-family algorithms verbatim — this is the textbook
// extension of Karp's MCM to weighted cycle ratios, not a transcription.
package throughput

import (
	"math"

	"github.com/sdf3go/fsmsadf/automaton"
	"github.com/sdf3go/fsmsadf/fsmerr"
	"github.com/sdf3go/fsmsadf/maxplus"
	"github.com/sdf3go/fsmsadf/repvec"
	"github.com/sdf3go/fsmsadf/sadf"
	"github.com/sdf3go/fsmsadf/symbolic"
)

// StrongScenario returns scenario s's throughput (iterations of its
// repetition vector per time unit), for a scenario graph that is, by
// itself, strongly consistent in s. It is the reciprocal of the Maximum
// Cycle Mean of s's extracted max-plus matrix (§4.3, §4.8).
func StrongScenario(g *sadf.ScenarioGraph, s string) (float64, error) {
	if !repvec.IsConsistent(g, s) {
		return 0, &fsmerr.Inconsistent{Scenario: s}
	}
	r := repvec.Compute(g, s)
	m, err := symbolic.ExtractMatrix(g, s, r)
	if err != nil {
		return 0, err
	}
	cycleMean := maxplus.MCM(m)
	if maxplus.IsNegInf(cycleMean) || cycleMean <= 0 {
		return 0, &fsmerr.InconsistentScenarioGraph{Scenario: s, Reason: "extracted matrix has no positive-mean cycle"}
	}
	return 1 / cycleMean, nil
}

// WeakResult is the outcome of a whole-graph (FSM-driven) throughput
// analysis.
type WeakResult struct {
	Throughput float64
	// Ratio is the Maximum Cycle Ratio itself (time per unit reward); its
	// reciprocal is Throughput.
	Ratio float64
	// CriticalCycle lists the scenario labels of the minimized automaton's
	// edges forming the cycle that bounds Throughput, in traversal order.
	CriticalCycle []string
}

// Graph computes the whole Graph's throughput by building its scenario
// automaton (package automaton), labelling it with each reachable
// scenario's matrix (package symbolic over package repvec's repetition
// vectors), and finding the Maximum Cycle Ratio with each scenario's
// Reward as the per-edge reward. combineEdges selects the matrix-labelling
// variant (true: pointwise-max merge of parallel scenario edges; false:
// keep them separate) exactly as package automaton.ConvertToMatrixLabeled.
//
// Before labelling, every scenario graph backing one of g.Scenarios is checked
// against §7/§4.8's persistent-token consistency requirements: all of them
// must share one canonical persistent-token name sequence (else
// fsmerr.PersistentTokenMismatch — the combined/full matrix-labelling
// variants pointwise-combine or compare matrices across scenario graphs,
// which is only sound when their persistent-token axes line up one-to-
// one), and any weakly-consistent scenario graph (one with a nonzero
// FinalTokens somewhere) must have matching row/column persistent-token
// orderings of its own (else fsmerr.InconsistentScenarioGraph — §4.8's
// weak-case scenario-consistency test), since this implementation's
// automaton only carries a single square per-edge matrix, not the full
// per-token-slot automaton expansion of §4.9.
func Graph(g *sadf.Graph, combineEdges bool) (WeakResult, error) {
	if err := checkPersistentTokenAlignment(g); err != nil {
		return WeakResult{}, err
	}

	edgeLabeled := automaton.ConvertToEdgeLabeled(g)
	minimized := automaton.Minimize(edgeLabeled)

	cache := make(map[string]maxplus.Matrix)
	lookup := func(scenario string) (maxplus.Matrix, error) {
		if m, ok := cache[scenario]; ok {
			return m, nil
		}
		sid, ok := g.ScenarioByName(scenario)
		if !ok {
			return maxplus.Matrix{}, &fsmerr.NotFound{Kind: "scenario", Name: scenario}
		}
		sg := g.ScenarioGraphOf(sid)
		m, err := extractScenarioMatrix(sg, scenario)
		if err != nil {
			return maxplus.Matrix{}, err
		}
		cache[scenario] = m
		return m, nil
	}

	labeled, err := automaton.ConvertToMatrixLabeled(minimized, lookup, combineEdges)
	if err != nil {
		return WeakResult{}, err
	}

	weight, reward := buildWeightedGraph(g, labeled)
	ratio, cyclePath, err := maxCycleRatio(weight, reward)
	if err != nil {
		return WeakResult{}, err
	}
	if ratio <= 0 {
		return WeakResult{}, &fsmerr.InconsistentScenarioGraph{Scenario: g.Name, Reason: "scenario automaton has no positive-ratio cycle"}
	}

	return WeakResult{
		Throughput:    1 / ratio,
		Ratio:         ratio,
		CriticalCycle: labelCycle(labeled.Edges, cyclePath),
	}, nil
}

// extractScenarioMatrix extracts scenario graph sg's matrix in scenario s,
// choosing the strong (square, repvec-derived) or weak (rectangular,
// RepetitionCount-derived, then checked for row/column alignment) case of
// §4.4 according to whether sg declares any final-token slots at all.
func extractScenarioMatrix(sg *sadf.ScenarioGraph, s string) (maxplus.Matrix, error) {
	if sg.TotalFinalTokens() == 0 {
		if !repvec.IsConsistent(sg, s) {
			return maxplus.Matrix{}, &fsmerr.Inconsistent{Scenario: s}
		}
		r := repvec.Compute(sg, s)
		return symbolic.ExtractMatrix(sg, s, r)
	}

	if err := checkRowColAlignment(sg); err != nil {
		return maxplus.Matrix{}, err
	}
	r, err := weakRepetitionVector(sg, s)
	if err != nil {
		return maxplus.Matrix{}, err
	}
	return symbolic.ExtractMatrixWeak(sg, s, r)
}

// weakRepetitionVector reads the per-scenario partial repetition vector
// off each actor's RepetitionCount (§3: "only meaningful for weakly-
// consistent graphs"), since repvec's fraction-propagation algorithm only
// derives the full repetition vector of a strongly-consistent graph.
func weakRepetitionVector(sg *sadf.ScenarioGraph, s string) ([]int, error) {
	r := make([]int, len(sg.Actors))
	for i, a := range sg.Actors {
		v, ok := a.RepetitionCount[s]
		if !ok || v <= 0 {
			return nil, &fsmerr.InconsistentScenarioGraph{
				Scenario: s,
				Reason:   "actor " + a.Name + " has no positive weakly-consistent repetition count",
			}
		}
		r[i] = v
	}
	return r, nil
}

// checkRowColAlignment implements §4.8's weak-case scenario-consistency
// test: sg's canonical initial- and final-token orderings must name the
// same persistent tokens in the same order, or its matrix cannot be used
// as a single square per-edge label in this implementation's automaton
// (§4.9's full per-token-slot automaton expansion is not built).
func checkRowColAlignment(sg *sadf.ScenarioGraph) error {
	initial := sg.CanonicalInitialOrder()
	final := sg.CanonicalFinalOrder()
	if len(initial) != len(final) {
		return &fsmerr.InconsistentScenarioGraph{
			Scenario: sg.Name,
			Reason:   "persistent initial- and final-token counts differ",
		}
	}
	for i := range initial {
		if initial[i].Name != final[i].Name {
			return &fsmerr.InconsistentScenarioGraph{
				Scenario: sg.Name,
				Reason:   "persistent initial- and final-token orderings differ",
			}
		}
	}
	return nil
}

// checkPersistentTokenAlignment implements §7's PersistentTokenMismatch
// check: every scenario graph reachable from g's scenarios must declare
// the identical canonical persistent-token name sequence, since the
// combined/full matrix-labelling variants compare or pointwise-combine
// matrices across scenario graphs positionally.
func checkPersistentTokenAlignment(g *sadf.Graph) error {
	var canonical []string
	haveCanonical := false
	for _, sc := range g.Scenarios {
		sg := g.ScenarioGraphOf(sc.ID)
		names := tokenNames(sg.CanonicalInitialOrder())
		if !haveCanonical {
			canonical = names
			haveCanonical = true
			continue
		}
		if !sameNames(canonical, names) {
			return &fsmerr.PersistentTokenMismatch{Scenario: sc.Name}
		}
	}
	return nil
}

func tokenNames(order []sadf.PersistentToken) []string {
	names := make([]string, len(order))
	for i, p := range order {
		names[i] = p.Name
	}
	return names
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// buildWeightedGraph lays labeled's edges out as two NumStates×NumStates
// matrices: weight(i,j) is edge (i,j)'s worst-case entry (the per-edge
// delay bound carried into the cycle-ratio search), reward(i,j) is the sum
// of Reward over every scenario folded into that edge (scenario names
// joined by "+" by the "combined" matrix-labelling variant are split back
// apart to sum their individual rewards).
func buildWeightedGraph(g *sadf.Graph, labeled automaton.MatrixLabeledFSM) (weight, reward maxplus.Matrix) {
	n := labeled.NumStates
	weight = maxplus.NewMatrix(n, n)
	reward = maxplus.NewMatrix(n, n)
	for _, e := range labeled.Edges {
		weight.Set(int(e.From), int(e.To), e.Matrix.MaxEntry())
		reward.Set(int(e.From), int(e.To), sumRewards(g, e.Scenario))
	}
	return weight, reward
}

func sumRewards(g *sadf.Graph, joinedNames string) float64 {
	total := 0.0
	for _, name := range splitPlus(joinedNames) {
		if sid, ok := g.ScenarioByName(name); ok {
			total += g.Scenarios[sid].Reward
		}
	}
	return total
}

func splitPlus(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '+' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}

// maxCycleRatio finds the Maximum Cycle Ratio of the directed graph whose
// edge (i,j) has delay weight.At(i,j) and reward reward.At(i,j) (only
// where weight is not NegInf), via binary search on the ratio lambda: a
// cycle with ratio >= lambda exists iff the graph with edge weights
// weight(i,j) - lambda*reward(i,j) has a cycle of mean >= 0 (checked via
// maxplus.MCM). It also returns the vertex sequence of one cycle realizing
// (approximately) that ratio.
func maxCycleRatio(weight, reward maxplus.Matrix) (float64, []int, error) {
	n := weight.Rows()
	if n == 0 || n != weight.Cols() || n != reward.Rows() || n != reward.Cols() {
		return 0, nil, &fsmerr.DimensionMismatch{
			Op: "MaxCycleRatio", LHSRows: weight.Rows(), LHSCols: weight.Cols(), RHSRows: reward.Rows(), RHSCols: reward.Cols(),
		}
	}

	lo, hi := 0.0, ratioBound(weight, reward)
	for iter := 0; iter < 100; iter++ {
		mid := (lo + hi) / 2
		if maxplus.MCM(residual(weight, reward, mid)) >= 0 {
			lo = mid
		} else {
			hi = mid
		}
	}

	cyc := criticalCycle(residual(weight, reward, lo))
	return lo, cyc, nil
}

func ratioBound(weight, reward maxplus.Matrix) float64 {
	n := weight.Rows()
	maxW, minR := 0.0, math.Inf(1)
	any := false
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			w := weight.At(i, j)
			if maxplus.IsNegInf(w) {
				continue
			}
			any = true
			if w > maxW {
				maxW = w
			}
			if r := reward.At(i, j); r > 0 && r < minR {
				minR = r
			}
		}
	}
	if !any {
		return 1
	}
	if math.IsInf(minR, 1) {
		minR = 1
	}
	if maxW <= 0 {
		return 1
	}
	return maxW/minR + 1
}

func residual(weight, reward maxplus.Matrix, lambda float64) maxplus.Matrix {
	n := weight.Rows()
	out := maxplus.NewMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			w := weight.At(i, j)
			if maxplus.IsNegInf(w) {
				continue
			}
			out.Set(i, j, w-lambda*reward.At(i, j))
		}
	}
	return out
}

// criticalCycle reconstructs a zero-mean cycle of residual (the graph at
// the found Maximum Cycle Ratio) using Karp's walk-of-length-n technique,
// extended with predecessor tracking: for each candidate root it computes
// the best walk of n edges, then walks the predecessor chain of the
// vertex realizing the maximum mean back far enough that, by pigeonhole,
// some vertex must repeat — that repeat delimits one witnessing cycle.
func criticalCycle(residual maxplus.Matrix) []int {
	n := residual.Rows()
	if n == 0 {
		return nil
	}

	var bestMean = math.Inf(-1)
	var bestPred [][]int
	var bestV, bestK, bestN int

	for root := 0; root < n; root++ {
		d, pred := walkFrom(residual, root)
		v, k, mean, ok := karpWitness(d, n)
		if ok && mean > bestMean {
			bestMean, bestPred, bestV, bestK, bestN = mean, pred, v, k, n
		}
	}
	if bestPred == nil {
		return nil
	}
	return extractCycle(bestPred, bestV, bestK, bestN)
}

func walkFrom(m maxplus.Matrix, root int) (d [][]float64, pred [][]int) {
	n := m.Rows()
	d = make([][]float64, n+1)
	pred = make([][]int, n+1)
	for k := range d {
		d[k] = make([]float64, n)
		pred[k] = make([]int, n)
		for i := range d[k] {
			d[k][i] = maxplus.NegInf
			pred[k][i] = -1
		}
	}
	d[0][root] = 0

	for k := 1; k <= n; k++ {
		for u := 0; u < n; u++ {
			best, bestPrev := maxplus.NegInf, -1
			for v := 0; v < n; v++ {
				if maxplus.IsNegInf(d[k-1][v]) {
					continue
				}
				w := m.At(v, u)
				if maxplus.IsNegInf(w) {
					continue
				}
				if val := d[k-1][v] + w; val > best {
					best, bestPrev = val, v
				}
			}
			d[k][u] = best
			pred[k][u] = bestPrev
		}
	}
	return d, pred
}

func karpWitness(d [][]float64, n int) (v, k int, mean float64, ok bool) {
	best := math.Inf(-1)
	bestV, bestK := -1, -1
	for vv := 0; vv < n; vv++ {
		if maxplus.IsNegInf(d[n][vv]) {
			continue
		}
		localMin, localK := math.Inf(1), -1
		for kk := 0; kk < n; kk++ {
			if maxplus.IsNegInf(d[kk][vv]) {
				continue
			}
			if cand := (d[n][vv] - d[kk][vv]) / float64(n-kk); cand < localMin {
				localMin, localK = cand, kk
			}
		}
		if localK != -1 && localMin > best {
			best, bestV, bestK = localMin, vv, localK
		}
	}
	if bestV == -1 {
		return 0, 0, 0, false
	}
	return bestV, bestK, best, true
}

func extractCycle(pred [][]int, bestV, bestK, n int) []int {
	seq := []int{bestV}
	x := bestV
	for step := n; step > 0; step-- {
		x = pred[step][x]
		if x == -1 {
			break
		}
		seq = append(seq, x)
		if step <= bestK && len(seq) > n-bestK+1 {
			break
		}
	}
	for i, j := 0, len(seq)-1; i < j; i, j = i+1, j-1 {
		seq[i], seq[j] = seq[j], seq[i]
	}

	lastSeen := make(map[int]int)
	for i, v := range seq {
		if j, ok := lastSeen[v]; ok {
			return seq[j : i+1]
		}
		lastSeen[v] = i
	}
	return seq
}

func labelCycle(edges []automaton.MatrixEdge, vertices []int) []string {
	if len(vertices) < 2 {
		return nil
	}
	labels := make([]string, 0, len(vertices)-1)
	for i := 0; i+1 < len(vertices); i++ {
		from, to := sadf.FSMStateID(vertices[i]), sadf.FSMStateID(vertices[i+1])
		labels = append(labels, findLabel(edges, from, to))
	}
	return labels
}

func findLabel(edges []automaton.MatrixEdge, from, to sadf.FSMStateID) string {
	for _, e := range edges {
		if e.From == from && e.To == to {
			return e.Scenario
		}
	}
	return ""
}
