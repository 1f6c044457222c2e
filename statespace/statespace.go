// Package statespace explores a scenario graph's numeric (timestamped)
// state space to find its throughput, as an independent cross-check of
// package symbolic's closed-form max-plus matrix (§4.7): rather than
// deriving one matrix algebraically, it simulates actor firings with
// concrete timestamps, detects when the (normalized) state recurs, and
// reads throughput off the recurrence.
//
// It is grounded on
// original_source/sdf3/sdf/analysis/maxplus/mpexplore.cc's
// Exploration::explore/explore_backward/exploreEigen and
// mpstorage.cc's State::normalize/State::hashValue: a static firing
// schedule is computed once (by the same find-enabled/fire loop as
// package symbolic, but over plain float64 timestamps instead of symbolic
// basis vectors), then replayed every iteration; after each replay the
// state is normalized (its maximum timestamp subtracted out) before being
// looked up in a recurrence table, mirroring StoredStates::includes.
// Hashing uses the state's exact bit pattern (math.Float64bits) rather
// than the source's lossy truncation to a fixed-width hash, since Go can
// afford an exact map key.
package statespace

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/sdf3go/fsmsadf/fsmerr"
	"github.com/sdf3go/fsmsadf/sadf"
)

// Result is one exploration's outcome: the throughput (iterations of the
// repetition vector per time unit) and the iteration count it took to
// detect a recurrence.
type Result struct {
	Throughput float64
	Iterations int
	// Eigenvector is the normalized per-channel token-timestamp state at
	// the detected recurrence, concatenated in channel-iteration order —
	// an estimate of the max-plus eigenvector belonging to Throughput's
	// reciprocal eigenvalue. It is the recurrent state as found; no
	// smoothing toward a fixed point (as exploreEigen does) is applied.
	Eigenvector []float64
}

type seenEntry struct {
	iter     int
	totalAbs float64
}

// Explore runs the forward numeric exploration of scenario graph g in
// scenario s with repetition vector r, returning the throughput at the
// first detected state recurrence. ctx is checked once per iteration;
// a cancelled ctx yields fsmerr.Cancelled.
func Explore(ctx context.Context, g *sadf.ScenarioGraph, s string, r []int) (Result, error) {
	return explore(ctx, g, s, r, false)
}

// ExploreBackward runs the dual (min-plus, reverse-schedule) exploration,
// mirroring explore_backward: it should agree with Explore's throughput
// for any well-formed (deadlock-free, strongly consistent) scenario graph,
// and serves as an independent check on the forward result.
func ExploreBackward(ctx context.Context, g *sadf.ScenarioGraph, s string, r []int) (Result, error) {
	return explore(ctx, g, s, r, true)
}

func explore(ctx context.Context, g *sadf.ScenarioGraph, s string, r []int, backward bool) (Result, error) {
	if allZero(r) {
		return Result{}, &fsmerr.Inconsistent{Scenario: s}
	}

	schedule, err := buildSchedule(g, s, r)
	if err != nil {
		return Result{}, err
	}
	if backward {
		schedule = reversed(schedule)
	}

	fifos := initialNumericState(g)
	seen := make(map[string]seenEntry)
	var totalAbs float64
	iter := 0

	for {
		select {
		case <-ctx.Done():
			return Result{}, &fsmerr.Cancelled{Cause: ctx.Err()}
		default:
		}

		for _, a := range schedule {
			fireNumeric(g, fifos, g.Actors[a], s, backward)
		}
		iter++

		extreme := extremeTimestamp(fifos, backward)
		totalAbs += extreme
		normalize(fifos, extreme)

		key := stateKey(fifos)
		if prev, ok := seen[key]; ok {
			dIter := float64(iter - prev.iter)
			dTime := totalAbs - prev.totalAbs
			if backward {
				dTime = -dTime
			}
			if dTime == 0 {
				return Result{}, &fsmerr.InconsistentScenarioGraph{Scenario: s, Reason: "recurrence with zero elapsed time"}
			}
			return Result{
				Throughput:  dIter / dTime,
				Iterations:  iter,
				Eigenvector: flatten(fifos),
			}, nil
		}
		seen[key] = seenEntry{iter: iter, totalAbs: totalAbs}
	}
}

func allZero(r []int) bool {
	for _, v := range r {
		if v != 0 {
			return false
		}
	}
	return true
}

func reversed(a []sadf.ActorID) []sadf.ActorID {
	out := make([]sadf.ActorID, len(a))
	for i, v := range a {
		out[len(a)-1-i] = v
	}
	return out
}

// buildSchedule finds one valid firing order that exactly exhausts r,
// matching package symbolic's ExtractMatrix find-enabled/fire loop but
// recording the order instead of a matrix.
func buildSchedule(g *sadf.ScenarioGraph, s string, r []int) ([]sadf.ActorID, error) {
	remaining := append([]int(nil), r...)
	fifos := initialNumericState(g)
	total := 0
	for _, v := range remaining {
		total += v
	}
	schedule := make([]sadf.ActorID, 0, total)
	cursor := 0
	for fired := 0; fired < total; fired++ {
		a, ok := findEnabledNumeric(g, fifos, remaining, s, &cursor)
		if !ok {
			return nil, &fsmerr.Deadlock{Scenario: s, StateDigest: digest(remaining)}
		}
		remaining[a]--
		fireNumeric(g, fifos, g.Actors[a], s, false)
		schedule = append(schedule, a)
	}
	return schedule, nil
}

func digest(remaining []int) string {
	parts := make([]string, len(remaining))
	for i, v := range remaining {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// initialNumericState builds one FIFO of timestamps per channel, all
// initialized to 0 (the tokens present before the first iteration).
func initialNumericState(g *sadf.ScenarioGraph) [][]float64 {
	fifos := make([][]float64, len(g.Channels))
	for ci, c := range g.Channels {
		fifos[ci] = make([]float64, c.InitialTokens)
	}
	return fifos
}

func findEnabledNumeric(g *sadf.ScenarioGraph, fifos [][]float64, remaining []int, s string, cursor *int) (sadf.ActorID, bool) {
	n := len(g.Actors)
	for scanned := 0; scanned < n; scanned++ {
		a := sadf.ActorID(*cursor)
		if remaining[a] > 0 && numericEnabled(fifos, g.Actors[a], s) {
			return a, true
		}
		*cursor = (*cursor + 1) % n
	}
	return 0, false
}

func numericEnabled(fifos [][]float64, a sadf.Actor, s string) bool {
	for _, idx := range a.InPorts() {
		p := a.Ports[idx]
		if len(fifos[p.Channel]) < p.RateOf(s) {
			return false
		}
	}
	return true
}

// fireNumeric consumes rate(p) timestamps from each input channel,
// combines them (max for forward, min for backward — the max-plus/min-plus
// duality fire_reverse relies on), shifts by the actor's execution time
// (added forward, subtracted backward), and produces the result onto every
// output channel. Backward, the roles of the ports are swapped: the actor
// consumes from its output channels and produces onto its input channels.
func fireNumeric(g *sadf.ScenarioGraph, fifos [][]float64, a sadf.Actor, s string, backward bool) {
	consume, produce := a.InPorts(), a.OutPorts()
	if backward {
		consume, produce = produce, consume
	}
	var t float64
	first := true
	for _, idx := range consume {
		p := a.Ports[idx]
		rate := p.RateOf(s)
		for k := 0; k < rate; k++ {
			v := fifos[p.Channel][0]
			fifos[p.Channel] = fifos[p.Channel][1:]
			if first {
				t = v
				first = false
			} else if backward {
				t = math.Min(t, v)
			} else {
				t = math.Max(t, v)
			}
		}
	}
	if backward {
		t -= a.ExecTimeOf(s)
	} else {
		t += a.ExecTimeOf(s)
	}
	for _, idx := range produce {
		p := a.Ports[idx]
		for k := 0; k < p.RateOf(s); k++ {
			fifos[p.Channel] = append(fifos[p.Channel], t)
		}
	}
}

// extremeTimestamp returns the state's maximum timestamp (forward) or
// minimum timestamp (backward), the value State::normalize subtracts out.
func extremeTimestamp(fifos [][]float64, backward bool) float64 {
	first := true
	var ext float64
	for _, f := range fifos {
		for _, v := range f {
			if first {
				ext = v
				first = false
			} else if backward {
				ext = math.Min(ext, v)
			} else {
				ext = math.Max(ext, v)
			}
		}
	}
	return ext
}

func normalize(fifos [][]float64, by float64) {
	for _, f := range fifos {
		for i := range f {
			f[i] -= by
		}
	}
}

// stateKey renders the normalized state as an exact map key, using the
// IEEE-754 bit pattern of each timestamp rather than a lossy numeric hash
// (§9's divergence from State::hashValue's truncating size_t hash).
func stateKey(fifos [][]float64) string {
	var b strings.Builder
	for _, f := range fifos {
		for _, v := range f {
			b.WriteString(strconv.FormatUint(math.Float64bits(v), 16))
			b.WriteByte(',')
		}
		b.WriteByte('|')
	}
	return b.String()
}

func flatten(fifos [][]float64) []float64 {
	var out []float64
	for _, f := range fifos {
		out = append(out, f...)
	}
	return out
}
