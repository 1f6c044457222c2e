package maxplus

import "math"

// MCM computes the Maximum Cycle Mean of the directed weighted graph
// induced by m: an edge i→j exists with weight m.At(i,j) whenever
// m.At(i,j) > −∞ (§4.3). m must be square; a non-square matrix is a
// programmer error (panics), since MCM is only ever called on matrices
// already known to be automaton-transition matrices.
//
// Computed via Karp's theorem: for each candidate "root" vertex v reachable
// in the precedence graph, d[k][u] is the max-plus weight of the best walk
// of exactly k edges from v to u (−∞ if no such walk exists); the cycle
// mean is
//
//	max_v  min_{0<=k<=n-1}  (d[n][v] - d[k][v]) / (n - k)
//
// restricted to vertices v reachable from some root with d[n][v] > −∞.
// Strongly connected components are not required: unreachable vertices
// contribute −∞ throughout and never constrain the minimum (§4.3).
func MCM(m Matrix) MPTime {
	if m.rows != m.cols {
		panic("maxplus: MCM requires a square matrix")
	}
	n := m.rows
	if n == 0 {
		return NegInf
	}

	best := NegInf
	for root := 0; root < n; root++ {
		mean := karpFrom(m, root)
		best = Max(best, mean)
	}
	return best
}

// karpFrom runs Karp's recurrence rooted at a single source vertex and
// returns the maximum cycle mean among cycles reachable from that source
// (NegInf if none).
func karpFrom(m Matrix, root int) MPTime {
	n := m.rows

	// d[k][u]: best max-plus weight of a walk of exactly k edges from root to u.
	d := make([][]MPTime, n+1)
	for k := range d {
		d[k] = NewVector(n)
	}
	d[0][root] = 0

	for k := 1; k <= n; k++ {
		for u := 0; u < n; u++ {
			acc := NegInf
			for v := 0; v < n; v++ {
				if IsNegInf(d[k-1][v]) {
					continue
				}
				w := m.At(v, u)
				if IsNegInf(w) {
					continue
				}
				acc = Max(acc, d[k-1][v]+w)
			}
			d[k][u] = acc
		}
	}

	mean := NegInf
	for v := 0; v < n; v++ {
		if IsNegInf(d[n][v]) {
			continue
		}
		localMin := math.Inf(1)
		for k := 0; k < n; k++ {
			if IsNegInf(d[k][v]) {
				continue
			}
			candidate := (d[n][v] - d[k][v]) / float64(n-k)
			if candidate < localMin {
				localMin = candidate
			}
		}
		if localMin < math.Inf(1) {
			mean = Max(mean, localMin)
		}
	}
	return mean
}
