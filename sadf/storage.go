package sadf

import "sort"

// sortStorageDistributions returns dists ordered lexicographically by
// (Throughput, size-map) as required by §3: "Storage-distribution sets are
// set<StorageDistribution> ordered lexicographically by (throughput,
// size-map)". The size-map comparison orders by channel name, then by
// size, since a map has no inherent order.
func sortStorageDistributions(dists []StorageDistribution) []StorageDistribution {
	out := append([]StorageDistribution(nil), dists...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Throughput != out[j].Throughput {
			return out[i].Throughput < out[j].Throughput
		}
		return compareSizeMaps(out[i].Sizes, out[j].Sizes) < 0
	})
	return out
}

func compareSizeMaps(a, b map[string]int64) int {
	keys := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, k := range sorted {
		av, bv := a[k], b[k]
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}
