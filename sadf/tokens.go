package sadf

import "sort"

// PersistentToken names one persistent initial or final token together with
// its global slot index in the scenario graph's symbolic-token space (§4.4).
type PersistentToken struct {
	Name        string
	GlobalIndex int
}

// TotalInitialTokens returns N: the total number of initial-token slots
// across all channels, i.e. the dimension of a symbolic token (§4.4).
// Channels are visited, and their slots numbered, in channel iteration
// (declaration) order — "contiguous ranges per channel, in channel
// iteration order" (§4.4).
func (sg *ScenarioGraph) TotalInitialTokens() int {
	n := 0
	for _, c := range sg.Channels {
		n += c.InitialTokens
	}
	return n
}

// TotalFinalTokens returns the total number of final-token slots across all
// channels (only meaningful for weakly-consistent scenario graphs).
func (sg *ScenarioGraph) TotalFinalTokens() int {
	n := 0
	for _, c := range sg.Channels {
		n += c.FinalTokens
	}
	return n
}

// InitialTokenBase returns the global slot index of the first (0th)
// initial token of channel c; slot k of that channel is at
// InitialTokenBase(c) + k.
func (sg *ScenarioGraph) InitialTokenBase(c ChannelID) int {
	base := 0
	for i := ChannelID(0); i < c; i++ {
		base += sg.Channels[i].InitialTokens
	}
	return base
}

// FinalTokenBase is the FinalTokens analogue of InitialTokenBase.
func (sg *ScenarioGraph) FinalTokenBase(c ChannelID) int {
	base := 0
	for i := ChannelID(0); i < c; i++ {
		base += sg.Channels[i].FinalTokens
	}
	return base
}

// CanonicalInitialOrder returns the canonical ordering over persistent
// initial-token names used to index rows/columns of max-plus matrices
// (§4.4, §5): within each channel, persistent names are sorted
// lexicographically; channels are then visited in iteration order and
// their sorted names concatenated.
func (sg *ScenarioGraph) CanonicalInitialOrder() []PersistentToken {
	return canonicalOrder(sg.Channels, func(c Channel) (int, []string) {
		return sg.InitialTokenBase(c.ID), c.PersistentInitialNames
	})
}

// CanonicalFinalOrder is the FinalTokens analogue of CanonicalInitialOrder.
func (sg *ScenarioGraph) CanonicalFinalOrder() []PersistentToken {
	return canonicalOrder(sg.Channels, func(c Channel) (int, []string) {
		return sg.FinalTokenBase(c.ID), c.PersistentFinalNames
	})
}

func canonicalOrder(channels []Channel, slots func(Channel) (int, []string)) []PersistentToken {
	var out []PersistentToken
	for _, c := range channels {
		base, names := slots(c)

		// Pair each name with the slot it names (position k in the
		// PersistentInitialNames/Final slice names slot k of the channel),
		// then sort the pairs by name so ties within a channel are
		// resolved lexicographically, per §5.
		type named struct {
			name string
			slot int
		}
		pairs := make([]named, len(names))
		for k, name := range names {
			pairs[k] = named{name: name, slot: k}
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].name < pairs[j].name })

		for _, p := range pairs {
			out = append(out, PersistentToken{Name: p.name, GlobalIndex: base + p.slot})
		}
	}
	return out
}
