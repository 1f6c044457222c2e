package sadf

// Clone returns a deep copy of the scenario graph: all maps and slices are
// copied, so mutating the clone (e.g. package boundrewrite adding a sync
// actor) never affects the original (§4.5: "The rewrite operates on a
// clone and does not mutate the input"). Arena indices are preserved
// verbatim — ActorID/ChannelID/PortRef values from the original remain
// valid on the clone, since the clone keeps actors and channels at the same
// slice positions (§3's "Cloning contract").
func (sg *ScenarioGraph) Clone() *ScenarioGraph {
	out := &ScenarioGraph{
		ID:   sg.ID,
		Name: sg.Name,
	}

	out.Actors = make([]Actor, len(sg.Actors))
	for i, a := range sg.Actors {
		out.Actors[i] = a.clone()
	}

	out.Channels = make([]Channel, len(sg.Channels))
	for i, c := range sg.Channels {
		out.Channels[i] = c.clone()
	}

	out.StorageDistributions = make(map[string][]StorageDistribution, len(sg.StorageDistributions))
	for scenario, dists := range sg.StorageDistributions {
		cp := make([]StorageDistribution, len(dists))
		for i, d := range dists {
			cp[i] = d.clone()
		}
		out.StorageDistributions[scenario] = cp
	}

	out.actorIndex = cloneStringIntMap(sg.actorIndex, func(v ActorID) ActorID { return v })
	out.channelIndex = cloneStringIntMap(sg.channelIndex, func(v ChannelID) ChannelID { return v })

	return out
}

func (a Actor) clone() Actor {
	out := a
	out.Ports = make([]Port, len(a.Ports))
	for i, p := range a.Ports {
		out.Ports[i] = p.clone()
	}
	out.Processors = make(map[string]ProcessorProperties, len(a.Processors))
	for k, pp := range a.Processors {
		out.Processors[k] = pp.clone()
	}
	out.RepetitionCount = cloneIntMap(a.RepetitionCount)
	return out
}

func (p Port) clone() Port {
	out := p
	out.Rate = cloneIntMap(p.Rate)
	return out
}

func (pp ProcessorProperties) clone() ProcessorProperties {
	out := ProcessorProperties{
		ExecTime: make(map[string]float64, len(pp.ExecTime)),
		Memory:   cloneInt64Map(pp.Memory),
	}
	for k, v := range pp.ExecTime {
		out.ExecTime[k] = v
	}
	return out
}

func (c Channel) clone() Channel {
	out := c
	out.PersistentInitialNames = append([]string(nil), c.PersistentInitialNames...)
	out.PersistentFinalNames = append([]string(nil), c.PersistentFinalNames...)
	out.TokenSize = cloneIntMap(c.TokenSize)
	return out
}

func (d StorageDistribution) clone() StorageDistribution {
	return StorageDistribution{Sizes: cloneInt64Map(d.Sizes), Throughput: d.Throughput}
}

func cloneIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneInt64Map(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneStringIntMap[T ~int](m map[string]T, id func(T) T) map[string]T {
	out := make(map[string]T, len(m))
	for k, v := range m {
		out[k] = id(v)
	}
	return out
}

// Clone returns a deep copy of the whole Graph: every ScenarioGraph is
// cloned, and Scenario/FSMState references are copied by value — since
// they are plain indices (ScenarioGraphID, ScenarioID) rather than
// pointers, no rewiring pass is needed (§3's "Cloning contract", simplified
// relative to the source by the arena-storage design in §9).
func (g *Graph) Clone() *Graph {
	out := &Graph{
		Name:                 g.Name,
		DefaultScenario:      g.DefaultScenario,
		ThroughputConstraint: g.ThroughputConstraint,
	}

	out.ScenarioGraphs = make([]ScenarioGraph, len(g.ScenarioGraphs))
	for i := range g.ScenarioGraphs {
		out.ScenarioGraphs[i] = *g.ScenarioGraphs[i].Clone()
	}

	out.Scenarios = append([]Scenario(nil), g.Scenarios...)

	out.FSM = FSM{
		States:      append([]FSMState(nil), g.FSM.States...),
		Transitions: append([]FSMTransition(nil), g.FSM.Transitions...),
		Initial:     g.FSM.Initial,
	}

	out.scenarioIndex = cloneStringIntMap(g.scenarioIndex, func(v ScenarioID) ScenarioID { return v })
	out.scenarioGraphIndex = cloneStringIntMap(g.scenarioGraphIndex, func(v ScenarioGraphID) ScenarioGraphID { return v })

	return out
}
