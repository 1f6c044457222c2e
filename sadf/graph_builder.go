package sadf

import "fmt"

// Builder assembles a top-level Graph out of already-built ScenarioGraphs,
// Scenarios, and an FSM, enforcing the §3 ownership and uniqueness
// invariants. See ScenarioGraphBuilder's doc comment for its role as the
// minimal in-process "graph-model loader" named in §6.
type Builder struct {
	g   Graph
	err error

	hasDefaultScenario bool
	hasInitialState    bool
}

// NewBuilder starts building a Graph named name.
func NewBuilder(name string) *Builder {
	b := &Builder{
		g: Graph{
			Name:               name,
			scenarioIndex:      make(map[string]ScenarioID),
			scenarioGraphIndex: make(map[string]ScenarioGraphID),
		},
	}
	if name == "" {
		b.err = ErrEmptyName
	}
	return b
}

func (b *Builder) fail(ctx string, err error) {
	if b.err != nil {
		return
	}
	if ctx != "" {
		err = fmt.Errorf("%s: %w", ctx, err)
	}
	b.err = err
}

// AddScenarioGraph takes ownership of sg (already validated by
// ScenarioGraphBuilder.Build) and returns its ScenarioGraphID.
func (b *Builder) AddScenarioGraph(sg *ScenarioGraph) ScenarioGraphID {
	if b.err != nil {
		return -1
	}
	if _, exists := b.g.scenarioGraphIndex[sg.Name]; exists {
		b.fail("scenario graph "+sg.Name, ErrDuplicateName)
		return -1
	}
	id := ScenarioGraphID(len(b.g.ScenarioGraphs))
	cp := *sg
	cp.ID = id
	b.g.ScenarioGraphs = append(b.g.ScenarioGraphs, cp)
	b.g.scenarioGraphIndex[sg.Name] = id
	return id
}

// AddScenario adds a scenario named name over ScenarioGraph graph, with the
// given reward (must be >= 0).
func (b *Builder) AddScenario(name string, graph ScenarioGraphID, reward float64) ScenarioID {
	if b.err != nil {
		return -1
	}
	if name == "" {
		b.fail("", ErrEmptyName)
		return -1
	}
	if _, exists := b.g.scenarioIndex[name]; exists {
		b.fail("scenario "+name, ErrDuplicateName)
		return -1
	}
	if int(graph) < 0 || int(graph) >= len(b.g.ScenarioGraphs) {
		b.fail("scenario "+name, ErrUnknownActor)
		return -1
	}
	if reward < 0 {
		b.fail("scenario "+name, ErrNegativeReward)
		return -1
	}
	id := ScenarioID(len(b.g.Scenarios))
	b.g.Scenarios = append(b.g.Scenarios, Scenario{ID: id, Name: name, Graph: graph, Reward: reward})
	b.g.scenarioIndex[name] = id
	return id
}

// SetDefaultScenario designates s as the graph's default scenario (§3: "A
// distinguished default scenario exists per graph to hold fallback
// per-entity properties; it is never referenced by the FSM").
func (b *Builder) SetDefaultScenario(s ScenarioID) {
	if b.err != nil {
		return
	}
	if int(s) < 0 || int(s) >= len(b.g.Scenarios) {
		b.fail("default scenario", ErrUnknownActor)
		return
	}
	b.g.DefaultScenario = s
	b.hasDefaultScenario = true
}

// SetThroughputConstraint sets the graph's annotated throughput constraint.
func (b *Builder) SetThroughputConstraint(v float64) {
	if b.err != nil {
		return
	}
	b.g.ThroughputConstraint = v
}

// AddFSMState adds a new FSM state referencing scenario (which must not be
// the default scenario, per §3).
func (b *Builder) AddFSMState(scenario ScenarioID) FSMStateID {
	if b.err != nil {
		return -1
	}
	if int(scenario) < 0 || int(scenario) >= len(b.g.Scenarios) {
		b.fail("FSM state", ErrUnknownActor)
		return -1
	}
	if b.hasDefaultScenario && scenario == b.g.DefaultScenario {
		b.fail("FSM state", ErrDefaultScenarioReferenced)
		return -1
	}
	id := FSMStateID(len(b.g.FSM.States))
	b.g.FSM.States = append(b.g.FSM.States, FSMState{ID: id, Scenario: scenario})
	return id
}

// AddFSMTransition adds a directed transition from → to.
func (b *Builder) AddFSMTransition(from, to FSMStateID) {
	if b.err != nil {
		return
	}
	if !b.validState(from) || !b.validState(to) {
		return
	}
	b.g.FSM.Transitions = append(b.g.FSM.Transitions, FSMTransition{From: from, To: to})
}

func (b *Builder) validState(s FSMStateID) bool {
	if int(s) < 0 || int(s) >= len(b.g.FSM.States) {
		b.fail("FSM transition", ErrUnknownActor)
		return false
	}
	return true
}

// SetInitialState designates s as the FSM's initial state.
func (b *Builder) SetInitialState(s FSMStateID) {
	if b.err != nil {
		return
	}
	if !b.validState(s) {
		return
	}
	b.g.FSM.Initial = s
	b.hasInitialState = true
}

// Build validates the remaining §3 invariants (an initial FSM state must
// have been designated) and returns the immutable Graph.
func (b *Builder) Build() (*Graph, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.g.FSM.States) > 0 && !b.hasInitialState {
		return nil, ErrNoInitialState
	}
	out := b.g
	return &out, nil
}
