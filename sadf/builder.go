package sadf

import "fmt"

// unconnected is the sentinel Port.Channel value before a channel is wired.
const unconnected ChannelID = -1

// ScenarioGraphBuilder constructs a single ScenarioGraph, enforcing the §3
// structural invariants before the graph can be used by any analysis. This
// plays the role of the "graph-model loader" collaborator named in §6 — a
// minimal, in-process, programmatic stand-in for XML parsing (out of
// scope) — grounded on the teacher's builder package, which plays the same
// "fluent, validating constructor distinct from the core data type" role
// for core.Graph.
type ScenarioGraphBuilder struct {
	sg  ScenarioGraph
	err error
}

// NewScenarioGraphBuilder starts building a scenario graph named name.
func NewScenarioGraphBuilder(name string) *ScenarioGraphBuilder {
	b := &ScenarioGraphBuilder{
		sg: ScenarioGraph{
			Name:                  name,
			StorageDistributions:  make(map[string][]StorageDistribution),
			actorIndex:            make(map[string]ActorID),
			channelIndex:          make(map[string]ChannelID),
		},
	}
	if name == "" {
		b.err = ErrEmptyName
	}
	return b
}

// NewScenarioGraphBuilderFrom starts a builder pre-populated with a deep
// copy of sg, preserving every existing ActorID/ChannelID exactly (the
// clone contract of ScenarioGraph.Clone). This lets programmatic graph
// rewrites — e.g. package boundrewrite's synchronizing-actor insertion —
// extend an already-built graph using the same validating AddActor/
// AddPort/AddChannel calls a hand-authored graph goes through, rather than
// duplicating the construction and validation logic.
func NewScenarioGraphBuilderFrom(sg *ScenarioGraph) *ScenarioGraphBuilder {
	return &ScenarioGraphBuilder{sg: *sg.Clone()}
}

func (b *ScenarioGraphBuilder) fail(err error) { b.fail2(err, "") }

func (b *ScenarioGraphBuilder) fail2(err error, ctx string) {
	if b.err != nil {
		return
	}
	if ctx != "" {
		err = fmt.Errorf("%s: %w", ctx, err)
	}
	b.err = err
}

// AddActor registers a new actor named name with the given type tag and
// returns its ActorID.
func (b *ScenarioGraphBuilder) AddActor(name, actorType string) ActorID {
	if b.err != nil {
		return -1
	}
	if name == "" {
		b.fail(ErrEmptyName)
		return -1
	}
	if _, exists := b.sg.actorIndex[name]; exists {
		b.fail2(ErrDuplicateName, "actor "+name)
		return -1
	}
	id := ActorID(len(b.sg.Actors))
	b.sg.Actors = append(b.sg.Actors, Actor{
		ID:              id,
		Name:            name,
		Type:            actorType,
		Processors:      make(map[string]ProcessorProperties),
		RepetitionCount: make(map[string]int),
	})
	b.sg.actorIndex[name] = id
	return id
}

// AddPort adds a port named name, with the given direction, to actor.
// Returns the port's index within that actor's Ports slice.
func (b *ScenarioGraphBuilder) AddPort(actor ActorID, name string, dir Direction) int {
	if b.err != nil {
		return -1
	}
	if int(actor) < 0 || int(actor) >= len(b.sg.Actors) {
		b.fail(ErrUnknownActor)
		return -1
	}
	a := &b.sg.Actors[actor]
	for _, p := range a.Ports {
		if p.Name == name {
			b.fail2(ErrDuplicateName, "port "+name+" on actor "+a.Name)
			return -1
		}
	}
	idx := len(a.Ports)
	a.Ports = append(a.Ports, Port{
		Name:      name,
		Direction: dir,
		Rate:      make(map[string]int),
		Channel:   unconnected,
	})
	return idx
}

// SetRate sets actor's port's rate in scenario.
func (b *ScenarioGraphBuilder) SetRate(actor ActorID, portIdx int, scenario string, rate int) {
	if b.err != nil {
		return
	}
	if !b.validPort(actor, portIdx) {
		return
	}
	b.sg.Actors[actor].Ports[portIdx].Rate[scenario] = rate
}

// SetExecTime sets actor's execution time on processorType in scenario.
func (b *ScenarioGraphBuilder) SetExecTime(actor ActorID, processorType, scenario string, execTime float64) {
	if b.err != nil {
		return
	}
	if int(actor) < 0 || int(actor) >= len(b.sg.Actors) {
		b.fail(ErrUnknownActor)
		return
	}
	pp := b.ensureProcessor(actor, processorType)
	pp.ExecTime[scenario] = execTime
}

// SetMemory sets actor's memory requirement on processorType in scenario.
func (b *ScenarioGraphBuilder) SetMemory(actor ActorID, processorType, scenario string, mem int64) {
	if b.err != nil {
		return
	}
	if int(actor) < 0 || int(actor) >= len(b.sg.Actors) {
		b.fail(ErrUnknownActor)
		return
	}
	pp := b.ensureProcessor(actor, processorType)
	pp.Memory[scenario] = mem
}

func (b *ScenarioGraphBuilder) ensureProcessor(actor ActorID, processorType string) *ProcessorProperties {
	a := &b.sg.Actors[actor]
	pp, ok := a.Processors[processorType]
	if !ok {
		pp = ProcessorProperties{ExecTime: make(map[string]float64), Memory: make(map[string]int64)}
	}
	a.Processors[processorType] = pp
	ref := a.Processors[processorType]
	return &ref
}

// SetDefaultProcessorType designates actor's default processor type.
func (b *ScenarioGraphBuilder) SetDefaultProcessorType(actor ActorID, processorType string) {
	if b.err != nil {
		return
	}
	if int(actor) < 0 || int(actor) >= len(b.sg.Actors) {
		b.fail(ErrUnknownActor)
		return
	}
	b.sg.Actors[actor].DefaultProcessorType = processorType
}

// SetRepetitionCount sets actor's per-scenario repetition count (only
// meaningful for weakly-consistent graphs).
func (b *ScenarioGraphBuilder) SetRepetitionCount(actor ActorID, scenario string, count int) {
	if b.err != nil {
		return
	}
	if int(actor) < 0 || int(actor) >= len(b.sg.Actors) {
		b.fail(ErrUnknownActor)
		return
	}
	b.sg.Actors[actor].RepetitionCount[scenario] = count
}

func (b *ScenarioGraphBuilder) validPort(actor ActorID, port int) bool {
	if int(actor) < 0 || int(actor) >= len(b.sg.Actors) {
		b.fail(ErrUnknownActor)
		return false
	}
	if port < 0 || port >= len(b.sg.Actors[actor].Ports) {
		b.fail(ErrUnknownPort)
		return false
	}
	return true
}

// AddChannel wires src (must be an Out port) to dst (must be an In port),
// with initialTokens/finalTokens initial/final token counts, returning the
// new ChannelID. Every slot is given a default persistent name
// ("<channel>#<slot>"), so §4.4's persistent-token restriction is a no-op
// until the caller narrows it with SetPersistentInitialNames/
// SetPersistentFinalNames to mark only a subset of a channel's tokens as
// persistent (the usual case for bookkeeping tokens that should not appear
// in downstream throughput computations).
func (b *ScenarioGraphBuilder) AddChannel(name string, src, dst PortRef, initialTokens, finalTokens int) ChannelID {
	if b.err != nil {
		return -1
	}
	if name == "" {
		b.fail(ErrEmptyName)
		return -1
	}
	if _, exists := b.sg.channelIndex[name]; exists {
		b.fail2(ErrDuplicateName, "channel "+name)
		return -1
	}
	if !b.validPort(src.Actor, src.Port) || !b.validPort(dst.Actor, dst.Port) {
		return -1
	}
	srcPort := &b.sg.Actors[src.Actor].Ports[src.Port]
	dstPort := &b.sg.Actors[dst.Actor].Ports[dst.Port]
	if srcPort.Direction != Out {
		b.fail2(ErrPortDirection, "channel "+name+" src")
		return -1
	}
	if dstPort.Direction != In {
		b.fail2(ErrPortDirection, "channel "+name+" dst")
		return -1
	}
	if srcPort.Channel != unconnected {
		b.fail2(ErrPortAlreadyConnected, "channel "+name+" src")
		return -1
	}
	if dstPort.Channel != unconnected {
		b.fail2(ErrPortAlreadyConnected, "channel "+name+" dst")
		return -1
	}

	id := ChannelID(len(b.sg.Channels))
	b.sg.Channels = append(b.sg.Channels, Channel{
		ID:                     id,
		Name:                   name,
		Src:                    src,
		Dst:                    dst,
		InitialTokens:          initialTokens,
		FinalTokens:            finalTokens,
		PersistentInitialNames: defaultPersistentNames(name, initialTokens),
		PersistentFinalNames:   defaultPersistentNames(name, finalTokens),
		TokenSize:              make(map[string]int),
	})
	b.sg.channelIndex[name] = id
	srcPort.Channel = id
	dstPort.Channel = id
	return id
}

// defaultPersistentNames synthesizes one name per slot ("<channel>#<slot>"),
// so a channel is fully persistent until a caller explicitly narrows it.
func defaultPersistentNames(channel string, count int) []string {
	if count == 0 {
		return nil
	}
	names := make([]string, count)
	for k := 0; k < count; k++ {
		names[k] = fmt.Sprintf("%s#%d", channel, k)
	}
	return names
}

// SetPersistentInitialNames sets the ordered list of persistent names for
// channel's initial tokens (position k names slot k); len(names) must be <=
// the channel's InitialTokens, and must be empty if InitialTokens == 0.
func (b *ScenarioGraphBuilder) SetPersistentInitialNames(ch ChannelID, names []string) {
	if b.err != nil {
		return
	}
	if !b.validChannel(ch) {
		return
	}
	c := &b.sg.Channels[ch]
	if len(names) > c.InitialTokens {
		b.fail2(ErrTooManyPersistentNames, "channel "+c.Name)
		return
	}
	if c.InitialTokens == 0 && len(names) > 0 {
		b.fail2(ErrPersistentNamesWithZeroTokens, "channel "+c.Name)
		return
	}
	c.PersistentInitialNames = append([]string(nil), names...)
}

// SetPersistentFinalNames is the FinalTokens analogue of
// SetPersistentInitialNames.
func (b *ScenarioGraphBuilder) SetPersistentFinalNames(ch ChannelID, names []string) {
	if b.err != nil {
		return
	}
	if !b.validChannel(ch) {
		return
	}
	c := &b.sg.Channels[ch]
	if len(names) > c.FinalTokens {
		b.fail2(ErrTooManyPersistentNames, "channel "+c.Name)
		return
	}
	if c.FinalTokens == 0 && len(names) > 0 {
		b.fail2(ErrPersistentNamesWithZeroTokens, "channel "+c.Name)
		return
	}
	c.PersistentFinalNames = append([]string(nil), names...)
}

// SetTokenSize sets channel's per-scenario token size.
func (b *ScenarioGraphBuilder) SetTokenSize(ch ChannelID, scenario string, size int) {
	if b.err != nil {
		return
	}
	if !b.validChannel(ch) {
		return
	}
	b.sg.Channels[ch].TokenSize[scenario] = size
}

// AddStorageDistribution records a storage distribution for scenario; the
// set is kept sorted lexicographically by (throughput, size-map) on Build.
func (b *ScenarioGraphBuilder) AddStorageDistribution(scenario string, sizes map[string]int64, throughput float64) {
	if b.err != nil {
		return
	}
	cp := make(map[string]int64, len(sizes))
	for k, v := range sizes {
		cp[k] = v
	}
	b.sg.StorageDistributions[scenario] = append(b.sg.StorageDistributions[scenario], StorageDistribution{Sizes: cp, Throughput: throughput})
}

func (b *ScenarioGraphBuilder) validChannel(ch ChannelID) bool {
	if int(ch) < 0 || int(ch) >= len(b.sg.Channels) {
		b.fail(ErrUnknownActor)
		return false
	}
	return true
}

// Build validates the §3 structural invariants and returns the finished,
// immutable ScenarioGraph.
func (b *ScenarioGraphBuilder) Build() (*ScenarioGraph, error) {
	if b.err != nil {
		return nil, b.err
	}
	for _, a := range b.sg.Actors {
		for _, p := range a.Ports {
			if p.Channel == unconnected {
				return nil, fmt.Errorf("actor %s port %s: %w", a.Name, p.Name, ErrUnconnectedPort)
			}
		}
	}
	for scenario, dists := range b.sg.StorageDistributions {
		b.sg.StorageDistributions[scenario] = sortStorageDistributions(dists)
	}
	out := b.sg
	return &out, nil
}
