// Package sadf implements the FSM-SADF data model (§3): scenario graphs of
// actors, ports and channels with per-scenario rates and firing times, a
// scenario FSM, and the top-level Graph that owns them.
//
// Following §9's "Design Notes" on cyclic references, the source's
// Actor↔Port↔Channel object cycle is replaced with arena storage: a
// ScenarioGraph owns flat slices of Actor and Channel, and every
// cross-reference is a dense index (ActorID, ChannelID, PortRef). A Graph
// owns its ScenarioGraphs, Scenarios, and FSM; Scenario→ScenarioGraph and
// FSMState→Scenario back-references are likewise plain indices, not
// pointers, so a Graph value can be copied, cloned, and shared across
// goroutines without any reference-counting or parent-pointer rewiring.
package sadf

// ActorID indexes into a ScenarioGraph's Actors slice.
type ActorID int

// ChannelID indexes into a ScenarioGraph's Channels slice.
type ChannelID int

// ScenarioGraphID indexes into a Graph's ScenarioGraphs slice.
type ScenarioGraphID int

// ScenarioID indexes into a Graph's Scenarios slice.
type ScenarioID int

// FSMStateID indexes into an FSM's States slice.
type FSMStateID int

// PortRef names a port by the actor that owns it and the port's position in
// that actor's Ports slice (§9: "Ports are stored inline on actors").
type PortRef struct {
	Actor ActorID
	Port  int
}
