// Package fsmsadf analyzes the throughput of FSM-governed Scenario-Aware
// Dataflow (FSM-SADF) graphs: actors whose firing rates and execution
// times vary by scenario, with an explicit finite-state machine choosing
// which scenario fires next.
//
// Subpackages:
//
//   - sadf: the arena-based data model (actors, ports, channels, scenario
//     graphs, scenarios, the FSM) and its validating builders.
//   - rational: exact fraction arithmetic used while propagating firing
//     rates.
//   - maxplus: the (max, +) algebra — matrices, vectors, Maximum Cycle Mean.
//   - repvec: repetition-vector computation and consistency checking.
//   - symbolic: per-scenario max-plus matrix extraction.
//   - boundrewrite: the strong-bounding graph rewrite.
//   - automaton: scenario-automaton construction and minimization.
//   - statespace: numeric state-space exploration (an independent
//     throughput cross-check).
//   - throughput: Maximum Cycle Mean / Maximum Cycle Ratio throughput
//     analysis, single-scenario and whole-automaton.
//   - fsmerr: the shared error taxonomy.
package fsmsadf
