package sadf

import (
	"errors"
	"fmt"

	"github.com/sdf3go/fsmsadf/fsmerr"
)

// Sentinel errors raised while building or querying a Graph. Structural
// invariant violations from §3 are reported as fsmerr.PortChannelViolation
// (wrapped with one of these for detail); Builder.Build returns the most
// specific one it can.
var (
	// ErrEmptyName indicates an empty name was given where §3 requires a
	// non-empty, parent-unique name.
	ErrEmptyName = errors.New("sadf: name must be non-empty")

	// ErrDuplicateName indicates a name collides with an existing sibling.
	ErrDuplicateName = errors.New("sadf: name already used by a sibling")

	// ErrUnknownActor indicates a reference to an actor not yet added to
	// the scenario graph being built.
	ErrUnknownActor = errors.New("sadf: unknown actor")

	// ErrUnknownPort indicates a reference to a port not present on the
	// named actor.
	ErrUnknownPort = errors.New("sadf: unknown port")

	// ErrPortDirection indicates a channel endpoint has the wrong direction
	// (§3: "src.direction = Out ∧ dst.direction = In").
	ErrPortDirection = fmt.Errorf("sadf: channel endpoint has the wrong direction: %w", fsmerr.ErrPortChannelViolation)

	// ErrPortAlreadyConnected indicates a port is wired to more than one
	// channel (§3: "Connected to exactly one channel when the graph is
	// well-formed").
	ErrPortAlreadyConnected = fmt.Errorf("sadf: port already connected to a channel: %w", fsmerr.ErrPortChannelViolation)

	// ErrUnconnectedPort indicates Build found a port with no channel.
	ErrUnconnectedPort = fmt.Errorf("sadf: port is not connected to any channel: %w", fsmerr.ErrPortChannelViolation)

	// ErrTooManyPersistentNames indicates more persistent names were given
	// than the channel has tokens of that kind (§3 invariant).
	ErrTooManyPersistentNames = fmt.Errorf("sadf: persistent-token name count exceeds token count: %w", fsmerr.ErrPortChannelViolation)

	// ErrPersistentNamesWithZeroTokens indicates persistent names were
	// given for a zero-token side of a channel (§3 invariant).
	ErrPersistentNamesWithZeroTokens = fmt.Errorf("sadf: persistent-token names given for a zero-token side: %w", fsmerr.ErrPortChannelViolation)

	// ErrNegativeReward indicates a scenario reward below zero (§3: reward
	// >= 0).
	ErrNegativeReward = errors.New("sadf: scenario reward must be >= 0")

	// ErrNoInitialState indicates an FSM was built without designating an
	// initial state.
	ErrNoInitialState = errors.New("sadf: FSM has no initial state")

	// ErrDefaultScenarioReferenced indicates the FSM references the
	// default scenario, which §3 forbids ("never referenced by the FSM").
	ErrDefaultScenarioReferenced = errors.New("sadf: FSM must not reference the default scenario")
)
