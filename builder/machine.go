// Package builder is the fluent, mutable construction layer over the
// immutable statemachine model: spec.md §1 calls this "a thin
// constructor layer over the model" and keeps it out of the core's
// line budget, but §6 still specifies its shape, so it lives here as a
// small, separate package rather than inside statemachine itself — that
// way a StateMachine stays impossible to hold in a partially valid
// state (spec.md §9 Design Notes: "keep the two shapes distinct to avoid
// partially valid models escaping").
//
// Every builder is single-threaded and mutable; Build() on the
// top-level MachineBuilder is the sole gate that runs
// statemachine.Validate and hands back either an immutable
// *statemachine.StateMachine or the aggregated *aslerrors.ValidationError.
package builder

import (
	"github.com/lyzr/stateflow/statemachine"
)

// StateBuilder is implemented by every per-variant builder (PassBuilder,
// TaskBuilder, ...); build() returns the finished, but not yet
// machine-validated, state node.
type StateBuilder interface {
	build() statemachine.State
}

// MachineBuilder assembles a top-level StateMachine.
type MachineBuilder struct {
	comment        string
	startAt        string
	timeoutSeconds *int
	order          []string
	states         map[string]StateBuilder
}

// NewMachine starts a fresh, empty top-level builder.
func NewMachine() *MachineBuilder {
	return &MachineBuilder{states: make(map[string]StateBuilder)}
}

func (b *MachineBuilder) Comment(c string) *MachineBuilder {
	b.comment = c
	return b
}

func (b *MachineBuilder) StartAt(name string) *MachineBuilder {
	b.startAt = name
	return b
}

func (b *MachineBuilder) TimeoutSeconds(seconds int) *MachineBuilder {
	b.timeoutSeconds = &seconds
	return b
}

// State registers a named state builder. Calling State again with a
// name already used replaces it in place, preserving its original
// position, matching statemachine.StateMap.Set.
func (b *MachineBuilder) State(name string, sb StateBuilder) *MachineBuilder {
	if _, exists := b.states[name]; !exists {
		b.order = append(b.order, name)
	}
	b.states[name] = sb
	return b
}

// Build materializes every registered state builder, assembles the
// StateMachine, and validates it. On success it returns the immutable
// machine; on failure, a *aslerrors.ValidationError listing every
// violation found.
func (b *MachineBuilder) Build() (*statemachine.StateMachine, error) {
	sm := &statemachine.StateMachine{
		Comment:        b.comment,
		StartAt:        b.startAt,
		TimeoutSeconds: b.timeoutSeconds,
		States:         statemachine.NewStateMap(),
	}
	for _, name := range b.order {
		sm.States.Set(name, b.states[name].build())
	}
	if err := statemachine.Validate(sm); err != nil {
		return nil, err
	}
	return sm, nil
}

// SubMachineBuilder assembles a Parallel branch or a Map item processor.
type SubMachineBuilder struct {
	comment string
	startAt string
	order   []string
	states  map[string]StateBuilder
}

// NewSubMachine starts a fresh branch/item-processor builder.
func NewSubMachine() *SubMachineBuilder {
	return &SubMachineBuilder{states: make(map[string]StateBuilder)}
}

func (b *SubMachineBuilder) Comment(c string) *SubMachineBuilder {
	b.comment = c
	return b
}

func (b *SubMachineBuilder) StartAt(name string) *SubMachineBuilder {
	b.startAt = name
	return b
}

func (b *SubMachineBuilder) State(name string, sb StateBuilder) *SubMachineBuilder {
	if _, exists := b.states[name]; !exists {
		b.order = append(b.order, name)
	}
	b.states[name] = sb
	return b
}

func (b *SubMachineBuilder) build() *statemachine.SubStateMachine {
	sm := &statemachine.SubStateMachine{
		Comment: b.comment,
		StartAt: b.startAt,
		States:  statemachine.NewStateMap(),
	}
	for _, name := range b.order {
		sm.States.Set(name, b.states[name].build())
	}
	return sm
}
