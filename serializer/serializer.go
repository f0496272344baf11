// Package serializer bridges the builder/statemachine model to and from
// the ASL wire format: PascalCase JSON (or YAML, translated ahead of the
// same decode path) with a Type-discriminated state object per spec.md
// §4.5 and §6.
//
// Deserialize never hands back a bare model: it drives the same
// builder.MachineBuilder fluent API a caller would use by hand, so the
// single validation gate in builder.MachineBuilder.Build stays the only
// way a *statemachine.StateMachine comes into existence (spec.md §9
// Design Notes).
package serializer

import (
	"encoding/json"

	"github.com/tidwall/pretty"

	"github.com/lyzr/stateflow/aslerrors"
	"github.com/lyzr/stateflow/statemachine"
)

// Options controls how Serialize renders a document.
type Options struct {
	// Pretty indents the output via tidwall/pretty
	// instead of emitting compact JSON.
	Pretty bool
}

// Serialize renders sm as ASL JSON. Re-parsing the result with
// Deserialize yields a structurally equal machine (modulo the Pretty
// option, which only affects whitespace).
func Serialize(sm *statemachine.StateMachine, opts Options) ([]byte, error) {
	om, err := encodeMachine(sm)
	if err != nil {
		return nil, aslerrors.NewSerializationError("encoding state machine", err)
	}
	b, err := json.Marshal(om)
	if err != nil {
		return nil, aslerrors.NewSerializationError("marshaling state machine", err)
	}
	if opts.Pretty {
		return pretty.Pretty(b), nil
	}
	return b, nil
}

// Deserialize parses data as ASL JSON and builds a validated
// *statemachine.StateMachine. Unknown fields at any object level are
// rejected rather than silently ignored.
func Deserialize(data []byte) (*statemachine.StateMachine, error) {
	return deserialize(data)
}
