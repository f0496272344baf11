package intrinsics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyzr/stateflow/aslerrors"
)

func TestRegistryCallResolvesPathLiteralAgainstInput(t *testing.T) {
	r := NewRegistry()
	r.Register("Echo", func(args []interface{}, _, _ interface{}) (interface{}, error) {
		return args[0], nil
	})
	call, err := Parse("Echo($.name)")
	require.NoError(t, err)
	got, err := r.Call(call, map[string]interface{}{"name": "ada"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ada", got)
}

func TestRegistryCallResolvesContextPathLiteral(t *testing.T) {
	r := NewRegistry()
	r.Register("Echo", func(args []interface{}, _, _ interface{}) (interface{}, error) {
		return args[0], nil
	})
	call, err := Parse("Echo($$.ExecutionId)")
	require.NoError(t, err)
	got, err := r.Call(call, nil, map[string]interface{}{"ExecutionId": "e-1"})
	require.NoError(t, err)
	assert.Equal(t, "e-1", got)
}

func TestRegistryCallUnknownNameFails(t *testing.T) {
	r := NewRegistry()
	call, err := Parse("States.Nope()")
	require.NoError(t, err)
	_, err = r.Call(call, nil, nil)
	require.Error(t, err)
	var nf *aslerrors.IntrinsicFunctionNotFound
	assert.ErrorAs(t, err, &nf)
}

func TestRegistryUnregisterRemovesFunction(t *testing.T) {
	r := NewRegistry()
	r.Register("Echo", func(args []interface{}, _, _ interface{}) (interface{}, error) {
		return args[0], nil
	})
	r.Unregister("Echo")
	call, err := Parse("Echo(1)")
	require.NoError(t, err)
	_, err = r.Call(call, nil, nil)
	require.Error(t, err)
	var nf *aslerrors.IntrinsicFunctionNotFound
	assert.ErrorAs(t, err, &nf)
}

func TestRegistryCallResolvesNestedCallArgument(t *testing.T) {
	r := NewRegistry()
	RegisterStandard(r)
	call, err := Parse("States.ArrayLength(States.Array(1, 2, 3))")
	require.NoError(t, err)
	got, err := r.Call(call, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)
}

func TestRegistryCallUnresolvedPathLiteralPropagatesParameterPathFailure(t *testing.T) {
	r := NewRegistry()
	RegisterStandard(r)
	call, err := Parse("States.ArrayLength($.missing)")
	require.NoError(t, err)
	_, err = r.Call(call, map[string]interface{}{}, nil)
	require.Error(t, err)
	var perr *aslerrors.ParameterPathFailure
	assert.ErrorAs(t, err, &perr)
}
