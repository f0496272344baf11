package ioprocessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyzr/stateflow/aslerrors"
	"github.com/lyzr/stateflow/intrinsics"
	"github.com/lyzr/stateflow/optpath"
)

func registry(t *testing.T) *intrinsics.Registry {
	t.Helper()
	r := intrinsics.NewRegistry()
	intrinsics.RegisterStandard(r)
	return r
}

// spec.md §8 Testable Property 4: identity on unset InputPath and a nil
// Parameters template.
func TestGetEffectiveInputIdentityWhenUnsetAndNoParameters(t *testing.T) {
	input := map[string]interface{}{"a": 1}
	got, err := GetEffectiveInput(registry(t), input, optpath.Unset(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, input, got)
}

func TestGetEffectiveInputFiltersByInputPath(t *testing.T) {
	input := map[string]interface{}{"order": map[string]interface{}{"id": "o-1"}}
	got, err := GetEffectiveInput(registry(t), input, optpath.Of("$.order"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"id": "o-1"}, got)
}

func TestGetEffectiveInputNullInputPathDiscards(t *testing.T) {
	input := map[string]interface{}{"a": 1}
	got, err := GetEffectiveInput(registry(t), input, optpath.Null(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{}, got)
}

// S4: Parameters template with a plain path, a context path, and a
// nested intrinsic call.
func TestGetEffectiveInputParametersWithContext(t *testing.T) {
	input := map[string]interface{}{"n": []interface{}{1.0, 2.0, 3.0}}
	context := map[string]interface{}{"ExecutionId": "e-1"}
	params := map[string]interface{}{
		"who.$": "$.n",
		"run.$": "$$.ExecutionId",
		"len.$": "States.ArrayLength($.n)",
	}

	got, err := GetEffectiveInput(registry(t), input, optpath.Unset(), params, context)
	require.NoError(t, err)

	want := map[string]interface{}{
		"who": []interface{}{1.0, 2.0, 3.0},
		"run": "e-1",
		"len": int64(3),
	}
	assert.Equal(t, want, got)
}

func TestGetEffectiveInputParameterPathFailureOnUnresolvedPath(t *testing.T) {
	input := map[string]interface{}{}
	params := map[string]interface{}{"missing.$": "$.nope"}
	_, err := GetEffectiveInput(registry(t), input, optpath.Unset(), params, nil)
	require.Error(t, err)
	var perr *aslerrors.ParameterPathFailure
	assert.ErrorAs(t, err, &perr)
}

func TestGetEffectiveResultPassesThroughWhenNoSelector(t *testing.T) {
	raw := map[string]interface{}{"statusCode": 200.0}
	got, err := GetEffectiveResult(registry(t), raw, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestGetEffectiveResultAppliesSelector(t *testing.T) {
	raw := map[string]interface{}{"statusCode": 200.0, "body": "ignored"}
	selector := map[string]interface{}{"code.$": "$.statusCode"}
	got, err := GetEffectiveResult(registry(t), raw, selector, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"code": 200.0}, got)
}

// S3: ResultPath synthesizes a nested skeleton.
func TestGetEffectiveOutputResultPathCreatesNestedSkeleton(t *testing.T) {
	input := map[string]interface{}{"a": 1.0}
	result := 42.0

	got, err := GetEffectiveOutput(input, result, optpath.Unset(), optpath.Of("$.b.c"))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": 1.0, "b": map[string]interface{}{"c": 42.0}}, got)
}

// Testable Property 5: outputPath=null, resultPath=$ -> {}.
func TestGetEffectiveOutputNullOutputPathWithIdentityResultPath(t *testing.T) {
	got, err := GetEffectiveOutput(map[string]interface{}{"a": 1}, map[string]interface{}{"b": 2}, optpath.Null(), optpath.Unset())
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{}, got)
}

// Testable Property 6: outputPath unset, resultPath=null -> input unchanged.
func TestGetEffectiveOutputNullResultPathPassesInputThrough(t *testing.T) {
	input := map[string]interface{}{"a": 1}
	got, err := GetEffectiveOutput(input, map[string]interface{}{"b": 2}, optpath.Unset(), optpath.Null())
	require.NoError(t, err)
	assert.Equal(t, input, got)
}

func TestGetEffectiveOutputIdentityResultPathReplacesInput(t *testing.T) {
	got, err := GetEffectiveOutput(map[string]interface{}{"a": 1}, map[string]interface{}{"b": 2}, optpath.Unset(), optpath.Of("$"))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"b": 2}, got)
}

func TestGetEffectiveOutputResultPathShapeMismatchFails(t *testing.T) {
	input := []interface{}{1, 2}
	_, err := GetEffectiveOutput(input, map[string]interface{}{"c": 1}, optpath.Unset(), optpath.Of("$.b"))
	require.Error(t, err)
	var rperr *aslerrors.ResultPathMatchFailure
	assert.ErrorAs(t, err, &rperr)
}

func TestGetEffectiveOutputPathMatchFailureOnZeroMatch(t *testing.T) {
	_, err := GetEffectiveOutput(map[string]interface{}{"a": 1}, nil, optpath.Of("$.missing"), optpath.Null())
	require.Error(t, err)
	var perr *aslerrors.PathMatchFailure
	assert.ErrorAs(t, err, &perr)
}

// S5: Fail path resolves to a non-string and fails.
func TestGetFailPathValueRequiresString(t *testing.T) {
	input := map[string]interface{}{"msg": 42.0}
	_, err := GetFailPathValue(registry(t), input, nil, "$.msg")
	require.Error(t, err)
	var perr *aslerrors.PathMatchFailure
	assert.ErrorAs(t, err, &perr)
}

func TestGetFailPathValueResolvesStringPath(t *testing.T) {
	input := map[string]interface{}{"msg": "boom"}
	got, err := GetFailPathValue(registry(t), input, nil, "$.msg")
	require.NoError(t, err)
	assert.Equal(t, "boom", got)
}

func TestGetFailPathValueResolvesIntrinsicCall(t *testing.T) {
	input := map[string]interface{}{"code": "E42"}
	got, err := GetFailPathValue(registry(t), input, nil, "States.Format('failure: {}', $.code)")
	require.NoError(t, err)
	assert.Equal(t, "failure: E42", got)
}
