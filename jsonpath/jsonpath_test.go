package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateIdentity(t *testing.T) {
	input := map[string]interface{}{"a": 1.0}
	res, err := Evaluate(input, "$")
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Equal(t, input, res.Value)
}

func TestEvaluateFieldAccess(t *testing.T) {
	input := map[string]interface{}{"order": map[string]interface{}{"id": "o-1"}}
	res, err := Evaluate(input, "$.order.id")
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Equal(t, "o-1", res.Value)
}

func TestEvaluateArrayIndex(t *testing.T) {
	input := map[string]interface{}{"items": []interface{}{"x", "y", "z"}}
	res, err := Evaluate(input, "$.items[1]")
	require.NoError(t, err)
	assert.Equal(t, "y", res.Value)
}

func TestEvaluateBracketFieldName(t *testing.T) {
	input := map[string]interface{}{"weird.key": "value"}
	res, err := Evaluate(input, "$['weird.key']")
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Equal(t, "value", res.Value)
}

func TestEvaluateMissingFieldIsUnmatched(t *testing.T) {
	input := map[string]interface{}{"a": 1.0}
	res, err := Evaluate(input, "$.missing")
	require.NoError(t, err)
	assert.False(t, res.Matched)
}

func TestEvaluateWildcardYieldsMultiArray(t *testing.T) {
	input := map[string]interface{}{"items": []interface{}{1.0, 2.0, 3.0}}
	res, err := Evaluate(input, "$.items[*]")
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.True(t, res.Multi)
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, res.Value)
}

func TestValidateRejectsDescendantOperator(t *testing.T) {
	err := Validate("$..deep")
	assert.Error(t, err)
}

func TestValidateRejectsFilterExpression(t *testing.T) {
	err := Validate("$.items[?(@.id==1)]")
	assert.Error(t, err)
}

func TestValidateRejectsMissingDollarPrefix(t *testing.T) {
	err := Validate("order.id")
	assert.Error(t, err)
}

func TestValidateAcceptsPlainFieldAndIndexPaths(t *testing.T) {
	assert.NoError(t, Validate("$.a.b[2].c"))
}
