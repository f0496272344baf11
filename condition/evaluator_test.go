package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyzr/stateflow/aslerrors"
)

func intLiteral(n int64) Operand {
	return Operand{Literal: &Literal{Kind: LiteralInt, Int: n}}
}

func strLiteral(s string) Operand {
	return Operand{Literal: &Literal{Kind: LiteralString, Str: s}}
}

func TestEvaluateStringEquals(t *testing.T) {
	input := map[string]interface{}{"status": "OPEN"}
	cond := Leaf{Operator: OpStringEquals, Variable: "$.status", Operand: strLiteral("OPEN")}

	ok, err := Evaluate(cond, input)
	require.NoError(t, err)
	assert.True(t, ok)

	cond.Operand = strLiteral("CLOSED")
	ok, err = Evaluate(cond, input)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEvaluateNumericComparators(t *testing.T) {
	input := map[string]interface{}{"total": 1500}

	table := []struct {
		op   Operator
		want bool
	}{
		{OpNumericGreaterThan, true},
		{OpNumericLessThan, false},
		{OpNumericGreaterThanEquals, true},
		{OpNumericEquals, false},
	}
	for _, tc := range table {
		cond := Leaf{Operator: tc.op, Variable: "$.total", Operand: intLiteral(1000)}
		got, err := Evaluate(cond, input)
		require.NoError(t, err)
		assert.Equalf(t, tc.want, got, "operator %s", tc.op)
	}
}

func TestEvaluateStringMatches(t *testing.T) {
	input := map[string]interface{}{"name": "invoice-2024.pdf"}
	cond := Leaf{Operator: OpStringMatches, Variable: "$.name", Operand: strLiteral("invoice-*.pdf")}
	ok, err := Evaluate(cond, input)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateBooleanEqualsPath(t *testing.T) {
	input := map[string]interface{}{"a": true, "b": true}
	cond := Leaf{Operator: OpBooleanEqualsPath, Variable: "$.a", Operand: Operand{Path: "$.b"}}
	ok, err := Evaluate(cond, input)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateTimestampOrdering(t *testing.T) {
	input := map[string]interface{}{"when": "2024-06-01T00:00:00Z"}
	cond := Leaf{Operator: OpTimestampLessThan, Variable: "$.when", Operand: Operand{Literal: &Literal{Kind: LiteralTimestamp, Str: "2024-12-31T00:00:00Z"}}}
	ok, err := Evaluate(cond, input)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateTypePredicates(t *testing.T) {
	input := map[string]interface{}{"present": "x"}

	isPresent := Leaf{Operator: OpIsPresent, Variable: "$.present", Operand: Operand{Literal: &Literal{Kind: LiteralBool, Bool: true}}}
	ok, err := Evaluate(isPresent, input)
	require.NoError(t, err)
	assert.True(t, ok)

	isMissing := Leaf{Operator: OpIsPresent, Variable: "$.missing", Operand: Operand{Literal: &Literal{Kind: LiteralBool, Bool: false}}}
	ok, err = Evaluate(isMissing, input)
	require.NoError(t, err)
	assert.True(t, ok, "IsPresent(missing, false) should hold when the field truly is absent")

	isString := Leaf{Operator: OpIsString, Variable: "$.present", Operand: Operand{Literal: &Literal{Kind: LiteralBool, Bool: true}}}
	ok, err = Evaluate(isString, input)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateNumericComparatorRejectsNonNumericOperand(t *testing.T) {
	input := map[string]interface{}{"total": "not-a-number"}
	cond := Leaf{Operator: OpNumericGreaterThan, Variable: "$.total", Operand: intLiteral(10)}
	_, err := Evaluate(cond, input)
	require.Error(t, err)
	var condErr *aslerrors.ConditionError
	require.ErrorAs(t, err, &condErr)
	assert.Equal(t, aslerrors.ConditionErrorNonNumeric, condErr.Kind)
}

func TestEvaluateAndOrNot(t *testing.T) {
	input := map[string]interface{}{"a": 1, "b": 2}
	a1 := Leaf{Operator: OpNumericEquals, Variable: "$.a", Operand: intLiteral(1)}
	b2 := Leaf{Operator: OpNumericEquals, Variable: "$.b", Operand: intLiteral(2)}
	b9 := Leaf{Operator: OpNumericEquals, Variable: "$.b", Operand: intLiteral(9)}

	ok, err := Evaluate(And{Conditions: []Condition{a1, b2}}, input)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Evaluate(And{Conditions: []Condition{a1, b9}}, input)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Evaluate(Or{Conditions: []Condition{a1, b9}}, input)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Evaluate(Not{Condition: b9}, input)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateShortCircuitsAndStopsOnFirstFalse(t *testing.T) {
	input := map[string]interface{}{"a": 1}
	a1 := Leaf{Operator: OpNumericEquals, Variable: "$.a", Operand: intLiteral(1)}
	bMissing := Leaf{Operator: OpNumericEquals, Variable: "$.b", Operand: intLiteral(1)}

	// And evaluates left to right; a false/erroring second child should
	// not be reached once the order is swapped to put the known-false
	// condition first.
	falseFirst := Leaf{Operator: OpNumericEquals, Variable: "$.a", Operand: intLiteral(2)}
	ok, err := Evaluate(And{Conditions: []Condition{falseFirst, bMissing}}, input)
	require.NoError(t, err)
	assert.False(t, ok)

	_ = a1
}

func TestConditionStringRendersLeaf(t *testing.T) {
	cond := Leaf{Operator: OpStringEquals, Variable: "$.status", Operand: strLiteral("OPEN")}
	assert.Equal(t, `StringEquals($.status, OPEN)`, String(cond))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cond := And{Conditions: []Condition{
		Leaf{Operator: OpStringEquals, Variable: "$.status", Operand: strLiteral("OPEN")},
		Not{Condition: Leaf{Operator: OpNumericGreaterThan, Variable: "$.total", Operand: intLiteral(1000)}},
	}}

	encoded, err := Encode(cond)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)

	reencoded, err := Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, encoded, reencoded)
}
