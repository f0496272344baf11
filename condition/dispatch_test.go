package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyzr/stateflow/aslerrors"
)

func TestDispatchFirstMatchWins(t *testing.T) {
	input := map[string]interface{}{"total": 1500}
	rules := []Rule{
		{Condition: Leaf{Operator: OpNumericGreaterThan, Variable: "$.total", Operand: intLiteral(2000)}, Target: "A"},
		{Condition: Leaf{Operator: OpNumericGreaterThan, Variable: "$.total", Operand: intLiteral(1000)}, Target: "B"},
		{Condition: Leaf{Operator: OpNumericGreaterThan, Variable: "$.total", Operand: intLiteral(0)}, Target: "C"},
	}

	target, err := Dispatch(rules, "Default", "IsHighValue", input)
	require.NoError(t, err)
	assert.Equal(t, "B", target)
}

func TestDispatchFallsBackToDefault(t *testing.T) {
	input := map[string]interface{}{"total": 1}
	rules := []Rule{
		{Condition: Leaf{Operator: OpNumericGreaterThan, Variable: "$.total", Operand: intLiteral(2000)}, Target: "A"},
	}

	target, err := Dispatch(rules, "Fallback", "IsHighValue", input)
	require.NoError(t, err)
	assert.Equal(t, "Fallback", target)
}

func TestDispatchNoMatchNoDefaultErrors(t *testing.T) {
	input := map[string]interface{}{"total": 1}
	rules := []Rule{
		{Condition: Leaf{Operator: OpNumericGreaterThan, Variable: "$.total", Operand: intLiteral(2000)}, Target: "A"},
	}

	_, err := Dispatch(rules, "", "IsHighValue", input)
	require.Error(t, err)
	var notMatched *aslerrors.ChoiceNotMatchedError
	require.ErrorAs(t, err, &notMatched)
	assert.Equal(t, "IsHighValue", notMatched.StateName)
}

func TestDispatchPropagatesEvaluationError(t *testing.T) {
	input := map[string]interface{}{}
	rules := []Rule{
		{Condition: Leaf{Operator: OpNumericGreaterThan, Variable: "$.missing", Operand: intLiteral(1)}, Target: "A"},
	}

	_, err := Dispatch(rules, "Default", "IsHighValue", input)
	require.Error(t, err)
}
