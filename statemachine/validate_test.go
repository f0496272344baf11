package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyzr/stateflow/aslerrors"
	"github.com/lyzr/stateflow/condition"
	"github.com/lyzr/stateflow/optpath"
)

func violationPaths(t *testing.T, err error) []string {
	t.Helper()
	var verr *aslerrors.ValidationError
	require.ErrorAs(t, err, &verr)
	paths := make([]string, len(verr.Violations))
	for i, v := range verr.Violations {
		paths[i] = v.Path
	}
	return paths
}

// S1: StartAt names a state that doesn't exist.
func TestValidateUnreachableStartAt(t *testing.T) {
	states := NewStateMap()
	states.Set("Y", &SucceedState{})

	sm := &StateMachine{StartAt: "X", States: states}
	err := Validate(sm)
	require.Error(t, err)
	assert.Contains(t, violationPaths(t, err), "states.startAt")
}

func TestValidateEmptyStatesMap(t *testing.T) {
	sm := &StateMachine{StartAt: "X", States: NewStateMap()}
	err := Validate(sm)
	require.Error(t, err)
	assert.Contains(t, violationPaths(t, err), "states")
}

func TestValidateNextTargetMustExistInSameScope(t *testing.T) {
	states := NewStateMap()
	states.Set("A", &PassState{Transition: NextTo("Ghost")})

	sm := &StateMachine{StartAt: "A", States: states}
	err := Validate(sm)
	require.Error(t, err)
	assert.Contains(t, violationPaths(t, err), "states.A.next")
}

func TestValidateBranchScopeDoesNotLeak(t *testing.T) {
	branchStates := NewStateMap()
	branchStates.Set("Inner", &PassState{Transition: NextTo("OutsideState")})

	outer := NewStateMap()
	outer.Set("P", &ParallelState{
		Branches:   []*SubStateMachine{{StartAt: "Inner", States: branchStates}},
		Transition: EndTransition(),
	})
	outer.Set("OutsideState", &SucceedState{})

	sm := &StateMachine{StartAt: "P", States: outer}
	err := Validate(sm)
	require.Error(t, err)
	assert.Contains(t, violationPaths(t, err), "states.P.branches[0].Inner.next")
}

func TestValidateTerminalStateHasNoTransition(t *testing.T) {
	states := NewStateMap()
	states.Set("Done", &SucceedState{})
	sm := &StateMachine{StartAt: "Done", States: states}
	require.NoError(t, Validate(sm))
}

func TestValidateChoiceRequiresAtLeastOneChoiceAndValidDefault(t *testing.T) {
	states := NewStateMap()
	states.Set("C", &ChoiceState{Default: "Ghost"})
	states.Set("S", &SucceedState{})

	sm := &StateMachine{StartAt: "C", States: states}
	err := Validate(sm)
	require.Error(t, err)
	paths := violationPaths(t, err)
	assert.Contains(t, paths, "states.C.choices")
	assert.Contains(t, paths, "states.C.default")
}

func TestValidateNonChoiceNonTerminalRequiresExactlyOneTransition(t *testing.T) {
	states := NewStateMap()
	states.Set("P", &PassState{})
	sm := &StateMachine{StartAt: "P", States: states}
	err := Validate(sm)
	require.Error(t, err)
	assert.Contains(t, violationPaths(t, err), "states.P")
}

func TestValidateHeartbeatMustBeLessThanTimeout(t *testing.T) {
	timeout := 10
	heartbeat := 10
	states := NewStateMap()
	states.Set("T", &TaskState{
		Resource:         "arn:aws:states:::lambda:invoke",
		TimeoutSeconds:   &timeout,
		HeartbeatSeconds: &heartbeat,
		Transition:       EndTransition(),
	})
	sm := &StateMachine{StartAt: "T", States: states}
	err := Validate(sm)
	require.Error(t, err)
	assert.Contains(t, violationPaths(t, err), "states.T.heartbeatSeconds")
}

func TestValidateMutuallyExclusiveTimeoutFields(t *testing.T) {
	timeout := 10
	states := NewStateMap()
	states.Set("T", &TaskState{
		Resource:           "arn:aws:states:::lambda:invoke",
		TimeoutSeconds:     &timeout,
		TimeoutSecondsPath: "$.timeout",
		Transition:         EndTransition(),
	})
	sm := &StateMachine{StartAt: "T", States: states}
	err := Validate(sm)
	require.Error(t, err)
	assert.Contains(t, violationPaths(t, err), "states.T.timeoutSeconds")
}

func TestValidateStatesALLMustBeSoleFinalEntry(t *testing.T) {
	states := NewStateMap()
	states.Set("T", &TaskState{
		Resource: "arn:aws:states:::lambda:invoke",
		Retriers: []Retrier{
			{ErrorEquals: []string{StatesALL, "States.Timeout"}},
		},
		Transition: EndTransition(),
	})
	sm := &StateMachine{StartAt: "T", States: states}
	err := Validate(sm)
	require.Error(t, err)
	assert.Contains(t, violationPaths(t, err), "states.T.retriers[0].errorEquals")
}

func TestValidateStatesALLAsSoleEntryIsFine(t *testing.T) {
	states := NewStateMap()
	states.Set("T", &TaskState{
		Resource:   "arn:aws:states:::lambda:invoke",
		Retriers:   []Retrier{{ErrorEquals: []string{StatesALL}}},
		Transition: EndTransition(),
	})
	sm := &StateMachine{StartAt: "T", States: states}
	assert.NoError(t, Validate(sm))
}

func TestValidateInputOutputPathMustBeValidJSONPath(t *testing.T) {
	states := NewStateMap()
	states.Set("P", &PassState{
		Common:     Common{InputPath: optpath.Of("not-a-path")},
		Transition: EndTransition(),
	})
	sm := &StateMachine{StartAt: "P", States: states}
	err := Validate(sm)
	require.Error(t, err)
	assert.Contains(t, violationPaths(t, err), "states.P.inputPath")
}

func TestValidateResultPathMustBeValidReferencePath(t *testing.T) {
	states := NewStateMap()
	states.Set("P", &PassState{
		Common:     Common{ResultPath: optpath.Of("$.a[*]")},
		Transition: EndTransition(),
	})
	sm := &StateMachine{StartAt: "P", States: states}
	err := Validate(sm)
	require.Error(t, err)
	assert.Contains(t, violationPaths(t, err), "states.P.resultPath")
}

func TestValidateTaskResourceRequired(t *testing.T) {
	states := NewStateMap()
	states.Set("T", &TaskState{Transition: EndTransition()})
	sm := &StateMachine{StartAt: "T", States: states}
	err := Validate(sm)
	require.Error(t, err)
	assert.Contains(t, violationPaths(t, err), "states.T.resource")
}

func TestValidateMapRequiresItemProcessor(t *testing.T) {
	states := NewStateMap()
	states.Set("M", &MapState{Transition: EndTransition()})
	sm := &StateMachine{StartAt: "M", States: states}
	err := Validate(sm)
	require.Error(t, err)
	assert.Contains(t, violationPaths(t, err), "states.M.itemProcessor")
}

func TestValidateMapMaxConcurrencyNonNegative(t *testing.T) {
	itemStates := NewStateMap()
	itemStates.Set("Work", &SucceedState{})
	n := -1
	states := NewStateMap()
	states.Set("M", &MapState{
		ItemProcessor:  &SubStateMachine{StartAt: "Work", States: itemStates},
		MaxConcurrency: &n,
		Transition:     EndTransition(),
	})
	sm := &StateMachine{StartAt: "M", States: states}
	err := Validate(sm)
	require.Error(t, err)
	assert.Contains(t, violationPaths(t, err), "states.M.maxConcurrency")
}

func TestValidateParallelRequiresAtLeastOneBranch(t *testing.T) {
	states := NewStateMap()
	states.Set("P", &ParallelState{Transition: EndTransition()})
	sm := &StateMachine{StartAt: "P", States: states}
	err := Validate(sm)
	require.Error(t, err)
	assert.Contains(t, violationPaths(t, err), "states.P.branches")
}

func TestValidateChoiceVariableAndPathOperandMustBeValid(t *testing.T) {
	states := NewStateMap()
	states.Set("C", &ChoiceState{
		Choices: []Choice{
			{Condition: condition.Leaf{Operator: condition.OpStringEqualsPath, Variable: "not-a-path", Operand: condition.Operand{Path: "$.x"}}, Next: "S"},
			{Condition: condition.Leaf{Operator: condition.OpStringEqualsPath, Variable: "$.a", Operand: condition.Operand{Path: "$.y[*]"}}, Next: "S"},
		},
	})
	states.Set("S", &SucceedState{})
	sm := &StateMachine{StartAt: "C", States: states}
	err := Validate(sm)
	require.Error(t, err)
	assert.Contains(t, violationPaths(t, err), "states.C.choices[0].condition.variable")
	assert.Contains(t, violationPaths(t, err), "states.C.choices[1].condition.operand")
}

// S2-adjacent: a well-formed machine with Choice ordering validates cleanly.
func TestValidateWellFormedMachinePasses(t *testing.T) {
	states := NewStateMap()
	states.Set("Choose", &ChoiceState{
		Choices: []Choice{
			{Condition: condition.Leaf{Operator: condition.OpNumericLessThan, Variable: "$.v", Operand: condition.Operand{Literal: &condition.Literal{Kind: condition.LiteralInt, Int: 10}}}, Next: "A"},
			{Condition: condition.Leaf{Operator: condition.OpNumericLessThan, Variable: "$.v", Operand: condition.Operand{Literal: &condition.Literal{Kind: condition.LiteralInt, Int: 100}}}, Next: "B"},
		},
		Default: "D",
	})
	states.Set("A", &SucceedState{})
	states.Set("B", &SucceedState{})
	states.Set("D", &SucceedState{})

	sm := &StateMachine{StartAt: "Choose", States: states}
	assert.NoError(t, Validate(sm))
}

func TestValidateCollectsMultipleViolationsInOnePass(t *testing.T) {
	states := NewStateMap()
	states.Set("T", &TaskState{Transition: EndTransition()}) // missing resource

	sm := &StateMachine{StartAt: "Ghost", States: states}
	err := Validate(sm)
	require.Error(t, err)
	paths := violationPaths(t, err)
	assert.Contains(t, paths, "states.startAt")
	assert.Contains(t, paths, "states.T.resource")
	assert.GreaterOrEqual(t, len(paths), 2)
}
