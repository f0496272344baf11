package condition

import "github.com/lyzr/stateflow/aslerrors"

// Rule pairs a condition with the state it routes to, mirroring one
// entry of a Choice state's choices list.
type Rule struct {
	Condition Condition
	Target    string
}

// Dispatch evaluates rules in declaration order and returns the target of
// the first one whose condition holds, the same ordered first-match
// semantics the teacher's BranchOperator.HandleBranch applies to
// conditional edges (cmd/workflow-runner/operators/control_flow.go). If
// none match, defaultTarget is returned when non-empty; otherwise
// Dispatch returns a *aslerrors.ChoiceNotMatchedError.
func Dispatch(rules []Rule, defaultTarget, stateName string, input interface{}) (string, error) {
	for _, rule := range rules {
		matched, err := Evaluate(rule.Condition, input)
		if err != nil {
			return "", err
		}
		if matched {
			return rule.Target, nil
		}
	}

	if defaultTarget != "" {
		return defaultTarget, nil
	}

	return "", &aslerrors.ChoiceNotMatchedError{StateName: stateName}
}
