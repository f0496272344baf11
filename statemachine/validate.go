// Validate enforces the structural invariants a well-formed ASL document
// must satisfy (spec.md §4.1): every Next target resolves, StartAt
// resolves, terminal states are reachable, branches/processors form their
// own closed name spaces, retry/catch ErrorEquals lists are well-formed,
// and numeric fields fall in their documented domains.
//
// The validator never stops at the first defect: like the teacher's
// compiler.validate walking the whole IR and common/validation's
// PatchValidator collecting every bad operation, this function keeps
// going and returns every violation it finds in one pass (spec.md §4.1,
// §8 Testable Property 1).
package statemachine

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/lyzr/stateflow/aslerrors"
	"github.com/lyzr/stateflow/condition"
	"github.com/lyzr/stateflow/jsonpath"
	"github.com/lyzr/stateflow/refpath"
)

// retrierNumericFields is the subset of struct-tag validation this package
// delegates to go-playground/validator: the numeric domain constraints on
// Retrier fields (spec.md §4.1 invariant 6) are plain "min=..." tags
// rather than hand-rolled comparisons.
type retrierNumericFields struct {
	IntervalSeconds int     `validate:"min=1"`
	MaxAttempts     int     `validate:"min=0"`
	BackoffRate     float64 `validate:"min=1.0"`
	MaxDelaySeconds int     `validate:"min=0"`
}

var numericValidator = validator.New()

// Validate checks sm against every structural invariant and returns a
// *aslerrors.ValidationError listing every violation found, or nil if sm
// is well-formed.
func Validate(sm *StateMachine) error {
	v := &validation{}
	v.checkMachine("states", sm.StartAt, sm.States, true)
	if len(v.violations) == 0 {
		return nil
	}
	return aslerrors.NewValidationError(v.violations)
}

type validation struct {
	violations []aslerrors.Violation
}

func (v *validation) fail(path, format string, args ...interface{}) {
	v.violations = append(v.violations, aslerrors.Violation{
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}

// checkMachine validates one name space — the top-level machine, a
// Parallel branch, or a Map's ItemProcessor — independently of any other
// (spec.md §4.1 invariant 3: branch/processor state names never leak
// into the enclosing scope).
func (v *validation) checkMachine(scope, startAt string, states *StateMap, top bool) {
	if states == nil || states.Len() == 0 {
		v.fail(scope, "must declare at least one state")
		return
	}

	if startAt == "" {
		v.fail(scope+".startAt", "must be set")
	} else if _, ok := states.Get(startAt); !ok {
		v.fail(scope+".startAt", "references undeclared state %q", startAt)
	}

	reachable := map[string]bool{}
	if startAt != "" {
		v.markReachable(states, startAt, reachable)
	}

	terminalCount := 0
	for _, name := range states.Keys() {
		st, _ := states.Get(name)
		path := fmt.Sprintf("%s.%s", scope, name)

		if !reachable[name] {
			v.fail(path, "is not reachable from startAt %q", startAt)
		}

		if v.checkTransitionTarget(path, st, states) {
			terminalCount++
		}

		v.checkState(path, name, st, states)
	}

	if top && terminalCount == 0 {
		v.fail(scope, "declares no terminal state (Succeed, Fail, or a state with End: true)")
	}
}

// markReachable performs a depth-first walk over Next/Default/Choice
// targets starting at name, recording every state it visits.
func (v *validation) markReachable(states *StateMap, name string, seen map[string]bool) {
	if seen[name] {
		return
	}
	st, ok := states.Get(name)
	if !ok {
		return
	}
	seen[name] = true

	for _, next := range outgoingTargets(st) {
		v.markReachable(states, next, seen)
	}
}

// outgoingTargets lists every state name a state can transition to,
// across its Transition, Default, and Choices fields.
func outgoingTargets(st State) []string {
	var out []string
	switch s := st.(type) {
	case *PassState:
		out = appendTransition(out, s.Transition)
	case *TaskState:
		out = appendTransition(out, s.Transition)
		out = appendCatchers(out, s.Catchers)
	case *ChoiceState:
		for _, c := range s.Choices {
			out = append(out, c.Next)
		}
		if s.Default != "" {
			out = append(out, s.Default)
		}
	case *WaitState:
		out = appendTransition(out, s.Transition)
	case *ParallelState:
		out = appendTransition(out, s.Transition)
		out = appendCatchers(out, s.Catchers)
	case *MapState:
		out = appendTransition(out, s.Transition)
		out = appendCatchers(out, s.Catchers)
	}
	return out
}

func appendTransition(out []string, t Transition) []string {
	if t.Kind == TransitionNext {
		out = append(out, t.Next)
	}
	return out
}

func appendCatchers(out []string, catchers []Catcher) []string {
	for _, c := range catchers {
		out = append(out, c.Next)
	}
	return out
}

// checkTransitionTarget verifies that any Next/Default/Choice/Catcher
// target on st resolves within states, and reports whether st is itself
// terminal (Succeed, Fail, or an End: true transition).
func (v *validation) checkTransitionTarget(path string, st State, states *StateMap) bool {
	checkTarget := func(field, name string) {
		if name == "" {
			return
		}
		if _, ok := states.Get(name); !ok {
			v.fail(path+"."+field, "references undeclared state %q", name)
		}
	}

	switch s := st.(type) {
	case *PassState:
		return v.checkTransition(path, s.Transition, checkTarget)
	case *TaskState:
		for i, c := range s.Catchers {
			checkTarget(fmt.Sprintf("catchers[%d].next", i), c.Next)
		}
		return v.checkTransition(path, s.Transition, checkTarget)
	case *ChoiceState:
		for i, c := range s.Choices {
			checkTarget(fmt.Sprintf("choices[%d].next", i), c.Next)
		}
		if s.Default != "" {
			checkTarget("default", s.Default)
		}
		return false
	case *WaitState:
		return v.checkTransition(path, s.Transition, checkTarget)
	case *SucceedState:
		return true
	case *FailState:
		return true
	case *ParallelState:
		for i, c := range s.Catchers {
			checkTarget(fmt.Sprintf("catchers[%d].next", i), c.Next)
		}
		return v.checkTransition(path, s.Transition, checkTarget)
	case *MapState:
		for i, c := range s.Catchers {
			checkTarget(fmt.Sprintf("catchers[%d].next", i), c.Next)
		}
		return v.checkTransition(path, s.Transition, checkTarget)
	}
	return false
}

func (v *validation) checkTransition(path string, t Transition, checkTarget func(field, name string)) bool {
	switch t.Kind {
	case TransitionNone:
		v.fail(path, "must set either next or end")
		return false
	case TransitionEnd:
		return true
	case TransitionNext:
		checkTarget("next", t.Next)
		return false
	}
	return false
}

// checkState validates the fields specific to st's concrete kind:
// retry/catch lists, Choice conditions, Wait strategy, Fail error/cause,
// and recurses into Parallel branches and Map item processors as their
// own name spaces.
func (v *validation) checkState(path, name string, st State, parent *StateMap) {
	v.checkCommonPaths(path, st.commonFields())

	switch s := st.(type) {
	case *PassState:
		// no kind-specific invariants beyond transition/path checks.

	case *TaskState:
		if s.Resource == "" {
			v.fail(path+".resource", "must be set")
		}
		v.checkRetriers(path, s.Retriers)
		v.checkCatchers(path, s.Catchers)
		v.checkTimeout(path, s.TimeoutSeconds, s.TimeoutSecondsPath)
		v.checkHeartbeat(path, s)

	case *ChoiceState:
		if len(s.Choices) == 0 {
			v.fail(path+".choices", "must declare at least one choice rule")
		}
		for i, c := range s.Choices {
			if c.Condition == nil {
				v.fail(fmt.Sprintf("%s.choices[%d].condition", path, i), "must be set")
				continue
			}
			v.checkCondition(fmt.Sprintf("%s.choices[%d].condition", path, i), c.Condition)
		}

	case *WaitState:
		v.checkWaitFor(path, s.WaitFor)

	case *SucceedState:
		// terminal, no further invariants.

	case *FailState:
		if s.Error != "" && s.ErrorPath != "" {
			v.fail(path, "error and errorPath are mutually exclusive")
		}
		if s.Cause != "" && s.CausePath != "" {
			v.fail(path, "cause and causePath are mutually exclusive")
		}

	case *ParallelState:
		if len(s.Branches) == 0 {
			v.fail(path+".branches", "must declare at least one branch")
		}
		v.checkRetriers(path, s.Retriers)
		v.checkCatchers(path, s.Catchers)
		for i, b := range s.Branches {
			v.checkMachine(fmt.Sprintf("%s.branches[%d]", path, i), b.StartAt, b.States, false)
		}

	case *MapState:
		if s.ItemProcessor == nil {
			v.fail(path+".itemProcessor", "must be set")
		} else {
			v.checkMachine(path+".itemProcessor", s.ItemProcessor.StartAt, s.ItemProcessor.States, false)
		}
		if s.MaxConcurrency != nil && *s.MaxConcurrency < 0 {
			v.fail(path+".maxConcurrency", "must be >= 0 (0 means unbounded)")
		}
		v.checkReferencePath(path+".itemsPath", s.ItemsPath)
		v.checkRetriers(path, s.Retriers)
		v.checkCatchers(path, s.Catchers)
	}
}

// checkCommonPaths enforces spec.md §4.1 invariant 9: InputPath/OutputPath
// must be valid JSONPath expressions (or unset/null); ResultPath must be a
// valid Reference Path (or unset/null).
func (v *validation) checkCommonPaths(path string, c *Common) {
	if c == nil {
		return
	}
	if c.InputPath.IsSet() {
		if err := jsonpath.Validate(c.InputPath.Value()); err != nil {
			v.fail(path+".inputPath", "%v", err)
		}
	}
	if c.OutputPath.IsSet() {
		if err := jsonpath.Validate(c.OutputPath.Value()); err != nil {
			v.fail(path+".outputPath", "%v", err)
		}
	}
	if c.ResultPath.IsSet() {
		if _, err := refpath.Parse(c.ResultPath.Value()); err != nil {
			v.fail(path+".resultPath", "%v", err)
		}
	}
}

// checkReferencePath validates a Reference Path field (Map.itemsPath,
// Catcher.resultPath) that isn't modeled as an optpath.Path.
func (v *validation) checkReferencePath(path, s string) {
	if s == "" {
		return
	}
	if _, err := refpath.Parse(s); err != nil {
		v.fail(path, "%v", err)
	}
}

func (v *validation) checkTimeout(path string, seconds *int, secondsPath string) {
	if seconds != nil && secondsPath != "" {
		v.fail(path+".timeoutSeconds", "timeoutSeconds and timeoutSecondsPath are mutually exclusive")
		return
	}
	if seconds != nil && *seconds <= 0 {
		v.fail(path+".timeoutSeconds", "must be > 0")
	}
}

func (v *validation) checkHeartbeat(path string, s *TaskState) {
	if s.HeartbeatSeconds != nil && s.HeartbeatSecondsPath != "" {
		v.fail(path+".heartbeatSeconds", "heartbeatSeconds and heartbeatSecondsPath are mutually exclusive")
		return
	}
	if s.HeartbeatSeconds != nil {
		if *s.HeartbeatSeconds <= 0 {
			v.fail(path+".heartbeatSeconds", "must be > 0")
		}
		if s.TimeoutSeconds != nil && *s.HeartbeatSeconds >= *s.TimeoutSeconds {
			v.fail(path+".heartbeatSeconds", "must be less than timeoutSeconds")
		}
	}
}

// checkRetriers enforces spec.md §4.1 invariants 6 and 8: ErrorEquals is
// non-empty, States.ALL appears only as a sole final entry, and every
// numeric field is within its documented domain (delegated to
// go-playground/validator's struct-tag rules).
func (v *validation) checkRetriers(path string, retriers []Retrier) {
	for i, r := range retriers {
		rpath := fmt.Sprintf("%s.retriers[%d]", path, i)
		v.checkErrorEquals(rpath, r.ErrorEquals)

		fields := retrierNumericFields{IntervalSeconds: 1, MaxAttempts: 3, BackoffRate: 2.0}
		if r.IntervalSeconds != nil {
			fields.IntervalSeconds = *r.IntervalSeconds
		}
		if r.MaxAttempts != nil {
			fields.MaxAttempts = *r.MaxAttempts
		}
		if r.BackoffRate != nil {
			fields.BackoffRate = *r.BackoffRate
		}
		if r.MaxDelaySeconds != nil {
			fields.MaxDelaySeconds = *r.MaxDelaySeconds
		}
		if err := numericValidator.Struct(fields); err != nil {
			for _, fe := range err.(validator.ValidationErrors) {
				v.fail(rpath+"."+fieldName(fe.StructField()), "must satisfy %s=%s (got %v)", fe.Tag(), fe.Param(), fe.Value())
			}
		}
		if r.JitterStrategy != "" && r.JitterStrategy != "FULL" && r.JitterStrategy != "NONE" {
			v.fail(rpath+".jitterStrategy", "must be FULL or NONE, got %q", r.JitterStrategy)
		}
	}
}

func (v *validation) checkCatchers(path string, catchers []Catcher) {
	for i, c := range catchers {
		cpath := fmt.Sprintf("%s.catchers[%d]", path, i)
		v.checkErrorEquals(cpath, c.ErrorEquals)
		if c.ResultPath.IsSet() {
			if _, err := refpath.Parse(c.ResultPath.Value()); err != nil {
				v.fail(cpath+".resultPath", "%v", err)
			}
		}
	}
}

func (v *validation) checkErrorEquals(path string, errs []string) {
	if len(errs) == 0 {
		v.fail(path+".errorEquals", "must declare at least one error name")
		return
	}
	for i, name := range errs {
		if name == StatesALL && (i != len(errs)-1 || len(errs) > 1) {
			v.fail(path+".errorEquals", "%s must be the sole, final entry", StatesALL)
		}
	}
}

func (v *validation) checkWaitFor(path string, w WaitFor) {
	switch w.Kind {
	case WaitSeconds:
		if w.Seconds <= 0 {
			v.fail(path+".seconds", "must be > 0")
		}
	case WaitSecondsPath, WaitTimestampPath:
		if w.Path == "" {
			v.fail(path+".path", "must be set")
		}
	case WaitTimestamp:
		if w.Timestamp == "" {
			v.fail(path+".timestamp", "must be set")
		}
	}
}

// checkCondition recurses into a Choice's condition tree, verifying each
// Leaf carries an operand of the kind its operator requires.
func (v *validation) checkCondition(path string, c condition.Condition) {
	switch n := c.(type) {
	case condition.Leaf:
		if n.Variable == "" {
			v.fail(path+".variable", "must be set")
		} else if err := jsonpath.Validate(n.Variable); err != nil {
			v.fail(path+".variable", "%v", err)
		}
		if condition.IsTypePredicate(n.Operator) {
			return
		}
		if condition.IsPathOperator(n.Operator) {
			if n.Operand.Path == "" {
				v.fail(path+".operand", "operator %s requires a path operand", n.Operator)
			} else if _, err := refpath.Parse(n.Operand.Path); err != nil {
				v.fail(path+".operand", "%v", err)
			}
			return
		}
		if n.Operand.Literal == nil {
			v.fail(path+".operand", "operator %s requires a literal operand", n.Operator)
		}
	case condition.Not:
		v.checkCondition(path+".not", n.Condition)
	case condition.And:
		if len(n.Conditions) == 0 {
			v.fail(path+".and", "must declare at least one child condition")
		}
		for i, child := range n.Conditions {
			v.checkCondition(fmt.Sprintf("%s.and[%d]", path, i), child)
		}
	case condition.Or:
		if len(n.Conditions) == 0 {
			v.fail(path+".or", "must declare at least one child condition")
		}
		for i, child := range n.Conditions {
			v.checkCondition(fmt.Sprintf("%s.or[%d]", path, i), child)
		}
	}
}

func fieldName(structField string) string {
	switch structField {
	case "IntervalSeconds":
		return "intervalSeconds"
	case "MaxAttempts":
		return "maxAttempts"
	case "BackoffRate":
		return "backoffRate"
	case "MaxDelaySeconds":
		return "maxDelaySeconds"
	default:
		return structField
	}
}
