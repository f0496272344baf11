package statemachine

import "strconv"

// EntryState returns the state named by StartAt, grounded on the
// teacher's compiler.GetEntryNodes: both answer "where does execution
// begin" without needing a full graph traversal.
func EntryState(sm *StateMachine) (State, bool) {
	return sm.States.Get(sm.StartAt)
}

// TerminalStates returns every state in sm that has no outgoing
// transition at all: Succeed and Fail states, plus any state whose
// Transition is an End. Grounded on the teacher's
// compiler.GetTerminalNodes/CountTerminalNodes, which scan an IR for
// nodes with no outgoing edges.
func TerminalStates(sm *StateMachine) []State {
	var out []State
	for _, name := range sm.States.Keys() {
		st, _ := sm.States.Get(name)
		if isTerminal(st) {
			out = append(out, st)
		}
	}
	return out
}

func isTerminal(st State) bool {
	switch s := st.(type) {
	case *SucceedState, *FailState:
		return true
	case *PassState:
		return s.Transition.Kind == TransitionEnd
	case *TaskState:
		return s.Transition.Kind == TransitionEnd
	case *WaitState:
		return s.Transition.Kind == TransitionEnd
	case *ParallelState:
		return s.Transition.Kind == TransitionEnd
	case *MapState:
		return s.Transition.Kind == TransitionEnd
	}
	return false
}

// Visitor is called once per state during Walk, in depth-first
// pre-order, with the dotted path the state was found at (e.g.
// "states.ProcessItem" or "states.Fanout.branches[0].DoWork").
type Visitor func(path, name string, st State)

// Walk performs a depth-first traversal of sm starting at StartAt,
// following Next/Default/Choice targets and recursing into Parallel
// branches and Map item processors, calling visit once per state
// reached. Unreachable states (a defect Validate would have already
// reported) are not visited.
func Walk(sm *StateMachine, visit Visitor) {
	walkMachine("states", sm.StartAt, sm.States, visit, map[string]bool{})
}

func walkMachine(scope, startAt string, states *StateMap, visit Visitor, seen map[string]bool) {
	if states == nil {
		return
	}
	walkFrom(scope, startAt, states, visit, seen)
}

func walkFrom(scope, name string, states *StateMap, visit Visitor, seen map[string]bool) {
	key := scope + "/" + name
	if seen[key] {
		return
	}
	st, ok := states.Get(name)
	if !ok {
		return
	}
	seen[key] = true

	path := scope + "." + name
	visit(path, name, st)

	switch s := st.(type) {
	case *ParallelState:
		for i, b := range s.Branches {
			branchScope := pathIndex(path, "branches", i)
			walkMachine(branchScope, b.StartAt, b.States, visit, seen)
		}
	case *MapState:
		if s.ItemProcessor != nil {
			walkMachine(path+".itemProcessor", s.ItemProcessor.StartAt, s.ItemProcessor.States, visit, seen)
		}
	}

	for _, next := range outgoingTargets(st) {
		walkFrom(scope, next, states, visit, seen)
	}
}

func pathIndex(base, field string, i int) string {
	return base + "." + field + "[" + strconv.Itoa(i) + "]"
}
