package intrinsics

import (
	"sync"

	"github.com/lyzr/stateflow/aslerrors"
	"github.com/lyzr/stateflow/jsonpath"
)

// Func is an intrinsic function implementation. args have already been
// eagerly resolved to JSON values; input and context are the raw values
// path literals resolve against.
type Func func(args []interface{}, input, context interface{}) (interface{}, error)

// Registry is a name -> Func mapping, the only mutable shared component
// in this module (spec.md §5). Its locking mirrors the teacher's
// condition.Evaluator cache (cmd/workflow-runner/condition/evaluator.go):
// an RWMutex lets concurrent Call lookups proceed while Register/
// Unregister take the write lock. Hosts that want register-once,
// call-many semantics may still treat it as read-only after startup.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry returns an empty registry. Call RegisterStandard to
// populate it with the names spec.md §4.4 lists.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register adds or replaces the implementation for name.
func (r *Registry) Register(name string, f Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = f
}

// Unregister removes name, if present.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.funcs, name)
}

// Call resolves a parsed Call's arguments eagerly (each may itself be a
// nested Call, a path literal, or a literal value) and invokes the named
// function. Unknown names fail with *aslerrors.IntrinsicFunctionNotFound.
func (r *Registry) Call(call *Call, input, context interface{}) (interface{}, error) {
	r.mu.RLock()
	f, ok := r.funcs[call.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, &aslerrors.IntrinsicFunctionNotFound{Name: call.Name}
	}

	args := make([]interface{}, len(call.Args))
	for i, a := range call.Args {
		v, err := r.resolveArg(a, input, context)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	return f(args, input, context)
}

func (r *Registry) resolveArg(a Arg, input, context interface{}) (interface{}, error) {
	switch v := a.(type) {
	case *Call:
		return r.Call(v, input, context)
	case *StringLiteral:
		return v.Value, nil
	case *NumberLiteral:
		if v.IsInt {
			return v.Int, nil
		}
		return v.Float, nil
	case *PathLiteral:
		scope := input
		scopeName := "input"
		if v.Context {
			scope = context
			scopeName = "context"
		}
		res, err := jsonpath.Evaluate(scope, v.Path)
		if err != nil {
			return nil, &aslerrors.ParameterPathFailure{Path: v.Path, Scope: scopeName}
		}
		if !res.Matched {
			return nil, &aslerrors.ParameterPathFailure{Path: v.Path, Scope: scopeName}
		}
		return res.Value, nil
	default:
		return nil, &aslerrors.IntrinsicFunctionSyntaxError{Message: "unknown argument node"}
	}
}
