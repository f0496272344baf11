// Package ioprocessor implements the per-state data-flow pipeline:
// InputPath -> Parameters -> (external execution) -> ResultSelector ->
// ResultPath -> OutputPath (spec.md §4.3), plus the payload-template
// substitution grammar Parameters/ResultSelector/ItemSelector share.
//
// The template walk is grounded on the teacher's
// cmd/workflow-runner/resolver.Resolver: resolveValue/resolveMap/
// resolveArray there recurse over a config map substituting
// "$nodes.id.field" references and "${...}" interpolations. This package
// keeps that recursive shape but resolves ASL's own grammar: any object
// key ending in ".$" has its string value interpreted as a context
// lookup ("$$...."), an input lookup ("$..."), or an intrinsic function
// call, per spec.md §4.3. Unlike the teacher's Resolver, which mutates
// nothing but also never changes shape, this transform always returns a
// new tree (spec.md §9 Design Notes: prefer a functional transform over
// in-place mutation of the parsed template).
package ioprocessor

import (
	"strings"

	"github.com/lyzr/stateflow/aslerrors"
	"github.com/lyzr/stateflow/intrinsics"
	"github.com/lyzr/stateflow/jsonpath"
)

// TransformTemplate walks template, rewriting every ".$"-suffixed key's
// string value into the value that key's expression resolves to against
// input and context. Plain keys are recursed into unchanged so that
// nested ".$" keys anywhere in the tree are found. registry resolves any
// value that isn't itself a bare path.
func TransformTemplate(registry *intrinsics.Registry, template interface{}, input, context interface{}) (interface{}, error) {
	switch t := template.(type) {
	case map[string]interface{}:
		return transformMap(registry, t, input, context)
	case []interface{}:
		return transformArray(registry, t, input, context)
	default:
		return template, nil
	}
}

func transformMap(registry *intrinsics.Registry, m map[string]interface{}, input, context interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(m))
	for key, value := range m {
		if strings.HasSuffix(key, ".$") {
			expr, ok := value.(string)
			if !ok {
				return nil, &aslerrors.ParameterPathFailure{Path: key, Scope: "input"}
			}
			resolved, err := resolveDollarExpr(registry, expr, input, context)
			if err != nil {
				return nil, err
			}
			out[strings.TrimSuffix(key, ".$")] = resolved
			continue
		}
		transformed, err := TransformTemplate(registry, value, input, context)
		if err != nil {
			return nil, err
		}
		out[key] = transformed
	}
	return out, nil
}

func transformArray(registry *intrinsics.Registry, arr []interface{}, input, context interface{}) ([]interface{}, error) {
	out := make([]interface{}, len(arr))
	for i, v := range arr {
		transformed, err := TransformTemplate(registry, v, input, context)
		if err != nil {
			return nil, err
		}
		out[i] = transformed
	}
	return out, nil
}

// resolveDollarExpr interprets one ".$"-suffixed value per spec.md §4.3:
//   - "$$.foo" looks up "foo" in context
//   - "$foo"   looks up "foo" in input
//   - anything else is parsed as an intrinsic function call
func resolveDollarExpr(registry *intrinsics.Registry, expr string, input, context interface{}) (interface{}, error) {
	switch {
	case strings.HasPrefix(expr, "$$."):
		path := "$" + strings.TrimPrefix(expr, "$$")
		res, err := jsonpath.Evaluate(context, path)
		if err != nil || !res.Matched {
			return nil, &aslerrors.ParameterPathFailure{Path: expr, Scope: "context"}
		}
		return res.Value, nil

	case strings.HasPrefix(expr, "$"):
		res, err := jsonpath.Evaluate(input, expr)
		if err != nil || !res.Matched {
			return nil, &aslerrors.ParameterPathFailure{Path: expr, Scope: "input"}
		}
		return res.Value, nil

	default:
		call, err := intrinsics.Parse(expr)
		if err != nil {
			return nil, err
		}
		return registry.Call(call, input, context)
	}
}
