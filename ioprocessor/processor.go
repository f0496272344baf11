package ioprocessor

import (
	"github.com/lyzr/stateflow/aslerrors"
	"github.com/lyzr/stateflow/intrinsics"
	"github.com/lyzr/stateflow/jsonpath"
	"github.com/lyzr/stateflow/optpath"
	"github.com/lyzr/stateflow/refpath"
)

// GetEffectiveInput applies InputPath to rawInput and then, if parameters
// is non-nil, runs the Parameters payload template over the filtered
// value. A nil parameters leaves the InputPath-filtered value untouched.
func GetEffectiveInput(registry *intrinsics.Registry, rawInput interface{}, inputPath optpath.Path, parameters interface{}, context interface{}) (interface{}, error) {
	selected, err := applyPathFilter(rawInput, inputPath)
	if err != nil {
		return nil, err
	}
	if parameters == nil {
		return selected, nil
	}
	return TransformTemplate(registry, parameters, selected, context)
}

// GetEffectiveResult runs the ResultSelector payload template over
// rawResult, or returns rawResult unchanged when resultSelector is nil.
func GetEffectiveResult(registry *intrinsics.Registry, rawResult interface{}, resultSelector interface{}, context interface{}) (interface{}, error) {
	if resultSelector == nil {
		return rawResult, nil
	}
	return TransformTemplate(registry, resultSelector, rawResult, context)
}

// GetEffectiveOutput merges effectiveResult into effectiveInput at
// resultPath and then filters the merged value through outputPath,
// producing the state's final output.
func GetEffectiveOutput(effectiveInput, effectiveResult interface{}, outputPath, resultPath optpath.Path) (interface{}, error) {
	combined, err := mergeResultPath(effectiveInput, effectiveResult, resultPath)
	if err != nil {
		return nil, err
	}
	return applyPathFilter(combined, outputPath)
}

// GetFailPathValue resolves a Fail state's errorPath/causePath: either a
// reference path into input, a "$$."-prefixed context path, or an
// intrinsic function call. The resolved value must be a string.
func GetFailPathValue(registry *intrinsics.Registry, input, context interface{}, expr string) (string, error) {
	v, err := resolveDollarExpr(registry, expr, input, context)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", &aslerrors.PathMatchFailure{Path: expr, Input: input}
	}
	return s, nil
}

// applyPathFilter implements the shared three-valued semantics InputPath
// and OutputPath share: Unset is identity, Null discards to "{}", and a
// set path is evaluated with a zero-match treated as PathMatchFailure.
func applyPathFilter(value interface{}, path optpath.Path) (interface{}, error) {
	if path.IsUnset() {
		return value, nil
	}
	if path.IsNull() {
		return map[string]interface{}{}, nil
	}

	res, err := jsonpath.Evaluate(value, path.Value())
	if err != nil {
		return nil, err
	}
	if !res.Matched {
		return nil, &aslerrors.PathMatchFailure{Path: path.Value(), Input: value}
	}
	return res.Value, nil
}

// mergeResultPath implements spec.md §4.3's ResultPath merge: Unset
// behaves like an explicit "$" (replace the input entirely with the
// result); Null discards the result and passes the input through
// unchanged; a set path either overwrites an existing location or
// synthesizes the skeleton refpath.Set describes, requiring the input's
// top-level JSON type to be compatible with the path's first token.
func mergeResultPath(input, result interface{}, resultPath optpath.Path) (interface{}, error) {
	if resultPath.IsNull() {
		return input, nil
	}

	path := resultPath.Effective()
	if path == "$" {
		return result, nil
	}

	rp, err := refpath.Parse(path)
	if err != nil {
		return nil, err
	}
	merged, err := refpath.Set(input, rp, result)
	if err != nil {
		return nil, &aslerrors.ResultPathMatchFailure{Path: path, Input: input, Result: result}
	}
	return merged, nil
}
