package condition

import (
	"time"

	"github.com/tidwall/match"

	"github.com/lyzr/stateflow/aslerrors"
	"github.com/lyzr/stateflow/jsonpath"
)

// timestampLayouts are tried in order; ASL timestamps are ISO-8601, most
// commonly RFC 3339 with or without sub-second precision.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Evaluate is the grammar's single entry point: a total function from a
// condition tree and an input value to true/false, or a ConditionError
// when an ordering operator's operand could not be resolved or
// type-compared. Type predicates never error — an absent or mismatched
// variable simply evaluates to false, per spec.md §4.2.
func Evaluate(c Condition, input interface{}) (bool, error) {
	switch n := c.(type) {
	case Leaf:
		return evaluateLeaf(n, input)
	case Not:
		v, err := Evaluate(n.Condition, input)
		if err != nil {
			return false, err
		}
		return !v, nil
	case And:
		for _, child := range n.Conditions {
			v, err := Evaluate(child, input)
			if err != nil {
				return false, err
			}
			if !v {
				return false, nil
			}
		}
		return true, nil
	case Or:
		for _, child := range n.Conditions {
			v, err := Evaluate(child, input)
			if err != nil {
				return false, err
			}
			if v {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, &aslerrors.ConditionError{Kind: aslerrors.ConditionErrorTypeMismatch, Message: "unknown condition node"}
	}
}

func evaluateLeaf(l Leaf, input interface{}) (bool, error) {
	res, err := jsonpath.Evaluate(input, l.Variable)
	if err != nil {
		return false, &aslerrors.ConditionError{Kind: aslerrors.ConditionErrorTypeMismatch, Path: l.Variable, Message: err.Error()}
	}

	if IsTypePredicate(l.Operator) {
		return evaluateTypePredicate(l, res), nil
	}

	if !res.Matched || res.Multi {
		return false, &aslerrors.ConditionError{
			Kind:    aslerrors.ConditionErrorNoMatch,
			Path:    l.Variable,
			Message: "variable did not resolve to exactly one value",
		}
	}

	operand, err := resolveOperand(l.Operand, input)
	if err != nil {
		return false, err
	}

	return compare(l.Operator, res.Value, operand)
}

func evaluateTypePredicate(l Leaf, res jsonpath.Result) bool {
	expected := l.Operand.Literal != nil && l.Operand.Literal.Bool

	var actual bool
	switch l.Operator {
	case OpIsPresent:
		actual = res.Matched
	case OpIsNull:
		actual = res.Matched && res.Value == nil
	case OpIsNumeric:
		actual = res.Matched && isNumeric(res.Value)
	case OpIsString:
		_, ok := res.Value.(string)
		actual = res.Matched && ok
	case OpIsBoolean:
		_, ok := res.Value.(bool)
		actual = res.Matched && ok
	case OpIsTimestamp:
		s, ok := res.Value.(string)
		actual = res.Matched && ok && parseTimestamp(s) != nil
	}
	return actual == expected
}

func resolveOperand(op Operand, input interface{}) (interface{}, error) {
	if op.Literal != nil {
		switch op.Literal.Kind {
		case LiteralString, LiteralTimestamp:
			return op.Literal.Str, nil
		case LiteralInt:
			return op.Literal.Int, nil
		case LiteralFloat:
			return op.Literal.Float, nil
		case LiteralBool:
			return op.Literal.Bool, nil
		}
		return nil, &aslerrors.ConditionError{Kind: aslerrors.ConditionErrorTypeMismatch, Message: "unknown literal kind"}
	}

	res, err := jsonpath.Evaluate(input, op.Path)
	if err != nil {
		return nil, &aslerrors.ConditionError{Kind: aslerrors.ConditionErrorTypeMismatch, Path: op.Path, Message: err.Error()}
	}
	if !res.Matched || res.Multi {
		return nil, &aslerrors.ConditionError{Kind: aslerrors.ConditionErrorNoMatch, Path: op.Path, Message: "operand path did not resolve to exactly one value"}
	}
	return res.Value, nil
}

func compare(op Operator, left, right interface{}) (bool, error) {
	switch op {
	case OpStringEquals, OpStringEqualsPath:
		a, b, err := bothStrings(left, right)
		if err != nil {
			return false, err
		}
		return a == b, nil
	case OpStringLessThan, OpStringLessThanPath:
		a, b, err := bothStrings(left, right)
		if err != nil {
			return false, err
		}
		return a < b, nil
	case OpStringGreaterThan, OpStringGreaterThanPath:
		a, b, err := bothStrings(left, right)
		if err != nil {
			return false, err
		}
		return a > b, nil
	case OpStringLessThanEquals, OpStringLessThanEqualsPath:
		a, b, err := bothStrings(left, right)
		if err != nil {
			return false, err
		}
		return a <= b, nil
	case OpStringGreaterThanEquals, OpStringGreaterThanEqualsPath:
		a, b, err := bothStrings(left, right)
		if err != nil {
			return false, err
		}
		return a >= b, nil
	case OpStringMatches:
		a, b, err := bothStrings(left, right)
		if err != nil {
			return false, err
		}
		return match.Match(a, b), nil

	case OpNumericEquals, OpNumericEqualsPath:
		a, b, err := bothNumbers(left, right)
		if err != nil {
			return false, err
		}
		return a == b, nil
	case OpNumericLessThan, OpNumericLessThanPath:
		a, b, err := bothNumbers(left, right)
		if err != nil {
			return false, err
		}
		return a < b, nil
	case OpNumericGreaterThan, OpNumericGreaterThanPath:
		a, b, err := bothNumbers(left, right)
		if err != nil {
			return false, err
		}
		return a > b, nil
	case OpNumericLessThanEquals, OpNumericLessThanEqualsPath:
		a, b, err := bothNumbers(left, right)
		if err != nil {
			return false, err
		}
		return a <= b, nil
	case OpNumericGreaterThanEquals, OpNumericGreaterThanEqualsPath:
		a, b, err := bothNumbers(left, right)
		if err != nil {
			return false, err
		}
		return a >= b, nil

	case OpBooleanEquals, OpBooleanEqualsPath:
		a, aok := left.(bool)
		b, bok := right.(bool)
		if !aok || !bok {
			return false, &aslerrors.ConditionError{Kind: aslerrors.ConditionErrorTypeMismatch, Message: "BooleanEquals requires boolean operands"}
		}
		return a == b, nil

	case OpTimestampEquals, OpTimestampEqualsPath:
		a, b, err := bothTimestamps(left, right)
		if err != nil {
			return false, err
		}
		return a.Equal(b), nil
	case OpTimestampLessThan, OpTimestampLessThanPath:
		a, b, err := bothTimestamps(left, right)
		if err != nil {
			return false, err
		}
		return a.Before(b), nil
	case OpTimestampGreaterThan, OpTimestampGreaterThanPath:
		a, b, err := bothTimestamps(left, right)
		if err != nil {
			return false, err
		}
		return a.After(b), nil
	case OpTimestampLessThanEquals, OpTimestampLessThanEqualsPath:
		a, b, err := bothTimestamps(left, right)
		if err != nil {
			return false, err
		}
		return a.Before(b) || a.Equal(b), nil
	case OpTimestampGreaterThanEquals, OpTimestampGreaterThanEqualsPath:
		a, b, err := bothTimestamps(left, right)
		if err != nil {
			return false, err
		}
		return a.After(b) || a.Equal(b), nil
	}

	return false, &aslerrors.ConditionError{Kind: aslerrors.ConditionErrorTypeMismatch, Message: "unsupported operator: " + string(op)}
}

func bothStrings(left, right interface{}) (string, string, error) {
	a, aok := left.(string)
	b, bok := right.(string)
	if !aok || !bok {
		return "", "", &aslerrors.ConditionError{Kind: aslerrors.ConditionErrorTypeMismatch, Message: "operator requires string operands"}
	}
	return a, b, nil
}

func bothNumbers(left, right interface{}) (float64, float64, error) {
	a, aok := toFloat(left)
	b, bok := toFloat(right)
	if !aok || !bok {
		return 0, 0, &aslerrors.ConditionError{Kind: aslerrors.ConditionErrorNonNumeric, Message: "operator requires numeric operands"}
	}
	return a, b, nil
}

func bothTimestamps(left, right interface{}) (time.Time, time.Time, error) {
	as, aok := left.(string)
	bs, bok := right.(string)
	if !aok || !bok {
		return time.Time{}, time.Time{}, &aslerrors.ConditionError{Kind: aslerrors.ConditionErrorMalformedTimestamp, Message: "timestamp operand must be a string"}
	}
	a := parseTimestamp(as)
	b := parseTimestamp(bs)
	if a == nil || b == nil {
		return time.Time{}, time.Time{}, &aslerrors.ConditionError{Kind: aslerrors.ConditionErrorMalformedTimestamp, Message: "could not parse ISO-8601 timestamp"}
	}
	return *a, *b, nil
}

func parseTimestamp(s string) *time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func isNumeric(v interface{}) bool {
	_, ok := toFloat(v)
	return ok
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}
