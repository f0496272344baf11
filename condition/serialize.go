package condition

import (
	"fmt"
	"strconv"
)

// operatorLiteralKind maps each non-path operator (type predicates
// included) to the literal shape its operand must take, so Decode/Encode
// agree on how to read/write the JSON value sitting under the operator key.
var operatorLiteralKind = map[Operator]LiteralKind{
	OpStringEquals: LiteralString, OpStringLessThan: LiteralString, OpStringGreaterThan: LiteralString,
	OpStringLessThanEquals: LiteralString, OpStringGreaterThanEquals: LiteralString, OpStringMatches: LiteralString,
	OpNumericEquals: LiteralFloat, OpNumericLessThan: LiteralFloat, OpNumericGreaterThan: LiteralFloat,
	OpNumericLessThanEquals: LiteralFloat, OpNumericGreaterThanEquals: LiteralFloat,
	OpBooleanEquals: LiteralBool,
	OpTimestampEquals: LiteralTimestamp, OpTimestampLessThan: LiteralTimestamp, OpTimestampGreaterThan: LiteralTimestamp,
	OpTimestampLessThanEquals: LiteralTimestamp, OpTimestampGreaterThanEquals: LiteralTimestamp,
	OpIsNull: LiteralBool, OpIsPresent: LiteralBool, OpIsNumeric: LiteralBool,
	OpIsString: LiteralBool, OpIsBoolean: LiteralBool, OpIsTimestamp: LiteralBool,
}

// Encode renders c as the generic JSON shape the ASL wire format expects:
// a Leaf becomes {"Variable": "...", "<Operator>": <operand>}; Not
// becomes {"Not": {...}}; And/Or become {"And": [...]}/{"Or": [...]}.
func Encode(c Condition) (map[string]interface{}, error) {
	switch n := c.(type) {
	case Leaf:
		out := map[string]interface{}{"Variable": n.Variable}
		if IsPathOperator(n.Operator) || IsTypePredicate(n.Operator) && n.Operand.Path != "" {
			out[string(n.Operator)] = n.Operand.Path
			return out, nil
		}
		if n.Operand.Literal == nil {
			return nil, fmt.Errorf("condition: leaf operator %s has no operand", n.Operator)
		}
		out[string(n.Operator)] = literalValue(*n.Operand.Literal)
		return out, nil

	case Not:
		child, err := Encode(n.Condition)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"Not": child}, nil

	case And:
		arr, err := encodeList(n.Conditions)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"And": arr}, nil

	case Or:
		arr, err := encodeList(n.Conditions)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"Or": arr}, nil
	}
	return nil, fmt.Errorf("condition: unknown node type %T", c)
}

func encodeList(cs []Condition) ([]interface{}, error) {
	out := make([]interface{}, len(cs))
	for i, c := range cs {
		enc, err := Encode(c)
		if err != nil {
			return nil, err
		}
		out[i] = enc
	}
	return out, nil
}

// Decode parses obj, the generic JSON shape of one condition node, back
// into the Condition sum.
func Decode(obj map[string]interface{}) (Condition, error) {
	for key := range obj {
		switch key {
		case "Variable", "Next", "Not", "And", "Or":
			continue
		}
		if _, known := operatorLiteralKind[Operator(key)]; !known && !IsPathOperator(Operator(key)) {
			return nil, fmt.Errorf("condition: unknown field %q", key)
		}
	}
	if raw, ok := obj["Not"]; ok {
		child, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("condition: Not requires an object child")
		}
		c, err := Decode(child)
		if err != nil {
			return nil, err
		}
		return Not{Condition: c}, nil
	}
	if raw, ok := obj["And"]; ok {
		cs, err := decodeList(raw, "And")
		if err != nil {
			return nil, err
		}
		return And{Conditions: cs}, nil
	}
	if raw, ok := obj["Or"]; ok {
		cs, err := decodeList(raw, "Or")
		if err != nil {
			return nil, err
		}
		return Or{Conditions: cs}, nil
	}

	variable, _ := obj["Variable"].(string)
	for key, value := range obj {
		if key == "Variable" {
			continue
		}
		op := Operator(key)
		kind, known := operatorLiteralKind[op]
		if !known && !IsPathOperator(op) {
			continue
		}
		leaf := Leaf{Operator: op, Variable: variable}
		if IsPathOperator(op) {
			path, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("condition: %s requires a string path operand", op)
			}
			leaf.Operand = Operand{Path: path}
			return leaf, nil
		}
		if IsTypePredicate(op) {
			b, ok := value.(bool)
			if !ok {
				return nil, fmt.Errorf("condition: %s requires a boolean operand", op)
			}
			leaf.Operand = Operand{Literal: &Literal{Kind: LiteralBool, Bool: b}}
			return leaf, nil
		}
		lit, err := decodeLiteral(kind, value)
		if err != nil {
			return nil, err
		}
		leaf.Operand = Operand{Literal: lit}
		return leaf, nil
	}
	return nil, fmt.Errorf("condition: object carries no recognized operator key")
}

func decodeList(raw interface{}, field string) ([]Condition, error) {
	arr, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("condition: %s requires an array", field)
	}
	if len(arr) == 0 {
		return nil, fmt.Errorf("condition: %s must be non-empty", field)
	}
	out := make([]Condition, len(arr))
	for i, item := range arr {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("condition: %s[%d] must be an object", field, i)
		}
		c, err := Decode(obj)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func decodeLiteral(kind LiteralKind, value interface{}) (*Literal, error) {
	switch kind {
	case LiteralString:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("condition: expected string literal, got %T", value)
		}
		return &Literal{Kind: LiteralString, Str: s}, nil
	case LiteralTimestamp:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("condition: expected timestamp string literal, got %T", value)
		}
		return &Literal{Kind: LiteralTimestamp, Str: s}, nil
	case LiteralFloat:
		f, err := toFloat64(value)
		if err != nil {
			return nil, err
		}
		if f == float64(int64(f)) {
			return &Literal{Kind: LiteralInt, Int: int64(f)}, nil
		}
		return &Literal{Kind: LiteralFloat, Float: f}, nil
	case LiteralBool:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("condition: expected boolean literal, got %T", value)
		}
		return &Literal{Kind: LiteralBool, Bool: b}, nil
	}
	return nil, fmt.Errorf("condition: unsupported literal kind %d", kind)
}

func toFloat64(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("condition: %q is not numeric", v)
		}
		return f, nil
	}
	return 0, fmt.Errorf("condition: expected numeric literal, got %T", value)
}
