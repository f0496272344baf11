// Package condition implements the Boolean/typed comparison grammar
// Choice states dispatch on: a recursive sum of leaf comparators (string,
// numeric, boolean, timestamp, string-match, type predicates) combined
// with the logical And/Or/Not combinators.
//
// The grammar is encoded as a closed Go sum (one concrete type per node
// kind, dispatched with a type switch) rather than a string-tagged map,
// per the Design Notes in spec.md §9: this makes Evaluate a total
// function over a fixed set of cases instead of a partial one over
// arbitrary strings.
package condition

import "fmt"

// Condition is the sum type every node in the grammar implements: Leaf,
// Not, And, or Or.
type Condition interface {
	conditionNode()
}

// Operator enumerates every leaf comparator ASL defines. The operator
// name is also the JSON key the serializer emits/expects.
type Operator string

const (
	OpStringEquals                    Operator = "StringEquals"
	OpStringEqualsPath                Operator = "StringEqualsPath"
	OpStringLessThan                  Operator = "StringLessThan"
	OpStringLessThanPath              Operator = "StringLessThanPath"
	OpStringGreaterThan               Operator = "StringGreaterThan"
	OpStringGreaterThanPath           Operator = "StringGreaterThanPath"
	OpStringLessThanEquals            Operator = "StringLessThanEquals"
	OpStringLessThanEqualsPath        Operator = "StringLessThanEqualsPath"
	OpStringGreaterThanEquals         Operator = "StringGreaterThanEquals"
	OpStringGreaterThanEqualsPath     Operator = "StringGreaterThanEqualsPath"
	OpStringMatches                   Operator = "StringMatches"
	OpNumericEquals                   Operator = "NumericEquals"
	OpNumericEqualsPath               Operator = "NumericEqualsPath"
	OpNumericLessThan                 Operator = "NumericLessThan"
	OpNumericLessThanPath             Operator = "NumericLessThanPath"
	OpNumericGreaterThan              Operator = "NumericGreaterThan"
	OpNumericGreaterThanPath          Operator = "NumericGreaterThanPath"
	OpNumericLessThanEquals           Operator = "NumericLessThanEquals"
	OpNumericLessThanEqualsPath       Operator = "NumericLessThanEqualsPath"
	OpNumericGreaterThanEquals        Operator = "NumericGreaterThanEquals"
	OpNumericGreaterThanEqualsPath    Operator = "NumericGreaterThanEqualsPath"
	OpBooleanEquals                   Operator = "BooleanEquals"
	OpBooleanEqualsPath               Operator = "BooleanEqualsPath"
	OpTimestampEquals                 Operator = "TimestampEquals"
	OpTimestampEqualsPath             Operator = "TimestampEqualsPath"
	OpTimestampLessThan               Operator = "TimestampLessThan"
	OpTimestampLessThanPath           Operator = "TimestampLessThanPath"
	OpTimestampGreaterThan            Operator = "TimestampGreaterThan"
	OpTimestampGreaterThanPath        Operator = "TimestampGreaterThanPath"
	OpTimestampLessThanEquals         Operator = "TimestampLessThanEquals"
	OpTimestampLessThanEqualsPath     Operator = "TimestampLessThanEqualsPath"
	OpTimestampGreaterThanEquals      Operator = "TimestampGreaterThanEquals"
	OpTimestampGreaterThanEqualsPath  Operator = "TimestampGreaterThanEqualsPath"
	OpIsNull                          Operator = "IsNull"
	OpIsPresent                       Operator = "IsPresent"
	OpIsNumeric                       Operator = "IsNumeric"
	OpIsString                        Operator = "IsString"
	OpIsBoolean                       Operator = "IsBoolean"
	OpIsTimestamp                     Operator = "IsTimestamp"
)

// pathOperators is the set of operators whose operand is a path into the
// input rather than a literal.
var pathOperators = map[Operator]bool{
	OpStringEqualsPath: true, OpStringLessThanPath: true, OpStringGreaterThanPath: true,
	OpStringLessThanEqualsPath: true, OpStringGreaterThanEqualsPath: true,
	OpNumericEqualsPath: true, OpNumericLessThanPath: true, OpNumericGreaterThanPath: true,
	OpNumericLessThanEqualsPath: true, OpNumericGreaterThanEqualsPath: true,
	OpBooleanEqualsPath: true,
	OpTimestampEqualsPath: true, OpTimestampLessThanPath: true, OpTimestampGreaterThanPath: true,
	OpTimestampLessThanEqualsPath: true, OpTimestampGreaterThanEqualsPath: true,
}

// typePredicates is the set of operators that never error on a
// missing/mismatched variable — they report false instead.
var typePredicates = map[Operator]bool{
	OpIsNull: true, OpIsPresent: true, OpIsNumeric: true,
	OpIsString: true, OpIsBoolean: true, OpIsTimestamp: true,
}

// IsPathOperator reports whether op's operand is a reference path rather
// than a literal.
func IsPathOperator(op Operator) bool { return pathOperators[op] }

// IsTypePredicate reports whether op is one of the IsXxx predicates.
func IsTypePredicate(op Operator) bool { return typePredicates[op] }

// LiteralKind distinguishes the JSON shapes a Leaf's literal Operand may
// take.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralInt
	LiteralFloat
	LiteralBool
	LiteralTimestamp
)

// Literal is a leaf comparator's non-path operand.
type Literal struct {
	Kind  LiteralKind
	Str   string  // LiteralString, LiteralTimestamp (raw ISO-8601 text)
	Int   int64   // LiteralInt
	Float float64 // LiteralFloat
	Bool  bool    // LiteralBool (also the expected polarity for type predicates)
}

// Operand is a leaf comparator's right-hand side: either a Literal or a
// path string resolved against the same input the Variable is resolved
// against.
type Operand struct {
	Literal *Literal
	Path    string
}

// Leaf is one comparator: {operator, variable, operand}, matching
// spec.md §3's Data Model verbatim.
type Leaf struct {
	Operator Operator
	Variable string
	Operand  Operand
}

func (Leaf) conditionNode() {}

// Not negates a single child condition.
type Not struct {
	Condition Condition
}

func (Not) conditionNode() {}

// And requires every child to hold; the slice must be non-empty.
type And struct {
	Conditions []Condition
}

func (And) conditionNode() {}

// Or requires at least one child to hold; the slice must be non-empty.
type Or struct {
	Conditions []Condition
}

func (Or) conditionNode() {}

// String renders a condition tree back to a debugging-oriented
// expression. The validator does not use it: its violation paths are
// built from field names and list indices.
func String(c Condition) string {
	switch n := c.(type) {
	case Leaf:
		if n.Operand.Literal != nil {
			return fmt.Sprintf("%s(%s, %v)", n.Operator, n.Variable, literalValue(*n.Operand.Literal))
		}
		return fmt.Sprintf("%s(%s, %s)", n.Operator, n.Variable, n.Operand.Path)
	case Not:
		return fmt.Sprintf("Not(%s)", String(n.Condition))
	case And:
		return joinConditions("And", n.Conditions)
	case Or:
		return joinConditions("Or", n.Conditions)
	default:
		return "<unknown condition>"
	}
}

func joinConditions(name string, children []Condition) string {
	out := name + "("
	for i, c := range children {
		if i > 0 {
			out += ", "
		}
		out += String(c)
	}
	return out + ")"
}

func literalValue(l Literal) interface{} {
	switch l.Kind {
	case LiteralString, LiteralTimestamp:
		return l.Str
	case LiteralInt:
		return l.Int
	case LiteralFloat:
		return l.Float
	case LiteralBool:
		return l.Bool
	}
	return nil
}
