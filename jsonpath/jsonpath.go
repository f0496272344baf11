// Package jsonpath is the thin seam spec.md §2 calls out as "assumed
// external": given a JSON value and a path string, return zero, one, or
// many selected sub-values. It is implemented on top of
// github.com/tidwall/gjson, translating the small slice of JSONPath this
// library's callers actually emit (field access, array index, and the
// "*" wildcard) into gjson's own path syntax.
//
// Design Notes (spec.md §9) leave the multi-token-match question open:
// this package pins it the way the original source does — a wildcard or
// multi-value selector always yields a JSON array, never an error and
// never "just the first match".
package jsonpath

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Result is the outcome of evaluating a path against a value.
type Result struct {
	// Value is the selected value: a single JSON value for a
	// single-token match, or a JSON array for a multi-token match.
	Value interface{}
	// Matched is false when the path selected nothing at all.
	Matched bool
	// Multi is true when the path could in principle select more than
	// one value (it contained a wildcard or array-all selector), even
	// if in this evaluation it matched exactly one.
	Multi bool
}

// Evaluate selects path against input. path must start with "$"; "$" by
// itself returns input unchanged.
func Evaluate(input interface{}, path string) (Result, error) {
	if path == "$" || path == "" {
		return Result{Value: input, Matched: true}, nil
	}
	gpath, multi, err := translate(path)
	if err != nil {
		return Result{}, err
	}

	raw, err := json.Marshal(input)
	if err != nil {
		return Result{}, fmt.Errorf("jsonpath: marshaling input: %w", err)
	}

	res := gjson.GetBytes(raw, gpath)
	if !res.Exists() {
		return Result{Matched: false, Multi: multi}, nil
	}

	return Result{Value: res.Value(), Matched: true, Multi: multi || res.IsArray() && strings.Contains(gpath, "#")}, nil
}

// Validate reports whether path is a syntactically well-formed JSONPath
// expression in the subset this package accepts.
func Validate(path string) error {
	if path == "$" {
		return nil
	}
	_, _, err := translate(path)
	return err
}

// translate converts a "$"-rooted JSONPath expression into gjson's path
// syntax, rejecting descendant ("..") and filter ("[?(...)]") operators,
// which this module's callers never need and gjson does not interpret
// the same way a strict JSONPath implementation would.
func translate(path string) (gpath string, multi bool, err error) {
	if !strings.HasPrefix(path, "$") {
		return "", false, fmt.Errorf("jsonpath: %q must start with \"$\"", path)
	}
	rest := path[1:]
	var parts []string

	for len(rest) > 0 {
		switch rest[0] {
		case '.':
			if strings.HasPrefix(rest, "..") {
				return "", false, fmt.Errorf("jsonpath: %q: descendant operator \"..\" is not supported", path)
			}
			rest = rest[1:]
			end := strings.IndexAny(rest, ".[")
			var name string
			if end == -1 {
				name, rest = rest, ""
			} else {
				name, rest = rest[:end], rest[end:]
			}
			if name == "" {
				return "", false, fmt.Errorf("jsonpath: %q: empty field name", path)
			}
			if name == "*" {
				multi = true
				parts = append(parts, "*")
				continue
			}
			parts = append(parts, gjsonEscape(name))

		case '[':
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				return "", false, fmt.Errorf("jsonpath: %q: unterminated \"[\"", path)
			}
			inner := rest[1:end]
			rest = rest[end+1:]

			switch {
			case inner == "*":
				multi = true
				parts = append(parts, "#")
			case strings.Contains(inner, "?") || strings.Contains(inner, ":"):
				return "", false, fmt.Errorf("jsonpath: %q: filter and slice expressions are not supported", path)
			case strings.HasPrefix(inner, "'") && strings.HasSuffix(inner, "'") && len(inner) >= 2:
				parts = append(parts, gjsonEscape(inner[1:len(inner)-1]))
			default:
				if _, convErr := strconv.Atoi(inner); convErr != nil {
					return "", false, fmt.Errorf("jsonpath: %q: array index %q must be an integer", path, inner)
				}
				parts = append(parts, inner)
			}

		default:
			return "", false, fmt.Errorf("jsonpath: %q: unexpected character %q", path, string(rest[0]))
		}
	}

	// A trailing "[*]" selects the array itself; gjson reads a final "#"
	// as the element count, so it is dropped here.
	if n := len(parts); n > 0 && parts[n-1] == "#" {
		parts = parts[:n-1]
	}
	if len(parts) == 0 {
		return "@this", multi, nil
	}
	return strings.Join(parts, "."), multi, nil
}

func gjsonEscape(name string) string {
	replacer := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return replacer.Replace(name)
}
