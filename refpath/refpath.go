// Package refpath implements the restricted "Reference Path" grammar ASL
// uses for write targets (ResultPath, itemsPath, and the operand of
// *EqualsPath Choice comparators): "$" followed by field accesses
// (".name" or "['name']") and array indices ("[k]"). Wildcards, filters,
// descendants, and slices — the parts of JSONPath that have no meaning as
// a write target — are rejected at parse time.
//
// Design Notes (spec.md §9) call for hand-rolling this grammar rather than
// reusing a general JSONPath library, since the language it accepts is a
// small, closed subset.
package refpath

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenKind distinguishes a field access from an array index.
type TokenKind int

const (
	// Field is a ".name" or "['name']" access.
	Field TokenKind = iota
	// Index is a "[k]" array access.
	Index
)

// Token is one step of a parsed reference path.
type Token struct {
	Kind  TokenKind
	Field string
	Index int
}

// Path is a parsed reference path: zero or more Tokens applied to the
// root value $.
type Path struct {
	Raw    string
	Tokens []Token
}

// IsIdentity reports whether the path is exactly "$".
func (p *Path) IsIdentity() bool { return len(p.Tokens) == 0 }

// String renders the path back to its canonical ASL form.
func (p *Path) String() string {
	var b strings.Builder
	b.WriteString("$")
	for _, t := range p.Tokens {
		switch t.Kind {
		case Field:
			b.WriteString(".")
			b.WriteString(t.Field)
		case Index:
			fmt.Fprintf(&b, "[%d]", t.Index)
		}
	}
	return b.String()
}

// Parse parses s as a reference path. s must start with "$"; anything
// resembling a JSONPath wildcard ("*"), descendant operator (".."), or
// filter expression ("[?(...)]") is rejected.
func Parse(s string) (*Path, error) {
	if !strings.HasPrefix(s, "$") {
		return nil, fmt.Errorf("refpath: %q must start with \"$\"", s)
	}
	rest := s[1:]
	var tokens []Token

	for len(rest) > 0 {
		switch rest[0] {
		case '.':
			if strings.HasPrefix(rest, "..") {
				return nil, fmt.Errorf("refpath: %q: descendant operator \"..\" is not allowed", s)
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
				return nil, fmt.Errorf("refpath: %q: empty field name", s)
			}
			if strings.Contains(name, "*") {
				return nil, fmt.Errorf("refpath: %q: wildcards are not allowed", s)
			}
			tokens = append(tokens, Token{Kind: Field, Field: name})

		case '[':
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				return nil, fmt.Errorf("refpath: %q: unterminated \"[\"", s)
			}
			inner := rest[1:end]
			rest = rest[end+1:]

			switch {
			case strings.HasPrefix(inner, "'") && strings.HasSuffix(inner, "'") && len(inner) >= 2:
				name := inner[1 : len(inner)-1]
				if name == "" {
					return nil, fmt.Errorf("refpath: %q: empty quoted field name", s)
				}
				tokens = append(tokens, Token{Kind: Field, Field: name})
			case inner == "*" || strings.Contains(inner, "?") || strings.Contains(inner, ":"):
				return nil, fmt.Errorf("refpath: %q: wildcards, filters, and slices are not allowed", s)
			default:
				idx, err := strconv.Atoi(inner)
				if err != nil || idx < 0 {
					return nil, fmt.Errorf("refpath: %q: array index %q must be a non-negative integer", s, inner)
				}
				tokens = append(tokens, Token{Kind: Index, Index: idx})
			}

		default:
			return nil, fmt.Errorf("refpath: %q: unexpected character %q", s, string(rest[0]))
		}
	}

	return &Path{Raw: s, Tokens: tokens}, nil
}

// MustParse is Parse but panics on error; useful for constants in tests.
func MustParse(s string) *Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Get traverses root along the path and reports whether every step was
// found. A partial path through a missing intermediate is reported as
// not-found rather than an error.
func Get(root interface{}, p *Path) (value interface{}, found bool) {
	cur := root
	for _, t := range p.Tokens {
		switch t.Kind {
		case Field:
			m, ok := cur.(map[string]interface{})
			if !ok {
				return nil, false
			}
			cur, ok = m[t.Field]
			if !ok {
				return nil, false
			}
		case Index:
			a, ok := cur.([]interface{})
			if !ok || t.Index >= len(a) {
				return nil, false
			}
			cur = a[t.Index]
		}
	}
	return cur, true
}

// Set returns a new value equal to root with value placed at the
// location p describes, synthesizing any missing intermediate objects
// (for Field tokens) or null-padded arrays (for Index tokens) along the
// way. Existing siblings are preserved; only the spine of the path is
// copied.
//
// If an existing value along the spine is incompatible with the next
// token's shape (e.g. the path's first token is a Field but root is
// already a JSON array), Set returns ErrShapeMismatch.
func Set(root interface{}, p *Path, value interface{}) (interface{}, error) {
	return setAt(root, p.Tokens, value)
}

// ErrShapeMismatch is returned by Set when an existing value's JSON type
// conflicts with what the reference path requires at that step.
type ErrShapeMismatch struct {
	Path string
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("refpath: %s: existing value's type is incompatible with this path", e.Path)
}

func setAt(current interface{}, tokens []Token, value interface{}) (interface{}, error) {
	if len(tokens) == 0 {
		return value, nil
	}
	tok := tokens[0]

	switch tok.Kind {
	case Field:
		m := map[string]interface{}{}
		if current != nil {
			existing, ok := current.(map[string]interface{})
			if !ok {
				return nil, &ErrShapeMismatch{Path: tok.Field}
			}
			for k, v := range existing {
				m[k] = v
			}
		}
		child, err := setAt(m[tok.Field], tokens[1:], value)
		if err != nil {
			return nil, err
		}
		m[tok.Field] = child
		return m, nil

	case Index:
		var arr []interface{}
		if current != nil {
			existing, ok := current.([]interface{})
			if !ok {
				return nil, &ErrShapeMismatch{Path: fmt.Sprintf("[%d]", tok.Index)}
			}
			arr = append(arr, existing...)
		}
		for len(arr) <= tok.Index {
			arr = append(arr, nil)
		}
		child, err := setAt(arr[tok.Index], tokens[1:], value)
		if err != nil {
			return nil, err
		}
		arr[tok.Index] = child
		return arr, nil
	}

	panic("unreachable")
}
