// Package optpath models the tri-state optional path fields ASL states
// carry: InputPath, OutputPath, and ResultPath can each be unset (default
// to "$", identity), explicitly null (discard), or an explicit path
// string. spec.md §9's Design Notes call this out specifically: modeling
// it as a nullable string collapses "absent" and "explicit null" into the
// same zero value, which is observable behavior this library must keep
// distinct.
package optpath

// state is unexported so the only way to build a Path is through the
// three constructors below, keeping the three states exhaustive.
type state int

const (
	unset state = iota
	null
	set
)

// Path is a tri-state optional path value.
type Path struct {
	state state
	value string
}

// Unset is the default: behaves as if the field were "$".
func Unset() Path { return Path{state: unset} }

// Null is an explicit JSON null: discards rather than defaulting.
func Null() Path { return Path{state: null} }

// Of wraps an explicit path string.
func Of(value string) Path { return Path{state: set, value: value} }

// IsUnset reports whether the field was omitted entirely.
func (p Path) IsUnset() bool { return p.state == unset }

// IsNull reports whether the field was explicitly set to null.
func (p Path) IsNull() bool { return p.state == null }

// IsSet reports whether the field carries an explicit path string.
func (p Path) IsSet() bool { return p.state == set }

// Value returns the path string; only meaningful when IsSet is true.
func (p Path) Value() string { return p.value }

// Effective returns the path string to actually evaluate: "$" for
// Unset, "$" for Null too (callers branch on IsNull before ever reaching
// evaluation, since null means "discard" rather than "select $"), and the
// wrapped value for Set.
func (p Path) Effective() string {
	if p.state == set {
		return p.value
	}
	return "$"
}
