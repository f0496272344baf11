package refpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldAndIndexTokens(t *testing.T) {
	p, err := Parse("$.a.b[2]['c']")
	require.NoError(t, err)
	require.Len(t, p.Tokens, 4)
	assert.Equal(t, Token{Kind: Field, Field: "a"}, p.Tokens[0])
	assert.Equal(t, Token{Kind: Field, Field: "b"}, p.Tokens[1])
	assert.Equal(t, Token{Kind: Index, Index: 2}, p.Tokens[2])
	assert.Equal(t, Token{Kind: Field, Field: "c"}, p.Tokens[3])
}

func TestParseIdentityPath(t *testing.T) {
	p, err := Parse("$")
	require.NoError(t, err)
	assert.True(t, p.IsIdentity())
	assert.Equal(t, "$", p.String())
}

func TestParseRejectsWildcard(t *testing.T) {
	_, err := Parse("$.items[*]")
	assert.Error(t, err)
}

func TestParseRejectsDescendant(t *testing.T) {
	_, err := Parse("$..a")
	assert.Error(t, err)
}

func TestParseRejectsFilterExpression(t *testing.T) {
	_, err := Parse("$.items[?(@.id==1)]")
	assert.Error(t, err)
}

func TestParseRejectsNegativeIndex(t *testing.T) {
	_, err := Parse("$.items[-1]")
	assert.Error(t, err)
}

func TestStringRoundTrips(t *testing.T) {
	p, err := Parse("$.a[1].b")
	require.NoError(t, err)
	assert.Equal(t, "$.a[1].b", p.String())
}

func TestGetTraversesExistingPath(t *testing.T) {
	root := map[string]interface{}{"a": map[string]interface{}{"b": []interface{}{1, 2, 3}}}
	p := MustParse("$.a.b[1]")
	v, found := Get(root, p)
	assert.True(t, found)
	assert.Equal(t, 2, v)
}

func TestGetReportsNotFoundThroughMissingIntermediate(t *testing.T) {
	root := map[string]interface{}{"a": map[string]interface{}{}}
	p := MustParse("$.a.b.c")
	_, found := Get(root, p)
	assert.False(t, found)
}

// spec.md §4.3: ResultPath merge synthesizes a nested skeleton from a
// reference path when the target doesn't exist yet.
func TestSetSynthesizesNestedObjectSkeleton(t *testing.T) {
	root := map[string]interface{}{"a": 1}
	p := MustParse("$.b.c")
	got, err := Set(root, p, 42)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": 1, "b": map[string]interface{}{"c": 42}}, got)
}

func TestSetSynthesizesNullPaddedArray(t *testing.T) {
	root := map[string]interface{}{}
	p := MustParse("$.items[2]")
	got, err := Set(root, p, "x")
	require.NoError(t, err)
	m := got.(map[string]interface{})
	arr := m["items"].([]interface{})
	require.Len(t, arr, 3)
	assert.Nil(t, arr[0])
	assert.Nil(t, arr[1])
	assert.Equal(t, "x", arr[2])
}

func TestSetOverwritesExistingValue(t *testing.T) {
	root := map[string]interface{}{"a": map[string]interface{}{"b": 1}}
	p := MustParse("$.a.b")
	got, err := Set(root, p, 2)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": map[string]interface{}{"b": 2}}, got)
}

func TestSetPreservesSiblings(t *testing.T) {
	root := map[string]interface{}{"a": map[string]interface{}{"keep": "me"}}
	p := MustParse("$.a.b")
	got, err := Set(root, p, 2)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": map[string]interface{}{"keep": "me", "b": 2}}, got)
}

func TestSetReportsShapeMismatch(t *testing.T) {
	root := []interface{}{1, 2}
	p := MustParse("$.a")
	_, err := Set(root, p, 1)
	require.Error(t, err)
	var mismatch *ErrShapeMismatch
	assert.ErrorAs(t, err, &mismatch)
}

func TestSetIdentityReplacesRoot(t *testing.T) {
	p := MustParse("$")
	got, err := Set(map[string]interface{}{"a": 1}, p, map[string]interface{}{"b": 2})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"b": 2}, got)
}
