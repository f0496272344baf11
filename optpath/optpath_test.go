package optpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnsetIsNeitherNullNorSet(t *testing.T) {
	p := Unset()
	assert.True(t, p.IsUnset())
	assert.False(t, p.IsNull())
	assert.False(t, p.IsSet())
	assert.Equal(t, "$", p.Effective())
}

func TestNullIsDistinctFromUnset(t *testing.T) {
	p := Null()
	assert.False(t, p.IsUnset())
	assert.True(t, p.IsNull())
	assert.False(t, p.IsSet())
	assert.Equal(t, "$", p.Effective())
}

func TestOfCarriesExplicitValue(t *testing.T) {
	p := Of("$.a.b")
	assert.False(t, p.IsUnset())
	assert.False(t, p.IsNull())
	assert.True(t, p.IsSet())
	assert.Equal(t, "$.a.b", p.Value())
	assert.Equal(t, "$.a.b", p.Effective())
}

func TestZeroValueBehavesAsUnset(t *testing.T) {
	var p Path
	assert.True(t, p.IsUnset())
}
