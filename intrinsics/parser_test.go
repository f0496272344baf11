package intrinsics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyzr/stateflow/aslerrors"
)

func TestParseSimpleCall(t *testing.T) {
	call, err := Parse("States.ArrayLength($.items)")
	require.NoError(t, err)
	assert.Equal(t, "States.ArrayLength", call.Name)
	require.Len(t, call.Args, 1)
	lit, ok := call.Args[0].(*PathLiteral)
	require.True(t, ok)
	assert.Equal(t, "$.items", lit.Path)
	assert.False(t, lit.Context)
}

func TestParseContextPath(t *testing.T) {
	call, err := Parse("States.Format('{}', $$.ExecutionId)")
	require.NoError(t, err)
	lit, ok := call.Args[1].(*PathLiteral)
	require.True(t, ok)
	assert.True(t, lit.Context)
	assert.Equal(t, "$.ExecutionId", lit.Path)
}

func TestParseStringLiteralWithEscapes(t *testing.T) {
	call, err := Parse(`States.Format('it\'s a \\test')`)
	require.NoError(t, err)
	lit, ok := call.Args[0].(*StringLiteral)
	require.True(t, ok)
	assert.Equal(t, `it's a \test`, lit.Value)
}

func TestParseNestedCall(t *testing.T) {
	call, err := Parse("States.ArrayGetItem(States.Array(1, 2, 3), 1)")
	require.NoError(t, err)
	nested, ok := call.Args[0].(*Call)
	require.True(t, ok)
	assert.Equal(t, "States.Array", nested.Name)
	assert.Len(t, nested.Args, 3)
}

func TestParseNumberLiterals(t *testing.T) {
	call, err := Parse("States.MathAdd(-3, 4)")
	require.NoError(t, err)
	a := call.Args[0].(*NumberLiteral)
	assert.True(t, a.IsInt)
	assert.Equal(t, int64(-3), a.Int)
}

func TestParseFloatLiteral(t *testing.T) {
	call, err := Parse("States.MathRandom(1.5, 2)")
	require.NoError(t, err)
	a := call.Args[0].(*NumberLiteral)
	assert.False(t, a.IsInt)
	assert.Equal(t, 1.5, a.Float)
}

func TestParseNoArgsCall(t *testing.T) {
	call, err := Parse("States.UUID()")
	require.NoError(t, err)
	assert.Empty(t, call.Args)
}

func TestParseRejectsTrailingInput(t *testing.T) {
	_, err := Parse("States.UUID() extra")
	require.Error(t, err)
	var syn *aslerrors.IntrinsicFunctionSyntaxError
	assert.ErrorAs(t, err, &syn)
}

func TestParseRejectsMismatchedParens(t *testing.T) {
	_, err := Parse("States.UUID(")
	require.Error(t, err)
}

func TestParseRejectsEmptyIdentifier(t *testing.T) {
	_, err := Parse("(1,2)")
	require.Error(t, err)
}

func TestParseRejectsUnterminatedString(t *testing.T) {
	_, err := Parse("States.Format('unterminated)")
	require.Error(t, err)
}
