package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	l := Wrap("The quick fox[^a] jumps over\nthe lazy dog.[^b]\n\nSecond para.", 20)

	assert.Equal(t, []string{
		"The quick fox[a]",
		"jumps over the lazy",
		"dog.[b]",
		"",
		"Second para.",
	}, l.Lines)
	assert.Equal(t, []Span{
		{Note: "a", Index: 0, Line: 0, Col: 13, Width: 3},
		{Note: "b", Index: 1, Line: 2, Col: 4, Width: 3},
	}, l.Refs)
	assert.Equal(t, 19, l.Width())
}

func TestWrap_ReferencesNeverSplit(t *testing.T) {
	l := Wrap("aaaa [^long-note]", 8)

	require.Len(t, l.Lines, 2)
	assert.Equal(t, "[long-note]", l.Lines[1])
	assert.Equal(t, Span{Note: "long-note", Line: 1, Col: 0, Width: 11}, l.Refs[0])
}

func TestWrap_SeveralRefsInOneWord(t *testing.T) {
	l := Wrap("x[^1][^2]", 40)

	assert.Equal(t, []string{"x[1][2]"}, l.Lines)
	require.Len(t, l.Refs, 2)
	assert.Equal(t, 1, l.Refs[0].Col)
	assert.Equal(t, 4, l.Refs[1].Col)
}

func TestLayout_RefAt(t *testing.T) {
	l := Wrap("see[^a] now", 40)

	s, ok := l.RefAt(0, 3)
	require.True(t, ok)
	assert.Equal(t, "a", s.Note)

	_, ok = l.RefAt(0, 2)
	assert.False(t, ok)
	_, ok = l.RefAt(0, 6)
	assert.False(t, ok)
	_, ok = l.RefAt(1, 3)
	assert.False(t, ok)
}

func TestWrap_Empty(t *testing.T) {
	l := Wrap("", 10)
	assert.Empty(t, l.Lines)
	assert.Zero(t, l.Width())
}
