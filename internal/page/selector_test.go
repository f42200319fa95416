package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector_Match(t *testing.T) {
	link := NewElement("a", "ref1", "footnote-ref")
	link.SetAttr("href", "#fn1")
	link.Text = "1"

	tests := []struct {
		name   string
		source string
		want   bool
	}{
		{"tag", `tag == "a"`, true},
		{"class membership", `"footnote-ref" in classes`, true},
		{"attribute prefix", `attrs["href"] startsWith "#fn"`, true},
		{"missing attribute", `attrs["data-x"] == "y"`, false},
		{"id and text", `id == "ref1" && text == "1"`, true},
		{"negation", `not ("no-popup" in classes)`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := CompileSelector(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel.Match(link))
		})
	}
}

func TestSelector_EmptyMatchesNothing(t *testing.T) {
	sel, err := CompileSelector("   ")
	require.NoError(t, err)

	assert.False(t, sel.Match(NewElement("a", "")))

	var nilSel *Selector
	assert.False(t, nilSel.Match(NewElement("a", "")))
	assert.Equal(t, "", nilSel.String())
}

func TestSelector_CompileErrors(t *testing.T) {
	_, err := CompileSelector(`tag ==`)
	assert.Error(t, err)

	// Non-boolean expressions are rejected at compile time.
	_, err = CompileSelector(`tag`)
	assert.Error(t, err)
}
