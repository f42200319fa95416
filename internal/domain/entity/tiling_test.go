package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTilingKeys_EmptyUsesDefault(t *testing.T) {
	keys, err := ParseTilingKeys("")
	require.NoError(t, err)

	assert.True(t, keys.Enabled())
	assert.Equal(t, DefaultTilingKeys, keys.String())
}

func TestTilingKeys_DefaultBindings(t *testing.T) {
	keys, err := ParseTilingKeys(DefaultTilingKeys)
	require.NoError(t, err)

	tests := []struct {
		key  string
		want TilingAction
	}{
		{"a", TileLeft},
		{"s", TileBottom},
		{"w", TileTop},
		{"d", TileRight},
		{"q", TileTopLeft},
		{"e", TileTopRight},
		{"x", TileBottomRight},
		{"z", TileBottomLeft},
		{"f", TileFull},
		{"c", TileTogglePin},
		{"v", TileToggleCollapse},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := keys.Action(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := keys.Action("k")
	assert.False(t, ok)
	_, ok = keys.Action("ab")
	assert.False(t, ok)
}

func TestTilingAction_Place(t *testing.T) {
	assert.Equal(t, PlaceLeft, TileLeft.Place())
	assert.Equal(t, PlaceBottomLeft, TileBottomLeft.Place())
	assert.Equal(t, PlaceFull, TileFull.Place())
	assert.Equal(t, PlaceNone, TileTogglePin.Place())
	assert.Equal(t, PlaceNone, TileToggleCollapse.Place())
	assert.Equal(t, "zoom-top-right", TileTopRight.String())
}

func TestParseTilingKeys_Invalid(t *testing.T) {
	for _, s := range []string{"aa", "abcdefghijkl", "a b"} {
		_, err := ParseTilingKeys(s)
		assert.ErrorIs(t, err, ErrInvalidTilingKeys, s)
	}
}

func TestTilingKeys_PartialBinding(t *testing.T) {
	keys, err := ParseTilingKeys("hjkl")
	require.NoError(t, err)

	a, ok := keys.Action("l")
	require.True(t, ok)
	assert.Equal(t, TileRight, a)

	_, ok = keys.KeyFor(TileFull)
	assert.False(t, ok)
	k, ok := keys.KeyFor(TileBottom)
	require.True(t, ok)
	assert.Equal(t, "j", k)
}

func TestTilingKeys_ZeroValueDisabled(t *testing.T) {
	var keys TilingKeys
	assert.False(t, keys.Enabled())
	_, ok := keys.Action("a")
	assert.False(t, ok)
}

func TestTilingActions(t *testing.T) {
	actions := TilingActions()
	require.Len(t, actions, len(DefaultTilingKeys))
	assert.Equal(t, TileLeft, actions[0])
	assert.Equal(t, "collapse", actions[len(actions)-1].String())
}
