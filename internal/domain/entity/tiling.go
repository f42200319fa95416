package entity

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultTilingKeys is used when the preference is present but empty.
const DefaultTilingKeys = "aswdqexzfcv"

// TilingKeysPreference is the preference key under which custom bindings are stored.
const TilingKeysPreference = "popframe-tiling-control-keys"

// ErrInvalidTilingKeys is returned for binding strings that cannot be used.
var ErrInvalidTilingKeys = errors.New("invalid tiling control keys")

// TilingAction is what a tiling key does to the focused frame.
type TilingAction int

const (
	TileLeft TilingAction = iota
	TileBottom
	TileTop
	TileRight
	TileTopLeft
	TileTopRight
	TileBottomRight
	TileBottomLeft
	TileFull
	TileTogglePin
	TileToggleCollapse

	tilingActionCount
)

var tilingActionNames = [...]string{
	"zoom-left", "zoom-bottom", "zoom-top", "zoom-right",
	"zoom-top-left", "zoom-top-right", "zoom-bottom-right", "zoom-bottom-left",
	"zoom-full", "pin", "collapse",
}

func (a TilingAction) String() string {
	if a < 0 || a >= tilingActionCount {
		return fmt.Sprintf("TilingAction(%d)", int(a))
	}
	return tilingActionNames[a]
}

// TilingActions lists every action in binding order.
func TilingActions() []TilingAction {
	actions := make([]TilingAction, tilingActionCount)
	for i := range actions {
		actions[i] = TilingAction(i)
	}
	return actions
}

// Place returns the zoom place for zoom actions, or PlaceNone otherwise.
func (a TilingAction) Place() ZoomPlace {
	switch a {
	case TileLeft:
		return PlaceLeft
	case TileBottom:
		return PlaceBottom
	case TileTop:
		return PlaceTop
	case TileRight:
		return PlaceRight
	case TileTopLeft:
		return PlaceTopLeft
	case TileTopRight:
		return PlaceTopRight
	case TileBottomRight:
		return PlaceBottomRight
	case TileBottomLeft:
		return PlaceBottomLeft
	case TileFull:
		return PlaceFull
	default:
		return PlaceNone
	}
}

// TilingKeys maps single-character keys to tiling actions by position:
// the i-th character triggers TilingAction(i).
type TilingKeys struct {
	keys []rune
}

// ParseTilingKeys validates a binding string. An empty string yields the
// default bindings. Strings may be shorter than the full action list, in
// which case trailing actions are unbound.
func ParseTilingKeys(s string) (TilingKeys, error) {
	if s == "" {
		s = DefaultTilingKeys
	}
	if !utf8.ValidString(s) {
		return TilingKeys{}, fmt.Errorf("%w: not valid UTF-8", ErrInvalidTilingKeys)
	}

	keys := []rune(s)
	if len(keys) > int(tilingActionCount) {
		return TilingKeys{}, fmt.Errorf("%w: %d keys given, at most %d actions", ErrInvalidTilingKeys, len(keys), tilingActionCount)
	}

	seen := make(map[rune]bool, len(keys))
	for _, k := range keys {
		if strings.ContainsRune(" \t\r\n", k) {
			return TilingKeys{}, fmt.Errorf("%w: whitespace is not bindable", ErrInvalidTilingKeys)
		}
		if seen[k] {
			return TilingKeys{}, fmt.Errorf("%w: key %q bound twice", ErrInvalidTilingKeys, k)
		}
		seen[k] = true
	}
	return TilingKeys{keys: keys}, nil
}

// Enabled reports whether any key is bound.
func (t TilingKeys) Enabled() bool { return len(t.keys) > 0 }

// String returns the binding string.
func (t TilingKeys) String() string { return string(t.keys) }

// Action returns the action bound to key. Only single-character keys bind.
func (t TilingKeys) Action(key string) (TilingAction, bool) {
	if utf8.RuneCountInString(key) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(key)
	for i, k := range t.keys {
		if k == r {
			return TilingAction(i), true
		}
	}
	return 0, false
}

// KeyFor returns the key bound to an action, if any.
func (t TilingKeys) KeyFor(a TilingAction) (string, bool) {
	if a < 0 || int(a) >= len(t.keys) {
		return "", false
	}
	return string(t.keys[a]), true
}
