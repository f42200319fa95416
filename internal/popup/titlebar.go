package popup

import (
	"fmt"

	"github.com/bnema/popframe/internal/domain/entity"
	"github.com/bnema/popframe/internal/page"
)

// ButtonKind identifies a title bar button's built-in behavior.
type ButtonKind string

const (
	ButtonClose     ButtonKind = "close"
	ButtonZoom      ButtonKind = "zoom"
	ButtonZoomPlace ButtonKind = "zoom-place"
	ButtonPin       ButtonKind = "pin"
	ButtonOptions   ButtonKind = "options"
)

const (
	titleBarClass       = "popframe-title-bar"
	titleBarButtonClass = "popframe-title-bar-button"
	submenuButtonClass  = "submenu-button"

	titleBarTitle = "Drag popup by title bar to reposition; double-click title bar to collapse (hold Alt to collapse all)"
)

var buttonTitles = map[string]string{
	"close":             "Close this popup (hold Alt to close all)",
	"zoom":              "Maximize this popup",
	"restore":           "Restore this popup to normal size and position",
	"pin":               "Pin this popup to the screen (hold Alt to pin all)",
	"unpin":             "Un-pin this popup from the screen (hold Alt to pin all)",
	"options":           "Show options",
	"zoom-top-left":     "Place this popup in the top-left quarter of the screen",
	"zoom-top":          "Place this popup on the top half of the screen",
	"zoom-top-right":    "Place this popup in the top-right quarter of the screen",
	"zoom-left":         "Place this popup on the left half of the screen",
	"zoom-right":        "Place this popup on the right half of the screen",
	"zoom-full":         "Expand this popup to fill the screen",
	"zoom-bottom-left":  "Place this popup in the bottom-left quarter of the screen",
	"zoom-bottom":       "Place this popup on the bottom half of the screen",
	"zoom-bottom-right": "Place this popup in the bottom-right quarter of the screen",
}

// ButtonFace is the icon key and tooltip a button shows in one state.
type ButtonFace struct {
	Icon  string
	Title string
}

func face(key string) ButtonFace {
	return ButtonFace{Icon: key, Title: buttonTitles[key]}
}

// Button is one title bar control. Renderers show Face(); the engine
// flips Alternate as the frame's state changes.
type Button struct {
	Kind    ButtonKind
	Place   entity.ZoomPlace
	Element *page.Element

	Default   ButtonFace
	Alt       ButtonFace
	Alternate bool

	SubmenuEnabled bool
	Submenu        []*Button

	// Action replaces the built-in behavior when set.
	Action func(f *Frame, mods Modifiers)
}

// Face returns the button's current icon and tooltip.
func (b *Button) Face() ButtonFace {
	if b.Alternate {
		return b.Alt
	}
	return b.Default
}

// EnableSubmenu gives a zoom button its nine-place submenu.
func (b *Button) EnableSubmenu() *Button {
	b.SubmenuEnabled = true
	return b
}

func newButton(kind ButtonKind, classes ...string) *Button {
	return &Button{
		Kind:    kind,
		Element: page.NewElement("button", "", append([]string{titleBarButtonClass}, classes...)...),
	}
}

// CloseButton despawns its frame, or with Alt every frame.
func CloseButton() *Button {
	b := newButton(ButtonClose, "close-button")
	b.Default = face("close")
	b.Alt = b.Default
	return b
}

// ZoomButton maximizes its frame, or restores a zoomed or resized one.
func ZoomButton() *Button {
	b := newButton(ButtonZoom, "zoom-button")
	b.Default = face("zoom")
	b.Alt = face("restore")
	return b
}

func zoomPlaceButtons() []*Button {
	buttons := make([]*Button, 0, len(entity.ZoomPlaces))
	for _, place := range entity.ZoomPlaces {
		b := newButton(ButtonZoomPlace, submenuButtonClass, "zoom-button", string(place))
		b.Place = place
		b.Default = face(fmt.Sprintf("zoom-%s", place))
		b.Alt = face("restore")
		buttons = append(buttons, b)
	}
	return buttons
}

// PinButton toggles pinning, or with Alt pins or unpins every frame.
func PinButton() *Button {
	b := newButton(ButtonPin, "pin-button")
	b.Default = face("pin")
	b.Alt = face("unpin")
	return b
}

// OptionsButton has no built-in behavior.
func OptionsButton() *Button {
	b := newButton(ButtonOptions, "options-button")
	b.Default = face("options")
	b.Alt = b.Default
	return b
}

// TitleBar is a frame's drag handle and button row.
type TitleBar struct {
	Element *page.Element
	Title   string
	Buttons []*Button
}

// Button returns the first button of the given kind.
func (tb *TitleBar) Button(kind ButtonKind) *Button {
	for _, b := range tb.Buttons {
		if b.Kind == kind {
			return b
		}
	}
	return nil
}

func (tb *TitleBar) all() []*Button {
	var out []*Button
	for _, b := range tb.Buttons {
		out = append(out, b)
		out = append(out, b.Submenu...)
	}
	return out
}

func (m *Manager) addTitleBar(f *Frame) {
	f.flags.HasTitleBar = true

	tb := &TitleBar{
		Element: page.NewElement("div", "", titleBarClass),
		Title:   titleBarTitle,
		Buttons: f.TitleBarContents,
	}
	tb.Element.SetAttr("title", titleBarTitle)

	for _, b := range tb.Buttons {
		tb.Element.AppendChild(b.Element)
		if b.Kind == ButtonZoom && b.SubmenuEnabled {
			b.Element.AddClass("has-submenu")
			submenu := page.NewElement("div", "", "submenu", "zoom-button-submenu")
			tb.Element.AppendChild(submenu)
			b.Submenu = zoomPlaceButtons()
			for _, sb := range b.Submenu {
				submenu.AppendChild(sb.Element)
			}
		}
	}

	children := f.Element.Children()
	for _, c := range children {
		c.Remove()
	}
	f.Element.AppendChild(tb.Element)
	for _, c := range children {
		f.Element.AppendChild(c)
	}

	f.TitleBar = tb
	m.updateTitleBar(f)
}

// updateTitleBar syncs every button's alternate state with f.
func (m *Manager) updateTitleBar(f *Frame) {
	if f == nil || f.TitleBar == nil {
		return
	}
	for _, b := range f.TitleBar.all() {
		switch b.Kind {
		case ButtonZoom:
			b.Alternate = f.flags.Zoomed || f.flags.Resized
		case ButtonZoomPlace:
			b.Alternate = f.flags.Zoomed && f.flags.Place == b.Place
		case ButtonPin:
			b.Alternate = f.flags.Pinned
		}
		b.Element.ToggleClass("alternate", b.Alternate)
	}
}

// ButtonFor returns the frame and button an element belongs to.
func (m *Manager) ButtonFor(el *page.Element) (*Frame, *Button) {
	f := m.ContainingFrame(el)
	if f == nil || f.TitleBar == nil {
		return nil, nil
	}
	for _, b := range f.TitleBar.all() {
		if b.Element == el || b.Element.Contains(el) {
			return f, b
		}
	}
	return f, nil
}

// ActivateButton runs b's action for f.
func (m *Manager) ActivateButton(f *Frame, b *Button, mods Modifiers) {
	if f == nil || b == nil || f.flags.Despawned {
		return
	}
	if b.Action != nil {
		b.Action(f, mods)
		return
	}

	switch b.Kind {
	case ButtonClose:
		if mods.Alt {
			m.DespawnAll()
			return
		}
		m.Despawn(f)
	case ButtonZoom:
		if b.Alternate {
			m.Restore(f)
		} else {
			m.Zoom(f, entity.PlaceFull)
		}
	case ButtonZoomPlace:
		if b.Alternate {
			m.Restore(f)
		} else {
			m.Zoom(f, b.Place)
		}
	case ButtonPin:
		if !mods.Alt {
			m.TogglePin(f)
			return
		}
		pin := !f.flags.Pinned
		for _, other := range m.AllSpawned() {
			if pin {
				m.Pin(other)
			} else {
				m.Unpin(other)
			}
		}
	}
}

// DespawnAll despawns every spawned frame.
func (m *Manager) DespawnAll() {
	for _, f := range m.AllSpawned() {
		m.Despawn(f)
	}
}
