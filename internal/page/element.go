// Package page models the host document the pop-frame engine operates on:
// a tree of elements carrying classes, attributes and laid-out client rects.
// Hosts own layout; they write rects and read back cursors and classes.
package page

import (
	"slices"

	"github.com/bnema/popframe/internal/domain/entity"
)

// Element is a node in the page tree.
type Element struct {
	ID   string
	Tag  string
	Text string

	// Cursor is the pointer cursor shown over this element.
	Cursor entity.Cursor

	classes  []string
	attrs    map[string]string
	parent   *Element
	children []*Element
	rects    []entity.Rect
}

// NewElement creates a detached element.
func NewElement(tag, id string, classes ...string) *Element {
	e := &Element{Tag: tag, ID: id}
	e.AddClass(classes...)
	return e
}

// Parent returns the parent element, or nil for a root or detached element.
func (e *Element) Parent() *Element { return e.parent }

// Children returns a copy of the child list.
func (e *Element) Children() []*Element { return slices.Clone(e.children) }

// AppendChild attaches c as the last child, detaching it from any previous parent.
func (e *Element) AppendChild(c *Element) {
	if c == nil || c == e {
		return
	}
	c.Remove()
	c.parent = e
	e.children = append(e.children, c)
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	p := e.parent
	if p == nil {
		return
	}
	if i := slices.Index(p.children, e); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	e.parent = nil
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Root returns the topmost ancestor.
func (e *Element) Root() *Element {
	n := e
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Walk visits e and its descendants depth-first in document order.
// Returning false from fn skips that element's subtree.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range slices.Clone(e.children) {
		c.Walk(fn)
	}
}

// QueryAll returns every descendant of e (excluding e) matched by sel.
func (e *Element) QueryAll(sel *Selector) []*Element {
	var out []*Element
	for _, c := range e.children {
		c.Walk(func(n *Element) bool {
			if sel.Match(n) {
				out = append(out, n)
			}
			return true
		})
	}
	return out
}

// Closest returns the nearest inclusive ancestor matched by sel.
func (e *Element) Closest(sel *Selector) *Element {
	for n := e; n != nil; n = n.parent {
		if sel.Match(n) {
			return n
		}
	}
	return nil
}

// ClosestFunc returns the nearest inclusive ancestor satisfying fn.
func (e *Element) ClosestFunc(fn func(*Element) bool) *Element {
	for n := e; n != nil; n = n.parent {
		if fn(n) {
			return n
		}
	}
	return nil
}

// Classes returns the class tokens in insertion order.
func (e *Element) Classes() []string { return slices.Clone(e.classes) }

// HasClass reports whether the element carries the class token.
func (e *Element) HasClass(name string) bool { return slices.Contains(e.classes, name) }

// AddClass adds class tokens, ignoring duplicates and empty names.
func (e *Element) AddClass(names ...string) {
	for _, n := range names {
		if n != "" && !e.HasClass(n) {
			e.classes = append(e.classes, n)
		}
	}
}

// RemoveClass removes class tokens.
func (e *Element) RemoveClass(names ...string) {
	e.classes = slices.DeleteFunc(e.classes, func(c string) bool {
		return slices.Contains(names, c)
	})
}

// ToggleClass adds or removes a class token.
func (e *Element) ToggleClass(name string, on bool) {
	if on {
		e.AddClass(name)
	} else {
		e.RemoveClass(name)
	}
}

// Attr returns an attribute value.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// SetAttr sets an attribute value.
func (e *Element) SetAttr(name, value string) {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
}

// RemoveAttr deletes an attribute.
func (e *Element) RemoveAttr(name string) { delete(e.attrs, name) }

// Attrs returns a copy of the attribute map.
func (e *Element) Attrs() map[string]string {
	out := make(map[string]string, len(e.attrs))
	for k, v := range e.attrs {
		out[k] = v
	}
	return out
}

// SetClientRects records the element's laid-out boxes in viewport
// coordinates. Wrapped inline elements have one rect per line fragment.
func (e *Element) SetClientRects(rects ...entity.Rect) {
	e.rects = slices.Clone(rects)
}

// ClientRects returns the element's laid-out boxes.
func (e *Element) ClientRects() []entity.Rect { return slices.Clone(e.rects) }

// BoundingRect returns the union of the element's client rects.
func (e *Element) BoundingRect() entity.Rect {
	var r entity.Rect
	for _, cr := range e.rects {
		r = r.Union(cr)
	}
	return r
}

// RectAt returns the client rect containing p, falling back to the bounding rect.
func (e *Element) RectAt(p entity.Point) entity.Rect {
	for _, cr := range e.rects {
		if cr.Contains(p) {
			return cr
		}
	}
	return e.BoundingRect()
}
