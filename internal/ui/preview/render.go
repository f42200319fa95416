package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/popframe/internal/cli/styles"
	"github.com/bnema/popframe/internal/page"
	"github.com/bnema/popframe/internal/popup"
)

type cell struct {
	r     rune
	style *lipgloss.Style
}

// canvas is a grid of styled cells frames are composited onto.
type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: max(0, w), h: max(0, h)}
	c.cells = make([][]cell, c.h)
	for y := range c.cells {
		row := make([]cell, c.w)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		c.cells[y] = row
	}
	return c
}

func (c *canvas) put(x, y int, r rune, st *lipgloss.Style) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cell{r: r, style: st}
}

// text writes s from x, clipped to limit cells.
func (c *canvas) text(x, y int, s string, st *lipgloss.Style, limit int) {
	i := 0
	for _, r := range s {
		if i >= limit {
			return
		}
		c.put(x+i, y, r, st)
		i++
	}
}

func (c *canvas) fill(x, y, w, h int, st *lipgloss.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			c.put(col, row, ' ', st)
		}
	}
}

// String renders runs of equally styled cells together.
func (c *canvas) String() string {
	var out strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			out.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].style == row[start].style {
				continue
			}
			var run strings.Builder
			for _, cl := range row[start:x] {
				run.WriteRune(cl.r)
			}
			if st := row[start].style; st != nil {
				out.WriteString(st.Render(run.String()))
			} else {
				out.WriteString(run.String())
			}
			start = x
		}
	}
	return out.String()
}

// View implements tea.Model.
func (m *Model) View() string {
	c := newCanvas(m.width, int(m.host.viewport.Height))
	m.drawPage(c)
	for _, f := range m.framesByZ() {
		m.drawFrame(c, f)
	}
	return c.String() + "\n" + m.footer()
}

func (m *Model) drawPage(c *canvas) {
	for row := 0; row < c.h; row++ {
		line := row + m.host.scrollY
		if line >= len(m.layout.Lines) {
			break
		}
		c.text(0, row, m.layout.Lines[line], nil, c.w)
	}
	for _, s := range m.layout.Refs {
		row := s.Line - m.host.scrollY
		if row < 0 || row >= c.h {
			continue
		}
		m.drawRef(c, m.pageRefs[s.Index], s.Col, row, c.w-s.Col)
	}
}

func (m *Model) drawRef(c *canvas, el *page.Element, x, y, limit int) {
	st := &m.theme.Ref
	if el.HasClass(popup.ClassPopupOpen) {
		st = &m.theme.RefOpen
	}
	c.text(x, y, el.Text, st, limit)
}

func (m *Model) borderStyle(f *popup.Frame) *lipgloss.Style {
	flags := f.Flags()
	switch {
	case flags.Fading:
		return &m.theme.FrameFading
	case flags.Focused:
		return &m.theme.FrameFocused
	case flags.Pinned:
		return &m.theme.FramePinned
	default:
		return &m.theme.FrameBorder
	}
}

func (m *Model) drawFrame(c *canvas, f *popup.Frame) {
	b := m.boxOf(f)
	if b.w < 2 || b.h < 2 {
		return
	}
	border := m.borderStyle(f)

	c.fill(b.x, b.y, b.w, b.h, &m.theme.FrameBody)
	right, bottom := b.x+b.w-1, b.y+b.h-1
	for x := b.x + 1; x < right; x++ {
		c.put(x, b.y, '─', border)
		c.put(x, bottom, '─', border)
	}
	for y := b.y + 1; y < bottom; y++ {
		c.put(b.x, y, '│', border)
		c.put(right, y, '│', border)
	}
	c.put(b.x, b.y, '╭', border)
	c.put(right, b.y, '╮', border)
	c.put(b.x, bottom, '╰', border)
	c.put(right, bottom, '╯', border)

	ix, iy, iw, ih := b.inner()
	if b.title > 0 && b.h > 2 {
		row := b.y + frameBorder
		c.fill(ix, row, iw, 1, &m.theme.FrameTitleBar)
		buttons := b.buttons(f)
		titleWidth := iw - 2*len(buttons) - 1
		c.text(ix+1, row, f.Title, &m.theme.FrameTitleBar, titleWidth)
		for _, bc := range buttons {
			c.text(bc.col, row, styles.ButtonGlyph(bc.button.Face().Icon), &m.theme.FrameButton, 1)
		}
	}
	if f.Flags().Collapsed {
		return
	}

	l := m.frameLayout(f, b)
	scroll := int(f.ScrollTop)
	for row := 0; row < ih; row++ {
		line := row + scroll
		if line >= len(l.Lines) {
			break
		}
		c.text(ix, iy+row, l.Lines[line], &m.theme.FrameBody, iw)
	}
	view := m.views[f]
	for _, s := range l.Refs {
		row := s.Line - scroll
		if view == nil || s.Index >= len(view.refs) || row < 0 || row >= ih || s.Col >= iw {
			continue
		}
		m.drawRef(c, view.refs[s.Index], ix+s.Col, iy+row, iw-s.Col)
	}
}

// status summarizes engine state for the footer.
func (m *Model) status() string {
	frames := m.mgr.AllSpawned()
	s := fmt.Sprintf("%d frames", len(frames))
	if m.host.cursor != "" {
		s += "  " + string(m.host.cursor)
	}
	return s
}
