package preview

import (
	"github.com/bnema/popframe/internal/domain/entity"
	"github.com/bnema/popframe/internal/infrastructure/config"
	"github.com/bnema/popframe/internal/popup"
)

const frameBorder = 1

// cellHost measures the page and frames in terminal cells. Non-pinned
// frames live in page coordinates and scroll with it.
type cellHost struct {
	viewport entity.Size
	scrollY  int
	cfg      config.PreviewConfig
	// content returns the text a frame shows.
	content func(*popup.Frame) string
	wrap    func(text string, width int) Layout

	cursor    entity.Cursor
	scrolling bool
}

func (h *cellHost) Viewport() entity.Size { return h.viewport }

func (h *cellHost) ContainerOrigin() entity.Point {
	return entity.Point{Y: -float64(h.scrollY)}
}

func hasTitleBar(f *popup.Frame) bool {
	return f.TitleBar != nil || len(f.TitleBarContents) > 0
}

// IntrinsicSize wraps the frame's text at the maximum frame width and
// shrinks to fit within the configured bounds.
func (h *cellHost) IntrinsicSize(f *popup.Frame) entity.Size {
	chrome := 2 * frameBorder
	titleRows := 0
	if hasTitleBar(f) {
		titleRows = 1
	}

	l := h.wrap(h.content(f), h.cfg.FrameMaxWidth-chrome)
	width := entity.Clamp(float64(l.Width()+chrome), float64(h.cfg.FrameMinWidth), float64(h.cfg.FrameMaxWidth))

	if f.Flags().Collapsed {
		return entity.Size{Width: width, Height: float64(chrome + titleRows)}
	}
	height := entity.Clamp(float64(len(l.Lines)+chrome+titleRows), float64(h.cfg.FrameMinHeight), float64(h.cfg.FrameMaxHeight))
	return entity.Size{Width: width, Height: height}
}

func (h *cellHost) MinSize(*popup.Frame) entity.Size {
	return entity.Size{Width: float64(h.cfg.FrameMinWidth), Height: float64(h.cfg.FrameMinHeight)}
}

func (h *cellHost) BorderWidth(*popup.Frame) float64 { return frameBorder }

func (h *cellHost) SetCursor(c entity.Cursor) { h.cursor = c }

func (h *cellHost) SetPageScrolling(enabled bool) { h.scrolling = enabled }
