package simulate

import (
	"github.com/bnema/popframe/internal/domain/entity"
	"github.com/bnema/popframe/internal/popup"
)

const (
	collapsedHeight = 20
	borderWidth     = 3
)

var minFrameSize = entity.Size{Width: 50, Height: 30}

// host lays frames out at the sizes the scenario declares.
type host struct {
	viewport  entity.Size
	frameSize entity.Size
	sizes     map[string]entity.Size

	cursor    entity.Cursor
	scrolling bool
}

func newHost(sc Scenario) *host {
	h := &host{
		viewport:  sc.Viewport,
		frameSize: sc.FrameSize,
		sizes:     make(map[string]entity.Size),
		scrolling: true,
	}
	if h.frameSize == (entity.Size{}) {
		h.frameSize = entity.Size{Width: 300, Height: 200}
	}
	for _, t := range sc.Targets {
		if t.Size != nil {
			h.sizes[t.ID] = *t.Size
		}
	}
	return h
}

func (h *host) Viewport() entity.Size { return h.viewport }

func (h *host) ContainerOrigin() entity.Point { return entity.Point{} }

func (h *host) IntrinsicSize(f *popup.Frame) entity.Size {
	size, ok := h.sizes[f.Target().Element.ID]
	if !ok {
		size = h.frameSize
	}
	if f.Flags().Collapsed {
		size.Height = collapsedHeight
	}
	return size
}

func (h *host) MinSize(*popup.Frame) entity.Size { return minFrameSize }

func (h *host) BorderWidth(*popup.Frame) float64 { return borderWidth }

func (h *host) SetCursor(c entity.Cursor) { h.cursor = c }

func (h *host) SetPageScrolling(enabled bool) { h.scrolling = enabled }
