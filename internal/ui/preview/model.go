package preview

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/bnema/popframe/internal/application/port"
	"github.com/bnema/popframe/internal/cli/styles"
	"github.com/bnema/popframe/internal/domain/entity"
	"github.com/bnema/popframe/internal/events"
	"github.com/bnema/popframe/internal/infrastructure/cache"
	"github.com/bnema/popframe/internal/infrastructure/config"
	"github.com/bnema/popframe/internal/infrastructure/scheduler"
	"github.com/bnema/popframe/internal/infrastructure/scripting"
	"github.com/bnema/popframe/internal/logging"
	"github.com/bnema/popframe/internal/page"
	"github.com/bnema/popframe/internal/popup"
)

const (
	refClass = "footnote-ref"
	noteAttr = "data-note"

	doubleClickInterval = 400 * time.Millisecond

	// Frame text is rewrapped on every pointer event; a few hundred
	// layouts cover the frames a reader keeps open.
	wrapCacheSize = 256
)

var refSpec = popup.TargetSpec{
	Targets: page.MustCompileSelector(`tag == "a" && "footnote-ref" in classes`),
}

// Options configures a preview Model.
type Options struct {
	Config     *config.Config
	TilingKeys entity.TilingKeys
	// Script, when set, decides what frames show.
	Script *scripting.Provider
	// Scheduler replaces the real-time scheduler.
	Scheduler port.Scheduler
	Theme     *styles.Theme
}

// configMsg carries a reloaded configuration into the loop.
type configMsg struct{ cfg *config.Config }

type wrapKey struct {
	text  string
	width int
}

// frameView tracks the reference elements inside a spawned frame, in
// text order.
type frameView struct {
	refs []*page.Element
}

// Model is the bubbletea model hosting the engine.
type Model struct {
	ctx   context.Context
	log   *zerolog.Logger
	doc   *Document
	cfg   *config.Config
	theme *styles.Theme
	keys  styles.PreviewKeyMap
	help  help.Model

	host   *cellHost
	sched  port.Scheduler
	queue  *queue
	mgr    *popup.Manager
	script *scripting.Provider
	wraps  *cache.Memo[wrapKey, Layout]

	root     *page.Element
	body     *page.Element
	layout   Layout
	pageRefs []*page.Element
	views    map[*popup.Frame]*frameView

	hovered    *page.Element
	overFrame  *popup.Frame
	pressed    *popup.Frame
	lastTitle  *popup.Frame
	lastTitleT time.Time
	now        func() time.Time

	width, height int
}

// New builds a model showing doc. The engine is set up and the document's
// references registered.
func New(ctx context.Context, doc *Document, opts Options) (*Model, error) {
	ctx = logging.WithComponent(ctx, "preview")

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}

	m := &Model{
		ctx:    ctx,
		log:    logging.FromContext(ctx),
		doc:    doc,
		cfg:    cfg,
		theme:  theme,
		keys:   styles.DefaultPreviewKeyMap(),
		help:   styles.NewStyledHelp(theme),
		script: opts.Script,
		views:  make(map[*popup.Frame]*frameView),
		wraps:  cache.NewMemo[wrapKey, Layout](wrapCacheSize),
		now:    time.Now,
		width:  80,
		height: 24,
	}
	m.host = &cellHost{cfg: cfg.Preview, content: m.frameText, wrap: m.wrap, scrolling: true}

	m.sched = opts.Scheduler
	if m.sched == nil {
		m.queue = &queue{}
		m.sched = scheduler.NewLoop(m.queue.post)
	}

	m.mgr = popup.New(ctx, m.host, m.sched,
		popup.WithConfig(cfg.PreviewEngine()),
		popup.WithTilingKeys(opts.TilingKeys),
	)

	m.root = page.NewElement("body", "page")
	m.body = page.NewElement("main", "document")
	m.root.AppendChild(m.body)
	if err := m.mgr.Setup(m.root); err != nil {
		return nil, fmt.Errorf("failed to set up popups: %w", err)
	}

	events.Subscribe(m.mgr.Bus(), popup.DidSpawn, func(ev popup.FrameEvent) { m.attachRefs(ev.Frame) })
	events.Subscribe(m.mgr.Bus(), popup.WillDespawn, func(ev popup.FrameEvent) { m.forget(ev.Frame) })

	m.resize(m.width, m.height)
	m.mgr.RegisterTargets(m.body, refSpec, m.prepareFunc(), nil, nil)

	m.log.Debug().Int("notes", len(doc.Notes)).Int("refs", len(m.pageRefs)).Msg("preview ready")
	return m, nil
}

// Manager exposes the engine.
func (m *Model) Manager() *popup.Manager { return m.mgr }

// Close tears the engine down.
func (m *Model) Close() {
	m.mgr.Cleanup()

	hits, misses := m.wraps.Stats()
	m.log.Debug().Uint64("hits", hits).Uint64("misses", misses).Msg("layout cache")
}

// wrap is Wrap, memoized.
func (m *Model) wrap(text string, width int) Layout {
	return m.wraps.Get(wrapKey{text: text, width: width}, func(k wrapKey) Layout {
		return Wrap(k.text, k.width)
	})
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.queue == nil {
		return nil
	}
	return func() tea.Msg { return drainMsg{} }
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.mgr.WindowResized()
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case drainMsg:
		if m.queue != nil {
			for _, fn := range m.queue.drain() {
				fn()
			}
		}
	case configMsg:
		m.applyConfig(msg.cfg)
	}
	return m, nil
}

func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	m.cfg = cfg
	m.host.cfg = cfg.Preview
	m.mgr.SetConfig(cfg.PreviewEngine())
	m.log.Info().Msg("configuration reloaded")
}

// footer is the status and help line under the document.
func (m *Model) footer() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, m.theme.StatusBar.Render(m.status()), "  ", m.help.View(m.keys))
}

// resize relays the page out for a terminal of width by height cells.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	m.host.viewport = entity.Size{
		Width:  float64(width),
		Height: float64(max(1, height-lipgloss.Height(m.footer()))),
	}

	text := m.doc.Body
	if m.doc.Title != "" {
		text = m.doc.Title + "\n\n" + text
	}
	m.layout = m.wrap(text, width-1)

	for len(m.pageRefs) < len(m.layout.Refs) {
		s := m.layout.Refs[len(m.pageRefs)]
		el := m.newRef(fmt.Sprintf("%s-%d", s.Note, s.Index), s.Note)
		m.body.AppendChild(el)
		m.pageRefs = append(m.pageRefs, el)
	}
	m.scrollPage(0)
}

func (m *Model) newRef(id, note string) *page.Element {
	el := page.NewElement("a", id, refClass)
	el.SetAttr(noteAttr, note)
	el.Text = "[" + note + "]"
	return el
}

// prepareFunc fills frames from the document, consulting the script first
// when one is loaded, and gives every frame a title bar.
func (m *Model) prepareFunc() popup.PrepareFunc {
	fill := m.fillNote
	if m.script != nil {
		fill = m.script.Wrap(m.fillNote)
	}
	return func(f *popup.Frame) *popup.Frame {
		f = fill(f)
		if f == nil {
			return nil
		}
		f.TitleBarContents = []*popup.Button{
			popup.CloseButton(),
			popup.ZoomButton(),
			popup.PinButton(),
		}
		return f
	}
}

func (m *Model) fillNote(f *popup.Frame) *popup.Frame {
	note, _ := f.Target().Element.Attr(noteAttr)
	text, ok := m.doc.Notes[note]
	if !ok {
		return nil
	}
	f.Title = note
	content := page.NewElement("p", "", "note")
	content.Text = text
	f.SetContent(content)
	return f
}

// frameText is what f shows: its body text without reference anchors.
func (m *Model) frameText(f *popup.Frame) string {
	var parts []string
	for _, c := range f.Body.Children() {
		if c.HasClass(refClass) {
			continue
		}
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, "\n\n")
}

// attachRefs adds anchors for the references in f's text and registers
// them, so notes nest.
func (m *Model) attachRefs(f *popup.Frame) {
	l := m.wrap(m.frameText(f), m.host.cfg.FrameMaxWidth-2*frameBorder)
	view := &frameView{}
	parent := f.Target().Element.ID
	for _, s := range l.Refs {
		el := m.newRef(fmt.Sprintf("%s.%s-%d", parent, s.Note, s.Index), s.Note)
		f.Body.AppendChild(el)
		view.refs = append(view.refs, el)
	}
	m.views[f] = view
	if len(view.refs) > 0 {
		m.mgr.RegisterTargets(f.Body, refSpec, m.prepareFunc(), nil, nil)
	}
	m.syncRects()
}

func (m *Model) forget(f *popup.Frame) {
	delete(m.views, f)
	if m.overFrame == f {
		m.overFrame = nil
	}
	if m.pressed == f {
		m.pressed = nil
	}
	if m.hovered != nil && f.Element.Contains(m.hovered) {
		m.hovered = nil
	}
}

// box is a frame's cell geometry.
type box struct {
	x, y, w, h int
	title      int
}

func (m *Model) boxOf(f *popup.Frame) box {
	r := m.mgr.FrameRect(f).Round()
	b := box{x: int(r.X), y: int(r.Y), w: int(r.Width), h: int(r.Height)}
	if f.TitleBar != nil {
		b.title = 1
	}
	return b
}

func (b box) contains(col, row int) bool {
	return col >= b.x && col < b.x+b.w && row >= b.y && row < b.y+b.h
}

func (b box) onBorder(col, row int) bool {
	return b.contains(col, row) && (col == b.x || col == b.x+b.w-1 || row == b.y || row == b.y+b.h-1)
}

// inner is the body area inside the border and title bar.
func (b box) inner() (x, y, w, h int) {
	return b.x + frameBorder, b.y + frameBorder + b.title, max(0, b.w-2*frameBorder), max(0, b.h-2*frameBorder-b.title)
}

type buttonCell struct {
	button *popup.Button
	col    int
}

// buttons places title bar buttons right-aligned, one glyph and one
// space each.
func (b box) buttons(f *popup.Frame) []buttonCell {
	if f.TitleBar == nil {
		return nil
	}
	ix, _, iw, _ := b.inner()
	n := len(f.TitleBar.Buttons)
	out := make([]buttonCell, 0, n)
	for i, btn := range f.TitleBar.Buttons {
		out = append(out, buttonCell{button: btn, col: ix + iw - 2*n + 2*i + 1})
	}
	return out
}

func (m *Model) frameLayout(f *popup.Frame, b box) Layout {
	_, _, iw, _ := b.inner()
	return m.wrap(m.frameText(f), iw)
}

// framesByZ returns visible frames, lowest first.
func (m *Model) framesByZ() []*popup.Frame {
	frames := slices.DeleteFunc(m.mgr.AllSpawned(), func(f *popup.Frame) bool { return f.Flags().Hidden })
	slices.SortStableFunc(frames, func(a, b *popup.Frame) int { return a.ZIndex() - b.ZIndex() })
	return frames
}

// syncRects writes viewport rects for every reference anchor from the
// current page scroll and frame geometry.
func (m *Model) syncRects() {
	for i, s := range m.layout.Refs {
		m.pageRefs[i].SetClientRects(entity.Rect{
			X: float64(s.Col), Y: float64(s.Line - m.host.scrollY), Width: float64(s.Width), Height: 1,
		})
	}

	for f, view := range m.views {
		b := m.boxOf(f)
		ix, iy, _, ih := b.inner()
		scroll := int(f.ScrollTop)
		for i, s := range m.frameLayout(f, b).Refs {
			if i >= len(view.refs) {
				break
			}
			row := s.Line - scroll
			if row < 0 || row >= ih {
				view.refs[i].SetClientRects()
				continue
			}
			view.refs[i].SetClientRects(entity.Rect{
				X: float64(ix + s.Col), Y: float64(iy + row), Width: float64(s.Width), Height: 1,
			})
		}
	}
}

// hit finds the frame and element under a cell. Frames are searched
// frontmost first; f is nil on the page.
func (m *Model) hit(col, row int) (*popup.Frame, *page.Element) {
	frames := m.framesByZ()
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		b := m.boxOf(f)
		if !b.contains(col, row) {
			continue
		}
		if b.onBorder(col, row) {
			return f, f.Element
		}
		if b.title > 0 && row == b.y+frameBorder {
			for _, bc := range b.buttons(f) {
				if bc.col == col {
					return f, bc.button.Element
				}
			}
			return f, f.TitleBar.Element
		}
		if el := m.frameRefAt(f, b, col, row); el != nil {
			return f, el
		}
		return f, f.Body
	}

	if s, ok := m.layout.RefAt(row+m.host.scrollY, col); ok {
		return nil, m.pageRefs[s.Index]
	}
	return nil, m.body
}

func (m *Model) frameRefAt(f *popup.Frame, b box, col, row int) *page.Element {
	view := m.views[f]
	if view == nil {
		return nil
	}
	ix, iy, _, _ := b.inner()
	s, ok := m.frameLayout(f, b).RefAt(row-iy+int(f.ScrollTop), col-ix)
	if !ok || s.Index >= len(view.refs) {
		return nil
	}
	return view.refs[s.Index]
}

func modifiers(msg tea.MouseMsg) popup.Modifiers {
	return popup.Modifiers{Alt: msg.Alt, Meta: msg.Ctrl}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	m.syncRects()
	p := entity.Point{X: float64(msg.X) + 0.5, Y: float64(msg.Y) + 0.5}
	f, el := m.hit(msg.X, msg.Y)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.wheel(f, -1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.wheel(f, 1)
	case msg.Action == tea.MouseActionMotion:
		m.pointerMoved(p, f, el)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.press(p, f, el, modifiers(msg))
	case msg.Action == tea.MouseActionRelease:
		m.release(f, el, modifiers(msg))
	}
	m.syncRects()
}

func (m *Model) pointerMoved(p entity.Point, f *popup.Frame, el *page.Element) {
	m.mgr.PointerMove(p)

	var target *page.Element
	if el != nil && el.HasClass(refClass) {
		target = el
	}

	// Leave events precede enter events, as in a browser.
	if target != m.hovered && m.hovered != nil {
		m.mgr.TargetLeave(m.hovered)
	}
	if f != m.overFrame {
		if m.overFrame != nil {
			m.mgr.FrameMouseOut(m.overFrame)
			m.mgr.FrameLeave(m.overFrame)
		}
		if f != nil {
			m.mgr.FrameEnter(f)
		}
		m.overFrame = f
	}
	if f != nil {
		m.mgr.FrameMouseMove(f, el, p)
	}
	if target != m.hovered {
		if target != nil {
			m.mgr.TargetEnter(target, p)
		}
		m.hovered = target
	}
}

func (m *Model) press(p entity.Point, f *popup.Frame, el *page.Element, mods popup.Modifiers) {
	if f == nil {
		if el.HasClass(refClass) {
			m.mgr.TargetDown(el, popup.ButtonPrimary)
		}
		return
	}

	if owner, b := m.mgr.ButtonFor(el); owner == f && b != nil {
		m.mgr.ActivateButton(f, b, mods)
		return
	}
	if el == f.Element {
		m.mgr.FrameMouseDown(f, el, p, popup.ButtonPrimary, mods)
		return
	}
	if f.TitleBar != nil && el == f.TitleBar.Element {
		now := m.now()
		if m.lastTitle == f && now.Sub(m.lastTitleT) < doubleClickInterval {
			m.lastTitle = nil
			m.mgr.TitleBarDoubleClick(f, mods)
			return
		}
		m.lastTitle, m.lastTitleT = f, now
		m.mgr.TitleBarDown(f, el, p, popup.ButtonPrimary, mods)
		return
	}

	if el.HasClass(refClass) {
		m.mgr.TargetDown(el, popup.ButtonPrimary)
	}
	m.pressed = f
}

func (m *Model) release(f *popup.Frame, el *page.Element, mods popup.Modifiers) {
	m.mgr.PointerUp(el)
	if m.pressed != nil && m.pressed == f {
		m.mgr.FrameClick(f, mods)
	}
	m.pressed = nil
}

// wheel scrolls the frame under the pointer, or the page.
func (m *Model) wheel(f *popup.Frame, delta int) {
	m.mgr.DisableHover()
	if f == nil {
		if m.host.scrolling {
			m.scrollPage(delta)
		}
		return
	}

	b := m.boxOf(f)
	_, _, _, ih := b.inner()
	limit := max(0, len(m.frameLayout(f, b).Lines)-ih)
	f.ScrollTop = float64(min(max(0, int(f.ScrollTop)+delta), limit))
}

func (m *Model) scrollPage(delta int) {
	limit := max(0, len(m.layout.Lines)-int(m.host.viewport.Height))
	m.host.scrollY = min(max(0, m.host.scrollY+delta), limit)
	m.syncRects()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize(m.width, m.height)
		m.mgr.WindowResized()
		return nil
	case key.Matches(msg, m.keys.CloseAll):
		m.mgr.DespawnAll()
		return nil
	}

	name := msg.String()
	if name == "esc" {
		name = "Escape"
	}
	if m.mgr.KeyUp(name) {
		return nil
	}

	if !m.host.scrolling {
		return nil
	}
	pageSize := int(m.host.viewport.Height) - 1
	switch {
	case key.Matches(msg, m.keys.ScrollUp):
		m.scrollPage(-1)
	case key.Matches(msg, m.keys.ScrollDown):
		m.scrollPage(1)
	case key.Matches(msg, m.keys.PageUp):
		m.scrollPage(-pageSize)
	case key.Matches(msg, m.keys.PageDown):
		m.scrollPage(pageSize)
	}
	return nil
}
