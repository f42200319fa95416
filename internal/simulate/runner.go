package simulate

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/bnema/popframe/internal/domain/entity"
	"github.com/bnema/popframe/internal/events"
	"github.com/bnema/popframe/internal/infrastructure/scheduler"
	"github.com/bnema/popframe/internal/logging"
	"github.com/bnema/popframe/internal/page"
	"github.com/bnema/popframe/internal/popup"
)

// Event is one line of the replay log.
type Event struct {
	At     time.Duration
	Kind   string
	Target string
	Detail string
}

func (e Event) String() string {
	line := fmt.Sprintf("%8s  %-8s %s", e.At, e.Kind, e.Target)
	if e.Detail != "" {
		line += "  " + e.Detail
	}
	return strings.TrimRight(line, " ")
}

// Result is the replay log.
type Result struct {
	Events []Event
}

// WriteTo writes one event per line.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, e := range r.Events {
		n, err := fmt.Fprintln(w, e.String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Kinds filters the log to the given event kinds.
func (r *Result) Kinds(kinds ...string) []Event {
	var out []Event
	for _, e := range r.Events {
		if slices.Contains(kinds, e.Kind) {
			out = append(out, e)
		}
	}
	return out
}

var targetSpec = popup.TargetSpec{
	Targets: page.MustCompileSelector(`tag == "a" && "sim-target" in classes`),
}

type runner struct {
	sc    Scenario
	host  *host
	sched *scheduler.Manual
	mgr   *popup.Manager
	root  *page.Element

	elements map[string]*page.Element
	targets  map[string]Target
	rects    map[*popup.Frame]entity.Rect
	result   *Result
}

// Run replays sc. On a failed expectation it returns the log so far and an error.
func Run(ctx context.Context, sc Scenario) (*Result, error) {
	if errs := sc.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid scenario: %s", strings.Join(errs, "; "))
	}

	r := &runner{
		sc:       sc,
		host:     newHost(sc),
		sched:    scheduler.NewManual(),
		root:     page.NewElement("body", "page"),
		elements: make(map[string]*page.Element),
		targets:  make(map[string]Target),
		rects:    make(map[*popup.Frame]entity.Rect),
		result:   &Result{},
	}
	for _, t := range sc.Targets {
		r.targets[t.ID] = t
	}

	opts := []popup.Option{popup.WithConfig(engineConfig(sc))}
	if sc.TilingKeys != nil {
		keys, err := entity.ParseTilingKeys(*sc.TilingKeys)
		if err != nil {
			return nil, err
		}
		opts = append(opts, popup.WithTilingKeys(keys))
	}
	r.mgr = popup.New(logging.WithComponent(ctx, "simulate"), r.host, r.sched, opts...)

	events.Subscribe(r.mgr.Bus(), popup.DidSpawn, func(ev popup.FrameEvent) {
		r.record("spawn", r.idOf(ev.Frame), fmt.Sprintf("z=%d", ev.Frame.ZIndex()))
	})
	events.Subscribe(r.mgr.Bus(), popup.WillDespawn, func(ev popup.FrameEvent) {
		r.record("despawn", r.idOf(ev.Frame), "")
		delete(r.rects, ev.Frame)
	})

	if err := r.mgr.Setup(r.root); err != nil {
		return nil, fmt.Errorf("failed to set up engine: %w", err)
	}
	r.addTargets(r.root, "")

	for i, step := range sc.Steps {
		if err := r.apply(step); err != nil {
			return r.result, fmt.Errorf("step %d (%s): %w", i, step.actions()[0], err)
		}
		r.sched.Flush()
		r.recordLayout()
	}
	return r.result, nil
}

func engineConfig(sc Scenario) popup.Config {
	cfg := popup.DefaultConfig()
	if t := sc.Timings; t != nil {
		if t.TriggerDelay != nil {
			cfg.TriggerDelay = *t.TriggerDelay
		}
		if t.FadeoutDelay != nil {
			cfg.FadeoutDelay = *t.FadeoutDelay
		}
		if t.FadeoutDuration != nil {
			cfg.FadeoutDuration = *t.FadeoutDuration
		}
	}
	return cfg
}

func (r *runner) record(kind, target, detail string) {
	r.result.Events = append(r.result.Events, Event{
		At:     r.sched.Now(),
		Kind:   kind,
		Target: target,
		Detail: detail,
	})
}

// recordLayout logs every spawned frame whose rect changed.
func (r *runner) recordLayout() {
	for _, f := range r.mgr.AllSpawned() {
		rect := f.ViewportRect().Round()
		if prev, ok := r.rects[f]; ok && prev == rect {
			continue
		}
		r.rects[f] = rect
		r.record("rect", r.idOf(f), fmt.Sprintf("%g,%g %gx%g", rect.X, rect.Y, rect.Width, rect.Height))
	}
}

func (r *runner) idOf(f *popup.Frame) string {
	if f == nil || f.Target() == nil {
		return ""
	}
	return f.Target().Element.ID
}

// addTargets creates the elements of parent's child targets in container
// and registers them.
func (r *runner) addTargets(container *page.Element, parent string) {
	for _, t := range r.sc.Targets {
		if t.Parent != parent {
			continue
		}
		el := page.NewElement("a", t.ID, "sim-target")
		el.Text = t.ID
		el.SetClientRects(t.rect())
		container.AppendChild(el)
		r.elements[t.ID] = el
	}
	r.mgr.RegisterTargets(container, targetSpec, r.prepare, nil, nil)
}

func (r *runner) prepare(f *popup.Frame) *popup.Frame {
	id := f.Target().Element.ID
	t := r.targets[id]
	if t.Decline {
		r.record("decline", id, "")
		return nil
	}

	f.Title = id
	if t.TitleBar {
		f.TitleBarContents = []*popup.Button{
			popup.CloseButton(),
			popup.ZoomButton().EnableSubmenu(),
			popup.PinButton(),
			popup.OptionsButton(),
		}
	}
	content := page.NewElement("p", "")
	content.Text = "preview of " + id
	f.SetContent(content)
	r.addTargets(f.Body, id)
	return f
}

func (r *runner) element(id string) (*page.Element, error) {
	el, ok := r.elements[id]
	if !ok {
		return nil, fmt.Errorf("target %q is not on the page", id)
	}
	return el, nil
}

func (r *runner) frame(id string) (*popup.Frame, error) {
	el, err := r.element(id)
	if err != nil {
		return nil, err
	}
	if t, ok := r.mgr.Target(el); ok && t.Frame() != nil {
		return t.Frame(), nil
	}
	// Pinned frames are detached from their target.
	for _, f := range r.mgr.AllSpawned() {
		if f.Target() != nil && f.Target().Element == el {
			return f, nil
		}
	}
	return nil, fmt.Errorf("target %q has no frame", id)
}

func (r *runner) apply(s Step) error {
	switch {
	case s.Enter != "":
		el, err := r.element(s.Enter)
		if err != nil {
			return err
		}
		at := el.BoundingRect()
		p := entity.Point{X: at.X + at.Width/2, Y: at.Y + at.Height/2}
		if s.At != nil {
			p = *s.At
		}
		r.record("enter", s.Enter, fmt.Sprintf("at %g,%g", p.X, p.Y))
		r.mgr.PointerMove(p)
		r.mgr.TargetEnter(el, p)
	case s.Leave != "":
		el, err := r.element(s.Leave)
		if err != nil {
			return err
		}
		r.record("leave", s.Leave, "")
		r.mgr.TargetLeave(el)
	case s.Down != "":
		el, err := r.element(s.Down)
		if err != nil {
			return err
		}
		r.record("down", s.Down, "")
		r.mgr.TargetDown(el, popup.ButtonPrimary)
	case s.Wait != 0:
		r.sched.Advance(s.Wait)
	case s.Key != "":
		used := r.mgr.KeyUp(s.Key)
		r.record("key", "", fmt.Sprintf("%q used=%t", s.Key, used))
	case s.Window != nil:
		r.host.viewport = *s.Window
		r.record("window", "", fmt.Sprintf("%gx%g", s.Window.Width, s.Window.Height))
		r.mgr.WindowResized()
	case s.Expect != nil:
		return r.check(*s.Expect)
	default:
		return r.applyToFrame(s)
	}
	return nil
}

// applyToFrame runs the actions addressed at a live frame.
func (r *runner) applyToFrame(s Step) error {
	kind := s.actions()[0]
	id := s.subjects()[0]
	f, err := r.frame(id)
	if err != nil {
		return err
	}
	r.record(kind, id, "")

	switch {
	case s.FrameEnter != "":
		r.mgr.FrameEnter(f)
	case s.FrameLeave != "":
		r.mgr.FrameLeave(f)
	case s.Click != "":
		r.mgr.FrameClick(f, popup.Modifiers{})
	case s.Despawn != "":
		r.mgr.Despawn(f)
	case s.Pin != "":
		r.mgr.Pin(f)
	case s.Unpin != "":
		r.mgr.Unpin(f)
	case s.Collapse != "":
		r.mgr.ToggleCollapse(f)
	case s.Restore != "":
		r.mgr.Restore(f)
	case s.Zoom != nil:
		r.mgr.Zoom(f, s.Zoom.Place)
	case s.Drag != nil:
		return r.drag(f, s.Drag.By)
	}
	return nil
}

func (r *runner) drag(f *popup.Frame, by entity.Point) error {
	if f.TitleBar == nil {
		return fmt.Errorf("frame %q has no title bar to drag", r.idOf(f))
	}
	start := f.ViewportRect().Origin()
	start.X++
	start.Y++
	r.mgr.TitleBarDown(f, f.TitleBar.Element, start, popup.ButtonPrimary, popup.Modifiers{})
	r.mgr.PointerMove(entity.Point{X: start.X + by.X, Y: start.Y + by.Y})
	r.mgr.PointerUp(f.TitleBar.Element)
	return nil
}

func (r *runner) check(e Expect) error {
	var problems []string

	live := func(id string) *popup.Frame {
		f, err := r.frame(id)
		if err != nil || f.IsDespawned() {
			return nil
		}
		return f
	}

	for _, id := range e.Spawned {
		if live(id) == nil {
			problems = append(problems, fmt.Sprintf("%s is not spawned", id))
		}
	}
	for _, id := range e.Absent {
		if live(id) != nil {
			problems = append(problems, fmt.Sprintf("%s is spawned", id))
		}
	}
	for _, id := range e.Pinned {
		if f := live(id); f == nil || !f.Flags().Pinned {
			problems = append(problems, fmt.Sprintf("%s is not pinned", id))
		}
	}
	if e.Focused != "" {
		if got := r.idOf(r.mgr.Focused()); got != e.Focused {
			problems = append(problems, fmt.Sprintf("focused is %q, want %q", got, e.Focused))
		}
	}
	for _, id := range slices.Sorted(maps.Keys(e.Rects)) {
		want := e.Rects[id]
		f := live(id)
		if f == nil {
			problems = append(problems, fmt.Sprintf("%s has no rect", id))
			continue
		}
		got := f.ViewportRect().Round()
		if got != (entity.Rect{X: want[0], Y: want[1], Width: want[2], Height: want[3]}) {
			problems = append(problems, fmt.Sprintf("%s rect is %g,%g %gx%g, want %g,%g %gx%g",
				id, got.X, got.Y, got.Width, got.Height, want[0], want[1], want[2], want[3]))
		}
	}

	if len(problems) > 0 {
		r.record("expect", "", "FAIL "+strings.Join(problems, "; "))
		return fmt.Errorf("expectation failed: %s", strings.Join(problems, "; "))
	}
	r.record("expect", "", "ok")
	return nil
}
