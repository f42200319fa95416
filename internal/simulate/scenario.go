// Package simulate replays scripted pointer and keyboard input against the
// pop-frame engine on a virtual clock and records what happened.
package simulate

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bnema/popframe/internal/domain/entity"
)

// Scenario is a page of targets plus the input to replay against it.
type Scenario struct {
	Name     string      `yaml:"name"`
	Viewport entity.Size `yaml:"viewport"`
	// FrameSize is the laid-out size of frames without their own size.
	FrameSize entity.Size `yaml:"frame_size,omitempty"`
	// TilingKeys binds tiling keys. Unset disables them; "" selects the defaults.
	TilingKeys *string `yaml:"tiling_keys,omitempty"`

	Timings *Timings `yaml:"timings,omitempty"`

	Targets []Target `yaml:"targets"`
	Steps   []Step   `yaml:"steps"`
}

// Timings overrides the engine's lifecycle delays.
type Timings struct {
	TriggerDelay    *time.Duration `yaml:"trigger_delay,omitempty"`
	FadeoutDelay    *time.Duration `yaml:"fadeout_delay,omitempty"`
	FadeoutDuration *time.Duration `yaml:"fadeout_duration,omitempty"`
}

// Target is a hoverable element. Targets with a parent live inside the
// parent's frame and exist only while it is spawned.
type Target struct {
	ID string `yaml:"id"`
	// Rect is left, top, right, bottom in viewport coordinates.
	Rect     [4]float64   `yaml:"rect"`
	Parent   string       `yaml:"parent,omitempty"`
	Size     *entity.Size `yaml:"size,omitempty"`
	TitleBar bool         `yaml:"title_bar,omitempty"`
	// Decline makes the content provider refuse to fill the frame.
	Decline bool `yaml:"decline,omitempty"`
}

func (t Target) rect() entity.Rect {
	return entity.RectFromEdges(t.Rect[0], t.Rect[1], t.Rect[2], t.Rect[3])
}

// Step performs exactly one action.
type Step struct {
	Enter      string `yaml:"enter,omitempty"`
	Leave      string `yaml:"leave,omitempty"`
	FrameEnter string `yaml:"frame_enter,omitempty"`
	FrameLeave string `yaml:"frame_leave,omitempty"`
	Down       string `yaml:"down,omitempty"`
	Click      string `yaml:"click,omitempty"`
	Despawn    string `yaml:"despawn,omitempty"`
	Pin        string `yaml:"pin,omitempty"`
	Unpin      string `yaml:"unpin,omitempty"`
	Collapse   string `yaml:"collapse,omitempty"`
	Restore    string `yaml:"restore,omitempty"`

	Zoom   *ZoomStep     `yaml:"zoom,omitempty"`
	Drag   *DragStep     `yaml:"drag,omitempty"`
	Key    string        `yaml:"key,omitempty"`
	Window *entity.Size  `yaml:"window,omitempty"`
	Wait   time.Duration `yaml:"wait,omitempty"`
	Expect *Expect       `yaml:"expect,omitempty"`

	// At is the pointer position for enter; defaults to the target's center.
	At *entity.Point `yaml:"at,omitempty"`
}

// ZoomStep zooms a target's frame to a viewport region.
type ZoomStep struct {
	Target string           `yaml:"target"`
	Place  entity.ZoomPlace `yaml:"place"`
}

// DragStep drags a frame by its title bar.
type DragStep struct {
	Target string       `yaml:"target"`
	By     entity.Point `yaml:"by"`
}

// Expect asserts engine state at a point in the replay.
type Expect struct {
	Spawned []string `yaml:"spawned,omitempty"`
	Absent  []string `yaml:"absent,omitempty"`
	Pinned  []string `yaml:"pinned,omitempty"`
	Focused string   `yaml:"focused,omitempty"`
	// Rects maps target ids to expected [x, y, width, height].
	Rects map[string][4]float64 `yaml:"rects,omitempty"`
}

// actions lists the actions set on the step.
func (s Step) actions() []string {
	var set []string
	add := func(name string, present bool) {
		if present {
			set = append(set, name)
		}
	}
	add("enter", s.Enter != "")
	add("leave", s.Leave != "")
	add("frame_enter", s.FrameEnter != "")
	add("frame_leave", s.FrameLeave != "")
	add("down", s.Down != "")
	add("click", s.Click != "")
	add("despawn", s.Despawn != "")
	add("pin", s.Pin != "")
	add("unpin", s.Unpin != "")
	add("collapse", s.Collapse != "")
	add("restore", s.Restore != "")
	add("zoom", s.Zoom != nil)
	add("drag", s.Drag != nil)
	add("key", s.Key != "")
	add("window", s.Window != nil)
	add("wait", s.Wait != 0)
	add("expect", s.Expect != nil)
	return set
}

// Load reads and validates a scenario file.
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario %q: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes and validates a scenario. Unknown fields are errors.
func Parse(data []byte, source string) (Scenario, error) {
	var sc Scenario

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return sc, fmt.Errorf("failed to parse scenario %q: %w", source, err)
	}
	if sc.FrameSize == (entity.Size{}) {
		sc.FrameSize = entity.Size{Width: 300, Height: 200}
	}

	if errs := sc.Validate(); len(errs) > 0 {
		return sc, fmt.Errorf("invalid scenario %q: %s", source, strings.Join(errs, "; "))
	}
	return sc, nil
}

// Validate reports every problem with the scenario.
func (sc Scenario) Validate() []string {
	var errs []string

	if sc.Viewport.Width <= 0 || sc.Viewport.Height <= 0 {
		errs = append(errs, "viewport width and height must be positive")
	}
	if sc.TilingKeys != nil {
		if _, err := entity.ParseTilingKeys(*sc.TilingKeys); err != nil {
			errs = append(errs, err.Error())
		}
	}

	ids := make(map[string]bool, len(sc.Targets))
	for i, t := range sc.Targets {
		switch {
		case strings.TrimSpace(t.ID) == "":
			errs = append(errs, fmt.Sprintf("targets[%d].id is required", i))
		case ids[t.ID]:
			errs = append(errs, fmt.Sprintf("targets[%d].id duplicate %q", i, t.ID))
		}
		ids[t.ID] = true
		if t.rect().IsEmpty() {
			errs = append(errs, fmt.Sprintf("targets[%d].rect must have positive width and height", i))
		}
	}
	for i, t := range sc.Targets {
		if t.Parent != "" && !ids[t.Parent] {
			errs = append(errs, fmt.Sprintf("targets[%d].parent unknown target %q", i, t.Parent))
		}
		if t.Parent == t.ID && t.ID != "" {
			errs = append(errs, fmt.Sprintf("targets[%d].parent cannot be itself", i))
		}
	}

	for i, s := range sc.Steps {
		actions := s.actions()
		if len(actions) != 1 {
			errs = append(errs, fmt.Sprintf("steps[%d] must set exactly one action (got: %s)", i, strings.Join(actions, ", ")))
			continue
		}
		for _, id := range s.subjects() {
			if !ids[id] {
				errs = append(errs, fmt.Sprintf("steps[%d].%s unknown target %q", i, actions[0], id))
			}
		}
		if s.Zoom != nil && !s.Zoom.Place.Valid() {
			errs = append(errs, fmt.Sprintf("steps[%d].zoom.place invalid %q", i, s.Zoom.Place))
		}
		if s.Wait < 0 {
			errs = append(errs, fmt.Sprintf("steps[%d].wait must be positive", i))
		}
		if s.Window != nil && (s.Window.Width <= 0 || s.Window.Height <= 0) {
			errs = append(errs, fmt.Sprintf("steps[%d].window must be positive", i))
		}
	}
	return errs
}

// subjects lists the target ids a step refers to.
func (s Step) subjects() []string {
	var ids []string
	for _, id := range []string{
		s.Enter, s.Leave, s.FrameEnter, s.FrameLeave, s.Down, s.Click,
		s.Despawn, s.Pin, s.Unpin, s.Collapse, s.Restore,
	} {
		if id != "" {
			ids = append(ids, id)
		}
	}
	if s.Zoom != nil {
		ids = append(ids, s.Zoom.Target)
	}
	if s.Drag != nil {
		ids = append(ids, s.Drag.Target)
	}
	if e := s.Expect; e != nil {
		ids = append(ids, e.Spawned...)
		ids = append(ids, e.Absent...)
		ids = append(ids, e.Pinned...)
		if e.Focused != "" {
			ids = append(ids, e.Focused)
		}
		for _, id := range slices.Sorted(maps.Keys(e.Rects)) {
			ids = append(ids, id)
		}
	}
	return ids
}
