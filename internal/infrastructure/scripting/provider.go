// Package scripting lets a user JavaScript file decide what pop-frames show.
//
// The script defines a global function:
//
//	function preparePopup(target) {
//	    // target: {id, tag, text, classes, attrs}
//	    if (target.classes.includes("boring")) return null; // no frame
//	    return {title: "Note " + target.id, text: "..."};
//	}
//
// Returning null, undefined or false aborts the spawn. Returning true keeps
// the host's own content. A string becomes the frame text.
package scripting

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/grafana/sobek"
	"github.com/rs/zerolog"

	"github.com/bnema/popframe/internal/logging"
	"github.com/bnema/popframe/internal/page"
	"github.com/bnema/popframe/internal/popup"
)

const (
	entryPoint = "preparePopup"

	// DefaultTimeout bounds one preparePopup call.
	DefaultTimeout = 250 * time.Millisecond
)

// ErrNoEntryPoint is returned when the script does not define preparePopup.
var ErrNoEntryPoint = errors.New("script does not define function " + entryPoint)

// TargetInfo is the view of a target element handed to the script.
type TargetInfo struct {
	ID      string            `json:"id"`
	Tag     string            `json:"tag"`
	Text    string            `json:"text"`
	Classes []string          `json:"classes"`
	Attrs   map[string]string `json:"attrs"`
}

// Content is what the script asked the frame to show.
type Content struct {
	Title   string
	Text    string
	Classes []string
	// Keep means the script deferred to the host's content.
	Keep bool
}

// Provider evaluates preparePopup. Calls are serialized.
type Provider struct {
	mu      sync.Mutex
	vm      *sobek.Runtime
	fn      sobek.Callable
	name    string
	timeout time.Duration
	log     *zerolog.Logger
}

// Load compiles the script at path.
func Load(ctx context.Context, path string) (*Provider, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", path, err)
	}
	return New(ctx, path, string(src))
}

// New compiles source and looks up its preparePopup function.
func New(ctx context.Context, name, source string) (*Provider, error) {
	ctx = logging.WithComponent(ctx, "scripting")
	log := logging.FromContext(ctx)

	vm := sobek.New()
	vm.SetFieldNameMapper(sobek.TagFieldNameMapper("json", true))

	if err := vm.Set("log", func(msg string) {
		log.Debug().Str("script", name).Msg(msg)
	}); err != nil {
		return nil, fmt.Errorf("failed to install log function: %w", err)
	}

	prog, err := sobek.Compile(name, source, true)
	if err != nil {
		return nil, fmt.Errorf("failed to compile script %s: %w", name, err)
	}
	if _, err := vm.RunProgram(prog); err != nil {
		return nil, fmt.Errorf("failed to run script %s: %w", name, err)
	}

	fn, ok := sobek.AssertFunction(vm.Get(entryPoint))
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNoEntryPoint)
	}

	log.Debug().Str("script", name).Msg("content script loaded")
	return &Provider{
		vm:      vm,
		fn:      fn,
		name:    name,
		timeout: DefaultTimeout,
		log:     log,
	}, nil
}

// SetTimeout changes the per-call time limit. Zero disables it.
func (p *Provider) SetTimeout(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timeout = d
}

// Prepare calls preparePopup for el. ok is false when the script declined.
func (p *Provider) Prepare(el *page.Element) (content Content, ok bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	info := TargetInfo{
		ID:      el.ID,
		Tag:     el.Tag,
		Text:    el.Text,
		Classes: el.Classes(),
		Attrs:   el.Attrs(),
	}
	if info.Classes == nil {
		info.Classes = []string{}
	}

	if p.timeout > 0 {
		timer := time.AfterFunc(p.timeout, func() {
			p.vm.Interrupt(fmt.Sprintf("%s exceeded %s", entryPoint, p.timeout))
		})
		defer func() {
			timer.Stop()
			p.vm.ClearInterrupt()
		}()
	}

	res, err := p.fn(sobek.Undefined(), p.vm.ToValue(info))
	if err != nil {
		return Content{}, false, fmt.Errorf("%s(%s) failed: %w", entryPoint, el.ID, err)
	}
	return decode(p.vm, res)
}

func decode(vm *sobek.Runtime, v sobek.Value) (Content, bool, error) {
	if v == nil || sobek.IsUndefined(v) || sobek.IsNull(v) {
		return Content{}, false, nil
	}

	switch exported := v.Export().(type) {
	case bool:
		return Content{Keep: exported}, exported, nil
	case string:
		return Content{Text: exported}, true, nil
	}

	obj := v.ToObject(vm)
	var c Content
	if t := obj.Get("title"); t != nil && !sobek.IsUndefined(t) {
		c.Title = t.String()
	}
	if t := obj.Get("text"); t != nil && !sobek.IsUndefined(t) {
		c.Text = t.String()
	}
	if cl := obj.Get("classes"); cl != nil && !sobek.IsUndefined(cl) {
		if err := vm.ExportTo(cl, &c.Classes); err != nil {
			return Content{}, false, fmt.Errorf("classes must be an array of strings: %w", err)
		}
	}
	return c, true, nil
}

// Wrap returns a prepare function that consults the script before next.
// A declined or failing script aborts the spawn. Script errors are logged.
func (p *Provider) Wrap(next popup.PrepareFunc) popup.PrepareFunc {
	return func(f *popup.Frame) *popup.Frame {
		content, ok, err := p.Prepare(f.Target().Element)
		if err != nil {
			p.log.Warn().Err(err).Str("script", p.name).Msg("content script failed")
			return nil
		}
		if !ok {
			p.log.Trace().Str("target", f.Target().Element.ID).Msg("content script declined")
			return nil
		}
		if content.Keep {
			if next == nil {
				return f
			}
			return next(f)
		}

		if content.Title != "" {
			f.Title = content.Title
		}
		body := page.NewElement("div", "", content.Classes...)
		body.Text = content.Text
		f.SetContent(body)
		return f
	}
}
