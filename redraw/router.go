// Copyright © 2025 neovim-ink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: redraw/router.go
// Summary: Demultiplexes redraw batches into grid state machine calls.
// Usage: One router per session; Apply runs on the goroutine that owns the grid.

package redraw

import (
	"log"

	"github.com/ohwang/neovim-ink/grid"
)

// noopEvents are recognized protocol extensions this client deliberately
// ignores. They must never show up in the unknown-event diagnostics.
var noopEvents = map[string]struct{}{
	"mouse_on":     {},
	"mouse_off":    {},
	"set_title":    {},
	"set_icon":     {},
	"chdir":        {},
	"hl_group_set": {},
	"update_menu":  {},
	"win_viewport": {},
}

// Router applies redraw notification batches to a single grid. Multi-grid
// extensions are out of scope; grid ids in the tuples are decoded and
// ignored. Unknown event names are counted for diagnostics and otherwise
// dropped, so newer servers keep working against this client.
type Router struct {
	grid *grid.Grid

	// OnFlush is invoked for every flush event with the new generation and
	// the rows touched during the frame. This is the only point where the
	// grid is safe to read.
	OnFlush func(generation uint64, dirty []int)

	unknown map[string]int
}

// NewRouter wires a router to the grid it mutates.
func NewRouter(g *grid.Grid) *Router {
	return &Router{grid: g, unknown: make(map[string]int)}
}

// UnknownEvents returns how often each unrecognized event name arrived.
func (r *Router) UnknownEvents() map[string]int {
	out := make(map[string]int, len(r.unknown))
	for name, n := range r.unknown {
		out[name] = n
	}
	return out
}

// Apply consumes one "redraw" notification: a list of batches, each batch
// being [name, tuple, tuple, ...]. Servers coalesce repeated events of the
// same kind into one batch, so every tuple is applied, in order.
func (r *Router) Apply(batches []any) {
	for _, raw := range batches {
		batch, ok := raw.([]any)
		if !ok || len(batch) == 0 {
			log.Printf("Router: Dropping malformed batch %T", raw)
			continue
		}
		name, ok := batch[0].(string)
		if !ok {
			if b, isBytes := batch[0].([]byte); isBytes {
				name = string(b)
			} else {
				log.Printf("Router: Dropping batch with %T name", batch[0])
				continue
			}
		}
		r.Dispatch(name, batch[1:])
	}
}

// Dispatch applies every parameter tuple of one named event, in array
// order.
func (r *Router) Dispatch(name string, tuples []any) {
	if name == "option_set" {
		// Recognized but unused; log once per batch so the stream stays
		// inspectable without drowning the log.
		log.Printf("Router: Ignoring option_set (%d entries)", len(tuples))
		return
	}
	if _, ok := noopEvents[name]; ok {
		return
	}

	if len(tuples) == 0 {
		// Parameterless events may arrive without their empty tuple.
		ev, err := Decode(name, nil)
		if err == nil && ev != nil {
			r.apply(ev)
		} else if err == nil {
			r.recordUnknown(name)
		}
		return
	}

	for _, raw := range tuples {
		tuple, ok := raw.([]any)
		if !ok {
			log.Printf("Router: Dropping %s tuple of type %T", name, raw)
			continue
		}
		ev, err := Decode(name, tuple)
		if err != nil {
			log.Printf("Router: Failed to decode %s: %v", name, err)
			continue
		}
		if ev == nil {
			r.recordUnknown(name)
			continue
		}
		r.apply(ev)
	}
}

func (r *Router) recordUnknown(name string) {
	if r.unknown[name] == 0 {
		log.Printf("Router: Unhandled event %q", name)
	}
	r.unknown[name]++
}

func (r *Router) apply(ev Event) {
	switch e := ev.(type) {
	case GridResize:
		r.grid.Resize(e.Width, e.Height)
	case GridLine:
		r.grid.WriteLine(e.Row, e.StartCol, e.Runs)
	case GridCursorGoto:
		r.grid.CursorGoto(e.Row, e.Col)
	case GridScroll:
		r.grid.Scroll(e.Top, e.Bot, e.Left, e.Right, e.Delta)
	case GridClear:
		r.grid.Clear()
	case HlAttrDefine:
		r.grid.DefineHighlight(e.ID, e.Attrs)
	case DefaultColorsSet:
		r.grid.SetDefaultColors(e.Fg, e.Bg, e.Special)
	case ModeInfoSet:
		r.grid.SetModeInfo(e.Modes)
	case ModeChange:
		r.grid.SetMode(e.Name, e.Index)
	case BusyStart:
		r.grid.SetBusy(true)
	case BusyStop:
		r.grid.SetBusy(false)
	case Flush:
		generation, dirty := r.grid.Flush()
		if r.OnFlush != nil {
			r.OnFlush(generation, dirty)
		}
	}
}
