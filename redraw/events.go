// Copyright © 2025 neovim-ink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: redraw/events.go
// Summary: Typed redraw events, one variant per protocol event name.

package redraw

import "github.com/ohwang/neovim-ink/grid"

// Event is one decoded redraw instruction. The protocol's loosely typed
// positional tuples are converted into these variants exactly once, at the
// boundary; everything past Decode works with concrete fields.
type Event interface {
	eventName() string
}

// GridResize changes the grid dimensions.
type GridResize struct {
	Grid   int
	Width  int
	Height int
}

// GridLine writes a run sequence into one row.
type GridLine struct {
	Grid     int
	Row      int
	StartCol int
	Runs     []grid.Run
}

// GridCursorGoto repositions the cursor.
type GridCursorGoto struct {
	Grid int
	Row  int
	Col  int
}

// GridScroll shifts a sub-rectangle vertically.
type GridScroll struct {
	Grid  int
	Top   int
	Bot   int
	Left  int
	Right int
	Delta int
}

// GridClear blanks the whole grid.
type GridClear struct {
	Grid int
}

// HlAttrDefine upserts one highlight table entry.
type HlAttrDefine struct {
	ID    int
	Attrs grid.HighlightAttrs
}

// DefaultColorsSet updates the default color triple; ColorNone channels are
// left untouched.
type DefaultColorsSet struct {
	Fg      grid.Color
	Bg      grid.Color
	Special grid.Color
}

// ModeInfoSet replaces the cursor mode table.
type ModeInfoSet struct {
	CursorStyleEnabled bool
	Modes              []grid.ModeInfo
}

// ModeChange selects the active mode index.
type ModeChange struct {
	Name  string
	Index int
}

// BusyStart hides the cursor.
type BusyStart struct{}

// BusyStop shows the cursor again.
type BusyStop struct{}

// Flush marks the end of a frame.
type Flush struct{}

func (GridResize) eventName() string       { return "grid_resize" }
func (GridLine) eventName() string         { return "grid_line" }
func (GridCursorGoto) eventName() string   { return "grid_cursor_goto" }
func (GridScroll) eventName() string       { return "grid_scroll" }
func (GridClear) eventName() string        { return "grid_clear" }
func (HlAttrDefine) eventName() string     { return "hl_attr_define" }
func (DefaultColorsSet) eventName() string { return "default_colors_set" }
func (ModeInfoSet) eventName() string      { return "mode_info_set" }
func (ModeChange) eventName() string       { return "mode_change" }
func (BusyStart) eventName() string        { return "busy_start" }
func (BusyStop) eventName() string         { return "busy_stop" }
func (Flush) eventName() string            { return "flush" }
