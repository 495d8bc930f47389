// Copyright © 2025 neovim-ink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/grid.go
// Summary: Cell buffer state machine driven by the editor's redraw stream.
// Usage: Mutated by the redraw router, read by the renderer after Flush.

package grid

import "sort"

// Grid owns the cell buffer, the highlight attribute table, the default
// colors, the cursor and the per-mode cursor descriptors. All mutation goes
// through the redraw operations below; they are applied in protocol arrival
// order by a single goroutine. Readers wait for Flush, which marks the only
// safe read boundary, and use the generation counter as the staleness
// check (rows are mutated in place, so identity comparison tells nothing).
type Grid struct {
	width  int
	height int
	cells  [][]Cell

	attrs    map[int]HighlightAttrs
	defaults DefaultColors
	cursor   Cursor
	modes    []ModeInfo
	modeName string

	generation uint64
	dirty      map[int]struct{}
}

// New creates a grid with the given initial dimensions. Every cell starts
// blank with highlight id 0.
func New(width, height int) *Grid {
	g := &Grid{
		width:    width,
		height:   height,
		cells:    make([][]Cell, height),
		attrs:    make(map[int]HighlightAttrs),
		defaults: DefaultColors{Fg: ColorNone, Bg: ColorNone, Special: ColorNone},
		cursor:   Cursor{Visible: true},
		dirty:    make(map[int]struct{}),
	}
	for y := range g.cells {
		g.cells[y] = blankRow(width)
	}
	return g
}

func blankRow(width int) []Cell {
	row := make([]Cell, width)
	for x := range row {
		row[x] = blank
	}
	return row
}

// Width returns the column count.
func (g *Grid) Width() int { return g.width }

// Height returns the row count.
func (g *Grid) Height() int { return g.height }

// Row returns the cells of one row. The slice is the live buffer; callers
// must only read it between Flush and the next dispatched batch.
func (g *Grid) Row(y int) []Cell {
	if y < 0 || y >= g.height {
		return nil
	}
	return g.cells[y]
}

// CellAt returns the cell at the given position, or a blank cell when the
// position is out of range.
func (g *Grid) CellAt(y, x int) Cell {
	if y < 0 || y >= g.height || x < 0 || x >= g.width {
		return blank
	}
	return g.cells[y][x]
}

// Generation returns the frame counter incremented by every Flush.
func (g *Grid) Generation() uint64 { return g.generation }

// Cursor returns the current cursor state.
func (g *Grid) Cursor() Cursor { return g.cursor }

// ModeName returns the name supplied by the last mode_change event.
func (g *Grid) ModeName() string { return g.modeName }

// CurrentMode returns the mode table entry for the cursor's mode index.
// A missing entry yields a block cursor.
func (g *Grid) CurrentMode() ModeInfo {
	if g.cursor.Mode >= 0 && g.cursor.Mode < len(g.modes) {
		return g.modes[g.cursor.Mode]
	}
	return ModeInfo{Shape: ShapeBlock}
}

// Attr resolves a highlight id. Id 0 and unknown ids resolve to the
// implicit default entry: no decoration, all channels unset.
func (g *Grid) Attr(id int) HighlightAttrs {
	if id != 0 {
		if a, ok := g.attrs[id]; ok {
			return a
		}
	}
	return NewHighlightAttrs()
}

// Defaults returns the default color triple.
func (g *Grid) Defaults() DefaultColors { return g.defaults }

func (g *Grid) markDirty(row int) {
	g.dirty[row] = struct{}{}
}

func (g *Grid) markAllDirty() {
	for y := 0; y < g.height; y++ {
		g.dirty[y] = struct{}{}
	}
}

// Resize grows or shrinks the grid. Content in the retained region is
// preserved; new rows and columns come up blank.
func (g *Grid) Resize(width, height int) {
	if width < 0 || height < 0 {
		return
	}
	cells := make([][]Cell, height)
	for y := range cells {
		if y < g.height {
			row := g.cells[y]
			if width <= len(row) {
				cells[y] = row[:width]
			} else {
				grown := make([]Cell, width)
				copy(grown, row)
				for x := len(row); x < width; x++ {
					grown[x] = blank
				}
				cells[y] = grown
			}
		} else {
			cells[y] = blankRow(width)
		}
	}
	g.cells = cells
	g.width = width
	g.height = height
	g.dirty = make(map[int]struct{})
	g.markAllDirty()
}

// WriteLine applies a run sequence starting at startCol. A run without an
// explicit highlight id (HlID -1) inherits the id of the previous run in the
// same call, starting from 0. Cells that would land at or past the right
// edge are dropped silently.
func (g *Grid) WriteLine(row, startCol int, runs []Run) {
	if row < 0 || row >= g.height {
		return
	}
	col := startCol
	last := 0
	for _, run := range runs {
		if run.HlID >= 0 {
			last = run.HlID
		}
		repeat := run.Repeat
		if repeat <= 0 {
			repeat = 1
		}
		for i := 0; i < repeat; i++ {
			if col >= g.width {
				g.markDirty(row)
				return
			}
			if col >= 0 {
				g.cells[row][col] = Cell{Text: run.Text, HlID: last}
			}
			col++
		}
	}
	g.markDirty(row)
}

// CursorGoto sets the cursor position verbatim. The protocol is trusted to
// send valid coordinates, so no clamping happens here.
func (g *Grid) CursorGoto(row, col int) {
	g.cursor.Row = row
	g.cursor.Col = col
}

// Scroll shifts the sub-rectangle [top,bot) x [left,right) vertically by
// delta rows. Positive delta moves content up; the rows vacated at the
// bottom of the region are cleared. Negative delta is the mirror image.
// Every row that received content or was cleared is marked dirty.
func (g *Grid) Scroll(top, bot, left, right, delta int) {
	if top < 0 {
		top = 0
	}
	if bot > g.height {
		bot = g.height
	}
	if left < 0 {
		left = 0
	}
	if right > g.width {
		right = g.width
	}
	if top >= bot || left >= right || delta == 0 {
		return
	}

	if delta > 0 {
		for y := top; y < bot-delta; y++ {
			copy(g.cells[y][left:right], g.cells[y+delta][left:right])
			g.markDirty(y)
		}
		start := bot - delta
		if start < top {
			start = top
		}
		for y := start; y < bot; y++ {
			g.clearSpan(y, left, right)
			g.markDirty(y)
		}
	} else {
		n := -delta
		for y := bot - 1; y >= top+n; y-- {
			copy(g.cells[y][left:right], g.cells[y-n][left:right])
			g.markDirty(y)
		}
		end := top + n
		if end > bot {
			end = bot
		}
		for y := top; y < end; y++ {
			g.clearSpan(y, left, right)
			g.markDirty(y)
		}
	}
}

func (g *Grid) clearSpan(row, left, right int) {
	for x := left; x < right; x++ {
		g.cells[row][x] = blank
	}
}

// Clear resets every cell to blank with highlight id 0.
func (g *Grid) Clear() {
	for y := 0; y < g.height; y++ {
		g.clearSpan(y, 0, g.width)
	}
	g.markAllDirty()
}

// DefineHighlight replaces the attribute table entry for id.
func (g *Grid) DefineHighlight(id int, attrs HighlightAttrs) {
	g.attrs[id] = attrs
}

// SetDefaultColors updates the default color triple. ColorNone on a channel
// leaves that channel untouched. Every row is marked dirty because any cell
// whose highlight leaves a channel unset renders differently now.
func (g *Grid) SetDefaultColors(fg, bg, sp Color) {
	if fg != ColorNone {
		g.defaults.Fg = fg
	}
	if bg != ColorNone {
		g.defaults.Bg = bg
	}
	if sp != ColorNone {
		g.defaults.Special = sp
	}
	g.markAllDirty()
}

// SetModeInfo replaces the mode table. Order is the mode index.
func (g *Grid) SetModeInfo(modes []ModeInfo) {
	g.modes = modes
}

// SetMode sets the cursor's active mode index. The name is informational.
func (g *Grid) SetMode(name string, index int) {
	g.modeName = name
	g.cursor.Mode = index
}

// SetBusy toggles cursor visibility; a busy editor hides the cursor.
func (g *Grid) SetBusy(busy bool) {
	g.cursor.Visible = !busy
}

// Flush marks the end of a frame: it bumps the generation counter, returns
// the rows touched since the previous Flush in ascending order, and clears
// the dirty set. Consumers must treat this as the only point where the
// buffer is safe to read.
func (g *Grid) Flush() (generation uint64, dirty []int) {
	g.generation++
	dirty = make([]int, 0, len(g.dirty))
	for y := range g.dirty {
		dirty = append(dirty, y)
	}
	sort.Ints(dirty)
	g.dirty = make(map[int]struct{})
	return g.generation, dirty
}
