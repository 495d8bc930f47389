// Copyright © 2025 neovim-ink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/grid_test.go
// Summary: Exercises the redraw state machine to keep its invariants reliable.
// Usage: Executed during `go test` to guard against regressions.

package grid

import (
	"strconv"
	"testing"
)

func TestNewGridIsBlank(t *testing.T) {
	g := New(4, 3)
	if g.Width() != 4 || g.Height() != 3 {
		t.Fatalf("unexpected dimensions %dx%d", g.Width(), g.Height())
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if c := g.CellAt(y, x); c.Text != " " || c.HlID != 0 {
				t.Fatalf("cell (%d,%d) not blank: %+v", y, x, c)
			}
		}
	}
	if !g.Cursor().Visible {
		t.Fatal("cursor should start visible")
	}
}

func TestWriteLineRepeat(t *testing.T) {
	g := New(8, 2)
	g.WriteLine(0, 0, []Run{{Text: "x", HlID: 0, Repeat: 5}})
	for x := 0; x < 5; x++ {
		if c := g.CellAt(0, x); c.Text != "x" || c.HlID != 0 {
			t.Fatalf("col %d = %+v, want x/0", x, c)
		}
	}
	if c := g.CellAt(0, 5); c.Text != " " {
		t.Fatalf("col 5 should be untouched, got %+v", c)
	}
}

func TestWriteLineInheritsHighlight(t *testing.T) {
	g := New(10, 1)
	g.WriteLine(0, 0, []Run{
		{Text: "a", HlID: 7},
		{Text: "b", HlID: -1},
		{Text: "c", HlID: 2, Repeat: 2},
		{Text: "d", HlID: -1},
	})
	want := []int{7, 7, 2, 2, 2}
	for x, id := range want {
		if c := g.CellAt(0, x); c.HlID != id {
			t.Errorf("col %d hl = %d, want %d", x, c.HlID, id)
		}
	}
}

func TestWriteLineFirstRunWithoutHighlight(t *testing.T) {
	g := New(4, 1)
	g.WriteLine(0, 0, []Run{{Text: "q", HlID: -1}})
	if c := g.CellAt(0, 0); c.HlID != 0 {
		t.Fatalf("expected hl 0, got %d", c.HlID)
	}
}

func TestWriteLineDropsPastWidth(t *testing.T) {
	g := New(3, 1)
	g.WriteLine(0, 1, []Run{{Text: "z", HlID: 1, Repeat: 10}})
	if c := g.CellAt(0, 0); c.Text != " " {
		t.Fatalf("col 0 should be untouched, got %+v", c)
	}
	for x := 1; x < 3; x++ {
		if c := g.CellAt(0, x); c.Text != "z" {
			t.Fatalf("col %d = %+v, want z", x, c)
		}
	}
	// Row past the bottom is ignored entirely.
	g.WriteLine(5, 0, []Run{{Text: "z", HlID: 1}})
}

func TestResizePreservesContent(t *testing.T) {
	g := New(4, 3)
	g.WriteLine(1, 0, []Run{{Text: "a", HlID: 3, Repeat: 4}})
	g.Resize(6, 5)
	for x := 0; x < 4; x++ {
		if c := g.CellAt(1, x); c.Text != "a" || c.HlID != 3 {
			t.Fatalf("cell (1,%d) lost content: %+v", x, c)
		}
	}
	for x := 4; x < 6; x++ {
		if c := g.CellAt(1, x); c.Text != " " || c.HlID != 0 {
			t.Fatalf("grown cell (1,%d) not blank: %+v", x, c)
		}
	}
	for x := 0; x < 6; x++ {
		if c := g.CellAt(4, x); c.Text != " " {
			t.Fatalf("new row cell (4,%d) not blank: %+v", x, c)
		}
	}
	_, dirty := g.Flush()
	if len(dirty) != 5 {
		t.Fatalf("resize should dirty every row, got %v", dirty)
	}
}

func TestResizeShrink(t *testing.T) {
	g := New(4, 4)
	g.WriteLine(0, 0, []Run{{Text: "k", HlID: 1, Repeat: 4}})
	g.Resize(2, 2)
	if g.Width() != 2 || g.Height() != 2 {
		t.Fatalf("unexpected dimensions %dx%d", g.Width(), g.Height())
	}
	if c := g.CellAt(0, 1); c.Text != "k" {
		t.Fatalf("retained cell lost: %+v", c)
	}
	if c := g.CellAt(0, 2); c.Text != " " || c.HlID != 0 {
		t.Fatalf("out-of-range read should be blank, got %+v", c)
	}
}

func digitRows(t *testing.T, g *Grid, width int) {
	t.Helper()
	for y := 0; y < g.Height(); y++ {
		g.WriteLine(y, 0, []Run{{Text: strconv.Itoa(y), HlID: 0, Repeat: width}})
	}
}

func TestScrollUp(t *testing.T) {
	g := New(4, 5)
	digitRows(t, g, 4)
	g.Scroll(0, 5, 0, 4, 1)
	for y := 0; y < 4; y++ {
		want := strconv.Itoa(y + 1)
		if c := g.CellAt(y, 0); c.Text != want {
			t.Errorf("row %d = %q, want %q", y, c.Text, want)
		}
	}
	if c := g.CellAt(4, 0); c.Text != " " {
		t.Errorf("vacated row 4 = %q, want blank", c.Text)
	}
}

func TestScrollDown(t *testing.T) {
	g := New(4, 5)
	digitRows(t, g, 4)
	g.Scroll(0, 5, 0, 4, -1)
	if c := g.CellAt(0, 0); c.Text != " " {
		t.Errorf("vacated row 0 = %q, want blank", c.Text)
	}
	for y := 1; y < 5; y++ {
		want := strconv.Itoa(y - 1)
		if c := g.CellAt(y, 0); c.Text != want {
			t.Errorf("row %d = %q, want %q", y, c.Text, want)
		}
	}
}

func TestScrollSubRectangle(t *testing.T) {
	g := New(6, 4)
	for y := 0; y < 4; y++ {
		g.WriteLine(y, 0, []Run{{Text: strconv.Itoa(y), HlID: 0, Repeat: 6}})
	}
	g.Scroll(1, 3, 2, 4, 1)
	// Columns outside [2,4) keep their rows.
	if c := g.CellAt(1, 0); c.Text != "1" {
		t.Errorf("untouched column moved: %q", c.Text)
	}
	if c := g.CellAt(1, 2); c.Text != "2" {
		t.Errorf("scrolled column = %q, want 2", c.Text)
	}
	if c := g.CellAt(2, 2); c.Text != " " {
		t.Errorf("vacated span = %q, want blank", c.Text)
	}
	if c := g.CellAt(0, 2); c.Text != "0" {
		t.Errorf("row above region moved: %q", c.Text)
	}
	if c := g.CellAt(3, 2); c.Text != "3" {
		t.Errorf("row below region moved: %q", c.Text)
	}
}

func TestScrollMarksTouchedRowsDirty(t *testing.T) {
	g := New(4, 6)
	g.Flush()
	g.Scroll(1, 5, 0, 4, 2)
	_, dirty := g.Flush()
	want := []int{1, 2, 3, 4}
	if len(dirty) != len(want) {
		t.Fatalf("dirty rows = %v, want %v", dirty, want)
	}
	for i, y := range want {
		if dirty[i] != y {
			t.Fatalf("dirty rows = %v, want %v", dirty, want)
		}
	}
}

func TestClear(t *testing.T) {
	g := New(3, 2)
	g.WriteLine(0, 0, []Run{{Text: "a", HlID: 9, Repeat: 3}})
	g.Clear()
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if c := g.CellAt(y, x); c.Text != " " || c.HlID != 0 {
				t.Fatalf("cell (%d,%d) not cleared: %+v", y, x, c)
			}
		}
	}
}

func TestDefineHighlightReplaces(t *testing.T) {
	g := New(1, 1)
	a := NewHighlightAttrs()
	a.Bold = true
	a.Fg = 0xFF0000
	g.DefineHighlight(5, a)

	b := NewHighlightAttrs()
	b.Italic = true
	g.DefineHighlight(5, b)

	got := g.Attr(5)
	if got.Bold || got.Fg != ColorNone {
		t.Fatalf("redefine should fully replace, got %+v", got)
	}
	if !got.Italic {
		t.Fatal("redefined entry lost its italic flag")
	}
}

func TestAttrZeroAndUnknown(t *testing.T) {
	g := New(1, 1)
	for _, id := range []int{0, 42} {
		a := g.Attr(id)
		if a.Fg != ColorNone || a.Bg != ColorNone || a.Special != ColorNone {
			t.Fatalf("id %d should resolve to defaults, got %+v", id, a)
		}
		if a.Bold || a.Reverse || a.HasUnderline() {
			t.Fatalf("id %d should carry no decoration, got %+v", id, a)
		}
	}
}

func TestSetDefaultColorsSentinel(t *testing.T) {
	g := New(2, 2)
	g.SetDefaultColors(0x112233, 0x445566, 0x778899)
	g.SetDefaultColors(ColorNone, 0xABCDEF, ColorNone)
	d := g.Defaults()
	if d.Fg != 0x112233 || d.Bg != 0xABCDEF || d.Special != 0x778899 {
		t.Fatalf("defaults = %+v", d)
	}
	_, dirty := g.Flush()
	if len(dirty) != 2 {
		t.Fatalf("default color change should dirty all rows, got %v", dirty)
	}
}

func TestCursorGotoUnclamped(t *testing.T) {
	g := New(4, 4)
	g.CursorGoto(2, 3)
	if c := g.Cursor(); c.Row != 2 || c.Col != 3 {
		t.Fatalf("cursor = %+v", c)
	}
}

func TestModeAndBusy(t *testing.T) {
	g := New(2, 2)
	g.SetModeInfo([]ModeInfo{
		{Shape: ShapeBlock, Name: "normal"},
		{Shape: ShapeVertical, Name: "insert", AttrID: 4},
	})
	g.SetMode("insert", 1)
	if g.ModeName() != "insert" {
		t.Fatalf("mode name = %q", g.ModeName())
	}
	if m := g.CurrentMode(); m.Shape != ShapeVertical || m.AttrID != 4 {
		t.Fatalf("current mode = %+v", m)
	}

	g.SetMode("weird", 9)
	if m := g.CurrentMode(); m.Shape != ShapeBlock {
		t.Fatalf("unknown mode index should fall back to block, got %+v", m)
	}

	g.SetBusy(true)
	if g.Cursor().Visible {
		t.Fatal("busy editor should hide the cursor")
	}
	g.SetBusy(false)
	if !g.Cursor().Visible {
		t.Fatal("cursor should be visible again")
	}
}

func TestFlushIdempotence(t *testing.T) {
	g := New(2, 2)
	g.WriteLine(0, 0, []Run{{Text: "a", HlID: 0}})

	gen1, dirty1 := g.Flush()
	if len(dirty1) != 1 || dirty1[0] != 0 {
		t.Fatalf("first flush dirty = %v", dirty1)
	}
	gen2, dirty2 := g.Flush()
	if gen2 != gen1+1 {
		t.Fatalf("generation jumped from %d to %d", gen1, gen2)
	}
	if len(dirty2) != 0 {
		t.Fatalf("second flush should report no dirty rows, got %v", dirty2)
	}
}

func TestShapeFromName(t *testing.T) {
	cases := map[string]CursorShape{
		"block":      ShapeBlock,
		"horizontal": ShapeHorizontal,
		"vertical":   ShapeVertical,
		"":           ShapeBlock,
		"banana":     ShapeBlock,
	}
	for name, want := range cases {
		if got := ShapeFromName(name); got != want {
			t.Errorf("ShapeFromName(%q) = %v, want %v", name, got, want)
		}
	}
}
