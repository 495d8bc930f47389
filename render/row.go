// Copyright © 2025 neovim-ink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/row.go
// Summary: Turns grid rows into ANSI-escaped strings, with cursor overlay.
// Usage: Called by the display path after the router reports a flush.

package render

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ohwang/neovim-ink/grid"
)

// cursorBar replaces the glyph under a vertical-shape cursor.
const cursorBar = "▏"

// Source supplies the attribute table and default colors a row is rendered
// against. *grid.Grid satisfies it.
type Source interface {
	Attr(id int) grid.HighlightAttrs
	Defaults() grid.DefaultColors
}

// Row renders one row of cells. It emits exactly one reset-and-restyle
// sequence per contiguous run of cells sharing a highlight id, plus a
// trailing reset; same-id neighbors never cause a style change. Continuation
// cells of a wide glyph are consumed silently when the lead glyph already
// covered their column, and paint a plain space otherwise.
func Row(cells []grid.Cell, src Source) string {
	var b strings.Builder
	def := src.Defaults()
	last := -1
	skip := false
	for i, c := range cells {
		if i == 0 || c.HlID != last {
			b.WriteString(sgr(resolve(src.Attr(c.HlID), def)))
			last = c.HlID
		}
		skip = writeGlyph(&b, c.Text, skip)
	}
	b.WriteString(sgrReset)
	return b.String()
}

// RowWithCursor renders like Row but overrides styling at cursorCol
// according to the cursor shape:
//
//   - block inverts the cell's resolved foreground/background,
//   - horizontal keeps the colors and adds an underline,
//   - vertical keeps the colors and paints a left-eighth-block bar
//     instead of the glyph.
//
// cursorAttr, when non-nil, overrides the resulting foreground and
// background channels independently. The glyph at the cursor column is
// always consumed, never skipped.
func RowWithCursor(cells []grid.Cell, src Source, cursorCol int, shape grid.CursorShape, cursorAttr *grid.HighlightAttrs) string {
	var b strings.Builder
	def := src.Defaults()
	last := -1
	skip := false
	for i, c := range cells {
		if i == cursorCol {
			base := resolve(src.Attr(c.HlID), def)
			b.WriteString(cursorSGR(base, shape, cursorAttr))
			glyph := c.Text
			if glyph == "" || shape == grid.ShapeVertical {
				if shape == grid.ShapeVertical {
					glyph = cursorBar
				} else {
					glyph = " "
				}
			}
			b.WriteString(glyph)
			skip = runewidth.StringWidth(glyph) > 1
			last = -1 // the run's style must be re-established after the cursor
			continue
		}
		if i == 0 || c.HlID != last {
			b.WriteString(sgr(resolve(src.Attr(c.HlID), def)))
			last = c.HlID
		}
		skip = writeGlyph(&b, c.Text, skip)
	}
	b.WriteString(sgrReset)
	return b.String()
}

func writeGlyph(b *strings.Builder, text string, skip bool) bool {
	if text == "" {
		if !skip {
			b.WriteString(" ")
		}
		return false
	}
	b.WriteString(text)
	return runewidth.StringWidth(text) > 1
}

// cursorSGR styles the cell under the cursor. base carries the cell's
// post-reverse resolved colors.
func cursorSGR(base resolved, shape grid.CursorShape, cursorAttr *grid.HighlightAttrs) string {
	fg, bg := base.fg, base.bg
	if shape == grid.ShapeBlock {
		fg, bg = bg, fg
	}
	if cursorAttr != nil {
		if cursorAttr.Fg != grid.ColorNone {
			fg = cursorAttr.Fg
		}
		if cursorAttr.Bg != grid.ColorNone {
			bg = cursorAttr.Bg
		}
	}
	attrs := base.attrs
	attrs.Reverse = false // resolution already swapped the channels
	if shape == grid.ShapeHorizontal {
		attrs.Underline = true
	}
	if shape == grid.ShapeBlock && fg == grid.ColorNone && bg == grid.ColorNone {
		// Nothing to invert; reverse video is the only way to show the cursor.
		return "\x1b[0;7m"
	}
	return sgr(resolved{attrs: attrs, fg: fg, bg: bg, special: base.special})
}
