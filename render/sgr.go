// Copyright © 2025 neovim-ink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/sgr.go
// Summary: Compiles highlight attributes into a single SGR escape sequence.

package render

import (
	"strconv"
	"strings"

	"github.com/ohwang/neovim-ink/grid"
)

// sgrReset restores the terminal's default rendition.
const sgrReset = "\x1b[0m"

// resolved is a highlight entry with its color channels settled against the
// grid defaults and the reverse flag already applied.
type resolved struct {
	attrs   grid.HighlightAttrs
	fg      grid.Color
	bg      grid.Color
	special grid.Color
}

func resolve(attrs grid.HighlightAttrs, def grid.DefaultColors) resolved {
	fg := attrs.Fg
	if fg == grid.ColorNone {
		fg = def.Fg
	}
	bg := attrs.Bg
	if bg == grid.ColorNone {
		bg = def.Bg
	}
	if attrs.Reverse {
		fg, bg = bg, fg
	}
	sp := attrs.Special
	if sp == grid.ColorNone {
		sp = def.Special
	}
	return resolved{attrs: attrs, fg: fg, bg: bg, special: sp}
}

func appendColor(parts []string, prefix string, c grid.Color) []string {
	if c == grid.ColorNone {
		return parts
	}
	r, g, b := c.RGB()
	return append(parts, prefix+";2;"+strconv.Itoa(int(r))+";"+strconv.Itoa(int(g))+";"+strconv.Itoa(int(b)))
}

// underlineCode picks the one underline variant to emit, in priority order.
// Empty means no underline at all.
func underlineCode(a grid.HighlightAttrs) string {
	switch {
	case a.Undercurl:
		return "4:3"
	case a.Underdouble:
		return "4:2"
	case a.Underdotted:
		return "4:4"
	case a.Underdashed:
		return "4:5"
	case a.Underline:
		return "4"
	default:
		return ""
	}
}

// sgr builds one reset-and-restyle sequence for a resolved highlight. The
// code order is fixed: reset, foreground, background, bold, italic,
// underline variant (with its color), strikethrough, dim.
func sgr(r resolved) string {
	parts := make([]string, 1, 8)
	parts[0] = "0"
	parts = appendColor(parts, "38", r.fg)
	parts = appendColor(parts, "48", r.bg)
	if r.attrs.Bold {
		parts = append(parts, "1")
	}
	if r.attrs.Italic {
		parts = append(parts, "3")
	}
	if code := underlineCode(r.attrs); code != "" {
		parts = append(parts, code)
		parts = appendColor(parts, "58", r.special)
	}
	if r.attrs.Strikethrough {
		parts = append(parts, "9")
	}
	if r.attrs.Dim {
		parts = append(parts, "2")
	}
	return "\x1b[" + strings.Join(parts, ";") + "m"
}
