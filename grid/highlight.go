// Copyright © 2025 neovim-ink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/highlight.go
// Summary: Highlight attribute entries referenced by cells through their id.

package grid

// HighlightAttrs describes the styling for one highlight id. Color channels
// left at ColorNone fall through to the grid defaults. Defining an id fully
// replaces any earlier entry; fields are never merged.
type HighlightAttrs struct {
	Fg      Color
	Bg      Color
	Special Color

	Reverse       bool
	Italic        bool
	Bold          bool
	Strikethrough bool
	Dim           bool

	// Underline variants. When several are set the renderer picks one,
	// in the order undercurl, underdouble, underdotted, underdashed,
	// underline.
	Underline   bool
	Undercurl   bool
	Underdouble bool
	Underdotted bool
	Underdashed bool

	// Blend is carried through from the protocol but not rendered.
	Blend int
}

// NewHighlightAttrs returns an entry with all color channels unset.
// The zero value is unusable because Color 0 is a valid black.
func NewHighlightAttrs() HighlightAttrs {
	return HighlightAttrs{Fg: ColorNone, Bg: ColorNone, Special: ColorNone}
}

// HasUnderline reports whether any underline variant is active.
func (a HighlightAttrs) HasUnderline() bool {
	return a.Underline || a.Undercurl || a.Underdouble || a.Underdotted || a.Underdashed
}
