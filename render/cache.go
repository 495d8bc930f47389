// Copyright © 2025 neovim-ink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/cache.go
// Summary: Generation-keyed cache of rendered rows between frames.
// Usage: The display path syncs it once per flush and repaints the returned rows.

package render

import (
	"sort"

	"github.com/ohwang/neovim-ink/grid"
)

// Cache keeps the last rendered form of every grid row so a frame only
// repaints what the flush reported dirty, plus the rows the cursor moved
// between. Staleness is decided by the grid's generation counter, never by
// comparing buffers; rows are mutated in place upstream.
type Cache struct {
	rows       []string
	generation uint64
	cursorRow  int
	primed     bool
}

// RowUpdate is one row whose rendered text changed this frame.
type RowUpdate struct {
	Row  int
	Text string
}

// NewCache returns an empty cache; the first Sync renders every row.
func NewCache() *Cache {
	return &Cache{cursorRow: -1}
}

// Generation returns the grid generation of the last completed Sync.
func (c *Cache) Generation() uint64 { return c.generation }

// Sync brings the cache up to date with g after a flush that reported the
// given dirty rows. It returns the rows whose rendered text actually
// changed, in ascending order. Calling it again without an intervening
// flush returns nothing.
func (c *Cache) Sync(g *grid.Grid, dirty []int) []RowUpdate {
	if c.primed && g.Generation() == c.generation {
		return nil
	}

	height := g.Height()
	if len(c.rows) != height {
		c.rows = make([]string, height)
		c.primed = false
	}

	want := make(map[int]struct{}, len(dirty)+2)
	if c.primed {
		for _, y := range dirty {
			want[y] = struct{}{}
		}
	} else {
		for y := 0; y < height; y++ {
			want[y] = struct{}{}
		}
	}

	cursor := g.Cursor()
	cursorRow := -1
	if cursor.Visible && cursor.Row >= 0 && cursor.Row < height {
		cursorRow = cursor.Row
	}
	if cursorRow != c.cursorRow {
		if c.cursorRow >= 0 && c.cursorRow < height {
			want[c.cursorRow] = struct{}{}
		}
		if cursorRow >= 0 {
			want[cursorRow] = struct{}{}
		}
	} else if cursorRow >= 0 {
		// Same row, but the column or mode may have moved within it.
		want[cursorRow] = struct{}{}
	}

	mode := g.CurrentMode()
	var cursorAttr *grid.HighlightAttrs
	if mode.AttrID != 0 {
		a := g.Attr(mode.AttrID)
		cursorAttr = &a
	}

	updates := make([]RowUpdate, 0, len(want))
	for y := range want {
		if y < 0 || y >= height {
			continue
		}
		var text string
		if y == cursorRow {
			text = RowWithCursor(g.Row(y), g, cursor.Col, mode.Shape, cursorAttr)
		} else {
			text = Row(g.Row(y), g)
		}
		if text != c.rows[y] {
			c.rows[y] = text
			updates = append(updates, RowUpdate{Row: y, Text: text})
		}
	}
	sort.Slice(updates, func(i, j int) bool { return updates[i].Row < updates[j].Row })

	c.generation = g.Generation()
	c.cursorRow = cursorRow
	c.primed = true
	return updates
}
