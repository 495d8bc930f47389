// Copyright © 2025 neovim-ink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/display.go
// Summary: Writes rendered rows to the terminal with cursor addressing.

package term

import (
	"bufio"
	"io"
	"strconv"

	"github.com/ohwang/neovim-ink/render"
)

// Display paints frames. Each changed row is addressed and rewritten whole;
// the writer is buffered so one frame reaches the tty as one write.
type Display struct {
	w *bufio.Writer
}

func NewDisplay(w io.Writer) *Display {
	return &Display{w: bufio.NewWriterSize(w, 1<<16)}
}

// Paint writes a batch of row updates and flushes them as a unit.
func (d *Display) Paint(updates []render.RowUpdate) error {
	for _, u := range updates {
		d.moveTo(u.Row)
		d.w.WriteString(u.Text)
		d.w.WriteString("\x1b[K")
	}
	return d.w.Flush()
}

// Clear wipes the screen, used after resizes so stale cells outside the new
// grid cannot linger.
func (d *Display) Clear() error {
	d.w.WriteString("\x1b[2J")
	return d.w.Flush()
}

func (d *Display) moveTo(row int) {
	d.w.WriteString("\x1b[")
	d.w.WriteString(strconv.Itoa(row + 1))
	d.w.WriteString(";1H")
}
