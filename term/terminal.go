// Copyright © 2025 neovim-ink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/terminal.go
// Summary: Raw-mode lifecycle and escape-sequence control of the host terminal.

package term

import (
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/term"
)

// Control sequences toggled on Setup and undone on Restore.
const (
	altScreenOn  = "\x1b[?1049h"
	altScreenOff = "\x1b[?1049l"
	mouseOn      = "\x1b[?1002h\x1b[?1006h"
	mouseOff     = "\x1b[?1006l\x1b[?1002l"
	pasteOn      = "\x1b[?2004h"
	pasteOff     = "\x1b[?2004l"
	cursorHide   = "\x1b[?25l"
	cursorShow   = "\x1b[?25h"
	clearScreen  = "\x1b[2J"
)

// Terminal owns the controlling tty for the duration of a session. The
// block cursor the editor shows is painted as cell styling, so the hardware
// cursor stays hidden while we run.
type Terminal struct {
	in       *os.File
	out      io.Writer
	oldState *term.State
	mouse    bool
}

// Open prepares stdin/stdout. Mouse reporting is optional since some users
// prefer the terminal's own selection behavior.
func Open(mouse bool) (*Terminal, error) {
	t := &Terminal{in: os.Stdin, out: os.Stdout, mouse: mouse}
	if !term.IsTerminal(int(t.in.Fd())) {
		return nil, fmt.Errorf("term: stdin is not a terminal")
	}
	return t, nil
}

// Setup switches to raw mode and the alternate screen. Always pair with
// Restore, including on panic paths.
func (t *Terminal) Setup() error {
	st, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return fmt.Errorf("term: entering raw mode: %w", err)
	}
	t.oldState = st
	io.WriteString(t.out, altScreenOn+clearScreen+cursorHide+pasteOn)
	if t.mouse {
		io.WriteString(t.out, mouseOn)
	}
	return nil
}

// Restore undoes Setup. Safe to call more than once.
func (t *Terminal) Restore() {
	if t.mouse {
		io.WriteString(t.out, mouseOff)
	}
	io.WriteString(t.out, pasteOff+cursorShow+altScreenOff)
	if t.oldState != nil {
		if err := term.Restore(int(t.in.Fd()), t.oldState); err != nil {
			log.Printf("Terminal: Restore failed: %v", err)
		}
		t.oldState = nil
	}
}

// Size reports the current tty dimensions in cells.
func (t *Terminal) Size() (width, height int, err error) {
	return term.GetSize(int(t.in.Fd()))
}

// Input exposes the raw input stream for the reader.
func (t *Terminal) Input() io.Reader { return t.in }

func (t *Terminal) Write(p []byte) (int, error) { return t.out.Write(p) }
