// Copyright © 2025 neovim-ink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/reader.go
// Summary: Turns raw tty bytes into key, mouse, and paste events.

package term

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ohwang/neovim-ink/input"
)

// Event is one decoded unit of user input.
type Event interface{ inputEvent() }

// KeyInput is a single keypress.
type KeyInput struct{ Key input.KeyEvent }

// MouseInput is a decoded SGR mouse report.
type MouseInput struct{ Event input.MouseEvent }

// PasteInput carries the full body of one bracketed paste.
type PasteInput struct{ Text string }

func (KeyInput) inputEvent()   {}
func (MouseInput) inputEvent() {}
func (PasteInput) inputEvent() {}

// Reader parses the terminal's byte stream. Next blocks until a full event
// is available. Escape sequences are assumed to arrive within a single read
// chunk, which holds for local ttys; a lone ESC at the end of a chunk is
// reported as the Escape key.
type Reader struct {
	src io.Reader
	buf []byte
}

func NewReader(src io.Reader) *Reader {
	return &Reader{src: src}
}

func (r *Reader) fill() error {
	chunk := make([]byte, 4096)
	n, err := r.src.Read(chunk)
	if n > 0 {
		r.buf = append(r.buf, chunk[:n]...)
		return nil
	}
	if err == nil {
		err = io.EOF
	}
	return err
}

// Next returns the next decoded event. io.EOF signals a closed stream.
func (r *Reader) Next() (Event, error) {
	for {
		if len(r.buf) == 0 {
			if err := r.fill(); err != nil {
				return nil, err
			}
		}
		ev, n := r.decode()
		if n == 0 {
			// Incomplete sequence, need more bytes.
			if err := r.fill(); err != nil {
				return nil, err
			}
			continue
		}
		r.buf = r.buf[n:]
		if ev != nil {
			return ev, nil
		}
	}
}

// decode consumes one event from the front of the buffer. A zero count
// means the sequence is incomplete; a nil event with a positive count
// means the bytes were understood but produce nothing (unknown sequences).
func (r *Reader) decode() (Event, int) {
	b := r.buf[0]
	if b == 0x1b {
		return r.decodeEscape()
	}
	if b < 0x20 || b == 0x7f {
		return keyEvent(controlKey(b)), 1
	}
	ch, size := utf8.DecodeRune(r.buf)
	if ch == utf8.RuneError && size == 1 && !utf8.FullRune(r.buf) {
		return nil, 0
	}
	return keyEvent(input.KeyEvent{Key: input.KeyRune, Ch: string(r.buf[:size])}), size
}

func keyEvent(ev input.KeyEvent) Event { return KeyInput{Key: ev} }

func controlKey(b byte) input.KeyEvent {
	switch b {
	case 0x0d:
		return input.KeyEvent{Key: input.KeyEnter}
	case 0x09:
		return input.KeyEvent{Key: input.KeyTab}
	case 0x08:
		return input.KeyEvent{Key: input.KeyBackspace}
	case 0x7f:
		return input.KeyEvent{Key: input.KeyDelete}
	case 0x00:
		return input.KeyEvent{Key: input.KeyRune, Ch: " ", Mods: input.ModCtrl}
	}
	if b >= 0x01 && b <= 0x1a {
		return input.KeyEvent{Key: input.KeyRune, Ch: string(rune('a' + b - 1)), Mods: input.ModCtrl}
	}
	return input.KeyEvent{Key: input.KeyRune, Ch: string(rune(b))}
}

func (r *Reader) decodeEscape() (Event, int) {
	if len(r.buf) == 1 {
		// Nothing buffered behind it, treat as a real Escape press.
		return keyEvent(input.KeyEvent{Key: input.KeyEscape}), 1
	}
	switch r.buf[1] {
	case '[':
		return r.decodeCSI()
	case 'O':
		if len(r.buf) < 3 {
			return nil, 0
		}
		if ev, ok := cursorKey(r.buf[2], 0); ok {
			return keyEvent(ev), 3
		}
		return nil, 3
	}
	// ESC prefix marks Alt on the following key.
	ch, size := utf8.DecodeRune(r.buf[1:])
	if ch == utf8.RuneError && size == 1 && !utf8.FullRune(r.buf[1:]) {
		return nil, 0
	}
	if ch == utf8.RuneError {
		return nil, 1 + size
	}
	var ev input.KeyEvent
	if ch < 0x20 || ch == 0x7f {
		ev = controlKey(byte(ch))
	} else {
		ev = input.KeyEvent{Key: input.KeyRune, Ch: string(ch)}
	}
	ev.Mods |= input.ModAlt
	return keyEvent(ev), 1 + size
}

func (r *Reader) decodeCSI() (Event, int) {
	// Find the final byte. Parameters are digits, ';' and '<'.
	end := -1
	for i := 2; i < len(r.buf); i++ {
		if r.buf[i] >= 0x40 && r.buf[i] <= 0x7e {
			end = i
			break
		}
	}
	if end == -1 {
		return nil, 0
	}
	seq := string(r.buf[:end+1])
	body := seq[2 : len(seq)-1]
	final := seq[len(seq)-1]

	if strings.HasPrefix(body, "<") {
		if ev, ok := input.ParseMouseEvent(seq); ok {
			return MouseInput{Event: ev}, end + 1
		}
		return nil, end + 1
	}
	if seq == input.PasteStart {
		return r.decodePaste(end + 1)
	}

	params := strings.Split(body, ";")
	mods := xtermModifiers(params)

	switch final {
	case 'A', 'B', 'C', 'D', 'H', 'F':
		if ev, ok := cursorKey(final, mods); ok {
			return keyEvent(ev), end + 1
		}
	case 'Z':
		return keyEvent(input.KeyEvent{Key: input.KeyTab, Mods: input.ModShift}), end + 1
	case '~':
		code, _ := strconv.Atoi(params[0])
		if ev, ok := tildeKey(code, mods); ok {
			return keyEvent(ev), end + 1
		}
	}
	return nil, end + 1
}

// decodePaste consumes bytes until the paste terminator, refilling as
// needed, and reports everything in between verbatim.
func (r *Reader) decodePaste(start int) (Event, int) {
	for {
		if i := strings.Index(string(r.buf[start:]), input.PasteEnd); i >= 0 {
			text := string(r.buf[start : start+i])
			return PasteInput{Text: text}, start + i + len(input.PasteEnd)
		}
		if err := r.fill(); err != nil {
			// Unterminated paste at EOF, deliver what we have.
			return PasteInput{Text: string(r.buf[start:])}, len(r.buf)
		}
	}
}

// xtermModifiers maps the encoded modifier parameter (1 + bitmask) that
// xterm appends after cursor and function keys.
func xtermModifiers(params []string) input.Modifiers {
	if len(params) < 2 {
		return 0
	}
	code, err := strconv.Atoi(params[1])
	if err != nil || code < 2 {
		return 0
	}
	bits := code - 1
	var mods input.Modifiers
	if bits&1 != 0 {
		mods |= input.ModShift
	}
	if bits&2 != 0 {
		mods |= input.ModAlt
	}
	if bits&4 != 0 {
		mods |= input.ModCtrl
	}
	return mods
}

func cursorKey(final byte, mods input.Modifiers) (input.KeyEvent, bool) {
	var key input.Key
	switch final {
	case 'A':
		key = input.KeyUp
	case 'B':
		key = input.KeyDown
	case 'C':
		key = input.KeyRight
	case 'D':
		key = input.KeyLeft
	case 'H':
		key = input.KeyHome
	case 'F':
		key = input.KeyEnd
	default:
		return input.KeyEvent{}, false
	}
	return input.KeyEvent{Key: key, Mods: mods}, true
}

func tildeKey(code int, mods input.Modifiers) (input.KeyEvent, bool) {
	var key input.Key
	switch code {
	case 1, 7:
		key = input.KeyHome
	case 3:
		key = input.KeyDelete
	case 4, 8:
		key = input.KeyEnd
	case 5:
		key = input.KeyPageUp
	case 6:
		key = input.KeyPageDown
	default:
		return input.KeyEvent{}, false
	}
	return input.KeyEvent{Key: key, Mods: mods}, true
}
