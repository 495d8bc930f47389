// Copyright © 2025 neovim-ink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: input/key.go
// Summary: Maps decoded keypresses to the editor's key-notation strings.

package input

import "unicode/utf8"

// Key identifies a non-character key. Character keys use KeyRune with the
// character in KeyEvent.Ch.
type Key uint8

const (
	KeyRune Key = iota
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyTab

	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
)

// KeyEvent is one decoded keypress: a key (or character) plus the modifier
// set that was held.
type KeyEvent struct {
	Key  Key
	Ch   string
	Mods Modifiers
}

var navNames = map[Key]string{
	KeyUp:       "Up",
	KeyDown:     "Down",
	KeyLeft:     "Left",
	KeyRight:    "Right",
	KeyPageUp:   "PageUp",
	KeyPageDown: "PageDown",
	KeyHome:     "Home",
	KeyEnd:      "End",
}

// KeyDecoder turns key events into notation strings. The zero value
// coalesces Backspace and Delete into <BS>, matching input layers that
// cannot tell the two keys apart; DistinguishDelete turns Delete back into
// <Del> on terminals that report it correctly.
type KeyDecoder struct {
	DistinguishDelete bool
}

// Notation returns the editor notation for ev. Decoding is pure and
// first-match-wins: Enter, Escape, Backspace/Delete, Tab, navigation keys,
// ctrl-, alt-, then literal characters with the protocol's escapes.
func (d KeyDecoder) Notation(ev KeyEvent) string {
	switch ev.Key {
	case KeyEnter:
		return "<CR>"
	case KeyEscape:
		return "<Esc>"
	case KeyBackspace:
		return "<BS>"
	case KeyDelete:
		if d.DistinguishDelete {
			return "<Del>"
		}
		return "<BS>"
	case KeyTab:
		if ev.Mods.Has(ModShift) {
			return "<S-Tab>"
		}
		return "<Tab>"
	}

	if name, ok := navNames[ev.Key]; ok {
		return "<" + modPrefix(ev.Mods) + name + ">"
	}

	singleChar := utf8.RuneCountInString(ev.Ch) == 1
	if ev.Mods.Has(ModCtrl) && singleChar {
		return "<C-" + ev.Ch + ">"
	}
	if ev.Mods.Has(ModAlt) && singleChar {
		return "<A-" + ev.Ch + ">"
	}

	switch ev.Ch {
	case "<":
		return "<lt>"
	case "\\":
		return "<Bslash>"
	case "|":
		return "<Bar>"
	case " ":
		return "<Space>"
	}
	return ev.Ch
}

// modPrefix concatenates the markers for the held modifiers in the fixed
// shift, ctrl, alt order.
func modPrefix(mods Modifiers) string {
	s := ""
	if mods.Has(ModShift) {
		s += "S-"
	}
	if mods.Has(ModCtrl) {
		s += "C-"
	}
	if mods.Has(ModAlt) {
		s += "A-"
	}
	return s
}
