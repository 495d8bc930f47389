// Copyright © 2025 neovim-ink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: input/mouse.go
// Summary: Classifies and parses SGR mouse escape sequences.
// Usage: IsMouseSequence is the cheap gate run on every input chunk;
//        ParseMouseEvent does the full decode.

package input

import "strings"

// MouseButton names the button a mouse event refers to.
type MouseButton string

const (
	ButtonLeft   MouseButton = "left"
	ButtonMiddle MouseButton = "middle"
	ButtonRight  MouseButton = "right"
	ButtonWheel  MouseButton = "wheel"
)

// MouseAction is what the button did.
type MouseAction string

const (
	ActionPress      MouseAction = "press"
	ActionRelease    MouseAction = "release"
	ActionDrag       MouseAction = "drag"
	ActionScrollUp   MouseAction = "scroll_up"
	ActionScrollDown MouseAction = "scroll_down"
)

// MouseEvent is one decoded SGR mouse event. Col and Row are 0-indexed.
type MouseEvent struct {
	Button MouseButton
	Action MouseAction
	Mods   Modifiers
	Col    int
	Row    int
}

// Button-code bit layout of the SGR encoding.
const (
	mouseButtonMask = 0x03
	mouseShiftBit   = 4
	mouseAltBit     = 8
	mouseCtrlBit    = 16
	mouseDragBit    = 32
	mouseWheelBit   = 64
)

// IsMouseSequence reports whether s could be an SGR mouse sequence, with or
// without the leading escape byte (some input layers strip it). This is a
// prefix and length check only; it runs on every keystroke and must stay
// cheap.
func IsMouseSequence(s string) bool {
	if strings.HasPrefix(s, "\x1b[<") {
		return len(s) >= 9
	}
	if strings.HasPrefix(s, "[<") {
		return len(s) >= 8
	}
	return false
}

// ParseMouseEvent decodes the full <Cb;Cx;Cy(M|m) pattern. It returns false
// for anything that does not match exactly.
func ParseMouseEvent(s string) (MouseEvent, bool) {
	s = strings.TrimPrefix(s, "\x1b")
	if !strings.HasPrefix(s, "[<") {
		return MouseEvent{}, false
	}
	body := s[2:]
	if len(body) == 0 {
		return MouseEvent{}, false
	}

	final := body[len(body)-1]
	if final != 'M' && final != 'm' {
		return MouseEvent{}, false
	}
	fields := strings.Split(body[:len(body)-1], ";")
	if len(fields) != 3 {
		return MouseEvent{}, false
	}
	code, ok := parseDecimal(fields[0])
	if !ok {
		return MouseEvent{}, false
	}
	col, ok := parseDecimal(fields[1])
	if !ok {
		return MouseEvent{}, false
	}
	row, ok := parseDecimal(fields[2])
	if !ok {
		return MouseEvent{}, false
	}

	ev := MouseEvent{Col: col - 1, Row: row - 1}
	if code&mouseShiftBit != 0 {
		ev.Mods |= ModShift
	}
	if code&mouseAltBit != 0 {
		ev.Mods |= ModAlt
	}
	if code&mouseCtrlBit != 0 {
		ev.Mods |= ModCtrl
	}

	switch {
	case code&mouseWheelBit != 0:
		ev.Button = ButtonWheel
		if code&1 == 0 {
			ev.Action = ActionScrollUp
		} else {
			ev.Action = ActionScrollDown
		}
	default:
		switch code & mouseButtonMask {
		case 0:
			ev.Button = ButtonLeft
		case 1:
			ev.Button = ButtonMiddle
		case 2:
			ev.Button = ButtonRight
		default:
			// Button 3 is "no button"; it only shows up with motion
			// tracking modes this client does not enable.
			return MouseEvent{}, false
		}
		switch {
		case final == 'm':
			ev.Action = ActionRelease
		case code&mouseDragBit != 0:
			ev.Action = ActionDrag
		default:
			ev.Action = ActionPress
		}
	}
	return ev, true
}

// parseDecimal is a strict non-empty digits-only atoi; strconv would accept
// signs and spaces the wire format never carries.
func parseDecimal(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
