// Copyright © 2025 neovim-ink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: redraw/decode.go
// Summary: Converts loosely typed protocol tuples into typed redraw events.
// Usage: Called by the router for every tuple of every batch; anything that
//        fails to decode into a known shape is reported, never applied.

package redraw

import (
	"errors"
	"fmt"

	"github.com/ohwang/neovim-ink/grid"
)

var errShortTuple = errors.New("redraw: tuple has too few elements")

// Decode converts one positional parameter tuple for the named event into
// its typed variant. Unknown names yield (nil, nil): the caller decides
// whether the name is an allow-listed no-op or worth a diagnostic. Tuples
// longer than documented are accepted; trailing elements (cterm attributes,
// wrap flags, info arrays) are ignored.
func Decode(name string, tuple []any) (Event, error) {
	switch name {
	case "grid_resize":
		if len(tuple) < 3 {
			return nil, errShortTuple
		}
		return GridResize{Grid: asInt(tuple[0]), Width: asInt(tuple[1]), Height: asInt(tuple[2])}, nil

	case "grid_line":
		if len(tuple) < 4 {
			return nil, errShortTuple
		}
		runs, err := decodeRuns(tuple[3])
		if err != nil {
			return nil, err
		}
		return GridLine{
			Grid:     asInt(tuple[0]),
			Row:      asInt(tuple[1]),
			StartCol: asInt(tuple[2]),
			Runs:     runs,
		}, nil

	case "grid_cursor_goto":
		if len(tuple) < 3 {
			return nil, errShortTuple
		}
		return GridCursorGoto{Grid: asInt(tuple[0]), Row: asInt(tuple[1]), Col: asInt(tuple[2])}, nil

	case "grid_scroll":
		if len(tuple) < 6 {
			return nil, errShortTuple
		}
		return GridScroll{
			Grid:  asInt(tuple[0]),
			Top:   asInt(tuple[1]),
			Bot:   asInt(tuple[2]),
			Left:  asInt(tuple[3]),
			Right: asInt(tuple[4]),
			Delta: asInt(tuple[5]),
		}, nil

	case "grid_clear":
		if len(tuple) < 1 {
			return nil, errShortTuple
		}
		return GridClear{Grid: asInt(tuple[0])}, nil

	case "hl_attr_define":
		if len(tuple) < 2 {
			return nil, errShortTuple
		}
		attrs, err := decodeAttrs(tuple[1])
		if err != nil {
			return nil, err
		}
		return HlAttrDefine{ID: asInt(tuple[0]), Attrs: attrs}, nil

	case "default_colors_set":
		if len(tuple) < 3 {
			return nil, errShortTuple
		}
		return DefaultColorsSet{
			Fg:      asColor(tuple[0]),
			Bg:      asColor(tuple[1]),
			Special: asColor(tuple[2]),
		}, nil

	case "mode_info_set":
		if len(tuple) < 2 {
			return nil, errShortTuple
		}
		modes, err := decodeModeList(tuple[1])
		if err != nil {
			return nil, err
		}
		return ModeInfoSet{CursorStyleEnabled: asBool(tuple[0]), Modes: modes}, nil

	case "mode_change":
		if len(tuple) < 2 {
			return nil, errShortTuple
		}
		return ModeChange{Name: asString(tuple[0]), Index: asInt(tuple[1])}, nil

	case "busy_start":
		return BusyStart{}, nil
	case "busy_stop":
		return BusyStop{}, nil
	case "flush":
		return Flush{}, nil
	}
	return nil, nil
}

// decodeRuns unpacks a grid_line cell array: each element is
// [text, hl_id?, repeat?]; a missing hl_id inherits the previous run's.
func decodeRuns(v any) ([]grid.Run, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("redraw: cell array is %T, want array", v)
	}
	runs := make([]grid.Run, 0, len(list))
	for _, el := range list {
		cell, ok := el.([]any)
		if !ok || len(cell) == 0 {
			return nil, fmt.Errorf("redraw: cell entry is %T, want non-empty array", el)
		}
		run := grid.Run{Text: asString(cell[0]), HlID: -1}
		if len(cell) > 1 {
			run.HlID = asInt(cell[1])
		}
		if len(cell) > 2 {
			run.Repeat = asInt(cell[2])
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func decodeAttrs(v any) (grid.HighlightAttrs, error) {
	m, err := asMap(v)
	if err != nil {
		return grid.HighlightAttrs{}, err
	}
	attrs := grid.NewHighlightAttrs()
	for key, val := range m {
		switch key {
		case "foreground":
			attrs.Fg = asColor(val)
		case "background":
			attrs.Bg = asColor(val)
		case "special":
			attrs.Special = asColor(val)
		case "reverse":
			attrs.Reverse = asBool(val)
		case "italic":
			attrs.Italic = asBool(val)
		case "bold":
			attrs.Bold = asBool(val)
		case "strikethrough":
			attrs.Strikethrough = asBool(val)
		case "dim":
			attrs.Dim = asBool(val)
		case "underline":
			attrs.Underline = asBool(val)
		case "undercurl":
			attrs.Undercurl = asBool(val)
		case "underdouble":
			attrs.Underdouble = asBool(val)
		case "underdotted":
			attrs.Underdotted = asBool(val)
		case "underdashed":
			attrs.Underdashed = asBool(val)
		case "blend":
			attrs.Blend = asInt(val)
		}
	}
	return attrs, nil
}

func decodeModeList(v any) ([]grid.ModeInfo, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("redraw: mode list is %T, want array", v)
	}
	modes := make([]grid.ModeInfo, 0, len(list))
	for _, el := range list {
		m, err := asMap(el)
		if err != nil {
			return nil, err
		}
		var mode grid.ModeInfo
		for key, val := range m {
			switch key {
			case "cursor_shape":
				mode.Shape = grid.ShapeFromName(asString(val))
			case "cell_percentage":
				mode.CellPercentage = asInt(val)
			case "attr_id":
				mode.AttrID = asInt(val)
			case "name":
				mode.Name = asString(val)
			case "short_name":
				mode.ShortName = asString(val)
			}
		}
		modes = append(modes, mode)
	}
	return modes, nil
}

// asMap accepts both map shapes the msgpack decoder can produce.
func asMap(v any) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[asString(k)] = val
		}
		return out, nil
	default:
		return nil, fmt.Errorf("redraw: expected map, got %T", v)
	}
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint:
		return int(n)
	case uint8:
		return int(n)
	case uint16:
		return int(n)
	case uint32:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	default:
		return 0
	}
}

// asColor maps the protocol's color integers onto grid.Color, preserving
// the -1 "no change" sentinel.
func asColor(v any) grid.Color {
	if v == nil {
		return grid.ColorNone
	}
	n := asInt(v)
	if n < 0 {
		return grid.ColorNone
	}
	return grid.Color(n)
}

func asBool(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return ""
	}
}
