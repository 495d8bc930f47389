package redraw

import (
	"testing"

	"github.com/ohwang/neovim-ink/grid"
)

func TestDecodeToleratesWireTypes(t *testing.T) {
	// Integers can arrive as any width, strings as byte slices, maps with
	// interface keys, depending on how the peer packed them.
	ev, err := Decode("grid_line", []any{uint64(1), uint8(0), float64(2), []any{
		[]any{[]byte("a"), uint16(3), int32(2)},
	}})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	line, ok := ev.(GridLine)
	if !ok {
		t.Fatalf("decoded %T", ev)
	}
	if line.Row != 0 || line.StartCol != 2 {
		t.Fatalf("line = %+v", line)
	}
	if len(line.Runs) != 1 || line.Runs[0].Text != "a" || line.Runs[0].HlID != 3 || line.Runs[0].Repeat != 2 {
		t.Fatalf("runs = %+v", line.Runs)
	}
}

func TestDecodeAttrsInterfaceKeyedMap(t *testing.T) {
	ev, err := Decode("hl_attr_define", []any{int64(2), map[any]any{
		"background": int64(0x0000FF),
		"reverse":    true,
	}})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	def := ev.(HlAttrDefine)
	if def.ID != 2 || def.Attrs.Bg != 0x0000FF || !def.Attrs.Reverse {
		t.Fatalf("decoded %+v", def)
	}
	if def.Attrs.Fg != grid.ColorNone {
		t.Fatalf("absent foreground should be unset, got %v", def.Attrs.Fg)
	}
}

func TestDecodeRunWithoutHlInherits(t *testing.T) {
	ev, err := Decode("grid_line", []any{int64(1), int64(0), int64(0), []any{
		[]any{"a", int64(5)},
		[]any{"b"},
	}})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	runs := ev.(GridLine).Runs
	if runs[1].HlID != -1 {
		t.Fatalf("run without hl id should carry the inherit marker, got %d", runs[1].HlID)
	}
}

func TestDecodeUnknownName(t *testing.T) {
	ev, err := Decode("popupmenu_show", []any{int64(1)})
	if err != nil || ev != nil {
		t.Fatalf("unknown names must decode to (nil, nil), got %v, %v", ev, err)
	}
}

func TestDecodeShortTuple(t *testing.T) {
	for _, name := range []string{"grid_resize", "grid_line", "grid_cursor_goto",
		"grid_scroll", "grid_clear", "hl_attr_define", "default_colors_set",
		"mode_info_set", "mode_change"} {
		if _, err := Decode(name, []any{}); err == nil {
			t.Errorf("%s with empty tuple should fail", name)
		}
	}
}

func TestDecodeDefaultColorsSentinel(t *testing.T) {
	ev, err := Decode("default_colors_set", []any{int64(-1), int64(0x102030), int64(-1)})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	colors := ev.(DefaultColorsSet)
	if colors.Fg != grid.ColorNone || colors.Special != grid.ColorNone {
		t.Fatalf("sentinels lost: %+v", colors)
	}
	if colors.Bg != 0x102030 {
		t.Fatalf("bg = %v", colors.Bg)
	}
}
